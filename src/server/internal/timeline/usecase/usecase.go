package timelineusecase

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/veedubyou/stem-separator/src/server/internal/errors/api"
	"github.com/veedubyou/stem-separator/src/server/internal/timeline/errors"
	"github.com/veedubyou/stem-separator/src/shared/jobs"
	"github.com/veedubyou/stem-separator/src/shared/lib/rabbitmq"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
	"github.com/veedubyou/stem-separator/src/shared/timeline/storage"
)

type Usecase struct {
	db        timelineentity.Store
	publisher rabbitmq.Publisher
}

func NewUsecase(db timelineentity.Store, publisher rabbitmq.Publisher) Usecase {
	return Usecase{
		db:        db,
		publisher: publisher,
	}
}

func (u Usecase) GetTimeline(ctx context.Context, timelineID string) (timelineentity.Timeline, *api.Error) {
	timeline, err := u.db.GetTimeline(ctx, timelineID)
	if err != nil {
		err = errors.Wrap(err, "Failed to get timeline from DB")
		switch {
		case markers.Is(err, timelinestorage.TimelineNotFound):
			return timelineentity.Timeline{}, api.CommitError(err,
				timelineerrors.TimelineNotFoundCode,
				"The timeline could not be found")

		case markers.Is(err, timelinestorage.UnmarshalMark):
			fallthrough
		case markers.Is(err, timelinestorage.DefaultErrorMark):
			fallthrough
		default:
			return timelineentity.Timeline{}, api.CommitError(err,
				api.DefaultErrorCode,
				"Unknown Error: Failed to fetch the timeline")
		}
	}

	return timeline, nil
}

func (u Usecase) SetTimeline(ctx context.Context, timelineID string, timeline timelineentity.Timeline) (timelineentity.Timeline, *api.Error) {
	// the path is the source of truth for the ID
	timeline.Defined.ID = timelineID
	timeline.EnsureClipIDs()

	err := u.db.SetTimeline(ctx, timeline)
	if err != nil {
		err = errors.Wrap(err, "Failed to set timeline")
		switch {
		case markers.Is(err, timelinestorage.ClipSizeExceeded):
			return timelineentity.Timeline{}, api.CommitError(err,
				timelineerrors.TimelineSizeExceededCode,
				"The amount of clips in the timeline has exceeded the maximum")
		case markers.Is(err, timelinestorage.IDEmptyMark):
			fallthrough
		case markers.Is(err, timelinestorage.DefaultErrorMark):
			fallthrough
		default:
			return timelineentity.Timeline{}, api.CommitError(err,
				api.DefaultErrorCode,
				"Unknown error: Failed to save the timeline. Please contact the developer")
		}
	}

	return timeline, nil
}

// RequestSeparation checks what can be checked without the audio, then queues the job
func (u Usecase) RequestSeparation(ctx context.Context, timelineID string, stemCount string) (jobs.SeparateStemsParams, *api.Error) {
	count, err := stems.ParseCount(stemCount)
	if err != nil {
		return jobs.SeparateStemsParams{}, api.CommitError(err,
			timelineerrors.InvalidStemCountCode,
			"Stems can only be split 2, 4 or 5 ways")
	}

	timeline, apiErr := u.GetTimeline(ctx, timelineID)
	if apiErr != nil {
		return jobs.SeparateStemsParams{}, api.WrapError(apiErr, "Failed to load timeline for separation")
	}

	if _, err := timeline.ActiveClip(); err != nil {
		return jobs.SeparateStemsParams{}, api.CommitError(err,
			timelineerrors.NoActiveSoundClipCode,
			"No sound clip is the active clip")
	}

	if err := timeline.EnsureRoomFor(len(count.Roles())); err != nil {
		return jobs.SeparateStemsParams{}, api.CommitError(err,
			timelineerrors.TimelineSizeExceededCode,
			"The timeline has no room for the stems")
	}

	params := jobs.SeparateStemsParams{
		TimelineID: timelineID,
		Stems:      count,
	}

	message, err := jobs.NewSeparateStemsMessage(params)
	if err != nil {
		return jobs.SeparateStemsParams{}, api.CommitError(err,
			api.DefaultErrorCode,
			"Unknown error: Failed to create the separation job")
	}

	if err := u.publisher.Publish(message); err != nil {
		err = errors.Wrap(err, "Failed to publish separation job")
		return jobs.SeparateStemsParams{}, api.CommitError(err,
			timelineerrors.SeparationUnavailableCode,
			"Separation is unavailable right now, please try again later")
	}

	return params, nil
}
