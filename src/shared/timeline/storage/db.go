package timelinestorage

import (
	"context"

	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/errors/markers"
	"github.com/guregu/dynamo"
	"github.com/veedubyou/stem-separator/src/shared/lib/dynamo"
	"github.com/veedubyou/stem-separator/src/shared/lib/errors/mark"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
)

const (
	TimelinesTable        = "Timelines"
	existingTimelineCheck = "attribute_exists(" + idKey + ")"
)

var _ timelineentity.Store = DB{}

type DB struct {
	dynamoDB dynamolib.DynamoDBWrapper
}

func NewDB(dynamoDB dynamolib.DynamoDBWrapper) DB {
	return DB{
		dynamoDB: dynamoDB,
	}
}

func (d DB) GetTimeline(ctx context.Context, timelineID string) (timelineentity.Timeline, error) {
	if timelineID == "" {
		return timelineentity.Timeline{}, mark.Message(IDEmptyMark, "No ID provided to fetch timeline")
	}

	value := dbTimeline{}
	err := d.dynamoDB.Table(TimelinesTable).
		Get(idKey, timelineID).
		OneWithContext(ctx, &value)

	if err != nil {
		switch {
		case markers.Is(err, UnmarshalMark):
			return timelineentity.Timeline{}, errors.Wrap(err, "Failed to fetch timeline")
		case errors.Is(err, dynamo.ErrNotFound):
			return timelineentity.Timeline{}, mark.Wrap(err, TimelineNotFound, "Timeline is not found")
		default:
			return timelineentity.Timeline{}, mark.Wrap(err, DefaultErrorMark, "Failed to fetch timeline")
		}
	}

	timeline := timelineentity.Timeline{}
	err = timeline.FromMap(value)
	if err != nil {
		return timelineentity.Timeline{},
			mark.Wrap(err, UnmarshalMark, "Failed to transform DB map back to entity timeline")
	}

	return timeline, nil
}

func (d DB) SetTimeline(ctx context.Context, timeline timelineentity.Timeline) error {
	dbObject, err := validateAndMarshal(timeline)
	if err != nil {
		return err
	}

	err = d.dynamoDB.Table(TimelinesTable).Put(dbObject).RunWithContext(ctx)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "Failed to put the timeline in the DB")
	}

	return nil
}

// UpdateTimeline is a read-modify-write, the put only lands if the timeline still exists
func (d DB) UpdateTimeline(ctx context.Context, timelineID string, updater timelineentity.TimelineUpdater) error {
	timeline, err := d.GetTimeline(ctx, timelineID)
	if err != nil {
		return errors.Wrap(err, "Can't find the timeline to update")
	}

	updated, err := updater(timeline)
	if err != nil {
		return mark.Wrap(err, DefaultErrorMark, "The updater failed to make changes to the timeline")
	}

	// the updater doesn't get to move the document
	updated.Defined.ID = timelineID
	updated.EnsureClipIDs()

	dbObject, err := validateAndMarshal(updated)
	if err != nil {
		return err
	}

	err = d.dynamoDB.Table(TimelinesTable).
		Put(dbObject).
		If(existingTimelineCheck).
		RunWithContext(ctx)

	if err != nil {
		if conditionalCheckFailed(err) {
			return mark.Wrap(err, TimelineNotFound, "Timeline disappeared during the update")
		}

		return mark.Wrap(err, DefaultErrorMark, "Failed to put the updated timeline in the DB")
	}

	return nil
}

func validateAndMarshal(timeline timelineentity.Timeline) (map[string]any, error) {
	if timeline.Defined.ID == "" {
		return nil, mark.Message(IDEmptyMark, "ID is not defined on timeline")
	}

	if len(timeline.Defined.Clips) > timelineentity.MaxClips {
		return nil, mark.Message(ClipSizeExceeded, "The timeline has more clips than allowed")
	}

	for _, clip := range timeline.Defined.Clips {
		if clip.GetID() == "" {
			return nil, mark.Message(IDEmptyMark, "A clip in the timeline has an empty ID")
		}
	}

	dbObject, err := timeline.ToMap()
	if err != nil {
		return nil, mark.Wrap(err, MarshalMark,
			"Failed to transform entity timeline to a generic map object")
	}

	return dbObject, nil
}

func conditionalCheckFailed(err error) bool {
	var conditionErr *dynamodb.ConditionalCheckFailedException
	return errors.As(err, &conditionErr)
}
