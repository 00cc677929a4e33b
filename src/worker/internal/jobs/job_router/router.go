package job_router

import (
	"context"

	"github.com/apex/log"
	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
	"github.com/veedubyou/stem-separator/src/worker/internal/jobs/separate"
	"github.com/veedubyou/stem-separator/src/worker/internal/separation"
)

func NewJobRouter(timelineStore timelineentity.Store, separateHandler separate.SeparateJobHandler) JobRouter {
	return JobRouter{
		timelineStore:   timelineStore,
		separateHandler: separateHandler,
	}
}

type JobRouter struct {
	timelineStore   timelineentity.Store
	separateHandler separate.SeparateJobHandler
}

func (j JobRouter) HandleMessage(message amqp091.Delivery) error {
	ctx := context.Background()

	switch message.Type {
	case separate.JobType:
		return j.handleSeparateJob(ctx, message.Body)

	default:
		return cerr.Field("message_type", message.Type).Error("Message type cannot be handled")
	}
}

func (j JobRouter) handleSeparateJob(ctx context.Context, body []byte) error {
	params, placed, err := j.separateHandler.HandleSeparateJob(ctx, body)
	if err != nil {
		err = cerr.Wrap(err).Error(separate.ErrorMessage)
		if params.TimelineID != "" {
			j.recordResult(ctx, params.TimelineID, separation.UserMessage(err))
		}
		return err
	}

	j.recordResult(ctx, params.TimelineID, "")

	log.WithFields(log.Fields{
		"timelineID": params.TimelineID,
		"stems":      params.Stems,
		"placed":     len(placed),
	}).Info("Separated active clip")

	return nil
}

// recordResult leaves the outcome on the timeline for whoever polls it,
// an empty message clears a previous failure
func (j JobRouter) recordResult(ctx context.Context, timelineID string, userMessage string) {
	updater := func(timeline timelineentity.Timeline) (timelineentity.Timeline, error) {
		if userMessage == "" {
			timeline.ClearSeparationError()
		} else {
			timeline.SetSeparationError(userMessage)
		}
		return timeline, nil
	}

	if err := j.timelineStore.UpdateTimeline(ctx, timelineID, updater); err != nil {
		err = cerr.Field("timeline_id", timelineID).
			Wrap(err).Error("Failed to record the separation result on the timeline")
		cerr.Log(err)
	}
}
