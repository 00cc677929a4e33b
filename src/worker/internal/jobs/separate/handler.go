package separate

import (
	"context"

	"github.com/veedubyou/stem-separator/src/shared/jobs"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
	"github.com/veedubyou/stem-separator/src/shared/stems"
	"github.com/veedubyou/stem-separator/src/worker/internal/planner"
)

//go:generate go run github.com/maxbrunsfeld/counterfeiter/v6 -generate

const JobType = jobs.SeparateStemsJobType
const ErrorMessage string = "Failed to separate the active clip into stems"

type Operator interface {
	SeparateActiveClip(ctx context.Context, timelineID string, count stems.Count) ([]planner.PlacedClip, error)
}

//counterfeiter:generate . SeparateJobHandler
type SeparateJobHandler interface {
	HandleSeparateJob(ctx context.Context, message []byte) (jobs.SeparateStemsParams, []planner.PlacedClip, error)
}

var _ SeparateJobHandler = JobHandler{}

func NewJobHandler(operator Operator) JobHandler {
	return JobHandler{
		operator: operator,
	}
}

type JobHandler struct {
	operator Operator
}

func (j JobHandler) HandleSeparateJob(ctx context.Context, message []byte) (jobs.SeparateStemsParams, []planner.PlacedClip, error) {
	params, err := jobs.ParseSeparateStemsMessage(message)
	if err != nil {
		return jobs.SeparateStemsParams{}, nil, cerr.Wrap(err).Error("Failed to parse separate job message")
	}

	errctx := cerr.Field("job_params", params)

	placed, err := j.operator.SeparateActiveClip(ctx, params.TimelineID, params.Stems)
	if err != nil {
		return params, nil, errctx.Wrap(err).Error("Failed to separate the active clip")
	}

	return params, placed, nil
}
