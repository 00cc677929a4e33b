package timelinegateway

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-separator/src/server/internal/errors/api"
	"github.com/veedubyou/stem-separator/src/server/internal/errors/gateway"
	"github.com/veedubyou/stem-separator/src/server/internal/lib/request"
	"github.com/veedubyou/stem-separator/src/server/internal/timeline/errors"
	"github.com/veedubyou/stem-separator/src/server/internal/timeline/usecase"
	"github.com/veedubyou/stem-separator/src/shared/timeline/entity"
)

type Gateway struct {
	usecase timelineusecase.Usecase
}

func NewGateway(usecase timelineusecase.Usecase) Gateway {
	return Gateway{
		usecase: usecase,
	}
}

func (g Gateway) GetTimeline(c echo.Context, timelineID string) error {
	ctx := request.Context(c)

	timeline, apiErr := g.usecase.GetTimeline(ctx, timelineID)
	if apiErr != nil {
		apiErr = api.WrapError(apiErr, "Failed to get timeline")
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, timeline)
}

func (g Gateway) SetTimeline(c echo.Context, timelineID string) error {
	ctx := request.Context(c)

	timeline := timelineentity.Timeline{}
	err := c.Bind(&timeline)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to timeline object")
		apiErr := api.CommitError(err,
			timelineerrors.BadTimelineDataCode,
			"The timeline data received was malformed. Please contact the developer")
		return gateway.ErrorResponse(c, apiErr)
	}

	newTimeline, apiErr := g.usecase.SetTimeline(ctx, timelineID, timeline)
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusOK, newTimeline)
}

// stems may arrive as "4" or 4
type separationRequest struct {
	Stems json.Number `json:"stems"`
}

func (g Gateway) RequestSeparation(c echo.Context, timelineID string) error {
	ctx := request.Context(c)

	body := separationRequest{}
	err := c.Bind(&body)
	if err != nil {
		err = errors.Wrap(err, "Failed to bind request body to separation request")
		apiErr := api.CommitError(err,
			timelineerrors.BadSeparationRequestCode,
			"The separation request was malformed, it needs a stem count")
		return gateway.ErrorResponse(c, apiErr)
	}

	params, apiErr := g.usecase.RequestSeparation(ctx, timelineID, body.Stems.String())
	if apiErr != nil {
		return gateway.ErrorResponse(c, apiErr)
	}

	return c.JSON(http.StatusAccepted, params)
}
