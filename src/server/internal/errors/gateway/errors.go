package gateway

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/veedubyou/stem-separator/src/server/api_error"
	"github.com/veedubyou/stem-separator/src/server/internal/errors/api"
	"github.com/veedubyou/stem-separator/src/server/internal/timeline/errors"
	"github.com/veedubyou/stem-separator/src/shared/lib/cerr"
)

var httpStatusCodeMap = map[api.ErrorCode]int{
	api.DefaultErrorCode:                     http.StatusInternalServerError,
	timelineerrors.TimelineNotFoundCode:      http.StatusNotFound,
	timelineerrors.BadTimelineDataCode:       http.StatusBadRequest,
	timelineerrors.TimelineSizeExceededCode:  http.StatusBadRequest,
	timelineerrors.NoActiveSoundClipCode:     http.StatusUnprocessableEntity,
	timelineerrors.InvalidStemCountCode:      http.StatusBadRequest,
	timelineerrors.BadSeparationRequestCode:  http.StatusBadRequest,
	timelineerrors.SeparationUnavailableCode: http.StatusServiceUnavailable,
}

func ErrorResponse(c echo.Context, err *api.Error) error {
	statusCode, ok := httpStatusCodeMap[err.ErrorCode]
	if !ok {
		msg := fmt.Sprintf("Error code %s has no HTTP status code mapping", err.ErrorCode)
		panic(msg)
	}

	if statusCode >= http.StatusInternalServerError {
		cerr.Log(err.InternalError)
	}

	body := api_error.NewBody(statusCode, string(err.ErrorCode), err.UserMessage, err.Error())
	return c.JSON(statusCode, body)
}
