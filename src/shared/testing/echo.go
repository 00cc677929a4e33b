package testing

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func PrepareEchoContext(request *http.Request, response http.ResponseWriter, paramNames []string, paramValues []string) echo.Context {
	e := echo.New()
	c := e.NewContext(request, response)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	return c
}
