package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func registerActuatorEndpoints(rest *echo.Echo, source ActuatorSource) {
	group := rest.Group("/actuator")

	group.GET("/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, source.ActuatorState(), indentationChar)
	})
}
