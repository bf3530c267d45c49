package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lux2go/lux2go/internal/connection"
)

type sessionResponse struct {
	connection.SessionState
	Counters connection.Counters `json:"counters"`
}

func registerSessionEndpoints(rest *echo.Echo, source SessionSource) {
	group := rest.Group("/session")

	group.GET("/", func(c echo.Context) error {
		return c.JSONPretty(http.StatusOK, sessionResponse{
			SessionState: source.State(),
			Counters:     source.Counters(),
		}, indentationChar)
	})
}
