package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lux2go/lux2go/internal/actuator"
	"github.com/lux2go/lux2go/internal/connection"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	urlParamId      = "id"
	indentationChar = "  "
)

type (
	Result struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	}

	SessionSource interface {
		State() connection.SessionState
		Counters() connection.Counters
	}

	ActuatorSource interface {
		ActuatorState() actuator.State
	}

	// Sources are the read-only views of the daemon exposed by the api
	Sources struct {
		Session  SessionSource
		Actuator ActuatorSource
		// Registerer receives the request metrics, nil disables them
		Registerer prometheus.Registerer
	}
)

func CreateRestService(sources Sources) *echo.Echo {
	echoRest := echo.New()
	echoRest.HideBanner = true
	echoRest.HidePort = true

	// Root level middleware
	echoRest.Pre(middleware.AddTrailingSlash())

	echoRest.Use(middleware.Secure())
	echoRest.Use(middleware.Recover())
	if sources.Registerer != nil {
		echoRest.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "lux2go",
			Subsystem:  "api",
			Registerer: sources.Registerer,
		}))
	}

	echoRest.GET("/alive/", isAlive)

	registerChannelEndpoints(echoRest)
	registerActuatorEndpoints(echoRest, sources.Actuator)
	registerSessionEndpoints(echoRest, sources.Session)

	return echoRest
}

// returns an empty "ok" answer
func isAlive(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

// return a "not found" message
func returnNotFound(c echo.Context, id string) (err error) {
	return c.JSONPretty(http.StatusNotFound, &Result{
		Name:    "Not found",
		Message: "No item with id '" + id + "' found",
	}, indentationChar)
}
