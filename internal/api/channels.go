package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lux2go/lux2go/internal/sensors"
	"github.com/qdm12/reprint"
)

func registerChannelEndpoints(rest *echo.Echo) {
	group := rest.Group("/channel")

	group.GET("/", getChannels)
	group.GET("/:"+urlParamId+"/", getChannel)
	group.GET("/:"+urlParamId+"/history/", getChannelHistory)
}

func getChannels(c echo.Context) error {
	var snapshots []sensors.ChannelSnapshot
	for _, channel := range sensors.GetChannels() {
		snapshots = append(snapshots, channel.Snapshot())
	}
	return c.JSONPretty(http.StatusOK, snapshots, indentationChar)
}

func getChannel(c echo.Context) error {
	id := c.Param(urlParamId)

	channel, exists := sensors.ChannelMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, channel.Snapshot(), indentationChar)
}

func getChannelHistory(c echo.Context) error {
	id := c.Param(urlParamId)

	channel, exists := sensors.ChannelMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	// the history slice is shared with the control loop
	data := reprint.This(channel.History())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}
