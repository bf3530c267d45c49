package sensors

import (
	"fmt"
	"time"
)

// PhysicalSample is a single converted reading of one channel
type PhysicalSample struct {
	Channel int       `json:"channel"`
	Raw     uint16    `json:"raw"`
	Lux     float64   `json:"lux"`
	Time    time.Time `json:"time"`
}

// FilteredSample is the smoothed illuminance of one channel at a point in time
type FilteredSample struct {
	Lux  float64   `json:"lux"`
	Time time.Time `json:"time"`
}

// ChannelName returns the display name of the channel with the given index
func ChannelName(index int) string {
	return fmt.Sprintf("photo%d", index+1)
}
