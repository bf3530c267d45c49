package sensors

import (
	"sort"
	"time"

	"github.com/asecurityteam/rolling"
	"github.com/lux2go/lux2go/internal/util"
	cmap "github.com/orcaman/concurrent-map/v2"
)

var (
	// ChannelMap holds all known sensor channels by name
	ChannelMap = cmap.New[*Channel]()
)

// Channel is the externally visible state of one light sensor.
// The control loop is the only writer, collaborators like the api
// or the statistics exporter only read from it.
type Channel struct {
	Index int
	Name  string

	sample     util.Cell[PhysicalSample]
	filtered   util.Cell[FilteredSample]
	history    util.Cell[[]float64]
	window     *rolling.PointPolicy
	windowSize int
}

// ChannelSnapshot is a consistent copy of the channel state for serialization
type ChannelSnapshot struct {
	Index       int       `json:"index"`
	Name        string    `json:"name"`
	Raw         uint16    `json:"raw"`
	Lux         float64   `json:"lux"`
	FilteredLux float64   `json:"filteredLux"`
	Time        time.Time `json:"time"`
	WindowMin   float64   `json:"windowMin"`
	WindowMax   float64   `json:"windowMax"`
	WindowAvg   float64   `json:"windowAvg"`
	Valid       bool      `json:"valid"`
}

func NewChannel(index int, windowSize int) *Channel {
	return &Channel{
		Index:      index,
		Name:       ChannelName(index),
		window:     util.CreateRollingWindow(windowSize),
		windowSize: windowSize,
	}
}

// RegisterChannels creates and registers one channel per index
func RegisterChannels(count int, windowSize int) []*Channel {
	var result []*Channel
	for i := 0; i < count; i++ {
		c := NewChannel(i, windowSize)
		ChannelMap.Set(c.Name, c)
		result = append(result, c)
	}
	return result
}

// GetChannels returns all registered channels ordered by index
func GetChannels() []*Channel {
	result := make([]*Channel, 0, ChannelMap.Count())
	for _, c := range ChannelMap.Items() {
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Index < result[j].Index
	})
	return result
}

func (c *Channel) PublishSample(sample PhysicalSample) {
	if _, ok := c.sample.Load(); !ok {
		// the window starts out zeroed, prime it with the first value
		for i := 0; i < c.windowSize; i++ {
			c.window.Append(sample.Lux)
		}
	} else {
		c.window.Append(sample.Lux)
	}
	c.sample.Store(sample)
}

func (c *Channel) PublishFiltered(sample FilteredSample) {
	c.filtered.Store(sample)
}

// PublishHistory stores the filtered history, oldest first.
// The slice must not be modified afterwards.
func (c *Channel) PublishHistory(values []float64) {
	c.history.Store(values)
}

// History returns the last published filtered history.
// The result is shared and must not be modified.
func (c *Channel) History() []float64 {
	values, _ := c.history.Load()
	return values
}

func (c *Channel) LastSample() (PhysicalSample, bool) {
	return c.sample.Load()
}

func (c *Channel) LastFiltered() (FilteredSample, bool) {
	return c.filtered.Load()
}

func (c *Channel) Snapshot() ChannelSnapshot {
	snapshot := ChannelSnapshot{
		Index: c.Index,
		Name:  c.Name,
	}
	sample, ok := c.sample.Load()
	if !ok {
		return snapshot
	}
	snapshot.Valid = true
	snapshot.Raw = sample.Raw
	snapshot.Lux = sample.Lux
	snapshot.Time = sample.Time
	if filtered, ok := c.filtered.Load(); ok {
		snapshot.FilteredLux = filtered.Lux
	}
	snapshot.WindowMin = util.GetWindowMin(c.window)
	snapshot.WindowMax = util.GetWindowMax(c.window)
	snapshot.WindowAvg = util.GetWindowAvg(c.window)
	return snapshot
}
