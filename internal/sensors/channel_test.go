package sensors

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegisterChannels(t *testing.T) {
	// GIVEN
	ChannelMap.Clear()

	// WHEN
	channels := RegisterChannels(2, 10)

	// THEN
	assert.Len(t, channels, 2)
	assert.Equal(t, 2, ChannelMap.Count())
	c, ok := ChannelMap.Get("photo2")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Index)
	assert.Equal(t, []*Channel{channels[0], channels[1]}, GetChannels())
}

func TestChannel_SnapshotWithoutData(t *testing.T) {
	// GIVEN
	c := NewChannel(0, 10)

	// WHEN
	snapshot := c.Snapshot()

	// THEN
	assert.False(t, snapshot.Valid)
	assert.Equal(t, "photo1", snapshot.Name)
}

func TestChannel_Snapshot(t *testing.T) {
	// GIVEN
	c := NewChannel(0, 3)
	now := time.Now()
	c.PublishSample(PhysicalSample{Channel: 0, Raw: 3000, Lux: 100, Time: now})
	c.PublishSample(PhysicalSample{Channel: 0, Raw: 3100, Lux: 300, Time: now})
	c.PublishSample(PhysicalSample{Channel: 0, Raw: 3050, Lux: 200, Time: now})
	c.PublishFiltered(FilteredSample{Lux: 210, Time: now})

	// WHEN
	snapshot := c.Snapshot()

	// THEN
	assert.True(t, snapshot.Valid)
	assert.Equal(t, uint16(3050), snapshot.Raw)
	assert.Equal(t, 200.0, snapshot.Lux)
	assert.Equal(t, 210.0, snapshot.FilteredLux)
	assert.Equal(t, 100.0, snapshot.WindowMin)
	assert.Equal(t, 300.0, snapshot.WindowMax)
	assert.Equal(t, 200.0, snapshot.WindowAvg)
}

func TestChannel_SnapshotSingleSample(t *testing.T) {
	// GIVEN
	c := NewChannel(1, 50)
	c.PublishSample(PhysicalSample{Channel: 1, Raw: 3900, Lux: 250, Time: time.Now()})

	// WHEN
	snapshot := c.Snapshot()

	// THEN
	assert.Equal(t, "photo2", snapshot.Name)
	assert.Equal(t, 250.0, snapshot.WindowMin)
	assert.Equal(t, 250.0, snapshot.WindowMax)
	assert.Equal(t, 250.0, snapshot.WindowAvg)
	assert.Equal(t, 0.0, snapshot.FilteredLux)
}

func TestChannel_History(t *testing.T) {
	// GIVEN
	c := NewChannel(0, 10)
	assert.Nil(t, c.History())

	// WHEN
	c.PublishHistory([]float64{1, 2, 3})

	// THEN
	assert.Equal(t, []float64{1, 2, 3}, c.History())
}
