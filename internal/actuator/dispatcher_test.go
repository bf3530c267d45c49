package actuator

import (
	"testing"
	"time"

	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/control_loop"
	"github.com/stretchr/testify/assert"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fixedLoop struct {
	target float64
	calls  int
}

func (l *fixedLoop) Compute(measurement float64, now time.Time) float64 {
	l.calls++
	return l.target
}

func (l *fixedLoop) Reset() {}

func createDispatcher(loop control_loop.ControlLoop, stepLimit int, initialPosition int) *Dispatcher {
	return NewDispatcher(
		configuration.Band{Low: 200, High: 500},
		loop,
		configuration.ActuatorConfig{Min: 0, Max: 90, StepLimit: stepLimit},
		initialPosition,
	)
}

func TestDispatcher_NoWritesInsideBand(t *testing.T) {
	// GIVEN
	loop := &fixedLoop{target: 90}
	d := createDispatcher(loop, 0, 0)
	measurements := []float64{200, 250, 350, 499.9, 500}

	writes := 0
	for i := 0; i < 100; i++ {
		// WHEN
		_, write := d.Dispatch(measurements[i%len(measurements)], start.Add(time.Duration(i)*100*time.Millisecond))
		if write {
			writes++
		}
	}

	// THEN
	assert.Equal(t, 0, writes)
	assert.Equal(t, 0, loop.calls)
	assert.Equal(t, 0, d.Position())
}

func TestDispatcher_StepLimit(t *testing.T) {
	// GIVEN
	d := createDispatcher(&fixedLoop{target: 90}, 1, 0)
	now := start
	ticks := 0
	last := d.Position()

	// WHEN
	for d.Position() != 90 {
		position, write := d.Dispatch(100, now)
		assert.True(t, write)
		assert.LessOrEqual(t, position-last, 1)
		d.Commit(now)
		last = position
		now = now.Add(100 * time.Millisecond)
		ticks++
	}

	// THEN
	assert.Equal(t, 90, ticks)
	_, write := d.Dispatch(100, now)
	assert.False(t, write)
	assert.Equal(t, uint64(90), d.State().Writes)
}

func TestDispatcher_SingleWriteWhenUnlimited(t *testing.T) {
	// GIVEN
	d := createDispatcher(&fixedLoop{target: 42.4}, 0, 0)

	// WHEN
	position, write := d.Dispatch(100, start)

	// THEN
	assert.True(t, write)
	assert.Equal(t, 42, position)

	// WHEN
	d.Commit(start)

	// THEN
	assert.Equal(t, 42, d.State().Position)
	assert.Equal(t, start, d.State().Time)

	// WHEN
	_, write = d.Dispatch(120, start.Add(time.Second))

	// THEN
	assert.False(t, write)
}

func TestDispatcher_ClampsToActuatorRange(t *testing.T) {
	// GIVEN
	d := createDispatcher(&fixedLoop{target: 170}, 0, 10)

	// WHEN
	position, write := d.Dispatch(1000, start)

	// THEN
	assert.True(t, write)
	assert.Equal(t, 90, position)
}

func TestDispatcher_UncommittedPositionIsResent(t *testing.T) {
	// GIVEN
	d := createDispatcher(&fixedLoop{target: 90}, 0, 0)
	_, write := d.Dispatch(100, start)
	assert.True(t, write)

	// WHEN
	// the write failed, so Commit is never called
	position, write := d.Dispatch(100, start.Add(time.Second))

	// THEN
	assert.True(t, write)
	assert.Equal(t, 90, position)
	assert.Equal(t, 0, d.Position())
	assert.Equal(t, 0, d.State().Position)
	assert.True(t, d.State().Time.IsZero())
	assert.Equal(t, uint64(0), d.State().Writes)
}

func TestDispatcher_CommitWithoutPendingPosition(t *testing.T) {
	// GIVEN
	d := createDispatcher(&fixedLoop{target: 90}, 0, 0)
	d.Dispatch(300, start)

	// WHEN
	d.Commit(start)

	// THEN
	assert.Equal(t, 0, d.Position())
	assert.Equal(t, uint64(0), d.State().Writes)
}

func TestDispatcher_RoundsTarget(t *testing.T) {
	tests := []struct {
		target   float64
		expected int
	}{
		{target: 89.5, expected: 90},
		{target: 89.49, expected: 89},
		{target: 44.5, expected: 45},
		{target: 0.4, expected: 0},
	}
	for _, tt := range tests {
		// GIVEN
		d := createDispatcher(&fixedLoop{target: tt.target}, 0, 10)

		// WHEN
		position, _ := d.Dispatch(100, start)

		// THEN
		assert.Equal(t, tt.expected, position, "target %v", tt.target)
	}
}

func TestDispatcher_InitialPositionIsClamped(t *testing.T) {
	// WHEN
	d := createDispatcher(&fixedLoop{}, 0, 120)

	// THEN
	assert.Equal(t, 90, d.Position())
	assert.Equal(t, 90, d.State().Position)
}

func TestDispatcher_WithPid(t *testing.T) {
	// GIVEN
	pid := control_loop.NewPidLoop(0.5, 0.05, 0.1, 350, 0, 90)
	d := createDispatcher(pid, 0, 0)

	// WHEN
	position, write := d.Dispatch(150, start)

	// THEN
	// kp * (350 - 150) = 100, clamped to 90
	assert.True(t, write)
	assert.Equal(t, 90, position)
}

func TestEncodePosition(t *testing.T) {
	data, err := EncodePosition(180)
	assert.NoError(t, err)
	assert.Equal(t, []byte{180}, data)

	_, err = EncodePosition(181)
	assert.EqualError(t, err, "position 181 out of range [0, 180]")
}
