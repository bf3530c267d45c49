package actuator

import (
	"fmt"
	"math"
	"time"

	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/control_loop"
	"github.com/lux2go/lux2go/internal/ui"
	"github.com/lux2go/lux2go/internal/util"
)

// State is the last commanded actuator position
type State struct {
	Position  int       `json:"position"`
	StepLimit int       `json:"stepLimit"`
	Time      time.Time `json:"time"`
	Writes    uint64    `json:"writes"`
}

// Dispatcher decides if and where the actuator has to move.
// It must only be used by a single goroutine, other goroutines read the
// last commanded position using State().
type Dispatcher struct {
	band    configuration.Band
	loop    control_loop.ControlLoop
	limiter *control_loop.StepLimiter

	min       int
	max       int
	stepLimit int

	position   int
	pending    int
	hasPending bool
	writes     uint64
	state      util.Cell[State]
}

// NewDispatcher creates a Dispatcher, assuming the actuator currently is at initialPosition
func NewDispatcher(
	band configuration.Band,
	loop control_loop.ControlLoop,
	config configuration.ActuatorConfig,
	initialPosition int,
) *Dispatcher {
	d := &Dispatcher{
		band:      band,
		loop:      loop,
		limiter:   control_loop.NewStepLimiter(config.StepLimit),
		min:       config.Min,
		max:       config.Max,
		stepLimit: config.StepLimit,
		position:  util.Coerce(initialPosition, config.Min, config.Max),
	}
	d.publish(time.Time{})
	return d
}

// Dispatch computes the next actuator position for the given filtered measurement.
// write is true if the position differs from the last commanded one and has to be sent.
// The position is only taken over once Commit confirms the write.
func (d *Dispatcher) Dispatch(lux float64, now time.Time) (position int, write bool) {
	d.hasPending = false
	if d.band.Contains(lux) {
		return d.position, false
	}

	target := int(math.Round(d.loop.Compute(lux, now)))
	next := d.limiter.Step(d.position, target)
	next = util.Coerce(next, d.min, d.max)

	if next == d.position {
		return d.position, false
	}

	ui.Debug("Actuator: lux %.1f outside of %s, moving %d -> %d (target %d)", lux, d.band, d.position, next, target)
	d.pending = next
	d.hasPending = true
	return next, true
}

// Commit marks the position returned by the last Dispatch as written to the actuator
func (d *Dispatcher) Commit(now time.Time) {
	if !d.hasPending {
		return
	}
	d.position = d.pending
	d.hasPending = false
	d.writes++
	d.publish(now)
}

// Position returns the last commanded position
func (d *Dispatcher) Position() int {
	return d.position
}

// State returns the last commanded state, safe for concurrent use
func (d *Dispatcher) State() State {
	state, _ := d.state.Load()
	return state
}

func (d *Dispatcher) publish(now time.Time) {
	d.state.Store(State{
		Position:  d.position,
		StepLimit: d.stepLimit,
		Time:      now,
		Writes:    d.writes,
	})
}

// EncodePosition encodes a position as the single byte written to the actuator characteristic
func EncodePosition(position int) ([]byte, error) {
	if position < configuration.ActuatorPositionMin || position > configuration.ActuatorPositionMax {
		return nil, fmt.Errorf("position %d out of range [%d, %d]", position, configuration.ActuatorPositionMin, configuration.ActuatorPositionMax)
	}
	return []byte{byte(position)}, nil
}
