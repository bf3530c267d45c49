package control_loop

import (
	"time"

	"github.com/lux2go/lux2go/internal/configuration"
	"github.com/lux2go/lux2go/internal/util"
)

// PidLoop is a textbook PID controller with clamped output.
// The integral term keeps accumulating while the output is saturated.
type PidLoop struct {
	p float64
	i float64
	d float64

	setPoint  float64
	outputMin float64
	outputMax float64

	integral  float64
	lastError float64
	lastTime  *time.Time
}

// NewPidLoop creates a PidLoop with the given gains, setpoint and output limits
func NewPidLoop(p, i, d, setPoint, outputMin, outputMax float64) *PidLoop {
	return &PidLoop{
		p:         p,
		i:         i,
		d:         d,
		setPoint:  setPoint,
		outputMin: outputMin,
		outputMax: outputMax,
	}
}

func NewPidLoopFromConfig(config configuration.ControllerConfig) *PidLoop {
	return NewPidLoop(config.P, config.I, config.D, config.SetPoint, config.OutputMin, config.OutputMax)
}

// Compute returns the output for the given measurement.
// The first call after creation or Reset only has a proportional contribution.
func (l *PidLoop) Compute(measurement float64, now time.Time) float64 {
	err := l.setPoint - measurement

	dt := 0.0
	if l.lastTime != nil {
		dt = now.Sub(*l.lastTime).Seconds()
	}

	l.integral += err * dt
	derivative := 0.0
	if dt > 0 {
		derivative = (err - l.lastError) / dt
	}

	output := l.p*err + l.i*l.integral + l.d*derivative

	l.lastError = err
	l.lastTime = &now

	return util.Coerce(output, l.outputMin, l.outputMax)
}

func (l *PidLoop) Reset() {
	l.integral = 0
	l.lastError = 0
	l.lastTime = nil
}

func (l *PidLoop) SetPoint() float64 {
	return l.setPoint
}

// Integral returns the current value of the integral accumulator
func (l *PidLoop) Integral() float64 {
	return l.integral
}
