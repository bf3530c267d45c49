package control_loop

import "time"

// ControlLoop computes the next actuator target for a measurement taken at the given time
type ControlLoop interface {
	// Compute advances the control loop
	Compute(measurement float64, now time.Time) float64
	// Reset clears all accumulated state
	Reset()
}
