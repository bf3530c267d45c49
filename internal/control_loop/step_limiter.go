package control_loop

import (
	"github.com/lux2go/lux2go/internal/util"
)

// StepLimiter approaches a target position gracefully by limiting the
// maximum change per tick. A limit of 0 disables limiting.
type StepLimiter struct {
	stepLimit int
}

func NewStepLimiter(stepLimit int) *StepLimiter {
	return &StepLimiter{
		stepLimit: stepLimit,
	}
}

// Step returns the next position on the way from current to target
func (l *StepLimiter) Step(current int, target int) int {
	if l.stepLimit <= 0 {
		return target
	}
	delta := target - current
	// we can be above or below the target,
	// so we add or subtract at most the step limit
	return current + util.Coerce(delta, -l.stepLimit, l.stepLimit)
}
