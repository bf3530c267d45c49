package filter

import (
	"github.com/lux2go/lux2go/internal/configuration"
)

// Smoother keeps a bounded history of samples of a single channel and smooths
// the whole history with a zero-phase Butterworth low-pass on every update.
// Recomputing over the whole (small) history avoids keeping incremental filter state.
type Smoother struct {
	history    *Ring[float64]
	b          []float64
	a          []float64
	minHistory int
}

func NewSmoother(config configuration.FilterConfig) (*Smoother, error) {
	b, a, err := Butterworth(config.Order, config.Cutoff, config.SampleRate)
	if err != nil {
		return nil, err
	}
	return &Smoother{
		history:    NewRing[float64](config.HistorySize),
		b:          b,
		a:          a,
		minHistory: 3 * config.Order,
	}, nil
}

// Add appends the value to the history and returns the smoothed history, oldest first.
// Until the history holds at least 3 x order values, the raw history is returned unchanged.
func (s *Smoother) Add(value float64) ([]float64, error) {
	s.history.Push(value)
	raw := s.history.Values()
	if len(raw) < s.minHistory {
		return raw, nil
	}
	return FiltFilt(s.b, s.a, raw)
}

// Len returns the number of buffered values
func (s *Smoother) Len() int {
	return s.history.Len()
}

func (s *Smoother) Reset() {
	s.history.Clear()
}
