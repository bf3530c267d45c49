package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestButterworth_SecondOrder(t *testing.T) {
	// GIVEN
	order, cutoff, sampleRate := 2, 2.0, 10.0

	// WHEN
	b, a, err := Butterworth(order, cutoff, sampleRate)

	// THEN
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.20657208, 0.41314417, 0.20657208}, b, 1e-7)
	assert.InDeltaSlice(t, []float64{1, -0.36952738, 0.19581571}, a, 1e-7)
}

func TestButterworth_ThirdOrder(t *testing.T) {
	// WHEN
	b, a, err := Butterworth(3, 1, 10)

	// THEN
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.01809893, 0.0542968, 0.0542968, 0.01809893}, b, 1e-7)
	assert.InDeltaSlice(t, []float64{1, -1.76004188, 1.18289326, -0.27805992}, a, 1e-7)
}

func TestButterworth_UnityDcGain(t *testing.T) {
	for order := 1; order <= 4; order++ {
		// WHEN
		b, a, err := Butterworth(order, 1.5, 10)

		// THEN
		assert.NoError(t, err)
		sumB, sumA := 0.0, 0.0
		for i := range b {
			sumB += b[i]
			sumA += a[i]
		}
		assert.InDelta(t, 1.0, sumB/sumA, 1e-9, "order: %d", order)
	}
}

func TestButterworth_InvalidParameters(t *testing.T) {
	_, _, err := Butterworth(0, 2, 10)
	assert.EqualError(t, err, "filter order must be >= 1, got 0")

	_, _, err = Butterworth(2, 5, 10)
	assert.EqualError(t, err, "cutoff frequency 5 must be in (0, 5)")

	_, _, err = Butterworth(2, 0, 10)
	assert.Error(t, err)
}
