package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func secondOrder(t *testing.T) ([]float64, []float64) {
	b, a, err := Butterworth(2, 2, 10)
	require.NoError(t, err)
	return b, a
}

func TestLFilterZi_SteadyState(t *testing.T) {
	// GIVEN
	b, a := secondOrder(t)

	// WHEN
	zi, err := LFilterZi(b, a)

	// THEN
	assert.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.79342792, 0.01075637}, zi, 1e-7)

	// a step input starting in steady state produces no transient
	y := LFilter(b, a, []float64{1, 1, 1, 1}, zi)
	assert.InDeltaSlice(t, []float64{1, 1, 1, 1}, y, 1e-9)
}

func TestLFilter_ZeroState(t *testing.T) {
	// GIVEN
	b := []float64{0.5, 0.5}
	a := []float64{1}

	// WHEN
	y := LFilter(b, a, []float64{2, 4, 6}, nil)

	// THEN
	assert.Equal(t, []float64{1, 3, 5}, y)
}

func TestFiltFilt_Constant(t *testing.T) {
	// GIVEN
	b, a := secondOrder(t)
	x := []float64{350, 350, 350, 350, 350, 350, 350, 350}

	// WHEN
	y, err := FiltFilt(b, a, x)

	// THEN
	assert.NoError(t, err)
	assert.InDeltaSlice(t, x, y, 1e-9)
}

func TestFiltFilt_NoPhaseLagOnRamp(t *testing.T) {
	// GIVEN
	b, a := secondOrder(t)
	x := make([]float64, 20)
	for i := range x {
		x[i] = float64(i)
	}

	// WHEN
	y, err := FiltFilt(b, a, x)

	// THEN
	assert.NoError(t, err)
	assert.InDeltaSlice(t, x, y, 1e-3)
}

func TestFiltFilt_RemovesNoise(t *testing.T) {
	// GIVEN
	b, a := secondOrder(t)
	x := make([]float64, 100)
	for i := range x {
		if i%2 == 0 {
			x[i] = 150
		} else {
			x[i] = 50
		}
	}

	// WHEN
	y, err := FiltFilt(b, a, x)

	// THEN
	assert.NoError(t, err)
	assert.Len(t, y, len(x))
	for i := 10; i < 90; i++ {
		assert.InDelta(t, 100.0, y[i], 1.0, "index: %d", i)
	}
}

func TestFiltFilt_ShortInput(t *testing.T) {
	// GIVEN
	b, a := secondOrder(t)

	// WHEN
	y, err := FiltFilt(b, a, []float64{42})

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, []float64{42}, y)
}

func TestFiltFilt_ShortInputUsesReducedPadding(t *testing.T) {
	// GIVEN
	b, a := secondOrder(t)
	// 6 samples = 3 * order, shorter than the default padding of 9
	x := []float64{100, 0, 100, 0, 100, 0}

	// WHEN
	y, err := FiltFilt(b, a, x)

	// THEN
	assert.NoError(t, err)
	assert.Len(t, y, len(x))
	assert.InDelta(t, 99.65, y[0], 0.5)
	assert.InDelta(t, 50, y[2], 5)
	assert.InDelta(t, 50, y[3], 5)
	assert.InDelta(t, 0.71, y[5], 0.5)
}
