package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRing_BelowCapacity(t *testing.T) {
	// GIVEN
	ring := NewRing[float64](3)

	// WHEN
	ring.Push(1)
	ring.Push(2)

	// THEN
	assert.Equal(t, 2, ring.Len())
	assert.Equal(t, 3, ring.Cap())
	assert.Equal(t, []float64{1, 2}, ring.Values())
}

func TestRing_EvictsOldest(t *testing.T) {
	// GIVEN
	ring := NewRing[float64](3)

	// WHEN
	for i := 1; i <= 5; i++ {
		ring.Push(float64(i))
	}

	// THEN
	assert.Equal(t, 3, ring.Len())
	assert.Equal(t, []float64{3, 4, 5}, ring.Values())
	last, ok := ring.Last()
	assert.True(t, ok)
	assert.Equal(t, 5.0, last)
}

func TestRing_ValuesIsACopy(t *testing.T) {
	// GIVEN
	ring := NewRing[int](2)
	ring.Push(1)

	// WHEN
	values := ring.Values()
	values[0] = 42

	// THEN
	assert.Equal(t, []int{1}, ring.Values())
}

func TestRing_Clear(t *testing.T) {
	// GIVEN
	ring := NewRing[int](2)
	ring.Push(1)
	ring.Push(2)

	// WHEN
	ring.Clear()

	// THEN
	assert.Equal(t, 0, ring.Len())
	_, ok := ring.Last()
	assert.False(t, ok)
}
