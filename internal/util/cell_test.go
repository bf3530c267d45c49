package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pair struct {
	A int
	B int
}

func TestCell_Empty(t *testing.T) {
	// GIVEN
	var cell Cell[float64]

	// WHEN
	value, ok := cell.Load()

	// THEN
	assert.False(t, ok)
	assert.Equal(t, 0.0, value)
}

func TestCell_StoreLoad(t *testing.T) {
	// GIVEN
	var cell Cell[float64]

	// WHEN
	cell.Store(350.5)
	value, ok := cell.Load()

	// THEN
	assert.True(t, ok)
	assert.Equal(t, 350.5, value)
}

func TestCell_ReadersNeverSeeTornValues(t *testing.T) {
	// GIVEN
	var cell Cell[pair]
	cell.Store(pair{})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 10000; i++ {
			cell.Store(pair{A: i, B: i})
		}
	}()

	// WHEN
	for i := 0; i < 10000; i++ {
		value, _ := cell.Load()

		// THEN
		assert.Equal(t, value.A, value.B)
	}
	wg.Wait()
}
