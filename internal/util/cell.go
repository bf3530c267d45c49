package util

import "sync/atomic"

// Cell is a single-slot holder for the latest value of something.
// It has exactly one writer; any number of goroutines may read it.
// Readers always observe a complete value, never a partially written one.
type Cell[T any] struct {
	value atomic.Pointer[T]
}

// Store replaces the current value
func (c *Cell[T]) Store(value T) {
	c.value.Store(&value)
}

// Load returns the current value and whether a value has been stored yet
func (c *Cell[T]) Load() (value T, ok bool) {
	p := c.value.Load()
	if p == nil {
		return value, false
	}
	return *p, true
}
