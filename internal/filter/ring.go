package filter

// Ring is a fixed capacity buffer, appending to a full ring evicts the oldest value.
// It is not safe for concurrent use.
type Ring[T any] struct {
	values []T
	start  int
	size   int
}

func NewRing[T any](capacity int) *Ring[T] {
	return &Ring[T]{
		values: make([]T, capacity),
	}
}

func (r *Ring[T]) Push(value T) {
	capacity := len(r.values)
	if capacity == 0 {
		return
	}
	if r.size < capacity {
		r.values[(r.start+r.size)%capacity] = value
		r.size++
		return
	}
	r.values[r.start] = value
	r.start = (r.start + 1) % capacity
}

func (r *Ring[T]) Len() int {
	return r.size
}

func (r *Ring[T]) Cap() int {
	return len(r.values)
}

// Values returns a copy of the buffered values, oldest first
func (r *Ring[T]) Values() []T {
	result := make([]T, r.size)
	for i := 0; i < r.size; i++ {
		result[i] = r.values[(r.start+i)%len(r.values)]
	}
	return result
}

// Last returns the most recently pushed value
func (r *Ring[T]) Last() (value T, ok bool) {
	if r.size == 0 {
		return value, false
	}
	return r.values[(r.start+r.size-1)%len(r.values)], true
}

func (r *Ring[T]) Clear() {
	r.start = 0
	r.size = 0
}
