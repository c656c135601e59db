package box3d

/// A stack of values backed by a slice that grows on demand. Used by the
/// dynamic tree traversals.
type B3GrowableStack[T any] struct {
	items []T
}

func MakeB3GrowableStack[T any](capacity int) B3GrowableStack[T] {
	return B3GrowableStack[T]{
		items: make([]T, 0, capacity),
	}
}

func NewB3GrowableStack[T any]() *B3GrowableStack[T] {
	res := MakeB3GrowableStack[T](256)
	return &res
}

// Return the stack's length
func (s B3GrowableStack[T]) GetCount() int {
	return len(s.items)
}

// Push a new element onto the stack
func (s *B3GrowableStack[T]) Push(value T) {
	s.items = append(s.items, value)
}

// Remove the top element from the stack and return its value.
// ok is false if the stack is empty.
func (s *B3GrowableStack[T]) Pop() (value T, ok bool) {
	if len(s.items) == 0 {
		return value, false
	}
	last := len(s.items) - 1
	value = s.items[last]
	s.items = s.items[:last]
	return value, true
}

func (s *B3GrowableStack[T]) Reset() {
	s.items = s.items[:0]
}
