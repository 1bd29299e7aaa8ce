package lib

// Stack is a last-in-first-out collection
type Stack[T any] struct {
	items []T
}

// NewStack creates a Stack holding given elements, the last one on top
func NewStack[T any](s ...T) *Stack[T] {
	items := make([]T, len(s), len(s)+16)
	copy(items, s)
	return &Stack[T]{items: items}
}

// Push puts an element on top
func (s *Stack[T]) Push(e T) {
	s.items = append(s.items, e)
}

// Pop removes and returns the element on top. ok is false when the stack is empty.
func (s *Stack[T]) Pop() (e T, ok bool) {
	if len(s.items) == 0 {
		return e, false
	}
	last := len(s.items) - 1
	e = s.items[last]
	var zero T
	s.items[last] = zero
	s.items = s.items[:last]
	return e, true
}

// Len returns number of elements in stack
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// IsEmpty checks whether stack has no elements
func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}
