package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStackIsLastInFirstOut(t *testing.T) {
	s := NewStack("")
	s.Push("y")
	s.Push("x")
	assert.Equal(t, 3, s.Len())

	var popped []string
	for !s.IsEmpty() {
		e, ok := s.Pop()
		assert.True(t, ok)
		popped = append(popped, e)
	}
	assert.Equal(t, []string{"x", "y", ""}, popped)

	_, ok := s.Pop()
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}
