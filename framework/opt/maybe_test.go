package opt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type stringer struct{}

func (s stringer) String() string { return "custom" }

func TestSome(t *testing.T) {
	m := Some("a")
	assert.True(t, m.IsDefined())
	assert.Equal(t, "a", m.Value())
	assert.Equal(t, "a", m.OrElse("b"))
	assert.Equal(t, "a", m.String())
}

func TestNone(t *testing.T) {
	m := None[int]()
	assert.False(t, m.IsDefined())
	assert.Equal(t, 0, m.Value())
	assert.Equal(t, 5, m.OrElse(5))
	assert.Equal(t, "[none]", m.String())
	assert.Equal(t, Maybe[int]{}, m)
}

func TestStringUsesStringer(t *testing.T) {
	assert.Equal(t, "custom", Some(stringer{}).String())
	assert.Equal(t, "3", Some(3).String())
}
