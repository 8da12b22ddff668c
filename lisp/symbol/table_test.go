package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableIntern(t *testing.T) {
	tab := NewTable()
	assert.Equal(t, 0, tab.Len())

	a := tab.Intern("alpha")
	b := tab.Intern("beta")
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, None, a)
	assert.Equal(t, a, tab.Intern("alpha"), "interning is idempotent")
	assert.Equal(t, 2, tab.Len())
}

func TestTablePeek(t *testing.T) {
	tab := NewTable()
	_, ok := tab.Peek("missing")
	assert.False(t, ok)
	assert.Equal(t, 0, tab.Len(), "peek does not intern")

	id := tab.Intern("present")
	got, ok := tab.Peek("present")
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestTableString(t *testing.T) {
	tab := NewTable()
	id := tab.Intern("round-trip")
	s, ok := tab.String(id)
	assert.True(t, ok)
	assert.Equal(t, "round-trip", s)

	_, ok = tab.String(id + 100)
	assert.False(t, ok)
}
