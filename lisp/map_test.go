package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapCrossTypeNumericKeys(t *testing.T) {
	m := NewMap()
	require.Nil(t, m.Set(Int(1), String("one")))

	v, ok, lerr := m.Get(Float(1.0))
	require.Nil(t, lerr)
	require.True(t, ok, "Float(1.0) addresses the Int(1) entry")
	assert.Equal(t, "one", v.Str)

	_, ok, lerr = m.Get(Float(1.5))
	require.Nil(t, lerr)
	assert.False(t, ok)
}

func TestMapAssocPersistence(t *testing.T) {
	m := NewMap()
	require.Nil(t, m.Set(Int(1), Int(10)))

	m2, lerr := m.Assoc(Int(2), Int(20))
	require.Nil(t, lerr)
	assert.Equal(t, 1, m.Len(), "assoc leaves the receiver unchanged")
	assert.Equal(t, 2, m2.Len())

	m3, lerr := m.Assoc(Int(1), Int(99))
	require.Nil(t, lerr)
	v, _, _ := m.Get(Int(1))
	assert.Equal(t, int64(10), v.Int)
	v, _, _ = m3.Get(Int(1))
	assert.Equal(t, int64(99), v.Int)
}

func TestMapDissoc(t *testing.T) {
	m := NewMap()
	require.Nil(t, m.Set(Int(1), Int(10)))
	require.Nil(t, m.Set(Int(2), Int(20)))

	m2, lerr := m.Dissoc(Int(1))
	require.Nil(t, lerr)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, 1, m2.Len())
	_, ok, _ := m2.Get(Int(1))
	assert.False(t, ok)
	v, ok, _ := m2.Get(Int(2))
	require.True(t, ok)
	assert.Equal(t, int64(20), v.Int)
}

func TestMapEquality(t *testing.T) {
	a := NewMap()
	require.Nil(t, a.Set(Int(1), Int(10)))
	require.Nil(t, a.Set(Int(2), Int(20)))

	b := NewMap()
	require.Nil(t, b.Set(Int(2), Int(20)))
	require.Nil(t, b.Set(Float(1.0), Int(10)))

	assert.True(t, Equal(MapVal(a), MapVal(b)), "map equality ignores order and numeric key type")

	c, lerr := b.Assoc(Int(3), Int(30))
	require.Nil(t, lerr)
	assert.False(t, Equal(MapVal(a), MapVal(c)))
}

func TestMapCollectionKeys(t *testing.T) {
	m := NewMap()
	require.Nil(t, m.Set(Vector([]*LVal{Int(1), Int(2)}), String("pair")))

	// seqs and vectors hash alike, matching their equality
	_, ok, lerr := m.Get(List([]*LVal{Int(1), Int(2)}))
	require.Nil(t, lerr)
	assert.True(t, ok)
}

func TestMapDuplicateLiteralKeys(t *testing.T) {
	m := NewMap()
	require.Nil(t, m.Set(Int(1), String("a")))
	require.Nil(t, m.Set(Int(1), String("b")))
	assert.Equal(t, 1, m.Len())
	v, _, _ := m.Get(Int(1))
	assert.Equal(t, "b", v.Str)
}
