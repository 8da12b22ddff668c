package lisp

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEnv() *LEnv {
	return NewRootEnv(NewRuntime(io.Discard))
}

// thunkFun wraps body forms into a zero-argument closure.
func thunkFun(env *LEnv, body ...*LVal) *LVal {
	return FunVal(&Fun{Env: env, Arity: []*Arity{{Body: body}}})
}

func TestSeqBasics(t *testing.T) {
	s := List([]*LVal{Int(1), Int(2), Int(3)})

	empty, lerr := s.Seq.IsEmpty()
	require.Nil(t, lerr)
	assert.False(t, empty)

	n, lerr := s.Seq.Len()
	require.Nil(t, lerr)
	assert.Equal(t, 3, n)

	v, lerr := s.Seq.First()
	require.Nil(t, lerr)
	assert.Equal(t, int64(1), v.Int)

	rest, lerr := s.Seq.Rest()
	require.Nil(t, lerr)
	v, lerr = rest.First()
	require.Nil(t, lerr)
	assert.Equal(t, int64(2), v.Int)
}

func TestEmptySeq(t *testing.T) {
	s := EmptySeq()
	empty, lerr := s.Seq.IsEmpty()
	require.Nil(t, lerr)
	assert.True(t, empty)

	v, lerr := s.Seq.First()
	require.Nil(t, lerr)
	assert.True(t, v.IsNil())

	rest, lerr := s.Seq.Rest()
	require.Nil(t, lerr)
	empty, lerr = rest.IsEmpty()
	require.Nil(t, lerr)
	assert.True(t, empty, "the tail of the empty seq is the empty seq")
}

func TestLazyForce(t *testing.T) {
	env := testEnv()

	// a thunk returning a plain value becomes a one-element seq
	s := Lazy(thunkFun(env, Int(7)), env)
	v, lerr := s.Seq.First()
	require.Nil(t, lerr)
	assert.Equal(t, int64(7), v.Int)
	n, lerr := s.Seq.Len()
	require.Nil(t, lerr)
	assert.Equal(t, 1, n)

	// a thunk returning nil becomes the empty seq
	s = Lazy(thunkFun(env, Nil()), env)
	empty, lerr := s.Seq.IsEmpty()
	require.Nil(t, lerr)
	assert.True(t, empty)

	// a thunk returning a seq donates its head and tail
	inner := List([]*LVal{Int(1), Int(2)})
	s = Lazy(thunkFun(env, quoteForm(inner)), env)
	cells, lerr := s.Seq.Slice()
	require.Nil(t, lerr)
	require.Len(t, cells, 2)
	assert.Equal(t, int64(1), cells[0].Int)
}

func TestLazyForceErrorSticky(t *testing.T) {
	env := testEnv()
	bad := Symbol(0, env.Runtime.Symbols.Intern("no-such-binding"))
	s := Lazy(thunkFun(env, bad), env)

	_, lerr := s.Seq.First()
	require.NotNil(t, lerr)
	assert.Equal(t, ErrInvalidSymbol, lerr.Err.Code)

	_, again := s.Seq.First()
	require.NotNil(t, again)
	assert.Equal(t, lerr, again, "forcing failures are sticky")
}

func TestSeqIterator(t *testing.T) {
	it := NewSeqIterator(List([]*LVal{Int(1), Int(2)}))
	var got []int64
	for it.Next() {
		got = append(got, it.Value().Int)
	}
	require.Nil(t, it.Err())
	assert.Equal(t, []int64{1, 2}, got)

	it = NewSeqIterator(Vector([]*LVal{Int(3)}))
	require.True(t, it.Next())
	assert.Equal(t, int64(3), it.Value().Int)
	assert.False(t, it.Next())

	it = NewSeqIterator(Int(1))
	assert.False(t, it.Next())
	assert.NotNil(t, it.Err())
}
