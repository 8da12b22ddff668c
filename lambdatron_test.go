package lambdatron

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotsog/Lambdatron/lisp"
)

func newTestInterp(t *testing.T) (*Interp, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	in, err := New(WithOutput(&buf))
	require.NoError(t, err)
	return in, &buf
}

func TestBootstrap(t *testing.T) {
	in, _ := newTestInterp(t)
	assert.Equal(t, "user", in.CurrentNamespace())

	// the bootstrapped vars are visible from the user namespace
	v := in.Eval("(take 2 (iterate inc 0))")
	require.NoError(t, lisp.GoError(v))
	assert.Equal(t, "(0 1)", in.Print(v))
}

func TestReset(t *testing.T) {
	in, _ := newTestInterp(t)
	require.NoError(t, lisp.GoError(in.Eval("(def x 1)")))
	require.NoError(t, in.Reset())
	v := in.Eval("x")
	require.Error(t, lisp.GoError(v))
	assert.Equal(t, lisp.ErrInvalidSymbol, v.Err.Code)
}

func TestErrorDomains(t *testing.T) {
	in, _ := newTestInterp(t)

	read := in.Eval("(unclosed")
	require.Error(t, lisp.GoError(read))
	assert.Equal(t, lisp.DomainRead, read.Err.Domain)
	assert.Equal(t, lisp.ErrUnfinishedForm, read.Err.Code)

	read = in.Eval("(]")
	require.Error(t, lisp.GoError(read))
	assert.Equal(t, lisp.ErrMismatchedDelimiter, read.Err.Code)

	read = in.Eval("{1}")
	require.Error(t, lisp.GoError(read))
	assert.Equal(t, lisp.ErrMapKVMismatch, read.Err.Code)

	read = in.Eval(`"bad \q escape"`)
	require.Error(t, lisp.GoError(read))
	assert.Equal(t, lisp.ErrInvalidEscape, read.Err.Code)

	read = in.Eval(`"unterminated`)
	require.Error(t, lisp.GoError(read))
	assert.Equal(t, lisp.ErrNonTerminatedString, read.Err.Code)

	eval := in.Eval("(/ 1 0)")
	require.Error(t, lisp.GoError(eval))
	assert.Equal(t, lisp.DomainEval, eval.Err.Domain)
}

// Printed values read back equal, modulo canonical whitespace.
func TestRoundTrip(t *testing.T) {
	in, _ := newTestInterp(t)
	exprs := []string{
		"nil",
		"true",
		"-42",
		"3.5",
		"2.0",
		`"a \"quoted\" string"`,
		`\a`,
		`\newline`,
		"'some-symbol",
		"'ns/qualified",
		":kw",
		"'(1 2 (3 4))",
		"[1 [2] {:k 3}]",
		"{:a 1, :b [2 3]}",
		"'()",
	}
	for _, expr := range exprs {
		v := in.Eval(expr)
		require.NoError(t, lisp.GoError(v), "expr %s", expr)
		printed := in.Print(v)
		// quote the reread text so lists are data, not invocations
		reread := in.Eval("'" + printed)
		require.NoError(t, lisp.GoError(reread), "reread %s", printed)
		assert.True(t, lisp.Equal(v, reread), "round trip %s -> %s", expr, printed)
	}
}

// Non-seq, non-symbol values evaluate to themselves.
func TestEvalIdempotent(t *testing.T) {
	in, _ := newTestInterp(t)
	exprs := []string{"nil", "true", "7", "1.5", `"s"`, `\x`, ":kw", "[1 2]", "{1 2}"}
	for _, expr := range exprs {
		v := in.Eval(expr)
		require.NoError(t, lisp.GoError(v))
		again := in.Eval(expr)
		assert.True(t, lisp.Equal(v, again), "eval idempotence for %s", expr)
	}
}

// A lazy node's thunk runs at most once no matter how often the sequence
// is traversed.
func TestLazyForceOnce(t *testing.T) {
	in, out := newTestInterp(t)
	require.NoError(t, lisp.GoError(
		in.Eval(`(def s (take 3 (repeatedly (fn [] (.print "!") 7))))`)))
	assert.Equal(t, "", out.String())

	v := in.Eval("(.count s)")
	require.NoError(t, lisp.GoError(v))
	assert.Equal(t, "3", in.Print(v))
	assert.Equal(t, "!!!", out.String())

	v = in.Eval("(.count s)")
	require.NoError(t, lisp.GoError(v))
	assert.Equal(t, "3", in.Print(v))
	assert.Equal(t, "!!!", out.String(), "forcing the same nodes again must not rerun thunks")
}

// Forcing is on demand: taking the head of an infinite sequence runs one
// step of it.
func TestLazyOnDemand(t *testing.T) {
	in, out := newTestInterp(t)
	v := in.Eval(`(.first (repeatedly (fn [] (.print "x") 1)))`)
	require.NoError(t, lisp.GoError(v))
	assert.Equal(t, "1", in.Print(v))
	assert.Equal(t, "x", out.String())
}

// assoc returns a new collection and leaves its input equal to its
// pre-call state.
func TestPersistentSemantics(t *testing.T) {
	in, _ := newTestInterp(t)
	require.NoError(t, lisp.GoError(in.Eval("(def m {1 2})")))
	require.NoError(t, lisp.GoError(in.Eval("(def m2 (.assoc m 3 4))")))
	assert.Equal(t, "{1 2}", in.Print(in.Eval("m")))
	assert.Equal(t, "{1 2, 3 4}", in.Print(in.Eval("m2")))

	require.NoError(t, lisp.GoError(in.Eval("(def v [1 2 3])")))
	require.NoError(t, lisp.GoError(in.Eval("(def v2 (.assoc v 0 99))")))
	assert.Equal(t, "[1 2 3]", in.Print(in.Eval("v")))
	assert.Equal(t, "[99 2 3]", in.Print(in.Eval("v2")))
}

func TestPrintln(t *testing.T) {
	in, out := newTestInterp(t)
	require.NoError(t, lisp.GoError(in.Eval(`(.println "hello" 42)`)))
	assert.Equal(t, "hello 42\n", out.String())
}

func TestMacroDefinition(t *testing.T) {
	in, _ := newTestInterp(t)
	v := in.Eval("(defmacro unless [test then else] `(if ~test ~else ~then))")
	require.NoError(t, lisp.GoError(v))
	assert.Equal(t, "#'user/unless", in.Print(v))

	r := in.Eval("(unless false 1 2)")
	require.NoError(t, lisp.GoError(r))
	assert.Equal(t, "1", in.Print(r))

	r = in.Eval("(unless true 1 2)")
	require.NoError(t, lisp.GoError(r))
	assert.Equal(t, "2", in.Print(r))
}

func TestRecurConstantStack(t *testing.T) {
	in, _ := newTestInterp(t)
	v := in.Eval("((fn countdown [n] (if (zero? n) :done (recur (dec n)))) 1000000)")
	require.NoError(t, lisp.GoError(v))
	assert.Equal(t, ":done", in.Print(v))
}
