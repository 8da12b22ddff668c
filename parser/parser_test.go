package parser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotsog/Lambdatron/lisp"
	"github.com/cotsog/Lambdatron/lisp/symbol"
)

func parseOne(t *testing.T, tab symbol.Table, src string) *lisp.LVal {
	t.Helper()
	forms, err := NewReader(tab).Read("test", strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, forms, 1)
	return forms[0]
}

func parseErr(t *testing.T, src string) *lisp.Error {
	t.Helper()
	_, err := NewReader(symbol.NewTable()).Read("test", strings.NewReader(src))
	require.Error(t, err)
	lerr, ok := err.(*lisp.Error)
	require.True(t, ok, "parser errors are lisp read errors")
	return lerr
}

func TestParseAtoms(t *testing.T) {
	tab := symbol.NewTable()
	assert.Equal(t, lisp.LNil, parseOne(t, tab, "nil").Type)
	assert.Equal(t, lisp.LBool, parseOne(t, tab, "true").Type)

	n := parseOne(t, tab, "42")
	require.Equal(t, lisp.LInt, n.Type)
	assert.Equal(t, int64(42), n.Int)

	n = parseOne(t, tab, "-42")
	require.Equal(t, lisp.LInt, n.Type)
	assert.Equal(t, int64(-42), n.Int)

	f := parseOne(t, tab, "2.5")
	require.Equal(t, lisp.LFloat, f.Type)
	assert.Equal(t, 2.5, f.Float)

	s := parseOne(t, tab, `"a\tb"`)
	require.Equal(t, lisp.LString, s.Type)
	assert.Equal(t, "a\tb", s.Str)

	c := parseOne(t, tab, `\newline`)
	require.Equal(t, lisp.LChar, c.Type)
	assert.Equal(t, '\n', c.Char)

	c = parseOne(t, tab, `\z`)
	require.Equal(t, lisp.LChar, c.Type)
	assert.Equal(t, 'z', c.Char)
}

// Integer literals overflowing int64 fall back to floats.
func TestParseIntOverflow(t *testing.T) {
	tab := symbol.NewTable()
	v := parseOne(t, tab, "123456789123456789123456789")
	assert.Equal(t, lisp.LFloat, v.Type)
}

func TestParseSymbols(t *testing.T) {
	tab := symbol.NewTable()
	v := parseOne(t, tab, "foo")
	require.Equal(t, lisp.LSymbol, v.Type)
	assert.Equal(t, symbol.None, v.NS)
	name, _ := tab.String(v.Name)
	assert.Equal(t, "foo", name)

	v = parseOne(t, tab, "ns/foo")
	require.Equal(t, lisp.LSymbol, v.Type)
	ns, _ := tab.String(v.NS)
	assert.Equal(t, "ns", ns)

	v = parseOne(t, tab, "/")
	require.Equal(t, lisp.LSymbol, v.Type)
	assert.Equal(t, symbol.None, v.NS, "a lone slash is the division symbol")

	v = parseOne(t, tab, ":kw")
	require.Equal(t, lisp.LKeyword, v.Type)
	name, _ = tab.String(v.Name)
	assert.Equal(t, "kw", name)
}

func TestParseSpecials(t *testing.T) {
	tab := symbol.NewTable()
	v := parseOne(t, tab, "if")
	require.Equal(t, lisp.LSpecial, v.Type)
	assert.Equal(t, lisp.SpecialIf, v.Special)
}

func TestParseCollections(t *testing.T) {
	tab := symbol.NewTable()
	v := parseOne(t, tab, "(a b c)")
	require.Equal(t, lisp.LSeq, v.Type)
	cells, lerr := v.Seq.Slice()
	require.Nil(t, lerr)
	assert.Len(t, cells, 3)

	v = parseOne(t, tab, "[1 2]")
	require.Equal(t, lisp.LVector, v.Type)
	assert.Len(t, v.Cells, 2)

	v = parseOne(t, tab, "{1 2, 3 4}")
	require.Equal(t, lisp.LMap, v.Type)
	assert.Equal(t, 2, v.Map.Len())

	v = parseOne(t, tab, "()")
	require.Equal(t, lisp.LSeq, v.Type)
	cells, lerr = v.Seq.Slice()
	require.Nil(t, lerr)
	assert.Len(t, cells, 0)
}

// Reader-macro prefixes parse into two-element placeholder lists.
func TestParsePrefixes(t *testing.T) {
	tab := symbol.NewTable()
	headOf := func(src string) *lisp.LVal {
		v := parseOne(t, tab, src)
		require.Equal(t, lisp.LSeq, v.Type)
		cells, lerr := v.Seq.Slice()
		require.Nil(t, lerr)
		require.Len(t, cells, 2)
		return cells[0]
	}

	h := headOf("'x")
	require.Equal(t, lisp.LSpecial, h.Type)
	assert.Equal(t, lisp.SpecialQuote, h.Special)

	for src, marker := range map[string]string{
		"`x":  "syntax-quote",
		"~x":  "unquote",
		"~@x": "unquote-splicing",
		"@x":  "deref",
	} {
		h := headOf(src)
		require.Equal(t, lisp.LSymbol, h.Type, "head of %q", src)
		name, _ := tab.String(h.Name)
		assert.Equal(t, marker, name, "head of %q", src)
	}

	h = headOf(`#(+ % 1)`)
	require.Equal(t, lisp.LSymbol, h.Type)
	name, _ := tab.String(h.Name)
	assert.Equal(t, "fn-shorthand", name)

	h = headOf(`#"a+"`)
	require.Equal(t, lisp.LSymbol, h.Type)
	name, _ = tab.String(h.Name)
	assert.Equal(t, "regex", name)
}

func TestParseErrors(t *testing.T) {
	assert.Equal(t, lisp.ErrUnfinishedForm, parseErr(t, "(a b").Code)
	assert.Equal(t, lisp.ErrUnfinishedForm, parseErr(t, "[1 2").Code)
	assert.Equal(t, lisp.ErrUnfinishedForm, parseErr(t, "'").Code)
	assert.Equal(t, lisp.ErrMismatchedDelimiter, parseErr(t, "(a]").Code)
	assert.Equal(t, lisp.ErrMismatchedDelimiter, parseErr(t, "[a)").Code)
	assert.Equal(t, lisp.ErrMismatchedDelimiter, parseErr(t, ")").Code)
	assert.Equal(t, lisp.ErrMapKVMismatch, parseErr(t, "{1 2 3}").Code)
	assert.Equal(t, lisp.ErrNonTerminatedString, parseErr(t, `"abc`).Code)
	assert.Equal(t, lisp.ErrInvalidEscape, parseErr(t, `"a\qb"`).Code)
}

func TestParseProgram(t *testing.T) {
	forms, err := NewReader(symbol.NewTable()).Read("test",
		strings.NewReader("1 ; one\n2 3"))
	require.NoError(t, err)
	assert.Len(t, forms, 3)
}
