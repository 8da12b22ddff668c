package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotsog/Lambdatron/lisp"
	"github.com/cotsog/Lambdatron/parser/token"
)

func scanTypes(t *testing.T, src string) []token.Type {
	t.Helper()
	lex := New(token.NewScanner("test", src))
	var types []token.Type
	for {
		tok, err := lex.NextToken()
		require.NoError(t, err)
		types = append(types, tok.Type)
		if tok.Type == token.EOF {
			return types
		}
	}
}

func scanError(t *testing.T, src string) *lisp.Error {
	t.Helper()
	lex := New(token.NewScanner("test", src))
	for {
		tok, err := lex.NextToken()
		if err != nil {
			lerr, ok := err.(*lisp.Error)
			require.True(t, ok, "lexer errors are lisp read errors")
			return lerr
		}
		require.NotEqual(t, token.EOF, tok.Type, "expected a scan failure")
	}
}

func TestTokens(t *testing.T) {
	tests := []struct {
		src   string
		types []token.Type
	}{
		{"", []token.Type{token.EOF}},
		{"   \t\n,", []token.Type{token.EOF}},
		{"()", []token.Type{token.PAREN_L, token.PAREN_R, token.EOF}},
		{"[]{}", []token.Type{token.BRACKET_L, token.BRACKET_R, token.BRACE_L, token.BRACE_R, token.EOF}},
		{"foo", []token.Type{token.SYMBOL, token.EOF}},
		{"ns/foo", []token.Type{token.SYMBOL, token.EOF}},
		{".cons", []token.Type{token.SYMBOL, token.EOF}},
		{":kw", []token.Type{token.KEYWORD, token.EOF}},
		{":", []token.Type{token.SYMBOL, token.EOF}},
		{"nil true false", []token.Type{token.NIL, token.TRUE, token.FALSE, token.EOF}},
		{"12 -3 +4", []token.Type{token.INT, token.INT, token.INT, token.EOF}},
		{"1.5 1e3 -2.5e-1", []token.Type{token.FLOAT, token.FLOAT, token.FLOAT, token.EOF}},
		{`"str"`, []token.Type{token.STRING, token.EOF}},
		{`"a\nb"`, []token.Type{token.STRING, token.EOF}},
		{`\a \newline`, []token.Type{token.CHAR, token.CHAR, token.EOF}},
		{"'x", []token.Type{token.QUOTE, token.SYMBOL, token.EOF}},
		{"`x", []token.Type{token.BACKTICK, token.SYMBOL, token.EOF}},
		{"~x", []token.Type{token.TILDE, token.SYMBOL, token.EOF}},
		{"~@x", []token.Type{token.TILDE_AT, token.SYMBOL, token.EOF}},
		{"@x", []token.Type{token.AT, token.SYMBOL, token.EOF}},
		{"#(+ % 1)", []token.Type{token.HASH_PAREN, token.SYMBOL, token.SYMBOL, token.INT, token.PAREN_R, token.EOF}},
		{`#"a+"`, []token.Type{token.REGEX, token.EOF}},
		{"; comment\nx", []token.Type{token.COMMENT, token.SYMBOL, token.EOF}},
		{"if def apply", []token.Type{token.SPECIAL, token.SPECIAL, token.SPECIAL, token.EOF}},
		{"iffy definite", []token.Type{token.SYMBOL, token.SYMBOL, token.EOF}},
		{"(a)", []token.Type{token.PAREN_L, token.SYMBOL, token.PAREN_R, token.EOF}},
	}
	for _, test := range tests {
		assert.Equal(t, test.types, scanTypes(t, test.src), "src %q", test.src)
	}
}

func TestTokenText(t *testing.T) {
	lex := New(token.NewScanner("test", `(foo :bar "baz")`))
	var texts []string
	for {
		tok, err := lex.NextToken()
		require.NoError(t, err)
		if tok.Type == token.EOF {
			break
		}
		texts = append(texts, tok.Text)
	}
	assert.Equal(t, []string{"(", "foo", ":bar", `"baz"`, ")"}, texts)
}

func TestScanErrors(t *testing.T) {
	assert.Equal(t, lisp.ErrNonTerminatedString, scanError(t, `"abc`).Code)
	assert.Equal(t, lisp.ErrInvalidEscape, scanError(t, `"a\qb"`).Code)
	assert.Equal(t, lisp.ErrInvalidEscape, scanError(t, `"trailing\`).Code)
	assert.Equal(t, lisp.ErrNonTerminatedString, scanError(t, `#"abc`).Code)
}

func TestLocations(t *testing.T) {
	lex := New(token.NewScanner("test.lbt", "a\nb"))
	tok, err := lex.NextToken()
	require.NoError(t, err)
	assert.Equal(t, 1, tok.Source.Line)
	tok, err = lex.NextToken()
	require.NoError(t, err)
	assert.Equal(t, 2, tok.Source.Line)
	assert.Equal(t, "test.lbt", tok.Source.File)
}
