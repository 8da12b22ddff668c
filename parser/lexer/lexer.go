package lexer

import (
	"strings"
	"unicode"

	"github.com/cotsog/Lambdatron/lisp"
	"github.com/cotsog/Lambdatron/parser/token"
)

const miscWordSymbols = "-_*+!?/.$=<>&%"

var specialNames = map[string]bool{
	"quote":    true,
	"if":       true,
	"do":       true,
	"def":      true,
	"let":      true,
	"var":      true,
	"fn":       true,
	"defmacro": true,
	"loop":     true,
	"recur":    true,
	"apply":    true,
	"attempt":  true,
}

// Lexer scans lambdatron source text into a token stream.
type Lexer struct {
	scanner *token.Scanner
}

// New initializes and returns a Lexer reading tokens from s.
func New(s *token.Scanner) *Lexer {
	return &Lexer{scanner: s}
}

// NextToken scans and returns the next token.  At the end of input
// NextToken returns an EOF token.  A scan failure is returned as a
// *lisp.Error in the read domain.
func (lex *Lexer) NextToken() (*token.Token, error) {
	lex.skipWhitespace()
	ch, ok := lex.scanner.ScanRune()
	if !ok {
		return lex.scanner.EmitToken(token.EOF), nil
	}
	switch ch {
	case '(':
		return lex.scanner.EmitToken(token.PAREN_L), nil
	case ')':
		return lex.scanner.EmitToken(token.PAREN_R), nil
	case '[':
		return lex.scanner.EmitToken(token.BRACKET_L), nil
	case ']':
		return lex.scanner.EmitToken(token.BRACKET_R), nil
	case '{':
		return lex.scanner.EmitToken(token.BRACE_L), nil
	case '}':
		return lex.scanner.EmitToken(token.BRACE_R), nil
	case '\'':
		return lex.scanner.EmitToken(token.QUOTE), nil
	case '`':
		return lex.scanner.EmitToken(token.BACKTICK), nil
	case '@':
		return lex.scanner.EmitToken(token.AT), nil
	case '~':
		if lex.peekRune() == '@' {
			lex.scanner.ScanRune()
			return lex.scanner.EmitToken(token.TILDE_AT), nil
		}
		return lex.scanner.EmitToken(token.TILDE), nil
	case ';':
		return lex.readComment(), nil
	case '"':
		return lex.readString()
	case '\\':
		return lex.readChar()
	case '#':
		return lex.readDispatch()
	default:
		if !isWordRune(ch) {
			return nil, lex.errorf("unexpected text starting with %q", ch)
		}
		return lex.readWord(), nil
	}
}

func (lex *Lexer) readComment() *token.Token {
	for {
		c, ok := lex.scanner.Peek()
		if !ok || c == '\n' {
			return lex.scanner.EmitToken(token.COMMENT)
		}
		lex.scanner.ScanRune()
	}
}

func (lex *Lexer) readString() (*token.Token, error) {
	for {
		c, ok := lex.scanner.ScanRune()
		if !ok {
			return nil, lex.readError(lisp.ErrNonTerminatedString, "unterminated string literal")
		}
		switch c {
		case '"':
			return lex.scanner.EmitToken(token.STRING), nil
		case '\\':
			esc, ok := lex.scanner.ScanRune()
			if !ok {
				return nil, lex.readError(lisp.ErrInvalidEscape, "string literal ends with a bare backslash")
			}
			switch esc {
			case 'r', 'n', 't', '"', '\\':
			default:
				return nil, lex.readError(lisp.ErrInvalidEscape, "invalid escape character %q", esc)
			}
		}
	}
}

func (lex *Lexer) readChar() (*token.Token, error) {
	c, ok := lex.scanner.ScanRune()
	if !ok {
		return nil, lex.errorf("unexpected EOF scanning character literal")
	}
	if unicode.IsLetter(c) {
		// A named character such as \newline, or a one-letter literal.
		for isWordInterior(lex.peekRune()) {
			lex.scanner.ScanRune()
		}
	}
	return lex.scanner.EmitToken(token.CHAR), nil
}

func (lex *Lexer) readDispatch() (*token.Token, error) {
	switch lex.peekRune() {
	case '(':
		lex.scanner.ScanRune()
		return lex.scanner.EmitToken(token.HASH_PAREN), nil
	case '"':
		lex.scanner.ScanRune()
		return lex.readRegex()
	default:
		return nil, lex.errorf("invalid dispatch character %q", lex.peekRune())
	}
}

func (lex *Lexer) readRegex() (*token.Token, error) {
	for {
		c, ok := lex.scanner.ScanRune()
		if !ok {
			return nil, lex.readError(lisp.ErrNonTerminatedString, "unterminated regex literal")
		}
		switch c {
		case '"':
			return lex.scanner.EmitToken(token.REGEX), nil
		case '\\':
			// Regex escapes pass through to the pattern compiler.
			if _, ok := lex.scanner.ScanRune(); !ok {
				return nil, lex.readError(lisp.ErrNonTerminatedString, "unterminated regex literal")
			}
		}
	}
}

// readWord consumes the remainder of a word lexeme and classifies it.
func (lex *Lexer) readWord() *token.Token {
	for isWordInterior(lex.peekRune()) {
		lex.scanner.ScanRune()
	}
	text := lex.scanner.Text()
	switch {
	case specialNames[text]:
		return lex.scanner.EmitToken(token.SPECIAL)
	case strings.HasPrefix(text, ":") && len(text) >= 2:
		return lex.scanner.EmitToken(token.KEYWORD)
	case text == "nil":
		return lex.scanner.EmitToken(token.NIL)
	case text == "true":
		return lex.scanner.EmitToken(token.TRUE)
	case text == "false":
		return lex.scanner.EmitToken(token.FALSE)
	}
	if typ, ok := numberType(text); ok {
		return lex.scanner.EmitToken(typ)
	}
	return lex.scanner.EmitToken(token.SYMBOL)
}

// numberType reports whether text is a numeric literal and which kind.
// Integers are preferred; a decimal point or exponent selects a float.
// The parser performs the authoritative conversion, including the
// fallback to a float for an integer literal that overflows int64.
func numberType(text string) (token.Type, bool) {
	body := text
	if strings.HasPrefix(body, "+") || strings.HasPrefix(body, "-") {
		body = body[1:]
	}
	if body == "" || body[0] < '0' || body[0] > '9' {
		return token.INVALID, false
	}
	for _, c := range body {
		switch {
		case c >= '0' && c <= '9':
		case c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-':
			return token.FLOAT, true
		default:
			return token.INVALID, false
		}
	}
	return token.INT, true
}

func (lex *Lexer) skipWhitespace() {
	for {
		c, ok := lex.scanner.Peek()
		if !ok || !isSpace(c) {
			break
		}
		lex.scanner.ScanRune()
	}
	lex.scanner.Ignore()
}

func (lex *Lexer) peekRune() rune {
	r, _ := lex.scanner.Peek()
	return r
}

func (lex *Lexer) errorf(format string, v ...interface{}) error {
	return lex.readError(lisp.ErrUnfinishedForm, format, v...)
}

func (lex *Lexer) readError(code lisp.ErrCode, format string, v ...interface{}) error {
	err := lisp.NewErrorf(code, format, v...)
	err.Source = lex.scanner.Loc()
	return err
}

// isSpace reports whether c separates tokens.  Commas are whitespace, as
// in Clojure, so printed maps read back.
func isSpace(c rune) bool {
	return unicode.IsSpace(c) || c == ','
}

func isWordRune(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) ||
		strings.ContainsRune(miscWordSymbols, c) || c == ':'
}

func isWordInterior(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) ||
		strings.ContainsRune(miscWordSymbols, c)
}
