package token

import (
	"unicode/utf8"
)

// Scanner facilitates construction of tokens from in-memory source text.
// The scanner tracks line numbers so emitted tokens carry an accurate
// Location.
type Scanner struct {
	file string
	src  string

	start     int // start of the current token
	pos       int // index of the next rune to scan
	line      int // line number at pos
	startLine int // line number at start
}

// NewScanner initializes and returns a new Scanner reading src.
func NewScanner(file string, src string) *Scanner {
	return &Scanner{
		file:      file,
		src:       src,
		line:      1,
		startLine: 1,
	}
}

// EmitToken returns a token containing the text scanned since the last call
// to either EmitToken or Ignore.
func (s *Scanner) EmitToken(typ Type) *Token {
	tok := &Token{
		Type:   typ,
		Text:   s.Text(),
		Source: s.LocStart(),
	}
	s.Ignore()
	return tok
}

// Ignore causes the scanner to skip all text scanned since the last call to
// either EmitToken or Ignore.
func (s *Scanner) Ignore() {
	s.start = s.pos
	s.startLine = s.line
}

// Text returns the text scanned since the last call to either EmitToken or
// Ignore.
func (s *Scanner) Text() string {
	return s.src[s.start:s.pos]
}

// EOF returns true when the scanner has consumed all of its input.
func (s *Scanner) EOF() bool {
	return s.pos >= len(s.src)
}

// Peek returns the next rune to be scanned without consuming it.  Peek
// returns a false second value at EOF.
func (s *Scanner) Peek() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(s.src[s.pos:])
	return c, true
}

// ScanRune consumes the next rune of input and returns it.  ScanRune
// returns a false second value at EOF.
func (s *Scanner) ScanRune() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	c, n := utf8.DecodeRuneInString(s.src[s.pos:])
	s.pos += n
	if c == '\n' {
		s.line++
	}
	return c, true
}

// LocStart returns a Location referencing the beginning of the current
// token, just beyond the end of the previous token.
func (s *Scanner) LocStart() *Location {
	return &Location{
		File: s.file,
		Line: s.startLine,
		Pos:  s.start,
	}
}

// Loc returns a Location referencing the current scanner position.
func (s *Scanner) Loc() *Location {
	return &Location{
		File: s.file,
		Line: s.line,
		Pos:  s.pos,
	}
}
