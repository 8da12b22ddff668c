// Package parser converts lambdatron source text into unexpanded value
// trees.  Reader-macro prefixes are emitted as placeholder forms for the
// runtime expander.
package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/cotsog/Lambdatron/lisp"
	"github.com/cotsog/Lambdatron/lisp/symbol"
	"github.com/cotsog/Lambdatron/parser/lexer"
	"github.com/cotsog/Lambdatron/parser/token"
)

// NewReader returns a lisp.Reader that interns identifiers in t.  The
// table must be the runtime's own intern store so symbol IDs agree.
func NewReader(t symbol.Table) lisp.Reader {
	return &reader{table: t}
}

type reader struct {
	table symbol.Table
}

// Read implements lisp.Reader.
func (rd *reader) Read(name string, r io.Reader) ([]*lisp.LVal, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	p := New(token.NewScanner(name, string(src)), rd.table)
	return p.ParseProgram()
}

// Parser is a recursive descent parser over the token stream.
type Parser struct {
	lex     *lexer.Lexer
	table   symbol.Table
	curr    *token.Token
	peek    *token.Token
	peekErr error
}

// New initializes and returns a Parser reading tokens scanned from s.
func New(s *token.Scanner, t symbol.Table) *Parser {
	p := &Parser{
		lex:   lexer.New(s),
		table: t,
	}
	// Prime the peek token so the parser is in the proper state when the
	// first parse function is called.
	p.readToken()
	return p
}

// ParseProgram parses every form in the input.
func (p *Parser) ParseProgram() ([]*lisp.LVal, error) {
	var exprs []*lisp.LVal
	for {
		p.skipComments()
		if err := p.peekError(); err != nil {
			return nil, err
		}
		if p.peekType() == token.EOF {
			return exprs, nil
		}
		expr, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}

// ParseExpression parses a single form.
func (p *Parser) ParseExpression() (*lisp.LVal, error) {
	p.skipComments()
	if err := p.peekError(); err != nil {
		return nil, err
	}
	switch p.peekType() {
	case token.INT:
		return p.parseInt()
	case token.FLOAT:
		return p.parseFloat()
	case token.STRING:
		return p.parseString()
	case token.CHAR:
		return p.parseChar()
	case token.REGEX:
		return p.parseRegex()
	case token.NIL:
		p.readToken()
		return p.located(lisp.Nil()), nil
	case token.TRUE:
		p.readToken()
		return p.located(lisp.Bool(true)), nil
	case token.FALSE:
		p.readToken()
		return p.located(lisp.Bool(false)), nil
	case token.KEYWORD:
		return p.parseKeyword()
	case token.SYMBOL:
		return p.parseSymbol()
	case token.SPECIAL:
		return p.parseSpecial()
	case token.QUOTE:
		p.readToken()
		return p.parseWrapped(lisp.SpecialVal(lisp.SpecialQuote))
	case token.BACKTICK:
		p.readToken()
		return p.parseWrapped(p.markerSymbol("syntax-quote"))
	case token.TILDE:
		p.readToken()
		return p.parseWrapped(p.markerSymbol("unquote"))
	case token.TILDE_AT:
		p.readToken()
		return p.parseWrapped(p.markerSymbol("unquote-splicing"))
	case token.AT:
		p.readToken()
		return p.parseWrapped(p.markerSymbol("deref"))
	case token.PAREN_L:
		return p.parseList()
	case token.HASH_PAREN:
		return p.parseFnShorthand()
	case token.BRACKET_L:
		return p.parseVector()
	case token.BRACE_L:
		return p.parseMap()
	case token.EOF:
		return nil, p.errorf(lisp.ErrUnfinishedForm, "unexpected EOF")
	default:
		p.readToken()
		return nil, p.errorf(lisp.ErrMismatchedDelimiter, "unexpected %s", p.curr.Type)
	}
}

func (p *Parser) parseInt() (*lisp.LVal, error) {
	p.readToken()
	text := p.curr.Text
	x, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// Fall back to a double on int64 overflow.
		f, ferr := strconv.ParseFloat(text, 64)
		if ferr != nil {
			return nil, p.errorf(lisp.ErrInvalidLiteral, "invalid integer literal: %s", text)
		}
		return p.located(lisp.Float(f)), nil
	}
	return p.located(lisp.Int(x)), nil
}

func (p *Parser) parseFloat() (*lisp.LVal, error) {
	p.readToken()
	text := p.curr.Text
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf(lisp.ErrInvalidLiteral, "invalid floating point literal: %s", text)
	}
	return p.located(lisp.Float(f)), nil
}

func (p *Parser) parseString() (*lisp.LVal, error) {
	p.readToken()
	text := p.curr.Text
	s, err := unescape(text[1 : len(text)-1])
	if err != nil {
		return nil, p.errorf(lisp.ErrInvalidEscape, "%s", err)
	}
	return p.located(lisp.String(s)), nil
}

// unescape decodes the escape sequences the lexer validated.
func unescape(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'r':
			b.WriteByte('\r')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		}
	}
	return b.String(), nil
}

var charNames = map[string]rune{
	"newline": '\n',
	"space":   ' ',
	"tab":     '\t',
	"return":  '\r',
}

func (p *Parser) parseChar() (*lisp.LVal, error) {
	p.readToken()
	body := p.curr.Text[1:]
	if c, ok := charNames[body]; ok {
		return p.located(lisp.Char(c)), nil
	}
	runes := []rune(body)
	if len(runes) != 1 {
		return nil, p.errorf(lisp.ErrInvalidLiteral, "invalid character literal: \\%s", body)
	}
	return p.located(lisp.Char(runes[0])), nil
}

func (p *Parser) parseRegex() (*lisp.LVal, error) {
	p.readToken()
	text := p.curr.Text
	// trim the leading #" and trailing quote; the pattern body stays raw
	pat := text[2 : len(text)-1]
	return p.located(lisp.List([]*lisp.LVal{
		p.markerSymbol("regex"),
		lisp.String(pat),
	})), nil
}

func (p *Parser) parseKeyword() (*lisp.LVal, error) {
	p.readToken()
	ns, name := splitQualified(p.curr.Text[1:])
	return p.located(lisp.Keyword(p.internNS(ns), p.table.Intern(name))), nil
}

func (p *Parser) parseSymbol() (*lisp.LVal, error) {
	p.readToken()
	ns, name := splitQualified(p.curr.Text)
	return p.located(lisp.Symbol(p.internNS(ns), p.table.Intern(name))), nil
}

func (p *Parser) parseSpecial() (*lisp.LVal, error) {
	p.readToken()
	tag, ok := lisp.SpecialByName(p.curr.Text)
	if !ok {
		return nil, p.errorf(lisp.ErrInvalidLiteral, "unknown special form: %s", p.curr.Text)
	}
	return p.located(lisp.SpecialVal(tag)), nil
}

// splitQualified separates an ns/name identifier.  A lone slash is the
// division symbol, not a qualification.
func splitQualified(text string) (ns, name string) {
	i := strings.IndexByte(text, '/')
	if i <= 0 || i == len(text)-1 {
		return "", text
	}
	return text[:i], text[i+1:]
}

func (p *Parser) internNS(ns string) symbol.ID {
	if ns == "" {
		return symbol.None
	}
	return p.table.Intern(ns)
}

func (p *Parser) parseWrapped(head *lisp.LVal) (*lisp.LVal, error) {
	loc := p.curr.Source
	form, err := p.ParseExpression()
	if err != nil {
		return nil, err
	}
	v := lisp.List([]*lisp.LVal{head, form})
	v.Source = loc
	return v, nil
}

func (p *Parser) parseList() (*lisp.LVal, error) {
	p.readToken()
	cells, err := p.parseDelimited(token.PAREN_R)
	if err != nil {
		return nil, err
	}
	return p.locatedAt(lisp.List(cells)), nil
}

func (p *Parser) parseFnShorthand() (*lisp.LVal, error) {
	p.readToken()
	loc := p.curr.Source
	cells, err := p.parseDelimited(token.PAREN_R)
	if err != nil {
		return nil, err
	}
	v := lisp.List([]*lisp.LVal{p.markerSymbol("fn-shorthand"), lisp.List(cells)})
	v.Source = loc
	return v, nil
}

func (p *Parser) parseVector() (*lisp.LVal, error) {
	p.readToken()
	cells, err := p.parseDelimited(token.BRACKET_R)
	if err != nil {
		return nil, err
	}
	return p.locatedAt(lisp.Vector(cells)), nil
}

func (p *Parser) parseMap() (*lisp.LVal, error) {
	p.readToken()
	loc := p.curr.Source
	cells, err := p.parseDelimited(token.BRACE_R)
	if err != nil {
		return nil, err
	}
	if len(cells)%2 != 0 {
		return nil, &lisp.Error{
			Code:    lisp.ErrMapKVMismatch,
			Domain:  lisp.DomainRead,
			Message: "map literal has an odd number of forms",
			Source:  loc,
		}
	}
	m := lisp.NewMap()
	for i := 0; i < len(cells); i += 2 {
		if lerr := m.Set(cells[i], cells[i+1]); lerr != nil {
			return nil, lisp.GoError(lerr)
		}
	}
	v := lisp.MapVal(m)
	v.Source = loc
	return v, nil
}

// parseDelimited parses forms until the given closing delimiter.  EOF
// before the closer is an unfinished form; any other closer is a
// mismatch.
func (p *Parser) parseDelimited(closer token.Type) ([]*lisp.LVal, error) {
	var cells []*lisp.LVal
	for {
		p.skipComments()
		if err := p.peekError(); err != nil {
			return nil, err
		}
		switch p.peekType() {
		case closer:
			p.readToken()
			return cells, nil
		case token.EOF:
			return nil, p.errorf(lisp.ErrUnfinishedForm, "unexpected EOF before %s", closer)
		case token.PAREN_R, token.BRACKET_R, token.BRACE_R:
			p.readToken()
			return nil, p.errorf(lisp.ErrMismatchedDelimiter, "unexpected %s before %s", p.curr.Type, closer)
		}
		x, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		cells = append(cells, x)
	}
}

func (p *Parser) markerSymbol(name string) *lisp.LVal {
	return lisp.Symbol(symbol.None, p.table.Intern(name))
}

func (p *Parser) skipComments() {
	for p.peekType() == token.COMMENT {
		p.readToken()
	}
}

func (p *Parser) readToken() {
	p.curr = p.peek
	p.peek, p.peekErr = p.lex.NextToken()
	if p.peekErr != nil {
		p.peek = &token.Token{Type: token.ERROR}
	}
}

func (p *Parser) peekType() token.Type {
	return p.peek.Type
}

func (p *Parser) peekError() error {
	return p.peekErr
}

func (p *Parser) located(v *lisp.LVal) *lisp.LVal {
	v.Source = p.curr.Source
	return v
}

func (p *Parser) locatedAt(v *lisp.LVal) *lisp.LVal {
	v.Source = p.curr.Source
	return v
}

func (p *Parser) errorf(code lisp.ErrCode, format string, v ...interface{}) error {
	err := lisp.NewErrorf(code, format, v...)
	if p.curr != nil {
		err.Source = p.curr.Source
	}
	return err
}
