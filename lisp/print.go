package lisp

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/cotsog/Lambdatron/lisp/symbol"
)

// PrintString renders v in its canonical readable form, resolving interned
// identifiers through t.  Values without a readable form (functions,
// macros, builtins, vars' contents) print as opaque tagged forms.
func PrintString(v *LVal, t symbol.Table) string {
	var buf bytes.Buffer
	writeVal(&buf, v, t, true)
	return buf.String()
}

// DisplayString renders v for human output: strings print without quotes
// and characters print bare.  Everything else matches PrintString.
func DisplayString(v *LVal, t symbol.Table) string {
	var buf bytes.Buffer
	writeVal(&buf, v, t, false)
	return buf.String()
}

// String renders v without access to an intern store.  Symbols and
// keywords print opaquely; prefer PrintString when a table is available.
func (v *LVal) String() string {
	return PrintString(v, nil)
}

func writeVal(buf *bytes.Buffer, v *LVal, t symbol.Table, readable bool) {
	switch v.Type {
	case LNil:
		buf.WriteString("nil")
	case LBool:
		buf.WriteString(strconv.FormatBool(v.Bool))
	case LInt:
		buf.WriteString(strconv.FormatInt(v.Int, 10))
	case LFloat:
		buf.WriteString(formatFloat(v.Float))
	case LChar:
		if readable {
			buf.WriteString(charLiteral(v.Char))
		} else {
			buf.WriteRune(v.Char)
		}
	case LString:
		if readable {
			buf.WriteString(strconv.Quote(v.Str))
		} else {
			buf.WriteString(v.Str)
		}
	case LSymbol:
		writeName(buf, v, t)
	case LKeyword:
		buf.WriteString(":")
		writeName(buf, v, t)
	case LSeq:
		buf.WriteString("(")
		it := NewSeqIterator(v)
		first := true
		for it.Next() {
			if !first {
				buf.WriteString(" ")
			}
			first = false
			writeVal(buf, it.Value(), t, readable)
		}
		if it.Err() != nil {
			if !first {
				buf.WriteString(" ")
			}
			buf.WriteString("#<error: " + it.Err().Err.Message + ">")
		}
		buf.WriteString(")")
	case LVector:
		buf.WriteString("[")
		for i, c := range v.Cells {
			if i > 0 {
				buf.WriteString(" ")
			}
			writeVal(buf, c, t, readable)
		}
		buf.WriteString("]")
	case LMap:
		buf.WriteString("{")
		first := true
		v.Map.Each(func(k, val *LVal) bool {
			if !first {
				buf.WriteString(", ")
			}
			first = false
			writeVal(buf, k, t, readable)
			buf.WriteString(" ")
			writeVal(buf, val, t, readable)
			return true
		})
		buf.WriteString("}")
	case LVar:
		buf.WriteString("#'")
		if v.Var.NS != nil {
			writeID(buf, v.Var.NS.Name, t)
			buf.WriteString("/")
		}
		writeID(buf, v.Var.Name, t)
	case LFun:
		tag := "fn"
		if v.Fun.Macro {
			tag = "macro"
		}
		buf.WriteString("#<" + tag)
		if v.Fun.Name != symbol.None {
			buf.WriteString(" ")
			writeID(buf, v.Fun.Name, t)
		}
		buf.WriteString(">")
	case LBuiltin:
		buf.WriteString("#<builtin " + v.Builtin.name + ">")
	case LSpecial:
		buf.WriteString(v.Special.String())
	case LError:
		buf.WriteString("#<error: " + v.Err.Error() + ">")
	default:
		buf.WriteString("#<invalid>")
	}
}

func writeName(buf *bytes.Buffer, v *LVal, t symbol.Table) {
	if v.NS != symbol.None {
		writeID(buf, v.NS, t)
		buf.WriteString("/")
	}
	writeID(buf, v.Name, t)
}

func writeID(buf *bytes.Buffer, id symbol.ID, t symbol.Table) {
	if t != nil {
		if s, ok := t.String(id); ok {
			buf.WriteString(s)
			return
		}
	}
	buf.WriteString("#<symbol " + strconv.FormatUint(uint64(id), 10) + ">")
}

// formatFloat renders a float so it reads back as a float: integral
// values keep a trailing .0.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") && !strings.Contains(s, "Inf") && s != "NaN" {
		s += ".0"
	}
	return s
}

var namedChars = map[rune]string{
	'\n': `\newline`,
	' ':  `\space`,
	'\t': `\tab`,
	'\r': `\return`,
	'\\': `\\`,
	'"':  `\"`,
}

func charLiteral(c rune) string {
	if s, ok := namedChars[c]; ok {
		return s
	}
	return `\` + string(c)
}
