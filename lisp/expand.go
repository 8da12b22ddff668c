package lisp

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cotsog/Lambdatron/lisp/symbol"
)

// Expand rewrites the reader-macro placeholder forms the parser emits into
// canonical evaluator input.  After expansion only quote remains as a
// lexical reader form: syntax-quote, unquote, unquote-splicing, deref,
// regex literals, and the #(...) shorthand have all been lowered.
func Expand(env *LEnv, v *LVal) *LVal {
	rt := env.Runtime
	switch v.Type {
	case LSeq:
		cells, lerr := v.Seq.Slice()
		if lerr != nil {
			return lerr
		}
		if len(cells) == 2 && cells[0].Type == LSymbol && cells[0].NS == symbol.None {
			switch cells[0].Name {
			case rt.sqID:
				return expandSyntaxQuote(env, cells[1])
			case rt.unquoteID, rt.spliceID:
				return env.Errorf(ErrRuntime, "unquote outside syntax-quote")
			case rt.derefID:
				arg := Expand(env, cells[1])
				if arg.Type == LError {
					return arg
				}
				return List([]*LVal{coreSymbol(rt, ".deref"), arg})
			case rt.regexID:
				return expandRegex(env, cells[1])
			case rt.shorthandID:
				return expandFnShorthand(env, cells[1])
			}
		}
		out := make([]*LVal, len(cells))
		for i, c := range cells {
			x := Expand(env, c)
			if x.Type == LError {
				return x
			}
			out[i] = x
		}
		return List(out)
	case LVector:
		out := make([]*LVal, len(v.Cells))
		for i, c := range v.Cells {
			x := Expand(env, c)
			if x.Type == LError {
				return x
			}
			out[i] = x
		}
		return Vector(out)
	case LMap:
		m := NewMap()
		var lerr *LVal
		v.Map.Each(func(k, val *LVal) bool {
			ek := Expand(env, k)
			if ek.Type == LError {
				lerr = ek
				return false
			}
			ev := Expand(env, val)
			if ev.Type == LError {
				lerr = ev
				return false
			}
			lerr = m.Set(ek, ev)
			return lerr == nil
		})
		if lerr != nil {
			return lerr
		}
		return MapVal(m)
	default:
		return v
	}
}

func coreSymbol(rt *Runtime, name string) *LVal {
	return Symbol(rt.coreID, rt.Symbols.Intern(name))
}

func quoteForm(v *LVal) *LVal {
	return List([]*LVal{SpecialVal(SpecialQuote), v})
}

// expandSyntaxQuote lowers a syntax-quoted template into code that
// constructs the template's value.  Atoms self-quote, unqualified symbols
// gain the current namespace, unquote escapes, and unquote-splicing
// splices into the enclosing sequential form.
func expandSyntaxQuote(env *LEnv, form *LVal) *LVal {
	rt := env.Runtime
	switch form.Type {
	case LSymbol:
		if form.NS == symbol.None {
			return quoteForm(Symbol(rt.Namespace.Name, form.Name))
		}
		return quoteForm(form)
	case LSeq:
		cells, lerr := form.Seq.Slice()
		if lerr != nil {
			return lerr
		}
		if len(cells) == 2 && cells[0].Type == LSymbol && cells[0].NS == symbol.None {
			switch cells[0].Name {
			case rt.unquoteID:
				return Expand(env, cells[1])
			case rt.spliceID:
				return env.Errorf(ErrRuntime, "unquote-splicing outside a sequential form")
			case rt.sqID:
				// a nested syntax-quote gains one level of quoting: the
				// inner template is expanded and the expansion itself is
				// syntax-quoted
				inner := expandSyntaxQuote(env, cells[1])
				if inner.Type == LError {
					return inner
				}
				return expandSyntaxQuote(env, inner)
			}
		}
		segs, lerr2 := env.sqSegments(cells)
		if lerr2 != nil {
			return lerr2
		}
		return List(append([]*LVal{coreSymbol(rt, ".concat")}, segs...))
	case LVector:
		segs, lerr := env.sqSegments(form.Cells)
		if lerr != nil {
			return lerr
		}
		concat := List(append([]*LVal{coreSymbol(rt, ".concat")}, segs...))
		return List([]*LVal{coreSymbol(rt, ".vec"), concat})
	case LMap:
		var cells []*LVal
		form.Map.Each(func(k, v *LVal) bool {
			cells = append(cells, k, v)
			return true
		})
		segs, lerr := env.sqSegments(cells)
		if lerr != nil {
			return lerr
		}
		concat := List(append([]*LVal{coreSymbol(rt, ".concat")}, segs...))
		return List([]*LVal{coreSymbol(rt, ".apply-map"), concat})
	default:
		return form
	}
}

// sqSegments builds the .concat segments of a sequential syntax-quote
// expansion: spliced elements contribute themselves, everything else is
// wrapped in a one-element list.
func (env *LEnv) sqSegments(cells []*LVal) ([]*LVal, *LVal) {
	rt := env.Runtime
	segs := make([]*LVal, 0, len(cells))
	for _, c := range cells {
		if c.Type == LSeq {
			sub, lerr := c.Seq.Slice()
			if lerr != nil {
				return nil, lerr
			}
			if len(sub) == 2 && sub[0].Type == LSymbol && sub[0].NS == symbol.None && sub[0].Name == rt.spliceID {
				spliced := Expand(env, sub[1])
				if spliced.Type == LError {
					return nil, spliced
				}
				segs = append(segs, spliced)
				continue
			}
		}
		x := expandSyntaxQuote(env, c)
		if x.Type == LError {
			return nil, x
		}
		segs = append(segs, List([]*LVal{coreSymbol(rt, ".list"), x}))
	}
	return segs, nil
}

func expandRegex(env *LEnv, v *LVal) *LVal {
	if v.Type != LString {
		return ReadErrorf(ErrInvalidRegex, "regex literal is not a string")
	}
	if _, err := regexp.Compile(v.Str); err != nil {
		return ReadErrorf(ErrInvalidRegex, "invalid regex literal: %s", err)
	}
	return List([]*LVal{coreSymbol(env.Runtime, ".re-pattern"), String(v.Str)})
}

// expandFnShorthand lowers #(...) into an fn form.  The % family of
// symbols determines the parameter vector: % alone takes one argument,
// %1..%n are positional, and %& captures a variadic tail.
func expandFnShorthand(env *LEnv, body *LVal) *LVal {
	nargs, short, vargs, lerr := env.countShorthandArgs(body, true)
	if lerr != nil {
		return lerr
	}
	t := env.Runtime.Symbols
	var params []*LVal
	if short {
		params = []*LVal{Symbol(symbol.None, t.Intern("%"))}
	} else {
		params = make([]*LVal, nargs)
		for i := range params {
			params[i] = Symbol(symbol.None, t.Intern("%"+strconv.Itoa(i+1)))
		}
	}
	if vargs {
		params = append(params, Symbol(symbol.None, env.Runtime.ampID), Symbol(symbol.None, t.Intern("%&")))
	}
	expanded := Expand(env, body)
	if expanded.Type == LError {
		return expanded
	}
	return List([]*LVal{SpecialVal(SpecialFn), Vector(params), expanded})
}

// countShorthandArgs walks a shorthand body counting % argument symbols.
// Mixing % with %N is rejected, as is nesting #(...) forms.
func (env *LEnv) countShorthandArgs(v *LVal, top bool) (nargs int, short bool, vargs bool, lerr *LVal) {
	switch v.Type {
	case LSymbol:
		if v.NS != symbol.None {
			return 0, false, false, nil
		}
		name := env.Runtime.symString(v.Name)
		if !strings.HasPrefix(name, "%") {
			return 0, false, false, nil
		}
		numStr := name[1:]
		if numStr == "" {
			return 0, true, false, nil
		}
		if numStr == "&" {
			return 0, false, true, nil
		}
		num, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, false, false, nil
		}
		return num, false, false, nil
	case LSeq:
		cells, serr := v.Seq.Slice()
		if serr != nil {
			return 0, false, false, serr
		}
		if !top && len(cells) == 2 && cells[0].Type == LSymbol && cells[0].Name == env.Runtime.shorthandID {
			return 0, false, false, ReadErrorf(ErrInvalidLiteral, "nested #(...) forms are not allowed")
		}
		return env.countShorthandCells(cells)
	case LVector:
		return env.countShorthandCells(v.Cells)
	case LMap:
		var cells []*LVal
		v.Map.Each(func(k, val *LVal) bool {
			cells = append(cells, k, val)
			return true
		})
		return env.countShorthandCells(cells)
	default:
		return 0, false, false, nil
	}
}

func (env *LEnv) countShorthandCells(cells []*LVal) (nargs int, short bool, vargs bool, lerr *LVal) {
	for _, c := range cells {
		n, s, va, err := env.countShorthandArgs(c, false)
		if err != nil {
			return 0, false, false, err
		}
		short = short || s
		vargs = vargs || va
		if n > nargs {
			nargs = n
		}
	}
	if short && nargs > 0 {
		return 0, false, false, ReadErrorf(ErrInvalidLiteral, "invalid mix of %% and %%%d argument symbols", nargs)
	}
	return nargs, short, vargs, nil
}
