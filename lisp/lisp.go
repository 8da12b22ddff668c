package lisp

import (
	"github.com/cotsog/Lambdatron/lisp/symbol"
	"github.com/cotsog/Lambdatron/parser/token"
)

// LType is the type of an LVal.
type LType uint

// Possible LType values.
const (
	LInvalid LType = iota
	LNil
	LBool
	LInt
	LFloat
	LChar
	LString
	LSymbol
	LKeyword
	LSeq
	LVector
	LMap
	LVar
	LFun
	LSpecial
	LBuiltin

	// LError and LRecur are internal evaluation results, not data.  They
	// cannot be read and do not print readably.
	LError
	LRecur

	numLTypes
)

var ltypeStrings = [numLTypes]string{
	LInvalid: "invalid",
	LNil:     "nil",
	LBool:    "bool",
	LInt:     "int",
	LFloat:   "float",
	LChar:    "char",
	LString:  "string",
	LSymbol:  "symbol",
	LKeyword: "keyword",
	LSeq:     "seq",
	LVector:  "vector",
	LMap:     "map",
	LVar:     "var",
	LFun:     "function",
	LSpecial: "special",
	LBuiltin: "builtin",
	LError:   "error",
	LRecur:   "recur",
}

func (t LType) String() string {
	if t >= numLTypes {
		return ltypeStrings[LInvalid]
	}
	return ltypeStrings[t]
}

// LVal is a lambdatron value.
type LVal struct {
	Type   LType
	Source *token.Location

	Bool    bool
	Int     int64
	Float   float64
	Char    rune
	Str     string
	Name    symbol.ID // LSymbol and LKeyword name
	NS      symbol.ID // LSymbol and LKeyword qualifier, symbol.None if absent
	Cells   []*LVal   // LVector elements and LRecur parameters
	Seq     *Seq
	Map     *Map
	Var     *Var
	Fun     *Fun
	Special SpecialTag
	Builtin *BuiltinDef
	Err     *Error
}

// Nil returns an LVal representing nil.
func Nil() *LVal {
	return &LVal{Type: LNil}
}

// Bool returns an LVal representing the boolean b.
func Bool(b bool) *LVal {
	return &LVal{Type: LBool, Bool: b}
}

// Int returns an LVal representing the integer x.
func Int(x int64) *LVal {
	return &LVal{Type: LInt, Int: x}
}

// Float returns an LVal representing the double precision float x.
func Float(x float64) *LVal {
	return &LVal{Type: LFloat, Float: x}
}

// Char returns an LVal representing the character c.
func Char(c rune) *LVal {
	return &LVal{Type: LChar, Char: c}
}

// String returns an LVal representing the string s.
func String(s string) *LVal {
	return &LVal{Type: LString, Str: s}
}

// Symbol returns an LVal representing a symbol.  An unqualified symbol
// passes symbol.None as ns.
func Symbol(ns, name symbol.ID) *LVal {
	return &LVal{Type: LSymbol, NS: ns, Name: name}
}

// Keyword returns an LVal representing a keyword.
func Keyword(ns, name symbol.ID) *LVal {
	return &LVal{Type: LKeyword, NS: ns, Name: name}
}

// Vector returns an LVal representing a vector with the given elements.
// The cells are not copied.
func Vector(cells []*LVal) *LVal {
	return &LVal{Type: LVector, Cells: cells}
}

// MapVal wraps m in an LVal.
func MapVal(m *Map) *LVal {
	return &LVal{Type: LMap, Map: m}
}

// SeqVal wraps s in an LVal.
func SeqVal(s *Seq) *LVal {
	return &LVal{Type: LSeq, Seq: s}
}

// EmptySeq returns the canonical empty sequence.
func EmptySeq() *LVal {
	return SeqVal(emptySeq)
}

// Cons returns a sequence with head v and tail s.
func Cons(v *LVal, s *Seq) *LVal {
	return SeqVal(&Seq{hd: v, tl: s})
}

// List returns a sequence containing the given values.  The cells are not
// copied.
func List(cells []*LVal) *LVal {
	s := emptySeq
	for i := len(cells) - 1; i >= 0; i-- {
		s = &Seq{hd: cells[i], tl: s}
	}
	return SeqVal(s)
}

// Lazy returns an unforced sequence whose contents are produced by calling
// thunk, a function of no arguments, in env.
func Lazy(thunk *LVal, env *LEnv) *LVal {
	return SeqVal(&Seq{thunk: thunk, env: env})
}

// VarVal wraps v in an LVal.
func VarVal(v *Var) *LVal {
	return &LVal{Type: LVar, Var: v}
}

// FunVal wraps f in an LVal.
func FunVal(f *Fun) *LVal {
	return &LVal{Type: LFun, Fun: f}
}

// SpecialVal returns an LVal representing a special form tag.
func SpecialVal(tag SpecialTag) *LVal {
	return &LVal{Type: LSpecial, Special: tag}
}

// BuiltinVal wraps a host function definition in an LVal.
func BuiltinVal(def *BuiltinDef) *LVal {
	return &LVal{Type: LBuiltin, Builtin: def}
}

func recurVal(params []*LVal) *LVal {
	return &LVal{Type: LRecur, Cells: params}
}

// IsNil returns true if v represents nil.
func (v *LVal) IsNil() bool {
	return v.Type == LNil
}

// Truthy returns the boolean interpretation of v.  Only nil and false are
// falsy.
func (v *LVal) Truthy() bool {
	return !(v.Type == LNil || (v.Type == LBool && !v.Bool))
}

// IsNumeric returns true if v is an int or a float.
func (v *LVal) IsNumeric() bool {
	return v.Type == LInt || v.Type == LFloat
}

// Fun is a closure capturing zero or more arities.
type Fun struct {
	// Name is the function's self-name, bound inside its own body.
	// Anonymous functions use symbol.None.
	Name  symbol.ID
	Macro bool
	Env   *LEnv
	Arity []*Arity
}

// Arity is one (parameters, body) pair within a function.
type Arity struct {
	Params      []symbol.ID
	Variadic    symbol.ID
	HasVariadic bool
	Body        []*LVal
}

// NArgs returns the number of fixed parameters in the arity.
func (a *Arity) NArgs() int {
	return len(a.Params)
}

// selectArity chooses the arity to run for a call with n arguments.  Exact
// fixed matches win; otherwise the variadic arity accepts any n at or above
// its fixed count.
func (f *Fun) selectArity(n int) *Arity {
	var variadic *Arity
	for _, a := range f.Arity {
		if a.HasVariadic {
			variadic = a
			continue
		}
		if a.NArgs() == n {
			return a
		}
	}
	if variadic != nil && variadic.NArgs() <= n {
		return variadic
	}
	return nil
}

// Equal returns true when a and b are structurally equal.  Numeric equality
// is cross-type.  Vars, functions, and builtins compare by identity.
// Forcing errors inside lazy sequences make the comparison false.
func Equal(a, b *LVal) bool {
	eq, err := equalErr(a, b)
	return err == nil && eq
}

func equalErr(a, b *LVal) (bool, *LVal) {
	if a.IsNumeric() && b.IsNumeric() {
		if a.Type == LInt && b.Type == LInt {
			return a.Int == b.Int, nil
		}
		return toFloat(a) == toFloat(b), nil
	}
	if sequential(a) && sequential(b) {
		return seqEqual(a, b)
	}
	if a.Type != b.Type {
		return false, nil
	}
	switch a.Type {
	case LNil:
		return true, nil
	case LBool:
		return a.Bool == b.Bool, nil
	case LChar:
		return a.Char == b.Char, nil
	case LString:
		return a.Str == b.Str, nil
	case LSymbol, LKeyword:
		return a.Name == b.Name && a.NS == b.NS, nil
	case LMap:
		return mapEqual(a.Map, b.Map)
	case LVar:
		return a.Var == b.Var, nil
	case LFun:
		return a.Fun == b.Fun, nil
	case LBuiltin:
		return a.Builtin == b.Builtin, nil
	case LSpecial:
		return a.Special == b.Special, nil
	default:
		return false, nil
	}
}

// sequential returns true for the types compared elementwise: seqs and
// vectors are equal when their elements are.
func sequential(v *LVal) bool {
	return v.Type == LSeq || v.Type == LVector
}

func seqEqual(a, b *LVal) (bool, *LVal) {
	ia, ib := NewSeqIterator(a), NewSeqIterator(b)
	for {
		oka := ia.Next()
		okb := ib.Next()
		if ia.Err() != nil {
			return false, ia.Err()
		}
		if ib.Err() != nil {
			return false, ib.Err()
		}
		if oka != okb {
			return false, nil
		}
		if !oka {
			return true, nil
		}
		eq, err := equalErr(ia.Value(), ib.Value())
		if err != nil || !eq {
			return eq, err
		}
	}
}
