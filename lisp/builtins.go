package lisp

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cotsog/Lambdatron/lisp/symbol"
)

// BuiltinFn is a host-provided primitive invoked by the evaluator with
// evaluated arguments.
type BuiltinFn func(env *LEnv, args []*LVal) *LVal

// BuiltinDef registers a host function under a stable name.
type BuiltinDef struct {
	name string
	fn   BuiltinFn
}

// Name returns the name the builtin is registered under.
func (def *BuiltinDef) Name() string { return def.name }

// Eval invokes the builtin.
func (def *BuiltinDef) Eval(env *LEnv, args []*LVal) *LVal {
	return def.fn(env, args)
}

var langBuiltins = []*BuiltinDef{
	{"+", builtinAdd},
	{"-", builtinSub},
	{"*", builtinMul},
	{"/", builtinDiv},
	{"mod", builtinMod},
	{"=", builtinEq},
	{"<", builtinLT},
	{"<=", builtinLEq},
	{">", builtinGT},
	{">=", builtinGEq},
	{".cons", builtinCons},
	{".first", builtinFirst},
	{".rest", builtinRest},
	{".next", builtinNext},
	{".seq", builtinSeq},
	{".list", builtinList},
	{".vector", builtinVector},
	{".vec", builtinVec},
	{".count", builtinCount},
	{".nth", builtinNth},
	{".assoc", builtinAssoc},
	{".dissoc", builtinDissoc},
	{".get", builtinGet},
	{".concat", builtinConcat},
	{".apply-map", builtinApplyMap},
	{".lazy-seq", builtinLazySeq},
	{".deref", builtinDeref},
	{".type", builtinType},
	{".name", builtinName},
	{".symbol", builtinSymbol},
	{".keyword", builtinKeyword},
	{".meta", builtinMeta},
	{".with-meta", builtinWithMeta},
	{".str", builtinStr},
	{".pr-str", builtinPrStr},
	{".print", builtinPrint},
	{".println", builtinPrintln},
	{".in-ns", builtinInNS},
	{".alias", builtinAlias},
	{".refer", builtinRefer},
	{".re-pattern", builtinRePattern},
	{".re-matches", builtinReMatches},
}

// DefaultBuiltins returns the host functions registered in the core
// namespace of every new runtime.
func DefaultBuiltins() []*BuiltinDef {
	defs := make([]*BuiltinDef, len(langBuiltins))
	copy(defs, langBuiltins)
	return defs
}

func checkNArgs(name string, args []*LVal, n int) *LVal {
	if len(args) != n {
		return Errorf(ErrArity, "%s expects %d arguments (got %d)", name, n, len(args))
	}
	return nil
}

func builtinAdd(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNumeric("+", args); lerr != nil {
		return lerr
	}
	acc := Int(0)
	for _, a := range args {
		acc = numAdd(acc, a)
	}
	return acc
}

func builtinSub(env *LEnv, args []*LVal) *LVal {
	if len(args) == 0 {
		return Errorf(ErrArity, "- expects at least one argument")
	}
	if lerr := checkNumeric("-", args); lerr != nil {
		return lerr
	}
	if len(args) == 1 {
		return numSub(Int(0), args[0])
	}
	acc := args[0]
	for _, a := range args[1:] {
		acc = numSub(acc, a)
	}
	return acc
}

func builtinMul(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNumeric("*", args); lerr != nil {
		return lerr
	}
	acc := Int(1)
	for _, a := range args {
		acc = numMul(acc, a)
	}
	return acc
}

func builtinDiv(env *LEnv, args []*LVal) *LVal {
	if len(args) == 0 {
		return Errorf(ErrArity, "/ expects at least one argument")
	}
	if lerr := checkNumeric("/", args); lerr != nil {
		return lerr
	}
	if len(args) == 1 {
		return numDiv(Int(1), args[0])
	}
	acc := args[0]
	for _, a := range args[1:] {
		acc = numDiv(acc, a)
		if acc.Type == LError {
			return acc
		}
	}
	return acc
}

func builtinMod(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs("mod", args, 2); lerr != nil {
		return lerr
	}
	return numMod(args[0], args[1])
}

func builtinEq(env *LEnv, args []*LVal) *LVal {
	if len(args) < 1 {
		return Errorf(ErrArity, "= expects at least one argument")
	}
	for _, a := range args[1:] {
		eq, lerr := equalErr(args[0], a)
		if lerr != nil {
			return lerr
		}
		if !eq {
			return Bool(false)
		}
	}
	return Bool(true)
}

func builtinCompare(name string, args []*LVal, ok func(a, b *LVal) bool) *LVal {
	if len(args) < 2 {
		return Errorf(ErrArity, "%s expects at least two arguments", name)
	}
	if lerr := checkNumeric(name, args); lerr != nil {
		return lerr
	}
	for i := 0; i < len(args)-1; i++ {
		if !ok(args[i], args[i+1]) {
			return Bool(false)
		}
	}
	return Bool(true)
}

func builtinLT(env *LEnv, args []*LVal) *LVal {
	return builtinCompare("<", args, func(a, b *LVal) bool { return numLess(a, b) })
}

func builtinLEq(env *LEnv, args []*LVal) *LVal {
	return builtinCompare("<=", args, func(a, b *LVal) bool { return !numLess(b, a) })
}

func builtinGT(env *LEnv, args []*LVal) *LVal {
	return builtinCompare(">", args, func(a, b *LVal) bool { return numLess(b, a) })
}

func builtinGEq(env *LEnv, args []*LVal) *LVal {
	return builtinCompare(">=", args, func(a, b *LVal) bool { return !numLess(a, b) })
}

// seqOf coerces a collection to a sequence.  Strings become sequences of
// characters and maps become sequences of [k v] pair vectors.
func seqOf(v *LVal) (*Seq, *LVal) {
	switch v.Type {
	case LNil:
		return emptySeq, nil
	case LSeq:
		return v.Seq, nil
	case LVector:
		return List(v.Cells).Seq, nil
	case LString:
		cells := make([]*LVal, 0, len(v.Str))
		for _, c := range v.Str {
			cells = append(cells, Char(c))
		}
		return List(cells).Seq, nil
	case LMap:
		cells, lerr := flattenColl(v)
		if lerr != nil {
			return nil, lerr
		}
		return List(cells).Seq, nil
	default:
		return nil, Errorf(ErrInvalidArgument, "cannot make a seq from value of type %s", v.Type)
	}
}

func builtinCons(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".cons", args, 2); lerr != nil {
		return lerr
	}
	tail, lerr := seqOf(args[1])
	if lerr != nil {
		return lerr
	}
	return Cons(args[0], tail)
}

func builtinFirst(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".first", args, 1); lerr != nil {
		return lerr
	}
	s, lerr := seqOf(args[0])
	if lerr != nil {
		return lerr
	}
	v, lerr := s.First()
	if lerr != nil {
		return lerr
	}
	return v
}

func builtinRest(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".rest", args, 1); lerr != nil {
		return lerr
	}
	s, lerr := seqOf(args[0])
	if lerr != nil {
		return lerr
	}
	rest, lerr := s.Rest()
	if lerr != nil {
		return lerr
	}
	return SeqVal(rest)
}

func builtinNext(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".next", args, 1); lerr != nil {
		return lerr
	}
	rest := builtinRest(env, args)
	if rest.Type == LError {
		return rest
	}
	empty, lerr := rest.Seq.IsEmpty()
	if lerr != nil {
		return lerr
	}
	if empty {
		return Nil()
	}
	return rest
}

func builtinSeq(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".seq", args, 1); lerr != nil {
		return lerr
	}
	s, lerr := seqOf(args[0])
	if lerr != nil {
		return lerr
	}
	empty, lerr := s.IsEmpty()
	if lerr != nil {
		return lerr
	}
	if empty {
		return Nil()
	}
	return SeqVal(s)
}

func builtinList(env *LEnv, args []*LVal) *LVal {
	return List(args)
}

func builtinVector(env *LEnv, args []*LVal) *LVal {
	return Vector(args)
}

func builtinVec(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".vec", args, 1); lerr != nil {
		return lerr
	}
	if args[0].Type == LVector {
		return args[0]
	}
	s, lerr := seqOf(args[0])
	if lerr != nil {
		return lerr
	}
	cells, lerr := s.Slice()
	if lerr != nil {
		return lerr
	}
	return Vector(cells)
}

func builtinCount(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".count", args, 1); lerr != nil {
		return lerr
	}
	switch args[0].Type {
	case LVector:
		return Int(int64(len(args[0].Cells)))
	case LMap:
		return Int(int64(args[0].Map.Len()))
	case LString:
		return Int(int64(len([]rune(args[0].Str))))
	}
	s, lerr := seqOf(args[0])
	if lerr != nil {
		return lerr
	}
	n, lerr := s.Len()
	if lerr != nil {
		return lerr
	}
	return Int(int64(n))
}

func builtinNth(env *LEnv, args []*LVal) *LVal {
	if len(args) < 2 || len(args) > 3 {
		return Errorf(ErrArity, ".nth expects two or three arguments (got %d)", len(args))
	}
	if args[1].Type != LInt {
		return Errorf(ErrInvalidArgument, ".nth index is not an integer: %s", args[1].Type)
	}
	i := args[1].Int
	missing := func() *LVal {
		if len(args) == 3 {
			return args[2]
		}
		return Errorf(ErrOutOfBounds, ".nth index out of bounds: %d", i)
	}
	if i < 0 {
		return missing()
	}
	if args[0].Type == LVector {
		if i >= int64(len(args[0].Cells)) {
			return missing()
		}
		return args[0].Cells[i]
	}
	s, lerr := seqOf(args[0])
	if lerr != nil {
		return lerr
	}
	for {
		empty, lerr := s.IsEmpty()
		if lerr != nil {
			return lerr
		}
		if empty {
			return missing()
		}
		if i == 0 {
			return s.hd
		}
		i--
		s = s.tl
	}
}

func builtinAssoc(env *LEnv, args []*LVal) *LVal {
	if len(args) < 3 {
		return Errorf(ErrArity, ".assoc expects a collection and key-value pairs")
	}
	switch args[0].Type {
	case LNil, LMap:
		if (len(args)-1)%2 != 0 {
			return Errorf(ErrInvalidArgument, ".assoc expects an even number of key-value forms")
		}
		m := NewMap()
		if args[0].Type == LMap {
			m = args[0].Map
		}
		for i := 1; i < len(args); i += 2 {
			next, lerr := m.Assoc(args[i], args[i+1])
			if lerr != nil {
				return lerr
			}
			m = next
		}
		return MapVal(m)
	case LVector:
		if lerr := checkNArgs(".assoc", args, 3); lerr != nil {
			return lerr
		}
		if args[1].Type != LInt {
			return Errorf(ErrInvalidArgument, ".assoc vector index is not an integer: %s", args[1].Type)
		}
		i := args[1].Int
		cells := args[0].Cells
		if i < 0 || i > int64(len(cells)) {
			return Errorf(ErrOutOfBounds, ".assoc index out of bounds: %d", i)
		}
		next := make([]*LVal, len(cells), len(cells)+1)
		copy(next, cells)
		if i == int64(len(cells)) {
			next = append(next, args[2])
		} else {
			next[i] = args[2]
		}
		return Vector(next)
	default:
		return Errorf(ErrInvalidArgument, ".assoc target is not a map or vector: %s", args[0].Type)
	}
}

func builtinDissoc(env *LEnv, args []*LVal) *LVal {
	if len(args) < 1 {
		return Errorf(ErrArity, ".dissoc expects a map")
	}
	if args[0].Type == LNil {
		return Nil()
	}
	if args[0].Type != LMap {
		return Errorf(ErrInvalidArgument, ".dissoc target is not a map: %s", args[0].Type)
	}
	m := args[0].Map
	for _, k := range args[1:] {
		next, lerr := m.Dissoc(k)
		if lerr != nil {
			return lerr
		}
		m = next
	}
	return MapVal(m)
}

func builtinGet(env *LEnv, args []*LVal) *LVal {
	if len(args) < 2 || len(args) > 3 {
		return Errorf(ErrArity, ".get expects two or three arguments (got %d)", len(args))
	}
	missing := Nil()
	if len(args) == 3 {
		missing = args[2]
	}
	switch args[0].Type {
	case LNil:
		return missing
	case LMap:
		v, ok, lerr := args[0].Map.Get(args[1])
		if lerr != nil {
			return lerr
		}
		if !ok {
			return missing
		}
		return v
	case LVector:
		if args[1].Type != LInt {
			return missing
		}
		i := args[1].Int
		if i < 0 || i >= int64(len(args[0].Cells)) {
			return missing
		}
		return args[0].Cells[i]
	default:
		return Errorf(ErrInvalidArgument, ".get target is not a map or vector: %s", args[0].Type)
	}
}

// builtinConcat eagerly concatenates collections into a seq.  The lazy
// concat of the standard library builds on seqs; this primitive backs
// syntax-quote expansion.
func builtinConcat(env *LEnv, args []*LVal) *LVal {
	var cells []*LVal
	for _, a := range args {
		s, lerr := seqOf(a)
		if lerr != nil {
			return lerr
		}
		part, lerr := s.Slice()
		if lerr != nil {
			return lerr
		}
		cells = append(cells, part...)
	}
	return List(cells)
}

func builtinApplyMap(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".apply-map", args, 1); lerr != nil {
		return lerr
	}
	s, lerr := seqOf(args[0])
	if lerr != nil {
		return lerr
	}
	cells, lerr := s.Slice()
	if lerr != nil {
		return lerr
	}
	if len(cells)%2 != 0 {
		return Errorf(ErrInvalidArgument, ".apply-map expects an even number of forms")
	}
	m := NewMap()
	for i := 0; i < len(cells); i += 2 {
		if lerr := m.Set(cells[i], cells[i+1]); lerr != nil {
			return lerr
		}
	}
	return MapVal(m)
}

func builtinLazySeq(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".lazy-seq", args, 1); lerr != nil {
		return lerr
	}
	if args[0].Type != LFun {
		return Errorf(ErrInvalidArgument, ".lazy-seq argument is not a function: %s", args[0].Type)
	}
	return Lazy(args[0], env)
}

func builtinDeref(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".deref", args, 1); lerr != nil {
		return lerr
	}
	if args[0].Type != LVar {
		return Errorf(ErrInvalidArgument, ".deref argument is not a var: %s", args[0].Type)
	}
	vr := args[0].Var
	if !vr.Bound {
		return Errorf(ErrUnboundVar, "var %s is unbound", env.Runtime.symString(vr.Name))
	}
	return vr.Val
}

func builtinType(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".type", args, 1); lerr != nil {
		return lerr
	}
	return Keyword(symbol.None, env.Runtime.Symbols.Intern(args[0].Type.String()))
}

func builtinName(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".name", args, 1); lerr != nil {
		return lerr
	}
	switch args[0].Type {
	case LString:
		return args[0]
	case LSymbol, LKeyword:
		return String(env.Runtime.symString(args[0].Name))
	default:
		return Errorf(ErrInvalidArgument, ".name argument is not a string, symbol, or keyword: %s", args[0].Type)
	}
}

func internName(env *LEnv, name string, mk func(ns, name symbol.ID) *LVal) *LVal {
	t := env.Runtime.Symbols
	if i := strings.IndexByte(name, '/'); i > 0 && i < len(name)-1 {
		return mk(t.Intern(name[:i]), t.Intern(name[i+1:]))
	}
	return mk(symbol.None, t.Intern(name))
}

func builtinSymbol(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".symbol", args, 1); lerr != nil {
		return lerr
	}
	if args[0].Type != LString {
		return Errorf(ErrInvalidArgument, ".symbol argument is not a string: %s", args[0].Type)
	}
	return internName(env, args[0].Str, Symbol)
}

func builtinKeyword(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".keyword", args, 1); lerr != nil {
		return lerr
	}
	switch args[0].Type {
	case LString:
		return internName(env, args[0].Str, Keyword)
	case LSymbol:
		return Keyword(args[0].NS, args[0].Name)
	case LKeyword:
		return args[0]
	default:
		return Errorf(ErrInvalidArgument, ".keyword argument is not a string or symbol: %s", args[0].Type)
	}
}

func builtinMeta(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".meta", args, 1); lerr != nil {
		return lerr
	}
	if args[0].Type != LVar {
		return Errorf(ErrInvalidArgument, ".meta argument is not a var: %s", args[0].Type)
	}
	if args[0].Var.Meta == nil {
		return Nil()
	}
	return MapVal(args[0].Var.Meta)
}

func builtinWithMeta(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".with-meta", args, 2); lerr != nil {
		return lerr
	}
	if args[0].Type != LVar {
		return Errorf(ErrInvalidArgument, ".with-meta target is not a var: %s", args[0].Type)
	}
	if args[1].Type != LMap {
		return Errorf(ErrInvalidArgument, ".with-meta metadata is not a map: %s", args[1].Type)
	}
	args[0].Var.Meta = args[1].Map
	return args[0]
}

func builtinStr(env *LEnv, args []*LVal) *LVal {
	var b strings.Builder
	for _, a := range args {
		if a.Type == LNil {
			continue
		}
		b.WriteString(DisplayString(a, env.Runtime.Symbols))
	}
	return String(b.String())
}

func builtinPrStr(env *LEnv, args []*LVal) *LVal {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = PrintString(a, env.Runtime.Symbols)
	}
	return String(strings.Join(parts, " "))
}

func builtinPrint(env *LEnv, args []*LVal) *LVal {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = DisplayString(a, env.Runtime.Symbols)
	}
	fmt.Fprint(env.Runtime.Output, strings.Join(parts, " "))
	return Nil()
}

func builtinPrintln(env *LEnv, args []*LVal) *LVal {
	r := builtinPrint(env, args)
	if r.Type == LError {
		return r
	}
	fmt.Fprintln(env.Runtime.Output)
	return Nil()
}

func builtinInNS(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".in-ns", args, 1); lerr != nil {
		return lerr
	}
	name, lerr := namespaceName(env, args[0])
	if lerr != nil {
		return lerr
	}
	env.Runtime.InNamespace(name)
	return Nil()
}

func builtinAlias(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".alias", args, 2); lerr != nil {
		return lerr
	}
	if args[0].Type != LSymbol || args[0].NS != symbol.None {
		return Errorf(ErrInvalidArgument, ".alias name is not an unqualified symbol")
	}
	name, lerr := namespaceName(env, args[1])
	if lerr != nil {
		return lerr
	}
	ns := env.Runtime.Registry.Lookup(name)
	if ns == nil {
		return Errorf(ErrInvalidArgument, ".alias target namespace does not exist: %s", env.Runtime.symString(name))
	}
	env.Runtime.Namespace.Alias(args[0].Name, ns)
	return Nil()
}

func builtinRefer(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".refer", args, 1); lerr != nil {
		return lerr
	}
	name, lerr := namespaceName(env, args[0])
	if lerr != nil {
		return lerr
	}
	ns := env.Runtime.Registry.Lookup(name)
	if ns == nil {
		return Errorf(ErrInvalidArgument, ".refer namespace does not exist: %s", env.Runtime.symString(name))
	}
	env.Runtime.Namespace.ReferAll(ns)
	return Nil()
}

func namespaceName(env *LEnv, v *LVal) (symbol.ID, *LVal) {
	switch v.Type {
	case LSymbol:
		if v.NS != symbol.None {
			return symbol.None, Errorf(ErrInvalidArgument, "namespace name is a qualified symbol")
		}
		return v.Name, nil
	case LString:
		return env.Runtime.Symbols.Intern(v.Str), nil
	default:
		return symbol.None, Errorf(ErrInvalidArgument, "namespace name is not a symbol or string: %s", v.Type)
	}
}

func builtinRePattern(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".re-pattern", args, 1); lerr != nil {
		return lerr
	}
	if args[0].Type != LString {
		return Errorf(ErrInvalidArgument, ".re-pattern argument is not a string: %s", args[0].Type)
	}
	if _, err := regexp.Compile(args[0].Str); err != nil {
		return Errorf(ErrInvalidRegex, "invalid regex: %s", err)
	}
	return args[0]
}

func builtinReMatches(env *LEnv, args []*LVal) *LVal {
	if lerr := checkNArgs(".re-matches", args, 2); lerr != nil {
		return lerr
	}
	if args[0].Type != LString || args[1].Type != LString {
		return Errorf(ErrInvalidArgument, ".re-matches arguments are not strings")
	}
	re, err := regexp.Compile("^(?:" + args[0].Str + ")$")
	if err != nil {
		return Errorf(ErrInvalidRegex, "invalid regex: %s", err)
	}
	m := re.FindStringSubmatch(args[1].Str)
	if m == nil {
		return Nil()
	}
	if len(m) == 1 {
		return String(m[0])
	}
	cells := make([]*LVal, len(m))
	for i, g := range m {
		cells[i] = String(g)
	}
	return Vector(cells)
}
