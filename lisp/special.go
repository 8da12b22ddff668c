package lisp

import "github.com/cotsog/Lambdatron/lisp/symbol"

// SpecialTag identifies one of the special forms.  Special forms receive
// unevaluated arguments; they are a tag in the value union rather than a
// callable so that the evaluator can dispatch on them before argument
// evaluation.
type SpecialTag uint

// The special forms.
const (
	SpecialQuote SpecialTag = iota
	SpecialIf
	SpecialDo
	SpecialDef
	SpecialLet
	SpecialVar
	SpecialFn
	SpecialDefmacro
	SpecialLoop
	SpecialRecur
	SpecialApply
	SpecialAttempt

	numSpecials
)

var specialTagStrings = [numSpecials]string{
	SpecialQuote:    "quote",
	SpecialIf:       "if",
	SpecialDo:       "do",
	SpecialDef:      "def",
	SpecialLet:      "let",
	SpecialVar:      "var",
	SpecialFn:       "fn",
	SpecialDefmacro: "defmacro",
	SpecialLoop:     "loop",
	SpecialRecur:    "recur",
	SpecialApply:    "apply",
	SpecialAttempt:  "attempt",
}

func (tag SpecialTag) String() string {
	if tag >= numSpecials {
		return "invalid"
	}
	return specialTagStrings[tag]
}

// SpecialByName returns the tag for a special form name.
func SpecialByName(name string) (SpecialTag, bool) {
	for tag, s := range specialTagStrings {
		if s == name {
			return SpecialTag(tag), true
		}
	}
	return 0, false
}

type specialFn func(env *LEnv, args []*LVal) *LVal

var specialHandlers [numSpecials]specialFn

func init() {
	specialHandlers = [numSpecials]specialFn{
		SpecialQuote:    opQuote,
		SpecialIf:       opIf,
		SpecialDo:       opDo,
		SpecialDef:      opDef,
		SpecialLet:      opLet,
		SpecialVar:      opVar,
		SpecialFn:       opFn,
		SpecialDefmacro: opDefmacro,
		SpecialLoop:     opLoop,
		SpecialRecur:    opRecur,
		SpecialApply:    opApply,
		SpecialAttempt:  opAttempt,
	}
}

func specialHandler(tag SpecialTag) specialFn {
	return specialHandlers[tag]
}

func opQuote(env *LEnv, args []*LVal) *LVal {
	if len(args) == 0 {
		return Nil()
	}
	return args[0]
}

// (if test then else?)
func opIf(env *LEnv, args []*LVal) *LVal {
	if len(args) < 2 || len(args) > 3 {
		return env.Errorf(ErrArity, "if expects two or three arguments (got %d)", len(args))
	}
	test := noRecur(env.Eval(args[0]))
	if test.Type == LError {
		return test
	}
	if test.Truthy() {
		return env.Eval(args[1])
	}
	if len(args) == 3 {
		return env.Eval(args[2])
	}
	return Nil()
}

func opDo(env *LEnv, args []*LVal) *LVal {
	return env.evalBody(args)
}

// (def sym init?)
func opDef(env *LEnv, args []*LVal) *LVal {
	if len(args) < 1 || len(args) > 2 {
		return env.Errorf(ErrArity, "def expects one or two arguments (got %d)", len(args))
	}
	sym := args[0]
	if lerr := env.checkDefTarget(sym); lerr != nil {
		return lerr
	}
	ns := env.Runtime.Namespace
	if len(args) == 1 {
		return VarVal(ns.Intern(sym.Name))
	}
	val := noRecur(env.Eval(args[1]))
	if val.Type == LError {
		return val
	}
	return VarVal(ns.SetVar(sym.Name, val))
}

// checkDefTarget validates the symbol being interned by def or defmacro.
// A qualified symbol must name the current namespace.
func (env *LEnv) checkDefTarget(sym *LVal) *LVal {
	if sym.Type != LSymbol {
		return env.Errorf(ErrInvalidArgument, "def target is not a symbol: %s", sym.Type)
	}
	if sym.NS != symbol.None && sym.NS != env.Runtime.Namespace.Name {
		return env.Errorf(ErrQualifiedSymbolMisuse, "cannot intern %s outside namespace %s",
			env.Runtime.qualString(sym.NS, sym.Name),
			env.Runtime.symString(env.Runtime.Namespace.Name))
	}
	return nil
}

// (let [sym val ...] body*)
func opLet(env *LEnv, args []*LVal) *LVal {
	letenv, lerr := env.bindingEnv("let", args)
	if lerr != nil {
		return lerr
	}
	return letenv.evalBody(args[1:])
}

// (loop [sym val ...] body*) -- like let, but the body is a recur target.
func opLoop(env *LEnv, args []*LVal) *LVal {
	letenv, lerr := env.bindingEnv("loop", args)
	if lerr != nil {
		return lerr
	}
	names := bindingNames(args[0])
	for {
		r := letenv.evalBody(args[1:])
		if r.Type != LRecur {
			return r
		}
		if len(r.Cells) != len(names) {
			return env.Errorf(ErrArity, "recur with %d arguments does not match %d loop bindings",
				len(r.Cells), len(names))
		}
		next := NewEnv(env)
		for i, name := range names {
			next.Put(name, r.Cells[i])
		}
		letenv = next
	}
}

// bindingEnv evaluates a let-style binding vector, each value in the scope
// accumulated so far, and returns the resulting scope.
func (env *LEnv) bindingEnv(form string, args []*LVal) (*LEnv, *LVal) {
	if len(args) == 0 {
		return nil, env.Errorf(ErrArity, "%s expects a binding vector", form)
	}
	bindings := args[0]
	if bindings.Type != LVector {
		return nil, env.Errorf(ErrBindingMismatch, "%s bindings are not a vector: %s", form, bindings.Type)
	}
	if len(bindings.Cells)%2 != 0 {
		return nil, env.Errorf(ErrBindingMismatch, "%s binding vector has an odd number of forms", form)
	}
	letenv := NewEnv(env)
	for i := 0; i < len(bindings.Cells); i += 2 {
		sym := bindings.Cells[i]
		if sym.Type != LSymbol || sym.NS != symbol.None {
			return nil, env.Errorf(ErrBindingMismatch, "%s binding target is not an unqualified symbol", form)
		}
		val := noRecur(letenv.Eval(bindings.Cells[i+1]))
		if val.Type == LError {
			return nil, val
		}
		letenv.Put(sym.Name, val)
	}
	return letenv, nil
}

func bindingNames(bindings *LVal) []symbol.ID {
	names := make([]symbol.ID, 0, len(bindings.Cells)/2)
	for i := 0; i < len(bindings.Cells); i += 2 {
		names = append(names, bindings.Cells[i].Name)
	}
	return names
}

// (var sym)
func opVar(env *LEnv, args []*LVal) *LVal {
	if len(args) != 1 {
		return env.Errorf(ErrArity, "var expects one argument (got %d)", len(args))
	}
	return env.GetVar(args[0])
}

// (fn name? [params] body*) or (fn name? ([params] body*)+)
func opFn(env *LEnv, args []*LVal) *LVal {
	f, lerr := env.buildFn("fn", args, false)
	if lerr != nil {
		return lerr
	}
	return FunVal(f)
}

// (defmacro name [params] body*) or (defmacro name ([params] body*)+)
func opDefmacro(env *LEnv, args []*LVal) *LVal {
	if len(args) < 1 {
		return env.Errorf(ErrArity, "defmacro expects a name")
	}
	sym := args[0]
	if lerr := env.checkDefTarget(sym); lerr != nil {
		return lerr
	}
	f, lerr := env.buildFn("defmacro", args, true)
	if lerr != nil {
		return lerr
	}
	f.Macro = true
	return VarVal(env.Runtime.Namespace.SetVar(sym.Name, FunVal(f)))
}

// buildFn parses fn or defmacro arguments into a closure capturing env.
// defmacro requires the leading name symbol.
func (env *LEnv) buildFn(form string, args []*LVal, nameRequired bool) (*Fun, *LVal) {
	f := &Fun{Env: env}
	if len(args) > 0 && args[0].Type == LSymbol && args[0].NS == symbol.None {
		f.Name = args[0].Name
		args = args[1:]
	} else if nameRequired {
		return nil, env.Errorf(ErrInvalidArgument, "%s name is not an unqualified symbol", form)
	}
	if len(args) == 0 {
		return nil, env.Errorf(ErrArity, "%s expects a parameter vector or arity clauses", form)
	}
	if args[0].Type == LVector {
		ar, lerr := env.buildArity(form, args[0], args[1:])
		if lerr != nil {
			return nil, lerr
		}
		f.Arity = []*Arity{ar}
		return f, nil
	}
	for _, clause := range args {
		if clause.Type != LSeq {
			return nil, env.Errorf(ErrInvalidArgument, "%s arity clause is not a list", form)
		}
		cells, lerr := clause.Seq.Slice()
		if lerr != nil {
			return nil, lerr
		}
		if len(cells) == 0 || cells[0].Type != LVector {
			return nil, env.Errorf(ErrInvalidArgument, "%s arity clause does not begin with a parameter vector", form)
		}
		ar, lerr2 := env.buildArity(form, cells[0], cells[1:])
		if lerr2 != nil {
			return nil, lerr2
		}
		f.Arity = append(f.Arity, ar)
	}
	return f, env.checkArities(form, f)
}

func (env *LEnv) buildArity(form string, params *LVal, body []*LVal) (*Arity, *LVal) {
	amp := env.Runtime.ampID
	ar := &Arity{Body: body}
	cells := params.Cells
	for i := 0; i < len(cells); i++ {
		sym := cells[i]
		if sym.Type != LSymbol || sym.NS != symbol.None {
			return nil, env.Errorf(ErrBindingMismatch, "%s parameter is not an unqualified symbol", form)
		}
		if sym.Name == amp {
			if i != len(cells)-2 {
				return nil, env.Errorf(ErrBindingMismatch, "%s has & in a non-penultimate position", form)
			}
			rest := cells[i+1]
			if rest.Type != LSymbol || rest.NS != symbol.None || rest.Name == amp {
				return nil, env.Errorf(ErrBindingMismatch, "%s variadic parameter is not an unqualified symbol", form)
			}
			ar.Variadic = rest.Name
			ar.HasVariadic = true
			return ar, nil
		}
		ar.Params = append(ar.Params, sym.Name)
	}
	return ar, nil
}

func (env *LEnv) checkArities(form string, f *Fun) *LVal {
	var variadic *Arity
	seen := make(map[int]bool)
	for _, ar := range f.Arity {
		if ar.HasVariadic {
			if variadic != nil {
				return env.Errorf(ErrInvalidArgument, "%s has more than one variadic arity", form)
			}
			variadic = ar
			continue
		}
		if seen[ar.NArgs()] {
			return env.Errorf(ErrInvalidArgument, "%s has more than one arity with %d parameters", form, ar.NArgs())
		}
		seen[ar.NArgs()] = true
	}
	if variadic != nil {
		for _, ar := range f.Arity {
			if !ar.HasVariadic && ar.NArgs() > variadic.NArgs() {
				return env.Errorf(ErrInvalidArgument, "%s has a fixed arity with more parameters than its variadic arity", form)
			}
		}
	}
	return nil
}

// (recur arg*) evaluates its arguments and produces the recur sentinel
// consumed by the enclosing fn or loop trampoline.
func opRecur(env *LEnv, args []*LVal) *LVal {
	vals, lerr := env.evalArgs(args)
	if lerr != nil {
		return lerr
	}
	return recurVal(vals)
}

// (apply f a1 ... an coll)
func opApply(env *LEnv, args []*LVal) *LVal {
	if len(args) < 2 {
		return env.Errorf(ErrArity, "apply expects a function and a collection (got %d arguments)", len(args))
	}
	vals, lerr := env.evalArgs(args)
	if lerr != nil {
		return lerr
	}
	f := vals[0]
	if f.Type == LFun && f.Fun.Macro {
		return env.Errorf(ErrInvalidArgument, "cannot apply a macro")
	}
	call := vals[1 : len(vals)-1]
	spread, lerr := flattenColl(vals[len(vals)-1])
	if lerr != nil {
		return lerr
	}
	return env.FunCall(f, append(call, spread...))
}

// flattenColl spreads the final apply argument.  Maps flatten to [k v]
// pair vectors.
func flattenColl(coll *LVal) ([]*LVal, *LVal) {
	switch coll.Type {
	case LNil:
		return nil, nil
	case LSeq:
		return coll.Seq.Slice()
	case LVector:
		return coll.Cells, nil
	case LMap:
		cells := make([]*LVal, 0, coll.Map.Len())
		coll.Map.Each(func(k, v *LVal) bool {
			cells = append(cells, Vector([]*LVal{k, v}))
			return true
		})
		return cells, nil
	default:
		return nil, Errorf(ErrInvalidArgument, "cannot apply across value of type %s", coll.Type)
	}
}

// (attempt e*) evaluates forms left to right and returns the first
// success.  When every form fails the last failure is returned.
func opAttempt(env *LEnv, args []*LVal) *LVal {
	if len(args) == 0 {
		return Nil()
	}
	var last *LVal
	for _, form := range args {
		last = noRecur(env.Eval(form))
		if last.Type != LError {
			return last
		}
	}
	return last
}
