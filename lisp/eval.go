package lisp

// Eval evaluates v in the scope of env and returns the resulting LVal.
// Atoms evaluate to themselves, symbols resolve through the environment,
// collections evaluate their elements, and non-empty seqs are invocations.
func (env *LEnv) Eval(v *LVal) *LVal {
	switch v.Type {
	case LSymbol:
		return env.Get(v)
	case LVector:
		cells := make([]*LVal, len(v.Cells))
		for i, c := range v.Cells {
			r := noRecur(env.Eval(c))
			if r.Type == LError {
				return r
			}
			cells[i] = r
		}
		return Vector(cells)
	case LMap:
		m := NewMap()
		var lerr *LVal
		v.Map.Each(func(k, val *LVal) bool {
			ek := noRecur(env.Eval(k))
			if ek.Type == LError {
				lerr = ek
				return false
			}
			ev := noRecur(env.Eval(val))
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
	case LSeq:
		return env.evalSeq(v)
	default:
		return v
	}
}

// evalSeq evaluates a non-empty seq as an invocation: special forms and
// macros receive unevaluated tail arguments, functions and builtins
// receive evaluated ones.
func (env *LEnv) evalSeq(v *LVal) *LVal {
	cells, lerr := v.Seq.Slice()
	if lerr != nil {
		return lerr
	}
	if len(cells) == 0 {
		return EmptySeq()
	}
	head := noRecur(env.Eval(cells[0]))
	if head.Type == LError {
		return head
	}
	args := cells[1:]
	switch head.Type {
	case LSpecial:
		return specialHandler(head.Special)(env, args)
	case LFun:
		if head.Fun.Macro {
			expansion := env.FunCall(head, args)
			if expansion.Type == LError {
				return expansion
			}
			return env.Eval(expansion)
		}
		vals, lerr := env.evalArgs(args)
		if lerr != nil {
			return lerr
		}
		return env.FunCall(head, vals)
	case LBuiltin:
		vals, lerr := env.evalArgs(args)
		if lerr != nil {
			return lerr
		}
		return head.Builtin.Eval(env, vals)
	default:
		return env.Errorf(ErrNotEvalable, "first element of expression is not callable: %s", head.Type)
	}
}

func (env *LEnv) evalArgs(args []*LVal) ([]*LVal, *LVal) {
	vals := make([]*LVal, len(args))
	for i, a := range args {
		r := noRecur(env.Eval(a))
		if r.Type == LError {
			return nil, r
		}
		vals[i] = r
	}
	return vals, nil
}

// FunCall invokes fun, a function or builtin value, with the given
// evaluated arguments.  A recur sentinel produced in the tail position of
// the body re-binds the selected arity without growing the Go stack.
func (env *LEnv) FunCall(fun *LVal, args []*LVal) *LVal {
	switch fun.Type {
	case LBuiltin:
		return fun.Builtin.Eval(env, args)
	case LFun:
	default:
		return env.Errorf(ErrNotEvalable, "value of type %s is not callable", fun.Type)
	}
	f := fun.Fun
	ar := f.selectArity(len(args))
	if ar == nil {
		return env.Errorf(ErrArity, "%s takes no matching arity for %d arguments",
			env.funName(f), len(args))
	}
	for {
		fenv := NewEnv(f.Env)
		if f.Name != 0 {
			fenv.Put(f.Name, fun)
		}
		bindArity(fenv, ar, args)
		r := fenv.evalBody(ar.Body)
		if r.Type != LRecur {
			return r
		}
		// recur re-enters the selected arity, not arity selection
		args = r.Cells
		if !arityAccepts(ar, len(args)) {
			return env.Errorf(ErrArity, "recur with %d arguments does not match the enclosing arity", len(args))
		}
	}
}

func arityAccepts(ar *Arity, n int) bool {
	if ar.HasVariadic {
		return n >= ar.NArgs()
	}
	return n == ar.NArgs()
}

func bindArity(fenv *LEnv, ar *Arity, args []*LVal) {
	for i, p := range ar.Params {
		fenv.Put(p, args[i])
	}
	if ar.HasVariadic {
		fenv.Put(ar.Variadic, List(args[ar.NArgs():]))
	}
}

// evalBody evaluates forms as an implicit do.  The last form is in tail
// position: a recur sentinel it produces passes through to the caller.
func (env *LEnv) evalBody(body []*LVal) *LVal {
	if len(body) == 0 {
		return Nil()
	}
	for _, form := range body[:len(body)-1] {
		r := noRecur(env.Eval(form))
		if r.Type == LError {
			return r
		}
	}
	return env.Eval(body[len(body)-1])
}

// noRecur converts a recur sentinel observed outside a tail position into
// a recur-misuse error.
func noRecur(v *LVal) *LVal {
	if v.Type == LRecur {
		return Errorf(ErrRecurMisuse, "recur used outside the tail position of fn or loop")
	}
	return v
}

func (env *LEnv) funName(f *Fun) string {
	if f.Name == 0 {
		return "anonymous function"
	}
	return env.Runtime.symString(f.Name)
}
