package lisp

import (
	"io"
	"os"
	"strings"

	"github.com/cotsog/Lambdatron/lisp/symbol"
)

// Namespace names reserved by the runtime.
const (
	CoreNamespace = "lambdatron.core"
	UserNamespace = "user"
)

// Reader parses source text into unexpanded value trees.
type Reader interface {
	Read(name string, r io.Reader) ([]*LVal, error)
}

// Runtime is the session-global state shared by every environment in an
// interpreter: the intern store, the namespace table, the current
// namespace, and the output hook used by the printing host functions.
type Runtime struct {
	Symbols   symbol.Table
	Registry  *Registry
	Namespace *Namespace
	Output    io.Writer
	Reader    Reader

	coreID symbol.ID
	ampID  symbol.ID

	// reader-macro marker symbols recognized by the expander
	sqID        symbol.ID
	unquoteID   symbol.ID
	spliceID    symbol.ID
	derefID     symbol.ID
	shorthandID symbol.ID
	regexID     symbol.ID
}

// NewRuntime initializes a Runtime with the host function set registered
// in the core namespace.  The core namespace is current until the caller
// switches away.
func NewRuntime(out io.Writer) *Runtime {
	if out == nil {
		out = os.Stdout
	}
	rt := &Runtime{
		Symbols:  symbol.NewTable(),
		Registry: NewRegistry(),
		Output:   out,
	}
	rt.coreID = rt.Symbols.Intern(CoreNamespace)
	rt.ampID = rt.Symbols.Intern("&")
	rt.sqID = rt.Symbols.Intern("syntax-quote")
	rt.unquoteID = rt.Symbols.Intern("unquote")
	rt.spliceID = rt.Symbols.Intern("unquote-splicing")
	rt.derefID = rt.Symbols.Intern("deref")
	rt.shorthandID = rt.Symbols.Intern("fn-shorthand")
	rt.regexID = rt.Symbols.Intern("regex")

	core := rt.Registry.Define(rt.coreID)
	for _, def := range langBuiltins {
		core.SetVar(rt.Symbols.Intern(def.name), BuiltinVal(def))
	}
	rt.Namespace = core
	return rt
}

// InNamespace switches the current namespace, defining it first when
// necessary.  A newly created namespace refers every core var.
func (rt *Runtime) InNamespace(name symbol.ID) *Namespace {
	ns := rt.Registry.Lookup(name)
	if ns == nil {
		ns = rt.Registry.Define(name)
		if name != rt.coreID {
			ns.ReferAll(rt.Registry.Lookup(rt.coreID))
		}
	}
	rt.Namespace = ns
	return ns
}

// symString renders an interned ID for diagnostics.
func (rt *Runtime) symString(id symbol.ID) string {
	s, ok := rt.Symbols.String(id)
	if !ok {
		return "#<symbol ?>"
	}
	return s
}

func (rt *Runtime) qualString(ns, name symbol.ID) string {
	if ns == symbol.None {
		return rt.symString(name)
	}
	return rt.symString(ns) + "/" + rt.symString(name)
}

// LEnv is a lexical scope.  The root environment of an interpreter has no
// parent and exposes the Runtime; lexical scopes chain to their parent and
// share the root's Runtime.
type LEnv struct {
	Parent  *LEnv
	Scope   map[symbol.ID]*LVal
	Runtime *Runtime
}

// NewRootEnv returns the root environment for rt.
func NewRootEnv(rt *Runtime) *LEnv {
	return &LEnv{
		Scope:   make(map[symbol.ID]*LVal),
		Runtime: rt,
	}
}

// NewEnv initializes and returns a lexical scope chained to parent.
func NewEnv(parent *LEnv) *LEnv {
	return &LEnv{
		Parent:  parent,
		Scope:   make(map[symbol.ID]*LVal),
		Runtime: parent.Runtime,
	}
}

// Put binds id to v in the environment's own frame.
func (env *LEnv) Put(id symbol.ID, v *LVal) {
	if v == nil {
		panic("nil value")
	}
	env.Scope[id] = v
}

// Get resolves the symbol k.  Unqualified symbols walk the lexical frames
// deepest-first and then fall through to the current namespace.  A bound
// Var resolves to its value; an unbound Var resolves to the Var itself.
func (env *LEnv) Get(k *LVal) *LVal {
	if k.Type != LSymbol {
		return env.Errorf(ErrInvalidArgument, "not a symbol: %v", k.Type)
	}
	if k.NS == symbol.None {
		for scope := env; scope != nil; scope = scope.Parent {
			if v, ok := scope.Scope[k.Name]; ok {
				return v
			}
		}
	}
	vr := env.lookupVar(k)
	if vr == nil {
		return env.Errorf(ErrInvalidSymbol, "unable to resolve symbol: %s",
			env.Runtime.qualString(k.NS, k.Name))
	}
	if !vr.Bound {
		return VarVal(vr)
	}
	return vr.Val
}

// GetVar resolves the symbol k to a Var without dereferencing it.  Lexical
// bindings are not Vars and do not participate.
func (env *LEnv) GetVar(k *LVal) *LVal {
	if k.Type != LSymbol {
		return env.Errorf(ErrInvalidArgument, "not a symbol: %v", k.Type)
	}
	vr := env.lookupVar(k)
	if vr == nil {
		return env.Errorf(ErrInvalidSymbol, "unable to resolve var: %s",
			env.Runtime.qualString(k.NS, k.Name))
	}
	return VarVal(vr)
}

func (env *LEnv) lookupVar(k *LVal) *Var {
	rt := env.Runtime
	cur := rt.Namespace
	if k.NS == symbol.None {
		return cur.Resolve(k.Name)
	}
	ns := cur.Aliases[k.NS]
	if ns == nil {
		ns = rt.Registry.Lookup(k.NS)
	}
	if ns == nil {
		return nil
	}
	if ns == cur {
		// Symbols the reader qualified with the current namespace still
		// see referred vars, so syntax-quoted templates resolve.
		return cur.Resolve(k.Name)
	}
	return ns.Vars[k.Name]
}

func (env *LEnv) root() *LEnv {
	for env.Parent != nil {
		env = env.Parent
	}
	return env
}

// Errorf returns an evaluation error value.
func (env *LEnv) Errorf(code ErrCode, format string, v ...interface{}) *LVal {
	return Errorf(code, format, v...)
}

// Load reads, expands, and evaluates every form read from r, returning
// the value of the last form.  The first failure stops the load.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	rt := env.Runtime
	if rt.Reader == nil {
		return env.Errorf(ErrRuntime, "runtime has no reader")
	}
	forms, err := rt.Reader.Read(name, r)
	if err != nil {
		if lerr, ok := err.(*Error); ok {
			return ErrorVal(lerr)
		}
		return env.Errorf(ErrRuntime, "%s", err)
	}
	ret := Nil()
	for _, form := range forms {
		x := Expand(env, form)
		if x.Type == LError {
			return x
		}
		ret = noRecur(env.Eval(x))
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// LoadString is Load on an in-memory source string.
func (env *LEnv) LoadString(name, src string) *LVal {
	return env.Load(name, strings.NewReader(src))
}
