// Package lambdatron is a tree-walking interpreter for a Clojure-like
// Lisp dialect: persistent collections, first-class functions and macros,
// namespaces, lazy sequences, and constant-stack tail recursion through
// recur.
//
// The Interp type wires the reader pipeline in the parser package to the
// runtime in the lisp package and boots the embedded standard library.
package lambdatron

import (
	_ "embed"
	"io"

	"github.com/pkg/errors"

	"github.com/cotsog/Lambdatron/lisp"
	"github.com/cotsog/Lambdatron/lisp/symbol"
	"github.com/cotsog/Lambdatron/parser"
)

//go:embed lisp.lbt
var stdlib string

// Interp is a lambdatron interpreter session.
type Interp struct {
	rt  *lisp.Runtime
	env *lisp.LEnv
	out io.Writer
}

// Option configures an Interp.
type Option func(*Interp)

// WithOutput directs the output of the printing host functions to w.
func WithOutput(w io.Writer) Option {
	return func(in *Interp) { in.out = w }
}

// New returns an interpreter with the standard library evaluated into its
// core namespace and the user namespace current.  A standard library
// failure is fatal.
func New(opts ...Option) (*Interp, error) {
	in := &Interp{}
	for _, opt := range opts {
		opt(in)
	}
	if err := in.init(); err != nil {
		return nil, err
	}
	return in, nil
}

func (in *Interp) init() error {
	rt := lisp.NewRuntime(in.out)
	rt.Reader = parser.NewReader(rt.Symbols)
	env := lisp.NewRootEnv(rt)
	if err := lisp.GoError(env.LoadString("lisp.lbt", stdlib)); err != nil {
		return errors.Wrap(err, "bootstrap")
	}
	rt.InNamespace(rt.Symbols.Intern(lisp.UserNamespace))
	in.rt = rt
	in.env = env
	return nil
}

// Reset discards all interpreter state and boots a fresh runtime.
func (in *Interp) Reset() error {
	return in.init()
}

// Eval reads, expands, and evaluates src, returning the value of its last
// form.  Failures come back as error values; their domain distinguishes
// reader failures from evaluation failures.
func (in *Interp) Eval(src string) *lisp.LVal {
	return in.env.LoadString("eval", src)
}

// Load evaluates a stream of source text under the given name.
func (in *Interp) Load(name string, r io.Reader) *lisp.LVal {
	return in.env.Load(name, r)
}

// Print renders v in its canonical readable form.
func (in *Interp) Print(v *lisp.LVal) string {
	return lisp.PrintString(v, in.rt.Symbols)
}

// SetOutput redirects the printing host functions to w.
func (in *Interp) SetOutput(w io.Writer) {
	in.out = w
	in.rt.Output = w
}

// Symbols exposes the interpreter's intern store.
func (in *Interp) Symbols() symbol.Table {
	return in.rt.Symbols
}

// CurrentNamespace returns the name of the current namespace.
func (in *Interp) CurrentNamespace() string {
	name, _ := in.rt.Symbols.String(in.rt.Namespace.Name)
	return name
}

// Runtime exposes the underlying runtime for host integrations.
func (in *Interp) Runtime() *lisp.Runtime {
	return in.rt
}
