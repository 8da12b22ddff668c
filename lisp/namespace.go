package lisp

import "github.com/cotsog/Lambdatron/lisp/symbol"

// Registry contains the namespaces known to an interpreter.
type Registry struct {
	Namespaces map[symbol.ID]*Namespace
}

// NewRegistry initializes and returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{Namespaces: make(map[symbol.ID]*Namespace)}
}

// Define returns the namespace with the given name, creating it if
// necessary.
func (r *Registry) Define(name symbol.ID) *Namespace {
	if ns, ok := r.Namespaces[name]; ok {
		return ns
	}
	ns := newNamespace(name)
	r.Namespaces[name] = ns
	return ns
}

// Lookup returns the namespace with the given name, or nil.
func (r *Registry) Lookup(name symbol.ID) *Namespace {
	return r.Namespaces[name]
}

// Namespace is a named set of Vars.  Referred vars come from other
// namespaces and resolve only when the namespace has no var of its own
// with the same name.  Aliases resolve the qualifier of qualified symbols.
type Namespace struct {
	Name     symbol.ID
	Vars     map[symbol.ID]*Var
	Aliases  map[symbol.ID]*Namespace
	Referred map[symbol.ID]*Var
}

func newNamespace(name symbol.ID) *Namespace {
	return &Namespace{
		Name:     name,
		Vars:     make(map[symbol.ID]*Var),
		Aliases:  make(map[symbol.ID]*Namespace),
		Referred: make(map[symbol.ID]*Var),
	}
}

// Intern returns the Var named name in ns, creating an unbound Var if none
// exists.  Vars are never removed once created.
func (ns *Namespace) Intern(name symbol.ID) *Var {
	if v, ok := ns.Vars[name]; ok {
		return v
	}
	v := &Var{Name: name, NS: ns}
	ns.Vars[name] = v
	return v
}

// SetVar binds name to val, interning a Var if necessary, and returns the
// Var.  This is the only mutation path for Var slots.
func (ns *Namespace) SetVar(name symbol.ID, val *LVal) *Var {
	v := ns.Intern(name)
	v.Val = val
	v.Bound = true
	return v
}

// Resolve returns the Var visible in ns under name: the namespace's own
// Vars shadow referred ones.  Resolve returns nil when name is not bound.
func (ns *Namespace) Resolve(name symbol.ID) *Var {
	if v, ok := ns.Vars[name]; ok {
		return v
	}
	if v, ok := ns.Referred[name]; ok {
		return v
	}
	return nil
}

// Refer makes the given var visible in ns under its own name.
func (ns *Namespace) Refer(v *Var) {
	ns.Referred[v.Name] = v
}

// ReferAll refers every Var currently interned in other.
func (ns *Namespace) ReferAll(other *Namespace) {
	for _, v := range other.Vars {
		ns.Referred[v.Name] = v
	}
}

// Alias resolves qualified symbols using alias as the qualifier to other.
func (ns *Namespace) Alias(alias symbol.ID, other *Namespace) {
	ns.Aliases[alias] = other
}

// Var is a reified binding cell.  A Var holds a back-reference to its
// namespace; the relation is not ownership, and cyclic value graphs
// through Vars are legal.
type Var struct {
	Name  symbol.ID
	NS    *Namespace
	Bound bool
	Val   *LVal
	Meta  *Map
}
