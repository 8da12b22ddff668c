package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cotsog/Lambdatron/lisp/symbol"
)

func TestTruthy(t *testing.T) {
	assert.False(t, Nil().Truthy())
	assert.False(t, Bool(false).Truthy())
	assert.True(t, Bool(true).Truthy())
	assert.True(t, Int(0).Truthy())
	assert.True(t, String("").Truthy())
	assert.True(t, EmptySeq().Truthy())
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Nil(), Nil()))
	assert.True(t, Equal(Int(3), Int(3)))
	assert.True(t, Equal(Int(3), Float(3.0)), "numeric equality is cross-type")
	assert.True(t, Equal(Float(3.0), Int(3)))
	assert.False(t, Equal(Int(3), Float(3.5)))
	assert.False(t, Equal(Int(3), String("3")))
	assert.True(t, Equal(Char('a'), Char('a')))
	assert.False(t, Equal(Char('a'), Int('a')), "chars are not ints")

	tab := symbol.NewTable()
	a := tab.Intern("a")
	assert.True(t, Equal(Symbol(symbol.None, a), Symbol(symbol.None, a)))
	assert.False(t, Equal(Symbol(symbol.None, a), Keyword(symbol.None, a)))

	// sequential equality crosses seqs and vectors
	assert.True(t, Equal(List([]*LVal{Int(1), Int(2)}), Vector([]*LVal{Int(1), Int(2)})))
	assert.False(t, Equal(List([]*LVal{Int(1)}), List([]*LVal{Int(1), Int(2)})))

	// functions compare by identity
	f := FunVal(&Fun{})
	assert.True(t, Equal(f, f))
	assert.False(t, Equal(f, FunVal(&Fun{})))
}

func TestSelectArity(t *testing.T) {
	tab := symbol.NewTable()
	x, y, rest := tab.Intern("x"), tab.Intern("y"), tab.Intern("rest")
	one := &Arity{Params: []symbol.ID{x}}
	two := &Arity{Params: []symbol.ID{x, y}}
	variadic := &Arity{Params: []symbol.ID{x, y}, Variadic: rest, HasVariadic: true}
	f := &Fun{Arity: []*Arity{one, two, variadic}}

	assert.Equal(t, one, f.selectArity(1))
	assert.Equal(t, two, f.selectArity(2), "exact match beats the variadic arity")
	assert.Equal(t, variadic, f.selectArity(3))
	assert.Equal(t, variadic, f.selectArity(7))
	assert.Nil(t, f.selectArity(0))
}

func TestPrint(t *testing.T) {
	tab := symbol.NewTable()
	foo := tab.Intern("foo")
	ns := tab.Intern("myns")

	tests := []struct {
		v    *LVal
		want string
	}{
		{Nil(), "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Int(-5), "-5"},
		{Float(2.5), "2.5"},
		{Float(3), "3.0"},
		{Char('a'), `\a`},
		{Char('\n'), `\newline`},
		{Char(' '), `\space`},
		{String("hi"), `"hi"`},
		{String("a\"b"), `"a\"b"`},
		{Symbol(symbol.None, foo), "foo"},
		{Symbol(ns, foo), "myns/foo"},
		{Keyword(symbol.None, foo), ":foo"},
		{EmptySeq(), "()"},
		{List([]*LVal{Int(1), Int(2)}), "(1 2)"},
		{Vector([]*LVal{Int(1), String("a")}), `[1 "a"]`},
		{Vector(nil), "[]"},
		{SpecialVal(SpecialIf), "if"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, PrintString(test.v, tab))
	}
}

func TestPrintMap(t *testing.T) {
	m := NewMap()
	assert.Nil(t, m.Set(Int(1), Bool(true)))
	assert.Nil(t, m.Set(Int(2), Bool(false)))
	assert.Equal(t, "{1 true, 2 false}", PrintString(MapVal(m), nil))
	assert.Equal(t, "{}", PrintString(MapVal(NewMap()), nil))
}

func TestPrintVar(t *testing.T) {
	tab := symbol.NewTable()
	ns := newNamespace(tab.Intern("user"))
	vr := ns.SetVar(tab.Intern("x"), Int(1))
	assert.Equal(t, "#'user/x", PrintString(VarVal(vr), tab))
}

func TestPrintDisplay(t *testing.T) {
	assert.Equal(t, "hi", DisplayString(String("hi"), nil))
	assert.Equal(t, "a", DisplayString(Char('a'), nil))
	assert.Equal(t, "nil", DisplayString(Nil(), nil))
}
