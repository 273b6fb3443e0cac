package py2hy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiam/py2hy/pyast"
)

func TestScopeLookup(t *testing.T) {
	mod := newScope(nil, scopeModule, "")
	mod.bind("x")
	mod.bind("y")

	class := newScope(mod, scopeClass, "C")
	class.bind("attr")

	method := newScope(class, scopeFunction, "m")
	method.declare("x", bindGlobal, nil)
	method.bind("x")

	inner := newScope(method, scopeFunction, "inner")
	inner.declare("n", bindNonlocal, nil)

	owner, ok := class.lookup("attr")
	require.True(t, ok)
	assert.Equal(t, class, owner)

	_, ok = method.lookup("attr")
	assert.False(t, ok, "class bindings are not visible from methods")

	owner, ok = method.lookup("x")
	require.True(t, ok)
	assert.Equal(t, mod, owner)

	kind, ok := method.binding("x")
	require.True(t, ok)
	assert.Equal(t, bindGlobal, kind)

	owner, ok = inner.lookup("y")
	require.True(t, ok)
	assert.Equal(t, mod, owner)

	_, ok = inner.lookup("print")
	assert.False(t, ok)

	_, ok = inner.enclosingBinding("n")
	assert.False(t, ok)

	method.bind("n")
	owner, ok = inner.enclosingBinding("n")
	require.True(t, ok)
	assert.Equal(t, method, owner)

	assert.Equal(t, "class", class.kind.String())
}

func TestContextCopies(t *testing.T) {
	tc := translationContext{}

	loop := tc.enterLoop()
	assert.True(t, loop.inLoop)
	assert.False(t, tc.inLoop)

	fn := loop.enterScope(newScope(nil, scopeFunction, "f"), &frame{kind: frameDef})
	assert.False(t, fn.inLoop)
	assert.True(t, fn.inFunction())
	assert.False(t, fn.inComprehension())

	comp := fn.enterScope(newScope(nil, scopeComprehension, ""), &frame{kind: frameComprehension})
	assert.False(t, comp.inFunction())
	assert.True(t, comp.inComprehension())

	assert.Equal(t, posTail, tc.tail().pos)
	assert.Equal(t, posStmt, tc.pos)
}

func TestFailureLeavesNoState(t *testing.T) {
	tr := NewTranslator(nil)

	failing := module(
		&pyast.Assign{Targets: []pyast.Expr{store("a"), store("b")}, Value: num("1")},
		&pyast.Match{Subject: name("a")},
	)
	_, err := tr.Translate(failing)
	require.Error(t, err)

	ok := module(&pyast.Assign{Targets: []pyast.Expr{store("a"), store("b")}, Value: num("1")})
	assert.Equal(t,
		`(do (setv _py2hy_value_1 1) (setv a _py2hy_value_1) (setv b _py2hy_value_1) (del _py2hy_value_1))`,
		encode(t, ok),
	)

	again, err := tr.Translate(ok)
	require.NoError(t, err)
	first, err := tr.Translate(ok)
	require.NoError(t, err)
	assert.Equal(t, first.String(), again.String())
}
