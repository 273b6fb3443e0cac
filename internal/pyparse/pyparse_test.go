package pyparse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiam/py2hy/pyast"
)

func newParser(t *testing.T) *Parser {
	p := New("")
	if !p.Available() {
		t.Skipf("%s not found", DefaultPython)
	}
	return p
}

func TestParse(t *testing.T) {
	p := newParser(t)

	src := []byte(`def add(a, b=2):
    return a + b

xs = [x * 2 for x in range(3) if x]
s = f"{xs!r:>10}"
b = b"\x00\xff"
big = 123456789012345678901234567890
`)

	mod, err := p.Parse(context.Background(), "sample.py", src)
	require.NoError(t, err)
	assert.Equal(t, "sample.py", mod.Filename)
	require.Len(t, mod.Body, 5)

	fn, ok := mod.Body[0].(*pyast.FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, pyast.Pos{Line: 1, Col: 1}, fn.Position())
	require.Len(t, fn.Args.Defaults, 1)
	assert.Equal(t, "2", fn.Args.Defaults[0].(*pyast.Constant).Value)

	comp, ok := mod.Body[1].(*pyast.Assign).Value.(*pyast.Comprehension)
	require.True(t, ok)
	assert.Equal(t, pyast.ListComp, comp.Kind)
	require.Len(t, comp.Generators, 1)
	assert.Len(t, comp.Generators[0].Ifs, 1)

	fstr, ok := mod.Body[2].(*pyast.Assign).Value.(*pyast.JoinedStr)
	require.True(t, ok)
	field := fstr.Values[0].(*pyast.FormattedValue)
	assert.Equal(t, 'r', field.Conversion)
	assert.NotNil(t, field.FormatSpec)

	raw := mod.Body[3].(*pyast.Assign).Value.(*pyast.Constant)
	assert.Equal(t, pyast.ConstBytes, raw.Kind)
	assert.Equal(t, "\x00\xff", raw.Value)

	n := mod.Body[4].(*pyast.Assign).Value.(*pyast.Constant)
	assert.Equal(t, "123456789012345678901234567890", n.Value)
}

func TestSyntaxError(t *testing.T) {
	p := newParser(t)

	_, err := p.Parse(context.Background(), "bad.py", []byte("def f(:\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSyntax))
	assert.Contains(t, err.Error(), "bad.py:1:")
}

func TestCancelled(t *testing.T) {
	p := newParser(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Parse(ctx, "x.py", []byte("x = 1\n"))
	assert.Error(t, err)
}

func TestMissingInterpreter(t *testing.T) {
	p := New("py2hy-no-such-python")
	assert.False(t, p.Available())

	_, err := p.Parse(context.Background(), "x.py", []byte("x = 1\n"))
	assert.True(t, errors.Is(err, ErrInterpreter))
}
