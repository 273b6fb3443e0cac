package py2hy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/parser"
)

func TestMangle(t *testing.T) {
	testCases := []struct {
		In  string
		Out string
	}{
		{"x", "x"},
		{"snake_case", "snake_case"},
		{"__init__", "__init__"},
		{"do", "do_"},
		{"do_", "do__"},
		{"setv", "setv_"},
		{"fn", "fn_"},
		{"not_in", "not_in_"},
		{"with_decorator", "with_decorator_"},
		{"defn", "defn_"},
		{"macro_error", "macro_error_"},
		{"nan", "nan_"},
		{"NaN", "NaN_"},
		{"inf", "inf_"},
		{"Infinity", "Infinity_"},
		{"nanj", "nanj_"},
		{"_py2hy_value_1", "_py2hy_value_1_"},
		{"_py2hy", "_py2hy"},
		{"dot", "dot"},
		{"info", "info"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.Out, Mangle(tc.In), tc.In)
	}
}

func TestMangleInjective(t *testing.T) {
	names := []string{
		"do", "do_", "do__", "x", "x_", "nan", "nan_", "nan__",
		"_py2hy_acc_1", "_py2hy_acc_1_", "cut", "cut_", "print",
	}

	seen := map[string]string{}
	for _, name := range names {
		out := Mangle(name)
		prev, dup := seen[out]
		assert.False(t, dup, "%q and %q both map to %q", prev, name, out)
		seen[out] = name
	}
}

func TestMangleReadsAsSymbol(t *testing.T) {
	names := []string{"nan", "NaN", "inf", "Inf", "Infinity", "NaNj", "infj", "x"}

	for _, name := range names {
		v := parser.ParseAtom(Mangle(name))
		assert.Equal(t, ast.NodeTypeSymbol, v.Type(), name)
	}
}

func TestIsTemp(t *testing.T) {
	assert.True(t, IsTemp(tempName("cmp", 3)))
	assert.Equal(t, "_py2hy_cmp_3", tempName("cmp", 3))
	assert.False(t, IsTemp(Mangle("_py2hy_cmp_3")))
	assert.False(t, IsTemp("x"))
}
