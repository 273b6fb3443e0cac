package py2hy

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/internal/hyeval"
	"github.com/xiam/py2hy/pyast"
)

func module(body ...pyast.Stmt) *pyast.Module {
	return &pyast.Module{Filename: "test.py", Body: body}
}

func name(id string) *pyast.Name {
	return &pyast.Name{ID: id}
}

func store(id string) *pyast.Name {
	return &pyast.Name{ID: id, Ctx: pyast.Store}
}

func num(v string) *pyast.Constant {
	return &pyast.Constant{Kind: pyast.ConstInt, Value: v}
}

func text(s string) *pyast.Constant {
	return &pyast.Constant{Kind: pyast.ConstStr, Value: s}
}

func call(fn pyast.Expr, args ...pyast.Expr) *pyast.Call {
	return &pyast.Call{Func: fn, Args: args}
}

func attr(value pyast.Expr, a string) *pyast.Attribute {
	return &pyast.Attribute{Value: value, Attr: a}
}

func binop(left pyast.Expr, op pyast.BinaryOp, right pyast.Expr) *pyast.BinOp {
	return &pyast.BinOp{Left: left, Op: op, Right: right}
}

func compare(left pyast.Expr, ops []pyast.CmpOp, comparators ...pyast.Expr) *pyast.Compare {
	return &pyast.Compare{Left: left, Ops: ops, Comparators: comparators}
}

func expr(e pyast.Expr) *pyast.ExprStmt {
	return &pyast.ExprStmt{Value: e}
}

func assign(target pyast.Expr, value pyast.Expr) *pyast.Assign {
	return &pyast.Assign{Targets: []pyast.Expr{target}, Value: value}
}

func ret(value pyast.Expr) *pyast.Return {
	return &pyast.Return{Value: value}
}

func def(fname string, params []string, body ...pyast.Stmt) *pyast.FunctionDef {
	args := &pyast.Arguments{}
	for _, p := range params {
		args.Args = append(args.Args, &pyast.Arg{Name: p})
	}
	return &pyast.FunctionDef{Name: fname, Args: args, Body: body}
}

func list(elts ...pyast.Expr) *pyast.List {
	return &pyast.List{Elts: elts}
}

func tuple(elts ...pyast.Expr) *pyast.Tuple {
	return &pyast.Tuple{Elts: elts}
}

func encode(t *testing.T, mod *pyast.Module) string {
	doc, err := NewTranslator(&Options{Width: 0}).Translate(mod)
	require.NoError(t, err)
	return string(ast.Encode(doc))
}

// run translates mod, runs the result and returns a lookup for the module
// namespace.
func run(t *testing.T, mod *pyast.Module) func(name string) interface{} {
	doc, err := NewTranslator(nil).Translate(mod)
	require.NoError(t, err)

	in := hyeval.New()
	_, err = in.Run(doc)
	require.NoError(t, err, string(ast.Encode(doc)))

	return func(name string) interface{} {
		v, err := in.Globals().Get(name)
		require.NoError(t, err, name)
		return v.Interface()
	}
}
