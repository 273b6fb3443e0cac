package py2hy

import (
	"bytes"
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/internal/hyeval"
	"github.com/xiam/py2hy/parser"
	"github.com/xiam/py2hy/pyast"
)

func TestTranslateForms(t *testing.T) {
	testCases := []struct {
		In  *pyast.Module
		Out string
	}{
		{
			In:  module(def("add", []string{"a", "b"}, ret(binop(name("a"), pyast.Add, name("b"))))),
			Out: `(defn add [a b] (+ a b))`,
		},
		{
			In:  module(assign(store("x"), num("1")), &pyast.AugAssign{Target: store("x"), Op: pyast.Mult, Value: num("2")}),
			Out: "(setv x 1)\n(*= x 2)",
		},
		{
			In: module(&pyast.Assign{
				Targets: []pyast.Expr{store("a"), store("b")},
				Value:   call(name("f")),
			}),
			Out: `(do (setv _py2hy_value_1 (f)) (setv a _py2hy_value_1) (setv b _py2hy_value_1) (del _py2hy_value_1))`,
		},
		{
			In: module(&pyast.ClassDef{Name: "Color", Bases: []pyast.Expr{name("Enum")}, Body: []pyast.Stmt{
				&pyast.Assign{Targets: []pyast.Expr{store("RED"), store("CRIMSON")}, Value: num("1")},
			}}),
			Out: `(defclass Color [Enum] (do (setv _py2hy_value_1 1) (setv RED _py2hy_value_1) (setv CRIMSON _py2hy_value_1) (del _py2hy_value_1)))`,
		},
		{
			In: module(def("f", nil,
				&pyast.Assign{Targets: []pyast.Expr{store("a"), store("b")}, Value: num("1")},
				ret(name("a")),
			)),
			Out: `(defn f [] (do (setv _py2hy_value_1 1) (setv a _py2hy_value_1) (setv b _py2hy_value_1)) a)`,
		},
		{
			In:  module(assign(store("do"), num("1")), assign(store("nan"), num("2")), assign(store("_py2hy_x"), num("3"))),
			Out: "(setv do_ 1)\n(setv nan_ 2)\n(setv _py2hy_x_ 3)",
		},
		{
			In:  module(expr(compare(name("a"), []pyast.CmpOp{pyast.Lt, pyast.Lt}, name("b"), name("c")))),
			Out: `(< a b c)`,
		},
		{
			In:  module(expr(compare(name("a"), []pyast.CmpOp{pyast.Lt, pyast.LtE}, name("b"), name("c")))),
			Out: `(and (< a b) (<= b c))`,
		},
		{
			In:  module(expr(compare(name("a"), []pyast.CmpOp{pyast.Lt, pyast.LtE}, call(name("f")), name("c")))),
			Out: `(do (setv _py2hy_cmp_1 None) (try (and (< a (do (setv _py2hy_cmp_1 (f)) _py2hy_cmp_1)) (<= _py2hy_cmp_1 c)) (finally (del _py2hy_cmp_1))))`,
		},
		{
			In: module(def("f", []string{"a", "c"},
				ret(compare(name("a"), []pyast.CmpOp{pyast.Lt, pyast.LtE}, call(name("g")), name("c"))),
			)),
			Out: `(defn f [a c] (and (< a (do (setv _py2hy_cmp_1 (g)) _py2hy_cmp_1)) (<= _py2hy_cmp_1 c)))`,
		},
		{
			In: module(
				def("f", []string{"doc"}, ret(name("doc"))),
				expr(&pyast.Call{Func: name("f"), Keywords: []*pyast.Keyword{{Arg: "doc", Value: num("1")}}}),
				expr(&pyast.Call{Func: name("property"), Args: []pyast.Expr{name("g")}, Keywords: []*pyast.Keyword{{Arg: "doc", Value: text("x")}}}),
				expr(&pyast.Call{Func: attr(name("o"), "m"), Keywords: []*pyast.Keyword{{Arg: "doc", Value: num("3")}}}),
			),
			Out: "(defn f [doc_] doc_)\n(f :doc_ 1)\n(property g :doc \"x\")\n(.m o :doc 3)",
		},
		{
			In:  module(def("f", nil, expr(&pyast.JoinedStr{Values: []pyast.Expr{text("doc")}}), ret(num("1")))),
			Out: `(defn f [] (+ "" "doc") 1)`,
		},
		{
			In: module(
				expr(&pyast.Subscript{Value: name("x"), Slice: &pyast.Slice{Lower: num("1")}}),
				expr(&pyast.Subscript{Value: name("x"), Slice: &pyast.Slice{Step: num("2")}}),
				expr(&pyast.Subscript{Value: name("x"), Slice: name("i")}),
			),
			Out: "(cut x 1)\n(cut x None None 2)\n(get x i)",
		},
		{
			In: module(
				&pyast.Import{Names: []*pyast.Alias{{Name: "os.path"}, {Name: "numpy", AsName: "np"}, {Name: "fn"}}},
				&pyast.ImportFrom{Module: "m", Names: []*pyast.Alias{{Name: "a", AsName: "b"}, {Name: "c"}}},
				&pyast.ImportFrom{Module: "m", Names: []*pyast.Alias{{Name: "*"}}},
			),
			Out: "(import os.path [numpy :as np] [fn :as fn_])\n(import [m [a :as b c]])\n(import [m [*]])",
		},
		{
			In: module(&pyast.Try{
				Body:     []pyast.Stmt{expr(call(name("f")))},
				Handlers: []*pyast.ExceptHandler{{Type: name("ValueError"), Name: "e", Body: []pyast.Stmt{expr(call(name("g")))}}},
				Finally:  []pyast.Stmt{expr(call(name("h")))},
			}),
			Out: `(try (f) (except [e ValueError] (g)) (finally (h)))`,
		},
		{
			In: module(expr(&pyast.Lambda{
				Args: &pyast.Arguments{
					Args:       []*pyast.Arg{{Name: "x"}},
					Vararg:     &pyast.Arg{Name: "a"},
					KwOnly:     []*pyast.Arg{{Name: "k"}},
					KwDefaults: []pyast.Expr{num("1")},
					Kwarg:      &pyast.Arg{Name: "kw"},
				},
				Body: name("x"),
			})),
			Out: `(fn [x &rest a &kwonly [k 1] &kwargs kw] x)`,
		},
		{
			In: module(&pyast.While{
				Test:   name("a"),
				Body:   []pyast.Stmt{&pyast.Break{}},
				Orelse: []pyast.Stmt{expr(call(name("b")))},
			}),
			Out: `(while a (break) (else (b)))`,
		},
		{
			In:  module(&pyast.ClassDef{Name: "C", Bases: []pyast.Expr{name("B")}, Body: []pyast.Stmt{expr(list(num("1")))}}),
			Out: `(defclass C [B] None [1])`,
		},
		{
			In:  module(&pyast.ClassDef{Name: "C", Body: []pyast.Stmt{expr(text("doc")), assign(store("x"), num("1"))}}),
			Out: `(defclass C [] "doc" (setv x 1))`,
		},
		{
			In: module(&pyast.FunctionDef{
				Name:       "g",
				Args:       &pyast.Arguments{},
				Body:       []pyast.Stmt{expr(&pyast.Yield{Value: num("1")})},
				Decorators: []pyast.Expr{name("deco")},
			}),
			Out: `(with-decorator deco (defn g [] (yield 1) None))`,
		},
		{
			In: module(expr(&pyast.JoinedStr{Values: []pyast.Expr{
				&pyast.FormattedValue{Value: name("x"), Conversion: 'r', FormatSpec: &pyast.JoinedStr{Values: []pyast.Expr{text(">4")}}},
			}})),
			Out: `(.join "" [(format (repr x) ">4")])`,
		},
		{
			In: module(
				assign(store("str"), num("1")),
				expr(&pyast.JoinedStr{Values: []pyast.Expr{&pyast.FormattedValue{Value: name("x"), Conversion: 's'}}}),
			),
			Out: "(setv str 1)\n" + `(.join "" [(format ((. (__import__ "builtins") str) x))])`,
		},
		{
			In:  module(expr(&pyast.Constant{Kind: pyast.ConstFloat, Value: "inf"}), expr(attr(name("o"), "NaN"))),
			Out: "(float \"inf\")\n(getattr o \"NaN\")",
		},
		{
			In:  module(expr(call(attr(name("xs"), "append"), num("1")))),
			Out: `(.append xs 1)`,
		},
		{
			In: module(expr(&pyast.Comprehension{
				Kind:       pyast.ListComp,
				Elt:        name("x"),
				Generators: []*pyast.CompFor{{Target: store("x"), Iter: name("xs"), Ifs: []pyast.Expr{name("x")}}},
			})),
			Out: `((fn [_py2hy_iter_1] (setv _py2hy_acc_2 []) (for [x _py2hy_iter_1] (if x (.append _py2hy_acc_2 x) None)) _py2hy_acc_2) xs)`,
		},
		{
			In: module(expr(&pyast.Comprehension{
				Kind:       pyast.GeneratorExp,
				Elt:        name("x"),
				Generators: []*pyast.CompFor{{Target: store("x"), Iter: name("xs")}},
			})),
			Out: `((fn [_py2hy_iter_1] (for [x _py2hy_iter_1] (yield x))) (iter xs))`,
		},
		{
			In:  module(expr(&pyast.Dict{Keys: []pyast.Expr{text("a"), nil}, Values: []pyast.Expr{num("1"), name("m")}})),
			Out: `{"a" 1 (unpack-mapping m)}`,
		},
		{
			In: module(&pyast.AnnAssign{Target: store("x"), Annotation: name("int")}),
			Out: `None`,
		},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.Out, encode(t, tc.In))
	}
}

func TestSimpleFunction(t *testing.T) {
	mod := module(def("add", []string{"a", "b"}, ret(binop(name("a"), pyast.Add, name("b")))))

	out, err := NewTranslator(nil).Source(mod)
	require.NoError(t, err)
	assert.Equal(t, "(defn add [a b] (+ a b))\n", string(out))
}

func TestDefaultArgument(t *testing.T) {
	f := def("f", []string{"a", "b"}, ret(binop(name("a"), pyast.Add, name("b"))))
	f.Args.Defaults = []pyast.Expr{num("2")}

	mod := module(f, assign(store("r"), call(name("f"), num("1"))))
	assert.Equal(t, "(defn f [a &optional [b 2]] (+ a b))\n(setv r (f 1))", encode(t, mod))

	get := run(t, mod)
	assert.Equal(t, int64(3), get("r"))
}

func TestComprehension(t *testing.T) {
	mod := module(
		assign(store("xs"), list(&pyast.UnaryOp{Op: pyast.USub, Operand: num("1")}, num("2"), num("3"))),
		assign(store("ys"), &pyast.Comprehension{
			Kind: pyast.ListComp,
			Elt:  binop(name("x"), pyast.Mult, num("2")),
			Generators: []*pyast.CompFor{{
				Target: store("x"),
				Iter:   name("xs"),
				Ifs:    []pyast.Expr{compare(name("x"), []pyast.CmpOp{pyast.Gt}, num("0"))},
			}},
		}),
	)

	get := run(t, mod)
	assert.Equal(t, []interface{}{int64(4), int64(6)}, get("ys"))
}

func TestUnsupportedConstruct(t *testing.T) {
	mod := module(
		assign(store("x"), num("1")),
		&pyast.Match{Pos: pyast.Pos{Line: 2, Col: 1}, Subject: name("x")},
	)

	doc, err := NewTranslator(nil).Translate(mod)
	assert.Nil(t, doc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedConstruct))

	var terr *Error
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "Match", terr.Construct)
	assert.Equal(t, "test.py", terr.File)
	assert.Equal(t, pyast.Pos{Line: 2, Col: 1}, terr.Pos)
	assert.True(t, strings.HasPrefix(err.Error(), "test.py:2:1: unsupported construct: Match"))

	out, err := NewTranslator(nil).Source(mod)
	assert.Nil(t, out)
	assert.Error(t, err)
}

func TestTranslateErrors(t *testing.T) {
	nonlocalFn := def("f", nil, &pyast.Nonlocal{Names: []string{"x"}})
	posonly := def("f", nil, ret(num("1")))
	posonly.Args.PosOnly = []*pyast.Arg{{Name: "a"}}

	testCases := []struct {
		In  *pyast.Module
		Err error
	}{
		{module(nonlocalFn), ErrMalformedInput},
		{module(&pyast.Nonlocal{Names: []string{"x"}}), ErrMalformedInput},
		{module(ret(num("1"))), ErrMalformedInput},
		{module(&pyast.Break{}), ErrMalformedInput},
		{module(def("f", nil)), ErrMalformedInput},
		{module(&pyast.Try{Body: []pyast.Stmt{&pyast.Pass{}}}), ErrMalformedInput},
		{module(expr(&pyast.Name{ID: "x", Ctx: pyast.Store})), ErrMalformedInput},
		{module(expr(&pyast.Await{Value: name("x")})), ErrMalformedInput},
		{module(expr(call(name("locals")))), ErrUnsupportedConstruct},
		{module(expr(call(name("exec"), text("x = 1")))), ErrUnsupportedConstruct},
		{module(posonly), ErrUnsupportedConstruct},
		{module(&pyast.ImportFrom{Module: "m", Level: 1, Names: []*pyast.Alias{{Name: "a"}}}), ErrUnsupportedConstruct},
		{module(&pyast.Import{Names: []*pyast.Alias{{Name: "do.x"}}}), ErrUnsupportedConstruct},
		{module(&pyast.Try{Body: []pyast.Stmt{&pyast.Pass{}}, Finally: []pyast.Stmt{&pyast.Pass{}}, Star: true}), ErrUnsupportedConstruct},
		{module(&pyast.ClassDef{Name: "C", Keywords: []*pyast.Keyword{{Arg: "metaclass", Value: name("M")}}, Body: []pyast.Stmt{&pyast.Pass{}}}), ErrUnsupportedConstruct},
		{module(assign(attr(name("o"), "inf"), num("1"))), ErrUnsupportedConstruct},
	}

	for _, tc := range testCases {
		_, err := NewTranslator(nil).Translate(tc.In)
		assert.True(t, errors.Is(err, tc.Err), "%v", err)
	}

	_, err := NewTranslator(nil).Translate(nil)
	assert.True(t, errors.Is(err, ErrMalformedInput))
}

func TestLocalsWhenShadowed(t *testing.T) {
	mod := module(
		def("locals", nil, ret(num("1"))),
		expr(call(name("locals"))),
	)
	assert.Equal(t, "(defn locals [] 1)\n(locals)", encode(t, mod))
}

func TestDeterminism(t *testing.T) {
	build := func() *pyast.Module {
		return module(
			assign(store("xs"), list(num("1"), num("2"))),
			expr(compare(name("a"), []pyast.CmpOp{pyast.Lt, pyast.Gt, pyast.Eq}, call(name("f")), call(name("g")), name("c"))),
			assign(store("s"), &pyast.Comprehension{
				Kind:       pyast.SetComp,
				Elt:        name("x"),
				Generators: []*pyast.CompFor{{Target: store("x"), Iter: name("xs")}},
			}),
		)
	}

	tr := NewTranslator(nil)
	first, err := tr.Source(build())
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := tr.Source(build())
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestVerifyRoundTrip(t *testing.T) {
	f := def("describe", []string{"xs"},
		&pyast.For{
			Target: store("x"),
			Iter:   name("xs"),
			Body: []pyast.Stmt{&pyast.If{
				Test: compare(name("x"), []pyast.CmpOp{pyast.Gt}, num("100")),
				Body: []pyast.Stmt{ret(&pyast.JoinedStr{Values: []pyast.Expr{text("big: "), &pyast.FormattedValue{Value: name("x")}}})},
			}},
		},
		ret(text("quoted \"text\" with \\ and \n")),
	)
	mod := module(f, assign(store("b"), &pyast.Constant{Kind: pyast.ConstBytes, Value: "\x00\xff"}))

	tr := NewTranslator(&Options{Width: 30, Verify: true})
	out, err := tr.Source(mod)
	require.NoError(t, err)
	assert.True(t, strings.Count(string(out), "\n") > 2)

	doc, err := tr.Translate(mod)
	require.NoError(t, err)
	back, err := parser.Parse(out)
	require.NoError(t, err)
	assert.True(t, ast.Equal(doc, back))
}

func TestChainedComparisonEvaluation(t *testing.T) {
	mid := def("mid", nil,
		expr(call(attr(name("calls"), "append"), num("1"))),
		ret(num("2")),
	)
	mod := module(
		assign(store("calls"), list()),
		mid,
		assign(store("r1"), compare(num("1"), []pyast.CmpOp{pyast.Lt, pyast.LtE}, call(name("mid")), num("3"))),
		assign(store("r2"), compare(num("3"), []pyast.CmpOp{pyast.Lt, pyast.LtE}, num("1"), call(name("mid")))),
		assign(store("r3"), compare(num("1"), []pyast.CmpOp{pyast.Lt, pyast.Lt}, call(name("mid")), num("5"))),
	)

	get := run(t, mod)
	assert.Equal(t, true, get("r1"))
	assert.Equal(t, false, get("r2"))
	assert.Equal(t, true, get("r3"))
	assert.Equal(t, []interface{}{int64(1), int64(1)}, get("calls"))
}

func TestTemporariesLeaveNoNames(t *testing.T) {
	mod := module(
		def("mid", nil, ret(num("2"))),
		&pyast.Assign{Targets: []pyast.Expr{store("a"), store("b")}, Value: call(name("mid"))},
		assign(store("r1"), compare(num("1"), []pyast.CmpOp{pyast.Lt, pyast.LtE}, call(name("mid")), num("3"))),
		assign(store("r2"), compare(num("3"), []pyast.CmpOp{pyast.Lt, pyast.LtE}, call(name("mid")), num("3"))),
	)

	doc, err := NewTranslator(nil).Translate(mod)
	require.NoError(t, err)
	in := hyeval.New()
	_, err = in.Run(doc)
	require.NoError(t, err, string(ast.Encode(doc)))

	testCases := []struct {
		Name    string
		Defined bool
	}{
		{"a", true},
		{"b", true},
		{"r1", true},
		{"r2", true},
		{"_py2hy_value_1", false},
		{"_py2hy_cmp_2", false},
		{"_py2hy_cmp_3", false},
	}

	for _, tc := range testCases {
		_, err := in.Globals().Get(tc.Name)
		assert.Equal(t, tc.Defined, err == nil, tc.Name)
	}
}

func TestExecution(t *testing.T) {
	sign := def("sign", []string{"x"}, &pyast.If{
		Test: compare(name("x"), []pyast.CmpOp{pyast.Lt}, num("0")),
		Body: []pyast.Stmt{ret(&pyast.UnaryOp{Op: pyast.USub, Operand: num("1")})},
		Orelse: []pyast.Stmt{&pyast.If{
			Test:   compare(name("x"), []pyast.CmpOp{pyast.Eq}, num("0")),
			Body:   []pyast.Stmt{ret(num("0"))},
			Orelse: []pyast.Stmt{ret(num("1"))},
		}},
	})

	firstPositive := def("first_positive", []string{"xs"},
		&pyast.For{
			Target: store("x"),
			Iter:   name("xs"),
			Body: []pyast.Stmt{&pyast.If{
				Test: compare(name("x"), []pyast.CmpOp{pyast.Gt}, num("0")),
				Body: []pyast.Stmt{ret(name("x"))},
			}},
		},
		ret(nil),
	)

	inc := def("inc", nil,
		&pyast.Nonlocal{Names: []string{"n"}},
		&pyast.AugAssign{Target: store("n"), Op: pyast.Add, Value: num("1")},
		ret(name("n")),
	)
	makeCounter := def("make", nil,
		assign(store("n"), num("0")),
		inc,
		expr(call(name("inc"))),
		ret(call(name("inc"))),
	)

	safe := def("safe", []string{"a", "b"}, &pyast.Try{
		Body: []pyast.Stmt{ret(binop(name("a"), pyast.FloorDiv, name("b")))},
		Handlers: []*pyast.ExceptHandler{{
			Type: name("ZeroDivisionError"),
			Body: []pyast.Stmt{ret(&pyast.Constant{Kind: pyast.ConstNone})},
		}},
	})

	mod := module(
		sign,
		assign(store("signs"), list(call(name("sign"), num("-5")), call(name("sign"), num("0")), call(name("sign"), num("3")))),
		firstPositive,
		assign(store("fp"), call(name("first_positive"), list(num("-1"), num("0"), num("7"), num("9")))),
		makeCounter,
		assign(store("counter"), call(name("make"))),
		safe,
		assign(store("safe_results"), list(call(name("safe"), num("7"), num("2")), call(name("safe"), num("1"), num("0")))),
		assign(store("squares"), call(name("sum"), &pyast.Comprehension{
			Kind:       pyast.GeneratorExp,
			Elt:        binop(name("x"), pyast.Mult, name("x")),
			Generators: []*pyast.CompFor{{Target: store("x"), Iter: call(name("range"), num("4"))}},
		})),
		assign(store("pairs"), list(tuple(text("a"), num("1")), tuple(text("b"), num("2")))),
		assign(store("d"), &pyast.Comprehension{
			Kind:       pyast.DictComp,
			Elt:        name("k"),
			Value:      name("v"),
			Generators: []*pyast.CompFor{{Target: &pyast.Tuple{Elts: []pyast.Expr{store("k"), store("v")}, Ctx: pyast.Store}, Iter: name("pairs")}},
		}),
		&pyast.Assign{Targets: []pyast.Expr{store("a"), store("b")}, Value: list(num("1"))},
		expr(call(attr(name("a"), "append"), num("2"))),
		assign(&pyast.Tuple{Elts: []pyast.Expr{store("head"), &pyast.Starred{Value: store("rest"), Ctx: pyast.Store}}, Ctx: pyast.Store}, list(num("1"), num("2"), num("3"))),
		assign(store("n"), num("5")),
		assign(store("s"), &pyast.JoinedStr{Values: []pyast.Expr{
			&pyast.FormattedValue{Value: name("n"), FormatSpec: &pyast.JoinedStr{Values: []pyast.Expr{text(">3")}}},
			text("|"),
			&pyast.FormattedValue{Value: text("a"), Conversion: 'r'},
		}}),
		assign(store("i"), num("0")),
		&pyast.While{
			Test: compare(name("i"), []pyast.CmpOp{pyast.Lt}, num("10")),
			Body: []pyast.Stmt{
				&pyast.If{Test: compare(name("i"), []pyast.CmpOp{pyast.Eq}, num("3")), Body: []pyast.Stmt{&pyast.Break{}}},
				&pyast.AugAssign{Target: store("i"), Op: pyast.Add, Value: num("1")},
			},
			Orelse: []pyast.Stmt{assign(store("i"), num("-1"))},
		},
		assign(store("str"), text("shadow")),
		assign(store("shown"), &pyast.JoinedStr{Values: []pyast.Expr{&pyast.FormattedValue{Value: num("7"), Conversion: 's'}}}),
	)

	get := run(t, mod)
	assert.Equal(t, []interface{}{int64(-1), int64(0), int64(1)}, get("signs"))
	assert.Equal(t, int64(7), get("fp"))
	assert.Equal(t, int64(2), get("counter"))
	assert.Equal(t, []interface{}{int64(3), nil}, get("safe_results"))
	assert.Equal(t, int64(14), get("squares"))
	assert.Equal(t, map[string]interface{}{`'a'`: int64(1), `'b'`: int64(2)}, get("d"))
	assert.Equal(t, []interface{}{int64(1), int64(2)}, get("b"))
	assert.Equal(t, int64(1), get("head"))
	assert.Equal(t, []interface{}{int64(2), int64(3)}, get("rest"))
	assert.Equal(t, "  5|'a'", get("s"))
	assert.Equal(t, int64(3), get("i"))
	assert.Equal(t, "7", get("shown"))
}

func TestMaxDepth(t *testing.T) {
	var e pyast.Expr = name("x")
	for i := 0; i < 50; i++ {
		e = binop(e, pyast.Add, num("1"))
	}
	mod := module(expr(e))

	_, err := NewTranslator(&Options{MaxDepth: 10}).Translate(mod)
	assert.True(t, errors.Is(err, ErrNestingTooDeep))

	_, err = NewTranslator(nil).Translate(mod)
	assert.NoError(t, err)
}

func TestOptions(t *testing.T) {
	tr := NewTranslator(&Options{Width: -1})
	opts := tr.Options()
	assert.Equal(t, DefaultOptions().MaxDepth, opts.MaxDepth)
	assert.Equal(t, DefaultOptions().Parallelism, opts.Parallelism)
	assert.Equal(t, 0, opts.Width)

	out, err := tr.Source(module(assign(store("x"), num("1")), assign(store("y"), num("2"))))
	require.NoError(t, err)
	assert.Equal(t, "(setv x 1)\n(setv y 2)\n", string(out))
}

func TestTranslateUnits(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTranslator(&Options{Parallelism: 2, Logger: log.New(&buf, "", 0)})

	units := []Unit{
		{Name: "a.py", Module: module(assign(store("a"), num("1")))},
		{Name: "b.py", Module: module(&pyast.Match{Subject: name("x")})},
		{Name: "c.py", Module: module(assign(store("c"), num("3")))},
		{Name: "d.py"},
	}

	results := tr.TranslateUnits(context.Background(), units)
	require.Len(t, results, len(units))
	for i, res := range results {
		assert.Equal(t, units[i].Name, res.Name)
	}

	assert.NoError(t, results[0].Err)
	assert.Equal(t, "(setv a 1)\n", string(results[0].Source))
	assert.True(t, errors.Is(results[1].Err, ErrUnsupportedConstruct))
	assert.Nil(t, results[1].Form)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, "(setv c 3)\n", string(results[2].Source))
	assert.True(t, errors.Is(results[3].Err, ErrMalformedInput))

	assert.Contains(t, buf.String(), "a.py: done, 1 forms")
	assert.Contains(t, buf.String(), "b.py: failed")
}

func TestTranslateUnitsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	units := []Unit{
		{Name: "a.py", Module: module(assign(store("a"), num("1")))},
		{Name: "b.py", Module: module(assign(store("b"), num("2")))},
	}
	results := NewTranslator(nil).TranslateUnits(ctx, units)
	require.Len(t, results, 2)
	for _, res := range results {
		assert.True(t, errors.Is(res.Err, context.Canceled))
		assert.Nil(t, res.Source)
	}
}

func TestNoSharedNodes(t *testing.T) {
	mod := module(
		expr(compare(name("a"), []pyast.CmpOp{pyast.Lt, pyast.LtE, pyast.Lt}, name("b"), num("3"), name("c"))),
		assign(store("s"), &pyast.JoinedStr{Values: []pyast.Expr{&pyast.FormattedValue{Value: name("x")}}}),
		&pyast.Assign{Targets: []pyast.Expr{store("p"), store("q")}, Value: num("1")},
	)
	doc, err := NewTranslator(nil).Translate(mod)
	require.NoError(t, err)

	seen := map[*ast.Node]bool{}
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		require.False(t, seen[n], "node %v appears twice", n)
		seen[n] = true
		for _, child := range n.List() {
			walk(child)
		}
	}
	walk(doc)
}

func TestOperatorTables(t *testing.T) {
	for _, op := range pyast.BinaryOps() {
		sym, ok := binaryOperators[op]
		assert.True(t, ok, op.String())
		aug, ok := augmentedOperator(op)
		assert.True(t, ok, op.String())
		assert.Equal(t, sym+"=", aug)
	}
	for _, op := range pyast.UnaryOps() {
		_, ok := unaryOperators[op]
		assert.True(t, ok, op.String())
	}
	for _, op := range pyast.CmpOps() {
		_, ok := cmpOperators[op]
		assert.True(t, ok, op.String())
	}
	assert.Len(t, boolOperators, 2)
}

func TestSingleEvaluation(t *testing.T) {
	testCases := []*pyast.Module{
		module(&pyast.Assign{Targets: []pyast.Expr{store("a"), store("b"), store("c")}, Value: call(name("f"))}),
		module(expr(compare(name("a"), []pyast.CmpOp{pyast.Lt, pyast.GtE}, call(name("f")), name("c")))),
		module(expr(compare(call(name("f")), []pyast.CmpOp{pyast.Eq, pyast.NotEq}, name("b"), name("c")))),
		module(&pyast.AugAssign{Target: store("x"), Op: pyast.Add, Value: call(name("f"))}),
	}

	for _, mod := range testCases {
		out := encode(t, mod)
		assert.Equal(t, 1, strings.Count(out, "(f)"), out)
	}
}

func TestIncrement(t *testing.T) {
	mod := module(def("inc", []string{"x"}, ret(binop(name("x"), pyast.Add, num("1")))))
	assert.Equal(t, "(defn inc [x] (+ x 1))", encode(t, mod))
}

// TestEveryConstruct translates one instance of every statement and
// expression type. Each either succeeds or fails with an *Error.
func TestEveryConstruct(t *testing.T) {
	asyncDef := func(body ...pyast.Stmt) *pyast.FunctionDef {
		f := def("co", nil, body...)
		f.Async = true
		return f
	}

	stmts := []pyast.Stmt{
		def("f", []string{"a"}, ret(name("a"))),
		&pyast.ClassDef{Name: "C", Body: []pyast.Stmt{&pyast.Pass{}}},
		def("g", nil, ret(nil)),
		&pyast.Delete{Targets: []pyast.Expr{&pyast.Name{ID: "a", Ctx: pyast.Del}}},
		assign(store("a"), num("1")),
		&pyast.AugAssign{Target: store("a"), Op: pyast.BitXor, Value: num("1")},
		&pyast.AnnAssign{Target: store("a"), Annotation: name("int"), Value: num("1")},
		&pyast.For{Target: store("i"), Iter: name("xs"), Body: []pyast.Stmt{&pyast.Continue{}}},
		&pyast.While{Test: name("a"), Body: []pyast.Stmt{&pyast.Break{}}},
		&pyast.If{Test: name("a"), Body: []pyast.Stmt{&pyast.Pass{}}},
		&pyast.With{Items: []*pyast.WithItem{{Context: call(name("open")), Vars: store("fh")}}, Body: []pyast.Stmt{&pyast.Pass{}}},
		&pyast.Raise{Exc: name("E"), Cause: name("c")},
		&pyast.Try{Body: []pyast.Stmt{&pyast.Pass{}}, Handlers: []*pyast.ExceptHandler{{Body: []pyast.Stmt{&pyast.Pass{}}}}},
		&pyast.Assert{Test: name("a"), Msg: text("m")},
		&pyast.Import{Names: []*pyast.Alias{{Name: "os"}}},
		&pyast.ImportFrom{Module: "os", Names: []*pyast.Alias{{Name: "path"}}},
		&pyast.Global{Names: []string{"a"}},
		def("h", nil, assign(store("n"), num("0")), def("k", nil, &pyast.Nonlocal{Names: []string{"n"}}, ret(name("n"))), ret(call(name("k")))),
		expr(name("a")),
		&pyast.Pass{},
		&pyast.Match{Subject: name("a")},
		asyncDef(expr(&pyast.Await{Value: call(name("co"))})),
	}

	exprs := []pyast.Expr{
		&pyast.BoolOp{Op: pyast.And, Values: []pyast.Expr{name("a"), name("b")}},
		&pyast.NamedExpr{Target: store("y"), Value: num("1")},
		binop(name("a"), pyast.MatMult, name("b")),
		&pyast.UnaryOp{Op: pyast.Invert, Operand: name("a")},
		&pyast.Lambda{Args: &pyast.Arguments{}, Body: num("1")},
		&pyast.IfExp{Test: name("a"), Body: num("1"), Orelse: num("2")},
		&pyast.Dict{Keys: []pyast.Expr{text("k")}, Values: []pyast.Expr{num("1")}},
		&pyast.Set{Elts: []pyast.Expr{num("1")}},
		list(num("1")),
		tuple(num("1")),
		&pyast.Comprehension{Kind: pyast.SetComp, Elt: name("x"), Generators: []*pyast.CompFor{{Target: store("x"), Iter: name("xs")}}},
		&pyast.Lambda{Args: &pyast.Arguments{}, Body: &pyast.Yield{Value: num("1")}},
		&pyast.Lambda{Args: &pyast.Arguments{}, Body: &pyast.YieldFrom{Value: name("xs")}},
		compare(name("a"), []pyast.CmpOp{pyast.In}, name("b")),
		call(name("f"), &pyast.Starred{Value: name("args")}),
		&pyast.JoinedStr{Values: []pyast.Expr{&pyast.FormattedValue{Value: name("a"), Conversion: 'a'}}},
		&pyast.Constant{Kind: pyast.ConstComplex, Value: "2.5"},
		&pyast.Constant{Kind: pyast.ConstEllipsis, Value: "..."},
		attr(name("o"), "a"),
		&pyast.Subscript{Value: name("x"), Slice: tuple(&pyast.Slice{Lower: num("1")}, num("2"))},
		name("a"),
	}
	for _, e := range exprs {
		stmts = append(stmts, expr(e))
	}

	for _, s := range stmts {
		_, err := NewTranslator(nil).Translate(module(s))
		if err != nil {
			var terr *Error
			assert.True(t, errors.As(err, &terr), "%T: %v", s, err)
		}
	}
}
