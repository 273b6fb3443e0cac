package pyast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeString(t *testing.T, in string) *Module {
	mod, err := Decode(strings.NewReader(in), "test.py")
	require.NoError(t, err)
	return mod
}

func TestDecodeFunction(t *testing.T) {
	in := `{"_type": "Module", "body": [
		{"_type": "FunctionDef", "name": "f", "lineno": 1, "col_offset": 0,
		 "args": {"_type": "arguments", "posonlyargs": [],
			"args": [{"_type": "arg", "arg": "a", "annotation": null, "lineno": 1, "col_offset": 6},
			         {"_type": "arg", "arg": "b", "annotation": null, "lineno": 1, "col_offset": 9}],
			"vararg": null, "kwonlyargs": [], "kw_defaults": [], "kwarg": null,
			"defaults": [{"_type": "Constant", "value": {"_const": "int", "value": "2"}, "kind": null, "lineno": 1, "col_offset": 11}]},
		 "body": [{"_type": "Return", "lineno": 2, "col_offset": 4,
			"value": {"_type": "BinOp", "lineno": 2, "col_offset": 11, "op": {"_type": "Add"},
				"left": {"_type": "Name", "id": "a", "ctx": {"_type": "Load"}, "lineno": 2, "col_offset": 11},
				"right": {"_type": "Name", "id": "b", "ctx": {"_type": "Load"}, "lineno": 2, "col_offset": 15}}}],
		 "decorator_list": [], "returns": null, "type_comment": null}
	], "type_ignores": []}`

	mod := decodeString(t, in)
	assert.Equal(t, "test.py", mod.Filename)
	require.Len(t, mod.Body, 1)

	fn, ok := mod.Body[0].(*FunctionDef)
	require.True(t, ok)
	assert.Equal(t, "f", fn.Name)
	assert.False(t, fn.Async)
	assert.Equal(t, Pos{Line: 1, Col: 1}, fn.Position())

	require.Len(t, fn.Args.Args, 2)
	assert.Equal(t, "b", fn.Args.Args[1].Name)
	require.Len(t, fn.Args.Defaults, 1)
	assert.Equal(t, &Constant{Pos: Pos{Line: 1, Col: 12}, Kind: ConstInt, Value: "2"}, fn.Args.Defaults[0])

	ret, ok := fn.Body[0].(*Return)
	require.True(t, ok)
	bin, ok := ret.Value.(*BinOp)
	require.True(t, ok)
	assert.Equal(t, Add, bin.Op)
	assert.Equal(t, "a", bin.Left.(*Name).ID)
}

func TestDecodeLegacyShapes(t *testing.T) {
	// Python 3.7: Num, Str, NameConstant, Ellipsis; 3.8: Index and ExtSlice.
	in := `{"_type": "Module", "body": [
		{"_type": "Expr", "lineno": 1, "col_offset": 0, "value": {"_type": "Tuple", "ctx": {"_type": "Load"}, "elts": [
			{"_type": "Num", "n": {"_const": "int", "value": "12345678901234567890"}},
			{"_type": "Str", "s": {"_const": "str", "value": "hi"}},
			{"_type": "Bytes", "s": {"_const": "bytes", "value": "aÿ"}},
			{"_type": "NameConstant", "value": {"_const": "bool", "value": "True"}},
			{"_type": "NameConstant", "value": {"_const": "none"}},
			{"_type": "Ellipsis"}
		]}},
		{"_type": "Expr", "lineno": 2, "col_offset": 0, "value": {"_type": "Subscript", "ctx": {"_type": "Load"},
			"value": {"_type": "Name", "id": "x", "ctx": {"_type": "Load"}},
			"slice": {"_type": "Index", "value": {"_type": "Name", "id": "i", "ctx": {"_type": "Load"}}}}},
		{"_type": "Expr", "lineno": 3, "col_offset": 0, "value": {"_type": "Subscript", "ctx": {"_type": "Load"},
			"value": {"_type": "Name", "id": "x", "ctx": {"_type": "Load"}},
			"slice": {"_type": "ExtSlice", "dims": [
				{"_type": "Slice", "lower": null, "upper": {"_type": "Num", "n": {"_const": "int", "value": "2"}}, "step": null},
				{"_type": "Index", "value": {"_type": "Name", "id": "j", "ctx": {"_type": "Load"}}}]}}}
	]}`

	mod := decodeString(t, in)
	require.Len(t, mod.Body, 3)

	tuple := mod.Body[0].(*ExprStmt).Value.(*Tuple)
	require.Len(t, tuple.Elts, 6)

	kinds := []ConstKind{ConstInt, ConstStr, ConstBytes, ConstBool, ConstNone, ConstEllipsis}
	values := []string{"12345678901234567890", "hi", "a\xff", "True", "None", "..."}
	for i, e := range tuple.Elts {
		c, ok := e.(*Constant)
		require.True(t, ok, "element %d", i)
		assert.Equal(t, kinds[i], c.Kind)
		assert.Equal(t, values[i], c.Value)
	}

	sub := mod.Body[1].(*ExprStmt).Value.(*Subscript)
	assert.Equal(t, "i", sub.Slice.(*Name).ID)

	ext := mod.Body[2].(*ExprStmt).Value.(*Subscript).Slice.(*Tuple)
	require.Len(t, ext.Elts, 2)
	_, ok := ext.Elts[0].(*Slice)
	assert.True(t, ok)
	assert.Equal(t, "j", ext.Elts[1].(*Name).ID)
}

func TestDecodeAsyncAndStar(t *testing.T) {
	in := `{"_type": "Module", "body": [
		{"_type": "AsyncFunctionDef", "name": "g", "args": null, "decorator_list": [], "returns": null,
		 "body": [
			{"_type": "AsyncFor", "target": {"_type": "Name", "id": "x", "ctx": {"_type": "Store"}},
			 "iter": {"_type": "Name", "id": "xs", "ctx": {"_type": "Load"}}, "body": [{"_type": "Pass"}], "orelse": []},
			{"_type": "AsyncWith", "items": [{"_type": "withitem",
				"context_expr": {"_type": "Name", "id": "m", "ctx": {"_type": "Load"}},
				"optional_vars": {"_type": "Name", "id": "v", "ctx": {"_type": "Store"}}}], "body": [{"_type": "Pass"}]}
		 ]},
		{"_type": "TryStar", "body": [{"_type": "Pass"}], "handlers": [
			{"_type": "ExceptHandler", "type": {"_type": "Name", "id": "E", "ctx": {"_type": "Load"}}, "name": "e", "body": [{"_type": "Pass"}]}],
		 "orelse": [], "finalbody": []}
	]}`

	mod := decodeString(t, in)
	fn := mod.Body[0].(*FunctionDef)
	assert.True(t, fn.Async)
	assert.NotNil(t, fn.Args)
	assert.True(t, fn.Body[0].(*For).Async)
	assert.Equal(t, Store, fn.Body[0].(*For).Target.(*Name).Ctx)

	with := fn.Body[1].(*With)
	assert.True(t, with.Async)
	require.Len(t, with.Items, 1)
	assert.Equal(t, "v", with.Items[0].Vars.(*Name).ID)

	try := mod.Body[1].(*Try)
	assert.True(t, try.Star)
	assert.Equal(t, "e", try.Handlers[0].Name)
}

func TestDecodeExpressions(t *testing.T) {
	in := `{"_type": "Module", "body": [
		{"_type": "Expr", "value": {"_type": "ListComp",
			"elt": {"_type": "Name", "id": "x", "ctx": {"_type": "Load"}},
			"generators": [{"_type": "comprehension", "is_async": 0,
				"target": {"_type": "Name", "id": "x", "ctx": {"_type": "Store"}},
				"iter": {"_type": "Name", "id": "xs", "ctx": {"_type": "Load"}},
				"ifs": [{"_type": "Compare", "left": {"_type": "Name", "id": "x", "ctx": {"_type": "Load"}},
					"ops": [{"_type": "Gt"}, {"_type": "NotIn"}],
					"comparators": [{"_type": "Constant", "value": {"_const": "int", "value": "0"}},
					                {"_type": "Name", "id": "s", "ctx": {"_type": "Load"}}]}]}]}},
		{"_type": "Expr", "value": {"_type": "DictComp",
			"key": {"_type": "Name", "id": "k", "ctx": {"_type": "Load"}},
			"value": {"_type": "Name", "id": "v", "ctx": {"_type": "Load"}},
			"generators": [{"_type": "comprehension", "is_async": 1,
				"target": {"_type": "Name", "id": "k", "ctx": {"_type": "Store"}},
				"iter": {"_type": "Name", "id": "d", "ctx": {"_type": "Load"}}, "ifs": []}]}},
		{"_type": "Expr", "value": {"_type": "JoinedStr", "values": [
			{"_type": "Constant", "value": {"_const": "str", "value": "a="}},
			{"_type": "FormattedValue", "conversion": 114, "format_spec": null,
			 "value": {"_type": "Name", "id": "a", "ctx": {"_type": "Load"}}},
			{"_type": "FormattedValue", "conversion": -1,
			 "format_spec": {"_type": "JoinedStr", "values": [{"_type": "Constant", "value": {"_const": "str", "value": ">4"}}]},
			 "value": {"_type": "Name", "id": "b", "ctx": {"_type": "Load"}}}]}},
		{"_type": "Expr", "value": {"_type": "Call",
			"func": {"_type": "Name", "id": "f", "ctx": {"_type": "Load"}},
			"args": [{"_type": "Starred", "value": {"_type": "Name", "id": "a", "ctx": {"_type": "Load"}}, "ctx": {"_type": "Load"}}],
			"keywords": [{"_type": "keyword", "arg": "k", "value": {"_type": "Constant", "value": {"_const": "float", "value": "inf"}}},
			             {"_type": "keyword", "arg": null, "value": {"_type": "Name", "id": "m", "ctx": {"_type": "Load"}}}]}},
		{"_type": "Expr", "value": {"_type": "Dict",
			"keys": [{"_type": "Constant", "value": {"_const": "str", "value": "a"}}, null],
			"values": [{"_type": "Constant", "value": {"_const": "complex", "value": "3.0"}},
			           {"_type": "Name", "id": "m", "ctx": {"_type": "Load"}}]}},
		{"_type": "Expr", "value": {"_type": "NamedExpr",
			"target": {"_type": "Name", "id": "y", "ctx": {"_type": "Store"}},
			"value": {"_type": "UnaryOp", "op": {"_type": "USub"}, "operand": {"_type": "Name", "id": "z", "ctx": {"_type": "Load"}}}}}
	]}`

	mod := decodeString(t, in)
	require.Len(t, mod.Body, 6)

	lc := mod.Body[0].(*ExprStmt).Value.(*Comprehension)
	assert.Equal(t, ListComp, lc.Kind)
	require.Len(t, lc.Generators, 1)
	cmp := lc.Generators[0].Ifs[0].(*Compare)
	assert.Equal(t, []CmpOp{Gt, NotIn}, cmp.Ops)
	assert.Len(t, cmp.Comparators, 2)

	dc := mod.Body[1].(*ExprStmt).Value.(*Comprehension)
	assert.Equal(t, DictComp, dc.Kind)
	assert.Equal(t, "k", dc.Elt.(*Name).ID)
	assert.Equal(t, "v", dc.Value.(*Name).ID)
	assert.True(t, dc.Generators[0].Async)

	js := mod.Body[2].(*ExprStmt).Value.(*JoinedStr)
	require.Len(t, js.Values, 3)
	assert.Equal(t, 'r', js.Values[1].(*FormattedValue).Conversion)
	assert.Equal(t, rune(0), js.Values[2].(*FormattedValue).Conversion)
	assert.NotNil(t, js.Values[2].(*FormattedValue).FormatSpec)

	call := mod.Body[3].(*ExprStmt).Value.(*Call)
	require.Len(t, call.Keywords, 2)
	assert.Equal(t, "k", call.Keywords[0].Arg)
	assert.Equal(t, "", call.Keywords[1].Arg)
	assert.Equal(t, ConstFloat, call.Keywords[0].Value.(*Constant).Kind)

	dict := mod.Body[4].(*ExprStmt).Value.(*Dict)
	require.Len(t, dict.Keys, 2)
	assert.Nil(t, dict.Keys[1])
	assert.Equal(t, ConstComplex, dict.Values[0].(*Constant).Kind)

	ne := mod.Body[5].(*ExprStmt).Value.(*NamedExpr)
	assert.Equal(t, "y", ne.Target.ID)
	assert.Equal(t, USub, ne.Value.(*UnaryOp).Op)
}

func TestDecodeImports(t *testing.T) {
	in := `{"_type": "Module", "body": [
		{"_type": "Import", "lineno": 1, "col_offset": 0, "names": [{"_type": "alias", "name": "os.path", "asname": "p"}]},
		{"_type": "ImportFrom", "module": null, "level": 2, "names": [{"_type": "alias", "name": "*", "asname": null}]},
		{"_type": "Global", "names": ["a", "b"]}
	]}`

	mod := decodeString(t, in)
	imp := mod.Body[0].(*Import)
	assert.Equal(t, "os.path", imp.Names[0].Name)
	assert.Equal(t, "p", imp.Names[0].AsName)
	assert.Equal(t, Pos{Line: 1, Col: 1}, imp.Names[0].Position())

	from := mod.Body[1].(*ImportFrom)
	assert.Equal(t, "", from.Module)
	assert.Equal(t, 2, from.Level)
	assert.Equal(t, "*", from.Names[0].Name)

	assert.Equal(t, []string{"a", "b"}, mod.Body[2].(*Global).Names)
}

func TestDecodeErrors(t *testing.T) {
	testCases := []string{
		``,
		`[]`,
		`{"body": []}`,
		`{"_type": "Expression", "body": []}`,
		`{"_type": "Module", "body": [{"_type": "TypeAlias"}]}`,
		`{"_type": "Module", "body": [{"_type": "Expr", "value": {"_type": "Constant", "value": 1}}]}`,
		`{"_type": "Module", "body": [{"_type": "Expr", "value": {"_type": "Constant", "value": {"_const": "decimal"}}}]}`,
		`{"_type": "Module", "body": [{"_type": "Expr", "value": {"_type": "NamedExpr", "target": {"_type": "Attribute", "attr": "a"}}}]}`,
		`{"_type": "Module", "body": [{"_type": "Expr", "value": {"_type": "Frobnicate"}}]}`,
	}

	for _, in := range testCases {
		_, err := Decode(strings.NewReader(in), "bad.py")
		assert.ErrorIs(t, err, ErrDecode, "input: %s", in)
	}
}
