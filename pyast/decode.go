package pyast

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrDecode is returned when a JSON dump does not describe a valid tree.
var ErrDecode = errors.New("malformed tree dump")

type object map[string]interface{}

// Decode reads the JSON dump of a Python ast.Module, as written by the dump
// script of internal/pyparse, and returns the equivalent tree. Dumps from
// Python 3.7 (Num, Str, NameConstant...), 3.8 (Index, ExtSlice) and later
// releases are accepted.
func Decode(r io.Reader, filename string) (*Module, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	o, typ, err := nodeObject(raw)
	if err != nil {
		return nil, err
	}
	if typ != "Module" {
		return nil, fmt.Errorf("%w: expecting Module, got %s", ErrDecode, typ)
	}

	d := &decoder{}
	body, err := d.stmts(o["body"])
	if err != nil {
		return nil, err
	}
	return &Module{Pos: Pos{Line: 1, Col: 1}, Filename: filename, Body: body}, nil
}

type decoder struct{}

func nodeObject(v interface{}) (object, string, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, "", fmt.Errorf("%w: expecting node, got %T", ErrDecode, v)
	}
	typ, ok := m["_type"].(string)
	if !ok {
		return nil, "", fmt.Errorf("%w: node without _type", ErrDecode)
	}
	return object(m), typ, nil
}

func (o object) pos() Pos {
	line := o.int("lineno")
	if line == 0 {
		return Pos{}
	}
	return Pos{Line: line, Col: o.int("col_offset") + 1}
}

func (o object) int(key string) int {
	switch v := o[key].(type) {
	case json.Number:
		n, _ := strconv.Atoi(v.String())
		return n
	case bool:
		if v {
			return 1
		}
	}
	return 0
}

func (o object) bool(key string) bool {
	return o.int(key) != 0
}

func (o object) str(key string) string {
	s, _ := o[key].(string)
	return s
}

func (o object) list(key string) []interface{} {
	l, _ := o[key].([]interface{})
	return l
}

func (o object) strs(key string) []string {
	var out []string
	for _, v := range o.list(key) {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (d *decoder) stmts(v interface{}) ([]Stmt, error) {
	l, _ := v.([]interface{})
	out := make([]Stmt, 0, len(l))
	for _, item := range l {
		s, err := d.stmt(item)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func (d *decoder) exprs(v interface{}) ([]Expr, error) {
	l, _ := v.([]interface{})
	out := make([]Expr, 0, len(l))
	for _, item := range l {
		e, err := d.optExpr(item)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// optExpr decodes an expression that may be null.
func (d *decoder) optExpr(v interface{}) (Expr, error) {
	if v == nil {
		return nil, nil
	}
	return d.expr(v)
}

func (d *decoder) stmt(v interface{}) (Stmt, error) {
	o, typ, err := nodeObject(v)
	if err != nil {
		return nil, err
	}
	p := o.pos()

	switch typ {
	case "FunctionDef", "AsyncFunctionDef":
		n := &FunctionDef{Pos: p, Name: o.str("name"), Async: typ == "AsyncFunctionDef"}
		if n.Args, err = d.arguments(o["args"]); err != nil {
			return nil, err
		}
		if n.Body, err = d.stmts(o["body"]); err != nil {
			return nil, err
		}
		if n.Decorators, err = d.exprs(o["decorator_list"]); err != nil {
			return nil, err
		}
		if n.Returns, err = d.optExpr(o["returns"]); err != nil {
			return nil, err
		}
		return n, nil

	case "ClassDef":
		n := &ClassDef{Pos: p, Name: o.str("name")}
		if n.Bases, err = d.exprs(o["bases"]); err != nil {
			return nil, err
		}
		if n.Keywords, err = d.keywords(o["keywords"]); err != nil {
			return nil, err
		}
		if n.Body, err = d.stmts(o["body"]); err != nil {
			return nil, err
		}
		if n.Decorators, err = d.exprs(o["decorator_list"]); err != nil {
			return nil, err
		}
		return n, nil

	case "Return":
		n := &Return{Pos: p}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "Delete":
		n := &Delete{Pos: p}
		n.Targets, err = d.exprs(o["targets"])
		return n, err

	case "Assign":
		n := &Assign{Pos: p}
		if n.Targets, err = d.exprs(o["targets"]); err != nil {
			return nil, err
		}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "AugAssign":
		n := &AugAssign{Pos: p}
		if n.Op, err = binaryOp(o["op"]); err != nil {
			return nil, err
		}
		if n.Target, err = d.optExpr(o["target"]); err != nil {
			return nil, err
		}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "AnnAssign":
		n := &AnnAssign{Pos: p, Simple: o.bool("simple")}
		if n.Target, err = d.optExpr(o["target"]); err != nil {
			return nil, err
		}
		if n.Annotation, err = d.optExpr(o["annotation"]); err != nil {
			return nil, err
		}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "For", "AsyncFor":
		n := &For{Pos: p, Async: typ == "AsyncFor"}
		if n.Target, err = d.optExpr(o["target"]); err != nil {
			return nil, err
		}
		if n.Iter, err = d.optExpr(o["iter"]); err != nil {
			return nil, err
		}
		if n.Body, err = d.stmts(o["body"]); err != nil {
			return nil, err
		}
		n.Orelse, err = d.stmts(o["orelse"])
		return n, err

	case "While":
		n := &While{Pos: p}
		if n.Test, err = d.optExpr(o["test"]); err != nil {
			return nil, err
		}
		if n.Body, err = d.stmts(o["body"]); err != nil {
			return nil, err
		}
		n.Orelse, err = d.stmts(o["orelse"])
		return n, err

	case "If":
		n := &If{Pos: p}
		if n.Test, err = d.optExpr(o["test"]); err != nil {
			return nil, err
		}
		if n.Body, err = d.stmts(o["body"]); err != nil {
			return nil, err
		}
		n.Orelse, err = d.stmts(o["orelse"])
		return n, err

	case "With", "AsyncWith":
		n := &With{Pos: p, Async: typ == "AsyncWith"}
		for _, item := range o.list("items") {
			wo, _, err := nodeObject(item)
			if err != nil {
				return nil, err
			}
			w := &WithItem{Pos: p}
			if w.Context, err = d.optExpr(wo["context_expr"]); err != nil {
				return nil, err
			}
			if w.Vars, err = d.optExpr(wo["optional_vars"]); err != nil {
				return nil, err
			}
			n.Items = append(n.Items, w)
		}
		n.Body, err = d.stmts(o["body"])
		return n, err

	case "Raise":
		n := &Raise{Pos: p}
		if n.Exc, err = d.optExpr(o["exc"]); err != nil {
			return nil, err
		}
		n.Cause, err = d.optExpr(o["cause"])
		return n, err

	case "Try", "TryStar":
		n := &Try{Pos: p, Star: typ == "TryStar"}
		if n.Body, err = d.stmts(o["body"]); err != nil {
			return nil, err
		}
		for _, item := range o.list("handlers") {
			ho, _, err := nodeObject(item)
			if err != nil {
				return nil, err
			}
			h := &ExceptHandler{Pos: ho.pos(), Name: ho.str("name")}
			if h.Type, err = d.optExpr(ho["type"]); err != nil {
				return nil, err
			}
			if h.Body, err = d.stmts(ho["body"]); err != nil {
				return nil, err
			}
			n.Handlers = append(n.Handlers, h)
		}
		if n.Orelse, err = d.stmts(o["orelse"]); err != nil {
			return nil, err
		}
		n.Finally, err = d.stmts(o["finalbody"])
		return n, err

	case "Assert":
		n := &Assert{Pos: p}
		if n.Test, err = d.optExpr(o["test"]); err != nil {
			return nil, err
		}
		n.Msg, err = d.optExpr(o["msg"])
		return n, err

	case "Import":
		n := &Import{Pos: p}
		n.Names, err = d.aliases(o["names"], p)
		return n, err

	case "ImportFrom":
		n := &ImportFrom{Pos: p, Module: o.str("module"), Level: o.int("level")}
		n.Names, err = d.aliases(o["names"], p)
		return n, err

	case "Global":
		return &Global{Pos: p, Names: o.strs("names")}, nil

	case "Nonlocal":
		return &Nonlocal{Pos: p, Names: o.strs("names")}, nil

	case "Expr":
		n := &ExprStmt{Pos: p}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "Pass":
		return &Pass{Pos: p}, nil

	case "Break":
		return &Break{Pos: p}, nil

	case "Continue":
		return &Continue{Pos: p}, nil

	case "Match":
		n := &Match{Pos: p}
		n.Subject, err = d.optExpr(o["subject"])
		return n, err
	}

	return nil, fmt.Errorf("%w: unknown statement %s at %v", ErrDecode, typ, p)
}

func (d *decoder) expr(v interface{}) (Expr, error) {
	o, typ, err := nodeObject(v)
	if err != nil {
		return nil, err
	}
	p := o.pos()

	switch typ {
	case "BoolOp":
		n := &BoolOp{Pos: p}
		if _, op, err := nodeObject(o["op"]); err == nil {
			switch op {
			case "And":
				n.Op = And
			case "Or":
				n.Op = Or
			}
		}
		n.Values, err = d.exprs(o["values"])
		return n, err

	case "NamedExpr":
		n := &NamedExpr{Pos: p}
		target, err := d.optExpr(o["target"])
		if err != nil {
			return nil, err
		}
		name, ok := target.(*Name)
		if !ok {
			return nil, fmt.Errorf("%w: assignment expression target at %v is not a name", ErrDecode, p)
		}
		n.Target = name
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "BinOp":
		n := &BinOp{Pos: p}
		if n.Op, err = binaryOp(o["op"]); err != nil {
			return nil, err
		}
		if n.Left, err = d.optExpr(o["left"]); err != nil {
			return nil, err
		}
		n.Right, err = d.optExpr(o["right"])
		return n, err

	case "UnaryOp":
		n := &UnaryOp{Pos: p}
		if _, op, err := nodeObject(o["op"]); err == nil {
			for _, u := range UnaryOps() {
				if u.String() == op {
					n.Op = u
				}
			}
		}
		n.Operand, err = d.optExpr(o["operand"])
		return n, err

	case "Lambda":
		n := &Lambda{Pos: p}
		if n.Args, err = d.arguments(o["args"]); err != nil {
			return nil, err
		}
		n.Body, err = d.optExpr(o["body"])
		return n, err

	case "IfExp":
		n := &IfExp{Pos: p}
		if n.Test, err = d.optExpr(o["test"]); err != nil {
			return nil, err
		}
		if n.Body, err = d.optExpr(o["body"]); err != nil {
			return nil, err
		}
		n.Orelse, err = d.optExpr(o["orelse"])
		return n, err

	case "Dict":
		n := &Dict{Pos: p}
		if n.Keys, err = d.exprs(o["keys"]); err != nil {
			return nil, err
		}
		n.Values, err = d.exprs(o["values"])
		return n, err

	case "Set":
		n := &Set{Pos: p}
		n.Elts, err = d.exprs(o["elts"])
		return n, err

	case "List":
		n := &List{Pos: p, Ctx: exprContext(o["ctx"])}
		n.Elts, err = d.exprs(o["elts"])
		return n, err

	case "Tuple":
		n := &Tuple{Pos: p, Ctx: exprContext(o["ctx"])}
		n.Elts, err = d.exprs(o["elts"])
		return n, err

	case "ListComp", "SetComp", "DictComp", "GeneratorExp":
		n := &Comprehension{Pos: p}
		switch typ {
		case "ListComp":
			n.Kind = ListComp
		case "SetComp":
			n.Kind = SetComp
		case "DictComp":
			n.Kind = DictComp
		default:
			n.Kind = GeneratorExp
		}
		if typ == "DictComp" {
			if n.Elt, err = d.optExpr(o["key"]); err != nil {
				return nil, err
			}
			if n.Value, err = d.optExpr(o["value"]); err != nil {
				return nil, err
			}
		} else if n.Elt, err = d.optExpr(o["elt"]); err != nil {
			return nil, err
		}
		for _, item := range o.list("generators") {
			g, err := d.compFor(item, p)
			if err != nil {
				return nil, err
			}
			n.Generators = append(n.Generators, g)
		}
		return n, nil

	case "Await":
		n := &Await{Pos: p}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "Yield":
		n := &Yield{Pos: p}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "YieldFrom":
		n := &YieldFrom{Pos: p}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "Compare":
		n := &Compare{Pos: p}
		for _, item := range o.list("ops") {
			op := InvalidCmpOp
			if _, name, err := nodeObject(item); err == nil {
				for _, c := range CmpOps() {
					if c.String() == name {
						op = c
					}
				}
			}
			n.Ops = append(n.Ops, op)
		}
		if n.Left, err = d.optExpr(o["left"]); err != nil {
			return nil, err
		}
		n.Comparators, err = d.exprs(o["comparators"])
		return n, err

	case "Call":
		n := &Call{Pos: p}
		if n.Func, err = d.optExpr(o["func"]); err != nil {
			return nil, err
		}
		if n.Args, err = d.exprs(o["args"]); err != nil {
			return nil, err
		}
		n.Keywords, err = d.keywords(o["keywords"])
		return n, err

	case "FormattedValue":
		n := &FormattedValue{Pos: p}
		switch o.int("conversion") {
		case 's', 'r', 'a':
			n.Conversion = rune(o.int("conversion"))
		}
		if n.Value, err = d.optExpr(o["value"]); err != nil {
			return nil, err
		}
		n.FormatSpec, err = d.optExpr(o["format_spec"])
		return n, err

	case "JoinedStr":
		n := &JoinedStr{Pos: p}
		n.Values, err = d.exprs(o["values"])
		return n, err

	case "Constant", "NameConstant":
		return constant(o["value"], p)

	case "Num":
		return constant(o["n"], p)

	case "Str", "Bytes":
		return constant(o["s"], p)

	case "Ellipsis":
		return &Constant{Pos: p, Kind: ConstEllipsis, Value: "..."}, nil

	case "Attribute":
		n := &Attribute{Pos: p, Attr: o.str("attr"), Ctx: exprContext(o["ctx"])}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "Subscript":
		n := &Subscript{Pos: p, Ctx: exprContext(o["ctx"])}
		if n.Value, err = d.optExpr(o["value"]); err != nil {
			return nil, err
		}
		n.Slice, err = d.optExpr(o["slice"])
		return n, err

	case "Index":
		return d.optExpr(o["value"])

	case "ExtSlice":
		n := &Tuple{Pos: p}
		n.Elts, err = d.exprs(o["dims"])
		return n, err

	case "Starred":
		n := &Starred{Pos: p, Ctx: exprContext(o["ctx"])}
		n.Value, err = d.optExpr(o["value"])
		return n, err

	case "Name":
		return &Name{Pos: p, ID: o.str("id"), Ctx: exprContext(o["ctx"])}, nil

	case "Slice":
		n := &Slice{Pos: p}
		if n.Lower, err = d.optExpr(o["lower"]); err != nil {
			return nil, err
		}
		if n.Upper, err = d.optExpr(o["upper"]); err != nil {
			return nil, err
		}
		n.Step, err = d.optExpr(o["step"])
		return n, err
	}

	return nil, fmt.Errorf("%w: unknown expression %s at %v", ErrDecode, typ, p)
}

func (d *decoder) arguments(v interface{}) (*Arguments, error) {
	if v == nil {
		return &Arguments{}, nil
	}
	o, _, err := nodeObject(v)
	if err != nil {
		return nil, err
	}
	n := &Arguments{Pos: o.pos()}
	if n.PosOnly, err = d.args(o["posonlyargs"]); err != nil {
		return nil, err
	}
	if n.Args, err = d.args(o["args"]); err != nil {
		return nil, err
	}
	if n.Vararg, err = d.arg(o["vararg"]); err != nil {
		return nil, err
	}
	if n.KwOnly, err = d.args(o["kwonlyargs"]); err != nil {
		return nil, err
	}
	if n.KwDefaults, err = d.exprs(o["kw_defaults"]); err != nil {
		return nil, err
	}
	if n.Kwarg, err = d.arg(o["kwarg"]); err != nil {
		return nil, err
	}
	n.Defaults, err = d.exprs(o["defaults"])
	return n, err
}

func (d *decoder) args(v interface{}) ([]*Arg, error) {
	l, _ := v.([]interface{})
	out := make([]*Arg, 0, len(l))
	for _, item := range l {
		a, err := d.arg(item)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (d *decoder) arg(v interface{}) (*Arg, error) {
	if v == nil {
		return nil, nil
	}
	o, _, err := nodeObject(v)
	if err != nil {
		return nil, err
	}
	n := &Arg{Pos: o.pos(), Name: o.str("arg")}
	n.Annotation, err = d.optExpr(o["annotation"])
	return n, err
}

func (d *decoder) keywords(v interface{}) ([]*Keyword, error) {
	l, _ := v.([]interface{})
	out := make([]*Keyword, 0, len(l))
	for _, item := range l {
		o, _, err := nodeObject(item)
		if err != nil {
			return nil, err
		}
		k := &Keyword{Pos: o.pos(), Arg: o.str("arg")}
		if k.Value, err = d.optExpr(o["value"]); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

func (d *decoder) aliases(v interface{}, p Pos) ([]*Alias, error) {
	l, _ := v.([]interface{})
	out := make([]*Alias, 0, len(l))
	for _, item := range l {
		o, _, err := nodeObject(item)
		if err != nil {
			return nil, err
		}
		a := &Alias{Pos: o.pos(), Name: o.str("name"), AsName: o.str("asname")}
		if !a.Pos.IsValid() {
			a.Pos = p
		}
		out = append(out, a)
	}
	return out, nil
}

func (d *decoder) compFor(v interface{}, p Pos) (*CompFor, error) {
	o, _, err := nodeObject(v)
	if err != nil {
		return nil, err
	}
	n := &CompFor{Pos: p, Async: o.bool("is_async")}
	if n.Target, err = d.optExpr(o["target"]); err != nil {
		return nil, err
	}
	if n.Iter, err = d.optExpr(o["iter"]); err != nil {
		return nil, err
	}
	n.Ifs, err = d.exprs(o["ifs"])
	return n, err
}

// constant decodes the {"_const": kind, "value": text} encoding the dump
// script uses for literal values.
func constant(v interface{}, p Pos) (*Constant, error) {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: constant at %v without value", ErrDecode, p)
	}
	kind, _ := m["_const"].(string)
	text, _ := m["value"].(string)

	n := &Constant{Pos: p, Value: text}
	switch kind {
	case "int":
		n.Kind = ConstInt
	case "float":
		n.Kind = ConstFloat
	case "complex":
		n.Kind = ConstComplex
	case "str":
		n.Kind = ConstStr
	case "bytes":
		n.Kind = ConstBytes
		// bytes are dumped as latin-1 text, one rune per byte
		raw := make([]byte, 0, len(text))
		for _, r := range text {
			raw = append(raw, byte(r))
		}
		n.Value = string(raw)
	case "bool":
		n.Kind = ConstBool
	case "none":
		n.Kind = ConstNone
		n.Value = "None"
	case "ellipsis":
		n.Kind = ConstEllipsis
		n.Value = "..."
	default:
		return nil, fmt.Errorf("%w: unknown constant kind %q at %v", ErrDecode, kind, p)
	}
	return n, nil
}

func binaryOp(v interface{}) (BinaryOp, error) {
	_, name, err := nodeObject(v)
	if err != nil {
		return InvalidBinaryOp, err
	}
	for _, op := range BinaryOps() {
		if op.String() == name {
			return op, nil
		}
	}
	return InvalidBinaryOp, nil
}

func exprContext(v interface{}) ExprContext {
	_, name, err := nodeObject(v)
	if err != nil {
		return Load
	}
	switch name {
	case "Store":
		return Store
	case "Del":
		return Del
	}
	return Load
}
