package py2hy

import (
	"math"
	"math/big"
	"strconv"

	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/pyast"
)

type exprVisitor struct {
	u    *unit
	tc   translationContext
	form *ast.Node
}

var _ = pyast.ExprVisitor(&exprVisitor{})

// dynamicScope lists builtins that look at the calling frame. Translated code
// runs some expressions inside helper functions, so their answers would change.
var dynamicScope = map[string]func(args int, keywords int) bool{
	"locals": func(args, keywords int) bool { return true },
	"vars":   func(args, keywords int) bool { return args+keywords == 0 },
	"dir":    func(args, keywords int) bool { return args+keywords == 0 },
	"exec":   func(args, keywords int) bool { return args+keywords < 2 },
	"eval":   func(args, keywords int) bool { return args+keywords < 2 },
}

func (v *exprVisitor) VisitBoolOp(n *pyast.BoolOp) error {
	op, ok := boolOperators[n.Op]
	if !ok {
		return v.u.malformed(v.tc, n, "invalid operator %v", n.Op)
	}
	if len(n.Values) < 2 {
		return v.u.malformed(v.tc, n, "%s with %d operands", op, len(n.Values))
	}
	values, err := v.u.exprs(v.tc, n.Values)
	if err != nil {
		return err
	}
	v.form = ast.NewCall(op, values...)
	return nil
}

func (v *exprVisitor) VisitNamedExpr(n *pyast.NamedExpr) error {
	if v.tc.inComprehension() {
		return v.u.unsupported(v.tc, n, "assignment expression inside a comprehension")
	}
	if n.Target == nil || n.Target.ID == "" {
		return v.u.malformed(v.tc, n, "assignment expression without target")
	}
	value, err := v.u.expr(v.tc, n.Value)
	if err != nil {
		return err
	}
	v.form = ast.NewCall("do",
		ast.NewCall("setv", symbol(n.Target.ID), value),
		symbol(n.Target.ID),
	)
	return nil
}

func (v *exprVisitor) VisitBinOp(n *pyast.BinOp) error {
	op, ok := binaryOperators[n.Op]
	if !ok {
		return v.u.malformed(v.tc, n, "invalid operator %v", n.Op)
	}
	left, err := v.u.expr(v.tc, n.Left)
	if err != nil {
		return err
	}
	right, err := v.u.expr(v.tc, n.Right)
	if err != nil {
		return err
	}
	v.form = ast.NewCall(op, left, right)
	return nil
}

func (v *exprVisitor) VisitUnaryOp(n *pyast.UnaryOp) error {
	op, ok := unaryOperators[n.Op]
	if !ok {
		return v.u.malformed(v.tc, n, "invalid operator %v", n.Op)
	}
	operand, err := v.u.expr(v.tc, n.Operand)
	if err != nil {
		return err
	}
	v.form = ast.NewCall(op, operand)
	return nil
}

func (v *exprVisitor) VisitLambda(n *pyast.Lambda) error {
	form, err := v.u.lambda(v.tc, n)
	v.form = form
	return err
}

func (v *exprVisitor) VisitIfExp(n *pyast.IfExp) error {
	test, err := v.u.expr(v.tc, n.Test)
	if err != nil {
		return err
	}
	body, err := v.u.expr(v.tc, n.Body)
	if err != nil {
		return err
	}
	orelse, err := v.u.expr(v.tc, n.Orelse)
	if err != nil {
		return err
	}
	v.form = ast.NewCall("if", test, body, orelse)
	return nil
}

func (v *exprVisitor) VisitDict(n *pyast.Dict) error {
	if len(n.Keys) != len(n.Values) {
		return v.u.malformed(v.tc, n, "%d keys for %d values", len(n.Keys), len(n.Values))
	}
	var items []*ast.Node
	for i := range n.Keys {
		value, err := v.u.expr(v.tc, n.Values[i])
		if err != nil {
			return err
		}
		if n.Keys[i] == nil {
			items = append(items, ast.NewCall("unpack-mapping", value))
			continue
		}
		key, err := v.u.expr(v.tc, n.Keys[i])
		if err != nil {
			return err
		}
		items = append(items, key, value)
	}
	v.form = ast.NewMapOf(items...)
	return nil
}

func (v *exprVisitor) VisitSet(n *pyast.Set) error {
	if len(n.Elts) == 0 {
		return v.u.malformed(v.tc, n, "empty set display")
	}
	elts, err := v.u.elements(v.tc, n.Elts)
	if err != nil {
		return err
	}
	v.form = ast.NewSetOf(elts...)
	return nil
}

func (v *exprVisitor) VisitList(n *pyast.List) error {
	elts, err := v.u.elements(v.tc, n.Elts)
	if err != nil {
		return err
	}
	v.form = ast.NewListOf(elts...)
	return nil
}

func (v *exprVisitor) VisitTuple(n *pyast.Tuple) error {
	elts, err := v.u.elements(v.tc, n.Elts)
	if err != nil {
		return err
	}
	v.form = ast.NewCall(",", elts...)
	return nil
}

// elements translates the items of a display, unpacking starred ones.
func (u *unit) elements(tc translationContext, exprs []pyast.Expr) ([]*ast.Node, error) {
	out := make([]*ast.Node, 0, len(exprs))
	for _, e := range exprs {
		if st, ok := e.(*pyast.Starred); ok {
			value, err := u.expr(tc, st.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, ast.NewCall("unpack-iterable", value))
			continue
		}
		form, err := u.expr(tc, e)
		if err != nil {
			return nil, err
		}
		out = append(out, form)
	}
	return out, nil
}

func (v *exprVisitor) VisitComprehension(n *pyast.Comprehension) error {
	form, err := v.u.comprehension(v.tc, n)
	v.form = form
	return err
}

func (v *exprVisitor) VisitAwait(n *pyast.Await) error {
	switch {
	case v.tc.inComprehension():
		return v.u.unsupported(v.tc, n, "await inside a comprehension")
	case v.tc.fn == nil || v.tc.fn.kind != frameDef || !v.tc.fn.async:
		return v.u.malformed(v.tc, n, "await outside async function")
	}
	value, err := v.u.expr(v.tc, n.Value)
	if err != nil {
		return err
	}
	v.form = ast.NewCall("await", value)
	return nil
}

func (v *exprVisitor) VisitYield(n *pyast.Yield) error {
	if !v.tc.inFunction() {
		return v.u.malformed(v.tc, n, "yield outside function")
	}
	if n.Value == nil {
		v.form = ast.NewCall("yield")
		return nil
	}
	value, err := v.u.expr(v.tc, n.Value)
	if err != nil {
		return err
	}
	v.form = ast.NewCall("yield", value)
	return nil
}

func (v *exprVisitor) VisitYieldFrom(n *pyast.YieldFrom) error {
	if !v.tc.inFunction() {
		return v.u.malformed(v.tc, n, "yield outside function")
	}
	if v.tc.fn.async {
		return v.u.malformed(v.tc, n, "yield from inside async function")
	}
	value, err := v.u.expr(v.tc, n.Value)
	if err != nil {
		return err
	}
	v.form = ast.NewCall("yield-from", value)
	return nil
}

func (v *exprVisitor) VisitCompare(n *pyast.Compare) error {
	if len(n.Ops) == 0 || len(n.Ops) != len(n.Comparators) {
		return v.u.malformed(v.tc, n, "%d operators for %d comparators", len(n.Ops), len(n.Comparators))
	}
	ops := make([]string, len(n.Ops))
	uniform := true
	for i, op := range n.Ops {
		sym, ok := cmpOperators[op]
		if !ok {
			return v.u.malformed(v.tc, n, "invalid operator %v", op)
		}
		ops[i] = sym
		uniform = uniform && sym == ops[0]
	}

	left, err := v.u.expr(v.tc, n.Left)
	if err != nil {
		return err
	}
	operands, err := v.u.exprs(v.tc, n.Comparators)
	if err != nil {
		return err
	}

	// a chain with a single operator is still a Python chain in Hy
	if uniform {
		v.form = ast.NewCall(ops[0], append([]*ast.Node{left}, operands...)...)
		return nil
	}

	// a < b <= c becomes (and (< a b) (<= b c)); a middle operand that is not
	// pure is evaluated once, at its first use, and kept in a temporary
	var clauses, temps []*ast.Node
	for i := range ops {
		right, next := operands[i], operands[i]
		if i < len(ops)-1 {
			if isPure(n.Comparators[i]) {
				next = ast.Clone(right)
			} else {
				tmp := v.u.temp("cmp")
				temps = append(temps, ast.NewSymbol(tmp))
				right = ast.NewCall("do",
					ast.NewCall("setv", ast.NewSymbol(tmp), right),
					ast.NewSymbol(tmp),
				)
				next = ast.NewSymbol(tmp)
			}
		}
		clauses = append(clauses, ast.NewCall(ops[i], left, right))
		left = next
	}
	v.form = ast.NewCall("and", clauses...)

	// module and class namespaces must not keep the temporaries; they are
	// bound up front since the chain may stop before reaching them
	if len(temps) > 0 && v.tc.inNamespace() {
		forms := make([]*ast.Node, 0, len(temps)+1)
		for _, tmp := range temps {
			forms = append(forms, ast.NewCall("setv", ast.Clone(tmp), ast.NewSymbol("None")))
		}
		forms = append(forms, ast.NewCall("try", v.form, ast.NewCall("finally", ast.NewCall("del", temps...))))
		v.form = ast.NewCall("do", forms...)
	}
	return nil
}

func (v *exprVisitor) VisitCall(n *pyast.Call) error {
	if name, ok := n.Func.(*pyast.Name); ok {
		if check, dynamic := dynamicScope[name.ID]; dynamic && check(len(n.Args), len(n.Keywords)) {
			if _, bound := v.tc.scope.lookup(name.ID); !bound {
				return v.u.unsupported(v.tc, n, "%s() depends on the calling frame", name.ID)
			}
		}
	}

	var head []*ast.Node
	if attr, ok := n.Func.(*pyast.Attribute); ok && !readsAsNumber(attr.Attr) {
		obj, err := v.u.expr(v.tc, attr.Value)
		if err != nil {
			return err
		}
		head = []*ast.Node{ast.NewSymbol("." + attr.Attr), obj}
	} else {
		fn, err := v.u.expr(v.tc, n.Func)
		if err != nil {
			return err
		}
		head = []*ast.Node{fn}
	}

	args, err := v.u.elements(v.tc, n.Args)
	if err != nil {
		return err
	}

	for _, kw := range n.Keywords {
		if kw == nil {
			return v.u.malformed(v.tc, n, "missing keyword argument")
		}
		value, err := v.u.expr(v.tc, kw.Value)
		if err != nil {
			return err
		}
		if kw.Arg == "" {
			args = append(args, ast.NewCall("unpack-mapping", value))
			continue
		}
		args = append(args, ast.NewKeyword(v.u.keywordName(v.tc, n.Func, kw.Arg)), value)
	}

	v.form = ast.NewForm(append(head, args...)...)
	return nil
}

func (v *exprVisitor) VisitFormattedValue(n *pyast.FormattedValue) error {
	form, err := v.u.formatted(v.tc, n)
	v.form = form
	return err
}

func (v *exprVisitor) VisitJoinedStr(n *pyast.JoinedStr) error {
	parts := make([]*ast.Node, 0, len(n.Values))
	for _, part := range n.Values {
		switch part := part.(type) {
		case *pyast.Constant:
			if part.Kind != pyast.ConstStr {
				return v.u.malformed(v.tc, n, "%s constant in f-string", part.Kind)
			}
			parts = append(parts, ast.NewString(part.Value))
		case *pyast.FormattedValue:
			form, err := v.u.formatted(v.tc, part)
			if err != nil {
				return err
			}
			parts = append(parts, form)
		default:
			return v.u.malformed(v.tc, n, "%s in f-string", pyast.Kind(part))
		}
	}

	// a bare string literal would read as a docstring at the head of a body
	switch {
	case len(parts) == 0:
		v.form = ast.NewCall("+", ast.NewString(""), ast.NewString(""))
	case len(parts) == 1 && parts[0].Is(ast.NodeTypeString):
		v.form = ast.NewCall("+", ast.NewString(""), parts[0])
	default:
		v.form = ast.NewCall(".join", ast.NewString(""), ast.NewListOf(parts...))
	}
	return nil
}

// keywordName returns the keyword used for argument arg of a call to fn.
// Parameters are renamed only in functions defined by the program, so
// keywords to anything else keep their Python spelling.
func (u *unit) keywordName(tc translationContext, fn pyast.Expr, arg string) string {
	if name, ok := fn.(*pyast.Name); ok {
		if _, bound := tc.scope.lookup(name.ID); bound {
			return Mangle(arg)
		}
	}
	return arg
}

// formatted translates one replacement field of an f-string into a call to
// format, applying the conversion first.
func (u *unit) formatted(tc translationContext, n *pyast.FormattedValue) (*ast.Node, error) {
	value, err := u.expr(tc, n.Value)
	if err != nil {
		return nil, err
	}

	switch n.Conversion {
	case 0:
	case 's':
		value = ast.NewForm(u.builtin(tc, "str"), value)
	case 'r':
		value = ast.NewForm(u.builtin(tc, "repr"), value)
	case 'a':
		value = ast.NewForm(u.builtin(tc, "ascii"), value)
	default:
		return nil, u.malformed(tc, n, "invalid conversion %q", n.Conversion)
	}

	args := []*ast.Node{u.builtin(tc, "format"), value}
	if n.FormatSpec != nil {
		spec, err := u.formatSpec(tc, n.FormatSpec)
		if err != nil {
			return nil, err
		}
		args = append(args, spec)
	}
	return ast.NewForm(args...), nil
}

// formatSpec translates the part after the colon of a replacement field. A
// spec without nested fields is a plain string.
func (u *unit) formatSpec(tc translationContext, spec pyast.Expr) (*ast.Node, error) {
	if js, ok := spec.(*pyast.JoinedStr); ok && len(js.Values) == 1 {
		if c, ok := js.Values[0].(*pyast.Constant); ok && c.Kind == pyast.ConstStr {
			return ast.NewString(c.Value), nil
		}
	}
	return u.expr(tc, spec)
}

func (v *exprVisitor) VisitConstant(n *pyast.Constant) error {
	form, err := v.u.constant(v.tc, n)
	v.form = form
	return err
}

func (u *unit) constant(tc translationContext, n *pyast.Constant) (*ast.Node, error) {
	switch n.Kind {
	case pyast.ConstInt:
		i, ok := new(big.Int).SetString(n.Value, 0)
		if !ok {
			return nil, u.malformed(tc, n, "invalid int literal %q", n.Value)
		}
		return ast.NewInt(i), nil

	case pyast.ConstFloat:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil && !math.IsInf(f, 0) {
			return nil, u.malformed(tc, n, "invalid float literal %q", n.Value)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return u.specialFloat(tc, f), nil
		}
		return ast.NewFloat(f), nil

	case pyast.ConstComplex:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil && !math.IsInf(f, 0) {
			return nil, u.malformed(tc, n, "invalid complex literal %q", n.Value)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return ast.NewForm(u.builtin(tc, "complex"), ast.NewInt64(0), u.specialFloat(tc, f)), nil
		}
		return ast.NewComplex(f), nil

	case pyast.ConstStr:
		return ast.NewString(n.Value), nil

	case pyast.ConstBytes:
		return ast.NewBytes([]byte(n.Value)), nil

	case pyast.ConstBool:
		switch n.Value {
		case "True", "False":
			return ast.NewSymbol(n.Value), nil
		}
		return nil, u.malformed(tc, n, "invalid bool literal %q", n.Value)

	case pyast.ConstNone:
		return none(), nil

	case pyast.ConstEllipsis:
		return ast.NewSymbol("..."), nil
	}
	return nil, u.malformed(tc, n, "invalid constant kind %v", n.Kind)
}

// specialFloat spells infinities and NaN as calls to float, Hy has no
// literal for them.
func (u *unit) specialFloat(tc translationContext, f float64) *ast.Node {
	text := "inf"
	switch {
	case math.IsNaN(f):
		text = "nan"
	case f < 0:
		text = "-inf"
	}
	return ast.NewForm(u.builtin(tc, "float"), ast.NewString(text))
}

func (v *exprVisitor) VisitAttribute(n *pyast.Attribute) error {
	if n.Attr == "" {
		return v.u.malformed(v.tc, n, "attribute without name")
	}
	obj, err := v.u.expr(v.tc, n.Value)
	if err != nil {
		return err
	}
	v.form = v.u.attribute(v.tc, obj, n.Attr)
	return nil
}

// attribute reads obj.attr. Names Hy would read as numbers go through
// getattr.
func (u *unit) attribute(tc translationContext, obj *ast.Node, attr string) *ast.Node {
	if readsAsNumber(attr) {
		return ast.NewForm(u.builtin(tc, "getattr"), obj, ast.NewString(attr))
	}
	return ast.NewCall(".", obj, ast.NewSymbol(attr))
}

func (v *exprVisitor) VisitSubscript(n *pyast.Subscript) error {
	form, err := v.u.subscript(v.tc, n)
	v.form = form
	return err
}

func (u *unit) subscript(tc translationContext, n *pyast.Subscript) (*ast.Node, error) {
	value, err := u.expr(tc, n.Value)
	if err != nil {
		return nil, err
	}

	if sl, ok := n.Slice.(*pyast.Slice); ok {
		bounds := []*ast.Node{value}
		parts := []pyast.Expr{sl.Lower, sl.Upper, sl.Step}
		last := -1
		for i, p := range parts {
			if p != nil {
				last = i
			}
		}
		for _, p := range parts[:last+1] {
			form, err := u.optExpr(tc, p)
			if err != nil {
				return nil, err
			}
			bounds = append(bounds, form)
		}
		return ast.NewCall("cut", bounds...), nil
	}

	index, err := u.expr(tc, n.Slice)
	if err != nil {
		return nil, err
	}
	return ast.NewCall("get", value, index), nil
}

func (v *exprVisitor) VisitStarred(n *pyast.Starred) error {
	return v.u.malformed(v.tc, n, "starred expression outside of a display, call or target")
}

func (v *exprVisitor) VisitName(n *pyast.Name) error {
	if n.ID == "" {
		return v.u.malformed(v.tc, n, "name without identifier")
	}
	if n.Ctx != pyast.Load {
		return v.u.malformed(v.tc, n, "%s name %q read as a value", n.Ctx, n.ID)
	}
	v.form = symbol(n.ID)
	return nil
}

func (v *exprVisitor) VisitSlice(n *pyast.Slice) error {
	parts := make([]*ast.Node, 0, 4)
	parts = append(parts, v.u.builtin(v.tc, "slice"))
	for _, p := range []pyast.Expr{n.Lower, n.Upper, n.Step} {
		form, err := v.u.optExpr(v.tc, p)
		if err != nil {
			return err
		}
		parts = append(parts, form)
	}
	v.form = ast.NewForm(parts...)
	return nil
}

// target translates the left side of an assignment, a deletion or a loop.
func (u *unit) target(tc translationContext, e pyast.Expr, role pyast.ExprContext) (*ast.Node, error) {
	if e == nil {
		return nil, u.malformed(tc, nil, "missing target")
	}
	tc, err := u.enter(tc, e)
	if err != nil {
		return nil, err
	}
	tc = tc.expr()

	switch t := e.(type) {
	case *pyast.Name:
		if t.ID == "" {
			return nil, u.malformed(tc, t, "name without identifier")
		}
		return symbol(t.ID), nil

	case *pyast.Attribute:
		if t.Attr == "" {
			return nil, u.malformed(tc, t, "attribute without name")
		}
		if readsAsNumber(t.Attr) {
			return nil, u.unsupported(tc, t, "attribute %q cannot be spelled as a Hy symbol", t.Attr)
		}
		obj, err := u.expr(tc, t.Value)
		if err != nil {
			return nil, err
		}
		return ast.NewCall(".", obj, ast.NewSymbol(t.Attr)), nil

	case *pyast.Subscript:
		return u.subscript(tc, t)

	case *pyast.Tuple, *pyast.List:
		var elts []pyast.Expr
		if tuple, ok := t.(*pyast.Tuple); ok {
			elts = tuple.Elts
		} else {
			elts = t.(*pyast.List).Elts
		}
		forms := make([]*ast.Node, 0, len(elts))
		starred := false
		for _, elt := range elts {
			if st, ok := elt.(*pyast.Starred); ok {
				if starred || role == pyast.Del {
					return nil, u.malformed(tc, t, "cannot use starred expression here")
				}
				starred = true
				inner, err := u.target(tc, st.Value, role)
				if err != nil {
					return nil, err
				}
				forms = append(forms, ast.NewCall("unpack-iterable", inner))
				continue
			}
			form, err := u.target(tc, elt, role)
			if err != nil {
				return nil, err
			}
			forms = append(forms, form)
		}
		if _, ok := t.(*pyast.List); ok {
			return ast.NewListOf(forms...), nil
		}
		return ast.NewCall(",", forms...), nil
	}

	return nil, u.malformed(tc, e, "cannot assign to %s", pyast.Kind(e))
}
