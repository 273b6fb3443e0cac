package py2hy

import (
	"strings"

	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/pyast"
)

type stmtVisitor struct {
	u    *unit
	tc   translationContext
	form *ast.Node
}

var _ = pyast.StmtVisitor(&stmtVisitor{})

func (v *stmtVisitor) VisitFunctionDef(n *pyast.FunctionDef) error {
	form, err := v.u.functionDef(v.tc, n)
	v.form = form
	return err
}

func (v *stmtVisitor) VisitClassDef(n *pyast.ClassDef) error {
	form, err := v.u.classDef(v.tc, n)
	v.form = form
	return err
}

func (v *stmtVisitor) VisitReturn(n *pyast.Return) error {
	tc := v.tc
	if tc.fn == nil || tc.fn.kind != frameDef {
		return v.u.malformed(tc, n, "return outside function")
	}

	if tc.pos == posTail && !tc.fn.generator {
		value, err := v.u.optExpr(tc, n.Value)
		if err != nil {
			return err
		}
		v.form = value
		return nil
	}

	if n.Value == nil {
		v.form = ast.NewCall("return")
		return nil
	}
	value, err := v.u.expr(tc, n.Value)
	if err != nil {
		return err
	}
	v.form = ast.NewCall("return", value)
	return nil
}

func (v *stmtVisitor) VisitDelete(n *pyast.Delete) error {
	if len(n.Targets) == 0 {
		return v.u.malformed(v.tc, n, "nothing to delete")
	}
	targets := make([]*ast.Node, 0, len(n.Targets))
	for _, t := range n.Targets {
		form, err := v.u.target(v.tc, t, pyast.Del)
		if err != nil {
			return err
		}
		targets = append(targets, form)
	}
	v.form = ast.NewCall("del", targets...)
	return nil
}

func (v *stmtVisitor) VisitAssign(n *pyast.Assign) error {
	if len(n.Targets) == 0 {
		return v.u.malformed(v.tc, n, "assignment without target")
	}

	value, err := v.u.expr(v.tc, n.Value)
	if err != nil {
		return err
	}

	targets := make([]*ast.Node, 0, len(n.Targets))
	for _, t := range n.Targets {
		form, err := v.u.target(v.tc, t, pyast.Store)
		if err != nil {
			return err
		}
		targets = append(targets, form)
	}

	if len(targets) == 1 {
		v.form = ast.NewCall("setv", targets[0], value)
		return nil
	}

	// a = b = v evaluates v once and assigns from left to right
	tmp := v.u.temp("value")
	forms := []*ast.Node{ast.NewCall("setv", ast.NewSymbol(tmp), value)}
	for _, t := range targets {
		forms = append(forms, ast.NewCall("setv", t, ast.NewSymbol(tmp)))
	}
	if v.tc.inNamespace() {
		forms = append(forms, ast.NewCall("del", ast.NewSymbol(tmp)))
	}
	v.form = ast.NewCall("do", forms...)
	return nil
}

func (v *stmtVisitor) VisitAugAssign(n *pyast.AugAssign) error {
	op, ok := augmentedOperator(n.Op)
	if !ok {
		return v.u.malformed(v.tc, n, "invalid operator %v", n.Op)
	}
	switch n.Target.(type) {
	case *pyast.Name, *pyast.Attribute, *pyast.Subscript:
	default:
		return v.u.malformed(v.tc, n, "illegal target for augmented assignment: %s", pyast.Kind(n.Target))
	}

	target, err := v.u.target(v.tc, n.Target, pyast.Store)
	if err != nil {
		return err
	}
	value, err := v.u.expr(v.tc, n.Value)
	if err != nil {
		return err
	}
	v.form = ast.NewCall(op, target, value)
	return nil
}

func (v *stmtVisitor) VisitAnnAssign(n *pyast.AnnAssign) error {
	switch n.Target.(type) {
	case *pyast.Name, *pyast.Attribute, *pyast.Subscript:
	default:
		return v.u.malformed(v.tc, n, "illegal target for annotation: %s", pyast.Kind(n.Target))
	}

	if n.Value == nil {
		v.form = none()
		return nil
	}

	value, err := v.u.expr(v.tc, n.Value)
	if err != nil {
		return err
	}
	target, err := v.u.target(v.tc, n.Target, pyast.Store)
	if err != nil {
		return err
	}
	v.form = ast.NewCall("setv", target, value)
	return nil
}

func (v *stmtVisitor) VisitFor(n *pyast.For) error {
	head := "for"
	if n.Async {
		if v.tc.fn == nil || !v.tc.fn.async {
			return v.u.malformed(v.tc, n, "async for outside async function")
		}
		head = "for/a"
	}

	iter, err := v.u.expr(v.tc, n.Iter)
	if err != nil {
		return err
	}
	target, err := v.u.target(v.tc, n.Target, pyast.Store)
	if err != nil {
		return err
	}

	args := []*ast.Node{ast.NewListOf(target, iter)}
	if err := v.loop(n, n.Body, n.Orelse, &args); err != nil {
		return err
	}
	v.form = ast.NewCall(head, args...)
	return nil
}

func (v *stmtVisitor) VisitWhile(n *pyast.While) error {
	test, err := v.u.expr(v.tc, n.Test)
	if err != nil {
		return err
	}

	args := []*ast.Node{test}
	if err := v.loop(n, n.Body, n.Orelse, &args); err != nil {
		return err
	}
	v.form = ast.NewCall("while", args...)
	return nil
}

// loop appends the body of a loop and its else clause to args.
func (v *stmtVisitor) loop(n pyast.Node, body []pyast.Stmt, orelse []pyast.Stmt, args *[]*ast.Node) error {
	forms, err := v.u.body(v.tc.enterLoop(), n, body)
	if err != nil {
		return err
	}
	*args = append(*args, forms...)

	if len(orelse) > 0 {
		forms, err := v.u.body(v.tc, n, orelse)
		if err != nil {
			return err
		}
		*args = append(*args, ast.NewCall("else", forms...))
	}
	return nil
}

func (v *stmtVisitor) VisitIf(n *pyast.If) error {
	test, err := v.u.expr(v.tc, n.Test)
	if err != nil {
		return err
	}

	branch := v.u.body
	if v.tc.pos == posTail {
		branch = v.u.tailBody
	}

	then, err := branch(v.tc, n, n.Body)
	if err != nil {
		return err
	}

	orelse := none()
	if len(n.Orelse) > 0 {
		forms, err := branch(v.tc, n, n.Orelse)
		if err != nil {
			return err
		}
		orelse = block(forms)
	}

	v.form = ast.NewCall("if", test, block(then), orelse)
	return nil
}

func (v *stmtVisitor) VisitWith(n *pyast.With) error {
	head := "with"
	if n.Async {
		if v.tc.fn == nil || !v.tc.fn.async {
			return v.u.malformed(v.tc, n, "async with outside async function")
		}
		head = "with/a"
	}
	if len(n.Items) == 0 {
		return v.u.malformed(v.tc, n, "with statement without items")
	}

	bindings := make([]*ast.Node, 0, len(n.Items))
	for _, item := range n.Items {
		if item == nil {
			return v.u.malformed(v.tc, n, "missing with item")
		}
		ctx, err := v.u.expr(v.tc, item.Context)
		if err != nil {
			return err
		}
		if item.Vars == nil {
			bindings = append(bindings, ast.NewListOf(ctx))
			continue
		}
		vars, err := v.u.target(v.tc, item.Vars, pyast.Store)
		if err != nil {
			return err
		}
		bindings = append(bindings, ast.NewListOf(vars, ctx))
	}

	body, err := v.u.body(v.tc, n, n.Body)
	if err != nil {
		return err
	}

	// with A, B: nests one form per item, innermost last
	form := ast.NewCall(head, append([]*ast.Node{bindings[len(bindings)-1]}, body...)...)
	for i := len(bindings) - 2; i >= 0; i-- {
		form = ast.NewCall(head, bindings[i], form)
	}
	v.form = form
	return nil
}

func (v *stmtVisitor) VisitRaise(n *pyast.Raise) error {
	if n.Exc == nil {
		if n.Cause != nil {
			return v.u.malformed(v.tc, n, "raise with cause but no exception")
		}
		v.form = ast.NewCall("raise")
		return nil
	}

	exc, err := v.u.expr(v.tc, n.Exc)
	if err != nil {
		return err
	}
	if n.Cause == nil {
		v.form = ast.NewCall("raise", exc)
		return nil
	}
	cause, err := v.u.expr(v.tc, n.Cause)
	if err != nil {
		return err
	}
	v.form = ast.NewCall("raise", exc, ast.NewKeyword("from"), cause)
	return nil
}

func (v *stmtVisitor) VisitTry(n *pyast.Try) error {
	if n.Star {
		return v.u.unsupported(v.tc, n, "except* has no Hy equivalent")
	}
	if len(n.Handlers) == 0 && len(n.Finally) == 0 {
		return v.u.malformed(v.tc, n, "try without except or finally")
	}

	args, err := v.u.body(v.tc, n, n.Body)
	if err != nil {
		return err
	}

	for _, h := range n.Handlers {
		form, err := v.handler(h)
		if err != nil {
			return err
		}
		args = append(args, form)
	}

	if len(n.Orelse) > 0 {
		if len(n.Handlers) == 0 {
			return v.u.malformed(v.tc, n, "try with else but no except")
		}
		forms, err := v.u.body(v.tc, n, n.Orelse)
		if err != nil {
			return err
		}
		args = append(args, ast.NewCall("else", forms...))
	}

	if len(n.Finally) > 0 {
		forms, err := v.u.body(v.tc, n, n.Finally)
		if err != nil {
			return err
		}
		args = append(args, ast.NewCall("finally", forms...))
	}

	v.form = ast.NewCall("try", args...)
	return nil
}

func (v *stmtVisitor) handler(h *pyast.ExceptHandler) (*ast.Node, error) {
	if h == nil {
		return nil, v.u.malformed(v.tc, nil, "missing except clause")
	}

	var spec []*ast.Node
	if h.Type != nil {
		var (
			typ *ast.Node
			err error
		)
		if tuple, ok := h.Type.(*pyast.Tuple); ok {
			var elts []*ast.Node
			elts, err = v.u.exprs(v.tc, tuple.Elts)
			typ = ast.NewListOf(elts...)
		} else {
			typ, err = v.u.expr(v.tc, h.Type)
		}
		if err != nil {
			return nil, err
		}
		if h.Name != "" {
			spec = append(spec, symbol(h.Name))
		}
		spec = append(spec, typ)
	} else if h.Name != "" {
		return nil, v.u.malformed(v.tc, h, "bare except clause with a name")
	}

	body, err := v.u.body(v.tc, h, h.Body)
	if err != nil {
		return nil, err
	}
	return ast.NewCall("except", append([]*ast.Node{ast.NewListOf(spec...)}, body...)...), nil
}

func (v *stmtVisitor) VisitAssert(n *pyast.Assert) error {
	test, err := v.u.expr(v.tc, n.Test)
	if err != nil {
		return err
	}
	if n.Msg == nil {
		v.form = ast.NewCall("assert", test)
		return nil
	}
	msg, err := v.u.expr(v.tc, n.Msg)
	if err != nil {
		return err
	}
	v.form = ast.NewCall("assert", test, msg)
	return nil
}

func (v *stmtVisitor) VisitImport(n *pyast.Import) error {
	if len(n.Names) == 0 {
		return v.u.malformed(v.tc, n, "import without names")
	}

	specs := make([]*ast.Node, 0, len(n.Names))
	for _, a := range n.Names {
		if a == nil || a.Name == "" {
			return v.u.malformed(v.tc, n, "missing module name")
		}

		if a.AsName != "" {
			specs = append(specs, ast.NewListOf(
				ast.NewSymbol(a.Name), ast.NewKeyword("as"), symbol(a.AsName),
			))
			continue
		}

		bound := importBinding(a)
		if Mangle(bound) == bound {
			specs = append(specs, ast.NewSymbol(a.Name))
			continue
		}
		if strings.Contains(a.Name, ".") {
			return v.u.unsupported(v.tc, a, "import %s binds %q, which has to be renamed", a.Name, bound)
		}
		specs = append(specs, ast.NewListOf(
			ast.NewSymbol(a.Name), ast.NewKeyword("as"), symbol(bound),
		))
	}

	v.form = ast.NewCall("import", specs...)
	return nil
}

func (v *stmtVisitor) VisitImportFrom(n *pyast.ImportFrom) error {
	if n.Level > 0 {
		return v.u.unsupported(v.tc, n, "relative import")
	}
	if n.Module == "" || len(n.Names) == 0 {
		return v.u.malformed(v.tc, n, "import without module or names")
	}

	var names []*ast.Node
	for _, a := range n.Names {
		if a == nil || a.Name == "" {
			return v.u.malformed(v.tc, n, "missing imported name")
		}
		if a.Name == "*" {
			if len(n.Names) > 1 {
				return v.u.malformed(v.tc, n, "star import mixed with names")
			}
			names = append(names, ast.NewSymbol("*"))
			break
		}

		bound := importBinding(a)
		names = append(names, ast.NewSymbol(a.Name))
		if a.AsName != "" || Mangle(bound) != bound {
			names = append(names, ast.NewKeyword("as"), symbol(bound))
		}
	}

	v.form = ast.NewCall("import", ast.NewListOf(ast.NewSymbol(n.Module), ast.NewListOf(names...)))
	return nil
}

func (v *stmtVisitor) VisitGlobal(n *pyast.Global) error {
	return v.declaration("global", n, n.Names)
}

func (v *stmtVisitor) VisitNonlocal(n *pyast.Nonlocal) error {
	return v.declaration("nonlocal", n, n.Names)
}

func (v *stmtVisitor) declaration(head string, n pyast.Node, names []string) error {
	if len(names) == 0 {
		return v.u.malformed(v.tc, n, "%s without names", head)
	}
	syms := make([]*ast.Node, 0, len(names))
	for _, name := range names {
		syms = append(syms, symbol(name))
	}
	v.form = ast.NewCall(head, syms...)
	return nil
}

func (v *stmtVisitor) VisitExprStmt(n *pyast.ExprStmt) error {
	form, err := v.u.expr(v.tc, n.Value)
	v.form = form
	return err
}

func (v *stmtVisitor) VisitPass(n *pyast.Pass) error {
	v.form = none()
	return nil
}

func (v *stmtVisitor) VisitBreak(n *pyast.Break) error {
	if !v.tc.inLoop {
		return v.u.malformed(v.tc, n, "break outside loop")
	}
	v.form = ast.NewCall("break")
	return nil
}

func (v *stmtVisitor) VisitContinue(n *pyast.Continue) error {
	if !v.tc.inLoop {
		return v.u.malformed(v.tc, n, "continue outside loop")
	}
	v.form = ast.NewCall("continue")
	return nil
}

func (v *stmtVisitor) VisitMatch(n *pyast.Match) error {
	return v.u.unsupported(v.tc, n, "structural pattern matching")
}
