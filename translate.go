package py2hy

import (
	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/pyast"
)

// unit holds the state of translating one module. It is never shared
// between goroutines.
type unit struct {
	opts   Options
	file   string
	scopes map[pyast.Node]*scope
	temps  int
}

func newUnit(opts Options, file string) *unit {
	return &unit{
		opts: opts,
		file: file,
	}
}

func (u *unit) temp(purpose string) string {
	u.temps++
	return tempName(purpose, u.temps)
}

func (u *unit) module(mod *pyast.Module) (*ast.Node, error) {
	root, err := u.bind(mod)
	if err != nil {
		return nil, err
	}

	tc := translationContext{scope: root, at: mod.Position()}
	forms, err := u.body(tc, mod, mod.Body)
	if err != nil {
		return nil, err
	}
	return ast.NewDocumentOf(forms...), nil
}

func (u *unit) stmt(tc translationContext, s pyast.Stmt) (*ast.Node, error) {
	if s == nil {
		return nil, u.malformed(tc, nil, "missing statement")
	}
	tc, err := u.enter(tc, s)
	if err != nil {
		return nil, err
	}
	v := &stmtVisitor{u: u, tc: tc}
	if err := s.Accept(v); err != nil {
		return nil, err
	}
	return v.form, nil
}

func (u *unit) expr(tc translationContext, e pyast.Expr) (*ast.Node, error) {
	if e == nil {
		return nil, u.malformed(tc, nil, "missing expression")
	}
	tc, err := u.enter(tc, e)
	if err != nil {
		return nil, err
	}
	v := &exprVisitor{u: u, tc: tc.expr()}
	if err := e.Accept(v); err != nil {
		return nil, err
	}
	return v.form, nil
}

// optExpr translates an optional child, nil becomes None.
func (u *unit) optExpr(tc translationContext, e pyast.Expr) (*ast.Node, error) {
	if e == nil {
		return none(), nil
	}
	return u.expr(tc, e)
}

func (u *unit) exprs(tc translationContext, exprs []pyast.Expr) ([]*ast.Node, error) {
	out := make([]*ast.Node, 0, len(exprs))
	for _, e := range exprs {
		form, err := u.expr(tc, e)
		if err != nil {
			return nil, err
		}
		out = append(out, form)
	}
	return out, nil
}

// body translates statements whose values are discarded.
func (u *unit) body(tc translationContext, owner pyast.Node, stmts []pyast.Stmt) ([]*ast.Node, error) {
	if len(stmts) == 0 {
		return nil, u.malformed(tc, owner, "empty body")
	}
	tc = tc.stmt()
	out := make([]*ast.Node, 0, len(stmts))
	for _, s := range stmts {
		form, err := u.stmt(tc, s)
		if err != nil {
			return nil, err
		}
		out = append(out, form)
	}
	return out, nil
}

// tailBody translates a function body, or a branch in tail position of one,
// so that its last form is the value the function returns.
func (u *unit) tailBody(tc translationContext, owner pyast.Node, stmts []pyast.Stmt) ([]*ast.Node, error) {
	if len(stmts) == 0 {
		return nil, u.malformed(tc, owner, "empty body")
	}
	last := len(stmts) - 1

	var out []*ast.Node
	if last > 0 {
		var err error
		if out, err = u.body(tc, owner, stmts[:last]); err != nil {
			return nil, err
		}
	}

	form, err := u.stmt(tc.tail(), stmts[last])
	if err != nil {
		return nil, err
	}
	out = append(out, form)
	if !returnsValue(stmts[last]) {
		out = append(out, none())
	}
	return out, nil
}

// returnsValue reports whether a statement in tail position already
// evaluates to the function result.
func returnsValue(s pyast.Stmt) bool {
	switch s.(type) {
	case *pyast.Return, *pyast.If:
		return true
	}
	return false
}

// block wraps forms into a single form.
func block(forms []*ast.Node) *ast.Node {
	if len(forms) == 1 {
		return forms[0]
	}
	return ast.NewCall("do", forms...)
}

func none() *ast.Node {
	return ast.NewSymbol("None")
}

func symbol(name string) *ast.Node {
	return ast.NewSymbol(Mangle(name))
}

// builtin refers to a builtin function the generated code relies on. When
// the program binds the same name the builtins module is asked instead.
func (u *unit) builtin(tc translationContext, name string) *ast.Node {
	if _, ok := tc.scope.lookup(name); !ok {
		return ast.NewSymbol(name)
	}
	return ast.NewCall(".",
		ast.NewCall("__import__", ast.NewString("builtins")),
		ast.NewSymbol(name),
	)
}

// isPure reports whether evaluating e twice is indistinguishable from
// evaluating it once.
func isPure(e pyast.Expr) bool {
	switch e := e.(type) {
	case *pyast.Name:
		return e.Ctx == pyast.Load
	case *pyast.Constant:
		return true
	}
	return false
}
