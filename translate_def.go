package py2hy

import (
	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/pyast"
)

func (u *unit) functionDef(tc translationContext, n *pyast.FunctionDef) (*ast.Node, error) {
	decorators, err := u.exprs(tc, n.Decorators)
	if err != nil {
		return nil, err
	}

	params, err := u.lambdaList(tc, n, n.Args)
	if err != nil {
		return nil, err
	}

	fs, ok := u.scopes[n]
	if !ok {
		return nil, u.malformed(tc, n, "function was not bound")
	}
	inner := tc.enterScope(fs, &frame{
		kind:      frameDef,
		async:     n.Async,
		generator: fs.generator,
	})

	body, err := u.tailBody(inner, n, n.Body)
	if err != nil {
		return nil, err
	}

	head := "defn"
	if n.Async {
		head = "defn/a"
	}
	form := ast.NewCall(head, append([]*ast.Node{symbol(n.Name), params}, body...)...)
	return decorate(decorators, form), nil
}

func (u *unit) classDef(tc translationContext, n *pyast.ClassDef) (*ast.Node, error) {
	if len(n.Keywords) > 0 {
		return nil, u.unsupported(tc, n, "class keywords such as metaclass")
	}

	decorators, err := u.exprs(tc, n.Decorators)
	if err != nil {
		return nil, err
	}

	bases := make([]*ast.Node, 0, len(n.Bases))
	for _, b := range n.Bases {
		if _, ok := b.(*pyast.Starred); ok {
			return nil, u.unsupported(tc, n, "starred base class")
		}
		form, err := u.expr(tc, b)
		if err != nil {
			return nil, err
		}
		bases = append(bases, form)
	}

	cs, ok := u.scopes[n]
	if !ok {
		return nil, u.malformed(tc, n, "class was not bound")
	}
	body, err := u.body(tc.enterScope(cs, nil), n, n.Body)
	if err != nil {
		return nil, err
	}

	// defclass reads a leading docstring and then a leading bracketed list as
	// attribute bindings, so a list expression there is pushed back
	i := 0
	if body[0].Is(ast.NodeTypeString) {
		i = 1
	}
	if i < len(body) && body[i].Is(ast.NodeTypeList) {
		body = append(body[:i], append([]*ast.Node{none()}, body[i:]...)...)
	}

	form := ast.NewCall("defclass", append([]*ast.Node{symbol(n.Name), ast.NewListOf(bases...)}, body...)...)
	return decorate(decorators, form), nil
}

func decorate(decorators []*ast.Node, form *ast.Node) *ast.Node {
	if len(decorators) == 0 {
		return form
	}
	return ast.NewCall("with-decorator", append(decorators, form)...)
}

func (u *unit) lambda(tc translationContext, n *pyast.Lambda) (*ast.Node, error) {
	params, err := u.lambdaList(tc, n, n.Args)
	if err != nil {
		return nil, err
	}

	fs, ok := u.scopes[n]
	if !ok {
		return nil, u.malformed(tc, n, "lambda was not bound")
	}
	inner := tc.enterScope(fs, &frame{
		kind:      frameLambda,
		generator: fs.generator,
	})

	body, err := u.expr(inner, n.Body)
	if err != nil {
		return nil, err
	}
	return ast.NewCall("fn", params, body), nil
}

// lambdaList builds the parameter vector of defn and fn. Defaults are
// evaluated in the enclosing context.
func (u *unit) lambdaList(tc translationContext, owner pyast.Node, args *pyast.Arguments) (*ast.Node, error) {
	if args == nil {
		return ast.NewListOf(), nil
	}
	if len(args.PosOnly) > 0 {
		return nil, u.unsupported(tc, owner, "positional-only parameters")
	}
	if len(args.Defaults) > len(args.Args) {
		return nil, u.malformed(tc, owner, "%d defaults for %d parameters", len(args.Defaults), len(args.Args))
	}
	if len(args.KwDefaults) != len(args.KwOnly) {
		return nil, u.malformed(tc, owner, "%d keyword defaults for %d keyword-only parameters", len(args.KwDefaults), len(args.KwOnly))
	}
	for _, a := range signature(args) {
		if a.Name == "" {
			return nil, u.malformed(tc, owner, "parameter without name")
		}
	}

	var params []*ast.Node

	required := len(args.Args) - len(args.Defaults)
	for i, a := range args.Args {
		if a == nil {
			return nil, u.malformed(tc, owner, "missing parameter")
		}
		if i < required {
			params = append(params, symbol(a.Name))
			continue
		}
		if i == required {
			params = append(params, ast.NewSymbol("&optional"))
		}
		def, err := u.expr(tc, args.Defaults[i-required])
		if err != nil {
			return nil, err
		}
		params = append(params, ast.NewListOf(symbol(a.Name), def))
	}

	if args.Vararg != nil {
		params = append(params, ast.NewSymbol("&rest"), symbol(args.Vararg.Name))
	}

	if len(args.KwOnly) > 0 {
		params = append(params, ast.NewSymbol("&kwonly"))
		for i, a := range args.KwOnly {
			if a == nil {
				return nil, u.malformed(tc, owner, "missing keyword-only parameter")
			}
			if args.KwDefaults[i] == nil {
				params = append(params, symbol(a.Name))
				continue
			}
			def, err := u.expr(tc, args.KwDefaults[i])
			if err != nil {
				return nil, err
			}
			params = append(params, ast.NewListOf(symbol(a.Name), def))
		}
	}

	if args.Kwarg != nil {
		params = append(params, ast.NewSymbol("&kwargs"), symbol(args.Kwarg.Name))
	}

	return ast.NewListOf(params...), nil
}
