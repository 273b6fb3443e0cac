package py2hy

import (
	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/pyast"
)

// comprehension translates list, set and dict comprehensions and generator
// expressions into a function applied to the first iterable:
//
//	((fn [_py2hy_iter_1]
//	   (setv _py2hy_acc_2 [])
//	   (for [x _py2hy_iter_1] (if c (.append _py2hy_acc_2 e) None))
//	   _py2hy_acc_2)
//	 xs)
//
// The first iterable is evaluated in the enclosing scope and everything else
// in the scope of the function, as Python does.
func (u *unit) comprehension(tc translationContext, n *pyast.Comprehension) (*ast.Node, error) {
	if len(n.Generators) == 0 {
		return nil, u.malformed(tc, n, "comprehension without for clause")
	}
	for _, g := range n.Generators {
		if g == nil {
			return nil, u.malformed(tc, n, "missing for clause")
		}
		if g.Async {
			return nil, u.unsupported(tc, n, "asynchronous comprehension")
		}
	}
	switch n.Kind {
	case pyast.ListComp, pyast.SetComp, pyast.GeneratorExp:
		if n.Elt == nil {
			return nil, u.malformed(tc, n, "comprehension without element")
		}
	case pyast.DictComp:
		if n.Elt == nil || n.Value == nil {
			return nil, u.malformed(tc, n, "dict comprehension without key or value")
		}
	default:
		return nil, u.malformed(tc, n, "invalid comprehension kind %v", n.Kind)
	}

	first, err := u.expr(tc, n.Generators[0].Iter)
	if err != nil {
		return nil, err
	}
	if n.Kind == pyast.GeneratorExp {
		first = ast.NewForm(u.builtin(tc, "iter"), first)
	}

	cs, ok := u.scopes[n]
	if !ok {
		return nil, u.malformed(tc, n, "comprehension was not bound")
	}
	inner := tc.enterScope(cs, &frame{
		kind:      frameComprehension,
		generator: n.Kind == pyast.GeneratorExp,
	}).expr()

	iter := u.temp("iter")

	var (
		acc  string
		init *ast.Node
	)
	switch n.Kind {
	case pyast.ListComp:
		acc, init = u.temp("acc"), ast.NewListOf()
	case pyast.SetComp:
		acc, init = u.temp("acc"), ast.NewForm(u.builtin(inner, "set"))
	case pyast.DictComp:
		acc, init = u.temp("acc"), ast.NewMapOf()
	}

	step, err := u.comprehensionStep(inner, n, acc)
	if err != nil {
		return nil, err
	}

	loop, err := u.comprehensionLoops(inner, n.Generators, ast.NewSymbol(iter), step)
	if err != nil {
		return nil, err
	}

	body := []*ast.Node{ast.NewListOf(ast.NewSymbol(iter))}
	if acc == "" {
		body = append(body, loop)
	} else {
		body = append(body,
			ast.NewCall("setv", ast.NewSymbol(acc), init),
			loop,
			ast.NewSymbol(acc),
		)
	}

	return ast.NewForm(ast.NewCall("fn", body...), first), nil
}

// comprehensionStep builds the forms run for every produced element.
func (u *unit) comprehensionStep(tc translationContext, n *pyast.Comprehension, acc string) ([]*ast.Node, error) {
	elt, err := u.expr(tc, n.Elt)
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case pyast.ListComp:
		return []*ast.Node{ast.NewCall(".append", ast.NewSymbol(acc), elt)}, nil
	case pyast.SetComp:
		return []*ast.Node{ast.NewCall(".add", ast.NewSymbol(acc), elt)}, nil
	case pyast.GeneratorExp:
		return []*ast.Node{ast.NewCall("yield", elt)}, nil
	}

	value, err := u.expr(tc, n.Value)
	if err != nil {
		return nil, err
	}

	// the key is evaluated before the value
	if isPure(n.Elt) {
		return []*ast.Node{
			ast.NewCall("setv", ast.NewCall("get", ast.NewSymbol(acc), elt), value),
		}, nil
	}
	key := u.temp("key")
	return []*ast.Node{
		ast.NewCall("setv", ast.NewSymbol(key), elt),
		ast.NewCall("setv", ast.NewCall("get", ast.NewSymbol(acc), ast.NewSymbol(key)), value),
	}, nil
}

// comprehensionLoops nests one for form per clause around step, the
// outermost one iterating over iter.
func (u *unit) comprehensionLoops(tc translationContext, gens []*pyast.CompFor, iter *ast.Node, step []*ast.Node) (*ast.Node, error) {
	g := gens[0]

	target, err := u.target(tc, g.Target, pyast.Store)
	if err != nil {
		return nil, err
	}

	inner := step
	if len(gens) > 1 {
		next, err := u.expr(tc, gens[1].Iter)
		if err != nil {
			return nil, err
		}
		loop, err := u.comprehensionLoops(tc, gens[1:], next, step)
		if err != nil {
			return nil, err
		}
		inner = []*ast.Node{loop}
	}

	for i := len(g.Ifs) - 1; i >= 0; i-- {
		test, err := u.expr(tc, g.Ifs[i])
		if err != nil {
			return nil, err
		}
		inner = []*ast.Node{ast.NewCall("if", test, block(inner), none())}
	}

	return ast.NewCall("for", append([]*ast.Node{ast.NewListOf(target, iter)}, inner...)...), nil
}
