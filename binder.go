package py2hy

import (
	"strings"

	"github.com/xiam/py2hy/pyast"
)

// binder walks a module once and builds the scope of every function, class,
// lambda and comprehension before anything is translated.
type binder struct {
	u      *unit
	scopes map[pyast.Node]*scope
	all    []*scope
}

func (u *unit) bind(mod *pyast.Module) (*scope, error) {
	b := &binder{
		u:      u,
		scopes: make(map[pyast.Node]*scope),
	}

	root := b.newScope(mod, nil, scopeModule, mod.Filename)
	for _, s := range mod.Body {
		b.walk(root, s)
	}

	if err := b.checkNonlocals(); err != nil {
		return nil, err
	}

	u.scopes = b.scopes
	return root, nil
}

func (b *binder) newScope(n pyast.Node, parent *scope, kind scopeKind, name string) *scope {
	s := newScope(parent, kind, name)
	b.scopes[n] = s
	b.all = append(b.all, s)
	return s
}

func (b *binder) walkAll(s *scope, nodes []pyast.Node) {
	for _, n := range nodes {
		b.walk(s, n)
	}
}

func (b *binder) walkExprs(s *scope, exprs ...pyast.Expr) {
	for _, e := range exprs {
		if e != nil {
			b.walk(s, e)
		}
	}
}

// walkDefaults visits what a signature evaluates in the enclosing scope.
func (b *binder) walkDefaults(s *scope, args *pyast.Arguments) {
	if args == nil {
		return
	}
	b.walkExprs(s, args.Defaults...)
	b.walkExprs(s, args.KwDefaults...)
	for _, a := range signature(args) {
		b.walkExprs(s, a.Annotation)
	}
}

func (b *binder) walk(s *scope, n pyast.Node) {
	switch n := n.(type) {
	case nil:
		return

	case *pyast.FunctionDef:
		s.bind(n.Name)
		b.walkExprs(s, n.Decorators...)
		b.walkDefaults(s, n.Args)
		b.walkExprs(s, n.Returns)

		fs := b.newScope(n, s, scopeFunction, n.Name)
		bindParams(fs, n.Args)
		for _, stmt := range n.Body {
			b.walk(fs, stmt)
		}
		fs.generator = containsYield(stmtNodes(n.Body))

	case *pyast.Lambda:
		b.walkDefaults(s, n.Args)

		fs := b.newScope(n, s, scopeFunction, "lambda")
		bindParams(fs, n.Args)
		b.walkExprs(fs, n.Body)
		if n.Body != nil {
			fs.generator = containsYield([]pyast.Node{n.Body})
		}

	case *pyast.ClassDef:
		s.bind(n.Name)
		b.walkExprs(s, n.Decorators...)
		b.walkExprs(s, n.Bases...)
		for _, kw := range n.Keywords {
			if kw != nil {
				b.walkExprs(s, kw.Value)
			}
		}

		cs := b.newScope(n, s, scopeClass, n.Name)
		for _, stmt := range n.Body {
			b.walk(cs, stmt)
		}

	case *pyast.Comprehension:
		if len(n.Generators) > 0 && n.Generators[0] != nil {
			b.walkExprs(s, n.Generators[0].Iter)
		}

		cs := b.newScope(n, s, scopeComprehension, n.Kind.String())
		for i, g := range n.Generators {
			if g == nil {
				continue
			}
			b.walkExprs(cs, g.Target)
			if i > 0 {
				b.walkExprs(cs, g.Iter)
			}
			b.walkExprs(cs, g.Ifs...)
		}
		b.walkExprs(cs, n.Elt, n.Value)

	case *pyast.Name:
		if n.Ctx == pyast.Store || n.Ctx == pyast.Del {
			s.bind(n.ID)
		}

	case *pyast.NamedExpr:
		owner := s
		for owner.kind == scopeComprehension && owner.parent != nil {
			owner = owner.parent
		}
		if n.Target != nil {
			owner.bind(n.Target.ID)
		}
		b.walkExprs(s, n.Value)

	case *pyast.Import:
		for _, a := range n.Names {
			if a != nil {
				s.bind(importBinding(a))
			}
		}

	case *pyast.ImportFrom:
		for _, a := range n.Names {
			if a != nil && a.Name != "*" {
				s.bind(importBinding(a))
			}
		}

	case *pyast.Global:
		for _, name := range n.Names {
			s.declare(name, bindGlobal, n)
		}

	case *pyast.Nonlocal:
		for _, name := range n.Names {
			s.declare(name, bindNonlocal, n)
		}

	case *pyast.ExceptHandler:
		if n.Name != "" {
			s.bind(n.Name)
		}
		b.walkAll(s, n.Children())

	default:
		b.walkAll(s, n.Children())
	}
}

func (b *binder) checkNonlocals() error {
	for _, s := range b.all {
		for _, nl := range s.nonlocals {
			if s.kind == scopeModule {
				return b.u.fail(ErrMalformedInput, nl.decl, pyast.Pos{}, "nonlocal declaration at module level")
			}
			if _, ok := s.enclosingBinding(nl.name); !ok {
				return b.u.fail(ErrMalformedInput, nl.decl, pyast.Pos{}, "no binding for nonlocal %q", nl.name)
			}
		}
	}
	return nil
}

func bindParams(s *scope, args *pyast.Arguments) {
	for _, a := range signature(args) {
		s.bind(a.Name)
	}
}

// signature lists every parameter of args in declaration order.
func signature(args *pyast.Arguments) []*pyast.Arg {
	if args == nil {
		return nil
	}
	var out []*pyast.Arg
	add := func(list ...*pyast.Arg) {
		for _, a := range list {
			if a != nil {
				out = append(out, a)
			}
		}
	}
	add(args.PosOnly...)
	add(args.Args...)
	add(args.Vararg)
	add(args.KwOnly...)
	add(args.Kwarg)
	return out
}

// importBinding is the name an import alias binds in the importing scope.
func importBinding(a *pyast.Alias) string {
	if a.AsName != "" {
		return a.AsName
	}
	if i := strings.IndexByte(a.Name, '.'); i >= 0 {
		return a.Name[:i]
	}
	return a.Name
}

// containsYield reports whether a yield appears in nodes outside of any
// nested scope.
func containsYield(nodes []pyast.Node) bool {
	found := false
	for _, n := range nodes {
		pyast.Inspect(n, func(n pyast.Node) bool {
			if found {
				return false
			}
			switch n.(type) {
			case *pyast.Yield, *pyast.YieldFrom:
				found = true
				return false
			case *pyast.FunctionDef, *pyast.ClassDef, *pyast.Lambda, *pyast.Comprehension:
				return false
			}
			return true
		})
	}
	return found
}

func stmtNodes(stmts []pyast.Stmt) []pyast.Node {
	out := make([]pyast.Node, 0, len(stmts))
	for _, s := range stmts {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
