package py2hy

import (
	"github.com/xiam/py2hy/pyast"
)

type scopeKind uint8

const (
	scopeModule scopeKind = iota
	scopeClass
	scopeFunction
	scopeComprehension
)

var scopeKindName = map[scopeKind]string{
	scopeModule:        "module",
	scopeClass:         "class",
	scopeFunction:      "function",
	scopeComprehension: "comprehension",
}

func (k scopeKind) String() string {
	return scopeKindName[k]
}

type nonlocalDecl struct {
	name string
	decl pyast.Node
}

type bindingKind uint8

const (
	bindLocal bindingKind = iota
	bindGlobal
	bindNonlocal
)

// scope is the symbol table of one Python namespace. It is filled by the
// binder before any form of its body is translated and only read afterwards.
type scope struct {
	parent *scope
	kind   scopeKind
	name   string

	names     map[string]bindingKind
	nonlocals []nonlocalDecl

	generator bool
}

func newScope(parent *scope, kind scopeKind, name string) *scope {
	return &scope{
		parent: parent,
		kind:   kind,
		name:   name,
		names:  make(map[string]bindingKind),
	}
}

// bind records an assignment. Names already declared global or nonlocal
// keep their declaration.
func (s *scope) bind(name string) {
	if _, ok := s.names[name]; !ok {
		s.names[name] = bindLocal
	}
}

func (s *scope) declare(name string, kind bindingKind, decl pyast.Node) {
	if kind == bindNonlocal {
		s.nonlocals = append(s.nonlocals, nonlocalDecl{name: name, decl: decl})
	}
	if s.kind == scopeModule {
		s.bind(name)
		return
	}
	s.names[name] = kind
}

// binding returns how name is bound in this very scope.
func (s *scope) binding(name string) (bindingKind, bool) {
	kind, ok := s.names[name]
	return kind, ok
}

func (s *scope) module() *scope {
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// lookup resolves a name read in this scope. It returns the scope owning the
// binding, or false when the name falls through to the builtins. Class
// scopes are only visible from their own body.
func (s *scope) lookup(name string) (*scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.kind == scopeClass && cur != s {
			continue
		}
		kind, ok := cur.names[name]
		if !ok {
			continue
		}
		switch kind {
		case bindGlobal:
			return cur.module(), true
		case bindNonlocal:
			continue
		}
		return cur, true
	}
	return nil, false
}

// enclosingBinding finds the function scope a nonlocal declaration refers to.
func (s *scope) enclosingBinding(name string) (*scope, bool) {
	for cur := s.parent; cur != nil; cur = cur.parent {
		switch cur.kind {
		case scopeModule:
			return nil, false
		case scopeClass:
			continue
		}
		kind, ok := cur.names[name]
		if !ok {
			continue
		}
		switch kind {
		case bindLocal:
			return cur, true
		case bindGlobal:
			return nil, false
		}
	}
	return nil, false
}
