package hyeval

import (
	"errors"
	"fmt"
)

var ErrUndefined = errors.New("undefined name")

// Env is a namespace. Function calls get a new Env whose parent is the Env
// the function was defined in; blocks never create one.
type Env struct {
	parent *Env

	vars      map[string]*Value
	globals   map[string]bool
	nonlocals map[string]bool

	gen *generator
}

// NewEnv creates a namespace. A nil parent makes a module namespace.
func NewEnv(parent *Env) *Env {
	return &Env{
		parent:    parent,
		vars:      make(map[string]*Value),
		globals:   make(map[string]bool),
		nonlocals: make(map[string]bool),
	}
}

func (env *Env) root() *Env {
	for env.parent != nil {
		env = env.parent
	}
	return env
}

// owner returns the namespace an assignment to name writes to.
func (env *Env) owner(name string) (*Env, error) {
	switch {
	case env.globals[name]:
		return env.root(), nil
	case env.nonlocals[name]:
		for cur := env.parent; cur != nil && cur.parent != nil; cur = cur.parent {
			if _, ok := cur.vars[name]; ok {
				return cur, nil
			}
		}
		return nil, fmt.Errorf("%w: no binding for nonlocal %q", ErrUndefined, name)
	}
	return env, nil
}

func (env *Env) Set(name string, value *Value) error {
	target, err := env.owner(name)
	if err != nil {
		return err
	}
	target.vars[name] = value
	return nil
}

func (env *Env) Delete(name string) error {
	target, err := env.owner(name)
	if err != nil {
		return err
	}
	if _, ok := target.vars[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUndefined, name)
	}
	delete(target.vars, name)
	return nil
}

func (env *Env) Get(name string) (*Value, error) {
	if env.globals[name] {
		env = env.root()
	}
	for cur := env; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, nil
		}
	}
	if v, ok := builtins[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUndefined, name)
}
