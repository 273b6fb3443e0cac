package hyeval

import (
	"errors"
	"fmt"

	"github.com/xiam/py2hy/ast"
)

type param struct {
	name string
	def  *Value
}

type function struct {
	name string

	positional []param
	rest       string
	kwonly     []param
	kwargs     string

	body      []*ast.Node
	env       *Env
	generator bool
}

func evalFn(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%w: fn needs a parameter list", ErrInvalidForm)
	}
	fn, err := in.function(env, "<lambda>", args[0], args[1:])
	if err != nil {
		return nil, err
	}
	return &Value{Type: ValueTypeFunction, v: fn}, nil
}

func evalDefn(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: defn needs a name and a parameter list", ErrInvalidForm)
	}
	name, ok := symbolName(args[0])
	if !ok {
		return nil, fmt.Errorf("%w: defn name must be a symbol", ErrInvalidForm)
	}
	fn, err := in.function(env, name, args[1], args[2:])
	if err != nil {
		return nil, err
	}
	return None, env.Set(name, &Value{Type: ValueTypeFunction, v: fn})
}

// function reads a lambda list. Defaults are evaluated once, when the
// function is defined.
func (in *Interpreter) function(env *Env, name string, params *ast.Node, body []*ast.Node) (*function, error) {
	if !params.Is(ast.NodeTypeList) {
		return nil, fmt.Errorf("%w: parameter list must be a list", ErrInvalidForm)
	}
	fn := &function{
		name:      name,
		body:      body,
		env:       env,
		generator: yields(body),
	}

	section := "&positional"
	for _, p := range params.List() {
		if s, ok := symbolName(p); ok && len(s) > 1 && s[0] == '&' {
			section = s
			continue
		}

		var pr param
		switch {
		case p.Is(ast.NodeTypeSymbol):
			pr.name = p.Value().(string)
		case p.Is(ast.NodeTypeList) && p.Len() == 2:
			name, ok := symbolName(p.List()[0])
			if !ok {
				return nil, fmt.Errorf("%w: parameter name must be a symbol", ErrInvalidForm)
			}
			def, err := in.eval(env, p.List()[1])
			if err != nil {
				return nil, err
			}
			pr = param{name: name, def: def}
		default:
			return nil, fmt.Errorf("%w: parameter %s", ErrInvalidForm, ast.Encode(p))
		}

		switch section {
		case "&positional", "&optional":
			fn.positional = append(fn.positional, pr)
		case "&rest":
			fn.rest = pr.name
		case "&kwonly":
			fn.kwonly = append(fn.kwonly, pr)
		case "&kwargs":
			fn.kwargs = pr.name
		default:
			return nil, fmt.Errorf("%w: lambda list keyword %s", ErrUnsupported, section)
		}
	}
	return fn, nil
}

// yields reports whether a body contains yield outside of nested functions.
func yields(body []*ast.Node) bool {
	for _, n := range body {
		if !n.Is(ast.NodeTypeExpression) && !n.Is(ast.NodeTypeList) && !n.Is(ast.NodeTypeMap) && !n.Is(ast.NodeTypeSet) {
			continue
		}
		head := n.Head()
		if head.IsSymbol("yield") || head.IsSymbol("yield-from") {
			return true
		}
		if n.Is(ast.NodeTypeExpression) && (head.IsSymbol("fn") || head.IsSymbol("defn")) {
			continue
		}
		if yields(n.List()) {
			return true
		}
	}
	return false
}

func (in *Interpreter) bindArguments(fn *function, env *Env, args []*Value, kwargs map[string]*Value) error {
	bound := make(map[string]bool)
	for i, p := range fn.positional {
		if i < len(args) {
			env.vars[p.name] = args[i]
			bound[p.name] = true
		}
	}

	var rest []*Value
	if len(args) > len(fn.positional) {
		if fn.rest == "" {
			return in.raise("TypeError", fmt.Sprintf("%s() takes %d positional arguments but %d were given", fn.name, len(fn.positional), len(args)))
		}
		rest = args[len(fn.positional):]
	}
	if fn.rest != "" {
		env.vars[fn.rest] = NewTuple(rest...)
	}

	extra := newDict()
	for _, k := range sortedKeys(kwargs) {
		known := false
		for _, p := range append(append([]param(nil), fn.positional...), fn.kwonly...) {
			if p.name == k {
				known = true
				break
			}
		}
		switch {
		case known && bound[k]:
			return in.raise("TypeError", fmt.Sprintf("%s() got multiple values for argument %q", fn.name, k))
		case known:
			env.vars[k] = kwargs[k]
			bound[k] = true
		case fn.kwargs != "":
			extra.set(NewString(k), kwargs[k])
		default:
			return in.raise("TypeError", fmt.Sprintf("%s() got an unexpected keyword argument %q", fn.name, k))
		}
	}
	if fn.kwargs != "" {
		env.vars[fn.kwargs] = newDictValue(extra)
	}

	for _, p := range append(append([]param(nil), fn.positional...), fn.kwonly...) {
		if bound[p.name] {
			continue
		}
		if p.def == nil {
			return in.raise("TypeError", fmt.Sprintf("%s() missing required argument: %q", fn.name, p.name))
		}
		env.vars[p.name] = p.def
	}
	return nil
}

func (in *Interpreter) callFunction(fn *function, args []*Value, kwargs map[string]*Value) (*Value, error) {
	env := NewEnv(fn.env)
	if err := in.bindArguments(fn, env, args, kwargs); err != nil {
		return nil, err
	}

	if fn.generator {
		g := &generator{
			resume: make(chan struct{}),
			yields: make(chan step),
		}
		env.gen = g
		go g.run(func() error {
			_, err := in.body(env, fn.body)
			return err
		})
		return &Value{Type: ValueTypeGenerator, v: g}, nil
	}

	result, err := in.body(env, fn.body)
	var ret *returnSignal
	if errors.As(err, &ret) {
		return ret.value, nil
	}
	if errors.Is(err, errBreak) || errors.Is(err, errContinue) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	return result, err
}

type step struct {
	value *Value
	err   error
	done  bool
}

// generator runs its body in a goroutine that hands over one value per
// resume. A generator that is never exhausted keeps its goroutine parked.
type generator struct {
	resume chan struct{}
	yields chan step
	done   bool
}

func (g *generator) run(body func() error) {
	<-g.resume
	err := body()
	var ret *returnSignal
	if errors.As(err, &ret) {
		err = nil
	}
	g.yields <- step{err: err, done: true}
}

// next returns the following value; ok is false once the body has finished.
func (g *generator) next() (*Value, bool, error) {
	if g.done {
		return nil, false, nil
	}
	g.resume <- struct{}{}
	s := <-g.yields
	if s.done {
		g.done = true
		return nil, false, s.err
	}
	return s.value, true, nil
}

// yield is called from the generator goroutine.
func (g *generator) yield(v *Value) error {
	g.yields <- step{value: v}
	<-g.resume
	return nil
}

func evalYield(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if env.gen == nil {
		return nil, fmt.Errorf("%w: yield outside of a function", ErrInvalidForm)
	}
	v := None
	if len(args) > 0 {
		var err error
		if v, err = in.eval(env, args[0]); err != nil {
			return nil, err
		}
	}
	return None, env.gen.yield(v)
}

func evalYieldFrom(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if env.gen == nil {
		return nil, fmt.Errorf("%w: yield-from outside of a function", ErrInvalidForm)
	}
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: yield-from takes one iterable", ErrInvalidForm)
	}
	v, err := in.eval(env, args[0])
	if err != nil {
		return nil, err
	}
	return None, in.iterate(v, env.gen.yield)
}

// methodCall runs (.name obj args...).
func (in *Interpreter) methodCall(env *Env, name string, nodes []*ast.Node) (*Value, error) {
	if len(nodes) < 1 {
		return nil, fmt.Errorf("%w: .%s needs an object", ErrInvalidForm, name)
	}
	obj, err := in.eval(env, nodes[0])
	if err != nil {
		return nil, err
	}
	args, kwargs, err := in.arguments(env, nodes[1:])
	if err != nil {
		return nil, err
	}

	if m, ok := methods[obj.Type][name]; ok {
		return m(in, obj, args, kwargs)
	}
	fn, err := in.getattr(obj, name)
	if err != nil {
		return nil, err
	}
	return in.call(fn, args, kwargs)
}
