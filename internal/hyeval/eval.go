// Package hyeval runs a subset of Hy directly from ast nodes. It exists so
// tests can check that translated programs compute what the original Python
// computes, without a Hy installation.
package hyeval

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/parser"
)

var (
	ErrInvalidForm = errors.New("invalid form")
	ErrUnsupported = errors.New("unsupported form")
)

var (
	errBreak    = errors.New("break outside loop")
	errContinue = errors.New("continue outside loop")
)

type returnSignal struct {
	value *Value
}

func (r *returnSignal) Error() string {
	return "return outside function"
}

// Raised carries a Python exception through Go error returns.
type Raised struct {
	Value *Value
}

func (r *Raised) Error() string {
	return "exception: " + r.Value.Repr()
}

// Class returns the name of the exception class.
func (r *Raised) Class() string {
	return r.Value.v.(*exception).class.name
}

type specialForm func(in *Interpreter, env *Env, args []*ast.Node) (*Value, error)

var specials map[string]specialForm

func init() {
	specials = map[string]specialForm{
		"do":             evalDo,
		"setv":           evalSetv,
		"if":             evalIf,
		"fn":             evalFn,
		"defn":           evalDefn,
		"return":         evalReturn,
		"for":            evalFor,
		"while":          evalWhile,
		"break":          evalBreak,
		"continue":       evalContinue,
		"and":            evalAnd,
		"or":             evalOr,
		"not":            evalNot,
		"yield":          evalYield,
		"yield-from":     evalYieldFrom,
		"global":         evalGlobal,
		"nonlocal":       evalNonlocal,
		"try":            evalTry,
		"raise":          evalRaise,
		".":              evalAttribute,
		"get":            evalGet,
		"cut":            evalCut,
		",":              evalTuple,
		"assert":         evalAssert,
		"with-decorator": evalWithDecorator,
		"del":            evalDel,
	}
	for op := range binaryOps {
		specials[op] = evalArithmetic(op)
		specials[op+"="] = evalAugmented(op)
	}
	for op := range comparisons {
		specials[op] = evalCompare(op)
	}
	specials["~"] = evalInvert
}

// Interpreter evaluates forms in a module namespace.
type Interpreter struct {
	globals *Env
	out     io.Writer
}

// New creates an interpreter with an empty module namespace. Output of print
// is discarded until SetOutput is called.
func New() *Interpreter {
	return &Interpreter{
		globals: NewEnv(nil),
		out:     io.Discard,
	}
}

func (in *Interpreter) SetOutput(w io.Writer) {
	in.out = w
}

// Globals returns the module namespace.
func (in *Interpreter) Globals() *Env {
	return in.globals
}

// Run evaluates a node in the module namespace. Documents are evaluated form
// by form; the value of the last one is returned.
func (in *Interpreter) Run(n *ast.Node) (*Value, error) {
	if n != nil && n.Is(ast.NodeTypeDocument) {
		return in.body(in.globals, n.List())
	}
	return in.eval(in.globals, n)
}

// RunString reads Hy source and runs it.
func (in *Interpreter) RunString(src string) (*Value, error) {
	doc, err := parser.Parse([]byte(src))
	if err != nil {
		return nil, err
	}
	return in.Run(doc)
}

func (in *Interpreter) body(env *Env, forms []*ast.Node) (*Value, error) {
	result := None
	for _, form := range forms {
		v, err := in.eval(env, form)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (in *Interpreter) eval(env *Env, n *ast.Node) (*Value, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: nil node", ErrInvalidForm)
	}

	switch n.Type() {
	case ast.NodeTypeInt:
		i := n.Value().(*big.Int)
		if !i.IsInt64() {
			return nil, fmt.Errorf("%w: integer %s does not fit 64 bits", ErrUnsupported, i)
		}
		return NewInt(i.Int64()), nil
	case ast.NodeTypeFloat:
		return NewFloat(n.Value().(float64)), nil
	case ast.NodeTypeString:
		return NewString(n.Value().(string)), nil
	case ast.NodeTypeBytes:
		return NewBytes(n.Value().([]byte)), nil
	case ast.NodeTypeSymbol:
		return in.symbol(env, n.Value().(string))
	case ast.NodeTypeList:
		items, err := in.items(env, n.List())
		if err != nil {
			return nil, err
		}
		return NewList(items...), nil
	case ast.NodeTypeSet:
		items, err := in.items(env, n.List())
		if err != nil {
			return nil, err
		}
		d := newDict()
		for _, item := range items {
			d.set(item, None)
		}
		return newSetValue(d), nil
	case ast.NodeTypeMap:
		return in.mapLiteral(env, n.List())
	case ast.NodeTypeExpression:
		return in.expression(env, n)
	case ast.NodeTypeDocument:
		return in.body(env, n.List())
	}
	return nil, fmt.Errorf("%w: %s literal", ErrUnsupported, n.Type())
}

func (in *Interpreter) symbol(env *Env, name string) (*Value, error) {
	switch name {
	case "None":
		return None, nil
	case "True":
		return True, nil
	case "False":
		return False, nil
	}
	v, err := env.Get(name)
	if err != nil {
		return nil, in.raise("NameError", err.Error())
	}
	return v, nil
}

// items evaluates the elements of a literal, expanding unpack-iterable.
func (in *Interpreter) items(env *Env, nodes []*ast.Node) ([]*Value, error) {
	out := make([]*Value, 0, len(nodes))
	for _, n := range nodes {
		if isCall(n, "unpack-iterable") {
			v, err := in.eval(env, n.List()[1])
			if err != nil {
				return nil, err
			}
			err = in.iterate(v, func(item *Value) error {
				out = append(out, item)
				return nil
			})
			if err != nil {
				return nil, err
			}
			continue
		}
		v, err := in.eval(env, n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (in *Interpreter) mapLiteral(env *Env, nodes []*ast.Node) (*Value, error) {
	d := newDict()
	for i := 0; i < len(nodes); i++ {
		if isCall(nodes[i], "unpack-mapping") {
			m, err := in.eval(env, nodes[i].List()[1])
			if err != nil {
				return nil, err
			}
			if m.Type != ValueTypeDict {
				return nil, in.raise("TypeError", "argument after ** must be a mapping")
			}
			src := m.v.(*dict)
			for _, k := range src.keys {
				v, _ := src.get(k)
				d.set(k, v)
			}
			continue
		}
		if i+1 >= len(nodes) {
			return nil, fmt.Errorf("%w: odd number of map items", ErrInvalidForm)
		}
		k, err := in.eval(env, nodes[i])
		if err != nil {
			return nil, err
		}
		v, err := in.eval(env, nodes[i+1])
		if err != nil {
			return nil, err
		}
		d.set(k, v)
		i++
	}
	return newDictValue(d), nil
}

func (in *Interpreter) expression(env *Env, n *ast.Node) (*Value, error) {
	list := n.List()
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidForm)
	}

	head := list[0]
	if head.Is(ast.NodeTypeSymbol) {
		name := head.Value().(string)
		if special, ok := specials[name]; ok {
			return special(in, env, list[1:])
		}
		if len(name) > 1 && name[0] == '.' {
			return in.methodCall(env, name[1:], list[1:])
		}
		switch name {
		case "unpack-iterable", "unpack-mapping":
			return nil, fmt.Errorf("%w: %s outside of a call or literal", ErrInvalidForm, name)
		case "import", "require", "defclass", "with", "with/a", "defn/a", "fn/a", "for/a", "await":
			return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
		}
	}

	fn, err := in.eval(env, head)
	if err != nil {
		return nil, err
	}
	args, kwargs, err := in.arguments(env, list[1:])
	if err != nil {
		return nil, err
	}
	return in.call(fn, args, kwargs)
}

// arguments evaluates call arguments from left to right.
func (in *Interpreter) arguments(env *Env, nodes []*ast.Node) ([]*Value, map[string]*Value, error) {
	var (
		args   []*Value
		kwargs = map[string]*Value{}
	)
	for i := 0; i < len(nodes); i++ {
		n := nodes[i]
		switch {
		case n.Is(ast.NodeTypeKeyword):
			if i+1 >= len(nodes) {
				return nil, nil, fmt.Errorf("%w: keyword %s without value", ErrInvalidForm, n.Encode())
			}
			v, err := in.eval(env, nodes[i+1])
			if err != nil {
				return nil, nil, err
			}
			kwargs[n.Value().(string)] = v
			i++
		case isCall(n, "unpack-mapping"):
			m, err := in.eval(env, n.List()[1])
			if err != nil {
				return nil, nil, err
			}
			if m.Type != ValueTypeDict {
				return nil, nil, in.raise("TypeError", "argument after ** must be a mapping")
			}
			d := m.v.(*dict)
			for _, k := range d.keys {
				v, _ := d.get(k)
				kwargs[k.Str()] = v
			}
		default:
			items, err := in.items(env, []*ast.Node{n})
			if err != nil {
				return nil, nil, err
			}
			args = append(args, items...)
		}
	}
	return args, kwargs, nil
}

func (in *Interpreter) call(fn *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
	switch fn.Type {
	case ValueTypeBuiltin:
		return fn.v.(Builtin)(in, args, kwargs)
	case ValueTypeFunction:
		return in.callFunction(fn.v.(*function), args, kwargs)
	case ValueTypeClass:
		return &Value{Type: ValueTypeException, v: &exception{class: fn.v.(*class), args: args}}, nil
	}
	return nil, in.raise("TypeError", fmt.Sprintf("'%s' object is not callable", fn.Type))
}

func (in *Interpreter) raise(className string, msg string) error {
	c := builtins[className].v.(*class)
	return &Raised{Value: &Value{
		Type: ValueTypeException,
		v:    &exception{class: c, args: []*Value{NewString(msg)}},
	}}
}

// iterate calls fn with every item of an iterable value.
func (in *Interpreter) iterate(v *Value, fn func(*Value) error) error {
	switch v.Type {
	case ValueTypeList, ValueTypeTuple, ValueTypeDict, ValueTypeSet:
		// a snapshot, so appending while iterating does not loop forever
		items := append([]*Value(nil), v.items()...)
		for _, item := range items {
			if err := fn(item); err != nil {
				return err
			}
		}
		return nil
	case ValueTypeString:
		for _, r := range v.Str() {
			if err := fn(NewString(string(r))); err != nil {
				return err
			}
		}
		return nil
	case ValueTypeGenerator:
		g := v.v.(*generator)
		for {
			item, ok, err := g.next()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			if err := fn(item); err != nil {
				return err
			}
		}
	}
	return in.raise("TypeError", fmt.Sprintf("'%s' object is not iterable", v.Type))
}

func isCall(n *ast.Node, head string) bool {
	return n != nil && n.Is(ast.NodeTypeExpression) && n.Len() == 2 && n.Head().IsSymbol(head)
}

func symbolName(n *ast.Node) (string, bool) {
	if n == nil || !n.Is(ast.NodeTypeSymbol) {
		return "", false
	}
	return n.Value().(string), true
}

func evalDo(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	return in.body(env, args)
}

func evalSetv(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("%w: setv needs pairs", ErrInvalidForm)
	}
	for i := 0; i < len(args); i += 2 {
		v, err := in.eval(env, args[i+1])
		if err != nil {
			return nil, err
		}
		if err := in.assign(env, args[i], v); err != nil {
			return nil, err
		}
	}
	return None, nil
}

// assign binds a value to a target form: a symbol, a tuple or list of
// targets, or a subscript.
func (in *Interpreter) assign(env *Env, target *ast.Node, v *Value) error {
	if name, ok := symbolName(target); ok {
		return env.Set(name, v)
	}

	var targets []*ast.Node
	switch {
	case target.Is(ast.NodeTypeList):
		targets = target.List()
	case target.Is(ast.NodeTypeExpression) && target.Len() > 0 && target.Head().IsSymbol(","):
		targets = target.List()[1:]
	case target.Is(ast.NodeTypeExpression) && target.Len() == 3 && target.Head().IsSymbol("get"):
		obj, err := in.eval(env, target.List()[1])
		if err != nil {
			return err
		}
		key, err := in.eval(env, target.List()[2])
		if err != nil {
			return err
		}
		return in.setItem(obj, key, v)
	default:
		return fmt.Errorf("%w: cannot assign to %s", ErrUnsupported, ast.Encode(target))
	}

	var values []*Value
	if err := in.iterate(v, func(item *Value) error {
		values = append(values, item)
		return nil
	}); err != nil {
		return err
	}

	star := -1
	for i, t := range targets {
		if isCall(t, "unpack-iterable") {
			star = i
		}
	}
	if star < 0 {
		if len(values) != len(targets) {
			return in.raise("ValueError", fmt.Sprintf("expected %d values to unpack, got %d", len(targets), len(values)))
		}
		for i, t := range targets {
			if err := in.assign(env, t, values[i]); err != nil {
				return err
			}
		}
		return nil
	}

	after := len(targets) - star - 1
	if len(values) < star+after {
		return in.raise("ValueError", "not enough values to unpack")
	}
	for i := 0; i < star; i++ {
		if err := in.assign(env, targets[i], values[i]); err != nil {
			return err
		}
	}
	rest := append([]*Value(nil), values[star:len(values)-after]...)
	if err := in.assign(env, targets[star].List()[1], NewList(rest...)); err != nil {
		return err
	}
	for i := 0; i < after; i++ {
		if err := in.assign(env, targets[star+1+i], values[len(values)-after+i]); err != nil {
			return err
		}
	}
	return nil
}

func evalIf(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: if needs a test and a branch", ErrInvalidForm)
	}
	for len(args) >= 2 {
		test, err := in.eval(env, args[0])
		if err != nil {
			return nil, err
		}
		if test.Truth() {
			return in.eval(env, args[1])
		}
		args = args[2:]
	}
	if len(args) == 1 {
		return in.eval(env, args[0])
	}
	return None, nil
}

func evalReturn(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	v := None
	if len(args) > 0 {
		var err error
		if v, err = in.eval(env, args[0]); err != nil {
			return nil, err
		}
	}
	return nil, &returnSignal{value: v}
}

// splitElse separates a trailing (else ...) clause from a loop body.
func splitElse(body []*ast.Node) ([]*ast.Node, []*ast.Node) {
	if n := len(body); n > 0 && body[n-1].Is(ast.NodeTypeExpression) && body[n-1].Len() > 0 && body[n-1].Head().IsSymbol("else") {
		return body[:n-1], body[n-1].List()[1:]
	}
	return body, nil
}

// loopBody runs one iteration and reports whether the loop has to stop.
func (in *Interpreter) loopBody(env *Env, body []*ast.Node) (bool, error) {
	_, err := in.body(env, body)
	switch {
	case err == nil, errors.Is(err, errContinue):
		return false, nil
	case errors.Is(err, errBreak):
		return true, nil
	}
	return true, err
}

var errStopLoop = errors.New("stop loop")

func evalFor(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) < 1 || !args[0].Is(ast.NodeTypeList) || args[0].Len() != 2 {
		return nil, fmt.Errorf("%w: for needs [target iterable]", ErrInvalidForm)
	}
	spec := args[0].List()
	body, orelse := splitElse(args[1:])

	iterable, err := in.eval(env, spec[1])
	if err != nil {
		return nil, err
	}

	broke := false
	err = in.iterate(iterable, func(item *Value) error {
		if err := in.assign(env, spec[0], item); err != nil {
			return err
		}
		stop, err := in.loopBody(env, body)
		if err != nil {
			return err
		}
		if stop {
			broke = true
			return errStopLoop
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopLoop) {
		return nil, err
	}
	if !broke && orelse != nil {
		if _, err := in.body(env, orelse); err != nil {
			return nil, err
		}
	}
	return None, nil
}

func evalWhile(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%w: while needs a test", ErrInvalidForm)
	}
	body, orelse := splitElse(args[1:])

	for {
		test, err := in.eval(env, args[0])
		if err != nil {
			return nil, err
		}
		if !test.Truth() {
			break
		}
		stop, err := in.loopBody(env, body)
		if err != nil {
			return nil, err
		}
		if stop {
			return None, nil
		}
	}
	if orelse != nil {
		if _, err := in.body(env, orelse); err != nil {
			return nil, err
		}
	}
	return None, nil
}

func evalBreak(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	return nil, errBreak
}

func evalContinue(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	return nil, errContinue
}

func evalAnd(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	result := True
	for _, arg := range args {
		v, err := in.eval(env, arg)
		if err != nil {
			return nil, err
		}
		if result = v; !v.Truth() {
			break
		}
	}
	return result, nil
}

func evalOr(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	result := False
	for _, arg := range args {
		v, err := in.eval(env, arg)
		if err != nil {
			return nil, err
		}
		if result = v; v.Truth() {
			break
		}
	}
	return result, nil
}

func evalNot(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: not takes one operand", ErrInvalidForm)
	}
	v, err := in.eval(env, args[0])
	if err != nil {
		return nil, err
	}
	return NewBool(!v.Truth()), nil
}

func evalGlobal(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	for _, arg := range args {
		name, ok := symbolName(arg)
		if !ok {
			return nil, fmt.Errorf("%w: global needs symbols", ErrInvalidForm)
		}
		env.globals[name] = true
	}
	return None, nil
}

func evalNonlocal(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	for _, arg := range args {
		name, ok := symbolName(arg)
		if !ok {
			return nil, fmt.Errorf("%w: nonlocal needs symbols", ErrInvalidForm)
		}
		env.nonlocals[name] = true
	}
	return None, nil
}

func evalTry(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	var body, handlers, orelse, finally []*ast.Node
	for _, arg := range args {
		switch {
		case isClause(arg, "except"):
			handlers = append(handlers, arg)
		case isClause(arg, "else"):
			orelse = arg.List()[1:]
		case isClause(arg, "finally"):
			finally = arg.List()[1:]
		default:
			body = append(body, arg)
		}
	}

	result, err := in.tryBody(env, body, handlers, orelse)
	if finally != nil {
		if _, ferr := in.body(env, finally); ferr != nil {
			return nil, ferr
		}
	}
	return result, err
}

func (in *Interpreter) tryBody(env *Env, body, handlers, orelse []*ast.Node) (*Value, error) {
	result, err := in.body(env, body)
	if err == nil {
		if orelse != nil {
			return in.body(env, orelse)
		}
		return result, nil
	}

	var raised *Raised
	if !errors.As(err, &raised) {
		return nil, err
	}
	exc := raised.Value.v.(*exception)

	for _, h := range handlers {
		list := h.List()
		if len(list) < 2 || !list[1].Is(ast.NodeTypeList) {
			return nil, fmt.Errorf("%w: except needs a binding list", ErrInvalidForm)
		}
		spec := list[1].List()

		var (
			name    string
			classes []*ast.Node
		)
		switch len(spec) {
		case 0:
		case 1:
			classes = []*ast.Node{spec[0]}
		case 2:
			name, _ = symbolName(spec[0])
			classes = []*ast.Node{spec[1]}
		default:
			return nil, fmt.Errorf("%w: except binding list too long", ErrInvalidForm)
		}
		if len(classes) == 1 && classes[0].Is(ast.NodeTypeList) {
			classes = classes[0].List()
		}

		matched := len(classes) == 0
		for _, c := range classes {
			cv, err := in.eval(env, c)
			if err != nil {
				return nil, err
			}
			if cv.Type == ValueTypeClass && exc.class.isA(cv.v.(*class)) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if name != "" {
			if err := env.Set(name, raised.Value); err != nil {
				return nil, err
			}
		}
		return in.body(env, list[2:])
	}
	return nil, err
}

func isClause(n *ast.Node, head string) bool {
	return n.Is(ast.NodeTypeExpression) && n.Len() > 0 && n.Head().IsSymbol(head)
}

func evalRaise(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("%w: bare raise", ErrUnsupported)
	}
	v, err := in.eval(env, args[0])
	if err != nil {
		return nil, err
	}
	if len(args) == 3 && args[1].Is(ast.NodeTypeKeyword) {
		if _, err := in.eval(env, args[2]); err != nil {
			return nil, err
		}
	}
	if v.Type == ValueTypeClass {
		v = &Value{Type: ValueTypeException, v: &exception{class: v.v.(*class)}}
	}
	if v.Type != ValueTypeException {
		return nil, in.raise("TypeError", "exceptions must derive from BaseException")
	}
	return nil, &Raised{Value: v}
}

func evalAssert(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) < 1 {
		return nil, fmt.Errorf("%w: assert needs a test", ErrInvalidForm)
	}
	test, err := in.eval(env, args[0])
	if err != nil {
		return nil, err
	}
	if test.Truth() {
		return None, nil
	}
	msg := ""
	if len(args) > 1 {
		m, err := in.eval(env, args[1])
		if err != nil {
			return nil, err
		}
		msg = m.String()
	}
	return nil, in.raise("AssertionError", msg)
}

func evalAttribute(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("%w: . needs an object and an attribute", ErrInvalidForm)
	}
	obj, err := in.eval(env, args[0])
	if err != nil {
		return nil, err
	}
	name, ok := symbolName(args[1])
	if !ok {
		return nil, fmt.Errorf("%w: attribute must be a symbol", ErrInvalidForm)
	}
	return in.getattr(obj, name)
}

func (in *Interpreter) getattr(obj *Value, name string) (*Value, error) {
	if obj.Type == ValueTypeModule {
		if v, ok := obj.v.(map[string]*Value)[name]; ok {
			return v, nil
		}
	}
	if obj.Type == ValueTypeException && name == "args" {
		return NewTuple(obj.v.(*exception).args...), nil
	}
	return nil, in.raise("AttributeError", fmt.Sprintf("'%s' object has no attribute %q", obj.Type, name))
}

func evalGet(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: get needs an object and a key", ErrInvalidForm)
	}
	obj, err := in.eval(env, args[0])
	if err != nil {
		return nil, err
	}
	for _, arg := range args[1:] {
		key, err := in.eval(env, arg)
		if err != nil {
			return nil, err
		}
		if obj, err = in.getItem(obj, key); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (in *Interpreter) getItem(obj, key *Value) (*Value, error) {
	switch obj.Type {
	case ValueTypeList, ValueTypeTuple:
		items := obj.items()
		i, err := in.index(key, len(items))
		if err != nil {
			return nil, err
		}
		return items[i], nil
	case ValueTypeString:
		runes := []rune(obj.Str())
		i, err := in.index(key, len(runes))
		if err != nil {
			return nil, err
		}
		return NewString(string(runes[i])), nil
	case ValueTypeDict:
		if v, ok := obj.v.(*dict).get(key); ok {
			return v, nil
		}
		return nil, in.raise("KeyError", key.Repr())
	}
	return nil, in.raise("TypeError", fmt.Sprintf("'%s' object is not subscriptable", obj.Type))
}

func (in *Interpreter) setItem(obj, key, v *Value) error {
	switch obj.Type {
	case ValueTypeList:
		l := obj.v.(*list)
		i, err := in.index(key, len(l.items))
		if err != nil {
			return err
		}
		l.items[i] = v
		return nil
	case ValueTypeDict:
		obj.v.(*dict).set(key, v)
		return nil
	}
	return in.raise("TypeError", fmt.Sprintf("'%s' object does not support item assignment", obj.Type))
}

func (in *Interpreter) index(key *Value, n int) (int, error) {
	if key.Type != ValueTypeInt && key.Type != ValueTypeBool {
		return 0, in.raise("TypeError", "indices must be integers")
	}
	i := int(key.Int())
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return 0, in.raise("IndexError", "index out of range")
	}
	return i, nil
}

func evalCut(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) < 1 || len(args) > 4 {
		return nil, fmt.Errorf("%w: cut takes one to four arguments", ErrInvalidForm)
	}
	values := make([]*Value, 0, len(args))
	for _, arg := range args {
		v, err := in.eval(env, arg)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	for len(values) < 4 {
		values = append(values, None)
	}
	obj := values[0]

	var items []*Value
	switch obj.Type {
	case ValueTypeList, ValueTypeTuple:
		items = obj.items()
	case ValueTypeString:
		for _, r := range obj.Str() {
			items = append(items, NewString(string(r)))
		}
	default:
		return nil, in.raise("TypeError", fmt.Sprintf("'%s' object is not subscriptable", obj.Type))
	}

	indices, err := in.sliceIndices(values[1], values[2], values[3], len(items))
	if err != nil {
		return nil, err
	}
	out := make([]*Value, 0, len(indices))
	for _, i := range indices {
		out = append(out, items[i])
	}

	switch obj.Type {
	case ValueTypeTuple:
		return NewTuple(out...), nil
	case ValueTypeString:
		var b strings.Builder
		for _, v := range out {
			b.WriteString(v.Str())
		}
		return NewString(b.String()), nil
	}
	return NewList(out...), nil
}

func (in *Interpreter) sliceIndices(start, stop, step *Value, n int) ([]int, error) {
	st := 1
	if step.Type != ValueTypeNone {
		st = int(step.Int())
	}
	if st == 0 {
		return nil, in.raise("ValueError", "slice step cannot be zero")
	}

	clamp := func(v *Value, def int) int {
		if v.Type == ValueTypeNone {
			return def
		}
		i := int(v.Int())
		if i < 0 {
			i += n
		}
		lo, hi := 0, n
		if st < 0 {
			lo, hi = -1, n-1
		}
		if i < lo {
			i = lo
		}
		if i > hi {
			i = hi
		}
		return i
	}

	var out []int
	if st > 0 {
		for i := clamp(start, 0); i < clamp(stop, n); i += st {
			out = append(out, i)
		}
		return out, nil
	}
	for i := clamp(start, n-1); i > clamp(stop, -1); i += st {
		out = append(out, i)
	}
	return out, nil
}

func evalTuple(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	items, err := in.items(env, args)
	if err != nil {
		return nil, err
	}
	return NewTuple(items...), nil
}

func evalWithDecorator(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) < 2 {
		return nil, fmt.Errorf("%w: with-decorator needs a definition", ErrInvalidForm)
	}
	decorators := make([]*Value, 0, len(args)-1)
	for _, arg := range args[:len(args)-1] {
		d, err := in.eval(env, arg)
		if err != nil {
			return nil, err
		}
		decorators = append(decorators, d)
	}

	def := args[len(args)-1]
	if !isClause(def, "defn") || def.Len() < 2 {
		return nil, fmt.Errorf("%w: with-decorator only supports defn", ErrUnsupported)
	}
	name, _ := symbolName(def.List()[1])
	if _, err := in.eval(env, def); err != nil {
		return nil, err
	}

	fn, err := env.Get(name)
	if err != nil {
		return nil, err
	}
	for i := len(decorators) - 1; i >= 0; i-- {
		if fn, err = in.call(decorators[i], []*Value{fn}, nil); err != nil {
			return nil, err
		}
	}
	return None, env.Set(name, fn)
}

func evalDel(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	for _, arg := range args {
		if name, ok := symbolName(arg); ok {
			if err := env.Delete(name); err != nil {
				return nil, in.raise("NameError", err.Error())
			}
			continue
		}
		if !isClause(arg, "get") || arg.Len() != 3 {
			return nil, fmt.Errorf("%w: cannot delete %s", ErrUnsupported, ast.Encode(arg))
		}
		obj, err := in.eval(env, arg.List()[1])
		if err != nil {
			return nil, err
		}
		key, err := in.eval(env, arg.List()[2])
		if err != nil {
			return nil, err
		}
		switch obj.Type {
		case ValueTypeDict:
			d := obj.v.(*dict)
			if !d.has(key) {
				return nil, in.raise("KeyError", key.Repr())
			}
			rebuilt := newDict()
			for _, k := range d.keys {
				if k.hashKey() != key.hashKey() {
					v, _ := d.get(k)
					rebuilt.set(k, v)
				}
			}
			*d = *rebuilt
		case ValueTypeList:
			l := obj.v.(*list)
			i, err := in.index(key, len(l.items))
			if err != nil {
				return nil, err
			}
			l.items = append(l.items[:i], l.items[i+1:]...)
		default:
			return nil, in.raise("TypeError", "object does not support item deletion")
		}
	}
	return None, nil
}
