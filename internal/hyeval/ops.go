package hyeval

import (
	"fmt"
	"math"
	"strings"

	"github.com/xiam/py2hy/ast"
)

type binaryOp func(in *Interpreter, a, b *Value) (*Value, error)

var binaryOps = map[string]binaryOp{
	"+":  add,
	"-":  numeric("-", func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b }),
	"*":  multiply,
	"/":  divide,
	"//": floorDivide,
	"%":  modulo,
	"**": power,
	"@":  matmul,
	"<<": integer("<<", func(a, b int64) int64 { return a << uint64(b) }),
	">>": integer(">>", func(a, b int64) int64 { return a >> uint64(b) }),
	"&":  integer("&", func(a, b int64) int64 { return a & b }),
	"|":  bitOr,
	"^":  integer("^", func(a, b int64) int64 { return a ^ b }),
}

type comparison func(in *Interpreter, a, b *Value) (bool, error)

var comparisons = map[string]comparison{
	"=":      func(in *Interpreter, a, b *Value) (bool, error) { return equal(a, b), nil },
	"!=":     func(in *Interpreter, a, b *Value) (bool, error) { return !equal(a, b), nil },
	"<":      ordered("<", func(c int) bool { return c < 0 }),
	"<=":     ordered("<=", func(c int) bool { return c <= 0 }),
	">":      ordered(">", func(c int) bool { return c > 0 }),
	">=":     ordered(">=", func(c int) bool { return c >= 0 }),
	"is":     func(in *Interpreter, a, b *Value) (bool, error) { return identical(a, b), nil },
	"is-not": func(in *Interpreter, a, b *Value) (bool, error) { return !identical(a, b), nil },
	"in":     contains,
	"not-in": func(in *Interpreter, a, b *Value) (bool, error) {
		ok, err := contains(in, a, b)
		return !ok, err
	},
}

func isNumber(v *Value) bool {
	return v.Type == ValueTypeInt || v.Type == ValueTypeBool || v.Type == ValueTypeFloat
}

func unsupportedOperands(in *Interpreter, op string, a, b *Value) error {
	return in.raise("TypeError", fmt.Sprintf("unsupported operand type(s) for %s: '%s' and '%s'", op, a.Type, b.Type))
}

func numeric(op string, fi func(a, b int64) int64, ff func(a, b float64) float64) binaryOp {
	return func(in *Interpreter, a, b *Value) (*Value, error) {
		if !isNumber(a) || !isNumber(b) {
			return nil, unsupportedOperands(in, op, a, b)
		}
		if a.Type == ValueTypeFloat || b.Type == ValueTypeFloat {
			return NewFloat(ff(a.Float64(), b.Float64())), nil
		}
		return NewInt(fi(a.Int(), b.Int())), nil
	}
}

func integer(op string, fi func(a, b int64) int64) binaryOp {
	return func(in *Interpreter, a, b *Value) (*Value, error) {
		if a.Type == ValueTypeFloat || b.Type == ValueTypeFloat || !isNumber(a) || !isNumber(b) {
			return nil, unsupportedOperands(in, op, a, b)
		}
		return NewInt(fi(a.Int(), b.Int())), nil
	}
}

func add(in *Interpreter, a, b *Value) (*Value, error) {
	switch {
	case a.Type == ValueTypeString && b.Type == ValueTypeString:
		return NewString(a.Str() + b.Str()), nil
	case a.Type == ValueTypeList && b.Type == ValueTypeList:
		items := append(append([]*Value(nil), a.items()...), b.items()...)
		return NewList(items...), nil
	case a.Type == ValueTypeTuple && b.Type == ValueTypeTuple:
		items := append(append([]*Value(nil), a.items()...), b.items()...)
		return NewTuple(items...), nil
	}
	return numeric("+", func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })(in, a, b)
}

func multiply(in *Interpreter, a, b *Value) (*Value, error) {
	if b.Type == ValueTypeString || b.Type == ValueTypeList || b.Type == ValueTypeTuple {
		a, b = b, a
	}
	if b.Type == ValueTypeInt || b.Type == ValueTypeBool {
		n := int(b.Int())
		switch a.Type {
		case ValueTypeString:
			if n < 0 {
				n = 0
			}
			return NewString(strings.Repeat(a.Str(), n)), nil
		case ValueTypeList, ValueTypeTuple:
			var items []*Value
			for i := 0; i < n; i++ {
				items = append(items, a.items()...)
			}
			if a.Type == ValueTypeTuple {
				return NewTuple(items...), nil
			}
			return NewList(items...), nil
		}
	}
	return numeric("*", func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })(in, a, b)
}

func divide(in *Interpreter, a, b *Value) (*Value, error) {
	if !isNumber(a) || !isNumber(b) {
		return nil, unsupportedOperands(in, "/", a, b)
	}
	if b.Float64() == 0 {
		return nil, in.raise("ZeroDivisionError", "division by zero")
	}
	return NewFloat(a.Float64() / b.Float64()), nil
}

func floorDivide(in *Interpreter, a, b *Value) (*Value, error) {
	if !isNumber(a) || !isNumber(b) {
		return nil, unsupportedOperands(in, "//", a, b)
	}
	if b.Float64() == 0 {
		return nil, in.raise("ZeroDivisionError", "integer division or modulo by zero")
	}
	if a.Type == ValueTypeFloat || b.Type == ValueTypeFloat {
		return NewFloat(math.Floor(a.Float64() / b.Float64())), nil
	}
	x, y := a.Int(), b.Int()
	q := x / y
	if (x%y != 0) && ((x < 0) != (y < 0)) {
		q--
	}
	return NewInt(q), nil
}

func modulo(in *Interpreter, a, b *Value) (*Value, error) {
	if !isNumber(a) || !isNumber(b) {
		return nil, unsupportedOperands(in, "%", a, b)
	}
	if b.Float64() == 0 {
		return nil, in.raise("ZeroDivisionError", "integer division or modulo by zero")
	}
	if a.Type == ValueTypeFloat || b.Type == ValueTypeFloat {
		x, y := a.Float64(), b.Float64()
		return NewFloat(x - math.Floor(x/y)*y), nil
	}
	x, y := a.Int(), b.Int()
	r := x % y
	if r != 0 && ((r < 0) != (y < 0)) {
		r += y
	}
	return NewInt(r), nil
}

func power(in *Interpreter, a, b *Value) (*Value, error) {
	if !isNumber(a) || !isNumber(b) {
		return nil, unsupportedOperands(in, "**", a, b)
	}
	if a.Type == ValueTypeFloat || b.Type == ValueTypeFloat || b.Int() < 0 {
		return NewFloat(math.Pow(a.Float64(), b.Float64())), nil
	}
	result, base := int64(1), a.Int()
	for e := b.Int(); e > 0; e >>= 1 {
		if e&1 == 1 {
			result *= base
		}
		base *= base
	}
	return NewInt(result), nil
}

func matmul(in *Interpreter, a, b *Value) (*Value, error) {
	return nil, unsupportedOperands(in, "@", a, b)
}

func bitOr(in *Interpreter, a, b *Value) (*Value, error) {
	if a.Type == ValueTypeDict && b.Type == ValueTypeDict {
		d := newDict()
		for _, src := range []*dict{a.v.(*dict), b.v.(*dict)} {
			for _, k := range src.keys {
				v, _ := src.get(k)
				d.set(k, v)
			}
		}
		return newDictValue(d), nil
	}
	if a.Type == ValueTypeSet && b.Type == ValueTypeSet {
		d := newDict()
		for _, k := range append(append([]*Value(nil), a.items()...), b.items()...) {
			d.set(k, None)
		}
		return newSetValue(d), nil
	}
	return integer("|", func(a, b int64) int64 { return a | b })(in, a, b)
}

func equal(a, b *Value) bool {
	if isNumber(a) && isNumber(b) {
		if a.Type == ValueTypeFloat || b.Type == ValueTypeFloat {
			return a.Float64() == b.Float64()
		}
		return a.Int() == b.Int()
	}
	if a.Type != b.Type {
		return false
	}
	switch a.Type {
	case ValueTypeNone:
		return true
	case ValueTypeString, ValueTypeBytes:
		return a.Str() == b.Str()
	case ValueTypeList, ValueTypeTuple:
		x, y := a.items(), b.items()
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case ValueTypeSet:
		x, y := a.v.(*dict), b.v.(*dict)
		if len(x.keys) != len(y.keys) {
			return false
		}
		for _, k := range x.keys {
			if !y.has(k) {
				return false
			}
		}
		return true
	case ValueTypeDict:
		x, y := a.v.(*dict), b.v.(*dict)
		if len(x.keys) != len(y.keys) {
			return false
		}
		for _, k := range x.keys {
			xv, _ := x.get(k)
			yv, ok := y.get(k)
			if !ok || !equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return a == b
}

func identical(a, b *Value) bool {
	if a == b {
		return true
	}
	// None, True and False are singletons.
	switch a.Type {
	case ValueTypeNone:
		return b.Type == ValueTypeNone
	case ValueTypeBool:
		return b.Type == ValueTypeBool && a.v == b.v
	}
	return false
}

// compare returns -1, 0 or 1.
func compare(in *Interpreter, op string, a, b *Value) (int, error) {
	switch {
	case isNumber(a) && isNumber(b):
		if a.Type != ValueTypeFloat && b.Type != ValueTypeFloat {
			switch {
			case a.Int() < b.Int():
				return -1, nil
			case a.Int() > b.Int():
				return 1, nil
			}
			return 0, nil
		}
		x, y := a.Float64(), b.Float64()
		switch {
		case x < y:
			return -1, nil
		case x > y:
			return 1, nil
		}
		return 0, nil
	case a.Type == ValueTypeString && b.Type == ValueTypeString:
		return strings.Compare(a.Str(), b.Str()), nil
	case (a.Type == ValueTypeList || a.Type == ValueTypeTuple) && a.Type == b.Type:
		x, y := a.items(), b.items()
		for i := 0; i < len(x) && i < len(y); i++ {
			if equal(x[i], y[i]) {
				continue
			}
			return compare(in, op, x[i], y[i])
		}
		switch {
		case len(x) < len(y):
			return -1, nil
		case len(x) > len(y):
			return 1, nil
		}
		return 0, nil
	}
	return 0, in.raise("TypeError", fmt.Sprintf("'%s' not supported between instances of '%s' and '%s'", op, a.Type, b.Type))
}

func ordered(op string, ok func(int) bool) comparison {
	return func(in *Interpreter, a, b *Value) (bool, error) {
		if (a.Type == ValueTypeFloat && math.IsNaN(a.Float64())) || (b.Type == ValueTypeFloat && math.IsNaN(b.Float64())) {
			return false, nil
		}
		c, err := compare(in, op, a, b)
		if err != nil {
			return false, err
		}
		return ok(c), nil
	}
}

func contains(in *Interpreter, item, container *Value) (bool, error) {
	switch container.Type {
	case ValueTypeString:
		if item.Type != ValueTypeString {
			return false, in.raise("TypeError", "'in <string>' requires string as left operand")
		}
		return strings.Contains(container.Str(), item.Str()), nil
	case ValueTypeDict, ValueTypeSet:
		return container.v.(*dict).has(item), nil
	case ValueTypeList, ValueTypeTuple:
		for _, v := range container.items() {
			if identical(v, item) || equal(v, item) {
				return true, nil
			}
		}
		return false, nil
	}
	found := false
	err := in.iterate(container, func(v *Value) error {
		if equal(v, item) {
			found = true
			return errStopLoop
		}
		return nil
	})
	if err != nil && err != errStopLoop {
		return false, err
	}
	return found, nil
}

func evalArithmetic(op string) specialForm {
	fn := binaryOps[op]
	return func(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
		values, err := in.items(env, args)
		if err != nil {
			return nil, err
		}
		switch len(values) {
		case 0:
			return nil, fmt.Errorf("%w: %s needs operands", ErrInvalidForm, op)
		case 1:
			return unary(in, op, values[0])
		}
		result := values[0]
		for _, v := range values[1:] {
			if result, err = fn(in, result, v); err != nil {
				return nil, err
			}
		}
		return result, nil
	}
}

func unary(in *Interpreter, op string, v *Value) (*Value, error) {
	if !isNumber(v) {
		return nil, in.raise("TypeError", fmt.Sprintf("bad operand type for unary %s: '%s'", op, v.Type))
	}
	switch op {
	case "+":
		if v.Type == ValueTypeBool {
			return NewInt(v.Int()), nil
		}
		return v, nil
	case "-":
		if v.Type == ValueTypeFloat {
			return NewFloat(-v.Float64()), nil
		}
		return NewInt(-v.Int()), nil
	}
	return nil, fmt.Errorf("%w: %s takes two operands", ErrInvalidForm, op)
}

func evalInvert(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("%w: ~ takes one operand", ErrInvalidForm)
	}
	v, err := in.eval(env, args[0])
	if err != nil {
		return nil, err
	}
	if v.Type != ValueTypeInt && v.Type != ValueTypeBool {
		return nil, in.raise("TypeError", fmt.Sprintf("bad operand type for unary ~: '%s'", v.Type))
	}
	return NewInt(^v.Int()), nil
}

// evalAugmented runs (op= target value). Lists are extended in place, like
// Python's +=.
func evalAugmented(op string) specialForm {
	fn := binaryOps[op]
	return func(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
		if len(args) != 2 {
			return nil, fmt.Errorf("%w: %s= takes a target and a value", ErrInvalidForm, op)
		}
		current, err := in.eval(env, args[0])
		if err != nil {
			return nil, err
		}
		v, err := in.eval(env, args[1])
		if err != nil {
			return nil, err
		}
		if op == "+" && current.Type == ValueTypeList {
			l := current.v.(*list)
			if err := in.iterate(v, func(item *Value) error {
				l.items = append(l.items, item)
				return nil
			}); err != nil {
				return nil, err
			}
			return None, nil
		}
		result, err := fn(in, current, v)
		if err != nil {
			return nil, err
		}
		return None, in.assign(env, args[0], result)
	}
}

// evalCompare evaluates operands from left to right and stops at the first
// comparison that does not hold.
func evalCompare(op string) specialForm {
	fn := comparisons[op]
	return func(in *Interpreter, env *Env, args []*ast.Node) (*Value, error) {
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: %s needs operands", ErrInvalidForm, op)
		}
		left, err := in.eval(env, args[0])
		if err != nil {
			return nil, err
		}
		for _, arg := range args[1:] {
			right, err := in.eval(env, arg)
			if err != nil {
				return nil, err
			}
			ok, err := fn(in, left, right)
			if err != nil {
				return nil, err
			}
			if !ok {
				return False, nil
			}
			left = right
		}
		return True, nil
	}
}
