package hyeval

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

var builtins = map[string]*Value{}

// Defn registers a builtin function visible from every interpreter.
func Defn(name string, fn Builtin) {
	builtins[name] = newBuiltin(name, fn)
}

func defclass(name string, parent string) {
	c := &class{name: name}
	if parent != "" {
		c.parent = builtins[parent].v.(*class)
	}
	builtins[name] = &Value{Type: ValueTypeClass, name: name, v: c}
}

func init() {
	defclass("BaseException", "")
	defclass("Exception", "BaseException")
	defclass("StopIteration", "Exception")
	defclass("ArithmeticError", "Exception")
	defclass("ZeroDivisionError", "ArithmeticError")
	defclass("OverflowError", "ArithmeticError")
	defclass("AssertionError", "Exception")
	defclass("AttributeError", "Exception")
	defclass("LookupError", "Exception")
	defclass("IndexError", "LookupError")
	defclass("KeyError", "LookupError")
	defclass("NameError", "Exception")
	defclass("RuntimeError", "Exception")
	defclass("NotImplementedError", "RuntimeError")
	defclass("TypeError", "Exception")
	defclass("ValueError", "Exception")

	Defn("print", builtinPrint)
	Defn("len", builtinLen)
	Defn("range", builtinRange)
	Defn("str", func(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
		if len(args) == 0 {
			return NewString(""), nil
		}
		return NewString(args[0].String()), nil
	})
	Defn("repr", unaryBuiltin("repr", func(in *Interpreter, v *Value) (*Value, error) {
		return NewString(v.Repr()), nil
	}))
	Defn("ascii", unaryBuiltin("ascii", func(in *Interpreter, v *Value) (*Value, error) {
		return NewString(asciiEscape(v.Repr())), nil
	}))
	Defn("format", builtinFormat)
	Defn("iter", unaryBuiltin("iter", func(in *Interpreter, v *Value) (*Value, error) {
		return in.iterator(v)
	}))
	Defn("next", builtinNext)
	Defn("list", collection(func(items []*Value) *Value { return NewList(items...) }))
	Defn("tuple", collection(func(items []*Value) *Value { return NewTuple(items...) }))
	Defn("set", collection(func(items []*Value) *Value {
		d := newDict()
		for _, item := range items {
			d.set(item, None)
		}
		return newSetValue(d)
	}))
	Defn("dict", builtinDict)
	Defn("sum", builtinSum)
	Defn("min", extreme("min", func(c int) bool { return c < 0 }))
	Defn("max", extreme("max", func(c int) bool { return c > 0 }))
	Defn("abs", unaryBuiltin("abs", func(in *Interpreter, v *Value) (*Value, error) {
		switch v.Type {
		case ValueTypeFloat:
			return NewFloat(math.Abs(v.Float64())), nil
		case ValueTypeInt, ValueTypeBool:
			if i := v.Int(); i < 0 {
				return NewInt(-i), nil
			}
			return NewInt(v.Int()), nil
		}
		return nil, in.raise("TypeError", fmt.Sprintf("bad operand type for abs(): '%s'", v.Type))
	}))
	Defn("int", builtinInt)
	Defn("float", builtinFloat)
	Defn("bool", func(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
		if len(args) == 0 {
			return False, nil
		}
		return NewBool(args[0].Truth()), nil
	})
	Defn("sorted", builtinSorted)
	Defn("reversed", unaryBuiltin("reversed", func(in *Interpreter, v *Value) (*Value, error) {
		items, err := in.collect(v)
		if err != nil {
			return nil, err
		}
		out := make([]*Value, len(items))
		for i := range items {
			out[len(items)-1-i] = items[i]
		}
		return in.iterator(NewList(out...))
	}))
	Defn("enumerate", builtinEnumerate)
	Defn("zip", builtinZip)
	Defn("any", truthFold(true))
	Defn("all", truthFold(false))
	Defn("map", builtinMap)
	Defn("filter", builtinFilter)
	Defn("isinstance", builtinIsinstance)
	Defn("getattr", builtinGetattr)
	Defn("__import__", builtinImport)
}

func unaryBuiltin(name string, fn func(in *Interpreter, v *Value) (*Value, error)) Builtin {
	return func(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, in.raise("TypeError", fmt.Sprintf("%s() takes exactly one argument (%d given)", name, len(args)))
		}
		return fn(in, args[0])
	}
}

// collect reads every item of an iterable.
func (in *Interpreter) collect(v *Value) ([]*Value, error) {
	var items []*Value
	err := in.iterate(v, func(item *Value) error {
		items = append(items, item)
		return nil
	})
	return items, err
}

// iterator wraps an iterable into a generator over its items.
func (in *Interpreter) iterator(v *Value) (*Value, error) {
	if v.Type == ValueTypeGenerator {
		return v, nil
	}
	switch v.Type {
	case ValueTypeList, ValueTypeTuple, ValueTypeDict, ValueTypeSet, ValueTypeString:
	default:
		return nil, in.raise("TypeError", fmt.Sprintf("'%s' object is not iterable", v.Type))
	}
	g := &generator{
		resume: make(chan struct{}),
		yields: make(chan step),
	}
	go g.run(func() error {
		return in.iterate(v, g.yield)
	})
	return &Value{Type: ValueTypeGenerator, v: g}, nil
}

func builtinPrint(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	sep, end := " ", "\n"
	if v, ok := kwargs["sep"]; ok && v.Type != ValueTypeNone {
		sep = v.Str()
	}
	if v, ok := kwargs["end"]; ok && v.Type != ValueTypeNone {
		end = v.Str()
	}
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		parts = append(parts, arg.String())
	}
	if _, err := io.WriteString(in.out, strings.Join(parts, sep)+end); err != nil {
		return nil, err
	}
	return None, nil
}

func builtinLen(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) != 1 {
		return nil, in.raise("TypeError", "len() takes exactly one argument")
	}
	switch v := args[0]; v.Type {
	case ValueTypeString:
		return NewInt(int64(utf8.RuneCountInString(v.Str()))), nil
	case ValueTypeBytes:
		return NewInt(int64(len(v.Str()))), nil
	case ValueTypeList, ValueTypeTuple, ValueTypeDict, ValueTypeSet:
		return NewInt(int64(len(v.items()))), nil
	}
	return nil, in.raise("TypeError", fmt.Sprintf("object of type '%s' has no len()", args[0].Type))
}

func builtinRange(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	var start, stop, step int64 = 0, 0, 1
	for _, arg := range args {
		if arg.Type != ValueTypeInt && arg.Type != ValueTypeBool {
			return nil, in.raise("TypeError", fmt.Sprintf("'%s' object cannot be interpreted as an integer", arg.Type))
		}
	}
	switch len(args) {
	case 1:
		stop = args[0].Int()
	case 2:
		start, stop = args[0].Int(), args[1].Int()
	case 3:
		start, stop, step = args[0].Int(), args[1].Int(), args[2].Int()
	default:
		return nil, in.raise("TypeError", "range expected 1 to 3 arguments")
	}
	if step == 0 {
		return nil, in.raise("ValueError", "range() arg 3 must not be zero")
	}
	var items []*Value
	for i := start; (step > 0 && i < stop) || (step < 0 && i > stop); i += step {
		items = append(items, NewInt(i))
	}
	return NewTuple(items...), nil
}

func builtinNext(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, in.raise("TypeError", "next expected 1 or 2 arguments")
	}
	if args[0].Type != ValueTypeGenerator {
		return nil, in.raise("TypeError", fmt.Sprintf("'%s' object is not an iterator", args[0].Type))
	}
	v, ok, err := args[0].v.(*generator).next()
	if err != nil {
		return nil, err
	}
	if ok {
		return v, nil
	}
	if len(args) == 2 {
		return args[1], nil
	}
	return nil, in.raise("StopIteration", "")
}

func collection(build func([]*Value) *Value) Builtin {
	return func(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
		if len(args) == 0 {
			return build(nil), nil
		}
		items, err := in.collect(args[0])
		if err != nil {
			return nil, err
		}
		return build(items), nil
	}
}

func builtinDict(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	d := newDict()
	if len(args) > 0 {
		if args[0].Type == ValueTypeDict {
			src := args[0].v.(*dict)
			for _, k := range src.keys {
				v, _ := src.get(k)
				d.set(k, v)
			}
		} else {
			pairs, err := in.collect(args[0])
			if err != nil {
				return nil, err
			}
			for _, pair := range pairs {
				kv, err := in.collect(pair)
				if err != nil {
					return nil, err
				}
				if len(kv) != 2 {
					return nil, in.raise("ValueError", "dictionary update sequence element has wrong length")
				}
				d.set(kv[0], kv[1])
			}
		}
	}
	for _, k := range sortedKeys(kwargs) {
		d.set(NewString(k), kwargs[k])
	}
	return newDictValue(d), nil
}

func builtinSum(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) < 1 {
		return nil, in.raise("TypeError", "sum() takes at least 1 positional argument")
	}
	total := NewInt(0)
	if len(args) > 1 {
		total = args[1]
	}
	err := in.iterate(args[0], func(item *Value) error {
		var err error
		total, err = add(in, total, item)
		return err
	})
	if err != nil {
		return nil, err
	}
	return total, nil
}

func extreme(name string, better func(int) bool) Builtin {
	return func(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
		items := args
		if len(args) == 1 {
			var err error
			if items, err = in.collect(args[0]); err != nil {
				return nil, err
			}
		}
		if len(items) == 0 {
			if def, ok := kwargs["default"]; ok {
				return def, nil
			}
			return nil, in.raise("ValueError", name+"() arg is an empty sequence")
		}
		key := kwargs["key"]
		best, bestKey := items[0], items[0]
		if key != nil {
			var err error
			if bestKey, err = in.call(key, []*Value{best}, nil); err != nil {
				return nil, err
			}
		}
		for _, item := range items[1:] {
			k := item
			if key != nil {
				var err error
				if k, err = in.call(key, []*Value{item}, nil); err != nil {
					return nil, err
				}
			}
			c, err := compare(in, name, k, bestKey)
			if err != nil {
				return nil, err
			}
			if better(c) {
				best, bestKey = item, k
			}
		}
		return best, nil
	}
}

func builtinInt(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) == 0 {
		return NewInt(0), nil
	}
	switch v := args[0]; v.Type {
	case ValueTypeInt, ValueTypeBool:
		return NewInt(v.Int()), nil
	case ValueTypeFloat:
		f := v.Float64()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, in.raise("ValueError", "cannot convert float "+formatFloat(f)+" to integer")
		}
		return NewInt(int64(f)), nil
	case ValueTypeString:
		base := 10
		if len(args) > 1 {
			base = int(args[1].Int())
		}
		s := strings.ReplaceAll(strings.TrimSpace(v.Str()), "_", "")
		i, err := strconv.ParseInt(s, base, 64)
		if err != nil {
			return nil, in.raise("ValueError", fmt.Sprintf("invalid literal for int() with base %d: %s", base, v.Repr()))
		}
		return NewInt(i), nil
	}
	return nil, in.raise("TypeError", fmt.Sprintf("int() argument must be a string or a number, not '%s'", args[0].Type))
}

func builtinFloat(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) == 0 {
		return NewFloat(0), nil
	}
	switch v := args[0]; v.Type {
	case ValueTypeInt, ValueTypeBool, ValueTypeFloat:
		return NewFloat(v.Float64()), nil
	case ValueTypeString:
		s := strings.ToLower(strings.TrimSpace(v.Str()))
		switch strings.TrimLeft(s, "+-") {
		case "inf", "infinity":
			if strings.HasPrefix(s, "-") {
				return NewFloat(math.Inf(-1)), nil
			}
			return NewFloat(math.Inf(1)), nil
		case "nan":
			return NewFloat(math.NaN()), nil
		}
		f, err := strconv.ParseFloat(strings.ReplaceAll(s, "_", ""), 64)
		if err != nil {
			return nil, in.raise("ValueError", "could not convert string to float: "+v.Repr())
		}
		return NewFloat(f), nil
	}
	return nil, in.raise("TypeError", fmt.Sprintf("float() argument must be a string or a number, not '%s'", args[0].Type))
}

func builtinSorted(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) != 1 {
		return nil, in.raise("TypeError", "sorted expected 1 argument")
	}
	items, err := in.collect(args[0])
	if err != nil {
		return nil, err
	}
	keys := items
	if key, ok := kwargs["key"]; ok && key.Type != ValueTypeNone {
		keys = make([]*Value, len(items))
		for i, item := range items {
			if keys[i], err = in.call(key, []*Value{item}, nil); err != nil {
				return nil, err
			}
		}
	}
	reverse := false
	if r, ok := kwargs["reverse"]; ok {
		reverse = r.Truth()
	}

	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	var cmpErr error
	sort.SliceStable(order, func(i, j int) bool {
		a, b := keys[order[i]], keys[order[j]]
		if reverse {
			a, b = b, a
		}
		c, err := compare(in, "<", a, b)
		if err != nil && cmpErr == nil {
			cmpErr = err
		}
		return c < 0
	})
	if cmpErr != nil {
		return nil, cmpErr
	}

	out := make([]*Value, len(items))
	for i, idx := range order {
		out[i] = items[idx]
	}
	return NewList(out...), nil
}

func builtinEnumerate(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) < 1 {
		return nil, in.raise("TypeError", "enumerate() missing required argument 'iterable'")
	}
	var start int64
	if len(args) > 1 {
		start = args[1].Int()
	} else if s, ok := kwargs["start"]; ok {
		start = s.Int()
	}
	items, err := in.collect(args[0])
	if err != nil {
		return nil, err
	}
	pairs := make([]*Value, 0, len(items))
	for i, item := range items {
		pairs = append(pairs, NewTuple(NewInt(start+int64(i)), item))
	}
	return in.iterator(NewList(pairs...))
}

func builtinZip(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	columns := make([][]*Value, 0, len(args))
	shortest := -1
	for _, arg := range args {
		items, err := in.collect(arg)
		if err != nil {
			return nil, err
		}
		if shortest < 0 || len(items) < shortest {
			shortest = len(items)
		}
		columns = append(columns, items)
	}
	var rows []*Value
	for i := 0; i < shortest; i++ {
		row := make([]*Value, 0, len(columns))
		for _, col := range columns {
			row = append(row, col[i])
		}
		rows = append(rows, NewTuple(row...))
	}
	return in.iterator(NewList(rows...))
}

// truthFold builds any (stopAt true) and all (stopAt false).
func truthFold(stopAt bool) Builtin {
	return func(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
		if len(args) != 1 {
			return nil, in.raise("TypeError", "expected one argument")
		}
		found := false
		err := in.iterate(args[0], func(item *Value) error {
			if item.Truth() == stopAt {
				found = true
				return errStopLoop
			}
			return nil
		})
		if err != nil && err != errStopLoop {
			return nil, err
		}
		return NewBool(found == stopAt), nil
	}
}

func builtinMap(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) < 2 {
		return nil, in.raise("TypeError", "map() must have at least two arguments.")
	}
	rows, err := builtinZip(in, args[1:], nil)
	if err != nil {
		return nil, err
	}
	var out []*Value
	err = in.iterate(rows, func(row *Value) error {
		v, err := in.call(args[0], row.items(), nil)
		if err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return in.iterator(NewList(out...))
}

func builtinFilter(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) != 2 {
		return nil, in.raise("TypeError", "filter expected 2 arguments")
	}
	var out []*Value
	err := in.iterate(args[1], func(item *Value) error {
		keep := item
		if args[0].Type != ValueTypeNone {
			var err error
			if keep, err = in.call(args[0], []*Value{item}, nil); err != nil {
				return err
			}
		}
		if keep.Truth() {
			out = append(out, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return in.iterator(NewList(out...))
}

var typeClasses = map[string]ValueType{
	"int":   ValueTypeInt,
	"float": ValueTypeFloat,
	"str":   ValueTypeString,
	"list":  ValueTypeList,
	"tuple": ValueTypeTuple,
	"dict":  ValueTypeDict,
	"set":   ValueTypeSet,
	"bool":  ValueTypeBool,
}

func builtinIsinstance(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) != 2 {
		return nil, in.raise("TypeError", "isinstance expected 2 arguments")
	}
	obj, classes := args[0], []*Value{args[1]}
	if args[1].Type == ValueTypeTuple {
		classes = args[1].items()
	}
	for _, c := range classes {
		switch c.Type {
		case ValueTypeClass:
			if obj.Type == ValueTypeException && obj.v.(*exception).class.isA(c.v.(*class)) {
				return True, nil
			}
		case ValueTypeBuiltin:
			vt, ok := typeClasses[c.name]
			if ok && (obj.Type == vt || (vt == ValueTypeInt && obj.Type == ValueTypeBool)) {
				return True, nil
			}
		}
	}
	return False, nil
}

func builtinGetattr(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) < 2 || len(args) > 3 || args[1].Type != ValueTypeString {
		return nil, in.raise("TypeError", "getattr expected an object and an attribute name")
	}
	v, err := in.getattr(args[0], args[1].Str())
	if err != nil && len(args) == 3 {
		return args[2], nil
	}
	return v, err
}

func builtinImport(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) < 1 || args[0].Str() != "builtins" {
		return nil, fmt.Errorf("%w: only the builtins module can be imported", ErrUnsupported)
	}
	return &Value{Type: ValueTypeModule, name: "builtins", v: builtins}, nil
}

func asciiEscape(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf:
			b.WriteRune(r)
		case r <= 0xff:
			fmt.Fprintf(&b, `\x%02x`, r)
		case r <= 0xffff:
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			fmt.Fprintf(&b, `\U%08x`, r)
		}
	}
	return b.String()
}
