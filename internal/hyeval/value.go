package hyeval

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Builtin is a function implemented in Go.
type Builtin func(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error)

type ValueType uint8

const (
	ValueTypeNone ValueType = iota
	ValueTypeBool
	ValueTypeInt
	ValueTypeFloat
	ValueTypeString
	ValueTypeBytes
	ValueTypeList
	ValueTypeTuple
	ValueTypeDict
	ValueTypeSet
	ValueTypeFunction
	ValueTypeBuiltin
	ValueTypeModule
	ValueTypeGenerator
	ValueTypeException
	ValueTypeClass
)

var valueTypes = map[ValueType]string{
	ValueTypeNone:      "NoneType",
	ValueTypeBool:      "bool",
	ValueTypeInt:       "int",
	ValueTypeFloat:     "float",
	ValueTypeString:    "str",
	ValueTypeBytes:     "bytes",
	ValueTypeList:      "list",
	ValueTypeTuple:     "tuple",
	ValueTypeDict:      "dict",
	ValueTypeSet:       "set",
	ValueTypeFunction:  "function",
	ValueTypeBuiltin:   "builtin_function_or_method",
	ValueTypeModule:    "module",
	ValueTypeGenerator: "generator",
	ValueTypeException: "exception",
	ValueTypeClass:     "type",
}

func (vt ValueType) String() string {
	return valueTypes[vt]
}

// Value is a runtime value. Lists, dicts and sets are mutable and shared by
// reference, like in Python.
type Value struct {
	v    interface{}
	name string

	Type ValueType
}

var (
	None  = &Value{Type: ValueTypeNone}
	True  = &Value{Type: ValueTypeBool, v: true}
	False = &Value{Type: ValueTypeBool, v: false}
)

type list struct {
	items []*Value
}

// dict keeps insertion order. Sets are dicts without values.
type dict struct {
	keys   []*Value
	values map[string]*Value
	index  map[string]int
}

func newDict() *dict {
	return &dict{
		values: make(map[string]*Value),
		index:  make(map[string]int),
	}
}

func (d *dict) set(k, v *Value) {
	h := k.hashKey()
	if _, ok := d.index[h]; !ok {
		d.index[h] = len(d.keys)
		d.keys = append(d.keys, k)
	}
	d.values[h] = v
}

func (d *dict) get(k *Value) (*Value, bool) {
	v, ok := d.values[k.hashKey()]
	return v, ok
}

func (d *dict) has(k *Value) bool {
	_, ok := d.index[k.hashKey()]
	return ok
}

// exception is a raised value. Classes of exceptions form a chain through
// parent.
type exception struct {
	class *class
	args  []*Value
}

type class struct {
	name   string
	parent *class
}

func (c *class) isA(other *class) bool {
	for ; c != nil; c = c.parent {
		if c == other {
			return true
		}
	}
	return false
}

func NewBool(b bool) *Value {
	if b {
		return True
	}
	return False
}

func NewInt(i int64) *Value {
	return &Value{v: i, Type: ValueTypeInt}
}

func NewFloat(f float64) *Value {
	return &Value{v: f, Type: ValueTypeFloat}
}

func NewString(s string) *Value {
	return &Value{v: s, Type: ValueTypeString}
}

func NewBytes(b []byte) *Value {
	return &Value{v: string(b), Type: ValueTypeBytes}
}

func NewList(items ...*Value) *Value {
	return &Value{v: &list{items: items}, Type: ValueTypeList}
}

func NewTuple(items ...*Value) *Value {
	return &Value{v: items, Type: ValueTypeTuple}
}

func newDictValue(d *dict) *Value {
	return &Value{v: d, Type: ValueTypeDict}
}

func newSetValue(d *dict) *Value {
	return &Value{v: d, Type: ValueTypeSet}
}

func newBuiltin(name string, fn Builtin) *Value {
	return &Value{v: fn, name: name, Type: ValueTypeBuiltin}
}

// NewValue converts a Go value into a runtime value.
func NewValue(value interface{}) (*Value, error) {
	switch v := value.(type) {
	case nil:
		return None, nil
	case *Value:
		return v, nil
	case bool:
		return NewBool(v), nil
	case int:
		return NewInt(int64(v)), nil
	case int64:
		return NewInt(v), nil
	case float64:
		return NewFloat(v), nil
	case string:
		return NewString(v), nil
	case []byte:
		return NewBytes(v), nil
	case []interface{}:
		items := make([]*Value, 0, len(v))
		for i := range v {
			item, err := NewValue(v[i])
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return NewList(items...), nil
	case Builtin:
		return newBuiltin("builtin", v), nil
	}
	return nil, fmt.Errorf("invalid value %v", value)
}

// Interface converts a value into plain Go values: nil, bool, int64,
// float64, string, []interface{} for lists, tuples and sets and
// map[string]interface{} for dicts, keyed by the repr of each key.
func (v *Value) Interface() interface{} {
	switch v.Type {
	case ValueTypeNone:
		return nil
	case ValueTypeBool, ValueTypeInt, ValueTypeFloat, ValueTypeString:
		return v.v
	case ValueTypeBytes:
		return []byte(v.v.(string))
	case ValueTypeList, ValueTypeTuple, ValueTypeSet:
		items := v.items()
		out := make([]interface{}, 0, len(items))
		for _, item := range items {
			out = append(out, item.Interface())
		}
		return out
	case ValueTypeDict:
		d := v.v.(*dict)
		out := make(map[string]interface{}, len(d.keys))
		for _, k := range d.keys {
			val, _ := d.get(k)
			out[k.Repr()] = val.Interface()
		}
		return out
	}
	return v.String()
}

func (v *Value) Int() int64 {
	switch v.Type {
	case ValueTypeBool:
		if v.v.(bool) {
			return 1
		}
		return 0
	case ValueTypeInt:
		return v.v.(int64)
	}
	return 0
}

func (v *Value) Float64() float64 {
	if v.Type == ValueTypeFloat {
		return v.v.(float64)
	}
	return float64(v.Int())
}

func (v *Value) Str() string {
	if s, ok := v.v.(string); ok {
		return s
	}
	return ""
}

// items returns the elements of a sequence or the keys of a mapping.
func (v *Value) items() []*Value {
	switch v.Type {
	case ValueTypeList:
		return v.v.(*list).items
	case ValueTypeTuple:
		return v.v.([]*Value)
	case ValueTypeDict, ValueTypeSet:
		return v.v.(*dict).keys
	}
	return nil
}

// Truth follows Python's truth testing.
func (v *Value) Truth() bool {
	switch v.Type {
	case ValueTypeNone:
		return false
	case ValueTypeBool:
		return v.v.(bool)
	case ValueTypeInt:
		return v.v.(int64) != 0
	case ValueTypeFloat:
		return v.v.(float64) != 0
	case ValueTypeString, ValueTypeBytes:
		return v.v.(string) != ""
	case ValueTypeList, ValueTypeTuple, ValueTypeDict, ValueTypeSet:
		return len(v.items()) > 0
	}
	return true
}

func (v *Value) hashKey() string {
	switch v.Type {
	case ValueTypeBool, ValueTypeInt:
		return "n:" + strconv.FormatInt(v.Int(), 10)
	case ValueTypeFloat:
		f := v.Float64()
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			return "n:" + strconv.FormatInt(int64(f), 10)
		}
	}
	return v.Type.String() + ":" + v.Repr()
}

// Repr is what Python's repr would return.
func (v *Value) Repr() string {
	switch v.Type {
	case ValueTypeString:
		return pyQuote(v.v.(string))
	case ValueTypeBytes:
		return "b" + pyQuote(v.v.(string))
	case ValueTypeList:
		return "[" + joinRepr(v.items()) + "]"
	case ValueTypeTuple:
		items := v.items()
		if len(items) == 1 {
			return "(" + items[0].Repr() + ",)"
		}
		return "(" + joinRepr(items) + ")"
	case ValueTypeSet:
		if len(v.items()) == 0 {
			return "set()"
		}
		return "{" + joinRepr(v.items()) + "}"
	case ValueTypeDict:
		d := v.v.(*dict)
		parts := make([]string, 0, len(d.keys))
		for _, k := range d.keys {
			val, _ := d.get(k)
			parts = append(parts, k.Repr()+": "+val.Repr())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case ValueTypeException:
		e := v.v.(*exception)
		return e.class.name + "(" + joinRepr(e.args) + ")"
	}
	return v.String()
}

// String is what Python's str would return.
func (v *Value) String() string {
	switch v.Type {
	case ValueTypeNone:
		return "None"
	case ValueTypeBool:
		if v.v.(bool) {
			return "True"
		}
		return "False"
	case ValueTypeInt:
		return strconv.FormatInt(v.v.(int64), 10)
	case ValueTypeFloat:
		return formatFloat(v.v.(float64))
	case ValueTypeString:
		return v.v.(string)
	case ValueTypeFunction:
		return fmt.Sprintf("<function %s>", v.v.(*function).name)
	case ValueTypeBuiltin:
		return fmt.Sprintf("<built-in function %s>", v.name)
	case ValueTypeModule:
		return fmt.Sprintf("<module %q>", v.name)
	case ValueTypeGenerator:
		return "<generator object>"
	case ValueTypeClass:
		return fmt.Sprintf("<class %q>", v.v.(*class).name)
	case ValueTypeException:
		e := v.v.(*exception)
		if len(e.args) == 1 {
			return e.args[0].String()
		}
		return "(" + joinRepr(e.args) + ")"
	}
	return v.Repr()
}

func joinRepr(items []*Value) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		parts = append(parts, item.Repr())
	}
	return strings.Join(parts, ", ")
}

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

// pyQuote prefers single quotes, like Python, unless the text holds a single
// quote and no double quote.
func pyQuote(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var b strings.Builder
	b.WriteRune(quote)
	for _, r := range s {
		switch r {
		case quote:
			b.WriteRune('\\')
			b.WriteRune(r)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteRune(quote)
	return b.String()
}

// sortedKeys lists the names of a namespace in a stable order.
func sortedKeys(m map[string]*Value) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
