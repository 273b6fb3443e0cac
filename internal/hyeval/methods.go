package hyeval

import (
	"fmt"
	"strings"
)

type method func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error)

var methods map[ValueType]map[string]method

func init() {
	methods = map[ValueType]map[string]method{
		ValueTypeList: {
			"append": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				if len(args) != 1 {
					return nil, in.raise("TypeError", "append() takes exactly one argument")
				}
				l := self.v.(*list)
				l.items = append(l.items, args[0])
				return None, nil
			},
			"extend": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				if len(args) != 1 {
					return nil, in.raise("TypeError", "extend() takes exactly one argument")
				}
				items, err := in.collect(args[0])
				if err != nil {
					return nil, err
				}
				l := self.v.(*list)
				l.items = append(l.items, items...)
				return None, nil
			},
			"insert": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				if len(args) != 2 {
					return nil, in.raise("TypeError", "insert expected 2 arguments")
				}
				l := self.v.(*list)
				i := int(args[0].Int())
				if i < 0 {
					i += len(l.items)
				}
				if i < 0 {
					i = 0
				}
				if i > len(l.items) {
					i = len(l.items)
				}
				l.items = append(l.items[:i], append([]*Value{args[1]}, l.items[i:]...)...)
				return None, nil
			},
			"pop": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				l := self.v.(*list)
				if len(l.items) == 0 {
					return nil, in.raise("IndexError", "pop from empty list")
				}
				key := NewInt(-1)
				if len(args) > 0 {
					key = args[0]
				}
				i, err := in.index(key, len(l.items))
				if err != nil {
					return nil, err
				}
				v := l.items[i]
				l.items = append(l.items[:i], l.items[i+1:]...)
				return v, nil
			},
			"index": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				if len(args) < 1 {
					return nil, in.raise("TypeError", "index expected at least 1 argument")
				}
				for i, item := range self.items() {
					if equal(item, args[0]) {
						return NewInt(int64(i)), nil
					}
				}
				return nil, in.raise("ValueError", fmt.Sprintf("%s is not in list", args[0].Repr()))
			},
			"count": count,
			"reverse": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				items := self.v.(*list).items
				for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
					items[i], items[j] = items[j], items[i]
				}
				return None, nil
			},
			"sort": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				sorted, err := builtinSorted(in, []*Value{self}, kwargs)
				if err != nil {
					return nil, err
				}
				self.v.(*list).items = sorted.v.(*list).items
				return None, nil
			},
		},
		ValueTypeTuple: {
			"count": count,
		},
		ValueTypeDict: {
			"keys": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				return NewList(append([]*Value(nil), self.items()...)...), nil
			},
			"values": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				d := self.v.(*dict)
				out := make([]*Value, 0, len(d.keys))
				for _, k := range d.keys {
					v, _ := d.get(k)
					out = append(out, v)
				}
				return NewList(out...), nil
			},
			"items": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				d := self.v.(*dict)
				out := make([]*Value, 0, len(d.keys))
				for _, k := range d.keys {
					v, _ := d.get(k)
					out = append(out, NewTuple(k, v))
				}
				return NewList(out...), nil
			},
			"get": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				if len(args) < 1 || len(args) > 2 {
					return nil, in.raise("TypeError", "get expected 1 or 2 arguments")
				}
				if v, ok := self.v.(*dict).get(args[0]); ok {
					return v, nil
				}
				if len(args) == 2 {
					return args[1], nil
				}
				return None, nil
			},
			"setdefault": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				if len(args) < 1 || len(args) > 2 {
					return nil, in.raise("TypeError", "setdefault expected 1 or 2 arguments")
				}
				d := self.v.(*dict)
				if v, ok := d.get(args[0]); ok {
					return v, nil
				}
				def := None
				if len(args) == 2 {
					def = args[1]
				}
				d.set(args[0], def)
				return def, nil
			},
			"update": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				other, err := builtinDict(in, args, kwargs)
				if err != nil {
					return nil, err
				}
				src, dst := other.v.(*dict), self.v.(*dict)
				for _, k := range src.keys {
					v, _ := src.get(k)
					dst.set(k, v)
				}
				return None, nil
			},
		},
		ValueTypeSet: {
			"add": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				if len(args) != 1 {
					return nil, in.raise("TypeError", "add() takes exactly one argument")
				}
				self.v.(*dict).set(args[0], None)
				return None, nil
			},
			"update": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				d := self.v.(*dict)
				for _, arg := range args {
					if err := in.iterate(arg, func(item *Value) error {
						d.set(item, None)
						return nil
					}); err != nil {
						return nil, err
					}
				}
				return None, nil
			},
		},
		ValueTypeString: {
			"join": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				if len(args) != 1 {
					return nil, in.raise("TypeError", "join() takes exactly one argument")
				}
				var parts []string
				err := in.iterate(args[0], func(item *Value) error {
					if item.Type != ValueTypeString {
						return in.raise("TypeError", fmt.Sprintf("sequence item %d: expected str instance, %s found", len(parts), item.Type))
					}
					parts = append(parts, item.Str())
					return nil
				})
				if err != nil {
					return nil, err
				}
				return NewString(strings.Join(parts, self.Str())), nil
			},
			"upper":      stringMethod(strings.ToUpper),
			"lower":      stringMethod(strings.ToLower),
			"strip":      stringMethod(strings.TrimSpace),
			"startswith": stringPredicate(strings.HasPrefix),
			"endswith":   stringPredicate(strings.HasSuffix),
			"split": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				var parts []string
				if len(args) == 0 || args[0].Type == ValueTypeNone {
					parts = strings.Fields(self.Str())
				} else {
					parts = strings.Split(self.Str(), args[0].Str())
				}
				out := make([]*Value, 0, len(parts))
				for _, p := range parts {
					out = append(out, NewString(p))
				}
				return NewList(out...), nil
			},
			"replace": func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
				if len(args) != 2 {
					return nil, in.raise("TypeError", "replace expected 2 arguments")
				}
				return NewString(strings.ReplaceAll(self.Str(), args[0].Str(), args[1].Str())), nil
			},
			"count": count,
		},
	}
}

func count(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) != 1 {
		return nil, in.raise("TypeError", "count() takes exactly one argument")
	}
	if self.Type == ValueTypeString {
		return NewInt(int64(strings.Count(self.Str(), args[0].Str()))), nil
	}
	var n int64
	for _, item := range self.items() {
		if equal(item, args[0]) {
			n++
		}
	}
	return NewInt(n), nil
}

func stringMethod(fn func(string) string) method {
	return func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
		return NewString(fn(self.Str())), nil
	}
}

func stringPredicate(fn func(s, prefix string) bool) method {
	return func(in *Interpreter, self *Value, args []*Value, kwargs map[string]*Value) (*Value, error) {
		if len(args) != 1 || args[0].Type != ValueTypeString {
			return nil, in.raise("TypeError", "expected one string argument")
		}
		return NewBool(fn(self.Str(), args[0].Str())), nil
	}
}
