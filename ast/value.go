package ast

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Valuer represents a value interface
type Valuer interface {
	Type() NodeType
	Value() interface{}
	Encode() string
}

type nodeValue struct {
	t NodeType
	v interface{}
}

func newNodeValue(t NodeType, v interface{}) *nodeValue {
	return &nodeValue{
		t: t,
		v: v,
	}
}

func (n *nodeValue) Type() NodeType {
	return n.t
}

func (n *nodeValue) Value() interface{} {
	return n.v
}

func (n *nodeValue) Encode() string {
	switch n.t {
	case NodeTypeInt:
		return n.v.(*big.Int).String()
	case NodeTypeFloat:
		return formatFloat(n.v.(float64))
	case NodeTypeComplex:
		return formatFloat(n.v.(float64)) + "j"
	case NodeTypeSymbol:
		return n.v.(string)
	case NodeTypeKeyword:
		return ":" + n.v.(string)
	case NodeTypeString:
		return quoteString(n.v.(string))
	case NodeTypeBytes:
		return quoteBytes(n.v.([]byte))
	}

	panic("unreachable")
}

// NewStringValue creates a value of type string
func NewStringValue(v string) Valuer {
	return newNodeValue(NodeTypeString, v)
}

// NewBytesValue creates a value of type bytes, the slice is copied
func NewBytesValue(v []byte) Valuer {
	return newNodeValue(NodeTypeBytes, append([]byte{}, v...))
}

// NewFloatValue creates a value of type float
func NewFloatValue(v float64) Valuer {
	return newNodeValue(NodeTypeFloat, v)
}

// NewComplexValue creates an imaginary number with the given imaginary part
func NewComplexValue(imag float64) Valuer {
	return newNodeValue(NodeTypeComplex, imag)
}

// NewIntValue creates a value of type int, the integer is copied
func NewIntValue(v *big.Int) Valuer {
	return newNodeValue(NodeTypeInt, new(big.Int).Set(v))
}

// NewKeywordValue creates a keyword, the name has no leading colon
func NewKeywordValue(v string) Valuer {
	return newNodeValue(NodeTypeKeyword, v)
}

// NewSymbolValue creates a value of type symbol
func NewSymbolValue(v string) Valuer {
	return newNodeValue(NodeTypeSymbol, v)
}

var _ = Valuer(&nodeValue{})

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	case math.IsNaN(f):
		return "NaN"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			switch {
			case unicode.IsPrint(r) && r != utf8.RuneError:
				b.WriteRune(r)
			case r < 0x100:
				b.WriteString(`\x`)
				b.WriteString(hex(int64(r), 2))
			case r < 0x10000:
				b.WriteString(`\u`)
				b.WriteString(hex(int64(r), 4))
			default:
				b.WriteString(`\U`)
				b.WriteString(hex(int64(r), 8))
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}

func quoteBytes(v []byte) string {
	var b strings.Builder
	b.WriteString(`b"`)
	for _, c := range v {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c >= 0x20 && c < 0x7f {
				b.WriteByte(c)
				continue
			}
			b.WriteString(`\x`)
			b.WriteString(hex(int64(c), 2))
		}
	}
	b.WriteByte('"')
	return b.String()
}

func hex(v int64, digits int) string {
	s := strconv.FormatInt(v, 16)
	if len(s) < digits {
		s = strings.Repeat("0", digits-len(s)) + s
	}
	return s
}
