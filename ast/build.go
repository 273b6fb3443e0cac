package ast

import (
	"math/big"
)

// Builders for trees that are generated rather than read. Nodes built here
// carry no token.

// NewSymbol returns a symbol node.
func NewSymbol(name string) *Node {
	return NewNode(nil, NewSymbolValue(name))
}

// NewKeyword returns a keyword node, name has no leading colon.
func NewKeyword(name string) *Node {
	return NewNode(nil, NewKeywordValue(name))
}

// NewString returns a string node.
func NewString(s string) *Node {
	return NewNode(nil, NewStringValue(s))
}

// NewBytes returns a bytes node.
func NewBytes(b []byte) *Node {
	return NewNode(nil, NewBytesValue(b))
}

// NewInt returns an integer node.
func NewInt(i *big.Int) *Node {
	return NewNode(nil, NewIntValue(i))
}

// NewInt64 returns an integer node.
func NewInt64(i int64) *Node {
	return NewInt(big.NewInt(i))
}

// NewFloat returns a float node.
func NewFloat(f float64) *Node {
	return NewNode(nil, NewFloatValue(f))
}

// NewComplex returns an imaginary number node.
func NewComplex(imag float64) *Node {
	return NewNode(nil, NewComplexValue(imag))
}

func vectorOf(nt NodeType, children []*Node) *Node {
	return newNode(nt, nil, append([]*Node{}, children...))
}

// NewForm returns the expression (children...).
func NewForm(children ...*Node) *Node {
	return vectorOf(NodeTypeExpression, children)
}

// NewCall returns the expression (head args...).
func NewCall(head string, args ...*Node) *Node {
	return vectorOf(NodeTypeExpression, append([]*Node{NewSymbol(head)}, args...))
}

// NewListOf returns the list [children...].
func NewListOf(children ...*Node) *Node {
	return vectorOf(NodeTypeList, children)
}

// NewMapOf returns the map {children...}.
func NewMapOf(children ...*Node) *Node {
	return vectorOf(NodeTypeMap, children)
}

// NewSetOf returns the set #{children...}.
func NewSetOf(children ...*Node) *Node {
	return vectorOf(NodeTypeSet, children)
}

// NewDocumentOf returns a document holding the given top-level forms.
func NewDocumentOf(forms ...*Node) *Node {
	return vectorOf(NodeTypeDocument, forms)
}

// Clone returns a deep copy of n. Tokens are shared, they are immutable.
func Clone(n *Node) *Node {
	if n == nil {
		return nil
	}
	if n.IsVector() {
		list := n.List()
		children := make([]*Node, len(list))
		for i := range list {
			children[i] = Clone(list[i])
		}
		return newNode(n.nt, n.tok, children)
	}
	return newNode(n.nt, n.tok, n.v)
}

// Equal reports whether two trees have the same shape and values. Tokens
// are ignored.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.nt != b.nt {
		return false
	}
	if a.IsValue() {
		return a.Encode() == b.Encode()
	}
	la, lb := a.List(), b.List()
	if len(la) != len(lb) {
		return false
	}
	for i := range la {
		if !Equal(la[i], lb[i]) {
			return false
		}
	}
	return true
}
