package ast

import (
	"errors"
	"fmt"

	"github.com/xiam/py2hy/lexer"
)

// ErrNotVector is returned when a child is pushed into a value node.
var ErrNotVector = errors.New("nodes of type value can't accept children")

// Node represents leaf of the AST
type Node struct {
	nt  NodeType
	tok *lexer.Token
	v   interface{}
}

func newNode(nt NodeType, tok *lexer.Token, v interface{}) *Node {
	return &Node{
		nt:  nt,
		v:   v,
		tok: tok,
	}
}

// NewNode creates and returns an orphaned node based on the given token
func NewNode(tok *lexer.Token, v Valuer) *Node {
	return newNode(v.Type(), tok, v)
}

// NewVector creates an empty node of the given vector type.
func NewVector(nt NodeType, tok *lexer.Token) *Node {
	if nt&nodeTypeVector == 0 {
		panic(fmt.Sprintf("ast: %v is not a vector type", nt))
	}
	return newNode(nt, tok, []*Node{})
}

// NewExpression creates and returns a node of type "expression"
func NewExpression(tok *lexer.Token) *Node {
	return NewVector(NodeTypeExpression, tok)
}

// NewMap creates and returns a node of type "map"
func NewMap(tok *lexer.Token) *Node {
	return NewVector(NodeTypeMap, tok)
}

// NewList creates and returns a node of type "list"
func NewList(tok *lexer.Token) *Node {
	return NewVector(NodeTypeList, tok)
}

// NewSet creates and returns a node of type "set"
func NewSet(tok *lexer.Token) *Node {
	return NewVector(NodeTypeSet, tok)
}

// NewDocument creates the root node holding top-level forms
func NewDocument(tok *lexer.Token) *Node {
	return NewVector(NodeTypeDocument, tok)
}

// PushValue appends a new value to the node
func (n *Node) PushValue(tok *lexer.Token, v Valuer) (*Node, error) {
	node := NewNode(tok, v)
	if err := n.Push(node); err != nil {
		return nil, err
	}
	return node, nil
}

// PushVector appends a new empty vector to the node and returns it
func (n *Node) PushVector(nt NodeType, tok *lexer.Token) (*Node, error) {
	node := NewVector(nt, tok)
	if err := n.Push(node); err != nil {
		return nil, err
	}
	return node, nil
}

// Token returns the token associated to the node, nil for nodes that were
// not read from text
func (n Node) Token() *lexer.Token {
	return n.tok
}

// Type returns the type of the node
func (n Node) Type() NodeType {
	return n.nt
}

// Is reports whether the node has the given type
func (n Node) Is(nt NodeType) bool {
	return n.nt == nt
}

// Value returns the value of the node
func (n Node) Value() interface{} {
	if n.v == nil {
		return nil
	}
	if v, ok := n.v.(Valuer); ok {
		return v.Value()
	}
	return n.v
}

// Encode returns the encoded value of the node
func (n Node) Encode() string {
	if v, ok := n.v.(Valuer); ok {
		return v.Encode()
	}
	return ""
}

// List returns all the children elements of the node
func (n *Node) List() []*Node {
	if l, ok := n.v.([]*Node); ok {
		return l
	}
	return nil
}

// Len returns the number of children of a vector
func (n *Node) Len() int {
	return len(n.List())
}

// Head returns the first child of a vector, or nil
func (n *Node) Head() *Node {
	if l := n.List(); len(l) > 0 {
		return l[0]
	}
	return nil
}

// IsSymbol reports whether the node is the given symbol
func (n *Node) IsSymbol(name string) bool {
	if n == nil || n.nt != NodeTypeSymbol {
		return false
	}
	return n.Value().(string) == name
}

func (n Node) String() string {
	if n.nt&nodeTypeVector > 0 {
		return fmt.Sprintf("(%v)[%d]", n.nt, len(n.List()))
	}
	return fmt.Sprintf("(%v): %v", n.nt, n.Encode())
}

// Push appends a child node to a vector node.
func (n *Node) Push(node *Node) error {
	if n.IsVector() {
		n.v = append(n.v.([]*Node), node)
		return nil
	}
	return ErrNotVector
}

// IsValue returns true if the node is of type value
func (n *Node) IsValue() bool {
	return n.nt&nodeTypeValue > 0
}

// IsVector returns true if the node is of type vector
func (n *Node) IsVector() bool {
	return n.nt&nodeTypeVector > 0
}
