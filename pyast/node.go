// Package pyast describes the tree a Python parser hands to the translator.
//
// The set of node types is closed: every statement implements Stmt and every
// expression implements Expr, and each one dispatches to its own method on
// StmtVisitor or ExprVisitor. Code that needs to handle every construct
// implements the visitor interfaces and gets a compile error when a new node
// type is added.
package pyast

import (
	"fmt"
	"strings"
)

// Pos is the location of a node in the source file. Columns start at 1.
type Pos struct {
	Line int
	Col  int
}

// Position returns the position itself, so structs embedding Pos satisfy Node.
func (p Pos) Position() Pos {
	return p
}

// IsValid reports whether the position carries line information.
func (p Pos) IsValid() bool {
	return p.Line > 0
}

func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Node is implemented by every node of the tree.
type Node interface {
	Position() Pos
	Children() []Node
}

// Stmt is a statement node.
type Stmt interface {
	Node
	Accept(StmtVisitor) error
}

// Expr is an expression node.
type Expr interface {
	Node
	Accept(ExprVisitor) error
}

// Kind returns the construct name of a node, e.g. "FunctionDef".
func Kind(n Node) string {
	if n == nil {
		return "nil"
	}
	name := fmt.Sprintf("%T", n)
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Module is the root of a translation unit.
type Module struct {
	Pos
	Filename string
	Body     []Stmt
}

func (m *Module) Children() []Node {
	return stmtNodes(nil, m.Body)
}

// Inspect traverses the tree rooted at n in depth-first order, calling f for
// each node. Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, c := range n.Children() {
		Inspect(c, f)
	}
}

func exprNodes(dst []Node, exprs ...Expr) []Node {
	for _, e := range exprs {
		if e != nil {
			dst = append(dst, e)
		}
	}
	return dst
}

func exprListNodes(dst []Node, exprs []Expr) []Node {
	return exprNodes(dst, exprs...)
}

func stmtNodes(dst []Node, stmts []Stmt) []Node {
	for _, s := range stmts {
		if s != nil {
			dst = append(dst, s)
		}
	}
	return dst
}
