package ast

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"
)

// Print displays a human-readable representation of a node
func Print(n *Node) {
	Fprint(os.Stdout, n)
}

// Fprint writes a human-readable representation of a node to w
func Fprint(w io.Writer, n *Node) {
	printLevel(w, n, 0)
}

func printLevel(w io.Writer, n *Node, level int) {
	if n == nil {
		fmt.Fprintf(w, ":nil\n")
		return
	}
	indent := strings.Repeat("    ", level)
	fmt.Fprintf(w, "%s(%s): ", indent, n.Type())

	if n.IsVector() {
		fmt.Fprintf(w, "(%v)\n", n.Token())
		list := n.List()
		for i := range list {
			printLevel(w, list[i], level+1)
		}
		return
	}
	fmt.Fprintf(w, "%s (%v)\n", n.Encode(), n.Token())
}

// Encode transforms a node into its compact text representation. Documents
// put each top-level form on its own line.
func Encode(n *Node) []byte {
	var buf bytes.Buffer
	encodeNode(&buf, n)
	return buf.Bytes()
}

func encodeNode(buf *bytes.Buffer, n *Node) {
	if n == nil {
		buf.WriteString(":nil")
		return
	}
	if n.IsValue() {
		buf.WriteString(n.Encode())
		return
	}

	sep := " "
	if n.Type() == NodeTypeDocument {
		sep = "\n"
	}

	open, close := brackets(n.Type())
	buf.WriteString(open)
	for i, child := range n.List() {
		if i > 0 {
			buf.WriteString(sep)
		}
		encodeNode(buf, child)
	}
	buf.WriteString(close)
}

// Indent lays a node out so that lines stay within width columns where
// possible. A vector that does not fit is broken with one child per line:
// expressions keep their head on the opening line and indent their
// arguments by two columns, other vectors align children after the opening
// bracket. The result reads back into the same tree.
func Indent(n *Node, width int) []byte {
	var buf bytes.Buffer
	if n != nil && n.Type() == NodeTypeDocument {
		for i, form := range n.List() {
			if i > 0 {
				buf.WriteByte('\n')
			}
			indentNode(&buf, form, 0, width)
		}
		return buf.Bytes()
	}
	indentNode(&buf, n, 0, width)
	return buf.Bytes()
}

func indentNode(buf *bytes.Buffer, n *Node, col int, width int) {
	flat := Encode(n)
	if n == nil || n.IsValue() || n.Len() == 0 || col+utf8.RuneCount(flat) <= width {
		buf.Write(flat)
		return
	}

	open, close := brackets(n.Type())
	children := n.List()
	buf.WriteString(open)

	childCol := col + len(open)
	rest := children
	if n.Type() == NodeTypeExpression && children[0].IsValue() {
		head := Encode(children[0])
		buf.Write(head)
		rest = children[1:]
		childCol = col + 2
		for _, child := range rest {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(" ", childCol))
			indentNode(buf, child, childCol, width)
		}
		buf.WriteString(close)
		return
	}

	for i, child := range rest {
		if i > 0 {
			buf.WriteByte('\n')
			buf.WriteString(strings.Repeat(" ", childCol))
		}
		indentNode(buf, child, childCol, width)
	}
	buf.WriteString(close)
}
