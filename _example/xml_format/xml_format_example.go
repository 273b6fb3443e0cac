package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/xiam/py2hy"
	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/pyast"
)

func printTree(node *ast.Node) {
	printIndentedTree(node, 0)
}

func printIndentedTree(node *ast.Node, indentationLevel int) {
	indent := strings.Repeat("  ", indentationLevel)
	if node.IsVector() {
		fmt.Printf("%s<%s>\n", indent, node.Type())
		children := node.List()
		for i := range children {
			printIndentedTree(children[i], indentationLevel+1)
		}
		fmt.Printf("%s</%s>\n", indent, node.Type())
		return
	}
	fmt.Printf("%s<%s>%v</%s>\n", indent, node.Type(), node.Value(), node.Type())
}

func main() {
	// ok = 0 < f() <= 10
	mod := &pyast.Module{
		Filename: "chain.py",
		Body: []pyast.Stmt{
			&pyast.Assign{
				Targets: []pyast.Expr{&pyast.Name{ID: "ok", Ctx: pyast.Store}},
				Value: &pyast.Compare{
					Left: &pyast.Constant{Kind: pyast.ConstInt, Value: "0"},
					Ops:  []pyast.CmpOp{pyast.Lt, pyast.LtE},
					Comparators: []pyast.Expr{
						&pyast.Call{Func: &pyast.Name{ID: "f"}},
						&pyast.Constant{Kind: pyast.ConstInt, Value: "10"},
					},
				},
			},
		},
	}

	root, err := py2hy.NewTranslator(nil).Translate(mod)
	if err != nil {
		log.Fatal("py2hy.Translate:", err)
	}

	printTree(root)
}
