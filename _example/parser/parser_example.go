package main

import (
	"fmt"
	"log"

	"github.com/xiam/py2hy"
	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/parser"
	"github.com/xiam/py2hy/pyast"
)

func main() {
	// def add(a, b=2):
	//     return a + b
	mod := &pyast.Module{
		Filename: "add.py",
		Body: []pyast.Stmt{
			&pyast.FunctionDef{
				Name: "add",
				Args: &pyast.Arguments{
					Args:     []*pyast.Arg{{Name: "a"}, {Name: "b"}},
					Defaults: []pyast.Expr{&pyast.Constant{Kind: pyast.ConstInt, Value: "2"}},
				},
				Body: []pyast.Stmt{
					&pyast.Return{Value: &pyast.BinOp{
						Left:  &pyast.Name{ID: "a"},
						Op:    pyast.Add,
						Right: &pyast.Name{ID: "b"},
					}},
				},
			},
		},
	}

	src, err := py2hy.NewTranslator(nil).Source(mod)
	if err != nil {
		log.Fatal("py2hy.Source:", err)
	}
	fmt.Printf("%s\n", src)

	root, err := parser.Parse(src)
	if err != nil {
		log.Fatal("parser.Parse:", err)
	}

	ast.Print(root)
}
