package main

import (
	"fmt"
	"log"

	"github.com/xiam/py2hy/lexer"
)

func main() {
	input := `
		(defn scale [xs &optional [k 2]] ; generated by py2hy
			(setv out #{})
			(for [x xs] (.add out (* x k)))
			(, out b"\x00" 1.5 :key "done"))
	`

	tokens, err := lexer.Tokenize([]byte(input))
	if err != nil {
		log.Fatal("lexer.Tokenize:", err)
	}

	for i, tok := range tokens {
		line, col := tok.Pos()
		lexeme := tok.Text()
		tt := tok.Type().String()

		fmt.Printf("token[%d] (type: %v, line: %d, col: %d)\n\t-> %q\n\n", i, tt, line, col, lexeme)
	}
}
