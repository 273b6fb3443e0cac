package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/xiam/py2hy"
	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/internal/hyeval"
	"github.com/xiam/py2hy/internal/pyparse"
)

const (
	historyFile = ".py2hy_history"
	promptMain  = ">>> "
	promptCont  = "... "
)

const helpText = `Enter Python statements, a block ends with an empty line.
  :eval    toggle running the translated forms
  :help    show this text
  :quit    exit
`

func repl(ctx context.Context, tr *py2hy.Translator, parser *pyparse.Parser) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	in := hyeval.New()
	in.SetOutput(os.Stdout)
	eval := false

	fmt.Print(helpText)
	for {
		src, err := readSnippet(ln)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return nil
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			return err
		}

		switch strings.TrimSpace(src) {
		case "":
			continue
		case ":quit":
			return nil
		case ":help":
			fmt.Print(helpText)
			continue
		case ":eval":
			eval = !eval
			fmt.Printf("eval: %v\n", eval)
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(src, "\n", " "))

		mod, err := parser.Parse(ctx, "<stdin>", []byte(src+"\n"))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		doc, err := tr.Translate(mod)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		if width := tr.Options().Width; width > 0 {
			fmt.Printf("%s\n", ast.Indent(doc, width))
		} else {
			fmt.Printf("%s\n", ast.Encode(doc))
		}

		if eval {
			v, err := in.Run(doc)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				continue
			}
			if v != hyeval.None {
				fmt.Println(v.Repr())
			}
		}
	}
}

// readSnippet reads one statement. Compound statements and open brackets
// continue until an empty line.
func readSnippet(ln *liner.State) (string, error) {
	var lines []string
	block := false
	for {
		prompt := promptMain
		if len(lines) > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if err != nil {
			if errors.Is(err, io.EOF) && len(lines) > 0 {
				break
			}
			return "", err
		}

		if len(lines) > 0 && block && strings.TrimSpace(line) == "" {
			break
		}
		lines = append(lines, line)

		trimmed := strings.TrimRight(line, " \t")
		if strings.HasSuffix(trimmed, ":") || strings.HasSuffix(trimmed, "\\") || openBrackets(strings.Join(lines, "\n")) > 0 {
			block = true
		}
		if !block {
			break
		}
	}
	return strings.Join(lines, "\n"), nil
}

// openBrackets counts unclosed brackets outside string literals.
func openBrackets(src string) int {
	depth := 0
	var quote rune
	escaped := false
	for _, r := range src {
		switch {
		case escaped:
			escaped = false
		case quote != 0:
			if r == '\\' {
				escaped = true
			} else if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '#':
			quote = '\n'
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			depth--
		}
	}
	return depth
}
