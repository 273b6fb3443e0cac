// Package pyparse runs CPython's own parser over Python sources and decodes
// the trees it dumps.
package pyparse

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/xiam/py2hy/pyast"
)

//go:embed dump.py
var dumpScript string

// DefaultPython is the interpreter used when none is given.
const DefaultPython = "python3"

var (
	ErrSyntax      = errors.New("syntax error")
	ErrInterpreter = errors.New("python interpreter failed")
)

// exit status of the dump script for sources ast.parse rejects
const syntaxErrorStatus = 2

// Parser turns Python source into pyast trees.
type Parser struct {
	python string
}

// New creates a parser that runs the given interpreter, or DefaultPython
// when python is empty.
func New(python string) *Parser {
	if python == "" {
		python = DefaultPython
	}
	return &Parser{python: python}
}

// Available reports whether the interpreter can be found.
func (p *Parser) Available() bool {
	_, err := exec.LookPath(p.python)
	return err == nil
}

// Parse parses src, filename is only used for positions and messages.
func (p *Parser) Parse(ctx context.Context, filename string, src []byte) (*pyast.Module, error) {
	cmd := exec.CommandContext(ctx, p.python, "-c", dumpScript, filename)
	cmd.Stdin = bytes.NewReader(src)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		msg := strings.TrimSpace(stderr.String())
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == syntaxErrorStatus {
			return nil, fmt.Errorf("%w: %s", ErrSyntax, msg)
		}
		if msg != "" {
			return nil, fmt.Errorf("%w: %v: %s", ErrInterpreter, err, msg)
		}
		return nil, fmt.Errorf("%w: %v", ErrInterpreter, err)
	}

	return pyast.Decode(&stdout, filename)
}

// ParseFile reads and parses a file.
func (p *Parser) ParseFile(ctx context.Context, path string) (*pyast.Module, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return p.Parse(ctx, path, src)
}
