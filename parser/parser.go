// Package parser reads Hy source text into ast nodes.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/lexer"
)

var tokenEOF = lexer.NewToken(lexer.TokenEOF, "", 0, 0)

type parserState func(p *Parser) parserState

// ParserOptions changes how the parser deals with incomplete input.
type ParserOptions struct {
	// AutoCloseOnEOF closes the forms left open when the input ends instead
	// of failing with ErrUnexpectedEOF.
	AutoCloseOnEOF bool
}

// Parser builds a document node out of a token stream.
type Parser struct {
	lx   *lexer.Lexer
	root *ast.Node

	stack   []*ast.Node
	options ParserOptions

	lastTok *lexer.Token

	lastErr error
}

// NewParser creates a parser that reads from r.
func NewParser(r io.Reader) *Parser {
	p := &Parser{}
	p.root = ast.NewDocument(nil)
	p.stack = []*ast.Node{p.root}
	p.lx = lexer.New(r)
	return p
}

// SetOptions replaces the parser options, it must be called before Parse.
func (p *Parser) SetOptions(options ParserOptions) {
	p.options = options
}

// Root returns the document node.
func (p *Parser) Root() *ast.Node {
	return p.root
}

// Parse consumes the whole input.
func (p *Parser) Parse() error {
	errCh := make(chan error, 1)

	go func() {
		errCh <- p.lx.Scan()
	}()

	for state := parserDefaultState; state != nil; {
		state = state(p)
	}

	// release the scanner in case parsing stopped early
	p.lx.Stop()

	err := <-errCh
	if err != nil && !errors.Is(err, lexer.ErrForceStopped) {
		return err
	}

	return p.lastErr
}

func (p *Parser) curr() *lexer.Token {
	return p.lastTok
}

func (p *Parser) read() *lexer.Token {
	tok, ok := <-p.lx.Tokens()
	if ok {
		return &tok
	}
	return tokenEOF
}

func (p *Parser) next() *lexer.Token {
	p.lastTok = p.read()
	return p.lastTok
}

func (p *Parser) top() *ast.Node {
	return p.stack[len(p.stack)-1]
}

func parserDefaultState(p *Parser) parserState {
	tok := p.next()

	switch tok.Type() {
	case lexer.TokenEOF:
		if open := len(p.stack) - 1; open > 0 && !p.options.AutoCloseOnEOF {
			return parserErrorState(fmt.Errorf("%w: %d unclosed form(s)", ErrUnexpectedEOF, open))
		}
		return nil

	case lexer.TokenWhitespace, lexer.TokenNewLine, lexer.TokenComment:
		// continue

	case lexer.TokenOpenExpression:
		return parserStateOpen(ast.NodeTypeExpression)
	case lexer.TokenOpenList:
		return parserStateOpen(ast.NodeTypeList)
	case lexer.TokenOpenMap:
		return parserStateOpen(ast.NodeTypeMap)
	case lexer.TokenOpenSet:
		return parserStateOpen(ast.NodeTypeSet)

	case lexer.TokenCloseExpression:
		return parserStateClose(ast.NodeTypeExpression)
	case lexer.TokenCloseList:
		return parserStateClose(ast.NodeTypeList)
	case lexer.TokenCloseMap:
		return parserStateClose(ast.NodeTypeMap, ast.NodeTypeSet)

	case lexer.TokenString, lexer.TokenBytes, lexer.TokenWord:
		return parserStateValue

	default:
		return parserErrorState(unexpectedToken(tok))
	}

	return parserDefaultState
}

func parserStateOpen(nt ast.NodeType) parserState {
	return func(p *Parser) parserState {
		node, err := p.top().PushVector(nt, p.curr())
		if err != nil {
			return parserErrorState(err)
		}
		p.stack = append(p.stack, node)
		return parserDefaultState
	}
}

func parserStateClose(accepts ...ast.NodeType) parserState {
	return func(p *Parser) parserState {
		if len(p.stack) < 2 {
			return parserErrorState(unexpectedToken(p.curr()))
		}
		for _, nt := range accepts {
			if p.top().Is(nt) {
				p.stack = p.stack[:len(p.stack)-1]
				return parserDefaultState
			}
		}
		return parserErrorState(unexpectedToken(p.curr()))
	}
}

func parserStateValue(p *Parser) parserState {
	tok := p.curr()

	var (
		v   ast.Valuer
		err error
	)

	switch tok.Type() {
	case lexer.TokenString:
		var s string
		if s, err = UnquoteString(tok.Text()); err == nil {
			v = ast.NewStringValue(s)
		}
	case lexer.TokenBytes:
		var b []byte
		if b, err = UnquoteBytes(tok.Text()); err == nil {
			v = ast.NewBytesValue(b)
		}
	default:
		v = ParseAtom(tok.Text())
	}

	if err != nil {
		line, col := tok.Pos()
		return parserErrorState(fmt.Errorf("%w at line %d, column %d", err, line, col))
	}

	if _, err := p.top().PushValue(tok, v); err != nil {
		return parserErrorState(err)
	}
	return parserDefaultState
}

func parserErrorState(err error) parserState {
	return func(p *Parser) parserState {
		p.lastErr = err
		return nil
	}
}

func unexpectedToken(tok *lexer.Token) error {
	line, col := tok.Pos()
	return fmt.Errorf("%w %q at line %d, column %d", ErrUnexpectedToken, tok.Text(), line, col)
}

// Parse reads the given text and returns a document node holding every
// top-level form.
func Parse(in []byte) (*ast.Node, error) {
	p := NewParser(bytes.NewReader(in))

	err := p.Parse()
	if err != nil {
		return nil, err
	}

	return p.root, nil
}
