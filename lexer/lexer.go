// Package lexer splits Hy source text into tokens.
package lexer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"text/scanner"
)

// Errors returned by Scan.
var (
	ErrForceStopped       = errors.New("lexer was stopped")
	ErrUnterminatedString = errors.New("unterminated string")
	ErrInvalidEncoding    = errors.New("invalid UTF-8 encoding")
)

type lexState func(*Lexer) lexState

var (
	isOpenList  = isTokenType(TokenOpenList)
	isCloseList = isTokenType(TokenCloseList)

	isOpenMap  = isTokenType(TokenOpenMap)
	isCloseMap = isTokenType(TokenCloseMap)

	isOpenExpression  = isTokenType(TokenOpenExpression)
	isCloseExpression = isTokenType(TokenCloseExpression)

	isNewLine    = isTokenType(TokenNewLine)
	isWhitespace = isTokenType(TokenWhitespace)
	isComment    = isTokenType(TokenComment)
	isQuote      = isTokenType(TokenString)
)

// New initializes a Lexer object
func New(r io.Reader) *Lexer {
	lx := &Lexer{
		tokens: make(chan Token),
		done:   make(chan struct{}),
		buf:    []rune{},

		line:      1,
		col:       1,
		startLine: 1,
		startCol:  1,
	}

	s := &scanner.Scanner{}
	lx.in = s.Init(r)
	lx.in.Error = func(_ *scanner.Scanner, msg string) {
		if lx.lastErr == nil {
			lx.lastErr = fmt.Errorf("%w: %s at line %d, column %d", ErrInvalidEncoding, msg, lx.line, lx.col)
		}
	}

	return lx
}

// Lexer represents a lexical analyzer
type Lexer struct {
	in *scanner.Scanner

	tokens chan Token
	tok    Token

	done     chan struct{}
	stopOnce sync.Once
	lastErr  error

	buf []rune

	line int
	col  int

	startLine int
	startCol  int
}

// Tokens returns a channel that is going to receive tokens as soon as they are
// detected.
func (lx *Lexer) Tokens() <-chan Token {
	return lx.tokens
}

// Next waits for the next token and reports whether there was one.
func (lx *Lexer) Next() bool {
	tok, ok := <-lx.tokens
	if !ok {
		return false
	}
	lx.tok = tok
	return true
}

// Token returns the token read by the last call to Next.
func (lx *Lexer) Token() Token {
	return lx.tok
}

// Stop makes a running Scan return ErrForceStopped. It is safe to call Stop
// more than once.
func (lx *Lexer) Stop() {
	lx.stopOnce.Do(func() {
		close(lx.done)
	})
}

func (lx *Lexer) stopped() bool {
	select {
	case <-lx.done:
		return true
	default:
		return false
	}
}

// Scan starts scanning the reader for tokens. The tokens channel is closed
// when Scan returns.
func (lx *Lexer) Scan() error {
	defer close(lx.tokens)

	for state := lexDefaultState; state != nil; {
		if lx.stopped() {
			return ErrForceStopped
		}
		state = state(lx)
	}

	if lx.lastErr != nil {
		return lx.lastErr
	}

	if !lx.emit(TokenEOF) {
		return ErrForceStopped
	}
	return nil
}

func (lx *Lexer) emit(tt TokenType) bool {
	tok := Token{
		tt:   tt,
		text: string(lx.buf),

		line: lx.startLine,
		col:  lx.startCol,
	}

	lx.buf = lx.buf[0:0]
	lx.startLine, lx.startCol = lx.line, lx.col

	if lx.stopped() {
		lx.lastErr = ErrForceStopped
		return false
	}

	select {
	case lx.tokens <- tok:
		return true
	case <-lx.done:
		lx.lastErr = ErrForceStopped
		return false
	}
}

func (lx *Lexer) peek() rune {
	return lx.in.Peek()
}

func (lx *Lexer) next() (rune, error) {
	r := lx.in.Next()
	if r == scanner.EOF {
		return rune(0), io.EOF
	}

	lx.buf = append(lx.buf, r)
	if isNewLine(r) {
		lx.line++
		lx.col = 1
	} else {
		lx.col++
	}
	return r, nil
}

func lexDefaultState(lx *Lexer) lexState {
	r, err := lx.next()
	if err != nil {
		return nil
	}

	switch {

	case isOpenList(r):
		return lexEmit(TokenOpenList)
	case isCloseList(r):
		return lexEmit(TokenCloseList)

	case isOpenMap(r):
		return lexEmit(TokenOpenMap)
	case isCloseMap(r):
		return lexEmit(TokenCloseMap)

	case isOpenExpression(r):
		return lexEmit(TokenOpenExpression)
	case isCloseExpression(r):
		return lexEmit(TokenCloseExpression)

	case r == '#' && lx.peek() == '{':
		if _, err := lx.next(); err != nil {
			return nil
		}
		return lexEmit(TokenOpenSet)

	case isNewLine(r):
		return lexEmit(TokenNewLine)
	case isWhitespace(r):
		return lexCollectStream(TokenWhitespace)
	case isComment(r):
		return lexComment

	case isQuote(r):
		return lexQuoted(TokenString)
	case r == 'b' && isQuote(lx.peek()):
		if _, err := lx.next(); err != nil {
			return nil
		}
		return lexQuoted(TokenBytes)
	}

	return lexWord
}

func lexWord(lx *Lexer) lexState {
	for p := lx.peek(); p != scanner.EOF && !isDelimiter(p); p = lx.peek() {
		if _, err := lx.next(); err != nil {
			return nil
		}
	}
	return lexEmit(TokenWord)
}

func lexComment(lx *Lexer) lexState {
	for p := lx.peek(); p != scanner.EOF && !isNewLine(p); p = lx.peek() {
		if _, err := lx.next(); err != nil {
			return nil
		}
	}
	return lexEmit(TokenComment)
}

// lexQuoted reads up to the closing quote, the opening quote has already
// been consumed. Escapes are kept as written.
func lexQuoted(tt TokenType) lexState {
	return func(lx *Lexer) lexState {
		for {
			r, err := lx.next()
			if err != nil {
				return lexStateError(fmt.Errorf("%w starting at line %d, column %d", ErrUnterminatedString, lx.startLine, lx.startCol))
			}
			switch {
			case r == '\\':
				if _, err := lx.next(); err != nil {
					return lexStateError(fmt.Errorf("%w starting at line %d, column %d", ErrUnterminatedString, lx.startLine, lx.startCol))
				}
			case isQuote(r):
				return lexEmit(tt)
			}
		}
	}
}

func lexEmit(tt TokenType) lexState {
	return func(lx *Lexer) lexState {
		if !lx.emit(tt) {
			return nil
		}
		return lexDefaultState
	}
}

func lexCollectStream(tt TokenType) lexState {
	return func(lx *Lexer) lexState {
		for (isTokenType(tt))(lx.peek()) {
			if _, err := lx.next(); err != nil {
				return nil
			}
		}
		return lexEmit(tt)
	}
}

func lexStateError(err error) lexState {
	return func(lx *Lexer) lexState {
		lx.lastErr = err
		return nil
	}
}

// Tokenize takes an array of bytes and returns all the tokens within it,
// or an error if a token can't be identified.
func Tokenize(in []byte) ([]Token, error) {
	tokens := []Token{}
	done := make(chan struct{})

	lx := New(bytes.NewReader(in))

	go func() {
		for tok := range lx.tokens {
			tokens = append(tokens, tok)
		}
		close(done)
	}()

	err := lx.Scan()
	<-done

	if err != nil {
		return nil, err
	}
	return tokens, nil
}
