package parser

import (
	"errors"
)

var (
	ErrUnexpectedEOF   = errors.New("unexpected EOF")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrInvalidLiteral  = errors.New("invalid literal")
)
