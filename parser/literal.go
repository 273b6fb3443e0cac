package parser

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/xiam/py2hy/ast"
)

// ParseAtom classifies a bare word the way the Hy reader does: integers,
// floats and imaginary numbers first, then keywords, then symbols.
func ParseAtom(text string) ast.Valuer {
	if i, ok := parseInt(text); ok {
		return ast.NewIntValue(i)
	}
	if f, ok := parseFloat(text); ok {
		return ast.NewFloatValue(f)
	}
	if n := len(text); n > 1 && (text[n-1] == 'j' || text[n-1] == 'J') {
		if f, ok := parseFloat(text[:n-1]); ok {
			return ast.NewComplexValue(f)
		}
		if i, ok := parseInt(text[:n-1]); ok {
			f, _ := new(big.Float).SetInt(i).Float64()
			return ast.NewComplexValue(f)
		}
	}
	if len(text) > 1 && text[0] == ':' {
		return ast.NewKeywordValue(text[1:])
	}
	return ast.NewSymbolValue(text)
}

func parseInt(text string) (*big.Int, bool) {
	digits, neg := text, false
	if len(digits) > 0 && (digits[0] == '-' || digits[0] == '+') {
		neg = digits[0] == '-'
		digits = digits[1:]
	}

	base := 10
	if len(digits) > 2 && digits[0] == '0' {
		switch digits[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 10 {
			digits = digits[2:]
		}
	}

	if digits == "" || strings.ContainsAny(digits, "+-") {
		return nil, false
	}

	i, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, false
	}
	if neg {
		i.Neg(i)
	}
	return i, true
}

func parseFloat(text string) (float64, bool) {
	switch text {
	case "Inf", "+Inf":
		return math.Inf(1), true
	case "-Inf":
		return math.Inf(-1), true
	case "NaN":
		return math.NaN(), true
	}

	if !strings.ContainsAny(text, "0123456789") || strings.ContainsAny(text, "xXpP_") {
		return 0, false
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}

// UnquoteString decodes a string literal, quotes included.
func UnquoteString(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", fmt.Errorf("%w: %s", ErrInvalidLiteral, lit)
	}

	var b strings.Builder
	s := lit[1 : len(lit)-1]
	for len(s) > 0 {
		r, _, tail, err := strconv.UnquoteChar(s, '"')
		if err != nil {
			return "", fmt.Errorf("%w: %s", ErrInvalidLiteral, lit)
		}
		b.WriteRune(r)
		s = tail
	}
	return b.String(), nil
}

// UnquoteBytes decodes a bytes literal such as b"\x00a".
func UnquoteBytes(lit string) ([]byte, error) {
	if len(lit) < 3 || lit[0] != 'b' || lit[1] != '"' || lit[len(lit)-1] != '"' {
		return nil, fmt.Errorf("%w: %s", ErrInvalidLiteral, lit)
	}

	out := []byte{}
	s := lit[2 : len(lit)-1]
	for len(s) > 0 {
		r, multibyte, tail, err := strconv.UnquoteChar(s, '"')
		if err != nil || multibyte || r >= utf8.RuneSelf && !strings.HasPrefix(s, `\x`) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidLiteral, lit)
		}
		out = append(out, byte(r))
		s = tail
	}
	return out, nil
}
