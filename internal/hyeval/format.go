package hyeval

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// formatSpec is a parsed format specification:
// [[fill]align][sign][,][0][width][.precision][type]
type formatSpec struct {
	fill      rune
	align     byte
	sign      byte
	comma     bool
	width     int
	precision int
	kind      byte
}

func parseFormatSpec(spec string) (formatSpec, error) {
	fs := formatSpec{fill: ' ', precision: -1}
	s := spec

	isAlign := func(c byte) bool { return c == '<' || c == '>' || c == '^' || c == '=' }
	if r, size := utf8.DecodeRuneInString(s); size > 0 && size < len(s) && isAlign(s[size]) {
		fs.fill, fs.align = r, s[size]
		s = s[size+1:]
	} else if len(s) > 0 && isAlign(s[0]) {
		fs.align = s[0]
		s = s[1:]
	}
	if len(s) > 0 && (s[0] == '+' || s[0] == '-' || s[0] == ' ') {
		fs.sign = s[0]
		s = s[1:]
	}
	if len(s) > 0 && s[0] == '0' {
		if fs.align == 0 {
			fs.fill, fs.align = '0', '='
		}
		s = s[1:]
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 {
		fs.width, _ = strconv.Atoi(s[:i])
		s = s[i:]
	}
	if len(s) > 0 && s[0] == ',' {
		fs.comma = true
		s = s[1:]
	}
	if len(s) > 0 && s[0] == '.' {
		i = 1
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == 1 {
			return fs, fmt.Errorf("format specifier missing precision")
		}
		fs.precision, _ = strconv.Atoi(s[1:i])
		s = s[i:]
	}
	if len(s) > 1 {
		return fs, fmt.Errorf("invalid format specifier %q", spec)
	}
	if len(s) == 1 {
		fs.kind = s[0]
	}
	return fs, nil
}

// formatValue implements format(v, spec) for numbers and strings.
func formatValue(v *Value, spec string) (string, error) {
	if spec == "" {
		return v.String(), nil
	}
	fs, err := parseFormatSpec(spec)
	if err != nil {
		return "", err
	}

	var body, sign string
	switch {
	case v.Type == ValueTypeString:
		if fs.kind != 0 && fs.kind != 's' {
			return "", fmt.Errorf("unknown format code '%c' for object of type 'str'", fs.kind)
		}
		body = v.Str()
		if fs.precision >= 0 && utf8.RuneCountInString(body) > fs.precision {
			body = string([]rune(body)[:fs.precision])
		}
		if fs.align == 0 {
			fs.align = '<'
		}
		return pad(body, "", fs), nil
	case isNumber(v):
		f := v.Float64()
		integral := v.Type != ValueTypeFloat
		negative := f < 0 || (integral && v.Int() < 0)

		switch fs.kind {
		case 'd', 'x', 'X', 'o', 'b':
			if !integral {
				return "", fmt.Errorf("unknown format code '%c' for object of type 'float'", fs.kind)
			}
			i := v.Int()
			if i < 0 {
				i = -i
			}
			base := map[byte]int{'d': 10, 'x': 16, 'X': 16, 'o': 8, 'b': 2}[fs.kind]
			body = strconv.FormatInt(i, base)
			if fs.kind == 'X' {
				body = strings.ToUpper(body)
			}
		case 'f', 'F', 'e', 'E', 'g', 'G', '%':
			if f < 0 {
				f = -f
			}
			prec := fs.precision
			if prec < 0 {
				prec = 6
			}
			kind := fs.kind
			if kind == '%' {
				f *= 100
				kind = 'f'
			}
			body = strconv.FormatFloat(f, kind, prec, 64)
			if fs.kind == '%' {
				body += "%"
			}
		case 0:
			if integral {
				i := v.Int()
				if i < 0 {
					i = -i
				}
				body = strconv.FormatInt(i, 10)
			} else {
				if f < 0 {
					f = -f
				}
				if fs.precision >= 0 {
					body = strconv.FormatFloat(f, 'g', fs.precision, 64)
				} else {
					body = formatFloat(f)
				}
			}
		default:
			return "", fmt.Errorf("unknown format code '%c' for object of type '%s'", fs.kind, v.Type)
		}

		if fs.comma {
			body = groupThousands(body)
		}
		switch {
		case negative:
			sign = "-"
		case fs.sign == '+':
			sign = "+"
		case fs.sign == ' ':
			sign = " "
		}
		if fs.align == 0 {
			fs.align = '>'
		}
		return pad(body, sign, fs), nil
	}
	return "", fmt.Errorf("unsupported format string passed to %s.__format__", v.Type)
}

func groupThousands(s string) string {
	digits, rest := s, ""
	if i := strings.IndexAny(s, ".eE%"); i >= 0 {
		digits, rest = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + rest
}

func pad(body, sign string, fs formatSpec) string {
	n := fs.width - utf8.RuneCountInString(body) - len(sign)
	if n <= 0 {
		return sign + body
	}
	fill := strings.Repeat(string(fs.fill), n)
	switch fs.align {
	case '<':
		return sign + body + fill
	case '^':
		left := strings.Repeat(string(fs.fill), n/2)
		return left + sign + body + fill[len(left):]
	case '=':
		return sign + fill + body
	}
	return fill + sign + body
}

func builtinFormat(in *Interpreter, args []*Value, kwargs map[string]*Value) (*Value, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, in.raise("TypeError", "format expected 1 or 2 arguments")
	}
	spec := ""
	if len(args) == 2 {
		spec = args[1].Str()
	}
	s, err := formatValue(args[0], spec)
	if err != nil {
		return nil, in.raise("ValueError", err.Error())
	}
	return NewString(s), nil
}
