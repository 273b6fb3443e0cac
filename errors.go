package py2hy

import (
	"errors"
	"fmt"

	"github.com/xiam/py2hy/pyast"
)

// Translation failures. Every error returned by the translator wraps one of
// them and can be matched with errors.Is.
var (
	ErrUnsupportedConstruct = errors.New("unsupported construct")
	ErrMalformedInput       = errors.New("malformed input")
	ErrNestingTooDeep       = errors.New("nesting too deep")
	ErrVerification         = errors.New("output does not read back")
)

// Error describes why a construct could not be translated.
type Error struct {
	Err       error
	Construct string
	File      string
	Pos       pyast.Pos
	Reason    string
}

func (e *Error) Error() string {
	where := e.Pos.String()
	if e.File != "" {
		where = e.File + ":" + where
	}
	if e.Reason == "" {
		return fmt.Sprintf("%s: %v: %s", where, e.Err, e.Construct)
	}
	return fmt.Sprintf("%s: %v: %s: %s", where, e.Err, e.Construct, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (u *unit) fail(err error, n pyast.Node, pos pyast.Pos, format string, args ...interface{}) error {
	if n != nil && n.Position().IsValid() {
		pos = n.Position()
	}
	return &Error{
		Err:       err,
		Construct: pyast.Kind(n),
		File:      u.file,
		Pos:       pos,
		Reason:    fmt.Sprintf(format, args...),
	}
}

func (u *unit) unsupported(tc translationContext, n pyast.Node, format string, args ...interface{}) error {
	return u.fail(ErrUnsupportedConstruct, n, tc.at, format, args...)
}

func (u *unit) malformed(tc translationContext, n pyast.Node, format string, args ...interface{}) error {
	return u.fail(ErrMalformedInput, n, tc.at, format, args...)
}
