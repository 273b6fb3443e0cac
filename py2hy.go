// Package py2hy translates Python programs into Hy, the Lisp that compiles
// to Python, preserving what they do.
//
// Source trees come from package pyast and the result is a document of Hy
// forms built with package ast, ready to be written with ast.Encode or
// ast.Indent.
package py2hy

import (
	"context"
	"fmt"
	"log"
	"runtime"

	"github.com/xiam/py2hy/ast"
	"github.com/xiam/py2hy/parser"
	"github.com/xiam/py2hy/pyast"
	"golang.org/x/sync/errgroup"
)

// Options changes how a Translator works.
type Options struct {
	// MaxDepth bounds how deeply constructs may nest before translation fails
	// with ErrNestingTooDeep.
	MaxDepth int

	// Parallelism is the number of units TranslateUnits works on at once.
	Parallelism int

	// Width is the line width Source lays forms out for, zero writes every
	// top-level form on a single line.
	Width int

	// Verify makes Source read its own output back and fail when it does not
	// produce the same forms.
	Verify bool

	// Logger receives a line for every unit TranslateUnits starts and
	// finishes. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns the options used by NewTranslator(nil).
func DefaultOptions() Options {
	return Options{
		MaxDepth:    2000,
		Parallelism: runtime.GOMAXPROCS(0),
		Width:       80,
	}
}

// Translator turns Python modules into Hy documents. It holds no state
// besides its options and is safe for concurrent use.
type Translator struct {
	opts Options
}

// NewTranslator creates a translator. A nil opts means DefaultOptions.
func NewTranslator(opts *Options) *Translator {
	t := &Translator{opts: DefaultOptions()}
	if opts != nil {
		t.SetOptions(*opts)
	}
	return t
}

// SetOptions replaces the options of the translator. Zero values of
// MaxDepth and Parallelism keep their defaults.
func (t *Translator) SetOptions(opts Options) {
	defaults := DefaultOptions()
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = defaults.MaxDepth
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = defaults.Parallelism
	}
	if opts.Width < 0 {
		opts.Width = 0
	}
	t.opts = opts
}

// Options returns the options in use.
func (t *Translator) Options() Options {
	return t.opts
}

// Translate converts a module into a document holding one Hy form per
// top-level statement. On failure no document is returned and the error is
// an *Error.
func (t *Translator) Translate(mod *pyast.Module) (*ast.Node, error) {
	if mod == nil {
		return nil, &Error{Err: ErrMalformedInput, Construct: "Module", Reason: "missing module"}
	}
	return newUnit(t.opts, mod.Filename).module(mod)
}

// Source translates a module and lays the result out as Hy text.
func (t *Translator) Source(mod *pyast.Module) ([]byte, error) {
	doc, err := t.Translate(mod)
	if err != nil {
		return nil, err
	}
	return t.source(doc, mod.Filename)
}

func (t *Translator) source(doc *ast.Node, file string) ([]byte, error) {
	var out []byte
	if t.opts.Width > 0 {
		out = ast.Indent(doc, t.opts.Width)
	} else {
		out = ast.Encode(doc)
	}

	if t.opts.Verify {
		back, err := parser.Parse(out)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %v", file, ErrVerification, err)
		}
		if !ast.Equal(doc, back) {
			return nil, fmt.Errorf("%s: %w: forms changed", file, ErrVerification)
		}
	}

	if len(out) > 0 {
		out = append(out, '\n')
	}
	return out, nil
}

// Unit is one module to translate with TranslateUnits.
type Unit struct {
	Name   string
	Module *pyast.Module
}

// Result is the outcome of translating a Unit. Form and Source are only set
// when Err is nil.
type Result struct {
	Name   string
	Form   *ast.Node
	Source []byte
	Err    error
}

// TranslateUnits translates independent modules concurrently, at most
// Options.Parallelism at a time. Results keep the order of units. A failing
// unit does not stop the others; cancelling ctx skips the units that did not
// start yet, their result carries ctx.Err().
func (t *Translator) TranslateUnits(ctx context.Context, units []Unit) []Result {
	results := make([]Result, len(units))

	var g errgroup.Group
	g.SetLimit(t.opts.Parallelism)

	for i := range units {
		i := i
		g.Go(func() error {
			results[i] = t.translateUnit(ctx, units[i])
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (t *Translator) translateUnit(ctx context.Context, u Unit) Result {
	res := Result{Name: u.Name}
	if err := ctx.Err(); err != nil {
		res.Err = err
		t.logf("%s: skipped: %v", u.Name, err)
		return res
	}

	t.logf("%s: translating", u.Name)

	doc, err := t.Translate(u.Module)
	if err == nil {
		res.Source, err = t.source(doc, u.Name)
	}
	if err != nil {
		res.Err = err
		t.logf("%s: failed: %v", u.Name, err)
		return res
	}

	res.Form = doc
	t.logf("%s: done, %d forms", u.Name, doc.Len())
	return res
}

func (t *Translator) logf(format string, args ...interface{}) {
	if t.opts.Logger != nil {
		t.opts.Logger.Printf(format, args...)
	}
}
