package py2hy

import (
	"github.com/xiam/py2hy/pyast"
)

type frameKind uint8

const (
	frameDef frameKind = iota
	frameLambda
	frameComprehension
)

// frame describes the innermost function a construct belongs to.
type frame struct {
	kind      frameKind
	async     bool
	generator bool
}

type position uint8

const (
	posStmt position = iota
	posExpr
	posTail
)

// translationContext is passed by value. Every enter method returns a
// modified copy, so leaving a construct never needs to undo anything.
type translationContext struct {
	scope  *scope
	fn     *frame
	inLoop bool
	pos    position
	depth  int
	at     pyast.Pos
}

func (tc translationContext) enterScope(s *scope, fn *frame) translationContext {
	tc.scope = s
	tc.fn = fn
	tc.inLoop = false
	tc.pos = posStmt
	return tc
}

func (tc translationContext) enterLoop() translationContext {
	tc.inLoop = true
	tc.pos = posStmt
	return tc
}

func (tc translationContext) withPosition(pos position) translationContext {
	tc.pos = pos
	return tc
}

func (tc translationContext) stmt() translationContext {
	return tc.withPosition(posStmt)
}

func (tc translationContext) expr() translationContext {
	return tc.withPosition(posExpr)
}

func (tc translationContext) tail() translationContext {
	return tc.withPosition(posTail)
}

func (tc translationContext) inFunction() bool {
	return tc.fn != nil && tc.fn.kind != frameComprehension
}

func (tc translationContext) inComprehension() bool {
	return tc.fn != nil && tc.fn.kind == frameComprehension
}

// inNamespace reports whether names bound here end up in a module or class
// namespace, where temporaries must be deleted after use.
func (tc translationContext) inNamespace() bool {
	return tc.scope != nil && (tc.scope.kind == scopeModule || tc.scope.kind == scopeClass)
}

// enter records that n is being translated one level deeper.
func (u *unit) enter(tc translationContext, n pyast.Node) (translationContext, error) {
	tc.depth++
	if n != nil && n.Position().IsValid() {
		tc.at = n.Position()
	}
	if tc.depth > u.opts.MaxDepth {
		return tc, u.fail(ErrNestingTooDeep, n, tc.at, "more than %d levels", u.opts.MaxDepth)
	}
	return tc, nil
}
