package pyast

// StmtVisitor has one method per statement type.
type StmtVisitor interface {
	VisitFunctionDef(*FunctionDef) error
	VisitClassDef(*ClassDef) error
	VisitReturn(*Return) error
	VisitDelete(*Delete) error
	VisitAssign(*Assign) error
	VisitAugAssign(*AugAssign) error
	VisitAnnAssign(*AnnAssign) error
	VisitFor(*For) error
	VisitWhile(*While) error
	VisitIf(*If) error
	VisitWith(*With) error
	VisitRaise(*Raise) error
	VisitTry(*Try) error
	VisitAssert(*Assert) error
	VisitImport(*Import) error
	VisitImportFrom(*ImportFrom) error
	VisitGlobal(*Global) error
	VisitNonlocal(*Nonlocal) error
	VisitExprStmt(*ExprStmt) error
	VisitPass(*Pass) error
	VisitBreak(*Break) error
	VisitContinue(*Continue) error
	VisitMatch(*Match) error
}

// FunctionDef is a def or async def statement.
type FunctionDef struct {
	Pos
	Name       string
	Args       *Arguments
	Body       []Stmt
	Decorators []Expr
	Returns    Expr
	Async      bool
}

// ClassDef is a class statement.
type ClassDef struct {
	Pos
	Name       string
	Bases      []Expr
	Keywords   []*Keyword
	Body       []Stmt
	Decorators []Expr
}

// Return is a return statement. Value is nil for a bare return.
type Return struct {
	Pos
	Value Expr
}

// Delete is a del statement.
type Delete struct {
	Pos
	Targets []Expr
}

// Assign binds Value to every target, left to right: a = b = value.
type Assign struct {
	Pos
	Targets []Expr
	Value   Expr
}

// AugAssign is an augmented assignment such as x += 1.
type AugAssign struct {
	Pos
	Target Expr
	Op     BinaryOp
	Value  Expr
}

// AnnAssign is an annotated assignment. Value is nil for a bare annotation.
type AnnAssign struct {
	Pos
	Target     Expr
	Annotation Expr
	Value      Expr
	Simple     bool
}

// For is a for or async for loop.
type For struct {
	Pos
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
	Async  bool
}

// While is a while loop.
type While struct {
	Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// If is an if statement; elif chains nest in Orelse.
type If struct {
	Pos
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

// With is a with or async with statement.
type With struct {
	Pos
	Items []*WithItem
	Body  []Stmt
	Async bool
}

// Raise is a raise statement.
type Raise struct {
	Pos
	Exc   Expr
	Cause Expr
}

// Try is a try statement. Star marks except* clauses.
type Try struct {
	Pos
	Body     []Stmt
	Handlers []*ExceptHandler
	Orelse   []Stmt
	Finally  []Stmt
	Star     bool
}

// Assert is an assert statement.
type Assert struct {
	Pos
	Test Expr
	Msg  Expr
}

// Import is an import statement.
type Import struct {
	Pos
	Names []*Alias
}

// ImportFrom is a from ... import statement. Level counts leading dots.
type ImportFrom struct {
	Pos
	Module string
	Names  []*Alias
	Level  int
}

// Global is a global declaration.
type Global struct {
	Pos
	Names []string
}

// Nonlocal is a nonlocal declaration.
type Nonlocal struct {
	Pos
	Names []string
}

// ExprStmt is an expression evaluated for its side effects.
type ExprStmt struct {
	Pos
	Value Expr
}

// Pass is a pass statement.
type Pass struct {
	Pos
}

// Break is a break statement.
type Break struct {
	Pos
}

// Continue is a continue statement.
type Continue struct {
	Pos
}

// Match is a match statement. Only the subject is kept: case patterns have
// no Hy counterpart.
type Match struct {
	Pos
	Subject Expr
}

func (n *FunctionDef) Accept(v StmtVisitor) error { return v.VisitFunctionDef(n) }
func (n *ClassDef) Accept(v StmtVisitor) error    { return v.VisitClassDef(n) }
func (n *Return) Accept(v StmtVisitor) error      { return v.VisitReturn(n) }
func (n *Delete) Accept(v StmtVisitor) error      { return v.VisitDelete(n) }
func (n *Assign) Accept(v StmtVisitor) error      { return v.VisitAssign(n) }
func (n *AugAssign) Accept(v StmtVisitor) error   { return v.VisitAugAssign(n) }
func (n *AnnAssign) Accept(v StmtVisitor) error   { return v.VisitAnnAssign(n) }
func (n *For) Accept(v StmtVisitor) error         { return v.VisitFor(n) }
func (n *While) Accept(v StmtVisitor) error       { return v.VisitWhile(n) }
func (n *If) Accept(v StmtVisitor) error          { return v.VisitIf(n) }
func (n *With) Accept(v StmtVisitor) error        { return v.VisitWith(n) }
func (n *Raise) Accept(v StmtVisitor) error       { return v.VisitRaise(n) }
func (n *Try) Accept(v StmtVisitor) error         { return v.VisitTry(n) }
func (n *Assert) Accept(v StmtVisitor) error      { return v.VisitAssert(n) }
func (n *Import) Accept(v StmtVisitor) error      { return v.VisitImport(n) }
func (n *ImportFrom) Accept(v StmtVisitor) error  { return v.VisitImportFrom(n) }
func (n *Global) Accept(v StmtVisitor) error      { return v.VisitGlobal(n) }
func (n *Nonlocal) Accept(v StmtVisitor) error    { return v.VisitNonlocal(n) }
func (n *ExprStmt) Accept(v StmtVisitor) error    { return v.VisitExprStmt(n) }
func (n *Pass) Accept(v StmtVisitor) error        { return v.VisitPass(n) }
func (n *Break) Accept(v StmtVisitor) error       { return v.VisitBreak(n) }
func (n *Continue) Accept(v StmtVisitor) error    { return v.VisitContinue(n) }
func (n *Match) Accept(v StmtVisitor) error       { return v.VisitMatch(n) }

func (n *FunctionDef) Children() []Node {
	out := exprListNodes(nil, n.Decorators)
	if n.Args != nil {
		out = append(out, n.Args)
	}
	out = exprNodes(out, n.Returns)
	return stmtNodes(out, n.Body)
}

func (n *ClassDef) Children() []Node {
	out := exprListNodes(nil, n.Decorators)
	out = exprListNodes(out, n.Bases)
	for _, k := range n.Keywords {
		out = append(out, k)
	}
	return stmtNodes(out, n.Body)
}

func (n *Return) Children() []Node { return exprNodes(nil, n.Value) }
func (n *Delete) Children() []Node { return exprListNodes(nil, n.Targets) }

func (n *Assign) Children() []Node {
	return exprNodes(exprListNodes(nil, n.Targets), n.Value)
}

func (n *AugAssign) Children() []Node { return exprNodes(nil, n.Target, n.Value) }

func (n *AnnAssign) Children() []Node {
	return exprNodes(nil, n.Target, n.Annotation, n.Value)
}

func (n *For) Children() []Node {
	out := exprNodes(nil, n.Target, n.Iter)
	return stmtNodes(stmtNodes(out, n.Body), n.Orelse)
}

func (n *While) Children() []Node {
	return stmtNodes(stmtNodes(exprNodes(nil, n.Test), n.Body), n.Orelse)
}

func (n *If) Children() []Node {
	return stmtNodes(stmtNodes(exprNodes(nil, n.Test), n.Body), n.Orelse)
}

func (n *With) Children() []Node {
	var out []Node
	for _, item := range n.Items {
		out = append(out, item)
	}
	return stmtNodes(out, n.Body)
}

func (n *Raise) Children() []Node { return exprNodes(nil, n.Exc, n.Cause) }

func (n *Try) Children() []Node {
	out := stmtNodes(nil, n.Body)
	for _, h := range n.Handlers {
		out = append(out, h)
	}
	return stmtNodes(stmtNodes(out, n.Orelse), n.Finally)
}

func (n *Assert) Children() []Node     { return exprNodes(nil, n.Test, n.Msg) }
func (n *Import) Children() []Node     { return aliasNodes(n.Names) }
func (n *ImportFrom) Children() []Node { return aliasNodes(n.Names) }
func (n *Global) Children() []Node     { return nil }
func (n *Nonlocal) Children() []Node   { return nil }
func (n *ExprStmt) Children() []Node   { return exprNodes(nil, n.Value) }
func (n *Pass) Children() []Node       { return nil }
func (n *Break) Children() []Node      { return nil }
func (n *Continue) Children() []Node   { return nil }
func (n *Match) Children() []Node      { return exprNodes(nil, n.Subject) }

func aliasNodes(names []*Alias) []Node {
	out := make([]Node, 0, len(names))
	for _, a := range names {
		out = append(out, a)
	}
	return out
}
