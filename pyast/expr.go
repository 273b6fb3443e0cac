package pyast

// ExprVisitor has one method per expression type.
type ExprVisitor interface {
	VisitBoolOp(*BoolOp) error
	VisitNamedExpr(*NamedExpr) error
	VisitBinOp(*BinOp) error
	VisitUnaryOp(*UnaryOp) error
	VisitLambda(*Lambda) error
	VisitIfExp(*IfExp) error
	VisitDict(*Dict) error
	VisitSet(*Set) error
	VisitList(*List) error
	VisitTuple(*Tuple) error
	VisitComprehension(*Comprehension) error
	VisitAwait(*Await) error
	VisitYield(*Yield) error
	VisitYieldFrom(*YieldFrom) error
	VisitCompare(*Compare) error
	VisitCall(*Call) error
	VisitFormattedValue(*FormattedValue) error
	VisitJoinedStr(*JoinedStr) error
	VisitConstant(*Constant) error
	VisitAttribute(*Attribute) error
	VisitSubscript(*Subscript) error
	VisitStarred(*Starred) error
	VisitName(*Name) error
	VisitSlice(*Slice) error
}

// BoolOp is a chain of and/or over two or more values.
type BoolOp struct {
	Pos
	Op     BoolOperator
	Values []Expr
}

// NamedExpr is an assignment expression: target := value.
type NamedExpr struct {
	Pos
	Target *Name
	Value  Expr
}

// BinOp is a binary operation.
type BinOp struct {
	Pos
	Left  Expr
	Op    BinaryOp
	Right Expr
}

// UnaryOp is a unary operation.
type UnaryOp struct {
	Pos
	Op      UnaryOperator
	Operand Expr
}

// Lambda is a lambda expression.
type Lambda struct {
	Pos
	Args *Arguments
	Body Expr
}

// IfExp is a conditional expression: Body if Test else Orelse.
type IfExp struct {
	Pos
	Test   Expr
	Body   Expr
	Orelse Expr
}

// Dict is a dict display. A nil key marks a **mapping unpacking whose
// mapping is the value at the same index.
type Dict struct {
	Pos
	Keys   []Expr
	Values []Expr
}

// Set is a non-empty set display.
type Set struct {
	Pos
	Elts []Expr
}

// List is a list display or a list assignment target.
type List struct {
	Pos
	Elts []Expr
	Ctx  ExprContext
}

// Tuple is a tuple display or a tuple assignment target.
type Tuple struct {
	Pos
	Elts []Expr
	Ctx  ExprContext
}

// Comprehension is a list, set or dict comprehension or a generator
// expression. Value is only set for dict comprehensions, where Elt is the key.
type Comprehension struct {
	Pos
	Kind       CompKind
	Elt        Expr
	Value      Expr
	Generators []*CompFor
}

// Await is an await expression.
type Await struct {
	Pos
	Value Expr
}

// Yield is a yield expression. Value is nil for a bare yield.
type Yield struct {
	Pos
	Value Expr
}

// YieldFrom is a yield from expression.
type YieldFrom struct {
	Pos
	Value Expr
}

// Compare is a comparison chain: Left Ops[0] Comparators[0] Ops[1] ...
type Compare struct {
	Pos
	Left        Expr
	Ops         []CmpOp
	Comparators []Expr
}

// Call is a call expression. Keywords keep their source order.
type Call struct {
	Pos
	Func     Expr
	Args     []Expr
	Keywords []*Keyword
}

// FormattedValue is a replacement field of an f-string. Conversion is 0,
// 's', 'r' or 'a'.
type FormattedValue struct {
	Pos
	Value      Expr
	Conversion rune
	FormatSpec Expr
}

// JoinedStr is an f-string.
type JoinedStr struct {
	Pos
	Values []Expr
}

// Constant is a literal. Value holds the decimal digits of ints, the repr of
// floats, the repr of the imaginary part of complex numbers, the text of
// strings, the raw bytes of bytes literals and "True"/"False" for booleans.
type Constant struct {
	Pos
	Kind  ConstKind
	Value string
}

// Attribute is attribute access: Value.Attr.
type Attribute struct {
	Pos
	Value Expr
	Attr  string
	Ctx   ExprContext
}

// Subscript is item access: Value[Slice].
type Subscript struct {
	Pos
	Value Expr
	Slice Expr
	Ctx   ExprContext
}

// Starred is *value in calls, displays and assignment targets.
type Starred struct {
	Pos
	Value Expr
	Ctx   ExprContext
}

// Name is an identifier with its role.
type Name struct {
	Pos
	ID  string
	Ctx ExprContext
}

// Slice is lower:upper:step inside a subscript. Any part may be nil.
type Slice struct {
	Pos
	Lower Expr
	Upper Expr
	Step  Expr
}

func (n *BoolOp) Accept(v ExprVisitor) error         { return v.VisitBoolOp(n) }
func (n *NamedExpr) Accept(v ExprVisitor) error      { return v.VisitNamedExpr(n) }
func (n *BinOp) Accept(v ExprVisitor) error          { return v.VisitBinOp(n) }
func (n *UnaryOp) Accept(v ExprVisitor) error        { return v.VisitUnaryOp(n) }
func (n *Lambda) Accept(v ExprVisitor) error         { return v.VisitLambda(n) }
func (n *IfExp) Accept(v ExprVisitor) error          { return v.VisitIfExp(n) }
func (n *Dict) Accept(v ExprVisitor) error           { return v.VisitDict(n) }
func (n *Set) Accept(v ExprVisitor) error            { return v.VisitSet(n) }
func (n *List) Accept(v ExprVisitor) error           { return v.VisitList(n) }
func (n *Tuple) Accept(v ExprVisitor) error          { return v.VisitTuple(n) }
func (n *Comprehension) Accept(v ExprVisitor) error  { return v.VisitComprehension(n) }
func (n *Await) Accept(v ExprVisitor) error          { return v.VisitAwait(n) }
func (n *Yield) Accept(v ExprVisitor) error          { return v.VisitYield(n) }
func (n *YieldFrom) Accept(v ExprVisitor) error      { return v.VisitYieldFrom(n) }
func (n *Compare) Accept(v ExprVisitor) error        { return v.VisitCompare(n) }
func (n *Call) Accept(v ExprVisitor) error           { return v.VisitCall(n) }
func (n *FormattedValue) Accept(v ExprVisitor) error { return v.VisitFormattedValue(n) }
func (n *JoinedStr) Accept(v ExprVisitor) error      { return v.VisitJoinedStr(n) }
func (n *Constant) Accept(v ExprVisitor) error       { return v.VisitConstant(n) }
func (n *Attribute) Accept(v ExprVisitor) error      { return v.VisitAttribute(n) }
func (n *Subscript) Accept(v ExprVisitor) error      { return v.VisitSubscript(n) }
func (n *Starred) Accept(v ExprVisitor) error        { return v.VisitStarred(n) }
func (n *Name) Accept(v ExprVisitor) error           { return v.VisitName(n) }
func (n *Slice) Accept(v ExprVisitor) error          { return v.VisitSlice(n) }

func (n *BoolOp) Children() []Node { return exprListNodes(nil, n.Values) }

func (n *NamedExpr) Children() []Node {
	var out []Node
	if n.Target != nil {
		out = append(out, n.Target)
	}
	return exprNodes(out, n.Value)
}

func (n *BinOp) Children() []Node   { return exprNodes(nil, n.Left, n.Right) }
func (n *UnaryOp) Children() []Node { return exprNodes(nil, n.Operand) }

func (n *Lambda) Children() []Node {
	var out []Node
	if n.Args != nil {
		out = append(out, n.Args)
	}
	return exprNodes(out, n.Body)
}

func (n *IfExp) Children() []Node { return exprNodes(nil, n.Test, n.Body, n.Orelse) }

func (n *Dict) Children() []Node {
	var out []Node
	for i := range n.Values {
		if i < len(n.Keys) {
			out = exprNodes(out, n.Keys[i])
		}
		out = exprNodes(out, n.Values[i])
	}
	return out
}

func (n *Set) Children() []Node   { return exprListNodes(nil, n.Elts) }
func (n *List) Children() []Node  { return exprListNodes(nil, n.Elts) }
func (n *Tuple) Children() []Node { return exprListNodes(nil, n.Elts) }

func (n *Comprehension) Children() []Node {
	out := exprNodes(nil, n.Elt, n.Value)
	for _, g := range n.Generators {
		out = append(out, g)
	}
	return out
}

func (n *Await) Children() []Node     { return exprNodes(nil, n.Value) }
func (n *Yield) Children() []Node     { return exprNodes(nil, n.Value) }
func (n *YieldFrom) Children() []Node { return exprNodes(nil, n.Value) }

func (n *Compare) Children() []Node {
	return exprListNodes(exprNodes(nil, n.Left), n.Comparators)
}

func (n *Call) Children() []Node {
	out := exprListNodes(exprNodes(nil, n.Func), n.Args)
	for _, k := range n.Keywords {
		out = append(out, k)
	}
	return out
}

func (n *FormattedValue) Children() []Node { return exprNodes(nil, n.Value, n.FormatSpec) }
func (n *JoinedStr) Children() []Node      { return exprListNodes(nil, n.Values) }
func (n *Constant) Children() []Node       { return nil }
func (n *Attribute) Children() []Node      { return exprNodes(nil, n.Value) }
func (n *Subscript) Children() []Node      { return exprNodes(nil, n.Value, n.Slice) }
func (n *Starred) Children() []Node        { return exprNodes(nil, n.Value) }
func (n *Name) Children() []Node           { return nil }
func (n *Slice) Children() []Node          { return exprNodes(nil, n.Lower, n.Upper, n.Step) }

// Arguments is the parameter list of a def or lambda. KwDefaults runs
// parallel to KwOnly with nil for required keyword-only parameters; Defaults
// belong to the last len(Defaults) entries of PosOnly followed by Args.
type Arguments struct {
	Pos
	PosOnly    []*Arg
	Args       []*Arg
	Vararg     *Arg
	KwOnly     []*Arg
	KwDefaults []Expr
	Kwarg      *Arg
	Defaults   []Expr
}

func (n *Arguments) Children() []Node {
	var out []Node
	for _, group := range [][]*Arg{n.PosOnly, n.Args} {
		for _, a := range group {
			out = append(out, a)
		}
	}
	out = exprListNodes(out, n.Defaults)
	if n.Vararg != nil {
		out = append(out, n.Vararg)
	}
	for _, a := range n.KwOnly {
		out = append(out, a)
	}
	out = exprListNodes(out, n.KwDefaults)
	if n.Kwarg != nil {
		out = append(out, n.Kwarg)
	}
	return out
}

// Arg is a single parameter.
type Arg struct {
	Pos
	Name       string
	Annotation Expr
}

func (n *Arg) Children() []Node { return exprNodes(nil, n.Annotation) }

// Keyword is a keyword argument of a call or class definition. Arg is empty
// for **mapping unpacking.
type Keyword struct {
	Pos
	Arg   string
	Value Expr
}

func (n *Keyword) Children() []Node { return exprNodes(nil, n.Value) }

// Alias is one name of an import statement.
type Alias struct {
	Pos
	Name   string
	AsName string
}

func (n *Alias) Children() []Node { return nil }

// WithItem is one context manager of a with statement.
type WithItem struct {
	Pos
	Context Expr
	Vars    Expr
}

func (n *WithItem) Children() []Node { return exprNodes(nil, n.Context, n.Vars) }

// ExceptHandler is an except clause. Type is nil for a bare except.
type ExceptHandler struct {
	Pos
	Type Expr
	Name string
	Body []Stmt
}

func (n *ExceptHandler) Children() []Node {
	return stmtNodes(exprNodes(nil, n.Type), n.Body)
}

// CompFor is one for clause of a comprehension with its if filters.
type CompFor struct {
	Pos
	Target Expr
	Iter   Expr
	Ifs    []Expr
	Async  bool
}

func (n *CompFor) Children() []Node {
	return exprListNodes(exprNodes(nil, n.Target, n.Iter), n.Ifs)
}
