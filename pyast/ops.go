package pyast

// BinaryOp is the operator of a BinOp or AugAssign.
type BinaryOp uint8

// Binary operators, named after Python's ast classes.
const (
	InvalidBinaryOp BinaryOp = iota
	Add
	Sub
	Mult
	MatMult
	Div
	Mod
	Pow
	LShift
	RShift
	BitOr
	BitXor
	BitAnd
	FloorDiv
)

var binaryOpNames = map[BinaryOp]string{
	Add:      "Add",
	Sub:      "Sub",
	Mult:     "Mult",
	MatMult:  "MatMult",
	Div:      "Div",
	Mod:      "Mod",
	Pow:      "Pow",
	LShift:   "LShift",
	RShift:   "RShift",
	BitOr:    "BitOr",
	BitXor:   "BitXor",
	BitAnd:   "BitAnd",
	FloorDiv: "FloorDiv",
}

func (op BinaryOp) String() string {
	if s, ok := binaryOpNames[op]; ok {
		return s
	}
	return "invalid"
}

// BinaryOps lists every valid binary operator.
func BinaryOps() []BinaryOp {
	ops := make([]BinaryOp, 0, len(binaryOpNames))
	for op := Add; op <= FloorDiv; op++ {
		ops = append(ops, op)
	}
	return ops
}

// UnaryOperator is the operator of a UnaryOp.
type UnaryOperator uint8

// Unary operators.
const (
	InvalidUnaryOp UnaryOperator = iota
	Invert
	Not
	UAdd
	USub
)

var unaryOpNames = map[UnaryOperator]string{
	Invert: "Invert",
	Not:    "Not",
	UAdd:   "UAdd",
	USub:   "USub",
}

func (op UnaryOperator) String() string {
	if s, ok := unaryOpNames[op]; ok {
		return s
	}
	return "invalid"
}

// UnaryOps lists every valid unary operator.
func UnaryOps() []UnaryOperator {
	return []UnaryOperator{Invert, Not, UAdd, USub}
}

// BoolOperator is the operator of a BoolOp.
type BoolOperator uint8

// Boolean operators.
const (
	InvalidBoolOp BoolOperator = iota
	And
	Or
)

func (op BoolOperator) String() string {
	switch op {
	case And:
		return "And"
	case Or:
		return "Or"
	}
	return "invalid"
}

// CmpOp is one operator of a Compare chain.
type CmpOp uint8

// Comparison operators.
const (
	InvalidCmpOp CmpOp = iota
	Eq
	NotEq
	Lt
	LtE
	Gt
	GtE
	Is
	IsNot
	In
	NotIn
)

var cmpOpNames = map[CmpOp]string{
	Eq:    "Eq",
	NotEq: "NotEq",
	Lt:    "Lt",
	LtE:   "LtE",
	Gt:    "Gt",
	GtE:   "GtE",
	Is:    "Is",
	IsNot: "IsNot",
	In:    "In",
	NotIn: "NotIn",
}

func (op CmpOp) String() string {
	if s, ok := cmpOpNames[op]; ok {
		return s
	}
	return "invalid"
}

// CmpOps lists every valid comparison operator.
func CmpOps() []CmpOp {
	ops := make([]CmpOp, 0, len(cmpOpNames))
	for op := Eq; op <= NotIn; op++ {
		ops = append(ops, op)
	}
	return ops
}

// ExprContext is the role of a Name, Attribute, Subscript, Starred, List or
// Tuple: whether it is read, bound or deleted.
type ExprContext uint8

// Expression roles. Load is the zero value.
const (
	Load ExprContext = iota
	Store
	Del
)

func (c ExprContext) String() string {
	switch c {
	case Load:
		return "Load"
	case Store:
		return "Store"
	case Del:
		return "Del"
	}
	return "invalid"
}

// CompKind tells which collection a Comprehension builds.
type CompKind uint8

// Comprehension kinds.
const (
	ListComp CompKind = iota
	SetComp
	DictComp
	GeneratorExp
)

func (k CompKind) String() string {
	switch k {
	case ListComp:
		return "ListComp"
	case SetComp:
		return "SetComp"
	case DictComp:
		return "DictComp"
	case GeneratorExp:
		return "GeneratorExp"
	}
	return "invalid"
}

// ConstKind is the type of a Constant.
type ConstKind uint8

// Constant kinds.
const (
	ConstInt ConstKind = iota
	ConstFloat
	ConstComplex
	ConstStr
	ConstBytes
	ConstBool
	ConstNone
	ConstEllipsis
)

func (k ConstKind) String() string {
	switch k {
	case ConstInt:
		return "int"
	case ConstFloat:
		return "float"
	case ConstComplex:
		return "complex"
	case ConstStr:
		return "str"
	case ConstBytes:
		return "bytes"
	case ConstBool:
		return "bool"
	case ConstNone:
		return "None"
	case ConstEllipsis:
		return "Ellipsis"
	}
	return "invalid"
}
