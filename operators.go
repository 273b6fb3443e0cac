package py2hy

import (
	"github.com/xiam/py2hy/pyast"
)

var binaryOperators = map[pyast.BinaryOp]string{
	pyast.Add:      "+",
	pyast.Sub:      "-",
	pyast.Mult:     "*",
	pyast.MatMult:  "@",
	pyast.Div:      "/",
	pyast.Mod:      "%",
	pyast.Pow:      "**",
	pyast.LShift:   "<<",
	pyast.RShift:   ">>",
	pyast.BitOr:    "|",
	pyast.BitXor:   "^",
	pyast.BitAnd:   "&",
	pyast.FloorDiv: "//",
}

var unaryOperators = map[pyast.UnaryOperator]string{
	pyast.Invert: "~",
	pyast.Not:    "not",
	pyast.UAdd:   "+",
	pyast.USub:   "-",
}

var boolOperators = map[pyast.BoolOperator]string{
	pyast.And: "and",
	pyast.Or:  "or",
}

var cmpOperators = map[pyast.CmpOp]string{
	pyast.Eq:    "=",
	pyast.NotEq: "!=",
	pyast.Lt:    "<",
	pyast.LtE:   "<=",
	pyast.Gt:    ">",
	pyast.GtE:   ">=",
	pyast.Is:    "is",
	pyast.IsNot: "is-not",
	pyast.In:    "in",
	pyast.NotIn: "not-in",
}

// augmentedOperator returns the in-place form of op, e.g. "+=".
func augmentedOperator(op pyast.BinaryOp) (string, bool) {
	sym, ok := binaryOperators[op]
	if !ok {
		return "", false
	}
	return sym + "=", true
}
