package ast

// NodeType represents the type of the AST node
type NodeType uint16

// Node types
const (
	nodeTypeValue  NodeType = 128
	nodeTypeVector NodeType = 256

	NodeTypeInt     = nodeTypeValue | 1
	NodeTypeFloat   = nodeTypeValue | 2
	NodeTypeSymbol  = nodeTypeValue | 4
	NodeTypeKeyword = nodeTypeValue | 8
	NodeTypeString  = nodeTypeValue | 16
	NodeTypeBytes   = nodeTypeValue | 32
	NodeTypeComplex = nodeTypeValue | 64

	NodeTypeList       = nodeTypeVector | 1
	NodeTypeMap        = nodeTypeVector | 2
	NodeTypeExpression = nodeTypeVector | 4
	NodeTypeSet        = nodeTypeVector | 8
	NodeTypeDocument   = nodeTypeVector | 16
)

func (nt NodeType) String() string {
	s, ok := nodeTypeName[nt]
	if ok {
		return s
	}
	return ""
}

var nodeTypeName = map[NodeType]string{
	NodeTypeInt:        "int",
	NodeTypeFloat:      "float",
	NodeTypeSymbol:     "symbol",
	NodeTypeKeyword:    "keyword",
	NodeTypeString:     "string",
	NodeTypeBytes:      "bytes",
	NodeTypeComplex:    "complex",
	NodeTypeList:       "list",
	NodeTypeMap:        "map",
	NodeTypeExpression: "expression",
	NodeTypeSet:        "set",
	NodeTypeDocument:   "document",
}

// brackets returns the opening and closing delimiters of a vector type.
func brackets(nt NodeType) (string, string) {
	switch nt {
	case NodeTypeList:
		return "[", "]"
	case NodeTypeMap:
		return "{", "}"
	case NodeTypeExpression:
		return "(", ")"
	case NodeTypeSet:
		return "#{", "}"
	}
	return "", ""
}
