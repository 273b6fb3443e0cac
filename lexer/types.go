package lexer

// TokenType represents all the possible types of a lexical unit
type TokenType uint8

// List of types of lexical units
const (
	TokenInvalid         TokenType = iota
	TokenOpenExpression            // Open parenthesis: "("
	TokenCloseExpression           // Close parenthesis: ")"
	TokenOpenList                  // Open square bracket: "["
	TokenCloseList                 // Close square bracket: "]"
	TokenOpenMap                   // Open curly bracket: "{"
	TokenCloseMap                  // Close curly bracket: "}"
	TokenOpenSet                   // Hash and curly bracket: "#{"
	TokenNewLine                   // Newline: "\n"
	TokenWhitespace                // Space, tab, form feed or carriage return
	TokenComment                   // From ";" to the end of the line
	TokenString                    // Quoted string, quotes included
	TokenBytes                     // Quoted bytes: b"..."
	TokenWord                      // Symbols, keywords and numbers
	TokenEOF                       // End of file
)

var tokenValues = map[TokenType][]rune{
	TokenOpenList:        {'['},
	TokenCloseList:       {']'},
	TokenOpenMap:         {'{'},
	TokenCloseMap:        {'}'},
	TokenOpenExpression:  {'('},
	TokenCloseExpression: {')'},
	TokenNewLine:         {'\n'},
	TokenWhitespace:      []rune(" \f\t\r"),
	TokenComment:         {';'},
	TokenString:          {'"'},
}

var tokenNames = map[TokenType]string{
	TokenInvalid:         "invalid",
	TokenOpenList:        "open_list",
	TokenCloseList:       "close_list",
	TokenOpenMap:         "open_map",
	TokenCloseMap:        "close_map",
	TokenOpenSet:         "open_set",
	TokenOpenExpression:  "open_expression",
	TokenCloseExpression: "close_expression",
	TokenNewLine:         "newline",
	TokenWhitespace:      "separator",
	TokenComment:         "comment",
	TokenString:          "string",
	TokenBytes:           "bytes",
	TokenWord:            "word",
	TokenEOF:             "EOF",
}

func (tt TokenType) String() string {
	if v, ok := tokenNames[tt]; ok {
		return v
	}
	return tokenNames[TokenInvalid]
}

func isTokenType(tt TokenType) func(r rune) bool {
	return func(r rune) bool {
		for _, v := range tokenValues[tt] {
			if v == r {
				return true
			}
		}
		return false
	}
}

// isDelimiter reports whether r ends a word.
func isDelimiter(r rune) bool {
	switch r {
	case '(', ')', '[', ']', '{', '}', '"', ';', '\n', ' ', '\f', '\t', '\r':
		return true
	}
	return false
}
