// Package token defines the tokens produced when lexing plugin source code.
package token

// Type describes the type of a token as a string.
type Type string

// Position points to a particular location in an input string.
type Position struct {
	Char      int    // byte offset within the file
	LineStart int    // byte offset of the start of the current line
	Line      int    // 0-indexed line number
	Column    int    // 0-indexed column number
	File      string // filename
}

// LineNumber returns the 1-indexed line number for this position in the input.
func (p Position) LineNumber() int {
	return p.Line + 1
}

// ColumnNumber returns the 1-indexed column number for this position in the input.
func (p Position) ColumnNumber() int {
	return p.Column + 1
}

// Advance returns a new Position advanced by n bytes.
// Used for computing End positions from a start position.
// Note: This assumes the advance does not cross line boundaries.
func (p Position) Advance(n int) Position {
	return Position{
		Char:      p.Char + n,
		LineStart: p.LineStart,
		Line:      p.Line,
		Column:    p.Column + n,
		File:      p.File,
	}
}

// IsValid returns true if this position has been set.
func (p Position) IsValid() bool {
	return p.File != "" || p.Line > 0 || p.Column > 0 || p.Char > 0
}

// NoPos is the zero value Position, representing an invalid/unset position.
var NoPos = Position{}

// Token represents one token lexed from the input source code.
type Token struct {
	Type          Type
	Literal       string
	StartPosition Position
	EndPosition   Position
}

// Token types
const (
	AMPERSAND    Type = "&"
	AND          Type = "&&"
	ARROW        Type = "=>"
	AS           Type = "AS"
	ASSIGN       Type = "="
	ASTERISK     Type = "*"
	BANG         Type = "!"
	CARET        Type = "^"
	COLON        Type = ":"
	COMMA        Type = ","
	CONST        Type = "CONST"
	DEFAULT      Type = "DEFAULT"
	ENUM         Type = "ENUM"
	EOF          Type = "EOF"
	EQ           Type = "=="
	EQ_STRICT    Type = "==="
	EXPORT       Type = "EXPORT"
	FALSE        Type = "FALSE"
	FLOAT        Type = "FLOAT"
	FROM         Type = "FROM"
	FUNCTION     Type = "FUNCTION"
	GT           Type = ">"
	GT_EQUALS    Type = ">="
	GT_GT        Type = ">>"
	GT_GT_GT     Type = ">>>"
	IDENT        Type = "IDENT"
	ILLEGAL      Type = "ILLEGAL"
	IMPORT       Type = "IMPORT"
	INT          Type = "INT"
	LBRACE       Type = "{"
	LBRACKET     Type = "["
	LET          Type = "LET"
	LPAREN       Type = "("
	LT           Type = "<"
	LT_EQUALS    Type = "<="
	LT_LT        Type = "<<"
	MINUS        Type = "-"
	MOD          Type = "%"
	NEW          Type = "NEW"
	NOT_EQ       Type = "!="
	NOT_EQ_STRICT Type = "!=="
	NULL         Type = "NULL"
	NULLISH      Type = "??"
	OR           Type = "||"
	PERIOD       Type = "."
	PIPE         Type = "|"
	PLUS         Type = "+"
	QUESTION     Type = "?"
	QUESTION_DOT Type = "?."
	RBRACE       Type = "}"
	RBRACKET     Type = "]"
	RETURN       Type = "RETURN"
	RPAREN       Type = ")"
	SATISFIES    Type = "SATISFIES"
	SEMICOLON    Type = ";"
	SLASH        Type = "/"
	SPREAD       Type = "..."
	STRING       Type = "STRING"
	TEMPLATE     Type = "TEMPLATE"
	TRUE         Type = "TRUE"
	TYPEOF       Type = "TYPEOF"
	UNDEFINED    Type = "UNDEFINED"
	VAR          Type = "VAR"
)

// Reserved keywords
var keywords = map[string]Type{
	"as":        AS,
	"const":     CONST,
	"default":   DEFAULT,
	"enum":      ENUM,
	"export":    EXPORT,
	"false":     FALSE,
	"from":      FROM,
	"function":  FUNCTION,
	"import":    IMPORT,
	"let":       LET,
	"new":       NEW,
	"null":      NULL,
	"return":    RETURN,
	"satisfies": SATISFIES,
	"true":      TRUE,
	"typeof":    TYPEOF,
	"undefined": UNDEFINED,
	"var":       VAR,
}

// LookupIdentifier is used to determine whether an identifier is a keyword.
func LookupIdentifier(identifier string) Type {
	if tok, ok := keywords[identifier]; ok {
		return tok
	}
	return IDENT
}
