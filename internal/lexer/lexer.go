// Package lexer converts plugin source text into a stream of tokens.
//
// The lexer understands the JavaScript/TypeScript subset that plugin
// settings declarations are written in: identifiers, string and template
// literals, numeric literals, and the punctuation used by declarations,
// object/array literals, arrow functions, and the supported operators.
// Newlines and comments are skipped; statement boundaries are recovered
// by the parser from the grammar itself.
package lexer

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/settix/internal/token"
)

// Lexer holds the state for tokenizing one input string.
type Lexer struct {
	input    string
	position int  // current byte offset
	ch       byte // current character under examination
	filename string

	line      int // 0-indexed current line
	lineStart int // byte offset of the start of the current line
}

// New returns a Lexer for the given input string.
func New(input string) *Lexer {
	l := &Lexer{input: input, position: -1}
	l.readChar()
	return l
}

// SetFilename sets the filename associated with the input, used in
// token positions and error messages.
func (l *Lexer) SetFilename(filename string) {
	l.filename = filename
}

// Filename returns the filename associated with the input.
func (l *Lexer) Filename() string {
	return l.filename
}

// GetLineText returns the text of the line containing the given token.
func (l *Lexer) GetLineText(tok token.Token) string {
	start := tok.StartPosition.LineStart
	if start < 0 || start >= len(l.input) {
		return ""
	}
	end := strings.IndexByte(l.input[start:], '\n')
	if end < 0 {
		return l.input[start:]
	}
	return l.input[start : start+end]
}

func (l *Lexer) readChar() {
	l.position++
	if l.position >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.position]
	}
}

func (l *Lexer) peekChar() byte {
	if l.position+1 >= len(l.input) {
		return 0
	}
	return l.input[l.position+1]
}

func (l *Lexer) peekCharAt(n int) byte {
	if l.position+n >= len(l.input) {
		return 0
	}
	return l.input[l.position+n]
}

func (l *Lexer) curPosition() token.Position {
	return token.Position{
		Char:      l.position,
		LineStart: l.lineStart,
		Line:      l.line,
		Column:    l.position - l.lineStart,
		File:      l.filename,
	}
}

// Next returns the next token from the input, or an error if the input
// contains a malformed token (an unterminated string, for example).
func (l *Lexer) Next() (token.Token, error) {
	if err := l.skipWhitespaceAndComments(); err != nil {
		return l.simpleToken(token.ILLEGAL), err
	}
	start := l.curPosition()
	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Literal: "", StartPosition: start, EndPosition: start}, nil
	case '(', ')', '{', '}', '[', ']', ',', ';', ':', '^', '%', '+', '-', '*', '/':
		return l.singleOrSimple(start)
	case '.':
		if l.peekChar() == '.' && l.peekCharAt(2) == '.' {
			return l.emit(start, token.SPREAD, 3)
		}
		return l.emit(start, token.PERIOD, 1)
	case '=':
		if l.peekChar() == '=' && l.peekCharAt(2) == '=' {
			return l.emit(start, token.EQ_STRICT, 3)
		}
		if l.peekChar() == '=' {
			return l.emit(start, token.EQ, 2)
		}
		if l.peekChar() == '>' {
			return l.emit(start, token.ARROW, 2)
		}
		return l.emit(start, token.ASSIGN, 1)
	case '!':
		if l.peekChar() == '=' && l.peekCharAt(2) == '=' {
			return l.emit(start, token.NOT_EQ_STRICT, 3)
		}
		if l.peekChar() == '=' {
			return l.emit(start, token.NOT_EQ, 2)
		}
		return l.emit(start, token.BANG, 1)
	case '<':
		if l.peekChar() == '<' {
			return l.emit(start, token.LT_LT, 2)
		}
		if l.peekChar() == '=' {
			return l.emit(start, token.LT_EQUALS, 2)
		}
		return l.emit(start, token.LT, 1)
	case '>':
		if l.peekChar() == '>' && l.peekCharAt(2) == '>' {
			return l.emit(start, token.GT_GT_GT, 3)
		}
		if l.peekChar() == '>' {
			return l.emit(start, token.GT_GT, 2)
		}
		if l.peekChar() == '=' {
			return l.emit(start, token.GT_EQUALS, 2)
		}
		return l.emit(start, token.GT, 1)
	case '&':
		if l.peekChar() == '&' {
			return l.emit(start, token.AND, 2)
		}
		return l.emit(start, token.AMPERSAND, 1)
	case '|':
		if l.peekChar() == '|' {
			return l.emit(start, token.OR, 2)
		}
		return l.emit(start, token.PIPE, 1)
	case '?':
		if l.peekChar() == '?' {
			return l.emit(start, token.NULLISH, 2)
		}
		if l.peekChar() == '.' {
			return l.emit(start, token.QUESTION_DOT, 2)
		}
		return l.emit(start, token.QUESTION, 1)
	case '"', '\'':
		return l.readString(start, l.ch)
	case '`':
		return l.readTemplate(start)
	default:
		if isLetter(l.ch) {
			return l.readIdentifier(start), nil
		}
		if isDigit(l.ch) {
			return l.readNumber(start)
		}
		tok := token.Token{
			Type:          token.ILLEGAL,
			Literal:       string(l.ch),
			StartPosition: start,
			EndPosition:   start.Advance(1),
		}
		l.readChar()
		return tok, fmt.Errorf("unexpected character %q", tok.Literal)
	}
}

var singleCharTokens = map[byte]token.Type{
	'(': token.LPAREN,
	')': token.RPAREN,
	'{': token.LBRACE,
	'}': token.RBRACE,
	'[': token.LBRACKET,
	']': token.RBRACKET,
	',': token.COMMA,
	';': token.SEMICOLON,
	':': token.COLON,
	'^': token.CARET,
	'%': token.MOD,
	'+': token.PLUS,
	'-': token.MINUS,
	'*': token.ASTERISK,
	'/': token.SLASH,
}

func (l *Lexer) singleOrSimple(start token.Position) (token.Token, error) {
	return l.emit(start, singleCharTokens[l.ch], 1)
}

func (l *Lexer) simpleToken(typ token.Type) token.Token {
	pos := l.curPosition()
	return token.Token{Type: typ, Literal: string(l.ch), StartPosition: pos, EndPosition: pos.Advance(1)}
}

// emit produces a token of the given type spanning n bytes from start,
// advancing the lexer past it.
func (l *Lexer) emit(start token.Position, typ token.Type, n int) (token.Token, error) {
	literal := l.input[l.position : l.position+n]
	for i := 0; i < n; i++ {
		l.readChar()
	}
	return token.Token{
		Type:          typ,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   start.Advance(n),
	}, nil
}

func (l *Lexer) skipWhitespaceAndComments() error {
	for {
		switch {
		case l.ch == '\n':
			l.line++
			l.lineStart = l.position + 1
			l.readChar()
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\r':
			l.readChar()
		case l.ch == '/' && l.peekChar() == '/':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		case l.ch == '/' && l.peekChar() == '*':
			l.readChar()
			l.readChar()
			for {
				if l.ch == 0 {
					return fmt.Errorf("unterminated block comment")
				}
				if l.ch == '\n' {
					l.line++
					l.lineStart = l.position + 1
				}
				if l.ch == '*' && l.peekChar() == '/' {
					l.readChar()
					l.readChar()
					break
				}
				l.readChar()
			}
		default:
			return nil
		}
	}
}

func (l *Lexer) readIdentifier(start token.Position) token.Token {
	begin := l.position
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	literal := l.input[begin:l.position]
	return token.Token{
		Type:          token.LookupIdentifier(literal),
		Literal:       literal,
		StartPosition: start,
		EndPosition:   start.Advance(len(literal)),
	}
}

func (l *Lexer) readNumber(start token.Position) (token.Token, error) {
	begin := l.position
	typ := token.INT
	if l.ch == '0' && (l.peekChar() == 'x' || l.peekChar() == 'X') {
		l.readChar()
		l.readChar()
		for isHexDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	} else {
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
		if l.ch == '.' && isDigit(l.peekChar()) {
			typ = token.FLOAT
			l.readChar()
			for isDigit(l.ch) || l.ch == '_' {
				l.readChar()
			}
		}
		if l.ch == 'e' || l.ch == 'E' {
			typ = token.FLOAT
			l.readChar()
			if l.ch == '+' || l.ch == '-' {
				l.readChar()
			}
			for isDigit(l.ch) {
				l.readChar()
			}
		}
	}
	literal := l.input[begin:l.position]
	return token.Token{
		Type:          token.Type(typ),
		Literal:       literal,
		StartPosition: start,
		EndPosition:   start.Advance(len(literal)),
	}, nil
}

// readString reads a single- or double-quoted string literal. The returned
// token's Literal holds the decoded string value, without the quotes.
func (l *Lexer) readString(start token.Position, quote byte) (token.Token, error) {
	l.readChar() // consume the opening quote
	var sb strings.Builder
	for l.ch != quote {
		if l.ch == 0 || l.ch == '\n' {
			return l.simpleToken(token.ILLEGAL), fmt.Errorf("unterminated string literal")
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			default:
				sb.WriteByte(l.ch)
			}
			l.readChar()
			continue
		}
		sb.WriteByte(l.ch)
		l.readChar()
	}
	l.readChar() // consume the closing quote
	value := sb.String()
	return token.Token{
		Type:          token.STRING,
		Literal:       value,
		StartPosition: start,
		EndPosition:   l.curPosition(),
	}, nil
}

// readTemplate reads a backtick template literal. The returned token's
// Literal holds the raw contents between the backticks, with ${...}
// interpolations left intact for the parser to split apart.
func (l *Lexer) readTemplate(start token.Position) (token.Token, error) {
	l.readChar() // consume the opening backtick
	begin := l.position
	depth := 0
	for {
		if l.ch == 0 {
			return l.simpleToken(token.ILLEGAL), fmt.Errorf("unterminated template literal")
		}
		if l.ch == '\\' {
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '\n' {
			l.line++
			l.lineStart = l.position + 1
		}
		if l.ch == '$' && l.peekChar() == '{' {
			depth++
			l.readChar()
			l.readChar()
			continue
		}
		if l.ch == '}' && depth > 0 {
			depth--
			l.readChar()
			continue
		}
		if l.ch == '`' && depth == 0 {
			break
		}
		l.readChar()
	}
	literal := l.input[begin:l.position]
	l.readChar() // consume the closing backtick
	return token.Token{
		Type:          token.TEMPLATE,
		Literal:       literal,
		StartPosition: start,
		EndPosition:   l.curPosition(),
	}, nil
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || ch == '_' || ch == '$'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || 'a' <= ch && ch <= 'f' || 'A' <= ch && ch <= 'F'
}
