package parser

import (
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/internal/token"
)

// Literal parsing methods for the Parser:
// - Numeric, boolean, null, and string literals
// - Template literals (including ${expr} interpolation)
// - Array literals (with spread elements)
// - Object literals (key-value pairs, spreads, getters, shorthand)

func (p *Parser) parseInt() ast.Expr {
	tok, lit := p.curToken, p.curToken.Literal
	clean := strings.ReplaceAll(lit, "_", "")
	var value int64
	var err error
	if strings.HasPrefix(clean, "0x") || strings.HasPrefix(clean, "0X") {
		value, err = strconv.ParseInt(clean[2:], 16, 64)
	} else {
		value, err = strconv.ParseInt(clean, 10, 64)
	}
	if err != nil {
		p.setTokenError(tok, "invalid integer: %s", lit)
		return nil
	}
	return &ast.Int{ValuePos: tok.StartPosition, Literal: lit, Value: value}
}

func (p *Parser) parseFloat() ast.Expr {
	tok, lit := p.curToken, p.curToken.Literal
	value, err := strconv.ParseFloat(strings.ReplaceAll(lit, "_", ""), 64)
	if err != nil {
		p.setTokenError(tok, "invalid float: %s", lit)
		return nil
	}
	return &ast.Float{ValuePos: tok.StartPosition, Literal: lit, Value: value}
}

func (p *Parser) parseBoolean() ast.Expr {
	return &ast.Bool{
		ValuePos: p.curToken.StartPosition,
		Literal:  p.curToken.Literal,
		Value:    p.curTokenIs(token.TRUE),
	}
}

func (p *Parser) parseNull() ast.Expr {
	return &ast.Null{
		ValuePos:  p.curToken.StartPosition,
		Undefined: p.curTokenIs(token.UNDEFINED),
	}
}

func (p *Parser) parseString() ast.Expr {
	return &ast.String{
		ValuePos: p.curToken.StartPosition,
		EndPos:   p.curToken.EndPosition,
		Value:    p.curToken.Literal,
	}
}

// parseTemplate splits a backtick template literal into text fragments and
// interpolated expressions. Each ${...} segment is parsed with a fresh
// sub-parser over the segment's source text.
func (p *Parser) parseTemplate() ast.Expr {
	tok := p.curToken
	raw := tok.Literal
	var parts []ast.TemplatePart
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			parts = append(parts, ast.TemplatePart{Text: text.String()})
			text.Reset()
		}
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' && i+1 < len(raw) {
			text.WriteByte(raw[i+1])
			i++
			continue
		}
		if raw[i] == '$' && i+1 < len(raw) && raw[i+1] == '{' {
			end := matchBrace(raw, i+1)
			if end < 0 {
				p.setTokenError(tok, "unterminated ${...} in template literal")
				return nil
			}
			inner := raw[i+2 : end]
			expr := p.parseSubExpression(tok, inner)
			if expr == nil {
				return nil
			}
			flush()
			parts = append(parts, ast.TemplatePart{Expr: expr})
			i = end
			continue
		}
		text.WriteByte(raw[i])
	}
	flush()
	return &ast.Template{
		ValuePos: tok.StartPosition,
		EndPos:   tok.EndPosition,
		Parts:    parts,
	}
}

// matchBrace returns the index of the '}' matching the '{' at start,
// or -1 if there is none.
func matchBrace(s string, start int) int {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// parseSubExpression parses a standalone expression from a source fragment,
// used for template interpolations.
func (p *Parser) parseSubExpression(tok token.Token, source string) ast.Expr {
	prog, err := Parse(p.ctx, source, WithFilename(p.l.Filename()))
	if err != nil {
		p.setTokenError(tok, "in template interpolation: %s", err.Error())
		return nil
	}
	if len(prog.Stmts) != 1 {
		p.setTokenError(tok, "template interpolation must be a single expression")
		return nil
	}
	stmt, ok := prog.Stmts[0].(*ast.ExprStmt)
	if !ok {
		p.setTokenError(tok, "template interpolation must be an expression")
		return nil
	}
	return stmt.X
}

func (p *Parser) parseArray() ast.Expr {
	lbrack := p.curToken.StartPosition
	var elements []ast.Expr
	for !p.peekTokenIs(token.RBRACKET) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.peekToken, "unterminated array literal")
			return nil
		}
		p.nextToken()
		element := p.parseExpression(LOWEST)
		if element == nil {
			return nil
		}
		elements = append(elements, element)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek("array", token.RBRACKET) {
		return nil
	}
	return &ast.Array{
		Lbrack:   lbrack,
		Elements: elements,
		Rbrack:   p.curToken.StartPosition,
	}
}

func (p *Parser) parseObject() ast.Expr {
	lbrace := p.curToken.StartPosition
	var properties []ast.Property
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.peekToken, "unterminated object literal")
			return nil
		}
		p.nextToken()
		prop, ok := p.parseProperty()
		if !ok {
			return nil
		}
		properties = append(properties, prop)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek("object", token.RBRACE) {
		return nil
	}
	return &ast.Object{
		Lbrace:     lbrace,
		Properties: properties,
		Rbrace:     p.curToken.StartPosition,
	}
}

// parseProperty parses one object literal item: spread, getter, method,
// key-value pair, or shorthand property.
func (p *Parser) parseProperty() (ast.Property, bool) {
	// Spread item: ...expr
	if p.curTokenIs(token.SPREAD) {
		spread := p.parseSpread()
		if spread == nil {
			return ast.Property{}, false
		}
		return ast.Property{KeyPos: spread.Pos(), Value: spread}, true
	}

	// Getter: get name() { ... }. "get" is contextual, not a keyword.
	if p.curTokenIs(token.IDENT) && p.curToken.Literal == "get" && p.peekIsPropertyName() {
		p.nextToken()
		keyTok := p.curToken
		if !p.expectPeek("getter", token.LPAREN) {
			return ast.Property{}, false
		}
		if !p.expectPeek("getter", token.RPAREN) {
			return ast.Property{}, false
		}
		p.skipReturnTypeAnnotation()
		if !p.expectPeek("getter", token.LBRACE) {
			return ast.Property{}, false
		}
		if !p.skipBalanced(token.LBRACE, token.RBRACE) {
			return ast.Property{}, false
		}
		return ast.Property{
			KeyPos: keyTok.StartPosition,
			Key:    keyTok.Literal,
			Getter: true,
		}, true
	}

	// Computed key: [expr]: value. Parsed but inert: the key is unknown
	// statically, so lookups will never match it.
	if p.curTokenIs(token.LBRACKET) {
		p.nextToken()
		if p.parseExpression(LOWEST) == nil {
			return ast.Property{}, false
		}
		if !p.expectPeek("computed key", token.RBRACKET) {
			return ast.Property{}, false
		}
		if !p.expectPeek("computed key", token.COLON) {
			return ast.Property{}, false
		}
		p.nextToken()
		value := p.parseExpression(LOWEST)
		if value == nil {
			return ast.Property{}, false
		}
		return ast.Property{KeyPos: value.Pos(), Value: value}, true
	}

	if !p.curIsPropertyName() {
		p.setTokenError(p.curToken, "unexpected %q in object literal", p.curToken.Literal)
		return ast.Property{}, false
	}
	keyTok := p.curToken

	// Method shorthand: name() { ... }. The body is not captured; the
	// property is present but never evaluable.
	if p.peekTokenIs(token.LPAREN) {
		p.nextToken()
		if !p.skipBalanced(token.LPAREN, token.RPAREN) {
			return ast.Property{}, false
		}
		p.skipReturnTypeAnnotation()
		if !p.expectPeek("method", token.LBRACE) {
			return ast.Property{}, false
		}
		if !p.skipBalanced(token.LBRACE, token.RBRACE) {
			return ast.Property{}, false
		}
		return ast.Property{
			KeyPos: keyTok.StartPosition,
			Key:    keyTok.Literal,
			Value:  &ast.BadExpr{From: keyTok.StartPosition, To: p.curToken.EndPosition},
		}, true
	}

	// Shorthand property: { name }
	if !p.peekTokenIs(token.COLON) {
		return ast.Property{
			KeyPos: keyTok.StartPosition,
			Key:    keyTok.Literal,
			Value:  &ast.Ident{NamePos: keyTok.StartPosition, Name: keyTok.Literal},
		}, true
	}

	p.nextToken() // move to the colon
	p.nextToken() // move to the value
	value := p.parseExpression(LOWEST)
	if value == nil {
		return ast.Property{}, false
	}
	return ast.Property{
		KeyPos: keyTok.StartPosition,
		Key:    keyTok.Literal,
		Value:  value,
	}, true
}

// curIsPropertyName reports whether the current token can serve as an
// object literal key: identifiers, strings, numbers, and keywords
// ("default" and "from" appear as keys in real settings declarations).
func (p *Parser) curIsPropertyName() bool {
	switch p.curToken.Type {
	case token.IDENT, token.STRING, token.INT:
		return true
	}
	// Any keyword spelled as a word is a valid property name.
	return isWordToken(p.curToken)
}

func (p *Parser) peekIsPropertyName() bool {
	switch p.peekToken.Type {
	case token.IDENT, token.STRING, token.INT:
		return true
	}
	return isWordToken(p.peekToken)
}

// isWordToken reports whether a token is a keyword spelled as a word
// (as opposed to punctuation), making it usable as a property name.
func isWordToken(tok token.Token) bool {
	if len(tok.Literal) == 0 {
		return false
	}
	c := tok.Literal[0]
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func (p *Parser) parseSpread() ast.Expr {
	ellipsis := p.curToken.StartPosition
	p.nextToken()
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	return &ast.Spread{Ellipsis: ellipsis, X: x}
}

// skipBalanced consumes tokens until the bracket that matches the current
// token. The current token must be of type open.
func (p *Parser) skipBalanced(open, close token.Type) bool {
	depth := 1
	for depth > 0 {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.peekToken, "unexpected end of input (unbalanced %q)", string(open))
			return false
		}
		if err := p.nextToken(); err != nil {
			return false
		}
		switch p.curToken.Type {
		case open:
			depth++
		case close:
			depth--
		}
	}
	return true
}

// skipReturnTypeAnnotation skips a ": Type" return annotation that may
// follow a parameter list, up to the opening brace of the body.
func (p *Parser) skipReturnTypeAnnotation() {
	if !p.peekTokenIs(token.COLON) {
		return
	}
	p.nextToken() // the colon
	for !p.peekTokenIs(token.LBRACE) && !p.peekTokenIs(token.EOF) {
		p.nextToken()
	}
}
