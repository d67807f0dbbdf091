package parser

import (
	"strings"

	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/internal/token"
)

// Expression parsing methods for the Parser:
// - Identifiers and prefix/infix operator expressions
// - Property access, index, and call expressions
// - Arrow functions (both bare-parameter and parenthesized forms)
// - Wrapper forms: parentheses, "as"/"satisfies" assertions, non-null "!"

func (p *Parser) parseIdent() ast.Expr {
	return &ast.Ident{
		NamePos: p.curToken.StartPosition,
		Name:    p.curToken.Literal,
	}
}

func (p *Parser) parsePrefixExpr() ast.Expr {
	tok := p.curToken
	if err := p.nextToken(); err != nil {
		return nil
	}
	x := p.parseExpression(PREFIX)
	if x == nil {
		return nil
	}
	return &ast.Prefix{OpPos: tok.StartPosition, Op: tok.Literal, X: x}
}

func (p *Parser) parseInfixExpr(left ast.Expr) ast.Expr {
	op := p.curToken.Literal
	precedence := p.curPrecedence()
	if err := p.nextToken(); err != nil {
		return nil
	}
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &ast.Infix{X: left, Op: op, Y: right}
}

// parseGetAttr parses a property access: object.member or object?.member.
// Keywords are accepted as member names ("Array.from", "x.default").
func (p *Parser) parseGetAttr(left ast.Expr) ast.Expr {
	if err := p.nextToken(); err != nil {
		return nil
	}
	if !p.curTokenIs(token.IDENT) && !isWordToken(p.curToken) {
		p.setTokenError(p.curToken, "invalid property name %q", p.curToken.Literal)
		return nil
	}
	return &ast.GetAttr{
		X: left,
		Attr: &ast.Ident{
			NamePos: p.curToken.StartPosition,
			Name:    p.curToken.Literal,
		},
	}
}

func (p *Parser) parseIndex(left ast.Expr) ast.Expr {
	if err := p.nextToken(); err != nil {
		return nil
	}
	index := p.parseExpression(LOWEST)
	if index == nil {
		return nil
	}
	if !p.expectPeek("index expression", token.RBRACKET) {
		return nil
	}
	return &ast.Index{X: left, Index: index, Rbrack: p.curToken.StartPosition}
}

func (p *Parser) parseCall(left ast.Expr) ast.Expr {
	var args []ast.Expr
	for !p.peekTokenIs(token.RPAREN) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.peekToken, "unterminated call expression")
			return nil
		}
		p.nextToken()
		arg := p.parseExpression(LOWEST)
		if arg == nil {
			return nil
		}
		args = append(args, arg)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek("call expression", token.RPAREN) {
		return nil
	}
	return &ast.Call{Fun: left, Args: args, Rparen: p.curToken.StartPosition}
}

func (p *Parser) parseConditional(left ast.Expr) ast.Expr {
	if err := p.nextToken(); err != nil {
		return nil
	}
	ifTrue := p.parseExpression(LOWEST)
	if ifTrue == nil {
		return nil
	}
	if !p.expectPeek("conditional expression", token.COLON) {
		return nil
	}
	if err := p.nextToken(); err != nil {
		return nil
	}
	ifFalse := p.parseExpression(TERNARY)
	if ifFalse == nil {
		return nil
	}
	return &ast.Conditional{Cond: left, IfTrue: ifTrue, IfFalse: ifFalse}
}

// parseAs parses an "expr as Type" or "expr satisfies Type" assertion.
// The type itself is recorded as text only.
func (p *Parser) parseAs(left ast.Expr) ast.Expr {
	if err := p.nextToken(); err != nil {
		return nil
	}
	typeText, end, ok := p.readTypeText()
	if !ok {
		return nil
	}
	return &ast.As{X: left, Type: typeText, EndPos: end}
}

// readTypeText consumes a type expression starting at the current token and
// returns its source text. Handles dotted names, generic arguments, and
// array suffixes; the contents are not interpreted.
func (p *Parser) readTypeText() (string, token.Position, bool) {
	if !p.curTokenIs(token.IDENT) && !isWordToken(p.curToken) {
		p.setTokenError(p.curToken, "invalid type in assertion: %q", p.curToken.Literal)
		return "", token.NoPos, false
	}
	var sb strings.Builder
	sb.WriteString(p.curToken.Literal)
	end := p.curToken.EndPosition
	for {
		switch {
		case p.peekTokenIs(token.PERIOD):
			p.nextToken()
			if err := p.nextToken(); err != nil {
				return "", token.NoPos, false
			}
			sb.WriteString(".")
			sb.WriteString(p.curToken.Literal)
			end = p.curToken.EndPosition
		case p.peekTokenIs(token.LT):
			// Generic arguments: skip to the balancing ">".
			p.nextToken()
			depth := 1
			sb.WriteString("<...>")
			for depth > 0 {
				if p.peekTokenIs(token.EOF) {
					p.setTokenError(p.peekToken, "unterminated generic type arguments")
					return "", token.NoPos, false
				}
				if err := p.nextToken(); err != nil {
					return "", token.NoPos, false
				}
				switch p.curToken.Type {
				case token.LT:
					depth++
				case token.GT:
					depth--
				case token.GT_GT:
					depth -= 2
				case token.GT_GT_GT:
					depth -= 3
				}
			}
			end = p.curToken.EndPosition
		case p.peekTokenIs(token.LBRACKET):
			p.nextToken()
			if !p.expectPeek("array type suffix", token.RBRACKET) {
				return "", token.NoPos, false
			}
			sb.WriteString("[]")
			end = p.curToken.EndPosition
		default:
			return sb.String(), end, true
		}
	}
}

// parseNonNull handles the postfix non-null assertion "x!", which is
// transparent to evaluation.
func (p *Parser) parseNonNull(left ast.Expr) ast.Expr {
	return left
}

// parseArrowFromIdent parses "x => body": the current token is the arrow
// and left must be a plain identifier.
func (p *Parser) parseArrowFromIdent(left ast.Expr) ast.Expr {
	ident, ok := ast.Unwrap(left).(*ast.Ident)
	if !ok {
		p.setTokenError(p.curToken, "invalid arrow function parameter")
		return nil
	}
	return p.parseArrowBody(p.curToken.StartPosition, []*ast.Ident{ident})
}

// parseGroupedOrArrow parses either a parenthesized expression or a
// parenthesized arrow function parameter list, deciding by whether the
// closing parenthesis is followed by "=>".
func (p *Parser) parseGroupedOrArrow() ast.Expr {
	lparen := p.curToken.StartPosition

	// Empty parens can only begin an arrow function: () => body
	if p.peekTokenIs(token.RPAREN) {
		p.nextToken()
		if !p.expectPeek("arrow function", token.ARROW) {
			return nil
		}
		return p.parseArrowBody(p.curToken.StartPosition, nil)
	}

	var exprs []ast.Expr
	for {
		if err := p.nextToken(); err != nil {
			return nil
		}
		expr := p.parseExpression(LOWEST)
		if expr == nil {
			return nil
		}
		exprs = append(exprs, expr)
		// Tolerate TypeScript parameter syntax: optional markers, type
		// annotations, and default values.
		if p.peekTokenIs(token.QUESTION) {
			p.nextToken()
		}
		if p.peekTokenIs(token.COLON) {
			p.nextToken()
			if !p.skipParamType() {
				return nil
			}
		}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken()
			if err := p.nextToken(); err != nil {
				return nil
			}
			if p.parseExpression(LOWEST) == nil {
				return nil
			}
		}
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek("parenthesized expression", token.RPAREN) {
		return nil
	}
	rparen := p.curToken.StartPosition

	if p.peekTokenIs(token.ARROW) {
		p.nextToken()
		params := make([]*ast.Ident, 0, len(exprs))
		for _, expr := range exprs {
			ident, ok := ast.Unwrap(expr).(*ast.Ident)
			if !ok {
				p.setTokenError(p.curToken, "unsupported arrow function parameter: %s", expr.String())
				return nil
			}
			params = append(params, ident)
		}
		return p.parseArrowBody(p.curToken.StartPosition, params)
	}

	if len(exprs) != 1 {
		p.setTokenError(p.curToken, "unexpected expression list")
		return nil
	}
	return &ast.Paren{Lparen: lparen, X: exprs[0], Rparen: rparen}
}

// skipParamType consumes a parameter type annotation up to (not including)
// the next top-level comma or closing parenthesis.
func (p *Parser) skipParamType() bool {
	depth := 0
	for {
		switch p.peekToken.Type {
		case token.EOF:
			p.setTokenError(p.peekToken, "unterminated type annotation")
			return false
		case token.LPAREN, token.LBRACKET, token.LBRACE, token.LT:
			depth++
		case token.RBRACKET, token.RBRACE, token.GT:
			depth--
		case token.GT_GT:
			depth -= 2
		case token.GT_GT_GT:
			depth -= 3
		case token.RPAREN:
			if depth == 0 {
				return true
			}
			depth--
		case token.COMMA, token.ASSIGN, token.ARROW:
			if depth == 0 {
				return true
			}
		}
		if err := p.nextToken(); err != nil {
			return false
		}
	}
}

// parseArrowBody parses the body that follows "=>". An expression body is
// captured directly; a block body is captured only when it is a single
// return statement, since anything else cannot be evaluated statically.
func (p *Parser) parseArrowBody(arrowPos token.Position, params []*ast.Ident) ast.Expr {
	if err := p.nextToken(); err != nil {
		return nil
	}
	if p.curTokenIs(token.LBRACE) {
		if p.peekTokenIs(token.RETURN) {
			p.nextToken() // the return keyword
			if err := p.nextToken(); err != nil {
				return nil
			}
			body := p.parseExpression(LOWEST)
			if body == nil {
				return nil
			}
			if p.peekTokenIs(token.SEMICOLON) {
				p.nextToken()
			}
			if !p.expectPeek("arrow function body", token.RBRACE) {
				return nil
			}
			return &ast.Arrow{ArrowPos: arrowPos, Params: params, Body: body}
		}
		// Multi-statement body: skip it and record the function as having
		// no evaluable body.
		if !p.skipBalanced(token.LBRACE, token.RBRACE) {
			return nil
		}
		return &ast.Arrow{ArrowPos: arrowPos, Params: params}
	}
	body := p.parseExpression(ARROW)
	if body == nil {
		return nil
	}
	return &ast.Arrow{ArrowPos: arrowPos, Params: params, Body: body}
}
