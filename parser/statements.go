package parser

import (
	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/internal/token"
)

// Statement parsing methods for the Parser:
// - const/let/var declarations (single or comma-separated declarators)
// - enum declarations (including "const enum")
// - import and export statements
// - function declarations (bodies are skipped, never evaluated)
// - TypeScript-only statements (type aliases, interfaces) are skipped
//
// A statement parser may produce more than one AST statement (for
// multi-declarator declarations); extras are queued on p.pending and
// drained by Parse.

// parseStatement parses the statement starting at the current token.
// A nil result with no recorded error means the statement was
// intentionally skipped (semicolons, type-only statements).
func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case token.SEMICOLON:
		return nil
	case token.IMPORT:
		return p.parseImport()
	case token.EXPORT:
		return p.parseExport()
	case token.CONST, token.LET, token.VAR:
		return p.parseDecl(false)
	case token.ENUM:
		return p.parseEnum(false)
	case token.FUNCTION:
		return p.parseFuncDecl(false)
	case token.IDENT:
		switch p.curToken.Literal {
		case "declare":
			// Ambient declaration: "declare const x: string;"
			switch p.peekToken.Type {
			case token.CONST, token.LET, token.VAR:
				p.nextToken()
				return p.parseDecl(false)
			case token.ENUM:
				p.nextToken()
				return p.parseEnum(false)
			case token.FUNCTION:
				p.nextToken()
				return p.parseFuncDecl(false)
			}
		case "type", "interface", "namespace":
			p.skipToStatementEnd()
			return nil
		}
	}
	return p.parseExprStatement()
}

func (p *Parser) parseExprStatement() ast.Stmt {
	x := p.parseExpression(LOWEST)
	if x == nil {
		return nil
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.ExprStmt{X: x}
}

// parseDecl parses a const/let/var declaration. The current token is the
// declaration keyword.
func (p *Parser) parseDecl(exported bool) ast.Stmt {
	declPos := p.curToken.StartPosition
	kind := p.curToken.Literal

	// "const enum X { ... }" declares an enum, not a variable.
	if p.curTokenIs(token.CONST) && p.peekTokenIs(token.ENUM) {
		p.nextToken()
		return p.parseEnum(exported)
	}

	first := p.parseDeclarator(declPos, kind, exported)
	if first == nil {
		return nil
	}
	for p.peekTokenIs(token.COMMA) {
		p.nextToken() // the comma
		extra := p.parseDeclarator(declPos, kind, exported)
		if extra == nil {
			return nil
		}
		p.pending = append(p.pending, extra)
	}
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return first
}

// parseDeclarator parses one "name [: Type] [= expr]" declarator. The
// current token is the token before the name.
func (p *Parser) parseDeclarator(declPos token.Position, kind string, exported bool) *ast.Decl {
	if !p.expectPeek("declaration", token.IDENT) {
		return nil
	}
	name := &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if !p.skipDeclType() {
			return nil
		}
	}
	var value ast.Expr
	if p.peekTokenIs(token.ASSIGN) {
		p.nextToken() // the equals sign
		if err := p.nextToken(); err != nil {
			return nil
		}
		value = p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
	}
	return &ast.Decl{
		DeclPos:  declPos,
		Kind:     kind,
		Name:     name,
		Value:    value,
		Exported: exported,
	}
}

// skipDeclType consumes a declaration type annotation up to (not including)
// the "=" sign, a comma, or the end of the statement.
func (p *Parser) skipDeclType() bool {
	depth := 0
	for {
		switch p.peekToken.Type {
		case token.EOF:
			return true
		case token.LPAREN, token.LBRACKET, token.LBRACE, token.LT:
			depth++
		case token.RPAREN, token.RBRACKET, token.RBRACE, token.GT:
			depth--
		case token.GT_GT:
			depth -= 2
		case token.GT_GT_GT:
			depth -= 3
		case token.ASSIGN, token.SEMICOLON, token.COMMA:
			if depth <= 0 {
				return true
			}
		}
		if err := p.nextToken(); err != nil {
			return false
		}
	}
}

// parseEnum parses an enum declaration. The current token is "enum".
func (p *Parser) parseEnum(exported bool) ast.Stmt {
	enumPos := p.curToken.StartPosition
	if !p.expectPeek("enum", token.IDENT) {
		return nil
	}
	name := &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if !p.expectPeek("enum", token.LBRACE) {
		return nil
	}
	var members []ast.EnumMember
	for !p.peekTokenIs(token.RBRACE) {
		if p.peekTokenIs(token.EOF) {
			p.setTokenError(p.peekToken, "unterminated enum declaration")
			return nil
		}
		p.nextToken()
		if !p.curIsPropertyName() {
			p.setTokenError(p.curToken, "invalid enum member name %q", p.curToken.Literal)
			return nil
		}
		member := ast.EnumMember{Name: p.curToken.Literal}
		if p.peekTokenIs(token.ASSIGN) {
			p.nextToken() // the equals sign
			if err := p.nextToken(); err != nil {
				return nil
			}
			member.Value = p.parseExpression(LOWEST)
			if member.Value == nil {
				return nil
			}
		}
		members = append(members, member)
		if p.peekTokenIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek("enum", token.RBRACE) {
		return nil
	}
	return &ast.Enum{
		EnumPos:  enumPos,
		Name:     name,
		Members:  members,
		Rbrace:   p.curToken.StartPosition,
		Exported: exported,
	}
}

// parseImport records an import statement without resolving it. Only the
// imported names and the module path are kept.
func (p *Parser) parseImport() ast.Stmt {
	importPos := p.curToken.StartPosition
	var names []string
	for !p.curTokenIs(token.STRING) {
		if p.curTokenIs(token.EOF) || p.curTokenIs(token.SEMICOLON) {
			p.setTokenError(p.curToken, "import statement missing module path")
			return nil
		}
		if p.curTokenIs(token.IDENT) && p.curToken.Literal != "type" {
			names = append(names, p.curToken.Literal)
		}
		if err := p.nextToken(); err != nil {
			return nil
		}
	}
	path := p.curToken.Literal
	endPos := p.curToken.EndPosition
	if p.peekTokenIs(token.SEMICOLON) {
		p.nextToken()
	}
	return &ast.Import{
		ImportPos: importPos,
		EndPos:    endPos,
		Names:     names,
		Path:      path,
	}
}

// parseExport parses the statement following an "export" keyword.
func (p *Parser) parseExport() ast.Stmt {
	exportPos := p.curToken.StartPosition
	switch p.peekToken.Type {
	case token.DEFAULT:
		p.nextToken() // the default keyword
		if err := p.nextToken(); err != nil {
			return nil
		}
		value := p.parseExpression(LOWEST)
		if value == nil {
			return nil
		}
		if p.peekTokenIs(token.SEMICOLON) {
			p.nextToken()
		}
		return &ast.ExportDefault{ExportPos: exportPos, Value: value}
	case token.CONST, token.LET, token.VAR:
		p.nextToken()
		return p.parseDecl(true)
	case token.ENUM:
		p.nextToken()
		return p.parseEnum(true)
	case token.FUNCTION:
		p.nextToken()
		return p.parseFuncDecl(true)
	case token.LBRACE:
		// Re-export list: "export { a, b } from 'mod'". Nothing to record.
		p.nextToken()
		if !p.skipBalanced(token.LBRACE, token.RBRACE) {
			return nil
		}
		p.skipToStatementEnd()
		return nil
	case token.ASTERISK:
		p.skipToStatementEnd()
		return nil
	default:
		if p.peekTokenIs(token.IDENT) &&
			(p.peekToken.Literal == "type" || p.peekToken.Literal == "interface" ||
				p.peekToken.Literal == "namespace" || p.peekToken.Literal == "declare") {
			p.skipToStatementEnd()
			return nil
		}
		p.setTokenError(p.peekToken, "unsupported export form: %q", p.peekToken.Literal)
		return nil
	}
}

// parseFuncDecl parses a function declaration, skipping the body.
func (p *Parser) parseFuncDecl(exported bool) ast.Stmt {
	funcPos := p.curToken.StartPosition
	if !p.expectPeek("function declaration", token.IDENT) {
		return nil
	}
	name := &ast.Ident{NamePos: p.curToken.StartPosition, Name: p.curToken.Literal}
	if !p.expectPeek("function declaration", token.LPAREN) {
		return nil
	}
	if !p.skipBalanced(token.LPAREN, token.RPAREN) {
		return nil
	}
	p.skipReturnTypeAnnotation()
	if !p.expectPeek("function declaration", token.LBRACE) {
		return nil
	}
	if !p.skipBalanced(token.LBRACE, token.RBRACE) {
		return nil
	}
	return &ast.FuncDecl{
		FuncPos:  funcPos,
		Name:     name,
		EndPos:   p.curToken.EndPosition,
		Exported: exported,
	}
}

// skipToStatementEnd consumes tokens through the end of the current
// statement, balancing braces so that type/interface bodies are skipped
// whole.
func (p *Parser) skipToStatementEnd() {
	depth := 0
	for {
		switch p.peekToken.Type {
		case token.EOF:
			return
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				p.nextToken()
				if p.peekTokenIs(token.SEMICOLON) {
					p.nextToken()
				}
				return
			}
		case token.SEMICOLON:
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		if err := p.nextToken(); err != nil {
			return
		}
	}
}
