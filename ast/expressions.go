package ast

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/settix/internal/token"
)

// Ident is an identifier.
type Ident struct {
	NamePos token.Position
	Name    string
}

func (x *Ident) exprNode() {}

func (x *Ident) Pos() token.Position { return x.NamePos }
func (x *Ident) End() token.Position { return x.NamePos.Advance(len(x.Name)) }

func (x *Ident) String() string { return x.Name }

// Prefix is a prefix operator expression, e.g. -x or !x.
type Prefix struct {
	OpPos token.Position
	Op    string
	X     Expr
}

func (x *Prefix) exprNode() {}

func (x *Prefix) Pos() token.Position { return x.OpPos }
func (x *Prefix) End() token.Position { return x.X.End() }

func (x *Prefix) String() string {
	return fmt.Sprintf("(%s%s)", x.Op, x.X.String())
}

// Infix is a binary operator expression.
type Infix struct {
	X  Expr
	Op string
	Y  Expr
}

func (x *Infix) exprNode() {}

func (x *Infix) Pos() token.Position { return x.X.Pos() }
func (x *Infix) End() token.Position { return x.Y.End() }

func (x *Infix) String() string {
	return fmt.Sprintf("(%s %s %s)", x.X.String(), x.Op, x.Y.String())
}

// Spread is a spread expression, e.g. ...items in an array or object literal.
type Spread struct {
	Ellipsis token.Position
	X        Expr
}

func (x *Spread) exprNode() {}

func (x *Spread) Pos() token.Position { return x.Ellipsis }
func (x *Spread) End() token.Position { return x.X.End() }

func (x *Spread) String() string { return "..." + x.X.String() }

// GetAttr is a property access expression, e.g. object.member.
type GetAttr struct {
	X    Expr
	Attr *Ident
}

func (x *GetAttr) exprNode() {}

func (x *GetAttr) Pos() token.Position { return x.X.Pos() }
func (x *GetAttr) End() token.Position { return x.Attr.End() }

func (x *GetAttr) String() string {
	return fmt.Sprintf("%s.%s", x.X.String(), x.Attr.Name)
}

// Index is an index expression, e.g. table[key].
type Index struct {
	X      Expr
	Index  Expr
	Rbrack token.Position
}

func (x *Index) exprNode() {}

func (x *Index) Pos() token.Position { return x.X.Pos() }
func (x *Index) End() token.Position { return x.Rbrack.Advance(1) }

func (x *Index) String() string {
	return fmt.Sprintf("%s[%s]", x.X.String(), x.Index.String())
}

// Call is a call expression.
type Call struct {
	Fun    Expr
	Args   []Expr
	Rparen token.Position
}

func (x *Call) exprNode() {}

func (x *Call) Pos() token.Position { return x.Fun.Pos() }
func (x *Call) End() token.Position { return x.Rparen.Advance(1) }

func (x *Call) String() string {
	args := make([]string, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, a.String())
	}
	return fmt.Sprintf("%s(%s)", x.Fun.String(), strings.Join(args, ", "))
}

// Conditional is a ternary expression. It parses so that one conditional
// default does not break extraction of sibling settings, but it is never
// evaluable: defaults that depend on runtime conditions cannot be captured
// statically.
type Conditional struct {
	Cond    Expr
	IfTrue  Expr
	IfFalse Expr
}

func (x *Conditional) exprNode() {}

func (x *Conditional) Pos() token.Position { return x.Cond.Pos() }
func (x *Conditional) End() token.Position { return x.IfFalse.End() }

func (x *Conditional) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", x.Cond.String(), x.IfTrue.String(), x.IfFalse.String())
}

// As is a type assertion wrapper, e.g. expr as const or expr as SomeType.
// The evaluator sees straight through it to X.
type As struct {
	X      Expr
	Type   string
	EndPos token.Position
}

func (x *As) exprNode() {}

func (x *As) Pos() token.Position { return x.X.Pos() }
func (x *As) End() token.Position { return x.EndPos }

func (x *As) String() string {
	return fmt.Sprintf("%s as %s", x.X.String(), x.Type)
}

// Paren is a parenthesized expression. Kept as a node so wrapper
// unwrapping is explicit in the evaluator.
type Paren struct {
	Lparen token.Position
	X      Expr
	Rparen token.Position
}

func (x *Paren) exprNode() {}

func (x *Paren) Pos() token.Position { return x.Lparen }
func (x *Paren) End() token.Position { return x.Rparen.Advance(1) }

func (x *Paren) String() string { return "(" + x.X.String() + ")" }

// Unwrap removes transparent wrapper forms (parentheses and type
// assertions) from around an expression.
func Unwrap(e Expr) Expr {
	for {
		switch wrapped := e.(type) {
		case *Paren:
			e = wrapped.X
		case *As:
			e = wrapped.X
		default:
			return e
		}
	}
}
