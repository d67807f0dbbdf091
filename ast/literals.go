package ast

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/settix/internal/token"
)

// Int is an integer literal.
type Int struct {
	ValuePos token.Position
	Literal  string // source text of the literal
	Value    int64
}

func (x *Int) exprNode() {}

func (x *Int) Pos() token.Position { return x.ValuePos }
func (x *Int) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Int) String() string { return x.Literal }

// Float is a floating point literal.
type Float struct {
	ValuePos token.Position
	Literal  string
	Value    float64
}

func (x *Float) exprNode() {}

func (x *Float) Pos() token.Position { return x.ValuePos }
func (x *Float) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Float) String() string { return x.Literal }

// Bool is a boolean literal.
type Bool struct {
	ValuePos token.Position
	Literal  string
	Value    bool
}

func (x *Bool) exprNode() {}

func (x *Bool) Pos() token.Position { return x.ValuePos }
func (x *Bool) End() token.Position { return x.ValuePos.Advance(len(x.Literal)) }

func (x *Bool) String() string { return x.Literal }

// Null is the "null" or "undefined" literal. The two are distinguished
// because classification treats an undefined default differently from an
// explicit null.
type Null struct {
	ValuePos  token.Position
	Undefined bool
}

func (x *Null) exprNode() {}

func (x *Null) Pos() token.Position { return x.ValuePos }

func (x *Null) End() token.Position {
	if x.Undefined {
		return x.ValuePos.Advance(9) // len("undefined")
	}
	return x.ValuePos.Advance(4) // len("null")
}

func (x *Null) String() string {
	if x.Undefined {
		return "undefined"
	}
	return "null"
}

// String is a single- or double-quoted string literal. Value holds the
// decoded text.
type String struct {
	ValuePos token.Position
	EndPos   token.Position
	Value    string
}

func (x *String) exprNode() {}

func (x *String) Pos() token.Position { return x.ValuePos }
func (x *String) End() token.Position { return x.EndPos }

func (x *String) String() string { return fmt.Sprintf("%q", x.Value) }

// TemplatePart is one fragment of a template literal: either literal text
// (Expr nil) or an interpolated expression (Text empty).
type TemplatePart struct {
	Text string
	Expr Expr
}

// Template is a backtick template literal split into its fragments.
type Template struct {
	ValuePos token.Position
	EndPos   token.Position
	Parts    []TemplatePart
}

func (x *Template) exprNode() {}

func (x *Template) Pos() token.Position { return x.ValuePos }
func (x *Template) End() token.Position { return x.EndPos }

func (x *Template) String() string {
	var sb strings.Builder
	sb.WriteString("`")
	for _, part := range x.Parts {
		if part.Expr != nil {
			sb.WriteString("${")
			sb.WriteString(part.Expr.String())
			sb.WriteString("}")
		} else {
			sb.WriteString(part.Text)
		}
	}
	sb.WriteString("`")
	return sb.String()
}

// Array is an array literal. Elements may include Spread expressions.
type Array struct {
	Lbrack   token.Position
	Elements []Expr
	Rbrack   token.Position
}

func (x *Array) exprNode() {}

func (x *Array) Pos() token.Position { return x.Lbrack }
func (x *Array) End() token.Position { return x.Rbrack.Advance(1) }

func (x *Array) String() string {
	elems := make([]string, 0, len(x.Elements))
	for _, e := range x.Elements {
		elems = append(elems, e.String())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// Property is one item in an object literal. Exactly one of the following
// shapes holds:
//   - key/value pair: Key set, Value set
//   - getter: Key set, Getter true, Value nil (the body is not captured)
//   - spread: Key empty, Value is a *Spread
type Property struct {
	KeyPos token.Position
	Key    string
	Value  Expr
	Getter bool
}

// IsSpread reports whether this property is a spread item.
func (p Property) IsSpread() bool {
	_, ok := p.Value.(*Spread)
	return p.Key == "" && ok
}

// Object is an object literal.
type Object struct {
	Lbrace     token.Position
	Properties []Property
	Rbrace     token.Position
}

func (x *Object) exprNode() {}

func (x *Object) Pos() token.Position { return x.Lbrace }
func (x *Object) End() token.Position { return x.Rbrace.Advance(1) }

// Prop returns the value of the named non-spread property, or nil.
func (x *Object) Prop(name string) Expr {
	for _, p := range x.Properties {
		if p.Key == name && !p.Getter {
			return p.Value
		}
	}
	return nil
}

// HasProp reports whether the named property is present, whether stored
// or declared as a getter.
func (x *Object) HasProp(name string) bool {
	for _, p := range x.Properties {
		if p.Key == name {
			return true
		}
	}
	return false
}

// GetterProp reports whether the named property is declared as a getter.
func (x *Object) GetterProp(name string) bool {
	for _, p := range x.Properties {
		if p.Key == name && p.Getter {
			return true
		}
	}
	return false
}

func (x *Object) String() string {
	items := make([]string, 0, len(x.Properties))
	for _, p := range x.Properties {
		switch {
		case p.IsSpread():
			items = append(items, p.Value.String())
		case p.Getter:
			items = append(items, fmt.Sprintf("get %s() {...}", p.Key))
		default:
			items = append(items, fmt.Sprintf("%s: %s", p.Key, p.Value.String()))
		}
	}
	return "{" + strings.Join(items, ", ") + "}"
}

// Arrow is an arrow function literal. Body is the expression the function
// returns; a block body that is anything other than a single return
// statement yields a nil Body and the function is not evaluable.
type Arrow struct {
	ArrowPos token.Position
	Params   []*Ident
	Body     Expr
}

func (x *Arrow) exprNode() {}

func (x *Arrow) Pos() token.Position { return x.ArrowPos }

func (x *Arrow) End() token.Position {
	if x.Body != nil {
		return x.Body.End()
	}
	return x.ArrowPos
}

func (x *Arrow) String() string {
	params := make([]string, 0, len(x.Params))
	for _, p := range x.Params {
		params = append(params, p.Name)
	}
	body := "{...}"
	if x.Body != nil {
		body = x.Body.String()
	}
	return fmt.Sprintf("(%s) => %s", strings.Join(params, ", "), body)
}
