package settings

import (
	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/errz"
	"github.com/deepnoodle-ai/settix/eval"
	"github.com/deepnoodle-ai/settix/value"
)

// defaultInput carries the evidence the default resolver works from: the
// classified type, the raw default initializer, whether the default was
// declared as a getter, the evaluated literal default (nil when the
// expression did not evaluate), and the extracted choices.
type defaultInput struct {
	Type        TargetType
	DefaultExpr ast.Expr
	IsGetter    bool
	Default     value.Value
	Choices     *Choices
}

// Defaults computes the final (type, default) pair for a setting. The
// classified type can still change here: string-array evidence collapses
// to a string list, unresolvable custom defaults demote to a nullable
// string, and resolvable opaque defaults promote to attribute types.
type Defaults struct {
	ev *eval.Evaluator
}

// NewDefaults returns a resolver evaluating through ev.
func NewDefaults(ev *eval.Evaluator) *Defaults {
	return &Defaults{ev: ev}
}

// Resolve applies the default precedence rules. A nil value result means
// the default is absent and must be omitted from output; a non-nil error
// means the setting itself cannot be emitted.
func (d *Defaults) Resolve(in defaultInput) (TargetType, value.Value, error) {
	// An evaluated literal default wins outright. A null literal counts as
	// evidence only for nullable types; elsewhere it means "no default".
	if in.Default != nil {
		if _, isNull := in.Default.(*value.Null); !isNull || in.Type == NullableStr {
			return in.Type, coerce(in.Type, in.Default), nil
		}
	}

	// String-array defaults are type evidence only: the target collapses
	// to a string list and the emitted default is deliberately empty.
	if arr, ok := d.resolveArray(in.DefaultExpr); ok && arrayShape(arr) == shapeStrings {
		return ListOfStr, &value.List{}, nil
	}

	switch in.Type {
	case Bool:
		if marked, ok := in.Choices.Marked(); ok {
			return Bool, coerce(Bool, marked), nil
		}
		return Bool, &value.Bool{Value: false}, nil

	case Enum:
		if marked, ok := in.Choices.Marked(); ok {
			return Enum, marked, nil
		}
		if in.Choices.Empty() {
			return Enum, nil, errz.New(errz.MissingRequiredProperty, in.DefaultExpr,
				"enumerated setting has no choices to default from")
		}
		return Enum, in.Choices.Values[0], nil

	case Str:
		if in.DefaultExpr == nil {
			return Str, nil, nil
		}
		if ident, ok := ast.Unwrap(in.DefaultExpr).(*ast.Ident); ok {
			if _, ok := d.ev.Resolver().ResolveArray(ident.Name); ok {
				// String-shaped arrays were collapsed above, so what is
				// left is an array of richer shapes.
				return ListOfAttrs, &value.List{}, nil
			}
			if _, ok := d.ev.Resolver().ResolveObject(ident.Name); ok {
				return Attrs, value.NewAttrs(), nil
			}
			// A default bound to something we cannot see the shape of is
			// emitted as an optional string so users can still override it.
			return NullableStr, &value.Null{}, nil
		}
		return Str, nil, nil

	case NullableStr:
		return NullableStr, &value.Null{}, nil

	case Attrs:
		if in.IsGetter {
			// Computed defaults cannot be captured statically.
			return NullableStr, &value.Null{}, nil
		}
		if in.DefaultExpr != nil {
			if call, ok := ast.Unwrap(in.DefaultExpr).(*ast.Call); ok {
				return Attrs, d.foldCall(call), nil
			}
		}
		return Attrs, value.NewAttrs(), nil

	case ListOfStr:
		return ListOfStr, &value.List{}, nil

	case ListOfAttrs:
		return ListOfAttrs, &value.List{}, nil
	}

	return in.Type, nil, nil
}

// coerce applies type-directed presentation coercions to an evaluated
// default: an integer default of a float-typed setting widens so the
// emitted literal carries a fractional digit, and a whole-number float
// default of an int-typed setting narrows so it does not.
func coerce(t TargetType, v value.Value) value.Value {
	switch t {
	case Float:
		if i, ok := v.(*value.Int); ok {
			return &value.Float{Value: float64(i.Value)}
		}
	case Int:
		if f, ok := v.(*value.Float); ok && f.Integral() {
			return &value.Int{Value: int64(f.Value)}
		}
	}
	return v
}

// foldCall statically folds a constructor-style default such as
// makeDefaults({...}) into an attribute map by evaluating each property of
// the call's first object-literal argument. Properties that are literal
// collections but not evaluable degrade to an empty nested collection;
// other unresolvable properties are dropped. A call with no object-literal
// argument folds to an empty map.
func (d *Defaults) foldCall(call *ast.Call) *value.Attrs {
	attrs := value.NewAttrs()
	var obj *ast.Object
	for _, arg := range call.Args {
		if o, ok := ast.Unwrap(arg).(*ast.Object); ok {
			obj = o
			break
		}
	}
	if obj == nil {
		return attrs
	}
	for _, p := range obj.Properties {
		if p.Key == "" || p.Getter || p.Value == nil || p.IsSpread() {
			continue
		}
		if v, err := d.ev.Evaluate(p.Value); err == nil {
			attrs.Set(p.Key, v)
			continue
		}
		switch ast.Unwrap(p.Value).(type) {
		case *ast.Array:
			attrs.Set(p.Key, &value.List{})
		case *ast.Object:
			attrs.Set(p.Key, value.NewAttrs())
		}
	}
	return attrs
}

func (d *Defaults) resolveArray(expr ast.Expr) (*ast.Array, bool) {
	if expr == nil {
		return nil, false
	}
	switch e := ast.Unwrap(expr).(type) {
	case *ast.Array:
		return e, true
	case *ast.Ident:
		return d.ev.Resolver().ResolveArray(e.Name)
	}
	return nil, false
}
