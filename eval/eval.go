// Package eval symbolically evaluates the restricted expression grammar
// found in plugin settings declarations.
//
// Evaluation never executes the analyzed program: it walks expression
// nodes, resolves references through static scope lookup, and either
// produces a literal value or a typed errz failure. It is a pure function
// over immutable inputs: the same node and environment always yield the
// same outcome.
package eval

import (
	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/errz"
	"github.com/deepnoodle-ai/settix/program"
	"github.com/deepnoodle-ai/settix/value"
)

// maxDepth bounds reference-chasing so that cyclic declarations terminate
// with an error instead of recursing forever.
const maxDepth = 32

// Env carries local bindings that shadow file declarations, used when a
// mapper function body is evaluated once per source element.
type Env map[string]value.Value

// Evaluator evaluates expressions against one parsed file.
type Evaluator struct {
	file     *program.File
	resolver *Resolver
}

// New returns an Evaluator over the given file.
func New(file *program.File) *Evaluator {
	return &Evaluator{file: file, resolver: NewResolver(file)}
}

// Resolver returns the evaluator's reference resolver.
func (e *Evaluator) Resolver() *Resolver {
	return e.resolver
}

// Evaluate evaluates an expression to a literal value.
func (e *Evaluator) Evaluate(expr ast.Expr) (value.Value, error) {
	return e.eval(expr, nil, 0)
}

// EvaluateWith evaluates an expression with local bindings in scope.
func (e *Evaluator) EvaluateWith(expr ast.Expr, env Env) (value.Value, error) {
	return e.eval(expr, env, 0)
}

func (e *Evaluator) eval(expr ast.Expr, env Env, depth int) (value.Value, error) {
	if depth > maxDepth {
		return nil, errz.New(errz.UnresolvedIdentifier, expr,
			"reference chain exceeds %d levels", maxDepth)
	}
	// Type assertions and parentheses are transparent.
	expr = ast.Unwrap(expr)
	switch x := expr.(type) {
	case *ast.String:
		return &value.String{Value: x.Value}, nil
	case *ast.Int:
		return &value.Int{Value: x.Value}, nil
	case *ast.Float:
		return &value.Float{Value: x.Value}, nil
	case *ast.Bool:
		return &value.Bool{Value: x.Value}, nil
	case *ast.Null:
		return &value.Null{}, nil
	case *ast.Template:
		return e.evalTemplate(x, env, depth)
	case *ast.Prefix:
		return e.evalPrefix(x, env, depth)
	case *ast.Ident:
		return e.evalIdent(x, env, depth)
	case *ast.GetAttr:
		return e.evalGetAttr(x, env, depth)
	case *ast.Index:
		return e.evalIndex(x, env, depth)
	case *ast.Infix:
		return e.evalInfix(x, env, depth)
	default:
		return nil, errz.New(errz.UnsupportedExpressionKind, expr,
			"cannot evaluate %T", expr)
	}
}

// evalTemplate interpolates a template literal. Every embedded expression
// must evaluate to a string or number.
func (e *Evaluator) evalTemplate(t *ast.Template, env Env, depth int) (value.Value, error) {
	var out []byte
	for _, part := range t.Parts {
		if part.Expr == nil {
			out = append(out, part.Text...)
			continue
		}
		v, err := e.eval(part.Expr, env, depth+1)
		if err != nil {
			return nil, err
		}
		switch v.Type() {
		case value.STRING, value.INT, value.FLOAT:
			out = append(out, value.Text(v)...)
		default:
			return nil, errz.New(errz.UnsupportedExpressionKind, part.Expr,
				"template interpolation of a %s value", v.Type())
		}
	}
	return &value.String{Value: string(out)}, nil
}

// evalPrefix handles numeric negation (and the no-op unary plus), the only
// prefix forms that can appear in a literal default.
func (e *Evaluator) evalPrefix(p *ast.Prefix, env Env, depth int) (value.Value, error) {
	if p.Op != "-" && p.Op != "+" {
		return nil, errz.New(errz.UnsupportedExpressionKind, p,
			"unary %q is not evaluable", p.Op)
	}
	v, err := e.eval(p.X, env, depth+1)
	if err != nil {
		return nil, err
	}
	if p.Op == "+" {
		if !value.IsNumeric(v) {
			return nil, errz.New(errz.NonNumericOperand, p.X,
				"unary + over a %s value", v.Type())
		}
		return v, nil
	}
	switch n := v.(type) {
	case *value.Int:
		return &value.Int{Value: -n.Value}, nil
	case *value.Float:
		return &value.Float{Value: -n.Value}, nil
	}
	return nil, errz.New(errz.NonNumericOperand, p.X,
		"unary - over a %s value", v.Type())
}

func (e *Evaluator) evalIdent(ident *ast.Ident, env Env, depth int) (value.Value, error) {
	if env != nil {
		if v, ok := env[ident.Name]; ok {
			return v, nil
		}
	}
	init, ok := e.resolver.Resolve(ident.Name)
	if !ok {
		return nil, errz.New(errz.UnresolvedIdentifier, ident,
			"cannot resolve %q", ident.Name)
	}
	v, err := e.eval(init, env, depth+1)
	if err != nil {
		// The identifier resolved, but not to an evaluable form.
		return nil, errz.New(errz.UnresolvedIdentifier, ident,
			"%q does not resolve to a literal: %s", ident.Name, err)
	}
	return v, nil
}

// evalGetAttr resolves object.member in priority order: a named constant
// of a known in-file enumeration, then a property of an object literal
// reachable from the base identifier's declaration, then the builtin table
// of externally-defined enumerations.
func (e *Evaluator) evalGetAttr(attr *ast.GetAttr, env Env, depth int) (value.Value, error) {
	base, ok := ast.Unwrap(attr.X).(*ast.Ident)
	if !ok {
		return nil, errz.New(errz.UnresolvableAccess, attr,
			"property access on a non-identifier base")
	}
	member := attr.Attr.Name

	// 1. Named constant of a known enumeration.
	if e.file.IsEnum(base.Name) {
		if v, found := e.file.LookupEnumMember(base.Name, member); found {
			return v, nil
		}
		return nil, errz.New(errz.UnresolvableAccess, attr,
			"enum %s has no constant member %q", base.Name, member)
	}

	// 2. Property of an object literal reachable from the base declaration.
	if obj, found := e.resolver.ResolveObject(base.Name); found {
		if prop := obj.Prop(member); prop != nil {
			return e.eval(prop, env, depth+1)
		}
	}

	// 3. Builtin table of externally-defined numeric enumerations.
	if v, found := program.LookupExternalEnum(base.Name, member); found {
		return v, nil
	}

	return nil, errz.New(errz.UnresolvableAccess, attr,
		"cannot resolve %s.%s", base.Name, member)
}

// evalIndex resolves table[key] lookups into object literals reachable by
// identifier resolution, and constant indexing into array literals. This
// is the narrow support the lookup-table options idiom relies on.
func (e *Evaluator) evalIndex(idx *ast.Index, env Env, depth int) (value.Value, error) {
	base, ok := ast.Unwrap(idx.X).(*ast.Ident)
	if !ok {
		return nil, errz.New(errz.UnresolvableAccess, idx,
			"index into a non-identifier base")
	}
	key, err := e.eval(idx.Index, env, depth+1)
	if err != nil {
		return nil, err
	}
	if name, isString := value.AsString(key); isString {
		if obj, found := e.resolver.ResolveObject(base.Name); found {
			if prop := obj.Prop(name); prop != nil {
				return e.eval(prop, env, depth+1)
			}
		}
		return nil, errz.New(errz.UnresolvableAccess, idx,
			"cannot resolve %s[%q]", base.Name, name)
	}
	if n, isInt := key.(*value.Int); isInt {
		if arr, found := e.resolver.ResolveArray(base.Name); found {
			if n.Value >= 0 && int(n.Value) < len(arr.Elements) {
				return e.eval(arr.Elements[n.Value], env, depth+1)
			}
		}
		return nil, errz.New(errz.UnresolvableAccess, idx,
			"cannot resolve %s[%d]", base.Name, n.Value)
	}
	return nil, errz.New(errz.UnresolvableAccess, idx,
		"index key is a %s value", key.Type())
}
