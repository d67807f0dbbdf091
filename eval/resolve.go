package eval

import (
	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/program"
)

// Resolver locates the declaration that defines an identifier and returns
// its initializing expression.
//
// Resolution is two-tier and the tiers are never mixed within one call:
// the file's declaration table is consulted first (the semantic tier), and
// only when the name is absent there does the resolver fall back to a
// lexical scan of the file's top-level statements. Absence of a usable
// initializer is not an error: callers decide whether an unresolved
// reference is fatal in their context.
type Resolver struct {
	file *program.File
}

// NewResolver returns a Resolver over the given file.
func NewResolver(file *program.File) *Resolver {
	return &Resolver{file: file}
}

// Resolve returns the initializer expression for the named declaration.
// Declarations without an initializer resolve to nothing. If the
// initializer is itself a plain identifier, one level of aliasing is
// followed.
func (r *Resolver) Resolve(name string) (ast.Expr, bool) {
	init, ok := r.file.LookupDecl(name)
	if !ok {
		init, ok = r.file.ScanDecl(name)
	}
	if !ok || init == nil {
		return nil, false
	}
	if alias, isIdent := ast.Unwrap(init).(*ast.Ident); isIdent {
		if target, aliasOK := r.file.LookupDecl(alias.Name); aliasOK && target != nil {
			return target, true
		}
		// A dangling alias still resolves to the identifier itself; the
		// evaluator will report it as unresolved if it cannot go further.
	}
	return init, true
}

// ResolveObject resolves name to an object literal, unwrapping any
// transparent wrappers around the initializer.
func (r *Resolver) ResolveObject(name string) (*ast.Object, bool) {
	init, ok := r.Resolve(name)
	if !ok {
		return nil, false
	}
	obj, ok := ast.Unwrap(init).(*ast.Object)
	return obj, ok
}

// ResolveArray resolves name to an array literal, unwrapping any
// transparent wrappers around the initializer.
func (r *Resolver) ResolveArray(name string) (*ast.Array, bool) {
	init, ok := r.Resolve(name)
	if !ok {
		return nil, false
	}
	arr, ok := ast.Unwrap(init).(*ast.Array)
	return arr, ok
}
