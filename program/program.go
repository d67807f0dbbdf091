// Package program provides the parsed-program view of one plugin source
// file: its AST plus the symbol tables that reference resolution needs.
//
// A File is built once per source file and is immutable afterwards, so any
// number of goroutines may read it concurrently.
package program

import (
	"context"

	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/parser"
	"github.com/deepnoodle-ai/settix/value"
)

// File is the parsed, indexed form of one plugin source file.
type File struct {
	name    string
	program *ast.Program

	// decls maps a declared name to its initializer expression. Names
	// declared without an initializer map to nil.
	decls map[string]ast.Expr

	// enums maps an enum name to its resolved member table.
	enums map[string]*Enum
}

// Enum is the resolved member table of one enum declaration. Members whose
// values cannot be determined statically are absent.
type Enum struct {
	Name    string
	Members []string
	values  map[string]value.Value
}

// Value returns the literal value of the named member, if known.
func (e *Enum) Value(member string) (value.Value, bool) {
	v, ok := e.values[member]
	return v, ok
}

// Load parses source text and builds the file's symbol tables. The returned
// error carries the parser's positioned diagnostics; a partial File is
// still returned when at least one statement parsed.
func Load(ctx context.Context, name, source string) (*File, error) {
	prog, err := parser.Parse(ctx, source, parser.WithFilename(name))
	if prog == nil {
		return nil, err
	}
	f := &File{
		name:    name,
		program: prog,
		decls:   map[string]ast.Expr{},
		enums:   map[string]*Enum{},
	}
	f.index()
	return f, err
}

// Name returns the filename this File was parsed from.
func (f *File) Name() string { return f.name }

// Program returns the file's AST.
func (f *File) Program() *ast.Program { return f.program }

// index builds the declaration table and enum registry from the file's
// top-level statements.
func (f *File) index() {
	for _, stmt := range f.program.Stmts {
		switch s := stmt.(type) {
		case *ast.Decl:
			// First declaration wins; shadowing at the top level is a
			// source bug we have no obligation to mirror.
			if _, exists := f.decls[s.Name.Name]; !exists {
				f.decls[s.Name.Name] = s.Value
			}
		case *ast.Enum:
			f.enums[s.Name.Name] = resolveEnum(s)
		}
	}
}

// LookupDecl is the primary (symbol table) resolution tier: it returns the
// initializer of the named top-level declaration. The second result
// reports whether the name is declared at all; a declared name may have a
// nil initializer.
func (f *File) LookupDecl(name string) (ast.Expr, bool) {
	expr, ok := f.decls[name]
	return expr, ok
}

// ScanDecl is the fallback (lexical) resolution tier: it scans the file's
// top-level statements for a declaration of the given name. It finds names
// the symbol table does not carry, such as function declarations.
func (f *File) ScanDecl(name string) (ast.Expr, bool) {
	for _, stmt := range f.program.Stmts {
		switch s := stmt.(type) {
		case *ast.Decl:
			if s.Name.Name == name {
				return s.Value, true
			}
		case *ast.FuncDecl:
			if s.Name.Name == name {
				return nil, true
			}
		}
	}
	return nil, false
}

// LookupEnumMember returns the value of an enum member declared in this
// file, if the enum and member exist and the member's value is known.
func (f *File) LookupEnumMember(enumName, member string) (value.Value, bool) {
	e, ok := f.enums[enumName]
	if !ok {
		return nil, false
	}
	return e.Value(member)
}

// IsEnum reports whether the given name is an enum declared in this file.
func (f *File) IsEnum(name string) bool {
	_, ok := f.enums[name]
	return ok
}

// resolveEnum computes member values with TypeScript enum semantics:
// numeric members auto-increment from the previous numeric value (starting
// at zero), string members do not auto-increment, and members following a
// non-constant or string member without their own initializer have no
// statically known value.
func resolveEnum(e *ast.Enum) *Enum {
	out := &Enum{Name: e.Name.Name, values: map[string]value.Value{}}
	next := int64(0)
	autoOK := true
	for _, m := range e.Members {
		out.Members = append(out.Members, m.Name)
		if m.Value == nil {
			if autoOK {
				out.values[m.Name] = &value.Int{Value: next}
				next++
			}
			continue
		}
		v, ok := constantLiteral(m.Value)
		if !ok {
			autoOK = false
			continue
		}
		out.values[m.Name] = v
		if n, isInt := v.(*value.Int); isInt {
			next = n.Value + 1
			autoOK = true
		} else {
			autoOK = false
		}
	}
	return out
}

// constantLiteral evaluates the small expression subset allowed in enum
// member initializers: numeric and string literals, optionally negated.
func constantLiteral(expr ast.Expr) (value.Value, bool) {
	switch x := ast.Unwrap(expr).(type) {
	case *ast.Int:
		return &value.Int{Value: x.Value}, true
	case *ast.Float:
		return &value.Float{Value: x.Value}, true
	case *ast.String:
		return &value.String{Value: x.Value}, true
	case *ast.Prefix:
		if x.Op != "-" {
			return nil, false
		}
		switch inner := ast.Unwrap(x.X).(type) {
		case *ast.Int:
			return &value.Int{Value: -inner.Value}, true
		case *ast.Float:
			return &value.Float{Value: -inner.Value}, true
		}
	}
	return nil, false
}
