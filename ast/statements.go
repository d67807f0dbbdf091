package ast

import (
	"fmt"
	"strings"

	"github.com/deepnoodle-ai/settix/internal/token"
)

// Decl is a single-name variable declaration: const, let, or var.
// Value is nil for declarations without an initializer.
type Decl struct {
	DeclPos  token.Position
	Kind     string // "const", "let", or "var"
	Name     *Ident
	Value    Expr
	Exported bool
}

func (s *Decl) stmtNode() {}

func (s *Decl) Pos() token.Position { return s.DeclPos }

func (s *Decl) End() token.Position {
	if s.Value != nil {
		return s.Value.End()
	}
	return s.Name.End()
}

func (s *Decl) String() string {
	if s.Value == nil {
		return fmt.Sprintf("%s %s", s.Kind, s.Name.Name)
	}
	return fmt.Sprintf("%s %s = %s", s.Kind, s.Name.Name, s.Value.String())
}

// EnumMember is one member of an enum declaration. Value is nil for
// auto-incremented members.
type EnumMember struct {
	Name  string
	Value Expr
}

// Enum is a TypeScript-style enum declaration.
type Enum struct {
	EnumPos  token.Position
	Name     *Ident
	Members  []EnumMember
	Rbrace   token.Position
	Exported bool
}

func (s *Enum) stmtNode() {}

func (s *Enum) Pos() token.Position { return s.EnumPos }
func (s *Enum) End() token.Position { return s.Rbrace.Advance(1) }

func (s *Enum) String() string {
	members := make([]string, 0, len(s.Members))
	for _, m := range s.Members {
		if m.Value != nil {
			members = append(members, fmt.Sprintf("%s = %s", m.Name, m.Value.String()))
		} else {
			members = append(members, m.Name)
		}
	}
	return fmt.Sprintf("enum %s { %s }", s.Name.Name, strings.Join(members, ", "))
}

// Import records an import statement. Imports are not resolved; they are
// kept only so the file's top-level structure is preserved.
type Import struct {
	ImportPos token.Position
	EndPos    token.Position
	Names     []string
	Path      string
}

func (s *Import) stmtNode() {}

func (s *Import) Pos() token.Position { return s.ImportPos }
func (s *Import) End() token.Position { return s.EndPos }

func (s *Import) String() string {
	if len(s.Names) == 0 {
		return fmt.Sprintf("import %q", s.Path)
	}
	return fmt.Sprintf("import { %s } from %q", strings.Join(s.Names, ", "), s.Path)
}

// ExportDefault is an "export default <expr>" statement.
type ExportDefault struct {
	ExportPos token.Position
	Value     Expr
}

func (s *ExportDefault) stmtNode() {}

func (s *ExportDefault) Pos() token.Position { return s.ExportPos }
func (s *ExportDefault) End() token.Position { return s.Value.End() }

func (s *ExportDefault) String() string {
	return "export default " + s.Value.String()
}

// FuncDecl records a top-level function declaration. The body is not
// captured: function bodies are never evaluated.
type FuncDecl struct {
	FuncPos  token.Position
	Name     *Ident
	EndPos   token.Position
	Exported bool
}

func (s *FuncDecl) stmtNode() {}

func (s *FuncDecl) Pos() token.Position { return s.FuncPos }
func (s *FuncDecl) End() token.Position { return s.EndPos }

func (s *FuncDecl) String() string {
	return fmt.Sprintf("function %s() {...}", s.Name.Name)
}

// ExprStmt is a bare expression statement.
type ExprStmt struct {
	X Expr
}

func (s *ExprStmt) stmtNode() {}

func (s *ExprStmt) Pos() token.Position { return s.X.Pos() }
func (s *ExprStmt) End() token.Position { return s.X.End() }

func (s *ExprStmt) String() string { return s.X.String() }
