package ast

// Inspect traverses the tree rooted at node in depth-first order, calling
// f for each node. If f returns false for a node, its children are skipped.
// Nil children are never visited.
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *Program:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *Decl:
		Inspect(n.Name, f)
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *Enum:
		Inspect(n.Name, f)
		for _, m := range n.Members {
			if m.Value != nil {
				Inspect(m.Value, f)
			}
		}
	case *ExportDefault:
		Inspect(n.Value, f)
	case *ExprStmt:
		Inspect(n.X, f)
	case *FuncDecl:
		Inspect(n.Name, f)
	case *Prefix:
		Inspect(n.X, f)
	case *Infix:
		Inspect(n.X, f)
		Inspect(n.Y, f)
	case *Spread:
		Inspect(n.X, f)
	case *GetAttr:
		Inspect(n.X, f)
		Inspect(n.Attr, f)
	case *Index:
		Inspect(n.X, f)
		Inspect(n.Index, f)
	case *Call:
		Inspect(n.Fun, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *As:
		Inspect(n.X, f)
	case *Paren:
		Inspect(n.X, f)
	case *Array:
		for _, e := range n.Elements {
			Inspect(e, f)
		}
	case *Object:
		for _, p := range n.Properties {
			if p.Value != nil {
				Inspect(p.Value, f)
			}
		}
	case *Template:
		for _, part := range n.Parts {
			if part.Expr != nil {
				Inspect(part.Expr, f)
			}
		}
	case *Arrow:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	}
}
