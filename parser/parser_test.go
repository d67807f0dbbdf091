package parser

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/settix/ast"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := Parse(context.Background(), input)
	require.NoError(t, err)
	return prog
}

func declValue(t *testing.T, prog *ast.Program, name string) ast.Expr {
	t.Helper()
	for _, stmt := range prog.Stmts {
		if decl, ok := stmt.(*ast.Decl); ok && decl.Name.Name == name {
			return decl.Value
		}
	}
	t.Fatalf("no declaration named %q", name)
	return nil
}

func TestConstDeclaration(t *testing.T) {
	prog := parse(t, `const limit = 25;`)
	require.Len(t, prog.Stmts, 1)
	v := declValue(t, prog, "limit")
	lit, ok := v.(*ast.Int)
	require.True(t, ok)
	require.Equal(t, int64(25), lit.Value)
}

func TestMultiDeclarator(t *testing.T) {
	prog := parse(t, `const a = 1, b = "two";`)
	require.Len(t, prog.Stmts, 2)
	declValue(t, prog, "a")
	s, ok := declValue(t, prog, "b").(*ast.String)
	require.True(t, ok)
	require.Equal(t, "two", s.Value)
}

func TestObjectLiteral(t *testing.T) {
	prog := parse(t, `const s = {
		type: OptionType.BOOLEAN,
		description: "toggle",
		default: true,
	};`)
	obj, ok := declValue(t, prog, "s").(*ast.Object)
	require.True(t, ok)
	require.Len(t, obj.Properties, 3)
	require.True(t, obj.HasProp("type"))
	attr, ok := obj.Prop("type").(*ast.GetAttr)
	require.True(t, ok)
	require.Equal(t, "BOOLEAN", attr.Attr.Name)
}

func TestObjectGetterProperty(t *testing.T) {
	prog := parse(t, `const s = {
		get default() { return computeIt(); },
		description: "computed",
	};`)
	obj, ok := declValue(t, prog, "s").(*ast.Object)
	require.True(t, ok)
	require.True(t, obj.GetterProp("default"))
	require.True(t, obj.HasProp("description"))
}

func TestSpreadInArray(t *testing.T) {
	prog := parse(t, `const opts = [...base, { value: "x" }];`)
	arr, ok := declValue(t, prog, "opts").(*ast.Array)
	require.True(t, ok)
	require.Len(t, arr.Elements, 2)
	_, ok = arr.Elements[0].(*ast.Spread)
	require.True(t, ok)
}

func TestArrowFunction(t *testing.T) {
	prog := parse(t, `const f = v => ({ value: v, label: v });`)
	arrow, ok := declValue(t, prog, "f").(*ast.Arrow)
	require.True(t, ok)
	require.Len(t, arrow.Params, 1)
	require.Equal(t, "v", arrow.Params[0].Name)
	inner, ok := arrow.Body.(*ast.Paren)
	require.True(t, ok)
	_, ok = inner.X.(*ast.Object)
	require.True(t, ok)
}

func TestParenthesizedArrowParams(t *testing.T) {
	prog := parse(t, `const f = (name, index) => name;`)
	arrow, ok := declValue(t, prog, "f").(*ast.Arrow)
	require.True(t, ok)
	require.Len(t, arrow.Params, 2)
}

func TestArrowBlockBodyWithReturn(t *testing.T) {
	prog := parse(t, `const f = (x) => { return x; };`)
	arrow, ok := declValue(t, prog, "f").(*ast.Arrow)
	require.True(t, ok)
	require.NotNil(t, arrow.Body)
}

func TestAsConstAssertion(t *testing.T) {
	prog := parse(t, `const names = ["a", "b"] as const;`)
	v := declValue(t, prog, "names")
	_, ok := ast.Unwrap(v).(*ast.Array)
	require.True(t, ok)
}

func TestTypeAnnotationSkipped(t *testing.T) {
	prog := parse(t, `const count: number = 3;`)
	lit, ok := declValue(t, prog, "count").(*ast.Int)
	require.True(t, ok)
	require.Equal(t, int64(3), lit.Value)
}

func TestEnumDeclaration(t *testing.T) {
	prog := parse(t, `enum Theme { Dark, Light = 5, System }`)
	require.Len(t, prog.Stmts, 1)
	e, ok := prog.Stmts[0].(*ast.Enum)
	require.True(t, ok)
	require.Equal(t, "Theme", e.Name.Name)
	require.Len(t, e.Members, 3)
	require.Nil(t, e.Members[0].Value)
	require.NotNil(t, e.Members[1].Value)
}

func TestExportedEnum(t *testing.T) {
	prog := parse(t, `export const enum Mode { On = "on", Off = "off" }`)
	require.Len(t, prog.Stmts, 1)
	_, ok := prog.Stmts[0].(*ast.Enum)
	require.True(t, ok)
}

func TestImportsTolerated(t *testing.T) {
	prog := parse(t, `
import definePluginSettings from "@api/Settings";
import { OptionType } from "@utils/types";
const x = 1;
`)
	require.Len(t, prog.Stmts, 3)
}

func TestExportDefault(t *testing.T) {
	prog := parse(t, `export default definePlugin({ name: "test" });`)
	require.Len(t, prog.Stmts, 1)
	ed, ok := prog.Stmts[0].(*ast.ExportDefault)
	require.True(t, ok)
	_, ok = ed.Value.(*ast.Call)
	require.True(t, ok)
}

func TestTemplateWithInterpolation(t *testing.T) {
	prog := parse(t, "const url = `${base}/${rev}/file.css`;")
	tpl, ok := declValue(t, prog, "url").(*ast.Template)
	require.True(t, ok)
	exprs := 0
	for _, part := range tpl.Parts {
		if part.Expr != nil {
			exprs++
		}
	}
	require.Equal(t, 2, exprs)
}

func TestTernaryParses(t *testing.T) {
	prog := parse(t, `const v = cond ? 1 : 2;`)
	_, ok := declValue(t, prog, "v").(*ast.Conditional)
	require.True(t, ok)
}

func TestFunctionDeclarationBodySkipped(t *testing.T) {
	prog := parse(t, `
function helper(a, b) { return a + b; }
const x = 1;
`)
	require.Len(t, prog.Stmts, 2)
	fd, ok := prog.Stmts[0].(*ast.FuncDecl)
	require.True(t, ok)
	require.Equal(t, "helper", fd.Name.Name)
}

func TestErrorRecovery(t *testing.T) {
	// The bad statement must not prevent later declarations from parsing.
	prog, err := Parse(context.Background(), `
const good = 1;
const bad = @@@;
const alsoGood = 2;
`)
	require.Error(t, err)
	require.NotNil(t, prog)
	found := false
	for _, stmt := range prog.Stmts {
		if decl, ok := stmt.(*ast.Decl); ok && decl.Name.Name == "alsoGood" {
			found = true
		}
	}
	require.True(t, found)
}

func TestErrorHasFilenameAndPosition(t *testing.T) {
	_, err := Parse(context.Background(), `const x = ;`, WithFilename("plugin.ts"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "plugin.ts")
}

func TestBitwiseExpression(t *testing.T) {
	prog := parse(t, `const mask = 1 << 4 | 2;`)
	infix, ok := declValue(t, prog, "mask").(*ast.Infix)
	require.True(t, ok)
	require.Equal(t, "|", infix.Op)
}

func TestCallChain(t *testing.T) {
	prog := parse(t, `const opts = ["a", "b"].map(v => ({ value: v }));`)
	call, ok := declValue(t, prog, "opts").(*ast.Call)
	require.True(t, ok)
	attr, ok := call.Fun.(*ast.GetAttr)
	require.True(t, ok)
	require.Equal(t, "map", attr.Attr.Name)
	_, ok = attr.X.(*ast.Array)
	require.True(t, ok)
}

func TestNonNullAssertionTransparent(t *testing.T) {
	prog := parse(t, `const v = table!.entry;`)
	_, ok := declValue(t, prog, "v").(*ast.GetAttr)
	require.True(t, ok)
}
