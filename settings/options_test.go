package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/settix/eval"
	"github.com/deepnoodle-ai/settix/program"
	"github.com/deepnoodle-ai/settix/value"
)

func loadFile(t *testing.T, source string) *program.File {
	t.Helper()
	f, err := program.Load(context.Background(), "plugin.ts", source)
	require.NoError(t, err)
	return f
}

// choicesOf extracts choices from the initializer of the declaration
// named "opts" in source.
func choicesOf(t *testing.T, source string) (*Choices, error) {
	t.Helper()
	f := loadFile(t, source)
	ev := eval.New(f)
	expr, ok := f.LookupDecl("opts")
	require.True(t, ok, "no opts declaration")
	return NewMatcher(ev).Extract(expr)
}

func texts(c *Choices) []string {
	out := make([]string, 0, len(c.Values))
	for _, v := range c.Values {
		out = append(out, value.Text(v))
	}
	return out
}

func TestLiteralArrayIdiom(t *testing.T) {
	choices, err := choicesOf(t, `const opts = ["small", "medium", "large"];`)
	require.NoError(t, err)
	require.Equal(t, []string{"small", "medium", "large"}, texts(choices))
	require.Empty(t, choices.Labels())
}

func TestLiteralArrayOfNumbers(t *testing.T) {
	choices, err := choicesOf(t, `const opts = [10, 20, 30];`)
	require.NoError(t, err)
	require.Equal(t, []string{"10", "20", "30"}, texts(choices))
}

func TestObjectArrayIdiom(t *testing.T) {
	choices, err := choicesOf(t, `const opts = [
		{ value: "x", label: "X" },
		{ value: "y", label: "Y", default: true },
	];`)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, texts(choices))
	require.Equal(t, []string{"X", "Y"}, choices.Labels())
	marked, ok := choices.Marked()
	require.True(t, ok)
	require.True(t, (&value.String{Value: "y"}).Equals(marked))
}

func TestLabelsSurviveTextCollision(t *testing.T) {
	// The number 1 and the string "1" render identically; their labels
	// must stay distinct.
	choices, err := choicesOf(t, `const opts = [
		{ value: 1, label: "numeric" },
		{ value: "1", label: "textual" },
	];`)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "1"}, texts(choices))
	require.Equal(t, []string{"numeric", "textual"}, choices.Labels())
}

func TestObjectArrayMissingValue(t *testing.T) {
	choices, err := choicesOf(t, `const opts = [{ label: "no value" }];`)
	require.Error(t, err)
	require.True(t, choices.Empty())
}

func TestObjectArraySpreadExpansion(t *testing.T) {
	choices, err := choicesOf(t, `
const shared = [{ value: "a", label: "A" }, { value: "b" }];
const opts = [...shared, { value: "c", label: "C" }];
`)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, texts(choices))
	require.Equal(t, []string{"A", "", "C"}, choices.Labels())
}

func TestMapOverLiteralArray(t *testing.T) {
	choices, err := choicesOf(t,
		`const opts = ["alpha", "beta"].map(name => ({ value: name, label: name }));`)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, texts(choices))
	require.Equal(t, []string{"alpha", "beta"}, choices.Labels())
}

func TestMapOverObjectKeys(t *testing.T) {
	choices, err := choicesOf(t, `
const themes = { dark: 1, light: 2 };
const opts = Object.keys(themes).map(k => ({ value: k }));
`)
	require.NoError(t, err)
	require.Equal(t, []string{"dark", "light"}, texts(choices))
}

func TestMapOverObjectValues(t *testing.T) {
	choices, err := choicesOf(t, `
const levels = { low: 1, high: 3 };
const opts = Object.values(levels).map(v => ({ value: v }));
`)
	require.NoError(t, err)
	require.Equal(t, []string{"1", "3"}, texts(choices))
}

func TestMapWithBlockBodyReturn(t *testing.T) {
	choices, err := choicesOf(t,
		`const opts = ["one"].map(v => { return { value: v }; });`)
	require.NoError(t, err)
	require.Equal(t, []string{"one"}, texts(choices))
}

func TestMapWithNonObjectBody(t *testing.T) {
	choices, err := choicesOf(t, `const opts = ["a"].map(v => v);`)
	require.Error(t, err)
	require.True(t, choices.Empty())
}

func TestArrayFromIdiom(t *testing.T) {
	choices, err := choicesOf(t, `
const names = ["x", "y"];
const opts = Array.from(names);
`)
	require.NoError(t, err)
	require.Equal(t, []string{"x", "y"}, texts(choices))
}

func TestArrayFromLiteral(t *testing.T) {
	choices, err := choicesOf(t, `const opts = Array.from(["p", "q"]);`)
	require.NoError(t, err)
	require.Equal(t, []string{"p", "q"}, texts(choices))
}

func TestLookupTableIdiom(t *testing.T) {
	choices, err := choicesOf(t, `
const BASE = "https://cdn.example.com";
const REV = "v3";
const THEMES = ["dark", "light"];
const opts = THEMES.map(name => ({ value: `+"`${BASE}/${REV}/${name}.css`"+`, label: name }));
`)
	require.NoError(t, err)
	require.Equal(t, []string{
		"https://cdn.example.com/v3/dark.css",
		"https://cdn.example.com/v3/light.css",
	}, texts(choices))
	require.Equal(t, []string{"dark", "light"}, choices.Labels())
}

func TestLookupTableWithIndexAccess(t *testing.T) {
	choices, err := choicesOf(t, `
const TABLE = { dark: "d.css", light: "l.css" };
const NAMES = ["dark", "light"];
const opts = NAMES.map(name => ({ value: TABLE[name], label: name }));
`)
	require.NoError(t, err)
	require.Equal(t, []string{"d.css", "l.css"}, texts(choices))
}

func TestNoIdiomMatchesIsEmptyNotError(t *testing.T) {
	choices, err := choicesOf(t, `const opts = somethingElse();`)
	require.NoError(t, err)
	require.True(t, choices.Empty())
}

func TestNilOptionsExpr(t *testing.T) {
	f := loadFile(t, `const unused = 1;`)
	choices, err := NewMatcher(eval.New(f)).Extract(nil)
	require.NoError(t, err)
	require.True(t, choices.Empty())
}

func TestChoicesBoolPair(t *testing.T) {
	choices, err := choicesOf(t, `const opts = [
		{ value: true, label: "On" },
		{ value: false, label: "Off" },
	];`)
	require.NoError(t, err)
	require.True(t, choices.BoolPair())
}

func TestDeclarationOrderPreserved(t *testing.T) {
	choices, err := choicesOf(t, `const opts = ["z", "a", "m"];`)
	require.NoError(t, err)
	require.Equal(t, []string{"z", "a", "m"}, texts(choices))
}

// The matcher must unwrap "as const" assertions around the options array.
func TestOptionsBehindAsConst(t *testing.T) {
	choices, err := choicesOf(t, `const opts = ["a", "b"] as const;`)
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, texts(choices))
}
