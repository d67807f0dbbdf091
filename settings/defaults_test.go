package settings

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/settix/ast"
	"github.com/deepnoodle-ai/settix/eval"
	"github.com/deepnoodle-ai/settix/value"
)

// resolveFixture builds a defaultInput from source: "d" is the default
// declaration, "opts" the options declaration.
func resolveFixture(t *testing.T, source string, typ TargetType) (TargetType, value.Value, error) {
	t.Helper()
	f := loadFile(t, source)
	ev := eval.New(f)

	var defaultExpr ast.Expr
	var evaluated value.Value
	if expr, ok := f.LookupDecl("d"); ok {
		defaultExpr = expr
		if v, err := ev.Evaluate(expr); err == nil {
			evaluated = v
		}
	}
	choices := &Choices{}
	if expr, ok := f.LookupDecl("opts"); ok {
		var err error
		choices, err = NewMatcher(ev).Extract(expr)
		require.NoError(t, err)
	}
	return NewDefaults(ev).Resolve(defaultInput{
		Type:        typ,
		DefaultExpr: defaultExpr,
		Default:     evaluated,
		Choices:     choices,
	})
}

func TestLiteralDefaultUsedAsIs(t *testing.T) {
	typ, def, err := resolveFixture(t, `const d = "abc";`, Str)
	require.NoError(t, err)
	require.Equal(t, Str, typ)
	require.True(t, (&value.String{Value: "abc"}).Equals(def))
}

func TestStringArrayDefaultEmitsEmptyList(t *testing.T) {
	// The declared values are type evidence only.
	typ, def, err := resolveFixture(t, `const d = ["keep", "these", "out"];`, Str)
	require.NoError(t, err)
	require.Equal(t, ListOfStr, typ)
	list, ok := def.(*value.List)
	require.True(t, ok)
	require.Empty(t, list.Items)
}

func TestBoolDefaultsToFalse(t *testing.T) {
	typ, def, err := resolveFixture(t, ``, Bool)
	require.NoError(t, err)
	require.Equal(t, Bool, typ)
	require.True(t, (&value.Bool{Value: false}).Equals(def))
}

func TestBoolDefaultFromMarker(t *testing.T) {
	_, def, err := resolveFixture(t, `
const opts = [{ value: false }, { value: true, default: true }];
`, Bool)
	require.NoError(t, err)
	require.True(t, (&value.Bool{Value: true}).Equals(def))
}

func TestEnumDefaultMarkerAnyPosition(t *testing.T) {
	sources := map[string]string{
		"first":  `const opts = [{ value: "a", default: true }, { value: "b" }, { value: "c" }];`,
		"middle": `const opts = [{ value: "b" }, { value: "a", default: true }, { value: "c" }];`,
		"last":   `const opts = [{ value: "b" }, { value: "c" }, { value: "a", default: true }];`,
	}
	for position, source := range sources {
		_, def, err := resolveFixture(t, source, Enum)
		require.NoError(t, err, position)
		require.True(t, (&value.String{Value: "a"}).Equals(def), position)
	}
}

func TestEnumFallsBackToFirstChoice(t *testing.T) {
	_, def, err := resolveFixture(t, `const opts = ["x", "y"];`, Enum)
	require.NoError(t, err)
	require.True(t, (&value.String{Value: "x"}).Equals(def))
}

func TestEnumWithNoChoicesIsError(t *testing.T) {
	_, def, err := resolveFixture(t, ``, Enum)
	require.Error(t, err)
	require.Nil(t, def)
}

func TestStrUnresolvedIdentDemotesToNullableStr(t *testing.T) {
	typ, def, err := resolveFixture(t, `const d = someRenderer;`, Str)
	require.NoError(t, err)
	require.Equal(t, NullableStr, typ)
	require.True(t, (&value.Null{}).Equals(def))
}

func TestStrIdentResolvingToObjectPromotesToAttrs(t *testing.T) {
	typ, def, err := resolveFixture(t, `
const defaults = { position: "top", size: 3 };
const d = defaults;
`, Str)
	require.NoError(t, err)
	require.Equal(t, Attrs, typ)
	attrs, ok := def.(*value.Attrs)
	require.True(t, ok)
	require.Equal(t, 0, attrs.Len())
}

func TestStrIdentResolvingToObjectArrayPromotesToListOfAttrs(t *testing.T) {
	typ, def, err := resolveFixture(t, `
const rules = [{ find: "a" }, { find: "b" }];
const d = rules;
`, Str)
	require.NoError(t, err)
	require.Equal(t, ListOfAttrs, typ)
	list, ok := def.(*value.List)
	require.True(t, ok)
	require.Empty(t, list.Items)
}

func TestStrWithNoDefaultHasAbsentDefault(t *testing.T) {
	typ, def, err := resolveFixture(t, ``, Str)
	require.NoError(t, err)
	require.Equal(t, Str, typ)
	require.Nil(t, def)
}

func TestNullableStrDefaultsToNull(t *testing.T) {
	typ, def, err := resolveFixture(t, ``, NullableStr)
	require.NoError(t, err)
	require.Equal(t, NullableStr, typ)
	require.True(t, (&value.Null{}).Equals(def))
}

func TestNullableStrKeepsLiteralDefault(t *testing.T) {
	_, def, err := resolveFixture(t, `const d = "explicit";`, NullableStr)
	require.NoError(t, err)
	require.True(t, (&value.String{Value: "explicit"}).Equals(def))
}

func TestNullLiteralCountsOnlyForNullableTypes(t *testing.T) {
	typ, def, err := resolveFixture(t, `const d = null;`, Bool)
	require.NoError(t, err)
	require.Equal(t, Bool, typ)
	require.True(t, (&value.Bool{Value: false}).Equals(def))

	typ, def, err = resolveFixture(t, `const d = null;`, NullableStr)
	require.NoError(t, err)
	require.Equal(t, NullableStr, typ)
	require.True(t, (&value.Null{}).Equals(def))
}

func TestAttrsDefaultsToEmptyMap(t *testing.T) {
	typ, def, err := resolveFixture(t, ``, Attrs)
	require.NoError(t, err)
	require.Equal(t, Attrs, typ)
	attrs, ok := def.(*value.Attrs)
	require.True(t, ok)
	require.Equal(t, 0, attrs.Len())
}

func TestAttrsGetterBecomesNullableStr(t *testing.T) {
	f := loadFile(t, ``)
	typ, def, err := NewDefaults(eval.New(f)).Resolve(defaultInput{
		Type:     Attrs,
		IsGetter: true,
		Choices:  &Choices{},
	})
	require.NoError(t, err)
	require.Equal(t, NullableStr, typ)
	require.True(t, (&value.Null{}).Equals(def))
}

func TestAttrsCallDefaultFoldsArgument(t *testing.T) {
	typ, def, err := resolveFixture(t, `
const d = makeDefaults({
	volume: 5,
	muted: false,
	tags: ["a", "b"],
	nested: { deep: 1 },
});
`, Attrs)
	require.NoError(t, err)
	require.Equal(t, Attrs, typ)
	attrs, ok := def.(*value.Attrs)
	require.True(t, ok)

	v, found := attrs.Get("volume")
	require.True(t, found)
	require.True(t, (&value.Int{Value: 5}).Equals(v))

	v, found = attrs.Get("muted")
	require.True(t, found)
	require.True(t, (&value.Bool{Value: false}).Equals(v))

	// Literal collections that cannot be folded degrade to empty.
	v, found = attrs.Get("tags")
	require.True(t, found)
	list, isList := v.(*value.List)
	require.True(t, isList)
	require.Empty(t, list.Items)

	v, found = attrs.Get("nested")
	require.True(t, found)
	nested, isAttrs := v.(*value.Attrs)
	require.True(t, isAttrs)
	require.Equal(t, 0, nested.Len())
}

func TestListTypesDefaultToEmptyList(t *testing.T) {
	for _, typ := range []TargetType{ListOfStr, ListOfAttrs} {
		got, def, err := resolveFixture(t, ``, typ)
		require.NoError(t, err)
		require.Equal(t, typ, got)
		list, ok := def.(*value.List)
		require.True(t, ok, typ)
		require.Empty(t, list.Items)
	}
}

func TestFloatIntegerDefaultWidens(t *testing.T) {
	_, def, err := resolveFixture(t, `const d = 5;`, Float)
	require.NoError(t, err)
	f, ok := def.(*value.Float)
	require.True(t, ok)
	require.Equal(t, "5.0", f.String())
}

func TestIntDefaultHasNoDecimal(t *testing.T) {
	_, def, err := resolveFixture(t, `const d = 5;`, Int)
	require.NoError(t, err)
	n, ok := def.(*value.Int)
	require.True(t, ok)
	require.Equal(t, "5", n.String())
}

func TestIntWholeFloatDefaultNarrows(t *testing.T) {
	// "3.0" classifies as an integer type; its emitted default must not
	// carry the fractional digit.
	_, def, err := resolveFixture(t, `const d = 3.0;`, Int)
	require.NoError(t, err)
	n, ok := def.(*value.Int)
	require.True(t, ok)
	require.Equal(t, "3", n.String())
}
