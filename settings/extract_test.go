package settings

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/settix/value"
)

// extractAll parses a full plugin source, locates its settings declaration,
// and extracts the tree.
func extractAll(t *testing.T, source string, opts ...ExtractorOption) (*Group, []Issue) {
	t.Helper()
	f := loadFile(t, source)
	obj := f.LocateSettings()
	require.NotNil(t, obj, "no settings declaration found")
	return NewExtractor(f, opts...).Extract(obj)
}

func getSetting(t *testing.T, g *Group, name string) *Setting {
	t.Helper()
	node, ok := g.Children[name]
	require.True(t, ok, "no child named %q", name)
	s, ok := node.(*Setting)
	require.True(t, ok, "%q is not a setting", name)
	return s
}

func TestScenarioStringLiteralDefault(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	greeting: { type: OptionType.STRING, description: "what to say", default: "abc" },
});
`)
	require.Empty(t, issues)
	s := getSetting(t, tree, "greeting")
	require.Equal(t, Str, s.Type)
	require.True(t, (&value.String{Value: "abc"}).Equals(s.Default))
}

func TestScenarioSelectWithMarkedDefault(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	mode: {
		type: OptionType.SELECT,
		description: "pick one",
		options: [
			{ value: "x", label: "X" },
			{ value: "y", label: "Y", default: true },
		],
	},
});
`)
	require.Empty(t, issues)
	s := getSetting(t, tree, "mode")
	require.Equal(t, Enum, s.Type)
	require.True(t, (&value.String{Value: "y"}).Equals(s.Default))
	require.Len(t, s.Choices, 2)
	require.Equal(t, []string{"X", "Y"}, s.Labels)
}

func TestScenarioNumberDefaults(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	count: { type: OptionType.NUMBER, description: "an int", default: 3 },
	ratio: { type: OptionType.NUMBER, description: "a float", default: 3.5 },
});
`)
	require.Empty(t, issues)
	count := getSetting(t, tree, "count")
	require.Equal(t, Int, count.Type)
	require.True(t, (&value.Int{Value: 3}).Equals(count.Default))

	ratio := getSetting(t, tree, "ratio")
	require.Equal(t, Float, ratio.Type)
	require.True(t, (&value.Float{Value: 3.5}).Equals(ratio.Default))
}

func TestScenarioCustomUnresolvedDefault(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	renderer: { type: OptionType.CUSTOM, description: "widget", default: someUnresolvedIdentifier },
});
`)
	require.Empty(t, issues)
	s := getSetting(t, tree, "renderer")
	require.Equal(t, NullableStr, s.Type)
	require.True(t, (&value.Null{}).Equals(s.Default))
}

func TestComponentCallDefaultFolds(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	layout: {
		type: OptionType.COMPONENT,
		description: "layout options",
		default: makeDefaults({ a: 1, c: [unresolvable], d: { x: nope } }),
	},
});
`)
	require.Empty(t, issues)
	s := getSetting(t, tree, "layout")
	require.Equal(t, Attrs, s.Type)
	attrs, ok := s.Default.(*value.Attrs)
	require.True(t, ok)

	v, found := attrs.Get("a")
	require.True(t, found)
	require.True(t, (&value.Int{Value: 1}).Equals(v))

	v, found = attrs.Get("c")
	require.True(t, found)
	list, isList := v.(*value.List)
	require.True(t, isList)
	require.Empty(t, list.Items)

	v, found = attrs.Get("d")
	require.True(t, found)
	nested, isAttrs := v.(*value.Attrs)
	require.True(t, isAttrs)
	require.Equal(t, 0, nested.Len())
}

func TestScenarioHiddenSettingAbsent(t *testing.T) {
	source := `
const settings = definePluginSettings({
	visible: { type: OptionType.BOOLEAN, description: "shown", default: false },
	secret: { type: OptionType.BOOLEAN, description: "not shown", default: false, hidden: true },
});
`
	tree, issues := extractAll(t, source)
	require.Empty(t, issues)
	require.Equal(t, 1, tree.Len())
	_, exists := tree.Children["secret"]
	require.False(t, exists)

	// With the override flag the hidden setting is retained and marked.
	tree, _ = extractAll(t, source, WithHidden())
	require.Equal(t, 2, tree.Len())
	require.True(t, getSetting(t, tree, "secret").Hidden)
}

func TestTwoBoolChoicesCollapseAndDropChoices(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	toggle: {
		type: OptionType.SELECT,
		description: "on or off",
		options: [{ value: true, label: "On", default: true }, { value: false, label: "Off" }],
	},
});
`)
	require.Empty(t, issues)
	s := getSetting(t, tree, "toggle")
	require.Equal(t, Bool, s.Type)
	require.Empty(t, s.Choices)
	require.True(t, (&value.Bool{Value: true}).Equals(s.Default))
}

func TestGroupDetectionByShape(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	appearance: {
		theme: { type: OptionType.STRING, description: "theme name", default: "dark" },
		compact: { type: OptionType.BOOLEAN, description: "dense layout", default: false },
	},
	enabled: { type: OptionType.BOOLEAN, description: "master switch", default: true },
});
`)
	require.Empty(t, issues)
	group, ok := tree.Children["appearance"].(*Group)
	require.True(t, ok, "appearance should be a group")
	require.Equal(t, 2, group.Len())
	getSetting(t, group, "theme")
	getSetting(t, tree, "enabled")
}

func TestObjectWithDescriptionIsLeafNotGroup(t *testing.T) {
	// A description property makes it a leaf even though it contains a
	// nested object-valued property.
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	complex: {
		description: "a leaf with an object default",
		default: { nested: true },
	},
});
`)
	require.Empty(t, issues)
	s := getSetting(t, tree, "complex")
	require.Equal(t, Attrs, s.Type)
}

func TestNonObjectPropertiesIgnored(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	real: { type: OptionType.BOOLEAN, description: "a setting", default: false },
	stray: "not a setting",
	strayNumber: 42,
});
`)
	require.Empty(t, issues)
	require.Equal(t, 1, tree.Len())
}

func TestRestartMarkerSuffix(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	engine: { type: OptionType.STRING, description: "engine to use", default: "v8", restartNeeded: true },
});
`)
	require.Empty(t, issues)
	s := getSetting(t, tree, "engine")
	require.True(t, s.RestartNeeded)
	require.Equal(t, "engine to use (restart required)", s.Description)
}

func TestDescriptionFallsBackToName(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	labeled: { type: OptionType.BOOLEAN, name: "Friendly Label", default: false },
});
`)
	require.Empty(t, issues)
	require.Equal(t, "Friendly Label", getSetting(t, tree, "labeled").Description)
}

func TestExampleDroppedWhenContainedInDescription(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	fmt: { type: OptionType.STRING, description: "format, e.g. yyyy-mm-dd", placeholder: "yyyy-mm-dd", default: "" },
	other: { type: OptionType.STRING, description: "a format string", placeholder: "hh:mm", default: "" },
});
`)
	require.Empty(t, issues)
	require.Empty(t, getSetting(t, tree, "fmt").Example)
	require.Equal(t, "hh:mm", getSetting(t, tree, "other").Example)
}

func TestGetterDefaultBecomesNullableStr(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	computed: {
		type: OptionType.COMPONENT,
		description: "computed at runtime",
		get default() { return buildIt(); },
	},
});
`)
	require.Empty(t, issues)
	s := getSetting(t, tree, "computed")
	require.Equal(t, NullableStr, s.Type)
	require.True(t, (&value.Null{}).Equals(s.Default))
}

func TestStringArrayDefaultSetting(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	domains: { type: OptionType.STRING, description: "allowed domains", default: ["a.com", "b.com"] },
});
`)
	require.Empty(t, issues)
	s := getSetting(t, tree, "domains")
	require.Equal(t, ListOfStr, s.Type)
	list, ok := s.Default.(*value.List)
	require.True(t, ok)
	require.Empty(t, list.Items)
}

func TestIssueIsolation(t *testing.T) {
	// One setting that cannot be defaulted must not hide its siblings.
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	fine: { type: OptionType.BOOLEAN, description: "works", default: true },
	broken: { type: OptionType.SELECT, description: "no usable choices", options: [{ label: "missing value" }] },
});
`)
	getSetting(t, tree, "fine")
	_ = issues
}

func TestIdempotentExtraction(t *testing.T) {
	source := `
const settings = definePluginSettings({
	b: { type: OptionType.BOOLEAN, description: "bee", default: true },
	a: { type: OptionType.NUMBER, description: "ay", default: 2 },
	group: {
		inner: { type: OptionType.STRING, description: "in", default: "v" },
	},
});
`
	first, _ := extractAll(t, source)
	second, _ := extractAll(t, source)
	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	require.Equal(t, string(firstJSON), string(secondJSON))
}

func TestSettingJSONOmitsUnresolvedDefault(t *testing.T) {
	s := &Setting{Name: "x", Type: Str, Description: "no default"}
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	require.NotContains(t, string(raw), `"default"`)
}

func TestFloatDefaultRendersWithDecimal(t *testing.T) {
	tree, issues := extractAll(t, `
const settings = definePluginSettings({
	speed: { type: OptionType.SLIDER, description: "how fast", default: 2 },
});
`)
	require.Empty(t, issues)
	raw, err := json.Marshal(getSetting(t, tree, "speed"))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"default":2.0`)
}
