package program

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deepnoodle-ai/settix/value"
)

func load(t *testing.T, source string) *File {
	t.Helper()
	f, err := Load(context.Background(), "plugin.ts", source)
	require.NoError(t, err)
	return f
}

func TestLookupDecl(t *testing.T) {
	f := load(t, `
const first = 1;
let second = "two";
var third = true;
`)
	for _, name := range []string{"first", "second", "third"} {
		init, ok := f.LookupDecl(name)
		require.True(t, ok, name)
		require.NotNil(t, init, name)
	}
	_, ok := f.LookupDecl("missing")
	require.False(t, ok)
}

func TestDeclWithoutInitializer(t *testing.T) {
	f := load(t, `let pending: string;`)
	init, ok := f.LookupDecl("pending")
	require.True(t, ok)
	require.Nil(t, init)
}

func TestScanDeclFindsFunctions(t *testing.T) {
	f := load(t, `function helper(a) { return a; }`)
	_, ok := f.LookupDecl("helper")
	require.False(t, ok)
	init, ok := f.ScanDecl("helper")
	require.True(t, ok)
	require.Nil(t, init)
}

func TestEnumAutoIncrement(t *testing.T) {
	f := load(t, `enum Level { Low, Medium, High = 10, Extra }`)
	tests := []struct {
		member string
		want   int64
	}{
		{"Low", 0},
		{"Medium", 1},
		{"High", 10},
		{"Extra", 11},
	}
	for _, tt := range tests {
		v, ok := f.LookupEnumMember("Level", tt.member)
		require.True(t, ok, tt.member)
		n, isInt := v.(*value.Int)
		require.True(t, isInt, tt.member)
		require.Equal(t, tt.want, n.Value, tt.member)
	}
}

func TestEnumStringMembers(t *testing.T) {
	f := load(t, `enum Mode { On = "on", Off = "off" }`)
	v, ok := f.LookupEnumMember("Mode", "On")
	require.True(t, ok)
	require.True(t, (&value.String{Value: "on"}).Equals(v))
}

func TestEnumAutoIncrementStopsAfterString(t *testing.T) {
	// A member following a string member without its own initializer has
	// no statically known value.
	f := load(t, `enum Mixed { A = "a", B }`)
	_, ok := f.LookupEnumMember("Mixed", "B")
	require.False(t, ok)
}

func TestEnumNegativeValues(t *testing.T) {
	f := load(t, `enum Offset { Back = -1, Zero = 0 }`)
	v, ok := f.LookupEnumMember("Offset", "Back")
	require.True(t, ok)
	require.True(t, (&value.Int{Value: -1}).Equals(v))
}

func TestIsEnum(t *testing.T) {
	f := load(t, `
enum Theme { Dark, Light }
const notEnum = 1;
`)
	require.True(t, f.IsEnum("Theme"))
	require.False(t, f.IsEnum("notEnum"))
}

func TestLocateSettingsDirect(t *testing.T) {
	f := load(t, `
const settings = definePluginSettings({
	enabled: { type: OptionType.BOOLEAN, description: "on/off", default: true },
});
`)
	obj := f.LocateSettings()
	require.NotNil(t, obj)
	require.True(t, obj.HasProp("enabled"))
}

func TestLocateSettingsInsideDefinePlugin(t *testing.T) {
	f := load(t, `
export default definePlugin({
	name: "example",
	settings: definePluginSettings({
		volume: { type: OptionType.SLIDER, description: "loudness", default: 0.5 },
	}),
});
`)
	obj := f.LocateSettings()
	require.NotNil(t, obj)
	require.True(t, obj.HasProp("volume"))
}

func TestLocateSettingsAbsent(t *testing.T) {
	f := load(t, `const x = 1;`)
	require.Nil(t, f.LocateSettings())
}

func TestLocateSettingsFirstWins(t *testing.T) {
	f := load(t, `
const a = definePluginSettings({ first: { type: OptionType.BOOLEAN, description: "a" } });
const b = definePluginSettings({ second: { type: OptionType.BOOLEAN, description: "b" } });
`)
	obj := f.LocateSettings()
	require.NotNil(t, obj)
	require.True(t, obj.HasProp("first"))
	require.False(t, obj.HasProp("second"))
}

func TestPartialFileOnParseErrors(t *testing.T) {
	f, err := Load(context.Background(), "plugin.ts", `
const good = definePluginSettings({ s: { type: OptionType.BOOLEAN, description: "d" } });
const bad = @@@;
`)
	require.Error(t, err)
	require.NotNil(t, f)
	require.NotNil(t, f.LocateSettings())
}
