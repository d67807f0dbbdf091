package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const testPlugin = `
const settings = definePluginSettings({
	enabled: { type: OptionType.BOOLEAN, description: "on/off", default: true },
	mode: {
		type: OptionType.SELECT,
		description: "pick one",
		options: [{ value: "a" }, { value: "b", default: true }],
	},
});
export default definePlugin({ name: "demo", settings });
`

func writeTestPlugin(t *testing.T, root, name string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.ts"), []byte(testPlugin), 0o644))
}

func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	old := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = old }()

	root := newRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestExtractCommand(t *testing.T) {
	plugins := t.TempDir()
	writeTestPlugin(t, plugins, "demo")
	out := filepath.Join(t.TempDir(), "out.json")

	err := runCommand(t, "extract", plugins, "-o", out, "--no-color")
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(raw))
	doc := gjson.ParseBytes(raw)
	require.Equal(t, "bool", doc.Get("demo.settings.enabled.type").String())
	require.Equal(t, "enum", doc.Get("demo.settings.mode.type").String())
	require.Equal(t, "b", doc.Get("demo.settings.mode.default").String())
}

func TestExtractCommandCompact(t *testing.T) {
	plugins := t.TempDir()
	writeTestPlugin(t, plugins, "demo")
	out := filepath.Join(t.TempDir(), "out.json")

	err := runCommand(t, "extract", plugins, "-o", out, "--compact", "--no-color")
	require.NoError(t, err)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	// Compact output is a single line.
	require.Equal(t, 1, bytes.Count(raw, []byte("\n")))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc, "demo")
}

func TestExtractCommandAllSkipped(t *testing.T) {
	plugins := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(plugins, "empty"), 0o755))
	out := filepath.Join(t.TempDir(), "out.json")

	err := runCommand(t, "extract", plugins, "-o", out, "--no-color")
	require.Error(t, err)
	require.Contains(t, err.Error(), "all plugins skipped")
}

func TestExtractCommandRequiresRoot(t *testing.T) {
	err := runCommand(t, "extract")
	require.Error(t, err)
}
