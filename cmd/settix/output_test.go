package main

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteJSONCompact(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]int{"a": 1}, true)
	require.NoError(t, err)
	require.Equal(t, "{\"a\":1}\n", buf.String())
}

func TestWriteJSONIndented(t *testing.T) {
	var buf bytes.Buffer
	err := writeJSON(&buf, map[string]int{"a": 1}, false)
	require.NoError(t, err)
	require.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestOpenOutputStdout(t *testing.T) {
	w, closeFn, err := openOutput("-")
	require.NoError(t, err)
	require.Equal(t, os.Stdout, w)
	require.NoError(t, closeFn())
}

func TestVersionCommandJSON(t *testing.T) {
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	runErr := runCommand(t, "version", "-o", "json")

	w.Close()
	os.Stdout = old
	require.NoError(t, runErr)

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	var info map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &info))
	require.Equal(t, version, info["version"])
	require.Equal(t, commit, info["commit"])
}
