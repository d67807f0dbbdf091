package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
)

// openOutput opens the destination for emitted JSON. "-" means stdout.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// writeJSON emits v as JSON. Colorized pretty output is used only when the
// destination is a terminal and color is enabled; otherwise plain indented
// JSON, or compact JSON when requested.
func writeJSON(w io.Writer, v interface{}, compact bool) error {
	var (
		out []byte
		err error
	)
	switch {
	case compact:
		out, err = json.Marshal(v)
	case isTerminal(w) && !color.NoColor:
		out, err = prettyjson.Marshal(v)
	default:
		out, err = json.MarshalIndent(v, "", "  ")
	}
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
