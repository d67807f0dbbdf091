package main

import (
	"os"

	"github.com/fatih/color"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		printError(err.Error())
		os.Exit(1)
	}
}

func printError(msg string) {
	color.New(color.FgRed).Fprintln(os.Stderr, msg)
}
