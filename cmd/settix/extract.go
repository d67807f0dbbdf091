package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/settix/runner"
	"github.com/deepnoodle-ai/settix/settings"
)

// pluginDoc is the emitted form of one plugin: its manifest description
// (when one was found) and the settings tree.
type pluginDoc struct {
	Description string          `json:"description,omitempty"`
	Settings    *settings.Group `json:"settings"`
}

func newExtractCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract [roots...]",
		Short: "Extract settings from plugin sources under the given roots",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, v, args)
		},
	}
	flags := cmd.Flags()
	flags.IntP("jobs", "j", 0, "Concurrent extractions (0 = one per CPU)")
	flags.Bool("include-hidden", false, "Retain settings marked hidden")
	flags.StringP("output", "o", "-", "Output file (- for stdout)")
	flags.Bool("compact", false, "Emit compact JSON")
	v.BindPFlag("jobs", flags.Lookup("jobs"))
	v.BindPFlag("include-hidden", flags.Lookup("include-hidden"))
	v.BindPFlag("output", flags.Lookup("output"))
	v.BindPFlag("compact", flags.Lookup("compact"))
	return cmd
}

func runExtract(cmd *cobra.Command, v *viper.Viper, args []string) error {
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		expanded, err := homedir.Expand(arg)
		if err != nil {
			return fmt.Errorf("expand path %s: %w", arg, err)
		}
		roots = append(roots, expanded)
	}

	r := runner.New(runner.Options{
		Jobs:          v.GetInt("jobs"),
		IncludeHidden: v.GetBool("include-hidden"),
		Logger:        newLogger(),
	})
	result, err := r.Run(cmd.Context(), roots)
	if err != nil {
		return err
	}

	doc := make(map[string]pluginDoc, len(result.Plugins))
	for _, name := range result.Names() {
		plugin := result.Plugins[name]
		doc[name] = pluginDoc{
			Description: plugin.Description,
			Settings:    plugin.Settings,
		}
	}

	dest, closeDest, err := openOutput(v.GetString("output"))
	if err != nil {
		return err
	}
	defer closeDest()
	if err := writeJSON(dest, doc, v.GetBool("compact")); err != nil {
		return err
	}

	summary := fmt.Sprintf("%d plugins processed, %d skipped",
		result.Processed, result.Skipped)
	if result.Skipped > 0 {
		color.New(color.FgYellow).Fprintln(os.Stderr, summary)
	} else {
		color.New(color.FgGreen).Fprintln(os.Stderr, summary)
	}

	if result.Processed == 0 && result.Skipped > 0 {
		return fmt.Errorf("all plugins skipped: %w", result.SkipError())
	}
	return nil
}
