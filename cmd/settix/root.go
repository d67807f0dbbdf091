package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("SETTIX")
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "settix",
		Short:         "Extract plugin settings into a typed option tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if v.GetBool("no-color") {
				color.NoColor = true
			}
			level := zerolog.WarnLevel
			if v.GetBool("verbose") {
				level = zerolog.DebugLevel
			}
			zerolog.SetGlobalLevel(level)
		},
	}

	flags := root.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.Bool("no-color", false, "Disable colored output")
	v.BindPFlag("verbose", flags.Lookup("verbose"))
	v.BindPFlag("no-color", flags.Lookup("no-color"))
	v.BindEnv("no-color", "NO_COLOR")

	root.AddCommand(newExtractCommand(v))
	root.AddCommand(newVersionCommand())
	return root
}

func newLogger() zerolog.Logger {
	writer := zerolog.ConsoleWriter{Out: os.Stderr, NoColor: color.NoColor}
	return zerolog.New(writer).With().Timestamp().Logger()
}
