// Package cmd holds the flowshop CLI's cobra commands: one subcommand per
// façade method (spec.md §4.6), plus bench, which wraps internal/bench.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/stasais/flowshop/internal/obslog"
)

var (
	configPath string
	logLevel   string
	logPretty  bool
)

var rootCmd = &cobra.Command{
	Use:           "flowshop",
	Short:         "Hybrid flow-shop scheduling and optimization",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logPretty {
			obslog.Logger = obslog.New(os.Stderr, true)
		}
		obslog.SetLevel(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML instance config (required by the method subcommands; bench ignores it)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logPretty, "log-pretty", false, "use a human-readable console log instead of JSON")
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return err
	}
	return nil
}
