// Package cli implements the recall command-line interface.
package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/recall-labs/recall-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// displayDurationUnit is the rounding unit for durations shown to the user.
const displayDurationUnit = time.Millisecond

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "A personal memory assistant",
	Long: `Recall keeps a searchable memory of observations about you and answers
questions grounded in it.

Observations live in a plain text file, one per line. Recall embeds them,
keeps the index in sync as the file changes, and retrieves the most
relevant ones to ground each chat answer.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.recall)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
