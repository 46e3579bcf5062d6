package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/scope-inspector/internal/app"
)

var analyzeFlags inspectFlags

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [capture.csv]",
	Short: "Channel statistics, dominant frequencies and optional power quality",
	Long: `Parse a capture and report per-channel statistics together with the
dominant frequency of each channel. Reads stdin when no file is given.

Examples:
  # Statistics for every channel
  scope-inspector analyze capture.csv

  # Zoomed view with a Blackman window, as JSON
  scope-inspector analyze --view-start 1000 --view-end 5000 -w blackman -o json capture.csv

  # Add a differential channel and run three-phase analysis
  scope-inspector analyze -m sub:ch0:ch1 --phase-u ch0 --phase-v ch1 capture.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspection(cmd, args, app.ModeAnalyze, &analyzeFlags)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeFlags.register(analyzeCmd)
}
