package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/scope-inspector/internal/app"
)

var summarizeFlags inspectFlags

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize [capture.csv]",
	Short: "Ask a language model to describe the capture",
	Long: `Format the capture metadata, channel statistics and a short data excerpt
into a prompt and send it to the configured OpenAI-compatible endpoint
(summarizer.endpoint). The inspection is still printed when the endpoint
cannot be reached.

Examples:
  SCOPE_INSPECTOR_SUMMARIZER_API_KEY=... scope-inspector summarize capture.csv
  scope-inspector summarize -v -o json capture.csv   # includes the prompt`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspection(cmd, args, app.ModeSummarize, &summarizeFlags)
	},
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
	summarizeFlags.register(summarizeCmd)
}
