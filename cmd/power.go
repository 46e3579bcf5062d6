package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/scope-inspector/internal/app"
)

var powerFlags inspectFlags

// powerCmd represents the power command
var powerCmd = &cobra.Command{
	Use:   "power [capture.csv]",
	Short: "Three-phase power quality from two measured phases",
	Long: `Derive the third phase of a balanced three-wire system (W = -U - V) and
report RMS, fundamental frequency, relative phase angle, THD and the harmonic
table of each phase together with the RMS unbalance.

Examples:
  scope-inspector power --phase-u ch0 --phase-v ch1 capture.csv
  scope-inspector power --phase-u ch0 --phase-v ch1 --scope full -o yaml capture.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspection(cmd, args, app.ModePower, &powerFlags)
	},
}

func init() {
	rootCmd.AddCommand(powerCmd)
	powerFlags.register(powerCmd)
}
