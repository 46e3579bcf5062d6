package cmd

import (
	"github.com/spf13/cobra"

	"github.com/RyanBlaney/scope-inspector/internal/app"
)

var spectrumFlags inspectFlags

// spectrumCmd represents the spectrum command
var spectrumCmd = &cobra.Command{
	Use:   "spectrum [capture.csv]",
	Short: "Single-sided magnitude spectrum of each channel",
	Long: `Compute the windowed FFT magnitude spectrum of each channel on a shared
frequency axis. Magnitudes are scaled so a full-scale sinusoid reads close to
its amplitude.

Examples:
  # Spectrum of the whole capture as CSV
  scope-inspector spectrum --scope full -o csv capture.csv

  # Only channel 1 with a rectangular window
  scope-inspector spectrum -c ch1 -w rectangular capture.csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspection(cmd, args, app.ModeSpectrum, &spectrumFlags)
	},
}

func init() {
	rootCmd.AddCommand(spectrumCmd)
	spectrumFlags.register(spectrumCmd)
}
