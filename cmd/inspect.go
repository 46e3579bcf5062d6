package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/RyanBlaney/scope-inspector/internal/app"
)

// inspectFlags are shared by every command that analyses a capture
type inspectFlags struct {
	profile    string
	outputFile string
	detailed   bool
	window     string
	scope      string
	viewStart  int
	viewEnd    int
	channels   []string
	math       []string
	phaseU     string
	phaseV     string
}

func (f *inspectFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&f.profile, "profile", "p", "", "inspection profile file (YAML or JSON)")
	flags.StringVarP(&f.outputFile, "output-file", "f", "", "write results to file instead of stdout")
	flags.BoolVar(&f.detailed, "detailed", false, "include peak-to-peak, crest factor and percentiles")
	flags.StringVarP(&f.window, "window", "w", "", "window function (rectangular, hanning, hamming, blackman)")
	flags.StringVar(&f.scope, "scope", "", "spectrum source (view, full)")
	flags.IntVar(&f.viewStart, "view-start", 0, "first sample of the view")
	flags.IntVar(&f.viewEnd, "view-end", 0, "end sample of the view, exclusive (0 = whole capture)")
	flags.StringSliceVarP(&f.channels, "channels", "c", nil, "channels to analyse (default all)")
	flags.StringArrayVarP(&f.math, "math", "m", nil, "math channel as op:a:b, e.g. sub:ch0:ch1 (repeatable)")
	flags.StringVar(&f.phaseU, "phase-u", "", "channel carrying phase U")
	flags.StringVar(&f.phaseV, "phase-v", "", "channel carrying phase V")
}

// runInspection builds the app context for one capture and runs it
func runInspection(cmd *cobra.Command, args []string, mode app.Mode, f *inspectFlags) error {
	input := "-"
	if len(args) > 0 {
		input = args[0]
	}

	appCtx := &app.Context{
		InputFile:        input,
		ProfileFile:      f.profile,
		OutputFile:       f.outputFile,
		OutputFormat:     viper.GetString("output_format"),
		Mode:             mode,
		Verbose:          viper.GetBool("verbose"),
		Quiet:            quiet,
		DetailedAnalysis: f.detailed,
		Window:           f.window,
		Scope:            f.scope,
		ViewStart:        f.viewStart,
		ViewEnd:          f.viewEnd,
		Channels:         f.channels,
		MathChannels:     f.math,
		PhaseU:           f.phaseU,
		PhaseV:           f.phaseV,
	}

	inspectApp, err := app.NewInspectApp(appCtx)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return inspectApp.Run(ctx)
}
