package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/RyanBlaney/scope-inspector/configs"
	"github.com/RyanBlaney/scope-inspector/internal/inspect"
	"github.com/RyanBlaney/scope-inspector/pkg/logging"
	"github.com/RyanBlaney/scope-inspector/pkg/output"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/parser"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/summary"
)

// Mode selects what a run reports
type Mode string

const (
	ModeAnalyze   Mode = "analyze"
	ModeSpectrum  Mode = "spectrum"
	ModePower     Mode = "power"
	ModeSummarize Mode = "summarize"
)

// Context holds the application context and configuration
type Context struct {
	// CLI arguments
	InputFile        string // capture file, "-" for stdin
	ProfileFile      string // inspection profile (optional)
	OutputFile       string
	OutputFormat     string
	Mode             Mode
	Verbose          bool
	Quiet            bool
	DetailedAnalysis bool
	Window           string
	Scope            string
	ViewStart        int
	ViewEnd          int
	Channels         []string
	MathChannels     []string
	PhaseU           string
	PhaseV           string

	// Stdin and Stdout default to the process streams
	Stdin  io.Reader
	Stdout io.Writer

	// Runtime context
	Logger  logging.Logger
	Config  *configs.Config
	Options inspect.Options
}

// InspectApp handles the inspection application lifecycle
type InspectApp struct {
	ctx          *Context
	config       *configs.Config
	options      inspect.Options
	parser       *parser.Parser
	orchestrator *inspect.Orchestrator
	summarizer   summary.Summarizer
	logger       logging.Logger
}

// SummaryResult is the output of the summarize mode
type SummaryResult struct {
	Summary    string          `json:"summary" yaml:"summary"`
	Prompt     string          `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Inspection *inspect.Report `json:"inspection" yaml:"inspection"`
}

// Tables renders the summary text followed by the statistics
func (s *SummaryResult) Tables() []output.Table {
	tables := []output.Table{{
		Title:   "Summary",
		Columns: []string{"summary"},
		Rows:    [][]any{{s.Summary}},
	}}
	if s.Inspection != nil {
		tables = append(tables, s.Inspection.Tables()...)
	}
	return tables
}

// NewInspectApp creates a new inspection application
func NewInspectApp(ctx *Context) (*InspectApp, error) {
	// Load configuration
	config, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return newInspectApp(ctx, config)
}

func newInspectApp(ctx *Context, config *configs.Config) (*InspectApp, error) {
	if ctx.OutputFormat != "" {
		config.OutputFormat = ctx.OutputFormat
	}
	if err := configs.ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Set up logging
	logger, err := setupLogging(ctx, config)
	if err != nil {
		return nil, err
	}
	ctx.Logger = logger
	ctx.Config = config

	options, err := loadAndMergeOptions(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to load inspection options: %w", err)
	}
	ctx.Options = options

	if ctx.Stdin == nil {
		ctx.Stdin = os.Stdin
	}
	if ctx.Stdout == nil {
		ctx.Stdout = os.Stdout
	}

	logger.Debug("Inspection application initialized", logging.Fields{
		"input_file":    ctx.InputFile,
		"profile_file":  ctx.ProfileFile,
		"output_format": config.OutputFormat,
		"mode":          ctx.Mode,
		"window":        options.Window,
		"scope":         options.Scope,
	})

	return &InspectApp{
		ctx:     ctx,
		config:  config,
		options: options,
		parser: parser.NewParser(&parser.Config{
			DefaultSampleRate: config.Parser.DefaultSampleRate,
			DefaultUnit:       config.Parser.DefaultUnit,
			HeaderScanLines:   config.Parser.HeaderScanLines,
			TimeProbeRow:      config.Parser.TimeProbeRow,
		}),
		orchestrator: inspect.NewOrchestrator(logger),
		summarizer: summary.NewClient(summary.Config{
			Endpoint: config.Summarizer.Endpoint,
			Model:    config.Summarizer.Model,
			APIKey:   config.Summarizer.APIKey,
			Timeout:  config.Summarizer.Timeout,
		}),
		logger: logger,
	}, nil
}

// WithSummarizer replaces the remote summarizer
func (app *InspectApp) WithSummarizer(s summary.Summarizer) *InspectApp {
	app.summarizer = s
	return app
}

// Run executes the inspection
func (app *InspectApp) Run(ctx context.Context) error {
	start := time.Now()

	capture, err := app.readCapture()
	if err != nil {
		return err
	}

	if app.ctx.Mode == ModePower && !app.options.PowerRequested() {
		return fmt.Errorf("power mode requires --phase-u and --phase-v")
	}

	report, err := app.orchestrator.Recompute(ctx, capture, app.options)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	var (
		data       any
		summaryErr error
	)
	switch app.ctx.Mode {
	case ModeSpectrum:
		data = report.SpectrumView()
	case ModePower:
		data = report.PowerView()
	case ModeSummarize:
		data, summaryErr = app.summarize(ctx, report)
	default:
		if !app.config.Output.IncludeMetadata {
			report.Metadata = nil
		}
		if !app.config.Output.IncludeDisplay {
			report.Display = nil
		}
		data = report
	}

	app.logger.Debug("Inspection complete", logging.Fields{
		"mode":        app.ctx.Mode,
		"points":      report.View.Points,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if err := app.outputResults(data); err != nil {
		return fmt.Errorf("failed to output results: %w", err)
	}
	return summaryErr
}

// readCapture reads and parses the input file
func (app *InspectApp) readCapture() (inspect.Capture, error) {
	var reader io.Reader
	if app.ctx.InputFile == "" || app.ctx.InputFile == "-" {
		reader = app.ctx.Stdin
	} else {
		file, err := os.Open(app.ctx.InputFile)
		if err != nil {
			return inspect.Capture{}, fmt.Errorf("failed to open capture file: %w", err)
		}
		defer file.Close()
		reader = file
	}

	w, meta, err := app.parser.ParseReader(reader)
	if err != nil {
		return inspect.Capture{}, err
	}

	if meta.Points == 0 {
		app.logger.Warn("Capture contains no data rows", logging.Fields{
			"input_file": app.ctx.InputFile,
		})
	}

	return inspect.Capture{Waveform: w, Metadata: meta}, nil
}

// summarize sends the report to the summarizer. A failed call still
// returns the inspection, with the summary left empty.
func (app *InspectApp) summarize(ctx context.Context, report *inspect.Report) (*SummaryResult, error) {
	prompt := summary.BuildPrompt(summary.PromptInput{
		Metadata:    report.Metadata,
		Statistics:  report.Statistics,
		Waveform:    report.Waveform,
		Power:       report.Power,
		ExcerptRows: app.config.Summarizer.ExcerptRows,
		Precision:   app.config.Output.Precision,
	})

	result := &SummaryResult{Inspection: report}
	if app.ctx.Verbose {
		result.Prompt = prompt
	}

	text, err := app.summarizer.Summarize(ctx, prompt)
	if err != nil {
		app.logger.Error(err, "Summary unavailable", logging.Fields{
			"endpoint": app.config.Summarizer.Endpoint,
		})
		return result, fmt.Errorf("summary failed: %w", err)
	}
	result.Summary = strings.TrimSpace(text)

	return result, nil
}

// setupLogging configures logging based on context
func setupLogging(ctx *Context, config *configs.Config) (logging.Logger, error) {
	level := config.LogLevel
	switch {
	case ctx.Quiet:
		level = "error"
	case ctx.Verbose || config.Verbose:
		level = "debug"
	}

	if err := logging.SetLevel(level); err != nil {
		return nil, err
	}
	if err := logging.SetFormat(logging.Format(strings.ToLower(config.LogFormat))); err != nil {
		return nil, err
	}

	return logging.WithFields(logging.Fields{
		"component": "inspect_app",
	}), nil
}

// loadAndMergeOptions loads the profile and merges it with config and CLI flags
func loadAndMergeOptions(ctx *Context, config *configs.Config) (inspect.Options, error) {
	var profile *Profile
	if ctx.ProfileFile != "" {
		p, err := loadProfileFromFile(ctx.ProfileFile)
		if err != nil {
			return inspect.Options{}, fmt.Errorf("failed to load inspection profile: %w", err)
		}
		if err := p.Validate(); err != nil {
			return inspect.Options{}, fmt.Errorf("invalid inspection profile: %w", err)
		}
		profile = p
	}

	return mergeOptions(config, profile, ctx)
}

// outputResults formats data and writes it to the output file or stdout
func (app *InspectApp) outputResults(data any) error {
	formatter := output.NewFormatter(app.config.OutputFormat, app.config.Output.Precision)

	formattedData, err := formatter.Format(data, true)
	if err != nil {
		return fmt.Errorf("failed to format output data: %w", err)
	}

	// Write to file or stdout
	if app.ctx.OutputFile != "" {
		return app.writeToFile(formattedData)
	}

	_, err = app.ctx.Stdout.Write(formattedData)
	return err
}

// writeToFile writes data to the specified output file
func (app *InspectApp) writeToFile(data []byte) error {
	// Ensure directory exists
	dir := filepath.Dir(app.ctx.OutputFile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Write file
	if err := os.WriteFile(app.ctx.OutputFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	app.logger.Debug("Results written to file", logging.Fields{
		"output_file": app.ctx.OutputFile,
		"size_bytes":  len(data),
	})

	return nil
}
