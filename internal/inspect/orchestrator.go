package inspect

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/RyanBlaney/scope-inspector/pkg/logging"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/analyzers"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// Orchestrator recomputes every derived result from a capture and the
// current options. It holds no analysis state between calls: any change
// to the view, scope, window or channel selection is a new Recompute.
type Orchestrator struct {
	statistics *analyzers.StatisticsCalculator
	spectral   *analyzers.SpectralAnalyzer
	metrics    *MetricsCalculator
	logger     logging.Logger
}

// NewOrchestrator creates a new inspection orchestrator
func NewOrchestrator(logger logging.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &Orchestrator{
		statistics: analyzers.NewStatisticsCalculator(),
		spectral:   analyzers.NewSpectralAnalyzer(),
		metrics:    NewMetricsCalculator(logger),
		logger:     logger,
	}
}

// Recompute derives statistics, spectrum, optional power quality and the
// display trace. The capture is never modified.
func (o *Orchestrator) Recompute(ctx context.Context, capture Capture, opts Options) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	opts = normalizeOptions(opts)

	meta := capture.Metadata
	if meta == nil {
		meta = defaultMetadata(capture.Waveform)
	}

	full, meta, err := applyMathChannels(capture.Waveform, meta, opts.MathChannels)
	if err != nil {
		return nil, fmt.Errorf("failed to derive math channels: %w", err)
	}

	channels, err := selectChannels(full, opts.Channels)
	if err != nil {
		return nil, err
	}

	view, info := o.selectView(full, opts)

	source := view
	if opts.Scope == common.ScopeFull {
		source = full
	}

	o.logger.Debug("Recomputing inspection", logging.Fields{
		"points":      full.Len(),
		"view_points": info.Points,
		"channels":    len(channels),
		"window":      opts.Window,
		"scope":       opts.Scope,
		"power":       opts.PowerRequested(),
	})

	var (
		stats    []common.ChannelStatistics
		spectrum *common.SpectralResult
		power    *common.PowerQualityResult
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		stats = o.statistics.Compute(view, channels)
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		result, err := o.spectral.Analyze(source, meta.SampleRate, channels, opts.Window)
		if err != nil {
			return fmt.Errorf("spectral analysis failed: %w", err)
		}
		result.Metadata.Scope = opts.Scope
		spectrum = result
		return nil
	})

	if opts.PowerRequested() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := o.analyzePower(source, meta.SampleRate, opts)
			if err != nil {
				return fmt.Errorf("power quality analysis failed: %w", err)
			}
			power = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{
		Metadata:   meta,
		View:       info,
		Statistics: analyzers.ApplyDominantFrequencies(stats, spectrum),
		Spectrum:   spectrum,
		Power:      power,
		Waveform:   full,
	}

	if opts.Detailed {
		report.Metrics = o.metrics.Calculate(view, report.Statistics)
	}

	if opts.DisplayPoints > 0 {
		display := common.Downsample(view, opts.DisplayPoints)
		report.Display = &display
	}

	return report, nil
}

// analyzePower runs the three-phase analysis. An empty source yields no
// result rather than an error.
func (o *Orchestrator) analyzePower(source common.Waveform, sampleRate float64, opts Options) (*common.PowerQualityResult, error) {
	if opts.PhaseU == "" || opts.PhaseV == "" {
		return nil, common.ErrMissingPhaseChannel
	}

	if source.IsEmpty() {
		o.logger.Warn("Skipping power quality analysis on empty waveform", logging.Fields{
			"phase_u": opts.PhaseU,
			"phase_v": opts.PhaseV,
		})
		return nil, nil
	}

	return analyzers.NewPowerQualityAnalyzer(opts.Power).Analyze(source, sampleRate, opts.PhaseU, opts.PhaseV)
}

// selectView slices the requested range, falling back to the whole capture
// when the range holds fewer than MinViewSamples samples
func (o *Orchestrator) selectView(full common.Waveform, opts Options) (common.Waveform, ViewInfo) {
	view := full
	start, end := 0, full.Len()

	if r := opts.View; r != nil {
		s := max(0, r.Start)
		e := min(full.Len(), r.End)
		if e-s >= opts.MinViewSamples {
			start, end = s, e
			view = full.Slice(start, end)
		} else {
			o.logger.Warn("View too narrow, using full capture", logging.Fields{
				"start":            r.Start,
				"end":              r.End,
				"min_view_samples": opts.MinViewSamples,
			})
		}
	}

	info := ViewInfo{
		Start:       start,
		End:         end,
		Points:      view.Len(),
		FullCapture: start == 0 && end == full.Len(),
	}
	if view.Len() > 0 {
		info.StartTime = view.Samples[0].Time
		info.EndTime = view.Samples[view.Len()-1].Time
	}

	return view, info
}

func applyMathChannels(w common.Waveform, meta *common.SignalMetadata, specs []MathChannelSpec) (common.Waveform, *common.SignalMetadata, error) {
	for _, spec := range specs {
		next, nextMeta, _, err := common.AddMathChannel(w, meta, spec.Op, spec.A, spec.B)
		if err != nil {
			return common.Waveform{}, nil, err
		}
		w, meta = next, nextMeta
	}
	return w, meta, nil
}

func selectChannels(w common.Waveform, requested []string) ([]string, error) {
	if len(requested) == 0 {
		return w.Channels, nil
	}

	for _, ch := range requested {
		if _, ok := w.ChannelIndex(ch); !ok {
			return nil, common.NewAnalysisError(common.ErrCodeUnknownChannel, fmt.Sprintf("unknown channel %q", ch), nil)
		}
	}
	return requested, nil
}

func normalizeOptions(opts Options) Options {
	if opts.Window == "" {
		opts.Window = common.WindowHanning
	}
	if opts.Scope == "" {
		opts.Scope = common.ScopeView
	}
	if opts.MinViewSamples < 1 {
		opts.MinViewSamples = 1
	}
	return opts
}

func defaultMetadata(w common.Waveform) *common.SignalMetadata {
	return &common.SignalMetadata{
		SampleRate:          common.DefaultSampleRate,
		TimeBase:            common.UnknownDisplay,
		SamplingRateDisplay: common.UnknownDisplay,
		AmplitudeScale:      common.UnknownDisplay,
		YUnit:               common.DefaultUnit,
		Channels:            w.Channels,
		Points:              w.Len(),
		RawHeader:           map[string]string{},
	}
}
