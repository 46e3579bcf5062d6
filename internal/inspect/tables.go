package inspect

import (
	"strconv"
	"strings"

	"github.com/RyanBlaney/scope-inspector/pkg/output"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// SpectrumView is the spectrum-only rendering of a report
type SpectrumView struct {
	Channels []string               `json:"channels" yaml:"channels"`
	Spectrum *common.SpectralResult `json:"spectrum" yaml:"spectrum"`
}

// PowerView is the power-quality-only rendering of a report
type PowerView struct {
	Power *common.PowerQualityResult `json:"power" yaml:"power"`
}

// SpectrumView returns the spectrum of the analysed channels
func (r *Report) SpectrumView() SpectrumView {
	channels := make([]string, len(r.Statistics))
	for i, s := range r.Statistics {
		channels[i] = s.Channel
	}
	return SpectrumView{Channels: channels, Spectrum: r.Spectrum}
}

// PowerView returns the power-quality part of the report
func (r *Report) PowerView() PowerView {
	return PowerView{Power: r.Power}
}

// Tables lays the report out for CSV and table output
func (r *Report) Tables() []output.Table {
	tables := []output.Table{r.captureTable(), statisticsTable(r.Statistics)}

	if len(r.Metrics) > 0 {
		t := output.Table{
			Title:   "Signal Metrics",
			Columns: []string{"channel", "peak_to_peak", "crest_factor", "dc_ratio", "median", "p05", "p95", "count"},
		}
		for _, m := range r.Metrics {
			t.Rows = append(t.Rows, []any{m.Channel, m.PeakToPeak, m.CrestFactor, m.DCRatio, m.Median, m.P05, m.P95, m.Count})
		}
		tables = append(tables, t)
	}

	if r.Power != nil {
		tables = append(tables, r.PowerView().Tables()...)
	}

	return tables
}

func (r *Report) captureTable() output.Table {
	t := output.Table{Title: "Capture", Columns: []string{"property", "value"}}
	if m := r.Metadata; m != nil {
		t.Rows = append(t.Rows,
			[]any{"sampling_rate", m.SamplingRateDisplay},
			[]any{"sample_rate_hz", m.SampleRate},
			[]any{"time_base", m.TimeBase},
			[]any{"amplitude_scale", m.AmplitudeScale},
			[]any{"unit", m.YUnit},
			[]any{"points", m.Points},
			[]any{"channels", strings.Join(m.Channels, " ")},
		)
	}
	t.Rows = append(t.Rows,
		[]any{"view", strconv.Itoa(r.View.Start) + ":" + strconv.Itoa(r.View.End)},
		[]any{"view_points", r.View.Points},
	)
	if r.Spectrum != nil {
		t.Rows = append(t.Rows,
			[]any{"window", string(r.Spectrum.Metadata.Window)},
			[]any{"scope", string(r.Spectrum.Metadata.Scope)},
			[]any{"fft_length", r.Spectrum.Metadata.FFTLength},
			[]any{"frequency_resolution", r.Spectrum.Metadata.FrequencyResolution},
		)
	}
	return t
}

func statisticsTable(stats []common.ChannelStatistics) output.Table {
	t := output.Table{
		Title:   "Channel Statistics",
		Columns: []string{"channel", "min", "max", "average", "rms", "ac_rms", "dominant_frequency"},
	}
	for _, s := range stats {
		t.Rows = append(t.Rows, []any{s.Channel, s.Min, s.Max, s.Average, s.RMS, s.ACRMS, s.DominantFrequency})
	}
	return t
}

// Tables renders one row per frequency bin plus the dominant frequencies
func (v SpectrumView) Tables() []output.Table {
	bins := output.Table{Title: "Spectrum", Columns: append([]string{"frequency"}, v.Channels...)}
	dominant := output.Table{Title: "Dominant Frequencies", Columns: []string{"channel", "frequency"}}

	if v.Spectrum != nil {
		for _, bin := range v.Spectrum.Bins {
			row := make([]any, 0, len(v.Channels)+1)
			row = append(row, bin.Frequency)
			for _, ch := range v.Channels {
				row = append(row, bin.Magnitudes[ch])
			}
			bins.Rows = append(bins.Rows, row)
		}
		for _, ch := range v.Channels {
			dominant.Rows = append(dominant.Rows, []any{ch, v.Spectrum.DominantFrequencies[ch]})
		}
	}

	return []output.Table{dominant, bins}
}

// Tables renders the phase summary and the harmonic tables
func (v PowerView) Tables() []output.Table {
	if v.Power == nil {
		return []output.Table{{Title: "Power Quality", Columns: []string{"property", "value"}}}
	}

	summary := output.Table{
		Title:   "Power Quality",
		Columns: []string{"property", "value"},
		Rows: [][]any{
			{"fundamental_frequency", v.Power.FundamentalFrequency},
			{"unbalance", v.Power.Unbalance},
		},
	}

	phases := output.Table{
		Title:   "Phases",
		Columns: []string{"phase", "rms", "fundamental_frequency", "phase_angle", "thd"},
	}
	harmonics := output.Table{
		Title:   "Harmonics",
		Columns: []string{"phase", "order", "frequency", "magnitude", "percentage"},
	}
	for _, p := range v.Power.Phases {
		phases.Rows = append(phases.Rows, []any{string(p.Phase), p.RMS, p.FundamentalFrequency, p.PhaseAngle, p.THD})
		for _, h := range p.Harmonics {
			harmonics.Rows = append(harmonics.Rows, []any{string(p.Phase), h.Order, h.Frequency, h.Magnitude, h.Percentage})
		}
	}

	return []output.Table{summary, phases, harmonics}
}
