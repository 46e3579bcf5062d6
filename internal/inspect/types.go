package inspect

import (
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/analyzers"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// Capture is a parsed file: the base data every recomputation starts from
type Capture struct {
	Waveform common.Waveform
	Metadata *common.SignalMetadata
}

// ViewRange selects samples [Start, End) of the capture
type ViewRange struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// MathChannelSpec describes one derived channel
type MathChannelSpec struct {
	Op common.MathOp `json:"op" yaml:"op"`
	A  string        `json:"a" yaml:"a"`
	B  string        `json:"b" yaml:"b"`
}

// Options is the full analysis state a report is computed from
type Options struct {
	Window         common.WindowType             `json:"window" yaml:"window"`
	Scope          common.Scope                  `json:"scope" yaml:"scope"`
	View           *ViewRange                    `json:"view,omitempty" yaml:"view,omitempty"`
	MinViewSamples int                           `json:"min_view_samples" yaml:"min_view_samples"`
	DisplayPoints  int                           `json:"display_points" yaml:"display_points"`
	Channels       []string                      `json:"channels,omitempty" yaml:"channels,omitempty"`
	MathChannels   []MathChannelSpec             `json:"math_channels,omitempty" yaml:"math_channels,omitempty"`
	PhaseU         string                        `json:"phase_u,omitempty" yaml:"phase_u,omitempty"`
	PhaseV         string                        `json:"phase_v,omitempty" yaml:"phase_v,omitempty"`
	Power          *analyzers.PowerQualityConfig `json:"power,omitempty" yaml:"power,omitempty"`
	Detailed       bool                          `json:"detailed" yaml:"detailed"`
}

// DefaultOptions returns Hanning over the current view with no power analysis
func DefaultOptions() Options {
	return Options{
		Window:         common.WindowHanning,
		Scope:          common.ScopeView,
		MinViewSamples: 10,
		DisplayPoints:  2000,
	}
}

// PowerRequested reports whether either phase channel was selected
func (o Options) PowerRequested() bool {
	return o.PhaseU != "" || o.PhaseV != ""
}

// ViewInfo describes the window the statistics were computed over
type ViewInfo struct {
	Start       int     `json:"start" yaml:"start"`
	End         int     `json:"end" yaml:"end"`
	Points      int     `json:"points" yaml:"points"`
	StartTime   float64 `json:"start_time" yaml:"start_time"`
	EndTime     float64 `json:"end_time" yaml:"end_time"`
	FullCapture bool    `json:"full_capture" yaml:"full_capture"`
}

// Report is the output of one recomputation
type Report struct {
	Metadata   *common.SignalMetadata     `json:"metadata" yaml:"metadata"`
	View       ViewInfo                   `json:"view" yaml:"view"`
	Statistics []common.ChannelStatistics `json:"statistics" yaml:"statistics"`
	Metrics    []SignalMetrics            `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	Spectrum   *common.SpectralResult     `json:"spectrum" yaml:"spectrum"`
	Power      *common.PowerQualityResult `json:"power,omitempty" yaml:"power,omitempty"`
	Display    *common.Waveform           `json:"display,omitempty" yaml:"display,omitempty"`

	// Waveform is the analysed capture including math channels
	Waveform common.Waveform `json:"-" yaml:"-"`
}
