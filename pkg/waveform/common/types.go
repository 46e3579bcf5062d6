package common

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// DefaultSampleRate is assumed when a capture does not declare its sampling rate
const DefaultSampleRate = 1000.0

// DefaultUnit is assumed when a capture does not declare its vertical unit
const DefaultUnit = "V"

// UnknownDisplay is the placeholder for display strings the header did not provide
const UnknownDisplay = "Unknown"

// Sample is one row of a capture. Values is indexed by the owning
// waveform's channel list; a value absent from the source row is 0.
type Sample struct {
	Time   float64   `json:"time"`
	Values []float64 `json:"values"`
}

// Waveform is an ordered sequence of samples sharing one channel list
type Waveform struct {
	Channels []string `json:"channels"`
	Samples  []Sample `json:"samples"`
}

// SignalMetadata describes one parsed capture
type SignalMetadata struct {
	SampleRate          float64           `json:"sample_rate_hz" yaml:"sample_rate_hz"`
	RateDeclared        bool              `json:"rate_declared" yaml:"rate_declared"`
	TimeBase            string            `json:"time_base" yaml:"time_base"`
	SamplingRateDisplay string            `json:"sampling_rate" yaml:"sampling_rate"`
	AmplitudeScale      string            `json:"amplitude_scale" yaml:"amplitude_scale"`
	YUnit               string            `json:"y_unit" yaml:"y_unit"`
	HasTimeColumn       bool              `json:"has_time_column" yaml:"has_time_column"`
	Channels            []string          `json:"channels" yaml:"channels"`
	Points              int               `json:"points" yaml:"points"`
	RawHeader           map[string]string `json:"raw_header" yaml:"raw_header"`
}

// ChannelStatistics summarises one channel over a waveform window
type ChannelStatistics struct {
	Channel           string  `json:"channel" yaml:"channel"`
	Min               float64 `json:"min" yaml:"min"`
	Max               float64 `json:"max" yaml:"max"`
	Average           float64 `json:"average" yaml:"average"`
	RMS               float64 `json:"rms" yaml:"rms"`
	ACRMS             float64 `json:"ac_rms" yaml:"ac_rms"`
	DominantFrequency float64 `json:"dominant_frequency" yaml:"dominant_frequency"`
}

// WindowType names a spectral window function
type WindowType string

const (
	WindowRectangular WindowType = "rectangular"
	WindowHanning     WindowType = "hanning"
	WindowHamming     WindowType = "hamming"
	WindowBlackman    WindowType = "blackman"
)

// Scope selects the source of a spectral computation
type Scope string

const (
	ScopeView Scope = "view"
	ScopeFull Scope = "full"
)

// FrequencyBin is the magnitude of every analysed channel at one frequency
type FrequencyBin struct {
	Frequency  float64            `json:"frequency" yaml:"frequency"`
	Magnitudes map[string]float64 `json:"magnitudes" yaml:"magnitudes"`
}

// SpectralRunMetadata records how a spectral result was produced.
// Resolution is SampleRate/FFTLength, not SampleRate/len(input).
type SpectralRunMetadata struct {
	Window              WindowType `json:"window" yaml:"window"`
	Scope               Scope      `json:"scope" yaml:"scope"`
	FFTLength           int        `json:"fft_length" yaml:"fft_length"`
	FrequencyResolution float64    `json:"frequency_resolution" yaml:"frequency_resolution"`
}

// SpectralResult is the output of one spectral analysis run
type SpectralResult struct {
	Bins                []FrequencyBin      `json:"bins" yaml:"bins"`
	DominantFrequencies map[string]float64  `json:"dominant_frequencies" yaml:"dominant_frequencies"`
	Metadata            SpectralRunMetadata `json:"metadata" yaml:"metadata"`
}

// Phase names one conductor of a three-phase system
type Phase string

const (
	PhaseU Phase = "U"
	PhaseV Phase = "V"
	PhaseW Phase = "W"
)

// Phases lists the three phases in reporting order
var Phases = []Phase{PhaseU, PhaseV, PhaseW}

// HarmonicInfo is one row of a harmonic table
type HarmonicInfo struct {
	Order      int     `json:"order" yaml:"order"`
	Frequency  float64 `json:"frequency" yaml:"frequency"`
	Magnitude  float64 `json:"magnitude" yaml:"magnitude"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// PhaseResult holds the per-phase power-quality figures. Angles are in degrees.
type PhaseResult struct {
	Phase                Phase          `json:"phase" yaml:"phase"`
	RMS                  float64        `json:"rms" yaml:"rms"`
	FundamentalFrequency float64        `json:"fundamental_frequency" yaml:"fundamental_frequency"`
	RawPhaseAngle        float64        `json:"raw_phase_angle" yaml:"raw_phase_angle"`
	PhaseAngle           float64        `json:"phase_angle" yaml:"phase_angle"`
	THD                  float64        `json:"thd" yaml:"thd"`
	Harmonics            []HarmonicInfo `json:"harmonics" yaml:"harmonics"`
}

// PowerQualityResult always carries the phases U, V and W in that order
type PowerQualityResult struct {
	FundamentalFrequency float64       `json:"fundamental_frequency" yaml:"fundamental_frequency"`
	Phases               []PhaseResult `json:"phases" yaml:"phases"`
	Unbalance            float64       `json:"unbalance" yaml:"unbalance"`
}

// ParseWindowType maps a configuration string onto a WindowType.
// "hann" is accepted as an alias of hanning.
func ParseWindowType(s string) (WindowType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rectangular", "rect", "none":
		return WindowRectangular, nil
	case "hanning", "hann":
		return WindowHanning, nil
	case "hamming":
		return WindowHamming, nil
	case "blackman":
		return WindowBlackman, nil
	default:
		return "", NewAnalysisError(ErrCodeInvalidWindow, fmt.Sprintf("unsupported window type: %s", s), nil)
	}
}

// ParseScope maps a configuration string onto a Scope
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "view", "current":
		return ScopeView, nil
	case "full", "all", "original":
		return ScopeFull, nil
	default:
		return "", NewAnalysisError(ErrCodeInvalidRange, fmt.Sprintf("unsupported scope: %s", s), nil)
	}
}

// Phase returns the result for p, or nil when absent
func (r *PowerQualityResult) Phase(p Phase) *PhaseResult {
	if r == nil {
		return nil
	}
	for i := range r.Phases {
		if r.Phases[i].Phase == p {
			return &r.Phases[i]
		}
	}
	return nil
}

// Clone returns a deep copy so derived channels can be appended without
// touching the original capture's metadata
func (m *SignalMetadata) Clone() *SignalMetadata {
	if m == nil {
		return nil
	}
	c := *m
	c.Channels = slices.Clone(m.Channels)
	c.RawHeader = maps.Clone(m.RawHeader)
	return &c
}
