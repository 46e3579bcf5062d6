package parser

import "github.com/RyanBlaney/scope-inspector/pkg/waveform/common"

// Config holds the parser fallbacks and scan limits
type Config struct {
	DefaultSampleRate float64 `json:"default_sample_rate" yaml:"default_sample_rate"`
	DefaultUnit       string  `json:"default_unit" yaml:"default_unit"`
	HeaderScanLines   int     `json:"header_scan_lines" yaml:"header_scan_lines"`
	TimeProbeRow      int     `json:"time_probe_row" yaml:"time_probe_row"`
}

// DefaultConfig returns the stock parser settings
func DefaultConfig() *Config {
	return &Config{
		DefaultSampleRate: common.DefaultSampleRate,
		DefaultUnit:       common.DefaultUnit,
		HeaderScanLines:   50,
		TimeProbeRow:      20,
	}
}

func (c *Config) normalized() *Config {
	out := *DefaultConfig()
	if c == nil {
		return &out
	}
	if c.DefaultSampleRate > 0 {
		out.DefaultSampleRate = c.DefaultSampleRate
	}
	if c.DefaultUnit != "" {
		out.DefaultUnit = c.DefaultUnit
	}
	if c.HeaderScanLines > 0 {
		out.HeaderScanLines = c.HeaderScanLines
	}
	if c.TimeProbeRow > 0 {
		out.TimeProbeRow = c.TimeProbeRow
	}
	return &out
}
