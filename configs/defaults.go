package configs

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// setDefaults sets default configuration values for all components
func setDefaults(v *viper.Viper) {
	// Parser defaults
	if !v.IsSet("parser.default_sample_rate") {
		v.Set("parser.default_sample_rate", common.DefaultSampleRate)
	}
	if !v.IsSet("parser.default_unit") {
		v.Set("parser.default_unit", common.DefaultUnit)
	}
	if !v.IsSet("parser.header_scan_lines") {
		v.Set("parser.header_scan_lines", 50)
	}
	if !v.IsSet("parser.time_probe_row") {
		v.Set("parser.time_probe_row", 20)
	}

	// Analysis defaults
	if !v.IsSet("analysis.window_function") {
		v.Set("analysis.window_function", string(common.WindowHanning))
	}
	if !v.IsSet("analysis.scope") {
		v.Set("analysis.scope", string(common.ScopeView))
	}
	if !v.IsSet("analysis.min_view_samples") {
		v.Set("analysis.min_view_samples", 10)
	}
	if !v.IsSet("analysis.display_points") {
		v.Set("analysis.display_points", 2000)
	}

	// Power quality defaults
	if !v.IsSet("power.harmonic_orders") {
		v.Set("power.harmonic_orders", 15)
	}
	if !v.IsSet("power.peak_search_radius") {
		v.Set("power.peak_search_radius", 2)
	}
	if !v.IsSet("power.phase_u") {
		v.Set("power.phase_u", "")
	}
	if !v.IsSet("power.phase_v") {
		v.Set("power.phase_v", "")
	}

	// Summarizer defaults
	if !v.IsSet("summarizer.endpoint") {
		v.Set("summarizer.endpoint", "")
	}
	if !v.IsSet("summarizer.model") {
		v.Set("summarizer.model", "")
	}
	if !v.IsSet("summarizer.api_key") {
		v.Set("summarizer.api_key", "")
	}
	if !v.IsSet("summarizer.timeout") {
		v.Set("summarizer.timeout", 60*time.Second)
	}
	if !v.IsSet("summarizer.excerpt_rows") {
		v.Set("summarizer.excerpt_rows", 20)
	}

	// Output defaults
	if !v.IsSet("output.precision") {
		v.Set("output.precision", 4)
	}
	if !v.IsSet("output.include_metadata") {
		v.Set("output.include_metadata", true)
	}
	if !v.IsSet("output.include_display") {
		v.Set("output.include_display", false)
	}

	// Application defaults
	if !v.IsSet("verbose") {
		v.Set("verbose", false)
	}
	if !v.IsSet("log_level") {
		v.Set("log_level", "info")
	}
	if !v.IsSet("log_format") {
		v.Set("log_format", "console")
	}
	if !v.IsSet("output_format") {
		v.Set("output_format", "table")
	}
	if !v.IsSet("config_dir") {
		v.Set("config_dir", defaultConfigDir())
	}
}

// GetDefaultConfig returns a Config struct with all default values set
func GetDefaultConfig() *Config {
	return &Config{
		// Application settings defaults
		Verbose:      false,
		LogLevel:     "info",
		LogFormat:    "console",
		OutputFormat: "table",
		ConfigDir:    defaultConfigDir(),

		Parser:     GetDefaultParserConfig(),
		Analysis:   GetDefaultAnalysisConfig(),
		Power:      GetDefaultPowerConfig(),
		Summarizer: GetDefaultSummarizerConfig(),
		Output:     GetDefaultOutputConfig(),
	}
}

// GetDefaultParserConfig returns default CSV ingestion settings
func GetDefaultParserConfig() ParserConfig {
	return ParserConfig{
		DefaultSampleRate: common.DefaultSampleRate,
		DefaultUnit:       common.DefaultUnit,
		HeaderScanLines:   50,
		TimeProbeRow:      20,
	}
}

// GetDefaultAnalysisConfig returns default analysis settings
func GetDefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		WindowFunction: string(common.WindowHanning),
		Scope:          string(common.ScopeView),
		MinViewSamples: 10,
		DisplayPoints:  2000,
	}
}

// GetDefaultPowerConfig returns default power-quality settings
func GetDefaultPowerConfig() PowerConfig {
	return PowerConfig{
		HarmonicOrders:   15,
		PeakSearchRadius: 2,
	}
}

// GetDefaultSummarizerConfig returns default summarizer settings
func GetDefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{
		Timeout:     60 * time.Second,
		ExcerptRows: 20,
	}
}

// GetDefaultOutputConfig returns default output formatting settings
func GetDefaultOutputConfig() OutputConfig {
	return OutputConfig{
		Precision:       4,
		IncludeMetadata: true,
		IncludeDisplay:  false,
	}
}

// GetDefaultOutputConfigForFormat returns output config optimized for specific format
func GetDefaultOutputConfigForFormat(format string) OutputConfig {
	config := GetDefaultOutputConfig()

	switch format {
	case "json", "yaml":
		config.Precision = 6
	case "csv":
		config.IncludeMetadata = false
	case "table":
		config.Precision = 3
	}

	return config
}

func defaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "scope-inspector")
}
