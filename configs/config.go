package configs

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// Config represents the application configuration
type Config struct {
	// Application settings
	Verbose      bool   `mapstructure:"verbose"`
	LogLevel     string `mapstructure:"log_level"`
	LogFormat    string `mapstructure:"log_format"`
	OutputFormat string `mapstructure:"output_format"`
	ConfigDir    string `mapstructure:"config_dir"`

	// CSV ingestion
	Parser ParserConfig `mapstructure:"parser"`

	// Statistics and spectral analysis
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// Three-phase power quality
	Power PowerConfig `mapstructure:"power"`

	// Remote summarizer
	Summarizer SummarizerConfig `mapstructure:"summarizer"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`
}

// ParserConfig contains CSV ingestion fallbacks
type ParserConfig struct {
	DefaultSampleRate float64 `mapstructure:"default_sample_rate"`
	DefaultUnit       string  `mapstructure:"default_unit"`
	HeaderScanLines   int     `mapstructure:"header_scan_lines"`
	TimeProbeRow      int     `mapstructure:"time_probe_row"`
}

// AnalysisConfig contains spectral and view settings
type AnalysisConfig struct {
	WindowFunction string `mapstructure:"window_function"`
	Scope          string `mapstructure:"scope"`
	MinViewSamples int    `mapstructure:"min_view_samples"`
	DisplayPoints  int    `mapstructure:"display_points"`
}

// PowerConfig contains power-quality settings
type PowerConfig struct {
	HarmonicOrders   int    `mapstructure:"harmonic_orders"`
	PeakSearchRadius int    `mapstructure:"peak_search_radius"`
	PhaseU           string `mapstructure:"phase_u"`
	PhaseV           string `mapstructure:"phase_v"`
}

// SummarizerConfig points at the remote text summarizer
type SummarizerConfig struct {
	Endpoint    string        `mapstructure:"endpoint"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	Timeout     time.Duration `mapstructure:"timeout"`
	ExcerptRows int           `mapstructure:"excerpt_rows"`
}

// OutputConfig contains output formatting settings
type OutputConfig struct {
	Precision       int  `mapstructure:"precision"`
	IncludeMetadata bool `mapstructure:"include_metadata"`
	IncludeDisplay  bool `mapstructure:"include_display"`
}

var (
	validLogLevels     = []string{"debug", "info", "warn", "warning", "error"}
	validLogFormats    = []string{"console", "json"}
	validOutputFormats = []string{"json", "yaml", "csv", "table"}
)

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(viper.GetViper())
}

// LoadConfigFrom fills in defaults on v and decodes it
func LoadConfigFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode configuration: %w", err)
	}

	return config, nil
}

// ValidateConfig validates the configuration
func ValidateConfig(config *Config) error {
	if !slices.Contains(validLogLevels, strings.ToLower(config.LogLevel)) {
		return fmt.Errorf("invalid log level: %s", config.LogLevel)
	}

	if !slices.Contains(validLogFormats, strings.ToLower(config.LogFormat)) {
		return fmt.Errorf("invalid log format: %s", config.LogFormat)
	}

	if !slices.Contains(validOutputFormats, strings.ToLower(config.OutputFormat)) {
		return fmt.Errorf("invalid output format: %s", config.OutputFormat)
	}

	if config.Parser.DefaultSampleRate <= 0 {
		return fmt.Errorf("default sample rate must be positive")
	}

	if config.Parser.HeaderScanLines <= 0 {
		return fmt.Errorf("header scan lines must be positive")
	}

	if config.Parser.TimeProbeRow <= 0 {
		return fmt.Errorf("time probe row must be positive")
	}

	if _, err := common.ParseWindowType(config.Analysis.WindowFunction); err != nil {
		return fmt.Errorf("invalid analysis window: %w", err)
	}

	if _, err := common.ParseScope(config.Analysis.Scope); err != nil {
		return fmt.Errorf("invalid analysis scope: %w", err)
	}

	if config.Analysis.MinViewSamples < 1 {
		return fmt.Errorf("minimum view samples must be at least 1")
	}

	if config.Analysis.DisplayPoints < 0 {
		return fmt.Errorf("display points cannot be negative")
	}

	if config.Power.HarmonicOrders < 1 {
		return fmt.Errorf("harmonic orders must be at least 1")
	}

	if config.Power.PeakSearchRadius < 0 {
		return fmt.Errorf("peak search radius cannot be negative")
	}

	if config.Summarizer.Timeout <= 0 {
		return fmt.Errorf("summarizer timeout must be positive")
	}

	if config.Summarizer.ExcerptRows < 0 {
		return fmt.Errorf("summarizer excerpt rows cannot be negative")
	}

	if config.Output.Precision < 0 || config.Output.Precision > 17 {
		return fmt.Errorf("output precision must be between 0 and 17")
	}

	return nil
}
