package configs

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigAppliesDefaults(t *testing.T) {
	config, err := LoadConfigFrom(viper.New())
	require.NoError(t, err)

	defaults := GetDefaultConfig()
	assert.Equal(t, defaults.Parser, config.Parser)
	assert.Equal(t, defaults.Analysis, config.Analysis)
	assert.Equal(t, defaults.Power, config.Power)
	assert.Equal(t, defaults.Summarizer, config.Summarizer)
	assert.Equal(t, defaults.Output, config.Output)
	assert.Equal(t, "table", config.OutputFormat)

	assert.NoError(t, ValidateConfig(config))
}

func TestLoadConfigKeepsExplicitValues(t *testing.T) {
	v := viper.New()
	v.Set("analysis.window_function", "blackman")
	v.Set("parser.default_sample_rate", 2500.0)
	v.Set("summarizer.timeout", "5s")

	config, err := LoadConfigFrom(v)
	require.NoError(t, err)

	assert.Equal(t, "blackman", config.Analysis.WindowFunction)
	assert.Equal(t, 2500.0, config.Parser.DefaultSampleRate)
	assert.Equal(t, 5*time.Second, config.Summarizer.Timeout)
	assert.Equal(t, 15, config.Power.HarmonicOrders)
}

func TestValidateConfig(t *testing.T) {
	cases := map[string]func(c *Config){
		"log level":     func(c *Config) { c.LogLevel = "loud" },
		"log format":    func(c *Config) { c.LogFormat = "xml" },
		"output format": func(c *Config) { c.OutputFormat = "pdf" },
		"sample rate":   func(c *Config) { c.Parser.DefaultSampleRate = 0 },
		"window":        func(c *Config) { c.Analysis.WindowFunction = "kaiser" },
		"scope":         func(c *Config) { c.Analysis.Scope = "partial" },
		"view floor":    func(c *Config) { c.Analysis.MinViewSamples = 0 },
		"harmonics":     func(c *Config) { c.Power.HarmonicOrders = 0 },
		"radius":        func(c *Config) { c.Power.PeakSearchRadius = -1 },
		"timeout":       func(c *Config) { c.Summarizer.Timeout = 0 },
		"precision":     func(c *Config) { c.Output.Precision = 40 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			config := GetDefaultConfig()
			mutate(config)
			assert.Error(t, ValidateConfig(config))
		})
	}

	assert.NoError(t, ValidateConfig(GetDefaultConfig()))
}

func TestDefaultOutputConfigForFormat(t *testing.T) {
	assert.Equal(t, 6, GetDefaultOutputConfigForFormat("json").Precision)
	assert.False(t, GetDefaultOutputConfigForFormat("csv").IncludeMetadata)
	assert.Equal(t, 3, GetDefaultOutputConfigForFormat("table").Precision)
}
