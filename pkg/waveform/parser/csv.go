package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/RyanBlaney/scope-inspector/pkg/logging"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// Parser turns oscilloscope CSV exports into a waveform and its metadata.
// Parsing never fails on content: anything unrecognised falls back to the
// configured defaults.
type Parser struct {
	config *Config
	rules  []HeaderRule
	logger logging.Logger
}

// NewParser creates a parser. A nil config uses DefaultConfig.
func NewParser(config *Config) *Parser {
	return &Parser{
		config: config.normalized(),
		rules:  defaultRules(),
		logger: logging.WithFields(logging.Fields{
			"component": "csv_parser",
		}),
	}
}

// Parse interprets text with the default configuration
func Parse(text string) (common.Waveform, *common.SignalMetadata) {
	return NewParser(nil).Parse(text)
}

// ParseReader reads r fully and parses it. Only read errors are returned.
func (p *Parser) ParseReader(r io.Reader) (common.Waveform, *common.SignalMetadata, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return common.Waveform{}, nil, fmt.Errorf("failed to read capture: %w", err)
	}
	w, meta := p.Parse(string(data))
	return w, meta, nil
}

// Parse interprets text as a scope capture
func (p *Parser) Parse(text string) (common.Waveform, *common.SignalMetadata) {
	scan := p.scan(text)

	samples, channelCount := p.readSamples(scan)

	channels := make([]string, channelCount)
	for i := range channels {
		channels[i] = common.ChannelID(i)
	}

	meta := &common.SignalMetadata{
		SampleRate:          scan.sampleRate,
		RateDeclared:        scan.rateDeclared,
		TimeBase:            scan.timeBase,
		SamplingRateDisplay: scan.samplingRate,
		AmplitudeScale:      scan.amplitudeScale,
		YUnit:               scan.unit,
		HasTimeColumn:       scan.timeColumn >= 0,
		Channels:            channels,
		Points:              len(samples),
		RawHeader:           scan.rawHeader,
	}

	p.logger.Debug("Parsed capture", logging.Fields{
		"lines":         len(scan.lines),
		"data_start":    scan.dataStart,
		"points":        meta.Points,
		"channels":      channelCount,
		"sample_rate":   meta.SampleRate,
		"rate_declared": meta.RateDeclared,
		"time_column":   meta.HasTimeColumn,
		"unit":          meta.YUnit,
	})

	return common.Waveform{Channels: channels, Samples: samples}, meta
}

// scan splits the input into non-empty lines and runs every header rule
func (p *Parser) scan(text string) *headerScan {
	text = strings.TrimPrefix(text, "\ufeff")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if line != "" {
			lines = append(lines, line)
		}
	}

	scan := &headerScan{
		config:     p.config,
		lines:      lines,
		headerEnd:  min(len(lines), p.config.HeaderScanLines),
		dataStart:  -1,
		headerRow:  -1,
		timeColumn: -1,
		unit:       p.config.DefaultUnit,
		sampleRate: p.config.DefaultSampleRate,
		rawHeader:  make(map[string]string),
	}

	for _, rule := range p.rules {
		rule.Apply(scan)
	}
	return scan
}

// readSamples converts the data lines into samples. A declared sampling
// rate wins over the time column; the column is still excluded from the
// channel values.
func (p *Parser) readSamples(scan *headerScan) ([]common.Sample, int) {
	if scan.dataStart < 0 {
		return []common.Sample{}, 0
	}

	samples := make([]common.Sample, 0, len(scan.lines)-scan.dataStart)
	channelCount := 0

	for _, line := range scan.lines[scan.dataStart:] {
		values := numericFields(line)
		if len(values) == 0 {
			continue
		}

		index := len(samples)
		t := float64(index) / scan.sampleRate

		if scan.timeColumn >= 0 && scan.timeColumn < len(values) {
			if !scan.rateDeclared {
				t = values[scan.timeColumn]
			}
			values = append(values[:scan.timeColumn:scan.timeColumn], values[scan.timeColumn+1:]...)
		}

		channelCount = max(channelCount, len(values))
		samples = append(samples, common.Sample{Time: t, Values: values})
	}

	for i := range samples {
		if n := len(samples[i].Values); n < channelCount {
			samples[i].Values = append(samples[i].Values, make([]float64, channelCount-n)...)
		}
	}

	return samples, channelCount
}
