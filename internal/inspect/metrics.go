package inspect

import (
	"math"
	"slices"

	"github.com/RyanBlaney/scope-inspector/pkg/logging"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// MetricsCalculator derives shape metrics on top of the channel statistics
type MetricsCalculator struct {
	logger logging.Logger
}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator(logger logging.Logger) *MetricsCalculator {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	return &MetricsCalculator{
		logger: logger,
	}
}

// SignalMetrics is the detailed per-channel breakdown
type SignalMetrics struct {
	Channel     string  `json:"channel" yaml:"channel"`
	PeakToPeak  float64 `json:"peak_to_peak" yaml:"peak_to_peak"`
	CrestFactor float64 `json:"crest_factor" yaml:"crest_factor"`
	DCRatio     float64 `json:"dc_ratio" yaml:"dc_ratio"`
	Median      float64 `json:"median" yaml:"median"`
	P05         float64 `json:"p05" yaml:"p05"`
	P95         float64 `json:"p95" yaml:"p95"`
	Count       int     `json:"count" yaml:"count"`
}

// Calculate returns one SignalMetrics per statistics record. Ratios with a
// zero RMS resolve to 0.
func (mc *MetricsCalculator) Calculate(w common.Waveform, stats []common.ChannelStatistics) []SignalMetrics {
	out := make([]SignalMetrics, len(stats))

	for i, s := range stats {
		values := slices.Clone(w.Column(s.Channel))
		slices.Sort(values)

		m := SignalMetrics{
			Channel:    s.Channel,
			PeakToPeak: s.Max - s.Min,
			Median:     mc.percentile(values, 50),
			P05:        mc.percentile(values, 5),
			P95:        mc.percentile(values, 95),
			Count:      len(values),
		}
		if s.RMS > 0 {
			m.CrestFactor = math.Max(math.Abs(s.Max), math.Abs(s.Min)) / s.RMS
			m.DCRatio = math.Abs(s.Average) / s.RMS
		}
		out[i] = mc.sanitize(m)
	}

	mc.logger.Debug("Calculated signal metrics", logging.Fields{
		"channels": len(out),
		"samples":  w.Len(),
	})

	return out
}

// percentile interpolates linearly between the closest ranks of sorted data
func (mc *MetricsCalculator) percentile(sortedData []float64, p float64) float64 {
	n := len(sortedData)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return sortedData[0]
	}

	rank := p / 100 * float64(n-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sortedData[lower]
	}

	weight := rank - float64(lower)
	return sortedData[lower]*(1-weight) + sortedData[upper]*weight
}

func (mc *MetricsCalculator) sanitize(m SignalMetrics) SignalMetrics {
	for _, f := range []*float64{&m.PeakToPeak, &m.CrestFactor, &m.DCRatio, &m.Median, &m.P05, &m.P95} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}
	return m
}
