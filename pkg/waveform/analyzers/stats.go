package analyzers

import (
	"math"

	"github.com/RyanBlaney/scope-inspector/pkg/logging"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// StatisticsCalculator computes per-channel summary statistics
type StatisticsCalculator struct {
	logger logging.Logger
}

// NewStatisticsCalculator creates a new statistics calculator
func NewStatisticsCalculator() *StatisticsCalculator {
	return &StatisticsCalculator{
		logger: logging.WithFields(logging.Fields{
			"component": "statistics_calculator",
		}),
	}
}

// Compute returns one record per channel, in channel order. An empty
// window or an unknown channel yields a zero record. DominantFrequency is
// left at 0; see ApplyDominantFrequencies.
func (sc *StatisticsCalculator) Compute(w common.Waveform, channels []string) []common.ChannelStatistics {
	sc.logger.Debug("Computing channel statistics", logging.Fields{
		"samples":  w.Len(),
		"channels": len(channels),
	})

	out := make([]common.ChannelStatistics, len(channels))
	for i, ch := range channels {
		out[i] = ComputeSeriesStatistics(w.Column(ch))
		out[i].Channel = ch
	}
	return out
}

// ComputeSeriesStatistics runs the two-pass summary over one series.
// Pass one gathers sum, sum of squares and extrema; pass two accumulates
// squared deviations from the mean for the AC RMS.
func ComputeSeriesStatistics(values []float64) common.ChannelStatistics {
	var stats common.ChannelStatistics
	if len(values) == 0 {
		return stats
	}

	n := float64(len(values))
	sum, sumSquares := 0.0, 0.0
	minVal, maxVal := values[0], values[0]

	for _, v := range values {
		sum += v
		sumSquares += v * v
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}

	mean := sum / n

	deviation := 0.0
	for _, v := range values {
		d := v - mean
		deviation += d * d
	}

	stats.Min = minVal
	stats.Max = maxVal
	stats.Average = mean
	stats.RMS = math.Sqrt(sumSquares / n)
	stats.ACRMS = math.Sqrt(deviation / n)

	return stats
}

// ApplyDominantFrequencies copies dominant frequencies from a spectral run
// into fresh statistics records
func ApplyDominantFrequencies(stats []common.ChannelStatistics, spectrum *common.SpectralResult) []common.ChannelStatistics {
	out := make([]common.ChannelStatistics, len(stats))
	copy(out, stats)
	if spectrum == nil {
		return out
	}
	for i := range out {
		out[i].DominantFrequency = spectrum.DominantFrequencies[out[i].Channel]
	}
	return out
}
