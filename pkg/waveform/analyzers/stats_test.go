package analyzers

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

func TestStatisticsInvariants(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	a := randomSeries(r, 500)
	b := make([]float64, 500)
	for i := range b {
		b[i] = 5 + 3*r.NormFloat64()
	}

	w := waveformOf(1000, a, b)
	stats := NewStatisticsCalculator().Compute(w, w.Channels)
	require.Len(t, stats, 2)

	for i, s := range stats {
		series := w.Column(w.Channels[i])

		assert.Equal(t, w.Channels[i], s.Channel)
		assert.LessOrEqual(t, s.Min, s.Average)
		assert.LessOrEqual(t, s.Average, s.Max)
		assert.GreaterOrEqual(t, s.RMS, 0.0)
		assert.GreaterOrEqual(t, s.ACRMS, 0.0)
		assert.Zero(t, s.DominantFrequency)

		assert.Equal(t, floats.Min(series), s.Min)
		assert.Equal(t, floats.Max(series), s.Max)
		assert.InDelta(t, floats.Sum(series)/float64(len(series)), s.Average, 1e-12)
		assert.InDelta(t, floats.Norm(series, 2)/math.Sqrt(float64(len(series))), s.RMS, 1e-12)

		// RMS² = mean² + ACRMS²
		assert.InDelta(t, s.RMS*s.RMS, s.Average*s.Average+s.ACRMS*s.ACRMS, 1e-9)
	}
}

func TestStatisticsConstantChannel(t *testing.T) {
	constant := make([]float64, 64)
	for i := range constant {
		constant[i] = -2.5
	}

	s := ComputeSeriesStatistics(constant)
	assert.Equal(t, 0.0, s.ACRMS)
	assert.Equal(t, 2.5, s.RMS)
	assert.Equal(t, -2.5, s.Min)
	assert.Equal(t, -2.5, s.Max)
	assert.Equal(t, -2.5, s.Average)
}

func TestStatisticsDegenerateWindows(t *testing.T) {
	calc := NewStatisticsCalculator()

	empty := common.Waveform{Channels: []string{"ch0"}}
	stats := calc.Compute(empty, []string{"ch0", "Math1"})
	require.Len(t, stats, 2)
	assert.Equal(t, common.ChannelStatistics{Channel: "ch0"}, stats[0])
	assert.Equal(t, common.ChannelStatistics{Channel: "Math1"}, stats[1])

	w := waveformOf(10, []float64{1, 2, 3})
	stats = calc.Compute(w, []string{"missing"})
	assert.Equal(t, 0.0, stats[0].RMS)
}

func TestApplyDominantFrequencies(t *testing.T) {
	stats := []common.ChannelStatistics{{Channel: "ch0"}, {Channel: "ch1"}}
	spectrum := &common.SpectralResult{DominantFrequencies: map[string]float64{"ch0": 50}}

	got := ApplyDominantFrequencies(stats, spectrum)
	assert.Equal(t, 50.0, got[0].DominantFrequency)
	assert.Equal(t, 0.0, got[1].DominantFrequency)
	assert.Equal(t, 0.0, stats[0].DominantFrequency, "input must be left untouched")

	assert.Equal(t, stats, ApplyDominantFrequencies(stats, nil))
}
