package analyzers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

func TestDominantFrequencyRecovery(t *testing.T) {
	const sampleRate = 1000.0
	sa := NewSpectralAnalyzer()

	for _, f0 := range []float64{12.5, 50, 123, 310} {
		w := waveformOf(sampleRate, sine(1000, sampleRate, f0, 1, 0))

		res, err := sa.Analyze(w, sampleRate, w.Channels, common.WindowRectangular)
		require.NoError(t, err)

		assert.Equal(t, 1024, res.Metadata.FFTLength)
		assert.InDelta(t, sampleRate/1024, res.Metadata.FrequencyResolution, 1e-12)
		assert.InDelta(t, f0, res.DominantFrequencies["ch0"], res.Metadata.FrequencyResolution, "f0=%v", f0)
	}
}

func TestSpectrumLayout(t *testing.T) {
	const sampleRate = 2048.0
	sa := NewSpectralAnalyzer()

	w := waveformOf(sampleRate,
		sine(2048, sampleRate, 64, 1, 0),
		sine(2048, sampleRate, 128, 0.5, 30),
	)

	res, err := sa.Analyze(w, sampleRate, w.Channels, common.WindowRectangular)
	require.NoError(t, err)
	require.Len(t, res.Bins, 1024)
	assert.Equal(t, common.WindowRectangular, res.Metadata.Window)

	for k, bin := range res.Bins {
		assert.Equal(t, float64(k), bin.Frequency)
		assert.Len(t, bin.Magnitudes, 2)
	}

	// exact-bin tones have amplitude-scaled magnitudes
	assert.InDelta(t, 1.0, res.Bins[64].Magnitudes["ch0"], 1e-9)
	assert.InDelta(t, 0.5, res.Bins[128].Magnitudes["ch1"], 1e-9)
	assert.Equal(t, 64.0, res.DominantFrequencies["ch0"])
	assert.Equal(t, 128.0, res.DominantFrequencies["ch1"])
}

func TestDominantFrequencyIgnoresDC(t *testing.T) {
	const sampleRate = 1024.0
	series := sine(1024, sampleRate, 32, 0.1, 0)
	for i := range series {
		series[i] += 10
	}

	res, err := NewSpectralAnalyzer().Analyze(waveformOf(sampleRate, series), sampleRate, []string{"ch0"}, common.WindowRectangular)
	require.NoError(t, err)
	assert.Greater(t, res.Bins[0].Magnitudes["ch0"], res.Bins[32].Magnitudes["ch0"])
	assert.Equal(t, 32.0, res.DominantFrequencies["ch0"])
}

func TestSpectralDeterminism(t *testing.T) {
	const sampleRate = 5000.0
	sa := NewSpectralAnalyzer()
	w := waveformOf(sampleRate,
		addSeries(sine(777, sampleRate, 60, 1, 10), sine(777, sampleRate, 180, 0.2, 0)),
	)

	for _, wt := range []common.WindowType{common.WindowRectangular, common.WindowHanning, common.WindowHamming, common.WindowBlackman} {
		first, err := sa.Analyze(w, sampleRate, w.Channels, wt)
		require.NoError(t, err)
		second, err := NewSpectralAnalyzer().Analyze(w, sampleRate, w.Channels, wt)
		require.NoError(t, err)
		assert.Equal(t, first, second, "window %s", wt)
	}
}

func TestSpectralDegenerateInputs(t *testing.T) {
	sa := NewSpectralAnalyzer()

	res, err := sa.Analyze(common.Waveform{Channels: []string{"ch0"}}, 1000, []string{"ch0"}, common.WindowHanning)
	require.NoError(t, err)
	assert.Empty(t, res.Bins)
	assert.Equal(t, 0.0, res.DominantFrequencies["ch0"])
	assert.Equal(t, 0, res.Metadata.FFTLength)

	res, err = sa.Analyze(waveformOf(1000, []float64{1}), 1000, []string{"ch0"}, common.WindowHanning)
	require.NoError(t, err)
	assert.Empty(t, res.Bins)
	assert.Equal(t, 1, res.Metadata.FFTLength)

	_, err = sa.Analyze(waveformOf(1000, []float64{1, 2}), -1, []string{"ch0"}, common.WindowHanning)
	assert.True(t, errors.Is(err, common.ErrInvalidSampleRate))

	_, err = sa.Analyze(waveformOf(1000, []float64{1, 2}), 1000, []string{"ch0"}, common.WindowType("flat"))
	assert.True(t, errors.Is(err, common.ErrInvalidWindow))
}

func TestSpectrumWithoutChannels(t *testing.T) {
	w := common.Waveform{
		Samples: []common.Sample{{Time: 0}, {Time: 0.001}},
	}

	res, err := NewSpectralAnalyzer().Analyze(w, 1000, nil, common.WindowHanning)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Metadata.FFTLength)
	assert.Equal(t, 500.0, res.Metadata.FrequencyResolution)
	require.Len(t, res.Bins, 1)
	assert.Empty(t, res.Bins[0].Magnitudes)
	assert.Empty(t, res.DominantFrequencies)
}

func TestTransformAngles(t *testing.T) {
	const sampleRate = 1024.0
	sa := NewSpectralAnalyzer()
	series := sine(1024, sampleRate, 64, 2, 0)

	spec, err := sa.Transform(series, common.WindowRectangular, true)
	require.NoError(t, err)
	assert.Equal(t, 1024, spec.Length)
	require.Len(t, spec.Angles, 512)
	assert.InDelta(t, 2.0, spec.Magnitudes[64], 1e-9)
	assert.InDelta(t, -90.0, spec.Angles[64], 1e-6)

	plain, err := sa.Transform(series, common.WindowRectangular, false)
	require.NoError(t, err)
	assert.Nil(t, plain.Angles)
	assert.Equal(t, spec.Magnitudes, plain.Magnitudes)

	mags, n, err := sa.Magnitudes(series, common.WindowRectangular)
	require.NoError(t, err)
	assert.Equal(t, 1024, n)
	assert.Equal(t, spec.Magnitudes, mags)
}
