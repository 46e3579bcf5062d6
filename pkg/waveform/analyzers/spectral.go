package analyzers

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/scope-inspector/pkg/logging"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// SpectralAnalyzer windows and transforms each channel of a waveform and
// assembles the magnitudes onto one shared frequency axis. It operates on
// whatever window it is given; choosing view or full scope is the caller's job.
type SpectralAnalyzer struct {
	windowGenerator *WindowGenerator
	fft             *FFT
	logger          logging.Logger
}

// NewSpectralAnalyzer creates a new spectral analyzer
func NewSpectralAnalyzer() *SpectralAnalyzer {
	return &SpectralAnalyzer{
		windowGenerator: NewWindowGenerator(),
		fft:             NewFFT(),
		logger: logging.WithFields(logging.Fields{
			"component": "spectral_analyzer",
		}),
	}
}

// Analyze computes the single-sided magnitude spectrum of every channel.
// The result's Scope is left for the caller to set.
func (sa *SpectralAnalyzer) Analyze(w common.Waveform, sampleRate float64, channels []string, windowType common.WindowType) (*common.SpectralResult, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}

	logger := sa.logger.WithFields(logging.Fields{
		"function":    "Analyze",
		"samples":     w.Len(),
		"channels":    len(channels),
		"window_type": windowType,
		"sample_rate": sampleRate,
	})

	result := &common.SpectralResult{
		Bins:                []common.FrequencyBin{},
		DominantFrequencies: make(map[string]float64, len(channels)),
		Metadata: common.SpectralRunMetadata{
			Window: windowType,
		},
	}

	if w.IsEmpty() {
		for _, ch := range channels {
			result.DominantFrequencies[ch] = 0
		}
		logger.Debug("Empty waveform, returning empty spectrum")
		return result, nil
	}

	fftLength := common.NextPowerOfTwo(w.Len())
	magnitudes := make([][]float64, len(channels))
	for i, ch := range channels {
		mags, n, err := sa.Magnitudes(w.Column(ch), windowType)
		if err != nil {
			return nil, fmt.Errorf("spectrum of channel %s: %w", ch, err)
		}
		magnitudes[i] = mags
		fftLength = n
	}

	resolution := sampleRate / float64(fftLength)
	half := fftLength / 2

	result.Bins = make([]common.FrequencyBin, half)
	for k := range half {
		bin := common.FrequencyBin{
			Frequency:  resolution * float64(k),
			Magnitudes: make(map[string]float64, len(channels)),
		}
		for i, ch := range channels {
			bin.Magnitudes[ch] = magnitudes[i][k]
		}
		result.Bins[k] = bin
	}

	for i, ch := range channels {
		result.DominantFrequencies[ch] = DominantFrequency(magnitudes[i], resolution)
	}

	result.Metadata.FFTLength = fftLength
	result.Metadata.FrequencyResolution = resolution

	logger.Debug("Spectrum computed", logging.Fields{
		"fft_length":      fftLength,
		"freq_resolution": resolution,
		"bins":            half,
	})

	return result, nil
}

// Magnitudes windows and transforms one series, returning the first
// fftLength/2 bins scaled by 2/fftLength together with fftLength
func (sa *SpectralAnalyzer) Magnitudes(signal []float64, windowType common.WindowType) ([]float64, int, error) {
	spec, err := sa.Transform(signal, windowType, false)
	if err != nil {
		return nil, 0, err
	}
	return spec.Magnitudes, spec.Length, nil
}

// Spectrum is the single-sided result of one windowed transform
type Spectrum struct {
	Magnitudes []float64 // scaled by 2/Length
	Angles     []float64 // degrees; nil unless requested
	Length     int
}

// Transform windows and transforms one series, keeping the first Length/2
// bins. Phase angles are computed only when withAngles is set.
func (sa *SpectralAnalyzer) Transform(signal []float64, windowType common.WindowType, withAngles bool) (*Spectrum, error) {
	windowed, err := sa.windowGenerator.ApplyWindow(signal, windowType)
	if err != nil {
		return nil, err
	}

	re, im := sa.fft.Compute(windowed)
	n := len(re)
	half := n / 2

	spec := &Spectrum{
		Magnitudes: make([]float64, half),
		Length:     n,
	}
	if withAngles {
		spec.Angles = make([]float64, half)
	}

	scale := 0.0
	if n > 0 {
		scale = 2.0 / float64(n)
	}
	for k := range half {
		spec.Magnitudes[k] = math.Sqrt(re[k]*re[k]+im[k]*im[k]) * scale
		if withAngles {
			spec.Angles[k] = math.Atan2(im[k], re[k]) * 180 / math.Pi
		}
	}

	return spec, nil
}

// DominantFrequency returns the frequency of the strongest bin, ignoring DC.
// Returns 0 when there is no bin above DC.
func DominantFrequency(magnitudes []float64, resolution float64) float64 {
	best := -1
	bestMag := math.Inf(-1)
	for k := 1; k < len(magnitudes); k++ {
		if magnitudes[k] > bestMag {
			bestMag = magnitudes[k]
			best = k
		}
	}
	if best < 0 {
		return 0
	}
	return float64(best) * resolution
}

func validateSampleRate(sampleRate float64) error {
	if !(sampleRate > 0) || math.IsInf(sampleRate, 0) {
		return common.NewAnalysisError(common.ErrCodeInvalidSampleRate,
			fmt.Sprintf("sample rate must be positive and finite: %v", sampleRate), nil)
	}
	return nil
}
