package analyzers

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/scope-inspector/pkg/logging"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// PowerQualityConfig holds the harmonic analysis parameters
type PowerQualityConfig struct {
	HarmonicOrders   int `json:"harmonic_orders" yaml:"harmonic_orders"`
	PeakSearchRadius int `json:"peak_search_radius" yaml:"peak_search_radius"`
}

// DefaultPowerQualityConfig returns orders 1..15 with a ±2 bin peak search
func DefaultPowerQualityConfig() *PowerQualityConfig {
	return &PowerQualityConfig{
		HarmonicOrders:   15,
		PeakSearchRadius: 2,
	}
}

// PowerQualityAnalyzer derives three-phase power-quality metrics from two
// measured phases, taking the third from the balanced three-wire constraint
// W = -U - V
type PowerQualityAnalyzer struct {
	config   *PowerQualityConfig
	spectral *SpectralAnalyzer
	logger   logging.Logger
}

// phaseSpectrum is the Hanning-windowed spectrum of one phase
type phaseSpectrum struct {
	rms             float64
	magnitudes      []float64
	angles          []float64 // degrees
	fundamentalBin  int
	resolution      float64
	fundamentalFreq float64
}

// NewPowerQualityAnalyzer creates a new analyzer; nil selects the defaults
func NewPowerQualityAnalyzer(config *PowerQualityConfig) *PowerQualityAnalyzer {
	if config == nil {
		config = DefaultPowerQualityConfig()
	}
	cfg := *config
	config = &cfg
	if config.HarmonicOrders < 1 {
		config.HarmonicOrders = 1
	}
	if config.PeakSearchRadius < 0 {
		config.PeakSearchRadius = 0
	}

	return &PowerQualityAnalyzer{
		config:   config,
		spectral: NewSpectralAnalyzer(),
		logger: logging.WithFields(logging.Fields{
			"component":       "power_quality_analyzer",
			"harmonic_orders": config.HarmonicOrders,
		}),
	}
}

// Analyze runs the analysis on channels phaseU and phaseV of w. Callers are
// expected to check the selection first; an unset or unknown channel, an
// empty waveform or a bad sample rate is reported as an AnalysisError.
func (pa *PowerQualityAnalyzer) Analyze(w common.Waveform, sampleRate float64, phaseU, phaseV string) (*common.PowerQualityResult, error) {
	if phaseU == "" || phaseV == "" {
		return nil, common.ErrMissingPhaseChannel
	}
	for _, ch := range []string{phaseU, phaseV} {
		if _, ok := w.ChannelIndex(ch); !ok {
			return nil, common.NewAnalysisError(common.ErrCodeUnknownChannel,
				fmt.Sprintf("unknown phase channel %q", ch), nil)
		}
	}

	return pa.AnalyzeSeries(w.Column(phaseU), w.Column(phaseV), sampleRate)
}

// AnalyzeSeries runs the analysis on raw phase U and V series of equal length
func (pa *PowerQualityAnalyzer) AnalyzeSeries(u, v []float64, sampleRate float64) (*common.PowerQualityResult, error) {
	if err := validateSampleRate(sampleRate); err != nil {
		return nil, err
	}
	if len(u) == 0 || len(v) == 0 {
		return nil, common.ErrEmptyWaveform
	}

	n := min(len(u), len(v))
	w := make([]float64, n)
	for i := range n {
		w[i] = -u[i] - v[i]
	}

	series := map[common.Phase][]float64{
		common.PhaseU: u[:n],
		common.PhaseV: v[:n],
		common.PhaseW: w,
	}

	logger := pa.logger.WithFields(logging.Fields{
		"function":    "AnalyzeSeries",
		"samples":     n,
		"sample_rate": sampleRate,
	})

	spectra := make(map[common.Phase]*phaseSpectrum, len(common.Phases))
	for _, p := range common.Phases {
		spec, err := pa.phaseSpectrum(series[p], sampleRate)
		if err != nil {
			return nil, fmt.Errorf("phase %s: %w", p, err)
		}
		spectra[p] = spec
	}

	reference := spectra[common.PhaseU]
	referenceAngle := reference.angleAt(reference.fundamentalBin)

	result := &common.PowerQualityResult{
		FundamentalFrequency: reference.fundamentalFreq,
		Phases:               make([]common.PhaseResult, 0, len(common.Phases)),
	}

	for _, p := range common.Phases {
		spec := spectra[p]
		harmonics := pa.harmonicTable(spec)
		raw := spec.angleAt(spec.fundamentalBin)

		result.Phases = append(result.Phases, common.PhaseResult{
			Phase:                p,
			RMS:                  spec.rms,
			FundamentalFrequency: spec.fundamentalFreq,
			RawPhaseAngle:        raw,
			PhaseAngle:           WrapDegrees(raw - referenceAngle),
			THD:                  THD(harmonics, spec.fundamentalMagnitude()),
			Harmonics:            harmonics,
		})
	}

	result.Unbalance = Unbalance(result.Phases[0].RMS, result.Phases[1].RMS, result.Phases[2].RMS)

	logger.Debug("Power quality computed", logging.Fields{
		"fundamental_frequency": result.FundamentalFrequency,
		"unbalance":             result.Unbalance,
	})

	return result, nil
}

// phaseSpectrum computes RMS on the raw samples, then a fixed Hanning
// window and FFT, and locates the fundamental above bin 1
func (pa *PowerQualityAnalyzer) phaseSpectrum(samples []float64, sampleRate float64) (*phaseSpectrum, error) {
	spec := &phaseSpectrum{rms: RMS(samples)}

	transformed, err := pa.spectral.Transform(samples, common.WindowHanning, true)
	if err != nil {
		return nil, err
	}

	n := transformed.Length
	half := n / 2
	spec.magnitudes = transformed.Magnitudes
	spec.angles = transformed.Angles

	spec.resolution = sampleRate / float64(n)

	// bins 0 and 1 are excluded: DC and residual low-frequency leakage
	bestMag := math.Inf(-1)
	for k := 2; k < half; k++ {
		if spec.magnitudes[k] > bestMag {
			bestMag = spec.magnitudes[k]
			spec.fundamentalBin = k
		}
	}
	spec.fundamentalFreq = float64(spec.fundamentalBin) * spec.resolution

	return spec, nil
}

// harmonicTable searches ±radius bins around each ideal harmonic bin for
// the local peak. Neighbourhoods never reach below bin 2; a neighbourhood
// entirely above Nyquist yields a zero row at the ideal frequency.
func (pa *PowerQualityAnalyzer) harmonicTable(spec *phaseSpectrum) []common.HarmonicInfo {
	fundamentalMag := spec.fundamentalMagnitude()
	table := make([]common.HarmonicInfo, pa.config.HarmonicOrders)

	for i := range table {
		order := i + 1
		target := spec.fundamentalBin * order
		info := common.HarmonicInfo{
			Order:     order,
			Frequency: float64(target) * spec.resolution,
		}

		if spec.fundamentalBin > 0 {
			lo := max(target-pa.config.PeakSearchRadius, 2)
			hi := min(target+pa.config.PeakSearchRadius, len(spec.magnitudes)-1)
			peak := -1
			for k := lo; k <= hi; k++ {
				if peak < 0 || spec.magnitudes[k] > spec.magnitudes[peak] {
					peak = k
				}
			}
			if peak >= 0 {
				info.Frequency = float64(peak) * spec.resolution
				info.Magnitude = spec.magnitudes[peak]
			}
		}

		if fundamentalMag > 0 {
			info.Percentage = 100 * info.Magnitude / fundamentalMag
		}
		table[i] = info
	}

	return table
}

func (s *phaseSpectrum) magnitudeAt(k int) float64 {
	if k < 0 || k >= len(s.magnitudes) {
		return 0
	}
	return s.magnitudes[k]
}

// fundamentalMagnitude is 0 when the capture is too short to hold a bin above 1
func (s *phaseSpectrum) fundamentalMagnitude() float64 {
	if s.fundamentalBin < 2 {
		return 0
	}
	return s.magnitudeAt(s.fundamentalBin)
}

func (s *phaseSpectrum) angleAt(k int) float64 {
	if k < 0 || k >= len(s.angles) {
		return 0
	}
	return s.angles[k]
}

// THD returns 100·sqrt(Σ magnitude² over orders >= 2)/fundamental, or 0
// when the fundamental magnitude is 0
func THD(harmonics []common.HarmonicInfo, fundamentalMagnitude float64) float64 {
	if fundamentalMagnitude <= 0 {
		return 0
	}
	sum := 0.0
	for _, h := range harmonics {
		if h.Order >= 2 {
			sum += h.Magnitude * h.Magnitude
		}
	}
	return 100 * math.Sqrt(sum) / fundamentalMagnitude
}

// Unbalance returns the largest deviation of a phase RMS from the three-phase
// average, as a percentage of that average. A zero average yields 0.
func Unbalance(rmsU, rmsV, rmsW float64) float64 {
	avg := (rmsU + rmsV + rmsW) / 3
	if avg == 0 {
		return 0
	}
	maxDev := max(math.Abs(rmsU-avg), math.Abs(rmsV-avg), math.Abs(rmsW-avg))
	return 100 * maxDev / avg
}

// WrapDegrees maps an angle into (-180, 180]
func WrapDegrees(angle float64) float64 {
	angle = math.Mod(angle, 360)
	if angle > 180 {
		angle -= 360
	} else if angle <= -180 {
		angle += 360
	}
	return angle
}

// RMS is the root mean square about zero, 0 for an empty series
func RMS(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(values)))
}
