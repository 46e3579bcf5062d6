package analyzers

import (
	"fmt"

	"github.com/RyanBlaney/sonido-sonar/algorithms/windowing"

	"github.com/RyanBlaney/scope-inspector/pkg/logging"
	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// Window represents a window function with its coefficients
type Window struct {
	Type         common.WindowType `json:"type"`
	Size         int               `json:"size"`
	Coefficients []float64         `json:"coefficients"`
	CoherentGain float64           `json:"coherent_gain"` // mean coefficient
}

// WindowGenerator generates symmetric window functions
type WindowGenerator struct {
	logger logging.Logger
}

// NewWindowGenerator creates a new window generator
func NewWindowGenerator() *WindowGenerator {
	return &WindowGenerator{
		logger: logging.WithFields(logging.Fields{
			"component": "window_generator",
		}),
	}
}

// Generate creates a window of the given type and size. Weights are
// evaluated at i/(size-1); a single-sample window has weight 1.
func (wg *WindowGenerator) Generate(windowType common.WindowType, size int) (*Window, error) {
	if size < 0 {
		return nil, common.NewAnalysisError(common.ErrCodeInvalidWindow,
			fmt.Sprintf("window size must be non-negative: %d", size), nil)
	}

	// symmetric forms divide by size-1, so sizes below 2 skip the generator
	coefficients := make([]float64, size)
	symmetric := size > 1

	switch windowType {
	case common.WindowRectangular:
		coefficients = windowing.NewRectangular(size).GetCoefficients()
	case common.WindowHanning:
		if symmetric {
			coefficients = windowing.NewHann(size, true).GetCoefficients()
		}
	case common.WindowHamming:
		if symmetric {
			coefficients = windowing.NewHamming(size, true).GetCoefficients()
		}
	case common.WindowBlackman:
		if symmetric {
			coefficients = windowing.NewBlackman(size, true).GetCoefficients()
		}
	default:
		return nil, common.NewAnalysisError(common.ErrCodeInvalidWindow,
			fmt.Sprintf("unsupported window type: %s", windowType), nil)
	}
	if size == 1 {
		coefficients[0] = 1
	}

	window := &Window{
		Type:         windowType,
		Size:         size,
		Coefficients: coefficients,
	}
	if size > 0 {
		sum := 0.0
		for _, c := range coefficients {
			sum += c
		}
		window.CoherentGain = sum / float64(size)
	}

	return window, nil
}

// Apply multiplies the signal by the window. A rectangular window returns
// an unmodified copy.
func (w *Window) Apply(signal []float64) ([]float64, error) {
	if len(signal) != w.Size {
		return nil, fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.Size)
	}

	windowed := make([]float64, w.Size)
	if w.Type == common.WindowRectangular {
		copy(windowed, signal)
		return windowed, nil
	}

	for i := range w.Size {
		windowed[i] = signal[i] * w.Coefficients[i]
	}

	return windowed, nil
}

// ApplyWindow windows a signal in one call
func (wg *WindowGenerator) ApplyWindow(signal []float64, windowType common.WindowType) ([]float64, error) {
	window, err := wg.Generate(windowType, len(signal))
	if err != nil {
		wg.logger.Error(err, "Failed to generate window", logging.Fields{
			"window_type": windowType,
			"size":        len(signal),
		})
		return nil, err
	}
	return window.Apply(signal)
}
