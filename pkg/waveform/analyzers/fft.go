package analyzers

import (
	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// FFT is a forward transform over real input. Inputs are zero-padded at
// the tail to the next power of two before the transform.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute returns the real and imaginary parts of the forward transform
// (negative exponent). For len(x) <= 1 the input is returned as the real
// part with a zero imaginary part.
func (f *FFT) Compute(x []float64) (re, im []float64) {
	if len(x) <= 1 {
		re = make([]float64, len(x))
		copy(re, x)
		return re, make([]float64, len(x))
	}

	bins := f.ComputeComplex(x)
	re = make([]float64, len(bins))
	im = make([]float64, len(bins))
	for k, c := range bins {
		re[k] = real(c)
		im[k] = imag(c)
	}

	return re, im
}

// ComputeComplex is Compute returning complex128 bins
func (f *FFT) ComputeComplex(x []float64) []complex128 {
	if len(x) <= 1 {
		out := make([]complex128, len(x))
		for i, v := range x {
			out[i] = complex(v, 0)
		}
		return out
	}

	padded := make([]float64, common.NextPowerOfTwo(len(x)))
	copy(padded, x)

	return fft.FFTReal(padded)
}
