package analyzers

import (
	"math"
	"math/rand"
	"testing"

	"github.com/mjibson/go-dsp/fft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/dsp/fourier"
)

// inverseDFT is a direct O(n²) inverse transform used as a reference
func inverseDFT(re, im []float64) []float64 {
	n := len(re)
	out := make([]float64, n)
	for t := range n {
		sum := 0.0
		for k := range n {
			angle := 2 * math.Pi * float64(k) * float64(t) / float64(n)
			sum += re[k]*math.Cos(angle) - im[k]*math.Sin(angle)
		}
		out[t] = sum / float64(n)
	}
	return out
}

func randomSeries(r *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = r.Float64()*2 - 1
	}
	return out
}

func TestFFTRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	f := NewFFT()

	for _, n := range []int{2, 4, 8, 64, 256} {
		x := randomSeries(r, n)
		re, im := f.Compute(x)
		require.Len(t, re, n)
		require.Len(t, im, n)

		back := inverseDFT(re, im)
		for i := range x {
			assert.InDelta(t, x[i], back[i], 1e-9, "n=%d i=%d", n, i)
		}
	}
}

func TestFFTZeroPadsToPowerOfTwo(t *testing.T) {
	f := NewFFT()

	for n, want := range map[int]int{3: 4, 5: 8, 1000: 1024, 1025: 2048} {
		re, im := f.Compute(make([]float64, n))
		assert.Len(t, re, want)
		assert.Len(t, im, want)
	}
}

func TestFFTDegenerateInputs(t *testing.T) {
	f := NewFFT()

	re, im := f.Compute([]float64{3.5})
	assert.Equal(t, []float64{3.5}, re)
	assert.Equal(t, []float64{0}, im)

	re, im = f.Compute(nil)
	assert.Empty(t, re)
	assert.Empty(t, im)

	assert.Equal(t, []complex128{complex(3.5, 0)}, f.ComputeComplex([]float64{3.5}))
	assert.Empty(t, f.ComputeComplex(nil))
}

func TestFFTMatchesGoDSP(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	f := NewFFT()

	x := randomSeries(r, 700)
	padded := make([]float64, 1024)
	copy(padded, x)

	want := fft.FFTReal(padded)
	got := f.ComputeComplex(x)
	require.Len(t, got, len(want))

	for k := range want {
		assert.InDelta(t, real(want[k]), real(got[k]), 1e-8, "re bin %d", k)
		assert.InDelta(t, imag(want[k]), imag(got[k]), 1e-8, "im bin %d", k)
	}
}

func TestFFTMatchesGonum(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	f := NewFFT()

	x := randomSeries(r, 512)
	want := fourier.NewFFT(len(x)).Coefficients(nil, x)
	re, im := f.Compute(x)

	for k := range want {
		assert.InDelta(t, real(want[k]), re[k], 1e-8, "re bin %d", k)
		assert.InDelta(t, imag(want[k]), im[k], 1e-8, "im bin %d", k)
	}
}
