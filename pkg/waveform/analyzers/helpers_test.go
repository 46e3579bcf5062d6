package analyzers

import (
	"math"

	"github.com/RyanBlaney/scope-inspector/pkg/waveform/common"
)

// sine returns n samples of amp·sin(2πft + phaseDeg)
func sine(n int, sampleRate, freq, amp, phaseDeg float64) []float64 {
	out := make([]float64, n)
	phase := phaseDeg * math.Pi / 180
	for i := range out {
		t := float64(i) / sampleRate
		out[i] = amp * math.Sin(2*math.Pi*freq*t+phase)
	}
	return out
}

// waveformOf builds a waveform with channels ch0..chN from equal-length series
func waveformOf(sampleRate float64, series ...[]float64) common.Waveform {
	w := common.Waveform{}
	for i := range series {
		w.Channels = append(w.Channels, common.ChannelID(i))
	}
	if len(series) == 0 {
		return w
	}
	w.Samples = make([]common.Sample, len(series[0]))
	for i := range w.Samples {
		values := make([]float64, len(series))
		for c, s := range series {
			values[c] = s[i]
		}
		w.Samples[i] = common.Sample{Time: float64(i) / sampleRate, Values: values}
	}
	return w
}

func addSeries(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out
}
