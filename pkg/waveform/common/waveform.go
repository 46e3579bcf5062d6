package common

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// MathChannelPrefix prefixes derived channel identifiers (Math1, Math2, ...)
const MathChannelPrefix = "Math"

// MathOp is a binary operation producing a derived channel
type MathOp string

const (
	MathAdd MathOp = "add"
	MathSub MathOp = "sub"
	MathMul MathOp = "mul"
	MathDiv MathOp = "div"
)

// ChannelID returns the identifier of the i-th parsed channel
func ChannelID(i int) string {
	return fmt.Sprintf("ch%d", i)
}

// Len returns the number of samples
func (w Waveform) Len() int {
	return len(w.Samples)
}

// IsEmpty reports whether the waveform has no samples
func (w Waveform) IsEmpty() bool {
	return len(w.Samples) == 0
}

// ChannelIndex returns the position of id in the channel list
func (w Waveform) ChannelIndex(id string) (int, bool) {
	idx := slices.Index(w.Channels, id)
	return idx, idx >= 0
}

// Value returns sample i of the channel at index ch, treating missing values as 0
func (w Waveform) Value(i, ch int) float64 {
	if i < 0 || i >= len(w.Samples) || ch < 0 {
		return 0
	}
	values := w.Samples[i].Values
	if ch >= len(values) {
		return 0
	}
	return values[ch]
}

// Column extracts one channel as a dense series. An unknown channel yields zeros.
func (w Waveform) Column(id string) []float64 {
	out := make([]float64, len(w.Samples))
	ch, ok := w.ChannelIndex(id)
	if !ok {
		return out
	}
	for i := range w.Samples {
		out[i] = w.Value(i, ch)
	}
	return out
}

// Times returns the sample timestamps
func (w Waveform) Times() []float64 {
	out := make([]float64, len(w.Samples))
	for i, s := range w.Samples {
		out[i] = s.Time
	}
	return out
}

// Slice returns the half-open sample range [start, end) clamped to the
// waveform bounds. The result shares sample storage with w.
func (w Waveform) Slice(start, end int) Waveform {
	start = max(start, 0)
	end = min(end, len(w.Samples))
	if start >= end {
		return Waveform{Channels: w.Channels, Samples: []Sample{}}
	}
	return Waveform{Channels: w.Channels, Samples: w.Samples[start:end]}
}

// SliceTime returns the samples whose timestamps fall inside [from, to]
func (w Waveform) SliceTime(from, to float64) Waveform {
	if from > to {
		from, to = to, from
	}
	start := len(w.Samples)
	end := 0
	for i, s := range w.Samples {
		if s.Time >= from && s.Time <= to {
			start = min(start, i)
			end = i + 1
		}
	}
	return w.Slice(start, end)
}

// Downsample reduces w to at most maxPoints samples for display by
// max-pooling: each bucket keeps, per channel, the value with the largest
// magnitude, stamped with the bucket's first timestamp.
func Downsample(w Waveform, maxPoints int) Waveform {
	n := len(w.Samples)
	if maxPoints <= 0 || n <= maxPoints {
		return w
	}

	bucket := (n + maxPoints - 1) / maxPoints
	out := Waveform{
		Channels: w.Channels,
		Samples:  make([]Sample, 0, (n+bucket-1)/bucket),
	}

	for start := 0; start < n; start += bucket {
		end := min(start+bucket, n)
		pooled := Sample{
			Time:   w.Samples[start].Time,
			Values: make([]float64, len(w.Channels)),
		}
		for ch := range w.Channels {
			peak := w.Value(start, ch)
			for i := start + 1; i < end; i++ {
				if v := w.Value(i, ch); math.Abs(v) > math.Abs(peak) {
					peak = v
				}
			}
			pooled.Values[ch] = peak
		}
		out.Samples = append(out.Samples, pooled)
	}

	return out
}

// AddMathChannel derives a channel from a and b and appends it. The inputs
// are not modified; the returned waveform and metadata are fresh copies.
func AddMathChannel(w Waveform, meta *SignalMetadata, op MathOp, a, b string) (Waveform, *SignalMetadata, string, error) {
	ia, ok := w.ChannelIndex(a)
	if !ok {
		return Waveform{}, nil, "", NewAnalysisError(ErrCodeUnknownChannel, fmt.Sprintf("unknown channel %q", a), nil)
	}
	ib, ok := w.ChannelIndex(b)
	if !ok {
		return Waveform{}, nil, "", NewAnalysisError(ErrCodeUnknownChannel, fmt.Sprintf("unknown channel %q", b), nil)
	}

	var apply func(x, y float64) float64
	switch op {
	case MathAdd:
		apply = func(x, y float64) float64 { return x + y }
	case MathSub:
		apply = func(x, y float64) float64 { return x - y }
	case MathMul:
		apply = func(x, y float64) float64 { return x * y }
	case MathDiv:
		apply = func(x, y float64) float64 {
			if y == 0 {
				return 0
			}
			return x / y
		}
	default:
		return Waveform{}, nil, "", NewAnalysisError(ErrCodeInvalidRange, fmt.Sprintf("unsupported math operation %q", op), nil)
	}

	count := 0
	for _, ch := range w.Channels {
		if strings.HasPrefix(ch, MathChannelPrefix) {
			count++
		}
	}
	id := fmt.Sprintf("%s%d", MathChannelPrefix, count+1)

	channels := append(slices.Clone(w.Channels), id)
	samples := make([]Sample, len(w.Samples))
	for i, s := range w.Samples {
		values := make([]float64, len(channels))
		copy(values, s.Values)
		values[len(channels)-1] = apply(w.Value(i, ia), w.Value(i, ib))
		samples[i] = Sample{Time: s.Time, Values: values}
	}

	var outMeta *SignalMetadata
	if meta != nil {
		outMeta = meta.Clone()
		outMeta.Channels = slices.Clone(channels)
	}

	return Waveform{Channels: channels, Samples: samples}, outMeta, id, nil
}
