package dsp

import "math"

// Clamp limits x to [-1, 1]
func Clamp(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Clamp01 limits x to [0, 1]
func Clamp01(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < 0 || math.IsNaN(x) {
		return 0
	}
	return x
}

// QuantizeStep returns the grid spacing for levels evenly spaced over [-1, 1]
func QuantizeStep(levels uint32) float64 {
	if levels < 2 {
		return 2
	}
	return 2 / float64(levels-1)
}

// QuantizeSample snaps x to the nearest of levels values spanning [-1, 1]
// The grid includes both endpoints, so output has at most levels distinct values.
// With an even level count zero falls between two grid points and rounds up to
// step/2, leaving a half-step DC offset on silence.
func QuantizeSample(x float64, levels uint32) float64 {
	if levels < 2 {
		return x
	}
	step := QuantizeStep(levels)
	k := math.Round((Clamp(x) + 1) / step)
	if k < 0 {
		k = 0
	} else if top := float64(levels - 1); k > top {
		k = top
	}
	return Clamp(-1 + k*step)
}

// Quantize applies QuantizeSample to every sample, returning a new slice
func Quantize(in []float32, levels uint32) []float32 {
	out := make([]float32, len(in))
	for i, s := range in {
		out[i] = float32(QuantizeSample(float64(s), levels))
	}
	return out
}

// ResampledLength returns ceil(frames * to / from)
func ResampledLength(frames int, from, to uint32) int {
	if from == 0 || frames == 0 {
		return 0
	}
	return int((uint64(frames)*uint64(to) + uint64(from) - 1) / uint64(from))
}

// ResampleLinear converts in from one rate to another by linear interpolation
// Output length is ResampledLength; reads past the end hold the last sample
func ResampleLinear(in []float32, from, to uint32) []float32 {
	n := ResampledLength(len(in), from, to)
	out := make([]float32, n)
	if n == 0 {
		return out
	}
	ratio := float64(from) / float64(to)
	last := len(in) - 1
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= last {
			out[i] = in[last]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = in[idx] + (in[idx+1]-in[idx])*frac
	}
	return out
}

// RMS returns the root mean square of in
func RMS(in []float32) float64 {
	if len(in) == 0 {
		return 0
	}
	var sum float64
	for _, s := range in {
		sum += float64(s) * float64(s)
	}
	return math.Sqrt(sum / float64(len(in)))
}

// LocalRMS returns the RMS of a centered window around each sample
// The window is truncated at the edges; running sums keep this linear in len(in)
func LocalRMS(in []float32, window int) []float64 {
	out := make([]float64, len(in))
	if len(in) == 0 {
		return out
	}
	if window < 1 {
		window = 1
	}
	prefix := make([]float64, len(in)+1)
	for i, s := range in {
		prefix[i+1] = prefix[i] + float64(s)*float64(s)
	}
	half := window / 2
	for i := range in {
		lo := i - half
		if lo < 0 {
			lo = 0
		}
		hi := i + half + 1
		if hi > len(in) {
			hi = len(in)
		}
		mean := (prefix[hi] - prefix[lo]) / float64(hi-lo)
		if mean < 0 {
			mean = 0
		}
		out[i] = math.Sqrt(mean)
	}
	return out
}

// Goertzel returns the power of in at freq, used for spectral checks
func Goertzel(in []float32, sampleRate, freq float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	coeff := 2 * math.Cos(w)
	var s1, s2 float64
	for _, x := range in {
		s0 := float64(x) + coeff*s1 - s2
		s2 = s1
		s1 = s0
	}
	return s1*s1 + s2*s2 - coeff*s1*s2
}
