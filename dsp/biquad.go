// Package dsp holds the numeric primitives shared by the vintage pipeline,
// the effector and the synthesizers. Functions are pure unless documented.
package dsp

import "math"

// Biquad is a second-order IIR filter in direct form I
// Coefficients follow the Audio EQ Cookbook, normalized by a0
type Biquad struct {
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

// NewLowPass returns a low-pass section; q of 1/sqrt(2) gives Butterworth
func NewLowPass(sampleRate, cutoff, q float64) *Biquad {
	w0 := 2 * math.Pi * cutoff / sampleRate
	sinW0, cosW0 := math.Sincos(w0)
	alpha := sinW0 / (2 * q)

	b1 := 1 - cosW0
	b0 := b1 / 2
	a0 := 1 + alpha

	return &Biquad{
		b0: b0 / a0,
		b1: b1 / a0,
		b2: b0 / a0,
		a1: (-2 * cosW0) / a0,
		a2: (1 - alpha) / a0,
	}
}

// NewHighPass returns a high-pass section; q of 1/sqrt(2) gives Butterworth
func NewHighPass(sampleRate, cutoff, q float64) *Biquad {
	w0 := 2 * math.Pi * cutoff / sampleRate
	sinW0, cosW0 := math.Sincos(w0)
	alpha := sinW0 / (2 * q)

	b0 := (1 + cosW0) / 2
	a0 := 1 + alpha

	return &Biquad{
		b0: b0 / a0,
		b1: -(1 + cosW0) / a0,
		b2: b0 / a0,
		a1: (-2 * cosW0) / a0,
		a2: (1 - alpha) / a0,
	}
}

// Process filters one sample, advancing state
func (f *Biquad) Process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2 = f.x1
	f.x1 = x
	f.y2 = f.y1
	f.y1 = y
	return y
}

// Reset clears filter history
func (f *Biquad) Reset() {
	f.x1, f.x2, f.y1, f.y2 = 0, 0, 0, 0
}

// Apply runs a fresh copy of the filter over in and returns a new slice
// The receiver's state is left untouched
func (f *Biquad) Apply(in []float32) []float32 {
	g := *f
	g.Reset()
	out := make([]float32, len(in))
	for i, s := range in {
		out[i] = float32(g.Process(float64(s)))
	}
	return out
}

// LowPass filters in at cutoff, returning a new slice
func LowPass(in []float32, sampleRate, cutoff, q float64) []float32 {
	return NewLowPass(sampleRate, cutoff, q).Apply(in)
}

// HighPass filters in at cutoff, returning a new slice
func HighPass(in []float32, sampleRate, cutoff, q float64) []float32 {
	return NewHighPass(sampleRate, cutoff, q).Apply(in)
}

// OnePole is a first-order smoothing low-pass: y += coeff*(x-y)
type OnePole struct {
	Coeff float64
	y     float64
}

// Process filters one sample
func (p *OnePole) Process(x float64) float64 {
	p.y += p.Coeff * (x - p.y)
	return p.y
}
