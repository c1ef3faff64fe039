package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/lixenwraith/retrovoice/constant"
	"github.com/lixenwraith/retrovoice/dsp"
	"github.com/lixenwraith/retrovoice/parameter"
	"github.com/lixenwraith/retrovoice/pcm"
)

// Tone is one synthesized segment
// Zero Attack, DecayFloor and Amplitude take the package defaults
type Tone struct {
	Wave       Waveform
	StartFreq  float64 // Hz
	EndFreq    float64 // Hz, exponential sweep target; 0 holds StartFreq
	Duration   time.Duration
	Attack     time.Duration
	DecayFloor float64
	Pulses     int // >1 gates the segment into evenly spaced bursts
	Amplitude  float64
}

// Recipe is a sequence of tones played back to back
type Recipe []Tone

// Duration returns the total recipe length
func (r Recipe) Duration() time.Duration {
	var d time.Duration
	for _, t := range r {
		d += t.Duration
	}
	return d
}

// oscillator generates raw waveform samples, sweeping exponentially from start to end
func oscillator(wave Waveform, start, end float64, samples int, rate float64, rng *rand.Rand) []float32 {
	buf := make([]float32, samples)
	if end <= 0 {
		end = start
	}
	ratio := 1.0
	if start > 0 {
		ratio = end / start
	}
	phase := 0.0

	for i := 0; i < samples; i++ {
		var v float64
		switch wave {
		case WaveSquare:
			if phase < 0.5 {
				v = 1.0
			} else {
				v = -1.0
			}
		case WaveTriangle:
			v = 4*math.Abs(phase-0.5) - 1
		case WaveSine:
			v = math.Sin(2 * math.Pi * phase)
		case WaveNoise:
			v = rng.Float64()*2 - 1
		}
		buf[i] = float32(v)

		freq := start
		if ratio != 1 && samples > 1 {
			freq = start * math.Pow(ratio, float64(i)/float64(samples-1))
		}
		phase += freq / rate
		phase -= math.Floor(phase)
	}
	return buf
}

// applyEnvelope ramps linearly to 1 over attack then decays exponentially to floor at the end
func applyEnvelope(buf []float32, attack int, floor float64) {
	total := len(buf)
	if attack > total {
		attack = total
	}
	decay := total - attack
	for i := range buf {
		var vol float64
		switch {
		case i < attack:
			vol = float64(i) / float64(attack)
		case decay > 1:
			vol = math.Pow(floor, float64(i-attack)/float64(decay-1))
		default:
			vol = 1
		}
		buf[i] *= float32(vol)
	}
}

// applyPulses silences the back 40% of each of n equal windows
func applyPulses(buf []float32, n int) {
	if n <= 1 || len(buf) == 0 {
		return
	}
	window := len(buf) / n
	if window == 0 {
		return
	}
	on := window * 6 / 10
	for i := range buf {
		if i%window >= on {
			buf[i] = 0
		}
	}
}

// mixFloatBuffers adds b into a (in place), extending a if needed
func mixFloatBuffers(a, b []float32, bScale float32) []float32 {
	if len(b) > len(a) {
		extended := make([]float32, len(b))
		copy(extended, a)
		a = extended
	}
	for i := range b {
		a[i] += b[i] * bScale
	}
	return a
}

// concatFloatBuffers appends b to a
func concatFloatBuffers(a, b []float32) []float32 {
	result := make([]float32, len(a)+len(b))
	copy(result, a)
	copy(result[len(a):], b)
	return result
}

// durationToSamples converts duration to sample count at rate
func durationToSamples(d time.Duration, rate float64) int {
	return int(d.Seconds() * rate)
}

// renderTone synthesizes one enveloped segment
func renderTone(t Tone, rate float64, rng *rand.Rand) []float32 {
	n := durationToSamples(t.Duration, rate)
	buf := oscillator(t.Wave, t.StartFreq, t.EndFreq, n, rate, rng)

	attack := t.Attack
	if attack == 0 {
		attack = constant.EnvelopeAttack
	}
	floor := t.DecayFloor
	if floor == 0 {
		floor = constant.EnvelopeDecayFloor
	}
	applyEnvelope(buf, durationToSamples(attack, rate), floor)
	applyPulses(buf, t.Pulses)

	amp := t.Amplitude
	if amp == 0 {
		amp = parameter.DefaultToneAmplitude
	}
	for i := range buf {
		buf[i] *= float32(amp)
	}
	return buf
}

// renderRecipe synthesizes a mono buffer; noise draws from a source seeded by seed
func renderRecipe(r Recipe, rate float64, seed int64) pcm.Buffer {
	rng := rand.New(rand.NewSource(seed))
	var out []float32
	for _, t := range r {
		out = concatFloatBuffers(out, renderTone(t, rate, rng))
	}
	for i, s := range out {
		out[i] = float32(dsp.Clamp(float64(s)))
	}
	return pcm.FromMono(out, uint32(rate))
}

// renderAmbience builds a seamless loop of low-passed noise with a faint mains hum
func renderAmbience(rate float64, seed int64) pcm.Buffer {
	rng := rand.New(rand.NewSource(seed))
	n := durationToSamples(constant.AmbienceDuration, rate)
	fade := durationToSamples(constant.AmbienceFade, rate)
	raw := make([]float32, n+fade)

	lp := dsp.OnePole{Coeff: constant.AmbienceLowpassCoeff}
	var peak float64
	for i := range raw {
		v := lp.Process(rng.Float64()*2 - 1)
		raw[i] = float32(v)
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		scale := float32(constant.AmbienceNoiseLevel / peak)
		for i := range raw {
			raw[i] *= scale
		}
	}

	// Fold the tail over the head so the loop point is continuous
	for i := 0; i < fade; i++ {
		w := float32(i) / float32(fade)
		raw[i] = raw[i]*w + raw[n+i]*(1-w)
	}

	// Hum period divides the loop length, so it needs no crossfade
	hum := oscillator(WaveSine, constant.AmbienceHumFreq, 0, n, rate, nil)
	out := mixFloatBuffers(raw[:n:n], hum, constant.AmbienceHumLevel)

	for i, s := range out {
		out[i] = float32(dsp.Clamp(float64(s)))
	}
	return pcm.FromMono(out, uint32(rate))
}
