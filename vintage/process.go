package vintage

import (
	"math"
	"math/rand"

	"github.com/lixenwraith/retrovoice/constant"
	"github.com/lixenwraith/retrovoice/dsp"
	"github.com/lixenwraith/retrovoice/pcm"
)

// Stage names a pipeline step, in execution order
type Stage string

const (
	StageProsody   Stage = "prosody"
	StageAntiAlias Stage = "anti-alias"
	StageResample  Stage = "resample"
	StageQuantize  Stage = "quantize"
	StageBandpass  Stage = "bandpass"
	StageArtifacts Stage = "artifacts"
	StageDAC       Stage = "dac"
)

// Stages lists the steps Process will run for cfg on input at inputRate
func Stages(cfg Config, inputRate uint32) []Stage {
	if cfg.Level == Modern {
		return nil
	}
	var stages []Stage
	if cfg.ProsodyReduction > 0 && cfg.VolumeVarianceReduction > 0 {
		stages = append(stages, StageProsody)
	}
	if cfg.TargetSampleRate < inputRate {
		stages = append(stages, StageAntiAlias, StageResample)
	}
	if cfg.QuantizationLevels < constant.LosslessLevels {
		stages = append(stages, StageQuantize)
	}
	stages = append(stages, StageBandpass)
	if cfg.InjectArtifacts {
		stages = append(stages, StageArtifacts)
	}
	// Output register holds the same bit depth as the quantizer
	if cfg.QuantizationLevels < constant.LosslessLevels {
		stages = append(stages, StageDAC)
	}
	return stages
}

// Process runs the degradation pipeline and returns a new buffer
// rng is only consulted by artifact injection and may be nil when it is disabled
func Process(input pcm.Buffer, cfg Config, rng *rand.Rand) (pcm.Buffer, error) {
	if err := input.Validate(); err != nil {
		return pcm.Buffer{}, err
	}
	if err := cfg.Validate(); err != nil {
		return pcm.Buffer{}, err
	}

	stages := Stages(cfg, input.SampleRate)
	if len(stages) == 0 || input.Empty() {
		return input.Clone(), nil
	}
	if cfg.InjectArtifacts && rng == nil {
		return pcm.Buffer{}, ErrMissingRand
	}

	out := input
	for _, st := range stages {
		switch st {
		case StageProsody:
			out = reduceProsody(out, cfg.VolumeVarianceReduction)
		case StageAntiAlias:
			out = antiAlias(out, cfg)
		case StageResample:
			out = resample(out, cfg.TargetSampleRate)
		case StageQuantize, StageDAC:
			out = quantize(out, cfg.QuantizationLevels)
		case StageBandpass:
			out = bandpass(out, cfg.LowCutoff, cfg.HighCutoff)
		case StageArtifacts:
			out = injectArtifacts(out, cfg.PreEchoAmount, cfg.AliasingAmount, rng)
		}
	}
	return out, nil
}

// ProcessBase64 decodes a speech payload and runs the level's preset over it
func ProcessBase64(b64 string, level Level, rng *rand.Rand) (pcm.Buffer, error) {
	cfg, err := Preset(level)
	if err != nil {
		return pcm.Buffer{}, err
	}
	buf, err := pcm.DecodeBase64PCM(b64, constant.TTSSampleRate, constant.TTSChannels)
	if err != nil {
		return pcm.Buffer{}, err
	}
	return Process(buf, cfg, rng)
}

// reduceProsody pulls local loudness toward a fraction of the global RMS
func reduceProsody(in pcm.Buffer, vvr float64) pcm.Buffer {
	window := int(float64(in.SampleRate) * constant.ProsodyWindow.Seconds())
	cf := 1 - vvr
	return in.MapChannels(in.SampleRate, func(_ int, ch []float32) []float32 {
		target := dsp.RMS(ch) * (1 - vvr*0.5)
		local := dsp.LocalRMS(ch, window)
		out := make([]float32, len(ch))
		for i, s := range ch {
			gain := 1.0
			if local[i] > 0 {
				gain = (target/local[i])*cf + (1 - cf)
			}
			out[i] = float32(dsp.Clamp(float64(s) * gain))
		}
		return out
	})
}

func antiAlias(in pcm.Buffer, cfg Config) pcm.Buffer {
	cutoff := math.Min(constant.AntiAliasMargin*float64(cfg.TargetSampleRate)/2, cfg.HighCutoff)
	rate := float64(in.SampleRate)
	return in.MapChannels(in.SampleRate, func(_ int, ch []float32) []float32 {
		return dsp.LowPass(ch, rate, cutoff, constant.ButterworthQ)
	})
}

func resample(in pcm.Buffer, target uint32) pcm.Buffer {
	return in.MapChannels(target, func(_ int, ch []float32) []float32 {
		return dsp.ResampleLinear(ch, in.SampleRate, target)
	})
}

func quantize(in pcm.Buffer, levels uint32) pcm.Buffer {
	return in.MapChannels(in.SampleRate, func(_ int, ch []float32) []float32 {
		return dsp.Quantize(ch, levels)
	})
}

// bandpass skips either corner at or above the current Nyquist
func bandpass(in pcm.Buffer, low, high float64) pcm.Buffer {
	rate := float64(in.SampleRate)
	nyquist := rate / 2
	return in.MapChannels(in.SampleRate, func(_ int, ch []float32) []float32 {
		out := append([]float32(nil), ch...)
		if low > 0 && low < nyquist {
			out = dsp.HighPass(out, rate, low, constant.ButterworthQ)
		}
		if high < nyquist {
			out = dsp.LowPass(out, rate, high, constant.ButterworthQ)
		}
		for i, s := range out {
			out[i] = float32(dsp.Clamp(float64(s)))
		}
		return out
	})
}

// injectArtifacts adds DAC smear from the previous input sample and signal-correlated noise
func injectArtifacts(in pcm.Buffer, preEcho, aliasing float64, rng *rand.Rand) pcm.Buffer {
	return in.MapChannels(in.SampleRate, func(_ int, ch []float32) []float32 {
		out := make([]float32, len(ch))
		var prev float64
		for i, s := range ch {
			x := float64(s)
			y := x + prev*preEcho*0.5 + (rng.Float64()-0.5)*math.Abs(x)*aliasing
			out[i] = float32(dsp.Clamp(y))
			prev = x
		}
		return out
	})
}
