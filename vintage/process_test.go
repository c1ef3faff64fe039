package vintage

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/lixenwraith/retrovoice/dsp"
	"github.com/lixenwraith/retrovoice/pcm"
)

func sineBuffer(freq float64, rate uint32, frames int, amp float64) pcm.Buffer {
	samples := make([]float32, frames)
	for i := range samples {
		samples[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return pcm.FromMono(samples, rate)
}

// TestPresetTable verifies the preset rows
func TestPresetTable(t *testing.T) {
	tests := []struct {
		level     Level
		rate      uint32
		levels    uint32
		low, high float64
		artifacts bool
		playback  float64
	}{
		{Modern, 24000, 65536, 20, 12000, false, 1.0},
		{SubtleVintage, 22050, 65536, 100, 8000, false, 1.05},
		{Authentic, 11025, 256, 300, 5000, true, 1.1},
		{UltraAuthentic, 8000, 128, 400, 3500, true, 1.15},
	}
	for _, tt := range tests {
		cfg, err := Preset(tt.level)
		if err != nil {
			t.Fatalf("Preset(%v) failed: %v", tt.level, err)
		}
		if cfg.TargetSampleRate != tt.rate || cfg.QuantizationLevels != tt.levels ||
			cfg.LowCutoff != tt.low || cfg.HighCutoff != tt.high ||
			cfg.InjectArtifacts != tt.artifacts || cfg.PlaybackRate != tt.playback {
			t.Errorf("Preset(%v) = %+v", tt.level, cfg)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("Preset(%v) invalid: %v", tt.level, err)
		}
	}
	if _, err := Preset(Level(9)); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("Preset(9) error = %v, want ErrUnknownLevel", err)
	}
}

// TestParseLevel verifies names and aliases round-trip through String
func TestParseLevel(t *testing.T) {
	for _, l := range Levels() {
		got, err := ParseLevel(l.String())
		if err != nil || got != l {
			t.Errorf("ParseLevel(%q) = %v, %v", l.String(), got, err)
		}
	}
	if got, _ := ParseLevel("Ultra-Authentic"); got != UltraAuthentic {
		t.Errorf("ParseLevel alias = %v, want ultra", got)
	}
	if _, err := ParseLevel("vintage"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("ParseLevel(vintage) error = %v, want ErrUnknownLevel", err)
	}
}

// TestOverridesCopy verifies With leaves the preset table untouched
func TestOverridesCopy(t *testing.T) {
	base := MustPreset(Authentic)
	cfg := base.With(WithQuantization(16), WithoutArtifacts(), WithPlaybackRate(1.0))
	if cfg.QuantizationLevels != 16 || cfg.InjectArtifacts || cfg.PlaybackRate != 1.0 {
		t.Errorf("Overrides not applied: %+v", cfg)
	}
	if again := MustPreset(Authentic); again.QuantizationLevels != 256 || !again.InjectArtifacts {
		t.Error("Override mutated the preset table")
	}
}

// TestValidateRejects verifies config errors
func TestValidateRejects(t *testing.T) {
	base := MustPreset(Authentic)
	bad := []Config{
		base.With(WithQuantization(1)),
		base.With(WithTargetRate(0)),
		base.With(WithCutoffs(5000, 300)),
		base.With(WithProsody(1.5, 0.5)),
		base.With(WithPlaybackRate(0)),
	}
	for i, cfg := range bad {
		if _, err := Process(sineBuffer(440, 24000, 100, 0.5), cfg, rand.New(rand.NewSource(1))); !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Case %d error = %v, want ErrInvalidConfig", i, err)
		}
	}
}

// TestStages verifies stage selection and order
func TestStages(t *testing.T) {
	if got := Stages(MustPreset(Modern), 24000); len(got) != 0 {
		t.Errorf("Modern stages = %v, want none", got)
	}
	want := []Stage{StageProsody, StageAntiAlias, StageResample, StageQuantize, StageBandpass, StageArtifacts, StageDAC}
	got := Stages(MustPreset(Authentic), 24000)
	if len(got) != len(want) {
		t.Fatalf("Authentic stages = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Stage %d = %s, want %s", i, got[i], want[i])
		}
	}
	// No downsampling when input is already below target
	for _, st := range Stages(MustPreset(Authentic), 8000) {
		if st == StageResample || st == StageAntiAlias {
			t.Errorf("Unexpected %s for upsampling input", st)
		}
	}
}

// TestModernIsClone verifies Modern returns an independent copy
func TestModernIsClone(t *testing.T) {
	in := sineBuffer(440, 24000, 240, 0.5)
	out, err := Process(in, MustPreset(Modern), nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	for i := range in.Channels[0] {
		if out.Channels[0][i] != in.Channels[0][i] {
			t.Fatalf("Sample %d changed", i)
		}
	}
	out.Channels[0][0] = 0.99
	if in.Channels[0][0] == 0.99 {
		t.Error("Modern output shares storage with input")
	}
}

// TestAuthenticEndToEnd verifies rate, length and bit depth for one second of speech-rate audio
func TestAuthenticEndToEnd(t *testing.T) {
	in := sineBuffer(440, 24000, 24000, 0.8)
	out, err := Process(in, MustPreset(Authentic), rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if out.SampleRate != 11025 {
		t.Errorf("SampleRate = %d, want 11025", out.SampleRate)
	}
	if out.Frames != 11025 {
		t.Errorf("Frames = %d, want 11025", out.Frames)
	}
	if err := out.Validate(); err != nil {
		t.Errorf("Output invalid: %v", err)
	}
	distinct := map[float32]struct{}{}
	for _, s := range out.Channels[0] {
		if s < -1 || s > 1 {
			t.Fatalf("Sample %v out of range", s)
		}
		distinct[s] = struct{}{}
	}
	if len(distinct) > 256 {
		t.Errorf("Distinct values = %d, want <= 256", len(distinct))
	}
}

// TestProcessDoesNotMutateInput verifies stages allocate fresh buffers
func TestProcessDoesNotMutateInput(t *testing.T) {
	in := sineBuffer(440, 24000, 2400, 0.8)
	orig := in.Clone()
	if _, err := Process(in, MustPreset(UltraAuthentic), rand.New(rand.NewSource(1))); err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	for i := range orig.Channels[0] {
		if in.Channels[0][i] != orig.Channels[0][i] {
			t.Fatalf("Input sample %d mutated", i)
		}
	}
}

// TestArtifactsDeterministic verifies the seeded RNG makes output reproducible
func TestArtifactsDeterministic(t *testing.T) {
	in := sineBuffer(440, 24000, 4800, 0.8)
	cfg := MustPreset(UltraAuthentic)
	a, _ := Process(in, cfg, rand.New(rand.NewSource(7)))
	b, _ := Process(in, cfg, rand.New(rand.NewSource(7)))
	c, _ := Process(in, cfg, rand.New(rand.NewSource(8)))
	same, differ := true, false
	for i := range a.Channels[0] {
		if a.Channels[0][i] != b.Channels[0][i] {
			same = false
		}
		if a.Channels[0][i] != c.Channels[0][i] {
			differ = true
		}
	}
	if !same {
		t.Error("Same seed produced different output")
	}
	if !differ {
		t.Error("Different seeds produced identical output")
	}
}

// TestArtifactsNeedRand verifies a nil source is rejected only when artifacts run
func TestArtifactsNeedRand(t *testing.T) {
	in := sineBuffer(440, 24000, 240, 0.5)
	if _, err := Process(in, MustPreset(Authentic), nil); !errors.Is(err, ErrMissingRand) {
		t.Errorf("error = %v, want ErrMissingRand", err)
	}
	if _, err := Process(in, MustPreset(Authentic).With(WithoutArtifacts()), nil); err != nil {
		t.Errorf("Deterministic config failed: %v", err)
	}
}

// TestBandpassAttenuation verifies a tone at twice the high corner loses at least half its RMS
func TestBandpassAttenuation(t *testing.T) {
	const rate = 44100
	low, high := 300.0, 5000.0
	center := math.Sqrt(low * high)

	inBand := bandpass(sineBuffer(center, rate, rate, 0.5), low, high)
	outBand := bandpass(sineBuffer(2*high, rate, rate, 0.5), low, high)

	centerRMS := dsp.RMS(inBand.Channels[0][rate/2:])
	highRMS := dsp.RMS(outBand.Channels[0][rate/2:])
	if highRMS > 0.5*centerRMS {
		t.Errorf("RMS at 2x high cutoff = %v, center = %v, want <= 50%%", highRMS, centerRMS)
	}
}

// TestAntiAliasBeforeResample verifies filtering ahead of decimation suppresses folded energy
func TestAntiAliasBeforeResample(t *testing.T) {
	const tone = 9000.0
	cfg := MustPreset(Authentic).With(WithoutArtifacts(), WithQuantization(65536), WithProsody(0, 0))
	in := sineBuffer(tone, 44100, 44100, 0.8)

	withFilter, err := Process(in, cfg, nil)
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	without := bandpass(resample(in, cfg.TargetSampleRate), cfg.LowCutoff, cfg.HighCutoff)

	alias := float64(cfg.TargetSampleRate) - tone
	rate := float64(cfg.TargetSampleRate)
	filtered := dsp.Goertzel(withFilter.Channels[0], rate, alias)
	raw := dsp.Goertzel(without.Channels[0], rate, alias)
	if filtered > 0.5*raw {
		t.Errorf("Alias power with filter = %v, without = %v, want < 50%%", filtered, raw)
	}
}

// TestProsodyFlattensDynamics verifies loud and quiet passages converge
func TestProsodyFlattensDynamics(t *testing.T) {
	const rate = 24000
	in := sineBuffer(300, rate, rate, 1)
	for i := rate / 2; i < rate; i++ {
		in.Channels[0][i] *= 0.1
	}
	out := reduceProsody(in, 0.7)

	before := dsp.RMS(in.Channels[0][:rate/4]) / dsp.RMS(in.Channels[0][3*rate/4:])
	after := dsp.RMS(out.Channels[0][:rate/4]) / dsp.RMS(out.Channels[0][3*rate/4:])
	if after >= before {
		t.Errorf("Loud/quiet ratio %v -> %v, want reduction", before, after)
	}
}

// TestProcessBase64 verifies the decode-then-process convenience
func TestProcessBase64(t *testing.T) {
	b64 := pcm.EncodeBase64(sineBuffer(440, 24000, 2400, 0.5))
	out, err := ProcessBase64(b64, UltraAuthentic, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("ProcessBase64 failed: %v", err)
	}
	if out.SampleRate != 8000 || out.Frames != 800 {
		t.Errorf("Output = %d Hz x %d frames, want 8000 x 800", out.SampleRate, out.Frames)
	}
	if _, err := ProcessBase64("!!", Authentic, nil); !errors.Is(err, pcm.ErrInvalidEncoding) {
		t.Errorf("error = %v, want ErrInvalidEncoding", err)
	}
}
