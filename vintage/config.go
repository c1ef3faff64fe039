// Package vintage degrades modern speech into period sound card audio.
//
// Processing is a fixed sequence of stages driven by an immutable Config,
// normally taken from the preset table through Preset and adjusted with
// overrides. Process is pure: it never mutates its input and draws all
// randomness from the caller's *rand.Rand.
package vintage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lixenwraith/retrovoice/constant"
)

// Sentinel errors
var (
	ErrUnknownLevel  = errors.New("unknown authenticity level")
	ErrInvalidConfig = errors.New("invalid processing config")
	ErrMissingRand   = errors.New("artifact injection requires a random source")
)

// Level selects a degradation preset
type Level int

const (
	Modern Level = iota
	SubtleVintage
	Authentic
	UltraAuthentic
	levelCount
)

var levelNames = [levelCount]string{
	Modern:         "modern",
	SubtleVintage:  "subtle",
	Authentic:      "authentic",
	UltraAuthentic: "ultra",
}

func (l Level) String() string {
	if l < 0 || l >= levelCount {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// Valid reports whether l is one of the four presets
func (l Level) Valid() bool {
	return l >= 0 && l < levelCount
}

// Levels returns all presets from least to most degraded
func Levels() []Level {
	return []Level{Modern, SubtleVintage, Authentic, UltraAuthentic}
}

// ParseLevel accepts the short names plus a few long aliases
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "modern":
		return Modern, nil
	case "subtle", "subtle-vintage", "subtlevintage", "subtle_vintage":
		return SubtleVintage, nil
	case "authentic":
		return Authentic, nil
	case "ultra", "ultra-authentic", "ultraauthentic", "ultra_authentic":
		return UltraAuthentic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

// Config is one row of the preset table
// Values are copied around; use With to derive a variant
type Config struct {
	Level Level

	TargetSampleRate   uint32
	QuantizationLevels uint32
	LowCutoff          float64 // Hz
	HighCutoff         float64 // Hz

	// Reduction factors in [0, 1]
	ProsodyReduction        float64
	PitchVariationReduction float64 // Consumed by the speech collaborator, no DSP stage
	VolumeVarianceReduction float64

	InjectArtifacts bool
	AliasingAmount  float64
	PreEchoAmount   float64

	// PlaybackRate is the time-scale handed to the effector
	PlaybackRate float64
}

var presets = [levelCount]Config{
	Modern: {
		Level:              Modern,
		TargetSampleRate:   24000,
		QuantizationLevels: constant.LosslessLevels,
		LowCutoff:          20,
		HighCutoff:         12000,
		PlaybackRate:       1.0,
	},
	SubtleVintage: {
		Level:                   SubtleVintage,
		TargetSampleRate:        22050,
		QuantizationLevels:      constant.LosslessLevels,
		LowCutoff:               100,
		HighCutoff:              8000,
		ProsodyReduction:        0.3,
		PitchVariationReduction: 0.2,
		VolumeVarianceReduction: 0.3,
		PlaybackRate:            1.05,
	},
	Authentic: {
		Level:                   Authentic,
		TargetSampleRate:        11025,
		QuantizationLevels:      256,
		LowCutoff:               300,
		HighCutoff:              5000,
		ProsodyReduction:        0.7,
		PitchVariationReduction: 0.5,
		VolumeVarianceReduction: 0.7,
		InjectArtifacts:         true,
		AliasingAmount:          0.1,
		PreEchoAmount:           0.05,
		PlaybackRate:            constant.DefaultPlaybackRate,
	},
	UltraAuthentic: {
		Level:                   UltraAuthentic,
		TargetSampleRate:        8000,
		QuantizationLevels:      128,
		LowCutoff:               400,
		HighCutoff:              3500,
		ProsodyReduction:        0.9,
		PitchVariationReduction: 0.8,
		VolumeVarianceReduction: 0.9,
		InjectArtifacts:         true,
		AliasingAmount:          0.3,
		PreEchoAmount:           0.15,
		PlaybackRate:            1.15,
	},
}

// Preset returns the config for a level
func Preset(l Level) (Config, error) {
	if !l.Valid() {
		return Config{}, fmt.Errorf("%w: %d", ErrUnknownLevel, int(l))
	}
	return presets[l], nil
}

// MustPreset is Preset for compile-time known levels
func MustPreset(l Level) Config {
	cfg, err := Preset(l)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Override adjusts a copy of a Config
type Override func(*Config)

// With returns a copy of c with the overrides applied in order
func (c Config) With(opts ...Override) Config {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithTargetRate sets the output sample rate
func WithTargetRate(rate uint32) Override {
	return func(c *Config) { c.TargetSampleRate = rate }
}

// WithQuantization sets the level count, e.g. 256 for 8-bit
func WithQuantization(levels uint32) Override {
	return func(c *Config) { c.QuantizationLevels = levels }
}

// WithCutoffs sets the bandpass corners
func WithCutoffs(low, high float64) Override {
	return func(c *Config) {
		c.LowCutoff = low
		c.HighCutoff = high
	}
}

// WithArtifacts enables artifact injection with the given amounts
func WithArtifacts(aliasing, preEcho float64) Override {
	return func(c *Config) {
		c.InjectArtifacts = true
		c.AliasingAmount = aliasing
		c.PreEchoAmount = preEcho
	}
}

// WithoutArtifacts disables the stochastic stage, making Process deterministic
func WithoutArtifacts() Override {
	return func(c *Config) { c.InjectArtifacts = false }
}

// WithProsody sets the prosody and volume variance reductions
func WithProsody(prosody, volumeVariance float64) Override {
	return func(c *Config) {
		c.ProsodyReduction = prosody
		c.VolumeVarianceReduction = volumeVariance
	}
}

// WithPlaybackRate sets the effector time-scale
func WithPlaybackRate(rate float64) Override {
	return func(c *Config) { c.PlaybackRate = rate }
}

// Validate rejects configs the pipeline cannot run
func (c Config) Validate() error {
	switch {
	case !c.Level.Valid():
		return fmt.Errorf("%w: level %d", ErrInvalidConfig, int(c.Level))
	case c.TargetSampleRate == 0:
		return fmt.Errorf("%w: zero target sample rate", ErrInvalidConfig)
	case c.QuantizationLevels < 2:
		return fmt.Errorf("%w: %d quantization levels", ErrInvalidConfig, c.QuantizationLevels)
	case c.LowCutoff < 0 || c.HighCutoff <= c.LowCutoff:
		return fmt.Errorf("%w: cutoffs %.0f-%.0f Hz", ErrInvalidConfig, c.LowCutoff, c.HighCutoff)
	case !unit(c.ProsodyReduction) || !unit(c.PitchVariationReduction) || !unit(c.VolumeVarianceReduction):
		return fmt.Errorf("%w: reduction factor outside [0, 1]", ErrInvalidConfig)
	case c.AliasingAmount < 0 || c.PreEchoAmount < 0:
		return fmt.Errorf("%w: negative artifact amount", ErrInvalidConfig)
	case c.PlaybackRate <= 0:
		return fmt.Errorf("%w: playback rate %v", ErrInvalidConfig, c.PlaybackRate)
	}
	return nil
}

func unit(v float64) bool {
	return v >= 0 && v <= 1
}
