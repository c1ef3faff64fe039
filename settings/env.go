package settings

import (
	"os"
	"strconv"
)

// Environment variables read by LoadEnv
const (
	EnvUISounds       = "RETROVOICE_UI_SOUNDS"
	EnvUIVolume       = "RETROVOICE_UI_VOLUME" // 0-100
	EnvAmbience       = "RETROVOICE_AMBIENCE"
	EnvAmbienceVolume = "RETROVOICE_AMBIENCE_VOLUME" // 0-100
	EnvSoundPack      = "RETROVOICE_SOUND_PACK"
	EnvMusic          = "RETROVOICE_MUSIC"
	EnvMusicVolume    = "RETROVOICE_MUSIC_VOLUME" // 0-100
	EnvMood           = "RETROVOICE_MOOD"
	EnvTempo          = "RETROVOICE_TEMPO"
)

// LoadEnv overlays environment variables on base
// Unparseable values are ignored and the base value kept
func LoadEnv(base Settings) Settings {
	cfg := base

	if v := os.Getenv(EnvUISounds); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			cfg.Sound.UISoundsEnabled = val
		}
	}

	// UI volumes are percentages on the command line, fractions in settings
	if v := os.Getenv(EnvUIVolume); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			cfg.Sound.UIVolume = float64(val) / 100.0
		}
	}

	if v := os.Getenv(EnvAmbience); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			cfg.Sound.AmbienceEnabled = val
		}
	}

	if v := os.Getenv(EnvAmbienceVolume); v != "" {
		if val, err := strconv.Atoi(v); err == nil {
			cfg.Sound.AmbienceVolume = float64(val) / 100.0
		}
	}

	if v := os.Getenv(EnvSoundPack); v != "" {
		cfg.Sound.SoundPack = v
	}

	if v := os.Getenv(EnvMusic); v != "" {
		if val, err := strconv.ParseBool(v); err == nil {
			cfg.Music.Enabled = val
		}
	}

	if v := os.Getenv(EnvMusicVolume); v != "" {
		if val, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Music.Volume = val
		}
	}

	if v := os.Getenv(EnvMood); v != "" {
		if val, err := ParseMood(v); err == nil {
			cfg.Music.Mood = val
		}
	}

	if v := os.Getenv(EnvTempo); v != "" {
		if val, err := ParseTempo(v); err == nil {
			cfg.Music.Tempo = val
		}
	}

	return cfg
}
