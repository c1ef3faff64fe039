// Package settings holds user-facing sound and music preferences.
//
// Values are stored exactly as given, including out-of-range volumes;
// consumers clamp at the point of use so settings round-trip through a
// store unchanged.
package settings

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors
var (
	ErrUnknownMood  = errors.New("unknown music mood")
	ErrUnknownTempo = errors.New("unknown music tempo")
)

// Mood selects the music scale and root
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodNeutral Mood = "neutral"
	MoodSad     Mood = "sad"
	MoodTense   Mood = "tense"
)

// Moods returns every mood in cycle order
func Moods() []Mood {
	return []Mood{MoodHappy, MoodNeutral, MoodSad, MoodTense}
}

func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodNeutral, MoodSad, MoodTense:
		return true
	}
	return false
}

// ParseMood is case-insensitive
func ParseMood(s string) (Mood, error) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMood, s)
	}
	return m, nil
}

// Tempo selects the beat period
type Tempo string

const (
	TempoSlow   Tempo = "slow"
	TempoNormal Tempo = "normal"
	TempoFast   Tempo = "fast"
)

// Tempos returns every tempo in cycle order
func Tempos() []Tempo {
	return []Tempo{TempoSlow, TempoNormal, TempoFast}
}

func (t Tempo) Valid() bool {
	switch t {
	case TempoSlow, TempoNormal, TempoFast:
		return true
	}
	return false
}

// ParseTempo is case-insensitive
func ParseTempo(s string) (Tempo, error) {
	t := Tempo(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTempo, s)
	}
	return t, nil
}

// Sound controls UI sound effects and ambience
type Sound struct {
	UISoundsEnabled bool    `json:"ui_sounds_enabled"`
	UIVolume        float64 `json:"ui_volume"` // 0-1
	AmbienceEnabled bool    `json:"ambience_enabled"`
	AmbienceVolume  float64 `json:"ambience_volume"` // 0-1
	SoundPack       string  `json:"sound_pack"`

	// Category gates
	KeyboardClicks bool `json:"keyboard_clicks"`
	SystemBeeps    bool `json:"system_beeps"`
	BootSounds     bool `json:"boot_sounds"`
}

// Music controls the background chiptune engine
type Music struct {
	Enabled bool    `json:"enabled"`
	Volume  float64 `json:"volume"` // 0-100
	Mood    Mood    `json:"mood"`
	Tempo   Tempo   `json:"tempo"`
}

// Validate rejects unknown enumerations
func (m Music) Validate() error {
	if !m.Mood.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownMood, m.Mood)
	}
	if !m.Tempo.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTempo, m.Tempo)
	}
	return nil
}

// Settings is the persisted document
type Settings struct {
	Sound Sound `json:"sound"`
	Music Music `json:"music"`
}

// Defaults returns factory settings
func Defaults() Settings {
	return Settings{
		Sound: Sound{
			UISoundsEnabled: true,
			UIVolume:        0.5,
			AmbienceEnabled: false,
			AmbienceVolume:  0.3,
			SoundPack:       "classic",
			KeyboardClicks:  true,
			SystemBeeps:     true,
			BootSounds:      true,
		},
		Music: Music{
			Enabled: false,
			Volume:  50,
			Mood:    MoodNeutral,
			Tempo:   TempoNormal,
		},
	}
}
