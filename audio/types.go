package audio

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lixenwraith/retrovoice/settings"
)

// Sentinel errors
var (
	ErrUnknownSoundPack = errors.New("unknown sound pack")
	ErrUnknownSoundKind = errors.New("unknown sound kind")
	ErrInvalidRate      = errors.New("playback rate must be positive")
	ErrEngineClosed     = errors.New("music engine destroyed")
)

// SoundKind identifies a UI sound effect
type SoundKind int

const (
	SoundKeypress SoundKind = iota
	SoundMessageSend
	SoundMessageReceive
	SoundError
	SoundSuccess
	SoundNotification
	SoundBootStart
	SoundBootComplete
	SoundDiskAccess
	soundKindCount

	// soundAmbience shares the cache but is never gated or played through PlaySound
	soundAmbience SoundKind = -1
)

var soundKindNames = [soundKindCount]string{
	SoundKeypress:       "keypress",
	SoundMessageSend:    "message-send",
	SoundMessageReceive: "message-receive",
	SoundError:          "error",
	SoundSuccess:        "success",
	SoundNotification:   "notification",
	SoundBootStart:      "boot-start",
	SoundBootComplete:   "boot-complete",
	SoundDiskAccess:     "disk-access",
}

func (k SoundKind) String() string {
	if k == soundAmbience {
		return "ambience"
	}
	if k < 0 || k >= soundKindCount {
		return fmt.Sprintf("SoundKind(%d)", int(k))
	}
	return soundKindNames[k]
}

// Valid reports whether k is a playable kind
func (k SoundKind) Valid() bool {
	return k >= 0 && k < soundKindCount
}

// SoundKinds returns every playable kind
func SoundKinds() []SoundKind {
	kinds := make([]SoundKind, soundKindCount)
	for i := range kinds {
		kinds[i] = SoundKind(i)
	}
	return kinds
}

// ParseSoundKind accepts names with dashes, underscores or no separator
func ParseSoundKind(s string) (SoundKind, error) {
	norm := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(s))
	for i, name := range soundKindNames {
		if strings.ReplaceAll(name, "-", "") == norm {
			return SoundKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownSoundKind, s)
}

// Category groups kinds under one settings gate
type Category int

const (
	CategoryKeyboard Category = iota
	CategorySystem
	CategoryBoot
)

// Category returns the gate that controls k
func (k SoundKind) Category() Category {
	switch k {
	case SoundKeypress:
		return CategoryKeyboard
	case SoundBootStart, SoundBootComplete, SoundDiskAccess:
		return CategoryBoot
	}
	return CategorySystem
}

// enabled applies the global and category gates
func enabled(s settings.Sound, k SoundKind) bool {
	if !s.UISoundsEnabled {
		return false
	}
	switch k.Category() {
	case CategoryKeyboard:
		return s.KeyboardClicks
	case CategoryBoot:
		return s.BootSounds
	}
	return s.SystemBeeps
}

// Waveform is an oscillator shape
type Waveform int

const (
	WaveSquare Waveform = iota
	WaveTriangle
	WaveNoise
	WaveSine
)

func (w Waveform) String() string {
	switch w {
	case WaveSquare:
		return "square"
	case WaveTriangle:
		return "triangle"
	case WaveNoise:
		return "noise"
	case WaveSine:
		return "sine"
	}
	return "unknown"
}
