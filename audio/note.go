package audio

import (
	"math"

	"github.com/lixenwraith/retrovoice/parameter"
	"github.com/lixenwraith/retrovoice/settings"
)

// ScaleFor returns the semitone offsets used by mood
func ScaleFor(mood settings.Mood) []int {
	switch mood {
	case settings.MoodSad, settings.MoodTense:
		return parameter.ScaleNaturalMinor
	}
	return parameter.ScalePentatonicMajor
}

// degreeSemitone maps a scale-degree index to semitones, wrapping modulo the scale
func degreeSemitone(scale []int, degree int) int {
	n := len(scale)
	return scale[((degree%n)+n)%n]
}

// NoteFreq returns base·2^(semitone/12 + octave) in Hz
func NoteFreq(semitone, octave int) float64 {
	return parameter.MusicBaseFreq * math.Pow(2, float64(semitone)/12+float64(octave))
}

// TempoBPM returns the beats per minute for tempo; unknown tempos play at normal speed
func TempoBPM(t settings.Tempo) int {
	switch t {
	case settings.TempoSlow:
		return parameter.BPMSlow
	case settings.TempoFast:
		return parameter.BPMFast
	}
	return parameter.BPMNormal
}
