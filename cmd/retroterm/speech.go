package main

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/lixenwraith/retrovoice/constant"
	"github.com/lixenwraith/retrovoice/pcm"
)

// Robot voice timing
const (
	syllableDuration = 140 * time.Millisecond
	wordGap          = 60 * time.Millisecond
	sentenceGap      = 220 * time.Millisecond
	voicePitch       = 118.0 // Hz, fundamental at sentence start
	pitchDeclination = 0.97  // per word
)

// formants holds F1/F2 per vowel, Hz
var formants = map[rune][2]float64{
	'a': {730, 1090},
	'e': {530, 1840},
	'i': {270, 2290},
	'o': {570, 840},
	'u': {300, 870},
	'y': {270, 2290},
}

// synthSpeech stands in for the TTS collaborator
// Returns base64 PCM16 mono at the TTS rate, one buzzy vowel per syllable
func synthSpeech(text string) (string, error) {
	sr := beep.SampleRate(constant.TTSSampleRate)
	var parts []beep.Streamer
	total := 0
	add := func(s beep.Streamer, n int) {
		parts = append(parts, s)
		total += n
	}

	pitch := voicePitch
	for _, word := range strings.Fields(text) {
		vowels := syllables(word)
		for _, v := range vowels {
			syl, err := vowel(sr, pitch, formants[v])
			if err != nil {
				return "", err
			}
			n := sr.N(syllableDuration)
			add(beep.Take(n, syl), n)
		}
		gap := wordGap
		if strings.ContainsAny(word, ".?!") {
			gap = sentenceGap
			pitch = voicePitch
		} else {
			pitch *= pitchDeclination
		}
		n := sr.N(gap)
		add(beep.Silence(n), n)
	}
	if total == 0 {
		return "", nil
	}

	buf, err := pcm.FromStreamer(beep.Seq(parts...), constant.TTSSampleRate, total)
	if err != nil {
		return "", err
	}
	return pcm.EncodeBase64(pcm.FromMono(buf.Mono(), constant.TTSSampleRate)), nil
}

// syllables returns one vowel per vowel group; words without vowels get a schwa
func syllables(word string) []rune {
	var out []rune
	prevVowel := false
	for _, r := range strings.ToLower(word) {
		_, isVowel := formants[r]
		if isVowel && !prevVowel {
			out = append(out, r)
		}
		prevVowel = isVowel
	}
	if len(out) == 0 && strings.IndexFunc(word, unicode.IsLetter) >= 0 {
		out = append(out, 'e')
	}
	return out
}

// vowel mixes the fundamental with two formant partials
func vowel(sr beep.SampleRate, pitch float64, f [2]float64) (beep.Streamer, error) {
	f0, err := generators.SineTone(sr, pitch)
	if err != nil {
		return nil, fmt.Errorf("fundamental: %w", err)
	}
	f1, err := generators.SineTone(sr, f[0])
	if err != nil {
		return nil, fmt.Errorf("formant 1: %w", err)
	}
	f2, err := generators.SineTone(sr, f[1])
	if err != nil {
		return nil, fmt.Errorf("formant 2: %w", err)
	}
	return beep.Mix(
		&effects.Gain{Streamer: f0, Gain: 0.45 - 1},
		&effects.Gain{Streamer: f1, Gain: 0.25 - 1},
		&effects.Gain{Streamer: f2, Gain: 0.12 - 1},
	), nil
}
