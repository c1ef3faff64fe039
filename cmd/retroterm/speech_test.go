package main

import (
	"slices"
	"testing"

	"github.com/lixenwraith/retrovoice/constant"
	"github.com/lixenwraith/retrovoice/pcm"
)

// TestSyllables verifies one vowel per vowel group
func TestSyllables(t *testing.T) {
	tests := []struct {
		word string
		want []rune
	}{
		{"hello", []rune{'e', 'o'}},
		{"Doctor", []rune{'o', 'o'}},
		{"queue", []rune{'u'}},
		{"rhythm", []rune{'y'}},
		{"psst", []rune{'e'}},
		{"...", nil},
	}
	for _, tt := range tests {
		if got := syllables(tt.word); !slices.Equal(got, tt.want) {
			t.Errorf("syllables(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

// TestSynthSpeechLength verifies the rendered PCM matches the timing table
func TestSynthSpeechLength(t *testing.T) {
	b64, err := synthSpeech("hello there.")
	if err != nil {
		t.Fatalf("synthSpeech failed: %v", err)
	}
	buf, err := pcm.DecodeBase64PCM(b64, constant.TTSSampleRate, constant.TTSChannels)
	if err != nil {
		t.Fatalf("DecodeBase64PCM failed: %v", err)
	}

	// hello: 2 syllables + word gap; there.: 2 syllables + sentence gap
	rate := constant.TTSSampleRate
	syl := int(syllableDuration.Seconds() * float64(rate))
	want := 4*syl + int(wordGap.Seconds()*float64(rate)) + int(sentenceGap.Seconds()*float64(rate))
	if got := buf.Frames; got != want {
		t.Errorf("frames = %d, want %d", got, want)
	}
	if buf.NumChannels() != 1 {
		t.Errorf("channels = %d, want 1", buf.NumChannels())
	}
	if p := buf.Peak(); p <= 0.1 || p > 1 {
		t.Errorf("peak = %v, want audible and unclipped", p)
	}
}

// TestSynthSpeechEmpty verifies blank text yields no audio
func TestSynthSpeechEmpty(t *testing.T) {
	b64, err := synthSpeech("   ")
	if err != nil || b64 != "" {
		t.Errorf("synthSpeech(blank) = %q, %v; want empty", b64, err)
	}
}

// TestWrap verifies transcript wrapping on word boundaries
func TestWrap(t *testing.T) {
	got := wrap("the quick brown fox", 9)
	want := []string{"the quick", "brown fox"}
	if !slices.Equal(got, want) {
		t.Errorf("wrap = %q, want %q", got, want)
	}
	got = wrap("abcdefghij", 4)
	want = []string{"abcd", "efgh", "ij"}
	if !slices.Equal(got, want) {
		t.Errorf("wrap long word = %q, want %q", got, want)
	}
}

// TestCycle verifies control cycling wraps and recovers from unknown values
func TestCycle(t *testing.T) {
	all := []string{"a", "b", "c"}
	if got := cycle(all, "c"); got != "a" {
		t.Errorf("cycle(c) = %q, want a", got)
	}
	if got := cycle(all, "zz"); got != "a" {
		t.Errorf("cycle(unknown) = %q, want a", got)
	}
}
