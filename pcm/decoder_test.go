package pcm

import (
	"encoding/base64"
	"errors"
	"testing"
)

// TestDecodeRejectsMalformed verifies non-alphabet input is an error, not a truncation
func TestDecodeRejectsMalformed(t *testing.T) {
	cases := []string{"@@@@", "AAA*", "not base64!"}
	for _, in := range cases {
		if _, err := Decode(in); !errors.Is(err, ErrInvalidEncoding) {
			t.Errorf("Decode(%q) error = %v, want ErrInvalidEncoding", in, err)
		}
	}
}

// TestDecodeAudioSampleValues verifies little-endian int16 scaling
func TestDecodeAudioSampleValues(t *testing.T) {
	// 0, 16384, -32768, 32767
	data := []byte{0x00, 0x00, 0x00, 0x40, 0x00, 0x80, 0xff, 0x7f}
	buf, err := DecodeAudio(data, 24000, 1)
	if err != nil {
		t.Fatalf("DecodeAudio failed: %v", err)
	}
	if buf.Frames != 4 {
		t.Fatalf("Expected 4 frames, got %d", buf.Frames)
	}
	want := []float32{0, 0.5, -1, 32767.0 / 32768.0}
	for i, w := range want {
		if got := buf.Channels[0][i]; got != w {
			t.Errorf("Sample %d = %v, want %v", i, got, w)
		}
	}
	if buf.SampleRate != 24000 {
		t.Errorf("SampleRate = %d, want 24000", buf.SampleRate)
	}
}

// TestDecodeAudioStereoDeinterleave verifies channel split
func TestDecodeAudioStereoDeinterleave(t *testing.T) {
	// L=16384 R=-16384, L=0 R=0
	data := []byte{0x00, 0x40, 0x00, 0xc0, 0x00, 0x00, 0x00, 0x00}
	buf, err := DecodeAudio(data, 44100, 2)
	if err != nil {
		t.Fatalf("DecodeAudio failed: %v", err)
	}
	if buf.Frames != 2 || buf.NumChannels() != 2 {
		t.Fatalf("Expected 2x2 buffer, got %d channels x %d frames", buf.NumChannels(), buf.Frames)
	}
	if buf.Channels[0][0] != 0.5 || buf.Channels[1][0] != -0.5 {
		t.Errorf("First frame = (%v, %v), want (0.5, -0.5)", buf.Channels[0][0], buf.Channels[1][0])
	}
}

// TestDecodeAudioInvalid verifies DecodeError cases
func TestDecodeAudioInvalid(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		channels uint16
	}{
		{"odd byte", []byte{0x00, 0x00, 0x01}, 1},
		{"partial frame", []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, 2},
		{"zero channels", []byte{0x00, 0x00}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeAudio(tt.data, 24000, tt.channels); !errors.Is(err, ErrInvalidPCM) {
				t.Errorf("DecodeAudio error = %v, want ErrInvalidPCM", err)
			}
		})
	}
}

// TestDecodeAudioEmpty verifies empty input yields an empty buffer
func TestDecodeAudioEmpty(t *testing.T) {
	buf, err := DecodeAudio(nil, 24000, 1)
	if err != nil {
		t.Fatalf("DecodeAudio(nil) failed: %v", err)
	}
	if buf.Frames != 0 || !buf.Empty() {
		t.Errorf("Expected empty buffer, got %d frames", buf.Frames)
	}
	if err := buf.Validate(); err != nil {
		t.Errorf("Empty buffer invalid: %v", err)
	}
}

// TestEncodeDecodeRoundTrip verifies every int16 value survives decode then encode
func TestEncodeDecodeRoundTrip(t *testing.T) {
	data := make([]byte, 0, 65536*2)
	for v := -32768; v <= 32767; v++ {
		u := uint16(int16(v))
		data = append(data, byte(u), byte(u>>8))
	}
	b64 := base64.StdEncoding.EncodeToString(data)

	buf, err := DecodeBase64PCM(b64, 24000, 1)
	if err != nil {
		t.Fatalf("DecodeBase64PCM failed: %v", err)
	}
	if got := EncodeBase64(buf); got != b64 {
		t.Error("Round trip changed payload")
	}
}

// TestEncodeClamps verifies out-of-range samples saturate
func TestEncodeClamps(t *testing.T) {
	buf := FromMono([]float32{2, -2}, 8000)
	out := Encode(buf)
	back, err := DecodeAudio(out, 8000, 1)
	if err != nil {
		t.Fatalf("DecodeAudio failed: %v", err)
	}
	if back.Channels[0][0] != 32767.0/32768.0 || back.Channels[0][1] != -1 {
		t.Errorf("Clamped samples = %v, want [%v -1]", back.Channels[0], 32767.0/32768.0)
	}
}
