package pcm

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
)

// Decode converts a base64 payload to raw bytes
// Malformed input fails with ErrInvalidEncoding; nothing is truncated
func Decode(b64 string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEncoding, err)
	}
	return data, nil
}

// DecodeAudio interprets data as little-endian signed 16-bit interleaved PCM
// Frame count is total samples divided by channels; an odd byte or partial frame is rejected
// Empty input yields a zero-frame buffer
func DecodeAudio(data []byte, sampleRate uint32, channels uint16) (Buffer, error) {
	if channels == 0 {
		return Buffer{}, fmt.Errorf("%w: zero channels", ErrInvalidPCM)
	}
	if sampleRate == 0 {
		return Buffer{}, fmt.Errorf("%w: zero sample rate", ErrInvalidPCM)
	}
	if len(data)%2 != 0 {
		return Buffer{}, fmt.Errorf("%w: odd byte count %d", ErrInvalidPCM, len(data))
	}

	total := len(data) / 2
	if total%int(channels) != 0 {
		return Buffer{}, fmt.Errorf("%w: %d samples is not a whole number of %d-channel frames", ErrInvalidPCM, total, channels)
	}
	frames := total / int(channels)
	buf := New(int(channels), frames, sampleRate)

	for f := 0; f < frames; f++ {
		for c := 0; c < int(channels); c++ {
			idx := (f*int(channels) + c) * 2
			s := int16(binary.LittleEndian.Uint16(data[idx : idx+2]))
			buf.Channels[c][f] = float32(s) / 32768.0
		}
	}
	return buf, nil
}

// DecodeBase64PCM runs Decode then DecodeAudio
func DecodeBase64PCM(b64 string, sampleRate uint32, channels uint16) (Buffer, error) {
	data, err := Decode(b64)
	if err != nil {
		return Buffer{}, err
	}
	return DecodeAudio(data, sampleRate, channels)
}

// Encode converts the buffer to little-endian signed 16-bit interleaved PCM
// Samples are clamped to [-1, 1] and rounded, so Encode inverts DecodeAudio exactly
func Encode(b Buffer) []byte {
	chs := len(b.Channels)
	out := make([]byte, b.Frames*chs*2)
	for f := 0; f < b.Frames; f++ {
		for c := 0; c < chs; c++ {
			idx := (f*chs + c) * 2
			binary.LittleEndian.PutUint16(out[idx:], uint16(toInt16(b.Channels[c][f])))
		}
	}
	return out
}

// EncodeBase64 returns the base64 form of Encode
func EncodeBase64(b Buffer) string {
	return base64.StdEncoding.EncodeToString(Encode(b))
}

func toInt16(s float32) int16 {
	v := math.Round(float64(s) * 32768.0)
	if v > math.MaxInt16 {
		v = math.MaxInt16
	} else if v < math.MinInt16 {
		v = math.MinInt16
	}
	return int16(v)
}
