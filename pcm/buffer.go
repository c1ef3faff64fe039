package pcm

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors
var (
	ErrInvalidEncoding = errors.New("invalid base64 encoding")
	ErrInvalidPCM      = errors.New("invalid pcm16 payload")
	ErrInvalidBuffer   = errors.New("invalid sample buffer")
)

// Buffer is multi-channel float audio at a fixed sample rate
// Every channel holds exactly Frames samples, nominally in [-1, 1]
// Transforms treat a Buffer as immutable and return a new one
type Buffer struct {
	Channels   [][]float32
	SampleRate uint32
	Frames     int
}

// New allocates a silent buffer
func New(channels, frames int, sampleRate uint32) Buffer {
	if channels < 0 {
		channels = 0
	}
	if frames < 0 {
		frames = 0
	}
	chs := make([][]float32, channels)
	for i := range chs {
		chs[i] = make([]float32, frames)
	}
	return Buffer{Channels: chs, SampleRate: sampleRate, Frames: frames}
}

// FromMono wraps a single channel, taking ownership of samples
func FromMono(samples []float32, sampleRate uint32) Buffer {
	return Buffer{
		Channels:   [][]float32{samples},
		SampleRate: sampleRate,
		Frames:     len(samples),
	}
}

// NumChannels returns the channel count
func (b Buffer) NumChannels() int {
	return len(b.Channels)
}

// Empty reports whether the buffer holds no frames
func (b Buffer) Empty() bool {
	return b.Frames == 0 || len(b.Channels) == 0
}

// Duration returns the playback length at the buffer's own rate
func (b Buffer) Duration() time.Duration {
	if b.SampleRate == 0 {
		return 0
	}
	return time.Duration(b.Frames) * time.Second / time.Duration(b.SampleRate)
}

// Clone returns a deep copy
func (b Buffer) Clone() Buffer {
	chs := make([][]float32, len(b.Channels))
	for i, ch := range b.Channels {
		chs[i] = append([]float32(nil), ch...)
	}
	return Buffer{Channels: chs, SampleRate: b.SampleRate, Frames: b.Frames}
}

// Validate checks the frame-count invariant
func (b Buffer) Validate() error {
	if b.Frames < 0 {
		return fmt.Errorf("%w: negative frame count %d", ErrInvalidBuffer, b.Frames)
	}
	if b.Frames > 0 && b.SampleRate == 0 {
		return fmt.Errorf("%w: zero sample rate", ErrInvalidBuffer)
	}
	for i, ch := range b.Channels {
		if len(ch) != b.Frames {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrInvalidBuffer, i, len(ch), b.Frames)
		}
	}
	return nil
}

// Mono returns the channel average as a new slice
func (b Buffer) Mono() []float32 {
	out := make([]float32, b.Frames)
	if len(b.Channels) == 0 {
		return out
	}
	if len(b.Channels) == 1 {
		copy(out, b.Channels[0])
		return out
	}
	scale := 1 / float32(len(b.Channels))
	for _, ch := range b.Channels {
		for i, s := range ch {
			out[i] += s * scale
		}
	}
	return out
}

// MapChannels applies fn to each channel and returns a buffer of the results
// fn must not retain or modify in; all returned channels must share one length
func (b Buffer) MapChannels(rate uint32, fn func(ch int, in []float32) []float32) Buffer {
	out := Buffer{Channels: make([][]float32, len(b.Channels)), SampleRate: rate}
	for i, ch := range b.Channels {
		out.Channels[i] = fn(i, ch)
	}
	if len(out.Channels) > 0 {
		out.Frames = len(out.Channels[0])
	}
	return out
}

// Peak returns the largest absolute sample across channels
func (b Buffer) Peak() float32 {
	var peak float32
	for _, ch := range b.Channels {
		for _, s := range ch {
			if s < 0 {
				s = -s
			}
			if s > peak {
				peak = s
			}
		}
	}
	return peak
}
