package pcm

import (
	"fmt"
	"io"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
)

// bufferStreamer plays a Buffer as stereo beep samples
// Mono is duplicated to both sides, extra channels beyond two are ignored
type bufferStreamer struct {
	left, right []float32
	pos         int
}

// Streamer returns a seekable stereo view over the buffer
// Buffer samples are shared, not copied
func (b Buffer) Streamer() beep.StreamSeeker {
	s := &bufferStreamer{}
	switch len(b.Channels) {
	case 0:
	case 1:
		s.left, s.right = b.Channels[0], b.Channels[0]
	default:
		s.left, s.right = b.Channels[0], b.Channels[1]
	}
	return s
}

func (s *bufferStreamer) Stream(samples [][2]float64) (int, bool) {
	if s.pos >= len(s.left) {
		return 0, false
	}
	n := copy2(samples, s.left[s.pos:], s.right[s.pos:])
	s.pos += n
	return n, true
}

func copy2(dst [][2]float64, left, right []float32) int {
	n := len(dst)
	if len(left) < n {
		n = len(left)
	}
	for i := 0; i < n; i++ {
		dst[i][0] = float64(left[i])
		dst[i][1] = float64(right[i])
	}
	return n
}

func (s *bufferStreamer) Err() error    { return nil }
func (s *bufferStreamer) Len() int      { return len(s.left) }
func (s *bufferStreamer) Position() int { return s.pos }

func (s *bufferStreamer) Seek(p int) error {
	if p < 0 || p > len(s.left) {
		return fmt.Errorf("seek position %d out of range [0, %d]", p, len(s.left))
	}
	s.pos = p
	return nil
}

// Format returns the beep format used when encoding the buffer
func (b Buffer) Format() beep.Format {
	channels := len(b.Channels)
	if channels > 2 {
		channels = 2
	}
	if channels == 0 {
		channels = 1
	}
	return beep.Format{
		SampleRate:  beep.SampleRate(b.SampleRate),
		NumChannels: channels,
		Precision:   2,
	}
}

// WriteWAV encodes the buffer as a 16-bit WAV file
func WriteWAV(w io.WriteSeeker, b Buffer) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := wav.Encode(w, b.Streamer(), b.Format()); err != nil {
		return fmt.Errorf("encode wav: %w", err)
	}
	return nil
}

// FromStreamer drains up to frames samples from s into a new buffer
// Stereo input is kept as two channels; the result may be shorter if s ends early
func FromStreamer(s beep.Streamer, sampleRate uint32, frames int) (Buffer, error) {
	buf := New(2, frames, sampleRate)
	tmp := make([][2]float64, 512)
	filled := 0
	for filled < frames {
		want := frames - filled
		if want > len(tmp) {
			want = len(tmp)
		}
		n, ok := s.Stream(tmp[:want])
		for i := 0; i < n; i++ {
			buf.Channels[0][filled+i] = float32(tmp[i][0])
			buf.Channels[1][filled+i] = float32(tmp[i][1])
		}
		filled += n
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return Buffer{}, fmt.Errorf("drain streamer: %w", err)
	}
	buf.Channels[0] = buf.Channels[0][:filled]
	buf.Channels[1] = buf.Channels[1][:filled]
	buf.Frames = filled
	return buf, nil
}
