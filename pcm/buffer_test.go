package pcm

import (
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

// TestBufferInvariant verifies Validate catches ragged channels
func TestBufferInvariant(t *testing.T) {
	buf := New(2, 10, 8000)
	if err := buf.Validate(); err != nil {
		t.Fatalf("New buffer invalid: %v", err)
	}
	buf.Channels[1] = buf.Channels[1][:5]
	if err := buf.Validate(); !errors.Is(err, ErrInvalidBuffer) {
		t.Errorf("Validate error = %v, want ErrInvalidBuffer", err)
	}
}

// TestBufferCloneIndependent verifies Clone does not share storage
func TestBufferCloneIndependent(t *testing.T) {
	buf := FromMono([]float32{0.1, 0.2}, 8000)
	c := buf.Clone()
	c.Channels[0][0] = 0.9
	if buf.Channels[0][0] != 0.1 {
		t.Error("Clone shares sample storage with original")
	}
}

// TestBufferDuration verifies frames to time conversion
func TestBufferDuration(t *testing.T) {
	buf := New(1, 12000, 24000)
	if got := buf.Duration(); got != 500*time.Millisecond {
		t.Errorf("Duration = %v, want 500ms", got)
	}
}

// TestBufferMono verifies channel averaging
func TestBufferMono(t *testing.T) {
	buf := New(2, 1, 8000)
	buf.Channels[0][0] = 1
	buf.Channels[1][0] = 0
	if got := buf.Mono()[0]; got != 0.5 {
		t.Errorf("Mono = %v, want 0.5", got)
	}
}

// TestStreamerMonoToStereo verifies duplication and seek for looping
func TestStreamerMonoToStereo(t *testing.T) {
	buf := FromMono([]float32{0.25, -0.5, 0.75}, 8000)
	st := buf.Streamer()

	samples := make([][2]float64, 8)
	n, ok := st.Stream(samples)
	if !ok || n != 3 {
		t.Fatalf("Stream = (%d, %v), want (3, true)", n, ok)
	}
	for i := 0; i < n; i++ {
		if samples[i][0] != samples[i][1] {
			t.Errorf("Frame %d not duplicated: %v", i, samples[i])
		}
	}
	if _, ok := st.Stream(samples); ok {
		t.Error("Expected drained streamer to report ok=false")
	}

	if err := st.Seek(1); err != nil {
		t.Fatalf("Seek failed: %v", err)
	}
	n, _ = st.Stream(samples[:1])
	if n != 1 || samples[0][0] != -0.5 {
		t.Errorf("After seek got %v, want -0.5", samples[0][0])
	}
	if err := st.Seek(10); err == nil {
		t.Error("Expected out of range seek to fail")
	}
}

// TestStreamerLoops verifies the buffer can back beep.Loop
func TestStreamerLoops(t *testing.T) {
	buf := FromMono([]float32{1, 2}, 8000)
	looped := beep.Loop(3, buf.Streamer())
	out, err := FromStreamer(looped, 8000, 10)
	if err != nil {
		t.Fatalf("FromStreamer failed: %v", err)
	}
	if out.Frames != 6 {
		t.Errorf("Looped frames = %d, want 6", out.Frames)
	}
}

type seekBuffer struct {
	data []byte
	pos  int
}

func (s *seekBuffer) Write(p []byte) (int, error) {
	if end := s.pos + len(p); end > len(s.data) {
		s.data = append(s.data, make([]byte, end-len(s.data))...)
	}
	copy(s.data[s.pos:], p)
	s.pos += len(p)
	return len(p), nil
}

func (s *seekBuffer) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		s.pos = int(offset)
	case io.SeekCurrent:
		s.pos += int(offset)
	case io.SeekEnd:
		s.pos = len(s.data) + int(offset)
	}
	return int64(s.pos), nil
}

// TestWriteWAVHeader verifies RIFF output with the buffer's format
func TestWriteWAVHeader(t *testing.T) {
	buf := FromMono(make([]float32, 100), 11025)
	w := &seekBuffer{}
	if err := WriteWAV(w, buf); err != nil {
		t.Fatalf("WriteWAV failed: %v", err)
	}
	if len(w.data) < 44 {
		t.Fatalf("Expected at least a WAV header, got %d bytes", len(w.data))
	}
	if string(w.data[0:4]) != "RIFF" || string(w.data[8:12]) != "WAVE" {
		t.Errorf("Missing RIFF/WAVE markers: %q", w.data[:12])
	}
	if rate := binary.LittleEndian.Uint32(w.data[24:28]); rate != 11025 {
		t.Errorf("Header sample rate = %d, want 11025", rate)
	}
}
