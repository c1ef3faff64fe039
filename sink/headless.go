package sink

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
)

// Headless is a device-free sink that renders its mix on demand
// It starts Suspended, the way browser audio contexts do, and only renders
// while Running. Rendered audio is written to out as 16-bit LE stereo when
// out is non-nil, otherwise discarded.
type Headless struct {
	rate   beep.SampleRate
	out    io.Writer
	voices *voiceTable
	state  atomic.Int32

	mu    sync.Mutex // Audio lock: guards mixer
	mixer *beep.Mixer

	pumpMu sync.Mutex // Serializes Pump: guards render buffers
	buf    [][2]float64
	bytes  []byte

	rendered atomic.Int64
	errChan  chan error
}

// NewHeadless creates a suspended headless sink
func NewHeadless(rate beep.SampleRate, out io.Writer) *Headless {
	h := &Headless{
		rate:    rate,
		out:     out,
		mixer:   &beep.Mixer{},
		errChan: make(chan error, 1),
	}
	h.voices = newVoiceTable(h.mixer, h.mu.Lock, h.mu.Unlock)
	h.state.Store(int32(Suspended))
	return h
}

func (h *Headless) SampleRate() beep.SampleRate {
	return h.rate
}

func (h *Headless) State() State {
	return State(h.state.Load())
}

func (h *Headless) Resume() error {
	if h.state.CompareAndSwap(int32(Suspended), int32(Running)) || h.State() == Running {
		return nil
	}
	return ErrClosed
}

func (h *Headless) Suspend() error {
	if h.state.CompareAndSwap(int32(Running), int32(Suspended)) || h.State() == Suspended {
		return nil
	}
	return ErrClosed
}

func (h *Headless) Start(s beep.Streamer, onEnded func()) (Handle, error) {
	if h.State() == Closed {
		return 0, ErrClosed
	}
	return h.voices.start(s, onEnded), nil
}

func (h *Headless) Stop(handle Handle) {
	h.voices.stop(handle)
}

// Active returns the number of playing voices
func (h *Headless) Active() int {
	return h.voices.active()
}

// Rendered returns the total frames pulled from the mixer
func (h *Headless) Rendered() int64 {
	return h.rendered.Load()
}

// Errors returns the channel carrying the writer failure that ended Run
func (h *Headless) Errors() <-chan error {
	return h.errChan
}

// Pump renders frames of audio if the sink is running and returns the count rendered
// Voices that drain during the pull have their onEnded called before Pump returns
func (h *Headless) Pump(frames int) (int, error) {
	if frames <= 0 {
		return 0, nil
	}
	switch h.State() {
	case Closed:
		return 0, ErrClosed
	case Suspended:
		return 0, nil
	}

	h.pumpMu.Lock()
	defer h.pumpMu.Unlock()

	h.mu.Lock()
	if cap(h.buf) < frames {
		h.buf = make([][2]float64, frames)
		h.bytes = make([]byte, frames*4)
	}
	buf := h.buf[:frames]
	for i := range buf {
		buf[i] = [2]float64{}
	}
	h.mixer.Stream(buf)
	var out []byte
	if h.out != nil {
		out = h.bytes[:frames*4]
		floatToBytes(buf, out)
	}
	h.mu.Unlock()

	h.rendered.Add(int64(frames))
	if out != nil {
		if _, err := h.out.Write(out); err != nil {
			return frames, fmt.Errorf("%w: %v", ErrDevice, err)
		}
	}
	return frames, nil
}

// Run pumps one period of audio per tick until ctx ends, the sink closes, or the writer fails
func (h *Headless) Run(ctx context.Context, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	frames := h.rate.N(period)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := h.Pump(frames); err != nil {
				if errors.Is(err, ErrClosed) {
					return nil
				}
				select {
				case h.errChan <- err:
				default:
				}
				return err
			}
		}
	}
}

// Close stops all voices; repeated calls are no-ops
func (h *Headless) Close() error {
	if State(h.state.Swap(int32(Closed))) == Closed {
		return nil
	}
	h.voices.stopAll()
	return nil
}

// floatToBytes converts stereo float frames to interleaved int16 LE bytes
// Applies soft limiting before hard clip
func floatToBytes(in [][2]float64, out []byte) {
	for i, frame := range in {
		for c, v := range frame {
			if v > 0.8 {
				v = 0.8 + 0.2*(1.0-1.0/(1.0+(v-0.8)*5.0))
			} else if v < -0.8 {
				v = -0.8 - 0.2*(1.0-1.0/(1.0+(-v-0.8)*5.0))
			}

			if v > 1.0 {
				v = 1.0
			} else if v < -1.0 {
				v = -1.0
			}

			binary.LittleEndian.PutUint16(out[i*4+c*2:], uint16(int16(v*32767)))
		}
	}
}
