package audio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/retrovoice/constant"
	"github.com/lixenwraith/retrovoice/dsp"
	"github.com/lixenwraith/retrovoice/pcm"
	"github.com/lixenwraith/retrovoice/sink"
)

// Effector plays speech buffers with live bit-crushing and time-scaling
// One Effector may run any number of concurrent Plays
type Effector struct {
	active   atomic.Int64
	released atomic.Int64
}

// NewEffector creates an effector
func NewEffector() *Effector {
	return &Effector{}
}

// Play streams buf into s and blocks until it finishes or ctx ends
// bitLevels 0 skips quantization; playbackRate scales pitch and duration together
func (e *Effector) Play(ctx context.Context, buf pcm.Buffer, s sink.Sink, bitLevels uint32, playbackRate float64) error {
	if !(playbackRate > 0) || math.IsInf(playbackRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRate, playbackRate)
	}
	if buf.Empty() {
		return nil
	}
	if err := buf.Validate(); err != nil {
		return err
	}
	if err := sink.Ensure(s); err != nil {
		return err
	}

	crusher := newBitCrusher(buf.Streamer(), bitLevels, constant.EffectorBlockFrames)
	var st beep.Streamer = crusher
	ratio := playbackRate * float64(buf.SampleRate) / float64(s.SampleRate())
	if ratio != 1 {
		st = beep.ResampleRatio(constant.ResampleQuality, ratio, crusher)
	}

	e.active.Add(1)
	done := make(chan struct{})
	h, err := s.Start(st, func() {
		crusher.release()
		e.active.Add(-1)
		e.released.Add(1)
		close(done)
	})
	if err != nil {
		crusher.release()
		e.active.Add(-1)
		e.released.Add(1)
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.Stop(h)
		return ctx.Err()
	}
}

// Active returns the number of plays holding block processors
func (e *Effector) Active() int {
	return int(e.active.Load())
}

// Released returns the number of block processors released so far
func (e *Effector) Released() int64 {
	return e.released.Load()
}

// bitCrusher quantizes its source one block at a time
type bitCrusher struct {
	src    beep.Streamer
	levels uint32

	mu    sync.Mutex
	block [][2]float64
	pos   int
	n     int
	done  bool
}

func newBitCrusher(src beep.Streamer, levels uint32, blockFrames int) *bitCrusher {
	return &bitCrusher{
		src:    src,
		levels: levels,
		block:  make([][2]float64, blockFrames),
	}
}

func (b *bitCrusher) Stream(samples [][2]float64) (int, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	filled := 0
	for filled < len(samples) {
		if b.pos >= b.n {
			if b.done || b.block == nil || !b.refill() {
				break
			}
		}
		c := copy(samples[filled:], b.block[b.pos:b.n])
		b.pos += c
		filled += c
	}
	if filled == 0 {
		return 0, false
	}
	return filled, true
}

// refill pulls and quantizes the next block; false when the source is drained
func (b *bitCrusher) refill() bool {
	n := 0
	for n < len(b.block) {
		got, ok := b.src.Stream(b.block[n:])
		n += got
		if !ok {
			b.done = true
			break
		}
	}
	if b.levels >= 2 {
		for i := 0; i < n; i++ {
			b.block[i][0] = dsp.QuantizeSample(b.block[i][0], b.levels)
			b.block[i][1] = dsp.QuantizeSample(b.block[i][1], b.levels)
		}
	}
	b.pos, b.n = 0, n
	return n > 0
}

func (b *bitCrusher) Err() error {
	return b.src.Err()
}

// release drops the block; later pulls report end of stream
func (b *bitCrusher) release() {
	b.mu.Lock()
	b.block = nil
	b.pos, b.n = 0, 0
	b.mu.Unlock()
}

// newVolume wraps s in a linear gain
// math.Log2(0) is -Inf, so we handle 0 volume by making it silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
