package sink

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Speaker plays through the system audio device
// The beep speaker is process-wide, so only one Speaker may be open at a time
type Speaker struct {
	rate   beep.SampleRate
	voices *voiceTable
	state  atomic.Int32
	mu     sync.Mutex // Serializes lifecycle transitions
}

// NewSpeaker opens the device and starts the mixer in the Running state
func NewSpeaker(rate beep.SampleRate, buffer time.Duration) (*Speaker, error) {
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDevice, err)
	}

	mixer := &beep.Mixer{}
	sp := &Speaker{
		rate:   rate,
		voices: newVoiceTable(mixer, speaker.Lock, speaker.Unlock),
	}
	sp.state.Store(int32(Running))
	speaker.Play(mixer)
	return sp, nil
}

func (sp *Speaker) SampleRate() beep.SampleRate {
	return sp.rate
}

func (sp *Speaker) State() State {
	return State(sp.state.Load())
}

// Resume restarts a suspended device
func (sp *Speaker) Resume() error {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	switch sp.State() {
	case Running:
		return nil
	case Closed:
		return ErrClosed
	}
	if err := speaker.Resume(); err != nil {
		return fmt.Errorf("%w: resume: %v", ErrDevice, err)
	}
	sp.state.Store(int32(Running))
	return nil
}

// Suspend pauses the device; voices keep their position
func (sp *Speaker) Suspend() error {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	switch sp.State() {
	case Suspended:
		return nil
	case Closed:
		return ErrClosed
	}
	if err := speaker.Suspend(); err != nil {
		return fmt.Errorf("%w: suspend: %v", ErrDevice, err)
	}
	sp.state.Store(int32(Suspended))
	return nil
}

func (sp *Speaker) Start(s beep.Streamer, onEnded func()) (Handle, error) {
	if sp.State() == Closed {
		return 0, ErrClosed
	}
	return sp.voices.start(s, onEnded), nil
}

func (sp *Speaker) Stop(h Handle) {
	sp.voices.stop(h)
}

// Active returns the number of playing voices
func (sp *Speaker) Active() int {
	return sp.voices.active()
}

// Close stops all voices and releases the device; repeated calls are no-ops
func (sp *Speaker) Close() error {
	sp.mu.Lock()
	defer sp.mu.Unlock()

	if State(sp.state.Swap(int32(Closed))) == Closed {
		return nil
	}
	sp.voices.stopAll()
	speaker.Clear()
	speaker.Close()
	return nil
}
