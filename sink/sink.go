// Package sink is the audio output boundary. A Sink owns one mixer; callers
// start voices on it and are told when each voice ends, either by running
// out of samples or by Stop.
package sink

import (
	"errors"

	"github.com/gopxl/beep"
)

// Sentinel errors
var (
	ErrClosed         = errors.New("audio sink closed")
	ErrNotInitialized = errors.New("audio sink not initialized")
	ErrDevice         = errors.New("audio device failure")
)

// State is the sink's run state
type State int32

const (
	Suspended State = iota
	Running
	Closed
)

func (s State) String() string {
	switch s {
	case Suspended:
		return "suspended"
	case Running:
		return "running"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Handle identifies a started voice; the zero Handle is never issued
type Handle uint64

// Sink is a mixing audio output
//
// onEnded passed to Start is invoked exactly once, when the voice drains or
// is stopped, or when the sink closes. It may run on the audio goroutine
// with the sink's internal lock held: it must not block and must not call
// back into the sink.
type Sink interface {
	SampleRate() beep.SampleRate
	State() State
	Resume() error
	Suspend() error
	Start(s beep.Streamer, onEnded func()) (Handle, error)
	Stop(h Handle)
	Close() error
}

// Ensure resumes a suspended sink; running sinks are left alone
func Ensure(s Sink) error {
	switch s.State() {
	case Running:
		return nil
	case Closed:
		return ErrClosed
	}
	return s.Resume()
}
