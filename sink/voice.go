package sink

import (
	"sync"

	"github.com/gopxl/beep"
)

// voice is one playing streamer
type voice struct {
	ctrl    *beep.Ctrl
	once    sync.Once
	onEnded func()
}

func (v *voice) finish() {
	v.once.Do(func() {
		if v.onEnded != nil {
			v.onEnded()
		}
	})
}

// voiceTable tracks voices on a beep.Mixer
// lock/unlock guard the mixer against the goroutine pulling samples
// Lock order: audio lock may be held when taking mu, never the reverse
type voiceTable struct {
	mixer  *beep.Mixer
	lock   func()
	unlock func()

	mu     sync.Mutex
	next   Handle
	voices map[Handle]*voice
}

func newVoiceTable(mixer *beep.Mixer, lock, unlock func()) *voiceTable {
	return &voiceTable{
		mixer:  mixer,
		lock:   lock,
		unlock: unlock,
		voices: make(map[Handle]*voice),
	}
}

// start registers the voice first so a fast drain always finds it
func (t *voiceTable) start(s beep.Streamer, onEnded func()) Handle {
	v := &voice{
		ctrl:    &beep.Ctrl{Streamer: s},
		onEnded: onEnded,
	}

	t.mu.Lock()
	t.next++
	h := t.next
	t.voices[h] = v
	t.mu.Unlock()

	done := beep.Callback(func() {
		t.remove(h)
		v.finish()
	})

	t.lock()
	t.mixer.Add(beep.Seq(v.ctrl, done))
	t.unlock()
	return h
}

func (t *voiceTable) remove(h Handle) *voice {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.voices[h]
	if !ok {
		return nil
	}
	delete(t.voices, h)
	return v
}

// stop silences the voice at once; the mixer drops it on its next pull
func (t *voiceTable) stop(h Handle) {
	v := t.remove(h)
	if v == nil {
		return
	}
	t.lock()
	v.ctrl.Streamer = nil
	t.unlock()
	v.finish()
}

// stopAll silences every voice and clears the mixer
func (t *voiceTable) stopAll() {
	t.mu.Lock()
	voices := make([]*voice, 0, len(t.voices))
	for h, v := range t.voices {
		voices = append(voices, v)
		delete(t.voices, h)
	}
	t.mu.Unlock()

	t.lock()
	for _, v := range voices {
		v.ctrl.Streamer = nil
	}
	t.mixer.Clear()
	t.unlock()

	for _, v := range voices {
		v.finish()
	}
}

// active returns the number of unfinished voices
func (t *voiceTable) active() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.voices)
}
