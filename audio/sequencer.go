package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/retrovoice/parameter"
	"github.com/lixenwraith/retrovoice/pcm"
	"github.com/lixenwraith/retrovoice/settings"
	"github.com/lixenwraith/retrovoice/sink"
)

// Layer is one voice of the music arrangement
type Layer int

const (
	LayerBass Layer = iota
	LayerLead
	LayerArp
)

func (l Layer) String() string {
	switch l {
	case LayerBass:
		return "bass"
	case LayerLead:
		return "lead"
	case LayerArp:
		return "arp"
	}
	return "unknown"
}

// MusicState is a snapshot of the engine
type MusicState struct {
	Beat     uint16 // 0..15 within the 4-bar cycle
	Playing  bool
	Settings settings.Music
}

// NoteEvent describes one note triggered by a tick
type NoteEvent struct {
	Layer    Layer
	Beat     uint16
	Semitone int
	Octave   int
	Freq     float64
	Duration time.Duration
	Gain     float64
}

// MusicEngine generates looping background chiptune from the beat counter
type MusicEngine struct {
	sink  sink.Sink
	sched Scheduler

	mu        sync.Mutex
	state     MusicState
	timer     Timer
	gen       uint64 // bumped whenever timer is replaced, stale ticks are dropped
	session   uint64 // bumped on every stop, notes of an older session are cut
	destroyed bool
	onNote    func(NoteEvent)

	// vmu guards voices; voice callbacks take only vmu
	vmu    sync.Mutex
	voices map[sink.Handle]struct{}
}

// NewMusicEngine creates a stopped engine
func NewMusicEngine(s sink.Sink, sched Scheduler, cfg settings.Music) *MusicEngine {
	if sched == nil {
		sched = TickerScheduler{}
	}
	return &MusicEngine{
		sink:   s,
		sched:  sched,
		state:  MusicState{Settings: cfg},
		voices: make(map[sink.Handle]struct{}),
	}
}

// BeatPeriod returns 60000/bpm milliseconds for tempo
func BeatPeriod(t settings.Tempo) time.Duration {
	return time.Minute / time.Duration(TempoBPM(t))
}

// Start begins playback from beat 0
// No-op when already playing or when music is disabled in settings
func (e *MusicEngine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.destroyed {
		return ErrEngineClosed
	}
	if e.state.Playing || !e.state.Settings.Enabled {
		return nil
	}
	if err := sink.Ensure(e.sink); err != nil {
		return err
	}
	e.state.Playing = true
	e.state.Beat = 0
	e.scheduleLocked()
	return nil
}

// Stop halts playback and resets the beat; no-op when stopped
func (e *MusicEngine) Stop() {
	e.mu.Lock()
	wasPlaying := e.stopLocked()
	e.mu.Unlock()

	if wasPlaying {
		e.silence()
	}
}

// Destroy stops the engine for good; later Starts fail with ErrEngineClosed
func (e *MusicEngine) Destroy() {
	e.mu.Lock()
	e.stopLocked()
	e.destroyed = true
	e.onNote = nil
	e.mu.Unlock()

	e.silence()
}

// State returns a snapshot
func (e *MusicEngine) State() MusicState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// OnNote registers fn to observe every triggered note; nil removes it
// fn runs on the tick goroutine
func (e *MusicEngine) OnNote(fn func(NoteEvent)) {
	e.mu.Lock()
	e.onNote = fn
	e.mu.Unlock()
}

// UpdateSettings applies p; a tempo change while playing reschedules,
// disabling stops
func (e *MusicEngine) UpdateSettings(p settings.MusicPatch) error {
	e.mu.Lock()

	next := p.Apply(e.state.Settings)
	if err := next.Validate(); err != nil {
		e.mu.Unlock()
		return err
	}
	prev := e.state.Settings
	e.state.Settings = next

	stopped := false
	switch {
	case !e.state.Playing:
	case !next.Enabled:
		stopped = e.stopLocked()
	case next.Tempo != prev.Tempo:
		e.scheduleLocked()
	}
	e.mu.Unlock()

	if stopped {
		e.silence()
	}
	return nil
}

// Tick triggers the notes of the current beat and advances it
// Exported so tests and hosts can drive the engine without a clock
func (e *MusicEngine) Tick() {
	e.tick(0, false)
}

// tickGen is the scheduled tick; gen is checked under the same lock that
// advances the beat, so a tick of a replaced timer never counts
func (e *MusicEngine) tickGen(gen uint64) {
	e.tick(gen, true)
}

func (e *MusicEngine) tick(gen uint64, scheduled bool) {
	e.mu.Lock()
	if !e.state.Playing || (scheduled && gen != e.gen) {
		e.mu.Unlock()
		return
	}
	events := e.notesLocked()
	e.state.Beat = (e.state.Beat + 1) % parameter.BeatsPerCycle
	master := e.state.Settings.Volume / 100 * parameter.MusicMasterGain
	observer := e.onNote
	session := e.session
	e.mu.Unlock()

	if observer != nil {
		for _, ev := range events {
			observer(ev)
		}
	}
	e.play(events, master, session)
}

// current reports whether session is still the playing one
func (e *MusicEngine) current(session uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Playing && e.session == session
}

// scheduleLocked replaces the timer; the old one is stopped first
func (e *MusicEngine) scheduleLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	gen := e.gen
	e.timer = e.sched.Every(BeatPeriod(e.state.Settings.Tempo), func() { e.tickGen(gen) })
}

func (e *MusicEngine) stopLocked() bool {
	if !e.state.Playing {
		return false
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.gen++
	e.session++
	e.state.Playing = false
	e.state.Beat = 0
	return true
}

// notesLocked computes the notes of the current beat
func (e *MusicEngine) notesLocked() []NoteEvent {
	beat := e.state.Beat
	bar := int(beat) / parameter.BeatsPerBar
	inBar := int(beat) % parameter.BeatsPerBar
	scale := ScaleFor(e.state.Settings.Mood)
	period := BeatPeriod(e.state.Settings.Tempo)

	note := func(layer Layer, degree, octave int, beats, gain float64) NoteEvent {
		semi := degreeSemitone(scale, degree)
		return NoteEvent{
			Layer:    layer,
			Beat:     beat,
			Semitone: semi,
			Octave:   octave,
			Freq:     NoteFreq(semi, octave),
			Duration: time.Duration(beats * float64(period)),
			Gain:     gain,
		}
	}

	events := make([]NoteEvent, 0, 3)
	if inBar%2 == 0 {
		events = append(events, note(LayerBass, parameter.BassPattern[bar][inBar/2],
			parameter.BassOctave, parameter.BassNoteBeats, parameter.BassGain))
	}
	events = append(events, note(LayerLead, parameter.LeadPattern[bar][inBar],
		parameter.LeadOctave, parameter.LeadNoteBeats, parameter.LeadGain))
	if beat%2 == 1 {
		arp := parameter.ArpPattern[(int(beat)/2)%len(parameter.ArpPattern)]
		events = append(events, note(LayerArp, arp,
			parameter.ArpOctave, parameter.ArpNoteBeats, parameter.ArpGain))
	}
	return events
}

// layerWaves gives each layer its timbre
var layerWaves = [...]Waveform{
	LayerBass: WaveTriangle,
	LayerLead: WaveSquare,
	LayerArp:  WaveSquare,
}

// play mixes the beat's notes into one voice on the sink
// A Stop that lands while the voice is being started cuts it here: the voice
// is registered before the session check, so either silence sees it or we do
func (e *MusicEngine) play(events []NoteEvent, master float64, session uint64) {
	if len(events) == 0 || master <= 0 {
		return
	}
	rate := float64(e.sink.SampleRate())
	layers := make([]beep.Streamer, 0, len(events))
	for _, ev := range events {
		samples := renderTone(Tone{
			Wave:      layerWaves[ev.Layer],
			StartFreq: ev.Freq,
			Duration:  ev.Duration,
			Amplitude: 1,
		}, rate, nil)
		layers = append(layers, newVolume(pcm.FromMono(samples, uint32(rate)).Streamer(), ev.Gain))
	}

	v := &musicVoice{}
	h, err := e.sink.Start(newVolume(beep.Mix(layers...), master), func() {
		e.vmu.Lock()
		v.ended = true
		if v.handle != 0 {
			delete(e.voices, v.handle)
		}
		e.vmu.Unlock()
	})
	if err != nil {
		return
	}
	e.vmu.Lock()
	if !v.ended {
		v.handle = h
		e.voices[h] = struct{}{}
	}
	e.vmu.Unlock()

	if !e.current(session) {
		e.sink.Stop(h)
	}
}

type musicVoice struct {
	handle sink.Handle
	ended  bool
}

// silence stops every sounding note
func (e *MusicEngine) silence() {
	e.vmu.Lock()
	handles := make([]sink.Handle, 0, len(e.voices))
	for h := range e.voices {
		handles = append(handles, h)
	}
	e.vmu.Unlock()

	for _, h := range handles {
		e.sink.Stop(h)
	}
}
