package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/retrovoice/audio"
	"github.com/lixenwraith/retrovoice/constant"
	"github.com/lixenwraith/retrovoice/pcm"
	"github.com/lixenwraith/retrovoice/service"
	"github.com/lixenwraith/retrovoice/settings"
	"github.com/lixenwraith/retrovoice/sink"
	"github.com/lixenwraith/retrovoice/vintage"
)

const (
	redrawInterval = 100 * time.Millisecond
	speechQueueLen = 8
	maxTranscript  = 500
)

var (
	styleBase   = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorSilver)
	styleTitle  = tcell.StyleDefault.Background(tcell.ColorNavy).Foreground(tcell.ColorWhite).Bold(true)
	styleYou    = styleBase.Foreground(tcell.ColorGreen)
	styleDoctor = styleBase.Foreground(tcell.ColorYellow)
	styleSystem = styleBase.Foreground(tcell.ColorGray)
	styleStatus = tcell.StyleDefault.Background(tcell.ColorTeal).Foreground(tcell.ColorBlack)
)

type chatLine struct {
	text  string
	style tcell.Style
}

// app is the chat room: transcript, input line and audio controls
type app struct {
	screen   tcell.Screen
	sounds   *audio.SoundGenerator
	effector *audio.Effector
	music    *audio.MusicEngine
	settings *settings.Manager
	out      sink.Sink
	doctor   *therapist
	rng      *rand.Rand // speech goroutine only
	degraded bool
	backend  string

	mu       sync.Mutex
	lines    []chatLine
	input    []rune
	level    vintage.Level
	live     bool
	lastNote string

	speech chan string
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newApp(screen tcell.Screen, stack *service.Stack, level vintage.Level, live bool, seed int64, name string) *app {
	ctx, cancel := context.WithCancel(context.Background())
	a := &app{
		screen:   screen,
		sounds:   stack.Sounds.Generator(),
		effector: stack.Sounds.Effector(),
		music:    stack.Music.Engine(),
		settings: stack.Settings.Manager(),
		out:      stack.Sink.Sink(),
		doctor:   newTherapist(name),
		rng:      rand.New(rand.NewSource(seed)),
		degraded: stack.Sink.Degraded(),
		backend:  stack.Sink.Backend(),
		level:    level,
		live:     live,
		speech:   make(chan string, speechQueueLen),
		ctx:      ctx,
		cancel:   cancel,
	}
	a.music.OnNote(func(ev audio.NoteEvent) {
		if ev.Layer != audio.LayerLead {
			return
		}
		a.mu.Lock()
		a.lastNote = fmt.Sprintf("♪%.0fHz", ev.Freq)
		a.mu.Unlock()
	})
	return a
}

func (a *app) run() {
	a.wg.Add(2)
	go a.speechWorker()
	go a.boot()

	ticker := time.NewTicker(redrawInterval)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				close(eventChan)
				return
			}
			eventChan <- ev
		}
	}()

	a.draw()
	for {
		select {
		case ev, ok := <-eventChan:
			if !ok || !a.handleInput(ev) {
				return
			}
			a.draw()
		case <-ticker.C:
			a.draw()
		}
	}
}

// shutdown cancels pending audio and waits for workers
func (a *app) shutdown() {
	a.cancel()
	a.wg.Wait()
	a.music.OnNote(nil)
}

// boot plays the power-on sequence and queues the greeting
func (a *app) boot() {
	defer a.wg.Done()
	if a.degraded {
		a.addLine("NO SOUND DEVICE FOUND, RUNNING SILENT.", styleSystem)
	}
	a.addLine("SOUND BLASTER PRO DETECTED AT A220 I5 D1", styleSystem)
	for _, kind := range []audio.SoundKind{audio.SoundBootStart, audio.SoundDiskAccess, audio.SoundBootComplete} {
		if !a.playSound(kind) {
			return
		}
	}
	a.say(a.doctor.greeting())
}

// playSound plays kind and waits; false once the app is shutting down
func (a *app) playSound(kind audio.SoundKind) bool {
	err := a.sounds.PlaySound(a.ctx, kind, 1)
	switch {
	case errors.Is(err, context.Canceled):
		return false
	case err != nil:
		log.Printf("play %s: %v", kind, err)
	}
	return true
}

// click plays kind without waiting
func (a *app) click(kind audio.SoundKind) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.playSound(kind)
	}()
}

// say queues a doctor line; dropped when the queue is full
func (a *app) say(text string) {
	select {
	case a.speech <- text:
	default:
		log.Printf("speech queue full, dropping %q", text)
	}
}

func (a *app) speechWorker() {
	defer a.wg.Done()
	for {
		select {
		case <-a.ctx.Done():
			return
		case text := <-a.speech:
			if !a.playSound(audio.SoundMessageReceive) {
				return
			}
			a.addLine("DOCTOR: "+text, styleDoctor)
			if err := a.speak(text); err != nil {
				if errors.Is(err, context.Canceled) {
					return
				}
				log.Printf("speak: %v", err)
				a.playSound(audio.SoundError)
			}
		}
	}
}

// speak synthesizes text and plays it through the vintage chain
// Live mode skips offline processing and bit-crushes during playback instead
func (a *app) speak(text string) error {
	b64, err := synthSpeech(text)
	if err != nil || b64 == "" {
		return err
	}

	a.mu.Lock()
	level, live := a.level, a.live
	a.mu.Unlock()
	cfg := vintage.MustPreset(level)

	if live {
		buf, err := pcm.DecodeBase64PCM(b64, constant.TTSSampleRate, constant.TTSChannels)
		if err != nil {
			return err
		}
		var bits uint32
		if cfg.QuantizationLevels < constant.LosslessLevels {
			bits = cfg.QuantizationLevels
		}
		return a.effector.Play(a.ctx, buf, a.out, bits, cfg.PlaybackRate)
	}

	start := time.Now()
	buf, err := vintage.ProcessBase64(b64, level, a.rng)
	if err != nil {
		return err
	}
	log.Printf("vintage %s: %v in %v", level, vintage.Stages(cfg, constant.TTSSampleRate), time.Since(start))
	return a.effector.Play(a.ctx, buf, a.out, 0, cfg.PlaybackRate)
}

func (a *app) addLine(text string, style tcell.Style) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lines = append(a.lines, chatLine{text: text, style: style})
	if len(a.lines) > maxTranscript {
		a.lines = a.lines[len(a.lines)-maxTranscript:]
	}
}

// handleInput returns false to quit
func (a *app) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyEnter:
			a.submit()
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			a.mu.Lock()
			if n := len(a.input); n > 0 {
				a.input = a.input[:n-1]
			}
			a.mu.Unlock()
			a.click(audio.SoundKeypress)
		case tcell.KeyRune:
			a.mu.Lock()
			a.input = append(a.input, ev.Rune())
			a.mu.Unlock()
			a.click(audio.SoundKeypress)
		case tcell.KeyF1:
			a.toggleMusic()
		case tcell.KeyF2:
			a.cycleMood()
		case tcell.KeyF3:
			a.cycleTempo()
		case tcell.KeyF4:
			a.toggleAmbience()
		case tcell.KeyF5:
			a.cycleLevel()
		case tcell.KeyF6:
			a.cyclePack()
		case tcell.KeyF7:
			a.mu.Lock()
			a.live = !a.live
			a.mu.Unlock()
		}
	case *tcell.EventResize:
		a.screen.Sync()
	}
	return true
}

func (a *app) submit() {
	a.mu.Lock()
	text := strings.TrimSpace(string(a.input))
	a.input = a.input[:0]
	a.mu.Unlock()
	if text == "" {
		return
	}

	a.addLine("YOU: "+text, styleYou)
	a.click(audio.SoundMessageSend)
	a.say(a.doctor.reply(text))
}

func (a *app) toggleMusic() {
	on := !a.settings.Music().Enabled
	a.updateMusic(settings.MusicPatch{Enabled: &on})
}

func (a *app) cycleMood() {
	next := cycle(settings.Moods(), a.settings.Music().Mood)
	a.updateMusic(settings.MusicPatch{Mood: &next})
}

func (a *app) cycleTempo() {
	next := cycle(settings.Tempos(), a.settings.Music().Tempo)
	a.updateMusic(settings.MusicPatch{Tempo: &next})
}

func (a *app) updateMusic(p settings.MusicPatch) {
	if _, err := a.settings.UpdateMusic(p); err != nil {
		log.Printf("update music: %v", err)
		a.click(audio.SoundError)
		return
	}
	a.click(audio.SoundNotification)
}

func (a *app) toggleAmbience() {
	on := !a.settings.Sound().AmbienceEnabled
	a.updateSound(settings.SoundPatch{AmbienceEnabled: &on})
}

func (a *app) cyclePack() {
	next := cycle(audio.SoundPacks(), a.settings.Sound().SoundPack)
	a.updateSound(settings.SoundPatch{SoundPack: &next})
}

func (a *app) updateSound(p settings.SoundPatch) {
	if _, err := a.settings.UpdateSound(p); err != nil {
		log.Printf("update sound: %v", err)
		a.click(audio.SoundError)
		return
	}
	a.click(audio.SoundSuccess)
}

func (a *app) cycleLevel() {
	a.mu.Lock()
	a.level = cycle(vintage.Levels(), a.level)
	a.mu.Unlock()
	a.click(audio.SoundNotification)
}

// cycle returns the element after cur, wrapping; unknown cur yields the first
func cycle[T comparable](all []T, cur T) T {
	for i, v := range all {
		if v == cur {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func (a *app) draw() {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.screen
	s.Fill(' ', styleBase)
	w, h := s.Size()
	if w < 20 || h < 5 {
		s.Show()
		return
	}

	mode := "processed"
	if a.live {
		mode = "live"
	}
	title := fmt.Sprintf(" DOCTOR RETRO  |  out: %s  |  voice: %s (%s)", a.backend, a.level, mode)
	drawText(s, 0, 0, w, pad(title, w), styleTitle)

	// Transcript fills the rows between title and input, newest at the bottom
	var rows []chatLine
	for _, l := range a.lines {
		for _, part := range wrap(l.text, w-1) {
			rows = append(rows, chatLine{text: part, style: l.style})
		}
	}
	avail := h - 3
	if len(rows) > avail {
		rows = rows[len(rows)-avail:]
	}
	for i, r := range rows {
		drawText(s, 1, 1+i, w-1, r.text, r.style)
	}

	prompt := "> " + string(a.input) + "_"
	if n := len([]rune(prompt)); n > w {
		prompt = string([]rune(prompt)[n-w:])
	}
	drawText(s, 0, h-2, w, prompt, styleYou)

	st := a.settings.Get()
	status := fmt.Sprintf(" F1 music:%s F2 %s F3 %s F4 ambience:%s F5 voice F6 pack:%s F7 live  %s  Esc quit",
		onOff(st.Music.Enabled), st.Music.Mood, st.Music.Tempo, onOff(st.Sound.AmbienceEnabled),
		st.Sound.SoundPack, a.lastNote)
	drawText(s, 0, h-1, w, pad(status, w), styleStatus)

	s.Show()
}

func drawText(s tcell.Screen, x, y, maxWidth int, text string, style tcell.Style) {
	col := 0
	for _, r := range text {
		if col >= maxWidth {
			return
		}
		s.SetContent(x+col, y, r, nil, style)
		col++
	}
}

func pad(s string, w int) string {
	if n := len([]rune(s)); n < w {
		return s + strings.Repeat(" ", w-n)
	}
	return s
}

// wrap breaks text into lines of at most width runes on word boundaries
func wrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(text) {
		wr := []rune(word)
		for len(wr) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(wr[:width]))
			wr = wr[width:]
		}
		switch {
		case len(cur) == 0:
			cur = append(cur, wr...)
		case len(cur)+1+len(wr) <= width:
			cur = append(append(cur, ' '), wr...)
		default:
			lines = append(lines, string(cur))
			cur = append([]rune(nil), wr...)
		}
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
