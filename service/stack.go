package service

import (
	"io"
	"log"

	"github.com/lixenwraith/retrovoice/audio"
	"github.com/lixenwraith/retrovoice/settings"
)

// StackOptions configures the standard audio services
type StackOptions struct {
	Headless     bool
	Output       io.Writer // headless PCM destination
	SettingsPath string
	Store        settings.Store // overrides SettingsPath
	Scheduler    audio.Scheduler
}

// Stack is the standard set of audio services registered on one hub
type Stack struct {
	Hub      *Hub
	Sink     *SinkService
	Settings *SettingsService
	Sounds   *SoundService
	Music    *MusicService
}

// NewStack registers the sink, settings, sounds and music services
func NewStack(logger *log.Logger, opts StackOptions) (*Stack, error) {
	hub := NewHub(logger)
	st := &Stack{Hub: hub}
	st.Sink = NewSinkService(logger)
	st.Settings = NewSettingsService(logger)
	st.Sounds = NewSoundService(logger, st.Sink, st.Settings)
	st.Music = NewMusicService(logger, st.Sink, st.Settings)

	var storeArg any = opts.SettingsPath
	if opts.Store != nil {
		storeArg = opts.Store
	}

	regs := []struct {
		svc  Service
		args []any
	}{
		{st.Sink, []any{opts.Headless, opts.Output}},
		{st.Settings, []any{storeArg}},
		{st.Sounds, nil},
		{st.Music, []any{opts.Scheduler}},
	}
	for _, r := range regs {
		if err := hub.Register(r.svc, r.args...); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Start initializes and starts every service in dependency order
func (s *Stack) Start() error {
	if err := s.Hub.InitAll(); err != nil {
		return err
	}
	return s.Hub.StartAll()
}

// Stop stops every started service in reverse order
func (s *Stack) Stop() {
	s.Hub.StopAll()
}
