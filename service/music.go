package service

import (
	"fmt"
	"log"

	"github.com/lixenwraith/retrovoice/audio"
	"github.com/lixenwraith/retrovoice/settings"
)

// MusicService drives the music engine from settings
type MusicService struct {
	logger   *log.Logger
	sinkSvc  *SinkService
	settings *SettingsService
	sched    audio.Scheduler

	engine      *audio.MusicEngine
	unsubscribe func()
}

// NewMusicService creates the music service on top of its dependencies
func NewMusicService(logger *log.Logger, sinkSvc *SinkService, settingsSvc *SettingsService) *MusicService {
	if logger == nil {
		logger = log.Default()
	}
	return &MusicService{
		logger:   logger,
		sinkSvc:  sinkSvc,
		settings: settingsSvc,
	}
}

// Name implements Service
func (s *MusicService) Name() string {
	return NameMusic
}

// Dependencies implements Service
func (s *MusicService) Dependencies() []string {
	return []string{NameSink, NameSettings}
}

// Init implements Service
// args[0]: audio.Scheduler - beat clock (default audio.TickerScheduler)
func (s *MusicService) Init(args ...any) error {
	s.sched = audio.TickerScheduler{}
	if len(args) > 0 {
		if sched, ok := args[0].(audio.Scheduler); ok {
			s.sched = sched
		}
	}
	out := s.sinkSvc.Sink()
	if out == nil {
		return errDependency(NameSink)
	}
	m := s.settings.Manager()
	if m == nil {
		return errDependency(NameSettings)
	}
	s.engine = audio.NewMusicEngine(out, s.sched, m.Music())
	return nil
}

// Start implements Service
func (s *MusicService) Start() error {
	m := s.settings.Manager()
	s.unsubscribe = m.Subscribe(s.onSettings)
	if err := s.engine.Start(); err != nil {
		return fmt.Errorf("music start: %w", err)
	}
	return nil
}

// onSettings mirrors music settings into the engine and starts it when enabled
func (s *MusicService) onSettings(v settings.Settings) {
	if err := s.engine.UpdateSettings(v.Music.AsPatch()); err != nil {
		s.logger.Printf("music settings: %v", err)
		return
	}
	if v.Music.Enabled {
		if err := s.engine.Start(); err != nil {
			s.logger.Printf("music start: %v", err)
		}
	}
}

// Stop implements Service
func (s *MusicService) Stop() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.engine != nil {
		s.engine.Destroy()
	}
	return nil
}

// Contribute implements ResourceContributor
func (s *MusicService) Contribute(publish ResourcePublisher) {
	if s.engine != nil {
		publish(s.engine)
	}
}

// Engine returns the music engine; nil before Init
func (s *MusicService) Engine() *audio.MusicEngine {
	return s.engine
}
