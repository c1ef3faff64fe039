package service

import (
	"context"
	"log"
	"sync"

	"github.com/lixenwraith/retrovoice/audio"
	"github.com/lixenwraith/retrovoice/settings"
)

// SoundService runs the UI sound generator and keeps ambience in step with settings
type SoundService struct {
	logger   *log.Logger
	sinkSvc  *SinkService
	settings *SettingsService

	gen    *audio.SoundGenerator
	effect *audio.Effector

	mu          sync.Mutex
	last        settings.Sound
	unsubscribe func()
}

// NewSoundService creates the sound service on top of its dependencies
func NewSoundService(logger *log.Logger, sinkSvc *SinkService, settingsSvc *SettingsService) *SoundService {
	if logger == nil {
		logger = log.Default()
	}
	return &SoundService{
		logger:   logger,
		sinkSvc:  sinkSvc,
		settings: settingsSvc,
	}
}

// Name implements Service
func (s *SoundService) Name() string {
	return NameSounds
}

// Dependencies implements Service
func (s *SoundService) Dependencies() []string {
	return []string{NameSink, NameSettings}
}

// Init implements Service
func (s *SoundService) Init(args ...any) error {
	out := s.sinkSvc.Sink()
	if out == nil {
		return errDependency(NameSink)
	}
	m := s.settings.Manager()
	if m == nil {
		return errDependency(NameSettings)
	}
	s.gen = audio.NewSoundGenerator(out, m)
	s.effect = audio.NewEffector()
	return nil
}

// Start implements Service
// Renders the current pack up front and starts ambience if enabled
func (s *SoundService) Start() error {
	m := s.settings.Manager()
	if err := s.gen.Preload(); err != nil {
		s.logger.Printf("sound preload: %v", err)
	}

	s.mu.Lock()
	s.last = m.Sound()
	s.mu.Unlock()
	if err := s.gen.StartAmbience(context.Background()); err != nil {
		s.logger.Printf("ambience start: %v", err)
	}

	s.unsubscribe = m.Subscribe(s.onSettings)
	return nil
}

// onSettings restarts ambience when its switch or volume changes
func (s *SoundService) onSettings(v settings.Settings) {
	s.mu.Lock()
	prev := s.last
	s.last = v.Sound
	s.mu.Unlock()

	cur := v.Sound
	if cur.AmbienceEnabled == prev.AmbienceEnabled && cur.AmbienceVolume == prev.AmbienceVolume {
		return
	}
	s.gen.StopAmbience()
	if err := s.gen.StartAmbience(context.Background()); err != nil {
		s.logger.Printf("ambience restart: %v", err)
	}
}

// Stop implements Service
func (s *SoundService) Stop() error {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	if s.gen != nil {
		s.gen.Dispose()
	}
	return nil
}

// Contribute implements ResourceContributor
func (s *SoundService) Contribute(publish ResourcePublisher) {
	if s.gen != nil {
		publish(s.gen)
		publish(s.effect)
	}
}

// Generator returns the sound generator; nil before Init
func (s *SoundService) Generator() *audio.SoundGenerator {
	return s.gen
}

// Effector returns the speech effector; nil before Init
func (s *SoundService) Effector() *audio.Effector {
	return s.effect
}
