package service

import (
	"log"

	"github.com/lixenwraith/retrovoice/settings"
)

// SettingsService loads settings and owns the Manager
type SettingsService struct {
	logger  *log.Logger
	store   settings.Store
	manager *settings.Manager
}

// NewSettingsService creates the settings service; nil logger uses log.Default
func NewSettingsService(logger *log.Logger) *SettingsService {
	if logger == nil {
		logger = log.Default()
	}
	return &SettingsService{logger: logger}
}

// Name implements Service
func (s *SettingsService) Name() string {
	return NameSettings
}

// Dependencies implements Service
func (s *SettingsService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: string - JSON settings file path, "" keeps settings in memory
// args[0] may instead be a settings.Store
// Environment overrides apply on load; a failed load falls back to defaults
func (s *SettingsService) Init(args ...any) error {
	var store settings.Store = settings.NewMemoryStore(settings.Defaults())
	if len(args) > 0 {
		switch v := args[0].(type) {
		case string:
			if v != "" {
				store = &settings.FileStore{Path: v}
			}
		case settings.Store:
			store = v
		}
	}
	s.store = envStore{store}

	m, err := settings.NewManager(s.store)
	if err != nil {
		s.logger.Printf("settings load failed, using defaults: %v", err)
	}
	s.manager = m
	return nil
}

// Start implements Service
func (s *SettingsService) Start() error {
	return nil
}

// Stop implements Service
func (s *SettingsService) Stop() error {
	return nil
}

// Contribute implements ResourceContributor
func (s *SettingsService) Contribute(publish ResourcePublisher) {
	if s.manager != nil {
		publish(s.manager)
	}
}

// Manager returns the settings manager; nil before Init
func (s *SettingsService) Manager() *settings.Manager {
	return s.manager
}

// envStore overlays environment variables on every load
type envStore struct {
	settings.Store
}

func (e envStore) Load() (settings.Settings, error) {
	v, err := e.Store.Load()
	if err != nil {
		return v, err
	}
	return settings.LoadEnv(v), nil
}
