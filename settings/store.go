package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store persists settings for a Manager
type Store interface {
	Load() (Settings, error)
	Save(Settings) error
}

// MemoryStore keeps settings in process
type MemoryStore struct {
	mu    sync.Mutex
	saved Settings
	saves int
}

// NewMemoryStore seeds the store with initial
func NewMemoryStore(initial Settings) *MemoryStore {
	return &MemoryStore{saved: initial}
}

func (s *MemoryStore) Load() (Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved, nil
}

func (s *MemoryStore) Save(v Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = v
	s.saves++
	return nil
}

// Saves returns how many times Save was called
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// FileStore keeps settings as a JSON document on disk
// A missing file loads as Defaults; fields absent from the file keep their defaults
type FileStore struct {
	Path string
}

func (s FileStore) Load() (Settings, error) {
	cfg := Defaults()
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Defaults(), fmt.Errorf("parse settings %s: %w", s.Path, err)
	}
	if err := cfg.Music.Validate(); err != nil {
		return Defaults(), fmt.Errorf("settings %s: %w", s.Path, err)
	}
	return cfg, nil
}

// Save writes through a temp file and rename so readers never see a partial document
func (s FileStore) Save(v Settings) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
