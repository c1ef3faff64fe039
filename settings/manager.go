package settings

import (
	"fmt"
	"sync"
)

// Manager is the only path from the audio core to persisted settings
type Manager struct {
	store Store

	mu      sync.RWMutex
	current Settings

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Settings)
}

// NewManager loads the initial settings from store
// A load error is returned alongside a usable Manager holding defaults
func NewManager(store Store) (*Manager, error) {
	m := &Manager{
		store: store,
		subs:  make(map[int]func(Settings)),
	}
	cur, err := store.Load()
	if err != nil {
		m.current = Defaults()
		return m, err
	}
	m.current = cur
	return m, nil
}

// Get returns a snapshot of all settings
func (m *Manager) Get() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Sound returns the sound settings snapshot
func (m *Manager) Sound() Sound {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Sound
}

// Music returns the music settings snapshot
func (m *Manager) Music() Music {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Music
}

// UpdateSound applies and persists a partial sound update
func (m *Manager) UpdateSound(p SoundPatch) (Sound, error) {
	next, err := m.update(func(s *Settings) error {
		s.Sound = p.Apply(s.Sound)
		return nil
	})
	return next.Sound, err
}

// UpdateMusic validates, applies and persists a partial music update
func (m *Manager) UpdateMusic(p MusicPatch) (Music, error) {
	next, err := m.update(func(s *Settings) error {
		music := p.Apply(s.Music)
		if err := music.Validate(); err != nil {
			return err
		}
		s.Music = music
		return nil
	})
	return next.Music, err
}

// update commits only when both the mutation and the save succeed
func (m *Manager) update(fn func(*Settings) error) (Settings, error) {
	m.mu.Lock()
	next := m.current
	if err := fn(&next); err != nil {
		cur := m.current
		m.mu.Unlock()
		return cur, err
	}
	if err := m.store.Save(next); err != nil {
		cur := m.current
		m.mu.Unlock()
		return cur, fmt.Errorf("save settings: %w", err)
	}
	m.current = next
	m.mu.Unlock()

	m.notify(next)
	return next, nil
}

// Subscribe registers fn for every committed change and returns its cancel func
// fn runs on the updating goroutine
func (m *Manager) Subscribe(fn func(Settings)) func() {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		delete(m.subs, id)
	}
}

func (m *Manager) notify(s Settings) {
	m.subMu.Lock()
	fns := make([]func(Settings), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}
