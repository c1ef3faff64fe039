package service

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"slices"
	"sync"
)

// Sentinel errors
var (
	ErrDuplicateService  = errors.New("service already registered")
	ErrUnknownDependency = errors.New("dependency on unregistered service")
	ErrDependencyCycle   = errors.New("circular dependency between services")
	ErrNotInitialized    = errors.New("services not initialized")
	ErrDependency        = errors.New("dependency not initialized")
)

func errDependency(name string) error {
	return fmt.Errorf("%w: %s", ErrDependency, name)
}

type entry struct {
	svc  Service
	args []any
}

// Hub owns the audio services of one host and drives their lifecycle in
// dependency order. Dependencies come first on init and start, last on stop.
type Hub struct {
	mu      sync.RWMutex
	entries map[string]entry
	order   []string // dependency order, resolved by InitAll
	running []string // started services, for StopAll and rollback
	logger  *log.Logger
}

// NewHub creates an empty hub; nil logger uses log.Default
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{entries: make(map[string]entry), logger: logger}
}

// Register adds svc; args are handed to its Init
func (h *Hub) Register(svc Service, args ...any) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := svc.Name()
	if _, dup := h.entries[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateService, name)
	}
	h.entries[name] = entry{svc: svc, args: args}
	h.order = nil
	return nil
}

// Get looks up a service by name
func (h *Hub) Get(name string) (Service, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	e, ok := h.entries[name]
	return e.svc, ok
}

// MustGet returns the named service as T; panics when absent or of another type
func MustGet[T any](h *Hub, name string) T {
	svc, ok := h.Get(name)
	if !ok {
		panic(fmt.Sprintf("service not found: %s", name))
	}
	typed, ok := svc.(T)
	if !ok {
		panic(fmt.Sprintf("service %s: type mismatch, got %T", name, svc))
	}
	return typed
}

// InitAll resolves the dependency order and initializes every service
// A failure stops the services initialized so far, newest first
func (h *Hub) InitAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		order, err := h.resolve()
		if err != nil {
			return err
		}
		h.order = order
	}

	done := make([]string, 0, len(h.order))
	for _, name := range h.order {
		e := h.entries[name]
		if err := e.svc.Init(e.args...); err != nil {
			h.unwind(done)
			return fmt.Errorf("service %s init failed: %w", name, err)
		}
		done = append(done, name)
	}
	return nil
}

// StartAll starts every initialized service
// A failure stops the services started so far, newest first
func (h *Hub) StartAll() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.order == nil {
		return ErrNotInitialized
	}
	h.running = h.running[:0]
	for _, name := range h.order {
		if err := h.entries[name].svc.Start(); err != nil {
			h.unwind(h.running)
			h.running = nil
			return fmt.Errorf("service %s start failed: %w", name, err)
		}
		h.running = append(h.running, name)
	}
	return nil
}

// StopAll stops started services, dependents first; repeated calls are no-ops
// Stop errors are logged so every service gets its Stop
func (h *Hub) StopAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.unwind(h.running)
	h.running = nil
}

// unwind stops names in reverse
func (h *Hub) unwind(names []string) {
	for _, name := range slices.Backward(names) {
		if err := h.entries[name].svc.Stop(); err != nil {
			h.logger.Printf("service %s stop: %v", name, err)
		}
	}
}

// Contribute hands every contributor's resources to publish, in dependency order
func (h *Hub) Contribute(publish ResourcePublisher) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, name := range h.order {
		if c, ok := h.entries[name].svc.(ResourceContributor); ok {
			c.Contribute(publish)
		}
	}
}

// Names returns the registered service names, sorted
func (h *Hub) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Sorted(maps.Keys(h.entries))
}

// resolve orders services so each follows its dependencies
// Depth-first over sorted names and sorted dependencies, so the order is stable
func (h *Hub) resolve() ([]string, error) {
	const (
		unvisited = iota
		visiting
		visited
	)
	mark := make(map[string]int, len(h.entries))
	order := make([]string, 0, len(h.entries))

	var visit func(name, from string) error
	visit = func(name, from string) error {
		e, ok := h.entries[name]
		if !ok {
			return fmt.Errorf("%w: %s needs %s", ErrUnknownDependency, from, name)
		}
		switch mark[name] {
		case visiting:
			return fmt.Errorf("%w: %s -> %s", ErrDependencyCycle, from, name)
		case visited:
			return nil
		}
		mark[name] = visiting
		for _, dep := range slices.Sorted(slices.Values(e.svc.Dependencies())) {
			if err := visit(dep, name); err != nil {
				return err
			}
		}
		mark[name] = visited
		order = append(order, name)
		return nil
	}

	for _, name := range slices.Sorted(maps.Keys(h.entries)) {
		if err := visit(name, name); err != nil {
			return nil, err
		}
	}
	return order, nil
}
