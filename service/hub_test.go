package service

import (
	"errors"
	"strings"
	"testing"
)

// recorder logs lifecycle calls across fake services
type recorder struct {
	calls []string
}

type fakeService struct {
	name     string
	deps     []string
	rec      *recorder
	initErr  error
	startErr error
	gotArgs  []any
}

func (f *fakeService) Name() string           { return f.name }
func (f *fakeService) Dependencies() []string { return f.deps }

func (f *fakeService) Init(args ...any) error {
	f.gotArgs = args
	f.rec.calls = append(f.rec.calls, "init:"+f.name)
	return f.initErr
}

func (f *fakeService) Start() error {
	f.rec.calls = append(f.rec.calls, "start:"+f.name)
	return f.startErr
}

func (f *fakeService) Stop() error {
	f.rec.calls = append(f.rec.calls, "stop:"+f.name)
	return nil
}

func newFakeHub(t *testing.T, rec *recorder, svcs ...*fakeService) *Hub {
	t.Helper()
	h := NewHub(nil)
	for _, s := range svcs {
		s.rec = rec
		if err := h.Register(s); err != nil {
			t.Fatalf("Register(%s) failed: %v", s.name, err)
		}
	}
	return h
}

// TestHubDependencyOrder verifies init/start follow dependencies and stop reverses them
func TestHubDependencyOrder(t *testing.T) {
	rec := &recorder{}
	h := newFakeHub(t, rec,
		&fakeService{name: "music", deps: []string{"sink", "settings"}},
		&fakeService{name: "settings"},
		&fakeService{name: "sink"},
	)

	if err := h.InitAll(); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if err := h.StartAll(); err != nil {
		t.Fatalf("StartAll failed: %v", err)
	}
	h.StopAll()
	h.StopAll()

	want := "init:settings init:sink init:music start:settings start:sink start:music stop:music stop:sink stop:settings"
	if got := strings.Join(rec.calls, " "); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
}

// TestHubRegisterArgs verifies Init receives the args given at registration
func TestHubRegisterArgs(t *testing.T) {
	rec := &recorder{}
	svc := &fakeService{name: "sink", rec: rec}
	h := NewHub(nil)
	if err := h.Register(svc, true, "x"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if err := h.Register(&fakeService{name: "sink", rec: rec}); !errors.Is(err, ErrDuplicateService) {
		t.Errorf("Expected ErrDuplicateService, got %v", err)
	}
	if err := h.InitAll(); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	if len(svc.gotArgs) != 2 || svc.gotArgs[0] != true || svc.gotArgs[1] != "x" {
		t.Errorf("Init args = %v, want [true x]", svc.gotArgs)
	}
}

// TestHubInitRollback verifies a failed Init stops already-initialized services
func TestHubInitRollback(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{}
	h := newFakeHub(t, rec,
		&fakeService{name: "a"},
		&fakeService{name: "b", deps: []string{"a"}, initErr: boom},
	)
	if err := h.InitAll(); !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	want := "init:a init:b stop:a"
	if got := strings.Join(rec.calls, " "); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
}

// TestHubStartRollback verifies a failed Start stops already-started services
func TestHubStartRollback(t *testing.T) {
	boom := errors.New("boom")
	rec := &recorder{}
	h := newFakeHub(t, rec,
		&fakeService{name: "a"},
		&fakeService{name: "b", deps: []string{"a"}},
		&fakeService{name: "c", deps: []string{"b"}, startErr: boom},
	)
	if err := h.InitAll(); err != nil {
		t.Fatalf("InitAll failed: %v", err)
	}
	rec.calls = nil
	if err := h.StartAll(); !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}
	want := "start:a start:b start:c stop:b stop:a"
	if got := strings.Join(rec.calls, " "); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}

	rec.calls = nil
	h.StopAll()
	if len(rec.calls) != 0 {
		t.Errorf("StopAll after rollback called %v", rec.calls)
	}
}

// TestHubDependencyErrors verifies missing and circular dependencies fail
func TestHubDependencyErrors(t *testing.T) {
	rec := &recorder{}
	missing := newFakeHub(t, rec, &fakeService{name: "a", deps: []string{"ghost"}})
	if err := missing.InitAll(); !errors.Is(err, ErrUnknownDependency) || !strings.Contains(err.Error(), "ghost") {
		t.Errorf("Expected unregistered dependency error, got %v", err)
	}

	cycle := newFakeHub(t, rec,
		&fakeService{name: "a", deps: []string{"b"}},
		&fakeService{name: "b", deps: []string{"a"}},
	)
	if err := cycle.InitAll(); !errors.Is(err, ErrDependencyCycle) {
		t.Errorf("Expected ErrDependencyCycle, got %v", err)
	}
	if len(rec.calls) != 0 {
		t.Errorf("services touched despite errors: %v", rec.calls)
	}
}

// TestHubStartBeforeInit verifies StartAll requires InitAll
func TestHubStartBeforeInit(t *testing.T) {
	h := newFakeHub(t, &recorder{}, &fakeService{name: "a"})
	if err := h.StartAll(); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
	if got := h.Names(); len(got) != 1 || got[0] != "a" {
		t.Errorf("Names = %v, want [a]", got)
	}
}

// TestMustGet verifies typed access and panics on mismatch
func TestMustGet(t *testing.T) {
	rec := &recorder{}
	h := newFakeHub(t, rec, &fakeService{name: "a"})

	if got := MustGet[*fakeService](h, "a"); got.name != "a" {
		t.Errorf("MustGet returned %q", got.name)
	}

	defer func() {
		if recover() == nil {
			t.Error("Expected panic on type mismatch")
		}
	}()
	MustGet[*SinkService](h, "a")
}
