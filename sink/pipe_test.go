package sink

import (
	"errors"
	"os/exec"
	"slices"
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func fakeLookPath(installed ...string) func(string) (string, error) {
	return func(bin string) (string, error) {
		if slices.Contains(installed, bin) {
			return "/usr/bin/" + bin, nil
		}
		return "", exec.ErrNotFound
	}
}

func noFiles(string) bool { return false }

// TestDetectBackendPriority verifies the first installed player wins
func TestDetectBackendPriority(t *testing.T) {
	tests := []struct {
		installed []string
		want      BackendType
		name      string
	}{
		{[]string{"aplay", "pacat", "ffplay"}, BackendPulse, "pacat"},
		{[]string{"ffplay", "pw-cat"}, BackendPipeWire, "pw-cat"},
		{[]string{"play", "aplay"}, BackendALSA, "aplay"},
		{[]string{"ffplay", "play"}, BackendSoX, "sox"},
		{[]string{"ffplay"}, BackendFFplay, "ffplay"},
	}
	for _, tt := range tests {
		b, err := detectBackend(44100, fakeLookPath(tt.installed...), "linux", noFiles)
		if err != nil {
			t.Fatalf("detectBackend(%v) failed: %v", tt.installed, err)
		}
		if b.Type != tt.want || b.Name != tt.name {
			t.Errorf("detectBackend(%v) = %s, want %s", tt.installed, b.Name, tt.name)
		}
	}
}

// TestDetectBackendRate verifies the sink rate is passed to the player
func TestDetectBackendRate(t *testing.T) {
	b, err := detectBackend(22050, fakeLookPath("aplay"), "linux", noFiles)
	if err != nil {
		t.Fatalf("detectBackend failed: %v", err)
	}
	i := slices.Index(b.Args, "-r")
	if i < 0 || b.Args[i+1] != "22050" {
		t.Errorf("aplay args = %v, want -r 22050", b.Args)
	}
}

// TestDetectBackendOSS verifies the FreeBSD device fallback
func TestDetectBackendOSS(t *testing.T) {
	dsp := func(p string) bool { return p == "/dev/dsp" }

	b, err := detectBackend(44100, fakeLookPath(), "freebsd", dsp)
	if err != nil || b.Type != BackendOSS {
		t.Errorf("freebsd = (%+v, %v), want oss", b, err)
	}
	if _, err := detectBackend(44100, fakeLookPath(), "linux", dsp); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Expected ErrNoBackend on linux, got %v", err)
	}
}

// TestPipeFeedsPlayer verifies rendered audio reaches a child process and Close reaps it
func TestPipeFeedsPlayer(t *testing.T) {
	path, err := exec.LookPath("cat")
	if err != nil {
		t.Skip("cat not available")
	}
	p, err := NewPipe(beep.SampleRate(8000), Backend{Name: "cat", Path: path})
	if err != nil {
		t.Fatalf("NewPipe failed: %v", err)
	}
	if p.State() != Suspended {
		t.Errorf("Expected suspended pipe, got %v", p.State())
	}
	if err := Ensure(p); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	ended := make(chan struct{})
	if _, err := p.Start(&constStreamer{value: 0.5, left: 400}, func() { close(ended) }); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if n, err := p.Pump(800); n != 800 || err != nil {
		t.Fatalf("Pump = (%d, %v), want (800, nil)", n, err)
	}
	select {
	case <-ended:
	default:
		t.Error("Expected voice to end after pumping past its length")
	}

	if err := p.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	select {
	case <-p.Exited():
	case <-time.After(time.Second):
		t.Fatal("Expected player to exit after Close")
	}
	if p.State() != Closed {
		t.Errorf("Expected closed, got %v", p.State())
	}
	if err := p.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

// TestPipeStartFailure verifies a missing binary reports a device error
func TestPipeStartFailure(t *testing.T) {
	_, err := NewPipe(beep.SampleRate(8000), Backend{Name: "nope", Path: "/nonexistent/player"})
	if !errors.Is(err, ErrDevice) {
		t.Errorf("Expected ErrDevice, got %v", err)
	}
}

// TestPipeCloseStalledPlayer verifies Close frees a write blocked on a player that never reads
func TestPipeCloseStalledPlayer(t *testing.T) {
	path, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	p, err := NewPipe(beep.SampleRate(8000), Backend{Name: "sleep", Path: path, Args: []string{"30"}})
	if err != nil {
		t.Fatalf("NewPipe failed: %v", err)
	}
	if err := Ensure(p); err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}

	// Far beyond the pipe buffer, so the write blocks
	pumped := make(chan error, 1)
	go func() {
		_, err := p.Pump(1 << 20)
		pumped <- err
	}()
	time.Sleep(200 * time.Millisecond)

	closed := make(chan struct{})
	go func() {
		p.Close()
		close(closed)
	}()
	select {
	case <-closed:
	case <-time.After(5 * time.Second):
		t.Fatal("Close blocked on a stalled player")
	}
	select {
	case err := <-pumped:
		if !errors.Is(err, ErrDevice) {
			t.Errorf("Expected ErrDevice from the stuck write, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("write stayed blocked after Close")
	}
}
