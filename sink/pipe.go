package sink

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"time"

	"github.com/gopxl/beep"
)

// ErrNoBackend is returned when no command-line player is installed
var ErrNoBackend = errors.New("no compatible audio backend found")

// pipeCloseGrace is how long a player may drain after EOF before it is killed
const pipeCloseGrace = 250 * time.Millisecond

// BackendType identifies a command-line audio player
type BackendType int

const (
	BackendPulse BackendType = iota
	BackendPipeWire
	BackendALSA
	BackendSoX
	BackendFFplay
	BackendOSS
)

// Backend describes how to launch a player that reads PCM16 LE stereo on stdin
// OSS has no command; Path is the device file written directly
type Backend struct {
	Type BackendType
	Name string
	Path string
	Args []string
}

// DetectBackend searches PATH for a player
// Priority: pacat > pw-cat > aplay > play (sox) > ffplay > OSS
func DetectBackend(rate beep.SampleRate) (Backend, error) {
	return detectBackend(rate, exec.LookPath, runtime.GOOS, fileExists)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func detectBackend(rate beep.SampleRate, lookPath func(string) (string, error), goos string, exists func(string) bool) (Backend, error) {
	r := strconv.Itoa(int(rate))
	candidates := []struct {
		typ  BackendType
		name string
		bin  string
		args []string
	}{
		{BackendPulse, "pacat", "pacat", []string{
			"--raw", "--format=s16le", "--rate=" + r, "--channels=2", "--latency-msec=50", "--playback",
		}},
		{BackendPipeWire, "pw-cat", "pw-cat", []string{
			"--playback", "--format=s16", "--rate=" + r, "--channels=2", "--latency=50ms", "-",
		}},
		{BackendALSA, "aplay", "aplay", []string{
			"-t", "raw", "-f", "S16_LE", "-r", r, "-c", "2", "-q",
		}},
		{BackendSoX, "sox", "play", []string{
			"-t", "raw", "-e", "signed", "-b", "16", "-c", "2", "-r", r, "-", "-d", "-q",
		}},
		{BackendFFplay, "ffplay", "ffplay", []string{
			"-nodisp", "-autoexit", "-f", "s16le", "-ac", "2", "-ar", r,
			"-probesize", "32", "-analyzeduration", "0", "-i", "pipe:0", "-loglevel", "quiet",
		}},
	}
	for _, c := range candidates {
		if path, err := lookPath(c.bin); err == nil {
			return Backend{Type: c.typ, Name: c.name, Path: path, Args: c.args}, nil
		}
	}

	if goos == "freebsd" && exists("/dev/dsp") {
		return Backend{Type: BackendOSS, Name: "oss", Path: "/dev/dsp"}, nil
	}
	return Backend{}, ErrNoBackend
}

// Pipe is a Headless sink whose output feeds an external player
// Like Headless it must be driven by Run; the player's blocking stdin paces it
type Pipe struct {
	*Headless
	backend Backend
	cmd     *exec.Cmd
	w       io.WriteCloser
	done    chan struct{}
}

// NewPipe launches the backend and returns a suspended sink writing to it
func NewPipe(rate beep.SampleRate, b Backend) (*Pipe, error) {
	p := &Pipe{backend: b, done: make(chan struct{})}

	if b.Type == BackendOSS {
		f, err := os.OpenFile(b.Path, os.O_WRONLY, 0)
		if err != nil {
			return nil, fmt.Errorf("%w: open %s: %v", ErrDevice, b.Path, err)
		}
		p.w = f
		close(p.done)
	} else {
		cmd := exec.Command(b.Path, b.Args...)
		stdin, err := cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("%w: %s stdin: %v", ErrDevice, b.Name, err)
		}
		if err := cmd.Start(); err != nil {
			stdin.Close()
			return nil, fmt.Errorf("%w: start %s: %v", ErrDevice, b.Name, err)
		}
		p.cmd = cmd
		p.w = stdin
		go p.monitor()
	}

	p.Headless = NewHeadless(rate, p.w)
	return p, nil
}

// monitor reaps the player; later writes fail with a broken pipe
func (p *Pipe) monitor() {
	p.cmd.Wait()
	close(p.done)
}

// Backend returns the player in use
func (p *Pipe) Backend() Backend {
	return p.backend
}

// Exited is closed once the player process ends
func (p *Pipe) Exited() <-chan struct{} {
	return p.done
}

// Close stops all voices, sends EOF and reaps the player
func (p *Pipe) Close() error {
	if p.Headless.State() == Closed {
		return nil
	}
	p.Headless.Close()
	// An in-flight Pump write fails once the writer closes
	werr := p.w.Close()

	if p.cmd == nil {
		return werr
	}
	select {
	case <-p.done:
	case <-time.After(pipeCloseGrace):
		p.cmd.Process.Kill()
		<-p.done
	}
	return nil
}
