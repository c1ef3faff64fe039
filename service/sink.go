package service

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/retrovoice/constant"
	"github.com/lixenwraith/retrovoice/sink"
)

// SinkService owns the audio output
// Without a usable device it tries a command-line player, then a headless sink
type SinkService struct {
	logger *log.Logger
	rate   beep.SampleRate

	out      io.Writer
	sink     sink.Sink
	headless *sink.Headless // pumped by Start; also set for pipe output
	backend  string
	degraded atomic.Bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSinkService creates the sink service; nil logger uses log.Default
func NewSinkService(logger *log.Logger) *SinkService {
	if logger == nil {
		logger = log.Default()
	}
	return &SinkService{
		logger: logger,
		rate:   beep.SampleRate(constant.OutputSampleRate),
	}
}

// Name implements Service
func (s *SinkService) Name() string {
	return NameSink
}

// Dependencies implements Service
func (s *SinkService) Dependencies() []string {
	return nil
}

// Init implements Service
// args[0]: bool - force headless output (default false)
// args[1]: io.Writer - PCM16 LE stereo destination for headless output (default discard)
// A device failure degrades to headless instead of failing
func (s *SinkService) Init(args ...any) error {
	headless := false
	if len(args) > 0 {
		if v, ok := args[0].(bool); ok {
			headless = v
		}
	}
	if len(args) > 1 {
		if w, ok := args[1].(io.Writer); ok {
			s.out = w
		}
	}

	if !headless {
		sp, err := sink.NewSpeaker(s.rate, constant.SpeakerBufferDuration)
		if err == nil {
			s.sink = sp
			s.backend = "speaker"
			return nil
		}
		s.logger.Printf("audio device unavailable: %v", err)

		p, err := s.openPipe()
		if err == nil {
			s.sink = p
			s.headless = p.Headless
			s.backend = p.Backend().Name
			s.logger.Printf("audio routed through %s", p.Backend().Path)
			return nil
		}
		s.logger.Printf("no audio player, using headless sink: %v", err)
		s.degraded.Store(true)
	}

	s.headless = sink.NewHeadless(s.rate, s.out)
	s.sink = s.headless
	s.backend = "headless"
	return nil
}

func (s *SinkService) openPipe() (*sink.Pipe, error) {
	b, err := sink.DetectBackend(s.rate)
	if err != nil {
		return nil, err
	}
	return sink.NewPipe(s.rate, b)
}

// Start implements Service
// Headless output is pulled in real time so voices end on schedule
func (s *SinkService) Start() error {
	if s.sink == nil {
		return sink.ErrNotInitialized
	}
	if s.headless == nil || s.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		err := s.headless.Run(ctx, constant.HeadlessTickDuration)
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Printf("%s sink stopped: %v", s.backend, err)
		}
	}()
	return nil
}

// Stop implements Service
// The sink closes before the pump is awaited: closing a pipe fails a write
// stuck on a player that stopped reading. A writer that never returns is
// abandoned after SinkStopTimeout.
func (s *SinkService) Stop() error {
	var err error
	if s.cancel != nil {
		s.cancel()
	}
	if s.sink != nil {
		err = s.sink.Close()
	}
	if s.cancel != nil {
		if !waitTimeout(&s.wg, constant.SinkStopTimeout) {
			s.logger.Printf("%s sink pump did not stop within %v", s.backend, constant.SinkStopTimeout)
		}
		s.cancel = nil
	}
	return err
}

// waitTimeout waits for wg up to d and reports whether it finished
func waitTimeout(wg *sync.WaitGroup, d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(d):
		return false
	}
}

// Contribute implements ResourceContributor
func (s *SinkService) Contribute(publish ResourcePublisher) {
	if s.sink != nil {
		publish(s.sink)
	}
}

// Sink returns the output; nil before Init
func (s *SinkService) Sink() sink.Sink {
	return s.sink
}

// Backend names the output in use: speaker, a player command, or headless
func (s *SinkService) Backend() string {
	return s.backend
}

// Degraded reports whether the device failed and output went headless
func (s *SinkService) Degraded() bool {
	return s.degraded.Load()
}
