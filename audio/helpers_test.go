package audio

import (
	"testing"
	"time"

	"github.com/lixenwraith/retrovoice/settings"
	"github.com/lixenwraith/retrovoice/sink"
)

const pumpFrames = 512

// drive runs fn while pumping h, returning fn's result
func drive(t *testing.T, h *sink.Headless, fn func() error) error {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- fn() }()

	for i := 0; i < 5000; i++ {
		select {
		case err := <-errc:
			return err
		default:
		}
		if _, err := h.Pump(pumpFrames); err != nil {
			t.Fatalf("Pump failed: %v", err)
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("operation did not finish")
	return nil
}

// waitActive polls until h has n voices
func waitActive(t *testing.T, h *sink.Headless, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Active() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Active = %d, want %d", h.Active(), n)
		}
		time.Sleep(time.Millisecond)
	}
}

// staticSound serves fixed sound settings
type staticSound settings.Sound

func (s staticSound) Sound() settings.Sound { return settings.Sound(s) }

func defaultSound() staticSound {
	return staticSound(settings.Defaults().Sound)
}
