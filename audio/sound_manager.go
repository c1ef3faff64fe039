package audio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"

	"github.com/lixenwraith/retrovoice/dsp"
	"github.com/lixenwraith/retrovoice/pcm"
	"github.com/lixenwraith/retrovoice/settings"
	"github.com/lixenwraith/retrovoice/sink"
)

// SettingsSource supplies the current sound settings on every call
type SettingsSource interface {
	Sound() settings.Sound
}

// SoundGenerator plays synthesized UI sounds and the ambience loop
type SoundGenerator struct {
	sink     sink.Sink
	settings SettingsSource
	cache    *SoundCache

	// mu serializes ambience start/stop; voice callbacks never take it
	mu       sync.Mutex
	ambience atomic.Pointer[ambienceVoice]
}

type ambienceVoice struct {
	handle sink.Handle
	ended  atomic.Bool
}

// NewSoundGenerator creates a generator rendering at the sink's sample rate
func NewSoundGenerator(s sink.Sink, src SettingsSource) *SoundGenerator {
	g := &SoundGenerator{
		sink:     s,
		settings: src,
	}
	g.cache = NewSoundCache(recipeSynth(float64(s.SampleRate())))
	return g
}

// recipeSynth renders sounds from the recipe table at rate
func recipeSynth(rate float64) SynthFunc {
	return func(kind SoundKind, pack string) (pcm.Buffer, error) {
		if kind == soundAmbience {
			return renderAmbience(rate, noiseSeed(kind)), nil
		}
		r, err := RecipeFor(kind, pack)
		if err != nil {
			return pcm.Buffer{}, err
		}
		return renderRecipe(r, rate, noiseSeed(kind)), nil
	}
}

// noiseSeed fixes the noise of each kind so cached and re-rendered sounds match
func noiseSeed(kind SoundKind) int64 {
	return 0x5b1991 + int64(kind)
}

// Cache exposes the sound cache
func (g *SoundGenerator) Cache() *SoundCache {
	return g.cache
}

// PlaySound plays kind and waits for it to finish
// Disabled kinds return nil without touching the sink
func (g *SoundGenerator) PlaySound(ctx context.Context, kind SoundKind, volume float64) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownSoundKind, int(kind))
	}
	st := g.settings.Sound()
	if !enabled(st, kind) {
		return nil
	}
	pack, err := resolvePack(st.SoundPack)
	if err != nil {
		return err
	}
	buf, err := g.cache.Get(kind, pack)
	if err != nil {
		return err
	}

	gain := dsp.Clamp01(st.UIVolume) * dsp.Clamp01(volume)
	if err := sink.Ensure(g.sink); err != nil {
		return err
	}

	done := make(chan struct{})
	h, err := g.sink.Start(newVolume(buf.Streamer(), gain), func() { close(done) })
	if err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		g.sink.Stop(h)
		return ctx.Err()
	}
}

// StartAmbience starts the ambience loop and returns once it is scheduled
// No-op when ambience is disabled or already playing
func (g *SoundGenerator) StartAmbience(ctx context.Context) error {
	st := g.settings.Sound()
	if !st.AmbienceEnabled {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.ambience.Load() != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	buf, err := g.cache.Get(soundAmbience, "")
	if err != nil {
		return err
	}
	if err := sink.Ensure(g.sink); err != nil {
		return err
	}

	amb := &ambienceVoice{}
	loop := beep.Loop(-1, buf.Streamer())
	h, err := g.sink.Start(newVolume(loop, dsp.Clamp01(st.AmbienceVolume)), func() {
		amb.ended.Store(true)
		g.ambience.CompareAndSwap(amb, nil)
	})
	if err != nil {
		return err
	}
	amb.handle = h
	g.ambience.Store(amb)

	// Sink may have closed between Start and Store
	if amb.ended.Load() {
		g.ambience.CompareAndSwap(amb, nil)
	}
	return nil
}

// StopAmbience stops the ambience loop; safe to call when not playing
func (g *SoundGenerator) StopAmbience() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if amb := g.ambience.Swap(nil); amb != nil {
		g.sink.Stop(amb.handle)
	}
}

// AmbiencePlaying reports whether the ambience loop is running
func (g *SoundGenerator) AmbiencePlaying() bool {
	return g.ambience.Load() != nil
}

// Preload renders kinds in the current pack ahead of first use
// With no kinds, every kind is rendered
func (g *SoundGenerator) Preload(kinds ...SoundKind) error {
	pack, err := resolvePack(g.settings.Sound().SoundPack)
	if err != nil {
		return err
	}
	if len(kinds) == 0 {
		kinds = SoundKinds()
	}
	for _, k := range kinds {
		if _, err := g.cache.Get(k, pack); err != nil {
			return fmt.Errorf("preload %s: %w", k, err)
		}
	}
	return nil
}

// Dispose stops ambience and drops every cached sound
func (g *SoundGenerator) Dispose() {
	g.StopAmbience()
	g.cache.Clear()
}
