package audio

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lixenwraith/retrovoice/pcm"
)

// SynthFunc renders the buffer for one cache key
type SynthFunc func(kind SoundKind, pack string) (pcm.Buffer, error)

type cacheKey struct {
	kind SoundKind
	pack string
}

// SoundCache memoizes synthesized sounds by (kind, pack)
// Concurrent misses on one key share a single synthesis
// Cached buffers are shared and must not be mutated
type SoundCache struct {
	synth SynthFunc

	mu    sync.RWMutex
	store map[cacheKey]pcm.Buffer

	group singleflight.Group
}

// NewSoundCache creates an empty cache backed by synth
func NewSoundCache(synth SynthFunc) *SoundCache {
	return &SoundCache{
		synth: synth,
		store: make(map[cacheKey]pcm.Buffer),
	}
}

// Get returns the cached buffer or synthesizes it on demand
func (c *SoundCache) Get(kind SoundKind, pack string) (pcm.Buffer, error) {
	key := cacheKey{kind: kind, pack: pack}

	c.mu.RLock()
	buf, ok := c.store[key]
	c.mu.RUnlock()
	if ok {
		return buf, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		// Double-check after winning the flight
		c.mu.RLock()
		buf, ok := c.store[key]
		c.mu.RUnlock()
		if ok {
			return buf, nil
		}

		buf, err := c.synth(kind, pack)
		if err != nil {
			return pcm.Buffer{}, err
		}

		c.mu.Lock()
		c.store[key] = buf
		c.mu.Unlock()
		return buf, nil
	})
	if err != nil {
		return pcm.Buffer{}, err
	}
	return v.(pcm.Buffer), nil
}

// Len returns the number of cached buffers
func (c *SoundCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear drops all cached buffers
func (c *SoundCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[cacheKey]pcm.Buffer)
}

func (k cacheKey) String() string {
	return k.pack + "/" + k.kind.String()
}
