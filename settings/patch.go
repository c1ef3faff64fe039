package settings

// SoundPatch is a partial update; nil fields are left unchanged
type SoundPatch struct {
	UISoundsEnabled *bool
	UIVolume        *float64
	AmbienceEnabled *bool
	AmbienceVolume  *float64
	SoundPack       *string
	KeyboardClicks  *bool
	SystemBeeps     *bool
	BootSounds      *bool
}

// Apply returns s with the patch applied
func (p SoundPatch) Apply(s Sound) Sound {
	setIf(&s.UISoundsEnabled, p.UISoundsEnabled)
	setIf(&s.UIVolume, p.UIVolume)
	setIf(&s.AmbienceEnabled, p.AmbienceEnabled)
	setIf(&s.AmbienceVolume, p.AmbienceVolume)
	setIf(&s.SoundPack, p.SoundPack)
	setIf(&s.KeyboardClicks, p.KeyboardClicks)
	setIf(&s.SystemBeeps, p.SystemBeeps)
	setIf(&s.BootSounds, p.BootSounds)
	return s
}

// MusicPatch is a partial update; nil fields are left unchanged
type MusicPatch struct {
	Enabled *bool
	Volume  *float64
	Mood    *Mood
	Tempo   *Tempo
}

// Apply returns m with the patch applied
func (p MusicPatch) Apply(m Music) Music {
	setIf(&m.Enabled, p.Enabled)
	setIf(&m.Volume, p.Volume)
	setIf(&m.Mood, p.Mood)
	setIf(&m.Tempo, p.Tempo)
	return m
}

// Empty reports whether the patch changes nothing
func (p MusicPatch) Empty() bool {
	return p.Enabled == nil && p.Volume == nil && p.Mood == nil && p.Tempo == nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Ptr returns a pointer to v, for building patches inline
func Ptr[T any](v T) *T {
	return &v
}

// AsPatch returns a patch that sets every field to m
func (m Music) AsPatch() MusicPatch {
	return MusicPatch{
		Enabled: Ptr(m.Enabled),
		Volume:  Ptr(m.Volume),
		Mood:    Ptr(m.Mood),
		Tempo:   Ptr(m.Tempo),
	}
}
