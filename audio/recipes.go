package audio

import (
	"fmt"
	"sort"

	"github.com/lixenwraith/retrovoice/parameter"
)

// DefaultSoundPack is used when settings name no pack
const DefaultSoundPack = "classic"

// classicRecipes is the reference sound set; other packs transform it
var classicRecipes = [soundKindCount]Recipe{
	SoundKeypress: {{
		Wave:      WaveSquare,
		StartFreq: parameter.KeypressStartFreq,
		EndFreq:   parameter.KeypressEndFreq,
		Duration:  parameter.KeypressDuration,
		Attack:    parameter.KeypressDuration / 10,
		Amplitude: parameter.KeypressAmplitude,
	}},
	SoundMessageSend: {{
		Wave:      WaveSquare,
		StartFreq: parameter.SendStartFreq,
		EndFreq:   parameter.SendEndFreq,
		Duration:  parameter.SendDuration,
	}},
	SoundMessageReceive: {
		{Wave: WaveSquare, StartFreq: parameter.ReceiveNote1Freq, Duration: parameter.ReceiveNote1Duration},
		{Wave: WaveSquare, StartFreq: parameter.ReceiveNote2Freq, Duration: parameter.ReceiveNote2Duration},
	},
	SoundError: {{
		Wave:      WaveSquare,
		StartFreq: parameter.ErrorStartFreq,
		EndFreq:   parameter.ErrorEndFreq,
		Duration:  parameter.ErrorDuration,
		Pulses:    parameter.ErrorPulses,
	}},
	SoundSuccess: {
		{Wave: WaveSquare, StartFreq: parameter.SuccessNote1Freq, Duration: parameter.SuccessNoteDuration},
		{Wave: WaveSquare, StartFreq: parameter.SuccessNote2Freq, Duration: parameter.SuccessNoteDuration},
		{Wave: WaveSquare, StartFreq: parameter.SuccessNote3Freq, Duration: parameter.SuccessNoteDuration},
	},
	SoundNotification: {{
		Wave:      WaveSquare,
		StartFreq: parameter.NotificationFreq,
		Duration:  parameter.NotificationDuration,
		Pulses:    parameter.NotificationPulses,
	}},
	SoundBootStart: {{
		Wave:      WaveSquare,
		StartFreq: parameter.BootStartStartFreq,
		EndFreq:   parameter.BootStartEndFreq,
		Duration:  parameter.BootStartDuration,
	}},
	SoundBootComplete: {
		{Wave: WaveTriangle, StartFreq: parameter.BootCompleteNote1Freq, Duration: parameter.BootCompleteNoteDuration},
		{Wave: WaveTriangle, StartFreq: parameter.BootCompleteNote2Freq, Duration: parameter.BootCompleteNoteDuration},
		{Wave: WaveTriangle, StartFreq: parameter.BootCompleteNote3Freq, Duration: parameter.BootCompleteNoteDuration},
	},
	SoundDiskAccess: {{
		Wave:      WaveNoise,
		Duration:  parameter.DiskAccessDuration,
		Pulses:    parameter.DiskAccessPulses,
		Amplitude: parameter.DiskAccessLevel,
	}},
}

// packs maps a pack id to a per-tone transform of the classic set
var packs = map[string]func(Tone) Tone{
	"classic": func(t Tone) Tone { return t },
	"soft": func(t Tone) Tone {
		if t.Wave == WaveSquare {
			t.Wave = WaveTriangle
		}
		amp := t.Amplitude
		if amp == 0 {
			amp = parameter.DefaultToneAmplitude
		}
		t.Amplitude = amp * parameter.SoftPackAmplitude
		return t
	},
	"pcspeaker": func(t Tone) Tone {
		if t.Wave == WaveNoise {
			t.StartFreq = parameter.PCSpeakerNoiseFreq
			t.EndFreq = 0
		}
		t.Wave = WaveSquare
		return t
	},
}

// SoundPacks returns the known pack ids, sorted
func SoundPacks() []string {
	ids := make([]string, 0, len(packs))
	for id := range packs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// resolvePack maps "" to the default pack and rejects unknown ids
func resolvePack(id string) (string, error) {
	if id == "" {
		id = DefaultSoundPack
	}
	if _, ok := packs[id]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSoundPack, id)
	}
	return id, nil
}

// RecipeFor returns the recipe of kind in pack
func RecipeFor(kind SoundKind, pack string) (Recipe, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSoundKind, int(kind))
	}
	id, err := resolvePack(pack)
	if err != nil {
		return nil, err
	}
	transform := packs[id]
	base := classicRecipes[kind]
	out := make(Recipe, len(base))
	for i, t := range base {
		out[i] = transform(t)
	}
	return out, nil
}
