package constant

import "time"

// Audio Hardware Settings
const (
	// OutputSampleRate is the rate sinks run at; synthesized sounds are rendered at sink rate
	OutputSampleRate = 44100
	OutputChannels   = 2
	OutputBitDepth   = 16
	OutputFrameBytes = OutputChannels * (OutputBitDepth / 8) // 4 bytes

	// TTSSampleRate is the rate of PCM16 mono payloads from the speech collaborator
	TTSSampleRate = 24000
	TTSChannels   = 1
)

// Sink Timing
const (
	// SpeakerBufferDuration sizes the device buffer, trading latency for underrun safety
	SpeakerBufferDuration = 100 * time.Millisecond

	// HeadlessTickDuration is the pull period of the headless sink in real-time mode
	HeadlessTickDuration = 50 * time.Millisecond

	// SinkStopTimeout bounds how long shutdown waits for the output pump
	SinkStopTimeout = time.Second
)

// Playback Effector
const (
	// EffectorBlockFrames is the streaming quantization block size
	EffectorBlockFrames = 2048

	// DefaultPlaybackRate reproduces the characteristic faster voice of the 1991 program
	DefaultPlaybackRate = 1.1

	// ResampleQuality is the beep resampler quality used for sink-side time scaling
	ResampleQuality = 4
)

// Vintage Processing
const (
	// ProsodyWindow is the local RMS window for dynamic-range flattening
	ProsodyWindow = 50 * time.Millisecond

	// ButterworthQ gives a maximally flat passband
	ButterworthQ = 0.7071

	// AntiAliasMargin keeps the anti-alias corner below the target Nyquist
	AntiAliasMargin = 0.9

	// LosslessLevels is the quantization level count treated as 16-bit transparent
	LosslessLevels = 65536
)

// Envelope shaping shared by sound effects and music notes
const (
	EnvelopeAttack     = 10 * time.Millisecond
	EnvelopeDecayFloor = 0.01
)

// Ambience loop
const (
	AmbienceDuration     = 8 * time.Second
	AmbienceLowpassCoeff = 0.02 // One-pole smoothing, ~140Hz corner at 44.1kHz
	AmbienceNoiseLevel   = 0.35
	AmbienceHumFreq      = 60.0 // Hz, CRT/fan hum
	AmbienceHumLevel     = 0.04
	AmbienceFade         = 250 * time.Millisecond // Loop seam crossfade
)
