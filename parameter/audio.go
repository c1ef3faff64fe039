package parameter

import "time"

// Sound effect recipes for the classic pack; other packs derive from these

// Keypress Sound: short square click with a downward chirp
const (
	KeypressDuration  = 18 * time.Millisecond
	KeypressStartFreq = 1800.0
	KeypressEndFreq   = 1200.0
	KeypressAmplitude = 0.35
)

// Message Send Sound: rising sweep
const (
	SendDuration  = 120 * time.Millisecond
	SendStartFreq = 600.0
	SendEndFreq   = 1200.0
)

// Message Receive Sound: two-note chime, A5 then E6
const (
	ReceiveNote1Freq     = 880.0
	ReceiveNote1Duration = 70 * time.Millisecond
	ReceiveNote2Freq     = 1318.51
	ReceiveNote2Duration = 110 * time.Millisecond
)

// Error Sound: falling buzz gated into pulses
const (
	ErrorDuration  = 270 * time.Millisecond
	ErrorStartFreq = 220.0
	ErrorEndFreq   = 110.0
	ErrorPulses    = 3
)

// Success Sound: C major arpeggio
const (
	SuccessNoteDuration = 80 * time.Millisecond
	SuccessNote1Freq    = 523.25
	SuccessNote2Freq    = 659.25
	SuccessNote3Freq    = 783.99
)

// Notification Sound: double beep
const (
	NotificationDuration = 200 * time.Millisecond
	NotificationFreq     = 1000.0
	NotificationPulses   = 2
)

// Boot Start Sound: POST sweep
const (
	BootStartDuration  = 600 * time.Millisecond
	BootStartStartFreq = 110.0
	BootStartEndFreq   = 880.0
)

// Boot Complete Sound: ascending fanfare
const (
	BootCompleteNoteDuration = 120 * time.Millisecond
	BootCompleteNote1Freq    = 523.25
	BootCompleteNote2Freq    = 783.99
	BootCompleteNote3Freq    = 1046.5
)

// Disk Access Sound: head seek chatter
const (
	DiskAccessDuration = 300 * time.Millisecond
	DiskAccessPulses   = 6
	DiskAccessLevel    = 0.5
)

// Pack shaping
const (
	DefaultToneAmplitude = 0.6
	SoftPackAmplitude    = 0.8   // Triangle pack is gentler overall
	PCSpeakerNoiseFreq   = 150.0 // Square buzz standing in for noise on a 1-bit speaker
)
