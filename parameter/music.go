package parameter

// Tempo table, beats per minute
const (
	BPMSlow   = 100
	BPMNormal = 120
	BPMFast   = 150
)

// Cycle layout: four 4-beat bars
const (
	BeatsPerBar   = 4
	BarsPerCycle  = 4
	BeatsPerCycle = BeatsPerBar * BarsPerCycle // 16
)

// Scales as semitone offsets from the root
var (
	ScalePentatonicMajor = []int{0, 2, 4, 7, 9}
	ScaleNaturalMinor    = []int{0, 2, 3, 5, 7, 8, 10}
)

// MusicBaseFreq is the root for every mood, A3
const MusicBaseFreq = 220.0

// Layer octaves relative to the root
const (
	BassOctave = -1
	LeadOctave = 0
	ArpOctave  = 1
)

// LeadPattern holds scale-degree indices per bar, one per beat
// Indices wrap modulo the scale length
var LeadPattern = [BarsPerCycle][BeatsPerBar]int{
	{0, 2, 4, 2},
	{1, 3, 4, 3},
	{4, 2, 1, 0},
	{0, 1, 2, 0},
}

// BassPattern holds scale-degree indices per bar for beats 0 and 2
var BassPattern = [BarsPerCycle][2]int{
	{0, 4},
	{3, 0},
	{4, 2},
	{0, 4},
}

// ArpPattern cycles through chord tones on odd beats
var ArpPattern = []int{0, 2, 4, 2}

// Note lengths as a fraction of one beat
const (
	LeadNoteBeats = 0.9
	BassNoteBeats = 1.9
	ArpNoteBeats  = 0.45
)

// Mixing
const (
	LeadGain        = 0.5
	BassGain        = 0.7
	ArpGain         = 0.35
	MusicMasterGain = 0.3 // Applied on top of volume/100, keeps music under speech
)
