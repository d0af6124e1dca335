package engine

// Parameter is a key accepted by SetParameter and GetParameter.
type Parameter int

const (
	ParameterSilence     Parameter = 0
	ParameterRate        Parameter = 1
	ParameterVolume      Parameter = 2
	ParameterPitch       Parameter = 3
	ParameterRange       Parameter = 4
	ParameterPunctuation Parameter = 5
	ParameterCapitals    Parameter = 6
	ParameterWordGap     Parameter = 7
)

var parameterNames = map[Parameter]string{
	ParameterSilence:     "SILENCE",
	ParameterRate:        "RATE",
	ParameterVolume:      "VOLUME",
	ParameterPitch:       "PITCH",
	ParameterRange:       "RANGE",
	ParameterPunctuation: "PUNCTUATION",
	ParameterCapitals:    "CAPITALS",
	ParameterWordGap:     "WORDGAP",
}

func (p Parameter) String() string {
	if name, ok := parameterNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// Parameters lists the keys exposed to callers. ParameterSilence is internal to
// the engine and deliberately absent.
func Parameters() []Parameter {
	return []Parameter{
		ParameterRate, ParameterVolume, ParameterPitch, ParameterRange,
		ParameterPunctuation, ParameterCapitals, ParameterWordGap,
	}
}

// Valid reports whether p is one of [Parameters].
func (p Parameter) Valid() bool {
	return p >= ParameterRate && p <= ParameterWordGap
}

// PunctuationType is the value of ParameterPunctuation.
type PunctuationType int

const (
	PunctuationNone PunctuationType = 0
	PunctuationAll  PunctuationType = 1
	PunctuationSome PunctuationType = 2
)

func (p PunctuationType) String() string {
	switch p {
	case PunctuationNone:
		return "NONE"
	case PunctuationAll:
		return "ALL"
	case PunctuationSome:
		return "SOME"
	}
	return "UNKNOWN"
}

// OutputMode selects how the engine delivers audio.
type OutputMode int

const (
	// OutputPlayback plays audio asynchronously; callbacks report progress.
	OutputPlayback OutputMode = 0
	// OutputRetrieval delivers audio asynchronously to the callback only.
	OutputRetrieval OutputMode = 1
	// OutputSynchronous delivers audio to the callback before Synth returns.
	OutputSynchronous OutputMode = 2
	// OutputSynchPlayback plays audio before Synth returns.
	OutputSynchPlayback OutputMode = 3
)

func (m OutputMode) String() string {
	switch m {
	case OutputPlayback:
		return "AUDIO_OUTPUT_PLAYBACK"
	case OutputRetrieval:
		return "AUDIO_OUTPUT_RETRIEVAL"
	case OutputSynchronous:
		return "AUDIO_OUTPUT_SYNCHRONOUS"
	case OutputSynchPlayback:
		return "AUDIO_OUTPUT_SYNCH_PLAYBACK"
	}
	return "AUDIO_OUTPUT_UNKNOWN"
}

// Synchronous reports whether Synth delivers callbacks before returning.
func (m OutputMode) Synchronous() bool {
	return m == OutputSynchronous || m == OutputSynchPlayback
}

// Plays reports whether the engine plays audio itself.
func (m OutputMode) Plays() bool {
	return m == OutputPlayback || m == OutputSynchPlayback
}

// PositionType tells Synth how to interpret start and end positions.
type PositionType int

const (
	PositionCharacter PositionType = 1
	PositionWord      PositionType = 2
	PositionSentence  PositionType = 3
)

// SynthFlags is the flag bitmask accepted by Synth.
type SynthFlags uint

const (
	CharsAuto  SynthFlags = 0
	CharsUTF8  SynthFlags = 1
	Chars8Bit  SynthFlags = 2
	CharsWChar SynthFlags = 3
	Chars16Bit SynthFlags = 4

	SSML     SynthFlags = 0x10
	Phonemes SynthFlags = 0x100
	EndPause SynthFlags = 0x1000
	KeepName SynthFlags = 0x2000

	charsMask SynthFlags = 0x7
)

// Has reports whether every bit of flag is set. The character encoding is
// compared as a value because CharsAuto is zero.
func (f SynthFlags) Has(flag SynthFlags) bool {
	if flag&charsMask == flag {
		return f&charsMask == flag
	}
	return f&flag == flag
}
