// Package engine describes the native speech-synthesis capability the bridge
// drives. Numeric values mirror libespeak's speak_lib.h so that a binding can
// pass them through unchanged.
package engine

// SynthCallback receives one batch of synthesis output from the engine's
// worker. samples is the audio produced for the batch (may be empty) and events
// is terminated by an [EventListTerminated] entry. Both slices are owned by the
// engine and are only valid for the duration of the call.
//
// Returning true asks the engine to abort the current synthesis.
type SynthCallback func(samples []int16, events []Event) (abort bool)

// Engine is the native synthesizer. Implementations deliver callbacks on their
// own worker and never invoke the callback concurrently with itself.
type Engine interface {
	// Initialize prepares the engine for the given output mode. bufferLength is
	// the length in milliseconds of the sound buffer passed to the callback. It
	// returns the sample rate in Hz, or a negative value on failure.
	Initialize(output OutputMode, bufferLength int, dataPath string, options int) int
	SetSynthCallback(callback SynthCallback)

	// Synth queues text for synthesis. size is the text length including the
	// terminating zero, positions are interpreted according to positionType
	// and an endPosition of 0 means the end of the text.
	Synth(text string, size int, position uint, positionType PositionType, endPosition uint, flags SynthFlags, userData any) Result
	// Cancel stops synthesis and discards all queued text. No callback for the
	// canceled text is delivered after Cancel returns.
	Cancel() Result
	IsPlaying() bool

	SetParameter(parameter Parameter, value int, relative bool) Result
	GetParameter(parameter Parameter, current bool) int

	SetVoiceByProperties(spec VoiceSpec) Result
	// ListVoices returns the voice table terminated by a nil entry. A nil spec
	// lists every voice.
	ListVoices(spec *VoiceSpec) []*Voice

	Terminate() Result
}

// Result is the status code returned by engine commands.
type Result int

const (
	ResultOK            Result = 0
	ResultInternalError Result = -1
	ResultBufferFull    Result = 1
	ResultNotFound      Result = 2
)

func (r Result) String() string {
	switch r {
	case ResultOK:
		return "EE_OK"
	case ResultInternalError:
		return "EE_INTERNAL_ERROR"
	case ResultBufferFull:
		return "EE_BUFFER_FULL"
	case ResultNotFound:
		return "EE_NOT_FOUND"
	}
	return "EE_UNKNOWN"
}
