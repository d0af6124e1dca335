package bridge

import (
	"time"

	"github.com/koscakluka/ema-espeak/core/engine"
)

const (
	DefaultBufferLength     = 400
	DefaultStopWarnInterval = 2 * time.Second
)

type Option func(*Bridge)

// WithExecutionLock replaces the bridge's private execution lock.
func WithExecutionLock(lock ExecutionLock) Option {
	return func(b *Bridge) {
		if lock != nil {
			b.lock = lock
		}
	}
}

// WithCallerHeldLock declares that callers hold lock while they issue
// commands. The bridge then releases it while Stop waits for the relay and
// around the native Synth call, and re-acquires it before returning.
func WithCallerHeldLock(lock ExecutionLock) Option {
	return func(b *Bridge) {
		if lock != nil {
			b.lock = lock
			b.callerHeldLock = true
		}
	}
}

// WithStopWarnInterval sets how often Stop logs while the relay is still
// dispatching.
func WithStopWarnInterval(interval time.Duration) Option {
	return func(b *Bridge) {
		if interval > 0 {
			b.stopWarnInterval = interval
		}
	}
}

// WithState shares state with another component, mainly for tests.
func WithState(state *State) Option {
	return func(b *Bridge) {
		if state != nil {
			b.state = state
		}
	}
}

type InitOptions struct {
	Synchronous  bool
	Playback     bool
	BufferLength int
	DataPath     string
}

type InitOption func(*InitOptions)

// WithSynchronous makes Synth deliver every callback before it returns.
func WithSynchronous(synchronous bool) InitOption {
	return func(o *InitOptions) { o.Synchronous = synchronous }
}

// WithPlayback makes the engine play audio itself. It defaults to true;
// WithPlayback(false) hands the audio to the callback instead.
func WithPlayback(playback bool) InitOption {
	return func(o *InitOptions) { o.Playback = playback }
}

// WithBufferLength sets the callback buffer length in milliseconds.
func WithBufferLength(milliseconds int) InitOption {
	return func(o *InitOptions) {
		if milliseconds > 0 {
			o.BufferLength = milliseconds
		}
	}
}

func WithDataPath(path string) InitOption {
	return func(o *InitOptions) { o.DataPath = path }
}

func (o InitOptions) outputMode() engine.OutputMode {
	switch {
	case o.Synchronous && o.Playback:
		return engine.OutputSynchPlayback
	case o.Synchronous:
		return engine.OutputSynchronous
	case o.Playback:
		return engine.OutputPlayback
	}
	return engine.OutputRetrieval
}

type SynthOptions struct {
	StartPosition int
	EndPosition   int
	SSML          bool
	Phonemes      bool
	EndPause      bool
	UserData      any
}

type SynthOption func(*SynthOptions)

func WithStartPosition(position int) SynthOption {
	return func(o *SynthOptions) { o.StartPosition = position }
}

// WithEndPosition bounds synthesis. Zero means the end of the text.
func WithEndPosition(position int) SynthOption {
	return func(o *SynthOptions) { o.EndPosition = position }
}

// WithSSML interprets the text as SSML markup.
func WithSSML(enabled bool) SynthOption {
	return func(o *SynthOptions) { o.SSML = enabled }
}

// WithPhonemes interprets [[...]] as phoneme mnemonics.
func WithPhonemes(enabled bool) SynthOption {
	return func(o *SynthOptions) { o.Phonemes = enabled }
}

// WithEndPause adds a sentence pause at the end of the text.
func WithEndPause(enabled bool) SynthOption {
	return func(o *SynthOptions) { o.EndPause = enabled }
}

// WithUserData attaches data that is handed back on every notification of
// this text.
func WithUserData(data any) SynthOption {
	return func(o *SynthOptions) { o.UserData = data }
}

func (o SynthOptions) flags() engine.SynthFlags {
	flags := engine.CharsAuto
	if o.SSML {
		flags |= engine.SSML
	}
	if o.Phonemes {
		flags |= engine.Phonemes
	}
	if o.EndPause {
		flags |= engine.EndPause
	}
	return flags
}

// VoiceSelection picks a voice by properties. Empty strings and zero numbers
// are left unset.
type VoiceSelection struct {
	Name     string        `json:"name,omitempty" jsonschema:"title=Name,description=Voice name such as default or en-us"`
	Language string        `json:"language,omitempty" jsonschema:"title=Language,description=Language code such as en-gb"`
	Gender   engine.Gender `json:"gender,omitempty" jsonschema:"title=Gender,description=0 unknown 1 male 2 female,enum=0,enum=1,enum=2"`
	Age      int           `json:"age,omitempty" jsonschema:"title=Age,minimum=0"`
	Variant  int           `json:"variant,omitempty" jsonschema:"title=Variant,minimum=0"`
}

// VoiceInfo describes one installed voice.
type VoiceInfo struct {
	Name       string        `json:"name"`
	Languages  []string      `json:"languages"`
	Identifier string        `json:"identifier"`
	Gender     engine.Gender `json:"gender"`
	Age        int           `json:"age"`
}

// Parameters is a snapshot of every public parameter.
type Parameters struct {
	Rate        int `json:"rate" jsonschema:"title=Rate,description=Speaking speed in words per minute"`
	Volume      int `json:"volume" jsonschema:"title=Volume,minimum=0"`
	Pitch       int `json:"pitch" jsonschema:"title=Pitch,minimum=0,maximum=100"`
	Range       int `json:"range" jsonschema:"title=Range,minimum=0,maximum=100"`
	Punctuation int `json:"punctuation" jsonschema:"title=Punctuation,enum=0,enum=1,enum=2"`
	Capitals    int `json:"capitals" jsonschema:"title=Capitals"`
	WordGap     int `json:"wordgap" jsonschema:"title=Word gap,description=Pause between words in units of 10ms"`
}

// Get returns the value stored for parameter.
func (p Parameters) Get(parameter engine.Parameter) int {
	switch parameter {
	case engine.ParameterRate:
		return p.Rate
	case engine.ParameterVolume:
		return p.Volume
	case engine.ParameterPitch:
		return p.Pitch
	case engine.ParameterRange:
		return p.Range
	case engine.ParameterPunctuation:
		return p.Punctuation
	case engine.ParameterCapitals:
		return p.Capitals
	case engine.ParameterWordGap:
		return p.WordGap
	}
	return 0
}

// Set stores value for parameter. Unknown parameters are ignored.
func (p *Parameters) Set(parameter engine.Parameter, value int) {
	switch parameter {
	case engine.ParameterRate:
		p.Rate = value
	case engine.ParameterVolume:
		p.Volume = value
	case engine.ParameterPitch:
		p.Pitch = value
	case engine.ParameterRange:
		p.Range = value
	case engine.ParameterPunctuation:
		p.Punctuation = value
	case engine.ParameterCapitals:
		p.Capitals = value
	case engine.ParameterWordGap:
		p.WordGap = value
	}
}
