package events

const (
	// KindSpeechAudioFrame identifies PCM of a finished batch.
	KindSpeechAudioFrame Kind = "speech_audio.frame"
	// KindSpeechStopped identifies speech stopped before it terminated.
	KindSpeechStopped Kind = "speech_control.stopped"
	// KindSpeakerSwitched identifies a change of the active speaker.
	KindSpeakerSwitched Kind = "speech_control.speaker_switched"
)

// SpeechAudioFrame carries PCM of a finished batch.
type SpeechAudioFrame struct {
	Base
	SampleCount int    `json:"sample_count"`
	Audio       []byte `json:"-"`
}

func NewSpeechAudioFrame(audio []byte, sampleCount int) SpeechAudioFrame {
	return SpeechAudioFrame{Base: NewBase(KindSpeechAudioFrame), Audio: audio, SampleCount: sampleCount}
}

// SpeechStopped marks speech stopped on request.
type SpeechStopped struct{ Base }

func NewSpeechStopped() SpeechStopped {
	return SpeechStopped{Base: NewBase(KindSpeechStopped)}
}

// SpeakerSwitched marks another speaker taking over the engine.
type SpeakerSwitched struct {
	Base
	Previous string `json:"previous,omitempty"`
	Current  string `json:"current"`
}

func NewSpeakerSwitched(previous, current string) SpeakerSwitched {
	return SpeakerSwitched{Base: NewBase(KindSpeakerSwitched), Previous: previous, Current: current}
}
