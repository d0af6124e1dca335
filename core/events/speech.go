package events

const (
	// KindSampleRateReported identifies the engine's output sample rate.
	KindSampleRateReported Kind = "speech.sample_rate"
	// KindSentenceStarted identifies the start of a sentence.
	KindSentenceStarted Kind = "speech.sentence"
	// KindWordStarted identifies the start of a word.
	KindWordStarted Kind = "speech.word"
	// KindMarkReached identifies a reached SSML mark.
	KindMarkReached Kind = "speech.mark"
	// KindAudioElementReached identifies a reached SSML audio element.
	KindAudioElementReached Kind = "speech.play"
	// KindClauseEnded identifies the end of a sentence or clause.
	KindClauseEnded Kind = "speech.end"
	// KindPhonemeSpoken identifies a spoken phoneme.
	KindPhonemeSpoken Kind = "speech.phoneme"
	// KindMessageTerminated identifies the end of an utterance.
	KindMessageTerminated Kind = "speech.message_terminated"
)

// SampleRateReported carries the engine's output sample rate.
type SampleRateReported struct {
	Base
	SampleRate int `json:"sample_rate"`
}

func NewSampleRateReported(sampleRate int) SampleRateReported {
	return SampleRateReported{Base: NewBase(KindSampleRateReported), SampleRate: sampleRate}
}

// SentenceStarted marks the start of a sentence.
type SentenceStarted struct {
	Base
	Position int `json:"position"`
}

func NewSentenceStarted(position int) SentenceStarted {
	return SentenceStarted{Base: NewBase(KindSentenceStarted), Position: position}
}

// WordStarted marks the start of a word.
type WordStarted struct {
	Base
	Position int `json:"position"`
	Length   int `json:"length"`
}

func NewWordStarted(position, length int) WordStarted {
	return WordStarted{Base: NewBase(KindWordStarted), Position: position, Length: length}
}

// MarkReached marks a reached SSML mark.
type MarkReached struct {
	Base
	Position int    `json:"position"`
	Name     string `json:"name"`
}

func NewMarkReached(position int, name string) MarkReached {
	return MarkReached{Base: NewBase(KindMarkReached), Position: position, Name: name}
}

// AudioElementReached marks a reached SSML audio element.
type AudioElementReached struct {
	Base
	Position int    `json:"position"`
	Name     string `json:"name"`
}

func NewAudioElementReached(position int, name string) AudioElementReached {
	return AudioElementReached{Base: NewBase(KindAudioElementReached), Position: position, Name: name}
}

// ClauseEnded marks the end of a sentence or clause.
type ClauseEnded struct {
	Base
	Position int `json:"position"`
}

func NewClauseEnded(position int) ClauseEnded {
	return ClauseEnded{Base: NewBase(KindClauseEnded), Position: position}
}

// PhonemeSpoken marks a spoken phoneme.
type PhonemeSpoken struct {
	Base
	Position int `json:"position"`
}

func NewPhonemeSpoken(position int) PhonemeSpoken {
	return PhonemeSpoken{Base: NewBase(KindPhonemeSpoken), Position: position}
}

// MessageTerminated marks the end of an utterance.
type MessageTerminated struct{ Base }

func NewMessageTerminated() MessageTerminated {
	return MessageTerminated{Base: NewBase(KindMessageTerminated)}
}
