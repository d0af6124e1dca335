package engine

// EventType identifies the kind of a synthesis event.
type EventType int

const (
	// EventListTerminated is the sentinel closing every event batch.
	EventListTerminated EventType = 0
	EventWord           EventType = 1
	EventSentence       EventType = 2
	EventMark           EventType = 3
	EventPlay           EventType = 4
	EventEnd            EventType = 5
	EventMsgTerminated  EventType = 6
	EventPhoneme        EventType = 7
	EventSampleRate     EventType = 8
)

var eventTypeNames = map[EventType]string{
	EventListTerminated: "LIST_TERMINATED",
	EventWord:           "WORD",
	EventSentence:       "SENTENCE",
	EventMark:           "MARK",
	EventPlay:           "PLAY",
	EventEnd:            "END",
	EventMsgTerminated:  "MSG_TERMINATED",
	EventPhoneme:        "PHONEME",
	EventSampleRate:     "SAMPLE_RATE",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// EventTypes lists every event type in numeric order.
func EventTypes() []EventType {
	return []EventType{
		EventListTerminated, EventWord, EventSentence, EventMark, EventPlay,
		EventEnd, EventMsgTerminated, EventPhoneme, EventSampleRate,
	}
}

// Event is one entry of a batch delivered to a [SynthCallback].
type Event struct {
	Type EventType
	// UniqueIdentifier is the message identifier assigned by Synth.
	UniqueIdentifier uint
	// TextPosition is the character position in the text, starting at 1.
	TextPosition int
	// Length of the word in characters for word events.
	Length int
	// AudioPosition is the time in milliseconds within the generated speech.
	AudioPosition int
	// Sample is the sample id of the event.
	Sample   int
	UserData any

	// Name is set for EventMark and EventPlay.
	Name string
	// Number is set for EventSampleRate (Hz) and EventPhoneme (packed
	// phoneme mnemonic).
	Number int
}
