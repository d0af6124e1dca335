package events

import "time"

// Kind is a namespaced event name such as speech.word.
type Kind string

type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base is embedded by every synthesis event. It carries the kind, the time the
// notification was converted and the utterance the engine was synthesizing,
// which is the Synth user data rendered as a string.
type Base struct {
	kind      Kind
	timestamp time.Time
	Utterance string `json:"utterance,omitempty"`
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b *Base) tag(utterance string) {
	b.Utterance = utterance
}

func (b Base) utterance() string {
	return b.Utterance
}

// UtteranceOf returns the utterance event belongs to, or "" when the event
// was not produced from a tagged Synth call.
func UtteranceOf(event Event) string {
	if tagged, ok := event.(interface{ utterance() string }); ok {
		return tagged.utterance()
	}
	return ""
}

// withUtterance tags a freshly built event with the utterance it belongs to.
func withUtterance[E any, P interface {
	*E
	tag(string)
}](event E, utterance string) E {
	P(&event).tag(utterance)
	return event
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}

// Envelope is the wire form of an event.
type Envelope struct {
	Kind      Kind      `json:"kind" jsonschema:"title=Kind,description=Namespaced event kind"`
	Timestamp time.Time `json:"timestamp" jsonschema:"title=Timestamp"`
	Event     Event     `json:"event" jsonschema:"title=Event,description=Kind specific payload"`
}

func Wrap(event Event) Envelope {
	return Envelope{Kind: event.Kind(), Timestamp: event.Timestamp(), Event: event}
}
