package bridge

import (
	"reflect"

	"github.com/koscakluka/ema-espeak/core/engine"
)

// Continuation is the handler's answer to an event.
type Continuation int

const (
	// Continue keeps the current synthesis going.
	Continue Continuation = iota
	// Abort asks the engine to terminate the current synthesis. No further
	// event of the batch is dispatched.
	Abort
)

func (c Continuation) String() string {
	if c == Abort {
		return "abort"
	}
	return "continue"
}

// ContinuationOf maps a truthy/falsy handler result onto a Continuation.
func ContinuationOf(proceed bool) Continuation {
	if proceed {
		return Continue
	}
	return Abort
}

// Notification is the plain data record handed to a [Handler] for one
// synthesis event. It never references engine-owned memory.
type Notification struct {
	Kind     engine.EventType `json:"kind" jsonschema:"title=Kind,description=Event kind as defined by the engine"`
	Position int              `json:"position" jsonschema:"title=Position,description=Character position in the text starting at 1"`
	Length   int              `json:"length" jsonschema:"title=Length,description=Length of the word in characters"`
	// SampleCount and Audio are only set for the terminal event of a batch.
	SampleCount int `json:"sample_count" jsonschema:"title=Sample count,description=Number of 16-bit samples delivered with the batch"`
	// Name is the mark or play name, or the sample rate formatted as a
	// decimal string. Empty when the event carries no name.
	Name string `json:"name,omitempty" jsonschema:"title=Name,description=Mark or play name or the sample rate in Hz"`

	Audio    []byte `json:"-"`
	UserData any    `json:"-"`
}

// Handler receives synthesis notifications on the engine's worker.
//
// Handlers run while the bridge holds the execution lock and must not call
// back into the [Bridge]; return Abort to stop synthesis instead.
type Handler interface {
	HandleSynthEvent(Notification) Continuation
}

type HandlerFunc func(Notification) Continuation

func (f HandlerFunc) HandleSynthEvent(notification Notification) Continuation {
	return f(notification)
}

// PredicateFunc adapts a handler returning a continuation boolean, where false
// aborts synthesis.
type PredicateFunc func(Notification) bool

func (f PredicateFunc) HandleSynthEvent(notification Notification) Continuation {
	return ContinuationOf(f(notification))
}

func isNilHandler(handler Handler) bool {
	if handler == nil {
		return true
	}

	v := reflect.ValueOf(handler)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}
