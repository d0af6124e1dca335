package simulated

import "github.com/koscakluka/ema-espeak/core/engine"

// batch accumulates the events and audio of one callback invocation.
type batch struct {
	msg        *message
	sampleRate int
	limit      int

	samples []int16
	events  []engine.Event
}

func newBatch(msg *message, sampleRate, bufferLengthMs int) *batch {
	return &batch{
		msg:        msg,
		sampleRate: sampleRate,
		limit:      sampleRate * bufferLengthMs / 1000,
	}
}

// add appends event, positioned at the current end of the audio, followed by
// samples.
func (b *batch) add(event engine.Event, samples []int16) {
	event.UniqueIdentifier = b.msg.id
	event.UserData = b.msg.userData
	event.Sample = len(b.samples)
	event.AudioPosition = len(b.samples) * 1000 / b.sampleRate

	b.events = append(b.events, event)
	b.samples = append(b.samples, samples...)
}

func (b *batch) full() bool {
	return len(b.samples) >= b.limit
}

// take returns the batch terminated by the list sentinel and resets b.
func (b *batch) take() ([]int16, []engine.Event) {
	samples := b.samples
	events := append(b.events, engine.Event{
		Type:             engine.EventListTerminated,
		UniqueIdentifier: b.msg.id,
		UserData:         b.msg.userData,
	})

	b.samples = nil
	b.events = nil
	return samples, events
}
