package bridge

import (
	"context"
	"strconv"

	"github.com/koscakluka/ema-espeak/core/audio"
	"github.com/koscakluka/ema-espeak/core/engine"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// relay turns engine batches into handler notifications. It is registered as
// the engine's synth callback and runs on the engine's worker.
type relay struct {
	state *State
	lock  ExecutionLock
}

// handleBatch is the engine callback. The returned value asks the engine to
// abort the current synthesis.
func (r *relay) handleBatch(samples []int16, events []engine.Event) bool {
	if r.state.Handler() == nil || len(events) == 0 {
		return r.state.Stopping()
	}
	if !r.state.beginDispatch() {
		return true
	}
	defer r.state.endDispatch()

	terminal := terminalIndex(events)
	ctx := context.Background()

	for i, event := range events {
		if event.Type == engine.EventListTerminated || r.state.Stopping() {
			break
		}

		handler := r.state.Handler()
		if handler == nil {
			break
		}

		notification := notificationFrom(event)
		if i == terminal {
			notification.SampleCount = len(samples)
			if len(samples) > 0 {
				notification.Audio = audio.SamplesToBytes(samples)
				r.capture(notification.Audio)
			}
		}

		continuation := r.dispatch(handler, notification)
		eventsDispatched.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", event.Type.String())))
		if continuation == Abort {
			batchesAborted.Add(ctx, 1)
			return true
		}
	}

	return r.state.Stopping()
}

// dispatch calls handler while holding the execution lock. A panicking
// handler is logged and counts as Continue.
func (r *relay) dispatch(handler Handler, notification Notification) (continuation Continuation) {
	r.lock.Acquire()
	defer r.lock.Release()

	defer func() {
		if recovered := recover(); recovered != nil {
			handlerPanics.Add(context.Background(), 1)
			logger.Error("synth callback panicked",
				"kind", notification.Kind.String(),
				"position", notification.Position,
				"panic", recovered)
			continuation = Continue
		}
	}()

	return handler.HandleSynthEvent(notification)
}

func (r *relay) capture(pcm []byte) {
	path, ok := r.state.CapturePath()
	if !ok {
		return
	}

	if err := writeCapture(path, pcm); err != nil {
		captureFailures.Add(context.Background(), 1)
		logger.Warn("failed to capture synthesized audio", "path", path, "error", err)
	}
}

// terminalIndex is the index of the last event before the sentinel, or -1
// when the batch holds only the sentinel.
func terminalIndex(events []engine.Event) int {
	for i, event := range events {
		if event.Type == engine.EventListTerminated {
			return i - 1
		}
	}
	return len(events) - 1
}

func notificationFrom(event engine.Event) Notification {
	notification := Notification{
		Kind:     event.Type,
		Position: event.TextPosition,
		Length:   event.Length,
		UserData: event.UserData,
	}

	switch event.Type {
	case engine.EventMark, engine.EventPlay:
		notification.Name = event.Name
	case engine.EventSampleRate:
		notification.Name = strconv.Itoa(event.Number)
	}

	return notification
}
