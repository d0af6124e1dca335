// Package speaker lets several independently configured speakers share the
// single process-wide engine. Only one speaker talks at a time; a speaker
// starting to talk interrupts the current one.
package speaker

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Commander is the part of [bridge.Bridge] the director drives.
type Commander interface {
	Synth(ctx context.Context, text string, opts ...bridge.SynthOption) error
	Stop(ctx context.Context) error
	Playing() bool
	SetParameter(parameter engine.Parameter, value int, relative bool) error
	SetVoice(selection bridge.VoiceSelection) error
	SetSynthCallback(handler bridge.Handler) error
	DefaultParameters() (bridge.Parameters, error)
}

// Callback receives every notification produced while its owner is the
// current speaker. It runs on the engine's worker and must not call back into
// the director or the bridge.
type Callback func(notification bridge.Notification)

// Director routes notifications to the callbacks of the current speaker.
type Director struct {
	bridge   Commander
	defaults bridge.Parameters

	// current is nil while direct calls own the engine.
	current atomic.Pointer[Speaker]

	callbacksMu sync.RWMutex
	callbacks   map[string][]Callback

	// switchMu serializes speaker switches. It is never taken by the
	// notification path.
	switchMu sync.Mutex

	onSwitch func(previous, current string)
}

type DirectorOption func(*Director)

// WithSwitchHook is called after the current speaker changed, with the IDs of
// the previous and new speaker. Direct calls have an empty ID.
func WithSwitchHook(hook func(previous, current string)) DirectorOption {
	return func(d *Director) { d.onSwitch = hook }
}

// NewDirector registers the director as b's synth callback.
func NewDirector(b Commander, opts ...DirectorOption) (*Director, error) {
	defaults, err := b.DefaultParameters()
	if err != nil {
		return nil, fmt.Errorf("failed to read default parameters: %w", err)
	}

	d := &Director{
		bridge:    b,
		defaults:  defaults,
		callbacks: map[string][]Callback{},
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := b.SetSynthCallback(d); err != nil {
		return nil, fmt.Errorf("failed to register synth callback: %w", err)
	}
	return d, nil
}

// HandleSynthEvent fans notification out to the current speaker's callbacks.
// A panicking callback is logged and does not affect the others.
func (d *Director) HandleSynthEvent(notification bridge.Notification) bridge.Continuation {
	id := ""
	if current := d.current.Load(); current != nil {
		id = current.ID
	}

	d.callbacksMu.RLock()
	callbacks := append([]Callback(nil), d.callbacks[id]...)
	d.callbacksMu.RUnlock()

	for _, callback := range callbacks {
		d.invoke(callback, notification)
	}
	return bridge.Continue
}

func (d *Director) invoke(callback Callback, notification bridge.Notification) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("speaker callback panicked", "kind", notification.Kind.String(), "panic", recovered)
		}
	}()
	callback(notification)
}

// AddCallback registers a callback for direct calls made outside any
// speaker.
func (d *Director) AddCallback(callback Callback) {
	d.addCallback("", callback)
}

func (d *Director) addCallback(id string, callback Callback) {
	d.callbacksMu.Lock()
	defer d.callbacksMu.Unlock()
	d.callbacks[id] = append(d.callbacks[id], callback)
}

func (d *Director) removeCallbacks(id string) {
	d.callbacksMu.Lock()
	defer d.callbacksMu.Unlock()
	delete(d.callbacks, id)
}

// Current returns the current speaker, nil for direct calls.
func (d *Director) Current() *Speaker {
	return d.current.Load()
}

// SetSpeaker makes speaker current, stopping whatever is playing. A nil
// speaker hands the engine back to direct calls.
func (d *Director) SetSpeaker(ctx context.Context, speaker *Speaker) error {
	d.switchMu.Lock()
	defer d.switchMu.Unlock()
	return d.setSpeaker(ctx, speaker)
}

func (d *Director) setSpeaker(ctx context.Context, speaker *Speaker) error {
	previous := d.current.Load()

	ctx, span := tracer.Start(ctx, "speaker.switch", trace.WithAttributes(
		attribute.String("speaker.previous", idOf(previous)),
		attribute.String("speaker.current", idOf(speaker)),
	))
	defer span.End()

	if d.bridge.Playing() {
		if err := d.bridge.Stop(ctx); err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to stop current speech: %w", err)
		}
	}
	d.current.Store(speaker)

	if previous != speaker {
		logger.DebugContext(ctx, "speaker switched", "previous", idOf(previous), "current", idOf(speaker))
		if d.onSwitch != nil {
			d.onSwitch(idOf(previous), idOf(speaker))
		}
	}
	return nil
}

// Say speaks text directly, outside any speaker.
func (d *Director) Say(ctx context.Context, text string, opts ...bridge.SynthOption) error {
	d.switchMu.Lock()
	defer d.switchMu.Unlock()

	if err := d.setSpeaker(ctx, nil); err != nil {
		return err
	}
	return d.bridge.Synth(ctx, text, opts...)
}

// Stop stops whatever is playing without changing the current speaker.
func (d *Director) Stop(ctx context.Context) error {
	return d.bridge.Stop(ctx)
}

func idOf(speaker *Speaker) string {
	if speaker == nil {
		return ""
	}
	return speaker.ID
}
