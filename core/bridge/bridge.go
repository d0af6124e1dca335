// Package bridge exposes a native speech engine's callback driven API as
// plain Go calls. Engine callbacks are relayed to a single registered
// [Handler] under an execution lock, and Stop waits for in-flight callbacks
// before canceling the engine.
package bridge

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/koscakluka/ema-espeak/core/engine"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Bridge struct {
	engine engine.Engine
	state  *State
	relay  *relay

	lock           ExecutionLock
	callerHeldLock bool

	stopWarnInterval time.Duration
	stopMu           sync.Mutex

	initMu      sync.Mutex
	initialized atomic.Bool
	sampleRate  atomic.Int64
	mode        atomic.Int64
}

// New returns a bridge driving e. Init must succeed before any other engine
// command is accepted.
func New(e engine.Engine, opts ...Option) *Bridge {
	b := &Bridge{
		engine:           e,
		state:            NewState(),
		lock:             NewExecutionLock(),
		stopWarnInterval: DefaultStopWarnInterval,
	}

	for _, opt := range opts {
		opt(b)
	}

	b.relay = &relay{state: b.state, lock: b.lock}
	return b
}

// Init initializes the engine and registers the relay as its callback.
//
// Synchronous and playback select one of the four engine output modes; with
// no options the engine plays audio asynchronously. A
// failed Init leaves the bridge uninitialized and is reported as
// [ErrInitialization].
func (b *Bridge) Init(ctx context.Context, opts ...InitOption) error {
	options := InitOptions{Playback: true, BufferLength: DefaultBufferLength}
	for _, opt := range opts {
		opt(&options)
	}
	mode := options.outputMode()

	ctx, span := tracer.Start(ctx, "bridge.init", trace.WithAttributes(
		attribute.String("output_mode", mode.String()),
		attribute.Int("buffer_length", options.BufferLength),
	))
	defer span.End()

	b.initMu.Lock()
	defer b.initMu.Unlock()

	sampleRate := b.engine.Initialize(mode, options.BufferLength, options.DataPath, 0)
	if sampleRate < 0 {
		b.initialized.Store(false)
		return recordError(span, fmt.Errorf("%w: engine returned %d", ErrInitialization, sampleRate))
	}

	b.sampleRate.Store(int64(sampleRate))
	b.mode.Store(int64(mode))
	b.engine.SetSynthCallback(b.relay.handleBatch)
	b.initialized.Store(true)

	logger.InfoContext(ctx, "espeak initialized", "output_mode", mode.String(), "sample_rate", sampleRate)
	return nil
}

// Synth queues text for synthesis. In synchronous modes every notification
// for text is delivered before Synth returns.
func (b *Bridge) Synth(ctx context.Context, text string, opts ...SynthOption) error {
	ctx, span := tracer.Start(ctx, "bridge.synth", trace.WithAttributes(attribute.Int("text.length", len(text))))
	defer span.End()

	if err := b.ready(); err != nil {
		return recordError(span, err)
	}

	var options SynthOptions
	for _, opt := range opts {
		opt(&options)
	}

	if strings.ContainsRune(text, 0) {
		return recordError(span, invalidArgument("text", "contains a NUL character"))
	}
	if options.StartPosition < 0 {
		return recordError(span, invalidArgument("position", "must not be negative"))
	}
	if options.EndPosition < 0 {
		return recordError(span, invalidArgument("end_position", "must not be negative"))
	}

	var result engine.Result
	b.withoutCallerLock(func() {
		result = b.engine.Synth(text, len(text)+1,
			uint(options.StartPosition), engine.PositionCharacter, uint(options.EndPosition),
			options.flags(), options.UserData)
	})
	if err := resultError(result); err != nil {
		logger.WarnContext(ctx, "synth rejected by engine", "result", result.String())
		return recordError(span, err)
	}

	return nil
}

// Playing reports whether the engine is still producing or playing speech.
func (b *Bridge) Playing() bool {
	if b.ready() != nil {
		return false
	}
	return b.engine.IsPlaying()
}

// SetSynthCallback registers handler, replacing any previous one. A nil
// handler deactivates the relay.
func (b *Bridge) SetSynthCallback(handler Handler) error {
	if handler != nil && isNilHandler(handler) {
		return invalidArgument("callback", "not callable")
	}

	b.state.SetHandler(handler)
	return nil
}

// SetVoice selects the voice best matching selection.
func (b *Bridge) SetVoice(selection VoiceSelection) error {
	if !selection.Gender.Valid() {
		return invalidArgument("gender", fmt.Sprintf("unknown gender %d", selection.Gender))
	}
	if selection.Age < 0 {
		return invalidArgument("age", "must not be negative")
	}
	if selection.Variant < 0 {
		return invalidArgument("variant", "must not be negative")
	}
	if err := b.ready(); err != nil {
		return err
	}

	result := b.engine.SetVoiceByProperties(engine.VoiceSpec{
		Name:     selection.Name,
		Language: selection.Language,
		Gender:   selection.Gender,
		Age:      selection.Age,
		Variant:  selection.Variant,
	})
	if result == engine.ResultNotFound {
		return ErrVoiceNotFound
	}
	return resultError(result)
}

// SetParameter sets parameter to value, or adds value to the current setting
// when relative is true.
func (b *Bridge) SetParameter(parameter engine.Parameter, value int, relative bool) error {
	if !parameter.Valid() {
		return invalidArgument("parameter", fmt.Sprintf("unknown parameter %d", parameter))
	}
	if err := b.ready(); err != nil {
		return err
	}

	return resultError(b.engine.SetParameter(parameter, value, relative))
}

// GetParameter returns the current value of parameter, or its default when
// current is false.
func (b *Bridge) GetParameter(parameter engine.Parameter, current bool) (int, error) {
	if !parameter.Valid() {
		return 0, invalidArgument("parameter", fmt.Sprintf("unknown parameter %d", parameter))
	}
	if err := b.ready(); err != nil {
		return 0, err
	}

	return b.engine.GetParameter(parameter, current), nil
}

// DefaultParameters snapshots the default value of every parameter.
func (b *Bridge) DefaultParameters() (Parameters, error) {
	var parameters Parameters
	for _, parameter := range engine.Parameters() {
		value, err := b.GetParameter(parameter, false)
		if err != nil {
			return Parameters{}, err
		}
		parameters.Set(parameter, value)
	}
	return parameters, nil
}

// ListVoices returns the installed voices in engine order.
func (b *Bridge) ListVoices() []VoiceInfo {
	if b.ready() != nil {
		return nil
	}

	voices := []VoiceInfo{}
	for _, voice := range b.engine.ListVoices(nil) {
		if voice == nil {
			break
		}
		voices = append(voices, VoiceInfo{
			Name:       voice.Name,
			Languages:  append([]string(nil), voice.Languages...),
			Identifier: voice.Identifier,
			Gender:     voice.Gender,
			Age:        voice.Age,
		})
	}
	return voices
}

// SetWaveFilename makes the relay write the raw audio of every batch to path,
// replacing the previous contents.
func (b *Bridge) SetWaveFilename(path string) error {
	if path == "" {
		return invalidArgument("filename", "must not be empty")
	}
	b.state.SetCapturePath(path)
	return nil
}

func (b *Bridge) WaveFilename() (string, bool) {
	return b.state.CapturePath()
}

func (b *Bridge) ClearWaveFilename() {
	b.state.ClearCapturePath()
}

// SampleRate is the rate reported by the engine on Init, 0 before.
func (b *Bridge) SampleRate() int {
	return int(b.sampleRate.Load())
}

func (b *Bridge) OutputMode() engine.OutputMode {
	return engine.OutputMode(b.mode.Load())
}

// Close drops the handler and terminates the engine. Commands issued after
// Close return [ErrNotInitialized] until Init succeeds again.
func (b *Bridge) Close(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "bridge.close")
	defer span.End()

	b.initMu.Lock()
	defer b.initMu.Unlock()

	b.state.SetHandler(nil)
	if !b.initialized.Swap(false) {
		return nil
	}

	if err := resultError(b.engine.Terminate()); err != nil {
		return recordError(span, fmt.Errorf("failed to terminate engine: %w", err))
	}

	logger.InfoContext(ctx, "espeak terminated")
	return nil
}

func (b *Bridge) ready() error {
	if !b.initialized.Load() {
		return ErrNotInitialized
	}
	return nil
}

// withoutCallerLock runs f with the caller's execution lock released when the
// bridge was configured with WithCallerHeldLock.
func (b *Bridge) withoutCallerLock(f func()) {
	if !b.callerHeldLock {
		f()
		return
	}

	b.lock.Release()
	defer b.lock.Acquire()
	f()
}
