// Package simulated is a pure Go [engine.Engine]. It does not synthesize
// speech: every word becomes a short tone. It follows libespeak's threading
// model closely enough to drive the bridge without the native library: a
// worker goroutine delivers batches in the asynchronous modes, Synth delivers
// them inline in the synchronous modes and Cancel returns only once no
// callback for canceled text can run.
package simulated

import (
	"maps"
	"sync"
	"sync/atomic"
	"time"

	"github.com/koscakluka/ema-espeak/core/audio"
	"github.com/koscakluka/ema-espeak/core/engine"
)

const (
	minRate = 80
	maxRate = 450

	sentencePauseMs = 120
	endPauseMs      = 250
)

var defaultParameters = map[engine.Parameter]int{
	engine.ParameterRate:        175,
	engine.ParameterVolume:      100,
	engine.ParameterPitch:       50,
	engine.ParameterRange:       50,
	engine.ParameterPunctuation: int(engine.PunctuationNone),
	engine.ParameterCapitals:    0,
	engine.ParameterWordGap:     0,
}

type message struct {
	id          uint
	generation  uint64
	text        string
	position    uint
	endPosition uint
	flags       engine.SynthFlags
	userData    any
}

type Engine struct {
	queueCapacity int
	sampleRate    int
	sink          AudioSink
	realtime      bool
	voices        []engine.Voice

	mu           sync.Mutex
	callback     engine.SynthCallback
	mode         engine.OutputMode
	bufferLength int
	parameters   map[engine.Parameter]int
	voice        engine.Voice
	nextID       uint
	queue        chan *message
	done         chan struct{}
	workerDone   chan struct{}

	// deliverMu is held while a batch is handed to the callback. Cancel
	// takes it to wait for an in-flight batch.
	deliverMu  sync.Mutex
	generation atomic.Uint64
	pending    atomic.Int64
}

func New(opts ...Option) *Engine {
	e := &Engine{
		queueCapacity: DefaultQueueCapacity,
		sampleRate:    DefaultSampleRate,
		voices:        DefaultVoices(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.voice = e.voices[0]
	e.parameters = maps.Clone(defaultParameters)
	return e
}

// Initialize starts the worker for the asynchronous output modes. Calling it
// again restarts the engine with the new settings.
func (e *Engine) Initialize(output engine.OutputMode, bufferLength int, dataPath string, options int) int {
	if output < engine.OutputPlayback || output > engine.OutputSynchPlayback || e.sampleRate <= 0 {
		return int(engine.ResultInternalError)
	}

	e.shutdown()

	e.mu.Lock()
	defer e.mu.Unlock()

	if bufferLength <= 0 {
		bufferLength = 200
	}
	e.mode = output
	e.bufferLength = bufferLength
	e.queue = make(chan *message, e.queueCapacity)

	if !output.Synchronous() {
		e.done = make(chan struct{})
		e.workerDone = make(chan struct{})
		go e.work(e.queue, e.done, e.workerDone)
	}

	logger.Info("simulated engine initialized",
		"output_mode", output.String(), "buffer_length", bufferLength, "sample_rate", e.sampleRate)
	return e.sampleRate
}

func (e *Engine) SetSynthCallback(callback engine.SynthCallback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callback = callback
}

func (e *Engine) Synth(text string, size int, position uint, positionType engine.PositionType, endPosition uint, flags engine.SynthFlags, userData any) engine.Result {
	e.mu.Lock()
	if e.queue == nil {
		e.mu.Unlock()
		return engine.ResultInternalError
	}
	if positionType != engine.PositionCharacter {
		// Word and sentence positions are not simulated.
		position, endPosition = 0, 0
	}

	e.nextID++
	msg := &message{
		id:          e.nextID,
		generation:  e.generation.Load(),
		text:        text,
		position:    position,
		endPosition: endPosition,
		flags:       flags,
		userData:    userData,
	}
	mode, queue := e.mode, e.queue
	e.mu.Unlock()

	if mode.Synchronous() {
		e.pending.Add(1)
		defer e.pending.Add(-1)
		e.speak(msg)
		return engine.ResultOK
	}

	e.pending.Add(1)
	select {
	case queue <- msg:
		return engine.ResultOK
	default:
		e.pending.Add(-1)
		return engine.ResultBufferFull
	}
}

// Cancel drops queued text and waits for an in-flight batch to be handed
// back by the callback.
func (e *Engine) Cancel() engine.Result {
	e.generation.Add(1)

	e.mu.Lock()
	queue := e.queue
	e.mu.Unlock()

	e.drain(queue)

	e.deliverMu.Lock()
	e.deliverMu.Unlock()
	return engine.ResultOK
}

func (e *Engine) IsPlaying() bool {
	return e.pending.Load() > 0
}

func (e *Engine) SetParameter(parameter engine.Parameter, value int, relative bool) engine.Result {
	if _, ok := defaultParameters[parameter]; !ok {
		return engine.ResultInternalError
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if relative {
		value += e.parameters[parameter]
	}
	e.parameters[parameter] = clampParameter(parameter, value)
	return engine.ResultOK
}

func (e *Engine) GetParameter(parameter engine.Parameter, current bool) int {
	if !current {
		return defaultParameters[parameter]
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.parameters[parameter]
}

func (e *Engine) SetVoiceByProperties(spec engine.VoiceSpec) engine.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	matching := []engine.Voice{}
	for _, voice := range e.voices {
		if matches(voice, spec) {
			matching = append(matching, voice)
		}
	}
	if len(matching) == 0 {
		return engine.ResultNotFound
	}

	e.voice = matching[spec.Variant%len(matching)]
	return engine.ResultOK
}

// Voice returns the currently selected voice.
func (e *Engine) Voice() engine.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voice
}

func (e *Engine) ListVoices(spec *engine.VoiceSpec) []*engine.Voice {
	e.mu.Lock()
	defer e.mu.Unlock()

	voices := []*engine.Voice{}
	for i := range e.voices {
		if spec != nil && !matches(e.voices[i], *spec) {
			continue
		}
		voice := e.voices[i]
		voice.Languages = append([]string(nil), voice.Languages...)
		voices = append(voices, &voice)
	}
	return append(voices, nil)
}

// Terminate cancels pending speech and stops the worker.
func (e *Engine) Terminate() engine.Result {
	e.Cancel()
	e.shutdown()

	e.mu.Lock()
	e.queue = nil
	e.mu.Unlock()
	return engine.ResultOK
}

func (e *Engine) shutdown() {
	e.mu.Lock()
	done, workerDone := e.done, e.workerDone
	e.done, e.workerDone = nil, nil
	e.mu.Unlock()

	if done == nil {
		return
	}
	e.generation.Add(1)
	close(done)
	<-workerDone

	e.mu.Lock()
	queue := e.queue
	e.mu.Unlock()
	e.drain(queue)
}

func (e *Engine) drain(queue chan *message) {
	if queue == nil {
		return
	}
	for {
		select {
		case <-queue:
			e.pending.Add(-1)
		default:
			return
		}
	}
}

func (e *Engine) work(queue <-chan *message, done <-chan struct{}, workerDone chan<- struct{}) {
	defer close(workerDone)

	for {
		select {
		case <-done:
			return
		case msg := <-queue:
			e.speak(msg)
			e.pending.Add(-1)
		}
	}
}

type settings struct {
	mode         engine.OutputMode
	bufferLength int
	parameters   map[engine.Parameter]int
	voice        engine.Voice
}

func (e *Engine) snapshot() settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return settings{
		mode:         e.mode,
		bufferLength: e.bufferLength,
		parameters:   maps.Clone(e.parameters),
		voice:        e.voice,
	}
}

// speak renders msg into batches of roughly bufferLength milliseconds and
// delivers them until the text ends, the callback aborts or msg is
// canceled.
func (e *Engine) speak(msg *message) {
	s := e.snapshot()
	batch := newBatch(msg, e.sampleRate, s.bufferLength)
	batch.add(engine.Event{Type: engine.EventSampleRate, Number: e.sampleRate}, nil)

	rate := s.parameters[engine.ParameterRate]
	frequency := float64(pitchBase(s.voice) + s.parameters[engine.ParameterPitch]*2)
	amplitude := min(s.parameters[engine.ParameterVolume]*120, 30000)
	wordGapMs := s.parameters[engine.ParameterWordGap] * 10

	for _, t := range tokenize(msg.text, msg.flags.Has(engine.SSML), msg.flags.Has(engine.Phonemes)) {
		if !within(t.position, msg.position, msg.endPosition) {
			continue
		}

		switch t.kind {
		case tokenSentence:
			batch.add(engine.Event{Type: engine.EventSentence, TextPosition: t.position}, nil)
		case tokenMark:
			batch.add(engine.Event{Type: engine.EventMark, TextPosition: t.position, Name: t.name}, nil)
		case tokenWord, tokenPhonemes:
			durationMs := wordDuration(rate, t.length)
			samples := tone(e.sampleRate, durationMs, frequency, amplitude)
			samples = append(samples, silence(e.sampleRate, wordGapMs+20)...)
			batch.add(engine.Event{Type: engine.EventWord, TextPosition: t.position, Length: t.length}, samples)
		case tokenEnd:
			batch.add(engine.Event{Type: engine.EventEnd, TextPosition: t.position}, silence(e.sampleRate, sentencePauseMs))
		}

		if batch.full() && !e.flush(batch, s.mode) {
			return
		}
	}

	if msg.flags.Has(engine.EndPause) {
		batch.samples = append(batch.samples, silence(e.sampleRate, endPauseMs)...)
	}
	batch.add(engine.Event{Type: engine.EventMsgTerminated}, nil)
	e.flush(batch, s.mode)
}

// flush hands the batch to the callback and plays or paces its audio. It
// reports whether synthesis of the message should continue.
func (e *Engine) flush(b *batch, mode engine.OutputMode) bool {
	samples, events := b.take()
	msg := b.msg

	if mode.Plays() || e.realtime {
		if !e.pace(msg, len(samples)) {
			return false
		}
	}
	if mode.Plays() {
		if e.sink != nil && len(samples) > 0 {
			e.sink.PlayAudio(audio.SamplesToBytes(samples))
		}
		samples = nil
	}

	e.deliverMu.Lock()
	defer e.deliverMu.Unlock()

	if msg.generation != e.generation.Load() {
		return false
	}

	e.mu.Lock()
	callback := e.callback
	e.mu.Unlock()
	if callback == nil {
		return true
	}

	return !callback(samples, events)
}

// pace sleeps for the play time of n samples, giving up early when msg is
// canceled.
func (e *Engine) pace(msg *message, n int) bool {
	const step = 10 * time.Millisecond

	remaining := time.Duration(n) * time.Second / time.Duration(e.sampleRate)
	for remaining > 0 {
		if msg.generation != e.generation.Load() {
			return false
		}
		sleep := min(step, remaining)
		time.Sleep(sleep)
		remaining -= sleep
	}
	return msg.generation == e.generation.Load()
}

func wordDuration(rate, length int) int {
	if rate <= 0 {
		rate = defaultParameters[engine.ParameterRate]
	}
	// Roughly five characters per word at the configured words per minute.
	return 60000 * max(length, 1) / (rate * 5)
}

func clampParameter(parameter engine.Parameter, value int) int {
	switch parameter {
	case engine.ParameterRate:
		return min(max(value, minRate), maxRate)
	case engine.ParameterPitch, engine.ParameterRange:
		return min(max(value, 0), 100)
	case engine.ParameterPunctuation:
		return min(max(value, int(engine.PunctuationNone)), int(engine.PunctuationSome))
	}
	return max(value, 0)
}

func pitchBase(voice engine.Voice) int {
	if voice.Gender == engine.GenderFemale {
		return 180
	}
	return 100
}
