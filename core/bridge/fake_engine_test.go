package bridge

import (
	"sync"
	"testing"
	"time"

	"github.com/koscakluka/ema-espeak/core/engine"
)

type fakeInit struct {
	mode         engine.OutputMode
	bufferLength int
	dataPath     string
}

type fakeSynth struct {
	text         string
	size         int
	position     uint
	positionType engine.PositionType
	endPosition  uint
	flags        engine.SynthFlags
	userData     any
}

type fakeEngine struct {
	mu sync.Mutex

	callback engine.SynthCallback

	sampleRate int
	inits      []fakeInit

	synthResult engine.Result
	synths      []fakeSynth
	// onSynth runs inside Synth, e.g. to deliver callbacks inline like the
	// synchronous output modes do.
	onSynth func(f *fakeEngine, text string, userData any)

	cancelResult engine.Result
	cancels      int
	canceledAt   time.Time

	playing bool

	parameters map[engine.Parameter]int
	defaults   map[engine.Parameter]int

	voiceResult engine.Result
	voiceSpecs  []engine.VoiceSpec
	voices      []*engine.Voice

	terminations int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		sampleRate: 22050,
		parameters: map[engine.Parameter]int{},
		defaults: map[engine.Parameter]int{
			engine.ParameterRate:   175,
			engine.ParameterVolume: 100,
			engine.ParameterPitch:  50,
			engine.ParameterRange:  50,
		},
	}
}

func (f *fakeEngine) Initialize(output engine.OutputMode, bufferLength int, dataPath string, options int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inits = append(f.inits, fakeInit{mode: output, bufferLength: bufferLength, dataPath: dataPath})
	return f.sampleRate
}

func (f *fakeEngine) SetSynthCallback(callback engine.SynthCallback) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.callback = callback
}

func (f *fakeEngine) Synth(text string, size int, position uint, positionType engine.PositionType, endPosition uint, flags engine.SynthFlags, userData any) engine.Result {
	f.mu.Lock()
	f.synths = append(f.synths, fakeSynth{
		text: text, size: size, position: position, positionType: positionType,
		endPosition: endPosition, flags: flags, userData: userData,
	})
	result, onSynth := f.synthResult, f.onSynth
	f.mu.Unlock()

	if onSynth != nil {
		onSynth(f, text, userData)
	}
	return result
}

func (f *fakeEngine) Cancel() engine.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancels++
	f.canceledAt = time.Now()
	f.playing = false
	return f.cancelResult
}

func (f *fakeEngine) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeEngine) SetParameter(parameter engine.Parameter, value int, relative bool) engine.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	if relative {
		value += f.current(parameter)
	}
	f.parameters[parameter] = value
	return engine.ResultOK
}

func (f *fakeEngine) GetParameter(parameter engine.Parameter, current bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if current {
		return f.current(parameter)
	}
	return f.defaults[parameter]
}

func (f *fakeEngine) current(parameter engine.Parameter) int {
	if value, ok := f.parameters[parameter]; ok {
		return value
	}
	return f.defaults[parameter]
}

func (f *fakeEngine) SetVoiceByProperties(spec engine.VoiceSpec) engine.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voiceSpecs = append(f.voiceSpecs, spec)
	return f.voiceResult
}

func (f *fakeEngine) ListVoices(spec *engine.VoiceSpec) []*engine.Voice {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.voices
}

func (f *fakeEngine) Terminate() engine.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terminations++
	return engine.ResultOK
}

// deliver invokes the registered callback the way the engine worker would.
func (f *fakeEngine) deliver(samples []int16, events ...engine.Event) bool {
	f.mu.Lock()
	callback := f.callback
	f.mu.Unlock()

	batch := append(events, engine.Event{Type: engine.EventListTerminated})
	return callback(samples, batch)
}

func (f *fakeEngine) lastSynth() fakeSynth {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.synths[len(f.synths)-1]
}

func (f *fakeEngine) cancelCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancels
}

func newInitializedBridge(t *testing.T, opts ...Option) (*Bridge, *fakeEngine) {
	t.Helper()
	fake := newFakeEngine()
	b := New(fake, opts...)
	if err := b.Init(t.Context()); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	return b, fake
}

func waitFor(t *testing.T, what string, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !condition() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %s", what)
		}
		time.Sleep(time.Millisecond)
	}
}

type recordingHandler struct {
	mu            sync.Mutex
	notifications []Notification
	respond       func(Notification) Continuation
}

func (h *recordingHandler) HandleSynthEvent(notification Notification) Continuation {
	h.mu.Lock()
	h.notifications = append(h.notifications, notification)
	respond := h.respond
	h.mu.Unlock()

	if respond != nil {
		return respond(notification)
	}
	return Continue
}

func (h *recordingHandler) received() []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Notification(nil), h.notifications...)
}

func word(position, length int) engine.Event {
	return engine.Event{Type: engine.EventWord, TextPosition: position, Length: length}
}
