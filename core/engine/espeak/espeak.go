//go:build espeak

package espeak

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdint.h>
#include <stdlib.h>
#include <espeak-ng/speak_lib.h>

extern int goSynthCallback(short *wav, int numsamples, espeak_EVENT *events);

static int espeak_bridge_callback(short *wav, int numsamples, espeak_EVENT *events) {
	return goSynthCallback(wav, numsamples, events);
}

static void espeak_bridge_register(void) {
	espeak_SetSynthCallback(espeak_bridge_callback);
}

static espeak_ERROR espeak_bridge_synth(const char *text, size_t size, unsigned int position,
		espeak_POSITION_TYPE position_type, unsigned int end_position, unsigned int flags,
		uintptr_t user_data) {
	return espeak_Synth(text, size, position, position_type, end_position, flags, NULL, (void *)user_data);
}

static espeak_EVENT *espeak_bridge_event(espeak_EVENT *events, int i) { return &events[i]; }
static const char *espeak_bridge_event_name(espeak_EVENT *event) { return event->id.name; }
static int espeak_bridge_event_number(espeak_EVENT *event) { return event->id.number; }
static uintptr_t espeak_bridge_event_user_data(espeak_EVENT *event) { return (uintptr_t)event->user_data; }
static const espeak_VOICE *espeak_bridge_voice(const espeak_VOICE **voices, int i) { return voices[i]; }
*/
import "C"

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/koscakluka/ema-espeak/core/engine"
)

// active is the engine receiving callbacks. libespeak keeps a single
// process-wide callback, so only one Engine can be initialized at a time.
var active atomic.Pointer[Engine]

// Engine drives the process-wide libespeak-ng instance.
type Engine struct {
	mu       sync.Mutex
	callback engine.SynthCallback
	userData *userData
}

func New() (engine.Engine, error) {
	return &Engine{userData: newUserData()}, nil
}

func (e *Engine) Initialize(output engine.OutputMode, bufferLength int, dataPath string, options int) int {
	var path *C.char
	if dataPath != "" {
		path = C.CString(dataPath)
		defer C.free(unsafe.Pointer(path))
	}

	sampleRate := int(C.espeak_Initialize(C.espeak_AUDIO_OUTPUT(output), C.int(bufferLength), path, C.int(options)))
	if sampleRate < 0 {
		return sampleRate
	}

	active.Store(e)
	C.espeak_bridge_register()
	return sampleRate
}

func (e *Engine) SetSynthCallback(callback engine.SynthCallback) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.callback = callback
}

func (e *Engine) Synth(text string, size int, position uint, positionType engine.PositionType, endPosition uint, flags engine.SynthFlags, userData any) engine.Result {
	cText := C.CString(text)
	defer C.free(unsafe.Pointer(cText))

	handle := e.userData.register(userData)
	result := engine.Result(C.espeak_bridge_synth(cText, C.size_t(size), C.uint(position),
		C.espeak_POSITION_TYPE(positionType), C.uint(endPosition), C.uint(flags), C.uintptr_t(handle)))
	if result != engine.ResultOK {
		e.userData.release(handle)
	}
	return result
}

func (e *Engine) Cancel() engine.Result {
	result := engine.Result(C.espeak_Cancel())
	e.userData.releaseAll()
	return result
}

func (e *Engine) IsPlaying() bool {
	return C.espeak_IsPlaying() != 0
}

func (e *Engine) SetParameter(parameter engine.Parameter, value int, relative bool) engine.Result {
	var rel C.int
	if relative {
		rel = 1
	}
	return engine.Result(C.espeak_SetParameter(C.espeak_PARAMETER(parameter), C.int(value), rel))
}

func (e *Engine) GetParameter(parameter engine.Parameter, current bool) int {
	var cur C.int
	if current {
		cur = 1
	}
	return int(C.espeak_GetParameter(C.espeak_PARAMETER(parameter), cur))
}

func (e *Engine) SetVoiceByProperties(spec engine.VoiceSpec) engine.Result {
	voice, free := cVoice(spec)
	defer free()
	return engine.Result(C.espeak_SetVoiceByProperties(voice))
}

func (e *Engine) ListVoices(spec *engine.VoiceSpec) []*engine.Voice {
	var filter *C.espeak_VOICE
	if spec != nil {
		voice, free := cVoice(*spec)
		defer free()
		filter = voice
	}

	list := C.espeak_ListVoices(filter)
	voices := []*engine.Voice{}
	for i := 0; ; i++ {
		voice := C.espeak_bridge_voice(list, C.int(i))
		if voice == nil {
			break
		}
		voices = append(voices, goVoice(voice))
	}
	return append(voices, nil)
}

func (e *Engine) Terminate() engine.Result {
	result := engine.Result(C.espeak_Terminate())
	e.userData.releaseAll()
	active.CompareAndSwap(e, nil)
	return result
}

func cVoice(spec engine.VoiceSpec) (*C.espeak_VOICE, func()) {
	voice := (*C.espeak_VOICE)(C.calloc(1, C.size_t(unsafe.Sizeof(C.espeak_VOICE{}))))
	var allocated []unsafe.Pointer

	if spec.Name != "" {
		voice.name = C.CString(spec.Name)
		allocated = append(allocated, unsafe.Pointer(voice.name))
	}
	if spec.Language != "" {
		voice.languages = C.CString(spec.Language)
		allocated = append(allocated, unsafe.Pointer(voice.languages))
	}
	voice.gender = C.uchar(spec.Gender)
	voice.age = C.uchar(spec.Age)
	voice.variant = C.uchar(spec.Variant)

	return voice, func() {
		for _, p := range allocated {
			C.free(p)
		}
		C.free(unsafe.Pointer(voice))
	}
}

func goVoice(voice *C.espeak_VOICE) *engine.Voice {
	var languages []string
	if voice.languages != nil {
		// The field is a list of zero terminated entries, ended by an empty one.
		raw := C.GoBytes(unsafe.Pointer(voice.languages), C.int(languagesLength(voice.languages)))
		languages = parseLanguages(raw)
	}

	return &engine.Voice{
		Name:       C.GoString(voice.name),
		Languages:  languages,
		Identifier: C.GoString(voice.identifier),
		Gender:     engine.Gender(voice.gender),
		Age:        int(voice.age),
		Variant:    int(voice.variant),
	}
}

// languagesLength measures the language list including its final zero
// priority byte.
func languagesLength(languages *C.char) int {
	p := unsafe.Pointer(languages)
	n := 0
	for *(*byte)(unsafe.Add(p, n)) != 0 {
		n++ // priority
		for *(*byte)(unsafe.Add(p, n)) != 0 {
			n++
		}
		n++
	}
	return n + 1
}

//export goSynthCallback
func goSynthCallback(wav *C.short, numsamples C.int, events *C.espeak_EVENT) C.int {
	e := active.Load()
	if e == nil {
		return 0
	}

	e.mu.Lock()
	callback := e.callback
	e.mu.Unlock()
	if callback == nil {
		return 0
	}

	var samples []int16
	if wav != nil && numsamples > 0 {
		samples = unsafe.Slice((*int16)(unsafe.Pointer(wav)), int(numsamples))
	}

	batch := []engine.Event{}
	for i := 0; ; i++ {
		event := e.goEvent(C.espeak_bridge_event(events, C.int(i)))
		batch = append(batch, event)
		if event.Type == engine.EventListTerminated {
			break
		}
		if event.Type == engine.EventMsgTerminated {
			defer e.userData.release(uintptr(C.espeak_bridge_event_user_data(C.espeak_bridge_event(events, C.int(i)))))
		}
	}

	if callback(samples, batch) {
		return 1
	}
	return 0
}

func (e *Engine) goEvent(event *C.espeak_EVENT) engine.Event {
	converted := engine.Event{
		Type:             engine.EventType(event._type),
		UniqueIdentifier: uint(event.unique_identifier),
		TextPosition:     int(event.text_position),
		Length:           int(event.length),
		AudioPosition:    int(event.audio_position),
		Sample:           int(event.sample),
		UserData:         e.userData.lookup(uintptr(C.espeak_bridge_event_user_data(event))),
	}

	switch converted.Type {
	case engine.EventMark, engine.EventPlay:
		if name := C.espeak_bridge_event_name(event); name != nil {
			converted.Name = C.GoString(name)
		}
	case engine.EventSampleRate, engine.EventPhoneme:
		converted.Number = int(C.espeak_bridge_event_number(event))
	}
	return converted
}
