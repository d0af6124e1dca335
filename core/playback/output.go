// Package playback sends synthesized audio to a local output device.
package playback

import (
	"reflect"

	"github.com/koscakluka/ema-espeak/core/audio"
)

// Client is an audio output device accepting linear16 PCM.
type Client interface {
	SendAudio(audio []byte) error
	ClearBuffer()
	EncodingInfo() audio.EncodingInfo
}

// AwaitingClient confirms playback position by blocking until everything sent
// so far has been played.
type AwaitingClient interface {
	Client
	AwaitMark() error
}

// MarkingClient confirms playback position by calling back once the audio
// sent before a mark has been played.
type MarkingClient interface {
	Client
	Mark(string, func(string)) error
}

// output hides the difference between awaiting and marking clients.
type output struct {
	awaiting AwaitingClient
	marking  MarkingClient
}

func newOutput(client Client) *output {
	o := &output{}
	o.set(client)
	return o
}

// set replaces the client. Nil and typed-nil clients leave the output
// unconfigured.
func (o *output) set(client Client) {
	o.awaiting = nil
	o.marking = nil

	if isNilClient(client) {
		return
	}
	if marking, ok := client.(MarkingClient); ok {
		o.marking = marking
		return
	}
	if awaiting, ok := client.(AwaitingClient); ok {
		o.awaiting = awaiting
	}
}

func (o *output) configured() bool {
	return o.awaiting != nil || o.marking != nil
}

func (o *output) sendAudio(audio []byte) error {
	if o.marking != nil {
		return o.marking.SendAudio(audio)
	} else if o.awaiting != nil {
		return o.awaiting.SendAudio(audio)
	}
	return nil
}

// mark calls callback once the audio sent so far has been played. Without a
// client the callback runs immediately.
func (o *output) mark(name string, callback func(string)) {
	if o.marking != nil {
		if err := o.marking.Mark(name, callback); err != nil {
			logger.Warn("failed to place playback mark", "mark", name, "error", err)
			callback(name)
		}
	} else if o.awaiting != nil {
		go func() {
			if err := o.awaiting.AwaitMark(); err != nil {
				logger.Warn("failed to await playback", "mark", name, "error", err)
			}
			callback(name)
		}()
	} else {
		callback(name)
	}
}

func (o *output) clear() {
	if o.marking != nil {
		o.marking.ClearBuffer()
	} else if o.awaiting != nil {
		o.awaiting.ClearBuffer()
	}
}

func (o *output) encodingInfo() audio.EncodingInfo {
	if o.marking != nil {
		return o.marking.EncodingInfo()
	}
	if o.awaiting != nil {
		return o.awaiting.EncodingInfo()
	}
	return audio.GetDefaultEncodingInfo()
}

func isNilClient(client Client) bool {
	if client == nil {
		return true
	}

	v := reflect.ValueOf(client)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	default:
		return false
	}
}
