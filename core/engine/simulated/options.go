package simulated

import "github.com/koscakluka/ema-espeak/core/engine"

const (
	DefaultQueueCapacity = 64
	DefaultSampleRate    = 22050
)

// AudioSink receives the audio the engine "plays" in the playback output
// modes.
type AudioSink interface {
	PlayAudio(audio []byte)
}

type Option func(*Engine)

// WithQueueCapacity bounds the number of texts waiting for the worker. Synth
// reports a full buffer beyond it.
func WithQueueCapacity(capacity int) Option {
	return func(e *Engine) {
		if capacity > 0 {
			e.queueCapacity = capacity
		}
	}
}

func WithSampleRate(sampleRate int) Option {
	return func(e *Engine) { e.sampleRate = sampleRate }
}

// WithAudioSink plays audio in the playback output modes. Without a sink the
// audio is dropped.
func WithAudioSink(sink AudioSink) Option {
	return func(e *Engine) { e.sink = sink }
}

// WithRealtime paces batch delivery at the speed the audio would play. The
// playback output modes are always paced.
func WithRealtime(realtime bool) Option {
	return func(e *Engine) { e.realtime = realtime }
}

func WithVoices(voices []engine.Voice) Option {
	return func(e *Engine) {
		if len(voices) > 0 {
			e.voices = voices
		}
	}
}
