package playback

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
)

// Player plays the audio carried by synthesis notifications and reports when
// an utterance has been heard to the end.
type Player struct {
	output *output

	mu         sync.Mutex
	onFinished func(utterance string)

	sent     atomic.Int64
	mismatch atomic.Bool
}

type PlayerOption func(*Player)

// WithOnFinished is called once the audio of a terminated message has been
// played, with the message's user data formatted as a string.
func WithOnFinished(callback func(utterance string)) PlayerOption {
	return func(p *Player) { p.onFinished = callback }
}

func NewPlayer(client Client, opts ...PlayerOption) *Player {
	p := &Player{
		output:     newOutput(client),
		onFinished: func(string) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// HandleNotification plays the notification's audio, if any. It has the
// signature of a speaker callback.
func (p *Player) HandleNotification(notification bridge.Notification) {
	switch notification.Kind {
	case engine.EventSampleRate:
		p.checkSampleRate(notification.Name)
	case engine.EventMsgTerminated:
		defer p.finish(notification.UserData)
	}

	if len(notification.Audio) > 0 {
		p.PlayAudio(notification.Audio)
	}
}

// PlayAudio queues raw linear16 audio.
func (p *Player) PlayAudio(audio []byte) {
	if !p.output.configured() {
		return
	}
	if err := p.output.sendAudio(audio); err != nil {
		logger.Warn("failed to send audio to output", "bytes", len(audio), "error", err)
		return
	}
	p.sent.Add(int64(len(audio)))
}

// Clear drops audio that has not been played yet.
func (p *Player) Clear() {
	p.output.clear()
}

// BytesSent is the amount of audio handed to the output so far.
func (p *Player) BytesSent() int64 {
	return p.sent.Load()
}

func (p *Player) finish(userData any) {
	utterance := ""
	if userData != nil {
		utterance = fmt.Sprint(userData)
	}

	p.mu.Lock()
	onFinished := p.onFinished
	p.mu.Unlock()
	p.output.mark(utterance, onFinished)
}

func (p *Player) checkSampleRate(name string) {
	rate, err := strconv.Atoi(name)
	if err != nil || !p.output.configured() {
		return
	}
	if device := p.output.encodingInfo().SampleRate; device != rate && !p.mismatch.Swap(true) {
		logger.Warn("engine and output sample rates differ", "engine", rate, "output", device)
	}
}
