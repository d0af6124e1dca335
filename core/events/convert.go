package events

import (
	"fmt"
	"strconv"

	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
)

// FromNotification converts a bridge notification into typed events. A
// notification carrying audio is preceded by a SpeechAudioFrame so receivers
// get the audio before the terminal event that completes it.
func FromNotification(notification bridge.Notification) []Event {
	utterance := utteranceFromUserData(notification.UserData)
	out := make([]Event, 0, 2)

	if len(notification.Audio) > 0 {
		out = append(out, withUtterance(NewSpeechAudioFrame(notification.Audio, notification.SampleCount), utterance))
	}

	var event Event
	switch notification.Kind {
	case engine.EventSampleRate:
		sampleRate, _ := strconv.Atoi(notification.Name)
		event = withUtterance(NewSampleRateReported(sampleRate), utterance)
	case engine.EventSentence:
		event = withUtterance(NewSentenceStarted(notification.Position), utterance)
	case engine.EventWord:
		event = withUtterance(NewWordStarted(notification.Position, notification.Length), utterance)
	case engine.EventMark:
		event = withUtterance(NewMarkReached(notification.Position, notification.Name), utterance)
	case engine.EventPlay:
		event = withUtterance(NewAudioElementReached(notification.Position, notification.Name), utterance)
	case engine.EventEnd:
		event = withUtterance(NewClauseEnded(notification.Position), utterance)
	case engine.EventPhoneme:
		event = withUtterance(NewPhonemeSpoken(notification.Position), utterance)
	case engine.EventMsgTerminated:
		event = withUtterance(NewMessageTerminated(), utterance)
	default:
		return out
	}

	return append(out, event)
}

func utteranceFromUserData(userData any) string {
	switch data := userData.(type) {
	case nil:
		return ""
	case string:
		return data
	case fmt.Stringer:
		return data.String()
	}
	return fmt.Sprint(userData)
}
