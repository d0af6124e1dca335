package events

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "sample rate", event: NewSampleRateReported(22050), expected: KindSampleRateReported},
		{name: "sentence", event: NewSentenceStarted(1), expected: KindSentenceStarted},
		{name: "word", event: NewWordStarted(1, 5), expected: KindWordStarted},
		{name: "mark", event: NewMarkReached(3, "m"), expected: KindMarkReached},
		{name: "play", event: NewAudioElementReached(3, "beep.wav"), expected: KindAudioElementReached},
		{name: "clause ended", event: NewClauseEnded(9), expected: KindClauseEnded},
		{name: "phoneme", event: NewPhonemeSpoken(2), expected: KindPhonemeSpoken},
		{name: "message terminated", event: NewMessageTerminated(), expected: KindMessageTerminated},
		{name: "audio frame", event: NewSpeechAudioFrame([]byte{1, 0}, 1), expected: KindSpeechAudioFrame},
		{name: "stopped", event: NewSpeechStopped(), expected: KindSpeechStopped},
		{name: "speaker switched", event: NewSpeakerSwitched("a", "b"), expected: KindSpeakerSwitched},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected timestamp to be set")
			}
		})
	}
}

func TestFromNotificationMapsKinds(t *testing.T) {
	testCases := []struct {
		notification bridge.Notification
		expected     Kind
	}{
		{notification: bridge.Notification{Kind: engine.EventSampleRate, Name: "22050"}, expected: KindSampleRateReported},
		{notification: bridge.Notification{Kind: engine.EventSentence, Position: 1}, expected: KindSentenceStarted},
		{notification: bridge.Notification{Kind: engine.EventWord, Position: 1, Length: 4}, expected: KindWordStarted},
		{notification: bridge.Notification{Kind: engine.EventMark, Name: "m"}, expected: KindMarkReached},
		{notification: bridge.Notification{Kind: engine.EventPlay, Name: "p"}, expected: KindAudioElementReached},
		{notification: bridge.Notification{Kind: engine.EventEnd}, expected: KindClauseEnded},
		{notification: bridge.Notification{Kind: engine.EventPhoneme}, expected: KindPhonemeSpoken},
		{notification: bridge.Notification{Kind: engine.EventMsgTerminated}, expected: KindMessageTerminated},
	}

	for _, testCase := range testCases {
		t.Run(testCase.notification.Kind.String(), func(t *testing.T) {
			converted := FromNotification(testCase.notification)
			if len(converted) != 1 {
				t.Fatalf("expected one event, got %d", len(converted))
			}
			if got := converted[0].Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestFromNotificationWithAudio(t *testing.T) {
	converted := FromNotification(bridge.Notification{
		Kind:        engine.EventEnd,
		Position:    12,
		SampleCount: 2,
		Audio:       []byte{1, 0, 2, 0},
		UserData:    "utt-1",
	})

	if len(converted) != 2 {
		t.Fatalf("expected audio frame and clause end, got %d events", len(converted))
	}
	frame, ok := converted[0].(SpeechAudioFrame)
	if !ok {
		t.Fatalf("expected audio frame first, got %T", converted[0])
	}
	if frame.SampleCount != 2 || len(frame.Audio) != 4 || frame.Utterance != "utt-1" {
		t.Fatalf("unexpected audio frame %+v", frame)
	}
	end, ok := converted[1].(ClauseEnded)
	if !ok || end.Position != 12 || end.Utterance != "utt-1" {
		t.Fatalf("unexpected clause end %+v", converted[1])
	}
}

func TestFromNotificationSampleRate(t *testing.T) {
	converted := FromNotification(bridge.Notification{Kind: engine.EventSampleRate, Name: "16000"})
	if got := converted[0].(SampleRateReported).SampleRate; got != 16000 {
		t.Fatalf("expected 16000, got %d", got)
	}
}

func TestFromNotificationIgnoresUnknownKind(t *testing.T) {
	if converted := FromNotification(bridge.Notification{Kind: engine.EventType(99)}); len(converted) != 0 {
		t.Fatalf("expected unknown kinds to be dropped, got %d", len(converted))
	}
}

func TestEnvelopeJSON(t *testing.T) {
	word := NewWordStarted(7, 5)
	word.Utterance = "u"

	encoded, err := json.Marshal(Wrap(word))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := string(encoded)
	for _, fragment := range []string{`"kind":"speech.word"`, `"position":7`, `"length":5`, `"utterance":"u"`} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %s in %s", fragment, text)
		}
	}
}

func TestUtteranceOfConvertedEvents(t *testing.T) {
	converted := FromNotification(bridge.Notification{Kind: engine.EventEnd, Position: 3, Audio: []byte{1, 0}, SampleCount: 1, UserData: 42})
	if len(converted) != 2 {
		t.Fatalf("expected audio frame and clause end, got %d events", len(converted))
	}
	for _, event := range converted {
		if got := UtteranceOf(event); got != "42" {
			t.Fatalf("expected utterance 42 on %s, got %q", event.Kind(), got)
		}
	}

	if got := UtteranceOf(NewSpeechStopped()); got != "" {
		t.Fatalf("expected untagged event to have no utterance, got %q", got)
	}
}
