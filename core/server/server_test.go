package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine/simulated"
	"github.com/koscakluka/ema-espeak/core/speaker"
)

type frame struct {
	Kind    string           `json:"kind"`
	Type    string           `json:"type"`
	Error   string           `json:"error"`
	Session string           `json:"session"`
	Profile *speaker.Profile `json:"profile"`
	Event   json.RawMessage  `json:"event"`
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()

	b := bridge.New(simulated.New())
	if err := b.Init(t.Context(), bridge.WithSynchronous(true), bridge.WithPlayback(false)); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	srv, err := New(b, WithPingInterval(time.Second))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		srv.Close()
		ts.Close()
		_ = b.Close(t.Context())
	})
	return srv, ts
}

func dial(t *testing.T, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, command Command) {
	t.Helper()
	if err := conn.WriteJSON(command); err != nil {
		t.Fatalf("failed to send command: %v", err)
	}
}

// readUntil collects text frames until one matches and counts binary frames
// on the way.
func readUntil(t *testing.T, conn *websocket.Conn, match func(frame) bool) (frames []frame, binary int) {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("failed to read: %v (frames so far %+v)", err, frames)
		}
		if messageType == websocket.BinaryMessage {
			binary++
			continue
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("failed to decode %s: %v", data, err)
		}
		frames = append(frames, f)
		if match(f) {
			return frames, binary
		}
	}
}

func kinds(frames []frame) []string {
	out := make([]string, 0, len(frames))
	for _, f := range frames {
		if f.Kind != "" {
			out = append(out, f.Kind)
		}
	}
	return out
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func TestSessionGreeting(t *testing.T) {
	srv, ts := newTestServer(t)
	conn := dial(t, ts)

	frames, _ := readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplySession) })
	greeting := frames[len(frames)-1]
	if greeting.Session == "" || greeting.Profile == nil || greeting.Profile.Rate == 0 {
		t.Fatalf("unexpected greeting %+v", greeting)
	}
	if got := srv.Sessions(); got != 1 {
		t.Fatalf("expected one session, got %d", got)
	}
}

func TestSpeakStreamsEventsAndAudio(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplySession) })

	send(t, conn, Command{Type: CommandSpeak, Text: "hello <mark name=\"m1\"/> world", SSML: true})

	frames, binary := readUntil(t, conn, func(f frame) bool { return f.Kind == "speech.message_terminated" })
	got := kinds(frames)
	for _, expected := range []string{"speech_control.speaker_switched", "speech.sample_rate", "speech.word", "speech.mark", "speech_audio.frame"} {
		if !contains(got, expected) {
			t.Fatalf("expected %s in %v", expected, got)
		}
	}
	if binary == 0 {
		t.Fatalf("expected audio frames")
	}
}

func TestStopAcknowledged(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplySession) })

	send(t, conn, Command{Type: CommandStop})
	readUntil(t, conn, func(f frame) bool { return f.Kind == "speech_control.stopped" })
}

func TestInvalidCommandsReplyWithError(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplySession) })

	testCases := []Command{
		{Type: CommandSpeak},
		{Type: CommandSetParameter, Parameter: "LOUDNESS", Value: 3},
		{Type: CommandSetVoice},
		{Type: "sing"},
	}
	for _, command := range testCases {
		send(t, conn, command)
		frames, _ := readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplyError) })
		if reply := frames[len(frames)-1]; !strings.Contains(reply.Error, "invalid argument") {
			t.Fatalf("expected invalid argument for %q, got %q", command.Type, reply.Error)
		}
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte("{")); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplyError) })
}

func TestParameterAndProfileCommands(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplySession) })

	send(t, conn, Command{Type: CommandSetParameter, Parameter: "rate", Value: 260})
	send(t, conn, Command{Type: CommandSetVoice, Voice: &bridge.VoiceSelection{Language: "de"}})
	send(t, conn, Command{Type: CommandProfile, Profile: &speaker.Profile{Pitch: 80}})

	frames, _ := readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplyProfile) })
	profile := frames[len(frames)-1].Profile
	if profile == nil || profile.Rate != 260 || profile.Pitch != 80 || profile.Language != "de" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestSpeakerSwitchBroadcast(t *testing.T) {
	_, ts := newTestServer(t)
	first := dial(t, ts)
	readUntil(t, first, func(f frame) bool { return f.Type == string(ReplySession) })
	second := dial(t, ts)
	readUntil(t, second, func(f frame) bool { return f.Type == string(ReplySession) })

	send(t, first, Command{Type: CommandSpeak, Text: "one"})

	frames, _ := readUntil(t, second, func(f frame) bool { return f.Kind == "speech_control.speaker_switched" })
	var switched struct {
		Current string `json:"current"`
	}
	if err := json.Unmarshal(frames[len(frames)-1].Event, &switched); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if switched.Current == "" {
		t.Fatalf("expected the new speaker id")
	}
}

func TestHealthz(t *testing.T) {
	_, ts := newTestServer(t)

	response, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", response.StatusCode)
	}
}

func TestReplaceVoiceCommand(t *testing.T) {
	_, ts := newTestServer(t)
	conn := dial(t, ts)
	readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplySession) })

	send(t, conn, Command{Type: CommandSetVoice, Voice: &bridge.VoiceSelection{Name: "en-us"}})
	send(t, conn, Command{Type: CommandSetVoice, Voice: &bridge.VoiceSelection{Language: "fr"}, ReplaceVoice: true})
	send(t, conn, Command{Type: CommandProfile})

	frames, _ := readUntil(t, conn, func(f frame) bool { return f.Type == string(ReplyProfile) })
	profile := frames[len(frames)-1].Profile
	if profile == nil || profile.Name != "" || profile.Language != "fr" {
		t.Fatalf("expected replaced voice, got %+v", profile)
	}
}
