package speaker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
)

type fakeCommander struct {
	mu sync.Mutex

	handler    bridge.Handler
	playing    bool
	stops      int
	synths     []string
	userData   []any
	parameters map[engine.Parameter]int
	voices     []bridge.VoiceSelection
}

func newFakeCommander() *fakeCommander {
	return &fakeCommander{parameters: map[engine.Parameter]int{}}
}

func (f *fakeCommander) Synth(ctx context.Context, text string, opts ...bridge.SynthOption) error {
	var options bridge.SynthOptions
	for _, opt := range opts {
		opt(&options)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.synths = append(f.synths, text)
	f.userData = append(f.userData, options.UserData)
	f.playing = true
	return nil
}

func (f *fakeCommander) Stop(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.playing = false
	return nil
}

func (f *fakeCommander) Playing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeCommander) SetParameter(parameter engine.Parameter, value int, relative bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.parameters[parameter] = value
	return nil
}

func (f *fakeCommander) SetVoice(selection bridge.VoiceSelection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.voices = append(f.voices, selection)
	return nil
}

func (f *fakeCommander) SetSynthCallback(handler bridge.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = handler
	return nil
}

func (f *fakeCommander) DefaultParameters() (bridge.Parameters, error) {
	return bridge.Parameters{Rate: 175, Volume: 100, Pitch: 50, Range: 50}, nil
}

func (f *fakeCommander) notify(notification bridge.Notification) {
	f.mu.Lock()
	handler := f.handler
	f.mu.Unlock()
	handler.HandleSynthEvent(notification)
}

func newDirector(t *testing.T) (*Director, *fakeCommander) {
	t.Helper()
	commander := newFakeCommander()
	director, err := NewDirector(commander)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return director, commander
}

func TestNewDirectorRegistersCallback(t *testing.T) {
	director, commander := newDirector(t)
	if commander.handler != bridge.Handler(director) {
		t.Fatalf("expected director to be the bridge handler")
	}
}

func TestSpeakerStartsFromDefaults(t *testing.T) {
	director, _ := newDirector(t)
	s := director.NewSpeaker(WithParameter(engine.ParameterRate, 300))

	if got := s.Get(engine.ParameterRate); got != 300 {
		t.Fatalf("expected rate 300, got %d", got)
	}
	if got := s.Get(engine.ParameterPitch); got != 50 {
		t.Fatalf("expected default pitch 50, got %d", got)
	}
	if got := s.Voice().Language; got != DefaultLanguage {
		t.Fatalf("expected default language, got %q", got)
	}
	if s.ID == "" {
		t.Fatalf("expected speaker id to be set")
	}
}

func TestSayAppliesConfiguration(t *testing.T) {
	director, commander := newDirector(t)
	s := director.NewSpeaker(WithParameter(engine.ParameterRate, 250), WithVoice(bridge.VoiceSelection{Language: "de"}))

	if err := s.Say(t.Context(), "hallo"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := commander.parameters[engine.ParameterRate]; got != 250 {
		t.Fatalf("expected rate 250 applied, got %d", got)
	}
	if got := commander.voices[len(commander.voices)-1].Language; got != "de" {
		t.Fatalf("expected voice de applied, got %q", got)
	}
	if commander.synths[0] != "hallo" || commander.userData[0] != s.ID {
		t.Fatalf("expected synth tagged with speaker id, got %v %v", commander.synths, commander.userData)
	}
	if director.Current() != s {
		t.Fatalf("expected speaker to be current")
	}
}

func TestSwitchingSpeakerStopsPlayback(t *testing.T) {
	var switches [][2]string
	commander := newFakeCommander()
	director, err := NewDirector(commander, WithSwitchHook(func(previous, current string) {
		switches = append(switches, [2]string{previous, current})
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := director.NewSpeaker()
	second := director.NewSpeaker()

	_ = first.Say(t.Context(), "one")
	if !first.Playing() {
		t.Fatalf("expected first speaker to be playing")
	}

	_ = second.Say(t.Context(), "two")
	if commander.stops != 1 {
		t.Fatalf("expected one stop when switching speaker, got %d", commander.stops)
	}
	if first.Playing() {
		t.Fatalf("expected first speaker not to be playing after switch")
	}
	if !second.Playing() {
		t.Fatalf("expected second speaker to be playing")
	}
	if len(switches) != 2 || switches[1] != [2]string{first.ID, second.ID} {
		t.Fatalf("unexpected switches %v", switches)
	}
}

func TestCallbacksFollowCurrentSpeaker(t *testing.T) {
	director, commander := newDirector(t)
	first := director.NewSpeaker()
	second := director.NewSpeaker()

	var firstCalls, secondCalls, directCalls int
	first.AddCallback(func(bridge.Notification) { firstCalls++ })
	second.AddCallback(func(bridge.Notification) { secondCalls++ })
	director.AddCallback(func(bridge.Notification) { directCalls++ })

	commander.notify(bridge.Notification{Kind: engine.EventWord})
	_ = first.Say(t.Context(), "one")
	commander.notify(bridge.Notification{Kind: engine.EventWord})
	_ = second.Say(t.Context(), "two")
	commander.notify(bridge.Notification{Kind: engine.EventWord})
	commander.notify(bridge.Notification{Kind: engine.EventEnd})

	if directCalls != 1 || firstCalls != 1 || secondCalls != 2 {
		t.Fatalf("expected 1/1/2 calls, got direct=%d first=%d second=%d", directCalls, firstCalls, secondCalls)
	}
}

func TestCallbackPanicDoesNotStopOthers(t *testing.T) {
	director, commander := newDirector(t)
	called := false
	director.AddCallback(func(bridge.Notification) { panic("boom") })
	director.AddCallback(func(bridge.Notification) { called = true })

	commander.notify(bridge.Notification{Kind: engine.EventWord})
	if !called {
		t.Fatalf("expected second callback to run")
	}
}

func TestSetOnlyTouchesEngineWhenCurrent(t *testing.T) {
	director, commander := newDirector(t)
	s := director.NewSpeaker()

	if err := s.Set(engine.ParameterPitch, 70); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := commander.parameters[engine.ParameterPitch]; ok {
		t.Fatalf("expected engine to be untouched for an idle speaker")
	}

	_ = s.Say(t.Context(), "x")
	if err := s.Set(engine.ParameterPitch, 20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := commander.parameters[engine.ParameterPitch]; got != 20 {
		t.Fatalf("expected pitch 20 applied immediately, got %d", got)
	}
}

func TestSetPunctuationByName(t *testing.T) {
	director, _ := newDirector(t)
	s := director.NewSpeaker()

	if err := s.SetPunctuation("some"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s.Get(engine.ParameterPunctuation); got != int(engine.PunctuationSome) {
		t.Fatalf("expected punctuation some, got %d", got)
	}
	if err := s.SetPunctuation("loud"); !errors.Is(err, bridge.ErrInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestSetVoiceMergesFields(t *testing.T) {
	director, _ := newDirector(t)
	s := director.NewSpeaker()

	if err := s.SetVoice(bridge.VoiceSelection{Gender: engine.GenderFemale}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	voice := s.Voice()
	if voice.Language != DefaultLanguage || voice.Gender != engine.GenderFemale {
		t.Fatalf("expected merged voice, got %+v", voice)
	}
}

func TestReplaceVoiceClearsFields(t *testing.T) {
	director, fake := newDirector(t)
	s := director.NewSpeaker()

	if err := s.SetVoice(bridge.VoiceSelection{Name: "en-us", Gender: engine.GenderFemale}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.SetVoice(bridge.VoiceSelection{Language: "de"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if voice := s.Voice(); voice.Name != "en-us" || voice.Gender != engine.GenderFemale {
		t.Fatalf("expected merge to keep set fields, got %+v", voice)
	}

	if err := s.Say(t.Context(), "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.ReplaceVoice(bridge.VoiceSelection{Language: "de"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	voice := s.Voice()
	if voice.Name != "" || voice.Gender != engine.GenderUnknown || voice.Language != "de" {
		t.Fatalf("expected replaced voice, got %+v", voice)
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if got := fake.voices[len(fake.voices)-1]; got != voice {
		t.Fatalf("expected engine voice %+v, got %+v", voice, got)
	}
}

func TestProfileRoundTrip(t *testing.T) {
	director, _ := newDirector(t)
	s := director.NewSpeaker(WithParameter(engine.ParameterWordGap, 3))

	profile := s.Profile()
	if profile.ID != s.ID || profile.Rate != 175 || profile.WordGap != 3 || profile.Language != DefaultLanguage {
		t.Fatalf("unexpected profile %+v", profile)
	}

	other := director.NewSpeaker()
	if err := other.ApplyProfile(Profile{Rate: 320, Language: "fr"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := other.Get(engine.ParameterRate); got != 320 {
		t.Fatalf("expected rate 320, got %d", got)
	}
	if got := other.Get(engine.ParameterPitch); got != 50 {
		t.Fatalf("expected unset pitch to keep its value, got %d", got)
	}
	if got := other.Voice().Language; got != "fr" {
		t.Fatalf("expected language fr, got %q", got)
	}
}

func TestCloseReleasesEngine(t *testing.T) {
	director, commander := newDirector(t)
	s := director.NewSpeaker()
	calls := 0
	s.AddCallback(func(bridge.Notification) { calls++ })
	_ = s.Say(t.Context(), "x")

	if err := s.Close(t.Context()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if director.Current() != nil {
		t.Fatalf("expected direct calls to own the engine after close")
	}
	commander.notify(bridge.Notification{Kind: engine.EventWord})
	if calls != 0 {
		t.Fatalf("expected closed speaker to receive nothing, got %d", calls)
	}
}
