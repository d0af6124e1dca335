package speaker

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
)

// DefaultLanguage is the voice language of a new speaker.
const DefaultLanguage = "en"

// Speaker is a voice configuration that is applied to the engine whenever the
// speaker talks.
type Speaker struct {
	ID string

	director *Director

	mu         sync.Mutex
	parameters bridge.Parameters
	voice      bridge.VoiceSelection
}

type Option func(*Speaker)

func WithVoice(voice bridge.VoiceSelection) Option {
	return func(s *Speaker) { s.voice = voice }
}

func WithParameter(parameter engine.Parameter, value int) Option {
	return func(s *Speaker) { s.parameters.Set(parameter, value) }
}

// NewSpeaker creates a speaker starting from the engine defaults.
func (d *Director) NewSpeaker(opts ...Option) *Speaker {
	s := &Speaker{
		ID:         uuid.NewString(),
		director:   d,
		parameters: d.defaults,
		voice:      bridge.VoiceSelection{Language: DefaultLanguage},
	}

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCallback registers callback for notifications produced while s is the
// current speaker.
func (s *Speaker) AddCallback(callback Callback) {
	s.director.addCallback(s.ID, callback)
}

// Close drops the speaker's callbacks and hands the engine back to direct
// calls if s is current.
func (s *Speaker) Close(ctx context.Context) error {
	s.director.removeCallbacks(s.ID)

	s.director.switchMu.Lock()
	defer s.director.switchMu.Unlock()
	if s.director.current.Load() == s {
		return s.director.setSpeaker(ctx, nil)
	}
	return nil
}

// Say makes s the current speaker, interrupting anyone else, applies its
// configuration and speaks text.
func (s *Speaker) Say(ctx context.Context, text string, opts ...bridge.SynthOption) error {
	ctx, span := tracer.Start(ctx, "speaker.say")
	defer span.End()

	d := s.director
	d.switchMu.Lock()
	defer d.switchMu.Unlock()

	if err := d.setSpeaker(ctx, s); err != nil {
		span.RecordError(err)
		return err
	}
	if err := s.apply(); err != nil {
		span.RecordError(err)
		return err
	}

	opts = append([]bridge.SynthOption{bridge.WithUserData(s.ID)}, opts...)
	if err := d.bridge.Synth(ctx, text, opts...); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}

// Playing reports whether s is the current speaker and still talking.
func (s *Speaker) Playing() bool {
	return s.director.current.Load() == s && s.director.bridge.Playing()
}

// Stop silences s if it is the current speaker.
func (s *Speaker) Stop(ctx context.Context) error {
	if s.director.current.Load() != s {
		return nil
	}
	return s.director.bridge.Stop(ctx)
}

// Set changes a parameter. The engine is updated immediately when s is
// current, otherwise on the next Say.
func (s *Speaker) Set(parameter engine.Parameter, value int) error {
	if !parameter.Valid() {
		return fmt.Errorf("%w: unknown parameter %d", bridge.ErrInvalidArgument, parameter)
	}

	s.mu.Lock()
	s.parameters.Set(parameter, value)
	s.mu.Unlock()

	if s.director.current.Load() == s {
		return s.director.bridge.SetParameter(parameter, value, false)
	}
	return nil
}

// SetPunctuation sets punctuation by name: none, all or some.
func (s *Speaker) SetPunctuation(name string) error {
	punctuation, ok := bridge.ParsePunctuation(name)
	if !ok {
		return fmt.Errorf("%w: unknown punctuation %q", bridge.ErrInvalidArgument, name)
	}
	return s.Set(engine.ParameterPunctuation, int(punctuation))
}

// Get returns the speaker's configured value for parameter.
func (s *Speaker) Get(parameter engine.Parameter) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parameters.Get(parameter)
}

// SetVoice merges the set fields of voice into the speaker's voice. Zero
// fields keep their current value; use ReplaceVoice to clear them.
func (s *Speaker) SetVoice(voice bridge.VoiceSelection) error {
	s.mu.Lock()
	if err := copier.CopyWithOption(&s.voice, &voice, copier.Option{IgnoreEmpty: true}); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to merge voice: %w", err)
	}
	merged := s.voice
	s.mu.Unlock()

	return s.pushVoice(merged)
}

// ReplaceVoice sets the speaker's voice to exactly voice, so an empty name or
// an unknown gender goes back to unset.
func (s *Speaker) ReplaceVoice(voice bridge.VoiceSelection) error {
	s.mu.Lock()
	s.voice = voice
	s.mu.Unlock()

	return s.pushVoice(voice)
}

func (s *Speaker) pushVoice(voice bridge.VoiceSelection) error {
	if s.director.current.Load() == s {
		return s.director.bridge.SetVoice(voice)
	}
	return nil
}

func (s *Speaker) Voice() bridge.VoiceSelection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.voice
}

func (s *Speaker) Parameters() bridge.Parameters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.parameters
}

// apply pushes every parameter and the voice to the engine.
func (s *Speaker) apply() error {
	s.mu.Lock()
	parameters, voice := s.parameters, s.voice
	s.mu.Unlock()

	for _, parameter := range engine.Parameters() {
		if err := s.director.bridge.SetParameter(parameter, parameters.Get(parameter), false); err != nil {
			return fmt.Errorf("failed to apply %s: %w", parameter, err)
		}
	}
	if err := s.director.bridge.SetVoice(voice); err != nil {
		return fmt.Errorf("failed to apply voice: %w", err)
	}
	return nil
}
