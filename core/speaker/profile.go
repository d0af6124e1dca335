package speaker

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/koscakluka/ema-espeak/core/bridge"
	"github.com/koscakluka/ema-espeak/core/engine"
)

// Profile is the flat, serializable form of a speaker's configuration.
type Profile struct {
	ID          string        `json:"id,omitempty" jsonschema:"title=ID,readOnly=true"`
	Rate        int           `json:"rate,omitempty" jsonschema:"title=Rate,description=Words per minute"`
	Volume      int           `json:"volume,omitempty" jsonschema:"title=Volume,minimum=0"`
	Pitch       int           `json:"pitch,omitempty" jsonschema:"title=Pitch,minimum=0,maximum=100"`
	Range       int           `json:"range,omitempty" jsonschema:"title=Range,minimum=0,maximum=100"`
	Punctuation int           `json:"punctuation,omitempty" jsonschema:"title=Punctuation,enum=0,enum=1,enum=2"`
	Capitals    int           `json:"capitals,omitempty" jsonschema:"title=Capitals"`
	WordGap     int           `json:"wordgap,omitempty" jsonschema:"title=Word gap"`
	Name        string        `json:"name,omitempty" jsonschema:"title=Voice name"`
	Language    string        `json:"language,omitempty" jsonschema:"title=Language"`
	Gender      engine.Gender `json:"gender,omitempty" jsonschema:"title=Gender,enum=0,enum=1,enum=2"`
	Age         int           `json:"age,omitempty" jsonschema:"title=Age,minimum=0"`
	Variant     int           `json:"variant,omitempty" jsonschema:"title=Variant,minimum=0"`
}

// Profile snapshots the speaker's configuration.
func (s *Speaker) Profile() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile := Profile{ID: s.ID}
	_ = copier.Copy(&profile, &s.parameters)
	_ = copier.Copy(&profile, &s.voice)
	return profile
}

// ApplyProfile merges the set fields of profile into the speaker. The ID is
// ignored.
func (s *Speaker) ApplyProfile(profile Profile) error {
	var parameters bridge.Parameters
	if err := copier.Copy(&parameters, &profile); err != nil {
		return fmt.Errorf("failed to read profile parameters: %w", err)
	}
	var voice bridge.VoiceSelection
	if err := copier.Copy(&voice, &profile); err != nil {
		return fmt.Errorf("failed to read profile voice: %w", err)
	}

	for _, parameter := range engine.Parameters() {
		if value := parameters.Get(parameter); value != 0 {
			if err := s.Set(parameter, value); err != nil {
				return err
			}
		}
	}
	if voice != (bridge.VoiceSelection{}) {
		return s.SetVoice(voice)
	}
	return nil
}
