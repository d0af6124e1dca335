package simulated

import (
	"strings"

	"github.com/koscakluka/ema-espeak/core/engine"
)

// DefaultVoices is the voice table used unless WithVoices replaces it.
func DefaultVoices() []engine.Voice {
	return []engine.Voice{
		{Name: "default", Languages: []string{"en"}, Identifier: "default", Gender: engine.GenderMale},
		{Name: "english", Languages: []string{"en-gb", "en"}, Identifier: "gmw/en", Gender: engine.GenderMale},
		{Name: "english-us", Languages: []string{"en-us", "en"}, Identifier: "gmw/en-US", Gender: engine.GenderMale},
		{Name: "english_rp", Languages: []string{"en-gb-x-rp", "en"}, Identifier: "gmw/en-GB-x-rp", Gender: engine.GenderFemale},
		{Name: "german", Languages: []string{"de"}, Identifier: "gmw/de", Gender: engine.GenderMale},
		{Name: "french", Languages: []string{"fr-fr", "fr"}, Identifier: "roa/fr", Gender: engine.GenderFemale},
		{Name: "spanish", Languages: []string{"es"}, Identifier: "roa/es", Gender: engine.GenderMale},
		{Name: "croatian", Languages: []string{"hr", "hbs"}, Identifier: "zls/hr", Gender: engine.GenderMale},
	}
}

// matches reports whether voice satisfies every property set in spec.
func matches(voice engine.Voice, spec engine.VoiceSpec) bool {
	if spec.Name != "" && !strings.EqualFold(voice.Name, spec.Name) && !strings.EqualFold(voice.Identifier, spec.Name) {
		return false
	}
	if spec.Language != "" && !speaks(voice, spec.Language) {
		return false
	}
	if spec.Gender != engine.GenderUnknown && voice.Gender != spec.Gender {
		return false
	}
	if spec.Age != 0 && voice.Age != 0 && voice.Age != spec.Age {
		return false
	}
	return true
}

// speaks matches language against the voice's languages, treating "en" as a
// prefix of "en-gb".
func speaks(voice engine.Voice, language string) bool {
	language = strings.ToLower(language)
	for _, candidate := range voice.Languages {
		candidate = strings.ToLower(candidate)
		if candidate == language || strings.HasPrefix(candidate, language+"-") {
			return true
		}
	}
	return false
}
