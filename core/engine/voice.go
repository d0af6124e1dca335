package engine

// Gender of a voice.
type Gender int

const (
	GenderUnknown Gender = 0
	GenderMale    Gender = 1
	GenderFemale  Gender = 2
)

func (g Gender) String() string {
	switch g {
	case GenderUnknown:
		return "unknown"
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	}
	return "(invalid)"
}

func (g Gender) Valid() bool {
	return g >= GenderUnknown && g <= GenderFemale
}

// Voice is an entry of the engine's voice table.
type Voice struct {
	Name string
	// Languages in order of preference, e.g. "en-gb", "en".
	Languages []string
	// Identifier is the voice file path relative to the data directory.
	Identifier string
	Gender     Gender
	Age        int
	Variant    int
}

// VoiceSpec selects a voice by properties. Empty strings and zero numbers mean
// "don't care".
type VoiceSpec struct {
	Name     string
	Language string
	Gender   Gender
	Age      int
	Variant  int
}
