package bridge

import (
	"strings"

	"github.com/koscakluka/ema-espeak/core/engine"
)

// Constants returns the named constant tables callers use with the bridge,
// keyed by table ("parameter", "event", "punctuation", "gender") and then by
// upper-case name.
func Constants() map[string]map[string]int {
	parameters := map[string]int{}
	for _, parameter := range engine.Parameters() {
		parameters[parameter.String()] = int(parameter)
	}

	events := map[string]int{}
	for _, eventType := range engine.EventTypes() {
		events[eventType.String()] = int(eventType)
	}

	punctuation := map[string]int{}
	for _, p := range []engine.PunctuationType{engine.PunctuationNone, engine.PunctuationAll, engine.PunctuationSome} {
		punctuation[p.String()] = int(p)
	}

	genders := map[string]int{}
	for _, g := range []engine.Gender{engine.GenderUnknown, engine.GenderMale, engine.GenderFemale} {
		genders[strings.ToUpper(g.String())] = int(g)
	}

	return map[string]map[string]int{
		"parameter":   parameters,
		"event":       events,
		"punctuation": punctuation,
		"gender":      genders,
	}
}

// ParseParameter resolves a parameter by its constant name, case-insensitive.
func ParseParameter(name string) (engine.Parameter, bool) {
	value, ok := Constants()["parameter"][strings.ToUpper(name)]
	return engine.Parameter(value), ok
}

// ParsePunctuation resolves a punctuation setting by name, case-insensitive.
func ParsePunctuation(name string) (engine.PunctuationType, bool) {
	value, ok := Constants()["punctuation"][strings.ToUpper(name)]
	return engine.PunctuationType(value), ok
}
