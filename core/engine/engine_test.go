package engine

import "testing"

func TestSynthFlagsHasComparesEncodingAsValue(t *testing.T) {
	flags := CharsAuto | SSML | EndPause

	if !flags.Has(CharsAuto) {
		t.Fatalf("expected flags %#x to carry CharsAuto", flags)
	}
	if flags.Has(CharsUTF8) {
		t.Fatalf("expected flags %#x not to carry CharsUTF8", flags)
	}
	if !flags.Has(SSML) || !flags.Has(EndPause) {
		t.Fatalf("expected flags %#x to carry SSML and EndPause", flags)
	}
	if flags.Has(Phonemes) {
		t.Fatalf("expected flags %#x not to carry Phonemes", flags)
	}
}

func TestParametersExcludeSilence(t *testing.T) {
	for _, parameter := range Parameters() {
		if parameter == ParameterSilence {
			t.Fatalf("expected silence to be absent from exposed parameters")
		}
		if !parameter.Valid() {
			t.Fatalf("expected exposed parameter %v to be valid", parameter)
		}
	}
	if ParameterSilence.Valid() {
		t.Fatalf("expected silence to be rejected as a caller parameter")
	}
}

func TestOutputModeProperties(t *testing.T) {
	testCases := []struct {
		mode        OutputMode
		synchronous bool
		plays       bool
	}{
		{mode: OutputPlayback, synchronous: false, plays: true},
		{mode: OutputRetrieval, synchronous: false, plays: false},
		{mode: OutputSynchronous, synchronous: true, plays: false},
		{mode: OutputSynchPlayback, synchronous: true, plays: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.mode.String(), func(t *testing.T) {
			if got := testCase.mode.Synchronous(); got != testCase.synchronous {
				t.Fatalf("expected synchronous %v, got %v", testCase.synchronous, got)
			}
			if got := testCase.mode.Plays(); got != testCase.plays {
				t.Fatalf("expected plays %v, got %v", testCase.plays, got)
			}
		})
	}
}

func TestEventTypeNames(t *testing.T) {
	if got := EventSampleRate.String(); got != "SAMPLE_RATE" {
		t.Fatalf("expected SAMPLE_RATE, got %q", got)
	}
	if got := EventType(42).String(); got != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN for unmapped type, got %q", got)
	}
	if got := len(EventTypes()); got != 9 {
		t.Fatalf("expected 9 event types, got %d", got)
	}
}
