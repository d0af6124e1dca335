package espeak

import "testing"

func TestParseLanguages(t *testing.T) {
	raw := []byte("\x05en-gb\x00\x02en\x00\x00")

	languages := parseLanguages(raw)
	if len(languages) != 2 || languages[0] != "en-gb" || languages[1] != "en" {
		t.Fatalf("expected [en-gb en], got %v", languages)
	}
}

func TestParseLanguagesEmpty(t *testing.T) {
	if languages := parseLanguages([]byte{0}); len(languages) != 0 {
		t.Fatalf("expected no languages, got %v", languages)
	}
	if languages := parseLanguages(nil); len(languages) != 0 {
		t.Fatalf("expected no languages, got %v", languages)
	}
}

func TestUserDataHandles(t *testing.T) {
	data := newUserData()

	if id := data.register(nil); id != 0 {
		t.Fatalf("expected nil to map to handle 0, got %d", id)
	}

	id := data.register("utterance")
	if got := data.lookup(id); got != "utterance" {
		t.Fatalf("expected registered value, got %v", got)
	}

	data.release(id)
	if got := data.lookup(id); got != nil {
		t.Fatalf("expected released handle to resolve to nil, got %v", got)
	}

	other := data.register(42)
	data.releaseAll()
	if got := data.lookup(other); got != nil {
		t.Fatalf("expected all handles to be released, got %v", got)
	}
}
