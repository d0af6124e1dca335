// Package espeak binds libespeak-ng. The binding is only compiled with the
// espeak build tag; without it [New] returns [ErrUnavailable].
package espeak

import "errors"

// ErrUnavailable is returned by New when the binary was built without the
// espeak tag.
var ErrUnavailable = errors.New("espeak support not compiled in, rebuild with -tags espeak")

// parseLanguages decodes espeak's voice language field: a sequence of a
// priority byte followed by a zero terminated language name, ended by a zero
// priority byte.
func parseLanguages(raw []byte) []string {
	languages := []string{}
	for i := 0; i < len(raw) && raw[i] != 0; {
		i++ // priority
		start := i
		for i < len(raw) && raw[i] != 0 {
			i++
		}
		if i > start {
			languages = append(languages, string(raw[start:i]))
		}
		i++
	}
	return languages
}
