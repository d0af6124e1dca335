package simulated

import (
	"regexp"
	"unicode"
)

type tokenKind int

const (
	tokenSentence tokenKind = iota
	tokenWord
	tokenMark
	tokenPhonemes
	tokenEnd
)

type token struct {
	kind tokenKind
	// position is the 1-based character position in the original text.
	position int
	length   int
	name     string
}

var markPattern = regexp.MustCompile(`^<mark\s+name\s*=\s*["']([^"']*)["']\s*/?>$`)

// tokenize splits text into sentences, words and marks. Positions refer to
// the text as given, markup included.
func tokenize(text string, ssml, phonemes bool) []token {
	runes := []rune(text)
	tokens := []token{}
	sentenceOpen := false

	openSentence := func(position int) {
		if !sentenceOpen {
			tokens = append(tokens, token{kind: tokenSentence, position: position})
			sentenceOpen = true
		}
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case ssml && r == '<':
			end := indexFrom(runes, i, ">")
			if end < 0 {
				i = len(runes)
				continue
			}
			if match := markPattern.FindStringSubmatch(string(runes[i : end+1])); match != nil {
				tokens = append(tokens, token{kind: tokenMark, position: i + 1, name: match[1]})
			}
			i = end + 1

		case phonemes && r == '[' && i+1 < len(runes) && runes[i+1] == '[':
			end := indexFrom(runes, i+2, "]]")
			if end < 0 {
				end = len(runes)
			}
			openSentence(i + 1)
			tokens = append(tokens, token{kind: tokenPhonemes, position: i + 1, length: end - i - 2})
			i = end + 2

		case isWordRune(r):
			start := i
			for i < len(runes) && isWordRune(runes[i]) {
				i++
			}
			openSentence(start + 1)
			tokens = append(tokens, token{kind: tokenWord, position: start + 1, length: i - start})

		case r == '.' || r == '!' || r == '?':
			if sentenceOpen {
				tokens = append(tokens, token{kind: tokenEnd, position: i + 1})
				sentenceOpen = false
			}
			i++

		default:
			i++
		}
	}

	if sentenceOpen {
		tokens = append(tokens, token{kind: tokenEnd, position: len(runes) + 1})
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-'
}

func indexFrom(runes []rune, from int, needle string) int {
	pattern := []rune(needle)
	for i := from; i+len(pattern) <= len(runes); i++ {
		matched := true
		for j, r := range pattern {
			if runes[i+j] != r {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

// within reports whether a token at position falls inside the requested
// range. Zero bounds are open.
func within(position int, start, end uint) bool {
	if start > 0 && position < int(start) {
		return false
	}
	if end > 0 && position > int(end) {
		return false
	}
	return true
}
