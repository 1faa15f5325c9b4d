// Package moderation censors forbidden words in user messages before
// they are echoed to a room or persisted.
package moderation

import (
	"unicode"

	"codecrux/errors"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
}

// NewModerator builds the Aho-Corasick automaton over the lowercased
// word list. The list must not be empty.
func NewModerator(censoredWords []string, censoredChar rune) (Moderator, error) {
	if len(censoredWords) == 0 {
		return Moderator{}, errors.ErrEmptyWords
	}

	patterns := make([][]rune, len(censoredWords))
	for i, word := range censoredWords {
		patterns[i] = lowerRunes([]rune(word))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: m, censoredChar: censoredChar}, nil
}

// Censor replaces every occurrence of a censored word with the
// replacement character and reports the matched words.
func (m Moderator) Censor(original string) (string, []string) {
	origRunes := []rune(original)
	lowered := lowerRunes(origRunes)

	spans := m.matcher.MultiPatternSearch(lowered, false)
	if len(spans) == 0 {
		return original, nil
	}

	var found []string
	for _, span := range spans {
		start := span.Pos
		end := start + len(span.Word)
		if start < 0 || end > len(origRunes) {
			continue
		}
		found = append(found, string(span.Word))
		for i := start; i < end; i++ {
			origRunes[i] = m.censoredChar
		}
	}
	return string(origRunes), found
}

func lowerRunes(input []rune) []rune {
	out := make([]rune, len(input))
	for i, r := range input {
		out[i] = unicode.ToLower(r)
	}
	return out
}
