// Package moderation censors forbidden words in message text before
// it is fanned out, so every language bucket stores the censored form.
package moderation

import (
	"unicode"

	"babblebridge/errors"

	goahocorasick "github.com/anknown/ahocorasick"
)

type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
}

// NewModerator builds the Aho-Corasick automaton over a lowercased,
// separator-free form of the word list so "B a d" still matches "bad".
func NewModerator(censoredWords []string, censoredChar rune) (Moderator, error) {
	if len(censoredWords) == 0 {
		return Moderator{}, errors.ErrEmptyWords
	}
	patterns := make([][]rune, 0, len(censoredWords))
	for _, word := range censoredWords {
		normalized, _ := normalize([]rune(word))
		if len(normalized) > 0 {
			patterns = append(patterns, normalized)
		}
	}
	if len(patterns) == 0 {
		return Moderator{}, errors.ErrEmptyWords
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: m, censoredChar: censoredChar}, nil
}

// Censor replaces the characters of every forbidden match with the
// censor rune, preserving spacing and untouched text.
func (m *Moderator) Censor(original string) (string, []string) {
	origRunes := []rune(original)
	normalized, origIdx := normalize(origRunes)
	if len(normalized) == 0 {
		return original, nil
	}

	spans := m.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return original, nil
	}

	var found []string
	for _, span := range spans {
		normStart := span.Pos
		normEnd := normStart + len(span.Word)
		if normStart < 0 || normEnd > len(origIdx) {
			continue
		}
		found = append(found, string(span.Word))

		origStart := origIdx[normStart]
		origEnd := origIdx[normEnd-1] + 1
		for i := origStart; i < origEnd; i++ {
			origRunes[i] = m.censoredChar
		}
	}
	return string(origRunes), found
}

// normalize lowercases and drops separators, keeping a map from each
// normalized rune back to its position in the original text.
func normalize(input []rune) ([]rune, []int) {
	normalized := make([]rune, 0, len(input))
	origIdx := make([]int, 0, len(input))
	for i, r := range input {
		if unicode.IsSpace(r) || unicode.IsPunct(r) {
			continue
		}
		normalized = append(normalized, unicode.ToLower(r))
		origIdx = append(origIdx, i)
	}
	return normalized, origIdx
}
