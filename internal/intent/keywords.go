package intent

import (
	"strings"
	"unicode"
)

// KeywordSet is a case-insensitive set of whole words.
type KeywordSet map[string]struct{}

func NewKeywordSet(words []string) KeywordSet {
	set := make(KeywordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

// Match reports whether any word of text is in the set.
// "to" matches "fly to Rome" but not "tomorrow".
func (s KeywordSet) Match(text string) bool {
	for _, word := range words(text) {
		if _, ok := s[word]; ok {
			return true
		}
	}
	return false
}

func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
