package rank

import (
	"strings"
	"unicode"
)

// StripStopwords removes stopword tokens from text while preserving the
// original whitespace runs around the surviving tokens. Matching is
// case-insensitive but retained tokens keep their casing. With an empty
// stopword set the input comes back untouched.
func StripStopwords(text string, stopwords map[string]bool) string {
	if len(stopwords) == 0 {
		return text
	}

	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	for i := 0; i < len(runes); {
		j := i
		if unicode.IsSpace(runes[i]) {
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			b.WriteString(string(runes[i:j]))
		} else {
			for j < len(runes) && !unicode.IsSpace(runes[j]) {
				j++
			}
			word := string(runes[i:j])
			if !stopwords[strings.ToLower(word)] {
				b.WriteString(word)
			}
		}
		i = j
	}
	return b.String()
}
