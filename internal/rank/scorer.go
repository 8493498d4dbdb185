package rank

import (
	"strings"

	"jobsearcher/internal/config"
)

// LexiconScorer turns ad text into a raw keyword score and a 1-10 rating.
// Phrases match as substrings anywhere in the text, so a tier phrase inside a
// longer word still counts. That over-counts occasionally but is the matching
// behaviour the lexicons were tuned against.
type LexiconScorer struct {
	Lex       config.Lexicon
	Stopwords map[string]bool
}

// Score lowercases and stopword-strips the text, then applies the lexicon.
// Pure: empty text or empty lexicon yields (0, 1).
func (s LexiconScorer) Score(text string) (raw, rating int) {
	t := StripStopwords(strings.ToLower(text), s.Stopwords)
	raw = s.rawScore(t)
	return raw, Rating(raw)
}

func (s LexiconScorer) rawScore(text string) int {
	score := 0

	tiers := []struct {
		phrases []string
		weight  int
	}{
		{s.Lex.High, 3},
		{s.Lex.Medium, 2},
		{s.Lex.Low, 1},
	}
	for _, tier := range tiers {
		for _, kw := range tier.phrases {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if strings.Contains(text, kw) {
				score += tier.weight
			}
		}
	}

	// Context terms (the domain the profile is about) soften negatives:
	// an ad mentioning "security" plus a blocked industry is probably still
	// worth a look, one without it almost never is.
	softened := false
	for _, c := range s.Lex.Context {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" && strings.Contains(text, c) {
			softened = true
			break
		}
	}

	penalty := 0
	for _, kw := range s.Lex.Negative {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.Contains(text, kw) {
			if softened {
				penalty += 1
			} else {
				penalty += 3
			}
		}
	}

	return max(0, score-penalty)
}

// ratingThresholds map a raw score to the bounded 1-10 rating, checked
// high to low, first hit wins.
var ratingThresholds = []struct{ min, rating int }{
	{15, 10}, {12, 9}, {10, 8}, {8, 7}, {6, 6},
	{5, 5}, {4, 4}, {3, 3}, {2, 2},
}

func Rating(raw int) int {
	for _, t := range ratingThresholds {
		if raw >= t.min {
			return t.rating
		}
	}
	return 1
}
