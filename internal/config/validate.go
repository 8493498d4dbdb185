package config

import "fmt"

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v Validation) OK() bool { return len(v.Errors) == 0 }

// Validate checks the loaded config. Warnings describe degraded modes the
// engine will survive (empty lexicon, embedding disabled); errors are things
// that make a run pointless (no search queries at all).
func Validate(cfg Config) Validation {
	var v Validation

	if len(cfg.Search.OccupationGroups) == 0 && len(cfg.Search.Freetext) == 0 {
		v.Errors = append(v.Errors, "search: no occupation_groups and no freetext queries configured")
	}

	if cfg.Scoring.Lexicon.Empty() {
		v.Warnings = append(v.Warnings, "scoring: lexicon is empty, every ad will rate 1")
	}
	if len(cfg.Scoring.Lexicon.Negative) > 0 && len(cfg.Scoring.Lexicon.Context) == 0 {
		v.Warnings = append(v.Warnings, "scoring: negative phrases configured without context terms, full penalty always applies")
	}

	if w := cfg.Scoring.KeywordWeight; w < 0 || w > 1 {
		v.Errors = append(v.Errors, fmt.Sprintf("scoring: keyword_weight %v outside [0,1]", w))
	}
	if w := cfg.Scoring.SimilarityWeight; w < 0 || w > 1 {
		v.Errors = append(v.Errors, fmt.Sprintf("scoring: similarity_weight %v outside [0,1]", w))
	}
	if p := cfg.Scoring.SkipPenalty; p < 0 || p > 1 {
		v.Errors = append(v.Errors, fmt.Sprintf("scoring: skip_penalty %v outside [0,1]", p))
	}

	if cfg.Embedding.Enabled {
		if cfg.Embedding.BaseURL == "" {
			v.Warnings = append(v.Warnings, "embedding: enabled but base_url empty, runs will be keyword-only")
		}
		if cfg.Embedding.Model == "" {
			v.Warnings = append(v.Warnings, "embedding: model not set")
		}
	}

	return v
}
