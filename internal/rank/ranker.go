package rank

import (
	"context"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"jobsearcher/internal/domain"
	"jobsearcher/internal/embed"
)

// Provider is the slice of the embedding client the ranker needs.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Weights control how keyword rating and similarity fuse into the final
// score, and how hard ads outside the rerank candidate set get pushed down.
type Weights struct {
	Keyword     float64 // share of rating/10 in the fused score
	Similarity  float64 // share of cosine similarity
	SkipPenalty float64 // multiplier on rating/10 for non-candidates
}

func DefaultWeights() Weights {
	return Weights{Keyword: 0.4, Similarity: 0.6, SkipPenalty: 0.4}
}

// Ranker runs the two-stage scoring: keyword score everything, then rerank
// the best candidates by embedding similarity against the profile. A nil
// Provider disables the rerank phase entirely.
type Ranker struct {
	Scorer      LexiconScorer
	Provider    Provider
	Weights     Weights
	Concurrency int // parallel candidate embeddings, min 1
}

// Rank scores ads and returns up to finalN of them ordered by descending
// final score (ties keep input order), plus whether embeddings contributed.
// Nothing in here is fatal: the worst case is a keyword-only ranking.
func (r *Ranker) Rank(ctx context.Context, ads []domain.Ad, profileText string, topN, finalN int) ([]domain.ScoredAd, bool) {
	scored := make([]domain.ScoredAd, len(ads))
	for i, ad := range ads {
		raw, rating := r.Scorer.Score(ad.SearchText())
		scored[i] = domain.ScoredAd{
			Ad:              ad,
			RawKeywordScore: raw,
			KeywordRating:   rating,
			FinalScore:      float64(rating) / 10.0,
		}
	}
	if len(scored) == 0 {
		return nil, false
	}

	available := r.rerank(ctx, scored, profileText, topN)

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})
	if finalN > 0 && len(scored) > finalN {
		scored = scored[:finalN]
	}
	return scored, available
}

// rerank embeds the profile and the topN candidates and fuses the scores in
// place. Returns false when the whole phase was skipped (no provider, no
// profile, or the reference embedding failed) — scores are then untouched.
func (r *Ranker) rerank(ctx context.Context, scored []domain.ScoredAd, profileText string, topN int) bool {
	if r.Provider == nil || strings.TrimSpace(profileText) == "" {
		return false
	}

	refVec, err := r.Provider.Embed(ctx, StripStopwords(profileText, r.Scorer.Stopwords))
	if err != nil {
		log.Printf("[rank] profile embedding failed, falling back to keyword-only: %v", err)
		return false
	}

	// Candidate set: topN by raw keyword score, ties by input order.
	idx := make([]int, len(scored))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return scored[idx[a]].RawKeywordScore > scored[idx[b]].RawKeywordScore
	})
	if topN > len(idx) {
		topN = len(idx)
	}
	if topN < 0 {
		topN = 0
	}

	candidate := make([]bool, len(scored))

	w := r.Weights
	var g errgroup.Group
	g.SetLimit(max(1, r.Concurrency))

	for _, i := range idx[:topN] {
		candidate[i] = true
		g.Go(func() error {
			snippet := StripStopwords(scored[i].Headline+"\n"+scored[i].SearchText(), r.Scorer.Stopwords)

			sim := 0.0
			vec, err := r.Provider.Embed(ctx, snippet)
			if err != nil {
				// one dead candidate must not kill the run
				log.Printf("[rank] embedding failed for ad %s: %v", scored[i].ID, err)
			} else {
				sim = embed.Cosine(refVec, vec)
			}

			s := sim
			scored[i].Similarity = &s
			scored[i].FinalScore = w.Keyword*(float64(scored[i].KeywordRating)/10.0) + w.Similarity*sim
			return nil
		})
	}
	_ = g.Wait()

	// Ads that never reached the embedding step rank below any evaluated
	// candidate of comparable rating.
	for i := range scored {
		if !candidate[i] {
			scored[i].FinalScore = float64(scored[i].KeywordRating) / 10.0 * w.SkipPenalty
		}
	}
	return true
}
