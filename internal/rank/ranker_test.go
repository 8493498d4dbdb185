package rank

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearcher/internal/config"
	"jobsearcher/internal/domain"
)

type fakeProvider struct {
	embed func(text string) ([]float64, error)
	calls atomic.Int32
}

func (f *fakeProvider) Embed(_ context.Context, text string) ([]float64, error) {
	f.calls.Add(1)
	return f.embed(text)
}

var errDown = errors.New("connection refused")

func rankLexicon() config.Lexicon {
	return config.Lexicon{
		High:   []string{"kubernetes", "terraform", "golang"},
		Medium: []string{"docker"},
		Low:    []string{"linux"},
	}
}

func ad(id, desc string) domain.Ad {
	return domain.Ad{ID: id, Headline: "job " + id, Employer: "acme", Description: desc}
}

func newRanker(p Provider) *Ranker {
	return &Ranker{
		Scorer:      LexiconScorer{Lex: rankLexicon()},
		Provider:    p,
		Weights:     DefaultWeights(),
		Concurrency: 2,
	}
}

func TestRankEmptyInput(t *testing.T) {
	r := newRanker(nil)
	ranked, available := r.Rank(context.Background(), nil, "profile", 20, 8)
	assert.Empty(t, ranked)
	assert.False(t, available)
}

func TestRankNoProviderKeywordOnly(t *testing.T) {
	r := newRanker(nil)
	ads := []domain.Ad{
		ad("a", "kubernetes terraform golang linux"), // raw 10, rating 8
		ad("b", "kubernetes docker"),                 // raw 5, rating 5
		ad("c", "linux"),                             // raw 1, rating 1
	}
	ranked, available := r.Rank(context.Background(), ads, "profile", 20, 10)

	assert.False(t, available)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(ranked))
	assert.InDelta(t, 0.8, ranked[0].FinalScore, 1e-9)
	assert.InDelta(t, 0.5, ranked[1].FinalScore, 1e-9)
	assert.InDelta(t, 0.1, ranked[2].FinalScore, 1e-9)
	for _, sa := range ranked {
		assert.Nil(t, sa.Similarity)
	}
}

func TestRankProviderDownDegradesToKeywordOnly(t *testing.T) {
	p := &fakeProvider{embed: func(string) ([]float64, error) { return nil, errDown }}
	r := newRanker(p)
	ads := []domain.Ad{
		ad("a", "kubernetes terraform golang"),          // rating 7 (raw 9)
		ad("b", "kubernetes docker"),                    // rating 5
		ad("c", "docker docker"),                        // raw 2, rating 2
		ad("d", "linux"),                                // rating 1
		ad("e", "kubernetes terraform golang linux linux"), // raw 10, rating 8
	}
	ranked, available := r.Rank(context.Background(), ads, "profile", 20, 10)

	assert.False(t, available)
	assert.Equal(t, int32(1), p.calls.Load(), "only the reference embedding should be attempted")
	assert.Equal(t, []string{"e", "a", "b", "c", "d"}, ids(ranked))
	for _, sa := range ranked {
		assert.InDelta(t, float64(sa.KeywordRating)/10.0, sa.FinalScore, 1e-9)
		assert.Nil(t, sa.Similarity)
	}
}

func TestRankMissingProfileSkipsRerank(t *testing.T) {
	p := &fakeProvider{embed: func(string) ([]float64, error) { return []float64{1, 0}, nil }}
	r := newRanker(p)
	ranked, available := r.Rank(context.Background(), []domain.Ad{ad("a", "linux")}, "  \n", 20, 10)

	assert.False(t, available)
	assert.Zero(t, p.calls.Load())
	require.Len(t, ranked, 1)
	assert.InDelta(t, 0.1, ranked[0].FinalScore, 1e-9)
}

// Two-stage fusion with exact numbers: topN=2, raw scores [10,5,1], ratings
// [8,5,1], candidate similarities [0.9, 0.1]. Fused: 0.86, 0.26; the ad left
// out of the rerank gets 0.1*0.4 = 0.04.
func TestRankHybridFusion(t *testing.T) {
	p := &fakeProvider{embed: func(text string) ([]float64, error) {
		switch {
		case strings.Contains(text, "terraform"): // doc a snippet
			return []float64{9, math.Sqrt(19)}, nil // cos vs [1,0] = 0.9
		case strings.Contains(text, "docker"): // doc b snippet
			return []float64{1, math.Sqrt(99)}, nil // cos = 0.1
		default: // profile
			return []float64{1, 0}, nil
		}
	}}
	r := newRanker(p)
	ads := []domain.Ad{
		ad("a", "kubernetes terraform golang linux"), // raw 10
		ad("b", "kubernetes docker"),                 // raw 5
		ad("c", "linux"),                             // raw 1
	}
	ranked, available := r.Rank(context.Background(), ads, "profile", 2, 10)

	assert.True(t, available)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"a", "b", "c"}, ids(ranked))

	require.NotNil(t, ranked[0].Similarity)
	assert.InDelta(t, 0.9, *ranked[0].Similarity, 1e-9)
	assert.InDelta(t, 0.86, ranked[0].FinalScore, 1e-9)

	require.NotNil(t, ranked[1].Similarity)
	assert.InDelta(t, 0.1, *ranked[1].Similarity, 1e-9)
	assert.InDelta(t, 0.26, ranked[1].FinalScore, 1e-9)

	assert.Nil(t, ranked[2].Similarity, "non-candidates are never embedded")
	assert.InDelta(t, 0.04, ranked[2].FinalScore, 1e-9)
}

func TestRankCandidateFailureFallsBackToZeroSimilarity(t *testing.T) {
	p := &fakeProvider{embed: func(text string) ([]float64, error) {
		if strings.Contains(text, "docker") {
			return nil, errDown
		}
		return []float64{1, 0}, nil
	}}
	r := newRanker(p)
	ads := []domain.Ad{
		ad("a", "kubernetes terraform golang"),
		ad("b", "kubernetes docker"),
	}
	ranked, available := r.Rank(context.Background(), ads, "profile", 2, 10)

	assert.True(t, available, "one failed candidate must not degrade the run")
	require.Len(t, ranked, 2)

	b := byID(ranked, "b")
	require.NotNil(t, b.Similarity)
	assert.Zero(t, *b.Similarity)
	assert.InDelta(t, 0.4*0.5, b.FinalScore, 1e-9)
}

func TestRankNonCandidatePenaltyRanksBelowEvaluated(t *testing.T) {
	// same rating, non-negative similarity: the evaluated ad must win
	p := &fakeProvider{embed: func(string) ([]float64, error) { return []float64{1, 0}, nil }}
	r := newRanker(p)
	ads := []domain.Ad{
		ad("a", "kubernetes docker"), // raw 5
		ad("b", "docker golang"),     // raw 5, same rating, loses topN=1 tiebreak
	}
	ranked, available := r.Rank(context.Background(), ads, "profile", 1, 10)

	assert.True(t, available)
	a, b := byID(ranked, "a"), byID(ranked, "b")
	assert.NotNil(t, a.Similarity)
	assert.Nil(t, b.Similarity)
	assert.Greater(t, a.FinalScore, b.FinalScore)
	assert.InDelta(t, 0.5*0.4, b.FinalScore, 1e-9)
}

func TestRankTiesKeepInputOrder(t *testing.T) {
	r := newRanker(nil)
	ads := []domain.Ad{ad("x", "linux"), ad("y", "linux"), ad("z", "linux")}
	ranked, _ := r.Rank(context.Background(), ads, "", 20, 10)
	assert.Equal(t, []string{"x", "y", "z"}, ids(ranked))
}

func TestRankTruncatesToFinalN(t *testing.T) {
	r := newRanker(nil)
	var ads []domain.Ad
	for i := 0; i < 10; i++ {
		ads = append(ads, ad(fmt.Sprintf("a%d", i), "linux"))
	}
	ranked, _ := r.Rank(context.Background(), ads, "", 20, 3)
	assert.Len(t, ranked, 3)
}

func TestRankDeterministic(t *testing.T) {
	p := &fakeProvider{embed: func(text string) ([]float64, error) {
		if strings.Contains(text, "terraform") {
			return []float64{3, 4}, nil
		}
		return []float64{1, 0}, nil
	}}
	ads := []domain.Ad{
		ad("a", "kubernetes terraform"),
		ad("b", "docker linux"),
		ad("c", "golang"),
	}

	run := func() []domain.ScoredAd {
		r := newRanker(p)
		ranked, _ := r.Rank(context.Background(), ads, "profile", 2, 10)
		return ranked
	}
	first := run()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, run())
	}
}

func ids(ranked []domain.ScoredAd) []string {
	out := make([]string, len(ranked))
	for i, sa := range ranked {
		out[i] = sa.ID
	}
	return out
}

func byID(ranked []domain.ScoredAd, id string) domain.ScoredAd {
	for _, sa := range ranked {
		if sa.ID == id {
			return sa
		}
	}
	return domain.ScoredAd{}
}
