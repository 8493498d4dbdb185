package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobsearcher/internal/domain"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, Migrate(db.Pool))
	return db
}

func scored(id string, rating int, final float64) domain.ScoredAd {
	return domain.ScoredAd{
		Ad: domain.Ad{
			ID:          id,
			Headline:    "headline " + id,
			Employer:    "acme",
			Description: "desc",
			QuerySource: "occupation_group",
		},
		RawKeywordScore: rating,
		KeywordRating:   rating,
		FinalScore:      final,
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Migrate(db.Pool))
	require.NoError(t, Migrate(db.Pool))
}

func TestUpsertAdsCountsOnlyNew(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	added, err := UpsertAds(ctx, db.Pool, []domain.ScoredAd{
		scored("1", 5, 0.5),
		scored("2", 3, 0.3),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, added)

	// re-upserting refreshes, not re-adds
	updated := scored("1", 8, 0.9)
	added, err = UpsertAds(ctx, db.Pool, []domain.ScoredAd{updated, scored("3", 1, 0.1)})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	ads, err := ListAds(ctx, db.Pool, 10)
	require.NoError(t, err)
	require.Len(t, ads, 3)
	assert.Equal(t, "1", ads[0].ID, "refreshed score should rank it first")
	assert.Equal(t, 8, ads[0].KeywordRating)
	assert.InDelta(t, 0.9, ads[0].FinalScore, 1e-9)
}

func TestUpsertAdsSimilarityNullable(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	withSim := scored("a", 5, 0.8)
	sim := 0.75
	withSim.Similarity = &sim

	_, err := UpsertAds(ctx, db.Pool, []domain.ScoredAd{withSim, scored("b", 5, 0.5)})
	require.NoError(t, err)

	ads, err := ListAds(ctx, db.Pool, 10)
	require.NoError(t, err)
	require.Len(t, ads, 2)

	require.NotNil(t, ads[0].Similarity)
	assert.InDelta(t, 0.75, *ads[0].Similarity, 1e-9)
	assert.Nil(t, ads[1].Similarity, "never-evaluated ads keep NULL similarity")
}

func TestListAdsOrderAndLimit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := UpsertAds(ctx, db.Pool, []domain.ScoredAd{
		scored("low", 1, 0.1),
		scored("high", 8, 0.9),
		scored("mid", 5, 0.5),
	})
	require.NoError(t, err)

	ads, err := ListAds(ctx, db.Pool, 2)
	require.NoError(t, err)
	require.Len(t, ads, 2)
	assert.Equal(t, "high", ads[0].ID)
	assert.Equal(t, "mid", ads[1].ID)
}

func TestRecordAndListRuns(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, RecordRun(ctx, db.Pool, Run{
		RunDate: "2026-08-24", TotalFetched: 40, TotalScored: 38,
		EmbeddingAvailable: true, Status: "success",
	}))
	require.NoError(t, RecordRun(ctx, db.Pool, Run{
		RunDate: "2026-08-25", TotalFetched: 12, TotalScored: 12,
		EmbeddingAvailable: false, Status: "partial",
	}))

	runs, err := ListRuns(ctx, db.Pool, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	// newest first
	assert.Equal(t, "2026-08-25", runs[0].RunDate)
	assert.False(t, runs[0].EmbeddingAvailable)
	assert.Equal(t, "partial", runs[0].Status)
	assert.Equal(t, "2026-08-24", runs[1].RunDate)
	assert.True(t, runs[1].EmbeddingAvailable)
	assert.Equal(t, 40, runs[1].TotalFetched)
}
