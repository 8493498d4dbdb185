package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"jobsearcher/internal/domain"
)

// UpsertAds inserts new ads and refreshes the scores and last_seen of ones we
// have seen before. Returns how many were new.
func UpsertAds(ctx context.Context, db *sql.DB, ads []domain.ScoredAd) (added int, err error) {
	today := time.Now().Format("2006-01-02")

	for _, ad := range ads {
		var exists int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM ads WHERE id = ?;`, ad.ID).Scan(&exists)
		switch {
		case err == sql.ErrNoRows:
			if _, err := db.ExecContext(ctx, `
INSERT INTO ads (
  id, headline, employer, employment_type, publication_date,
  application_deadline, webpage_url, description_text,
  municipality, region, occupation_group, query_source,
  kw_raw, kw_score, similarity, final_score, first_seen, last_seen
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`,
				ad.ID, ad.Headline, ad.Employer, ad.EmploymentType, ad.PublicationDate,
				ad.ApplicationDeadline, ad.WebpageURL, ad.Description,
				ad.Municipality, ad.Region, ad.OccupationGroup, ad.QuerySource,
				ad.RawKeywordScore, ad.KeywordRating, similarityValue(ad), ad.FinalScore, today, today,
			); err != nil {
				return added, fmt.Errorf("insert ad %s: %w", ad.ID, err)
			}
			added++
		case err != nil:
			return added, fmt.Errorf("check ad %s: %w", ad.ID, err)
		default:
			if _, err := db.ExecContext(ctx, `
UPDATE ads SET
  kw_raw = ?, kw_score = ?, similarity = ?, final_score = ?,
  last_seen = ?, query_source = ?
WHERE id = ?;`,
				ad.RawKeywordScore, ad.KeywordRating, similarityValue(ad), ad.FinalScore,
				today, ad.QuerySource, ad.ID,
			); err != nil {
				return added, fmt.Errorf("update ad %s: %w", ad.ID, err)
			}
		}
	}
	return added, nil
}

func similarityValue(ad domain.ScoredAd) any {
	if ad.Similarity == nil {
		return nil
	}
	return *ad.Similarity
}

// AdRow is what the HTTP layer serves; description stays in the DB.
type AdRow struct {
	ID              string   `json:"id"`
	Headline        string   `json:"headline"`
	Employer        string   `json:"employer"`
	Municipality    string   `json:"municipality"`
	Region          string   `json:"region"`
	OccupationGroup string   `json:"occupationGroup"`
	WebpageURL      string   `json:"webpageUrl"`
	QuerySource     string   `json:"querySource"`
	KeywordRating   int      `json:"keywordRating"`
	Similarity      *float64 `json:"similarity"`
	FinalScore      float64  `json:"finalScore"`
	FirstSeen       string   `json:"firstSeen"`
	LastSeen        string   `json:"lastSeen"`
}

func ListAds(ctx context.Context, db *sql.DB, limit int) ([]AdRow, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, headline, employer, municipality, region, occupation_group,
       webpage_url, query_source, kw_score, similarity, final_score,
       first_seen, last_seen
FROM ads
ORDER BY final_score DESC, last_seen DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdRow
	for rows.Next() {
		var a AdRow
		var sim sql.NullFloat64
		if err := rows.Scan(
			&a.ID, &a.Headline, &a.Employer, &a.Municipality, &a.Region,
			&a.OccupationGroup, &a.WebpageURL, &a.QuerySource, &a.KeywordRating,
			&sim, &a.FinalScore, &a.FirstSeen, &a.LastSeen,
		); err != nil {
			return nil, err
		}
		if sim.Valid {
			v := sim.Float64
			a.Similarity = &v
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
