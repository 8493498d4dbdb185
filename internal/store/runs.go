package store

import (
	"context"
	"database/sql"
	"time"
)

type Run struct {
	ID                 int64  `json:"id"`
	RunDate            string `json:"runDate"`
	TotalFetched       int    `json:"totalFetched"`
	TotalScored        int    `json:"totalScored"`
	EmbeddingAvailable bool   `json:"embeddingAvailable"`
	Status             string `json:"status"` // success | partial | failed
}

func RecordRun(ctx context.Context, db *sql.DB, r Run) error {
	date := r.RunDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	_, err := db.ExecContext(ctx, `
INSERT INTO runs (run_date, total_fetched, total_scored, embedding_available, status)
VALUES (?, ?, ?, ?, ?);`,
		date, r.TotalFetched, r.TotalScored, boolInt(r.EmbeddingAvailable), r.Status,
	)
	return err
}

func ListRuns(ctx context.Context, db *sql.DB, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, run_date, total_fetched, total_scored, embedding_available, status
FROM runs
ORDER BY id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var r Run
		var emb int
		if err := rows.Scan(&r.ID, &r.RunDate, &r.TotalFetched, &r.TotalScored, &emb, &r.Status); err != nil {
			return nil, err
		}
		r.EmbeddingAvailable = emb != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
