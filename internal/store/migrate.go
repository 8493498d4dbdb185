package store

import "database/sql"

func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}
	if v >= 1 {
		return tx.Commit()
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS ads (
  id TEXT PRIMARY KEY,
  headline TEXT NOT NULL,
  employer TEXT NOT NULL DEFAULT '',
  employment_type TEXT NOT NULL DEFAULT '',
  publication_date TEXT NOT NULL DEFAULT '',
  application_deadline TEXT NOT NULL DEFAULT '',
  webpage_url TEXT NOT NULL DEFAULT '',
  description_text TEXT NOT NULL DEFAULT '',
  municipality TEXT NOT NULL DEFAULT '',
  region TEXT NOT NULL DEFAULT '',
  occupation_group TEXT NOT NULL DEFAULT '',
  query_source TEXT NOT NULL DEFAULT '',
  kw_raw INTEGER NOT NULL DEFAULT 0,
  kw_score INTEGER NOT NULL DEFAULT 1,
  similarity REAL,
  final_score REAL NOT NULL DEFAULT 0,
  first_seen TEXT NOT NULL,
  last_seen TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  run_date TEXT NOT NULL,
  total_fetched INTEGER NOT NULL DEFAULT 0,
  total_scored INTEGER NOT NULL DEFAULT 0,
  embedding_available INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT ''
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_ads_final_score ON ads(final_score DESC);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}
	return tx.Commit()
}
