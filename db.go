package main

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// RunRecord is one harvest run as stored in the history database.
type RunRecord struct {
	ID              int64
	StartedAt       time.Time
	FinishedAt      time.Time
	RawTexts        int
	RawTerms        int
	UniqueTerms     int
	HighFreqTerms   int
	AddedTerms      int
	SkippedExact    int
	SkippedPlural   int
	VersionWarnings int
	PoolSummary     string
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS harvest_runs (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at       DATETIME NOT NULL,
		finished_at      DATETIME NOT NULL,
		raw_texts        INTEGER NOT NULL,
		raw_terms        INTEGER NOT NULL,
		unique_terms     INTEGER NOT NULL,
		high_freq_terms  INTEGER NOT NULL,
		added_terms      INTEGER NOT NULL,
		skipped_exact    INTEGER NOT NULL,
		skipped_plural   INTEGER NOT NULL,
		version_warnings INTEGER NOT NULL,
		pool_summary     TEXT DEFAULT '',
		created_at       DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_harvest_runs_started ON harvest_runs(started_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, err
	}
	return db, nil
}

func InsertHarvestRun(db *sql.DB, run RunRecord) error {
	_, err := db.Exec(
		`INSERT INTO harvest_runs
		 (started_at, finished_at, raw_texts, raw_terms, unique_terms, high_freq_terms,
		  added_terms, skipped_exact, skipped_plural, version_warnings, pool_summary)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt, run.FinishedAt, run.RawTexts, run.RawTerms, run.UniqueTerms,
		run.HighFreqTerms, run.AddedTerms, run.SkippedExact, run.SkippedPlural,
		run.VersionWarnings, run.PoolSummary,
	)
	return err
}

func RecentRuns(db *sql.DB, limit int) ([]RunRecord, error) {
	rows, err := db.Query(
		`SELECT id, started_at, finished_at, raw_texts, raw_terms, unique_terms,
		        high_freq_terms, added_terms, skipped_exact, skipped_plural,
		        version_warnings, pool_summary
		 FROM harvest_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.FinishedAt, &r.RawTexts, &r.RawTerms,
			&r.UniqueTerms, &r.HighFreqTerms, &r.AddedTerms, &r.SkippedExact,
			&r.SkippedPlural, &r.VersionWarnings, &r.PoolSummary); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
