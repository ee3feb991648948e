package main

import (
	"path/filepath"
	"testing"
	"time"
)

func TestHarvestRunRoundTrip(t *testing.T) {
	db, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("init db: %v", err)
	}
	defer db.Close()

	base := time.Date(2026, 8, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := RunRecord{
			StartedAt:       base.Add(time.Duration(i) * time.Hour),
			FinishedAt:      base.Add(time.Duration(i)*time.Hour + 20*time.Minute),
			RawTexts:        1000 + i,
			RawTerms:        5000,
			UniqueTerms:     800,
			HighFreqTerms:   40,
			AddedTerms:      12,
			SkippedExact:    20,
			SkippedPlural:   5,
			VersionWarnings: 3,
			PoolSummary:     "keys=4 calls=500 errors=2 error_rate=0.4%",
		}
		if err := InsertHarvestRun(db, run); err != nil {
			t.Fatalf("insert run %d: %v", i, err)
		}
	}

	runs, err := RecentRuns(db, 2)
	if err != nil {
		t.Fatalf("recent runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// Newest first.
	if runs[0].RawTexts != 1002 || runs[1].RawTexts != 1001 {
		t.Fatalf("order wrong: %d, %d", runs[0].RawTexts, runs[1].RawTexts)
	}
	if runs[0].AddedTerms != 12 || runs[0].VersionWarnings != 3 {
		t.Errorf("fields lost: %+v", runs[0])
	}
	if runs[0].PoolSummary == "" {
		t.Error("pool summary not persisted")
	}
}

func TestInitDBIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := InitDB(path)
	if err != nil {
		t.Fatalf("first init: %v", err)
	}
	db.Close()
	db, err = InitDB(path)
	if err != nil {
		t.Fatalf("second init: %v", err)
	}
	db.Close()
}
