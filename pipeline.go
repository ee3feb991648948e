package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"
)

// Per-key reuse throttle for LLM calls.
const (
	keyMinInterval = 300 * time.Millisecond
	keyMaxInterval = 1 * time.Second
)

// RunHarvest runs one full harvest: collect, extract, aggregate,
// deduplicate against the store, persist, report. Only an empty corpus
// or an empty extraction result fails the run; everything downstream
// degrades and logs instead.
func RunHarvest(cfg Config) error {
	startedAt := time.Now()

	pool, err := NewKeyPool(cfg.LLMAPIKeys, keyMinInterval, keyMaxInterval)
	if err != nil {
		return fmt.Errorf("building key pool: %w", err)
	}

	texts := CollectAll(allSources(cfg), cfg.TimeWindowDays)
	if len(texts) == 0 {
		return fmt.Errorf("no hot content collected from any source")
	}

	seed := cfg.ShuffleSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rawTerms := ExtractTerms(context.Background(), texts, pool, NewLLMExtractor(cfg), ExtractOptions{
		Rounds:     cfg.ExtractRounds,
		BatchSize:  cfg.BatchSize,
		MaxWorkers: cfg.MaxWorkers,
		Timeout:    time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
		Rand:       rand.New(rand.NewSource(seed)),
	})
	log.Printf("key pool after extraction: %s\n%s", pool.Summary(), pool.Stats())
	if len(rawTerms) == 0 {
		return fmt.Errorf("extraction produced no terms")
	}

	table := buildFrequencyTable(rawTerms)
	highFreq := asrFilter(table.FilterByFrequency(cfg.MinFrequency))
	log.Printf("aggregate raw=%d unique=%d high_freq=%d (min_frequency=%d)", len(rawTerms), table.Len(), len(highFreq), cfg.MinFrequency)

	store := NewHotwordStore(cfg.HotwordsFile)
	if err := store.Load(); err != nil {
		return fmt.Errorf("loading store: %w", err)
	}

	dedup := NewSmartDeduplicator(store)
	accepted := dedup.Deduplicate(highFreq)
	summary := dedup.Result.Summary()
	log.Printf("dedupe processed=%d added=%d skipped_exact=%d skipped_plural=%d version_warnings=%d",
		summary.TotalProcessed, summary.Added, summary.SkippedExact, summary.SkippedPlural, summary.VersionWarnings)
	for _, w := range dedup.Result.VersionWarnings {
		log.Printf("version collision: %s vs existing %s (base %s), %s", w.NewTerm, w.ExistingTerm, w.BaseName, w.Action)
	}

	addedCount := store.AddWords(accepted)
	if err := store.Save(); err != nil {
		return fmt.Errorf("saving store: %w", err)
	}

	if _, err := WriteChangelog(cfg.OutputDir, dedup.Result, len(highFreq), cfg.HotwordsFile); err != nil {
		log.Printf("changelog write failed: %v", err)
	}
	if _, err := WriteRunReport(cfg.OutputDir, cfg, pool.Size(), len(texts), len(rawTerms), table.Len(), highFreq, table.Distribution(), summary); err != nil {
		log.Printf("run report write failed: %v", err)
	}
	snapshotPath, err := WriteMergedSnapshot(cfg.OutputDir, store)
	if err != nil {
		log.Printf("snapshot write failed: %v", err)
	}
	if _, _, err := WriteLatestPublishFiles(cfg.OutputDir, store, cfg, snapshotPath); err != nil {
		log.Printf("publish files write failed: %v", err)
	}

	run := RunRecord{
		StartedAt:       startedAt,
		FinishedAt:      time.Now(),
		RawTexts:        len(texts),
		RawTerms:        len(rawTerms),
		UniqueTerms:     table.Len(),
		HighFreqTerms:   len(highFreq),
		AddedTerms:      addedCount,
		SkippedExact:    summary.SkippedExact,
		SkippedPlural:   summary.SkippedPlural,
		VersionWarnings: summary.VersionWarnings,
		PoolSummary:     pool.Summary(),
	}
	if db, err := InitDB(cfg.DBPath); err != nil {
		log.Printf("run history unavailable: %v", err)
	} else {
		if err := InsertHarvestRun(db, run); err != nil {
			log.Printf("run history insert failed: %v", err)
		}
		db.Close()
	}

	notifySlack(cfg, run, dedup.Result.Added)

	log.Printf("harvest done added=%d store_total=%d elapsed=%s", addedCount, store.TermCount(), time.Since(startedAt).Round(time.Second))
	return nil
}

// printHistory dumps the most recent harvest runs.
func printHistory(cfg Config, limit int) error {
	db, err := InitDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening history db: %w", err)
	}
	defer db.Close()

	runs, err := RecentRuns(db, limit)
	if err != nil {
		return fmt.Errorf("querying history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("no harvest runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("#%d  %s  texts=%d terms=%d unique=%d high_freq=%d added=%d skipped=%d/%d warnings=%d  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.RawTexts, r.RawTerms, r.UniqueTerms,
			r.HighFreqTerms, r.AddedTerms, r.SkippedExact, r.SkippedPlural, r.VersionWarnings, r.PoolSummary)
	}
	return nil
}
