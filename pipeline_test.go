package main

import (
	"path/filepath"
	"testing"
)

// Aggregation, filtering and store-backed dedup wired together the way
// RunHarvest wires them.
func TestHarvestAggregationChain(t *testing.T) {
	raw := []RawTerm{
		{Term: "GPT-5", Category: "AI"},
		{Term: "gpt-5", Category: "AI"},
		{Term: "GPTs", Category: "AI"},
		{Term: "Claude", Category: "AI"},
	}

	table := buildFrequencyTable(raw)
	highFreq := asrFilter(table.FilterByFrequency(1))
	if len(highFreq) != 2 {
		t.Fatalf("high freq terms = %+v, want GPT family + Claude", highFreq)
	}
	if highFreq[0].Term != "GPT-5" || highFreq[0].Frequency != 3 {
		t.Fatalf("first = %+v, want GPT-5 freq 3", highFreq[0])
	}
	if highFreq[1].Term != "Claude" || highFreq[1].Frequency != 1 {
		t.Fatalf("second = %+v, want Claude freq 1", highFreq[1])
	}

	store := NewHotwordStore(filepath.Join(t.TempDir(), "hotwords.txt"))
	if err := store.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	dedup := NewSmartDeduplicator(store)
	accepted := dedup.Deduplicate(highFreq)
	if len(accepted) != 2 {
		t.Fatalf("accepted = %+v, want both on empty store", accepted)
	}
	sum := dedup.Result.Summary()
	if sum.SkippedExact != 0 || sum.SkippedPlural != 0 || sum.VersionWarnings != 0 {
		t.Fatalf("summary = %+v, want no skips and no warnings", sum)
	}

	if added := store.AddWords(accepted); added != 2 {
		t.Fatalf("added = %d, want 2", added)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	// A rerun with the saved store skips everything.
	reloaded := NewHotwordStore(store.path)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	rerun := NewSmartDeduplicator(reloaded)
	if again := rerun.Deduplicate(highFreq); len(again) != 0 {
		t.Fatalf("rerun accepted %+v, want none", again)
	}
	if got := len(rerun.Result.SkippedExact); got != 2 {
		t.Fatalf("rerun skipped_exact = %d, want 2", got)
	}
}
