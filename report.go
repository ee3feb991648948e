package main

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const reportTimestampLayout = "20060102_150405"

// writeJSONFile marshals v with indentation and writes it to path.
func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

type changelogDoc struct {
	GeneratedAt    string           `json:"generated_at"`
	SourceHotwords string           `json:"source_hotwords"`
	Summary        changelogSummary `json:"summary"`
	Details        *DedupResult     `json:"details"`
}

type changelogSummary struct {
	TotalCollected int `json:"total_collected"`
	DedupSummary
}

// WriteChangelog records the full deduplication audit of one merge.
func WriteChangelog(outputDir string, result *DedupResult, totalCollected int, sourceHotwords string) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("changelog_%s.json", time.Now().Format(reportTimestampLayout)))
	doc := changelogDoc{
		GeneratedAt:    time.Now().Format(time.RFC3339),
		SourceHotwords: sourceHotwords,
		Summary: changelogSummary{
			TotalCollected: totalCollected,
			DedupSummary:   result.Summary(),
		},
		Details: result,
	}
	if err := writeJSONFile(path, doc); err != nil {
		return "", err
	}
	log.Printf("changelog written to %s", path)
	return path, nil
}

type runReportDoc struct {
	GeneratedAt string           `json:"generated_at"`
	Config      runReportConfig  `json:"config"`
	Stats       runReportStats   `json:"stats"`
	Dedup       DedupSummary     `json:"deduplication"`
	Frequency   []freqBucket     `json:"frequency_distribution"`
	Terms       []HotTerm        `json:"terms"`
}

type runReportConfig struct {
	TimeWindowDays int `json:"time_window_days"`
	ExtractRounds  int `json:"extract_rounds"`
	MinFrequency   int `json:"min_frequency"`
	BatchSize      int `json:"batch_size"`
	MaxWorkers     int `json:"max_workers"`
	APIKeyCount    int `json:"api_key_count"`
	TotalRawTexts  int `json:"total_raw_texts"`
}

type runReportStats struct {
	TotalRawExtractions int `json:"total_raw_extractions"`
	UniqueTerms         int `json:"unique_terms"`
	HighFrequencyTerms  int `json:"high_frequency_terms"`
}

// WriteRunReport saves the detailed per-run report.
func WriteRunReport(outputDir string, cfg Config, keyCount, rawTexts, rawTerms, uniqueTerms int, terms []HotTerm, distribution []freqBucket, dedup DedupSummary) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("report_%s.json", time.Now().Format(reportTimestampLayout)))
	doc := runReportDoc{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Config: runReportConfig{
			TimeWindowDays: cfg.TimeWindowDays,
			ExtractRounds:  cfg.ExtractRounds,
			MinFrequency:   cfg.MinFrequency,
			BatchSize:      cfg.BatchSize,
			MaxWorkers:     cfg.MaxWorkers,
			APIKeyCount:    keyCount,
			TotalRawTexts:  rawTexts,
		},
		Stats: runReportStats{
			TotalRawExtractions: rawTerms,
			UniqueTerms:         uniqueTerms,
			HighFrequencyTerms:  len(terms),
		},
		Dedup:     dedup,
		Frequency: distribution,
		Terms:     terms,
	}
	if err := writeJSONFile(path, doc); err != nil {
		return "", err
	}
	log.Printf("run report written to %s", path)
	return path, nil
}

// WriteMergedSnapshot writes a timestamped copy of the merged store.
func WriteMergedSnapshot(outputDir string, store *HotwordStore) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(outputDir, fmt.Sprintf("hotwords_merged_%s.txt", time.Now().Format(reportTimestampLayout)))
	if err := os.WriteFile(path, []byte(store.Serialize()), 0644); err != nil {
		return "", fmt.Errorf("writing snapshot %s: %w", path, err)
	}
	return path, nil
}

type publishMeta struct {
	GeneratedAt        string `json:"generated_at"`
	SourceHotwords     string `json:"source_hotwords"`
	SnapshotFile       string `json:"snapshot_file"`
	LatestFile         string `json:"latest_file"`
	SHA256             string `json:"sha256"`
	TotalTerms         int    `json:"total_terms"`
	NonEmptyCategories int    `json:"non_empty_categories"`
}

// WriteLatestPublishFiles writes the stable files external consumers
// pull: hotwords_latest.txt, its metadata manifest, and (when a publish
// repo is configured) an ordered-fallback mirror endpoint list.
func WriteLatestPublishFiles(outputDir string, store *HotwordStore, cfg Config, snapshotPath string) (string, string, error) {
	latestPath := filepath.Join(outputDir, "hotwords_latest.txt")
	content := store.Serialize()
	if err := os.WriteFile(latestPath, []byte(content), 0644); err != nil {
		return "", "", fmt.Errorf("writing %s: %w", latestPath, err)
	}

	nonEmpty := 0
	for _, cat := range store.categoryOrder {
		if len(store.categories[cat]) > 0 {
			nonEmpty++
		}
	}

	meta := publishMeta{
		GeneratedAt:        time.Now().Format(time.RFC3339),
		SourceHotwords:     cfg.HotwordsFile,
		SnapshotFile:       filepath.Base(snapshotPath),
		LatestFile:         filepath.Base(latestPath),
		SHA256:             fmt.Sprintf("%x", sha256.Sum256([]byte(content))),
		TotalTerms:         store.TermCount(),
		NonEmptyCategories: nonEmpty,
	}
	metaPath := filepath.Join(outputDir, "hotwords_latest.json")
	if err := writeJSONFile(metaPath, meta); err != nil {
		return "", "", err
	}

	if path, err := writeMirrorEndpoints(outputDir, cfg.PublishRepo, cfg.PublishRef); err != nil {
		log.Printf("mirror endpoints not written: %v", err)
	} else if path != "" {
		log.Printf("mirror endpoints written to %s", path)
	}

	return latestPath, metaPath, nil
}

type mirrorArtifact struct {
	Path      string   `json:"path"`
	Endpoints []string `json:"endpoints"`
}

type mirrorManifest struct {
	GeneratedAt string                    `json:"generated_at"`
	Repo        string                    `json:"repo"`
	Ref         string                    `json:"ref"`
	Strategy    string                    `json:"strategy"`
	Notes       []string                  `json:"notes"`
	Artifacts   map[string]mirrorArtifact `json:"artifacts"`
}

// writeMirrorEndpoints emits the ordered-fallback mirror list for the
// published artifacts. Consumers try endpoints in order and use the
// first that answers.
func writeMirrorEndpoints(outputDir, publishRepo, publishRef string) (string, error) {
	repo := strings.TrimSpace(publishRepo)
	if repo == "" || !strings.Contains(repo, "/") {
		return "", nil
	}
	ref := strings.TrimSpace(publishRef)
	if ref == "" {
		ref = "main"
	}

	txtPath := "output/hotwords_latest.txt"
	jsonPath := "output/hotwords_latest.json"
	manifest := mirrorManifest{
		GeneratedAt: time.Now().Format(time.RFC3339),
		Repo:        repo,
		Ref:         ref,
		Strategy:    "ordered-fallback",
		Notes: []string{
			"按 endpoints 顺序尝试，第一个成功即使用",
			"前 2/5/6 为第三方镜像，稳定性不保证，建议保留直连兜底",
		},
		Artifacts: map[string]mirrorArtifact{
			"hotwords_latest.txt":  {Path: txtPath, Endpoints: buildMirrorURLs(repo, ref, txtPath)},
			"hotwords_latest.json": {Path: jsonPath, Endpoints: buildMirrorURLs(repo, ref, jsonPath)},
		},
	}

	path := filepath.Join(outputDir, "hotwords_latest_endpoints.json")
	if err := writeJSONFile(path, manifest); err != nil {
		return "", err
	}
	return path, nil
}

// buildMirrorURLs returns the six mirror URLs in fallback order.
func buildMirrorURLs(repo, ref, artifactPath string) []string {
	parts := strings.SplitN(repo, "/", 2)
	owner, name := parts[0], parts[1]
	raw := fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, name, ref, artifactPath)
	return []string{
		"https://gh-proxy.org/" + raw,
		"https://hk.gh-proxy.org/" + raw,
		fmt.Sprintf("https://cdn.jsdelivr.net/gh/%s/%s@%s/%s", owner, name, ref, artifactPath),
		raw,
		"https://cdn.gh-proxy.org/" + raw,
		"https://edgeone.gh-proxy.org/" + raw,
	}
}
