package main

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Trailing version patterns: a separator then an optional v plus digit
// groups ("-5.2", " 4.5", "-V4", "-v2.1-beta").
var versionSuffixPattern = regexp.MustCompile(`[-\s][vV]?\d+(\.\d+)*(-\w+)?$|-[vV]\d+(\.\d+)*(-\w+)?$`)

// Trailing variant qualifiers ("Pro", "Ultra", " Opus", "-Mini 2").
var variantSuffixPattern = regexp.MustCompile(`(?i)[-\s]?(Gen|Ultra|Pro|Flash|Mini|Lite|Max|Plus|Opus|Sonnet|Haiku)\s*\d*$`)

// extractBaseName strips a trailing variant qualifier and then a
// trailing version number, leaving the lowercase product root.
//
//	GPT-5.2         -> gpt
//	DeepSeek-V4     -> deepseek
//	Gemini 3 Ultra  -> gemini
//	Claude 4.5 Opus -> claude
func extractBaseName(term string) string {
	base := variantSuffixPattern.ReplaceAllString(term, "")
	base = versionSuffixPattern.ReplaceAllString(base, "")
	return strings.ToLower(strings.TrimSpace(base))
}

// SkipRecord explains why a candidate term was not added.
type SkipRecord struct {
	Term   string `json:"term"`
	Kept   string `json:"kept,omitempty"`
	Reason string `json:"reason"`
}

// VersionWarning flags a term that was added even though the store
// already holds another entry with the same base name.
type VersionWarning struct {
	NewTerm      string `json:"new_term"`
	ExistingTerm string `json:"existing_term"`
	BaseName     string `json:"base_name"`
	Action       string `json:"action"`
}

// DedupResult is the audit of one deduplication pass. All four lists
// are append-only while the pass runs.
type DedupResult struct {
	Added           []HotTerm        `json:"added"`
	SkippedExact    []SkipRecord     `json:"skipped_exact"`
	SkippedPlural   []SkipRecord     `json:"skipped_plural"`
	VersionWarnings []VersionWarning `json:"version_warnings"`
}

// DedupSummary is the count view of a DedupResult, used by reports and
// the run-history table.
type DedupSummary struct {
	TotalProcessed  int `json:"total_processed"`
	Added           int `json:"added"`
	SkippedExact    int `json:"skipped_exact"`
	SkippedPlural   int `json:"skipped_plural"`
	VersionWarnings int `json:"version_warnings"`
}

func (r *DedupResult) Summary() DedupSummary {
	return DedupSummary{
		TotalProcessed:  len(r.Added) + len(r.SkippedExact) + len(r.SkippedPlural),
		Added:           len(r.Added),
		SkippedExact:    len(r.SkippedExact),
		SkippedPlural:   len(r.SkippedPlural),
		VersionWarnings: len(r.VersionWarnings),
	}
}

// SmartDeduplicator reconciles aggregated candidates against the
// persisted store: exact and plural collisions are skipped, version or
// variant collisions are accepted with a warning.
type SmartDeduplicator struct {
	store         *HotwordStore
	baseNameIndex map[string][]termInfo
	Result        *DedupResult
}

func NewSmartDeduplicator(store *HotwordStore) *SmartDeduplicator {
	d := &SmartDeduplicator{
		store:         store,
		baseNameIndex: make(map[string][]termInfo),
		Result:        &DedupResult{},
	}
	for _, info := range store.AllTerms() {
		if base := extractBaseName(info.Original); base != "" {
			d.baseNameIndex[base] = append(d.baseNameIndex[base], info)
		}
	}
	return d
}

// Deduplicate applies the rules to every candidate and returns the
// accepted terms. The full audit stays available on Result.
func (d *SmartDeduplicator) Deduplicate(terms []HotTerm) []HotTerm {
	var accepted []HotTerm
	for _, t := range terms {
		t.Term = strings.TrimSpace(t.Term)
		if t.Term == "" {
			continue
		}
		if d.check(t) {
			accepted = append(accepted, t)
		}
	}
	return accepted
}

// check runs the four rules in order. Rules 1-3 are terminal skips;
// rule 4 records a warning but still accepts.
func (d *SmartDeduplicator) check(t HotTerm) bool {
	lower := strings.ToLower(t.Term)

	// Rule 1: exact match, any case.
	if info, ok := d.store.GetTermInfo(t.Term); ok {
		d.Result.SkippedExact = append(d.Result.SkippedExact, SkipRecord{
			Term:   t.Term,
			Reason: fmt.Sprintf("already in 【%s】 as %s", info.Category, info.Original),
		})
		return false
	}

	// Rule 2: candidate looks plural and its singular form is stored.
	if strings.HasSuffix(lower, "s") && utf8.RuneCountInString(lower) > 2 {
		if info, ok := d.store.GetTermInfo(lower[:len(lower)-1]); ok {
			d.Result.SkippedPlural = append(d.Result.SkippedPlural, SkipRecord{
				Term:   t.Term,
				Kept:   info.Original,
				Reason: fmt.Sprintf("singular form %s already in 【%s】", info.Original, info.Category),
			})
			return false
		}
		if strings.HasSuffix(lower, "es") && utf8.RuneCountInString(lower) > 3 {
			if info, ok := d.store.GetTermInfo(lower[:len(lower)-2]); ok {
				d.Result.SkippedPlural = append(d.Result.SkippedPlural, SkipRecord{
					Term:   t.Term,
					Kept:   info.Original,
					Reason: fmt.Sprintf("singular form %s already in 【%s】", info.Original, info.Category),
				})
				return false
			}
		}
	}

	// Rule 3: the stored vocabulary already has the plural form.
	if info, ok := d.store.GetTermInfo(lower + "s"); ok {
		d.Result.SkippedPlural = append(d.Result.SkippedPlural, SkipRecord{
			Term:   t.Term,
			Kept:   info.Original,
			Reason: fmt.Sprintf("plural form %s already in 【%s】", info.Original, info.Category),
		})
		return false
	}

	// Rule 4: same base name as an existing entry. Warn once, accept.
	if base := extractBaseName(t.Term); base != "" {
		for _, existing := range d.baseNameIndex[base] {
			if strings.ToLower(existing.Original) != lower {
				d.Result.VersionWarnings = append(d.Result.VersionWarnings, VersionWarning{
					NewTerm:      t.Term,
					ExistingTerm: existing.Original,
					BaseName:     base,
					Action:       "added, needs manual review",
				})
				break
			}
		}
	}

	d.Result.Added = append(d.Result.Added, t)
	return true
}
