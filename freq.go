package main

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// RawTerm is a single extraction result as returned by the LLM.
type RawTerm struct {
	Term     string `json:"term"`
	Category string `json:"category"`
}

// HotTerm is an aggregated term that survived frequency filtering.
type HotTerm struct {
	Term      string `json:"term"`
	Category  string `json:"category"`
	Frequency int    `json:"frequency"`
}

// normalizeTerm folds full-width characters (U+FF01..U+FF5E plus the
// ideographic space) to their half-width equivalents, lowercases and
// trims. Two raw terms are the same term iff their normalized forms are
// equal.
func normalizeTerm(term string) string {
	var b strings.Builder
	b.Grow(len(term))
	for _, r := range term {
		switch {
		case r == 0x3000:
			b.WriteByte(' ')
		case r >= 0xFF01 && r <= 0xFF5E:
			b.WriteRune(r - 0xFEE0)
		default:
			b.WriteRune(r)
		}
	}
	return strings.ToLower(strings.TrimSpace(b.String()))
}

// termEntry accumulates counts for one normalized key.
type termEntry struct {
	Term      string
	Frequency int
	Category  string

	caseCounts map[string]int
	caseOrder  []string
	catCounts  map[string]int
	catOrder   []string
}

func newTermEntry(term, category string) *termEntry {
	return &termEntry{
		Term:       term,
		Category:   category,
		caseCounts: make(map[string]int),
		catCounts:  make(map[string]int),
	}
}

func (e *termEntry) record(term, category string) {
	e.Frequency++
	if _, seen := e.catCounts[category]; !seen {
		e.catOrder = append(e.catOrder, category)
	}
	e.catCounts[category]++
	if _, seen := e.caseCounts[term]; !seen {
		e.caseOrder = append(e.caseOrder, term)
	}
	e.caseCounts[term]++
}

// absorb merges another entry's counts into this one, preserving this
// entry's first-seen ordering for tie-breaks.
func (e *termEntry) absorb(other *termEntry) {
	e.Frequency += other.Frequency
	for _, cat := range other.catOrder {
		if _, seen := e.catCounts[cat]; !seen {
			e.catOrder = append(e.catOrder, cat)
		}
		e.catCounts[cat] += other.catCounts[cat]
	}
	for _, variant := range other.caseOrder {
		if _, seen := e.caseCounts[variant]; !seen {
			e.caseOrder = append(e.caseOrder, variant)
		}
		e.caseCounts[variant] += other.caseCounts[variant]
	}
}

// finalize sets the display spelling to the most frequent case variant
// and the category to the majority vote, first-seen winning ties.
func (e *termEntry) finalize() {
	if best := mostCommon(e.caseOrder, e.caseCounts); best != "" {
		e.Term = best
	}
	if best := mostCommon(e.catOrder, e.catCounts); best != "" {
		e.Category = best
	}
}

func mostCommon(order []string, counts map[string]int) string {
	best := ""
	bestCount := 0
	for _, k := range order {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}

// FrequencyTable maps normalized keys to aggregated entries and
// remembers key creation order so tie-broken sorts stay deterministic.
type FrequencyTable struct {
	entries map[string]*termEntry
	order   []string
}

func (t *FrequencyTable) Len() int {
	return len(t.entries)
}

// pluralFoldTarget returns the existing singular key this plural key
// should fold into, or "".
func (t *FrequencyTable) pluralFoldTarget(key string) string {
	if !strings.HasSuffix(key, "s") || utf8.RuneCountInString(key) <= 2 {
		return ""
	}
	singular := key[:len(key)-1]
	if _, ok := t.entries[singular]; ok {
		return singular
	}
	if strings.HasSuffix(key, "es") && utf8.RuneCountInString(key) > 3 {
		es := key[:len(key)-2]
		if _, ok := t.entries[es]; ok {
			return es
		}
	}
	// Family fold: "gpts" joins an existing "gpt-5" entry through the
	// shared base name.
	for _, existing := range t.order {
		if existing == key {
			continue
		}
		if _, ok := t.entries[existing]; !ok {
			continue
		}
		if extractBaseName(existing) == singular {
			return existing
		}
	}
	return ""
}

// buildFrequencyTable aggregates raw extractions into one entry per
// normalized key. Plural occurrences fold into an existing singular
// entry; a second pass collapses plural entries whose singular form
// only showed up later, so the merge result is independent of arrival
// order.
func buildFrequencyTable(raw []RawTerm) *FrequencyTable {
	table := &FrequencyTable{entries: make(map[string]*termEntry)}

	for _, rt := range raw {
		term := strings.TrimSpace(rt.Term)
		if term == "" {
			continue
		}
		key := normalizeTerm(term)
		if key == "" {
			continue
		}
		category := rt.Category
		if category == "" {
			category = defaultCategory
		}

		if target := table.pluralFoldTarget(key); target != "" {
			table.entries[target].record(term, category)
			continue
		}

		entry, ok := table.entries[key]
		if !ok {
			entry = newTermEntry(term, category)
			table.entries[key] = entry
			table.order = append(table.order, key)
		}
		entry.record(term, category)
	}

	// Second pass: plural keys that arrived before any singular
	// occurrence still exist as their own entries; fold them now.
	var keep []string
	for _, key := range table.order {
		if _, ok := table.entries[key]; !ok {
			continue
		}
		if target := table.pluralFoldTarget(key); target != "" {
			table.entries[target].absorb(table.entries[key])
			delete(table.entries, key)
			continue
		}
		keep = append(keep, key)
	}
	table.order = keep

	for _, entry := range table.entries {
		entry.finalize()
	}
	return table
}

// FilterByFrequency keeps entries at or above the threshold, sorted by
// descending frequency; ties keep table insertion order.
func (t *FrequencyTable) FilterByFrequency(minFrequency int) []HotTerm {
	var out []HotTerm
	for _, key := range t.order {
		e := t.entries[key]
		if e.Frequency >= minFrequency {
			out = append(out, HotTerm{Term: e.Term, Category: e.Category, Frequency: e.Frequency})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Frequency > out[j].Frequency })
	return out
}

// freqBucket is one row of the frequency histogram in run reports.
type freqBucket struct {
	Frequency int `json:"frequency"`
	Terms     int `json:"terms"`
}

// Distribution returns how many entries occur at each frequency,
// ascending.
func (t *FrequencyTable) Distribution() []freqBucket {
	counts := make(map[int]int)
	for _, e := range t.entries {
		counts[e.Frequency]++
	}
	freqs := make([]int, 0, len(counts))
	for f := range counts {
		freqs = append(freqs, f)
	}
	sort.Ints(freqs)
	buckets := make([]freqBucket, 0, len(freqs))
	for _, f := range freqs {
		buckets = append(buckets, freqBucket{Frequency: f, Terms: counts[f]})
	}
	return buckets
}

// Words ASR already recognizes reliably; extracting them adds noise.
var commonChineseWords = map[string]bool{
	"手机": true, "电脑": true, "人工智能": true, "视频": true, "新闻": true,
	"音乐": true, "电影": true, "电视": true, "游戏": true, "购物": true,
	"旅游": true, "健康": true, "教育": true, "工作": true, "生活": true,
	"科技": true, "互联网": true, "网络": true, "软件": true, "硬件": true,
	"数据": true, "信息": true, "系统": true, "平台": true, "应用": true,
	"服务": true, "技术": true, "产品": true, "公司": true, "市场": true,
	"用户": true, "内容": true, "发展": true, "趋势": true, "未来": true,
	"创新": true, "智能": true, "数字": true, "云计算": true, "大数据": true,
	"物联网": true, "机器人": true, "自动化": true, "虚拟现实": true, "增强现实": true,
}

var commonEnglishWords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "be": true, "been": true,
	"new": true, "old": true, "how": true, "what": true, "why": true,
	"who": true, "when": true, "where": true,
	"build": true, "make": true, "use": true, "using": true, "used": true,
	"get": true, "set": true,
	"open": true, "close": true, "start": true, "stop": true, "run": true,
	"test": true, "check": true,
	"code": true, "data": true, "web": true, "app": true, "api": true,
	"tool": true, "tools": true,
	"top": true, "best": true, "first": true, "last": true, "next": true,
	"update": true, "release": true,
}

// asrFilter drops terms ASR already handles: anything shorter than two
// characters, common English words (case-insensitive) and common
// Chinese words (exact match). Mixed-script terms, digits, acronyms and
// everything else pass through.
func asrFilter(terms []HotTerm) []HotTerm {
	var out []HotTerm
	for _, t := range terms {
		term := strings.TrimSpace(t.Term)
		if term == "" || utf8.RuneCountInString(term) < 2 {
			continue
		}
		if commonEnglishWords[strings.ToLower(term)] {
			continue
		}
		if commonChineseWords[term] {
			continue
		}
		out = append(out, t)
	}
	return out
}
