package main

import (
	"reflect"
	"testing"
)

func TestNormalizeTermFoldsFullWidth(t *testing.T) {
	cases := map[string]string{
		"ＧＰＴ－５":    "gpt-5",
		"　Kimi　":   "kimi",
		"DeepSeek": "deepseek",
		"AI搜索":     "ai搜索",
		"Ｈｅｌｌｏ！":   "hello!",
	}
	for in, want := range cases {
		got := normalizeTerm(in)
		if got != want {
			t.Errorf("normalizeTerm(%q) = %q, want %q", in, got, want)
		}
		if again := normalizeTerm(got); again != got {
			t.Errorf("normalizeTerm not idempotent: %q -> %q", got, again)
		}
	}
}

func TestBuildFrequencyTableCaseVariants(t *testing.T) {
	raw := []RawTerm{
		{Term: "GPT-5", Category: "AI"},
		{Term: "gpt-5", Category: "AI"},
		{Term: "GPT-5", Category: "AI"},
	}
	table := buildFrequencyTable(raw)
	if table.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", table.Len())
	}
	terms := table.FilterByFrequency(1)
	if len(terms) != 1 {
		t.Fatalf("expected 1 term, got %d", len(terms))
	}
	if terms[0].Term != "GPT-5" {
		t.Errorf("canonical spelling = %q, want GPT-5 (majority variant)", terms[0].Term)
	}
	if terms[0].Frequency != 3 {
		t.Errorf("frequency = %d, want 3", terms[0].Frequency)
	}
}

func TestBuildFrequencyTableCaseTieKeepsFirstSeen(t *testing.T) {
	raw := []RawTerm{
		{Term: "Kimi", Category: "AI"},
		{Term: "KIMI", Category: "AI"},
	}
	terms := buildFrequencyTable(raw).FilterByFrequency(1)
	if len(terms) != 1 || terms[0].Term != "Kimi" {
		t.Fatalf("tie should keep first-seen spelling Kimi, got %+v", terms)
	}
}

func TestBuildFrequencyTablePluralMergeBothOrders(t *testing.T) {
	singularFirst := []RawTerm{
		{Term: "agent", Category: "AI"},
		{Term: "agents", Category: "AI"},
		{Term: "agent", Category: "AI"},
	}
	pluralFirst := []RawTerm{
		{Term: "agents", Category: "AI"},
		{Term: "agent", Category: "AI"},
		{Term: "agent", Category: "AI"},
	}
	for name, raw := range map[string][]RawTerm{"singular first": singularFirst, "plural first": pluralFirst} {
		table := buildFrequencyTable(raw)
		if table.Len() != 1 {
			t.Fatalf("%s: expected 1 entry after plural fold, got %d", name, table.Len())
		}
		terms := table.FilterByFrequency(1)
		if terms[0].Frequency != 3 {
			t.Errorf("%s: frequency = %d, want 3", name, terms[0].Frequency)
		}
		if normalizeTerm(terms[0].Term) != "agent" {
			t.Errorf("%s: merged term = %q, want singular", name, terms[0].Term)
		}
	}
}

func TestBuildFrequencyTableFamilyFold(t *testing.T) {
	// A plural with no exact singular entry still folds into an entry
	// sharing its version-stripped base name.
	raw := []RawTerm{
		{Term: "GPT-5", Category: "AI"},
		{Term: "gpt-5", Category: "AI"},
		{Term: "GPTs", Category: "AI"},
	}
	table := buildFrequencyTable(raw)
	if table.Len() != 1 {
		t.Fatalf("expected GPTs to join the GPT-5 entry, got %d entries", table.Len())
	}
	terms := table.FilterByFrequency(1)
	if terms[0].Frequency != 3 || terms[0].Term != "GPT-5" {
		t.Fatalf("got %+v, want GPT-5 with frequency 3", terms[0])
	}
}

func TestBuildFrequencyTableShortPluralNotFolded(t *testing.T) {
	raw := []RawTerm{
		{Term: "os", Category: "编程"},
		{Term: "o", Category: "编程"},
	}
	if got := buildFrequencyTable(raw).Len(); got != 2 {
		t.Fatalf("two-rune terms must not plural-fold, got %d entries", got)
	}
}

func TestBuildFrequencyTableCategoryMajority(t *testing.T) {
	raw := []RawTerm{
		{Term: "Cursor", Category: "编程"},
		{Term: "Cursor", Category: "AI"},
		{Term: "Cursor", Category: "编程"},
	}
	terms := buildFrequencyTable(raw).FilterByFrequency(1)
	if terms[0].Category != "编程" {
		t.Errorf("category = %q, want majority 编程", terms[0].Category)
	}
}

func TestFilterByFrequencyThresholdAndOrder(t *testing.T) {
	raw := []RawTerm{
		{Term: "rare", Category: "AI"},
		{Term: "mid", Category: "AI"}, {Term: "mid", Category: "AI"},
		{Term: "hot", Category: "AI"}, {Term: "hot", Category: "AI"}, {Term: "hot", Category: "AI"},
		{Term: "also-mid", Category: "AI"}, {Term: "also-mid", Category: "AI"},
	}
	terms := buildFrequencyTable(raw).FilterByFrequency(2)
	var names []string
	for _, tm := range terms {
		names = append(names, tm.Term)
	}
	want := []string{"hot", "mid", "also-mid"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("filtered order = %v, want %v (descending, ties first-created)", names, want)
	}
}

func TestDistribution(t *testing.T) {
	raw := []RawTerm{
		{Term: "a1", Category: "AI"},
		{Term: "b1", Category: "AI"},
		{Term: "c2", Category: "AI"}, {Term: "c2", Category: "AI"},
	}
	got := buildFrequencyTable(raw).Distribution()
	want := []freqBucket{{Frequency: 1, Terms: 2}, {Frequency: 2, Terms: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("distribution = %v, want %v", got, want)
	}
}

func TestASRFilter(t *testing.T) {
	in := []HotTerm{
		{Term: "x", Frequency: 10},        // single rune
		{Term: "the", Frequency: 10},      // common English
		{Term: "Tools", Frequency: 10},    // common English, case folded
		{Term: "手机", Frequency: 10},       // common Chinese
		{Term: "DeepSeek", Frequency: 10}, // passes
		{Term: "显眼包", Frequency: 10},      // passes
		{Term: "GLP-1", Frequency: 10},    // passes
	}
	out := asrFilter(in)
	var names []string
	for _, tm := range out {
		names = append(names, tm.Term)
	}
	want := []string{"DeepSeek", "显眼包", "GLP-1"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("asrFilter kept %v, want %v", names, want)
	}
}

func TestBuildFrequencyTableEmptyCategoryDefaults(t *testing.T) {
	terms := buildFrequencyTable([]RawTerm{{Term: "Hono"}}).FilterByFrequency(1)
	if terms[0].Category != defaultCategory {
		t.Errorf("empty category = %q, want %q", terms[0].Category, defaultCategory)
	}
}
