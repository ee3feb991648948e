package main

import (
	"fmt"
	"sort"
	"testing"
)

type stubSource struct {
	name  string
	lines []string
	err   error
}

func (s *stubSource) Name() string { return s.name }
func (s *stubSource) Fetch(timeWindowDays int) ([]string, error) {
	return s.lines, s.err
}

func TestCollectAllMergesAndIsolatesFailures(t *testing.T) {
	sources := []FeedSource{
		&stubSource{name: "a", lines: []string{"[a] one", "[a] two"}},
		&stubSource{name: "broken", err: fmt.Errorf("connection reset")},
		&stubSource{name: "b", lines: []string{"[b] three"}},
	}

	got := CollectAll(sources, 3)
	sort.Strings(got)
	want := []string{"[a] one", "[a] two", "[b] three"}
	if len(got) != len(want) {
		t.Fatalf("collected %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("collected %v, want %v", got, want)
		}
	}
}

func TestAllSourcesCoversEveryPlatform(t *testing.T) {
	sources := allSources(Config{RequestTimeoutSeconds: 20})
	names := make(map[string]bool)
	for _, s := range sources {
		names[s.Name()] = true
	}
	for _, want := range []string{"微博热搜", "百度热搜", "B站", "今日头条", "抖音热榜", "HackerNews", "GitHub", "Dev.to"} {
		if !names[want] {
			t.Errorf("source %q missing from %v", want, names)
		}
	}
}
