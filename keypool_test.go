package main

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func newTestPool(t *testing.T, keys ...string) *KeyPool {
	t.Helper()
	pool, err := NewKeyPool(keys, 0, 0)
	if err != nil {
		t.Fatalf("NewKeyPool: %v", err)
	}
	pool.sleep = func(time.Duration) {}
	return pool
}

func TestNewKeyPoolRequiresKeys(t *testing.T) {
	if _, err := NewKeyPool(nil, 0, 0); err == nil {
		t.Fatal("expected error for empty key list")
	}
}

func TestNextKeyRoundRobinFairness(t *testing.T) {
	pool := newTestPool(t, "key-a", "key-b", "key-c")

	const cycles = 12
	for i := 0; i < cycles*pool.Size(); i++ {
		pool.NextKey()
	}

	for i, count := range pool.usageCounts() {
		if count != cycles {
			t.Fatalf("key %d used %d times, want %d", i, count, cycles)
		}
	}
}

func TestNextKeyConcurrentFairness(t *testing.T) {
	pool := newTestPool(t, "key-a", "key-b", "key-c", "key-d")

	const callers = 8
	const callsEach = 10
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsEach; j++ {
				pool.NextKey()
			}
		}()
	}
	wg.Wait()

	want := callers * callsEach / pool.Size()
	for i, count := range pool.usageCounts() {
		if count != want {
			t.Fatalf("key %d used %d times, want %d", i, count, want)
		}
	}
}

func TestNextKeyThrottlesReuse(t *testing.T) {
	pool, err := NewKeyPool([]string{"only-key"}, 50*time.Millisecond, 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewKeyPool: %v", err)
	}
	var slept time.Duration
	pool.sleep = func(d time.Duration) { slept += d }

	pool.NextKey()
	pool.NextKey()

	if slept <= 0 {
		t.Fatal("expected second acquisition of the same key to wait")
	}
}

func TestReportErrorKeepsKeyInRotation(t *testing.T) {
	pool := newTestPool(t, "key-a", "key-b")

	pool.ReportError("key-a")
	pool.ReportError("key-a")
	pool.ReportError("unknown-key")

	seen := map[string]int{}
	for i := 0; i < 4; i++ {
		seen[pool.NextKey()]++
	}
	if seen["key-a"] != 2 || seen["key-b"] != 2 {
		t.Fatalf("error reporting changed rotation: %v", seen)
	}

	if !strings.Contains(pool.Summary(), "errors=2") {
		t.Fatalf("summary missing error count: %s", pool.Summary())
	}
}

func TestStatsMasksKeys(t *testing.T) {
	pool := newTestPool(t, "sk-abcdefghijklmnopqrstuvwxyz")
	pool.NextKey()

	stats := pool.Stats()
	if strings.Contains(stats, "sk-abcdefghijklmnopqrstuvwxyz") {
		t.Fatalf("stats leaked full key: %s", stats)
	}
	if !strings.Contains(stats, "sk-abcde") {
		t.Fatalf("stats missing masked prefix: %s", stats)
	}
}
