package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sync"
	"testing"
	"time"
)

// fakeExtractor scripts per-call outcomes and records every batch it
// was handed, in call order.
type fakeExtractor struct {
	mu      sync.Mutex
	calls   int
	batches [][]string
	keys    []string

	// errs[i] is returned on call i (0-based); calls past the end
	// succeed with one synthetic term per call.
	errs []error
}

func (f *fakeExtractor) ExtractBatch(ctx context.Context, batch []string, apiKey string) ([]RawTerm, error) {
	f.mu.Lock()
	call := f.calls
	f.calls++
	f.batches = append(f.batches, append([]string(nil), batch...))
	f.keys = append(f.keys, apiKey)
	f.mu.Unlock()

	if call < len(f.errs) && f.errs[call] != nil {
		return nil, f.errs[call]
	}
	return []RawTerm{{Term: fmt.Sprintf("term-%d", call), Category: "AI"}}, nil
}

func testPool(t *testing.T, keys ...string) *KeyPool {
	t.Helper()
	if len(keys) == 0 {
		keys = []string{"key-a", "key-b"}
	}
	pool, err := NewKeyPool(keys, 0, 0)
	if err != nil {
		t.Fatalf("building pool: %v", err)
	}
	pool.sleep = func(time.Duration) {}
	return pool
}

func TestExtractTermsRoundOneOrderPreserved(t *testing.T) {
	fake := &fakeExtractor{}
	pool := testPool(t)

	texts := []string{"a", "b", "c", "d", "e"}
	terms := ExtractTerms(context.Background(), texts, pool, fake, ExtractOptions{
		Rounds:     1,
		BatchSize:  2,
		MaxWorkers: 1,
		sleep:      func(time.Duration) {},
	})

	want := [][]string{{"a", "b"}, {"c", "d"}, {"e"}}
	if !reflect.DeepEqual(fake.batches, want) {
		t.Fatalf("round 1 batches = %v, want unshuffled %v", fake.batches, want)
	}
	if len(terms) != 3 {
		t.Fatalf("terms = %d, want one per batch", len(terms))
	}
}

func TestExtractTermsAccumulatesAcrossRounds(t *testing.T) {
	fake := &fakeExtractor{}
	pool := testPool(t)

	terms := ExtractTerms(context.Background(), []string{"a", "b", "c", "d"}, pool, fake, ExtractOptions{
		Rounds:     3,
		BatchSize:  2,
		MaxWorkers: 4,
		Rand:       rand.New(rand.NewSource(1)),
		sleep:      func(time.Duration) {},
	})

	// 2 batches per round, duplicates across rounds kept on purpose.
	if fake.calls != 6 {
		t.Fatalf("calls = %d, want 6", fake.calls)
	}
	if len(terms) != 6 {
		t.Fatalf("terms = %d, want 6", len(terms))
	}
}

func TestExtractTermsShuffleIsSeeded(t *testing.T) {
	run := func() [][]string {
		fake := &fakeExtractor{}
		ExtractTerms(context.Background(), []string{"a", "b", "c", "d", "e", "f"}, testPool(t), fake, ExtractOptions{
			Rounds:     2,
			BatchSize:  3,
			MaxWorkers: 1,
			Rand:       rand.New(rand.NewSource(42)),
			sleep:      func(time.Duration) {},
		})
		return fake.batches
	}

	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same seed produced different batch orders:\n%v\n%v", first, second)
	}
	// Round 1 is never shuffled, whatever the seed.
	if !reflect.DeepEqual(first[0], []string{"a", "b", "c"}) {
		t.Fatalf("round 1 first batch = %v, want original order", first[0])
	}
}

func TestExtractTermsRoundBarrier(t *testing.T) {
	var mu sync.Mutex
	var order []int

	fake := &recordingExtractor{onCall: func(call int) {
		mu.Lock()
		order = append(order, call)
		mu.Unlock()
		// Make the first batch of each round the slowest.
		if call%2 == 0 {
			time.Sleep(30 * time.Millisecond)
		}
	}}

	ExtractTerms(context.Background(), []string{"a", "b", "c", "d"}, testPool(t), fake, ExtractOptions{
		Rounds:     2,
		BatchSize:  2,
		MaxWorkers: 4,
		Rand:       rand.New(rand.NewSource(7)),
		sleep:      func(time.Duration) {},
	})

	// Calls 0,1 belong to round 1, calls 2,3 to round 2. With the
	// round barrier, no round-2 call may start before both round-1
	// calls were dispatched and finished.
	if len(order) != 4 {
		t.Fatalf("calls = %d, want 4", len(order))
	}
	roundOf := map[int]int{0: 1, 1: 1, 2: 2, 3: 2}
	for i := 0; i < 2; i++ {
		if roundOf[order[i]] != 1 {
			t.Fatalf("call order %v: round 2 call started before round 1 finished", order)
		}
	}
}

// recordingExtractor invokes a hook with the call index before
// succeeding.
type recordingExtractor struct {
	mu     sync.Mutex
	calls  int
	onCall func(call int)
}

func (r *recordingExtractor) ExtractBatch(ctx context.Context, batch []string, apiKey string) ([]RawTerm, error) {
	r.mu.Lock()
	call := r.calls
	r.calls++
	r.mu.Unlock()
	r.onCall(call)
	return []RawTerm{{Term: "x", Category: "AI"}}, nil
}

func TestProcessBatchBacksOffAndRotatesKeys(t *testing.T) {
	fake := &fakeExtractor{errs: []error{
		errors.New("boom"),
		errors.New("boom again"),
	}}
	pool := testPool(t, "key-a", "key-b", "key-c")

	var slept []time.Duration
	opts := ExtractOptions{sleep: func(d time.Duration) { slept = append(slept, d) }}

	terms := processBatch(context.Background(), []string{"a"}, pool, fake, opts, 1, 1, 1)
	if len(terms) != 1 {
		t.Fatalf("terms = %d, want success on third attempt", len(terms))
	}
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if !reflect.DeepEqual(slept, want) {
		t.Fatalf("backoff = %v, want %v", slept, want)
	}
	if !reflect.DeepEqual(fake.keys, []string{"key-a", "key-b", "key-c"}) {
		t.Fatalf("keys = %v, retries must rotate through the pool", fake.keys)
	}
	if pool.errors[0] != 1 || pool.errors[1] != 1 || pool.errors[2] != 0 {
		t.Fatalf("error counts = %v", pool.errors)
	}
}

func TestProcessBatchRateLimitCooldown(t *testing.T) {
	fake := &fakeExtractor{errs: []error{
		fmt.Errorf("provider said: Too Many Requests (429)"),
	}}
	pool := testPool(t)

	var slept []time.Duration
	opts := ExtractOptions{sleep: func(d time.Duration) { slept = append(slept, d) }}

	terms := processBatch(context.Background(), []string{"a"}, pool, fake, opts, 1, 1, 1)
	if len(terms) != 1 {
		t.Fatalf("terms = %d, want success after cooldown", len(terms))
	}
	if !reflect.DeepEqual(slept, []time.Duration{rateLimitCooldown}) {
		t.Fatalf("slept = %v, want one fixed cooldown of %s", slept, rateLimitCooldown)
	}
}

func TestProcessBatchExhaustedYieldsNothing(t *testing.T) {
	fake := &fakeExtractor{errs: []error{
		errors.New("down"), errors.New("down"), errors.New("down"),
	}}
	pool := testPool(t)

	opts := ExtractOptions{sleep: func(time.Duration) {}}
	terms := processBatch(context.Background(), []string{"a"}, pool, fake, opts, 1, 1, 1)
	if terms != nil {
		t.Fatalf("terms = %v, want nil after exhausting attempts", terms)
	}
	if fake.calls != extractMaxAttempts {
		t.Fatalf("calls = %d, want %d", fake.calls, extractMaxAttempts)
	}
}

func TestIsRateLimitError(t *testing.T) {
	cases := map[error]bool{
		nil:                                 false,
		errRateLimited:                      true,
		fmt.Errorf("wrap: %w", errRateLimited): true,
		errors.New("HTTP 429"):              true,
		errors.New("Rate Limit exceeded"):   true,
		errors.New("too many requests"):     true,
		errors.New("connection refused"):    false,
	}
	for err, want := range cases {
		if got := isRateLimitError(err); got != want {
			t.Errorf("isRateLimitError(%v) = %v, want %v", err, got, want)
		}
	}
}
