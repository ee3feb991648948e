package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// TermExtractor is the capability that turns one batch of raw texts
// into extracted terms, authenticated with a single pool key.
type TermExtractor interface {
	ExtractBatch(ctx context.Context, batch []string, apiKey string) ([]RawTerm, error)
}

// errRateLimited marks an explicit rate-limit signal from the provider.
var errRateLimited = errors.New("rate limited (429)")

// isRateLimitError reports whether an extraction failure should take
// the cooldown-and-rotate path instead of plain backoff.
func isRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errRateLimited) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "too many requests")
}

// ExtractOptions configures the multi-round extraction loop.
type ExtractOptions struct {
	Rounds     int
	BatchSize  int
	MaxWorkers int
	Timeout    time.Duration

	// Rand drives the per-round shuffle; seedable for reproducible
	// runs. Defaults to a time-seeded source.
	Rand *rand.Rand
	// sleep is swapped out in tests.
	sleep func(time.Duration)
}

const extractMaxAttempts = 3
const rateLimitCooldown = 10 * time.Second

// ExtractTerms runs the configured number of extraction rounds over the
// corpus. Every round shuffles (rounds after the first), splits into
// fixed-size batches and dispatches them to a bounded worker pool; the
// round only ends when all of its batches have finished. Batch failures
// degrade to zero terms for that batch, never aborting the run.
// Duplicate terms across rounds are intentional: repetition is the
// frequency signal.
func ExtractTerms(ctx context.Context, texts []string, pool *KeyPool, extractor TermExtractor, opts ExtractOptions) []RawTerm {
	if opts.Rounds < 1 {
		opts.Rounds = 1
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 50
	}
	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if opts.sleep == nil {
		opts.sleep = time.Sleep
	}

	var all []RawTerm
	log.Printf("extract start keys=%d workers=%d rounds=%d batch_size=%d", pool.Size(), opts.MaxWorkers, opts.Rounds, opts.BatchSize)

	for round := 1; round <= opts.Rounds; round++ {
		ordered := append([]string(nil), texts...)
		if round > 1 {
			opts.Rand.Shuffle(len(ordered), func(i, j int) {
				ordered[i], ordered[j] = ordered[j], ordered[i]
			})
		}

		var batches [][]string
		for start := 0; start < len(ordered); start += opts.BatchSize {
			end := start + opts.BatchSize
			if end > len(ordered) {
				end = len(ordered)
			}
			batches = append(batches, ordered[start:end])
		}
		log.Printf("extract round=%d/%d batches=%d", round, opts.Rounds, len(batches))

		results := make([][]RawTerm, len(batches))
		sem := make(chan struct{}, opts.MaxWorkers)
		var wg sync.WaitGroup
		t0 := time.Now()

		for i, batch := range batches {
			wg.Add(1)
			sem <- struct{}{}
			go func(idx int, batch []string) {
				defer wg.Done()
				defer func() { <-sem }()
				results[idx] = processBatch(ctx, batch, pool, extractor, opts, round, idx+1, len(batches))
			}(i, batch)
		}
		// Round barrier: round N+1 never overlaps round N.
		wg.Wait()

		roundTotal := 0
		for _, terms := range results {
			roundTotal += len(terms)
			all = append(all, terms...)
		}
		log.Printf("extract round=%d done terms=%d elapsed=%s", round, roundTotal, time.Since(t0).Round(100*time.Millisecond))
	}

	log.Printf("extract done rounds=%d terms=%d (duplicates expected)", opts.Rounds, len(all))
	return all
}

// processBatch runs one batch with up to three attempts. A rate-limit
// signal sleeps a fixed cooldown; any other failure backs off
// exponentially. Both paths report the key error and reacquire a key,
// so retries rotate through the pool. An exhausted batch yields nil.
func processBatch(ctx context.Context, batch []string, pool *KeyPool, extractor TermExtractor, opts ExtractOptions, round, batchNum, totalBatches int) []RawTerm {
	for attempt := 1; attempt <= extractMaxAttempts; attempt++ {
		key := pool.NextKey()

		callCtx := ctx
		if opts.Timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
			defer cancel()
		}

		terms, err := extractor.ExtractBatch(callCtx, batch, key)
		if err == nil {
			log.Printf("extract round=%d batch=%d/%d terms=%d", round, batchNum, totalBatches, len(terms))
			return terms
		}

		pool.ReportError(key)
		switch {
		case isRateLimitError(err):
			log.Printf("extract round=%d batch=%d rate limited (attempt %d/%d), cooling down %s", round, batchNum, attempt, extractMaxAttempts, rateLimitCooldown)
			opts.sleep(rateLimitCooldown)
		case attempt < extractMaxAttempts:
			wait := time.Duration(1<<uint(attempt)) * time.Second
			log.Printf("extract round=%d batch=%d failed (attempt %d/%d): %v, retrying in %s", round, batchNum, attempt, extractMaxAttempts, err, wait)
			opts.sleep(wait)
		default:
			log.Printf("extract round=%d batch=%d giving up: %v", round, batchNum, err)
		}
	}
	return nil
}
