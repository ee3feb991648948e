package main

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
)

// KeyPool is a thread-safe round-robin pool of LLM API keys with
// per-key reuse throttling and usage/error accounting. Keys are never
// removed from rotation; a failing key just accumulates error counts.
type KeyPool struct {
	keys []string

	mu       sync.Mutex
	next     int
	lastUsed []time.Time
	usage    []int
	errors   []int

	minInterval time.Duration
	maxInterval time.Duration
	rng         *rand.Rand
	sleep       func(time.Duration)
}

// NewKeyPool builds a pool over the given keys. The pool enforces a
// randomized minimum idle interval per key between uses, drawn from
// [minInterval, maxInterval].
func NewKeyPool(keys []string, minInterval, maxInterval time.Duration) (*KeyPool, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("key pool requires at least one API key")
	}
	if maxInterval < minInterval {
		maxInterval = minInterval
	}
	return &KeyPool{
		keys:        append([]string(nil), keys...),
		lastUsed:    make([]time.Time, len(keys)),
		usage:       make([]int, len(keys)),
		errors:      make([]int, len(keys)),
		minInterval: minInterval,
		maxInterval: maxInterval,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		sleep:       time.Sleep,
	}, nil
}

func (p *KeyPool) Size() int {
	return len(p.keys)
}

// NextKey returns the next key in rotation. If the selected key was used
// too recently, the call sleeps with the lock held so concurrent callers
// observe a consistent last-used timestamp and never under-throttle.
func (p *KeyPool) NextKey() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	idx := p.next
	p.next = (p.next + 1) % len(p.keys)
	p.usage[idx]++

	interval := p.minInterval
	if p.maxInterval > p.minInterval {
		interval += time.Duration(p.rng.Int63n(int64(p.maxInterval - p.minInterval)))
	}
	elapsed := time.Since(p.lastUsed[idx])
	if elapsed < interval {
		p.sleep(interval - elapsed)
	}
	p.lastUsed[idx] = time.Now()

	return p.keys[idx]
}

// ReportError increments the error counter for the given key. Unknown
// keys are ignored.
func (p *KeyPool) ReportError(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, k := range p.keys {
		if k == key {
			p.errors[i]++
			return
		}
	}
}

// Stats returns a per-key usage table with masked key values.
func (p *KeyPool) Stats() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var b strings.Builder
	for i, k := range p.keys {
		fmt.Fprintf(&b, "  key %2d: %s  calls=%3d  errors=%d\n", i, maskKey(k), p.usage[i], p.errors[i])
	}
	return strings.TrimRight(b.String(), "\n")
}

// Summary returns a one-line aggregate of pool activity.
func (p *KeyPool) Summary() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	totalCalls := 0
	totalErrors := 0
	for i := range p.keys {
		totalCalls += p.usage[i]
		totalErrors += p.errors[i]
	}
	rate := 0.0
	if totalCalls > 0 {
		rate = float64(totalErrors) / float64(totalCalls) * 100
	}
	return fmt.Sprintf("keys=%d calls=%d errors=%d error_rate=%.1f%%", len(p.keys), totalCalls, totalErrors, rate)
}

func maskKey(k string) string {
	if len(k) > 16 {
		return k[:8] + "..." + k[len(k)-4:]
	}
	if len(k) > 4 {
		return k[:4] + "..."
	}
	return "..."
}

// usageCounts returns a copy of the per-key call counters.
func (p *KeyPool) usageCounts() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.usage...)
}
