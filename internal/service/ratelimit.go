package service

import (
	"math"
	"sync"
	"time"
)

// TokenBucket is an in-memory per-key rate limiter using the token bucket
// algorithm. It is safe for concurrent use. Buckets idle for longer than
// ten minutes are dropped by a background sweep until Stop is called.
type TokenBucket struct {
	mu       sync.Mutex
	buckets  map[string]*bucket
	rate     float64 // tokens added per second
	capacity float64 // maximum tokens
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	tokens float64
	last   time.Time
}

const (
	bucketIdleTTL         = 10 * time.Minute
	bucketCleanupInterval = 5 * time.Minute
)

// NewTokenBucket creates a rate limiter that allows up to capacity tokens per key,
// refilling at the given rate (tokens per second).
func NewTokenBucket(rate, capacity float64) *TokenBucket {
	tb := newTokenBucket(rate, capacity, time.Now)
	go tb.cleanupLoop()
	return tb
}

// NewTokenBucketWithClock is NewTokenBucket with an injected clock and no
// background sweep; call Cleanup to evict idle buckets.
func NewTokenBucketWithClock(rate, capacity float64, now func() time.Time) *TokenBucket {
	return newTokenBucket(rate, capacity, now)
}

func newTokenBucket(rate, capacity float64, now func() time.Time) *TokenBucket {
	return &TokenBucket{
		buckets:  make(map[string]*bucket),
		rate:     rate,
		capacity: capacity,
		now:      now,
		stop:     make(chan struct{}),
	}
}

// Allow reports whether the given key is allowed to proceed under the rate limit.
// Each call consumes one token.
func (tb *TokenBucket) Allow(key string) bool {
	ok, _ := tb.Reserve(key)
	return ok
}

// Reserve is like Allow but also returns, when denied, how long until the
// next token is available. A zero rate never refills and reports a wait of
// bucketIdleTTL, after which the bucket is forgotten.
func (tb *TokenBucket) Reserve(key string) (bool, time.Duration) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := tb.now()
	b, ok := tb.buckets[key]
	if !ok {
		b = &bucket{tokens: tb.capacity, last: now}
		tb.buckets[key] = b
	}

	elapsed := now.Sub(b.last).Seconds()
	b.tokens = min(b.tokens+elapsed*tb.rate, tb.capacity)
	b.last = now

	if b.tokens >= 1 {
		b.tokens--
		return true, 0
	}
	if tb.rate <= 0 {
		return false, bucketIdleTTL
	}
	wait := math.Ceil((1 - b.tokens) / tb.rate)
	return false, time.Duration(wait) * time.Second
}

// Cleanup removes buckets that have not been touched within the idle TTL
// and returns how many were removed.
func (tb *TokenBucket) Cleanup() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	cutoff := tb.now().Add(-bucketIdleTTL)
	removed := 0
	for key, b := range tb.buckets {
		if b.last.Before(cutoff) {
			delete(tb.buckets, key)
			removed++
		}
	}
	return removed
}

// Stop ends the background sweep. It is safe to call more than once.
func (tb *TokenBucket) Stop() {
	tb.stopOnce.Do(func() { close(tb.stop) })
}

func (tb *TokenBucket) cleanupLoop() {
	ticker := time.NewTicker(bucketCleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-tb.stop:
			return
		case <-ticker.C:
			tb.Cleanup()
		}
	}
}
