package service_test

import (
	"testing"
	"time"

	"github.com/msomdec/mockmatch/internal/service"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTokenBucket_AllowsUpToCapacity(t *testing.T) {
	tb := service.NewTokenBucket(1, 3) // rate=1/s, capacity=3
	defer tb.Stop()

	for i := 0; i < 3; i++ {
		if !tb.Allow("test-key") {
			t.Fatalf("request %d should be allowed (bucket not yet empty)", i+1)
		}
	}

	if tb.Allow("test-key") {
		t.Fatal("4th request should be denied (bucket empty)")
	}
}

func TestTokenBucket_DifferentKeysAreIndependent(t *testing.T) {
	tb := service.NewTokenBucket(1, 1)
	defer tb.Stop()

	if !tb.Allow("ip-a") {
		t.Fatal("ip-a first request should be allowed")
	}
	if tb.Allow("ip-a") {
		t.Fatal("ip-a second request should be denied")
	}

	if !tb.Allow("ip-b") {
		t.Fatal("ip-b first request should be allowed (independent bucket)")
	}
}

func TestTokenBucket_RefillsOverTime(t *testing.T) {
	clock := newFakeClock()
	tb := service.NewTokenBucketWithClock(0.5, 1, clock.Now) // one token every 2s

	if !tb.Allow("k") {
		t.Fatal("first request should be allowed")
	}

	ok, wait := tb.Reserve("k")
	if ok {
		t.Fatal("second request should be denied")
	}
	if wait != 2*time.Second {
		t.Fatalf("expected wait 2s, got %v", wait)
	}

	clock.Advance(2 * time.Second)
	if !tb.Allow("k") {
		t.Fatal("request after refill should be allowed")
	}
}

func TestTokenBucket_ZeroRateNeverRefills(t *testing.T) {
	clock := newFakeClock()
	tb := service.NewTokenBucketWithClock(0, 2, clock.Now)

	if !tb.Allow("k") || !tb.Allow("k") {
		t.Fatal("first two requests should be allowed")
	}
	clock.Advance(time.Hour)
	if tb.Allow("k") {
		t.Fatal("third request should be denied (no refill)")
	}
}

func TestTokenBucket_CleanupDropsIdleBuckets(t *testing.T) {
	clock := newFakeClock()
	tb := service.NewTokenBucketWithClock(1, 1, clock.Now)

	tb.Allow("idle")
	clock.Advance(5 * time.Minute)
	tb.Allow("active")
	clock.Advance(6 * time.Minute)

	if removed := tb.Cleanup(); removed != 1 {
		t.Fatalf("expected 1 idle bucket removed, got %d", removed)
	}

	// A forgotten key starts full again.
	if !tb.Allow("idle") {
		t.Fatal("evicted key should start with a full bucket")
	}
}

func TestTokenBucket_StopIsIdempotent(t *testing.T) {
	tb := service.NewTokenBucket(1, 1)
	tb.Stop()
	tb.Stop()
}
