package framework

import (
	"sync"
	"time"
)

// Policy is a bucket's rate-limit configuration. Limit invocations are allowed
// within any trailing TimeSpan window per scope key; Delay is the minimum gap
// between consecutive invocations regardless of Limit. Zero values disable the
// respective constraint.
type Policy struct {
	Delay    time.Duration
	TimeSpan time.Duration
	Limit    int
}

// bucket tracks per-scope invocation windows under its own lock; buckets are
// independent, so there is no store-wide lock on the hot path.
type bucket struct {
	policy Policy

	mu      sync.Mutex
	windows map[string][]time.Time
}

// BucketStore holds named rate-limit buckets shared by one or more commands.
// Buckets are defined at startup; CheckAndRecord is safe for concurrent use
// from any number of in-flight dispatches.
type BucketStore struct {
	buckets map[string]*bucket
}

// NewBucketStore returns an empty store.
func NewBucketStore() *BucketStore {
	return &BucketStore{buckets: make(map[string]*bucket)}
}

// Define adds a named bucket. Redefining a name replaces its policy and
// discards recorded state. Startup-time only.
func (s *BucketStore) Define(name string, p Policy) {
	s.buckets[name] = &bucket{policy: p, windows: make(map[string][]time.Time)}
}

// CheckAndRecord applies the named bucket's policy for the given scope key at
// time now. If allowed, the invocation is recorded and ok is true. If denied,
// ok is false and retryAfter is the ceiling of the duration until the next
// invocation would be allowed. An unknown bucket name always allows.
//
// Prune, check, and record happen in one critical section so two
// near-simultaneous invocations cannot both pass the limit check.
func (s *BucketStore) CheckAndRecord(name, scopeKey string, now time.Time) (retryAfter time.Duration, ok bool) {
	b, found := s.buckets[name]
	if !found {
		return 0, true
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	win := b.windows[scopeKey]

	// Drop entries that have left the trailing window.
	if b.policy.TimeSpan > 0 {
		cutoff := now.Add(-b.policy.TimeSpan)
		i := 0
		for i < len(win) && !win[i].After(cutoff) {
			i++
		}
		win = win[i:]
	}

	var wait time.Duration
	if b.policy.Delay > 0 && len(win) > 0 {
		if d := b.policy.Delay - now.Sub(win[len(win)-1]); d > wait {
			wait = d
		}
	}
	if b.policy.Limit > 0 && b.policy.TimeSpan > 0 && len(win) >= b.policy.Limit {
		// The earliest recorded invocation must expire from the window first.
		if d := win[len(win)-b.policy.Limit].Add(b.policy.TimeSpan).Sub(now); d > wait {
			wait = d
		}
	}

	if wait > 0 {
		b.windows[scopeKey] = win
		return ceilSecond(wait), false
	}

	win = append(win, now)
	if b.policy.TimeSpan == 0 && len(win) > 1 {
		// Delay-only bucket: only the most recent invocation matters.
		win = win[len(win)-1:]
	}
	b.windows[scopeKey] = win
	return 0, true
}

// ceilSecond rounds up to a whole second, matching the user-facing
// "try again in N seconds" granularity.
func ceilSecond(d time.Duration) time.Duration {
	if r := d % time.Second; r != 0 {
		return d - r + time.Second
	}
	return d
}
