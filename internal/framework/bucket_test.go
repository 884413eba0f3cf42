package framework

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketLimitWithinTimeSpan(t *testing.T) {
	s := NewBucketStore()
	s.Define("complicated", Policy{TimeSpan: 30 * time.Second, Limit: 2})
	t0 := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)

	_, ok := s.CheckAndRecord("complicated", "user:chan", t0)
	assert.True(t, ok)
	_, ok = s.CheckAndRecord("complicated", "user:chan", t0.Add(1*time.Second))
	assert.True(t, ok)

	retryAfter, ok := s.CheckAndRecord("complicated", "user:chan", t0.Add(2*time.Second))
	require.False(t, ok, "third invocation within the window must be denied")
	assert.Equal(t, 28*time.Second, retryAfter)

	// 30 seconds after the first invocation its entry leaves the window.
	_, ok = s.CheckAndRecord("complicated", "user:chan", t0.Add(30*time.Second))
	assert.True(t, ok)
}

func TestBucketDelayBetweenInvocations(t *testing.T) {
	s := NewBucketStore()
	s.Define("emoji", Policy{Delay: 5 * time.Second})
	t0 := time.Now()

	_, ok := s.CheckAndRecord("emoji", "u:c", t0)
	require.True(t, ok)

	retryAfter, ok := s.CheckAndRecord("emoji", "u:c", t0.Add(3*time.Second))
	require.False(t, ok)
	assert.Equal(t, 2*time.Second, retryAfter)

	_, ok = s.CheckAndRecord("emoji", "u:c", t0.Add(5*time.Second))
	assert.True(t, ok)
}

func TestBucketRetryAfterRoundsUpToWholeSeconds(t *testing.T) {
	s := NewBucketStore()
	s.Define("emoji", Policy{Delay: 5 * time.Second})
	t0 := time.Now()

	_, ok := s.CheckAndRecord("emoji", "u:c", t0)
	require.True(t, ok)

	retryAfter, ok := s.CheckAndRecord("emoji", "u:c", t0.Add(2500*time.Millisecond))
	require.False(t, ok)
	assert.Equal(t, 3*time.Second, retryAfter)
}

func TestBucketScopeKeysAreIndependent(t *testing.T) {
	s := NewBucketStore()
	s.Define("b", Policy{TimeSpan: 30 * time.Second, Limit: 1})
	t0 := time.Now()

	_, ok := s.CheckAndRecord("b", "alice:general", t0)
	require.True(t, ok)
	_, ok = s.CheckAndRecord("b", "bob:general", t0)
	assert.True(t, ok, "another scope key must not share the window")
	_, ok = s.CheckAndRecord("b", "alice:general", t0)
	assert.False(t, ok)
}

func TestUnknownBucketAlwaysAllows(t *testing.T) {
	s := NewBucketStore()
	for i := 0; i < 10; i++ {
		_, ok := s.CheckAndRecord("nope", "u:c", time.Now())
		assert.True(t, ok)
	}
}

func TestBucketConcurrentInvocationsRespectLimit(t *testing.T) {
	s := NewBucketStore()
	s.Define("b", Policy{TimeSpan: time.Hour, Limit: 1})
	now := time.Now()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := s.CheckAndRecord("b", "u:c", now); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, allowed, "exactly one of the racing invocations may pass")
}
