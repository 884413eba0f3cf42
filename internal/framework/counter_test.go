package framework

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterConcurrentIncrementsLoseNothing(t *testing.T) {
	c := NewUsageCounter()

	const n = 500
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Increment("ping")
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(n), c.Snapshot()["ping"])
}

func TestCounterSnapshotIsACopy(t *testing.T) {
	c := NewUsageCounter()
	c.Increment("ping")

	snap := c.Snapshot()
	snap["ping"] = 99
	snap["latency"] = 7

	assert.Equal(t, uint64(1), c.Snapshot()["ping"])
	_, ok := c.Snapshot()["latency"]
	assert.False(t, ok)
}

func TestCounterSeedRestoresCounts(t *testing.T) {
	c := NewUsageCounter()
	c.Seed(map[string]uint64{"ping": 3})
	c.Increment("ping")

	require.Equal(t, uint64(4), c.Snapshot()["ping"])
}

func TestCounterSnapshotSafeDuringIncrements(t *testing.T) {
	c := NewUsageCounter()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			c.Increment("ping")
		}
	}()
	for i := 0; i < 100; i++ {
		_ = c.Snapshot()
	}
	<-done
	assert.Equal(t, uint64(1000), c.Snapshot()["ping"])
}
