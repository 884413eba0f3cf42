package framework

import "sync"

// UsageCounter counts command invocations across concurrent dispatches. A
// command is counted when its dispatch is attempted (after the name resolves),
// not when it completes, so denied or failed invocations still count.
type UsageCounter struct {
	mu     sync.RWMutex
	counts map[string]uint64
}

// NewUsageCounter returns an empty counter.
func NewUsageCounter() *UsageCounter {
	return &UsageCounter{counts: make(map[string]uint64)}
}

// Seed replaces the counter's contents, typically with counts restored from
// storage at startup. Not safe to call once dispatching has begun.
func (c *UsageCounter) Seed(counts map[string]uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts = make(map[string]uint64, len(counts))
	for k, v := range counts {
		c.counts[k] = v
	}
}

// Increment adds one to the command's count.
func (c *UsageCounter) Increment(name string) {
	c.mu.Lock()
	c.counts[name]++
	c.mu.Unlock()
}

// Snapshot returns a point-in-time copy, safe to read while increments
// continue. Increments racing with the snapshot may or may not be included,
// but none are ever lost.
func (c *UsageCounter) Snapshot() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]uint64, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}
