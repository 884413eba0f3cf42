// Package shardinfo reports per-shard gateway health read from the shard
// manager collaborator. It never mutates shard state.
package shardinfo

import (
	"errors"
	"time"
)

var (
	// ErrShardNotFound means the shard id is not known to the manager. Callers
	// report this to the invoking user; it is not fatal.
	ErrShardNotFound = errors.New("shard not found")

	// ErrLatencyUnknown means the shard exists but has no heartbeat
	// measurement yet.
	ErrLatencyUnknown = errors.New("shard latency unknown")
)

// Status is a point-in-time snapshot of one shard. Known is false until the
// first heartbeat round-trip completes.
type Status struct {
	ID      int
	Latency time.Duration
	Known   bool
}

// Manager is the shard-manager collaborator. Statuses returns a snapshot of
// all live shards; the reporter only reads it.
type Manager interface {
	Statuses() []Status
}

// Reporter answers latency queries against a Manager snapshot.
type Reporter struct {
	mgr Manager
}

// NewReporter returns a reporter over the given manager.
func NewReporter(mgr Manager) *Reporter {
	return &Reporter{mgr: mgr}
}

// Latency returns the current gateway latency of the given shard.
func (r *Reporter) Latency(shardID int) (time.Duration, error) {
	for _, st := range r.mgr.Statuses() {
		if st.ID != shardID {
			continue
		}
		if !st.Known {
			return 0, ErrLatencyUnknown
		}
		return st.Latency, nil
	}
	return 0, ErrShardNotFound
}
