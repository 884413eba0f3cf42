// Package sendlimit paces outbound gateway sends with a rate that adapts to
// feedback: it creeps up while sends succeed and backs off sharply when the
// platform reports rate limiting.
//
// Example usage:
//
//	lim := sendlimit.New(5, 1, 20)
//	if err := lim.Wait(ctx); err != nil { return err }
//	err := send()
//	lim.Report(err == nil)
package sendlimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	stepUp   rate.Limit = 1
	stepDown            = 0.5

	// After a rate-limit event the limit is frozen for this long before
	// successes may raise it again.
	recoveryWindow = 10 * time.Second
)

// Limiter adjusts its sends-per-second automatically based on the outcome of
// sends. Safe for concurrent use.
type Limiter struct {
	mu       sync.RWMutex
	limiter  *rate.Limiter
	minLimit rate.Limit
	maxLimit rate.Limit
	lastTrip time.Time
}

// New creates a Limiter starting at initial sends per second, bounded by min
// and max.
func New(initial, min, max rate.Limit) *Limiter {
	if initial < 1 {
		initial = 1
	}
	if min < 1 {
		min = 1
	}
	return &Limiter{
		limiter:  rate.NewLimiter(initial, burstFor(initial)),
		minLimit: min,
		maxLimit: max,
	}
}

// Wait blocks until a send slot is available or the context is canceled.
func (l *Limiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.limiter.Wait(ctx)
}

// Report feeds the outcome of a send back into the limiter: true raises the
// rate one step (outside the recovery window), false halves it.
func (l *Limiter) Report(ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ok {
		if time.Since(l.lastTrip) > recoveryWindow {
			l.adjust(l.limiter.Limit() + stepUp)
		}
		return
	}
	l.lastTrip = time.Now()
	l.adjust(rate.Limit(float64(l.limiter.Limit()) * stepDown))
}

// Current returns the current sends per second.
func (l *Limiter) Current() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return float64(l.limiter.Limit())
}

func (l *Limiter) adjust(newLimit rate.Limit) {
	if newLimit > l.maxLimit {
		newLimit = l.maxLimit
	} else if newLimit < l.minLimit {
		newLimit = l.minLimit
	}
	if newLimit != l.limiter.Limit() {
		l.limiter.SetLimit(newLimit)
		l.limiter.SetBurst(burstFor(newLimit))
	}
}

func burstFor(limit rate.Limit) int {
	if b := int(limit); b > 1 {
		return b
	}
	return 1
}
