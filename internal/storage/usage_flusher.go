package storage

import (
	"context"
	"log"
	"time"
)

// RunUsageFlusher periodically persists the usage-counter snapshot until ctx
// is done, then writes one final snapshot. Call from main as a goroutine.
func RunUsageFlusher(ctx context.Context, store *Storage, snapshot func() map[string]uint64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if err := store.SaveUsage(snapshot()); err != nil {
				log.Println("[ERR] Error saving usage counts on shutdown:", err)
			}
			return
		case <-ticker.C:
			if err := store.SaveUsage(snapshot()); err != nil {
				log.Println("[ERR] Error saving usage counts:", err)
			}
		}
	}
}
