package reaper

import (
	"context"
	"time"

	fiberlog "github.com/gofiber/fiber/v2/log"
)

// Cache is the slice of the answer cache the reaper drives: a bounded,
// idempotent batch delete of stale rejected entries.
type Cache interface {
	Reap(ctx context.Context, maxAge time.Duration) (int64, error)
}

// Scheduler sweeps the cache on a fixed interval. Each sweep deletes only
// entries that were explicitly rejected and are older than maxAge; pending
// and approved entries survive regardless of age.
type Scheduler struct {
	cache    Cache
	maxAge   time.Duration
	interval time.Duration
	stopChan chan struct{}
}

// NewScheduler builds a reaper sweeping every interval with the given
// retention age.
func NewScheduler(cache Cache, maxAge, interval time.Duration) *Scheduler {
	if interval == 0 {
		interval = 1 * time.Hour
	}
	return &Scheduler{
		cache:    cache,
		maxAge:   maxAge,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start blocks, sweeping until Stop is called or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	fiberlog.Infof("reaper: started, sweeping every %s (max age %s)", s.interval, s.maxAge)

	for {
		select {
		case <-ticker.C:
			if deleted, err := s.RunOnce(ctx); err != nil {
				fiberlog.Errorf("reaper: sweep failed: %v", err)
			} else if deleted > 0 {
				fiberlog.Infof("reaper: reclaimed %d rejected entries", deleted)
			}
		case <-s.stopChan:
			fiberlog.Info("reaper: stopped")
			return
		case <-ctx.Done():
			fiberlog.Info("reaper: stopped due to context cancellation")
			return
		}
	}
}

// RunOnce performs a single sweep. Usable on demand, independent of the
// schedule.
func (s *Scheduler) RunOnce(ctx context.Context) (int64, error) {
	return s.cache.Reap(ctx, s.maxAge)
}

// Stop terminates a running scheduler.
func (s *Scheduler) Stop() {
	close(s.stopChan)
}
