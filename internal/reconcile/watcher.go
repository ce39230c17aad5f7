package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/lingua/internal/progress"
)

// Watcher syncs a set of stores on a fixed interval.
type Watcher struct {
	scheduler *gocron.Scheduler
	syncer    *Syncer
	stores    []*progress.Store
	interval  time.Duration
	logger    *slog.Logger
}

// NewWatcher creates a watcher that syncs stores every interval.
func NewWatcher(syncer *Syncer, interval time.Duration, stores ...*progress.Store) *Watcher {
	s := gocron.NewScheduler(time.UTC)
	// A slow sync must not overlap with the next tick.
	s.SingletonModeAll()
	return &Watcher{
		scheduler: s,
		syncer:    syncer,
		stores:    stores,
		interval:  interval,
		logger:    syncer.logger,
	}
}

// Start schedules the sync job, runs it once immediately and returns.
func (w *Watcher) Start() error {
	if w.interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", w.interval)
	}
	if _, err := w.scheduler.Every(w.interval).Do(w.RunOnce); err != nil {
		return fmt.Errorf("schedule sync: %w", err)
	}
	w.scheduler.StartAsync()
	return nil
}

// Stop terminates the schedule. A run in progress finishes first.
func (w *Watcher) Stop() {
	w.scheduler.Stop()
}

// RunOnce syncs every store, logging failures.
func (w *Watcher) RunOnce() {
	for _, st := range w.stores {
		if _, err := w.syncer.Sync(context.Background(), st); err != nil {
			w.logger.Warn("periodic sync failed", "language", st.Language(), "error", err)
		}
	}
}
