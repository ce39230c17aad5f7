package progress

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/abhisek/lingua/internal/store"
)

// saveTimeout bounds a single snapshot write.
const saveTimeout = 10 * time.Second

// Writer persists snapshots on a background goroutine. Only the latest
// submitted snapshot is written: a submission made while a write is in
// flight replaces any snapshot still queued.
type Writer struct {
	repo   store.SnapshotRepo
	logger *slog.Logger

	mu      sync.Mutex
	pending *store.Snapshot
	busy    chan struct{} // non-nil while work is outstanding; closed when drained
	lastErr error
	closed  bool

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewWriter starts a writer over repo.
func NewWriter(repo store.SnapshotRepo, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	w := &Writer{
		repo:   repo,
		logger: logger,
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go w.loop()
	return w
}

// Submit queues snap for writing, superseding any queued snapshot.
// It never blocks on I/O.
func (w *Writer) Submit(snap *store.Snapshot) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.pending = snap
	if w.busy == nil {
		w.busy = make(chan struct{})
	}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush waits until every submitted snapshot has been written or
// superseded. It returns the error of the last write, if it failed.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	busy := w.busy
	w.mu.Unlock()

	if busy != nil {
		select {
		case <-busy:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

// Close flushes outstanding work and stops the writer.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.stop)
	select {
	case <-w.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastErr
}

func (w *Writer) loop() {
	defer close(w.done)
	for {
		select {
		case <-w.wake:
			w.drain()
		case <-w.stop:
			w.drain()
			return
		}
	}
}

func (w *Writer) drain() {
	for {
		w.mu.Lock()
		snap := w.pending
		w.pending = nil
		if snap == nil {
			if w.busy != nil {
				close(w.busy)
				w.busy = nil
			}
			w.mu.Unlock()
			return
		}
		w.mu.Unlock()

		err := w.save(snap)

		w.mu.Lock()
		w.lastErr = err
		w.mu.Unlock()
	}
}

func (w *Writer) save(snap *store.Snapshot) error {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	start := time.Now()
	if err := w.repo.Save(ctx, snap); err != nil {
		w.logger.Warn("persist progress snapshot",
			"language", snap.Language,
			"error", err,
		)
		return err
	}
	w.logger.Debug("persisted progress snapshot",
		"language", snap.Language,
		"records", len(snap.History),
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
