package remote

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/lingua/internal/store"
)

// LoggingRemote is a decorator that records every remote call as a sync
// event.
type LoggingRemote struct {
	inner  Remote
	events store.SyncEventRepo
	logger *slog.Logger
}

// WithLogging wraps a Remote with event logging. events may be nil.
func WithLogging(r Remote, events store.SyncEventRepo, logger *slog.Logger) Remote {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingRemote{inner: r, events: events, logger: logger}
}

func (l *LoggingRemote) Load(ctx context.Context, language string) (*Envelope, error) {
	start := time.Now()
	env, err := l.inner.Load(ctx, language)

	n := 0
	if env != nil {
		n = len(env.History)
	}
	l.record(ctx, "load", language, n, start, err)
	return env, err
}

func (l *LoggingRemote) Save(ctx context.Context, language string, env *Envelope) error {
	start := time.Now()
	err := l.inner.Save(ctx, language, env)
	l.record(ctx, "save", language, len(env.History), start, err)
	return err
}

func (l *LoggingRemote) Name() string {
	return l.inner.Name()
}

func (l *LoggingRemote) record(ctx context.Context, op, language string, records int, start time.Time, err error) {
	data := store.SyncEventData{
		Language:  language,
		Backend:   l.inner.Name(),
		Operation: op,
		Records:   records,
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		l.logger.Warn("remote "+op+" failed", "backend", data.Backend, "language", language, "error", err)
	} else {
		l.logger.Debug("remote "+op, "backend", data.Backend, "language", language,
			"records", records, "latency_ms", data.LatencyMs)
	}

	if l.events == nil {
		return
	}
	// Log the event but don't fail the call if logging fails.
	if logErr := l.events.Append(context.WithoutCancel(ctx), data); logErr != nil {
		l.logger.Warn("failed to record sync event", "error", logErr)
	}
}
