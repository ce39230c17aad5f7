package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/remote"
)

// Report summarizes one sync.
type Report struct {
	Language string
	// Pulled is the number of usable records in the remote envelope.
	Pulled int
	// Pushed is the number of records saved back to the remote.
	Pushed int
	// NewDue lists keys added to the due sets by the merge.
	NewDue []string
	// Skipped counts remote entries that could not be decoded.
	Skipped int
}

// Syncer reconciles stores with a remote. Concurrent syncs of the same
// language share one run.
type Syncer struct {
	remote   remote.Remote
	logger   *slog.Logger
	deviceID string
	timeout  time.Duration
	now      func() time.Time

	group singleflight.Group
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) { s.logger = l }
}

// WithDeviceID stamps saved envelopes with id.
func WithDeviceID(id string) Option {
	return func(s *Syncer) { s.deviceID = id }
}

// WithTimeout bounds each sync. Zero means no bound beyond the caller's
// context.
func WithTimeout(d time.Duration) Option {
	return func(s *Syncer) { s.timeout = d }
}

// NewSyncer creates a Syncer over r.
func NewSyncer(r remote.Remote, opts ...Option) *Syncer {
	s := &Syncer{
		remote: r,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Sync pulls the remote envelope, merges it into st and pushes the merged
// state back. A failed pull or push leaves local state as it was before
// that step; the error is returned for the caller to log.
func (s *Syncer) Sync(ctx context.Context, st *progress.Store) (Report, error) {
	v, err, _ := s.group.Do(st.Language(), func() (any, error) {
		return s.sync(ctx, st)
	})
	return v.(Report), err
}

func (s *Syncer) sync(ctx context.Context, st *progress.Store) (Report, error) {
	lang := st.Language()
	rep := Report{Language: lang}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// A remote that cannot be read is left untouched: pushing over it
	// would destroy whatever history it still holds.
	env, err := s.remote.Load(ctx, lang)
	if err != nil {
		return rep, fmt.Errorf("pull %s: %w", lang, err)
	}

	var incoming []progress.Record
	if env != nil {
		incoming = progress.FromDataSlice(env.History)
		rep.Skipped = env.Skipped + len(env.History) - len(incoming)
	}
	rep.Pulled = len(incoming)
	if rep.Skipped > 0 {
		s.logger.Warn("skipped unreadable remote records", "language", lang, "count", rep.Skipped)
	}

	merged, err := st.Merge(ctx, func(local []progress.Record) ([]progress.Record, []string) {
		res := Reconcile(lang, local, incoming)
		return res.History, res.NewDue
	})
	if err != nil {
		return rep, fmt.Errorf("merge %s: %w", lang, err)
	}
	rep.NewDue = merged.Added

	out := &remote.Envelope{
		Language:  lang,
		DeviceID:  s.deviceID,
		UpdatedAt: s.now().UnixMilli(),
		History:   progress.ToDataSlice(merged.History),
		Due:       merged.Due,
	}
	if err := s.remote.Save(ctx, lang, out); err != nil {
		return rep, fmt.Errorf("push %s: %w", lang, err)
	}
	rep.Pushed = len(merged.History)

	s.logger.Info("synced progress",
		"language", lang,
		"pulled", rep.Pulled,
		"pushed", rep.Pushed,
		"new_due", len(rep.NewDue),
	)
	return rep, nil
}
