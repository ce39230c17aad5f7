// Package session runs a practice session: it grades answers, records
// them in a progress store and syncs when the session ends.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/lingua/internal/grading"
	"github.com/abhisek/lingua/internal/progress"
	"github.com/abhisek/lingua/internal/reconcile"
)

// Prompt is one item shown to the learner.
type Prompt struct {
	Label       string
	Category    string
	Expected    string
	SubCategory string
	// GrammarKind is set for grammar prompts.
	GrammarKind progress.GrammarKind
	Translation string
	AudioRef    string
}

// Feedback is the result of one answer.
type Feedback struct {
	Grade   grading.Result
	Correct bool
	Outcome progress.Outcome
}

// Session is an in-progress practice session for one language.
type Session struct {
	ID    string
	Start time.Time

	store  *progress.Store
	syncer *reconcile.Syncer
	logger *slog.Logger
	now    func() time.Time

	mu         sync.Mutex
	total      int
	correct    int
	closeCount int
	categories map[string]*CategoryResult
	order      []string
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithClock overrides the session clock.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New starts a session over st. syncer may be nil to skip syncing at the
// end of the session.
func New(st *progress.Store, syncer *reconcile.Syncer, opts ...Option) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		store:      st,
		syncer:     syncer,
		logger:     slog.Default(),
		now:        time.Now,
		categories: make(map[string]*CategoryResult),
	}
	for _, o := range opts {
		o(s)
	}
	s.Start = s.now()
	return s
}

// Answer grades input against the prompt and records the attempt. A close
// answer counts as correct for scheduling. Repeated submissions of the
// same answer are recorded once.
func (s *Session) Answer(p Prompt, input string) (Feedback, error) {
	g := grading.Grade(input, p.Expected)
	correct := g.Verdict.Accepted()

	out, err := s.store.RecordAttempt(progress.Input{
		Label:       p.Label,
		Category:    p.Category,
		IsCorrect:   correct,
		SubCategory: p.SubCategory,
		GrammarKind: p.GrammarKind,
		Translation: p.Translation,
		AudioRef:    p.AudioRef,
		At:          s.now(),
	})
	if err != nil {
		return Feedback{Grade: g}, fmt.Errorf("record answer: %w", err)
	}

	fb := Feedback{Grade: g, Correct: correct, Outcome: out}
	if out.Duplicate {
		return fb, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.total++
	if correct {
		s.correct++
	}
	isClose := g.Verdict == grading.VerdictClose
	if isClose {
		s.closeCount++
	}
	cr, ok := s.categories[p.Category]
	if !ok {
		cr = &CategoryResult{Category: p.Category}
		s.categories[p.Category] = cr
		s.order = append(s.order, p.Category)
	}
	cr.Record(correct, isClose)
	return fb, nil
}

// End flushes pending writes, syncs with the remote when configured and
// returns the session summary. Flush and sync failures are logged and
// reported in the summary; they never fail the session.
func (s *Session) End(ctx context.Context) *Summary {
	if err := s.store.Flush(ctx); err != nil {
		s.logger.Warn("flush progress at session end", "language", s.store.Language(), "error", err)
	}

	var (
		report  *reconcile.Report
		syncErr error
	)
	if s.syncer != nil {
		rep, err := s.syncer.Sync(ctx, s.store)
		if err != nil {
			s.logger.Warn("sync at session end", "language", s.store.Language(), "error", err)
			syncErr = err
		} else {
			report = &rep
		}
	}

	sum := BuildSummary(s, s.now())
	sum.Sync = report
	if syncErr != nil {
		sum.SyncError = syncErr.Error()
	}
	return sum
}
