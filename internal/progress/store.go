// Package progress owns per-language review history and the derived due
// sets, and schedules each graded attempt.
package progress

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/lingua/internal/keys"
	"github.com/abhisek/lingua/internal/spacedrep"
	"github.com/abhisek/lingua/internal/store"
)

// Store holds the in-memory progress state for one language. All methods
// are safe for concurrent use; mutations are serialized.
type Store struct {
	language string
	logger   *slog.Logger
	now      func() time.Time
	repo     store.SnapshotRepo
	writer   *Writer

	mu                  sync.Mutex
	history             []Record
	due                 *KeySet
	grammarDue          *KeySet
	grammarRules        *KeySet
	grammarLastReviewed *int64
	session             []Record

	subs      []subscriber
	nextSubID int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for persistence failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithClock overrides the attempt clock.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty, unpersisted store for language.
func New(language string, opts ...Option) *Store {
	s := &Store{
		language:     language,
		logger:       slog.Default(),
		now:          time.Now,
		due:          NewKeySet(),
		grammarDue:   NewKeySet(),
		grammarRules: NewKeySet(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Open loads the persisted state for language from repo and returns a
// store that writes every mutation back asynchronously.
func Open(ctx context.Context, repo store.SnapshotRepo, language string, opts ...Option) (*Store, error) {
	s := New(language, opts...)

	snap, err := repo.Load(ctx, language)
	if err != nil {
		return nil, fmt.Errorf("load %s progress: %w", language, err)
	}
	if snap != nil {
		s.restore(snap)
	}

	s.repo = repo
	s.writer = NewWriter(repo, s.logger)
	return s, nil
}

func (s *Store) restore(snap *store.Snapshot) {
	history := FromDataSlice(snap.History)
	s.history = Compact(history)
	s.due = NewKeySet(snap.Progress.Due...)
	s.grammarDue = NewKeySet(snap.Progress.GrammarDue...)
	s.grammarRules = NewKeySet(snap.Grammar.Rules...)
	s.grammarLastReviewed = snap.Progress.GrammarLastReviewed
	if s.grammarLastReviewed == nil {
		s.grammarLastReviewed = snap.Grammar.LastReviewed
	}
	for _, k := range s.grammarDue.Keys() {
		s.grammarRules.Add(k)
	}
	for _, h := range s.history {
		if g, ok := h.(*GrammarRecord); ok {
			s.advanceGrammarReviewedLocked(g.Timestamp)
		}
	}
}

// Language returns the language code the store tracks.
func (s *Store) Language() string { return s.language }

// Input describes one graded attempt. A non-empty GrammarKind makes it a
// grammar review.
type Input struct {
	Label       string
	Category    string
	IsCorrect   bool
	SubCategory string
	GrammarKind GrammarKind
	Translation string
	AudioRef    string
	// At is the attempt time; zero means now.
	At time.Time
}

// Outcome reports what RecordAttempt did.
type Outcome struct {
	Key    string
	Record Record
	// Duplicate is set when the attempt repeated a submission already in
	// history; Record is then the existing record and nothing changed.
	Duplicate bool
	// Retired is set when the attempt removed Key from its due set.
	Retired bool
}

// RecordAttempt schedules and appends one graded attempt and updates the
// due sets. Persistence happens in the background; write failures are
// logged and never returned. It fails only for a malformed label.
func (s *Store) RecordAttempt(in Input) (Outcome, error) {
	at := in.At
	if at.IsZero() {
		at = s.now()
	}
	attempt := Attempt{
		Label:       in.Label,
		Category:    in.Category,
		IsCorrect:   in.IsCorrect,
		Timestamp:   at.UnixMilli(),
		Translation: in.Translation,
		AudioRef:    in.AudioRef,
	}

	var rec Record
	if in.GrammarKind != "" {
		rec = &GrammarRecord{Attempt: attempt, SubCategory: in.SubCategory, GrammarKind: in.GrammarKind}
	} else {
		rec = &VocabRecord{Attempt: attempt}
	}

	key := rec.Key(s.language)
	if key == "" || strings.TrimSpace(in.Category) == "" {
		return Outcome{}, fmt.Errorf("%w: %q", keys.ErrMalformedLabel, in.Label)
	}

	s.mu.Lock()
	for _, h := range s.history {
		if IsDuplicate(h, rec) {
			s.mu.Unlock()
			return Outcome{Key: key, Record: h, Duplicate: true}, nil
		}
	}

	prior := s.latestLocked(key, rec.Kind(), grammarKindOf(rec))
	var prev *spacedrep.Schedule
	if prior != nil {
		p := prior.Core().Schedule
		prev = spacedrep.Restore(p.Interval, p.EaseFactor)
	}
	sched := spacedrep.Next(prev, in.IsCorrect, rec.Kind())
	retired := spacedrep.Retires(sched, in.IsCorrect)

	switch r := rec.(type) {
	case *VocabRecord:
		r.Schedule = sched
		r.NextReview = spacedrep.NextReviewMillis(r.Timestamp, sched.Interval)
		if retired {
			s.due.Remove(key)
		} else {
			s.due.Add(key)
		}
	case *GrammarRecord:
		r.Schedule = sched
		r.NextReview = spacedrep.NextReviewMillis(r.Timestamp, sched.Interval)
		s.grammarRules.Add(key)
		if retired {
			s.grammarDue.Remove(key)
		} else {
			s.grammarDue.Add(key)
		}
		s.advanceGrammarReviewedLocked(r.Timestamp)
	}

	s.history = append([]Record{rec}, s.history...)
	SortNewestFirst(s.history)
	s.history = Cap(s.history, MaxHistory)
	s.session = append(s.session, rec)
	s.persistLocked()
	s.mu.Unlock()

	s.notify(Change{Language: s.language, Kind: ChangeAttempt, Keys: []string{key}})
	return Outcome{Key: key, Record: rec, Retired: retired}, nil
}

// latestLocked returns the newest record for key with the same kind and
// grammar kind.
func (s *Store) latestLocked(key string, kind spacedrep.Kind, gk GrammarKind) Record {
	fk := keys.Fold(key)
	for _, h := range s.history {
		if h.Kind() != kind || grammarKindOf(h) != gk {
			continue
		}
		if keys.Fold(h.Key(s.language)) == fk {
			return h
		}
	}
	return nil
}

// AddDueItems inserts keys into the due sets without a graded attempt.
// Grammar keys go to the grammar due set. Keys already present and empty
// keys are ignored. It returns the number of keys added.
func (s *Store) AddDueItems(items []string) int {
	s.mu.Lock()
	added := s.addDueLocked(items)
	if len(added) > 0 {
		s.persistLocked()
	}
	s.mu.Unlock()

	if len(added) > 0 {
		s.notify(Change{Language: s.language, Kind: ChangeDue, Keys: added})
	}
	return len(added)
}

func (s *Store) addDueLocked(items []string) []string {
	var added []string
	for _, k := range items {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if keys.IsGrammarKey(k) {
			s.grammarRules.Add(k)
			if s.grammarDue.Add(k) {
				added = append(added, k)
			}
			continue
		}
		if s.due.Add(k) {
			added = append(added, k)
		}
	}
	return added
}

// DueSet returns the vocabulary due keys in insertion order.
func (s *Store) DueSet() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.due.Keys()
}

// GrammarDueSet returns the grammar due keys in insertion order.
func (s *Store) GrammarDueSet() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grammarDue.Keys()
}

// GrammarRules returns every grammar key ever practiced or marked due.
func (s *Store) GrammarRules() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grammarRules.Keys()
}

// GrammarLastReviewed returns the time of the latest grammar attempt.
func (s *Store) GrammarLastReviewed() (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.grammarLastReviewed == nil {
		return time.Time{}, false
	}
	return time.UnixMilli(*s.grammarLastReviewed), true
}

// History returns a copy of the history, newest first.
func (s *Store) History() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.history))
	copy(out, s.history)
	return out
}

// Stats summarizes the attempts recorded through this store instance.
type Stats struct {
	Total    int     `json:"total"`
	Correct  int     `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

// SessionStats returns totals for attempts recorded since the store was
// created. Loaded and merged history is not counted.
func (s *Store) SessionStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Total: len(s.session)}
	for _, r := range s.session {
		if r.Core().IsCorrect {
			st.Correct++
		}
	}
	st.Accuracy = accuracy(st.Correct, st.Total)
	return st
}

// CategoryStats is Stats for one category.
type CategoryStats struct {
	Category string `json:"category"`
	Stats
}

// HistoryStats returns totals over the whole retained history, overall
// and per category. Categories are ordered by name.
func (s *Store) HistoryStats() (Stats, []CategoryStats) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total Stats
	byCat := make(map[string]*Stats)
	for _, r := range s.history {
		a := r.Core()
		c, ok := byCat[a.Category]
		if !ok {
			c = &Stats{}
			byCat[a.Category] = c
		}
		total.Total++
		c.Total++
		if a.IsCorrect {
			total.Correct++
			c.Correct++
		}
	}

	cats := make([]CategoryStats, 0, len(byCat))
	for name, c := range byCat {
		c.Accuracy = accuracy(c.Correct, c.Total)
		cats = append(cats, CategoryStats{Category: name, Stats: *c})
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i].Category < cats[j].Category })
	total.Accuracy = accuracy(total.Correct, total.Total)
	return total, cats
}

func accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// DueItem is one due key with its review timing.
type DueItem struct {
	Key     string
	Grammar bool
	Review  spacedrep.ReviewState
	Status  spacedrep.ReviewStatus
	Overdue float64
}

// DueItems returns every key in both due sets with its latest review
// state, most overdue first. Keys without any recorded attempt are due
// immediately.
func (s *Store) DueItems(now time.Time) []DueItem {
	s.mu.Lock()
	latest := make(map[string]Record)
	for _, h := range s.history {
		k := keys.Fold(h.Key(s.language))
		if _, ok := latest[k]; !ok {
			latest[k] = h
		}
	}

	var items []DueItem
	add := func(key string, grammar bool) {
		rs := spacedrep.ReviewState{Key: key, Schedule: spacedrep.Initial(), NextReview: now}
		if r, ok := latest[keys.Fold(key)]; ok {
			a := r.Core()
			rs.Schedule = a.Schedule
			rs.NextReview = time.UnixMilli(a.NextReview)
			rs.LastReview = time.UnixMilli(a.Timestamp)
		}
		items = append(items, DueItem{
			Key:     key,
			Grammar: grammar,
			Review:  rs,
			Status:  rs.Status(now),
			Overdue: rs.OverdueDays(now),
		})
	}
	for _, k := range s.due.Keys() {
		add(k, false)
	}
	for _, k := range s.grammarDue.Keys() {
		add(k, true)
	}
	s.mu.Unlock()

	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].Review.NextReview.Equal(items[j].Review.NextReview) {
			return items[i].Review.NextReview.Before(items[j].Review.NextReview)
		}
		return items[i].Key < items[j].Key
	})
	return items
}

// MergeFunc combines the local history with incoming records and returns
// the merged history and the due keys the merge surfaces. It must not
// modify local.
type MergeFunc func(local []Record) (history []Record, due []string)

// MergeResult is the state a merge left behind.
type MergeResult struct {
	// Added lists the due keys the merge added.
	Added   []string
	History []Record
	// Due holds the vocabulary due keys followed by the grammar due keys.
	Due []string
}

// Merge replaces the history with fn's result. fn runs under the store
// lock, so attempts recorded concurrently are either part of its input or
// recorded after it; none are overwritten. A persisted store first folds
// in the snapshot stored in its repository, keeping attempts and due keys
// written by another process sharing the database.
func (s *Store) Merge(ctx context.Context, fn MergeFunc) (MergeResult, error) {
	s.mu.Lock()
	if err := s.absorbPersistedLocked(ctx); err != nil {
		s.mu.Unlock()
		return MergeResult{}, err
	}

	history, due := fn(slices.Clone(s.history))
	s.history = Compact(history)
	var newestGrammar int64
	for _, h := range s.history {
		g, ok := h.(*GrammarRecord)
		if !ok {
			continue
		}
		if k := g.Key(s.language); k != "" {
			s.grammarRules.Add(k)
		}
		newestGrammar = max(newestGrammar, g.Timestamp)
	}
	s.advanceGrammarReviewedLocked(newestGrammar)
	added := s.addDueLocked(due)
	s.persistLocked()

	res := MergeResult{
		Added:   added,
		History: slices.Clone(s.history),
		Due:     append(s.due.Keys(), s.grammarDue.Keys()...),
	}
	s.mu.Unlock()

	s.notify(Change{Language: s.language, Kind: ChangeMerge, Keys: added})
	return res, nil
}

// absorbPersistedLocked unions the repository snapshot into memory. Keys
// removed from the due sets elsewhere stay due here until reviewed again.
func (s *Store) absorbPersistedLocked(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	// A queued write of this store's own state must land first, or the
	// load would bring back keys already removed here.
	if err := s.writer.Flush(ctx); err != nil {
		s.logger.Warn("flush before merge", "language", s.language, "error", err)
	}

	snap, err := s.repo.Load(ctx, s.language)
	if err != nil {
		return fmt.Errorf("load %s progress: %w", s.language, err)
	}
	if snap == nil {
		return nil
	}

	if persisted := FromDataSlice(snap.History); len(persisted) > 0 {
		s.history = Compact(append(slices.Clone(s.history), persisted...))
	}
	s.addDueLocked(snap.Progress.Due)
	s.addDueLocked(snap.Progress.GrammarDue)
	for _, k := range snap.Grammar.Rules {
		if k = strings.TrimSpace(k); k != "" {
			s.grammarRules.Add(k)
		}
	}
	if p := snap.Progress.GrammarLastReviewed; p != nil {
		s.advanceGrammarReviewedLocked(*p)
	}
	return nil
}

// advanceGrammarReviewedLocked moves grammarLastReviewed forward to ts.
func (s *Store) advanceGrammarReviewedLocked(ts int64) {
	if ts <= 0 {
		return
	}
	if s.grammarLastReviewed == nil || *s.grammarLastReviewed < ts {
		s.grammarLastReviewed = &ts
	}
}

// Snapshot returns the persisted form of the current state.
func (s *Store) Snapshot() *store.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() *store.Snapshot {
	var last *int64
	if s.grammarLastReviewed != nil {
		v := *s.grammarLastReviewed
		last = &v
	}
	return &store.Snapshot{
		Language: s.language,
		Progress: store.ProgressDoc{
			Due:                 s.due.Keys(),
			GrammarDue:          s.grammarDue.Keys(),
			GrammarLastReviewed: last,
			Timestamp:           s.now().UnixMilli(),
		},
		History: ToDataSlice(s.history),
		Grammar: store.GrammarDoc{
			Rules:        s.grammarRules.Keys(),
			LastReviewed: last,
		},
	}
}

func (s *Store) persistLocked() {
	if s.writer == nil {
		return
	}
	s.writer.Submit(s.snapshotLocked())
}

// Flush waits for pending writes. It is a no-op for an unpersisted store.
func (s *Store) Flush(ctx context.Context) error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Flush(ctx)
}

// Close flushes pending writes and stops the background writer.
func (s *Store) Close(ctx context.Context) error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Close(ctx)
}

// Reset clears all progress for the language, in memory and on disk.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	s.history = nil
	s.session = nil
	s.due = NewKeySet()
	s.grammarDue = NewKeySet()
	s.grammarRules = NewKeySet()
	s.grammarLastReviewed = nil
	s.mu.Unlock()

	var err error
	if s.writer != nil {
		// A queued write would resurrect the old state after the delete.
		if ferr := s.writer.Flush(ctx); ferr != nil {
			s.logger.Warn("flush before reset", "language", s.language, "error", ferr)
		}
		if derr := s.repo.Delete(ctx, s.language); derr != nil {
			err = fmt.Errorf("reset %s: %w", s.language, derr)
		}
	}

	s.notify(Change{Language: s.language, Kind: ChangeReset})
	return err
}
