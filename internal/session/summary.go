package session

import (
	"time"

	"github.com/abhisek/lingua/internal/reconcile"
)

// Summary holds the data reported when a session ends.
type Summary struct {
	ID              string
	Language        string
	Duration        time.Duration
	TotalQuestions  int
	TotalCorrect    int
	TotalClose      int
	Accuracy        float64
	Categories      []CategoryResult
	DueCount        int
	GrammarDueCount int

	// Sync is nil when no sync ran or it failed.
	Sync      *reconcile.Report
	SyncError string
}

// BuildSummary creates a Summary from the current session state.
func BuildSummary(s *Session, now time.Time) *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]CategoryResult, 0, len(s.order))
	for _, c := range s.order {
		results = append(results, *s.categories[c])
	}

	var accuracy float64
	if s.total > 0 {
		accuracy = float64(s.correct) / float64(s.total)
	}

	return &Summary{
		ID:              s.ID,
		Language:        s.store.Language(),
		Duration:        now.Sub(s.Start),
		TotalQuestions:  s.total,
		TotalCorrect:    s.correct,
		TotalClose:      s.closeCount,
		Accuracy:        accuracy,
		Categories:      results,
		DueCount:        len(s.store.DueSet()),
		GrammarDueCount: len(s.store.GrammarDueSet()),
	}
}
