package store

import (
	"context"
	"time"
)

// Document keys, one of each per language.
const (
	progressKeyPrefix = "progress:"
	historyKeyPrefix  = "history:"
	grammarKeyPrefix  = "grammar:"
)

// ProgressKey returns the document key holding the due sets for language.
func ProgressKey(language string) string { return progressKeyPrefix + language }

// HistoryKey returns the document key holding the review history for language.
func HistoryKey(language string) string { return historyKeyPrefix + language }

// GrammarKey returns the document key holding grammar rule state for language.
func GrammarKey(language string) string { return grammarKeyPrefix + language }

// Record kinds carried in RecordData.Kind.
const (
	KindVocab   = "vocab"
	KindGrammar = "grammar"
)

// RecordData is the persisted and wire form of one graded attempt.
// Timestamps are unix milliseconds.
type RecordData struct {
	Kind        string  `json:"kind"`
	Label       string  `json:"label"`
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory,omitempty"`
	GrammarKind string  `json:"grammarKind,omitempty"`
	IsCorrect   bool    `json:"isCorrect"`
	Timestamp   int64   `json:"timestamp"`
	NextReview  int64   `json:"nextReview"`
	Interval    float64 `json:"interval"`
	EaseFactor  float64 `json:"easeFactor"`
	Translation string  `json:"translation,omitempty"`
	AudioRef    string  `json:"audioRef,omitempty"`
}

// ProgressDoc is stored under progress:{L}.
type ProgressDoc struct {
	Due                 []string `json:"due"`
	GrammarDue          []string `json:"grammarDue"`
	GrammarLastReviewed *int64   `json:"grammarLastReviewed"`
	Timestamp           int64    `json:"timestamp"`
}

// GrammarDoc is stored under grammar:{L}.
type GrammarDoc struct {
	Rules        []string `json:"rules"`
	LastReviewed *int64   `json:"lastReviewed"`
}

// Snapshot is the full persisted state for one language.
type Snapshot struct {
	Language string
	Progress ProgressDoc
	History  []RecordData
	Grammar  GrammarDoc
}

// SnapshotRepo manages per-language progress snapshots.
type SnapshotRepo interface {
	// Save replaces all documents for snap.Language in one transaction.
	Save(ctx context.Context, snap *Snapshot) error

	// Load returns the stored snapshot for language, or nil if none exists.
	Load(ctx context.Context, language string) (*Snapshot, error)

	// Delete removes every document for language.
	Delete(ctx context.Context, language string) error

	// Languages lists the languages that have stored progress.
	Languages(ctx context.Context) ([]string, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit    int       // max results (0 = unlimited)
	Language string    // exact match when non-empty
	From     time.Time // timestamp >= From
	To       time.Time // timestamp <= To
}

// SyncEventData captures one remote load or save.
type SyncEventData struct {
	Language     string
	Backend      string
	Operation    string
	Records      int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// SyncEvent is a stored SyncEventData.
type SyncEvent struct {
	ID        int64
	Timestamp time.Time
	SyncEventData
}

// SyncEventRepo provides append and query access to remote sync events.
type SyncEventRepo interface {
	Append(ctx context.Context, data SyncEventData) error

	// Query returns events newest first.
	Query(ctx context.Context, opts QueryOpts) ([]SyncEvent, error)
}
