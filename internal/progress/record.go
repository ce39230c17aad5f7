package progress

import (
	"github.com/abhisek/lingua/internal/keys"
	"github.com/abhisek/lingua/internal/spacedrep"
	"github.com/abhisek/lingua/internal/store"
)

// GrammarKind classifies a grammar review.
type GrammarKind string

const (
	GrammarRule        GrammarKind = "rule"
	GrammarConjugation GrammarKind = "conjugation"
	GrammarVocabulary  GrammarKind = "vocabulary"
)

// Valid reports whether k is a known grammar kind.
func (k GrammarKind) Valid() bool {
	switch k {
	case GrammarRule, GrammarConjugation, GrammarVocabulary:
		return true
	}
	return false
}

// Attempt holds the fields shared by every review record. Times are unix
// milliseconds.
type Attempt struct {
	Label       string
	Category    string
	IsCorrect   bool
	Timestamp   int64
	NextReview  int64
	Schedule    spacedrep.Schedule
	Translation string
	AudioRef    string
}

// Record is one graded attempt: a *VocabRecord or a *GrammarRecord.
type Record interface {
	// Kind returns the scheduling kind of the record.
	Kind() spacedrep.Kind

	// Key returns the ItemKey of the reviewed item, or "" when its label
	// is malformed.
	Key(language string) string

	// Core returns the shared attempt fields.
	Core() Attempt

	sealed()
}

// VocabRecord is a review of a vocabulary word.
type VocabRecord struct {
	Attempt
}

func (r *VocabRecord) Kind() spacedrep.Kind { return spacedrep.KindVocab }

func (r *VocabRecord) Key(language string) string {
	return keys.VocabKey(language, r.Category, r.Label)
}

func (r *VocabRecord) Core() Attempt { return r.Attempt }

func (*VocabRecord) sealed() {}

// GrammarRecord is a review of a grammar point.
type GrammarRecord struct {
	Attempt
	SubCategory string
	GrammarKind GrammarKind
}

func (r *GrammarRecord) Kind() spacedrep.Kind { return spacedrep.KindGrammar }

func (r *GrammarRecord) Key(string) string {
	return keys.GrammarKey(r.Category, r.SubCategory, r.Label)
}

func (r *GrammarRecord) Core() Attempt { return r.Attempt }

func (*GrammarRecord) sealed() {}

// grammarKindOf returns the grammar kind of r, or "" for vocabulary.
func grammarKindOf(r Record) GrammarKind {
	if g, ok := r.(*GrammarRecord); ok {
		return g.GrammarKind
	}
	return ""
}

// ToData converts r to its persisted form.
func ToData(r Record) store.RecordData {
	a := r.Core()
	d := store.RecordData{
		Kind:        string(r.Kind()),
		Label:       a.Label,
		Category:    a.Category,
		IsCorrect:   a.IsCorrect,
		Timestamp:   a.Timestamp,
		NextReview:  a.NextReview,
		Interval:    a.Schedule.Interval,
		EaseFactor:  a.Schedule.EaseFactor,
		Translation: a.Translation,
		AudioRef:    a.AudioRef,
	}
	if g, ok := r.(*GrammarRecord); ok {
		d.SubCategory = g.SubCategory
		d.GrammarKind = string(g.GrammarKind)
	}
	return d
}

// FromData converts a persisted record. Records without a kind tag are
// grammar records when they carry a grammar kind. It reports false for
// records whose label or category is empty or that have no timestamp.
func FromData(d store.RecordData) (Record, bool) {
	if !keys.Valid(d.Label) || d.Category == "" || d.Timestamp <= 0 {
		return nil, false
	}
	a := Attempt{
		Label:       d.Label,
		Category:    d.Category,
		IsCorrect:   d.IsCorrect,
		Timestamp:   d.Timestamp,
		NextReview:  d.NextReview,
		Schedule:    spacedrep.Schedule{Interval: d.Interval, EaseFactor: d.EaseFactor},
		Translation: d.Translation,
		AudioRef:    d.AudioRef,
	}

	grammar := d.Kind == store.KindGrammar || (d.Kind == "" && d.GrammarKind != "")
	if !grammar {
		return &VocabRecord{Attempt: a}, true
	}
	return &GrammarRecord{
		Attempt:     a,
		SubCategory: d.SubCategory,
		GrammarKind: GrammarKind(d.GrammarKind),
	}, true
}

// ToDataSlice converts records to their persisted form.
func ToDataSlice(records []Record) []store.RecordData {
	out := make([]store.RecordData, 0, len(records))
	for _, r := range records {
		out = append(out, ToData(r))
	}
	return out
}

// FromDataSlice converts persisted records, skipping malformed ones.
func FromDataSlice(data []store.RecordData) []Record {
	out := make([]Record, 0, len(data))
	for _, d := range data {
		if r, ok := FromData(d); ok {
			out = append(out, r)
		}
	}
	return out
}
