package spacedrep

import "time"

// Defaults for an item with no prior review.
const (
	DefaultInterval   = 1.0
	DefaultEaseFactor = 2.5
)

// Ease factor bounds.
const (
	MinEaseFactor = 1.3
	MaxEaseFactor = 2.5
)

// CapDays caps the scheduled gap between reviews. The stored interval is
// not capped, so it keeps growing across correct answers.
const CapDays = 7

// RetireThresholdDays is the stored interval an item must exceed, after a
// correct answer, to leave the due set. Vocabulary and grammar share it.
const RetireThresholdDays = 7.0

// OneDay is the length of one scheduling day.
const OneDay = 24 * time.Hour

// Kind selects the scheduling policy.
type Kind string

const (
	KindVocab   Kind = "vocab"
	KindGrammar Kind = "grammar"
)

// Policy holds the per-kind growth and ease adjustments.
type Policy struct {
	// GrowthScale multiplies the ease factor when growing the interval.
	GrowthScale float64
	// EaseGain is added to the ease factor on a correct answer.
	EaseGain float64
	// EaseLoss is subtracted from the ease factor on an incorrect answer.
	EaseLoss float64
}

var (
	// VocabPolicy is the SM-2 style heuristic for vocabulary.
	VocabPolicy = Policy{GrowthScale: 1.0, EaseGain: 0.1, EaseLoss: 0.2}

	// GrammarPolicy grows slower and penalizes misses harder.
	GrammarPolicy = Policy{GrowthScale: 0.8, EaseGain: 0.05, EaseLoss: 0.3}
)

// PolicyFor returns the policy for kind. Unknown kinds use VocabPolicy.
func PolicyFor(kind Kind) Policy {
	if kind == KindGrammar {
		return GrammarPolicy
	}
	return VocabPolicy
}
