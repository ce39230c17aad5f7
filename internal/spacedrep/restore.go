package spacedrep

import "math"

// Restore rebuilds a schedule from persisted fields. Values from another
// device may be missing or corrupt: a non-positive or non-finite interval
// yields nil (treated as a first review) and the ease factor is clamped.
func Restore(interval, easeFactor float64) *Schedule {
	if interval <= 0 || math.IsNaN(interval) || math.IsInf(interval, 0) {
		return nil
	}
	if easeFactor == 0 || math.IsNaN(easeFactor) {
		easeFactor = DefaultEaseFactor
	}
	easeFactor = math.Max(MinEaseFactor, math.Min(MaxEaseFactor, easeFactor))
	return &Schedule{Interval: interval, EaseFactor: easeFactor}
}
