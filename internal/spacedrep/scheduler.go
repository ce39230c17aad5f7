package spacedrep

import (
	"math"
	"time"
)

// Schedule is the interval/ease pair carried by each review record.
type Schedule struct {
	Interval   float64 `json:"interval"`
	EaseFactor float64 `json:"easeFactor"`
}

// Initial returns the schedule used when an item has no prior review.
func Initial() Schedule {
	return Schedule{Interval: DefaultInterval, EaseFactor: DefaultEaseFactor}
}

// Next computes the schedule after one graded attempt. prev may be nil for
// a first review. The returned interval is not capped.
func Next(prev *Schedule, correct bool, kind Kind) Schedule {
	cur := Initial()
	if prev != nil {
		cur = *prev
	}
	p := PolicyFor(kind)

	if correct {
		return Schedule{
			Interval:   cur.Interval * cur.EaseFactor * p.GrowthScale,
			EaseFactor: math.Min(MaxEaseFactor, cur.EaseFactor+p.EaseGain),
		}
	}
	return Schedule{
		Interval:   math.Max(1, cur.Interval*0.5),
		EaseFactor: math.Max(MinEaseFactor, cur.EaseFactor-p.EaseLoss),
	}
}

// ScheduledDays returns the whole-day gap actually scheduled for interval:
// round(interval) capped at CapDays.
func ScheduledDays(interval float64) int {
	days := int(math.Round(interval))
	if days > CapDays {
		return CapDays
	}
	if days < 0 {
		return 0
	}
	return days
}

// NextReview returns the due time for an attempt made at at.
func NextReview(at time.Time, interval float64) time.Time {
	return at.Add(time.Duration(ScheduledDays(interval)) * OneDay)
}

// NextReviewMillis is NextReview over unix milliseconds.
func NextReviewMillis(atMs int64, interval float64) int64 {
	return atMs + int64(ScheduledDays(interval))*OneDay.Milliseconds()
}

// Retires reports whether an attempt that produced s removes its item from
// the due set.
func Retires(s Schedule, correct bool) bool {
	return correct && s.Interval > RetireThresholdDays
}
