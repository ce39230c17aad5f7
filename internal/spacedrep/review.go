package spacedrep

import "time"

// ReviewState is the latest scheduling state known for one item.
type ReviewState struct {
	Key        string    `json:"key"`
	Schedule   Schedule  `json:"schedule"`
	NextReview time.Time `json:"next_review"`
	LastReview time.Time `json:"last_review"`
}

// IsDue returns true if the item is due for review (at or past the review date).
func (rs *ReviewState) IsDue(now time.Time) bool {
	return !now.Before(rs.NextReview)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (rs *ReviewState) OverdueDays(now time.Time) float64 {
	if now.Before(rs.NextReview) {
		return 0
	}
	return now.Sub(rs.NextReview).Hours() / 24.0
}

// IsOverdueThreshold returns true once the item has been due for longer
// than half its scheduled gap.
func (rs *ReviewState) IsOverdueThreshold(now time.Time) bool {
	if !rs.IsDue(now) {
		return false
	}
	gap := ScheduledDays(rs.Schedule.Interval)
	graceHours := float64(gap) * 0.5 * 24.0
	threshold := rs.NextReview.Add(time.Duration(graceHours * float64(time.Hour)))
	return now.After(threshold)
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	ReviewNotDue  ReviewStatus = "not_due"
	ReviewDue     ReviewStatus = "due"
	ReviewOverdue ReviewStatus = "overdue"
)

// Status returns the review status for display.
func (rs *ReviewState) Status(now time.Time) ReviewStatus {
	if rs.IsOverdueThreshold(now) {
		return ReviewOverdue
	}
	if rs.IsDue(now) {
		return ReviewDue
	}
	return ReviewNotDue
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (rs *ReviewState) DaysUntilReview(now time.Time) int {
	if rs.IsDue(now) {
		return 0
	}
	return int(rs.NextReview.Sub(now).Hours()/24.0) + 1
}
