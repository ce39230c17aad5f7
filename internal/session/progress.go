package session

// CategoryResult tracks answers within one content category.
type CategoryResult struct {
	Category  string
	Attempted int
	Correct   int
	Close     int
	Accuracy  float64 // Correct / Attempted, close answers included (computed)
}

// Record adds a new answer result to the category.
func (cr *CategoryResult) Record(correct, close bool) {
	cr.Attempted++
	if correct {
		cr.Correct++
	}
	if close {
		cr.Close++
	}
	if cr.Attempted > 0 {
		cr.Accuracy = float64(cr.Correct) / float64(cr.Attempted)
	}
}
