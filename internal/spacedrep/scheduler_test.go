package spacedrep

import (
	"math"
	"testing"
	"time"
)

const eps = 1e-9

func approx(a, b float64) bool { return math.Abs(a-b) < eps }

func TestNext_FirstReview(t *testing.T) {
	tests := []struct {
		name    string
		correct bool
		kind    Kind
		want    Schedule
	}{
		{"vocab correct", true, KindVocab, Schedule{Interval: 2.5, EaseFactor: 2.5}},
		{"vocab incorrect", false, KindVocab, Schedule{Interval: 1, EaseFactor: 2.3}},
		{"grammar correct", true, KindGrammar, Schedule{Interval: 2.0, EaseFactor: 2.5}},
		{"grammar incorrect", false, KindGrammar, Schedule{Interval: 1, EaseFactor: 2.2}},
	}
	for _, tt := range tests {
		got := Next(nil, tt.correct, tt.kind)
		if !approx(got.Interval, tt.want.Interval) || !approx(got.EaseFactor, tt.want.EaseFactor) {
			t.Errorf("%s: Next(nil) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestNext_UsesPreviousEaseForGrowth(t *testing.T) {
	prev := &Schedule{Interval: 4, EaseFactor: 2.0}

	vocab := Next(prev, true, KindVocab)
	if !approx(vocab.Interval, 8) || !approx(vocab.EaseFactor, 2.1) {
		t.Errorf("vocab = %+v, want {8 2.1}", vocab)
	}

	grammar := Next(prev, true, KindGrammar)
	if !approx(grammar.Interval, 6.4) || !approx(grammar.EaseFactor, 2.05) {
		t.Errorf("grammar = %+v, want {6.4 2.05}", grammar)
	}
}

func TestNext_IncorrectHalvesWithFloor(t *testing.T) {
	got := Next(&Schedule{Interval: 10, EaseFactor: 1.4}, false, KindVocab)
	if !approx(got.Interval, 5) {
		t.Errorf("Interval = %v, want 5", got.Interval)
	}
	if !approx(got.EaseFactor, MinEaseFactor) {
		t.Errorf("EaseFactor = %v, want %v", got.EaseFactor, MinEaseFactor)
	}

	got = Next(&Schedule{Interval: 1.5, EaseFactor: 2.0}, false, KindGrammar)
	if got.Interval != 1 {
		t.Errorf("Interval = %v, want floor 1", got.Interval)
	}
}

func TestNext_Monotonicity(t *testing.T) {
	intervals := []float64{1, 1.5, 2, 5, 12.5, 40, 365}
	eases := []float64{1.3, 1.5, 2.0, 2.45, 2.5}
	kinds := []Kind{KindVocab, KindGrammar}

	for _, iv := range intervals {
		for _, ef := range eases {
			for _, k := range kinds {
				prev := &Schedule{Interval: iv, EaseFactor: ef}

				c := Next(prev, true, k)
				if k == KindVocab && c.Interval < iv {
					t.Errorf("%s correct decreased interval: %v -> %v", k, iv, c.Interval)
				}
				if c.EaseFactor > MaxEaseFactor {
					t.Errorf("%s correct ease %v above max", k, c.EaseFactor)
				}

				w := Next(prev, false, k)
				if w.EaseFactor > ef {
					t.Errorf("%s incorrect increased ease: %v -> %v", k, ef, w.EaseFactor)
				}
				if w.EaseFactor < MinEaseFactor {
					t.Errorf("%s incorrect ease %v below min", k, w.EaseFactor)
				}
				if w.Interval < 1 {
					t.Errorf("%s incorrect interval %v below 1", k, w.Interval)
				}
			}
		}
	}
}

// Grammar growth uses ease*0.8, which drops below 1 when ease < 1.25. The
// ease floor of 1.3 keeps the factor at 1.04 or more.
func TestNext_GrammarNeverShrinksOnCorrect(t *testing.T) {
	got := Next(&Schedule{Interval: 3, EaseFactor: MinEaseFactor}, true, KindGrammar)
	if got.Interval < 3 {
		t.Errorf("Interval = %v, want >= 3", got.Interval)
	}
}

func TestScheduledDays(t *testing.T) {
	tests := []struct {
		interval float64
		want     int
	}{
		{1, 1},
		{2.4, 2},
		{2.5, 3},
		{6.6, 7},
		{7.4, 7},
		{12.5, 7},
		{78.125, 7},
	}
	for _, tt := range tests {
		if got := ScheduledDays(tt.interval); got != tt.want {
			t.Errorf("ScheduledDays(%v) = %d, want %d", tt.interval, got, tt.want)
		}
	}
}

func TestNextReview_CapInvariant(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s := Schedule{Interval: 5, EaseFactor: 2.5}
	for i := 0; i < 10; i++ {
		s = Next(&s, true, KindVocab)
		next := NextReview(at, s.Interval)
		if next.Sub(at) > CapDays*OneDay {
			t.Fatalf("gap %v exceeds cap for interval %v", next.Sub(at), s.Interval)
		}
		ms := NextReviewMillis(at.UnixMilli(), s.Interval)
		if ms-at.UnixMilli() > int64(CapDays)*OneDay.Milliseconds() {
			t.Fatalf("millis gap exceeds cap for interval %v", s.Interval)
		}
	}
	// The stored interval keeps growing past the cap.
	if s.Interval <= 1000 {
		t.Errorf("stored interval = %v, expected uncapped growth", s.Interval)
	}
}

func TestRetires_IntervalSequenceFromFive(t *testing.T) {
	s := Schedule{Interval: 5, EaseFactor: 2.5}
	want := []float64{12.5, 31.25, 78.125}

	for i, w := range want {
		s = Next(&s, true, KindVocab)
		if !approx(s.Interval, w) {
			t.Fatalf("step %d: Interval = %v, want %v", i+1, s.Interval, w)
		}
		if !Retires(s, true) {
			t.Fatalf("step %d: expected interval %v to retire", i+1, s.Interval)
		}
	}
}

func TestRetires(t *testing.T) {
	if Retires(Schedule{Interval: 7}, true) {
		t.Error("interval exactly 7 must not retire")
	}
	if !Retires(Schedule{Interval: 7.01}, true) {
		t.Error("interval above 7 must retire on a correct answer")
	}
	if Retires(Schedule{Interval: 30}, false) {
		t.Error("incorrect answers never retire")
	}
}

// Grammar grows slower but shares the vocabulary retire threshold, so from
// defaults both retire on the third correct answer.
func TestRetires_GrammarSharesVocabThreshold(t *testing.T) {
	steps := func(kind Kind) int {
		var s *Schedule
		for n := 1; n <= 10; n++ {
			next := Next(s, true, kind)
			if Retires(next, true) {
				return n
			}
			s = &next
		}
		return -1
	}
	// vocab: 2.5, 6.25, 15.625 -> 3 steps
	if got := steps(KindVocab); got != 3 {
		t.Errorf("vocab steps = %d, want 3", got)
	}
	// grammar: 2.0, 4.0, 8.0 -> 3 steps (ease 2.5*0.8 = 2.0 each time)
	if got := steps(KindGrammar); got != 3 {
		t.Errorf("grammar steps = %d, want 3", got)
	}
}

func TestRestore(t *testing.T) {
	if Restore(0, 2.5) != nil {
		t.Error("zero interval should restore to nil")
	}
	if Restore(math.NaN(), 2.5) != nil {
		t.Error("NaN interval should restore to nil")
	}
	got := Restore(3, 9)
	if got == nil || got.EaseFactor != MaxEaseFactor {
		t.Errorf("Restore(3, 9) = %+v, want ease clamped to %v", got, MaxEaseFactor)
	}
	got = Restore(3, 0)
	if got == nil || got.EaseFactor != DefaultEaseFactor {
		t.Errorf("Restore(3, 0) = %+v, want default ease", got)
	}
	got = Restore(3, 1.0)
	if got == nil || got.EaseFactor != MinEaseFactor {
		t.Errorf("Restore(3, 1.0) = %+v, want ease clamped to %v", got, MinEaseFactor)
	}
}
