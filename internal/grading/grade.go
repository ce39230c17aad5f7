// Package grading classifies free-text answers against an expected word
// using edit-distance similarity.
package grading

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agext/levenshtein"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Verdict is the outcome class of a graded answer.
type Verdict string

const (
	VerdictCorrect   Verdict = "correct"
	VerdictClose     Verdict = "close"
	VerdictIncorrect Verdict = "incorrect"
)

const (
	// CorrectThreshold is the minimum score graded as correct.
	CorrectThreshold = 0.9

	// CloseThreshold is the minimum score graded as close.
	CloseThreshold = 0.7
)

// Accepted reports whether the verdict counts as a correct review.
// A close answer is a typo-level miss and is accepted.
func (v Verdict) Accepted() bool {
	return v == VerdictCorrect || v == VerdictClose
}

// Result is the graded outcome of one answer.
type Result struct {
	Score   float64 `json:"score"`
	Verdict Verdict `json:"verdict"`
}

// Grade scores input against expected. It never fails: empty inputs are
// handled explicitly by Similarity.
func Grade(input, expected string) Result {
	a := Normalize(input)
	b := Normalize(expected)

	if a == b {
		return Result{Score: 1, Verdict: VerdictCorrect}
	}

	score := similarity(a, b)
	return Result{Score: score, Verdict: classify(score)}
}

// Similarity returns 1 - distance/maxLen over the normalized forms of a and
// b, measured in runes. Two empty strings score 1; one empty string scores 0.
func Similarity(a, b string) float64 {
	return similarity(Normalize(a), Normalize(b))
}

// Normalize lowercases s, strips combining diacritics and trims whitespace.
func Normalize(s string) string {
	// Transformers are stateful, so the chain is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(strings.ToLower(out))
}

func similarity(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)

	switch {
	case la == 0 && lb == 0:
		return 1
	case la == 0 || lb == 0:
		return 0
	}

	d := levenshtein.Distance(a, b, nil)
	return 1 - float64(d)/float64(max(la, lb))
}

func classify(score float64) Verdict {
	switch {
	case score >= CorrectThreshold:
		return VerdictCorrect
	case score >= CloseThreshold:
		return VerdictClose
	default:
		return VerdictIncorrect
	}
}
