package progress

import (
	"sort"
	"strings"
)

// MaxHistory is the number of records kept per language.
const MaxHistory = 1000

// DedupWindowMillis is the timestamp distance within which two attempts at
// the same label and category are one submission.
const DedupWindowMillis = 1000

// IsDuplicate reports whether a and b record the same submission.
func IsDuplicate(a, b Record) bool {
	x, y := a.Core(), b.Core()
	if x.Label != y.Label || x.Category != y.Category {
		return false
	}
	d := x.Timestamp - y.Timestamp
	if d < 0 {
		d = -d
	}
	return d <= DedupWindowMillis
}

type dedupKey struct{ label, category string }

// Dedup drops every record that duplicates an earlier kept record. Order is
// preserved and the first occurrence wins.
func Dedup(records []Record) []Record {
	kept := make(map[dedupKey][]int64, len(records))
	out := make([]Record, 0, len(records))

outer:
	for _, r := range records {
		a := r.Core()
		k := dedupKey{a.Label, a.Category}
		for _, ts := range kept[k] {
			d := a.Timestamp - ts
			if d < 0 {
				d = -d
			}
			if d <= DedupWindowMillis {
				continue outer
			}
		}
		kept[k] = append(kept[k], a.Timestamp)
		out = append(out, r)
	}
	return out
}

// SortNewestFirst orders records by timestamp descending. Ties are broken
// by label then category, which is a total order on a deduplicated history.
func SortNewestFirst(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i].Core(), records[j].Core()
		if a.Timestamp != b.Timestamp {
			return a.Timestamp > b.Timestamp
		}
		if c := strings.Compare(a.Label, b.Label); c != 0 {
			return c < 0
		}
		if c := strings.Compare(a.Category, b.Category); c != 0 {
			return c < 0
		}
		return kindRank(records[i]) < kindRank(records[j])
	})
}

func kindRank(r Record) int {
	if _, ok := r.(*GrammarRecord); ok {
		return 1
	}
	return 0
}

// Cap truncates a newest-first history to at most n records.
func Cap(records []Record, n int) []Record {
	if len(records) <= n {
		return records
	}
	return records[:n]
}

// Compact deduplicates, sorts newest first and caps records at MaxHistory.
// The input slice is not modified.
func Compact(records []Record) []Record {
	out := Dedup(records)
	SortNewestFirst(out)
	return Cap(out, MaxHistory)
}
