// Package reconcile merges a local review history with its remote copy and
// drives synchronization.
package reconcile

import (
	"github.com/abhisek/lingua/internal/keys"
	"github.com/abhisek/lingua/internal/progress"
)

// Merge unions two histories without overwriting either side. Remote
// records are placed before local ones, so on a near-duplicate the remote
// record is kept. The result is deduplicated, newest first and capped.
// Neither input is modified.
func Merge(local, remote []progress.Record) []progress.Record {
	combined := make([]progress.Record, 0, len(remote)+len(local))
	combined = append(combined, remote...)
	combined = append(combined, local...)
	return progress.Compact(combined)
}

// DueFromRemote returns the keys of correct remote records that have no
// local record for the same item. Each key appears once, in remote order.
func DueFromRemote(language string, local, remote []progress.Record) []string {
	known := make(map[string]struct{}, len(local))
	for _, r := range local {
		if k := r.Key(language); k != "" {
			known[keys.Fold(k)] = struct{}{}
		}
	}

	var out []string
	for _, r := range remote {
		if !r.Core().IsCorrect {
			continue
		}
		k := r.Key(language)
		if k == "" {
			continue
		}
		f := keys.Fold(k)
		if _, ok := known[f]; ok {
			continue
		}
		known[f] = struct{}{}
		out = append(out, k)
	}
	return out
}

// Result is the outcome of reconciling one language.
type Result struct {
	History []progress.Record
	NewDue  []string
}

// Reconcile merges histories and computes the due keys the merge surfaces.
func Reconcile(language string, local, remote []progress.Record) Result {
	return Result{
		History: Merge(local, remote),
		NewDue:  DueFromRemote(language, local, remote),
	}
}
