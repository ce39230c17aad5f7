// Package remote exchanges per-language sync envelopes with remote storage.
//
// Backends implement Remote. New wires a backend behind the retry and
// logging middleware: caller → retry → logging → backend.
package remote

import "context"

// Remote is the remote copy of a learner's progress.
type Remote interface {
	// Load returns the stored envelope for language, or nil when the
	// remote holds nothing for it.
	Load(ctx context.Context, language string) (*Envelope, error)

	// Save replaces the stored envelope for language.
	Save(ctx context.Context, language string, env *Envelope) error

	// Name identifies the backend in logs and sync events.
	Name() string
}
