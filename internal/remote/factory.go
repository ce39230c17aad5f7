package remote

import (
	"fmt"
	"log/slog"

	"github.com/abhisek/lingua/internal/store"
)

// New creates a Remote from configuration, wrapped with retry and logging
// middleware. It returns ErrDisabled for the "none" kind.
func New(cfg Config, events store.SyncEventRepo, logger *slog.Logger) (Remote, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Remote
	switch cfg.Kind {
	case KindHTTP:
		base = NewHTTPRemote(cfg.HTTP, cfg.DeviceID, nil)
	case KindDir:
		base = NewDirRemote(cfg.Dir)
	case KindMemory:
		base = NewMemoryRemote()
	case KindNone:
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unknown remote kind: %q", cfg.Kind)
	}

	// Wrap with middleware: caller → retry → logging → base
	logged := WithLogging(base, events, logger)
	return WithRetry(logged, cfg.Retry), nil
}
