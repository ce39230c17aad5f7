package remote

import (
	"fmt"
	"time"
)

// Backend kinds.
const (
	KindHTTP   = "http"
	KindDir    = "dir"
	KindMemory = "memory"
	KindNone   = "none"
)

// Config holds remote sync configuration.
type Config struct {
	// Kind selects the backend.
	// Values: "http", "dir", "memory", "none"
	Kind string

	HTTP  HTTPConfig
	Dir   string // directory holding one envelope file per language
	Retry RetryConfig

	// DeviceID is sent with every request and stamped into saved envelopes.
	DeviceID string

	// Timeout bounds a single Load or Save, including retries. Default: 30s.
	Timeout time.Duration
}

// HTTPConfig configures the HTTP backend.
type HTTPConfig struct {
	BaseURL string
	Token   string
	// RateLimit caps requests per second. Zero disables pacing.
	RateLimit float64
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig returns a Config with sync disabled and sensible retry
// defaults.
func DefaultConfig() Config {
	return Config{
		Kind: KindNone,
		HTTP: HTTPConfig{
			RateLimit: 2,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: 500 * time.Millisecond,
			MaxWait:     5 * time.Second,
			Multiplier:  2.0,
		},
		Timeout: 30 * time.Second,
	}
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Kind {
	case KindHTTP:
		if c.HTTP.BaseURL == "" {
			return fmt.Errorf("LINGUA_REMOTE_URL is required for the http remote")
		}
	case KindDir:
		if c.Dir == "" {
			return fmt.Errorf("LINGUA_REMOTE_DIR is required for the dir remote")
		}
	case KindMemory, KindNone:
	default:
		return fmt.Errorf("unknown remote kind: %q", c.Kind)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1, got %d", c.Retry.MaxAttempts)
	}
	return nil
}
