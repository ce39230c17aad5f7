package remote

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryRemote is a decorator that retries transient errors with
// exponential backoff and jitter.
type RetryRemote struct {
	inner  Remote
	config RetryConfig
}

// WithRetry wraps a Remote with retry logic.
func WithRetry(r Remote, cfg RetryConfig) Remote {
	return &RetryRemote{inner: r, config: cfg}
}

func (r *RetryRemote) Load(ctx context.Context, language string) (*Envelope, error) {
	var env *Envelope
	err := r.do(ctx, func() error {
		var err error
		env, err = r.inner.Load(ctx, language)
		return err
	})
	return env, err
}

func (r *RetryRemote) Save(ctx context.Context, language string, env *Envelope) error {
	return r.do(ctx, func() error {
		return r.inner.Save(ctx, language, env)
	})
}

func (r *RetryRemote) Name() string {
	return r.inner.Name()
}

func (r *RetryRemote) do(ctx context.Context, fn func() error) error {
	var lastErr error
	attempts := max(1, r.config.MaxAttempts)

	for attempt := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !shouldRetry(err) {
			return err
		}

		// Last attempt: return without sleeping.
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.backoff(attempt, err)):
		}
	}

	return lastErr
}

// shouldRetry determines if an error is retryable.
func shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	// A bad payload or a refused request will not change on retry.
	if errors.Is(err, ErrMalformedEnvelope) || errors.Is(err, ErrIncompatibleVersion) {
		return false
	}
	var rejected *ErrRejected
	if errors.As(err, &rejected) {
		return false
	}

	// Rate limits, outages and network errors are transient.
	return true
}

// backoff computes the wait duration for the given attempt.
func (r *RetryRemote) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt))
	if wait > float64(r.config.MaxWait) {
		wait = float64(r.config.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)

	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
