package remote

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// scriptedRemote returns canned errors in FIFO order, then succeeds.
type scriptedRemote struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (s *scriptedRemote) next() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = s.errs[1:]
	return err
}

func (s *scriptedRemote) Load(context.Context, string) (*Envelope, error) {
	if err := s.next(); err != nil {
		return nil, err
	}
	return &Envelope{}, nil
}

func (s *scriptedRemote) Save(context.Context, string, *Envelope) error { return s.next() }

func (s *scriptedRemote) Name() string { return "scripted" }

func retryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Millisecond,
		MaxWait:     10 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	inner := &scriptedRemote{}
	r := WithRetry(inner, retryConfig())

	env, err := r.Load(context.Background(), "sr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env == nil {
		t.Fatal("expected envelope")
	}
	if inner.calls != 1 {
		t.Fatalf("expected 1 call, got %d", inner.calls)
	}
}

func TestRetry_TransientThenSuccess(t *testing.T) {
	inner := &scriptedRemote{errs: []error{
		&ErrUnavailable{Err: errors.New("down")},
		&ErrRateLimit{Err: errors.New("slow down")},
	}}
	r := WithRetry(inner, retryConfig())

	if err := r.Save(context.Background(), "sr", &Envelope{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetry_AllAttemptsFail(t *testing.T) {
	down := &ErrUnavailable{Err: errors.New("down")}
	inner := &scriptedRemote{errs: []error{down, down, down, down}}
	r := WithRetry(inner, retryConfig())

	err := r.Save(context.Background(), "sr", &Envelope{})
	if err == nil {
		t.Fatal("expected error")
	}
	if inner.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", inner.calls)
	}
}

func TestRetry_NonTransientNotRetried(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"rejected", &ErrRejected{Status: 401, Err: errors.New("bad token")}},
		{"malformed", ErrMalformedEnvelope},
		{"incompatible", ErrIncompatibleVersion},
		{"canceled", context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &scriptedRemote{errs: []error{tt.err}}
			r := WithRetry(inner, retryConfig())

			if _, err := r.Load(context.Background(), "sr"); !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if inner.calls != 1 {
				t.Fatalf("expected 1 call, got %d", inner.calls)
			}
		})
	}
}

func TestRetry_RespectsRetryAfter(t *testing.T) {
	r := &RetryRemote{config: retryConfig()}
	err := &ErrRateLimit{RetryAfter: 3 * time.Second}
	if got := r.backoff(0, err); got != 3*time.Second {
		t.Fatalf("backoff = %v, want 3s", got)
	}
}

func TestRetry_BackoffCapped(t *testing.T) {
	r := &RetryRemote{config: retryConfig()}
	for attempt := range 10 {
		got := r.backoff(attempt, errors.New("x"))
		// MaxWait plus 20% jitter.
		if got > 12*time.Millisecond {
			t.Fatalf("attempt %d backoff = %v exceeds cap", attempt, got)
		}
	}
}

func TestRetry_ContextCancelledDuringWait(t *testing.T) {
	inner := &scriptedRemote{errs: []error{&ErrRateLimit{RetryAfter: time.Hour}}}
	r := WithRetry(inner, retryConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := r.Save(ctx, "sr", &Envelope{}); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want deadline exceeded", err)
	}
}
