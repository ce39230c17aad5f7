package remote

import (
	"errors"
	"fmt"
	"time"
)

// ErrDisabled is returned by New when remote sync is turned off.
var ErrDisabled = errors.New("remote sync disabled")

// ErrRateLimit indicates the remote returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrUnavailable indicates the remote is down or unreachable.
type ErrUnavailable struct {
	Err error
}

func (e *ErrUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("remote unavailable: %v", e.Err)
	}
	return "remote unavailable"
}

func (e *ErrUnavailable) Unwrap() error { return e.Err }

// ErrRejected indicates the remote refused the request, for example for
// bad credentials. It is not retried.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("remote rejected request (HTTP %d): %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }
