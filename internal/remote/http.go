package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// maxEnvelopeBytes bounds a downloaded envelope.
const maxEnvelopeBytes = 16 << 20

// HTTPRemote stores envelopes at {base}/v1/progress/{language}.
type HTTPRemote struct {
	baseURL  string
	token    string
	deviceID string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewHTTPRemote creates an HTTP backend. A nil client uses one with a 15s
// timeout.
func NewHTTPRemote(cfg HTTPConfig, deviceID string, client *http.Client) *HTTPRemote {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	return &HTTPRemote{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		token:    cfg.Token,
		deviceID: deviceID,
		client:   client,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

func (h *HTTPRemote) Name() string { return KindHTTP }

func (h *HTTPRemote) Load(ctx context.Context, language string) (*Envelope, error) {
	resp, err := h.do(ctx, http.MethodGet, language, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if err := statusError(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxEnvelopeBytes))
	if err != nil {
		return nil, &ErrUnavailable{Err: fmt.Errorf("read body: %w", err)}
	}
	return Decode(body)
}

func (h *HTTPRemote) Save(ctx context.Context, language string, env *Envelope) error {
	body, err := Encode(env)
	if err != nil {
		return err
	}

	resp, err := h.do(ctx, http.MethodPut, language, body)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	return statusError(resp)
}

func (h *HTTPRemote) do(ctx context.Context, method, language string, body []byte) (*http.Response, error) {
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := h.baseURL + "/v1/progress/" + url.PathEscape(language)
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}
	if h.deviceID != "" {
		req.Header.Set("X-Device-ID", h.deviceID)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ErrUnavailable{Err: err}
	}
	return resp, nil
}

// statusError maps a non-2xx response to a typed error.
func statusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err := fmt.Errorf("HTTP %d for %s %s", resp.StatusCode, resp.Request.Method, resp.Request.URL.Path)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return &ErrRateLimit{RetryAfter: retryAfter(resp.Header.Get("Retry-After")), Err: err}
	case resp.StatusCode >= 500:
		return &ErrUnavailable{Err: err}
	default:
		return &ErrRejected{Status: resp.StatusCode, Err: err}
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(v string) time.Duration {
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
