package remote

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/store"
)

// progressServer is a minimal in-memory implementation of the sync API.
type progressServer struct {
	mu      sync.Mutex
	docs    map[string][]byte
	headers http.Header
	status  int
}

func newProgressServer(t *testing.T) (*progressServer, *httptest.Server) {
	t.Helper()
	ps := &progressServer{docs: make(map[string][]byte)}
	srv := httptest.NewServer(http.HandlerFunc(ps.handle))
	t.Cleanup(srv.Close)
	return ps, srv
}

func (ps *progressServer) handle(w http.ResponseWriter, r *http.Request) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.headers = r.Header.Clone()

	if ps.status != 0 {
		if ps.status == http.StatusTooManyRequests {
			w.Header().Set("Retry-After", "2")
		}
		w.WriteHeader(ps.status)
		return
	}

	lang := r.URL.Path[len("/v1/progress/"):]
	switch r.Method {
	case http.MethodGet:
		doc, ok := ps.docs[lang]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(doc)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		ps.docs[lang] = body
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestHTTPRemote_SaveThenLoad(t *testing.T) {
	ps, srv := newProgressServer(t)
	r := NewHTTPRemote(HTTPConfig{BaseURL: srv.URL + "/", Token: "secret"}, "device-1", srv.Client())
	ctx := context.Background()

	env, err := r.Load(ctx, "sr")
	require.NoError(t, err)
	assert.Nil(t, env, "404 is an empty remote")

	in := &Envelope{
		History: []store.RecordData{{Kind: "vocab", Label: "hleb", Category: "food", Timestamp: 1}},
		Due:     []string{"sr:food:hleb"},
	}
	require.NoError(t, r.Save(ctx, "sr", in))
	assert.Equal(t, "Bearer secret", ps.headers.Get("Authorization"))
	assert.Equal(t, "device-1", ps.headers.Get("X-Device-ID"))
	assert.Equal(t, "application/json", ps.headers.Get("Content-Type"))

	out, err := r.Load(ctx, "sr")
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in.History, out.History)
	assert.Equal(t, SchemaVersion, out.SchemaVersion)
}

func TestHTTPRemote_StatusErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		check  func(t *testing.T, err error)
	}{
		{"rate limited", http.StatusTooManyRequests, func(t *testing.T, err error) {
			var rl *ErrRateLimit
			require.True(t, errors.As(err, &rl))
			assert.Equal(t, 2*time.Second, rl.RetryAfter)
		}},
		{"server error", http.StatusBadGateway, func(t *testing.T, err error) {
			var u *ErrUnavailable
			assert.True(t, errors.As(err, &u))
		}},
		{"unauthorized", http.StatusUnauthorized, func(t *testing.T, err error) {
			var rej *ErrRejected
			require.True(t, errors.As(err, &rej))
			assert.Equal(t, http.StatusUnauthorized, rej.Status)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ps, srv := newProgressServer(t)
			ps.status = tt.status
			r := NewHTTPRemote(HTTPConfig{BaseURL: srv.URL}, "", srv.Client())

			_, err := r.Load(context.Background(), "sr")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestHTTPRemote_MalformedBody(t *testing.T) {
	ps, srv := newProgressServer(t)
	ps.docs["sr"] = []byte(`{"history":"oops"}`)
	r := NewHTTPRemote(HTTPConfig{BaseURL: srv.URL}, "", srv.Client())

	_, err := r.Load(context.Background(), "sr")
	assert.ErrorIs(t, err, ErrMalformedEnvelope)
}

func TestHTTPRemote_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	r := NewHTTPRemote(HTTPConfig{BaseURL: url}, "", nil)
	_, err := r.Load(context.Background(), "sr")
	var u *ErrUnavailable
	assert.True(t, errors.As(err, &u), "got %v", err)
}
