package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/lingua/internal/store"
)

// slowRepo blocks each save until released and records what was written.
type slowRepo struct {
	store.SnapshotRepo
	release chan struct{}

	mu      sync.Mutex
	written []int64
}

func (r *slowRepo) Save(ctx context.Context, snap *store.Snapshot) error {
	<-r.release
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written = append(r.written, snap.Progress.Timestamp)
	return nil
}

func TestWriter_LatestWins(t *testing.T) {
	repo := &slowRepo{release: make(chan struct{})}
	w := NewWriter(repo, nil)

	w.Submit(&store.Snapshot{Progress: store.ProgressDoc{Timestamp: 1}})
	// Let the first save start and block.
	time.Sleep(20 * time.Millisecond)
	w.Submit(&store.Snapshot{Progress: store.ProgressDoc{Timestamp: 2}})
	w.Submit(&store.Snapshot{Progress: store.ProgressDoc{Timestamp: 3}})
	close(repo.release)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, w.Close(ctx))

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.Equal(t, []int64{1, 3}, repo.written)
}

func TestWriter_FlushTimesOut(t *testing.T) {
	repo := &slowRepo{release: make(chan struct{})}
	w := NewWriter(repo, nil)
	defer func() {
		close(repo.release)
		w.Close(context.Background())
	}()

	w.Submit(&store.Snapshot{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, w.Flush(ctx), context.DeadlineExceeded)
}

func TestWriter_SubmitAfterCloseIsDropped(t *testing.T) {
	repo := &slowRepo{release: make(chan struct{})}
	close(repo.release)
	w := NewWriter(repo, nil)
	require.NoError(t, w.Close(context.Background()))

	w.Submit(&store.Snapshot{})
	require.NoError(t, w.Flush(context.Background()))
	assert.Empty(t, repo.written)
}
