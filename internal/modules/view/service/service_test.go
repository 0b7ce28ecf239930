package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"anoa.com/skillnest/pkg/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu    sync.Mutex
	views map[uuid.UUID]int
	fail  bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{views: map[uuid.UUID]int{}}
}

func (m *memoryStore) IncrementViews(_ context.Context, id uuid.UUID, n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("db down")
	}
	m.views[id] += n
	return nil
}

func TestIncrementViewWithoutRedisWritesThrough(t *testing.T) {
	store := newMemoryStore()
	svc := NewViewService(nil, store, logger.Nop())
	id := uuid.New()

	require.NoError(t, svc.IncrementView(context.Background(), id, "viewer"))
	require.NoError(t, svc.IncrementView(context.Background(), id, "viewer"))
	assert.Equal(t, 2, store.views[id])

	n, err := svc.SyncViews(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestIncrementViewDedupesPerViewer(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := newMemoryStore()
	svc := NewViewService(rdb, store, logger.Nop())
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, svc.IncrementView(ctx, id, "alice"))
	require.NoError(t, svc.IncrementView(ctx, id, "alice"))
	require.NoError(t, svc.IncrementView(ctx, id, "bob"))
	assert.Zero(t, store.views[id], "buffered until sync")

	n, err := svc.SyncViews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, store.views[id])

	n, err = svc.SyncViews(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "counters were drained")

	mr.FastForward(viewerWindow + 1)
	require.NoError(t, svc.IncrementView(ctx, id, "alice"))
	_, err = svc.SyncViews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, store.views[id])
}

func TestSyncViewsKeepsCountsWhenStoreFails(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := newMemoryStore()
	store.fail = true
	svc := NewViewService(rdb, store, logger.Nop())
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, svc.IncrementView(ctx, id, "alice"))

	n, err := svc.SyncViews(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	store.fail = false
	n, err = svc.SyncViews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, store.views[id])
}
