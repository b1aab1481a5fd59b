package cache

import (
	"context"
	"testing"
	"time"

	"lavish/internal/core"
	"lavish/internal/ledger"
	"lavish/internal/log"
	"lavish/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	_, _ = c.Get("a")
	c.Set("c", 3)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should have been evicted")
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Size())
}

func TestLRUExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewLRUCache[string](10, time.Second)
	c.now = func() time.Time { return now }

	c.Set("k", "v")
	c.Set("j", "w")
	now = now.Add(2 * time.Second)

	assert.Equal(t, 2, c.CleanExpired())
	_, ok := c.Get("k")
	assert.False(t, ok)

	hits, misses := c.Stats()
	assert.Zero(t, hits)
	assert.Equal(t, uint64(1), misses)
}

func TestLRUPurge(t *testing.T) {
	c := NewLRUCache[int](4, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Purge()
	assert.Zero(t, c.Size())

	c.Set("a", 3)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestManagerSweep(t *testing.T) {
	c := NewLRUCache[int](4, -time.Second)
	c.Set("stale", 1)

	m := NewManager(log.Discard())
	m.Register(c)
	assert.Equal(t, 1, m.Sweep())

	m.StartCleanup(context.Background(), time.Hour)
	m.Stop()
}

func TestViewsPurgedOnChange(t *testing.T) {
	ctx := context.Background()
	store, err := ledger.Open(ctx, ledger.NewSlotPersister(storage.NewMemorySlot(), "", log.Discard()),
		ledger.WithLogger(log.Discard()))
	require.NoError(t, err)

	views := NewViews(store, 8, time.Minute, log.Discard())
	assert.Empty(t, views.Get(core.AllMonths).Records)
	assert.Empty(t, views.Get(core.AllMonths).Records)

	hits, misses := views.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)

	_, err = store.Add(ctx, "Salary", 10, core.Income)
	require.NoError(t, err)
	assert.Len(t, views.Get(core.AllMonths).Records, 1)
}

func TestViewsDiscardStaleComputation(t *testing.T) {
	ctx := context.Background()
	store, err := ledger.Open(ctx, ledger.NewSlotPersister(storage.NewMemorySlot(), "", log.Discard()),
		ledger.WithLogger(log.Discard()))
	require.NoError(t, err)

	views := NewViews(store, 8, time.Minute, log.Discard())
	views.compute = func(month string) ledger.View {
		computed := store.View(month)
		_, err := store.Add(ctx, "Salary", 10, core.Income)
		require.NoError(t, err)
		return computed
	}

	assert.Empty(t, views.Get(core.AllMonths).Records)

	views.compute = store.View
	view := views.Get(core.AllMonths)
	assert.Len(t, view.Records, 1)
	assert.Equal(t, "10", view.Summary.Income.String())
}

func TestViewsSkipSetAfterPurge(t *testing.T) {
	ctx := context.Background()
	store, err := ledger.Open(ctx, ledger.NewSlotPersister(storage.NewMemorySlot(), "", log.Discard()),
		ledger.WithLogger(log.Discard()))
	require.NoError(t, err)

	views := NewViews(store, 8, time.Minute, log.Discard())
	gen := views.generation()
	stale := store.View(core.AllMonths)
	_, err = store.Add(ctx, "Rent", 5, core.Expense)
	require.NoError(t, err)

	views.setIfCurrent(core.AllMonths, gen, stale)
	assert.Equal(t, 0, views.lru.Size())
	assert.Len(t, views.Get(core.AllMonths).Records, 1)
}
