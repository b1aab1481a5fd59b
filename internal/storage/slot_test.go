package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slotBackends(t *testing.T) map[string]Slot {
	t.Helper()
	dir := t.TempDir()

	fileSlot, err := NewFileSlot(filepath.Join(dir, "files"))
	require.NoError(t, err)

	sqliteSlot, err := NewSQLiteSlot(filepath.Join(dir, "db", "lavish.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteSlot.Close() })

	return map[string]Slot{
		"memory": NewMemorySlot(),
		"file":   fileSlot,
		"sqlite": sqliteSlot,
	}
}

func TestSlotGetMissing(t *testing.T) {
	for name, slot := range slotBackends(t) {
		t.Run(name, func(t *testing.T) {
			payload, ok, err := slot.Get(context.Background(), DefaultSlotName)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Nil(t, payload)
		})
	}
}

func TestSlotPutReplaces(t *testing.T) {
	ctx := context.Background()
	for name, slot := range slotBackends(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, slot.Put(ctx, DefaultSlotName, []byte(`[1]`)))
			require.NoError(t, slot.Put(ctx, DefaultSlotName, []byte(`[1,2]`)))

			payload, ok, err := slot.Get(ctx, DefaultSlotName)
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, `[1,2]`, string(payload))

			// Slots are independent.
			_, ok, err = slot.Get(ctx, "other")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestSlotRejectsBadNames(t *testing.T) {
	ctx := context.Background()
	for name, slot := range slotBackends(t) {
		t.Run(name, func(t *testing.T) {
			for _, bad := range []string{"", "  ", "../escape", `a\b`} {
				assert.ErrorIs(t, slot.Put(ctx, bad, []byte("x")), ErrInvalidSlotName, "name %q", bad)
			}
		})
	}
}

func TestFileSlotLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	slot, err := NewFileSlot(dir)
	require.NoError(t, err)
	require.NoError(t, slot.Put(context.Background(), "ledger", []byte("[]")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ledger.json", entries[0].Name())
}

func TestSQLiteSlotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lavish.db")

	first, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(ctx, DefaultSlotName, []byte(`[{"id":1}]`)))
	require.NoError(t, first.Close())

	second, err := NewSQLiteSlot(path)
	require.NoError(t, err)
	defer second.Close()

	payload, ok, err := second.Get(ctx, DefaultSlotName)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, string(payload))
}
