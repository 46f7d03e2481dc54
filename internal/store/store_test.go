package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ismaiel54/itch50-decoder/internal/itch"
	"github.com/ismaiel54/itch50-decoder/internal/testutil/capture"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", "itch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCaptureLifecycle(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	c, err := store.BeginCapture(ctx, "/data/01302020.NASDAQ_ITCH50", 1024, itch.ModeFast)
	require.NoError(t, err)
	assert.Len(t, c.ID, 36)
	assert.Equal(t, "fast", c.Mode)

	counts := map[itch.MessageType]uint64{
		itch.MsgAddOrder:       10,
		itch.MsgStockDirectory: 2,
	}
	require.NoError(t, store.FinishCapture(ctx, c.ID, 12, counts))

	captures, err := store.ListCaptures(ctx, 10)
	require.NoError(t, err)
	require.Len(t, captures, 1)
	assert.Equal(t, c.ID, captures[0].ID)
	assert.Equal(t, int64(12), captures[0].RecordCount)
	assert.True(t, captures[0].FinishedUnixMillis.Valid)

	got, err := store.MessageCounts(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, counts, got)
}

func TestFinishCapture_Unknown(t *testing.T) {
	store := openTestStore(t)
	err := store.FinishCapture(context.Background(), "missing", 0, nil)
	assert.Error(t, err)
}

func TestListCaptures_NewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.BeginCapture(ctx, "a", 1, itch.ModeStrict)
	require.NoError(t, err)
	second, err := store.BeginCapture(ctx, "b", 1, itch.ModeStrict)
	require.NoError(t, err)

	captures, err := store.ListCaptures(ctx, 1)
	require.NoError(t, err)
	require.Len(t, captures, 1)
	assert.Equal(t, second.ID, captures[0].ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, captures[0].FinishedUnixMillis.Valid)
}

func TestStockDirectory(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	c, err := store.BeginCapture(ctx, "x", 1, itch.ModeStrict)
	require.NoError(t, err)

	rec := capture.Sample(itch.MsgStockDirectory)
	entry := StockEntryFrom(&rec.StockDirectory)
	assert.Equal(t, "AAPL", entry.Symbol)
	require.NoError(t, store.UpsertStockDirectory(ctx, c.ID, entry))

	symbol, ok, err := store.LookupSymbol(ctx, c.ID, entry.StockLocate)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AAPL", symbol)

	entry.Symbol = "AAPL.W"
	require.NoError(t, store.UpsertStockDirectory(ctx, c.ID, entry))
	symbol, _, err = store.LookupSymbol(ctx, c.ID, entry.StockLocate)
	require.NoError(t, err)
	assert.Equal(t, "AAPL.W", symbol)

	_, ok, err = store.LookupSymbol(ctx, c.ID, entry.StockLocate+1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckpoint(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, ok, err := store.Checkpoint(ctx, "cap", 100)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.SaveCheckpoint(ctx, "cap", 100, 40))
	require.NoError(t, store.SaveCheckpoint(ctx, "cap", 100, 75))

	cp, ok, err := store.Checkpoint(ctx, "cap", 100)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(75), cp.PublishedRecords)

	// A different file size invalidates the checkpoint.
	_, ok, err = store.Checkpoint(ctx, "cap", 101)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "itch.db")
	ctx := context.Background()

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.SaveCheckpoint(ctx, "cap", 10, 3))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	cp, ok, err := store.Checkpoint(ctx, "cap", 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(3), cp.PublishedRecords)
}
