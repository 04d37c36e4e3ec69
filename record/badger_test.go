package record

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katasuji/engine"
)

func openTestBadger(t *testing.T) *BadgerStore {
	t.Helper()
	store, err := OpenBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerOptions{})
	assert.Error(t, err)
}

func TestOpenBadgerOnDisk(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := OpenBadger(BadgerOptions{Path: dir})
	require.NoError(t, err)
	rec := New("persisted", engine.DefaultGameConfig())
	require.NoError(t, store.Save(ctx, rec))
	require.NoError(t, store.Close())

	store, err = OpenBadger(BadgerOptions{Path: dir})
	require.NoError(t, err)
	defer store.Close()
	got, err := store.Load(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Name)
}

func TestBadgerSaveLoad(t *testing.T) {
	store := openTestBadger(t)
	ctx := context.Background()

	cfg := engine.DefaultGameConfig()
	cfg.Komi = 6.5
	rec := New("first", cfg)
	rec.Cursor = 3

	require.NoError(t, store.Save(ctx, rec))

	got, err := store.Load(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "first", got.Name)
	assert.Equal(t, rec.SGF, got.SGF)
	assert.Equal(t, 3, got.Cursor)
	assert.Equal(t, cfg, got.Config)
	assert.True(t, rec.LastModified.Equal(got.LastModified))
}

func TestBadgerLoadMissing(t *testing.T) {
	store := openTestBadger(t)
	_, err := store.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerListNewestFirst(t *testing.T) {
	store := openTestBadger(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, name := range []string{"old", "newest", "middle"} {
		rec := New(name, engine.DefaultGameConfig())
		rec.LastModified = base.Add(map[int]time.Duration{0: 0, 1: 2 * time.Hour, 2: time.Hour}[i])
		require.NoError(t, store.Save(ctx, rec))
	}

	recs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, "newest", recs[0].Name)
	assert.Equal(t, "middle", recs[1].Name)
	assert.Equal(t, "old", recs[2].Name)
}

func TestBadgerDelete(t *testing.T) {
	store := openTestBadger(t)
	ctx := context.Background()

	rec := New("gone", engine.DefaultGameConfig())
	require.NoError(t, store.Save(ctx, rec))
	require.NoError(t, store.Delete(ctx, rec.ID))

	_, err := store.Load(ctx, rec.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, rec.ID), ErrNotFound)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestBadgerCancelledContext(t *testing.T) {
	store := openTestBadger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Save(ctx, New("x", engine.DefaultGameConfig())), context.Canceled)
}

func TestNewRecordDefaults(t *testing.T) {
	rec := New("", engine.DefaultGameConfig())
	assert.NotEmpty(t, rec.ID)
	assert.NotEmpty(t, rec.Name)
	assert.Contains(t, rec.SGF, "SZ[19]")
	assert.Zero(t, rec.Cursor)

	other := New("", engine.DefaultGameConfig())
	assert.NotEqual(t, rec.ID, other.ID)
}
