package record

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"katasuji/engine"
)

// Set KATASUJI_TEST_REDIS=redis://localhost:6379/15 to run against a live
// server. The database is flushed of katasuji keys by the test.
func openTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	url := os.Getenv("KATASUJI_TEST_REDIS")
	if url == "" {
		t.Skip("KATASUJI_TEST_REDIS not set")
	}
	store, err := OpenRedis(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() {
		ctx := context.Background()
		ids, _ := store.client.ZRange(ctx, redisIndexKey, 0, -1).Result()
		for _, id := range ids {
			store.client.Del(ctx, redisKey(id))
		}
		store.client.Del(ctx, redisIndexKey)
		store.Close()
	})
	return store
}

func TestOpenRedisBadURL(t *testing.T) {
	_, err := OpenRedis(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestRedisStore(t *testing.T) {
	store := openTestRedis(t)
	ctx := context.Background()

	older := New("older", engine.DefaultGameConfig())
	older.LastModified = time.Now().Add(-time.Hour)
	newer := New("newer", engine.DefaultGameConfig())
	newer.Cursor = 2

	require.NoError(t, store.Save(ctx, older))
	require.NoError(t, store.Save(ctx, newer))

	got, err := store.Load(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, "newer", got.Name)
	assert.Equal(t, 2, got.Cursor)

	recs, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, newer.ID, recs[0].ID)
	assert.Equal(t, older.ID, recs[1].ID)

	require.NoError(t, store.Delete(ctx, older.ID))
	assert.ErrorIs(t, store.Delete(ctx, older.ID), ErrNotFound)

	_, err = store.Load(ctx, older.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
