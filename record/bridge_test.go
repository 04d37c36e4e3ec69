package record

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"katasuji/engine"
	"katasuji/sgf"
	"katasuji/types"
)

func movesSGF(moves ...types.Move) string {
	return sgf.Encode(sgf.Header{Width: 19, Height: 19, Komi: 7}, moves)
}

var (
	m1 = types.Move{Point: types.BoardPoint{X: 3, Y: 3}, Color: types.Black}
	m2 = types.Move{Point: types.BoardPoint{X: 15, Y: 15}, Color: types.White}
	m3 = types.Move{Point: types.BoardPoint{X: 15, Y: 3}, Color: types.Black}
	m4 = types.Move{Point: types.BoardPoint{X: 9, Y: 9}, Color: types.Black}
)

func newTestBridge(t *testing.T, text string, cursor int) (*Bridge, Store) {
	t.Helper()
	store := openTestBadger(t)
	rec := New("game", engine.DefaultGameConfig())
	rec.SGF = text
	rec.Cursor = cursor
	require.NoError(t, store.Save(context.Background(), rec))
	b := NewBridge(store, rec, zap.NewNop().Sugar())
	t.Cleanup(b.Wait) // before the store closes
	return b, store
}

func TestBridgeLoad(t *testing.T) {
	text := movesSGF(m1, m2)
	b, _ := newTestBridge(t, text, 1)

	gotSGF, cursor, cfg := b.Load()
	assert.Equal(t, text, gotSGF)
	assert.Equal(t, 1, cursor)
	assert.Equal(t, engine.DefaultGameConfig(), cfg)
	assert.Equal(t, 2, b.MoveCount())

	m, ok := b.MoveAt(1)
	require.True(t, ok)
	assert.Equal(t, m2, m)
}

func TestBridgeSaveNewMovePersists(t *testing.T) {
	b, store := newTestBridge(t, movesSGF(m1), 1)

	text := movesSGF(m1, m2)
	b.Save(text, 2)
	b.Wait()

	got, err := store.Load(context.Background(), b.Record().ID)
	require.NoError(t, err)
	assert.Equal(t, text, got.SGF)
	assert.Equal(t, 2, got.Cursor)
	assert.Equal(t, 2, b.MoveCount())
}

func TestBridgeSaveAfterUndoKeepsLaterMoves(t *testing.T) {
	full := movesSGF(m1, m2, m3)
	b, store := newTestBridge(t, full, 3)

	b.Save(movesSGF(m1, m2), 2)
	b.Save(movesSGF(m1), 1)

	assert.Equal(t, 3, b.MoveCount())
	m, ok := b.MoveAt(1)
	require.True(t, ok)
	assert.Equal(t, m2, m)

	b.Wait()
	got, err := store.Load(context.Background(), b.Record().ID)
	require.NoError(t, err)
	assert.Equal(t, full, got.SGF)
	assert.Equal(t, 1, got.Cursor)
}

func TestBridgeSaveDivergingMoveReplaces(t *testing.T) {
	b, _ := newTestBridge(t, movesSGF(m1, m2, m3), 1)

	diverged := movesSGF(m1, types.Move{Point: m4.Point, Color: types.White})
	b.Save(diverged, 2)

	sgfText, cursor, _ := b.Load()
	assert.Equal(t, diverged, sgfText)
	assert.Equal(t, 2, cursor)
	assert.Equal(t, 2, b.MoveCount())
}

func TestBridgeSaveClampsCursor(t *testing.T) {
	b, _ := newTestBridge(t, movesSGF(m1), 0)
	b.Save(movesSGF(m1), 5)

	_, cursor, _ := b.Load()
	assert.Equal(t, 1, cursor)
}

func TestBridgeSaveConfig(t *testing.T) {
	b, store := newTestBridge(t, "", 0)

	cfg := engine.DefaultGameConfig()
	cfg.Komi = 0.5
	b.SaveConfig(cfg)
	b.Wait()

	got, err := store.Load(context.Background(), b.Record().ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got.Config.Komi)
}

func TestBridgeStoreFailureIsSwallowed(t *testing.T) {
	store, err := OpenBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	rec := New("game", engine.DefaultGameConfig())
	rec.SGF = movesSGF(m1)
	rec.Cursor = 1
	b := NewBridge(store, rec, zap.NewNop().Sugar())
	require.NoError(t, store.Close())

	text := movesSGF(m1, m2)
	assert.NotPanics(t, func() {
		b.Save(text, 2)
		b.Wait()
	})

	sgfText, cursor, _ := b.Load()
	assert.Equal(t, text, sgfText)
	assert.Equal(t, 2, cursor)
}

// blockingStore holds every Save until release is closed.
type blockingStore struct {
	Store
	release chan struct{}
	mu      sync.Mutex
	saved   []GameRecord
}

func (s *blockingStore) Save(ctx context.Context, rec *GameRecord) error {
	<-s.release
	s.mu.Lock()
	s.saved = append(s.saved, *rec)
	s.mu.Unlock()
	return s.Store.Save(ctx, rec)
}

func TestBridgeSaveDoesNotWaitForStore(t *testing.T) {
	store := &blockingStore{Store: openTestBadger(t), release: make(chan struct{})}
	rec := New("game", engine.DefaultGameConfig())
	b := NewBridge(store, rec, zap.NewNop().Sugar())

	returned := make(chan struct{})
	go func() {
		b.Save(movesSGF(m1), 1)
		b.Save(movesSGF(m1, m2), 2)
		b.Save(movesSGF(m1, m2, m3), 3)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(5 * time.Second):
		t.Fatal("Save blocked on the store")
	}

	close(store.release)
	b.Wait()

	store.mu.Lock()
	defer store.mu.Unlock()
	require.NotEmpty(t, store.saved)
	assert.LessOrEqual(t, len(store.saved), 2, "pending writes are coalesced")
	assert.Equal(t, 3, store.saved[len(store.saved)-1].Cursor, "newest record written last")

	got, err := store.Load(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, movesSGF(m1, m2, m3), got.SGF)
}

func TestIsPrefix(t *testing.T) {
	assert.True(t, isPrefix(nil, []types.Move{m1}))
	assert.True(t, isPrefix([]types.Move{m1}, []types.Move{m1, m2}))
	assert.False(t, isPrefix([]types.Move{m1, m2}, []types.Move{m1, m2}))
	assert.False(t, isPrefix([]types.Move{m2}, []types.Move{m1, m2}))
	assert.False(t, isPrefix(nil, nil))
}
