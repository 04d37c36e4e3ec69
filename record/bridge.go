package record

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"katasuji/engine"
	"katasuji/sgf"
	"katasuji/types"
)

const saveTimeout = 5 * time.Second

// Bridge binds one stored record to a session. The in-memory copy is
// updated at once and written to the store by a background writer, so a
// slow store never holds up the session loop. Write failures are logged.
type Bridge struct {
	store Store
	log   *zap.SugaredLogger

	mu      sync.Mutex
	rec     GameRecord
	tree    *sgf.MoveTree
	pending *GameRecord // newest record not yet handed to the store
	writing bool
	idle    *sync.Cond // signalled when the writer stops
}

// NewBridge wraps rec for use by a session.
func NewBridge(store Store, rec *GameRecord, log *zap.SugaredLogger) *Bridge {
	b := &Bridge{
		store: store,
		log:   log,
		rec:   *rec,
		tree:  sgf.ParseMoveTree(rec.SGF),
	}
	b.idle = sync.NewCond(&b.mu)
	return b
}

// Record returns a copy of the current record.
func (b *Bridge) Record() GameRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rec
}

// Load returns the stored SGF, cursor and game settings.
func (b *Bridge) Load() (string, int, engine.GameConfig) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rec.SGF, b.rec.Cursor, b.rec.Config
}

// Save stores the engine's SGF and the cursor. When text is a strict prefix
// of the stored main line, as after an undo, the stored moves are kept so
// they can be replayed forward; only the cursor moves.
func (b *Bridge) Save(text string, cursor int) {
	b.mu.Lock()
	tree := sgf.ParseMoveTree(text)
	if !isPrefix(tree.MainLine(), b.tree.MainLine()) {
		b.rec.SGF = text
		b.tree = tree
	}
	if cursor > b.tree.MoveCount() {
		cursor = b.tree.MoveCount()
	}
	b.rec.Cursor = cursor
	b.rec.LastModified = time.Now()
	b.queueWrite()
	b.mu.Unlock()
}

// SaveConfig stores new game settings.
func (b *Bridge) SaveConfig(cfg engine.GameConfig) {
	b.mu.Lock()
	b.rec.Config = cfg
	b.rec.LastModified = time.Now()
	b.queueWrite()
	b.mu.Unlock()
}

// Wait blocks until every queued write has reached the store.
func (b *Bridge) Wait() {
	b.mu.Lock()
	for b.writing {
		b.idle.Wait()
	}
	b.mu.Unlock()
}

// MoveCount returns the length of the stored main line.
func (b *Bridge) MoveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tree.MoveCount()
}

// MoveAt returns the i-th stored main-line move.
func (b *Bridge) MoveAt(i int) (types.Move, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.tree.MoveAt(i)
}

// queueWrite snapshots the record for the writer, starting it if idle.
// Writes happen one at a time and only the newest snapshot is written.
// The caller holds b.mu.
func (b *Bridge) queueWrite() {
	rec := b.rec
	b.pending = &rec
	if b.writing {
		return
	}
	b.writing = true
	go b.writeLoop()
}

func (b *Bridge) writeLoop() {
	for {
		b.mu.Lock()
		rec := b.pending
		b.pending = nil
		if rec == nil {
			b.writing = false
			b.idle.Broadcast()
			b.mu.Unlock()
			return
		}
		b.mu.Unlock()
		b.persist(rec)
	}
}

func (b *Bridge) persist(rec *GameRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := b.store.Save(ctx, rec); err != nil {
		b.log.Warnw("failed to save record", "id", rec.ID, "error", err)
	}
}

// isPrefix reports whether short is a strict prefix of long.
func isPrefix(short, long []types.Move) bool {
	if len(short) >= len(long) {
		return false
	}
	for i := range short {
		if short[i] != long[i] {
			return false
		}
	}
	return true
}
