// Package record persists game records: SGF text, the replay cursor and
// the per-record engine configuration.
package record

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"katasuji/engine"
	"katasuji/sgf"
)

// ErrNotFound is returned when no record has the requested ID.
var ErrNotFound = errors.New("record not found")

// GameRecord is one stored game.
type GameRecord struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	SGF          string            `json:"sgf"`
	Cursor       int               `json:"cursor"`
	Config       engine.GameConfig `json:"config"`
	LastModified time.Time         `json:"last_modified"`
}

// New creates an unsaved record for a fresh game played with cfg.
func New(name string, cfg engine.GameConfig) *GameRecord {
	now := time.Now()
	if name == "" {
		name = now.Format("2006-01-02 15:04")
	}
	return &GameRecord{
		ID:           uuid.NewString(),
		Name:         name,
		SGF:          sgf.NewGameSGF(cfg),
		Config:       cfg,
		LastModified: now,
	}
}

// Store is durable storage for records.
type Store interface {
	Save(ctx context.Context, rec *GameRecord) error
	Load(ctx context.Context, id string) (*GameRecord, error)
	// List returns all records, most recently modified first.
	List(ctx context.Context) ([]GameRecord, error)
	Delete(ctx context.Context, id string) error
	Close() error
}
