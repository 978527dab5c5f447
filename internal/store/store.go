// Package store persists exported project archives and their records.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonathan/swiftblocks/internal/config"
)

// ErrNotFound is returned when no export has the requested ID.
var ErrNotFound = errors.New("export not found")

// DefaultListLimit caps List when no positive limit is given.
const DefaultListLimit = 50

// Record describes one stored archive.
type Record struct {
	ID          string    `json:"id"`
	ProjectName string    `json:"project_name"`
	FileName    string    `json:"file_name"`
	Size        int64     `json:"size"`
	SHA256      string    `json:"sha256"`
	Entries     int       `json:"entries"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store defines operations for persisting export archives.
type Store interface {
	Save(ctx context.Context, rec *Record, archive []byte) error
	Get(ctx context.Context, id string) (*Record, error)
	Archive(ctx context.Context, id string) ([]byte, error)
	// List returns the most recent records first.
	List(ctx context.Context, limit int) ([]Record, error)
	Close() error
}

// Open creates the store selected by cfg.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.BackendMemory:
		return NewMemoryStore(), nil
	case config.BackendPostgres:
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case config.BackendS3:
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}

func checkRecord(rec *Record) error {
	if rec == nil {
		return fmt.Errorf("record is nil")
	}
	if rec.ID == "" {
		return fmt.Errorf("record id is required")
	}
	return nil
}
