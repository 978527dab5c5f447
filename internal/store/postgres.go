package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const exportsSchema = `
CREATE TABLE IF NOT EXISTS exports (
    id TEXT PRIMARY KEY,
    project_name TEXT NOT NULL,
    file_name TEXT NOT NULL,
    size BIGINT NOT NULL,
    sha256 TEXT NOT NULL,
    entries INTEGER NOT NULL,
    archive BYTEA NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at DESC);
`

// PostgresStore keeps exports in the exports table.
type PostgresStore struct {
	pool        *pgxpool.Pool
	schemaMu    sync.Mutex
	schemaReady bool
}

// NewPostgresStore connects to databaseURL and verifies the connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// ensureSchema creates the exports table on first use. A failed attempt is
// retried by the next call.
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	s.schemaMu.Lock()
	defer s.schemaMu.Unlock()
	if s.schemaReady {
		return nil
	}
	if _, err := s.pool.Exec(ctx, exportsSchema); err != nil {
		return fmt.Errorf("failed to create exports table: %w", err)
	}
	s.schemaReady = true
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, rec *Record, archive []byte) error {
	if err := checkRecord(rec); err != nil {
		return err
	}
	if err := s.ensureSchema(ctx); err != nil {
		return err
	}
	if archive == nil {
		archive = []byte{}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO exports (id, project_name, file_name, size, sha256, entries, archive, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET project_name = $2, file_name = $3, size = $4,
		   sha256 = $5, entries = $6, archive = $7, created_at = $8`,
		rec.ID, rec.ProjectName, rec.FileName, rec.Size, rec.SHA256, rec.Entries, archive, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save export %s: %w", rec.ID, err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Record, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var rec Record
	err := s.pool.QueryRow(ctx,
		`SELECT id, project_name, file_name, size, sha256, entries, created_at
		 FROM exports WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.ProjectName, &rec.FileName, &rec.Size, &rec.SHA256, &rec.Entries, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get export: %w", err)
	}
	return &rec, nil
}

func (s *PostgresStore) Archive(ctx context.Context, id string) ([]byte, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	var archive []byte
	err := s.pool.QueryRow(ctx, `SELECT archive FROM exports WHERE id = $1`, id).Scan(&archive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get archive: %w", err)
	}
	return archive, nil
}

func (s *PostgresStore) List(ctx context.Context, limit int) ([]Record, error) {
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx,
		`SELECT id, project_name, file_name, size, sha256, entries, created_at
		 FROM exports ORDER BY created_at DESC LIMIT $1`,
		normalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	defer rows.Close()

	records := []Record{}
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.ProjectName, &rec.FileName, &rec.Size, &rec.SHA256, &rec.Entries, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan export: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	return records, nil
}

// Close closes the connection pool
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
