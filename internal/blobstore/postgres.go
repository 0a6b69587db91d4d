package blobstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"assetgate/pkg/platform/sentinel"
)

// Postgres is the PostgreSQL backed Store for shared deployments.
type Postgres struct {
	db *sql.DB
}

// OpenPostgres connects with the given DSN and ensures the blob table exists.
func OpenPostgres(dsn string) (*Postgres, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS blobs (
		key   TEXT PRIMARY KEY,
		value BYTEA NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create blobs table: %w", err)
	}
	return &Postgres{db: db}, nil
}

// NewPostgres wraps an existing connection; callers manage its lifecycle.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var val []byte
	err := p.db.QueryRowContext(ctx, `SELECT value FROM blobs WHERE key = $1`, key).Scan(&val)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, unavailable("postgres get", err)
	}
	return val, nil
}

func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return unavailable("postgres set", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = $1`, key); err != nil {
		return unavailable("postgres delete", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (p *Postgres) Close() error {
	return p.db.Close()
}
