package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// postgresSchema mirrors schema for a hosted Postgres database.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS items (
    id           BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    title        TEXT NOT NULL CHECK (char_length(title) BETWEEN 1 AND 200),
    description  TEXT NOT NULL CHECK (char_length(description) BETWEEN 1 AND 1000),
    category     TEXT NOT NULL,
    location     TEXT,
    date         DATE NOT NULL,
    contact_info TEXT NOT NULL CHECK (char_length(contact_info) BETWEEN 1 AND 255),
    status       TEXT NOT NULL CHECK (status IN ('lost', 'found')),
    photo        BYTEA,
    photo_mime   TEXT,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at DESC);
`

// OpenPostgres connects to the Postgres database at url and pings it.
func OpenPostgres(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	return pool, nil
}

// EnsurePostgresSchema creates the items table if it doesn't already exist.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("creating postgres schema: %w", err)
	}
	return nil
}
