package db

import (
	"database/sql"
	"fmt"
)

// schema is the full SQLite database schema.
const schema = `
CREATE TABLE IF NOT EXISTS items (
    id           INTEGER PRIMARY KEY,
    title        TEXT NOT NULL CHECK (length(title) BETWEEN 1 AND 200),
    description  TEXT NOT NULL CHECK (length(description) BETWEEN 1 AND 1000),
    category     TEXT NOT NULL,
    location     TEXT,
    date         TEXT NOT NULL,
    contact_info TEXT NOT NULL CHECK (length(contact_info) BETWEEN 1 AND 255),
    status       TEXT NOT NULL CHECK (status IN ('lost', 'found')),
    photo        BLOB,
    photo_mime   TEXT,
    created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at DESC);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
