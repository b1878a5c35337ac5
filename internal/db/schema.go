package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema.
//
// Item timestamps are stored as RFC 3339 text written by the application, not
// DATETIME defaults: the recency sort parses them leniently and treats
// unparseable values as the earliest possible date.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    settings      TEXT,
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS items (
    id            TEXT PRIMARY KEY,
    user_id       INTEGER NOT NULL REFERENCES users(id),
    name          TEXT NOT NULL,
    brand         TEXT NOT NULL,
    category      TEXT NOT NULL,
    series        TEXT NOT NULL DEFAULT '',
    release_date  TEXT,
    purchase_date TEXT,
    price         REAL CHECK (price IS NULL OR price >= 0),
    condition     TEXT,
    notes         TEXT,
    image_url     TEXT,
    in_wishlist   INTEGER NOT NULL DEFAULT 0,
    in_collection INTEGER NOT NULL DEFAULT 0,
    is_custom     INTEGER NOT NULL DEFAULT 0,
    created_at    TEXT NOT NULL,
    updated_at    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
