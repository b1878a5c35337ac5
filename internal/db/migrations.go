package db

import (
	"database/sql"
	"fmt"
)

// ItemQueryIndex is the composite index that filtered user-item queries name
// explicitly. Dropping it makes those queries fail until it is re-provisioned
// by running the migrations again.
const ItemQueryIndex = "idx_items_user_flags"

// migrations is a list of SQL statements applied in order after schema creation.
// Each migration must be idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: composite index backing filtered user-item queries
	// (userId equality plus any combination of flag/category predicates).
	`CREATE INDEX IF NOT EXISTS idx_items_user_flags
	     ON items(user_id, in_collection, in_wishlist, is_custom, category)`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
