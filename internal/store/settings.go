package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/opaco/opacovault/internal/model"
)

// GetUserSettings returns a user's settings document, or nil if the user has
// never saved any. A corrupt stored document is treated as absent rather than
// failing the read.
func GetUserSettings(ctx context.Context, db *sql.DB, userID int64) (*model.UserSettings, error) {
	var raw sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT settings FROM users WHERE id = ?`, userID,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user settings: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}

	settings := &model.UserSettings{}
	if err := json.Unmarshal([]byte(raw.String), settings); err != nil {
		return nil, nil
	}
	return settings, nil
}

// SaveUserSettings replaces a user's settings document wholesale.
func SaveUserSettings(ctx context.Context, db *sql.DB, userID int64, settings model.UserSettings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encoding user settings: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`UPDATE users SET settings = ? WHERE id = ? AND deleted_at IS NULL`,
		string(raw), userID,
	)
	if err != nil {
		return fmt.Errorf("saving user settings: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("saving user settings: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("saving settings for user %d: %w", userID, ErrNotFound)
	}
	return nil
}

// GetJWTSecret retrieves the JWT signing secret from the settings table,
// generating and storing one on first use. INSERT OR IGNORE plus re-SELECT
// avoids a TOCTOU race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('jwt_secret', ?)`,
		candidate,
	)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	var secret string
	err = db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = 'jwt_secret'`,
	).Scan(&secret)
	if err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}

	return secret, nil
}
