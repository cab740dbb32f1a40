package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureHistorySchema creates the playback history table if it is missing.
// Safe to call at startup.
func EnsureHistorySchema(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `CREATE TABLE IF NOT EXISTS playback_history (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		video_id TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		played_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating playback_history failed: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS idx_playback_history_user_played ON playback_history (user_id, played_at DESC)`); err != nil {
		return fmt.Errorf("creating playback_history index failed: %w", err)
	}
	return nil
}
