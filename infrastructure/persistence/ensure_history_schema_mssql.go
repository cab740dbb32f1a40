package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// EnsureHistorySchemaMSSQL creates the playback history table in MSSQL if missing.
func EnsureHistorySchemaMSSQL(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ddl := `IF OBJECT_ID('dbo.playback_history', 'U') IS NULL BEGIN
		CREATE TABLE dbo.playback_history (
			id BIGINT IDENTITY(1,1) PRIMARY KEY,
			user_id NVARCHAR(64) NOT NULL,
			video_id NVARCHAR(64) NOT NULL,
			title NVARCHAR(512) NOT NULL DEFAULT '',
			played_at DATETIME2 NOT NULL
		);
		CREATE INDEX idx_playback_history_user_played ON dbo.playback_history (user_id, played_at DESC);
	END`
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("creating dbo.playback_history failed: %w", err)
	}
	return nil
}
