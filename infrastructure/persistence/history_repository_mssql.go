package persistence

import (
	"context"
	"database/sql"

	"partysense/domain/model"
	"partysense/domain/repository"
)

// HistoryRepositoryMSSQL is the Azure SQL / SQL Server playback history store.
type HistoryRepositoryMSSQL struct {
	db *sql.DB
}

func NewHistoryRepositoryMSSQL(db *sql.DB) repository.IPlaybackHistory {
	return &HistoryRepositoryMSSQL{db: db}
}

func (r *HistoryRepositoryMSSQL) Append(ctx context.Context, entry model.PlaybackHistoryEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO dbo.playback_history (user_id, video_id, title, played_at) VALUES (@p1, @p2, @p3, @p4)`,
		entry.UserID, entry.VideoID, entry.Title, entry.PlayedAt)
	return err
}

func (r *HistoryRepositoryMSSQL) ListRecent(ctx context.Context, userID string, limit int) ([]model.PlaybackHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT TOP (@p2) id, user_id, video_id, title, played_at FROM dbo.playback_history WHERE user_id = @p1 ORDER BY played_at DESC`,
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.PlaybackHistoryEntry
	for rows.Next() {
		var e model.PlaybackHistoryEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.VideoID, &e.Title, &e.PlayedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
