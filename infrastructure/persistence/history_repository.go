package persistence

import (
	"context"
	"database/sql"

	"partysense/domain/model"
	"partysense/domain/repository"
)

// HistoryRepository is the PostgreSQL playback history store.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) repository.IPlaybackHistory {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entry model.PlaybackHistoryEntry) error {
	stmt, err := r.db.PrepareContext(ctx, `INSERT INTO playback_history (user_id, video_id, title, played_at) VALUES ($1, $2, $3, $4)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, entry.UserID, entry.VideoID, entry.Title, entry.PlayedAt)
	return err
}

func (r *HistoryRepository) ListRecent(ctx context.Context, userID string, limit int) ([]model.PlaybackHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	stmt, err := r.db.PrepareContext(ctx, `SELECT id, user_id, video_id, title, played_at
	FROM playback_history
	WHERE user_id = $1 ORDER BY played_at DESC LIMIT $2`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx, userID, limit)
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
