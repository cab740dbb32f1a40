package persistence

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"partysense/domain/model"
)

func TestHistoryRepository_Append(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewHistoryRepository(db)

	playedAt := time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC)

	mock.ExpectPrepare(regexp.QuoteMeta(`INSERT INTO playback_history (user_id, video_id, title, played_at) VALUES ($1, $2, $3, $4)`)).
		ExpectExec().WithArgs("user-1", "dQw4w9WgXcQ", "Never Gonna Give You Up", playedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repository.Append(context.Background(), model.PlaybackHistoryEntry{
		UserID:   "user-1",
		VideoID:  "dQw4w9WgXcQ",
		Title:    "Never Gonna Give You Up",
		PlayedAt: playedAt,
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_ListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewHistoryRepository(db)

	playedAt := time.Date(2024, 6, 1, 20, 30, 0, 0, time.UTC)

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT id, user_id, video_id, title, played_at
	FROM playback_history
	WHERE user_id = $1 ORDER BY played_at DESC LIMIT $2`)).
		ExpectQuery().WithArgs("user-1", 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "video_id", "title", "played_at"}).
			AddRow(int64(2), "user-1", "vid2", "Second", playedAt).
			AddRow(int64(1), "user-1", "vid1", "First", playedAt.Add(-time.Minute)))

	entries, err := repository.ListRecent(context.Background(), "user-1", 2)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "vid2", entries[0].VideoID)
	require.Equal(t, "vid1", entries[1].VideoID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHistoryRepository_ListRecent_DefaultLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repository := NewHistoryRepository(db)

	mock.ExpectPrepare(regexp.QuoteMeta(`SELECT id, user_id, video_id, title, played_at
	FROM playback_history
	WHERE user_id = $1 ORDER BY played_at DESC LIMIT $2`)).
		ExpectQuery().WithArgs("user-1", 20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "video_id", "title", "played_at"}))

	entries, err := repository.ListRecent(context.Background(), "user-1", 0)

	require.NoError(t, err)
	require.Empty(t, entries)
	require.NoError(t, mock.ExpectationsWereMet())
}
