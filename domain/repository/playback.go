package repository

import (
	"context"

	"partysense/domain/model"
)

// IPlayback stores the authoritative per-user playback record.
type IPlayback interface {
	// GetCurrent returns (nil, nil) when no record exists for the user.
	// A corrupted record is treated as absent, not as an error.
	GetCurrent(ctx context.Context, userID string) (*model.PlaybackState, error)
	SaveCurrent(ctx context.Context, userID string, state model.PlaybackState) error
}

// IPlaybackHistory is the append-only play log.
type IPlaybackHistory interface {
	Append(ctx context.Context, entry model.PlaybackHistoryEntry) error
	ListRecent(ctx context.Context, userID string, limit int) ([]model.PlaybackHistoryEntry, error)
}
