package repository

import (
	"context"

	"partysense/domain/model"
)

// IFavorites stores the user's favorite songs.
type IFavorites interface {
	Add(ctx context.Context, userID string, song model.FavoriteSong) error
	Remove(ctx context.Context, userID, videoID string) error
	List(ctx context.Context, userID string) ([]model.FavoriteSong, error)
}

// ICategories groups a user's playlists by name.
type ICategories interface {
	Create(ctx context.Context, category model.Category) error
	ListByUser(ctx context.Context, userID string) ([]model.Category, error)
	AddPlaylist(ctx context.Context, userID, categoryName, playlistID string) error
}

// IPlaylists stores user-owned playlists.
type IPlaylists interface {
	Create(ctx context.Context, playlist model.Playlist) (string, error)
	Get(ctx context.Context, userID, playlistID string) (*model.Playlist, error)
	ListByUser(ctx context.Context, userID string) ([]model.Playlist, error)
	Update(ctx context.Context, userID, playlistID string, update model.PlaylistUpdate) error
	Delete(ctx context.Context, userID, playlistID string) error
}
