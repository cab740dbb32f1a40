package usecase

import (
	"context"
	"fmt"

	"partysense/domain/dto"
	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/utils"
)

// ILibraryUsecase covers favorites, playlists and playlist categories.
type ILibraryUsecase interface {
	AddFavorite(ctx context.Context, userID string, req dto.FavoriteRequest) error
	RemoveFavorite(ctx context.Context, userID, videoID string) error
	ListFavorites(ctx context.Context, userID string) ([]model.FavoriteSong, error)

	CreatePlaylist(ctx context.Context, userID string, req dto.PlaylistCreateRequest) (string, error)
	GetPlaylist(ctx context.Context, userID, playlistID string) (*model.Playlist, error)
	ListPlaylists(ctx context.Context, userID string) ([]model.Playlist, error)
	UpdatePlaylist(ctx context.Context, userID, playlistID string, req dto.PlaylistUpdateRequest) error
	DeletePlaylist(ctx context.Context, userID, playlistID string) error

	CreateCategory(ctx context.Context, userID string, req dto.CategoryCreateRequest) error
	ListCategories(ctx context.Context, userID string) ([]model.Category, error)
	AddPlaylistToCategory(ctx context.Context, userID, categoryName string, req dto.CategoryAddPlaylistRequest) error
}

type libraryUsecase struct {
	favoritesRepo  repository.IFavorites
	playlistsRepo  repository.IPlaylists
	categoriesRepo repository.ICategories
}

func NewLibraryUsecase(favoritesRepo repository.IFavorites, playlistsRepo repository.IPlaylists, categoriesRepo repository.ICategories) ILibraryUsecase {
	return &libraryUsecase{
		favoritesRepo:  favoritesRepo,
		playlistsRepo:  playlistsRepo,
		categoriesRepo: categoriesRepo,
	}
}

func (u *libraryUsecase) AddFavorite(ctx context.Context, userID string, req dto.FavoriteRequest) error {
	song := model.FavoriteSong{
		VideoID:      req.VideoID,
		Title:        req.Title,
		ThumbnailURL: req.ThumbnailURL,
		Duration:     req.Duration,
		AddedAt:      utils.GetCurrentTime(),
	}
	return u.favoritesRepo.Add(ctx, userID, song)
}

func (u *libraryUsecase) RemoveFavorite(ctx context.Context, userID, videoID string) error {
	if videoID == "" {
		return &model.ValidationError{Field: "video_id", Reason: "is required"}
	}
	return u.favoritesRepo.Remove(ctx, userID, videoID)
}

func (u *libraryUsecase) ListFavorites(ctx context.Context, userID string) ([]model.FavoriteSong, error) {
	return u.favoritesRepo.List(ctx, userID)
}

func (u *libraryUsecase) CreatePlaylist(ctx context.Context, userID string, req dto.PlaylistCreateRequest) (string, error) {
	now := utils.GetCurrentTime()
	playlist := model.Playlist{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Songs:       []model.FavoriteSong{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return u.playlistsRepo.Create(ctx, playlist)
}

func (u *libraryUsecase) GetPlaylist(ctx context.Context, userID, playlistID string) (*model.Playlist, error) {
	return u.playlistsRepo.Get(ctx, userID, playlistID)
}

func (u *libraryUsecase) ListPlaylists(ctx context.Context, userID string) ([]model.Playlist, error) {
	return u.playlistsRepo.ListByUser(ctx, userID)
}

func (u *libraryUsecase) UpdatePlaylist(ctx context.Context, userID, playlistID string, req dto.PlaylistUpdateRequest) error {
	update := model.PlaylistUpdate{
		Name:        req.Name,
		Description: req.Description,
		Songs:       req.Songs,
	}
	return u.playlistsRepo.Update(ctx, userID, playlistID, update)
}

func (u *libraryUsecase) DeletePlaylist(ctx context.Context, userID, playlistID string) error {
	return u.playlistsRepo.Delete(ctx, userID, playlistID)
}

func (u *libraryUsecase) CreateCategory(ctx context.Context, userID string, req dto.CategoryCreateRequest) error {
	category := model.Category{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		PlaylistIDs: []string{},
	}
	return u.categoriesRepo.Create(ctx, category)
}

func (u *libraryUsecase) ListCategories(ctx context.Context, userID string) ([]model.Category, error) {
	return u.categoriesRepo.ListByUser(ctx, userID)
}

func (u *libraryUsecase) AddPlaylistToCategory(ctx context.Context, userID, categoryName string, req dto.CategoryAddPlaylistRequest) error {
	if categoryName == "" {
		return &model.ValidationError{Field: "category", Reason: "is required"}
	}
	// Only the user's own playlists can be filed.
	playlist, err := u.playlistsRepo.Get(ctx, userID, req.PlaylistID)
	if err != nil {
		return err
	}
	if playlist == nil {
		return fmt.Errorf("playlist %s not found", req.PlaylistID)
	}
	return u.categoriesRepo.AddPlaylist(ctx, userID, categoryName, req.PlaylistID)
}
