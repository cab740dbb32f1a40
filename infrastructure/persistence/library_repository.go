package persistence

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/utils"
)

// FavoritesRepository stores one favorites document per user.
type FavoritesRepository struct {
	favorites *mongo.Collection
}

func NewFavoritesRepository(db *mongo.Database) repository.IFavorites {
	return &FavoritesRepository{favorites: db.Collection("favorites")}
}

func (r *FavoritesRepository) Add(ctx context.Context, userID string, song model.FavoriteSong) error {
	// Remove any existing entry for the video first so re-adding refreshes
	// metadata instead of duplicating the song.
	if err := r.Remove(ctx, userID, song.VideoID); err != nil {
		return err
	}
	_, err := r.favorites.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"songs": song}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}

func (r *FavoritesRepository) Remove(ctx context.Context, userID, videoID string) error {
	_, err := r.favorites.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"songs": bson.M{"video_id": videoID}}},
	)
	return err
}

func (r *FavoritesRepository) List(ctx context.Context, userID string) ([]model.FavoriteSong, error) {
	var doc struct {
		Songs []model.FavoriteSong `bson:"songs"`
	}
	err := r.favorites.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []model.FavoriteSong{}, nil
	}
	if err != nil {
		return nil, err
	}
	return doc.Songs, nil
}

// PlaylistsRepository stores playlists in their own collection, one document
// per playlist, ownership enforced on every operation.
type PlaylistsRepository struct {
	playlists *mongo.Collection
}

func NewPlaylistsRepository(db *mongo.Database) repository.IPlaylists {
	return &PlaylistsRepository{playlists: db.Collection("playlists")}
}

func (r *PlaylistsRepository) Create(ctx context.Context, playlist model.Playlist) (string, error) {
	if playlist.ID == "" {
		playlist.ID = bson.NewObjectID().Hex()
	}
	now := utils.GetCurrentTime()
	playlist.CreatedAt = now
	playlist.UpdatedAt = now
	if playlist.Songs == nil {
		playlist.Songs = []model.FavoriteSong{}
	}
	if _, err := r.playlists.InsertOne(ctx, playlist); err != nil {
		return "", err
	}
	return playlist.ID, nil
}

func (r *PlaylistsRepository) Get(ctx context.Context, userID, playlistID string) (*model.Playlist, error) {
	var playlist model.Playlist
	err := r.playlists.FindOne(ctx, bson.M{"_id": playlistID, "user_id": userID}).Decode(&playlist)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &playlist, nil
}

func (r *PlaylistsRepository) ListByUser(ctx context.Context, userID string) ([]model.Playlist, error) {
	cursor, err := r.playlists.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var playlists []model.Playlist
	if err := cursor.All(ctx, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

func (r *PlaylistsRepository) Update(ctx context.Context, userID, playlistID string, update model.PlaylistUpdate) error {
	set := bson.M{"updated_at": utils.GetCurrentTime()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Songs != nil {
		set["songs"] = *update.Songs
	}
	res, err := r.playlists.UpdateOne(ctx,
		bson.M{"_id": playlistID, "user_id": userID},
		bson.M{"$set": set},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("playlist %s not found", playlistID)
	}
	return nil
}

func (r *PlaylistsRepository) Delete(ctx context.Context, userID, playlistID string) error {
	res, err := r.playlists.DeleteOne(ctx, bson.M{"_id": playlistID, "user_id": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("playlist %s not found", playlistID)
	}
	return nil
}

// CategoriesRepository stores one document per (user, category name).
type CategoriesRepository struct {
	categories *mongo.Collection
}

func NewCategoriesRepository(db *mongo.Database) repository.ICategories {
	return &CategoriesRepository{categories: db.Collection("categories")}
}

func (r *CategoriesRepository) Create(ctx context.Context, category model.Category) error {
	if category.ID == "" {
		category.ID = bson.NewObjectID().Hex()
	}
	category.CreatedAt = utils.GetCurrentTime()
	if category.PlaylistIDs == nil {
		category.PlaylistIDs = []string{}
	}
	count, err := r.categories.CountDocuments(ctx,
		bson.M{"user_id": category.UserID, "name": category.Name})
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("category %s already exists", category.Name)
	}
	_, err = r.categories.InsertOne(ctx, category)
	return err
}

func (r *CategoriesRepository) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	cursor, err := r.categories.Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	var categories []model.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) AddPlaylist(ctx context.Context, userID, categoryName, playlistID string) error {
	res, err := r.categories.UpdateOne(ctx,
		bson.M{"user_id": userID, "name": categoryName},
		bson.M{"$addToSet": bson.M{"playlists": playlistID}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("category %s not found", categoryName)
	}
	return nil
}
