package persistence

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/logger"
)

// PlaybackRepository keeps one playback document per user, upserted in place.
type PlaybackRepository struct {
	playback *mongo.Collection
}

func NewPlaybackRepository(db *mongo.Database) repository.IPlayback {
	return &PlaybackRepository{playback: db.Collection("playback")}
}

type playbackDocument struct {
	UserID      string              `bson:"_id"`
	CurrentSong model.PlaybackState `bson:"current_song"`
}

func (r *PlaybackRepository) GetCurrent(ctx context.Context, userID string) (*model.PlaybackState, error) {
	var doc playbackDocument
	err := r.playback.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		// A record that cannot be decoded is treated as absent so the caller
		// synthesizes defaults instead of failing the request.
		logger.GetLogger().
			WithField("user_id", userID).
			WithField("error", err).
			Warn("Unreadable playback record, treating as absent")
		return nil, nil
	}
	return &doc.CurrentSong, nil
}

func (r *PlaybackRepository) SaveCurrent(ctx context.Context, userID string, state model.PlaybackState) error {
	_, err := r.playback.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"current_song": state}},
		options.UpdateOne().SetUpsert(true),
	)
	return err
}
