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

// UserRepository stores accounts in the users collection. The channel grants
// live embedded in the user document so a grant replacement is a single
// field-level update.
type UserRepository struct {
	users *mongo.Collection
}

func NewUserRepository(db *mongo.Database) repository.IUser {
	return &UserRepository{users: db.Collection("users")}
}

// EnsureUserIndexes creates the unique user_name index if missing.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, fmt.Errorf("user %s not found", id)
	}
	return user, err
}

func (r *UserRepository) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	var user model.User
	err := r.users.FindOne(ctx, bson.M{"user_name": userName}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return model.User{}, fmt.Errorf("user %s not found", userName)
	}
	return user, err
}

func (r *UserRepository) CreateUser(ctx context.Context, user model.User) error {
	_, err := r.users.InsertOne(ctx, user)
	return err
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	cursor, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []model.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *UserRepository) UpdateChannelGrant(ctx context.Context, userID string, kind model.ChannelKind, grant model.ChannelGrant) error {
	field := "grant_commands"
	if kind == model.ChannelStatus {
		field = "grant_status"
	}
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{field: grant, "updated_at": utils.GetCurrentTime()}},
	)
	return err
}

func (r *UserRepository) UpdatePreferences(ctx context.Context, userID string, prefs model.Preferences) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"preferences": prefs, "updated_at": utils.GetCurrentTime()}},
	)
	return err
}
