package repository

import (
	"context"

	"partysense/domain/model"
)

// IUser is the account store.
type IUser interface {
	GetByID(ctx context.Context, id string) (model.User, error)
	GetByUserName(ctx context.Context, userName string) (model.User, error)
	CreateUser(ctx context.Context, user model.User) error
	List(ctx context.Context) ([]model.User, error)
	// UpdateChannelGrant replaces the stored grant for one channel kind.
	UpdateChannelGrant(ctx context.Context, userID string, kind model.ChannelKind, grant model.ChannelGrant) error
	UpdatePreferences(ctx context.Context, userID string, prefs model.Preferences) error
}
