package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"partysense/domain/model"
	"partysense/infrastructure/messaging"
)

// Mock implementations

type MockBroker struct {
	mock.Mock
}

func (m *MockBroker) Publish(ctx context.Context, channel string, payload []byte) error {
	args := m.Called(ctx, channel, payload)
	return args.Error(0)
}

func (m *MockBroker) Subscribe(ctx context.Context, channel, group string, handler messaging.Handler) error {
	args := m.Called(ctx, channel, group, handler)
	return args.Error(0)
}

func (m *MockBroker) GrantToken(ctx context.Context, channels []string, ttl time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, channels, ttl)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) GetByUserName(ctx context.Context, userName string) (model.User, error) {
	args := m.Called(ctx, userName)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateChannelGrant(ctx context.Context, userID string, kind model.ChannelKind, grant model.ChannelGrant) error {
	args := m.Called(ctx, userID, kind, grant)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePreferences(ctx context.Context, userID string, prefs model.Preferences) error {
	args := m.Called(ctx, userID, prefs)
	return args.Error(0)
}

type MockPlaybackRepository struct {
	mock.Mock
}

func (m *MockPlaybackRepository) GetCurrent(ctx context.Context, userID string) (*model.PlaybackState, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PlaybackState), args.Error(1)
}

func (m *MockPlaybackRepository) SaveCurrent(ctx context.Context, userID string, state model.PlaybackState) error {
	args := m.Called(ctx, userID, state)
	return args.Error(0)
}

type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, entry model.PlaybackHistoryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHistoryRepository) ListRecent(ctx context.Context, userID string, limit int) ([]model.PlaybackHistoryEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PlaybackHistoryEntry), args.Error(1)
}

type MockVideoCatalog struct {
	mock.Mock
}

func (m *MockVideoCatalog) Search(ctx context.Context, query string, maxResults int64, pageToken string) (*model.SearchResult, error) {
	args := m.Called(ctx, query, maxResults, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SearchResult), args.Error(1)
}

func (m *MockVideoCatalog) Autocomplete(ctx context.Context, query string, maxResults int) ([]model.Suggestion, error) {
	args := m.Called(ctx, query, maxResults)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Suggestion), args.Error(1)
}

func (m *MockVideoCatalog) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoDetails, error) {
	args := m.Called(ctx, videoID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.VideoDetails), args.Error(1)
}

type MockPlaylists struct {
	mock.Mock
}

func (m *MockPlaylists) Create(ctx context.Context, playlist model.Playlist) (string, error) {
	args := m.Called(ctx, playlist)
	return args.String(0), args.Error(1)
}

func (m *MockPlaylists) Get(ctx context.Context, userID, playlistID string) (*model.Playlist, error) {
	args := m.Called(ctx, userID, playlistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Playlist), args.Error(1)
}

func (m *MockPlaylists) ListByUser(ctx context.Context, userID string) ([]model.Playlist, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Playlist), args.Error(1)
}

func (m *MockPlaylists) Update(ctx context.Context, userID, playlistID string, update model.PlaylistUpdate) error {
	args := m.Called(ctx, userID, playlistID, update)
	return args.Error(0)
}

func (m *MockPlaylists) Delete(ctx context.Context, userID, playlistID string) error {
	args := m.Called(ctx, userID, playlistID)
	return args.Error(0)
}

type MockCategories struct {
	mock.Mock
}

func (m *MockCategories) Create(ctx context.Context, category model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategories) ListByUser(ctx context.Context, userID string) ([]model.Category, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategories) AddPlaylist(ctx context.Context, userID, categoryName, playlistID string) error {
	args := m.Called(ctx, userID, categoryName, playlistID)
	return args.Error(0)
}

type MockSearchCache struct {
	mock.Mock
}

func (m *MockSearchCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSearchCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}
