package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"partysense/domain/model"
	"partysense/usecase"
)

func TestTokenManager_IsExpired_Boundary(t *testing.T) {
	manager := usecase.NewTokenManager(new(MockBroker), new(MockUserRepository), time.Minute)

	now := time.Now().UTC()
	cases := []struct {
		name      string
		expiresAt time.Time
		expired   bool
	}{
		{"expires well in the future", now.Add(time.Hour), false},
		{"expires just after now", now.Add(50 * time.Millisecond), false},
		{"expired just before now", now.Add(-time.Millisecond), true},
		{"expired long ago", now.Add(-time.Hour), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			grant := &model.ChannelGrant{Token: "tok", IssuedAt: now.Add(-time.Minute), ExpiresAt: tc.expiresAt}
			assert.Equal(t, tc.expired, manager.IsExpired(grant))
		})
	}
}

func TestTokenManager_IsExpired_NaiveTimestampIsUTC(t *testing.T) {
	manager := usecase.NewTokenManager(new(MockBroker), new(MockUserRepository), time.Minute)

	// An expiry stored without an offset must be read as UTC, never local.
	naive := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	grant := &model.ChannelGrant{Token: "tok", ExpiresAt: naive}
	assert.True(t, manager.IsExpired(grant))
}

func TestTokenManager_IsExpired_MissingGrant(t *testing.T) {
	manager := usecase.NewTokenManager(new(MockBroker), new(MockUserRepository), time.Minute)

	assert.True(t, manager.IsExpired(nil))
	assert.True(t, manager.IsExpired(&model.ChannelGrant{ExpiresAt: time.Now().Add(time.Hour)}))
}

func TestTokenManager_EnsureFresh_RenewsOnlyExpiredGrant(t *testing.T) {
	mockBroker := new(MockBroker)
	mockUserRepo := new(MockUserRepository)
	manager := usecase.NewTokenManager(mockBroker, mockUserRepo, time.Minute)

	now := time.Now().UTC()
	user := model.User{
		ID:                  "u1",
		ChannelNameCommands: "user_u1_commands",
		ChannelNameStatus:   "user_u1_status",
		GrantCommands:       &model.ChannelGrant{ChannelName: "user_u1_commands", Token: "old", ExpiresAt: now.Add(-time.Second)},
		GrantStatus:         &model.ChannelGrant{ChannelName: "user_u1_status", Token: "good", ExpiresAt: now.Add(time.Hour)},
	}

	mockBroker.On("GrantToken", mock.Anything, []string{"user_u1_commands"}, time.Minute).
		Return("fresh", now.Add(time.Minute), nil)
	mockUserRepo.On("UpdateChannelGrant", mock.Anything, "u1", model.ChannelCommands, mock.Anything).
		Return(nil)

	got, err := manager.EnsureFresh(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, "fresh", got.GrantCommands.Token)
	assert.Equal(t, "good", got.GrantStatus.Token)
	mockBroker.AssertExpectations(t)
	mockUserRepo.AssertExpectations(t)
	mockBroker.AssertNumberOfCalls(t, "GrantToken", 1)
}

func TestTokenManager_EnsureFresh_IssuanceFailure(t *testing.T) {
	mockBroker := new(MockBroker)
	mockUserRepo := new(MockUserRepository)
	manager := usecase.NewTokenManager(mockBroker, mockUserRepo, time.Minute)

	user := model.User{
		ID:                  "u1",
		ChannelNameCommands: "user_u1_commands",
		ChannelNameStatus:   "user_u1_status",
	}
	mockBroker.On("GrantToken", mock.Anything, mock.Anything, mock.Anything).
		Return("", time.Time{}, errors.New("broker down"))

	_, err := manager.EnsureFresh(context.Background(), user)

	var issuanceErr *model.TokenIssuanceError
	require.ErrorAs(t, err, &issuanceErr)
	mockUserRepo.AssertNotCalled(t, "UpdateChannelGrant")
}

func TestTokenManager_Grant_SetsExpiry(t *testing.T) {
	mockBroker := new(MockBroker)
	manager := usecase.NewTokenManager(mockBroker, new(MockUserRepository), time.Minute)

	expiresAt := time.Now().UTC().Add(30 * time.Second)
	mockBroker.On("GrantToken", mock.Anything, []string{"user_u1_status"}, 30*time.Second).
		Return("tok", expiresAt, nil)

	grant, err := manager.Grant(context.Background(), []string{"user_u1_status"}, 30*time.Second)

	require.NoError(t, err)
	assert.Equal(t, "tok", grant.Token)
	assert.Equal(t, expiresAt, grant.ExpiresAt)
	assert.Equal(t, "user_u1_status", grant.ChannelName)
	assert.True(t, grant.ExpiresAt.After(grant.IssuedAt))
}
