package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"partysense/domain/dto"
	"partysense/domain/model"
	"partysense/usecase"
)

func TestLibraryUsecase_CreateCategory(t *testing.T) {
	categories := new(MockCategories)
	categories.On("Create", mock.Anything, mock.MatchedBy(func(c model.Category) bool {
		return c.UserID == "user1" && c.Name == "Workout" && c.Description == "gym mixes" &&
			c.PlaylistIDs != nil && len(c.PlaylistIDs) == 0
	})).Return(nil)

	uc := usecase.NewLibraryUsecase(nil, nil, categories)
	err := uc.CreateCategory(context.Background(), "user1",
		dto.CategoryCreateRequest{Name: "Workout", Description: "gym mixes"})
	require.NoError(t, err)
	categories.AssertExpectations(t)
}

func TestLibraryUsecase_ListCategories(t *testing.T) {
	categories := new(MockCategories)
	categories.On("ListByUser", mock.Anything, "user1").Return([]model.Category{
		{Name: "Workout", PlaylistIDs: []string{"pl1"}},
	}, nil)

	uc := usecase.NewLibraryUsecase(nil, nil, categories)
	got, err := uc.ListCategories(context.Background(), "user1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Workout", got[0].Name)
}

func TestLibraryUsecase_AddPlaylistToCategory_ChecksOwnership(t *testing.T) {
	playlists := new(MockPlaylists)
	categories := new(MockCategories)
	uc := usecase.NewLibraryUsecase(nil, playlists, categories)

	// Unknown playlist is rejected before the category is touched.
	playlists.On("Get", mock.Anything, "user1", "missing").Return(nil, nil).Once()
	err := uc.AddPlaylistToCategory(context.Background(), "user1", "Workout",
		dto.CategoryAddPlaylistRequest{PlaylistID: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	categories.AssertNotCalled(t, "AddPlaylist", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// An owned playlist is filed under the category.
	playlists.On("Get", mock.Anything, "user1", "pl1").
		Return(&model.Playlist{ID: "pl1", UserID: "user1"}, nil).Once()
	categories.On("AddPlaylist", mock.Anything, "user1", "Workout", "pl1").Return(nil).Once()
	err = uc.AddPlaylistToCategory(context.Background(), "user1", "Workout",
		dto.CategoryAddPlaylistRequest{PlaylistID: "pl1"})
	require.NoError(t, err)
	categories.AssertExpectations(t)
}
