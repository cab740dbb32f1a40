package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"partysense/domain/model"
	"partysense/usecase"
)

func testUser() model.User {
	return model.User{
		ID:                  "u1",
		ChannelNameCommands: "user_u1_commands",
		ChannelNameStatus:   "user_u1_status",
	}
}

func TestPlaybackUsecase_Dispatch_Play(t *testing.T) {
	mockPlayback := new(MockPlaybackRepository)
	mockHistory := new(MockHistoryRepository)
	mockCatalog := new(MockVideoCatalog)
	mockBroker := new(MockBroker)
	uc := usecase.NewPlaybackUsecase(mockPlayback, mockHistory, mockCatalog, mockBroker, nil)

	mockCatalog.On("GetVideoDetails", mock.Anything, "vid1").
		Return(&model.VideoDetails{VideoID: "vid1", Title: "Song One", ThumbnailURL: "http://t/1.jpg", Duration: 240}, nil)
	mockPlayback.On("GetCurrent", mock.Anything, "u1").Return(nil, nil)

	var saved model.PlaybackState
	mockPlayback.On("SaveCurrent", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).(model.PlaybackState) }).
		Return(nil)
	mockHistory.On("Append", mock.Anything, mock.MatchedBy(func(e model.PlaybackHistoryEntry) bool {
		return e.UserID == "u1" && e.VideoID == "vid1" && e.Title == "Song One"
	})).Return(nil)
	mockBroker.On("Publish", mock.Anything, "user_u1_commands", mock.Anything).Return(nil)

	err := uc.Dispatch(context.Background(), testUser(), model.PlayCommand{VideoID: "vid1", Mode: model.ModeDefault})

	require.NoError(t, err)
	assert.Equal(t, "vid1", saved.VideoID)
	assert.Equal(t, "Song One", saved.Title)
	assert.Equal(t, 240, saved.Duration)
	assert.Equal(t, model.StatusPlaying, saved.State)
	assert.Equal(t, float64(0), saved.Position)
	assert.False(t, saved.UpdatedAt.IsZero())
	mockBroker.AssertExpectations(t)
	mockHistory.AssertExpectations(t)
}

func TestPlaybackUsecase_Dispatch_PlayIsIdempotent(t *testing.T) {
	mockPlayback := new(MockPlaybackRepository)
	mockBroker := new(MockBroker)
	uc := usecase.NewPlaybackUsecase(mockPlayback, nil, nil, mockBroker, nil)

	var stored model.PlaybackState
	mockPlayback.On("SaveCurrent", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(2).(model.PlaybackState) }).
		Return(nil)
	mockBroker.On("Publish", mock.Anything, "user_u1_commands", mock.Anything).Return(nil)

	cmd := model.PlayCommand{VideoID: "vid1", Title: "Song", Duration: 200, Position: 10, Mode: model.ModeParty}

	mockPlayback.On("GetCurrent", mock.Anything, "u1").Return(nil, nil).Once()
	require.NoError(t, uc.Dispatch(context.Background(), testUser(), cmd))
	first := stored

	mockPlayback.On("GetCurrent", mock.Anything, "u1").Return(&first, nil).Once()
	require.NoError(t, uc.Dispatch(context.Background(), testUser(), cmd))
	second := stored

	assert.True(t, first.SameSong(&second))
}

func TestPlaybackUsecase_Dispatch_PauseWithoutRecordSynthesizesDefault(t *testing.T) {
	mockPlayback := new(MockPlaybackRepository)
	mockBroker := new(MockBroker)
	uc := usecase.NewPlaybackUsecase(mockPlayback, nil, nil, mockBroker, nil)

	mockPlayback.On("GetCurrent", mock.Anything, "u1").Return(nil, nil)
	var saved model.PlaybackState
	mockPlayback.On("SaveCurrent", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).(model.PlaybackState) }).
		Return(nil)
	mockBroker.On("Publish", mock.Anything, "user_u1_commands", mock.Anything).Return(nil)

	pos := 12.5
	err := uc.Dispatch(context.Background(), testUser(), model.PauseCommand{Position: &pos})

	require.NoError(t, err)
	assert.Equal(t, model.StatusPaused, saved.State)
	assert.Equal(t, 12.5, saved.Position)
	assert.Equal(t, model.ModeDefault, saved.Mode)
}

func TestPlaybackUsecase_Dispatch_SeekClampsPosition(t *testing.T) {
	mockPlayback := new(MockPlaybackRepository)
	mockBroker := new(MockBroker)
	uc := usecase.NewPlaybackUsecase(mockPlayback, nil, nil, mockBroker, nil)

	current := &model.PlaybackState{VideoID: "vid1", Duration: 100, Position: 40, State: model.StatusPlaying}
	mockPlayback.On("GetCurrent", mock.Anything, "u1").Return(current, nil)
	var saved model.PlaybackState
	mockPlayback.On("SaveCurrent", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).(model.PlaybackState) }).
		Return(nil)
	mockBroker.On("Publish", mock.Anything, "user_u1_commands", mock.Anything).Return(nil)

	err := uc.Dispatch(context.Background(), testUser(), model.SeekCommand{Position: 500})

	require.NoError(t, err)
	assert.Equal(t, float64(100), saved.Position)
	assert.Equal(t, model.StatusPlaying, saved.State)
}

func TestPlaybackUsecase_Dispatch_NextIsPassThrough(t *testing.T) {
	mockPlayback := new(MockPlaybackRepository)
	mockBroker := new(MockBroker)
	uc := usecase.NewPlaybackUsecase(mockPlayback, nil, nil, mockBroker, nil)

	mockBroker.On("Publish", mock.Anything, "user_u1_commands", mock.Anything).Return(nil)

	err := uc.Dispatch(context.Background(), testUser(), model.NextCommand{})

	require.NoError(t, err)
	mockPlayback.AssertNotCalled(t, "GetCurrent")
	mockPlayback.AssertNotCalled(t, "SaveCurrent")
	mockBroker.AssertExpectations(t)
}

func TestPlaybackUsecase_Dispatch_PublishFailureKeepsState(t *testing.T) {
	mockPlayback := new(MockPlaybackRepository)
	mockBroker := new(MockBroker)
	uc := usecase.NewPlaybackUsecase(mockPlayback, nil, nil, mockBroker, nil)

	mockPlayback.On("GetCurrent", mock.Anything, "u1").Return(nil, nil)
	mockPlayback.On("SaveCurrent", mock.Anything, "u1", mock.Anything).Return(nil)
	mockBroker.On("Publish", mock.Anything, "user_u1_commands", mock.Anything).
		Return(errors.New("transport down"))

	err := uc.Dispatch(context.Background(), testUser(), model.PlayCommand{VideoID: "vid1", Title: "Song", Mode: model.ModeDefault})

	var dispatchErr *model.DispatchError
	require.ErrorAs(t, err, &dispatchErr)
	assert.Equal(t, "user_u1_commands", dispatchErr.Channel)
	// The optimistic write stays even though delivery failed.
	mockPlayback.AssertCalled(t, "SaveCurrent", mock.Anything, "u1", mock.Anything)
}

func TestPlaybackUsecase_Dispatch_CatalogFailureFallsBack(t *testing.T) {
	mockPlayback := new(MockPlaybackRepository)
	mockCatalog := new(MockVideoCatalog)
	mockBroker := new(MockBroker)
	uc := usecase.NewPlaybackUsecase(mockPlayback, nil, mockCatalog, mockBroker, nil)

	mockCatalog.On("GetVideoDetails", mock.Anything, "vid1").
		Return(nil, errors.New("quota exceeded"))
	mockPlayback.On("GetCurrent", mock.Anything, "u1").Return(nil, nil)
	var saved model.PlaybackState
	mockPlayback.On("SaveCurrent", mock.Anything, "u1", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).(model.PlaybackState) }).
		Return(nil)
	mockBroker.On("Publish", mock.Anything, "user_u1_commands", mock.Anything).Return(nil)

	err := uc.Dispatch(context.Background(), testUser(), model.PlayCommand{VideoID: "vid1", Title: "Client Title", Mode: model.ModeDefault})

	require.NoError(t, err)
	assert.Equal(t, "Client Title", saved.Title)
}
