package usecase

import (
	"context"
	"time"

	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/logger"
	"partysense/infrastructure/messaging"
	"partysense/infrastructure/utils"
)

// IPlaybackUsecase dispatches playback commands and serves the stored record.
type IPlaybackUsecase interface {
	// Dispatch validates nothing itself: cmd is already a decoded variant.
	// It applies the optimistic state write, persists, then publishes.
	Dispatch(ctx context.Context, user model.User, cmd model.Command) error
	GetCurrent(ctx context.Context, userID string) (*model.PlaybackState, error)
	History(ctx context.Context, userID string, limit int) ([]model.PlaybackHistoryEntry, error)
}

type playbackUsecase struct {
	playbackRepo repository.IPlayback
	historyRepo  repository.IPlaybackHistory // optional
	catalog      repository.IVideoCatalog    // optional enrichment
	broker       messaging.IBroker
	locks        *StateLocks // shared with the reconciler
}

func NewPlaybackUsecase(playbackRepo repository.IPlayback, historyRepo repository.IPlaybackHistory, catalog repository.IVideoCatalog, broker messaging.IBroker, locks *StateLocks) IPlaybackUsecase {
	if locks == nil {
		locks = NewStateLocks()
	}
	return &playbackUsecase{
		playbackRepo: playbackRepo,
		historyRepo:  historyRepo,
		catalog:      catalog,
		broker:       broker,
		locks:        locks,
	}
}

func (u *playbackUsecase) Dispatch(ctx context.Context, user model.User, cmd model.Command) error {
	lock := u.locks.For(user.ID)
	lock.Lock()
	defer lock.Unlock()

	switch c := cmd.(type) {
	case model.PlayCommand:
		enriched, err := u.applyPlay(ctx, user, c)
		if err != nil {
			return err
		}
		cmd = enriched
	case model.PauseCommand:
		if err := u.mutateState(ctx, user.ID, func(s *model.PlaybackState) {
			s.State = model.StatusPaused
			if c.Position != nil {
				s.Position = *c.Position
			}
		}); err != nil {
			return err
		}
	case model.ResumeCommand:
		if err := u.mutateState(ctx, user.ID, func(s *model.PlaybackState) {
			s.State = model.StatusPlaying
			if c.Position != nil {
				s.Position = *c.Position
			}
		}); err != nil {
			return err
		}
	case model.SeekCommand:
		if err := u.mutateState(ctx, user.ID, func(s *model.PlaybackState) {
			s.Position = c.Position
		}); err != nil {
			return err
		}
	case model.SetModeCommand:
		if err := u.mutateState(ctx, user.ID, func(s *model.PlaybackState) {
			s.Mode = c.Mode
		}); err != nil {
			return err
		}
	case model.SetMotionDetectionCommand:
		if err := u.mutateState(ctx, user.ID, func(s *model.PlaybackState) {
			s.MotionDetected = c.Enabled
		}); err != nil {
			return err
		}
	case model.NextCommand, model.PreviousCommand, model.UpdatePreferencesCommand:
		// pass-through: the device owns queue order and preference effects
	}

	return u.publish(ctx, user, cmd)
}

// applyPlay enriches the command from the catalog when the client left
// metadata blank, writes the optimistic state, and appends a history row.
func (u *playbackUsecase) applyPlay(ctx context.Context, user model.User, c model.PlayCommand) (model.PlayCommand, error) {
	if u.catalog != nil && (c.Title == "" || c.Duration == 0 || c.ThumbnailURL == "") {
		details, err := u.catalog.GetVideoDetails(ctx, c.VideoID)
		if err != nil {
			logger.GetLogger().
				WithField("video_id", c.VideoID).
				WithField("error", err).
				Warn("Catalog enrichment failed, using client-supplied fields")
		} else {
			if c.Title == "" {
				c.Title = details.Title
			}
			if c.ThumbnailURL == "" {
				c.ThumbnailURL = details.ThumbnailURL
			}
			if c.Duration == 0 {
				c.Duration = details.Duration
			}
		}
	}

	if err := u.mutateState(ctx, user.ID, func(s *model.PlaybackState) {
		s.VideoID = c.VideoID
		s.Title = c.Title
		s.ThumbnailURL = c.ThumbnailURL
		s.Duration = c.Duration
		s.Position = c.Position
		s.State = model.StatusPlaying
		s.Mode = c.Mode
	}); err != nil {
		return c, err
	}

	if u.historyRepo != nil {
		entry := model.PlaybackHistoryEntry{
			UserID:   user.ID,
			VideoID:  c.VideoID,
			Title:    c.Title,
			PlayedAt: utils.GetCurrentTime(),
		}
		if err := u.historyRepo.Append(ctx, entry); err != nil {
			logger.GetLogger().
				WithField("user_id", user.ID).
				WithField("error", err).
				Warn("Appending playback history failed")
		}
	}
	return c, nil
}

// mutateState serializes a read-modify-write of the user's playback record.
// A missing or unreadable record is replaced with a paused default.
func (u *playbackUsecase) mutateState(ctx context.Context, userID string, apply func(*model.PlaybackState)) error {
	state, err := u.playbackRepo.GetCurrent(ctx, userID)
	if err != nil {
		return err
	}
	if state == nil {
		state = &model.PlaybackState{State: model.StatusPaused, Mode: model.ModeDefault}
	}
	apply(state)
	state.ClampPosition()
	state.UpdatedAt = utils.GetCurrentTime()
	return u.playbackRepo.SaveCurrent(ctx, userID, *state)
}

// publish sends the command message. A failure is surfaced as DispatchError;
// the optimistic state write is deliberately not rolled back.
func (u *playbackUsecase) publish(ctx context.Context, user model.User, cmd model.Command) error {
	payload, err := model.EncodeCommand(cmd)
	if err != nil {
		return err
	}
	channel := user.Channel(model.ChannelCommands)
	if channel == "" {
		channel = model.ChannelName(user.ID, model.ChannelCommands)
	}
	// Bounded so a stalled transport surfaces as DispatchError instead of
	// hanging the request.
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := u.broker.Publish(pubCtx, channel, payload); err != nil {
		logger.GetLogger().
			WithField("user_id", user.ID).
			WithField("action", cmd.Action()).
			WithField("error", err).
			Error("Publishing command failed")
		return &model.DispatchError{Channel: channel, Err: err}
	}
	return nil
}

func (u *playbackUsecase) GetCurrent(ctx context.Context, userID string) (*model.PlaybackState, error) {
	return u.playbackRepo.GetCurrent(ctx, userID)
}

func (u *playbackUsecase) History(ctx context.Context, userID string, limit int) ([]model.PlaybackHistoryEntry, error) {
	if u.historyRepo == nil {
		return []model.PlaybackHistoryEntry{}, nil
	}
	return u.historyRepo.ListRecent(ctx, userID, limit)
}
