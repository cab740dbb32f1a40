package usecase

import (
	"context"
	"sync"
	"time"

	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/logger"
	"partysense/infrastructure/messaging"
)

// ITokenManager issues and renews the per-channel access grants devices and
// web clients present to the message broker.
type ITokenManager interface {
	Grant(ctx context.Context, channels []string, ttl time.Duration) (model.ChannelGrant, error)
	IsExpired(grant *model.ChannelGrant) bool
	// EnsureFresh renews whichever of the user's two channel grants has
	// expired, persisting replacements, and returns the user with current
	// grants attached.
	EnsureFresh(ctx context.Context, user model.User) (model.User, error)
}

type tokenManager struct {
	broker   messaging.IBroker
	userRepo repository.IUser
	ttl      time.Duration

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTokenManager(broker messaging.IBroker, userRepo repository.IUser, ttl time.Duration) ITokenManager {
	if ttl <= 0 {
		ttl = 60 * time.Second
	}
	return &tokenManager{
		broker:   broker,
		userRepo: userRepo,
		ttl:      ttl,
		locks:    make(map[string]*sync.Mutex),
	}
}

func (t *tokenManager) Grant(ctx context.Context, channels []string, ttl time.Duration) (model.ChannelGrant, error) {
	if ttl <= 0 {
		ttl = t.ttl
	}
	token, expiresAt, err := t.broker.GrantToken(ctx, channels, ttl)
	if err != nil {
		return model.ChannelGrant{}, &model.TokenIssuanceError{Channel: channelList(channels), Err: err}
	}
	now := time.Now().UTC()
	grant := model.ChannelGrant{
		Token:     token,
		IssuedAt:  now,
		ExpiresAt: expiresAt,
	}
	if len(channels) == 1 {
		grant.ChannelName = channels[0]
	}
	return grant, nil
}

// IsExpired treats a grant as expired from the exact expiry instant onward.
// Stored timestamps without a zone are interpreted as UTC.
func (t *tokenManager) IsExpired(grant *model.ChannelGrant) bool {
	return !grant.Valid(time.Now())
}

func (t *tokenManager) EnsureFresh(ctx context.Context, user model.User) (model.User, error) {
	lock := t.userLock(user.ID)
	lock.Lock()
	defer lock.Unlock()

	for _, kind := range []model.ChannelKind{model.ChannelCommands, model.ChannelStatus} {
		if !t.IsExpired(user.Grant(kind)) {
			continue
		}
		channel := user.Channel(kind)
		grant, err := t.Grant(ctx, []string{channel}, t.ttl)
		if err != nil {
			return user, err
		}
		grant.ChannelName = channel
		if err := t.userRepo.UpdateChannelGrant(ctx, user.ID, kind, grant); err != nil {
			return user, &model.TokenIssuanceError{Channel: channel, Err: err}
		}
		logger.GetLogger().
			WithField("user_id", user.ID).
			WithField("channel", channel).
			Info("Renewed channel grant")
		user.SetGrant(kind, grant)
	}
	return user, nil
}

func (t *tokenManager) userLock(userID string) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[userID] = lock
	}
	return lock
}

func channelList(channels []string) string {
	if len(channels) == 0 {
		return ""
	}
	out := channels[0]
	for _, c := range channels[1:] {
		out += "," + c
	}
	return out
}
