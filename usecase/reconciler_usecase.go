package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"partysense/domain/model"
	"partysense/domain/repository"
	"partysense/infrastructure/logger"
	"partysense/infrastructure/messaging"
	"partysense/infrastructure/utils"
)

// IngestOutcome is the reconciler's verdict on one status report.
type IngestOutcome string

const (
	IngestApplied       IngestOutcome = "applied"
	IngestStalePosition IngestOutcome = "stale_position"
	IngestNoChange      IngestOutcome = "no_change"
	IngestRateLimited   IngestOutcome = "rate_limited"
	IngestRejected      IngestOutcome = "rejected"
)

// debounceInterval is the minimum gap between accepted updates per user.
const debounceInterval = time.Second

// IBroadcaster fans a reconciled state out to live viewers.
type IBroadcaster interface {
	BroadcastPlayback(userID string, state *model.PlaybackState)
}

// IReconcilerUsecase consumes device status reports and decides which ones
// overwrite the authoritative playback record.
type IReconcilerUsecase interface {
	Ingest(ctx context.Context, report model.StatusReport) (IngestOutcome, error)
	// Run subscribes to every provisioned user's status channel until ctx is
	// cancelled, feeding decoded reports into Ingest.
	Run(ctx context.Context) error
}

type acceptedEntry struct {
	state      *model.PlaybackState
	acceptedAt time.Time
}

type reconcilerUsecase struct {
	playbackRepo repository.IPlayback
	userRepo     repository.IUser
	broker       messaging.IBroker
	broadcaster  IBroadcaster
	locks        *StateLocks // shared with the dispatcher

	mu       sync.Mutex
	accepted map[string]acceptedEntry

	now func() time.Time
}

func NewReconcilerUsecase(playbackRepo repository.IPlayback, userRepo repository.IUser, broker messaging.IBroker, broadcaster IBroadcaster, locks *StateLocks) IReconcilerUsecase {
	if locks == nil {
		locks = NewStateLocks()
	}
	return &reconcilerUsecase{
		playbackRepo: playbackRepo,
		userRepo:     userRepo,
		broker:       broker,
		broadcaster:  broadcaster,
		locks:        locks,
		accepted:     make(map[string]acceptedEntry),
		now:          utils.GetCurrentTime,
	}
}

// Ingest evaluates the report strictly in order: shape, monotonic position,
// change detection, debounce, apply. The stale-position guard runs before
// change detection so a late duplicate is never misread as a forward change;
// debounce runs last so it only throttles genuinely-changed updates.
func (r *reconcilerUsecase) Ingest(ctx context.Context, report model.StatusReport) (IngestOutcome, error) {
	if report.UserID == "" {
		return IngestRejected, &model.ValidationError{Field: "user_id", Reason: "is required"}
	}
	if report.CurrentSong == nil {
		return IngestRejected, &model.ValidationError{Field: "current_song", Reason: "is required"}
	}

	// Same lock as the dispatcher: the guard-read and the save must not
	// interleave with a concurrent command's read-modify-write.
	lock := r.locks.For(report.UserID)
	lock.Lock()
	defer lock.Unlock()

	persisted, err := r.playbackRepo.GetCurrent(ctx, report.UserID)
	if err != nil {
		return IngestRejected, err
	}
	incoming := *report.CurrentSong
	if persisted != nil && persisted.VideoID == incoming.VideoID && incoming.Position < persisted.Position {
		return IngestStalePosition, nil
	}

	r.mu.Lock()
	last, cached := r.accepted[report.UserID]
	r.mu.Unlock()

	// A cold cache accepts the first report unconditionally.
	if cached && last.state.SameSong(&incoming) {
		return IngestNoChange, nil
	}
	now := r.now()
	if cached && now.Sub(last.acceptedAt) < debounceInterval {
		return IngestRateLimited, nil
	}

	incoming.ClampPosition()
	incoming.UpdatedAt = now
	if err := r.playbackRepo.SaveCurrent(ctx, report.UserID, incoming); err != nil {
		return IngestRejected, err
	}

	r.mu.Lock()
	r.accepted[report.UserID] = acceptedEntry{state: &incoming, acceptedAt: now}
	r.mu.Unlock()

	if r.broadcaster != nil {
		r.broadcaster.BroadcastPlayback(report.UserID, &incoming)
	}
	return IngestApplied, nil
}

// Run keeps one subscription per user alive, re-listing users every minute to
// pick up freshly provisioned accounts. Subscriptions restart with backoff.
func (r *reconcilerUsecase) Run(ctx context.Context) error {
	active := make(map[string]struct{})
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		users, err := r.userRepo.List(ctx)
		if err != nil {
			logger.GetLogger().WithField("error", err).Error("Listing users for status subscriptions failed")
		}
		for _, user := range users {
			if _, ok := active[user.ID]; ok {
				continue
			}
			active[user.ID] = struct{}{}
			go r.consumeStatus(ctx, user)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (r *reconcilerUsecase) consumeStatus(ctx context.Context, user model.User) {
	channel := user.Channel(model.ChannelStatus)
	if channel == "" {
		channel = model.ChannelName(user.ID, model.ChannelStatus)
	}
	lg := logger.GetLogger().WithField("user_id", user.ID).WithField("channel", channel)

	backoff := time.Second
	for {
		err := r.broker.Subscribe(ctx, channel, "reconciler", func(ctx context.Context, payload []byte) {
			var report model.StatusReport
			if err := json.Unmarshal(payload, &report); err != nil {
				lg.WithField("error", err).Warn("Dropping undecodable status report")
				return
			}
			if report.UserID == "" {
				report.UserID = user.ID
			}
			outcome, err := r.Ingest(ctx, report)
			if err != nil {
				lg.WithField("error", err).WithField("outcome", outcome).Warn("Status report rejected")
			}
		})
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			lg.WithField("error", err).Error("Status subscription failed, retrying")
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}
