package status

import (
	"context"
	"encoding/json"
	"time"

	"partysense/device/player"
	"partysense/domain/model"
	"partysense/infrastructure/logger"
	"partysense/infrastructure/messaging"
)

// cadence bounds the cloud's staleness window even when an edge-triggered
// emission is lost in transit.
const cadence = 2 * time.Second

// Publisher emits StatusReports on every player change and on a fixed ticker.
type Publisher struct {
	broker  messaging.IBroker
	channel string
	userID  string
	player  *player.Player
}

func NewPublisher(broker messaging.IBroker, channel, userID string, p *player.Player) *Publisher {
	return &Publisher{broker: broker, channel: channel, userID: userID, player: p}
}

// OnChange is wired as the player's update callback.
func (p *Publisher) OnChange() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p.publish(ctx)
}

// Run emits on the fixed cadence until ctx is cancelled, then flushes one
// final report best-effort.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(cadence)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			p.publish(flushCtx)
			cancel()
			return ctx.Err()
		case <-ticker.C:
			p.publish(ctx)
		}
	}
}

func (p *Publisher) publish(ctx context.Context) {
	song := p.player.Snapshot()
	report := model.StatusReport{UserID: p.userID, CurrentSong: &song}
	payload, err := json.Marshal(report)
	if err != nil {
		return
	}
	if err := p.broker.Publish(ctx, p.channel, payload); err != nil {
		logger.GetLogger().
			WithField("channel", p.channel).
			WithField("error", err).
			Warn("Publishing status report failed")
	}
}
