package messaging

import (
	"context"
	"time"
)

// Handler consumes one inbound message from a channel subscription.
type Handler func(ctx context.Context, payload []byte)

// IBroker is the pub/sub transport behind the per-user command and status
// channels. Delivery is at most once per send; callers rely on idempotent
// commands instead of transport guarantees.
type IBroker interface {
	// Publish sends one message to the named channel. It is bounded by a
	// timeout and never blocks indefinitely.
	Publish(ctx context.Context, channel string, payload []byte) error
	// Subscribe consumes the named channel under the given group until ctx is
	// cancelled. Handlers run sequentially per subscription.
	Subscribe(ctx context.Context, channel, group string, handler Handler) error
	// GrantToken issues a time-limited read/write credential for the channels.
	GrantToken(ctx context.Context, channels []string, ttl time.Duration) (string, time.Time, error)
}

const publishTimeout = 5 * time.Second
