package executor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partysense/device/player"
	"partysense/infrastructure/messaging"
)

// flakyBroker fails the first subscriptions, then blocks until ctx ends.
type flakyBroker struct {
	failures int32
	attempts int32
}

func (b *flakyBroker) Publish(context.Context, string, []byte) error { return nil }

func (b *flakyBroker) Subscribe(ctx context.Context, channel, group string, handler messaging.Handler) error {
	n := atomic.AddInt32(&b.attempts, 1)
	if n <= atomic.LoadInt32(&b.failures) {
		return errors.New("transport unavailable")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (b *flakyBroker) GrantToken(context.Context, []string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func TestExecutorRun_ResubscribesAfterFailure(t *testing.T) {
	broker := &flakyBroker{failures: 2}
	exec := New(player.New(nil), &nopLED{})
	exec.retryBackoff = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- exec.Run(ctx, broker, "user1-commands") }()

	// Two failed attempts must be followed by a third that sticks.
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&broker.attempts) < 3 {
		select {
		case err := <-done:
			t.Fatalf("run exited instead of retrying: %v", err)
		case <-deadline:
			t.Fatal("subscription was not retried")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	err := <-done
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

type nopLED struct{}

func (nopLED) SetMode(string) {}
func (nopLED) TurnOff()       {}
