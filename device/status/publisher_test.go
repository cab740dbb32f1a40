package status_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partysense/device/player"
	"partysense/device/status"
	"partysense/domain/model"
	"partysense/infrastructure/messaging"
)

type capturingBroker struct {
	mu       sync.Mutex
	channels []string
	payloads [][]byte
}

func (b *capturingBroker) Publish(_ context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.channels = append(b.channels, channel)
	b.payloads = append(b.payloads, payload)
	return nil
}

func (b *capturingBroker) Subscribe(context.Context, string, string, messaging.Handler) error {
	return nil
}

func (b *capturingBroker) GrantToken(context.Context, []string, time.Duration) (string, time.Time, error) {
	return "", time.Time{}, nil
}

func TestPublisher_OnChangeEmitsReport(t *testing.T) {
	broker := &capturingBroker{}
	p := player.New(nil)
	pub := status.NewPublisher(broker, "user_u1_status", "u1", p)

	p.LoadTrack("vid1", "Song", "", 120)
	pub.OnChange()

	require.Len(t, broker.payloads, 1)
	assert.Equal(t, "user_u1_status", broker.channels[0])

	var report model.StatusReport
	require.NoError(t, json.Unmarshal(broker.payloads[0], &report))
	assert.Equal(t, "u1", report.UserID)
	require.NotNil(t, report.CurrentSong)
	assert.Equal(t, "vid1", report.CurrentSong.VideoID)
	assert.Equal(t, model.StatusPaused, report.CurrentSong.State)
}

func TestPublisher_PlayerCallbackWiring(t *testing.T) {
	broker := &capturingBroker{}
	var pub *status.Publisher
	p := player.New(func() { pub.OnChange() })
	pub = status.NewPublisher(broker, "user_u1_status", "u1", p)

	p.LoadTrack("vid1", "Song", "", 120)
	p.Play()
	p.Seek(10)

	broker.mu.Lock()
	count := len(broker.payloads)
	broker.mu.Unlock()
	assert.Equal(t, 3, count)
}

func TestPublisher_RunFlushesFinalReport(t *testing.T) {
	broker := &capturingBroker{}
	p := player.New(nil)
	pub := status.NewPublisher(broker, "user_u1_status", "u1", p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := pub.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	broker.mu.Lock()
	defer broker.mu.Unlock()
	assert.Len(t, broker.payloads, 1)
}
