package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partysense/domain/model"
)

func TestHub_BroadcastReachesOnlyOwnSubscribers(t *testing.T) {
	h := NewPlaybackHub()

	ch1 := make(chan PlaybackEvent, 8)
	ch2 := make(chan PlaybackEvent, 8)
	other := make(chan PlaybackEvent, 8)
	h.addSubscriber("user1", ch1)
	h.addSubscriber("user1", ch2)
	h.addSubscriber("user2", other)

	h.BroadcastPlayback("user1", &model.PlaybackState{VideoID: "vid1", State: model.StatusPlaying})

	for _, ch := range []chan PlaybackEvent{ch1, ch2} {
		select {
		case evt := <-ch:
			assert.Equal(t, "playback", evt.Type)
			require.NotNil(t, evt.CurrentSong)
			assert.Equal(t, "vid1", evt.CurrentSong.VideoID)
		default:
			t.Fatal("subscriber did not receive the broadcast")
		}
	}
	select {
	case <-other:
		t.Fatal("broadcast leaked to another user's subscriber")
	default:
	}
}

func TestHub_SlowSubscriberDoesNotBlockBroadcast(t *testing.T) {
	h := NewPlaybackHub()

	full := make(chan PlaybackEvent) // unbuffered, nobody reading
	h.addSubscriber("user1", full)

	done := make(chan struct{})
	go func() {
		h.BroadcastPlayback("user1", &model.PlaybackState{VideoID: "vid1"})
		close(done)
	}()
	select {
	case <-done:
	case <-full:
		t.Fatal("event should have been dropped, not delivered")
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow subscriber")
	}
}

func TestHub_RemoveSubscriberClosesChannel(t *testing.T) {
	h := NewPlaybackHub()

	ch := make(chan PlaybackEvent, 1)
	h.addSubscriber("user1", ch)
	h.removeSubscriber("user1", ch)

	_, open := <-ch
	assert.False(t, open)

	// broadcasting to a user with no subscribers is a no-op
	h.BroadcastPlayback("user1", &model.PlaybackState{VideoID: "vid1"})
}
