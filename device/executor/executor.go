package executor

import (
	"context"
	"sync"
	"time"

	"partysense/device/player"
	"partysense/device/sensors"
	"partysense/domain/model"
	"partysense/infrastructure/logger"
	"partysense/infrastructure/messaging"
)

// Executor applies inbound command messages to the local player and the LED
// ring. Undecodable payloads and unknown actions are logged and skipped; the
// command stream must keep flowing regardless of one bad message.
type Executor struct {
	player *player.Player
	led    sensors.LEDRing

	mu            sync.Mutex
	motionEnabled bool

	retryBackoff time.Duration
}

func New(p *player.Player, led sensors.LEDRing) *Executor {
	return &Executor{
		player:        p,
		led:           led,
		motionEnabled: true,
		retryBackoff:  time.Second,
	}
}

// MotionEnabled reports whether motion detection is currently switched on.
// Sensor events must be ignored while it is off.
func (e *Executor) MotionEnabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.motionEnabled
}

func (e *Executor) setMotionEnabled(enabled bool) {
	e.mu.Lock()
	e.motionEnabled = enabled
	e.mu.Unlock()
	if !enabled {
		// Disabling also clears any currently reported motion.
		e.player.SetMotionDetected(false)
		e.led.TurnOff()
	}
}

// Run keeps the commands subscription alive until ctx is cancelled,
// restarting with backoff on transport failure. The process must outlive any
// broker outage.
func (e *Executor) Run(ctx context.Context, broker messaging.IBroker, channel string) error {
	lg := logger.GetLogger().WithField("channel", channel)
	backoff := e.retryBackoff
	for {
		err := broker.Subscribe(ctx, channel, "device", e.Handle)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			lg.WithField("error", err).Error("Command subscription failed, retrying")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

// Handle consumes one message from the commands channel.
func (e *Executor) Handle(ctx context.Context, payload []byte) {
	cmd, err := model.DecodeCommand(payload)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Skipping undecodable command")
		return
	}

	lg := logger.GetLogger().WithField("action", cmd.Action())
	switch c := cmd.(type) {
	case model.PlayCommand:
		e.player.LoadTrack(c.VideoID, c.Title, c.ThumbnailURL, c.Duration)
		if c.Position > 0 {
			e.player.Seek(c.Position)
		}
		e.player.Play()
		if c.Mode != "" {
			e.player.SetMode(c.Mode)
			e.led.SetMode(c.Mode)
		}
		lg.WithField("video_id", c.VideoID).Info("Playing track")
	case model.PauseCommand:
		if c.Position != nil {
			e.player.Seek(*c.Position)
		}
		e.player.Pause()
	case model.ResumeCommand:
		if c.Position != nil {
			e.player.Seek(*c.Position)
		}
		e.player.Play()
	case model.SeekCommand:
		e.player.Seek(c.Position)
	case model.SetModeCommand:
		e.player.SetMode(c.Mode)
		e.led.SetMode(c.Mode)
	case model.SetMotionDetectionCommand:
		e.setMotionEnabled(c.Enabled)
	case model.UpdatePreferencesCommand:
		e.player.SetMode(c.Preferences.LEDMode)
		e.led.SetMode(c.Preferences.LEDMode)
		e.setMotionEnabled(c.Preferences.MotionDetection)
	case model.NextCommand, model.PreviousCommand:
		// no playlist on the device yet
		lg.Info("Acknowledged without effect")
	default:
		lg.Warn("Unknown command type")
	}
}
