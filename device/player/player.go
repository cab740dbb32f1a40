package player

import (
	"context"
	"sync"
	"time"

	"partysense/domain/model"
	"partysense/infrastructure/utils"
)

// Playback states. Idle means no track has been loaded yet; it is reported
// upstream as paused since the cloud record only knows playing/paused.
const (
	StateIdle    = "idle"
	StatePlaying = model.StatusPlaying
	StatePaused  = model.StatusPaused
)

const tickInterval = time.Second

// Player holds the device's local playback state. Exactly one background
// ticking loop mutates position; every public mutator takes the same lock and
// releases it before invoking the update callback.
type Player struct {
	mu             sync.Mutex
	videoID        string
	title          string
	thumbnailURL   string
	duration       int
	position       float64
	state          string
	mode           string
	motionDetected bool
	updatedAt      time.Time

	onUpdate func()
}

func New(onUpdate func()) *Player {
	return &Player{
		state:          StateIdle,
		mode:           model.ModeDefault,
		motionDetected: true,
		updatedAt:      utils.GetCurrentTime(),
		onUpdate:       onUpdate,
	}
}

// LoadTrack resets position to zero for a new track. The track starts paused;
// the executor issues the play transition separately.
func (p *Player) LoadTrack(videoID, title, thumbnailURL string, duration int) {
	p.mu.Lock()
	p.videoID = videoID
	p.title = title
	p.thumbnailURL = thumbnailURL
	p.duration = duration
	p.position = 0
	p.state = StatePaused
	p.updatedAt = utils.GetCurrentTime()
	p.mu.Unlock()
	p.notify()
}

func (p *Player) Play() {
	p.mu.Lock()
	p.state = StatePlaying
	p.updatedAt = utils.GetCurrentTime()
	p.mu.Unlock()
	p.notify()
}

func (p *Player) Pause() {
	p.mu.Lock()
	p.state = StatePaused
	p.updatedAt = utils.GetCurrentTime()
	p.mu.Unlock()
	p.notify()
}

// Seek clamps into [0, duration]; duration 0 means unknown and only the lower
// bound applies.
func (p *Player) Seek(position float64) {
	p.mu.Lock()
	if position < 0 {
		position = 0
	}
	if p.duration > 0 && position > float64(p.duration) {
		position = float64(p.duration)
	}
	p.position = position
	p.updatedAt = utils.GetCurrentTime()
	p.mu.Unlock()
	p.notify()
}

func (p *Player) SetMode(mode string) {
	p.mu.Lock()
	p.mode = mode
	p.updatedAt = utils.GetCurrentTime()
	p.mu.Unlock()
	p.notify()
}

func (p *Player) SetMotionDetected(enabled bool) {
	p.mu.Lock()
	p.motionDetected = enabled
	p.updatedAt = utils.GetCurrentTime()
	p.mu.Unlock()
	p.notify()
}

// Snapshot returns the current state as a status-report song record.
func (p *Player) Snapshot() model.PlaybackState {
	p.mu.Lock()
	defer p.mu.Unlock()
	state := p.state
	if state == StateIdle {
		state = StatePaused
	}
	return model.PlaybackState{
		VideoID:        p.videoID,
		Title:          p.title,
		ThumbnailURL:   p.thumbnailURL,
		Duration:       p.duration,
		Position:       p.position,
		State:          state,
		Mode:           p.mode,
		MotionDetected: p.motionDetected,
		UpdatedAt:      p.updatedAt,
	}
}

// Run drives the position until ctx is cancelled.
func (p *Player) Run(ctx context.Context) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

// tick advances position by one second while playing. Reaching the end of a
// known duration forces the autonomous pause transition.
func (p *Player) tick() {
	p.mu.Lock()
	if p.state != StatePlaying {
		p.mu.Unlock()
		return
	}
	p.position++
	completed := p.duration > 0 && p.position >= float64(p.duration)
	if completed {
		p.position = float64(p.duration)
		p.state = StatePaused
	}
	p.updatedAt = utils.GetCurrentTime()
	p.mu.Unlock()

	if completed {
		p.notify()
	}
}

func (p *Player) notify() {
	if p.onUpdate != nil {
		p.onUpdate()
	}
}
