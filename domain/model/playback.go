package model

import "time"

// Playback status values reported by the device and stored in the cloud record.
const (
	StatusPlaying = "playing"
	StatusPaused  = "paused"
)

// Modes accepted by set_mode. The device maps these onto the LED ring.
const (
	ModeDefault = "default"
	ModeParty   = "party"
	ModeChill   = "chill"
)

// PlaybackState is the cloud's current belief about what the device is doing.
// One record per user. The dispatcher writes it optimistically before
// publishing a command; the reconciler overwrites it from validated device
// reports. UpdatedAt is strictly non-decreasing across accepted writes.
type PlaybackState struct {
	VideoID        string    `json:"video_id"        bson:"video_id"`
	Title          string    `json:"title"           bson:"title"`
	ThumbnailURL   string    `json:"thumbnail_url"   bson:"thumbnail_url"`
	Duration       int       `json:"duration"        bson:"duration"`
	Position       float64   `json:"position"        bson:"position"`
	State          string    `json:"state"           bson:"state"`
	Mode           string    `json:"mode"            bson:"mode"`
	MotionDetected bool      `json:"motion_detected" bson:"motion_detected"`
	UpdatedAt      time.Time `json:"updated_at"      bson:"updated_at"`
}

// ClampPosition forces 0 <= position <= duration. Duration 0 means unknown,
// in which case only the lower bound applies.
func (s *PlaybackState) ClampPosition() {
	if s.Position < 0 {
		s.Position = 0
	}
	if s.Duration > 0 && s.Position > float64(s.Duration) {
		s.Position = float64(s.Duration)
	}
}

// SameSong compares the fields the reconciler treats as meaningful change.
// Duration, thumbnail and UpdatedAt are excluded: a report that differs only
// in those is not a change worth persisting or broadcasting.
func (s *PlaybackState) SameSong(o *PlaybackState) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.VideoID == o.VideoID &&
		s.Title == o.Title &&
		s.State == o.State &&
		s.Position == o.Position &&
		s.Mode == o.Mode &&
		s.MotionDetected == o.MotionDetected
}

// StatusReport is the transient message a device publishes on its status
// channel. It is consumed once by the reconciler and then discarded.
type StatusReport struct {
	UserID      string         `json:"user_id"`
	CurrentSong *PlaybackState `json:"current_song"`
}

// PlaybackHistoryEntry is an append-only audit row recorded whenever a play
// command is dispatched.
type PlaybackHistoryEntry struct {
	ID       int64     `json:"id"`
	UserID   string    `json:"user_id"`
	VideoID  string    `json:"video_id"`
	Title    string    `json:"title"`
	PlayedAt time.Time `json:"played_at"`
}
