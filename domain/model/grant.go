package model

import (
	"fmt"
	"time"
)

// ChannelKind distinguishes the two logical channels every user owns.
type ChannelKind string

const (
	ChannelCommands ChannelKind = "commands"
	ChannelStatus   ChannelKind = "status"
)

// ChannelName returns the pub/sub topic name for a user and channel kind.
func ChannelName(userID string, kind ChannelKind) string {
	return fmt.Sprintf("user_%s_%s", userID, kind)
}

// ChannelGrant is a time-limited read/write credential for one channel.
// Grants are replaced, never mutated: an expired grant is overwritten by a
// fresh one issued for the same channel.
type ChannelGrant struct {
	ChannelName string    `json:"channel_name" bson:"channel_name"`
	Token       string    `json:"token"        bson:"token"`
	IssuedAt    time.Time `json:"issued_at"    bson:"issued_at"`
	ExpiresAt   time.Time `json:"expires_at"   bson:"expires_at"`
}

// Valid reports whether the grant is usable at the given instant. Stored
// expiry timestamps are normalized to UTC before comparison; a timestamp
// without an offset is taken as UTC, never local time.
func (g *ChannelGrant) Valid(now time.Time) bool {
	if g == nil || g.Token == "" {
		return false
	}
	return now.UTC().Before(g.ExpiresAt.UTC())
}
