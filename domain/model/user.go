package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// User is the account record. Channel names and grants are exclusively owned
// by the user document; the token manager is the only writer of the grants.
type User struct {
	ID                  string        `json:"id"                    bson:"_id"`
	Name                string        `json:"name"                  bson:"name"`
	UserName            string        `json:"user_name"             bson:"user_name"`
	Email               string        `json:"email"                 bson:"email"`
	Password            string        `json:"-"                     bson:"password"`
	ChannelNameCommands string        `json:"channel_name_commands" bson:"channel_name_commands"`
	ChannelNameStatus   string        `json:"channel_name_status"   bson:"channel_name_status"`
	GrantCommands       *ChannelGrant `json:"-"                     bson:"grant_commands,omitempty"`
	GrantStatus         *ChannelGrant `json:"-"                     bson:"grant_status,omitempty"`
	Preferences         Preferences   `json:"preferences"           bson:"preferences"`
	CreatedAt           time.Time     `json:"created_at"            bson:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"            bson:"updated_at"`
}

// Grant returns the stored grant for the given channel kind (nil when absent).
func (u *User) Grant(kind ChannelKind) *ChannelGrant {
	if kind == ChannelStatus {
		return u.GrantStatus
	}
	return u.GrantCommands
}

// SetGrant replaces the stored grant for the given channel kind.
func (u *User) SetGrant(kind ChannelKind, grant ChannelGrant) {
	if kind == ChannelStatus {
		u.GrantStatus = &grant
		return
	}
	u.GrantCommands = &grant
}

// Channel returns the user's channel name for the given kind.
func (u *User) Channel(kind ChannelKind) string {
	if kind == ChannelStatus {
		return u.ChannelNameStatus
	}
	return u.ChannelNameCommands
}

// Preferences are the device-facing user settings.
type Preferences struct {
	Volume          float64 `json:"volume"           bson:"volume"`
	LEDMode         string  `json:"led_mode"         bson:"led_mode"`
	MotionDetection bool    `json:"motion_detection" bson:"motion_detection"`
}

// DefaultPreferences returns the settings a freshly provisioned user gets.
func DefaultPreferences() Preferences {
	return Preferences{Volume: 0.5, LEDMode: ModeDefault, MotionDetection: true}
}

type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}

type ReqLogin struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password"  binding:"required"`
}

type ReqRegister struct {
	Name     string `json:"name"      binding:"required"`
	UserName string `json:"user_name" binding:"required"`
	Email    string `json:"email"     binding:"required"`
	Password string `json:"password"  binding:"required"`
}
