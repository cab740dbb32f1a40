package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Action discriminates the command union on the wire.
type Action string

const (
	ActionPlay               Action = "play"
	ActionPause              Action = "pause"
	ActionResume             Action = "resume"
	ActionNext               Action = "next"
	ActionPrevious           Action = "previous"
	ActionSeek               Action = "seek"
	ActionSetMode            Action = "set_mode"
	ActionSetMotionDetection Action = "set_motion_detection"
	ActionUpdatePreferences  Action = "update_preferences"
)

// Command is one variant of the playback command union. Each variant carries
// only the fields its action needs; decoding rejects unknown actions, unknown
// fields and missing required fields before anything else looks at the
// payload. Commands are idempotent: applying the same command twice yields
// the same state as applying it once.
type Command interface {
	Action() Action
}

type PlayCommand struct {
	VideoID      string
	Title        string
	ThumbnailURL string
	Duration     int
	Position     float64
	Timestamp    int64
	Mode         string
}

type PauseCommand struct {
	Position  *float64
	Timestamp int64
}

type ResumeCommand struct {
	Position  *float64
	Timestamp int64
}

type SeekCommand struct {
	Position  float64
	Timestamp int64
}

type NextCommand struct{}

type PreviousCommand struct{}

type SetModeCommand struct {
	Mode string
}

type SetMotionDetectionCommand struct {
	Enabled bool
}

// UpdatePreferencesCommand pushes the full preference set to the device.
type UpdatePreferencesCommand struct {
	Preferences Preferences
}

func (PlayCommand) Action() Action               { return ActionPlay }
func (PauseCommand) Action() Action              { return ActionPause }
func (ResumeCommand) Action() Action             { return ActionResume }
func (SeekCommand) Action() Action               { return ActionSeek }
func (NextCommand) Action() Action               { return ActionNext }
func (PreviousCommand) Action() Action           { return ActionPrevious }
func (SetModeCommand) Action() Action            { return ActionSetMode }
func (SetMotionDetectionCommand) Action() Action { return ActionSetMotionDetection }
func (UpdatePreferencesCommand) Action() Action  { return ActionUpdatePreferences }

// commandEnvelope is the superset wire shape shared by all actions.
type commandEnvelope struct {
	Action       Action       `json:"action"`
	VideoID      *string      `json:"video_id,omitempty"`
	Title        *string      `json:"title,omitempty"`
	ThumbnailURL *string      `json:"thumbnail_url,omitempty"`
	Duration     *int         `json:"duration,omitempty"`
	Position     *float64     `json:"position,omitempty"`
	Timestamp    *int64       `json:"timestamp,omitempty"`
	Mode         *string      `json:"mode,omitempty"`
	Enabled      *bool        `json:"enabled,omitempty"`
	Preferences  *Preferences `json:"preferences,omitempty"`
}

func validMode(mode string) bool {
	switch mode {
	case ModeDefault, ModeParty, ModeChill:
		return true
	}
	return false
}

// DecodeCommand parses a command message into its typed variant.
func DecodeCommand(data []byte) (Command, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var env commandEnvelope
	if err := dec.Decode(&env); err != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("malformed command: %v", err)}
	}

	var ts int64
	if env.Timestamp != nil {
		ts = *env.Timestamp
	}

	switch env.Action {
	case ActionPlay:
		if env.VideoID == nil || *env.VideoID == "" {
			return nil, &ValidationError{Field: "video_id", Reason: "is required for play"}
		}
		cmd := PlayCommand{VideoID: *env.VideoID, Timestamp: ts, Mode: ModeDefault}
		if env.Title != nil {
			cmd.Title = *env.Title
		}
		if env.ThumbnailURL != nil {
			cmd.ThumbnailURL = *env.ThumbnailURL
		}
		if env.Duration != nil {
			cmd.Duration = *env.Duration
		}
		if env.Position != nil {
			cmd.Position = *env.Position
		}
		if env.Mode != nil {
			cmd.Mode = *env.Mode
		}
		return cmd, nil
	case ActionPause:
		return PauseCommand{Position: env.Position, Timestamp: ts}, nil
	case ActionResume:
		return ResumeCommand{Position: env.Position, Timestamp: ts}, nil
	case ActionSeek:
		if env.Position == nil {
			return nil, &ValidationError{Field: "position", Reason: "is required for seek"}
		}
		return SeekCommand{Position: *env.Position, Timestamp: ts}, nil
	case ActionNext:
		return NextCommand{}, nil
	case ActionPrevious:
		return PreviousCommand{}, nil
	case ActionSetMode:
		if env.Mode == nil {
			return nil, &ValidationError{Field: "mode", Reason: "is required for set_mode"}
		}
		if !validMode(*env.Mode) {
			return nil, &ValidationError{Field: "mode", Reason: fmt.Sprintf("unsupported value %q", *env.Mode)}
		}
		return SetModeCommand{Mode: *env.Mode}, nil
	case ActionSetMotionDetection:
		if env.Enabled == nil {
			return nil, &ValidationError{Field: "enabled", Reason: "is required for set_motion_detection"}
		}
		return SetMotionDetectionCommand{Enabled: *env.Enabled}, nil
	case ActionUpdatePreferences:
		if env.Preferences == nil {
			return nil, &ValidationError{Field: "preferences", Reason: "is required for update_preferences"}
		}
		return UpdatePreferencesCommand{Preferences: *env.Preferences}, nil
	case "":
		return nil, &ValidationError{Field: "action", Reason: "is required"}
	default:
		return nil, &ValidationError{Field: "action", Reason: fmt.Sprintf("unsupported value %q", env.Action)}
	}
}

// EncodeCommand serializes a command variant onto the wire, emitting only the
// fields relevant to its action.
func EncodeCommand(cmd Command) ([]byte, error) {
	env := commandEnvelope{Action: cmd.Action()}
	switch c := cmd.(type) {
	case PlayCommand:
		env.VideoID = &c.VideoID
		env.Title = &c.Title
		env.ThumbnailURL = &c.ThumbnailURL
		env.Duration = &c.Duration
		env.Position = &c.Position
		env.Timestamp = &c.Timestamp
		env.Mode = &c.Mode
	case PauseCommand:
		env.Position = c.Position
		env.Timestamp = &c.Timestamp
	case ResumeCommand:
		env.Position = c.Position
		env.Timestamp = &c.Timestamp
	case SeekCommand:
		env.Position = &c.Position
		env.Timestamp = &c.Timestamp
	case NextCommand, PreviousCommand:
		// action only
	case SetModeCommand:
		env.Mode = &c.Mode
	case SetMotionDetectionCommand:
		env.Enabled = &c.Enabled
	case UpdatePreferencesCommand:
		env.Preferences = &c.Preferences
	default:
		return nil, fmt.Errorf("unknown command type %T", cmd)
	}
	return json.Marshal(env)
}
