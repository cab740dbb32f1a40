package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partysense/domain/model"
)

func TestDecodeCommand_Play(t *testing.T) {
	cmd, err := model.DecodeCommand([]byte(`{"action":"play","video_id":"vid1","title":"Song","duration":180,"position":12.5,"timestamp":1717200000,"mode":"party"}`))
	require.NoError(t, err)

	play, ok := cmd.(model.PlayCommand)
	require.True(t, ok)
	assert.Equal(t, "vid1", play.VideoID)
	assert.Equal(t, "Song", play.Title)
	assert.Equal(t, 180, play.Duration)
	assert.Equal(t, 12.5, play.Position)
	assert.Equal(t, int64(1717200000), play.Timestamp)
	assert.Equal(t, model.ModeParty, play.Mode)
}

func TestDecodeCommand_RejectionGrid(t *testing.T) {
	cases := []struct {
		name    string
		payload string
	}{
		{"missing action", `{"video_id":"vid1"}`},
		{"unknown action", `{"action":"warp"}`},
		{"play without video_id", `{"action":"play","duration":180}`},
		{"play with empty video_id", `{"action":"play","video_id":""}`},
		{"seek without position", `{"action":"seek"}`},
		{"set_mode without mode", `{"action":"set_mode"}`},
		{"set_mode with unsupported mode", `{"action":"set_mode","mode":"disco"}`},
		{"set_motion_detection without enabled", `{"action":"set_motion_detection"}`},
		{"update_preferences without preferences", `{"action":"update_preferences"}`},
		{"unknown field", `{"action":"pause","volume":0.5}`},
		{"not json", `not json`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := model.DecodeCommand([]byte(tc.payload))
			var validationErr *model.ValidationError
			require.ErrorAs(t, err, &validationErr)
		})
	}
}

func TestDecodeCommand_OptionalPositions(t *testing.T) {
	cmd, err := model.DecodeCommand([]byte(`{"action":"pause"}`))
	require.NoError(t, err)
	pause := cmd.(model.PauseCommand)
	assert.Nil(t, pause.Position)

	cmd, err = model.DecodeCommand([]byte(`{"action":"resume","position":33.0}`))
	require.NoError(t, err)
	resume := cmd.(model.ResumeCommand)
	require.NotNil(t, resume.Position)
	assert.Equal(t, 33.0, *resume.Position)
}

func TestEncodeCommand_EmitsOnlyRelevantFields(t *testing.T) {
	payload, err := model.EncodeCommand(model.SeekCommand{Position: 42, Timestamp: 7})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(payload, &fields))
	assert.Equal(t, "seek", fields["action"])
	assert.Contains(t, fields, "position")
	assert.Contains(t, fields, "timestamp")
	assert.NotContains(t, fields, "video_id")
	assert.NotContains(t, fields, "mode")
	assert.NotContains(t, fields, "enabled")
}

func TestEncodeCommand_NextIsActionOnly(t *testing.T) {
	payload, err := model.EncodeCommand(model.NextCommand{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"next"}`, string(payload))
}

func TestCommandRoundTrip(t *testing.T) {
	original := model.SetModeCommand{Mode: model.ModeChill}
	payload, err := model.EncodeCommand(original)
	require.NoError(t, err)

	decoded, err := model.DecodeCommand(payload)
	require.NoError(t, err)
	assert.Equal(t, original, decoded)
}
