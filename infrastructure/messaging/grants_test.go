package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGrantSigner_SignAndVerify(t *testing.T) {
	signer := NewGrantSigner("test-secret")

	token, expiresAt, err := signer.Sign([]string{"user_42_commands"}, time.Minute)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(time.Minute), expiresAt, 2*time.Second)

	channels, err := signer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, []string{"user_42_commands"}, channels)
}

func TestGrantSigner_VerifyWrongSecret(t *testing.T) {
	token, _, err := NewGrantSigner("secret-a").Sign([]string{"user_1_status"}, time.Minute)
	require.NoError(t, err)

	_, err = NewGrantSigner("secret-b").Verify(token)
	assert.Error(t, err)
}

func TestGrantSigner_VerifyExpired(t *testing.T) {
	token, _, err := NewGrantSigner("secret").Sign([]string{"user_1_status"}, -time.Minute)
	require.NoError(t, err)

	_, err = NewGrantSigner("secret").Verify(token)
	assert.Error(t, err)
}

func TestGrantSigner_NoChannels(t *testing.T) {
	_, _, err := NewGrantSigner("secret").Sign(nil, time.Minute)
	assert.Error(t, err)
}
