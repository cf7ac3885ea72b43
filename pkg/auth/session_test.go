package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavindu-dev/furnicraft-backend/pkg/config"
)

var sessionCfg = config.SessionConfig{Secret: "unit-test-secret", TTLMinutes: 60}

func TestSessionTokenRoundTrip(t *testing.T) {
	now := time.Now()

	token, err := MintSessionToken(sessionCfg, now, "admin")
	require.NoError(t, err)

	claims, err := ParseSessionToken(sessionCfg, token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.WithinDuration(t, now.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := MintSessionToken(sessionCfg, time.Now(), "admin")
	require.NoError(t, err)

	_, err = ParseSessionToken(config.SessionConfig{Secret: "other-secret", TTLMinutes: 60}, token)
	assert.Error(t, err)
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	token, err := MintSessionToken(sessionCfg, issued, "admin")
	require.NoError(t, err)

	_, err = ParseSessionToken(sessionCfg, token)
	assert.Error(t, err)
}

func TestParseSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ParseSessionToken(sessionCfg, "not-a-token")
	assert.Error(t, err)
}

func TestMintSessionTokenRequiresIdentity(t *testing.T) {
	_, err := MintSessionToken(sessionCfg, time.Now(), "   ")
	assert.Error(t, err)

	_, err = MintSessionToken(config.SessionConfig{TTLMinutes: 60}, time.Now(), "admin")
	assert.Error(t, err)
}
