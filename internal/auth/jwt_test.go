package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokensRoundTrip(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", "studyspots", "studyspots")

	access, refresh, err := a.GenerateTokens("user-1")
	require.NoError(t, err)

	tok, err := a.ValidateAccessToken(access)
	require.NoError(t, err)
	sub, err := Subject(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	tok, err = a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	sub, err = Subject(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)

	// each token only validates against its own secret
	_, err = a.ValidateAccessToken(refresh)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	a := NewJWTAuthenticator("s", "r", "aud", "iss")
	a.now = func() time.Time { return time.Now().Add(-100 * time.Hour) }

	access, _, err := a.GenerateTokens("user-1")
	require.NoError(t, err)

	a.now = time.Now
	_, err = a.ValidateAccessToken(access)
	assert.Error(t, err)
}
