package jwt

import (
	"testing"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	return NewJWTService("test-secret", "1h", "168h")
}

func TestGenerateRefreshToken_BackToBackTokensDiffer(t *testing.T) {
	svc := newTestService(t)

	// Two tokens minted within the same second must still be distinct, or
	// revoking the old one after a rotation would revoke the new one too.
	first, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)
	second, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerateRefreshToken_CarriesRefreshClaims(t *testing.T) {
	svc := newTestService(t)

	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	parsed, err := jwtauth.VerifyToken(svc.JWTAuth(), token)
	require.NoError(t, err)

	claims := parsed.PrivateClaims()
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, "refresh", claims["type"])
	assert.NotEmpty(t, parsed.JwtID())
}

func TestRevokeToken(t *testing.T) {
	svc := newTestService(t)

	token, _, err := svc.GenerateRefreshToken("user-1")
	require.NoError(t, err)

	assert.False(t, svc.IsTokenRevoked(token))
	svc.RevokeToken(token)
	assert.True(t, svc.IsTokenRevoked(token))
}
