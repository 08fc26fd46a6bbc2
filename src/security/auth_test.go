package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/misehero/HeroWizzard-version2/src/config"
)

func init() {
	config.Cfg = &config.AppConfig{
		AccessTokenExpiry:  time.Minute,
		RefreshTokenExpiry: time.Hour,
	}
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	svc := NewAuthService("test-secret-at-least-32-characters!!")

	token, err := svc.GenerateToken("42")
	require.NoError(t, err)

	userID, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "42", userID)
}

func TestAuthServiceScopeSeparation(t *testing.T) {
	svc := NewAuthService("test-secret-at-least-32-characters!!")

	access, err := svc.GenerateToken("42")
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken("42")
	require.NoError(t, err)

	// A refresh token must never authenticate an API call, and vice versa.
	_, err = svc.ValidateToken(refresh)
	assert.ErrorIs(t, err, ErrWrongScope)
	_, err = svc.ValidateRefreshToken(access)
	assert.ErrorIs(t, err, ErrWrongScope)

	userID, err := svc.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "42", userID)
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	svc := NewAuthService("test-secret-at-least-32-characters!!")

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewAuthService("a-completely-different-signing-key!!")
		token, err := other.GenerateToken("42")
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		config.Cfg.AccessTokenExpiry = -time.Minute
		defer func() { config.Cfg.AccessTokenExpiry = time.Minute }()

		token, err := svc.GenerateToken("42")
		require.NoError(t, err)
		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
