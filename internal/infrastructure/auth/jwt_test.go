package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wms/backend/internal/domain/identity"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough-32",
		RefreshSecret:          "test-refresh-secret-key-long-enough-32",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "wms-test",
		MaxRefreshCount:        2,
	}
}

func testUser() *identity.User {
	return &identity.User{ID: 7, Name: "alice", Role: identity.RoleManager}
}

func TestGenerateTokenPair(t *testing.T) {
	svc := auth.NewJWTService(testJWTConfig())

	pair, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, identity.RoleManager, claims.Role)
	assert.Equal(t, identity.Actor{UserID: 7, Role: identity.RoleManager}, claims.Actor())
	assert.Greater(t, claims.RemainingTTL(), 14*time.Minute)
}

func TestValidateAccessToken_Errors(t *testing.T) {
	cfg := testJWTConfig()
	svc := auth.NewJWTService(cfg)
	pair, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	t.Run("refresh token is not an access token", func(t *testing.T) {
		_, err := svc.ValidateAccessToken(pair.RefreshToken)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateAccessToken("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("different secret", func(t *testing.T) {
		other := cfg
		other.Secret = "another-secret-key-that-is-long-enough"
		_, err := auth.NewJWTService(other).ValidateAccessToken(pair.AccessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		expiring := cfg
		expiring.AccessTokenExpiration = -time.Minute
		short := auth.NewJWTService(expiring)
		p, err := short.GenerateTokenPair(testUser())
		require.NoError(t, err)
		_, err = short.ValidateAccessToken(p.AccessToken)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})
}

func TestValidateRefreshToken_SharedSecret(t *testing.T) {
	cfg := testJWTConfig()
	cfg.RefreshSecret = ""
	svc := auth.NewJWTService(cfg)

	pair, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidTokenType)

	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Empty(t, claims.Role)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := auth.NewJWTService(testJWTConfig())
	pair, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	refreshed, old, err := svc.RefreshTokenPair(pair.RefreshToken, identity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(7), old.UserID)

	claims, err := svc.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, claims.Role, "role comes from the caller")

	rc, err := svc.ValidateRefreshToken(refreshed.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 1, rc.RefreshCount)

	second, _, err := svc.RefreshTokenPair(refreshed.RefreshToken, identity.RoleAdmin)
	require.NoError(t, err)

	_, _, err = svc.RefreshTokenPair(second.RefreshToken, identity.RoleAdmin)
	assert.ErrorIs(t, err, auth.ErrMaxRefreshExceeded)

	_, _, err = svc.RefreshTokenPair(pair.AccessToken, identity.RoleAdmin)
	assert.Error(t, err)
}
