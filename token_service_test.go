package authkit_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-authkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_Issue(t *testing.T) {
	signingKey := []byte("test-signing-key")
	service := authkit.NewTokenService(signingKey, "test-issuer", jwt.ClaimStrings{"test-audience"}, nil)

	t.Run("issues a verifiable token with subject and purpose", func(t *testing.T) {
		expiresAt := time.Now().Add(time.Hour)

		tokenString, err := service.Issue("user-123", authkit.PurposeAccess, expiresAt)
		require.NoError(t, err)
		require.NotEmpty(t, tokenString)

		claims, err := service.Validate(tokenString)
		require.NoError(t, err)

		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, authkit.PurposeAccess, claims.Purpose())
		assert.WithinDuration(t, expiresAt, claims.Expires(), time.Second)
		assert.WithinDuration(t, time.Now(), claims.IssuedAt(), time.Second)
	})

	t.Run("identical issue calls produce distinct token values", func(t *testing.T) {
		expiresAt := time.Now().Add(time.Hour)

		first, err := service.Issue("user-123", authkit.PurposeResetPassword, expiresAt)
		require.NoError(t, err)
		second, err := service.Issue("user-123", authkit.PurposeResetPassword, expiresAt)
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("rejects empty subject", func(t *testing.T) {
		_, err := service.Issue("", authkit.PurposeAccess, time.Now().Add(time.Hour))
		assert.Error(t, err)
	})

	t.Run("rejects unknown purpose", func(t *testing.T) {
		_, err := service.Issue("user-123", authkit.TokenPurpose("sudo"), time.Now().Add(time.Hour))
		assert.Error(t, err)
	})
}

func TestTokenService_Validate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	service := authkit.NewTokenService(signingKey, "test-issuer", nil, nil)

	t.Run("expired token fails with expiry specific error", func(t *testing.T) {
		tokenString, err := service.Issue("user-123", authkit.PurposeAccess, time.Now().Add(-time.Minute))
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.ErrorIs(t, err, authkit.ErrTokenExpired)
		assert.True(t, authkit.IsTokenExpiredError(err))
		assert.False(t, authkit.IsMalformedError(err))
	})

	t.Run("token signed with another key fails as malformed", func(t *testing.T) {
		other := authkit.NewTokenService([]byte("other-key"), "test-issuer", nil, nil)

		tokenString, err := other.Issue("user-123", authkit.PurposeAccess, time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
		assert.True(t, authkit.IsMalformedError(err))
		assert.False(t, authkit.IsTokenExpiredError(err))
	})

	t.Run("garbage input fails as malformed", func(t *testing.T) {
		_, err := service.Validate("not-a-token")
		assert.Error(t, err)
		assert.True(t, authkit.IsMalformedError(err))
	})

	t.Run("issuer mismatch is rejected", func(t *testing.T) {
		other := authkit.NewTokenService(signingKey, "someone-else", nil, nil)

		tokenString, err := other.Issue("user-123", authkit.PurposeAccess, time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
	})
}

func TestTokenService_ValidateWithPurpose(t *testing.T) {
	service := authkit.NewTokenService([]byte("test-signing-key"), "", nil, nil)

	t.Run("accepts matching purpose", func(t *testing.T) {
		tokenString, err := service.Issue("user-123", authkit.PurposeRefresh, time.Now().Add(time.Hour))
		require.NoError(t, err)

		claims, err := service.ValidateWithPurpose(tokenString, authkit.PurposeRefresh)
		require.NoError(t, err)
		assert.Equal(t, authkit.PurposeRefresh, claims.Purpose())
	})

	t.Run("rejects a refresh token presented as access", func(t *testing.T) {
		tokenString, err := service.Issue("user-123", authkit.PurposeRefresh, time.Now().Add(time.Hour))
		require.NoError(t, err)

		_, err = service.ValidateWithPurpose(tokenString, authkit.PurposeAccess)
		assert.Error(t, err)
	})
}
