package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	tm := NewTokenManager("test-secret", "eduforge-api", 24)

	token, err := tm.GenerateToken("admin", "ops@eduforge.io", "Admin", "admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tm.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@eduforge.io", claims.Email)
	assert.Equal(t, "Admin", claims.Name)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "eduforge-api", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	tm := NewTokenManager("test-secret", "eduforge-api", 24)
	other := NewTokenManager("other-secret", "eduforge-api", 24)

	token, err := other.GenerateToken("admin", "ops@eduforge.io", "Admin", "admin")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_Expired(t *testing.T) {
	tm := NewTokenManager("test-secret", "eduforge-api", -1)

	token, err := tm.GenerateToken("admin", "ops@eduforge.io", "Admin", "admin")
	require.NoError(t, err)

	_, err = tm.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_Garbage(t *testing.T) {
	tm := NewTokenManager("test-secret", "eduforge-api", 24)

	_, err := tm.ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestTimingSafeCompare(t *testing.T) {
	assert.True(t, TimingSafeCompare("secret", "secret"))
	assert.False(t, TimingSafeCompare("secret", "Secret"))
	assert.False(t, TimingSafeCompare("secret", "secret2"))
	assert.True(t, TimingSafeCompare("", ""))
}
