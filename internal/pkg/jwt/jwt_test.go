package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	token, err := GenerateAccessToken(42, "agent", "test-secret", time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "agent", claims.Role)
	assert.Equal(t, "42", claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(1, "farmer", "test-secret", time.Hour)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateExpired(t *testing.T) {
	token, err := GenerateAccessToken(1, "farmer", "test-secret", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "test-secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateGarbage(t *testing.T) {
	_, err := ValidateAccessToken("not-a-token", "test-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
