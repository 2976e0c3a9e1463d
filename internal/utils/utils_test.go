package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hashed)

	assert.True(t, CheckPassword(hashed, "password123"))
	assert.False(t, CheckPassword(hashed, "password124"))
	assert.False(t, CheckPassword("not-a-hash", "password123"))
}

func TestSignJWTRoundTrip(t *testing.T) {
	token, err := SignJWT("secret", "user-1", "freelancer", 60)
	require.NoError(t, err)

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(*Claims)
	require.True(t, ok)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "freelancer", claims.Role)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestSignJWTExpiry(t *testing.T) {
	// A token signed with a negative validity is already expired.
	token, err := SignJWT("secret", "user-1", "client", -1)
	require.NoError(t, err)

	_, err = jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	assert.Error(t, err)
}
