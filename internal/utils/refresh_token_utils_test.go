package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashRefreshToken(t *testing.T) {
	token := "some.refresh.token"

	hash := HashRefreshToken(token)
	assert.Len(t, hash, 64, "SHA-256 hex digest is 64 characters")
	assert.NotEqual(t, token, hash)

	// Deterministic: same input, same digest.
	assert.Equal(t, hash, HashRefreshToken(token))
	assert.NotEqual(t, hash, HashRefreshToken("some.other.token"))
}

func TestCompareRefreshTokenHash(t *testing.T) {
	token := "some.refresh.token"
	hash := HashRefreshToken(token)

	assert.True(t, CompareRefreshTokenHash(token, hash))
	assert.False(t, CompareRefreshTokenHash("some.other.token", hash))
	assert.False(t, CompareRefreshTokenHash(token, ""))
}

func TestGenerateSecureRandomString(t *testing.T) {
	s, err := GenerateSecureRandomString(16)
	assert.NoError(t, err)
	assert.Len(t, s, 32, "16 bytes hex encode to 32 characters")

	other, err := GenerateSecureRandomString(16)
	assert.NoError(t, err)
	assert.NotEqual(t, s, other)

	_, err = GenerateSecureRandomString(0)
	assert.Error(t, err)
}
