package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	testSecret = "unit-test-secret"
	testIssuer = "vid-mosaic-app"
)

func TestGenerateAndParseJWT(t *testing.T) {
	userID := "user-123"

	token, err := GenerateJWT(userID, testSecret, 15*time.Minute, testIssuer)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := ParseAndValidateJWT(token, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.True(t, claims.ExpiresAt.After(time.Now()), "Expiry should be in the future")
}

func TestParseAndValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-123", testSecret, 15*time.Minute, testIssuer)
	assert.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, "some-other-secret")
	assert.Error(t, err, "Token signed with a different secret must not validate")
	assert.Nil(t, claims)
}

func TestParseAndValidateJWT_Expired(t *testing.T) {
	token, err := GenerateJWT("user-123", testSecret, -time.Minute, testIssuer)
	assert.NoError(t, err)

	claims, err := ParseAndValidateJWT(token, testSecret)
	assert.Error(t, err, "Expired token must not validate")
	assert.Nil(t, claims)
}

func TestParseAndValidateJWT_Malformed(t *testing.T) {
	claims, err := ParseAndValidateJWT("not.a.jwt", testSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = ParseAndValidateJWT("", testSecret)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestGenerateJWTWithID(t *testing.T) {
	first, err := GenerateJWTWithID("user-123", "token-id-1", testSecret, time.Hour, testIssuer)
	assert.NoError(t, err)
	second, err := GenerateJWTWithID("user-123", "token-id-2", testSecret, time.Hour, testIssuer)
	assert.NoError(t, err)

	// Same user, same second: the token ID keeps the strings distinct.
	assert.NotEqual(t, first, second)

	claims, err := ParseAndValidateJWT(first, testSecret)
	assert.NoError(t, err)
	assert.Equal(t, "token-id-1", claims.ID)
	assert.Equal(t, "user-123", claims.Subject)
}
