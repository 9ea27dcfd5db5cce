package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashPassword(t *testing.T) {
	password := "s3cret-passphrase"

	hash, err := HashPassword(password)
	assert.NoError(t, err, "Hashing should not return an error")
	assert.NotEmpty(t, hash, "Hash should not be empty")
	assert.NotEqual(t, password, hash, "Hash must not equal the plaintext")

	// bcrypt salts, so hashing the same password twice yields different digests
	secondHash, err := HashPassword(password)
	assert.NoError(t, err)
	assert.NotEqual(t, hash, secondHash, "Two hashes of the same password should differ")
}

func TestCheckPasswordHash(t *testing.T) {
	password := "s3cret-passphrase"
	hash, err := HashPassword(password)
	assert.NoError(t, err)

	assert.True(t, CheckPasswordHash(password, hash), "Correct password should verify")
	assert.False(t, CheckPasswordHash("wrong-passphrase", hash), "Wrong password should fail")
	assert.False(t, CheckPasswordHash(password, "not-a-bcrypt-hash"), "Garbage hash should fail")
	assert.False(t, CheckPasswordHash("", hash), "Empty password should fail")
}
