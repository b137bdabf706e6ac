package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow-api/internal/model"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	digest, err := HashPassword("Password123")
	require.NoError(t, err)
	assert.NotEqual(t, "Password123", digest)
	assert.True(t, CheckPassword("Password123", digest))
	assert.False(t, CheckPassword("password123", digest))
}

func TestHashPassword_FreshSaltPerCall(t *testing.T) {
	first, err := HashPassword("Password123")
	require.NoError(t, err)
	second, err := HashPassword("Password123")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("Password123", first))
	assert.True(t, CheckPassword("Password123", second))
}

func TestCheckPassword_MalformedDigest(t *testing.T) {
	assert.False(t, CheckPassword("Password123", ""))
	assert.False(t, CheckPassword("Password123", "not-a-bcrypt-digest"))
}

func TestHashPassword_AnyInputAccepted(t *testing.T) {
	for _, plaintext := range []string{"", " ", "日本語のパスワード", "with\x00null", strings.Repeat("a", 72)} {
		digest, err := HashPassword(plaintext)
		require.NoError(t, err)
		assert.True(t, CheckPassword(plaintext, digest))
	}
}

func TestHashPassword_OverlongInputIsInvalid(t *testing.T) {
	// bcrypt reads at most 72 bytes; longer input is a client error, not an
	// internal one.
	_, err := HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = HashPassword(strings.Repeat("日", 25))
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}
