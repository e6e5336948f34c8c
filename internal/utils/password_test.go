package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iwacu250/landplots/internal/utils"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("Secret123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.True(t, utils.VerifyPassword(hash, "Secret123"))
	assert.False(t, utils.VerifyPassword(hash, "secret123"))
	assert.False(t, utils.VerifyPassword(hash, ""))
}

func TestHashPassword_SaltedHashesDiffer(t *testing.T) {
	h1, err := utils.HashPassword("Secret123", 4)
	require.NoError(t, err)
	h2, err := utils.HashPassword("Secret123", 4)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	assert.False(t, utils.VerifyPassword("not-a-bcrypt-hash", "Secret123"))
}

func TestRandomHex(t *testing.T) {
	a, err := utils.RandomHex(48)
	require.NoError(t, err)
	b, err := utils.RandomHex(48)
	require.NoError(t, err)

	assert.Len(t, a, 96)
	assert.NotEqual(t, a, b)
}

func TestHashTokenRaw_Deterministic(t *testing.T) {
	assert.Equal(t, utils.HashTokenRaw("abc"), utils.HashTokenRaw("abc"))
	assert.NotEqual(t, utils.HashTokenRaw("abc"), utils.HashTokenRaw("abd"))
	assert.Len(t, utils.HashTokenRaw("abc"), 64)
}
