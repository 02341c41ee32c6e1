package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHashAndSaltIsSaltedPerCall(t *testing.T) {
	h1, s1, err := GenerateHashAndSalt("Sup3rSecret!")
	require.NoError(t, err)
	h2, s2, err := GenerateHashAndSalt("Sup3rSecret!")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NotEqual(t, s1, s2)
}

func TestVerifyPassword(t *testing.T) {
	hash, salt, err := GenerateHashAndSalt("correct horse")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("correct horse", hash, salt))
	assert.False(t, VerifyPassword("correct horse ", hash, salt))
	assert.False(t, VerifyPassword("", hash, salt))

	_, otherSalt, err := GenerateHashAndSalt("correct horse")
	require.NoError(t, err)
	assert.False(t, VerifyPassword("correct horse", hash, otherSalt))
}

func TestVerifyPasswordRejectsGarbage(t *testing.T) {
	assert.False(t, VerifyPassword("x", "%%%", "%%%"))

	hash, salt, err := GenerateHashAndSalt("correct horse")
	require.NoError(t, err)
	assert.False(t, VerifyPassword("totally-wrong", "", salt))
	assert.False(t, VerifyPassword("", "", salt))
	assert.False(t, VerifyPassword("correct horse", hash[:8], salt))
}
