package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckKey(t *testing.T) {
	hash, err := HashKey("s3cret")
	require.NoError(t, err)
	assert.True(t, CheckKey("s3cret", hash))
	assert.False(t, CheckKey("wrong", hash))
	assert.False(t, CheckKey("s3cret", ""))
}

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	signed, err := tokens.Generate("renderer-1")
	require.NoError(t, err)

	claims, err := tokens.Parse(signed)
	require.NoError(t, err)
	assert.Equal(t, "renderer-1", claims.ClientID)
	assert.Equal(t, "renderer-1", claims.Subject)
}

func TestTokenRejections(t *testing.T) {
	_, err := NewTokens("", time.Hour)
	assert.Error(t, err)

	tokens, err := NewTokens("secret", time.Minute)
	require.NoError(t, err)
	signed, err := tokens.Generate("c")
	require.NoError(t, err)

	other, err := NewTokens("other", time.Minute)
	require.NoError(t, err)
	_, err = other.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tokens.Parse(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tokens.Parse("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
