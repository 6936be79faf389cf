package cryptox_test

import (
	"testing"

	"github.com/quillworks/quill/pkg/cryptox"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	// Minimum cost keeps the test fast; the hash embeds the cost anyway.
	hash, err := cryptox.HashPassword("Str0ngPass!word", 4)
	require.NoError(t, err)
	require.NotEqual(t, "Str0ngPass!word", hash)

	require.NoError(t, cryptox.VerifyPassword("Str0ngPass!word", hash))
	require.ErrorIs(t, cryptox.VerifyPassword("wrong-password", hash), cryptox.ErrPasswordMismatch)
}

func TestHashPasswordDefaultsCost(t *testing.T) {
	hash, err := cryptox.HashPassword("Str0ngPass!word", 0)
	require.NoError(t, err)
	require.NoError(t, cryptox.VerifyPassword("Str0ngPass!word", hash))
}

func TestGenerateToken(t *testing.T) {
	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := cryptox.GenerateToken(0)
		require.Error(t, err)
	})

	t.Run("produces unique url-safe tokens", func(t *testing.T) {
		seen := make(map[string]struct{})
		for range 100 {
			tok, err := cryptox.GenerateToken(cryptox.TokenSize256)
			require.NoError(t, err)
			require.Len(t, tok, 43) // 32 bytes base64url, no padding
			_, dup := seen[tok]
			require.False(t, dup)
			seen[tok] = struct{}{}
		}
	})
}
