package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSealer(t *testing.T) {
	t.Run("valid key", func(t *testing.T) {
		key, err := GenerateKey()
		require.NoError(t, err)

		s, err := NewSealer(key)
		require.NoError(t, err)
		assert.Len(t, s.key, 32)
	})

	t.Run("short key", func(t *testing.T) {
		_, err := NewSealer(base64.StdEncoding.EncodeToString([]byte("short")))
		assert.ErrorIs(t, err, ErrInvalidKey)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := NewSealer("%%%")
		assert.Error(t, err)
	})
}

func TestSealOpen(t *testing.T) {
	s, err := NewEphemeralSealer()
	require.NoError(t, err)

	t.Run("round trip", func(t *testing.T) {
		sealed, err := s.Seal([]byte("admin:secret"))
		require.NoError(t, err)
		assert.NotContains(t, string(sealed), "secret")

		plain, err := s.Open(sealed)
		require.NoError(t, err)
		assert.Equal(t, "admin:secret", string(plain))
	})

	t.Run("fresh nonce per seal", func(t *testing.T) {
		a, err := s.Seal([]byte("same"))
		require.NoError(t, err)
		b, err := s.Seal([]byte("same"))
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		sealed, err := s.Seal([]byte("admin:secret"))
		require.NoError(t, err)
		sealed[len(sealed)-1] ^= 0xff

		_, err = s.Open(sealed)
		assert.Error(t, err)
	})

	t.Run("truncated ciphertext", func(t *testing.T) {
		_, err := s.Open([]byte{1, 2, 3})
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := NewEphemeralSealer()
		require.NoError(t, err)
		sealed, err := s.Seal([]byte("admin:secret"))
		require.NoError(t, err)

		_, err = other.Open(sealed)
		assert.Error(t, err)
	})
}
