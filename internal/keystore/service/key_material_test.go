package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/secretstore/internal/keystore/domain"
)

func TestGenerateKey(t *testing.T) {
	first, err := GenerateKey()
	require.NoError(t, err)
	second, err := GenerateKey()
	require.NoError(t, err)

	assert.Len(t, first, domain.KeySize)
	assert.NotEqual(t, first, second)
}

func TestNewKeyHandle(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		key := bytes.Repeat([]byte{0x42}, domain.KeySize)
		handle, err := NewKeyHandle("orders", key)
		require.NoError(t, err)

		assert.Equal(t, "orders", handle.Alias())
		assert.Equal(t, domain.NonceSize, handle.AEAD().NonceSize())
		assert.Equal(t, domain.TagSize, handle.AEAD().Overhead())
		assert.Len(t, handle.Fingerprint(), 16)
	})

	t.Run("Success_ZeroingKeyKeepsHandleUsable", func(t *testing.T) {
		key, err := GenerateKey()
		require.NoError(t, err)
		handle, err := NewKeyHandle("orders", key)
		require.NoError(t, err)
		domain.Zero(key)

		c := NewAESGCMCipher()
		payload, err := c.Encrypt(handle, []byte("still works"))
		require.NoError(t, err)
		plaintext, err := c.Decrypt(handle, payload)
		require.NoError(t, err)
		assert.Equal(t, []byte("still works"), plaintext)
	})

	t.Run("Error_InvalidKeySize", func(t *testing.T) {
		_, err := NewKeyHandle("orders", make([]byte, 16))
		assert.ErrorIs(t, err, domain.ErrKeyStoreUnavailable)
	})
}

func TestFingerprint(t *testing.T) {
	keyA := bytes.Repeat([]byte{0x01}, domain.KeySize)
	keyB := bytes.Repeat([]byte{0x02}, domain.KeySize)

	fpA1, err := Fingerprint(keyA)
	require.NoError(t, err)
	fpA2, err := Fingerprint(keyA)
	require.NoError(t, err)
	fpB, err := Fingerprint(keyB)
	require.NoError(t, err)

	assert.Equal(t, fpA1, fpA2)
	assert.NotEqual(t, fpA1, fpB)
	assert.Len(t, fpA1, 16)
}
