package domain

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyHandle(t *testing.T) {
	block, err := aes.NewCipher(make([]byte, KeySize))
	require.NoError(t, err)
	aead, err := cipher.NewGCM(block)
	require.NoError(t, err)

	handle := NewKeyHandle(DefaultAlias, "a1b2c3d4e5f60718", aead)

	assert.Equal(t, DefaultAlias, handle.Alias())
	assert.Equal(t, AES256GCM, handle.Algorithm())
	assert.Equal(t, PurposeEncryptDecrypt, handle.Purpose())
	assert.Equal(t, "a1b2c3d4e5f60718", handle.Fingerprint())
	assert.Equal(t, aead, handle.AEAD())
	assert.Equal(t, "KeyHandle(my_app_key)", fmt.Sprint(handle))

	var nilHandle *KeyHandle
	assert.Nil(t, nilHandle.AEAD())
	assert.Equal(t, "KeyHandle(<nil>)", nilHandle.String())
	assert.Empty(t, nilHandle.Alias())
	assert.Empty(t, nilHandle.Fingerprint())
	assert.Equal(t, AES256GCM, nilHandle.Algorithm())
}

func TestDeleteResult_Failed(t *testing.T) {
	assert.False(t, DeleteResult{Outcome: DeleteOutcomeAbsent}.Failed())
	assert.False(t, DeleteResult{Outcome: DeleteOutcomeDeleted}.Failed())
	assert.True(t, DeleteResult{Outcome: DeleteOutcomeFailed, Err: assert.AnError}.Failed())
}

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	Zero(b)
	assert.Equal(t, []byte{0, 0, 0, 0}, b)

	assert.NotPanics(t, func() { Zero(nil) })
}
