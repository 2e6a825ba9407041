package service

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/allisson/secretstore/internal/keystore/domain"
)

// AESGCMCipher performs AES-256-GCM authenticated encryption with the AEAD bound
// to a key handle.
//
// Every encryption draws a fresh 12-byte nonce from the random source and seals
// with empty associated data. The 16-byte authentication tag is appended to the
// ciphertext. Decryption verifies the tag before returning anything, so no
// partial plaintext is ever produced.
//
// The cipher holds no key state and is safe for concurrent use.
type AESGCMCipher struct {
	rand io.Reader
}

// NewAESGCMCipher creates a cipher that draws nonces from crypto/rand.
func NewAESGCMCipher() *AESGCMCipher {
	return &AESGCMCipher{rand: rand.Reader}
}

// NewAESGCMCipherWithRand creates a cipher that draws nonces from r.
func NewAESGCMCipherWithRand(r io.Reader) *AESGCMCipher {
	return &AESGCMCipher{rand: r}
}

// Encrypt seals plaintext under the handle's key. Empty plaintext is valid and
// yields a ciphertext holding only the tag.
func (c *AESGCMCipher) Encrypt(handle *domain.KeyHandle, plaintext []byte) (domain.EncryptedPayload, error) {
	aead := handle.AEAD()
	if aead == nil {
		return domain.EncryptedPayload{}, fmt.Errorf("%w: missing key handle", domain.ErrCipherFailure)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(c.rand, nonce); err != nil {
		return domain.EncryptedPayload{}, fmt.Errorf("%w: failed to generate nonce: %w", domain.ErrCipherFailure, err)
	}

	return domain.EncryptedPayload{
		Ciphertext: aead.Seal(nil, nonce, plaintext, nil),
		Nonce:      nonce,
	}, nil
}

// Decrypt verifies and opens payload with the handle's key.
func (c *AESGCMCipher) Decrypt(handle *domain.KeyHandle, payload domain.EncryptedPayload) ([]byte, error) {
	aead := handle.AEAD()
	if aead == nil {
		return nil, fmt.Errorf("%w: missing key handle", domain.ErrCipherFailure)
	}
	if len(payload.Nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce must be %d bytes", domain.ErrCipherFailure, aead.NonceSize())
	}
	if len(payload.Ciphertext) < aead.Overhead() {
		return nil, fmt.Errorf("%w: ciphertext shorter than authentication tag", domain.ErrCipherFailure)
	}

	plaintext, err := aead.Open(nil, payload.Nonce, payload.Ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: message authentication failed", domain.ErrCipherFailure)
	}
	if plaintext == nil {
		plaintext = []byte{}
	}
	return plaintext, nil
}
