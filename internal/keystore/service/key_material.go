package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"github.com/allisson/secretstore/internal/keystore/domain"
)

const fingerprintInfo = "secretstore-key-fingerprint-v1"

// GenerateKey returns fresh 256-bit key material. Callers must Zero it once a
// handle has been built and the material wrapped.
func GenerateKey() ([]byte, error) {
	key := make([]byte, domain.KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("failed to generate key material: %w", err)
	}
	return key, nil
}

// NewKeyHandle builds an AES-256-GCM handle for alias from raw key material.
// The handle keeps only the expanded cipher state; key may be zeroed afterwards.
func NewKeyHandle(alias string, key []byte) (*domain.KeyHandle, error) {
	if len(key) != domain.KeySize {
		return nil, fmt.Errorf("%w: key must be exactly %d bytes", domain.ErrKeyStoreUnavailable, domain.KeySize)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithTagSize(block, domain.TagSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	fingerprint, err := Fingerprint(key)
	if err != nil {
		return nil, err
	}

	return domain.NewKeyHandle(alias, fingerprint, aead), nil
}

// Fingerprint derives a short non-secret identifier for key material with
// HKDF-SHA256. It lets operators tell keys apart without exposing them.
func Fingerprint(key []byte) (string, error) {
	out := make([]byte, 8)
	if _, err := io.ReadFull(hkdf.New(sha256.New, key, nil, []byte(fingerprintInfo)), out); err != nil {
		return "", fmt.Errorf("failed to derive key fingerprint: %w", err)
	}
	return hex.EncodeToString(out), nil
}
