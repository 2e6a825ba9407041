// Package domain defines the key store domain models: stored key records, opaque
// key handles, encrypted payloads and the outcomes of key lifecycle operations.
package domain

import (
	"crypto/cipher"
	"time"

	"github.com/google/uuid"
)

// Key is a stored key record. The key material itself is only ever persisted in
// wrapped form; WrappedKey is opaque to everything except the provider that wrote it.
type Key struct {
	ID          uuid.UUID // Unique identifier (UUIDv7)
	Alias       string    // Caller chosen name, unique per store
	Algorithm   Algorithm // Always AES256GCM
	Purpose     Purpose   // Always PurposeEncryptDecrypt
	WrappedKey  []byte    // Key material encrypted by the store's wrapping key
	Fingerprint string    // Non-secret identifier derived from the key material
	CreatedAt   time.Time
}

// KeyHandle is an opaque reference to a usable key. It carries a ready AEAD
// instance bound to the key material and never exposes the raw bytes.
type KeyHandle struct {
	alias       string
	fingerprint string
	aead        cipher.AEAD
}

// NewKeyHandle binds an alias to an AEAD instance built from the key material.
func NewKeyHandle(alias, fingerprint string, aead cipher.AEAD) *KeyHandle {
	return &KeyHandle{alias: alias, fingerprint: fingerprint, aead: aead}
}

// Alias returns the alias the key is stored under, or "" for a nil handle.
func (h *KeyHandle) Alias() string {
	if h == nil {
		return ""
	}
	return h.alias
}

// Algorithm returns the algorithm the key is restricted to.
func (h *KeyHandle) Algorithm() Algorithm { return AES256GCM }

// Purpose returns the operations the key may be used for.
func (h *KeyHandle) Purpose() Purpose { return PurposeEncryptDecrypt }

// Fingerprint returns a non-secret identifier for the key material, or "" for
// a nil handle.
func (h *KeyHandle) Fingerprint() string {
	if h == nil {
		return ""
	}
	return h.fingerprint
}

// AEAD returns the authenticated cipher bound to the key, or nil for a zero handle.
func (h *KeyHandle) AEAD() cipher.AEAD {
	if h == nil {
		return nil
	}
	return h.aead
}

// String keeps handles safe to print.
func (h *KeyHandle) String() string {
	if h == nil {
		return "KeyHandle(<nil>)"
	}
	return "KeyHandle(" + h.alias + ")"
}
