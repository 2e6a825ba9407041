// Package service provides the cryptographic building blocks of the key store:
// the AES-256-GCM authenticated cipher, key material helpers and the keepers that
// wrap key material at rest (gocloud.dev KMS providers and age identities).
package service

import (
	"context"
)

// KMSKeeper wraps and unwraps key material. *secrets.Keeper from gocloud.dev
// satisfies it, as does the age based keeper used by the file backend.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// KMSService opens keepers from provider URIs.
type KMSService interface {
	// OpenKeeper opens a keeper for the key at keyURI.
	// Supports: base64key://, awskms://, gcpkms://, azurekeyvault://, hashivault://
	OpenKeeper(ctx context.Context, keyURI string) (KMSKeeper, error)
}
