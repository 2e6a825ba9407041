// Package usecase implements the key store's business logic: the key provider
// that creates, loads and deletes keys in a secure store, and the secret store
// facade that turns text into base64 ciphertext and back.
//
// The facade composes three capabilities:
//   - KeyProvider: key lifecycle against the secure store
//   - Cipher: AES-256-GCM authenticated encryption
//   - base64 text encoding of the (ciphertext, nonce) pair
//
// Example usage:
//
//	repo := repository.NewPostgreSQLKeyRepository(db)
//	provider := usecase.NewKeyProvider(repo, keeper, logger)
//	store := usecase.NewSecretStore(provider, service.NewAESGCMCipher())
//
//	payload, err := store.Encrypt(ctx, "my_app_key", "hello")
//	plaintext, err := store.Decrypt(ctx, "my_app_key", payload)
package usecase

import (
	"context"

	"github.com/allisson/secretstore/internal/keystore/domain"
)

// KeyRepository persists key records.
//
// Implementations: PostgreSQLKeyRepository, MySQLKeyRepository and FileKeyRepository.
type KeyRepository interface {
	// Create stores a new record. Returns domain.ErrKeyAlreadyExists when the alias is taken.
	Create(ctx context.Context, key *domain.Key) error

	// GetByAlias loads a record. Returns domain.ErrKeyNotFound when absent.
	GetByAlias(ctx context.Context, alias string) (*domain.Key, error)

	// Delete removes a record. Returns domain.ErrKeyNotFound when absent.
	Delete(ctx context.Context, alias string) error

	// Ping checks that the store is reachable.
	Ping(ctx context.Context) error
}

// KeyProvider manages the lifecycle of named keys in a secure store.
type KeyProvider interface {
	// GetOrCreateKey returns the key stored under alias, generating and storing a
	// new 256-bit AES-GCM key first when none exists. Concurrent callers for the
	// same alias converge on a single key.
	GetOrCreateKey(ctx context.Context, alias string) (*domain.KeyHandle, error)

	// GetKey returns the key stored under alias and never creates one.
	// Returns domain.ErrKeyNotFound when absent.
	GetKey(ctx context.Context, alias string) (*domain.KeyHandle, error)

	// Exists reports whether a key is stored under alias. Store errors yield false.
	Exists(ctx context.Context, alias string) bool

	// Delete removes the key stored under alias. It never returns an error; the
	// outcome (including failures) is carried in the result.
	Delete(ctx context.Context, alias string) domain.DeleteResult
}

// Cipher performs authenticated encryption with a key handle.
type Cipher interface {
	Encrypt(handle *domain.KeyHandle, plaintext []byte) (domain.EncryptedPayload, error)
	Decrypt(handle *domain.KeyHandle, payload domain.EncryptedPayload) ([]byte, error)
}

// SecretStore is the facade callers use to protect text with a named key.
type SecretStore interface {
	// Encrypt encrypts plaintext with the key under alias, creating the key on
	// first use. Errors wrap domain.ErrEncryptionFailed and the underlying cause.
	Encrypt(ctx context.Context, alias, plaintext string) (domain.EncodedPayload, error)

	// Decrypt recovers the plaintext of payload with the key under alias. It never
	// creates keys. Errors wrap domain.ErrDecryptionFailed and the underlying cause.
	Decrypt(ctx context.Context, alias string, payload domain.EncodedPayload) (string, error)

	// KeyExists reports whether a key is stored under alias.
	KeyExists(ctx context.Context, alias string) bool

	// KeyStatus describes the key stored under alias.
	KeyStatus(ctx context.Context, alias string) domain.KeyStatus

	// ClearKey deletes the key under alias. Ciphertexts produced with it become
	// permanently undecryptable.
	ClearKey(ctx context.Context, alias string) domain.DeleteResult
}
