package usecase

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/allisson/secretstore/internal/keystore/domain"
)

type secretStore struct {
	provider KeyProvider
	cipher   Cipher
}

// NewSecretStore composes a key provider and a cipher into the SecretStore facade.
func NewSecretStore(provider KeyProvider, cipher Cipher) SecretStore {
	return &secretStore{provider: provider, cipher: cipher}
}

func encryptionFailed(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrEncryptionFailed, err)
}

func decryptionFailed(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrDecryptionFailed, err)
}

// Encrypt encrypts the UTF-8 bytes of plaintext and returns base64 text.
func (s *secretStore) Encrypt(ctx context.Context, alias, plaintext string) (domain.EncodedPayload, error) {
	if !utf8.ValidString(plaintext) {
		return domain.EncodedPayload{}, encryptionFailed(domain.ErrInvalidPlaintext)
	}

	handle, err := s.provider.GetOrCreateKey(ctx, alias)
	if err != nil {
		return domain.EncodedPayload{}, encryptionFailed(err)
	}

	payload, err := s.cipher.Encrypt(handle, []byte(plaintext))
	if err != nil {
		return domain.EncodedPayload{}, encryptionFailed(err)
	}
	return payload.Encode(), nil
}

// Decrypt decodes payload, loads the existing key and returns the plaintext.
func (s *secretStore) Decrypt(ctx context.Context, alias string, payload domain.EncodedPayload) (string, error) {
	raw, err := payload.Decode()
	if err != nil {
		return "", decryptionFailed(err)
	}

	handle, err := s.provider.GetKey(ctx, alias)
	if err != nil {
		return "", decryptionFailed(err)
	}

	plaintext, err := s.cipher.Decrypt(handle, raw)
	if err != nil {
		return "", decryptionFailed(err)
	}
	defer domain.Zero(plaintext)

	if !utf8.Valid(plaintext) {
		return "", decryptionFailed(fmt.Errorf("%w: plaintext is not valid UTF-8", domain.ErrCipherFailure))
	}
	return string(plaintext), nil
}

// KeyExists reports whether a key is stored under alias.
func (s *secretStore) KeyExists(ctx context.Context, alias string) bool {
	return s.provider.Exists(ctx, alias)
}

// KeyStatus describes the key stored under alias.
func (s *secretStore) KeyStatus(ctx context.Context, alias string) domain.KeyStatus {
	if s.provider.Exists(ctx, alias) {
		return domain.KeyStatus{Alias: alias, State: domain.KeyStatePresent, Algorithm: domain.AES256GCM}
	}
	return domain.KeyStatus{Alias: alias, State: domain.KeyStateAbsent}
}

// ClearKey deletes the key under alias.
func (s *secretStore) ClearKey(ctx context.Context, alias string) domain.DeleteResult {
	return s.provider.Delete(ctx, alias)
}
