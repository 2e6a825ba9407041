// Package mocks provides testify mock implementations of the key store use case
// interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/secretstore/internal/keystore/domain"
)

// MockKeyRepository is a mock implementation of KeyRepository.
type MockKeyRepository struct {
	mock.Mock
}

// Create mocks the Create method of KeyRepository.
func (m *MockKeyRepository) Create(ctx context.Context, key *domain.Key) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// GetByAlias mocks the GetByAlias method of KeyRepository.
func (m *MockKeyRepository) GetByAlias(ctx context.Context, alias string) (*domain.Key, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Key), args.Error(1)
}

// Delete mocks the Delete method of KeyRepository.
func (m *MockKeyRepository) Delete(ctx context.Context, alias string) error {
	args := m.Called(ctx, alias)
	return args.Error(0)
}

// Ping mocks the Ping method of KeyRepository.
func (m *MockKeyRepository) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockKMSKeeper is a mock implementation of service.KMSKeeper.
type MockKMSKeeper struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of KMSKeeper.
func (m *MockKMSKeeper) Encrypt(ctx context.Context, plaintext []byte) ([]byte, error) {
	args := m.Called(ctx, plaintext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Decrypt mocks the Decrypt method of KMSKeeper.
func (m *MockKMSKeeper) Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error) {
	args := m.Called(ctx, ciphertext)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Close mocks the Close method of KMSKeeper.
func (m *MockKMSKeeper) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockKeyProvider is a mock implementation of KeyProvider.
type MockKeyProvider struct {
	mock.Mock
}

// GetOrCreateKey mocks the GetOrCreateKey method of KeyProvider.
func (m *MockKeyProvider) GetOrCreateKey(ctx context.Context, alias string) (*domain.KeyHandle, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KeyHandle), args.Error(1)
}

// GetKey mocks the GetKey method of KeyProvider.
func (m *MockKeyProvider) GetKey(ctx context.Context, alias string) (*domain.KeyHandle, error) {
	args := m.Called(ctx, alias)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.KeyHandle), args.Error(1)
}

// Exists mocks the Exists method of KeyProvider.
func (m *MockKeyProvider) Exists(ctx context.Context, alias string) bool {
	args := m.Called(ctx, alias)
	return args.Bool(0)
}

// Delete mocks the Delete method of KeyProvider.
func (m *MockKeyProvider) Delete(ctx context.Context, alias string) domain.DeleteResult {
	args := m.Called(ctx, alias)
	return args.Get(0).(domain.DeleteResult)
}

// MockCipher is a mock implementation of Cipher.
type MockCipher struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of Cipher.
func (m *MockCipher) Encrypt(handle *domain.KeyHandle, plaintext []byte) (domain.EncryptedPayload, error) {
	args := m.Called(handle, plaintext)
	return args.Get(0).(domain.EncryptedPayload), args.Error(1)
}

// Decrypt mocks the Decrypt method of Cipher.
func (m *MockCipher) Decrypt(handle *domain.KeyHandle, payload domain.EncryptedPayload) ([]byte, error) {
	args := m.Called(handle, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockSecretStore is a mock implementation of SecretStore.
type MockSecretStore struct {
	mock.Mock
}

// Encrypt mocks the Encrypt method of SecretStore.
func (m *MockSecretStore) Encrypt(ctx context.Context, alias, plaintext string) (domain.EncodedPayload, error) {
	args := m.Called(ctx, alias, plaintext)
	return args.Get(0).(domain.EncodedPayload), args.Error(1)
}

// Decrypt mocks the Decrypt method of SecretStore.
func (m *MockSecretStore) Decrypt(ctx context.Context, alias string, payload domain.EncodedPayload) (string, error) {
	args := m.Called(ctx, alias, payload)
	return args.String(0), args.Error(1)
}

// KeyExists mocks the KeyExists method of SecretStore.
func (m *MockSecretStore) KeyExists(ctx context.Context, alias string) bool {
	args := m.Called(ctx, alias)
	return args.Bool(0)
}

// KeyStatus mocks the KeyStatus method of SecretStore.
func (m *MockSecretStore) KeyStatus(ctx context.Context, alias string) domain.KeyStatus {
	args := m.Called(ctx, alias)
	return args.Get(0).(domain.KeyStatus)
}

// ClearKey mocks the ClearKey method of SecretStore.
func (m *MockSecretStore) ClearKey(ctx context.Context, alias string) domain.DeleteResult {
	args := m.Called(ctx, alias)
	return args.Get(0).(domain.DeleteResult)
}
