package usecase

import (
	"context"
	"sync"

	"github.com/allisson/secretstore/internal/keystore/domain"
	"github.com/allisson/secretstore/internal/keystore/service"
)

// MemoryKeyProvider keeps keys in process memory. Keys vanish when the process
// exits, so it is meant for tests and local experiments only.
type MemoryKeyProvider struct {
	mu   sync.Mutex
	keys map[string]*domain.KeyHandle
}

// NewMemoryKeyProvider creates an empty in-memory key provider.
func NewMemoryKeyProvider() *MemoryKeyProvider {
	return &MemoryKeyProvider{keys: make(map[string]*domain.KeyHandle)}
}

// GetOrCreateKey returns the key under alias, generating one first if needed.
func (m *MemoryKeyProvider) GetOrCreateKey(_ context.Context, alias string) (*domain.KeyHandle, error) {
	if err := domain.ValidateAlias(alias); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if handle, ok := m.keys[alias]; ok {
		return handle, nil
	}

	material, err := service.GenerateKey()
	if err != nil {
		return nil, unavailable(err)
	}
	defer domain.Zero(material)

	handle, err := service.NewKeyHandle(alias, material)
	if err != nil {
		return nil, unavailable(err)
	}
	m.keys[alias] = handle
	return handle, nil
}

// GetKey returns the key under alias or domain.ErrKeyNotFound.
func (m *MemoryKeyProvider) GetKey(_ context.Context, alias string) (*domain.KeyHandle, error) {
	if err := domain.ValidateAlias(alias); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	handle, ok := m.keys[alias]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return handle, nil
}

// Exists reports whether a key is held under alias.
func (m *MemoryKeyProvider) Exists(_ context.Context, alias string) bool {
	if err := domain.ValidateAlias(alias); err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.keys[alias]
	return ok
}

// Delete drops the key under alias.
func (m *MemoryKeyProvider) Delete(_ context.Context, alias string) domain.DeleteResult {
	if err := domain.ValidateAlias(alias); err != nil {
		return domain.DeleteResult{Alias: alias, Outcome: domain.DeleteOutcomeFailed, Err: err}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.keys[alias]; !ok {
		return domain.DeleteResult{Alias: alias, Outcome: domain.DeleteOutcomeAbsent}
	}
	delete(m.keys, alias)
	return domain.DeleteResult{Alias: alias, Outcome: domain.DeleteOutcomeDeleted}
}

// Ping always succeeds; memory is always reachable.
func (m *MemoryKeyProvider) Ping(context.Context) error {
	return nil
}
