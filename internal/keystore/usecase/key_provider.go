package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/secretstore/internal/keystore/domain"
	"github.com/allisson/secretstore/internal/keystore/service"
)

// keyProvider stores keys as records whose material is wrapped by a keeper.
// The database backend pairs a SQL repository with a gocloud.dev KMS keeper; the
// file backend pairs FileKeyRepository with an age keeper.
type keyProvider struct {
	repo   KeyRepository
	keeper service.KMSKeeper
	logger *slog.Logger
}

// NewKeyProvider creates a KeyProvider that persists records in repo and wraps
// key material with keeper.
func NewKeyProvider(repo KeyRepository, keeper service.KMSKeeper, logger *slog.Logger) KeyProvider {
	return &keyProvider{repo: repo, keeper: keeper, logger: logger}
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrKeyStoreUnavailable, err)
}

// GetOrCreateKey loads the key under alias or creates it. When another creator
// wins the race the stored key is loaded instead.
func (p *keyProvider) GetOrCreateKey(ctx context.Context, alias string) (*domain.KeyHandle, error) {
	handle, err := p.GetKey(ctx, alias)
	if err == nil {
		return handle, nil
	}
	if !errors.Is(err, domain.ErrKeyNotFound) {
		return nil, err
	}

	handle, err = p.create(ctx, alias)
	if errors.Is(err, domain.ErrKeyAlreadyExists) {
		return p.GetKey(ctx, alias)
	}
	return handle, err
}

func (p *keyProvider) create(ctx context.Context, alias string) (*domain.KeyHandle, error) {
	material, err := service.GenerateKey()
	if err != nil {
		return nil, unavailable(err)
	}
	defer domain.Zero(material)

	handle, err := service.NewKeyHandle(alias, material)
	if err != nil {
		return nil, unavailable(err)
	}

	wrapped, err := p.keeper.Encrypt(ctx, material)
	if err != nil {
		return nil, unavailable(fmt.Errorf("failed to wrap key material: %w", err))
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, unavailable(err)
	}

	key := &domain.Key{
		ID:          id,
		Alias:       alias,
		Algorithm:   domain.AES256GCM,
		Purpose:     domain.PurposeEncryptDecrypt,
		WrappedKey:  wrapped,
		Fingerprint: handle.Fingerprint(),
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.repo.Create(ctx, key); err != nil {
		if errors.Is(err, domain.ErrKeyAlreadyExists) {
			return nil, err
		}
		return nil, unavailable(err)
	}

	p.logger.Info("key created",
		slog.String("alias", alias),
		slog.String("key_id", id.String()),
		slog.String("fingerprint", key.Fingerprint),
	)
	return handle, nil
}

// GetKey loads and unwraps the key under alias.
func (p *keyProvider) GetKey(ctx context.Context, alias string) (*domain.KeyHandle, error) {
	if err := domain.ValidateAlias(alias); err != nil {
		return nil, err
	}

	key, err := p.repo.GetByAlias(ctx, alias)
	if err != nil {
		if errors.Is(err, domain.ErrKeyNotFound) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, unavailable(err)
	}

	if key.Algorithm != domain.AES256GCM || key.Purpose != domain.PurposeEncryptDecrypt {
		return nil, unavailable(fmt.Errorf("key %q has unsupported algorithm %q", alias, key.Algorithm))
	}

	material, err := p.keeper.Decrypt(ctx, key.WrappedKey)
	if err != nil {
		return nil, unavailable(fmt.Errorf("failed to unwrap key material: %w", err))
	}
	defer domain.Zero(material)

	handle, err := service.NewKeyHandle(alias, material)
	if err != nil {
		return nil, unavailable(err)
	}
	if key.Fingerprint != "" && key.Fingerprint != handle.Fingerprint() {
		return nil, unavailable(fmt.Errorf("key %q does not match its stored fingerprint", alias))
	}
	return handle, nil
}

// Exists reports whether a record is stored under alias without unwrapping it.
func (p *keyProvider) Exists(ctx context.Context, alias string) bool {
	if err := domain.ValidateAlias(alias); err != nil {
		return false
	}

	_, err := p.repo.GetByAlias(ctx, alias)
	if err == nil {
		return true
	}
	if !errors.Is(err, domain.ErrKeyNotFound) {
		p.logger.Debug("key existence check failed", slog.String("alias", alias), slog.Any("error", err))
	}
	return false
}

// Delete removes the record under alias.
func (p *keyProvider) Delete(ctx context.Context, alias string) domain.DeleteResult {
	if err := domain.ValidateAlias(alias); err != nil {
		return domain.DeleteResult{Alias: alias, Outcome: domain.DeleteOutcomeFailed, Err: err}
	}

	err := p.repo.Delete(ctx, alias)
	switch {
	case err == nil:
		p.logger.Info("key deleted", slog.String("alias", alias))
		return domain.DeleteResult{Alias: alias, Outcome: domain.DeleteOutcomeDeleted}
	case errors.Is(err, domain.ErrKeyNotFound):
		return domain.DeleteResult{Alias: alias, Outcome: domain.DeleteOutcomeAbsent}
	default:
		p.logger.Warn("key deletion failed", slog.String("alias", alias), slog.Any("error", err))
		return domain.DeleteResult{Alias: alias, Outcome: domain.DeleteOutcomeFailed, Err: unavailable(err)}
	}
}
