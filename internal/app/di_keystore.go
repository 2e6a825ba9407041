package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/allisson/secretstore/internal/config"
	"github.com/allisson/secretstore/internal/database"
	"github.com/allisson/secretstore/internal/http"
	"github.com/allisson/secretstore/internal/keystore/repository"
	"github.com/allisson/secretstore/internal/keystore/service"
	"github.com/allisson/secretstore/internal/keystore/usecase"
	"github.com/allisson/secretstore/internal/metrics"
)

// KMSService returns the service that opens gocloud.dev secrets keepers.
func (c *Container) KMSService() service.KMSService {
	kmsService, _ := c.kmsService.get(func() (service.KMSService, error) {
		return service.NewKMSService(), nil
	})
	return kmsService
}

// TokenService returns the API token hashing service.
func (c *Container) TokenService() service.TokenService {
	tokenService, _ := c.tokenService.get(func() (service.TokenService, error) {
		return service.NewTokenService(), nil
	})
	return tokenService
}

// KMSKeeper returns the keeper that wraps stored key material: a KMS keeper for
// the database backend or an age keeper for the file backend.
func (c *Container) KMSKeeper(ctx context.Context) (service.KMSKeeper, error) {
	return c.keeper.get(func() (service.KMSKeeper, error) {
		return c.initKMSKeeper(ctx)
	})
}

// KeyRepository returns the repository holding key records for the configured backend.
func (c *Container) KeyRepository(ctx context.Context) (usecase.KeyRepository, error) {
	return c.keyRepository.get(func() (usecase.KeyRepository, error) {
		return c.initKeyRepository(ctx)
	})
}

// KeyProvider returns the key provider for the configured backend.
func (c *Container) KeyProvider(ctx context.Context) (usecase.KeyProvider, error) {
	return c.keyProvider.get(func() (usecase.KeyProvider, error) {
		return c.initKeyProvider(ctx)
	})
}

// KeyStore returns the component probed by the readiness endpoint.
func (c *Container) KeyStore(ctx context.Context) (http.Pinger, error) {
	if c.config.KeyStoreBackend == config.BackendMemory {
		return c.memoryKeyProvider(), nil
	}
	return c.KeyRepository(ctx)
}

// SecretStore returns the secret store facade, decorated with business metrics
// when metrics are enabled.
func (c *Container) SecretStore(ctx context.Context) (usecase.SecretStore, error) {
	return c.secretStore.get(func() (usecase.SecretStore, error) {
		return c.initSecretStore(ctx)
	})
}

func (c *Container) memoryKeyProvider() *usecase.MemoryKeyProvider {
	provider, _ := c.memoryKeys.get(func() (*usecase.MemoryKeyProvider, error) {
		return usecase.NewMemoryKeyProvider(), nil
	})
	return provider
}

func (c *Container) initKMSKeeper(ctx context.Context) (service.KMSKeeper, error) {
	switch c.config.KeyStoreBackend {
	case config.BackendDatabase:
		if c.config.KMSKeyURI == "" {
			return nil, errors.New("KMS_KEY_URI is required for the database key store backend")
		}
		keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeyURI)
		if err != nil {
			return nil, err
		}
		c.Logger().Info("kms keeper opened", slog.String("kms_provider", c.config.KMSProvider))
		return keeper, nil
	case config.BackendFile:
		if c.config.AgeIdentity == "" {
			return nil, errors.New("AGE_IDENTITY is required for the file key store backend")
		}
		keeper, err := service.NewAgeKeeper(c.config.AgeIdentity)
		if err != nil {
			return nil, fmt.Errorf("failed to load age identity: %w", err)
		}
		return keeper, nil
	default:
		return nil, fmt.Errorf("key store backend %q does not use a keeper", c.config.KeyStoreBackend)
	}
}

func (c *Container) initKeyRepository(ctx context.Context) (usecase.KeyRepository, error) {
	switch c.config.KeyStoreBackend {
	case config.BackendDatabase:
		db, err := c.DB(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get database for key repository: %w", err)
		}
		switch c.config.DBDriver {
		case database.DriverMySQL:
			return repository.NewMySQLKeyRepository(db), nil
		case database.DriverPostgres:
			return repository.NewPostgreSQLKeyRepository(db), nil
		default:
			return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	case config.BackendFile:
		return repository.NewFileKeyRepository(c.config.KeyStoreDir), nil
	default:
		return nil, fmt.Errorf("key store backend %q does not use a repository", c.config.KeyStoreBackend)
	}
}

func (c *Container) initKeyProvider(ctx context.Context) (usecase.KeyProvider, error) {
	switch c.config.KeyStoreBackend {
	case config.BackendMemory:
		c.Logger().Warn("using the in-memory key store, keys are lost when the process exits")
		return c.memoryKeyProvider(), nil
	case config.BackendDatabase, config.BackendFile:
		repo, err := c.KeyRepository(ctx)
		if err != nil {
			return nil, err
		}
		keeper, err := c.KMSKeeper(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get keeper for key provider: %w", err)
		}
		return usecase.NewKeyProvider(repo, keeper, c.Logger()), nil
	default:
		return nil, fmt.Errorf("unsupported key store backend: %s", c.config.KeyStoreBackend)
	}
}

func (c *Container) initSecretStore(ctx context.Context) (usecase.SecretStore, error) {
	provider, err := c.KeyProvider(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get key provider for secret store: %w", err)
	}

	store := usecase.NewSecretStore(provider, service.NewAESGCMCipher())

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, err
	}
	if _, noop := businessMetrics.(*metrics.NoOpBusinessMetrics); noop {
		return store, nil
	}
	return usecase.NewSecretStoreWithMetrics(store, businessMetrics), nil
}
