package usecase

import (
	"context"
	"time"

	apperrors "github.com/allisson/secretstore/internal/errors"
	"github.com/allisson/secretstore/internal/keystore/domain"
	"github.com/allisson/secretstore/internal/metrics"
)

const metricsDomain = "keystore"

// secretStoreWithMetrics decorates SecretStore with metrics instrumentation.
type secretStoreWithMetrics struct {
	next    SecretStore
	metrics metrics.BusinessMetrics
}

// NewSecretStoreWithMetrics wraps a SecretStore with metrics recording.
func NewSecretStoreWithMetrics(store SecretStore, m metrics.BusinessMetrics) SecretStore {
	return &secretStoreWithMetrics{next: store, metrics: m}
}

// record labels a failed operation with the category of its error, so a
// missing key and an unreachable store show up as separate series.
func (s *secretStoreWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := metrics.StatusSuccess
	if err != nil {
		status = apperrors.Kind(err)
	}
	s.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	s.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Encrypt records metrics for encryption operations.
func (s *secretStoreWithMetrics) Encrypt(ctx context.Context, alias, plaintext string) (domain.EncodedPayload, error) {
	start := time.Now()
	payload, err := s.next.Encrypt(ctx, alias, plaintext)
	s.record(ctx, "encrypt", start, err)
	return payload, err
}

// Decrypt records metrics for decryption operations.
func (s *secretStoreWithMetrics) Decrypt(ctx context.Context, alias string, payload domain.EncodedPayload) (string, error) {
	start := time.Now()
	plaintext, err := s.next.Decrypt(ctx, alias, payload)
	s.record(ctx, "decrypt", start, err)
	return plaintext, err
}

// KeyExists records metrics for existence checks. They never fail.
func (s *secretStoreWithMetrics) KeyExists(ctx context.Context, alias string) bool {
	start := time.Now()
	exists := s.next.KeyExists(ctx, alias)
	s.record(ctx, "key_exists", start, nil)
	return exists
}

// KeyStatus records metrics for status lookups.
func (s *secretStoreWithMetrics) KeyStatus(ctx context.Context, alias string) domain.KeyStatus {
	start := time.Now()
	status := s.next.KeyStatus(ctx, alias)
	s.record(ctx, "key_status", start, nil)
	return status
}

// ClearKey records metrics for key deletions. Absent and deleted both count as success.
func (s *secretStoreWithMetrics) ClearKey(ctx context.Context, alias string) domain.DeleteResult {
	start := time.Now()
	result := s.next.ClearKey(ctx, alias)
	var err error
	if result.Failed() {
		err = result.Err
		if err == nil {
			err = domain.ErrKeyStoreUnavailable
		}
	}
	s.record(ctx, "clear_key", start, err)
	return result
}
