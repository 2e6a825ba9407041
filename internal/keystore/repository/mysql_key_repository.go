package repository

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/allisson/secretstore/internal/errors"
	"github.com/allisson/secretstore/internal/keystore/domain"
)

// MySQLKeyRepository implements key record persistence for MySQL.
// Uses BINARY(16) for UUIDs and BLOB for the wrapped key.
type MySQLKeyRepository struct {
	db *sql.DB
}

// Create inserts a new key record. A record with the same alias yields
// domain.ErrKeyAlreadyExists.
func (m *MySQLKeyRepository) Create(ctx context.Context, key *domain.Key) error {
	query := `INSERT INTO secure_keys (id, alias, algorithm, purpose, wrapped_key, fingerprint, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?)`

	id, err := key.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal key id")
	}

	_, err = m.db.ExecContext(
		ctx,
		query,
		id,
		key.Alias,
		key.Algorithm,
		key.Purpose,
		key.WrappedKey,
		key.Fingerprint,
		key.CreatedAt,
	)
	if err != nil {
		if isMySQLDuplicateEntry(err) {
			return domain.ErrKeyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create key")
	}
	return nil
}

// GetByAlias loads the key record stored under alias.
func (m *MySQLKeyRepository) GetByAlias(ctx context.Context, alias string) (*domain.Key, error) {
	query := `SELECT id, alias, algorithm, purpose, wrapped_key, fingerprint, created_at
			  FROM secure_keys WHERE alias = ?`

	var key domain.Key
	var id []byte
	err := m.db.QueryRowContext(ctx, query, alias).Scan(
		&id,
		&key.Alias,
		&key.Algorithm,
		&key.Purpose,
		&key.WrappedKey,
		&key.Fingerprint,
		&key.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get key")
	}

	if err := key.ID.UnmarshalBinary(id); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal key id")
	}
	return &key, nil
}

// Delete removes the key record stored under alias. Nothing to delete yields
// domain.ErrKeyNotFound.
func (m *MySQLKeyRepository) Delete(ctx context.Context, alias string) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM secure_keys WHERE alias = ?`, alias)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete key")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return domain.ErrKeyNotFound
	}
	return nil
}

// Ping checks that the database is reachable.
func (m *MySQLKeyRepository) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

// NewMySQLKeyRepository creates a new MySQL key repository.
func NewMySQLKeyRepository(db *sql.DB) *MySQLKeyRepository {
	return &MySQLKeyRepository{db: db}
}
