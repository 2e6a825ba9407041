package repository

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/allisson/secretstore/internal/errors"
	"github.com/allisson/secretstore/internal/keystore/domain"
)

// PostgreSQLKeyRepository implements key record persistence for PostgreSQL.
//
// Database schema requirements:
//   - id: UUID PRIMARY KEY
//   - alias: VARCHAR(255) UNIQUE
//   - algorithm, purpose: VARCHAR
//   - wrapped_key: BYTEA
//   - fingerprint: VARCHAR
//   - created_at: TIMESTAMP WITH TIME ZONE
type PostgreSQLKeyRepository struct {
	db *sql.DB
}

// Create inserts a new key record. A record with the same alias yields
// domain.ErrKeyAlreadyExists.
func (p *PostgreSQLKeyRepository) Create(ctx context.Context, key *domain.Key) error {
	query := `INSERT INTO secure_keys (id, alias, algorithm, purpose, wrapped_key, fingerprint, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := p.db.ExecContext(
		ctx,
		query,
		key.ID,
		key.Alias,
		key.Algorithm,
		key.Purpose,
		key.WrappedKey,
		key.Fingerprint,
		key.CreatedAt,
	)
	if err != nil {
		if isPostgreSQLUniqueViolation(err) {
			return domain.ErrKeyAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create key")
	}
	return nil
}

// GetByAlias loads the key record stored under alias.
func (p *PostgreSQLKeyRepository) GetByAlias(ctx context.Context, alias string) (*domain.Key, error) {
	query := `SELECT id, alias, algorithm, purpose, wrapped_key, fingerprint, created_at
			  FROM secure_keys WHERE alias = $1`

	var key domain.Key
	err := p.db.QueryRowContext(ctx, query, alias).Scan(
		&key.ID,
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
	return &key, nil
}

// Delete removes the key record stored under alias. Nothing to delete yields
// domain.ErrKeyNotFound.
func (p *PostgreSQLKeyRepository) Delete(ctx context.Context, alias string) error {
	result, err := p.db.ExecContext(ctx, `DELETE FROM secure_keys WHERE alias = $1`, alias)
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
func (p *PostgreSQLKeyRepository) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// NewPostgreSQLKeyRepository creates a new PostgreSQL key repository.
func NewPostgreSQLKeyRepository(db *sql.DB) *PostgreSQLKeyRepository {
	return &PostgreSQLKeyRepository{db: db}
}
