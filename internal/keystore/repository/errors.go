// Package repository persists key records for the key store.
//
// Two SQL implementations share the secure_keys schema:
//   - PostgreSQL: native UUID type and BYTEA for the wrapped key
//   - MySQL: BINARY(16) for UUIDs and BLOB for the wrapped key
//
// FileKeyRepository keeps one JSON record per alias in a directory for hosts
// without a database.
//
// Every implementation reports a missing alias as domain.ErrKeyNotFound and a
// duplicate alias as domain.ErrKeyAlreadyExists. Any other failure is returned
// wrapped, and callers treat it as the store being unavailable.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

func isPostgreSQLUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}

func isMySQLDuplicateEntry(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
