// Package database opens the SQL pool behind the database key store backend.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
)

// Supported driver names, as accepted by sql.Open.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// Migration directories under migrations/, keyed by driver.
var schemaDirs = map[string]string{
	DriverPostgres: "postgresql",
	DriverMySQL:    "mysql",
}

// SchemaDir returns the migrations subdirectory holding the secure_keys schema
// for driver.
func SchemaDir(driver string) (string, error) {
	dir, ok := schemaDirs[driver]
	if !ok {
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
	return dir, nil
}

// Config describes the connection pool.
type Config struct {
	Driver             string
	ConnectionString   string
	MaxOpenConnections int
	MaxIdleConnections int
	ConnMaxLifetime    time.Duration
}

// Connect opens the pool and pings it once. The pool is closed again when the
// ping fails, so callers never receive a handle to an unreachable database.
func Connect(ctx context.Context, cfg Config) (*sql.DB, error) {
	if _, err := SchemaDir(cfg.Driver); err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConnections)
	db.SetMaxIdleConns(cfg.MaxIdleConnections)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", cfg.Driver, err)
	}
	return db, nil
}
