// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"

	"github.com/allisson/secretstore/internal/config"
	"github.com/allisson/secretstore/internal/database"
	"github.com/allisson/secretstore/internal/http"
	keystoreHTTP "github.com/allisson/secretstore/internal/keystore/http"
	"github.com/allisson/secretstore/internal/keystore/service"
	"github.com/allisson/secretstore/internal/keystore/usecase"
	"github.com/allisson/secretstore/internal/metrics"
)

// lazy memoizes the first result of a component initializer, error included.
type lazy[T any] struct {
	once  sync.Once
	done  atomic.Bool
	value T
	err   error
}

func (l *lazy[T]) get(init func() (T, error)) (T, error) {
	l.once.Do(func() {
		l.value, l.err = init()
		l.done.Store(true)
	})
	return l.value, l.err
}

// peek returns the component only if it was already created successfully.
func (l *lazy[T]) peek() (T, bool) {
	var zero T
	if !l.done.Load() || l.err != nil {
		return zero, false
	}
	return l.value, true
}

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	config    *config.Config
	logOutput io.Writer

	loggerInit sync.Once
	logger     *slog.Logger

	db lazy[*sql.DB]

	kmsService    lazy[service.KMSService]
	keeper        lazy[service.KMSKeeper]
	keyRepository lazy[usecase.KeyRepository]
	memoryKeys    lazy[*usecase.MemoryKeyProvider]
	keyProvider   lazy[usecase.KeyProvider]
	secretStore   lazy[usecase.SecretStore]
	tokenService  lazy[service.TokenService]

	metricsProvider lazy[*metrics.Provider]
	businessMetrics lazy[metrics.BusinessMetrics]
	keyHandler      lazy[*keystoreHTTP.KeyHandler]
	httpServer      lazy[*http.Server]
	metricsServer   lazy[*http.MetricsServer]

	mu sync.Mutex
}

// Option customizes a Container.
type Option func(*Container)

// WithLogOutput sends log records to w instead of standard output. CLI commands
// use it to keep their output on stdout free of log lines.
func WithLogOutput(w io.Writer) Option {
	return func(c *Container) {
		c.logOutput = w
	}
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config, opts ...Option) *Container {
	c := &Container{config: cfg, logOutput: os.Stdout}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection, opening it on first access.
func (c *Container) DB(ctx context.Context) (*sql.DB, error) {
	return c.db.get(func() (*sql.DB, error) {
		return c.initDB(ctx)
	})
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if server, ok := c.httpServer.peek(); ok {
		if err := server.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("http server shutdown: %w", err))
		}
	}

	if server, ok := c.metricsServer.peek(); ok && server != nil {
		if err := server.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics server shutdown: %w", err))
		}
	}

	if keeper, ok := c.keeper.peek(); ok && keeper != nil {
		if err := keeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms keeper close: %w", err))
		}
	}

	if provider, ok := c.metricsProvider.peek(); ok && provider != nil {
		if err := provider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if db, ok := c.db.peek(); ok {
		if err := db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(shutdownErrors...))
	}
	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(c.logOutput, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB(ctx context.Context) (*sql.DB, error) {
	db, err := database.Connect(ctx, database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}
