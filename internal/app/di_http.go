package app

import (
	"context"
	"fmt"

	"github.com/allisson/secretstore/internal/http"
	keystoreHTTP "github.com/allisson/secretstore/internal/keystore/http"
	"github.com/allisson/secretstore/internal/metrics"
)

// MetricsProvider returns the metrics provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	return c.metricsProvider.get(func() (*metrics.Provider, error) {
		if !c.config.MetricsEnabled {
			return nil, nil
		}
		provider, err := metrics.NewProvider(c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create metrics provider: %w", err)
		}
		return provider, nil
	})
}

// BusinessMetrics returns the key store operation metrics, a no-op
// implementation when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	return c.businessMetrics.get(func() (metrics.BusinessMetrics, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return metrics.NewNoOpBusinessMetrics(), nil
		}
		businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
		if err != nil {
			return nil, fmt.Errorf("failed to create business metrics: %w", err)
		}
		return businessMetrics, nil
	})
}

// KeyHandler returns the HTTP handler for key store operations.
func (c *Container) KeyHandler(ctx context.Context) (*keystoreHTTP.KeyHandler, error) {
	return c.keyHandler.get(func() (*keystoreHTTP.KeyHandler, error) {
		store, err := c.SecretStore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get secret store for key handler: %w", err)
		}
		return keystoreHTTP.NewKeyHandler(store, c.Logger()), nil
	})
}

// HTTPServer returns the API server with its router configured. ctx bounds
// background work started by the router middleware.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	return c.httpServer.get(func() (*http.Server, error) {
		keyStore, err := c.KeyStore(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get key store for http server: %w", err)
		}
		keyHandler, err := c.KeyHandler(ctx)
		if err != nil {
			return nil, err
		}
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}

		server := http.NewServer(keyStore, c.config.ServerHost, c.config.ServerPort, c.Logger())
		server.SetupRouter(ctx, c.config, keyHandler, c.TokenService(), provider)
		return server, nil
	})
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	return c.metricsServer.get(func() (*http.MetricsServer, error) {
		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, err
		}
		if provider == nil {
			return nil, nil
		}
		return http.NewMetricsServer(c.config.ServerHost, c.config.MetricsPort, c.Logger(), provider), nil
	})
}
