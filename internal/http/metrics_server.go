package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/secretstore/internal/httputil"
	"github.com/allisson/secretstore/internal/metrics"
)

// MetricsServer exposes the Prometheus scrape endpoint on a listener separate
// from the key store API. It never mounts authentication or key routes.
type MetricsServer struct {
	server *http.Server
	logger *slog.Logger
}

// NewMetricsServer builds the scrape server. A nil provider yields a server
// that answers every path with 404.
func NewMetricsServer(host string, port int, logger *slog.Logger, provider *metrics.Provider) *MetricsServer {
	router := gin.New()
	router.Use(gin.Recovery(), CustomLoggerMiddleware(logger))

	if provider != nil {
		scrape := gin.WrapH(provider.Handler())
		router.GET("/metrics", scrape)
		router.HEAD("/metrics", scrape)
	}
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, httputil.ErrorResponse{Error: "not_found", Message: "Only /metrics is served here"})
	})

	return &MetricsServer{server: newHTTPServer(host, port, router), logger: logger}
}

// GetHandler returns the http.Handler for testing purposes.
func (s *MetricsServer) GetHandler() http.Handler {
	return s.server.Handler
}

// Start serves scrapes until Shutdown is called.
func (s *MetricsServer) Start(_ context.Context) error {
	return listenAndServe(s.server, s.logger, "metrics server")
}

// Shutdown drains in-flight scrapes.
func (s *MetricsServer) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down metrics server")
	return s.server.Shutdown(ctx)
}

// listenAndServe blocks on srv and treats a graceful shutdown as success.
func listenAndServe(srv *http.Server, logger *slog.Logger, name string) error {
	logger.Info("starting "+name, slog.String("addr", srv.Addr))

	err := srv.ListenAndServe()
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("failed to start %s: %w", name, err)
}
