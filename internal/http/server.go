// Package http provides the HTTP server, its middleware and the router wiring
// for the key store API.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/secretstore/internal/config"
	keystoreHTTP "github.com/allisson/secretstore/internal/keystore/http"
	"github.com/allisson/secretstore/internal/keystore/service"
	"github.com/allisson/secretstore/internal/metrics"
)

// Pinger reports whether the backing key store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	keyStore Pinger
	server   *http.Server
	logger   *slog.Logger
	router   *gin.Engine
}

// NewServer creates a new HTTP server. keyStore backs the readiness probe and
// may be nil, in which case the server never reports ready.
func NewServer(
	keyStore Pinger,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		keyStore: keyStore,
		logger:   logger,
		server:   newHTTPServer(host, port, nil),
	}
}

// newHTTPServer applies the timeouts shared by the API and metrics servers.
func newHTTPServer(host string, port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// SetupRouter configures the Gin router with middleware and routes. ctx bounds
// the lifetime of background work started by middleware.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	keyHandler *keystoreHTTP.KeyHandler,
	tokenService service.TokenService,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), cfg.MetricsNamespace))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	// The limiter runs before authentication so rejected tokens are throttled too.
	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}
	if cfg.APITokenHash != "" {
		v1.Use(AuthenticationMiddleware(cfg.APITokenHash, tokenService, s.logger))
	} else {
		s.logger.Warn("API_TOKEN_HASH is empty, key endpoints are unauthenticated")
	}

	keys := v1.Group("/keys")
	{
		keys.GET("/:alias", keyHandler.StatusHandler)
		keys.DELETE("/:alias", keyHandler.ClearHandler)
		keys.POST("/:alias/encrypt", keyHandler.EncryptHandler)
		keys.POST("/:alias/decrypt", keyHandler.DecryptHandler)
	}

	s.router = router
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until it is shut down.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return errors.New("router not configured, call SetupRouter first")
	}
	s.server.Handler = s.router

	return listenAndServe(s.server, s.logger, "http server")
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) readinessHandler(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if s.keyStore == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"key_store": "error"},
		})
		return
	}

	if err := s.keyStore.Ping(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"key_store": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"key_store": "ok"},
	})
}
