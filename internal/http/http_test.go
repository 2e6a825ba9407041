package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/secretstore/internal/config"
	keystoreHTTP "github.com/allisson/secretstore/internal/keystore/http"
	"github.com/allisson/secretstore/internal/keystore/service"
	"github.com/allisson/secretstore/internal/keystore/usecase"
	"github.com/allisson/secretstore/internal/metrics"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func createTestServer(keyStore Pinger) *Server {
	return NewServer(keyStore, "127.0.0.1", 0, discardLogger())
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHealthHandler(t *testing.T) {
	server := createTestServer(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	server.healthHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decodeBody(t, w)["status"])
}

func TestReadinessHandler(t *testing.T) {
	tests := []struct {
		name         string
		keyStore     Pinger
		expectedCode int
		status       string
		component    string
	}{
		{
			name:         "nil key store",
			keyStore:     nil,
			expectedCode: http.StatusServiceUnavailable,
			status:       "not_ready",
			component:    "error",
		},
		{
			name:         "ping fails",
			keyStore:     pingerFunc(func(context.Context) error { return errors.New("connection refused") }),
			expectedCode: http.StatusServiceUnavailable,
			status:       "not_ready",
			component:    "error",
		},
		{
			name:         "ping succeeds",
			keyStore:     usecase.NewMemoryKeyProvider(),
			expectedCode: http.StatusOK,
			status:       "ready",
			component:    "ok",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := createTestServer(tt.keyStore)

			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/ready", nil)

			server.readinessHandler(c)

			assert.Equal(t, tt.expectedCode, w.Code)
			response := decodeBody(t, w)
			assert.Equal(t, tt.status, response["status"])
			components, ok := response["components"].(map[string]interface{})
			require.True(t, ok)
			assert.Equal(t, tt.component, components["key_store"])
		})
	}
}

func TestCustomLoggerMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "test"})
	})
	router.GET("/fail", func(c *gin.Context) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "unavailable"})
	})

	for path, code := range map[string]int{"/test": http.StatusOK, "/fail": http.StatusServiceUnavailable} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, code, w.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(CustomLoggerMiddleware(discardLogger()))
	router.GET("/panic", func(c *gin.Context) {
		panic("test panic")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func newRouterServer(t *testing.T, cfg *config.Config, tokens service.TokenService, provider *metrics.Provider) *Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	memory := usecase.NewMemoryKeyProvider()
	store := usecase.NewSecretStore(memory, service.NewAESGCMCipher())
	server := createTestServer(memory)
	server.SetupRouter(ctx, cfg, keystoreHTTP.NewKeyHandler(store, discardLogger()), tokens, provider)
	return server
}

func testConfig() *config.Config {
	return &config.Config{
		LogLevel:         "error",
		MetricsNamespace: "secretstore_test",
	}
}

func serve(handler http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestSetupRouter_Routes(t *testing.T) {
	server := newRouterServer(t, testConfig(), nil, nil)
	handler := server.GetHandler()

	w := serve(handler, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(handler, http.MethodGet, "/ready", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(handler, http.MethodGet, "/v1/keys/my_app_key", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"alias":"my_app_key","state":"absent"}`, w.Body.String())

	w = serve(handler, http.MethodPost, "/v1/keys/my_app_key/encrypt", `{"plaintext":"hi"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	encrypted := decodeBody(t, w)

	body, err := json.Marshal(encrypted)
	require.NoError(t, err)
	w = serve(handler, http.MethodPost, "/v1/keys/my_app_key/decrypt", string(body), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"plaintext":"hi"}`, w.Body.String())

	w = serve(handler, http.MethodDelete, "/v1/keys/my_app_key", "", "")
	assert.JSONEq(t, `{"alias":"my_app_key","outcome":"deleted"}`, w.Body.String())

	requestID := w.Header().Get("X-Request-Id")
	_, err = uuid.Parse(requestID)
	assert.NoError(t, err, "X-Request-Id should be a valid UUID")

	w = serve(handler, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRouter_Authentication(t *testing.T) {
	tokens := service.NewTokenService()
	plainToken, tokenHash, err := tokens.GenerateToken()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.APITokenHash = tokenHash
	handler := newRouterServer(t, cfg, tokens, nil).GetHandler()

	w := serve(handler, http.MethodGet, "/v1/keys/my_app_key", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(handler, http.MethodGet, "/v1/keys/my_app_key", "", "wrong-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(handler, http.MethodGet, "/v1/keys/my_app_key", "", plainToken)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(handler, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, w.Code, "health stays public")
}

func TestSetupRouter_RateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequestsPerSec = 0.001
	cfg.RateLimitBurst = 1
	handler := newRouterServer(t, cfg, nil, nil).GetHandler()

	w := serve(handler, http.MethodGet, "/v1/keys/my_app_key", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(handler, http.MethodGet, "/v1/keys/my_app_key", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

// countingTokenService counts how often a token hash is verified.
type countingTokenService struct {
	service.TokenService
	verifications atomic.Int64
}

func (c *countingTokenService) VerifyToken(plainToken, tokenHash string) bool {
	c.verifications.Add(1)
	return c.TokenService.VerifyToken(plainToken, tokenHash)
}

func TestSetupRouter_RateLimitAppliesBeforeAuthentication(t *testing.T) {
	tokens := &countingTokenService{TokenService: service.NewTokenService()}
	_, tokenHash, err := tokens.GenerateToken()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.APITokenHash = tokenHash
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequestsPerSec = 0.001
	cfg.RateLimitBurst = 1
	handler := newRouterServer(t, cfg, tokens, nil).GetHandler()

	codes := map[int]int{}
	for i := 0; i < 10; i++ {
		w := serve(handler, http.MethodGet, "/v1/keys/my_app_key", "", fmt.Sprintf("wrong-token-%d", i))
		codes[w.Code]++
	}

	assert.Equal(t, 1, codes[http.StatusUnauthorized])
	assert.Equal(t, 9, codes[http.StatusTooManyRequests])
	assert.Equal(t, int64(1), tokens.verifications.Load())
}

func TestSetupRouter_HTTPMetrics(t *testing.T) {
	provider, err := metrics.NewProvider("secretstore_test")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, provider.Shutdown(context.Background())) })

	handler := newRouterServer(t, testConfig(), nil, provider).GetHandler()
	serve(handler, http.MethodGet, "/v1/keys/my_app_key", "", "")

	metricsServer := NewMetricsServer("127.0.0.1", 0, discardLogger(), provider)
	w := serve(metricsServer.GetHandler(), http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "secretstore_test_http_requests_total")
	assert.Contains(t, w.Body.String(), `path="/v1/keys/:alias"`)
}

func TestServer_StartWithoutRouter(t *testing.T) {
	err := createTestServer(nil).Start(context.Background())
	assert.Error(t, err)
}

func TestServer_ShutdownGracefully(t *testing.T) {
	server := newRouterServer(t, testConfig(), nil, nil)

	done := make(chan error, 1)
	go func() {
		done <- server.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, server.Shutdown(shutdownCtx))

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestMetricsServer_ShutdownGracefully(t *testing.T) {
	metricsServer := NewMetricsServer("127.0.0.1", 0, discardLogger(), nil)

	done := make(chan error, 1)
	go func() {
		done <- metricsServer.Start(context.Background())
	}()

	time.Sleep(100 * time.Millisecond)
	assert.NoError(t, metricsServer.Shutdown(context.Background()))
	assert.NoError(t, <-done)
}

func TestMetricsServer_Routes(t *testing.T) {
	provider, err := metrics.NewProvider("secretstore_test")
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, provider.Shutdown(context.Background())) })

	handler := NewMetricsServer("127.0.0.1", 0, discardLogger(), provider).GetHandler()

	w := serve(handler, http.MethodHead, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(handler, http.MethodGet, "/v1/keys/my_app_key", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")

	w = serve(NewMetricsServer("127.0.0.1", 0, discardLogger(), nil).GetHandler(), http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
