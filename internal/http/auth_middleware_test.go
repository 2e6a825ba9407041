package http

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type countingVerifier struct {
	token string
	calls atomic.Int32
}

func (v *countingVerifier) VerifyToken(plainToken, tokenHash string) bool {
	v.calls.Add(1)
	return tokenHash == "hash" && plainToken == v.token
}

func authRouter(verifier TokenVerifier) *gin.Engine {
	router := gin.New()
	router.Use(AuthenticationMiddleware("hash", verifier, discardLogger()))
	router.GET("/v1/keys/:alias", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	tests := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{name: "missing header", header: "", expectedCode: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", expectedCode: http.StatusUnauthorized},
		{name: "empty bearer", header: "Bearer ", expectedCode: http.StatusUnauthorized},
		{name: "wrong token", header: "Bearer nope", expectedCode: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer s3cret", expectedCode: http.StatusOK},
		{name: "scheme is case insensitive", header: "bearer s3cret", expectedCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := authRouter(&countingVerifier{token: "s3cret"})

			req := httptest.NewRequest(http.MethodGet, "/v1/keys/my_app_key", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)
		})
	}
}

func TestAuthenticationMiddleware_CachesVerifiedToken(t *testing.T) {
	verifier := &countingVerifier{token: "s3cret"}
	router := authRouter(verifier)

	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/v1/keys/my_app_key", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, int32(1), verifier.calls.Load())

	req := httptest.NewRequest(http.MethodGet, "/v1/keys/my_app_key", nil)
	req.Header.Set("Authorization", "Bearer other")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, int32(2), verifier.calls.Load())
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("Bearer")
	assert.False(t, ok)

	_, ok = bearerToken("Token abc")
	assert.False(t, ok)
}
