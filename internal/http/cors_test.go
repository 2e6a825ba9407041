package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func corsRouter(middleware gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	if middleware != nil {
		router.Use(middleware)
	}
	router.GET("/v1/keys/:alias", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"state": "absent"})
	})
	router.POST("/v1/keys/:alias/encrypt", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	return router
}

func TestCreateCORSMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		origins string
		wantNil bool
	}{
		{name: "disabled", enabled: false, origins: "https://example.com", wantNil: true},
		{name: "enabled without origins", enabled: true, origins: "", wantNil: true},
		{name: "enabled with only separators", enabled: true, origins: " , ,", wantNil: true},
		{name: "enabled with origins", enabled: true, origins: "https://app.example.com,https://admin.example.com", wantNil: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			middleware := createCORSMiddleware(tt.enabled, tt.origins, discardLogger())
			if tt.wantNil {
				assert.Nil(t, middleware)
			} else {
				assert.NotNil(t, middleware)
			}
		})
	}
}

func TestParseOrigins(t *testing.T) {
	assert.Equal(t,
		[]string{"https://app.example.com", "https://admin.example.com"},
		parseOrigins(" https://app.example.com , https://admin.example.com "),
	)
	assert.Nil(t, parseOrigins(""))
}

func TestCORSIntegration_HeadersAddedWhenEnabled(t *testing.T) {
	router := corsRouter(createCORSMiddleware(true, "https://app.example.com", discardLogger()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/keys/my_app_key", nil)
	req.Header.Set("Origin", "https://app.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSIntegration_NoHeadersWhenDisabled(t *testing.T) {
	router := corsRouter(createCORSMiddleware(false, "https://app.example.com", discardLogger()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/keys/my_app_key", nil)
	req.Header.Set("Origin", "https://app.example.com")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSIntegration_PreflightRequestHandled(t *testing.T) {
	router := corsRouter(createCORSMiddleware(true, "https://app.example.com", discardLogger()))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/keys/my_app_key/encrypt", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}
