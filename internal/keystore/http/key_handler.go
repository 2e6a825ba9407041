// Package http provides HTTP handlers for key store operations: key status,
// key deletion, and text encryption and decryption under a named key.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/secretstore/internal/httputil"
	"github.com/allisson/secretstore/internal/keystore/http/dto"
	"github.com/allisson/secretstore/internal/keystore/usecase"
	customValidation "github.com/allisson/secretstore/internal/validation"
)

// Base64 and JSON escaping inflate a maximum size plaintext well past its raw length.
const maxRequestBodyBytes = 8 * dto.MaxPlaintextLength

// KeyHandler handles HTTP requests for key store operations.
type KeyHandler struct {
	store  usecase.SecretStore
	logger *slog.Logger
}

// NewKeyHandler creates a new key handler.
func NewKeyHandler(store usecase.SecretStore, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{store: store, logger: logger}
}

// bindJSON decodes the request body into obj, writing the error response itself
// when it returns false.
func (h *KeyHandler) bindJSON(c *gin.Context, obj any) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBodyBytes)
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.logger.Warn("request body too large", slog.Int64("limit", tooLarge.Limit))
		c.JSON(http.StatusRequestEntityTooLarge, httputil.ErrorResponse{
			Error:   "request_too_large",
			Message: "The request body is too large",
		})
		return false
	}
	httputil.HandleBadRequestGin(c, err, h.logger)
	return false
}

func (h *KeyHandler) alias(c *gin.Context) (string, bool) {
	alias := c.Param("alias")
	if err := dto.ValidateAlias(alias); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return "", false
	}
	return alias, true
}

// StatusHandler reports whether a key exists for an alias.
// GET /v1/keys/:alias - Returns 200 OK with the key status.
func (h *KeyHandler) StatusHandler(c *gin.Context) {
	alias, ok := h.alias(c)
	if !ok {
		return
	}

	status := h.store.KeyStatus(c.Request.Context(), alias)
	c.JSON(http.StatusOK, dto.MapKeyStatusToResponse(status))
}

// ClearHandler deletes the key under an alias.
// DELETE /v1/keys/:alias - Returns 200 OK with the outcome, including "failed".
func (h *KeyHandler) ClearHandler(c *gin.Context) {
	alias, ok := h.alias(c)
	if !ok {
		return
	}

	result := h.store.ClearKey(c.Request.Context(), alias)
	if result.Failed() {
		h.logger.Error("key deletion failed", slog.String("alias", alias), slog.Any("error", result.Err))
	}
	c.JSON(http.StatusOK, dto.MapDeleteResultToResponse(result))
}

// EncryptHandler encrypts text with the key under an alias, creating the key on first use.
// POST /v1/keys/:alias/encrypt - Returns 200 OK with base64 ciphertext and nonce.
func (h *KeyHandler) EncryptHandler(c *gin.Context) {
	alias, ok := h.alias(c)
	if !ok {
		return
	}

	var req dto.EncryptRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	payload, err := h.store.Encrypt(c.Request.Context(), alias, req.Plaintext)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.MapPayloadToEncryptResponse(payload))
}

// DecryptHandler decrypts a payload with the existing key under an alias.
// POST /v1/keys/:alias/decrypt - Returns 200 OK with the plaintext.
func (h *KeyHandler) DecryptHandler(c *gin.Context) {
	alias, ok := h.alias(c)
	if !ok {
		return
	}

	var req dto.DecryptRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.store.Decrypt(c.Request.Context(), alias, req.ToPayload())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	c.JSON(http.StatusOK, dto.DecryptResponse{Plaintext: plaintext})
}
