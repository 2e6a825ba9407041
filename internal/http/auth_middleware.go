package http

import (
	"crypto/sha256"
	"crypto/subtle"
	"log/slog"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/secretstore/internal/errors"
	"github.com/allisson/secretstore/internal/httputil"
)

// TokenVerifier checks a bearer token against its Argon2id hash.
type TokenVerifier interface {
	VerifyToken(plainToken, tokenHash string) bool
}

// AuthenticationMiddleware requires an "Authorization: Bearer <token>" header
// whose token matches tokenHash. The scheme is matched case-insensitively.
//
// The SHA-256 digest of the last token that verified is kept and compared in
// constant time, so Argon2id runs only for tokens not seen before.
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Token does not match the configured hash → 401 Unauthorized
func AuthenticationMiddleware(tokenHash string, verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	var verified atomic.Pointer[[sha256.Size]byte]

	return func(c *gin.Context) {
		plainToken, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		digest := sha256.Sum256([]byte(plainToken))
		if cached := verified.Load(); cached != nil && subtle.ConstantTimeCompare(cached[:], digest[:]) == 1 {
			c.Next()
			return
		}

		if !verifier.VerifyToken(plainToken, tokenHash) {
			logger.Debug("authentication failed: token mismatch")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		verified.Store(&digest)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const bearerPrefix = "bearer "
	if len(header) <= len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
