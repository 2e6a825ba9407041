package service

import (
	"crypto/rand"
	"encoding/base64"

	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/secretstore/internal/errors"
)

// TokenService issues and verifies API bearer tokens. Only Argon2id hashes of
// tokens are ever configured on the server.
type TokenService interface {
	// GenerateToken creates a random token and its hash.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a token chosen by the operator.
	HashToken(plainToken string) (string, error)

	// VerifyToken reports whether plainToken matches tokenHash.
	VerifyToken(plainToken, tokenHash string) bool
}

type tokenService struct {
	hasher *pwdhash.PasswordHasher
}

// NewTokenService creates a TokenService using Argon2id with the moderate policy.
func NewTokenService() TokenService {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyModerate))
	if err != nil {
		// Only reachable with an invalid built-in policy.
		panic(err)
	}
	return &tokenService{hasher: hasher}
}

func (s *tokenService) GenerateToken() (string, string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}
	plainToken := base64.RawURLEncoding.EncodeToString(randomBytes)

	tokenHash, err := s.HashToken(plainToken)
	if err != nil {
		return "", "", err
	}
	return plainToken, tokenHash, nil
}

func (s *tokenService) HashToken(plainToken string) (string, error) {
	tokenHash, err := s.hasher.Hash([]byte(plainToken))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash token")
	}
	return tokenHash, nil
}

func (s *tokenService) VerifyToken(plainToken, tokenHash string) bool {
	ok, err := s.hasher.Verify([]byte(plainToken), tokenHash)
	if err != nil {
		return false
	}
	return ok
}
