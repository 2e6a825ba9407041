package domain

import (
	stderrors "errors"

	"github.com/allisson/secretstore/internal/errors"
)

// Key store error definitions.
//
// Provider and cipher errors wrap the standard errors from internal/errors so
// the HTTP layer can map them to status codes. The facade additionally wraps
// every failure in ErrEncryptionFailed or ErrDecryptionFailed while keeping the
// underlying cause in the chain.
var (
	// ErrInvalidAlias indicates the alias is empty, too long or contains
	// characters outside [A-Za-z0-9._-].
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidAlias = errors.Wrap(errors.ErrInvalidInput, "invalid key alias")

	// ErrKeyNotFound indicates no key is stored under the alias.
	// Decryption never creates keys, so decrypting with an unknown alias returns this.
	//
	// HTTP Status: 404 Not Found
	ErrKeyNotFound = errors.Wrap(errors.ErrNotFound, "key not found")

	// ErrKeyAlreadyExists indicates a concurrent creator stored a key under the
	// same alias first. Providers recover from it by loading the stored key.
	//
	// HTTP Status: 409 Conflict
	ErrKeyAlreadyExists = errors.Wrap(errors.ErrConflict, "key already exists")

	// ErrKeyStoreUnavailable indicates the secure store could not be opened or reached,
	// or stored key material could not be unwrapped.
	//
	// HTTP Status: 503 Service Unavailable
	ErrKeyStoreUnavailable = errors.Wrap(errors.ErrUnavailable, "key store unavailable")

	// ErrCipherFailure indicates an authenticated encryption primitive failed.
	//
	// On decryption this covers tag mismatch, a nonce of the wrong length, input
	// that is not valid base64 and plaintext that is not valid UTF-8. The specific
	// cause is not disclosed to callers.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrCipherFailure = errors.Wrap(errors.ErrInvalidInput, "cipher failure")

	// ErrInvalidPlaintext indicates plaintext handed to the facade is not valid UTF-8.
	//
	// HTTP Status: 422 Unprocessable Entity
	ErrInvalidPlaintext = errors.Wrap(errors.ErrInvalidInput, "plaintext is not valid UTF-8")

	// ErrEncryptionFailed wraps every error returned by the facade's Encrypt.
	ErrEncryptionFailed = stderrors.New("encryption failed")

	// ErrDecryptionFailed wraps every error returned by the facade's Decrypt.
	ErrDecryptionFailed = stderrors.New("decryption failed")
)
