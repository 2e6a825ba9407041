package dto

import (
	"github.com/allisson/secretstore/internal/keystore/domain"
)

// KeyStatusResponse describes the key stored under an alias.
type KeyStatusResponse struct {
	Alias     string `json:"alias"`
	State     string `json:"state"`
	Algorithm string `json:"algorithm,omitempty"`
}

// DeleteKeyResponse reports the outcome of a key deletion. Failure causes are
// logged server-side and never returned.
type DeleteKeyResponse struct {
	Alias   string `json:"alias"`
	Outcome string `json:"outcome"`
}

// EncryptResponse carries the base64 ciphertext and nonce.
type EncryptResponse struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// DecryptResponse carries the recovered plaintext.
type DecryptResponse struct {
	Plaintext string `json:"plaintext"`
}

// MapKeyStatusToResponse converts a domain key status to an API response.
func MapKeyStatusToResponse(status domain.KeyStatus) KeyStatusResponse {
	return KeyStatusResponse{
		Alias:     status.Alias,
		State:     string(status.State),
		Algorithm: string(status.Algorithm),
	}
}

// MapDeleteResultToResponse converts a domain delete result to an API response.
func MapDeleteResultToResponse(result domain.DeleteResult) DeleteKeyResponse {
	return DeleteKeyResponse{
		Alias:   result.Alias,
		Outcome: string(result.Outcome),
	}
}

// MapPayloadToEncryptResponse converts an encoded payload to an API response.
func MapPayloadToEncryptResponse(payload domain.EncodedPayload) EncryptResponse {
	return EncryptResponse{
		Ciphertext: payload.Ciphertext,
		Nonce:      payload.Nonce,
	}
}
