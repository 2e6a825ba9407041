// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	"github.com/allisson/secretstore/internal/keystore/domain"
	customValidation "github.com/allisson/secretstore/internal/validation"
)

// MaxPlaintextLength caps the number of characters accepted for encryption.
const MaxPlaintextLength = 1 << 20

// EncryptRequest contains the text to encrypt. The alias comes from the URL.
// An empty plaintext is valid and round-trips to an empty string.
type EncryptRequest struct {
	Plaintext string `json:"plaintext"`
}

// Validate checks if the encrypt request is valid.
func (r *EncryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Plaintext, validation.Length(0, MaxPlaintextLength)),
	)
}

// DecryptRequest contains a payload produced by an earlier encrypt call.
type DecryptRequest struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// Validate checks if the decrypt request is valid.
func (r *DecryptRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Ciphertext,
			validation.Required,
			customValidation.Base64,
		),
		validation.Field(&r.Nonce,
			validation.Required,
			customValidation.Base64Length(domain.NonceSize),
		),
	)
}

// ToPayload converts the request into the domain text payload.
func (r *DecryptRequest) ToPayload() domain.EncodedPayload {
	return domain.EncodedPayload{Ciphertext: r.Ciphertext, Nonce: r.Nonce}
}

// ValidateAlias checks an alias taken from the URL path.
func ValidateAlias(alias string) error {
	return validation.Validate(alias, validation.Required, customValidation.Alias)
}
