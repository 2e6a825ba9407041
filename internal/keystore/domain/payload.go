package domain

import (
	"encoding/base64"
	"fmt"
)

// EncryptedPayload is the raw output of an encryption: the ciphertext with the
// authentication tag appended and the nonce it was sealed with.
type EncryptedPayload struct {
	Ciphertext []byte
	Nonce      []byte
}

// EncodedPayload is the text form of an EncryptedPayload, both fields in
// standard base64 with padding.
type EncodedPayload struct {
	Ciphertext string `json:"ciphertext"`
	Nonce      string `json:"nonce"`
}

// Encode returns the base64 text form of the payload.
func (p EncryptedPayload) Encode() EncodedPayload {
	return EncodedPayload{
		Ciphertext: base64.StdEncoding.EncodeToString(p.Ciphertext),
		Nonce:      base64.StdEncoding.EncodeToString(p.Nonce),
	}
}

// Decode parses the base64 text form. Malformed input yields ErrCipherFailure.
func (p EncodedPayload) Decode() (EncryptedPayload, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(p.Ciphertext)
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: ciphertext is not valid base64", ErrCipherFailure)
	}
	nonce, err := base64.StdEncoding.DecodeString(p.Nonce)
	if err != nil {
		return EncryptedPayload{}, fmt.Errorf("%w: nonce is not valid base64", ErrCipherFailure)
	}
	return EncryptedPayload{Ciphertext: ciphertext, Nonce: nonce}, nil
}
