package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
)

// AgeKeeper wraps key material for a single age X25519 identity. Wrapped blobs are
// standard age files, so `age -d -i identity.txt` can recover them offline.
type AgeKeeper struct {
	identity *age.X25519Identity
}

// NewAgeKeeper parses an "AGE-SECRET-KEY-1..." identity.
func NewAgeKeeper(identity string) (*AgeKeeper, error) {
	id, err := age.ParseX25519Identity(strings.TrimSpace(identity))
	if err != nil {
		return nil, fmt.Errorf("failed to parse age identity: %w", err)
	}
	return &AgeKeeper{identity: id}, nil
}

// Recipient returns the public "age1..." recipient of the identity.
func (k *AgeKeeper) Recipient() string {
	return k.identity.Recipient().String()
}

// Encrypt seals plaintext to the identity's recipient.
func (k *AgeKeeper) Encrypt(_ context.Context, plaintext []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, k.identity.Recipient())
	if err != nil {
		return nil, fmt.Errorf("failed to start age encryption: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("failed to write age payload: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish age encryption: %w", err)
	}
	return buf.Bytes(), nil
}

// Decrypt opens an age file sealed to the identity.
func (k *AgeKeeper) Decrypt(_ context.Context, ciphertext []byte) ([]byte, error) {
	r, err := age.Decrypt(bytes.NewReader(ciphertext), k.identity)
	if err != nil {
		return nil, fmt.Errorf("failed to open age payload: %w", err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read age payload: %w", err)
	}
	return plaintext, nil
}

// Close is a no-op; the identity lives only in memory.
func (k *AgeKeeper) Close() error {
	return nil
}

// GenerateAgeIdentity creates a new X25519 identity and returns it together with
// its public recipient.
func GenerateAgeIdentity() (identity, recipient string, err error) {
	id, err := age.GenerateX25519Identity()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate age identity: %w", err)
	}
	return id.String(), id.Recipient().String(), nil
}
