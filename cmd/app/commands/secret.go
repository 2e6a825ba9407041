package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/allisson/secretstore/internal/keystore/domain"
	"github.com/allisson/secretstore/internal/keystore/http/dto"
	"github.com/allisson/secretstore/internal/keystore/usecase"
)

// stdinMarker as a flag value means "read this value from standard input".
const stdinMarker = "-"

// RunEncrypt encrypts plaintext with the key under alias, creating the key on
// first use, and prints the base64 ciphertext and nonce. A plaintext of "-" is
// read from the IOTuple reader with one trailing newline removed.
//
// Output format (text):
//   - CIPHERTEXT="<base64>"
//   - NONCE="<base64>"
func RunEncrypt(
	ctx context.Context,
	store usecase.SecretStore,
	logger *slog.Logger,
	streams IOTuple,
	alias, plaintext, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	if plaintext == stdinMarker {
		value, err := readInput(streams.Reader)
		if err != nil {
			return err
		}
		plaintext = value
	}

	payload, err := store.Encrypt(ctx, alias, plaintext)
	if err != nil {
		return err
	}

	logger.Info("plaintext encrypted", slog.String("alias", alias))

	if format == "json" {
		return writeJSON(streams.Writer, dto.MapPayloadToEncryptResponse(payload))
	}

	_, _ = fmt.Fprintf(streams.Writer, "CIPHERTEXT=%q\n", payload.Ciphertext)
	_, _ = fmt.Fprintf(streams.Writer, "NONCE=%q\n", payload.Nonce)
	return nil
}

// RunDecrypt decrypts a payload produced by RunEncrypt with the key under alias.
// When ciphertext and nonce are both empty the payload is read from the IOTuple
// reader as the JSON document printed by "encrypt --format json".
func RunDecrypt(
	ctx context.Context,
	store usecase.SecretStore,
	logger *slog.Logger,
	streams IOTuple,
	alias, ciphertext, nonce, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	payload := domain.EncodedPayload{Ciphertext: ciphertext, Nonce: nonce}
	switch {
	case ciphertext == "" && nonce == "":
		if err := json.NewDecoder(streams.Reader).Decode(&payload); err != nil {
			return fmt.Errorf("failed to read payload from input: %w", err)
		}
	case ciphertext == "" || nonce == "":
		return fmt.Errorf("--ciphertext and --nonce must be given together")
	}

	plaintext, err := store.Decrypt(ctx, alias, payload)
	if err != nil {
		return err
	}

	logger.Info("payload decrypted", slog.String("alias", alias))

	if format == "json" {
		return writeJSON(streams.Writer, dto.DecryptResponse{Plaintext: plaintext})
	}

	_, _ = fmt.Fprintln(streams.Writer, plaintext)
	return nil
}

// RunKeyStatus prints whether a key is stored under alias.
func RunKeyStatus(ctx context.Context, store usecase.SecretStore, writer io.Writer, alias, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	status := store.KeyStatus(ctx, alias)

	if format == "json" {
		return writeJSON(writer, dto.MapKeyStatusToResponse(status))
	}

	_, _ = fmt.Fprintf(writer, "Alias: %s\n", status.Alias)
	_, _ = fmt.Fprintf(writer, "State: %s\n", status.State)
	if status.State == domain.KeyStatePresent {
		_, _ = fmt.Fprintf(writer, "Algorithm: %s\n", status.Algorithm)
	}
	return nil
}

// RunClearKey deletes the key under alias. Deleting an absent key succeeds;
// a failed deletion is returned as an error after the outcome is printed.
func RunClearKey(
	ctx context.Context,
	store usecase.SecretStore,
	logger *slog.Logger,
	writer io.Writer,
	alias, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	result := store.ClearKey(ctx, alias)

	logger.Info("clear key finished",
		slog.String("alias", alias),
		slog.String("outcome", string(result.Outcome)),
	)

	if format == "json" {
		if err := writeJSON(writer, dto.MapDeleteResultToResponse(result)); err != nil {
			return err
		}
	} else {
		switch result.Outcome {
		case domain.DeleteOutcomeDeleted:
			_, _ = fmt.Fprintf(writer, "Key %s deleted\n", alias)
		case domain.DeleteOutcomeAbsent:
			_, _ = fmt.Fprintf(writer, "No key stored under %s\n", alias)
		default:
			_, _ = fmt.Fprintf(writer, "Failed to delete key %s\n", alias)
		}
	}

	if result.Failed() {
		return fmt.Errorf("failed to clear key %s: %w", alias, result.Err)
	}
	return nil
}

func readInput(reader io.Reader) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	value := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(value, "\r"), nil
}
