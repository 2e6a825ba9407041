package commands

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/secretstore/internal/keystore/service"
)

// RunCreateAgeIdentity generates the X25519 identity used by the file backend to
// encrypt key files at rest. The identity is a secret and must be stored like one;
// the recipient is printed for reference only.
//
// Output format (text):
//   - KEY_STORE_BACKEND="file"
//   - AGE_IDENTITY="AGE-SECRET-KEY-1..."
func RunCreateAgeIdentity(logger *slog.Logger, writer io.Writer, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	identity, recipient, err := service.GenerateAgeIdentity()
	if err != nil {
		return err
	}

	logger.Info("age identity generated", slog.String("recipient", recipient))

	if format == "json" {
		return writeJSON(writer, map[string]string{
			"key_store_backend": "file",
			"age_identity":      identity,
			"age_recipient":     recipient,
		})
	}

	_, _ = fmt.Fprintf(writer, "# Recipient: %s\n", recipient)
	_, _ = fmt.Fprintln(writer, "# Add these to your environment (.env):")
	_, _ = fmt.Fprintln(writer, `KEY_STORE_BACKEND="file"`)
	_, _ = fmt.Fprintf(writer, "AGE_IDENTITY=%q\n", identity)
	return nil
}
