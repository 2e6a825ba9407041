package commands

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	"github.com/allisson/secretstore/internal/keystore/domain"
	"github.com/allisson/secretstore/internal/keystore/service"
)

const localSecretsProvider = "localsecrets"

// RunCreateKMSKey prepares the KMS configuration for the database backend.
//
// For the localsecrets provider an empty kmsKeyURI generates a fresh base64key://
// URI. For cloud providers (gcpkms, awskms, azurekeyvault, hashivault) the key must
// already exist and kmsKeyURI is required. In both cases the keeper is opened and
// a probe value is wrapped and unwrapped before the configuration is printed.
//
// Output format (text):
//   - KEY_STORE_BACKEND="database"
//   - KMS_PROVIDER="<provider>"
//   - KMS_KEY_URI="<uri>"
func RunCreateKMSKey(
	ctx context.Context,
	kmsService service.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider, kmsKeyURI, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if kmsProvider == "" {
		return fmt.Errorf("--kms-provider is required (localsecrets, gcpkms, awskms, azurekeyvault, hashivault)")
	}

	if kmsKeyURI == "" {
		if kmsProvider != localSecretsProvider {
			return fmt.Errorf("--kms-key-uri is required for provider %s", kmsProvider)
		}
		uri, err := generateLocalSecretsURI()
		if err != nil {
			return err
		}
		kmsKeyURI = uri
	}

	logger.Info("verifying kms key", slog.String("kms_provider", kmsProvider))

	if err := probeKeeper(ctx, kmsService, kmsKeyURI); err != nil {
		return err
	}

	if format == "json" {
		return writeJSON(writer, map[string]string{
			"key_store_backend": "database",
			"kms_provider":      kmsProvider,
			"kms_key_uri":       kmsKeyURI,
		})
	}

	if kmsProvider == localSecretsProvider {
		_, _ = fmt.Fprintln(writer, "# WARNING: localsecrets keeps the wrapping key in configuration. Use a cloud KMS in production.")
	}
	_, _ = fmt.Fprintln(writer, "# Add these to your environment (.env):")
	_, _ = fmt.Fprintln(writer, `KEY_STORE_BACKEND="database"`)
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=%q\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=%q\n", kmsKeyURI)
	return nil
}

func generateLocalSecretsURI() (string, error) {
	secret, err := service.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate local kms key: %w", err)
	}
	defer domain.Zero(secret)
	return "base64key://" + base64.URLEncoding.EncodeToString(secret), nil
}

// probeKeeper checks that the key at keyURI can wrap and unwrap data.
func probeKeeper(ctx context.Context, kmsService service.KMSService, keyURI string) error {
	keeper, err := kmsService.OpenKeeper(ctx, keyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() { _ = keeper.Close() }()

	probe, err := service.GenerateKey()
	if err != nil {
		return fmt.Errorf("failed to generate probe: %w", err)
	}

	wrapped, err := keeper.Encrypt(ctx, probe)
	if err != nil {
		return fmt.Errorf("failed to encrypt with KMS: %w", err)
	}

	unwrapped, err := keeper.Decrypt(ctx, wrapped)
	if err != nil {
		return fmt.Errorf("failed to decrypt with KMS: %w", err)
	}
	if !bytes.Equal(probe, unwrapped) {
		return fmt.Errorf("KMS round trip returned different data")
	}
	return nil
}
