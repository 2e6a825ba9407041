package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/allisson/secretstore/internal/keystore/service"
	customValidation "github.com/allisson/secretstore/internal/validation"
)

// minTokenLength is the shortest operator-chosen token accepted.
const minTokenLength = 32

// RunHashAPIToken prints the API_TOKEN_HASH that enables bearer authentication on
// the API. When plainToken is empty a random token is generated and printed once;
// otherwise the given token is checked for strength and hashed.
func RunHashAPIToken(
	tokenService service.TokenService,
	logger *slog.Logger,
	writer io.Writer,
	plainToken, format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	var (
		tokenHash string
		generated bool
		err       error
	)

	if plainToken == "" {
		plainToken, tokenHash, err = tokenService.GenerateToken()
		if err != nil {
			return fmt.Errorf("failed to generate api token: %w", err)
		}
		generated = true
	} else {
		plainToken = strings.TrimRight(plainToken, "\r\n")
		if err := validation.Validate(
			plainToken,
			validation.Required,
			customValidation.NoWhitespace,
			customValidation.TokenStrength{
				MinLength:     minTokenLength,
				RequireUpper:  true,
				RequireLower:  true,
				RequireNumber: true,
			},
		); err != nil {
			return fmt.Errorf("invalid api token: %w", err)
		}
		tokenHash, err = tokenService.HashToken(plainToken)
		if err != nil {
			return fmt.Errorf("failed to hash api token: %w", err)
		}
	}

	logger.Info("api token hashed", slog.Bool("generated", generated))

	if format == "json" {
		result := map[string]string{"api_token_hash": tokenHash}
		if generated {
			result["api_token"] = plainToken
		}
		return writeJSON(writer, result)
	}

	if generated {
		_, _ = fmt.Fprintln(writer, "# Bearer token for API clients (shown only once):")
		_, _ = fmt.Fprintf(writer, "API_TOKEN=%q\n", plainToken)
	}
	_, _ = fmt.Fprintln(writer, "# Add this to the server environment (.env):")
	_, _ = fmt.Fprintf(writer, "API_TOKEN_HASH=%q\n", tokenHash)
	return nil
}
