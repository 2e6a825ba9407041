package validation

import (
	"fmt"
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/secretstore/internal/errors"
	"github.com/allisson/secretstore/internal/keystore/domain"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// TokenStrength validates that an API token is long and varied enough to be
// stored as a bearer credential.
type TokenStrength struct {
	MinLength     int
	RequireUpper  bool
	RequireLower  bool
	RequireNumber bool
}

// Validate checks if the token meets the configured requirements
func (p TokenStrength) Validate(value interface{}) error {
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_token_strength", "token must be a string")
	}

	if len(s) < p.MinLength {
		return validation.NewError(
			"validation_token_min_length",
			fmt.Sprintf("token must be at least %d characters", p.MinLength),
		)
	}

	if p.RequireUpper && !containsRune(s, unicode.IsUpper) {
		return validation.NewError("validation_token_uppercase", "token must contain at least one uppercase letter")
	}

	if p.RequireLower && !containsRune(s, unicode.IsLower) {
		return validation.NewError("validation_token_lowercase", "token must contain at least one lowercase letter")
	}

	if p.RequireNumber && !containsRune(s, unicode.IsNumber) {
		return validation.NewError("validation_token_number", "token must contain at least one number")
	}

	return nil
}

func containsRune(s string, pred func(rune) bool) bool {
	for _, r := range s {
		if pred(r) {
			return true
		}
	}
	return false
}

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// Alias validates a key alias using the key store naming rules.
var Alias = validation.NewStringRuleWithError(
	func(s string) bool {
		return domain.ValidateAlias(s) == nil
	},
	validation.NewError(
		"validation_alias",
		"must be 1-255 characters of letters, digits, '.', '_' or '-'",
	),
)
