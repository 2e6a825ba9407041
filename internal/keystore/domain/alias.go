package domain

import (
	"fmt"
	"strings"
)

// ValidateAlias checks that alias is non-empty, at most MaxAliasLength bytes and
// built only from ASCII letters, digits, dot, underscore and hyphen. Aliases name
// files in the file backend, so path separators are never accepted.
func ValidateAlias(alias string) error {
	if alias == "" {
		return fmt.Errorf("%w: alias is empty", ErrInvalidAlias)
	}
	if len(alias) > MaxAliasLength {
		return fmt.Errorf("%w: alias exceeds %d bytes", ErrInvalidAlias, MaxAliasLength)
	}
	if strings.Trim(alias, ".") == "" {
		return fmt.Errorf("%w: alias %q is reserved", ErrInvalidAlias, alias)
	}
	for _, r := range alias {
		if !isAliasRune(r) {
			return fmt.Errorf("%w: alias contains %q", ErrInvalidAlias, r)
		}
	}
	return nil
}

func isAliasRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '.', r == '_', r == '-':
		return true
	}
	return false
}
