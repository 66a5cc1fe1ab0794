package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// RequireText checks that value is non-blank, at most maxLen bytes and free of
// control characters.
func RequireText(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required: %w", field, ErrValidation)
	}
	return OptionalText(field, value, maxLen)
}

// OptionalText applies the RequireText limits to a value that may be empty.
func OptionalText(field, value string, maxLen int) error {
	if len(value) > maxLen {
		return fmt.Errorf("%s exceeds %d characters: %w", field, maxLen, ErrValidation)
	}
	for _, r := range value {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return fmt.Errorf("%s contains control characters: %w", field, ErrValidation)
		}
	}
	return nil
}

// OptionalEmail validates value as a bare address when non-empty.
func OptionalEmail(field, value string) error {
	if value == "" {
		return nil
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value {
		return fmt.Errorf("%s must be a valid email address: %w", field, ErrValidation)
	}
	return nil
}

// OneOf checks that value is one of allowed.
func OneOf[T ~string](field string, value T, allowed ...T) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s %q is not allowed: %w", field, value, ErrValidation)
}

// NonNegative checks that n >= 0.
func NonNegative[T ~int | ~int32 | ~int64 | ~float64](field string, n T) error {
	if n < 0 {
		return fmt.Errorf("%s must not be negative: %w", field, ErrValidation)
	}
	return nil
}
