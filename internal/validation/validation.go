// Package validation checks request input before it reaches the services.
package validation

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID     = fmt.Errorf("invalid UUID format")
	ErrInvalidCurrency = fmt.Errorf("invalid currency code")
	ErrEmptySlice      = fmt.Errorf("slice cannot be empty")
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateCurrency checks that code is a known ISO 4217 currency.
// Matching ignores case and surrounding whitespace.
func ValidateCurrency(code string) error {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if len(normalized) != 3 || money.GetCurrency(normalized) == nil {
		return fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return nil
}
