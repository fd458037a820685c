package validation

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID   = fmt.Errorf("invalid UUID format")
	ErrInvalidSymbol = fmt.Errorf("invalid symbol format")
	ErrInvalidPeriod = fmt.Errorf("invalid period")
)

// symbolPattern accepts ticker symbols as served by the upstream providers:
// letters, digits, and the separators used by share classes (BRK-B) and
// non-US listings (RDS.A, 005930.KS).
var symbolPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9.\-^]{0,11}$`)

// validPeriods are the named chart ranges the history endpoint serves.
var validPeriods = map[string]bool{
	"1d": true, "5d": true, "1mo": true, "3mo": true, "6mo": true, "1y": true,
}

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ValidateSymbol checks that a ticker symbol is plausible before it is
// forwarded upstream.
func ValidateSymbol(symbol string) error {
	if !symbolPattern.MatchString(symbol) {
		return fmt.Errorf("%w: %q", ErrInvalidSymbol, symbol)
	}
	return nil
}

// ValidatePeriod checks that a chart period is one of the named ranges.
func ValidatePeriod(period string) error {
	if !validPeriods[period] {
		return fmt.Errorf("%w: %q", ErrInvalidPeriod, period)
	}
	return nil
}
