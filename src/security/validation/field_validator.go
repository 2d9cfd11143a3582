// backend/src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrValidationFailed is the sentinel wrapped by every field validation error.
var ErrValidationFailed = fmt.Errorf("validation failed")

// Field bounds for user-supplied data.
const (
	MinTitleLength       = 3
	MaxTitleLength       = 50
	MaxDescriptionLength = 1024
	MaxCategoryKeyLength = 30
	MaxAmount            = 1_000_000.0
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateTitle enforces the 3-50 character bound on transaction titles.
func ValidateTitle(s string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(s))
	if n < MinTitleLength || n > MaxTitleLength {
		return fmt.Errorf("%w: Title must be between %d and %d characters", ErrValidationFailed, MinTitleLength, MaxTitleLength)
	}
	return nil
}

// --- Numeric Validators ---

// ValidateAmount checks a transaction amount: strictly positive, capped.
func ValidateAmount(v float64) error {
	if v <= 0 {
		return fmt.Errorf("%w: Amount must be positive", ErrValidationFailed)
	}
	if v > MaxAmount {
		return fmt.Errorf("%w: Amount must not exceed %.0f", ErrValidationFailed, MaxAmount)
	}
	return nil
}

// --- Date Validator ---

// ValidateDateString checks if a string is a valid date in "YYYY-MM-DD" format.
func ValidateDateString(s, fieldName string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, fieldName); err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation("2006-01-02", trimmed, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s ('%s') is not a valid date (expected YYYY-MM-DD): %v", ErrValidationFailed, fieldName, s, err)
	}
	return t, nil
}

// --- Specific Format Validators ---

var (
	categoryKeyRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)
	hexColorRegex    = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
	ethAddressRegex  = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// ValidateCategoryKey checks the identifier used to key the category registry.
func ValidateCategoryKey(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "Category key"); err != nil {
		return err
	}
	if err := ValidateStringMaxLength(trimmed, MaxCategoryKeyLength, "Category key"); err != nil {
		return err
	}
	if !categoryKeyRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: Category key ('%s') must be lowercase alphanumeric with underscores", ErrValidationFailed, s)
	}
	return nil
}

// ValidateHexColor checks a display color in #RRGGBB form.
func ValidateHexColor(s string) error {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	if !hexColorRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: Color ('%s') is not a valid #RRGGBB value", ErrValidationFailed, s)
	}
	return nil
}

// ValidateEthAddress checks an Ethereum wallet address (0x + 40 hex chars).
// Checksum casing is not verified; the RPC endpoint accepts either form.
func ValidateEthAddress(s string) error {
	trimmed := strings.TrimSpace(s)
	if err := ValidateStringNotEmpty(trimmed, "Wallet address"); err != nil {
		return err
	}
	if !ethAddressRegex.MatchString(trimmed) {
		return fmt.Errorf("%w: Wallet address ('%s') is not a valid Ethereum address", ErrValidationFailed, s)
	}
	return nil
}
