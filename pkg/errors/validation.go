package errors

import (
	"strings"
	"unicode"
)

// ValidateRange checks that v lies in [lo, hi].
// The returned error carries ErrCodeInvalidRange and names the value.
func ValidateRange(name string, v, lo, hi int) error {
	if v < lo || v > hi {
		return New(ErrCodeInvalidRange, "%s %d is out of [%d:%d] range", name, v, lo, hi)
	}
	return nil
}

// ValidateNonNegative checks that a configured limit is not negative.
// Zero is accepted and conventionally means "unlimited" or "use default".
func ValidateNonNegative(name string, v int64) error {
	if v < 0 {
		return New(ErrCodeInvalidOptions, "%s must not be negative (got %d)", name, v)
	}
	return nil
}

// ValidateFilename validates an output filename for safety.
//
// Validation rules:
//   - Filename cannot be empty
//   - Maximum length of 255 characters
//   - No control characters or null bytes
//   - No path traversal sequences (..)
func ValidateFilename(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "filename cannot be empty")
	}

	const maxFilenameLength = 255
	if len(name) > maxFilenameLength {
		return New(ErrCodeInvalidInput, "filename too long (max %d characters)", maxFilenameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "filename contains invalid characters")
		}
	}

	if strings.Contains(name, "..") {
		return New(ErrCodeInvalidInput, "filename cannot contain path traversal sequences (..)")
	}

	return nil
}
