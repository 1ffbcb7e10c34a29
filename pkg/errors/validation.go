package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxGenerations bounds the depth a caller may request.
const MaxGenerations = 64

// personIDRegex matches document ids: hex ObjectIDs, UUIDs and simple slugs.
var personIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]*$`)

// ValidatePersonID validates a person identifier received from a caller.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - Maximum length of 128 characters
//   - Letters, digits, '.', '_', ':' and '-' only
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidRoot, "person id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidRoot, "person id too long (max 128 characters)")
	}

	if !personIDRegex.MatchString(id) {
		return New(ErrCodeInvalidRoot, "invalid person id: %q", id)
	}

	return nil
}

// ValidateGenerations validates a requested generation count. Zero means
// unlimited.
func ValidateGenerations(n int) error {
	if n < 0 {
		return New(ErrCodeInvalidInput, "generations cannot be negative: %d", n)
	}
	if n > MaxGenerations {
		return New(ErrCodeInvalidInput, "generations too large (max %d)", MaxGenerations)
	}
	return nil
}

// ValidatePath validates a relative artifact path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string against a set of allowed schemes.
// With no schemes given, only http and https are accepted.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if len(schemes) == 0 {
		schemes = []string{"http", "https"}
	}

	for _, s := range schemes {
		if strings.HasPrefix(rawURL, s+"://") {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use one of the schemes %s", strings.Join(schemes, ", "))
}
