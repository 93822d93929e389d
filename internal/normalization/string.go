package normalization

import (
	"strings"
)

// ParseEmail lowercases and trims an email address for storage and lookup.
func ParseEmail(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// TrimInput trims surrounding whitespace without changing case. Passwords
// and free-text fields go through this, never through ParseEmail.
func TrimInput(input string) string {
	return strings.TrimSpace(input)
}
