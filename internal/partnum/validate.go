package partnum

import (
	"strings"
	"unicode"

	"celinker/internal/services"
)

// Validate trims the raw part number and rejects inputs that would trigger
// unbounded scans downstream: empty strings, whitespace, or strings without
// a single alphanumeric character (bare wildcards and punctuation).
func Validate(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", services.Wrap(services.ErrInput, "validate", "", "part number must not be empty", nil)
	}
	for _, r := range trimmed {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return trimmed, nil
		}
	}
	return "", services.Wrap(services.ErrInput, "validate", "", "part number must contain alphanumeric characters", nil)
}
