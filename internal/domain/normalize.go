package domain

import (
	"strings"
)

// NormalizeValue prepares a preference or constraint value for comparison:
//   - trims leading/trailing whitespace
//   - converts to lowercase
//   - compresses multiple spaces into one
//
// The result is the dedup key within a category; the display form is kept
// separately. NormalizeValue is idempotent.
func NormalizeValue(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	value = strings.ToLower(value)

	// Compress multiple spaces into one.
	var b strings.Builder
	b.Grow(len(value))
	prevSpace := false
	for _, r := range value {
		if r == ' ' {
			if prevSpace {
				continue
			}
			prevSpace = true
		} else {
			prevSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
