// utils/validator.go - Input validation
package utils

import (
	"strings"
	"unicode/utf8"
)

// maxQueryLength caps free-text query parameters.
const maxQueryLength = 200

// SanitizeInput trims, drops null bytes and caps the length of a query value.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if utf8.RuneCountInString(input) > maxQueryLength {
		input = string([]rune(input)[:maxQueryLength])
	}
	return input
}
