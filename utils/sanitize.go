package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxTextLength = 1000

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup and control bytes from user supplied text.
func SanitizeText(input string) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = strictPolicy.Sanitize(input)
	// bluemonday escapes entities; stored text is plain.
	input = html.UnescapeString(input)
	input = strings.TrimSpace(input)
	if len([]rune(input)) > maxTextLength {
		input = string([]rune(input)[:maxTextLength])
	}
	return input
}

func SanitizeTextPtr(input *string) *string {
	if input == nil {
		return nil
	}
	clean := SanitizeText(*input)
	return &clean
}
