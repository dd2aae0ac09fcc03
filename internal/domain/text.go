package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// cleanText trims surrounding whitespace and NFC-normalises s so that
// names typed with combining accents compare equal to precomposed ones.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
