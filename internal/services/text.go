package services

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// cleanLine NFC-normalizes s, trims it and collapses inner whitespace.
// Used for single-line fields such as names, titles and locations.
func cleanLine(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(norm.NFC.String(s)), " ")
}

// cleanText NFC-normalizes and trims multi-line text, keeping line breaks.
func cleanText(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// normalizeEmail returns the case-folded form used as the login key.
// Casers are stateful, so one is built per call.
func normalizeEmail(s string) string {
	return cases.Fold().String(strings.TrimSpace(norm.NFC.String(s)))
}
