// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// ParsePage reads optional page/page_size query values. ok is false when
// neither is present, meaning the caller wants the unpaginated listing.
// Size is clamped to [1, maxSize].
func ParsePage(page, size string, defSize, maxSize int) (p Page, ok bool) {
	if strings.TrimSpace(page) == "" && strings.TrimSpace(size) == "" {
		return Page{}, false
	}
	p.Number = AtoiDefault(page, 1)
	if p.Number < 1 {
		p.Number = 1
	}
	p.Size = AtoiDefault(size, defSize)
	if p.Size < 1 {
		p.Size = defSize
	}
	if maxSize > 0 && p.Size > maxSize {
		p.Size = maxSize
	}
	return p, true
}

// Preview returns s cut to at most n runes, with "..." appended when cut.
func Preview(s string, n int) string {
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
