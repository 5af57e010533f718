package models

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe       = regexp.MustCompile(`\s+`)
	trailingAsteriskRe = regexp.MustCompile(`\s*\*$`)
)

// NormalizeProduct canonicalizes a free-text product name for matching
// across sources: trim, lowercase, collapse whitespace, and a canonical
// trailing asterisk ("foo*" and "foo *" both become "foo *").
//
// Matching is exact on the normalized key; there is no fuzzy matching.
// Known misspellings go through the alias table in the reconciliation
// config instead, so every non-exact match stays auditable.
func NormalizeProduct(name string) string {
	out := strings.ToLower(strings.TrimSpace(name))
	out = whitespaceRe.ReplaceAllString(out, " ")
	out = trailingAsteriskRe.ReplaceAllString(out, " *")
	return out
}
