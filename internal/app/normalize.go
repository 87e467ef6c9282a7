package app

import (
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes an answer for comparison: NFKC compatibility
// folding (full-width digits and letters become half-width), commas and
// spaces stripped, lower-cased, remaining runes sorted by code point.
// Sorting makes multi-item answers order-independent, so "B,A" and "A, B"
// compare equal. Lower-casing happens before the sort so the result is
// idempotent and casing never affects rune order.
func Normalize(raw string) string {
	s := norm.NFKC.String(raw)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	runes := []rune(strings.ToLower(s))
	slices.Sort(runes)
	return string(runes)
}
