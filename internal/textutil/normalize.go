// file: internal/textutil/normalize.go
// version: 1.1.0
// guid: 3f8a1b2c-9d4e-4f6a-8b0c-7d2e5f1a4b3c

package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lowercases s, trims surrounding whitespace, and collapses every
// internal run of whitespace to a single space. It is the basis for all
// string comparison in the matching pipeline.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

var accentFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold normalizes s and additionally strips diacritics, so that
// "Brontë" and "Bronte" compare equal. Used for lenient local lookups,
// not for candidate scoring.
func Fold(s string) string {
	folded, _, err := transform.String(accentFolder, Normalize(s))
	if err != nil {
		return Normalize(s)
	}
	return folded
}
