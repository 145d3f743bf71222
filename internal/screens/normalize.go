package screens

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// normalizeName canonicalizes user-entered entity names: Unicode NFC,
// surrounding whitespace trimmed, internal runs of whitespace collapsed.
func normalizeName(name string) string {
	name = norm.NFC.String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(name), " ")
}

// nameKey returns the case-folded comparison key for uniqueness checks.
func nameKey(name string) string {
	return foldCaser.String(normalizeName(name))
}
