package display

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CanonicalName normalizes a player-supplied character name: surrounding
// and repeated whitespace collapses to single spaces and each word is
// title-cased, so "  rex the BOLD " becomes "Rex The Bold".
func CanonicalName(s string) string {
	// Casers carry state, so build one per call.
	return cases.Title(language.English).String(strings.Join(strings.Fields(s), " "))
}
