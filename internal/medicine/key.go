package medicine

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName converts a name into its key form.
// Two names that render identically map to the same key, so "Paracétamol"
// typed with a combining accent collides with the precomposed spelling.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
