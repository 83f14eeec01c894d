package identity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Generational suffixes stripped during normalization. Checked against the
// end of the name only; "Jr." in the middle of a name is left alone.
var nameSuffixes = []string{" jr.", " jr", " sr.", " sr", " ii", " iii", " iv", " v"}

var nonNameChars = regexp.MustCompile(`[^\p{L}\p{N}_\s\-]`)

var accentStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a player name for matching: accents removed
// (José → jose), terminal suffixes dropped, punctuation stripped, lowercased,
// whitespace collapsed. Empty input yields the empty string, and the result
// is stable under repeated application.
func Normalize(name string) string {
	if name == "" {
		return ""
	}

	stripped, _, err := transform.String(accentStripper, name)
	if err == nil {
		name = stripped
	}

	lower := strings.ToLower(name)
	for _, suffix := range nameSuffixes {
		if strings.HasSuffix(lower, suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}

	name = nonNameChars.ReplaceAllString(name, "")

	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}

// NameParts splits a normalized name into first and last tokens. A
// single-token name is treated as a bare surname.
func NameParts(name string) (first, last string) {
	parts := strings.Fields(Normalize(name))
	switch {
	case len(parts) >= 2:
		return parts[0], parts[len(parts)-1]
	case len(parts) == 1:
		return "", parts[0]
	}
	return "", ""
}
