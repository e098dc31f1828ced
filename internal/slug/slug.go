// Package slug turns user-supplied filenames into safe storage-path
// tokens. User filenames are preserved verbatim in the catalog for
// display; only the slug ever reaches a storage key.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// Make lowercases the input, folds accented characters to their ASCII
// base form, and collapses every other run of non-alphanumeric characters
// into a single hyphen. An input with no usable characters yields "image".
func Make(in string) string {
	folded, _, err := transform.String(stripMarks, in)
	if err != nil {
		folded = in
	}

	var b strings.Builder
	b.Grow(len(folded))
	lastHyphen := true
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "image"
	}
	return out
}
