// Package slug turns titles and taxonomy values into URL-safe tokens.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// removed lists the punctuation that disappears without leaving a separator.
const removed = `&,+()$~%.'":*?<>{}`

// Slugify lower-cases s, folds diacritics on Latin letters, drops the
// removable punctuation and collapses every remaining run of separators into
// a single hyphen.
//
// Letters, digits, '_' and combining marks of non-Latin scripts make up
// words; everything else separates them. Slugify is idempotent.
func Slugify(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	var last rune // last base rune written
	for _, r := range norm.NFD.String(strings.ToLower(s)) {
		switch {
		case strings.ContainsRune(removed, r):
			continue
		case unicode.Is(unicode.M, r):
			if last == 0 || pendingSep {
				pendingSep = true
				continue
			}
			// "é" decomposes to "e" + U+0301; Latin letters lose their marks.
			if unicode.Is(unicode.Latin, last) {
				continue
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
		default:
			pendingSep = true
			continue
		}
		if pendingSep && b.Len() > 0 {
			b.WriteByte('-')
		}
		pendingSep = false
		b.WriteRune(unicode.ToLower(r))
		if !unicode.Is(unicode.M, r) {
			last = r
		}
	}
	return norm.NFC.String(b.String())
}
