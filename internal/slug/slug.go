// Package slug derives URL-safe identifiers from institution display names.
package slug

import "strings"

// Make normalizes a display name into a URL-safe slug: lowercased,
// characters outside [a-z0-9] collapsed into single hyphens, no leading
// or trailing hyphen. Returns "" when the name contains no usable runes.
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			// Whitespace, punctuation and any other rune act as a
			// separator; runs collapse into one hyphen.
			pendingHyphen = true
		}
	}

	return b.String()
}
