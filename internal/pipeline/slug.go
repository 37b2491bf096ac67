package pipeline

import (
	"strings"
	"unicode"
)

// Slugify derives an anchor id from heading text.
//
// Letters, digits, '-' and '_' are kept, whitespace becomes '-', periods are
// dropped, non-ASCII runes pass through and any other ASCII punctuation
// becomes '-'. Runs of hyphens collapse and leading or trailing hyphens are
// trimmed. Identical text always yields the same id; there is no
// deduplication suffix.
func Slugify(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('-')
		case r == '.':
		case r > unicode.MaxASCII:
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}

	parts := strings.Split(b.String(), "-")
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "-")
}
