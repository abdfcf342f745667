package policy

import "strings"

// DeriveSlug converts a title or name to a URL-safe slug: lowercase ASCII
// letters and digits, with runs of anything else collapsed to a single hyphen
// and leading/trailing hyphens trimmed. Idempotent on an already-slugified
// string.
func DeriveSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	pending := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			pending = false
		default:
			pending = true
		}
	}
	return b.String()
}
