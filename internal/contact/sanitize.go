package contact

import "strings"

// Sanitize coerces an untrusted value to a safe string: non-string
// input becomes "", strings are trimmed and truncated to MaxFieldLen
// characters. Sanitizing an already-sanitized value is a no-op.
func Sanitize(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > MaxFieldLen {
		// Truncation can expose trailing whitespace; trim again so
		// the function stays idempotent.
		s = strings.TrimSpace(string(r[:MaxFieldLen]))
	}
	return s
}
