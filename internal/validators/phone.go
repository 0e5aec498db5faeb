package validators

import "strings"

// NormalizePhone keeps digits and a leading plus. It returns "" when fewer
// than 8 digits remain.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(strings.TrimPrefix(out, "+")) < 8 {
		return ""
	}
	return out
}
