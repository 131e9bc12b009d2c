// Package phone converts user-entered phone strings into a canonical
// E.164-style dialable form.
package phone

import "strings"

// Normalize converts a raw phone string to a +-prefixed dialable number.
// Inputs that already carry a + prefix are assumed canonical and returned
// trimmed but otherwise unchanged, which makes Normalize idempotent.
// Ten-digit inputs are treated as North American local numbers. Anything
// with an unexpected digit count is returned as-is so the downstream
// channel can reject and log it instead of this layer guessing.
func Normalize(raw string) string {
	if raw == "" {
		return raw
	}

	trimmed := strings.TrimSpace(raw)
	if strings.HasPrefix(trimmed, "+") {
		return trimmed
	}

	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	switch d := digits.String(); {
	case len(d) == 10:
		return "+1" + d
	case len(d) == 11 && d[0] == '1':
		return "+" + d
	default:
		return trimmed
	}
}
