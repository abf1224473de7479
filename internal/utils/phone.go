package utils

import (
	"strings"
)

// NormalizePhone canonicalizes a raw sender identifier to "+<digits>".
// Strips the "whatsapp:" transport prefix and every non-digit character,
// then re-adds a single leading plus. Returns "" when no digits remain.
// Idempotent: NormalizePhone(NormalizePhone(x)) == NormalizePhone(x).
func NormalizePhone(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "whatsapp:")
	s = strings.TrimPrefix(s, "+")

	var digits strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return ""
	}
	return "+" + digits.String()
}

// LastDigits returns up to the last n digits of a phone number, used for
// trailing-digit containment matching against stored phone fields.
func LastDigits(phone string, n int) string {
	normalized := NormalizePhone(phone)
	digits := strings.TrimPrefix(normalized, "+")
	if len(digits) <= n {
		return digits
	}
	return digits[len(digits)-n:]
}
