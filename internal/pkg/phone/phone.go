// Package phone converts user-typed phone numbers into the canonical digit
// string used as the lookup key for users and one-time codes.
package phone

import "strings"

// Normalize strips everything but digits and coerces the result to the
// Russian 11-digit form: a leading 8 becomes 7, a bare 10-digit number gets
// a 7 prefix. Any other input is prefixed with 7 as well, so the function is
// total ("" yields "7") and never reports an error. Length is not checked
// here; request validation rejects malformed input earlier.
func Normalize(raw string) string {
	digits := Digits(raw)
	switch {
	case strings.HasPrefix(digits, "8"):
		return "7" + digits[1:]
	case strings.HasPrefix(digits, "7"):
		return digits
	default:
		return "7" + digits
	}
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Mask hides all but the last four digits so numbers can be logged.
func Mask(p string) string {
	if len(p) <= 4 {
		return strings.Repeat("*", len(p))
	}
	return strings.Repeat("*", len(p)-4) + p[len(p)-4:]
}
