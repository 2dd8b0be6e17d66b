package match

import "unicode/utf8"

// Truncate clips s to at most n bytes without splitting a rune. CRM
// fields reject longer values outright, so values are clipped before
// they reach a write payload.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
