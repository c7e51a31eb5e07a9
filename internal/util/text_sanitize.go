package util

import "strings"

// SanitizeText strips characters the chunk and policy text columns
// cannot hold. PDF extraction routinely emits NUL bytes and stray
// control characters; Postgres rejects NUL in text values outright.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.ReplaceAll(s, "\x00", "")

	// Keep newline, carriage return, and tab; drop other controls.
	r := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			r = append(r, ch)
			continue
		}
		if ch < 0x20 {
			continue
		}
		r = append(r, ch)
	}
	return strings.TrimSpace(string(r))
}
