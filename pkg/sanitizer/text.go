package sanitizer

import (
	"strings"
	"unicode"
)

// SingleLine collapses every run of whitespace and control characters into
// one space and trims the result. Use it for header values such as subjects.
func SingleLine(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			space = true
			continue
		}
		if space && b.Len() > 0 {
			b.WriteByte(' ')
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}
