// Package sanitize prepares untrusted form text for use in email headers and bodies.
package sanitize

import "strings"

// MaxLength is the number of runes kept by Clean.
const MaxLength = 2000

var (
	lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")
	htmlChars  = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
)

// Clean replaces CR and LF with spaces, trims surrounding whitespace and caps the
// result at MaxLength runes.
func Clean(s string) string {
	s = strings.TrimSpace(lineBreaks.Replace(s))
	return truncate(s, MaxLength)
}

// EscapeHTML escapes the characters that can alter HTML document structure.
func EscapeHTML(s string) string {
	return htmlChars.Replace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
