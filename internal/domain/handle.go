package domain

import (
	"strings"
	"unicode"
)

// MinHandleLength is the shortest handle the identity check accepts.
const MinHandleLength = 3

// handlePrefixes are stripped, in order, before the leading @.
var handlePrefixes = []string{
	"https://t.me/",
	"http://t.me/",
	"t.me/",
}

// NormalizeHandle turns user input into a bare channel handle.
// Examples:
//   - "@my_channel" -> "my_channel"
//   - "https://t.me/my_channel" -> "my_channel"
//   - "  tech_insider " -> "tech_insider"
func NormalizeHandle(input string) string {
	s := strings.TrimSpace(input)
	lower := strings.ToLower(s)
	for _, prefix := range handlePrefixes {
		if strings.HasPrefix(lower, prefix) {
			s = s[len(prefix):]
			break
		}
	}
	s = strings.TrimPrefix(s, "@")
	return strings.TrimSpace(s)
}

// ValidHandle reports whether a normalized handle is at least
// MinHandleLength characters of ASCII letters, digits and underscores.
func ValidHandle(handle string) bool {
	if len(handle) < MinHandleLength {
		return false
	}
	for _, r := range handle {
		if !isHandleRune(r) {
			return false
		}
	}
	return true
}

func isHandleRune(r rune) bool {
	if r > unicode.MaxASCII {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// NormalizeQuery prepares a free-text search query: trimmed, lowercased
// and with a leading @ dropped. An @ inside the query is kept so titles
// containing one stay searchable.
func NormalizeQuery(query string) string {
	q := strings.ToLower(strings.TrimSpace(query))
	return strings.TrimPrefix(q, "@")
}
