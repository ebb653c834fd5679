package util

import (
	"strings"
	"unicode"
)

// CleanText strips control and invisible format characters from user-supplied
// text and trims surrounding whitespace. Newlines and tabs survive when
// multiline is set.
func CleanText(s string, multiline bool) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if multiline && (r == '\n' || r == '\t') {
			b.WriteRune(r)
			continue
		}
		if unicode.IsControl(r) || isInvisible(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(b.String())
}

// CleanTextPtr applies CleanText to an optional field.
func CleanTextPtr(s *string, multiline bool) *string {
	if s == nil {
		return nil
	}
	cleaned := CleanText(*s, multiline)
	return &cleaned
}

// isInvisible reports zero-width and other format characters.
func isInvisible(r rune) bool {
	switch r {
	case '\u200B', '\u200C', '\u200D', '\u200E', '\u200F', '\u2060', '\uFEFF':
		return true
	}
	return unicode.Is(unicode.Cf, r)
}
