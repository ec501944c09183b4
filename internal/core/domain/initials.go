package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Initials builds the avatar text for a display name: "U" for an empty name,
// the first letter of a single word, or the first letters of the first two
// words, upper-cased.
func Initials(name string) string {
	words := strings.Fields(name)
	switch len(words) {
	case 0:
		return "U"
	case 1:
		return firstUpper(words[0])
	default:
		return firstUpper(words[0]) + firstUpper(words[1])
	}
}

func firstUpper(w string) string {
	r, _ := utf8.DecodeRuneInString(w)
	return string(unicode.ToUpper(r))
}

func containsTemp(password string) bool {
	return strings.Contains(password, "Temp")
}
