package utils

import (
	"strings"
	"unicode"
)

// MaxClientNameLength bounds the display label stored with a session.
const MaxClientNameLength = 100

// NormalizeClientName trims and collapses whitespace in a client label and
// reports whether the result is usable: non-empty, printable and no longer
// than MaxClientNameLength runes.
func NormalizeClientName(name string) (string, bool) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "", false
	}

	runes := 0
	for _, char := range name {
		runes++
		if !unicode.IsPrint(char) {
			return "", false
		}
	}
	if runes > MaxClientNameLength {
		return "", false
	}
	return name, true
}
