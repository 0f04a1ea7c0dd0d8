package model

import (
	"strings"
	"unicode"
)

func containsKanji(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}

func toLowerASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return unicode.ToLower(r)
		}
		return r
	}, s)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(haystack, strings.ToLower(needle))
}
