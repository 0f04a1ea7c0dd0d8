// Package normalize implements the orthography normalizer (spec component
// C2): sanitization, length capping, script-aware normalization (romaji
// orthography folding, katakana->hiragana folding), and a pure kana-fold
// helper. The ranking package does not call the kana-fold helper.
package normalize

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tomoshibi/kotoba/pkg/model"
)

// MaxQueryRunes is the length cap on user-visible characters (spec §4.2).
const MaxQueryRunes = 100

var (
	// ErrInvalidCharacters is returned when sanitization removes every
	// character of a non-empty trimmed query.
	ErrInvalidCharacters = errors.New("invalid characters")
	// ErrQueryTooLong is returned when the trimmed query exceeds MaxQueryRunes.
	ErrQueryTooLong = errors.New("query_too_long")
)

var kunreiPairs = []struct{ from, to string }{
	{"si", "shi"},
	{"ti", "chi"},
	{"tu", "tsu"},
	{"hu", "fu"},
	{"zi", "ji"},
	{"di", "ji"},
	{"du", "zu"},
}

// Sanitize drops every character outside the allowed set (ASCII
// alphanumerics, whitespace, hiragana, katakana, CJK, and the long-vowel
// mark ー). It reports ErrInvalidCharacters if the result is empty but the
// (trimmed) input was not, and ErrQueryTooLong if the trimmed input exceeds
// MaxQueryRunes user-visible characters.
func Sanitize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if utf8.RuneCountInString(trimmed) > MaxQueryRunes {
		return "", fmt.Errorf("%w: %d characters", ErrQueryTooLong, utf8.RuneCountInString(trimmed))
	}

	trimmed = norm.NFC.String(trimmed)

	var b strings.Builder
	for _, r := range trimmed {
		if isAllowedRune(r) {
			b.WriteRune(r)
		}
	}
	sanitized := b.String()
	if sanitized == "" {
		return "", ErrInvalidCharacters
	}
	return sanitized, nil
}

func isAllowedRune(r rune) bool {
	switch {
	case r >= '0' && r <= '9':
		return true
	case (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		return true
	case unicode.IsSpace(r):
		return true
	case r >= 0x3040 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified
		return true
	case r == 'ー':
		return true
	default:
		return false
	}
}

// KanaFold folds katakana to hiragana by subtracting 0x60 from code points
// in U+30A1..U+30F6, leaving every other rune untouched. It is idempotent.
// Normalize uses it for non-romaji queries; no ranking feature or rule
// compares headwords through it.
func KanaFold(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= 0x30A1 && r <= 0x30F6 {
			b.WriteRune(r - 0x60)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize applies the script- and intent-dependent normalization rules
// of spec §4.2 to an already-sanitized query. isEnglish must reflect the
// intent resolver's decision for romaji queries; it is ignored for other
// scripts.
func Normalize(sanitized string, script model.ScriptType, isEnglish bool) string {
	switch script {
	case model.ScriptRomaji:
		lower := strings.ToLower(sanitized)
		if isEnglish {
			return lower
		}
		return foldKunreiToHepburn(lower)
	default:
		return KanaFold(sanitized)
	}
}

func foldKunreiToHepburn(s string) string {
	for _, p := range kunreiPairs {
		s = strings.ReplaceAll(s, p.from, p.to)
	}
	s = strings.ReplaceAll(s, "oo", "ou")
	return s
}
