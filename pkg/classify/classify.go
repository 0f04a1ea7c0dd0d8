// Package classify implements the script classifier (spec component C1):
// it buckets a trimmed query into one of the ScriptType values by the
// Unicode blocks its characters fall in.
package classify

import (
	"strings"

	"github.com/tomoshibi/kotoba/pkg/model"
)

const longVowelMark = 'ー'

func isHiragana(r rune) bool { return r >= 0x3040 && r <= 0x309F }
func isKatakana(r rune) bool { return r >= 0x30A0 && r <= 0x30FF }
func isCJK(r rune) bool      { return r >= 0x4E00 && r <= 0x9FFF }
func isASCIILetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// Classify classifies the given query into a ScriptType per spec §4.1.
// An empty (post-trim) query classifies as mixed. Numerics and the
// long-vowel mark ー are tolerated but do not influence classification.
func Classify(query string) model.ScriptType {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return model.ScriptMixed
	}

	var hasHiragana, hasKatakana, hasCJK, hasASCII bool
	cjkCount := 0
	for _, r := range trimmed {
		switch {
		case r == longVowelMark:
			// ignored for classification
		case isHiragana(r):
			hasHiragana = true
		case isKatakana(r):
			hasKatakana = true
		case isCJK(r):
			hasCJK = true
			cjkCount++
		case isASCIILetter(r):
			hasASCII = true
		default:
			// numerics and punctuation: ignored
		}
	}

	switch {
	case hasCJK && (hasHiragana || hasKatakana):
		return model.ScriptMixed
	case hasASCII && !hasCJK && !hasHiragana && !hasKatakana:
		return model.ScriptRomaji
	case hasHiragana && !hasKatakana && !hasCJK:
		return model.ScriptHiragana
	case hasKatakana && !hasHiragana && !hasCJK:
		return model.ScriptKatakana
	case hasCJK && !hasHiragana && !hasKatakana:
		if cjkCount <= 3 {
			return model.ScriptJapaneseKanjiShort
		}
		return model.ScriptKanji
	default:
		return model.ScriptMixed
	}
}
