// Package intent implements the intent resolver (spec component C3): it
// decides forward vs reverse search, detects likely English input, extracts
// parenthetical hints from reverse-search queries, and maps English base
// words to core Japanese headwords, honorific forms, and core kanji.
package intent

import (
	"strings"

	"github.com/tomoshibi/kotoba/pkg/model"
)

// Resolution is the outcome of resolving intent for a classified query.
type Resolution struct {
	// Hint is the parenthetical disambiguation hint, e.g. "language" from
	// "japanese (language)". Empty when none was present or the query is
	// not a reverse search.
	Hint string
	// Base is the query with any "(hint)" suffix stripped (for a reverse
	// search); a leading "to " is kept. CoreSet, CoreKanjiFor and
	// HonorificFormsFor handle the "to " prefix when looking Base up.
	Base             string
	UseReverseSearch bool
	IsEnglish        bool
}

// Resolve decides search direction and intent for a query already
// classified by classify.Classify, using the pre-normalization query (so
// casing/hints are still intact for parenthetical extraction).
func Resolve(query string, script model.ScriptType) Resolution {
	res := Resolution{Base: query}

	switch script {
	case model.ScriptKanji:
		res.UseReverseSearch = true
	case model.ScriptRomaji:
		res.IsEnglish = IsLikelyEnglish(query)
		res.UseReverseSearch = res.IsEnglish
	default:
		// hiragana, katakana, japanese_kanji_short, mixed: forward search
	}

	if res.UseReverseSearch {
		base, hint := ExtractParentheticalHint(query)
		res.Base = base
		res.Hint = hint
	}

	return res
}

// IsLikelyEnglish applies the romaji-only heuristic of spec §4.3.
func IsLikelyEnglish(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if len(q) < 2 {
		return false
	}
	if japaneseParticleBlacklist[q] {
		return false
	}
	if englishWhitelist[q] {
		return true
	}
	for _, p := range antiHeuristicPrefixes {
		if strings.HasPrefix(q, p) {
			rest := q[len(p):]
			if strings.HasPrefix(rest, "be") || strings.HasPrefix(rest, "ku") {
				return false
			}
		}
	}
	return true
}

// ExtractParentheticalHint splits a reverse-search query of the form
// "base (hint)" into its base and hint. If there is no well-formed
// trailing parenthetical, the whole (trimmed) query is returned as base
// with an empty hint.
func ExtractParentheticalHint(query string) (base, hint string) {
	q := strings.TrimSpace(query)
	open := strings.LastIndex(q, "(")
	closeIdx := strings.LastIndex(q, ")")
	if open < 0 || closeIdx < 0 || closeIdx < open || closeIdx != len(q)-1 {
		return q, ""
	}
	hint = strings.TrimSpace(q[open+1 : closeIdx])
	base = strings.TrimSpace(q[:open])
	if base == "" {
		return q, ""
	}
	return base, hint
}

// CoreSet resolves the ordered sequence of core Japanese headwords for a
// reverse-search base, per spec §4.3: for two-word inputs prefixed by
// "to ", strip "to " and try the full remainder first, then the first
// word; the hint (if it has its own mapping) augments the result.
func CoreSet(base, hint string) []string {
	candidates := candidateBases(base)

	var out []string
	seen := map[string]bool{}
	for _, c := range candidates {
		if words, ok := CoreHeadwords[c]; ok {
			for _, w := range words {
				if !seen[w] {
					seen[w] = true
					out = append(out, w)
				}
			}
		}
	}
	if hint != "" {
		if words, ok := CoreHeadwords[strings.ToLower(strings.TrimSpace(hint))]; ok {
			for _, w := range words {
				if !seen[w] {
					seen[w] = true
					out = append(out, w)
				}
			}
		}
	}
	return out
}

// candidateBases returns the lookup keys to try, in priority order, for
// resolving an English base string against the core-word tables.
func candidateBases(base string) []string {
	b := strings.ToLower(strings.TrimSpace(base))
	var out []string
	if strings.HasPrefix(b, "to ") {
		remainder := strings.TrimSpace(strings.TrimPrefix(b, "to "))
		if remainder != "" {
			out = append(out, remainder)
			if sp := strings.IndexByte(remainder, ' '); sp > 0 {
				out = append(out, remainder[:sp])
			}
		}
	} else {
		out = append(out, b)
	}
	return out
}

// HonorificFormsFor returns the honorific/humble whitelist for an English
// base word's lookup key (as produced by candidateBases), or nil.
func HonorificFormsFor(base string) map[string]bool {
	for _, c := range candidateBases(base) {
		if forms, ok := HonorificWhitelist[c]; ok {
			return forms
		}
	}
	return nil
}

// CoreKanjiFor returns the core-kanji set for an English base word's
// lookup key, or nil.
func CoreKanjiFor(base string) map[rune]bool {
	for _, c := range candidateBases(base) {
		if k, ok := CoreKanji[c]; ok {
			return k
		}
	}
	return nil
}
