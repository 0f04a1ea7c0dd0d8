// Package resultclass implements the result classifier (spec component
// C9): it stamps each already-ordered entry with the display-facing
// match_type and group_type attributes. Ordering itself is never touched
// here — group_type in particular is documented as purely presentational.
package resultclass

import (
	"strings"

	"github.com/tomoshibi/kotoba/pkg/model"
)

const commonPhraseFrequencyThreshold = 200

// ForwardMatchType classifies a forward-search result by equality/prefix
// on headword, reading, or romaji, following the script-type rules of
// spec §4.1/§4.9.
func ForwardMatchType(query string, entry model.Entry) model.MatchType {
	if entry.Headword == query || entry.ReadingHiragana == query || entry.ReadingRomaji == query {
		return model.MatchExact
	}
	if strings.HasPrefix(entry.Headword, query) ||
		strings.HasPrefix(entry.ReadingHiragana, query) ||
		strings.HasPrefix(entry.ReadingRomaji, query) {
		return model.MatchPrefix
	}
	if strings.Contains(entry.Headword, query) || strings.Contains(entry.ReadingHiragana, query) {
		return model.MatchContains
	}
	return model.MatchNone
}

// ReverseMatchType classifies a reverse-search result by the best
// sense-level definition match quality: exact > prefix > contains > none.
// A clarifying parenthetical like "(language)" immediately after the
// query in a definition still counts as an exact match.
func ReverseMatchType(query string, entry model.Entry) model.MatchType {
	q := strings.ToLower(query)
	best := model.MatchNone
	for _, s := range entry.Senses {
		def := strings.ToLower(s.DefinitionEnglish)
		switch {
		case def == q, strings.HasPrefix(def, q+" ("):
			return model.MatchExact
		case strings.HasPrefix(def, q):
			best = model.MatchPrefix
		case strings.Contains(def, q):
			if best == model.MatchNone {
				best = model.MatchContains
			}
		}
	}
	return best
}

// GroupType classifies an already-ranked entry for display grouping; it
// never feeds back into ordering.
func GroupType(matchType model.MatchType, entry model.Entry) model.GroupType {
	if matchType == model.MatchExact {
		return model.GroupBasicWord
	}
	if entry.JLPTLevel != model.JLPTNone {
		return model.GroupCommonPhrase
	}
	if entry.FrequencyRank != nil {
		if *entry.FrequencyRank <= commonPhraseFrequencyThreshold {
			return model.GroupCommonPhrase
		}
		return model.GroupDerivative
	}
	return model.GroupOther
}

// Classify stamps MatchType and GroupType on a ranked entry; Bucket is
// left untouched since the ranking engine already assigned it.
func Classify(query string, useReverseSearch bool, ranked model.RankedEntry) model.RankedEntry {
	var matchType model.MatchType
	if useReverseSearch {
		matchType = ReverseMatchType(query, ranked.Entry)
	} else {
		matchType = ForwardMatchType(query, ranked.Entry)
	}
	ranked.MatchType = matchType
	ranked.GroupType = GroupType(matchType, ranked.Entry)
	return ranked
}
