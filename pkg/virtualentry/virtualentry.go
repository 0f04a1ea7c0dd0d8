// Package virtualentry synthesizes a kana-form entry for "usually written
// in kana" words when the store holds only their kanji spelling (spec
// component C8). The synthesized entry is never persisted: it carries
// model.VirtualEntryID and exists only for the lifetime of one query's
// result vector.
package virtualentry

import "github.com/tomoshibi/kotoba/pkg/model"

// usuallyKana is the fixed table of query → (jlpt level, is adverb) this
// injector recognizes. These are common JMdict "usually kana" (uk) words:
// their canonical written form is kana even though a kanji spelling
// exists and is sometimes used.
var usuallyKana = map[string]usuallyKanaEntry{
	"できる":   {jlpt: model.JLPTN5, isAdverb: false},
	"ください":  {jlpt: model.JLPTN5, isAdverb: false},
	"わかる":   {jlpt: model.JLPTN5, isAdverb: false},
	"くれる":   {jlpt: model.JLPTN4, isAdverb: false},
	"やはり":   {jlpt: model.JLPTN3, isAdverb: true},
	"ちょっと":  {jlpt: model.JLPTN5, isAdverb: true},
	"すごい":   {jlpt: model.JLPTN3, isAdverb: false},
}

type usuallyKanaEntry struct {
	jlpt     model.JLPTLevel
	isAdverb bool
}

// Lookup reports whether query is a recognized usually-kana word and its
// table entry.
func Lookup(query string) (jlpt model.JLPTLevel, isAdverb bool, ok bool) {
	e, ok := usuallyKana[query]
	return e.jlpt, e.isAdverb, ok
}

// Inject synthesizes and prepends a virtual kana-form entry to results
// when query is a usually-kana word, no result's headword already equals
// query, and some result has a kanji headword whose reading matches query
// exactly. It returns results unchanged otherwise.
func Inject(query string, results []model.Entry) []model.Entry {
	jlpt, _, ok := Lookup(query)
	if !ok {
		return results
	}

	for _, e := range results {
		if e.Headword == query {
			return results
		}
	}

	var source *model.Entry
	for i := range results {
		if results[i].ReadingHiragana == query && containsKanji(results[i].Headword) {
			source = &results[i]
			break
		}
	}
	if source == nil {
		return results
	}

	virtual := model.Entry{
		ID:              model.VirtualEntryID,
		Headword:        query,
		ReadingHiragana:  source.ReadingHiragana,
		ReadingRomaji:   source.ReadingRomaji,
		FrequencyRank:   source.FrequencyRank,
		CreatedAt:       source.CreatedAt,
		JLPTLevel:       jlpt,
		Senses:          source.Senses,
	}

	out := make([]model.Entry, 0, len(results)+1)
	out = append(out, virtual)
	out = append(out, results...)
	return out
}

func containsKanji(s string) bool {
	for _, r := range s {
		if r >= 0x4E00 && r <= 0x9FFF {
			return true
		}
	}
	return false
}
