// Package model holds the data types shared across the ranking pipeline:
// dictionary entries and senses as read from the store, and the derived
// types (ScoringContext, RankedEntry, ScoreBreakdown) produced while ranking
// a query.
package model

import "time"

// JLPTLevel is the Japanese-Language Proficiency Test level of an entry,
// N5 (beginner) through N1 (advanced). The zero value means "no level".
type JLPTLevel string

const (
	JLPTNone JLPTLevel = ""
	JLPTN5   JLPTLevel = "N5"
	JLPTN4   JLPTLevel = "N4"
	JLPTN3   JLPTLevel = "N3"
	JLPTN2   JLPTLevel = "N2"
	JLPTN1   JLPTLevel = "N1"
)

// Rank returns the ordinal used for jlpt tie-breaking and scoring, with N5
// the highest (5) and N1 the lowest (1); JLPTNone sorts last (0).
func (l JLPTLevel) Rank() int {
	switch l {
	case JLPTN5:
		return 5
	case JLPTN4:
		return 4
	case JLPTN3:
		return 3
	case JLPTN2:
		return 2
	case JLPTN1:
		return 1
	case JLPTNone:
		return 0
	default:
		return 0
	}
}

// VirtualEntryID is the sentinel id every synthesized, non-persisted entry
// carries. Real entries from the store always have a positive id.
const VirtualEntryID = -1

// Entry is an immutable dictionary headword as read from the store, plus
// one synthetic case: a virtual kana-form entry injected by the virtual
// entry injector (id == VirtualEntryID).
type Entry struct {
	CreatedAt       time.Time
	Headword        string
	ReadingHiragana string
	ReadingRomaji   string
	PitchAccent     *string
	JLPTLevel       JLPTLevel
	FrequencyRank   *int
	Senses          []Sense
	ID              int64
}

// IsVirtual reports whether this entry was synthesized for a single query
// and must never be persisted.
func (e Entry) IsVirtual() bool {
	return e.ID < 0
}

// IsRareKanji is true when the headword contains kanji but at least one
// sense carries a "usually written in kana" usage-note marker: a kanji
// surface form for a word whose canonical written form is kana.
func (e Entry) IsRareKanji() bool {
	if !containsKanji(e.Headword) {
		return false
	}
	for _, s := range e.Senses {
		if hasUsuallyKanaMarker(s.UsageNotes) {
			return true
		}
	}
	return false
}

var usuallyKanaMarkers = []string{
	"usually written using kana alone",
	"usually kana",
	"kana alone",
	"かな書き",
}

func hasUsuallyKanaMarker(usageNotes string) bool {
	lower := toLowerASCII(usageNotes)
	for _, m := range usuallyKanaMarkers {
		if containsFold(lower, m) {
			return true
		}
	}
	return false
}

// Sense is one gloss group of an Entry.
type Sense struct {
	DefinitionEnglish           string
	DefinitionChineseSimplified string
	DefinitionChineseTraditional string
	PartOfSpeech                string
	UsageNotes                  string
	Examples                    []Example
	ID                          int64
	EntryID                     int64
	SenseOrder                  int
}

// Example is one usage example attached to a Sense.
type Example struct {
	Japanese string
	English  string
}

// MatchType classifies how a result matched the normalized query.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchPrefix   MatchType = "prefix"
	MatchContains MatchType = "contains"
	MatchNone     MatchType = "none"
)

// Bucket is the coarse ordering class a hard rule assigns a candidate to.
// A is best, D is worst; C is the default when no rule matches.
type Bucket string

const (
	BucketA Bucket = "A"
	BucketB Bucket = "B"
	BucketC Bucket = "C"
	BucketD Bucket = "D"
)

// bucketRank gives buckets a total order: A < B < C < D.
var bucketRank = map[Bucket]int{BucketA: 0, BucketB: 1, BucketC: 2, BucketD: 3}

// Less reports whether bucket b precedes bucket other in the total order.
func (b Bucket) Less(other Bucket) bool {
	return bucketRank[b] < bucketRank[other]
}

// GroupType is a coarse, purely presentational classification; it never
// affects ordering.
type GroupType string

const (
	GroupBasicWord    GroupType = "basicWord"
	GroupCommonPhrase GroupType = "commonPhrase"
	GroupDerivative   GroupType = "derivative"
	GroupOther        GroupType = "other"
)

// ScriptType is the result of classifying a raw query by Unicode script.
type ScriptType string

const (
	ScriptHiragana        ScriptType = "hiragana"
	ScriptKatakana        ScriptType = "katakana"
	ScriptKanji           ScriptType = "kanji"
	ScriptJapaneseKanjiShort ScriptType = "japanese_kanji_short"
	ScriptRomaji          ScriptType = "romaji"
	ScriptMixed           ScriptType = "mixed"
)

// ScoringContext is the per-query input every feature and hard rule is
// evaluated against, in addition to the candidate Entry itself.
type ScoringContext struct {
	QueryNormalized  string
	ScriptType       ScriptType
	MatchType        MatchType
	IsExactHeadword  bool
	IsLemmaMatch     bool
	UseReverseSearch bool
}

// ScoreBreakdown is the per-entry score decomposition used for debugging
// and A/B comparisons.
type ScoreBreakdown struct {
	FeatureScores map[string]float64
	BucketRule    string
	Total         float64
}

// RankedEntry is an Entry annotated with the outcome of the ranking engine
// and result classifier.
type RankedEntry struct {
	Breakdown *ScoreBreakdown
	Entry     Entry
	MatchType MatchType
	Bucket    Bucket
	GroupType GroupType
	Score     float64
}
