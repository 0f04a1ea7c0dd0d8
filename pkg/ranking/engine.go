package ranking

import (
	"sort"
	"unicode/utf8"

	"github.com/tomoshibi/kotoba/pkg/config"
	"github.com/tomoshibi/kotoba/pkg/model"
)

// scoreTolerance is the floating-point slack the total-score comparison
// in the ordering cascade treats as a tie (spec §4.6 item 3).
const scoreTolerance = 0.001

// Candidate pairs an entry with the per-query signals (exact/lemma match,
// match type, script) the hard rules and features are evaluated against.
// Computing ScoringContext is the caller's job: it depends on the intent
// resolution and retrieval strategy that produced the entry, which the
// ranking engine has no visibility into.
type Candidate struct {
	Entry   model.Entry
	Context model.ScoringContext
}

// Engine evaluates a built Registry over a candidate vector, producing the
// final total order of spec §4.6.
type Engine struct {
	registry *Registry
}

// NewEngine wraps a built Registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// Rank assigns a bucket and score to every candidate and returns them in
// the spec's final ordering: bucket ascending, score descending (within
// tolerance), configured tie-breakers in order, then id ascending.
func (e *Engine) Rank(candidates []Candidate, tieBreakers []config.TieBreakerConfig) []model.RankedEntry {
	ranked := make([]model.RankedEntry, len(candidates))
	for i, c := range candidates {
		bucket, ruleName := e.assignBucket(c)
		breakdown := e.score(c)
		ranked[i] = model.RankedEntry{
			Entry:     c.Entry,
			MatchType: c.Context.MatchType,
			Bucket:    bucket,
			Score:     breakdown.Total,
			Breakdown: breakdown,
		}
		ranked[i].Breakdown.BucketRule = ruleName
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j], tieBreakers)
	})
	return ranked
}

func (e *Engine) assignBucket(c Candidate) (model.Bucket, string) {
	for _, r := range e.registry.rules {
		if r.rule.Matches(c.Entry, c.Context) {
			return r.rule.Bucket(), r.rule.Name()
		}
	}
	return model.BucketC, "default"
}

func (e *Engine) score(c Candidate) *model.ScoreBreakdown {
	breakdown := &model.ScoreBreakdown{FeatureScores: make(map[string]float64, len(e.registry.features))}
	for _, f := range e.registry.features {
		raw := f.feature.Raw(c.Entry, c.Context)
		contribution := f.score(raw)
		breakdown.FeatureScores[f.feature.Name()] = contribution
		breakdown.Total += contribution
	}
	return breakdown
}

// jlptBonus maps a JLPT level to the tie-breaking scalar of spec §4.6.
func jlptBonus(level model.JLPTLevel) int {
	switch level {
	case model.JLPTN5:
		return 5
	case model.JLPTN4:
		return 4
	case model.JLPTN3:
		return 3
	case model.JLPTN2:
		return 2
	case model.JLPTN1:
		return 1
	default:
		return 0
	}
}

func surfaceLength(e model.Entry) int {
	return utf8.RuneCountInString(e.Headword)
}

func tieBreakerValue(e model.Entry, field config.TieBreakerField) float64 {
	switch field {
	case config.TieBreakerFrequencyRank:
		if e.FrequencyRank == nil {
			return 1 << 30
		}
		return float64(*e.FrequencyRank)
	case config.TieBreakerJLPTBonus:
		return float64(jlptBonus(e.JLPTLevel))
	case config.TieBreakerSurfaceLength:
		return float64(surfaceLength(e))
	case config.TieBreakerCreatedAt:
		return float64(e.CreatedAt.Unix())
	case config.TieBreakerID:
		return float64(e.ID)
	default:
		return 0
	}
}

// less implements the total ordering of spec §4.6 item 3: bucket, then
// score (within scoreTolerance), then each configured tie-breaker in
// order, then id ascending as the final stable fallback.
func less(a, b model.RankedEntry, tieBreakers []config.TieBreakerConfig) bool {
	if a.Bucket != b.Bucket {
		return a.Bucket.Less(b.Bucket)
	}

	if diff := a.Score - b.Score; diff < -scoreTolerance || diff > scoreTolerance {
		return a.Score > b.Score
	}

	for _, tb := range tieBreakers {
		va := tieBreakerValue(a.Entry, tb.Field)
		vb := tieBreakerValue(b.Entry, tb.Field)
		if va == vb {
			continue
		}
		if tb.Order == config.OrderDescending {
			return va > vb
		}
		return va < vb
	}

	return a.Entry.ID < b.Entry.ID
}
