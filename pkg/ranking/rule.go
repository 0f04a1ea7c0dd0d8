package ranking

import (
	"github.com/tomoshibi/kotoba/pkg/model"
)

// Rule is a hard bucket-assignment rule (spec §4.5). The engine evaluates
// enabled rules in priority order and assigns the bucket of the first one
// that matches; priority ordering alone gives the "suppressed when a
// higher-priority rule already held" behavior the spec describes for
// expressionBucket, with no extra suppression logic required.
type Rule interface {
	Name() string
	Bucket() model.Bucket
	Matches(entry model.Entry, ctx model.ScoringContext) bool
}

type exactMatchBucketRule struct{}

func (exactMatchBucketRule) Name() string         { return "exactMatchBucket" }
func (exactMatchBucketRule) Bucket() model.Bucket { return model.BucketA }
func (exactMatchBucketRule) Matches(_ model.Entry, ctx model.ScoringContext) bool {
	return ctx.IsExactHeadword
}

type lemmaMatchBucketRule struct{}

func (lemmaMatchBucketRule) Name() string         { return "lemmaMatchBucket" }
func (lemmaMatchBucketRule) Bucket() model.Bucket { return model.BucketA }
func (lemmaMatchBucketRule) Matches(_ model.Entry, ctx model.ScoringContext) bool {
	return ctx.IsLemmaMatch && !ctx.IsExactHeadword
}

type expressionBucketRule struct{}

func (expressionBucketRule) Name() string         { return "expressionBucket" }
func (expressionBucketRule) Bucket() model.Bucket { return model.BucketB }
func (expressionBucketRule) Matches(entry model.Entry, _ model.ScoringContext) bool {
	return isExpressionEntry(entry)
}

type commonPrefixBucketRule struct {
	frequencyThreshold int
}

func (commonPrefixBucketRule) Name() string         { return "commonPrefixBucket" }
func (commonPrefixBucketRule) Bucket() model.Bucket { return model.BucketB }
func (r commonPrefixBucketRule) Matches(entry model.Entry, ctx model.ScoringContext) bool {
	return ctx.MatchType == model.MatchPrefix &&
		entry.FrequencyRank != nil && *entry.FrequencyRank <= r.frequencyThreshold
}

type jlptBucketRule struct{}

func (jlptBucketRule) Name() string         { return "jlptBucket" }
func (jlptBucketRule) Bucket() model.Bucket { return model.BucketB }
func (jlptBucketRule) Matches(entry model.Entry, _ model.ScoringContext) bool {
	return entry.JLPTLevel == model.JLPTN5 || entry.JLPTLevel == model.JLPTN4
}

type specializedDomainBucketRule struct{}

func (specializedDomainBucketRule) Name() string         { return "specializedDomainBucket" }
func (specializedDomainBucketRule) Bucket() model.Bucket { return model.BucketD }
func (specializedDomainBucketRule) Matches(entry model.Entry, _ model.ScoringContext) bool {
	return entryHasSenseMarker(entry, domainMarkers)
}

type archaicWordBucketRule struct{}

func (archaicWordBucketRule) Name() string         { return "archaicWordBucket" }
func (archaicWordBucketRule) Bucket() model.Bucket { return model.BucketD }
func (archaicWordBucketRule) Matches(entry model.Entry, _ model.ScoringContext) bool {
	return entryHasSenseMarker(entry, archaicMarkers)
}
