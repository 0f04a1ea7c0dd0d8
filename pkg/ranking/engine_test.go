package ranking_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tomoshibi/kotoba/pkg/config"
	"github.com/tomoshibi/kotoba/pkg/model"
	"github.com/tomoshibi/kotoba/pkg/ranking"
)

func intPtr(v int) *int { return &v }

func TestEngine_ExactHeadwordAlwaysBucketA(t *testing.T) {
	reg, err := ranking.Build(config.Fallback)
	require.NoError(t, err)
	engine := ranking.NewEngine(reg)

	candidates := []ranking.Candidate{
		{
			Entry:   model.Entry{ID: 1, Headword: "する", CreatedAt: time.Unix(0, 0)},
			Context: model.ScoringContext{IsExactHeadword: true, MatchType: model.MatchExact},
		},
		{
			Entry:   model.Entry{ID: 2, Headword: "すること", FrequencyRank: intPtr(50), CreatedAt: time.Unix(0, 0)},
			Context: model.ScoringContext{MatchType: model.MatchPrefix},
		},
	}

	ranked := engine.Rank(candidates, config.Fallback.TieBreakers)
	require.Len(t, ranked, 2)
	require.Equal(t, int64(1), ranked[0].Entry.ID)
	require.Equal(t, model.BucketA, ranked[0].Bucket)
	require.Equal(t, "exactMatchBucket", ranked[0].Breakdown.BucketRule)
}

func TestEngine_BucketDominatesScore(t *testing.T) {
	// Only prefixMatch contributes, so the exact-headword candidate scores 0.
	cfg := config.Configuration{
		Features:  []config.FeatureConfig{{Type: "prefixMatch", Weight: 1, MinScore: 0, MaxScore: 30, Enabled: true}},
		HardRules: []config.HardRuleConfig{{Type: "exactMatchBucket", Priority: 1, Enabled: true}},
	}
	reg, err := ranking.Build(cfg)
	require.NoError(t, err)
	engine := ranking.NewEngine(reg)

	candidates := []ranking.Candidate{
		{
			// Bucket C (default), but scores 30 against the exact entry's 0,
			// so it would win on score alone if bucket weren't checked first.
			Entry:   model.Entry{ID: 10, Headword: "高頻度", FrequencyRank: intPtr(1), CreatedAt: time.Unix(0, 0)},
			Context: model.ScoringContext{MatchType: model.MatchPrefix},
		},
		{
			Entry:   model.Entry{ID: 11, Headword: "exact", CreatedAt: time.Unix(0, 0)},
			Context: model.ScoringContext{IsExactHeadword: true, MatchType: model.MatchExact},
		},
	}

	ranked := engine.Rank(candidates, config.Fallback.TieBreakers)
	require.Equal(t, int64(11), ranked[0].Entry.ID, "bucket A must outrank bucket C regardless of score")
}

func TestEngine_StableIDFallback(t *testing.T) {
	reg, err := ranking.Build(config.Fallback)
	require.NoError(t, err)
	engine := ranking.NewEngine(reg)

	candidates := []ranking.Candidate{
		{Entry: model.Entry{ID: 5, Headword: "a", CreatedAt: time.Unix(0, 0)}, Context: model.ScoringContext{}},
		{Entry: model.Entry{ID: 3, Headword: "b", CreatedAt: time.Unix(0, 0)}, Context: model.ScoringContext{}},
		{Entry: model.Entry{ID: 4, Headword: "c", CreatedAt: time.Unix(0, 0)}, Context: model.ScoringContext{}},
	}

	ranked := engine.Rank(candidates, nil)
	require.Equal(t, []int64{3, 4, 5}, []int64{ranked[0].Entry.ID, ranked[1].Entry.ID, ranked[2].Entry.ID})
}

func TestEngine_TieBreakerFrequencyRankAscending(t *testing.T) {
	reg, err := ranking.Build(config.Fallback)
	require.NoError(t, err)
	engine := ranking.NewEngine(reg)

	tieBreakers := []config.TieBreakerConfig{
		{Field: config.TieBreakerFrequencyRank, Order: config.OrderAscending},
	}
	candidates := []ranking.Candidate{
		{Entry: model.Entry{ID: 1, Headword: "a", FrequencyRank: intPtr(500), CreatedAt: time.Unix(0, 0)}},
		{Entry: model.Entry{ID: 2, Headword: "b", FrequencyRank: intPtr(10), CreatedAt: time.Unix(0, 0)}},
	}

	ranked := engine.Rank(candidates, tieBreakers)
	require.Equal(t, int64(2), ranked[0].Entry.ID)
}

func TestBuild_RejectsUnknownFeatureType(t *testing.T) {
	cfg := config.Configuration{
		Features: []config.FeatureConfig{{Type: "notAFeature", Enabled: true}},
	}
	_, err := ranking.Build(cfg)
	require.Error(t, err)
}

func TestBuild_SkipsDisabledFeaturesAndRules(t *testing.T) {
	cfg := config.Configuration{
		Features:  []config.FeatureConfig{{Type: "exactMatch", Enabled: false}},
		HardRules: []config.HardRuleConfig{{Type: "exactMatchBucket", Enabled: false, Priority: 1}},
	}
	reg, err := ranking.Build(cfg)
	require.NoError(t, err)
	engine := ranking.NewEngine(reg)

	ranked := engine.Rank([]ranking.Candidate{
		{Entry: model.Entry{ID: 1, Headword: "x", CreatedAt: time.Unix(0, 0)}, Context: model.ScoringContext{IsExactHeadword: true}},
	}, nil)
	require.Equal(t, model.BucketC, ranked[0].Bucket, "disabled rule must not assign bucket A")
	require.Zero(t, ranked[0].Score, "disabled feature must not contribute")
}
