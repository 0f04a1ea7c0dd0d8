package ranking_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tomoshibi/kotoba/pkg/config"
	"github.com/tomoshibi/kotoba/pkg/model"
	"github.com/tomoshibi/kotoba/pkg/ranking"
)

func TestBuild_DecodesJLPTLevelScores(t *testing.T) {
	cfg := config.Configuration{
		Features: []config.FeatureConfig{
			{
				Type: "jlpt", Enabled: true, Weight: 1, MinScore: 0, MaxScore: 15,
				Parameters: config.ParamMap{"levelScores": map[string]any{"N5": 9.0}},
			},
		},
	}
	reg, err := ranking.Build(cfg)
	require.NoError(t, err)
	engine := ranking.NewEngine(reg)

	ranked := engine.Rank([]ranking.Candidate{
		{Entry: model.Entry{ID: 1, JLPTLevel: model.JLPTN5}},
	}, nil)
	require.InDelta(t, 9.0, ranked[0].Score, 0.0001)
}

func TestBuild_DecodesCommonPrefixThreshold(t *testing.T) {
	cfg := config.Configuration{
		HardRules: []config.HardRuleConfig{
			{
				Type: "commonPrefixBucket", Enabled: true, Priority: 1,
				Parameters: config.ParamMap{"frequencyThreshold": 10},
			},
		},
	}
	reg, err := ranking.Build(cfg)
	require.NoError(t, err)
	engine := ranking.NewEngine(reg)

	rank := func(freq int) model.Bucket {
		ranked := engine.Rank([]ranking.Candidate{
			{
				Entry:   model.Entry{ID: 1, FrequencyRank: intPtr(freq)},
				Context: model.ScoringContext{MatchType: model.MatchPrefix},
			},
		}, nil)
		return ranked[0].Bucket
	}

	require.Equal(t, model.BucketB, rank(5))
	require.Equal(t, model.BucketC, rank(50))
}

func TestBuild_RejectsCommonPrefixBucketWithoutParameters(t *testing.T) {
	cfg := config.Configuration{
		HardRules: []config.HardRuleConfig{{Type: "commonPrefixBucket", Enabled: true, Priority: 1}},
	}
	_, err := ranking.Build(cfg)
	require.ErrorIs(t, err, config.ErrMissingParameters)
}

func TestBuild_RejectsCommonPrefixBucketMissingKey(t *testing.T) {
	cfg := config.Configuration{
		HardRules: []config.HardRuleConfig{{
			Type: "commonPrefixBucket", Enabled: true, Priority: 1,
			Parameters: config.ParamMap{"somethingElse": 1},
		}},
	}
	_, err := ranking.Build(cfg)
	require.ErrorIs(t, err, config.ErrMissingParameter)
}

func TestBuild_RejectsUnknownRuleType(t *testing.T) {
	cfg := config.Configuration{
		HardRules: []config.HardRuleConfig{{Type: "notARule", Enabled: true}},
	}
	_, err := ranking.Build(cfg)
	require.Error(t, err)
}
