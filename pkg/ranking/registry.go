package ranking

import (
	"fmt"
	"sort"

	"github.com/tomoshibi/kotoba/pkg/config"
)

// builtFeature pairs a constructed Feature with the weight/range it is
// scaled and clamped by, matching the scoring rule of spec §4.5:
// clamp(weight·raw, minScore, maxScore).
type builtFeature struct {
	feature  Feature
	weight   float64
	minScore float64
	maxScore float64
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func (b builtFeature) score(raw float64) float64 {
	return clamp(b.weight*raw, b.minScore, b.maxScore)
}

// builtRule pairs a constructed Rule with its configured priority.
type builtRule struct {
	rule     Rule
	priority int
}

// buildFeature decodes a FeatureConfig into a concrete Feature, per the
// registry contract of spec §4.5. Unknown type names and malformed
// parameters surface as the sentinel errors of the configuration error
// taxonomy (spec §7), reused here since they describe the same failure
// the config loader already reports for other wiring mistakes.
func buildFeature(cfg config.FeatureConfig) (Feature, error) {
	switch cfg.Type {
	case "exactMatch":
		return exactMatchFeature{}, nil
	case "lemmaMatch":
		return lemmaMatchFeature{}, nil
	case "prefixMatch":
		return prefixMatchFeature{}, nil
	case "containsMatch":
		p := containsMatchParams{UseEdlib: true}
		if err := decodeParams(cfg.Parameters, &p); err != nil {
			return nil, err
		}
		return containsMatchFeature{useEdlib: p.UseEdlib}, nil
	case "jlpt":
		p := jlptParams{LevelScores: defaultJLPTScores()}
		if err := decodeParams(cfg.Parameters, &p); err != nil {
			return nil, err
		}
		return jlptFeature{scores: p.LevelScores}, nil
	case "frequency":
		p := frequencyParams{Smoothing: "sigmoid", Midpoint: 5.0}
		if err := decodeParams(cfg.Parameters, &p); err != nil {
			return nil, err
		}
		return frequencyFeature{smoothing: p.Smoothing, midpoint: p.Midpoint}, nil
	case "posPriority":
		return posPriorityFeature{}, nil
	case "commonWord":
		return commonWordFeature{}, nil
	case "entryType":
		return entryTypeFeature{}, nil
	case "surfaceLength":
		return surfaceLengthFeature{}, nil
	case "commonPatternPenalty":
		return commonPatternPenaltyFeature{}, nil
	case "rareWordPenalty":
		return rareWordPenaltyFeature{}, nil
	case "archaicWordPenalty":
		return archaicWordPenaltyFeature{}, nil
	case "specializedDomainPenalty":
		return specializedDomainPenaltyFeature{}, nil
	case "vulgarSlangPenalty":
		return vulgarSlangPenaltyFeature{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownFeatureType, cfg.Type)
	}
}

// buildRule decodes a HardRuleConfig into a concrete Rule.
func buildRule(cfg config.HardRuleConfig) (Rule, error) {
	switch cfg.Type {
	case "exactMatchBucket":
		return exactMatchBucketRule{}, nil
	case "lemmaMatchBucket":
		return lemmaMatchBucketRule{}, nil
	case "expressionBucket":
		return expressionBucketRule{}, nil
	case "commonPrefixBucket":
		if cfg.Parameters == nil {
			return nil, fmt.Errorf("%w: commonPrefixBucket requires a parameters block", config.ErrMissingParameters)
		}
		if _, present := cfg.Parameters["frequencyThreshold"]; !present {
			return nil, fmt.Errorf("%w: commonPrefixBucket requires \"frequencyThreshold\"", config.ErrMissingParameter)
		}
		var p commonPrefixBucketParams
		if err := decodeParams(cfg.Parameters, &p); err != nil {
			return nil, err
		}
		return commonPrefixBucketRule{frequencyThreshold: p.FrequencyThreshold}, nil
	case "jlptBucket":
		return jlptBucketRule{}, nil
	case "specializedDomainBucket":
		return specializedDomainBucketRule{}, nil
	case "archaicWordBucket":
		return archaicWordBucketRule{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownRuleType, cfg.Type)
	}
}

// Registry is the built, ready-to-evaluate form of a config.Configuration:
// every enabled feature and hard rule decoded into its concrete type,
// features in configuration order and rules sorted by priority.
type Registry struct {
	features []builtFeature
	rules    []builtRule
}

// Build constructs a Registry from a validated Configuration. Callers must
// run config.Validate first; Build does not repeat range/priority checks,
// only per-entry construction failures (unknown type, bad parameters).
func Build(cfg config.Configuration) (*Registry, error) {
	reg := &Registry{}

	for _, fc := range cfg.Features {
		if !fc.Enabled {
			continue
		}
		f, err := buildFeature(fc)
		if err != nil {
			return nil, fmt.Errorf("building feature %q: %w", fc.Type, err)
		}
		reg.features = append(reg.features, builtFeature{
			feature: f, weight: fc.Weight, minScore: fc.MinScore, maxScore: fc.MaxScore,
		})
	}

	for _, rc := range cfg.HardRules {
		if !rc.Enabled {
			continue
		}
		r, err := buildRule(rc)
		if err != nil {
			return nil, fmt.Errorf("building rule %q: %w", rc.Type, err)
		}
		reg.rules = append(reg.rules, builtRule{rule: r, priority: rc.Priority})
	}
	sort.SliceStable(reg.rules, func(i, j int) bool {
		return reg.rules[i].priority < reg.rules[j].priority
	})

	return reg, nil
}
