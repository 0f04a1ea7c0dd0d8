// Package config implements the config loader (spec component C7) and the
// declarative configuration types consumed by the feature & rule registry
// (spec component C5): FeatureConfig, HardRuleConfig, TieBreakerConfig, and
// the top-level Configuration they compose into.
package config

// ParamMap is the free-form parameter mapping of a FeatureConfig or
// HardRuleConfig, constrained to JSON-compatible variants (integer, real,
// string, boolean, ordered sequence, mapping) by virtue of always being
// produced by encoding/json.Unmarshal into map[string]any.
type ParamMap map[string]any

// FeatureConfig declaratively configures one scoring feature (spec §4.5).
type FeatureConfig struct {
	Parameters ParamMap `json:"parameters,omitempty"`
	Type       string   `json:"type" validate:"required"`
	Weight     float64  `json:"weight" validate:"gte=0,lte=10"`
	MinScore   float64  `json:"minScore"`
	MaxScore   float64  `json:"maxScore"`
	Enabled    bool     `json:"enabled"`
}

// HardRuleConfig declaratively configures one bucket-assignment hard rule
// (spec §4.5).
type HardRuleConfig struct {
	Parameters ParamMap `json:"parameters,omitempty"`
	Type       string   `json:"type" validate:"required"`
	Priority   int      `json:"priority"`
	Enabled    bool     `json:"enabled"`
}

// TieBreakerField is a named attribute usable to extend the ordering
// beyond bucket and score (spec §3 invariants).
type TieBreakerField string

const (
	TieBreakerFrequencyRank  TieBreakerField = "frequency_rank"
	TieBreakerJLPTBonus      TieBreakerField = "jlpt_bonus"
	TieBreakerSurfaceLength  TieBreakerField = "surface_length"
	TieBreakerCreatedAt      TieBreakerField = "created_at"
	TieBreakerID             TieBreakerField = "id"
)

// TieBreakerOrder is the sort direction of a tie-breaker.
type TieBreakerOrder string

const (
	OrderAscending  TieBreakerOrder = "ascending"
	OrderDescending TieBreakerOrder = "descending"
)

// TieBreakerConfig declaratively configures one tie-breaker step (spec §4.5).
type TieBreakerConfig struct {
	Field TieBreakerField `json:"field" validate:"required,oneof=frequency_rank jlpt_bonus surface_length created_at id"`
	Order TieBreakerOrder `json:"order" validate:"required,oneof=ascending descending"`
}

// Configuration is the external wire format of spec §6: the full
// declarative ranking configuration for one profile.
type Configuration struct {
	Version         string             `json:"version" validate:"required"`
	Profile         string             `json:"profile" validate:"required"`
	Features        []FeatureConfig    `json:"features" validate:"dive"`
	HardRules       []HardRuleConfig   `json:"hardRules" validate:"dive"`
	TieBreakers     []TieBreakerConfig `json:"tieBreakers" validate:"dive"`
	UseLegacyScorer bool               `json:"useLegacyScorer"`
}
