package config

// Fallback is the hard-coded minimal configuration used when no bundled
// default resource and no override file can be found (spec §4.7, fallback
// chain step 4). It carries only match-type features and the exact/lemma
// bucket rules, with two tie-breakers.
var Fallback = Configuration{
	Version: "1.0",
	Profile: "fallback",
	Features: []FeatureConfig{
		{Type: "exactMatch", Weight: 1.0, MinScore: 0, MaxScore: 100, Enabled: true},
		{Type: "lemmaMatch", Weight: 1.0, MinScore: 0, MaxScore: 35, Enabled: true},
		{Type: "prefixMatch", Weight: 1.0, MinScore: 0, MaxScore: 30, Enabled: true},
	},
	HardRules: []HardRuleConfig{
		{Type: "exactMatchBucket", Priority: 1, Enabled: true},
		{Type: "lemmaMatchBucket", Priority: 2, Enabled: true},
	},
	TieBreakers: []TieBreakerConfig{
		{Field: TieBreakerFrequencyRank, Order: OrderAscending},
		{Field: TieBreakerID, Order: OrderAscending},
	},
}
