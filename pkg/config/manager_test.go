package config_test

import (
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/tomoshibi/kotoba/pkg/config"
)

func TestManager_SwitchProfileReplacesActiveSnapshot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/overrides/ranking_config_strict.json", []byte(`{
		"version":"1.0","profile":"strict","useLegacyScorer":false,
		"features":[{"type":"exactMatch","weight":2.0,"minScore":0,"maxScore":100,"enabled":true}],
		"hardRules":[{"type":"exactMatchBucket","priority":1,"enabled":true}],
		"tieBreakers":[{"field":"id","order":"ascending"}]
	}`), 0o644))

	loader := &config.Loader{OverrideFS: fs, OverrideDir: "/overrides"}
	manager, err := config.NewManager(loader, "")
	require.NoError(t, err)
	require.Equal(t, "default", manager.Active().Profile)

	before := manager.Active()
	require.NoError(t, manager.SwitchProfile("strict"))
	require.Equal(t, "strict", manager.Active().Profile)
	require.Equal(t, "default", before.Profile, "a snapshot taken before the switch must not mutate")
}

func TestManager_ReloadRereadsCurrentProfile(t *testing.T) {
	fs := afero.NewMemMapFs()
	write := func(weight float64) {
		require.NoError(t, afero.WriteFile(fs, "/overrides/ranking_config_default.json", []byte(`{
			"version":"1.0","profile":"default","useLegacyScorer":false,
			"features":[{"type":"exactMatch","weight":`+fmt.Sprintf("%.1f", weight)+`,"minScore":0,"maxScore":100,"enabled":true}],
			"hardRules":[{"type":"exactMatchBucket","priority":1,"enabled":true}],
			"tieBreakers":[]
		}`), 0o644))
	}
	write(1.0)

	loader := &config.Loader{OverrideFS: fs, OverrideDir: "/overrides"}
	manager, err := config.NewManager(loader, "default")
	require.NoError(t, err)
	require.Equal(t, 1.0, manager.Active().Features[0].Weight)

	write(3.0)
	require.NoError(t, manager.Reload())
	require.Equal(t, 3.0, manager.Active().Features[0].Weight)
}

func TestManager_StatsReflectsActiveConfiguration(t *testing.T) {
	loader := &config.Loader{OverrideFS: afero.NewMemMapFs(), OverrideDir: "/overrides"}
	manager, err := config.NewManager(loader, "")
	require.NoError(t, err)

	stats := manager.Stats()
	require.Equal(t, "default", stats.Profile)
	require.False(t, stats.UsingFallback)
	require.Equal(t, len(manager.Active().Features), stats.FeatureCount)
}
