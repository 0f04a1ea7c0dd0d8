package config

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/rs/zerolog/log"
)

//go:embed default.json
var bundledDefaults embed.FS

// DefaultProfile is the name of the profile always resolvable from the
// bundled resource.
const DefaultProfile = "default"

// overrideFileName returns the profile-specific override file name (spec
// §6: "ranking_config_<profile>.json"). The built-in fallback configuration
// is never persisted under this name.
func overrideFileName(profile string) string {
	return fmt.Sprintf("ranking_config_%s.json", profile)
}

// Loader resolves a named profile through the fallback chain of spec
// §4.7: a user-writable override location, then the bundled default
// resource, then (for a non-default profile not found anywhere) the
// default profile, then the hard-coded Fallback configuration.
type Loader struct {
	// OverrideFS is the user-writable override location. A nil OverrideFS
	// skips straight to the bundled resource.
	OverrideFS afero.Fs
	// OverrideDir is the directory within OverrideFS holding
	// ranking_config_<profile>.json files.
	OverrideDir string
}

// NewLoader builds a Loader rooted at overrideDir on the OS filesystem.
func NewLoader(overrideDir string) *Loader {
	return &Loader{OverrideFS: afero.NewOsFs(), OverrideDir: overrideDir}
}

// Load resolves and validates the named profile. An empty profile resolves
// to DefaultProfile.
func (l *Loader) Load(profile string) (Configuration, error) {
	if profile == "" {
		profile = DefaultProfile
	}

	if cfg, ok := l.loadOverride(profile); ok {
		if err := Validate(cfg); err != nil {
			return Configuration{}, err
		}
		return cfg, nil
	}

	if cfg, ok := loadBundled(profile); ok {
		if err := Validate(cfg); err != nil {
			return Configuration{}, err
		}
		return cfg, nil
	}

	if profile != DefaultProfile {
		log.Warn().Msgf("profile %q not found, falling back to default", profile)
		if cfg, ok := l.loadOverride(DefaultProfile); ok {
			if err := Validate(cfg); err != nil {
				return Configuration{}, err
			}
			return cfg, nil
		}
		if cfg, ok := loadBundled(DefaultProfile); ok {
			if err := Validate(cfg); err != nil {
				return Configuration{}, err
			}
			return cfg, nil
		}
	}

	log.Warn().Msg("no bundled or override configuration found, using hard-coded fallback")
	return Fallback, nil
}

func (l *Loader) loadOverride(profile string) (Configuration, bool) {
	if l == nil || l.OverrideFS == nil {
		return Configuration{}, false
	}
	path := filepath.Join(l.OverrideDir, overrideFileName(profile))
	data, err := afero.ReadFile(l.OverrideFS, path)
	if err != nil {
		return Configuration{}, false
	}
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Msgf("malformed override config at %s", path)
		return Configuration{}, false
	}
	return cfg, true
}

func loadBundled(profile string) (Configuration, bool) {
	if profile != DefaultProfile {
		return Configuration{}, false
	}
	data, err := fs.ReadFile(bundledDefaults, "default.json")
	if err != nil {
		return Configuration{}, false
	}
	var cfg Configuration
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Error().Err(err).Msg("malformed bundled default config")
		return Configuration{}, false
	}
	return cfg, true
}
