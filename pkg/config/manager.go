package config

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Stats summarizes the active configuration for introspection (debug
// tooling, admin endpoints).
type Stats struct {
	Profile          string
	FeatureCount     int
	EnabledFeatures  int
	HardRuleCount    int
	EnabledHardRules int
	TieBreakerCount  int
	UsingFallback    bool
}

// Manager holds the active Configuration as an immutable snapshot and
// serves concurrent readers without blocking on profile switches, mirroring
// the read-mostly instance-swap pattern the bundled platform config uses
// for its own hot-reloadable settings.
type Manager struct {
	loader *Loader

	mu       sync.RWMutex
	active   Configuration
	profile  string
	fallback bool
}

// NewManager constructs a Manager and loads the named profile (empty means
// DefaultProfile). Load failures never happen here: Loader.Load always
// degrades to Fallback rather than returning an error for a missing
// profile, so the only possible error is a malformed override/bundled file
// that fails Validate.
func NewManager(loader *Loader, profile string) (*Manager, error) {
	m := &Manager{loader: loader}
	if err := m.SwitchProfile(profile); err != nil {
		return nil, err
	}
	return m, nil
}

// Active returns the current configuration snapshot. Safe for concurrent
// use; the returned value is never mutated after SwitchProfile installs it.
func (m *Manager) Active() Configuration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active
}

// IsUsingLegacyScorer reports whether the active profile requests the
// additive gentle-scorer path (spec §9, Open Question 1 — unimplemented by
// default; see DESIGN.md).
func (m *Manager) IsUsingLegacyScorer() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active.UseLegacyScorer
}

// SwitchProfile loads and validates a new profile, then atomically installs
// it as the active configuration. Readers already holding a Configuration
// value from Active are unaffected — they keep their own snapshot.
func (m *Manager) SwitchProfile(profile string) error {
	cfg, err := m.loader.Load(profile)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.active = cfg
	m.profile = cfg.Profile
	m.fallback = cfg.Profile == Fallback.Profile
	m.mu.Unlock()

	if m.fallback {
		log.Warn().Msg("ranking config manager is running on the hard-coded fallback configuration")
	} else {
		log.Debug().Msgf("ranking config manager switched to profile %q", cfg.Profile)
	}
	return nil
}

// Reload re-resolves the currently active profile from its source (picks
// up edits to an override file without a process restart).
func (m *Manager) Reload() error {
	m.mu.RLock()
	profile := m.profile
	m.mu.RUnlock()
	return m.SwitchProfile(profile)
}

// Stats returns a snapshot of the active configuration's shape.
func (m *Manager) Stats() Stats {
	cfg := m.Active()

	enabledFeatures := 0
	for _, f := range cfg.Features {
		if f.Enabled {
			enabledFeatures++
		}
	}
	enabledRules := 0
	for _, r := range cfg.HardRules {
		if r.Enabled {
			enabledRules++
		}
	}

	m.mu.RLock()
	fallback := m.fallback
	m.mu.RUnlock()

	return Stats{
		Profile:          cfg.Profile,
		FeatureCount:     len(cfg.Features),
		EnabledFeatures:  enabledFeatures,
		HardRuleCount:    len(cfg.HardRules),
		EnabledHardRules: enabledRules,
		TieBreakerCount:  len(cfg.TieBreakers),
		UsingFallback:    fallback,
	}
}
