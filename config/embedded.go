// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/embedded.go
// Summary: Loads and caches parsed defaults from embedded JSON files.
// The embedded JSON files in defaults/ are the single source of truth.

package config

import (
	"encoding/json"
	"sync"

	"github.com/framegrace/texelcast/defaults"
)

var (
	embeddedSystemOnce sync.Once
	embeddedSystem     Config
	embeddedSystemErr  error

	embeddedProfiles   = make(map[string]Config)
	embeddedProfilesMu sync.RWMutex
)

// embeddedSystemDefaults returns the parsed system defaults from embedded
// JSON. The result is cached after the first call.
func embeddedSystemDefaults() (Config, error) {
	embeddedSystemOnce.Do(func() {
		data, err := defaults.SystemConfig()
		if err != nil {
			embeddedSystemErr = err
			return
		}
		var cfg Config
		if err := json.Unmarshal(data, &cfg); err != nil {
			embeddedSystemErr = err
			return
		}
		embeddedSystem = cfg
	})
	return embeddedSystem, embeddedSystemErr
}

// embeddedProfileDefaults returns the parsed profile defaults from embedded
// JSON. Results are cached per-profile after the first call.
func embeddedProfileDefaults(profile string) (Config, error) {
	embeddedProfilesMu.RLock()
	if cfg, ok := embeddedProfiles[profile]; ok {
		embeddedProfilesMu.RUnlock()
		return cfg, nil
	}
	embeddedProfilesMu.RUnlock()

	data, err := defaults.ProfileConfig(profile)
	if err != nil {
		// No embedded config for this profile, which is fine.
		return nil, nil
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	embeddedProfilesMu.Lock()
	embeddedProfiles[profile] = cfg
	embeddedProfilesMu.Unlock()

	return cfg, nil
}

// defaultSystemConfig returns a clone of the embedded system defaults.
// Used by store.go when writing the initial config to disk.
func defaultSystemConfig() Config {
	cfg, err := embeddedSystemDefaults()
	if err != nil || cfg == nil {
		return nil
	}
	return Clone(cfg)
}

// defaultProfileConfig returns a clone of the embedded profile defaults.
// Used by store.go when writing the initial config to disk.
func defaultProfileConfig(profile string) Config {
	cfg, err := embeddedProfileDefaults(profile)
	if err != nil || cfg == nil {
		return nil
	}
	return Clone(cfg)
}
