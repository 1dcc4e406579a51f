// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load logic for system and profile configs.

package config

import "log"

func loadSystemLocked() error {
	path, err := systemConfigPath()
	if err != nil {
		log.Printf("Config: Failed to resolve system config path: %v", err)
		system = make(Config)
		applySystemDefaults(system)
		return err
	}

	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		log.Printf("Config: Failed to read system config %s: %v", path, readErr)
		cfg = make(Config)
	}

	if !exists {
		cfg = make(Config)
		if def := defaultSystemConfig(); def != nil {
			cfg = def
		}
		applySystemDefaults(cfg)
		if err := writeConfig(path, cfg); err != nil {
			log.Printf("Config: Failed to write initial system config: %v", err)
			if readErr == nil {
				readErr = err
			}
		}
	} else {
		applySystemDefaults(cfg)
	}

	system = cfg
	if readErr == nil && exists {
		log.Printf("Config: Loaded system config from %s", path)
	}
	return readErr
}

func loadProfileLocked(name string) (Config, error) {
	path, err := profileConfigPath(name)
	if err != nil {
		return nil, err
	}

	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		log.Printf("Config: Failed to read profile %s: %v", path, readErr)
		cfg = make(Config)
	}

	if !exists {
		cfg = make(Config)
		if def := defaultProfileConfig(name); def != nil {
			cfg = def
		}
		applyProfileDefaults(name, cfg)
		if err := writeConfig(path, cfg); err != nil {
			log.Printf("Config: Failed to write initial profile config: %v", err)
			if readErr == nil {
				readErr = err
			}
		}
	} else {
		applyProfileDefaults(name, cfg)
	}

	if readErr == nil && exists {
		log.Printf("Config: Loaded profile %q from %s", name, path)
	}
	return cfg, readErr
}
