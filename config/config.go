// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: System + scene profile configuration store for texelcast.

package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

const systemConfigName = "texelcast.json"

// Config stores configuration sections as JSON-compatible data.
type Config map[string]interface{}

// Section stores key/value pairs for a configuration section.
type Section map[string]interface{}

var (
	mu       sync.RWMutex
	once     sync.Once
	system   Config
	profiles map[string]Config
	loadErr  error
)

// Err returns the most recent system config load error.
func Err() error {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return loadErr
}

// System returns the system configuration (texelcast.json).
func System() Config {
	once.Do(initStore)
	mu.RLock()
	defer mu.RUnlock()
	return system
}

// Profile returns the config for a named scene profile
// (profiles/<name>.json).
func Profile(name string) Config {
	if name == "" {
		return nil
	}
	once.Do(initStore)

	mu.RLock()
	cfg := profiles[name]
	mu.RUnlock()
	if cfg != nil {
		return cfg
	}

	mu.Lock()
	defer mu.Unlock()
	if cfg, ok := profiles[name]; ok {
		return cfg
	}

	loaded, err := loadProfileLocked(name)
	if err != nil {
		log.Printf("Config: Failed to load profile %q: %v", name, err)
		loaded = make(Config)
		applyProfileDefaults(name, loaded)
	}
	profiles[name] = loaded
	return loaded
}

// Reload refreshes the system config and all cached profiles.
func Reload() error {
	once.Do(initStore)

	mu.Lock()
	defer mu.Unlock()

	loadErr = loadSystemLocked()
	for name := range profiles {
		loaded, err := loadProfileLocked(name)
		if err != nil {
			log.Printf("Config: Failed to reload profile %q: %v", name, err)
			continue
		}
		profiles[name] = loaded
	}
	return loadErr
}

// ReloadSystem refreshes the system config.
func ReloadSystem() error {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	loadErr = loadSystemLocked()
	return loadErr
}

// SaveSystem persists the current system config to disk.
func SaveSystem() error {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	path, err := systemConfigPath()
	if err != nil {
		return err
	}
	return writeConfig(path, system)
}

// SaveProfile persists a named profile config to disk.
func SaveProfile(name string) error {
	if name == "" {
		return nil
	}
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	cfg := profiles[name]
	if cfg == nil {
		cfg = make(Config)
		applyProfileDefaults(name, cfg)
		profiles[name] = cfg
	}
	path, err := profileConfigPath(name)
	if err != nil {
		return err
	}
	return writeConfig(path, cfg)
}

// SetSystem replaces the in-memory system config with the provided config.
func SetSystem(cfg Config) {
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	if cfg == nil {
		cfg = make(Config)
	}
	system = Clone(cfg)
}

// SetProfile replaces the in-memory profile config with the provided config.
func SetProfile(name string, cfg Config) {
	if name == "" {
		return
	}
	once.Do(initStore)
	mu.Lock()
	defer mu.Unlock()
	if cfg == nil {
		cfg = make(Config)
	}
	profiles[name] = Clone(cfg)
}

func initStore() {
	mu.Lock()
	defer mu.Unlock()
	system = make(Config)
	profiles = make(map[string]Config)
	loadErr = loadSystemLocked()
}

func readConfig(path string) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func writeConfig(path string, cfg Config) error {
	if cfg == nil {
		cfg = make(Config)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
