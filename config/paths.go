// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Path helpers for texelcast configuration.

package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// rootOverride replaces the user config dir lookup when set.
var rootOverride string

// SetRoot points the store at an alternate config directory. Call it before
// the first store access, or follow it with Reload.
func SetRoot(dir string) { rootOverride = dir }

func configRoot() (string, error) {
	if rootOverride != "" {
		return rootOverride, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "texelcast"), nil
}

func systemConfigPath() (string, error) {
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, systemConfigName), nil
}

func profileConfigPath(profile string) (string, error) {
	if profile == "" {
		return "", fmt.Errorf("profile name is required")
	}
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "profiles", profile+".json"), nil
}

// RecordingDir resolves the directory recordings are stored in. An empty
// configured dir falls back to <config root>/recordings.
func RecordingDir(cfg Config) (string, error) {
	if dir := cfg.GetString("record", "dir", ""); dir != "" {
		return dir, nil
	}
	root, err := configRoot()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, "recordings"), nil
}
