// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: defaults/embedded.go
// Summary: Embedded default configuration files.

package defaults

import (
	"embed"
	"fmt"
)

//go:embed texelcast.json profiles/*.json
var fs embed.FS

// SystemConfig returns the embedded system config JSON.
func SystemConfig() ([]byte, error) {
	return fs.ReadFile("texelcast.json")
}

// ProfileConfig returns the embedded config JSON for the named scene profile.
func ProfileConfig(profile string) ([]byte, error) {
	if profile == "" {
		return nil, fmt.Errorf("profile name is required")
	}
	return fs.ReadFile(fmt.Sprintf("profiles/%s.json", profile))
}
