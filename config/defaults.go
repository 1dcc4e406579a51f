// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for system and profile configuration files.

package config

func applySystemDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"defaultScene": "plasma",
	})
	cfg.RegisterDefaults("render", Section{
		"strategy":       "auto",
		"palette":        "",
		"palette_rev":    false,
		"luminance":      "flat",
		"edge_threshold": 0.3,
		"eight_way":      false,
		"kernel":         "bilinear",
		"fps":            30,
		"workers":        0,
	})
	cfg.RegisterDefaults("playback", Section{
		"loop":  false,
		"speed": 1.0,
	})
	cfg.RegisterDefaults("record", Section{
		"dir": "",
	})
}

func applyProfileDefaults(profile string, cfg Config) {
	if cfg == nil {
		return
	}
	switch profile {
	case "plasma":
		cfg.RegisterDefaults("plasma", Section{
			"speed":  1.0,
			"scale":  0.08,
			"warmth": 0.6,
		})
	case "orbit":
		cfg.RegisterDefaults("orbit", Section{
			"bodies": 3,
			"radius": 0.35,
			"trail":  0.85,
		})
	case "bars":
		cfg.RegisterDefaults("bars", Section{
			"bands": 12,
			"decay": 0.92,
		})
	}
}
