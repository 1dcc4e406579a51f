// Copyright © 2025 Texelcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed access helpers for config store data.

package config

import (
	"encoding/json"
	"strconv"
)

// Section returns the named section or nil if missing. An empty name
// addresses the config's top level.
func (c Config) Section(sectionName string) Section {
	if c == nil {
		return nil
	}
	if sectionName == "" {
		return Section(c)
	}
	if raw, ok := c[sectionName]; ok {
		switch v := raw.(type) {
		case Section:
			return v
		case map[string]interface{}:
			return Section(v)
		}
	}
	return nil
}

// RegisterDefaults ensures a section has defaults without overwriting
// existing keys.
func (c Config) RegisterDefaults(sectionName string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(sectionName)
	if section == nil {
		section = make(Section)
		if sectionName == "" {
			for k, v := range defaults {
				if _, ok := c[k]; !ok {
					c[k] = v
				}
			}
			return
		}
		c[sectionName] = section
	}

	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

func (c Config) lookup(sectionName, key string) (interface{}, bool) {
	section := c.Section(sectionName)
	if section == nil {
		return nil, false
	}
	val, ok := section[key]
	return val, ok
}

// GetString retrieves a string value from the config.
func (c Config) GetString(sectionName, key, defaultValue string) string {
	if val, ok := c.lookup(sectionName, key); ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetFloat retrieves a float value from the config. JSON numbers and
// numeric strings coerce.
func (c Config) GetFloat(sectionName, key string, defaultValue float64) float64 {
	if val, ok := c.lookup(sectionName, key); ok {
		if f, ok := asFloat(val); ok {
			return f
		}
	}
	return defaultValue
}

// GetInt retrieves an integer value from the config.
func (c Config) GetInt(sectionName, key string, defaultValue int) int {
	if val, ok := c.lookup(sectionName, key); ok {
		switch v := val.(type) {
		case string:
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		default:
			if f, ok := asFloat(val); ok {
				return int(f)
			}
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean value from the config.
func (c Config) GetBool(sectionName, key string, defaultValue bool) bool {
	if val, ok := c.lookup(sectionName, key); ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			if parsed, err := strconv.ParseBool(v); err == nil {
				return parsed
			}
		default:
			if f, ok := asFloat(val); ok {
				return f != 0
			}
		}
	}
	return defaultValue
}

func asFloat(val interface{}) (float64, bool) {
	switch v := val.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		if parsed, err := v.Float64(); err == nil {
			return parsed, true
		}
	case string:
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}
