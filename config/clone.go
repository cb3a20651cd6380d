// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/clone.go
// Summary: Clone helpers for config maps.

package config

// Clone returns a copy of the config, its sections and any lists they hold.
// Scalars are shared.
func Clone(cfg Config) Config {
	if cfg == nil {
		return nil
	}
	clone := make(Config, len(cfg))
	for sectionName, section := range cfg {
		switch v := section.(type) {
		case map[string]interface{}:
			clone[sectionName] = cloneSection(v)
		case Section:
			clone[sectionName] = cloneSection(v)
		default:
			clone[sectionName] = cloneValue(v)
		}
	}
	return clone
}

func cloneSection(s map[string]interface{}) Section {
	out := make(Section, len(s))
	for key, value := range s {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(v interface{}) interface{} {
	switch list := v.(type) {
	case []interface{}:
		return append([]interface{}(nil), list...)
	case []string:
		return append([]string(nil), list...)
	}
	return v
}
