// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/types.go
// Summary: Typed access helpers for config store data.
// Notes: Values decoded from JSON arrive as float64, []interface{} or string;
// every getter accepts those shapes as well as native Go values.

package config

import (
	"encoding/json"
	"strconv"
)

// Section returns the named section or nil if missing. The "" section is
// the top level of the config.
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

// RegisterDefaults ensures a section has defaults without overwriting existing keys.
func (c Config) RegisterDefaults(sectionName string, defaults Section) {
	if c == nil || defaults == nil {
		return
	}
	section := c.Section(sectionName)
	if section == nil {
		section = make(Section)
		c[sectionName] = section
	}
	for key, value := range defaults {
		if _, ok := section[key]; !ok {
			section[key] = value
		}
	}
}

// GetString retrieves a string value from the config.
func (c Config) GetString(sectionName, key, defaultValue string) string {
	return c.Section(sectionName).String(key, defaultValue)
}

// GetFloat retrieves a float value from the config.
func (c Config) GetFloat(sectionName, key string, defaultValue float64) float64 {
	return c.Section(sectionName).Float(key, defaultValue)
}

// GetInt retrieves an integer value from the config.
func (c Config) GetInt(sectionName, key string, defaultValue int) int {
	return c.Section(sectionName).Int(key, defaultValue)
}

// GetBool retrieves a boolean value from the config.
func (c Config) GetBool(sectionName, key string, defaultValue bool) bool {
	return c.Section(sectionName).Bool(key, defaultValue)
}

// GetStringSlice retrieves a list of strings from the config.
func (c Config) GetStringSlice(sectionName, key string, defaultValue []string) []string {
	return c.Section(sectionName).StringSlice(key, defaultValue)
}

// String returns key as a string, or defaultValue.
func (s Section) String(key, defaultValue string) string {
	if val, ok := s[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// Float returns key as a float64, or defaultValue.
func (s Section) Float(key string, defaultValue float64) float64 {
	if val, ok := s[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case json.Number:
			if parsed, err := v.Float64(); err == nil {
				return parsed
			}
		case string:
			if parsed, err := strconv.ParseFloat(v, 64); err == nil {
				return parsed
			}
		}
	}
	return defaultValue
}

// Int returns key as an int, or defaultValue.
func (s Section) Int(key string, defaultValue int) int {
	if val, ok := s[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case float64:
			return int(v)
		case float32:
			return int(v)
		case json.Number:
			if parsed, err := v.Int64(); err == nil {
				return int(parsed)
			}
		case string:
			if parsed, err := strconv.Atoi(v); err == nil {
				return parsed
			}
		}
	}
	return defaultValue
}

// Bool returns key as a bool, or defaultValue.
func (s Section) Bool(key string, defaultValue bool) bool {
	if val, ok := s[key]; ok {
		switch v := val.(type) {
		case bool:
			return v
		case string:
			if parsed, err := strconv.ParseBool(v); err == nil {
				return parsed
			}
		case json.Number:
			if parsed, err := v.Int64(); err == nil {
				return parsed != 0
			}
		case float64:
			return v != 0
		case int:
			return v != 0
		}
	}
	return defaultValue
}

// StringSlice returns key as a list of strings, or defaultValue. Non-string
// list entries are skipped.
func (s Section) StringSlice(key string, defaultValue []string) []string {
	val, ok := s[key]
	if !ok {
		return defaultValue
	}
	switch v := val.(type) {
	case []string:
		return append([]string(nil), v...)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return defaultValue
}
