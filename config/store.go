// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/store.go
// Summary: Load logic for the config store.

package config

func loadLocked() error {
	path, err := ConfigPath()
	if err != nil {
		logf("Failed to resolve config path: %v", err)
		current = make(Config)
		applyDefaults(current)
		return err
	}

	cfg, exists, readErr := readConfig(path)
	if readErr != nil {
		// Keep the user's file untouched so the mistake can be fixed.
		logf("Failed to read %s, using defaults: %v", path, readErr)
		cfg = make(Config)
		applyDefaults(cfg)
		current = cfg
		return readErr
	}

	if !exists || len(cfg) == 0 {
		cfg = make(Config)
		applyDefaults(cfg)
		if err := writeConfig(path, cfg); err != nil {
			logf("Failed to write default config: %v", err)
			readErr = err
		}
	} else {
		applyDefaults(cfg)
		logf("Loaded config from %s", path)
	}

	current = cfg
	return readErr
}
