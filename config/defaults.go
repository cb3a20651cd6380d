// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/defaults.go
// Summary: Default values for texelsky.json.

package config

// Default values, also used by callers when a key is missing or mistyped.
const (
	DefaultFPS      = 30
	DefaultWarmupMS = 100
	DefaultGraceMS  = 50
)

// DefaultEffects is the scene built when effects.enabled is absent.
var DefaultEffects = []string{"stars", "rain", "lightning"}

func applyDefaults(cfg Config) {
	if cfg == nil {
		return
	}
	cfg.RegisterDefaults("", Section{
		"fps": DefaultFPS,
		"hud": true,
	})
	cfg.RegisterDefaults("shell", Section{
		"enabled":   false,
		"path":      "",
		"warmup_ms": DefaultWarmupMS,
		"grace_ms":  DefaultGraceMS,
	})
	enabled := make([]interface{}, len(DefaultEffects))
	for i, id := range DefaultEffects {
		enabled[i] = id
	}
	cfg.RegisterDefaults("effects", Section{
		"enabled": enabled,
	})
	cfg.RegisterDefaults("effects.stars", Section{
		"density": 0.015,
	})
	cfg.RegisterDefaults("effects.rain", Section{
		"density": 0.02,
		"wind":    0.0,
	})
	cfg.RegisterDefaults("effects.lightning", Section{
		"chance": 0.004,
	})
}
