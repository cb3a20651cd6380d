// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/registry.go
// Summary: Named effect factories and scene construction from config.
// Usage: Effects register themselves in init; the runtime calls Build with effects.enabled.

package effects

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/framegrace/texelsky/config"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Factory constructs an effect from its config section (effects.<id>). The
// section may be nil.
type Factory func(config.Section) (Effect, error)

// Register associates an effect ID with a factory. It panics on duplicate IDs.
func Register(id string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[id]; exists {
		panic("effects: duplicate registration for " + id)
	}
	registry[id] = factory
}

// Lookup fetches a factory by ID.
func Lookup(id string) (Factory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	f, ok := registry[id]
	return f, ok
}

// RegisteredIDs returns the registered effect identifiers in sorted order.
func RegisteredIDs() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	ids := make([]string, 0, len(registry))
	for id := range registry {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Build creates the effects named in ids, in order, each configured from
// cfg's "effects.<id>" section. Unknown IDs and factory failures are
// reported together; the effects that could be built are still returned.
func Build(ids []string, cfg config.Config) ([]Effect, error) {
	var (
		out  []Effect
		errs []error
	)
	for _, id := range ids {
		factory, ok := Lookup(id)
		if !ok {
			errs = append(errs, fmt.Errorf("effects: unknown effect %q", id))
			continue
		}
		eff, err := factory(cfg.Section("effects." + id))
		if err != nil {
			errs = append(errs, fmt.Errorf("effects: %s: %w", id, err))
			continue
		}
		out = append(out, eff)
	}
	return out, errors.Join(errs...)
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func checkFraction(name string, v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("%s %.3f outside [0,1]", name, v)
	}
	return nil
}
