// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/lightning.go
// Summary: Occasional full-screen lightning flash.
// Notes: Must render after the layers it lights up; it recolours every cell.

package effects

import (
	"math/rand"

	"github.com/framegrace/texelsky/config"
	"github.com/framegrace/texelsky/render"
)

const flashFrames = 3

type lightningEffect struct {
	chance    float64 // per-frame probability of a strike
	rng       *rand.Rand
	remaining int
}

func newLightningEffect(chance float64, rng *rand.Rand) *lightningEffect {
	return &lightningEffect{chance: chance, rng: rng}
}

func (e *lightningEffect) ID() string { return "lightning" }

func (e *lightningEffect) Update(width, height int) {
	if e.remaining > 0 {
		e.remaining--
		return
	}
	if e.rng.Float64() < e.chance {
		e.remaining = flashFrames
	}
}

// Flashing reports whether the current frame is lit.
func (e *lightningEffect) Flashing() bool { return e.remaining > 0 }

func (e *lightningEffect) Render(buf *render.Buffer) {
	if e.remaining > 0 {
		buf.Flash(render.BrightWhite)
	}
}

func init() {
	Register("lightning", func(cfg config.Section) (Effect, error) {
		chance := cfg.Float("chance", 0.004)
		if err := checkFraction("chance", chance); err != nil {
			return nil, err
		}
		return newLightningEffect(chance, newRand()), nil
	})
}
