// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/stars.go
// Summary: Twinkling star field.
// Notes: Each star cycles its glow on its own phase; colour is blended from a
// dim blue to near white in Lab space.

package effects

import (
	"math"
	"math/rand"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/framegrace/texelsky/config"
	"github.com/framegrace/texelsky/render"
)

var (
	starDim    = colorful.Color{R: 0.22, G: 0.27, B: 0.48}
	starBright = colorful.Color{R: 1.0, G: 0.98, B: 0.88}
)

type star struct {
	x, y  int
	phase float64
	speed float64
}

type starsEffect struct {
	density       float64
	rng           *rand.Rand
	width, height int
	stars         []star
}

func newStarsEffect(density float64, rng *rand.Rand) *starsEffect {
	return &starsEffect{density: density, rng: rng}
}

func (e *starsEffect) ID() string { return "stars" }

func (e *starsEffect) Update(width, height int) {
	if width != e.width || height != e.height {
		e.populate(width, height)
	}
	for i := range e.stars {
		s := &e.stars[i]
		s.phase = math.Mod(s.phase+s.speed, 2*math.Pi)
	}
}

// populate scatters stars over the upper two thirds of the screen.
func (e *starsEffect) populate(width, height int) {
	e.width, e.height = width, height
	e.stars = e.stars[:0]
	sky := height * 2 / 3
	if width <= 0 || sky <= 0 {
		return
	}
	n := int(float64(width*sky) * e.density)
	for i := 0; i < n; i++ {
		e.stars = append(e.stars, star{
			x:     e.rng.Intn(width),
			y:     e.rng.Intn(sky),
			phase: e.rng.Float64() * 2 * math.Pi,
			speed: 0.05 + e.rng.Float64()*0.15,
		})
	}
}

func (e *starsEffect) Render(buf *render.Buffer) {
	for _, s := range e.stars {
		glow := (math.Sin(s.phase) + 1) / 2
		ch, ok := starGlyph(glow)
		if !ok {
			continue
		}
		r, g, b := starDim.BlendLab(starBright, glow).Clamped().RGB255()
		buf.Set(s.x, s.y, ch, render.RGB(r, g, b))
	}
}

func starGlyph(glow float64) (rune, bool) {
	switch {
	case glow > 0.85:
		return '*', true
	case glow > 0.55:
		return '+', true
	case glow > 0.25:
		return '.', true
	}
	return 0, false
}

func init() {
	Register("stars", func(cfg config.Section) (Effect, error) {
		density := cfg.Float("density", 0.015)
		if err := checkFraction("density", density); err != nil {
			return nil, err
		}
		return newStarsEffect(density, newRand()), nil
	})
}
