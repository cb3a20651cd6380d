// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/rain.go
// Summary: Falling rain with horizontal wind drift.

package effects

import (
	"math/rand"

	"github.com/framegrace/texelsky/config"
	"github.com/framegrace/texelsky/render"
)

var rainColor = render.RGB(96, 140, 220)

type drop struct {
	x, y  float64
	speed float64
}

type rainEffect struct {
	density       float64
	wind          float64 // columns of drift per row fallen
	rng           *rand.Rand
	width, height int
	drops         []drop
}

func newRainEffect(density, wind float64, rng *rand.Rand) *rainEffect {
	return &rainEffect{density: density, wind: wind, rng: rng}
}

func (e *rainEffect) ID() string { return "rain" }

func (e *rainEffect) Update(width, height int) {
	if width != e.width || height != e.height {
		e.populate(width, height)
	}
	w, h := float64(e.width), float64(e.height)
	for i := range e.drops {
		d := &e.drops[i]
		d.y += d.speed
		d.x += e.wind * d.speed
		if d.y >= h || d.x < 0 || d.x >= w {
			e.respawn(d)
		}
	}
}

func (e *rainEffect) populate(width, height int) {
	e.width, e.height = width, height
	e.drops = e.drops[:0]
	if width <= 0 || height <= 0 {
		return
	}
	n := int(float64(width*height) * e.density)
	for i := 0; i < n; i++ {
		d := drop{
			x:     e.rng.Float64() * float64(width),
			y:     e.rng.Float64() * float64(height),
			speed: 0.6 + e.rng.Float64()*0.8,
		}
		e.drops = append(e.drops, d)
	}
}

// respawn puts a drop back on the top row at a random column.
func (e *rainEffect) respawn(d *drop) {
	d.x = e.rng.Float64() * float64(e.width)
	d.y = 0
	d.speed = 0.6 + e.rng.Float64()*0.8
}

func (e *rainEffect) glyph() rune {
	switch {
	case e.wind > 0.2:
		return '\\'
	case e.wind < -0.2:
		return '/'
	}
	return '|'
}

func (e *rainEffect) Render(buf *render.Buffer) {
	ch := e.glyph()
	for _, d := range e.drops {
		buf.Set(int(d.x), int(d.y), ch, rainColor)
	}
}

func init() {
	Register("rain", func(cfg config.Section) (Effect, error) {
		density := cfg.Float("density", 0.02)
		if err := checkFraction("density", density); err != nil {
			return nil, err
		}
		return newRainEffect(density, cfg.Float("wind", 0), newRand()), nil
	})
}
