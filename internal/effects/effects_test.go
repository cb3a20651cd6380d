// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package effects

import (
	"math/rand"
	"reflect"
	"strings"
	"testing"

	"github.com/framegrace/texelsky/config"
	"github.com/framegrace/texelsky/render"
)

func seeded() *rand.Rand { return rand.New(rand.NewSource(7)) }

func countGlyphs(buf *render.Buffer) int {
	w, h := buf.Size()
	n := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if buf.Cell(x, y).Ch != ' ' {
				n++
			}
		}
	}
	return n
}

func TestRegisteredIDs(t *testing.T) {
	want := []string{"lightning", "rain", "stars"}
	if got := RegisteredIDs(); !reflect.DeepEqual(got, want) {
		t.Fatalf("RegisteredIDs = %v, want %v", got, want)
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("duplicate registration should panic")
		}
	}()
	Register("rain", func(config.Section) (Effect, error) { return nil, nil })
}

func TestBuild(t *testing.T) {
	cfg := config.Config{
		"effects.rain":  config.Section{"density": 0.1, "wind": 0.5},
		"effects.stars": config.Section{"density": 3.0},
	}
	effs, err := Build([]string{"rain", "meteors", "stars", "lightning"}, cfg)
	if err == nil {
		t.Fatalf("expected errors for unknown id and bad density")
	}
	if msg := err.Error(); !strings.Contains(msg, "meteors") || !strings.Contains(msg, "stars") {
		t.Fatalf("error should name both failures: %v", err)
	}
	var ids []string
	for _, e := range effs {
		ids = append(ids, e.ID())
	}
	if !reflect.DeepEqual(ids, []string{"rain", "lightning"}) {
		t.Fatalf("built %v", ids)
	}
	if rain := effs[0].(*rainEffect); rain.wind != 0.5 || rain.density != 0.1 {
		t.Fatalf("rain config not applied: %+v", rain)
	}

	effs, err = Build(config.DefaultEffects, nil)
	if err != nil || len(effs) != 3 {
		t.Fatalf("defaults with nil config: %v, %d effects", err, len(effs))
	}
}

func TestStarsStayInSkyAndBounds(t *testing.T) {
	e := newStarsEffect(0.2, seeded())
	buf := render.NewBuffer(40, 12)
	for frame := 0; frame < 50; frame++ {
		buf.Clear()
		e.Update(40, 12)
		e.Render(buf)
		for _, s := range e.stars {
			if s.x < 0 || s.x >= 40 || s.y < 0 || s.y >= 8 {
				t.Fatalf("star out of sky: %+v", s)
			}
		}
	}
	if len(e.stars) != int(40*8*0.2) {
		t.Fatalf("star count = %d", len(e.stars))
	}

	e.Update(10, 3)
	if len(e.stars) != int(10*2*0.2) {
		t.Fatalf("stars not repopulated on resize: %d", len(e.stars))
	}
	e.Update(0, 0)
	e.Render(render.NewBuffer(0, 0))
}

func TestStarGlowBlendsColour(t *testing.T) {
	e := newStarsEffect(0, seeded())
	e.stars = []star{{x: 0, y: 0, phase: 0.5 * 3.14159265}, {x: 1, y: 0, phase: 0.1}}
	buf := render.NewBuffer(2, 1)
	e.Render(buf)

	bright := buf.Cell(0, 0)
	if bright.Ch != '*' {
		t.Fatalf("peak glow glyph = %q, want '*'", bright.Ch)
	}
	r, g, b := bright.FG.R, bright.FG.G, bright.FG.B
	if bright.FG.Mode != render.ColorModeRGB || r < 200 || g < 200 || b < 180 {
		t.Fatalf("peak glow colour too dim: %d,%d,%d", r, g, b)
	}
	if dim := buf.Cell(1, 0); dim.Ch != '.' && dim.Ch != '+' {
		t.Fatalf("mid glow glyph = %q", dim.Ch)
	}
}

func TestRainFallsAndRespawns(t *testing.T) {
	e := newRainEffect(0.1, 0, seeded())
	e.Update(20, 10)
	if len(e.drops) != 20 {
		t.Fatalf("drop count = %d, want 20", len(e.drops))
	}
	for frame := 0; frame < 100; frame++ {
		e.Update(20, 10)
		for _, d := range e.drops {
			if d.x < 0 || d.x >= 20 || d.y < 0 || d.y >= 10 {
				t.Fatalf("drop escaped: %+v", d)
			}
		}
	}
	buf := render.NewBuffer(20, 10)
	e.Render(buf)
	if countGlyphs(buf) == 0 {
		t.Fatalf("rain drew nothing")
	}
	if c := buf.Cell(int(e.drops[0].x), int(e.drops[0].y)); c.Ch != '|' || c.FG != rainColor {
		t.Fatalf("drop cell = %+v", c)
	}
}

func TestRainGlyphFollowsWind(t *testing.T) {
	tests := []struct {
		wind float64
		want rune
	}{
		{0, '|'},
		{0.5, '\\'},
		{-0.5, '/'},
	}
	for _, tt := range tests {
		if got := newRainEffect(0, tt.wind, seeded()).glyph(); got != tt.want {
			t.Errorf("wind %.1f glyph = %q, want %q", tt.wind, got, tt.want)
		}
	}
}

func TestRainRenderKeepsSceneBackground(t *testing.T) {
	e := newRainEffect(0, 0, seeded())
	e.width, e.height = 3, 1
	e.drops = []drop{{x: 1, y: 0, speed: 1}}
	buf := render.NewBuffer(3, 1)
	sky := render.RGB(0, 0, 30)
	buf.SetWithBg(1, 0, ' ', render.DefaultColor, sky)
	e.Render(buf)
	if c := buf.Cell(1, 0); c.BG != sky {
		t.Fatalf("rain replaced background: %+v", c)
	}
}

func TestLightningFlashes(t *testing.T) {
	e := newLightningEffect(1, seeded())
	buf := render.NewBuffer(4, 2)
	buf.Set(0, 0, 'x', render.Blue)

	e.Update(4, 2)
	if !e.Flashing() {
		t.Fatalf("chance 1 should strike on the first frame")
	}
	e.Render(buf)
	if c := buf.Cell(0, 0); c.FG != render.BrightWhite || c.Ch != 'x' {
		t.Fatalf("flash cell = %+v", c)
	}

	for i := 0; i < flashFrames; i++ {
		e.Update(4, 2)
	}
	if e.Flashing() {
		t.Fatalf("flash should end after %d frames", flashFrames)
	}

	calm := newLightningEffect(0, seeded())
	for i := 0; i < 100; i++ {
		calm.Update(4, 2)
		if calm.Flashing() {
			t.Fatalf("chance 0 must never strike")
		}
	}
}
