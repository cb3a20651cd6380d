// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/sky/scene.go
// Summary: The decorative layer: effects plus the status line, drawn into one buffer.
// Usage: Shared by the interactive frame loop and the one-shot frame dump.

package skyruntime

import (
	"github.com/framegrace/texelsky/internal/effects"
	"github.com/framegrace/texelsky/render"
)

var hudColor = render.RGB(170, 180, 200)

// Scene owns the screen buffer and the effects painted into it.
type Scene struct {
	buf     *render.Buffer
	effects []effects.Effect

	// HUD enables the status line on the bottom row.
	HUD bool
}

// NewScene creates a width×height scene drawing effs in order.
func NewScene(width, height int, effs []effects.Effect) *Scene {
	return &Scene{
		buf:     render.NewBuffer(width, height),
		effects: effs,
	}
}

func (s *Scene) Buffer() *render.Buffer { return s.buf }

func (s *Scene) Size() (int, int) { return s.buf.Size() }

// Resize reallocates the buffer; the next flush repaints everything.
func (s *Scene) Resize(width, height int) {
	s.buf.Resize(width, height)
}

// Draw clears the buffer, advances and renders every effect, then the
// status line when enabled.
func (s *Scene) Draw(status string) {
	s.buf.Clear()
	w, h := s.buf.Size()
	for _, e := range s.effects {
		e.Update(w, h)
		e.Render(s.buf)
	}
	if s.HUD && status != "" && h > 0 {
		s.buf.SetString(0, h-1, status, hudColor)
	}
}
