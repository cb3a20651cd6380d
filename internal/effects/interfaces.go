// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/effects/interfaces.go
// Summary: Contract between the frame loop and decorative scene effects.

package effects

import "github.com/framegrace/texelsky/render"

// Effect is one layer of the sky scene. Update advances it by one frame for
// the given screen size; Render draws it with bounded Set/SetWithBg calls.
type Effect interface {
	ID() string
	Update(width, height int)
	Render(buf *render.Buffer)
}
