// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/parser/sgr.go
// Summary: Select Graphic Rendition handling (colours only).

package parser

import "github.com/framegrace/texelsky/render"

// selectGraphicRendition applies SGR params. sub marks colon-joined
// sub-parameters and may be nil when the sequence used only ';'.
func (v *VTerm) selectGraphicRendition(params []int, sub []bool) {
	if len(params) == 0 {
		params = []int{0}
	}
	isSub := func(i int) bool { return i < len(sub) && sub[i] }

	for i := 0; i < len(params); i++ {
		p := params[i]
		switch {
		case p == 0:
			v.currentFG = render.DefaultColor
			v.currentBG = render.DefaultColor
		case p >= 30 && p <= 37:
			v.currentFG = render.Standard(uint8(p - 30))
		case p >= 90 && p <= 97:
			v.currentFG = render.Standard(uint8(p - 90 + 8))
		case p >= 40 && p <= 47:
			v.currentBG = render.Standard(uint8(p - 40))
		case p >= 100 && p <= 107:
			v.currentBG = render.Standard(uint8(p - 100 + 8))
		case p == 39:
			v.currentFG = render.DefaultColor
		case p == 49:
			v.currentBG = render.DefaultColor
		case p == 38 || p == 48:
			var (
				c        render.Color
				consumed int
				ok       bool
			)
			if isSub(i + 1) {
				end := i + 1
				for end < len(params) && isSub(end) {
					end++
				}
				c, ok = colonColor(params[i+1 : end])
				consumed = end - i - 1
			} else {
				c, consumed, ok = extendedColor(params[i+1:])
			}
			i += consumed
			if !ok {
				continue
			}
			if p == 38 {
				v.currentFG = c
			} else {
				v.currentBG = c
			}
		}
	}
}

// extendedColor decodes the ';'-separated arguments following 38 or 48:
// "5;N" or "2;R;G;B". It reports how many parameters it used; an unknown
// selector uses only itself.
func extendedColor(args []int) (render.Color, int, bool) {
	if len(args) == 0 {
		return render.Color{}, 0, false
	}
	switch args[0] {
	case 5:
		if len(args) < 2 {
			return render.Color{}, len(args), false
		}
		return render.Indexed(channel(args[1])), 2, true
	case 2:
		if len(args) < 4 {
			return render.Color{}, len(args), false
		}
		return render.RGB(channel(args[1]), channel(args[2]), channel(args[3])), 4, true
	}
	return render.Color{}, 1, false
}

// colonColor decodes a ':'-joined group: "5:N", "2:R:G:B" or the ITU form
// "2:CS:R:G:B" whose colour-space id is ignored.
func colonColor(args []int) (render.Color, bool) {
	if len(args) == 0 {
		return render.Color{}, false
	}
	switch args[0] {
	case 5:
		if len(args) >= 2 {
			return render.Indexed(channel(args[1])), true
		}
	case 2:
		switch {
		case len(args) >= 5:
			return render.RGB(channel(args[2]), channel(args[3]), channel(args[4])), true
		case len(args) == 4:
			return render.RGB(channel(args[1]), channel(args[2]), channel(args[3])), true
		}
	}
	return render.Color{}, false
}

func channel(n int) uint8 {
	if n > 255 {
		return 255
	}
	return uint8(n)
}
