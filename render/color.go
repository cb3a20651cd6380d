// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/color.go
// Summary: Colour model shared by the screen buffer and the shell interpreter.
// Usage: Effects and the interpreter build colours; flush targets encode them.

package render

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// ColorMode defines the type of color stored.
type ColorMode uint8

const (
	ColorModeDefault  ColorMode = iota // Terminal default colour
	ColorModeStandard                  // The 16 ANSI colours (0-7 normal, 8-15 bright)
	ColorMode256                       // 256-colour palette
	ColorModeRGB                       // 24-bit colour
)

// Color is a terminal colour in one of the supported modes. The zero value
// is the terminal default.
type Color struct {
	Mode    ColorMode
	Value   uint8 // Palette index for Standard and 256 modes
	R, G, B uint8 // Components for RGB mode
}

// DefaultColor is the terminal default colour.
var DefaultColor = Color{}

// Named ANSI colours.
var (
	Black         = Standard(0)
	Red           = Standard(1)
	Green         = Standard(2)
	Yellow        = Standard(3)
	Blue          = Standard(4)
	Magenta       = Standard(5)
	Cyan          = Standard(6)
	White         = Standard(7)
	BrightBlack   = Standard(8)
	BrightRed     = Standard(9)
	BrightGreen   = Standard(10)
	BrightYellow  = Standard(11)
	BrightBlue    = Standard(12)
	BrightMagenta = Standard(13)
	BrightCyan    = Standard(14)
	BrightWhite   = Standard(15)
)

// Standard returns one of the 16 ANSI colours. Out of range indices wrap.
func Standard(n uint8) Color { return Color{Mode: ColorModeStandard, Value: n % 16} }

// Indexed returns a 256-colour palette entry.
func Indexed(n uint8) Color { return Color{Mode: ColorMode256, Value: n} }

// RGB returns a true-colour value.
func RGB(r, g, b uint8) Color { return Color{Mode: ColorModeRGB, R: r, G: g, B: b} }

// IsDefault reports whether c is the terminal default colour.
func (c Color) IsDefault() bool { return c.Mode == ColorModeDefault }

// Tcell converts c to the equivalent tcell colour.
func (c Color) Tcell() tcell.Color {
	switch c.Mode {
	case ColorModeStandard, ColorMode256:
		return tcell.PaletteColor(int(c.Value))
	case ColorModeRGB:
		return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
	return tcell.ColorDefault
}

// appendSGR appends the SGR parameters selecting c as foreground (bg false)
// or background (bg true), without the CSI prefix or final 'm'.
func (c Color) appendSGR(dst []byte, bg bool) []byte {
	switch c.Mode {
	case ColorModeStandard:
		base := 30
		if bg {
			base = 40
		}
		if c.Value >= 8 {
			base += 60
		}
		return strconv.AppendInt(dst, int64(base+int(c.Value%8)), 10)
	case ColorMode256:
		if bg {
			dst = append(dst, "48;5;"...)
		} else {
			dst = append(dst, "38;5;"...)
		}
		return strconv.AppendInt(dst, int64(c.Value), 10)
	case ColorModeRGB:
		if bg {
			dst = append(dst, "48;2;"...)
		} else {
			dst = append(dst, "38;2;"...)
		}
		dst = strconv.AppendInt(dst, int64(c.R), 10)
		dst = append(dst, ';')
		dst = strconv.AppendInt(dst, int64(c.G), 10)
		dst = append(dst, ';')
		return strconv.AppendInt(dst, int64(c.B), 10)
	}
	if bg {
		return append(dst, "49"...)
	}
	return append(dst, "39"...)
}
