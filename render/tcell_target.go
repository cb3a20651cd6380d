// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/tcell_target.go
// Summary: Flush target backed by a tcell.Screen.
// Usage: Used by the interactive runtime, which already owns a tcell screen for input.

package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// TcellTarget adapts a tcell.Screen to the Target interface. tcell has no
// output cursor of its own, so the position and style are tracked here.
type TcellTarget struct {
	screen tcell.Screen
	x, y   int
	style  tcell.Style
}

// NewTcellTarget wraps the provided screen.
func NewTcellTarget(screen tcell.Screen) *TcellTarget {
	return &TcellTarget{screen: screen, style: tcell.StyleDefault}
}

func (t *TcellTarget) Clear() {
	t.screen.Clear()
}

func (t *TcellTarget) MoveTo(x, y int) {
	t.x, t.y = x, y
}

func (t *TcellTarget) SetStyle(fg, bg Color) {
	t.style = tcell.StyleDefault.Foreground(fg.Tcell()).Background(bg.Tcell())
}

func (t *TcellTarget) Put(ch rune) {
	t.screen.SetContent(t.x, t.y, ch, nil, t.style)
	w := runewidth.RuneWidth(ch)
	if w < 1 {
		w = 1
	}
	t.x += w
}

func (t *TcellTarget) ResetStyle() {
	t.style = tcell.StyleDefault
}

func (t *TcellTarget) Sync() error {
	t.screen.Show()
	return nil
}
