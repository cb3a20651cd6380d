// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/parser/vterm.go
// Summary: Screen state of the hosted shell, updated from parser events.
// Usage: Owned by the shell manager; composed onto the render buffer each frame.
// Notes: Every input is accepted; unsupported sequences are dropped silently.

package parser

import (
	"fmt"

	"github.com/mattn/go-runewidth"

	"github.com/framegrace/texelsky/render"
)

const tabWidth = 8

// VTerm holds the state of a virtual terminal.
type VTerm struct {
	width, height        int
	grid                 [][]render.Cell
	cursorX, cursorY     int
	savedCursorX         int
	savedCursorY         int
	cursorVisible        bool
	currentFG, currentBG render.Color
	parser               *Parser
	apply                func(Event)
	WriteToPty           func([]byte)
}

// Option configures a VTerm.
type Option func(*VTerm)

// WithPtyWriter sets the callback used to answer terminal queries such as
// cursor position reports.
func WithPtyWriter(writer func([]byte)) Option {
	return func(v *VTerm) { v.WriteToPty = writer }
}

// NewVTerm creates a blank virtual terminal. Dimensions below 1 are raised
// to 1 so the cursor always has a valid cell.
func NewVTerm(width, height int, opts ...Option) *VTerm {
	v := &VTerm{
		cursorVisible: true,
		parser:        NewParser(),
	}
	v.apply = v.Apply
	for _, opt := range opts {
		opt(v)
	}
	v.Resize(width, height)
	return v
}

// Process feeds raw shell output through the tokenizer into the screen.
func (v *VTerm) Process(data []byte) {
	v.parser.Parse(data, v.apply)
}

// Resize reallocates the grid blank and homes the cursor.
func (v *VTerm) Resize(width, height int) {
	v.width = max(width, 1)
	v.height = max(height, 1)
	v.grid = make([][]render.Cell, v.height)
	for y := range v.grid {
		v.grid[y] = make([]render.Cell, v.width)
	}
	v.ClearScreen()
	v.cursorX, v.cursorY = 0, 0
}

// Reset returns the terminal to its power-on state, keeping the size.
func (v *VTerm) Reset() {
	v.ClearScreen()
	v.cursorX, v.cursorY = 0, 0
	v.savedCursorX, v.savedCursorY = 0, 0
	v.cursorVisible = true
	v.currentFG, v.currentBG = render.DefaultColor, render.DefaultColor
}

func (v *VTerm) Size() (int, int)    { return v.width, v.height }
func (v *VTerm) Cursor() (int, int)  { return v.cursorX, v.cursorY }
func (v *VTerm) CursorVisible() bool { return v.cursorVisible }

// Cell returns the cell at (x, y), or the zero Cell out of bounds.
func (v *VTerm) Cell(x, y int) render.Cell {
	if x < 0 || y < 0 || x >= v.width || y >= v.height {
		return render.Cell{}
	}
	return v.grid[y][x]
}

// Apply updates the screen for a single event.
func (v *VTerm) Apply(ev Event) {
	switch ev.Kind {
	case EventPrint:
		v.placeChar(ev.Rune)
	case EventControl:
		v.control(ev.Byte)
	case EventCSI:
		if ev.Intermediate != 0 {
			return
		}
		if ev.Private != 0 {
			v.processPrivateCSI(ev.Final, ev.Params)
			return
		}
		if ev.Final == 'm' {
			v.selectGraphicRendition(ev.Params, ev.Sub)
			return
		}
		v.ProcessCSI(ev.Final, ev.Params)
	case EventEscape:
		v.escape(ev.Byte)
	}
}

func (v *VTerm) placeChar(r rune) {
	if runewidth.RuneWidth(r) == 0 {
		return
	}
	v.grid[v.cursorY][v.cursorX] = render.Cell{Ch: r, FG: v.currentFG, BG: v.currentBG}
	v.cursorX++
	if v.cursorX >= v.width {
		v.cursorX = 0
		v.LineFeed()
	}
}

func (v *VTerm) control(b byte) {
	switch b {
	case '\b':
		v.Backspace()
	case '\t':
		v.Tab()
	case '\n':
		v.LineFeed()
	case '\r':
		v.CarriageReturn()
	case '\f':
		v.ClearScreen()
		v.SetCursorPos(0, 0)
	}
}

func (v *VTerm) escape(b byte) {
	switch b {
	case '7':
		v.SaveCursor()
	case '8':
		v.RestoreCursor()
	case 'c':
		v.Reset()
	case 'D':
		v.LineFeed()
	case 'E':
		v.CarriageReturn()
		v.LineFeed()
	case 'M':
		v.ReverseIndex()
	}
}

// ProcessCSI handles a control sequence without a private marker.
func (v *VTerm) ProcessCSI(command byte, params []int) {
	param := func(i int, defaultVal int) int {
		if i < len(params) && params[i] != 0 {
			return params[i]
		}
		return defaultVal
	}

	switch command {
	case 'A': // Cursor Up
		v.MoveCursorUp(param(0, 1))
	case 'B': // Cursor Down
		v.MoveCursorDown(param(0, 1))
	case 'C': // Cursor Forward
		v.MoveCursorForward(param(0, 1))
	case 'D': // Cursor Backward
		v.MoveCursorBackward(param(0, 1))
	case 'H', 'f':
		v.SetCursorPos(param(0, 1)-1, param(1, 1)-1)
	case 'G': // Cursor Horizontal Absolute
		v.SetCursorPos(v.cursorY, param(0, 1)-1)
	case 'd': // Vertical Line Position Absolute
		v.SetCursorPos(param(0, 1)-1, v.cursorX)
	case 'J':
		v.ClearScreenMode(param(0, 0))
	case 'K':
		v.ClearLine(param(0, 0))
	case 'P': // Delete Character
		v.DeleteCharacters(param(0, 1))
	case '@': // Insert Character
		v.InsertCharacters(param(0, 1))
	case 'X': // Erase Character
		v.EraseCharacters(param(0, 1))
	case 'm':
		v.selectGraphicRendition(params, nil)
	case 'h':
		if param(0, 0) == 25 {
			v.cursorVisible = true
		}
	case 'l':
		if param(0, 0) == 25 {
			v.cursorVisible = false
		}
	case 's':
		v.SaveCursor()
	case 'u':
		v.RestoreCursor()
	case 'n': // Device Status Report
		switch param(0, 0) {
		case 5:
			v.respond([]byte("\x1b[0n"))
		case 6:
			v.respond([]byte(fmt.Sprintf("\x1b[%d;%dR", v.cursorY+1, v.cursorX+1)))
		}
	}
}

func (v *VTerm) processPrivateCSI(command byte, params []int) {
	if len(params) == 0 || (command != 'h' && command != 'l') {
		return
	}
	for _, mode := range params {
		if mode == 25 {
			v.cursorVisible = command == 'h'
		}
	}
}

func (v *VTerm) respond(b []byte) {
	if v.WriteToPty != nil {
		v.WriteToPty(b)
	}
}

// SetCursorPos moves the cursor, clamping to the grid.
func (v *VTerm) SetCursorPos(row, col int) {
	v.cursorY = clamp(row, 0, v.height-1)
	v.cursorX = clamp(col, 0, v.width-1)
}

// MoveCursorUp moves the cursor n rows up without scrolling.
func (v *VTerm) MoveCursorUp(n int) { v.SetCursorPos(v.cursorY-n, v.cursorX) }

// MoveCursorDown moves the cursor n rows down without scrolling.
func (v *VTerm) MoveCursorDown(n int) { v.SetCursorPos(v.cursorY+n, v.cursorX) }

// MoveCursorForward moves the cursor n columns right.
func (v *VTerm) MoveCursorForward(n int) { v.SetCursorPos(v.cursorY, v.cursorX+n) }

// MoveCursorBackward moves the cursor n columns left.
func (v *VTerm) MoveCursorBackward(n int) { v.SetCursorPos(v.cursorY, v.cursorX-n) }

func (v *VTerm) SaveCursor() {
	v.savedCursorX, v.savedCursorY = v.cursorX, v.cursorY
}

// RestoreCursor returns to the saved position, clamped in case the grid
// shrank since it was saved.
func (v *VTerm) RestoreCursor() {
	v.SetCursorPos(v.savedCursorY, v.savedCursorX)
}

func (v *VTerm) CarriageReturn() { v.cursorX = 0 }

// Backspace moves left one column; it never wraps to the previous row.
func (v *VTerm) Backspace() {
	if v.cursorX > 0 {
		v.cursorX--
	}
}

// Tab advances to the next multiple of eight, wrapping like a printed glyph.
func (v *VTerm) Tab() {
	v.cursorX = (v.cursorX/tabWidth + 1) * tabWidth
	if v.cursorX >= v.width {
		v.cursorX = 0
		v.LineFeed()
	}
}

// LineFeed moves down one row, scrolling at the bottom.
func (v *VTerm) LineFeed() {
	if v.cursorY >= v.height-1 {
		v.cursorY = v.height - 1
		v.scrollUp()
		return
	}
	v.cursorY++
}

// ReverseIndex moves up one row, scrolling the screen down at the top.
func (v *VTerm) ReverseIndex() {
	if v.cursorY > 0 {
		v.cursorY--
		return
	}
	last := v.grid[v.height-1]
	copy(v.grid[1:], v.grid[:v.height-1])
	clearCells(last)
	v.grid[0] = last
}

// scrollUp drops the top row and appends a blank one. Rows are recycled so
// the grid keeps its exact dimensions.
func (v *VTerm) scrollUp() {
	first := v.grid[0]
	copy(v.grid, v.grid[1:])
	clearCells(first)
	v.grid[v.height-1] = first
}

// ClearScreenMode implements ED. Mode 1 (start to cursor) is not supported.
func (v *VTerm) ClearScreenMode(mode int) {
	switch mode {
	case 0:
		v.ClearToEndOfScreen()
	case 2, 3:
		v.ClearScreen()
		v.SetCursorPos(0, 0)
	}
}

// ClearLine implements EL. Mode 1 (start to cursor) is not supported.
func (v *VTerm) ClearLine(mode int) {
	row := v.grid[v.cursorY]
	switch mode {
	case 0:
		clearCells(row[v.cursorX:])
	case 2:
		clearCells(row)
	}
}

func (v *VTerm) ClearScreen() {
	for y := range v.grid {
		clearCells(v.grid[y])
	}
}

func (v *VTerm) ClearToEndOfScreen() {
	clearCells(v.grid[v.cursorY][v.cursorX:])
	for y := v.cursorY + 1; y < v.height; y++ {
		clearCells(v.grid[y])
	}
}

// EraseCharacters blanks n cells from the cursor without shifting.
func (v *VTerm) EraseCharacters(n int) {
	end := min(v.cursorX+n, v.width)
	clearCells(v.grid[v.cursorY][v.cursorX:end])
}

// DeleteCharacters removes n cells at the cursor, shifting the rest of the
// line left and blanking the tail.
func (v *VTerm) DeleteCharacters(n int) {
	line := v.grid[v.cursorY]
	n = min(n, v.width-v.cursorX)
	copy(line[v.cursorX:], line[v.cursorX+n:])
	clearCells(line[v.width-n:])
}

// InsertCharacters inserts n blanks at the cursor, shifting the rest of the
// line right; cells pushed past the edge are lost.
func (v *VTerm) InsertCharacters(n int) {
	line := v.grid[v.cursorY]
	n = min(n, v.width-v.cursorX)
	copy(line[v.cursorX+n:], line[v.cursorX:])
	clearCells(line[v.cursorX : v.cursorX+n])
}

func clearCells(cells []render.Cell) {
	for i := range cells {
		cells[i] = render.BlankCell
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
