// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/buffer.go
// Summary: Double-buffered cell grid with a minimal diff flush.
// Usage: Owned by the frame loop; effects and the shell overlay draw into it.
// Notes: Only cells that changed since the last flush are emitted.

package render

import "github.com/mattn/go-runewidth"

// Cell represents a single character cell on the screen.
type Cell struct {
	Ch rune
	FG Color
	BG Color
}

// BlankCell is a space with default colours.
var BlankCell = Cell{Ch: ' '}

// Buffer holds the grid being drawn this frame and the grid last emitted to
// the terminal.
type Buffer struct {
	width, height int
	curr, prev    [][]Cell
	// repaint forces the next flush to emit every cell, used after a resize
	// or a failed flush when the terminal contents are unknown.
	repaint bool
}

// NewBuffer allocates a buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{}
	b.Resize(width, height)
	return b
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (int, int) { return b.width, b.height }

// Resize reallocates both grids. The next flush repaints the whole screen.
func (b *Buffer) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	b.width, b.height = width, height
	b.curr = makeGrid(width, height)
	b.prev = makeGrid(width, height)
	b.repaint = true
}

// Clear blanks the current grid. The previous grid is left alone so the
// next flush still only emits differences.
func (b *Buffer) Clear() {
	clearGrid(b.curr)
}

// Set writes a glyph and foreground colour, keeping the cell's background.
// Writes outside the grid are ignored.
func (b *Buffer) Set(x, y int, ch rune, fg Color) {
	if !b.inBounds(x, y) {
		return
	}
	cell := &b.curr[y][x]
	cell.Ch = sanitize(ch)
	cell.FG = fg
}

// SetWithBg writes a glyph with both colours. Writes outside the grid are
// ignored.
func (b *Buffer) SetWithBg(x, y int, ch rune, fg, bg Color) {
	if !b.inBounds(x, y) {
		return
	}
	b.curr[y][x] = Cell{Ch: sanitize(ch), FG: fg, BG: bg}
}

// SetString writes s starting at (x, y), advancing by display width and
// clipping at the right edge. It returns the column after the last glyph.
func (b *Buffer) SetString(x, y int, s string, fg Color) int {
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		b.Set(x, y, r, fg)
		x += w
	}
	return x
}

// Cell returns the current cell at (x, y), or the zero Cell out of bounds.
func (b *Buffer) Cell(x, y int) Cell {
	if !b.inBounds(x, y) {
		return Cell{}
	}
	return b.curr[y][x]
}

// Flash overwrites the foreground of every current cell.
func (b *Buffer) Flash(color Color) {
	for y := range b.curr {
		row := b.curr[y]
		for x := range row {
			row[x].FG = color
		}
	}
}

// Flush emits the cells that differ from the last flushed frame and returns
// how many were written.
//
// A cursor move is only emitted when the terminal cursor is not already
// where the glyph goes, and a style change only when the colours differ from
// the last ones emitted. A non-default trailing style is reset. The cell
// covered by the right half of a wide glyph is skipped.
func (b *Buffer) Flush(t Target) (int, error) {
	repaint := b.repaint
	if repaint {
		t.Clear()
	}

	emitted := 0
	nextX, nextY := -1, -1
	fg, bg := DefaultColor, DefaultColor

	for y := 0; y < b.height; y++ {
		curRow, prevRow := b.curr[y], b.prev[y]
		// uncovered is set when the cell was hidden under a wide glyph that
		// has just been replaced, so the terminal no longer shows it.
		uncovered := false
		for x := 0; x < b.width; x++ {
			cell := curRow[x]
			w := runewidth.RuneWidth(cell.Ch)
			if w < 1 {
				w = 1
			}
			changed := repaint || uncovered || cell != prevRow[x]
			uncovered = changed && w == 1 && runewidth.RuneWidth(prevRow[x].Ch) == 2
			if changed {
				if x != nextX || y != nextY {
					t.MoveTo(x, y)
				}
				if cell.FG != fg || cell.BG != bg {
					t.SetStyle(cell.FG, cell.BG)
					fg, bg = cell.FG, cell.BG
				}
				t.Put(cell.Ch)
				emitted++
				nextX, nextY = x+w, y
			}
			// Cells under the right half of a wide glyph are never drawn.
			x += w - 1
		}
	}

	if !fg.IsDefault() || !bg.IsDefault() {
		t.ResetStyle()
	}

	if err := t.Sync(); err != nil {
		b.repaint = true
		return emitted, err
	}

	for y := range b.curr {
		copy(b.prev[y], b.curr[y])
	}
	b.repaint = false
	return emitted, nil
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// sanitize keeps control characters out of the grid; they would move the
// real terminal cursor when flushed.
func sanitize(ch rune) rune {
	if ch < ' ' || ch == 0x7f {
		return ' '
	}
	return ch
}

func makeGrid(w, h int) [][]Cell {
	grid := make([][]Cell, h)
	for i := range grid {
		grid[i] = make([]Cell, w)
	}
	clearGrid(grid)
	return grid
}

func clearGrid(grid [][]Cell) {
	for y := range grid {
		row := grid[y]
		for x := range row {
			row[x] = BlankCell
		}
	}
}
