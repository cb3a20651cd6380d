// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/gdamore/tcell/v2"
)

// recordingTarget captures the flush operation stream.
type recordingTarget struct {
	ops     []string
	syncErr error
}

func (r *recordingTarget) Clear()          { r.ops = append(r.ops, "clear") }
func (r *recordingTarget) MoveTo(x, y int) { r.ops = append(r.ops, fmt.Sprintf("move %d,%d", x, y)) }
func (r *recordingTarget) SetStyle(fg, bg Color) {
	r.ops = append(r.ops, fmt.Sprintf("style %v/%v", fg, bg))
}
func (r *recordingTarget) Put(ch rune) { r.ops = append(r.ops, "put "+string(ch)) }
func (r *recordingTarget) ResetStyle() { r.ops = append(r.ops, "reset") }
func (r *recordingTarget) Sync() error { return r.syncErr }
func (r *recordingTarget) drain() []string {
	ops := r.ops
	r.ops = nil
	return ops
}

func countPrefix(ops []string, prefix string) int {
	n := 0
	for _, op := range ops {
		if len(op) >= len(prefix) && op[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

func TestFlushIsIdempotent(t *testing.T) {
	b := NewBuffer(10, 4)
	rec := &recordingTarget{}

	b.Set(1, 1, 'x', Red)
	b.SetWithBg(5, 2, 'y', Green, Blue)
	if _, err := b.Flush(rec); err != nil {
		t.Fatalf("flush: %v", err)
	}
	rec.drain()

	n, err := b.Flush(rec)
	if err != nil {
		t.Fatalf("second flush: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no cells on second flush, got %d", n)
	}
	if ops := rec.drain(); len(ops) != 0 {
		t.Fatalf("expected no operations on second flush, got %v", ops)
	}
}

func TestFlushRepaintsEverythingAfterResize(t *testing.T) {
	b := NewBuffer(4, 3)
	rec := &recordingTarget{}
	n, err := b.Flush(rec)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if n != 12 {
		t.Fatalf("expected full repaint of 12 cells, got %d", n)
	}
	ops := rec.drain()
	if ops[0] != "clear" {
		t.Fatalf("expected repaint to start with clear, got %q", ops[0])
	}

	b.Resize(2, 2)
	if n, _ = b.Flush(rec); n != 4 {
		t.Fatalf("expected 4 cells after resize, got %d", n)
	}
}

func TestFlushSkipsRedundantMovesAndStyles(t *testing.T) {
	b := NewBuffer(10, 3)
	rec := &recordingTarget{}
	b.Flush(rec)
	rec.drain()

	b.SetString(2, 1, "abc", Red)
	b.Set(7, 1, 'z', Red)
	n, err := b.Flush(rec)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 changed cells, got %d", n)
	}
	ops := rec.drain()
	if got := countPrefix(ops, "move"); got != 2 {
		t.Errorf("expected 2 cursor moves (run start and gap), got %d: %v", got, ops)
	}
	if got := countPrefix(ops, "style"); got != 1 {
		t.Errorf("expected a single style change, got %d: %v", got, ops)
	}
	if ops[len(ops)-1] != "reset" {
		t.Errorf("expected trailing reset for non-default style, got %v", ops)
	}
}

func TestFlushSkipsCellsUnderWideGlyph(t *testing.T) {
	b := NewBuffer(6, 1)
	rec := &recordingTarget{}
	b.Flush(rec)
	rec.drain()

	b.Set(0, 0, '界', White)
	b.Set(1, 0, 'x', White)
	n, err := b.Flush(rec)
	if err != nil {
		t.Fatalf("flush: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected only the wide glyph, got %d cells", n)
	}
	if ops := rec.drain(); countPrefix(ops, "put x") != 0 {
		t.Fatalf("covered cell was drawn over the wide glyph: %v", ops)
	}

	b.Set(1, 0, 'y', White)
	if n, _ := b.Flush(rec); n != 0 {
		t.Fatalf("change under an unchanged wide glyph emitted %d cells", n)
	}
	rec.drain()

	b.Set(0, 0, 'a', White)
	if n, _ := b.Flush(rec); n != 2 {
		t.Fatalf("replacing the wide glyph should redraw both cells, got %d", n)
	}
	ops := rec.drain()
	if countPrefix(ops, "put a") != 1 || countPrefix(ops, "put y") != 1 {
		t.Fatalf("ops = %v", ops)
	}
}

func TestFlushNoResetWhenTrailingStyleDefault(t *testing.T) {
	b := NewBuffer(3, 1)
	rec := &recordingTarget{}
	b.Flush(rec)
	rec.drain()

	b.Set(0, 0, 'a', DefaultColor)
	b.Flush(rec)
	for _, op := range rec.drain() {
		if op == "reset" || countPrefix([]string{op}, "style") > 0 {
			t.Fatalf("unexpected style operation %q for default colours", op)
		}
	}
}

func TestOutOfBoundsWritesAreIgnored(t *testing.T) {
	b := NewBuffer(5, 5)
	coords := [][2]int{{-1, 0}, {0, -1}, {5, 0}, {0, 5}, {-100, -100}, {1 << 30, 2}, {2, 1 << 30}}
	for _, c := range coords {
		b.Set(c[0], c[1], 'x', Red)
		b.SetWithBg(c[0], c[1], 'x', Red, Blue)
		if got := b.Cell(c[0], c[1]); got != (Cell{}) {
			t.Fatalf("Cell(%d,%d) = %+v, want zero", c[0], c[1], got)
		}
	}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			if b.Cell(x, y) != BlankCell {
				t.Fatalf("cell %d,%d modified by out of bounds write", x, y)
			}
		}
	}

	empty := NewBuffer(0, 0)
	empty.Set(0, 0, 'x', Red)
	empty.Flash(White)
	if n, err := empty.Flush(&recordingTarget{}); n != 0 || err != nil {
		t.Fatalf("empty buffer flush = %d, %v", n, err)
	}
}

func TestSetKeepsBackgroundAndClearBlanks(t *testing.T) {
	b := NewBuffer(3, 1)
	b.SetWithBg(1, 0, '#', Red, Blue)
	b.Set(1, 0, 'a', Green)
	if got := b.Cell(1, 0); got != (Cell{Ch: 'a', FG: Green, BG: Blue}) {
		t.Fatalf("Set should keep background, got %+v", got)
	}
	b.Set(0, 0, '\x1b', Red)
	if got := b.Cell(0, 0).Ch; got != ' ' {
		t.Fatalf("control characters must not reach the grid, got %q", got)
	}
	b.Clear()
	if got := b.Cell(1, 0); got != BlankCell {
		t.Fatalf("Clear left %+v", got)
	}
}

func TestFlashOverridesForeground(t *testing.T) {
	b := NewBuffer(2, 2)
	b.Set(0, 0, '*', Red)
	b.Flash(BrightWhite)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			if b.Cell(x, y).FG != BrightWhite {
				t.Fatalf("cell %d,%d not flashed", x, y)
			}
		}
	}
	if b.Cell(0, 0).Ch != '*' {
		t.Fatalf("flash must keep glyphs")
	}
}

func TestFlushErrorForcesRepaint(t *testing.T) {
	b := NewBuffer(2, 1)
	rec := &recordingTarget{}
	b.Flush(rec)

	b.Set(0, 0, 'a', Red)
	rec.syncErr = errors.New("broken tty")
	if _, err := b.Flush(rec); err == nil {
		t.Fatalf("expected sync error to propagate")
	}
	rec.syncErr = nil
	rec.drain()
	if n, _ := b.Flush(rec); n != 2 {
		t.Fatalf("expected full repaint after failed flush, got %d cells", n)
	}
}

func TestANSIWriterOutput(t *testing.T) {
	var out bytes.Buffer
	w := NewANSIWriter(&out)
	b := NewBuffer(3, 1)
	b.Set(0, 0, 'a', Red)
	b.Set(1, 0, 'b', Red)
	if _, err := b.Flush(w); err != nil {
		t.Fatalf("flush: %v", err)
	}
	want := "\x1b[2J\x1b[1;1H\x1b[31;49mab\x1b[39;49m "
	if got := out.String(); got != want {
		t.Fatalf("first frame = %q, want %q", got, want)
	}

	out.Reset()
	b.Set(2, 0, 'c', RGB(1, 2, 3))
	b.Flush(w)
	want = "\x1b[1;3H\x1b[38;2;1;2;3;49mc\x1b[0m"
	if got := out.String(); got != want {
		t.Fatalf("second frame = %q, want %q", got, want)
	}

	out.Reset()
	b.Flush(w)
	if out.Len() != 0 {
		t.Fatalf("idle frame wrote %q", out.String())
	}
}

func TestColorSGR(t *testing.T) {
	tests := []struct {
		name string
		c    Color
		bg   bool
		want string
	}{
		{"default fg", DefaultColor, false, "39"},
		{"default bg", DefaultColor, true, "49"},
		{"red fg", Red, false, "31"},
		{"bright red fg", BrightRed, false, "91"},
		{"blue bg", Blue, true, "44"},
		{"bright white bg", BrightWhite, true, "107"},
		{"indexed fg", Indexed(208), false, "38;5;208"},
		{"indexed bg", Indexed(17), true, "48;5;17"},
		{"rgb bg", RGB(10, 20, 30), true, "48;2;10;20;30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(tt.c.appendSGR(nil, tt.bg)); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTcellTargetWritesScreen(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	defer screen.Fini()
	screen.SetSize(6, 2)

	b := NewBuffer(6, 2)
	b.SetString(1, 1, "hi", Green)
	if _, err := b.Flush(NewTcellTarget(screen)); err != nil {
		t.Fatalf("flush: %v", err)
	}

	mainc, _, style, _ := screen.GetContent(2, 1)
	if mainc != 'i' {
		t.Fatalf("expected 'i' at 2,1, got %q", mainc)
	}
	fg, _, _ := style.Decompose()
	if fg != Green.Tcell() {
		t.Fatalf("expected green foreground, got %v", fg)
	}
}
