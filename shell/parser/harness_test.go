// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/parser/harness_test.go
// Summary: Test harness for VTerm control sequence testing.
// Usage: Used by test files to send sequences and verify screen state.

package parser

import (
	"strings"
	"testing"

	"github.com/framegrace/texelsky/render"
)

// TestHarness provides utilities for testing VTerm control sequences.
type TestHarness struct {
	vterm *VTerm
}

// NewTestHarness creates a new test harness with specified terminal size.
func NewTestHarness(width, height int, opts ...Option) *TestHarness {
	return &TestHarness{vterm: NewVTerm(width, height, opts...)}
}

// SendSeq feeds a byte string through the parser.
// Example: h.SendSeq("\x1b[5A") sends "cursor up 5"
func (h *TestHarness) SendSeq(seq string) {
	h.vterm.Process([]byte(seq))
}

// GetCell returns the cell at the specified position (0-based).
func (h *TestHarness) GetCell(x, y int) render.Cell {
	return h.vterm.Cell(x, y)
}

// GetCursor returns the current cursor position (0-based).
func (h *TestHarness) GetCursor() (x, y int) {
	return h.vterm.Cursor()
}

// GetLine returns row y as a string with trailing blanks trimmed.
func (h *TestHarness) GetLine(y int) string {
	w, _ := h.vterm.Size()
	var sb strings.Builder
	for x := 0; x < w; x++ {
		ch := h.vterm.Cell(x, y).Ch
		if ch == 0 {
			ch = ' '
		}
		sb.WriteRune(ch)
	}
	return strings.TrimRight(sb.String(), " ")
}

// AssertCursor verifies the cursor position.
func (h *TestHarness) AssertCursor(t *testing.T, wantX, wantY int) {
	t.Helper()
	x, y := h.GetCursor()
	if x != wantX || y != wantY {
		t.Errorf("cursor at (%d,%d), want (%d,%d)", x, y, wantX, wantY)
	}
}

// AssertLine verifies the text of a row.
func (h *TestHarness) AssertLine(t *testing.T, y int, want string) {
	t.Helper()
	if got := h.GetLine(y); got != want {
		t.Errorf("line %d = %q, want %q", y, got, want)
	}
}

// AssertBlank verifies that every cell is a default blank.
func (h *TestHarness) AssertBlank(t *testing.T) {
	t.Helper()
	w, ht := h.vterm.Size()
	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			if c := h.GetCell(x, y); c != render.BlankCell {
				t.Fatalf("cell (%d,%d) = %+v, want blank", x, y, c)
			}
		}
	}
}
