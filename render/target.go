// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: render/target.go
// Summary: Flush targets that turn the diff operation stream into output.
// Usage: Buffer.Flush drives a Target; ANSIWriter emits raw escape sequences.

package render

import (
	"bufio"
	"io"
	"strconv"
	"unicode/utf8"
)

// Target receives the operation stream produced by Buffer.Flush.
type Target interface {
	// Clear erases the whole physical screen.
	Clear()
	// MoveTo positions the output cursor at a 0-based cell.
	MoveTo(x, y int)
	// SetStyle selects the colours for subsequent glyphs.
	SetStyle(fg, bg Color)
	// Put writes one glyph at the cursor and advances it.
	Put(ch rune)
	// ResetStyle restores the default colours.
	ResetStyle()
	// Sync pushes everything written so far to the device.
	Sync() error
}

// ANSIWriter is a Target that writes VT100/ANSI escape sequences.
type ANSIWriter struct {
	w   *bufio.Writer
	buf []byte
	err error
}

// NewANSIWriter wraps w in a buffered ANSI emitter.
func NewANSIWriter(w io.Writer) *ANSIWriter {
	return &ANSIWriter{w: bufio.NewWriterSize(w, 16*1024), buf: make([]byte, 0, 32)}
}

func (a *ANSIWriter) write(p []byte) {
	if a.err != nil {
		return
	}
	_, a.err = a.w.Write(p)
}

func (a *ANSIWriter) Clear() {
	a.write([]byte("\x1b[2J"))
}

func (a *ANSIWriter) MoveTo(x, y int) {
	b := append(a.buf[:0], "\x1b["...)
	b = strconv.AppendInt(b, int64(y+1), 10)
	b = append(b, ';')
	b = strconv.AppendInt(b, int64(x+1), 10)
	b = append(b, 'H')
	a.write(b)
}

func (a *ANSIWriter) SetStyle(fg, bg Color) {
	b := append(a.buf[:0], "\x1b["...)
	b = fg.appendSGR(b, false)
	b = append(b, ';')
	b = bg.appendSGR(b, true)
	b = append(b, 'm')
	a.write(b)
}

func (a *ANSIWriter) Put(ch rune) {
	b := utf8.AppendRune(a.buf[:0], ch)
	a.write(b)
}

func (a *ANSIWriter) ResetStyle() {
	a.write([]byte("\x1b[0m"))
}

// ShowCursor moves the cursor to (x, y) and makes it visible.
func (a *ANSIWriter) ShowCursor(x, y int) {
	a.MoveTo(x, y)
	a.write([]byte("\x1b[?25h"))
}

// HideCursor hides the cursor.
func (a *ANSIWriter) HideCursor() {
	a.write([]byte("\x1b[?25l"))
}

// Sync flushes buffered output and returns the first error seen since the
// writer was created.
func (a *ANSIWriter) Sync() error {
	if a.err != nil {
		return a.err
	}
	a.err = a.w.Flush()
	return a.err
}
