// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/manager.go
// Summary: Hosts an interactive shell as an overlay on the sky scene.
// Usage: The frame loop pumps output, forwards keys, resizes and renders through Manager.
// Notes: Owns both the interpreter and the PTY session; not safe for concurrent use.

package shell

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelsky/render"
	"github.com/framegrace/texelsky/shell/bridge"
	"github.com/framegrace/texelsky/shell/keys"
	"github.com/framegrace/texelsky/shell/parser"
)

const (
	DefaultWarmup = 100 * time.Millisecond

	// MaxPumpBytes bounds the shell output interpreted per Pump call.
	MaxPumpBytes = 64 << 10

	// DefaultSetupCommand silences zsh's partial-line marker and clears the
	// screen so the first prompt lands at the top-left. Other shells ignore
	// the setopt calls.
	DefaultSetupCommand = "setopt nopromptsp 2>/dev/null; setopt nopromptcr 2>/dev/null; clear\r"
)

// ErrResize wraps a failure to propagate a new size to the shell's PTY.
var ErrResize = errors.New("shell: resize failed")

// Bridge is the byte transport to the shell process. *bridge.Session is the
// production implementation.
type Bridge interface {
	ReadOutput() ([]byte, error)
	WriteInput(b []byte) error
	Resize(cols, rows int) error
	Close() error
}

type options struct {
	warmup        time.Duration
	setupCommand  string
	bridgeOptions []bridge.Option
}

// Option configures a Manager.
type Option func(*options)

// WithWarmup sets the delay before the setup command is sent.
func WithWarmup(d time.Duration) Option {
	return func(o *options) { o.warmup = d }
}

// WithSetupCommand replaces the keystrokes sent after warm-up. Empty
// disables them.
func WithSetupCommand(cmd string) Option {
	return func(o *options) { o.setupCommand = cmd }
}

// WithBridgeOptions passes options through to bridge.Spawn.
func WithBridgeOptions(opts ...bridge.Option) Option {
	return func(o *options) { o.bridgeOptions = append(o.bridgeOptions, opts...) }
}

// Manager ties a PTY bridge to a virtual terminal.
type Manager struct {
	bridge Bridge
	vterm  *parser.VTerm
}

// New spawns shellPath on a cols×rows PTY and prepares its prompt.
func New(cols, rows int, shellPath string, opts ...Option) (*Manager, error) {
	o := collectOptions(opts)
	sess, err := bridge.Spawn(cols, rows, shellPath, o.bridgeOptions...)
	if err != nil {
		return nil, err
	}
	return newManager(sess, cols, rows, o), nil
}

// NewWithBridge builds a Manager around an existing transport.
func NewWithBridge(b Bridge, cols, rows int, opts ...Option) *Manager {
	return newManager(b, cols, rows, collectOptions(opts))
}

func collectOptions(opts []Option) options {
	o := options{
		warmup:       DefaultWarmup,
		setupCommand: DefaultSetupCommand,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newManager(b Bridge, cols, rows int, o options) *Manager {
	m := &Manager{bridge: b}
	m.vterm = parser.NewVTerm(cols, rows, parser.WithPtyWriter(m.reply))

	if o.setupCommand != "" {
		time.Sleep(o.warmup)
		if err := b.WriteInput([]byte(o.setupCommand)); err != nil {
			log.Printf("Shell: setup command failed: %v", err)
		}
	}
	return m
}

// reply answers terminal queries from the shell.
func (m *Manager) reply(b []byte) {
	if err := m.bridge.WriteInput(b); err != nil {
		log.Printf("Shell: reply failed: %v", err)
	}
}

// Pump feeds queued shell output into the interpreter, stopping once
// MaxPumpBytes have been processed so a flooding shell cannot stall the
// frame; the rest waits for the next call. It returns
// bridge.ErrProcessExited once the shell is gone.
func (m *Manager) Pump() error {
	for processed := 0; processed < MaxPumpBytes; {
		chunk, err := m.bridge.ReadOutput()
		if err != nil {
			return err
		}
		if chunk == nil {
			return nil
		}
		m.vterm.Process(chunk)
		processed += len(chunk)
	}
	return nil
}

// Process feeds shell output directly to the interpreter.
func (m *Manager) Process(b []byte) {
	m.vterm.Process(b)
}

// WriteInput sends raw bytes to the shell.
func (m *Manager) WriteInput(b []byte) error {
	return m.bridge.WriteInput(b)
}

// SendKey encodes a key press and writes it to the shell. Keys without an
// encoding are dropped.
func (m *Manager) SendKey(key tcell.Key, r rune, mod tcell.ModMask) error {
	b := keys.Encode(key, r, mod)
	if len(b) == 0 {
		return nil
	}
	return m.bridge.WriteInput(b)
}

// Resize updates the PTY and then the interpreter. The interpreter is
// resized even when the PTY update fails.
func (m *Manager) Resize(cols, rows int) error {
	err := m.bridge.Resize(cols, rows)
	m.vterm.Resize(cols, rows)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrResize, err)
	}
	return nil
}

// Render composes the shell screen onto buf. Blank cells on the default
// background are transparent; glyphs on the default background keep the
// scene's background; explicit backgrounds are opaque.
func (m *Manager) Render(buf *render.Buffer) {
	w, h := m.vterm.Size()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := m.vterm.Cell(x, y)
			switch {
			case !c.BG.IsDefault():
				buf.SetWithBg(x, y, c.Ch, c.FG, c.BG)
			case c.Ch == ' ' || c.Ch == 0:
			default:
				buf.Set(x, y, c.Ch, c.FG)
			}
		}
	}
}

// Cursor reports where the frame loop should place the real cursor.
func (m *Manager) Cursor() (x, y int, visible bool) {
	x, y = m.vterm.Cursor()
	return x, y, m.vterm.CursorVisible()
}

func (m *Manager) Size() (int, int) { return m.vterm.Size() }

// Close shuts the shell down.
func (m *Manager) Close() error {
	return m.bridge.Close()
}
