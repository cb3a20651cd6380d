// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/sky/app.go
// Summary: Interactive frame loop for texelsky.
// Usage: cmd/texelsky builds Options from flags and config, then calls Run.
// Notes: One goroutine polls tcell for events; everything else runs on the loop goroutine.

package skyruntime

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/framegrace/texelsky/config"
	"github.com/framegrace/texelsky/internal/effects"
	"github.com/framegrace/texelsky/render"
	"github.com/framegrace/texelsky/shell"
	"github.com/framegrace/texelsky/shell/bridge"
)

// Overlay is the hosted shell as seen by the frame loop. *shell.Manager
// implements it.
type Overlay interface {
	Pump() error
	SendKey(key tcell.Key, r rune, mod tcell.ModMask) error
	WriteInput(b []byte) error
	Resize(cols, rows int) error
	Render(buf *render.Buffer)
	Cursor() (x, y int, visible bool)
	Close() error
}

// Options configures the runtime.
type Options struct {
	FPS       int
	HUD       bool
	PanicLog  string
	Effects   []string
	Config    config.Config // source of effects.<id> sections
	Shell     bool
	ShellPath string
	Warmup    time.Duration
	Grace     time.Duration

	// Screen overrides the terminal screen; nil uses tcell.NewScreen.
	Screen tcell.Screen

	// StartShell overrides how the overlay is created.
	StartShell func(cols, rows int) (Overlay, error)

	ready func()
}

func (o Options) frameDuration() time.Duration {
	fps := o.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return time.Second / time.Duration(fps)
}

// Run draws the scene until the user quits. Only terminal setup and
// flush failures are returned; a shell that cannot start is logged and the
// scene runs without it.
func Run(opts Options) error {
	panicLogger := NewPanicLogger(opts.PanicLog)
	defer panicLogger.Recover("run")

	screen := opts.Screen
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return fmt.Errorf("create screen failed: %w", err)
		}
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen failed: %w", err)
	}
	panicLogger.OnPanic(screen.Fini)
	defer screen.Fini()
	screen.HideCursor()

	effs, err := effects.Build(opts.Effects, opts.Config)
	if err != nil {
		log.Printf("Runtime: %v", err)
	}

	a := newApp(screen, opts, effs)
	if opts.Shell {
		a.startShell(opts)
	}
	defer a.closeShell()

	events := make(chan tcell.Event, 32)
	stopEvents := make(chan struct{})
	panicLogger.Go("eventPoll", func() {
		for {
			select {
			case <-stopEvents:
				close(events)
				return
			default:
				ev := screen.PollEvent()
				if ev == nil {
					close(events)
					return
				}
				select {
				case events <- ev:
				case <-stopEvents:
					close(events)
					return
				}
			}
		}
	})
	defer func() {
		close(stopEvents)
		screen.PostEvent(tcell.NewEventInterrupt(nil))
	}()

	if opts.ready != nil {
		opts.ready()
	}
	return a.loop(events)
}

type app struct {
	screen tcell.Screen
	target *render.TcellTarget
	scene  *Scene
	frame  time.Duration
	fps    int

	shell       Overlay
	shellStatus string
	prefix      bool
	effectIDs   []string
}

func newApp(screen tcell.Screen, opts Options, effs []effects.Effect) *app {
	w, h := screen.Size()
	scene := NewScene(w, h, effs)
	scene.HUD = opts.HUD
	ids := make([]string, 0, len(effs))
	for _, e := range effs {
		ids = append(ids, e.ID())
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = config.DefaultFPS
	}
	return &app{
		screen:    screen,
		target:    render.NewTcellTarget(screen),
		scene:     scene,
		frame:     opts.frameDuration(),
		fps:       fps,
		effectIDs: ids,
	}
}

func (a *app) startShell(opts Options) {
	start := opts.StartShell
	if start == nil {
		start = defaultShell(opts)
	}
	w, h := a.scene.Size()
	overlay, err := start(w, h)
	if err != nil {
		var setupErr *bridge.SetupError
		if errors.As(err, &setupErr) {
			log.Printf("Runtime: shell setup failed (%s), continuing without overlay: %v", setupErr.Op, setupErr.Err)
		} else {
			log.Printf("Runtime: shell unavailable, continuing without overlay: %v", err)
		}
		a.shellStatus = "shell failed"
		return
	}
	a.shell = overlay
	a.shellStatus = "shell"
	log.Printf("Runtime: shell overlay started at %dx%d", w, h)
}

func defaultShell(opts Options) func(cols, rows int) (Overlay, error) {
	return func(cols, rows int) (Overlay, error) {
		m, err := shell.New(cols, rows, opts.ShellPath,
			shell.WithWarmup(opts.Warmup),
			shell.WithBridgeOptions(bridge.WithGracePeriod(opts.Grace)),
		)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
}

func (a *app) closeShell() {
	if a.shell == nil {
		return
	}
	if err := a.shell.Close(); err != nil {
		log.Printf("Runtime: shell close: %v", err)
	}
	a.shell = nil
}

func (a *app) loop(events <-chan tcell.Event) error {
	timer := time.NewTimer(a.frame)
	defer timer.Stop()
	for {
		if err := a.renderFrame(); err != nil {
			return err
		}
		timer.Reset(a.frame)
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !a.handleEvent(ev) {
				return nil
			}
		case <-timer.C:
		}
	}
}

// renderFrame pumps shell output, draws the scene and the overlay, places
// the cursor and flushes.
func (a *app) renderFrame() error {
	if a.shell != nil {
		if err := a.shell.Pump(); err != nil {
			if errors.Is(err, bridge.ErrProcessExited) {
				log.Printf("Runtime: shell exited")
				a.shellStatus = "shell exited"
			} else {
				log.Printf("Runtime: shell output: %v", err)
				a.shellStatus = "shell error"
			}
			a.closeShell()
			a.prefix = false
		}
	}

	a.scene.Draw(a.status())
	buf := a.scene.Buffer()

	if a.shell != nil {
		a.shell.Render(buf)
		x, y, visible := a.shell.Cursor()
		if visible {
			a.screen.ShowCursor(x, y)
		} else {
			a.screen.HideCursor()
		}
	} else {
		a.screen.HideCursor()
	}

	if _, err := buf.Flush(a.target); err != nil {
		return fmt.Errorf("flush failed: %w", err)
	}
	return nil
}

func (a *app) status() string {
	parts := []string{"texelsky", fmt.Sprintf("%dfps", a.fps)}
	if len(a.effectIDs) > 0 {
		parts = append(parts, strings.Join(a.effectIDs, ","))
	}
	if a.shellStatus != "" {
		parts = append(parts, a.shellStatus)
	}
	switch {
	case a.prefix:
		parts = append(parts, "^W: q quit  h hud  w send ^W")
	case a.shell != nil:
		parts = append(parts, "^W q quit")
	default:
		parts = append(parts, "q quit")
	}
	return " " + strings.Join(parts, "  ") + " "
}

// SetupLogging redirects the standard logger to path, creating parent
// directories as needed.
func SetupLogging(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, err
	}
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return file, nil
}
