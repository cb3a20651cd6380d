// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelsky/main.go
// Summary: texelsky command: an animated sky in the terminal, optionally hosting a shell.
// Usage: `texelsky` for the scene, `texelsky -shell` to type into a shell over it,
// `texelsky -dump-frame` to print one frame and exit.

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/framegrace/texelsky/config"
	"github.com/framegrace/texelsky/internal/effects"
	skyruntime "github.com/framegrace/texelsky/internal/runtime/sky"
	"github.com/framegrace/texelsky/render"
)

const (
	fallbackCols = 80
	fallbackRows = 24
)

var errorf = color.New(color.FgRed).FprintfFunc()

func main() {
	if err := run(os.Args[1:]); err != nil {
		errorf(os.Stderr, "texelsky: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("texelsky", flag.ContinueOnError)
	var f cliFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	f.markSet(fs)

	if logPath, err := config.LogPath(); err == nil {
		if file, err := skyruntime.SetupLogging(logPath); err == nil {
			defer file.Close()
		} else {
			log.SetOutput(io.Discard)
		}
	} else {
		log.SetOutput(io.Discard)
	}

	cfg := config.Get()
	if err := config.Err(); err != nil {
		log.Printf("Config: using defaults: %v", err)
	}
	opts := resolveOptions(cfg, f, os.LookupEnv)

	if f.dumpFrame {
		cols, rows := terminalSize(int(os.Stdout.Fd()))
		return dumpFrame(os.Stdout, cols, rows, opts)
	}

	log.Printf("Runtime: starting (fps=%d shell=%v effects=%v)", opts.FPS, opts.Shell, opts.Effects)
	return skyruntime.Run(opts)
}

// terminalSize reports the size of fd, or 80×24 when it is not a terminal.
func terminalSize(fd int) (int, int) {
	if !term.IsTerminal(fd) {
		return fallbackCols, fallbackRows
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil || cols <= 0 || rows <= 0 {
		return fallbackCols, fallbackRows
	}
	return cols, rows
}

// dumpFrame renders a single scene frame as ANSI text.
func dumpFrame(w io.Writer, cols, rows int, opts skyruntime.Options) error {
	effs, err := effects.Build(opts.Effects, opts.Config)
	if err != nil {
		log.Printf("Runtime: %v", err)
	}
	scene := skyruntime.NewScene(cols, rows, effs)
	scene.HUD = opts.HUD
	scene.Draw(" texelsky ")

	out := render.NewANSIWriter(w)
	out.HideCursor()
	if _, err := scene.Buffer().Flush(out); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	// Park the cursor below the frame so the shell prompt does not cover it.
	out.ShowCursor(0, rows-1)
	out.Put('\n')
	if err := out.Sync(); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}
