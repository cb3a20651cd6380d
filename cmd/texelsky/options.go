// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: cmd/texelsky/options.go
// Summary: Merges command-line flags over texelsky.json into runtime options.

package main

import (
	"flag"
	"strings"
	"time"

	"github.com/framegrace/texelsky/config"
	skyruntime "github.com/framegrace/texelsky/internal/runtime/sky"
)

const fallbackShell = "/bin/sh"

type cliFlags struct {
	shell     bool
	shellPath string
	fps       int
	noHUD     bool
	effects   string
	panicLog  string
	dumpFrame bool

	set map[string]bool
}

func (f *cliFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&f.shell, "shell", false, "Host an interactive shell over the sky")
	fs.StringVar(&f.shellPath, "shell-path", "", "Shell to run (default: config, then $SHELL, then /bin/sh)")
	fs.IntVar(&f.fps, "fps", config.DefaultFPS, "Frames per second")
	fs.BoolVar(&f.noHUD, "no-hud", false, "Hide the status line")
	fs.StringVar(&f.effects, "effects", "", "Comma-separated effects to draw (default: config)")
	fs.StringVar(&f.panicLog, "panic-log", "", "File to append panic stack traces")
	fs.BoolVar(&f.dumpFrame, "dump-frame", false, "Print one frame to stdout and exit")
}

func (f *cliFlags) markSet(fs *flag.FlagSet) {
	f.set = make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
}

// resolveOptions applies explicit flags over the config file.
func resolveOptions(cfg config.Config, f cliFlags, lookupEnv func(string) (string, bool)) skyruntime.Options {
	opts := skyruntime.Options{
		FPS:       cfg.GetInt("", "fps", config.DefaultFPS),
		HUD:       cfg.GetBool("", "hud", true),
		Shell:     cfg.GetBool("shell", "enabled", false),
		ShellPath: cfg.GetString("shell", "path", ""),
		Warmup:    time.Duration(cfg.GetInt("shell", "warmup_ms", config.DefaultWarmupMS)) * time.Millisecond,
		Grace:     time.Duration(cfg.GetInt("shell", "grace_ms", config.DefaultGraceMS)) * time.Millisecond,
		Effects:   cfg.GetStringSlice("effects", "enabled", config.DefaultEffects),
		Config:    cfg,
		PanicLog:  f.panicLog,
	}

	if f.set["fps"] {
		opts.FPS = f.fps
	}
	if opts.FPS <= 0 {
		opts.FPS = config.DefaultFPS
	}
	if f.noHUD {
		opts.HUD = false
	}
	if f.shell {
		opts.Shell = true
	}
	if f.shellPath != "" {
		opts.ShellPath = f.shellPath
	}
	if f.set["effects"] {
		opts.Effects = splitList(f.effects)
	}

	if opts.ShellPath == "" {
		if sh, ok := lookupEnv("SHELL"); ok && sh != "" {
			opts.ShellPath = sh
		} else {
			opts.ShellPath = fallbackShell
		}
	}
	return opts
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
