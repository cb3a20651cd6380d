// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"flag"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/framegrace/texelsky/config"
	skyruntime "github.com/framegrace/texelsky/internal/runtime/sky"
)

func parseFlags(t *testing.T, args ...string) cliFlags {
	t.Helper()
	fs := flag.NewFlagSet("texelsky", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var f cliFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	f.markSet(fs)
	return f
}

func noEnv(string) (string, bool) { return "", false }

func TestResolveOptionsFromConfig(t *testing.T) {
	cfg := config.Config{
		"": config.Section{"fps": 12, "hud": false},
		"shell": config.Section{
			"enabled":   true,
			"path":      "/bin/zsh",
			"warmup_ms": 5,
			"grace_ms":  7,
		},
		"effects": config.Section{"enabled": []interface{}{"rain"}},
	}
	opts := resolveOptions(cfg, parseFlags(t), noEnv)

	if opts.FPS != 12 || opts.HUD || !opts.Shell || opts.ShellPath != "/bin/zsh" {
		t.Fatalf("opts = %+v", opts)
	}
	if opts.Warmup != 5*time.Millisecond || opts.Grace != 7*time.Millisecond {
		t.Fatalf("timings = %v/%v", opts.Warmup, opts.Grace)
	}
	if !reflect.DeepEqual(opts.Effects, []string{"rain"}) {
		t.Fatalf("effects = %v", opts.Effects)
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cfg := config.Config{"": config.Section{"fps": 12, "hud": true}}
	f := parseFlags(t, "-fps", "50", "-no-hud", "-shell", "-shell-path", "/bin/bash", "-effects", " stars , ,lightning", "-panic-log", "/tmp/p.log")
	opts := resolveOptions(cfg, f, noEnv)

	if opts.FPS != 50 || opts.HUD || !opts.Shell || opts.ShellPath != "/bin/bash" || opts.PanicLog != "/tmp/p.log" {
		t.Fatalf("opts = %+v", opts)
	}
	if !reflect.DeepEqual(opts.Effects, []string{"stars", "lightning"}) {
		t.Fatalf("effects = %v", opts.Effects)
	}

	opts = resolveOptions(cfg, parseFlags(t, "-effects", ""), noEnv)
	if len(opts.Effects) != 0 {
		t.Fatalf("empty -effects should disable all effects, got %v", opts.Effects)
	}
}

func TestDefaultsWithoutConfig(t *testing.T) {
	opts := resolveOptions(nil, parseFlags(t, "-fps", "0"), noEnv)
	if opts.FPS != config.DefaultFPS || !opts.HUD || opts.Shell {
		t.Fatalf("opts = %+v", opts)
	}
	if !reflect.DeepEqual(opts.Effects, config.DefaultEffects) {
		t.Fatalf("effects = %v", opts.Effects)
	}
	if opts.Warmup != config.DefaultWarmupMS*time.Millisecond {
		t.Fatalf("warmup = %v", opts.Warmup)
	}
}

func TestShellPathFallback(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		args []string
		env  map[string]string
		want string
	}{
		{"flag wins", config.Config{"shell": config.Section{"path": "/bin/zsh"}}, []string{"-shell-path", "/bin/fish"}, map[string]string{"SHELL": "/bin/bash"}, "/bin/fish"},
		{"config over env", config.Config{"shell": config.Section{"path": "/bin/zsh"}}, nil, map[string]string{"SHELL": "/bin/bash"}, "/bin/zsh"},
		{"env", nil, nil, map[string]string{"SHELL": "/bin/bash"}, "/bin/bash"},
		{"empty env", nil, nil, map[string]string{"SHELL": ""}, fallbackShell},
		{"nothing", nil, nil, nil, fallbackShell},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				v, ok := tt.env[k]
				return v, ok
			}
			opts := resolveOptions(tt.cfg, parseFlags(t, tt.args...), lookup)
			if opts.ShellPath != tt.want {
				t.Fatalf("shell path = %q, want %q", opts.ShellPath, tt.want)
			}
		})
	}
}

func TestDumpFrame(t *testing.T) {
	var out bytes.Buffer
	opts := skyruntime.Options{HUD: true, Effects: []string{"stars"}}
	if err := dumpFrame(&out, 30, 6, opts); err != nil {
		t.Fatalf("dumpFrame: %v", err)
	}
	s := out.String()
	if !strings.HasPrefix(s, "\x1b[?25l\x1b[2J") {
		t.Fatalf("frame should hide the cursor and clear the screen, got %q", s[:min(len(s), 16)])
	}
	if !strings.HasSuffix(s, "\x1b[6;1H\x1b[?25h\n") {
		t.Fatalf("frame should end with the cursor shown on the last row, got %q", s[max(0, len(s)-24):])
	}
	if !strings.Contains(s, "texelsky") {
		t.Fatalf("status line missing from %q", s)
	}
}

func TestTerminalSizeFallback(t *testing.T) {
	if cols, rows := terminalSize(-1); cols != fallbackCols || rows != fallbackRows {
		t.Fatalf("size = %dx%d", cols, rows)
	}
}
