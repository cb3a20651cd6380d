// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/bridge/session.go
// Summary: Runs the hosted shell on a pseudo-terminal and shuttles its bytes.
// Usage: shell.Manager spawns one Session per shell mode and polls ReadOutput each frame.
// Notes: A single reader goroutine owns PTY reads; writes happen on the caller's goroutine.

package bridge

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

const (
	readBufferSize     = 4096
	defaultGracePeriod = 50 * time.Millisecond
	defaultExitCommand = "exit\n"
	readerStopTimeout  = time.Second
)

var defaultArgs = []string{"-i", "-l"}

// inheritedEnv lists the caller variables passed through to the shell so
// history and dotfiles behave as in the user's own terminal.
var inheritedEnv = []string{
	"HOME", "USER", "PATH", "SHELL",
	"HISTFILE", "HISTSIZE", "SAVEHIST", "ZDOTDIR",
}

// fixedEnv pins the terminal type and a plain prompt.
var fixedEnv = []string{
	"TERM=xterm-256color",
	"COLORTERM=truecolor",
	"PS1=$ ",
	"PROMPT_EOL_MARK=",
	"PROMPT_SP=",
}

type options struct {
	args        []string
	extraEnv    []string
	gracePeriod time.Duration
	exitCommand string
}

// Option configures Spawn.
type Option func(*options)

// WithArgs replaces the default "-i -l" shell arguments.
func WithArgs(args ...string) Option {
	return func(o *options) { o.args = args }
}

// WithEnv appends KEY=VALUE pairs to the shell environment. They take
// precedence over both the fixed and inherited variables.
func WithEnv(kv ...string) Option {
	return func(o *options) { o.extraEnv = append(o.extraEnv, kv...) }
}

// WithGracePeriod sets how long Close waits after sending the exit command.
func WithGracePeriod(d time.Duration) Option {
	return func(o *options) {
		if d >= 0 {
			o.gracePeriod = d
		}
	}
}

// WithExitCommand sets the text written to the shell on Close. An empty
// command skips the polite shutdown.
func WithExitCommand(cmd string) Option {
	return func(o *options) { o.exitCommand = cmd }
}

// Session is a shell process attached to a PTY master.
type Session struct {
	pty        *os.File
	cmd        *exec.Cmd
	queue      chunkQueue
	readerDone chan struct{}

	gracePeriod time.Duration
	exitCommand string

	closeOnce sync.Once
	closeErr  error
}

// Spawn starts shellPath as an interactive login shell on a new PTY of
// cols×rows cells. It returns once the output reader is running.
func Spawn(cols, rows int, shellPath string, opts ...Option) (*Session, error) {
	o := options{
		args:        defaultArgs,
		gracePeriod: defaultGracePeriod,
		exitCommand: defaultExitCommand,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if cols <= 0 || rows <= 0 {
		return nil, &SetupError{Op: "size", Err: ErrInvalidSize}
	}

	path, err := exec.LookPath(shellPath)
	if err != nil {
		return nil, &SetupError{Op: "lookup " + shellPath, Err: err}
	}

	cmd := exec.Command(path, o.args...)
	cmd.Env = buildEnv(os.LookupEnv, o.extraEnv)

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, &SetupError{Op: "start " + path, Err: err}
	}

	s := &Session{
		pty:         ptmx,
		cmd:         cmd,
		readerDone:  make(chan struct{}),
		gracePeriod: o.gracePeriod,
		exitCommand: o.exitCommand,
	}

	ready := make(chan struct{})
	go s.readLoop(ready)
	<-ready

	log.Printf("Bridge: started %s (pid %d) at %dx%d", path, s.Pid(), cols, rows)
	return s, nil
}

// buildEnv assembles the shell environment: fixed variables, then the
// inherited ones present in the caller, then extra.
func buildEnv(lookup func(string) (string, bool), extra []string) []string {
	env := make([]string, 0, len(fixedEnv)+len(inheritedEnv)+len(extra))
	env = append(env, fixedEnv...)
	for _, key := range inheritedEnv {
		if v, ok := lookup(key); ok {
			env = append(env, key+"="+v)
		}
	}
	return append(env, extra...)
}

func (s *Session) readLoop(ready chan<- struct{}) {
	defer close(s.readerDone)
	defer s.queue.close()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Bridge: reader panic: %v", r)
		}
	}()

	buf := make([]byte, readBufferSize)
	close(ready)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			s.queue.push(chunk)
		}
		if err != nil {
			// Linux reports EIO on the master once the last slave fd closes.
			if !errors.Is(err, io.EOF) && !errors.Is(err, syscall.EIO) && !errors.Is(err, os.ErrClosed) {
				log.Printf("Bridge: read error: %v", err)
			}
			return
		}
	}
}

// ReadOutput returns the next chunk of shell output without blocking. It
// returns nil, nil when nothing is queued yet and ErrProcessExited once the
// reader has stopped and the queue is drained.
func (s *Session) ReadOutput() ([]byte, error) {
	chunk, done := s.queue.pop()
	if done {
		return nil, ErrProcessExited
	}
	return chunk, nil
}

// WriteInput writes b to the shell synchronously.
func (s *Session) WriteInput(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if _, err := s.pty.Write(b); err != nil {
		return fmt.Errorf("bridge: write: %w", err)
	}
	return nil
}

// Resize sets the kernel window size so programs in the shell see the new
// dimensions.
func (s *Session) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return ErrInvalidSize
	}
	if err := pty.Setsize(s.pty, &pty.Winsize{Rows: uint16(rows), Cols: uint16(cols)}); err != nil {
		return fmt.Errorf("bridge: resize: %w", err)
	}
	return nil
}

// Pid returns the shell's process id.
func (s *Session) Pid() int {
	return s.cmd.Process.Pid
}

// Close asks the shell to exit, waits the grace period so it can save
// history, then releases the PTY and reaps the process. Queued output is
// discarded. Safe to call more than once.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		if s.exitCommand != "" {
			if _, err := s.pty.Write([]byte(s.exitCommand)); err != nil {
				log.Printf("Bridge: exit command not delivered: %v", err)
			}
			time.Sleep(s.gracePeriod)
		}

		if err := s.pty.Close(); err != nil {
			s.closeErr = fmt.Errorf("bridge: close pty: %w", err)
		}
		if err := s.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			log.Printf("Bridge: kill pid %d: %v", s.Pid(), err)
		}
		if err := s.cmd.Wait(); err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				log.Printf("Bridge: wait pid %d: %v", s.Pid(), err)
			}
		}

		select {
		case <-s.readerDone:
		case <-time.After(readerStopTimeout):
			log.Printf("Bridge: reader still running after close")
		}
		log.Printf("Bridge: session %d closed", s.Pid())
	})
	return s.closeErr
}
