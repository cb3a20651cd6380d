// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/bridge/errors.go
// Summary: Error values reported by the PTY bridge.

package bridge

import (
	"errors"
	"fmt"
)

var (
	// ErrProcessExited is returned by ReadOutput once the shell has gone
	// away and every queued chunk has been handed out.
	ErrProcessExited = errors.New("bridge: shell process exited")

	// ErrInvalidSize is returned when a PTY dimension is not positive.
	ErrInvalidSize = errors.New("bridge: invalid terminal size")
)

// SetupError reports a failure to allocate the PTY or start the shell.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("bridge: %s: %v", e.Op, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }
