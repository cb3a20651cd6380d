// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/runtime/sky/input_handler.go
// Summary: Event routing for the frame loop: resize, quit, HUD and the shell prefix key.
// Usage: With a shell running, Ctrl-W starts a command; every other key goes to the shell.

package skyruntime

import (
	"log"

	"github.com/gdamore/tcell/v2"
)

const prefixKey = tcell.KeyCtrlW

// handleEvent applies one event and reports whether the loop should continue.
func (a *app) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, h := ev.Size()
		a.resize(w, h)
	case *tcell.EventKey:
		if a.shell != nil {
			return a.handleShellKey(ev)
		}
		return a.handleSceneKey(ev)
	}
	return true
}

func (a *app) resize(w, h int) {
	a.scene.Resize(w, h)
	if a.shell != nil {
		if err := a.shell.Resize(w, h); err != nil {
			log.Printf("Runtime: %v", err)
		}
	}
}

func (a *app) handleSceneKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC, tcell.KeyEsc:
		return false
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return false
		case 'h':
			a.scene.HUD = !a.scene.HUD
		}
	}
	return true
}

func (a *app) handleShellKey(ev *tcell.EventKey) bool {
	if a.prefix {
		a.prefix = false
		if ev.Key() == prefixKey {
			a.send(ev.Key(), 0, ev.Modifiers())
			return true
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch ev.Rune() {
		case 'q', 'Q':
			log.Printf("Runtime: quit requested")
			return false
		case 'h':
			a.scene.HUD = !a.scene.HUD
		case 'w':
			a.send(prefixKey, 0, tcell.ModCtrl)
		}
		return true
	}
	if ev.Key() == prefixKey {
		a.prefix = true
		return true
	}
	a.send(ev.Key(), ev.Rune(), ev.Modifiers())
	return true
}

func (a *app) send(key tcell.Key, r rune, mod tcell.ModMask) {
	if err := a.shell.SendKey(key, r, mod); err != nil {
		log.Printf("Runtime: shell input: %v", err)
	}
}
