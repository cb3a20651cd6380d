// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/keys/keys.go
// Summary: Translates tcell key events into the bytes a shell expects on its input.
// Usage: shell.Manager.SendKey encodes every forwarded key through Encode.
// Notes: Pure mapping; keys without a terminal encoding yield an empty slice.

package keys

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

const esc = 0x1b

// sequences holds the fixed encodings of navigation and function keys.
var sequences = map[tcell.Key]string{
	tcell.KeyUp:     "\x1b[A",
	tcell.KeyDown:   "\x1b[B",
	tcell.KeyRight:  "\x1b[C",
	tcell.KeyLeft:   "\x1b[D",
	tcell.KeyHome:   "\x1b[H",
	tcell.KeyEnd:    "\x1b[F",
	tcell.KeyPgUp:   "\x1b[5~",
	tcell.KeyPgDn:   "\x1b[6~",
	tcell.KeyInsert: "\x1b[2~",
	tcell.KeyDelete: "\x1b[3~",

	tcell.KeyBacktab: "\x1b[Z",

	tcell.KeyF1:  "\x1bOP",
	tcell.KeyF2:  "\x1bOQ",
	tcell.KeyF3:  "\x1bOR",
	tcell.KeyF4:  "\x1bOS",
	tcell.KeyF5:  "\x1b[15~",
	tcell.KeyF6:  "\x1b[17~",
	tcell.KeyF7:  "\x1b[18~",
	tcell.KeyF8:  "\x1b[19~",
	tcell.KeyF9:  "\x1b[20~",
	tcell.KeyF10: "\x1b[21~",
	tcell.KeyF11: "\x1b[23~",
	tcell.KeyF12: "\x1b[24~",
}

// Encode returns the byte sequence for a key press. r is only consulted for
// tcell.KeyRune.
func Encode(key tcell.Key, r rune, mod tcell.ModMask) []byte {
	switch key {
	case tcell.KeyRune:
		return encodeRune(r, mod)
	case tcell.KeyEnter:
		return withAlt(mod, '\r')
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		// Ctrl-H and DEL both mean "erase left" to a modern shell.
		return withAlt(mod, 0x7f)
	case tcell.KeyTab:
		if mod&tcell.ModShift != 0 {
			return []byte(sequences[tcell.KeyBacktab])
		}
		return withAlt(mod, '\t')
	case tcell.KeyEsc:
		return []byte{esc}
	}

	if seq, ok := sequences[key]; ok {
		return []byte(seq)
	}
	// tcell reports Ctrl+letter as the C0 code itself (KeyCtrlA and friends).
	if key >= 0 && key < 0x20 {
		return withAlt(mod, byte(key))
	}
	return nil
}

func encodeRune(r rune, mod tcell.ModMask) []byte {
	if mod&tcell.ModCtrl != 0 {
		if b, ok := controlByte(r); ok {
			return withAlt(mod, b)
		}
	}
	if r < 0 || !utf8.ValidRune(r) {
		return nil
	}
	out := make([]byte, 0, utf8.UTFMax+1)
	if mod&tcell.ModAlt != 0 {
		out = append(out, esc)
	}
	return utf8.AppendRune(out, r)
}

// controlByte maps the character typed with Ctrl held to its C0 code.
func controlByte(r rune) (byte, bool) {
	switch {
	case r == ' ' || r == '@' || r == '2':
		return 0x00, true
	case r == '?':
		return 0x7f, true
	case r >= 'a' && r <= 'z':
		return byte(r-'a'+'A') & 0x1f, true
	case r >= 'A' && r <= '_':
		// A-Z plus [ \ ] ^ _
		return byte(r) & 0x1f, true
	}
	return 0, false
}

func withAlt(mod tcell.ModMask, b byte) []byte {
	if mod&tcell.ModAlt != 0 {
		return []byte{esc, b}
	}
	return []byte{b}
}
