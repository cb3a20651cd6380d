// Copyright © 2025 Texelation contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: shell/parser/parser.go
// Summary: Byte-oriented VT100/ANSI tokenizer producing tagged events.
// Usage: VTerm feeds raw PTY output through a Parser and applies each event.
// Notes: Keeps tokenizing separate from screen state; never fails on bad input.

package parser

import "unicode/utf8"

// EventKind tags the variant held by an Event.
type EventKind uint8

const (
	// EventPrint carries a printable rune in Rune.
	EventPrint EventKind = iota
	// EventControl carries a C0 control byte (0x00-0x1F) in Byte.
	EventControl
	// EventCSI carries a control sequence: Params, Private, Intermediate, Final.
	EventCSI
	// EventEscape carries the final byte of a two-byte escape in Byte.
	EventEscape
)

// Event is one token of the terminal byte stream.
//
// Params and Sub alias parser storage and are only valid until the callback
// returns.
type Event struct {
	Kind   EventKind
	Rune   rune
	Byte   byte
	Params []int
	// Sub is set only when the sequence used ':' separators. Sub[i] reports
	// that Params[i] is a sub-parameter of the one before it.
	Sub          []bool
	Private      byte // '?', '>', '=' or '<' when the sequence carries a marker
	Intermediate byte
	Final        byte
}

type state uint8

const (
	stateGround state = iota
	stateEscape
	stateCSI
	stateCSIIgnore
	stateString // OSC, DCS, SOS, PM and APC bodies are swallowed
	stateStringEsc
	stateSkipOne // charset designation and other ESC intermediates
)

const (
	maxParams     = 32
	maxParamValue = 65535
)

// Parser is a VT100/ANSI stream tokenizer. It keeps partial sequences and
// partial UTF-8 runes across calls, so input may be split anywhere.
type Parser struct {
	state        state
	params       [maxParams]int
	subs         [maxParams]bool
	nparams      int
	current      int
	colon        bool // current was introduced by ':'
	hasColon     bool
	private      byte
	intermediate byte

	utf8buf  [utf8.UTFMax]byte
	utf8len  int
	utf8need int
}

// NewParser creates a parser in the ground state.
func NewParser() *Parser {
	return &Parser{}
}

// Parse tokenizes data and calls emit for every complete event.
func (p *Parser) Parse(data []byte, emit func(Event)) {
	for _, b := range data {
		p.step(b, emit)
	}
}

// Reset drops any partial sequence.
func (p *Parser) Reset() {
	*p = Parser{}
}

func (p *Parser) step(b byte, emit func(Event)) {
	switch p.state {
	case stateGround:
		p.ground(b, emit)

	case stateEscape:
		switch {
		case b == '[':
			p.beginCSI()
		case b == ']' || b == 'P' || b == 'X' || b == '^' || b == '_':
			p.state = stateString
		case b == 0x1b:
			// ESC ESC restarts the escape.
		case b < 0x20:
			emit(Event{Kind: EventControl, Byte: b})
		case b >= 0x20 && b <= 0x2f:
			p.state = stateSkipOne
		case b >= 0x30 && b <= 0x7e:
			p.state = stateGround
			emit(Event{Kind: EventEscape, Byte: b})
		default:
			p.state = stateGround
		}

	case stateCSI:
		p.csi(b, emit)

	case stateCSIIgnore:
		switch {
		case b == 0x1b:
			p.state = stateEscape
		case b >= 0x40 && b <= 0x7e:
			p.state = stateGround
		}

	case stateString:
		switch b {
		case 0x07:
			p.state = stateGround
		case 0x1b:
			p.state = stateStringEsc
		}

	case stateStringEsc:
		if b == '\\' {
			p.state = stateGround
			return
		}
		// Not a string terminator: the ESC started a new sequence.
		p.state = stateEscape
		p.step(b, emit)

	case stateSkipOne:
		p.state = stateGround
	}
}

func (p *Parser) ground(b byte, emit func(Event)) {
	if p.utf8need > 0 {
		if b >= 0x80 && b <= 0xbf {
			p.utf8buf[p.utf8len] = b
			p.utf8len++
			if p.utf8len == p.utf8need {
				r, _ := utf8.DecodeRune(p.utf8buf[:p.utf8len])
				p.utf8len, p.utf8need = 0, 0
				emit(Event{Kind: EventPrint, Rune: r})
			}
			return
		}
		// Truncated sequence: report it and handle b on its own.
		p.utf8len, p.utf8need = 0, 0
		emit(Event{Kind: EventPrint, Rune: utf8.RuneError})
	}

	switch {
	case b == 0x1b:
		p.state = stateEscape
	case b < 0x20:
		emit(Event{Kind: EventControl, Byte: b})
	case b == 0x7f:
		// DEL is ignored on output.
	case b < 0x80:
		emit(Event{Kind: EventPrint, Rune: rune(b)})
	case b >= 0xc2 && b <= 0xdf:
		p.startRune(b, 2)
	case b >= 0xe0 && b <= 0xef:
		p.startRune(b, 3)
	case b >= 0xf0 && b <= 0xf4:
		p.startRune(b, 4)
	default:
		emit(Event{Kind: EventPrint, Rune: utf8.RuneError})
	}
}

func (p *Parser) startRune(lead byte, need int) {
	p.utf8buf[0] = lead
	p.utf8len = 1
	p.utf8need = need
}

func (p *Parser) beginCSI() {
	p.state = stateCSI
	p.nparams = 0
	p.current = 0
	p.colon = false
	p.hasColon = false
	p.private = 0
	p.intermediate = 0
}

func (p *Parser) pushParam() {
	if p.nparams < maxParams {
		p.params[p.nparams] = p.current
		p.subs[p.nparams] = p.colon
		p.nparams++
	}
	p.current = 0
	p.colon = false
}

func (p *Parser) csi(b byte, emit func(Event)) {
	switch {
	case b >= '0' && b <= '9':
		if p.intermediate != 0 {
			p.state = stateCSIIgnore
			return
		}
		p.current = p.current*10 + int(b-'0')
		if p.current > maxParamValue {
			p.current = maxParamValue
		}
	case b == ';' || b == ':':
		if p.intermediate != 0 {
			p.state = stateCSIIgnore
			return
		}
		p.pushParam()
		if b == ':' {
			p.colon = true
			p.hasColon = true
		}
	case b >= 0x3c && b <= 0x3f:
		// Private markers are only valid before any parameter.
		if p.private != 0 || p.nparams > 0 || p.current != 0 {
			p.state = stateCSIIgnore
			return
		}
		p.private = b
	case b >= 0x20 && b <= 0x2f:
		p.intermediate = b
	case b >= 0x40 && b <= 0x7e:
		p.pushParam()
		p.state = stateGround
		var sub []bool
		if p.hasColon {
			sub = p.subs[:p.nparams]
		}
		emit(Event{
			Kind:         EventCSI,
			Params:       p.params[:p.nparams],
			Sub:          sub,
			Private:      p.private,
			Intermediate: p.intermediate,
			Final:        b,
		})
	case b == 0x1b:
		p.state = stateEscape
	case b < 0x20:
		emit(Event{Kind: EventControl, Byte: b})
	default:
		p.state = stateCSIIgnore
	}
}
