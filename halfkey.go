package evseat

import (
	"github.com/semafor/evseat/evdev"
	"github.com/semafor/evseat/log2"
)

// halfkey rewrites the key stream so the space bar acts as a momentary
// mirror modifier: while held, each letter key produces its reflection
// across the middle of the QWERTY layout, letting one hand reach the
// whole board. A brief space tap still types a space.

//go:generate stringer -type=halfkeyState -output=halfkey_string.go
type halfkeyState uint32

const (
	spaceIdle halfkeyState = iota
	spacePressed
	spaceModified
)

type keyOutput struct {
	code  uint16
	state KeyState
}

// mirrorRows are contiguous key-code runs reflected end-to-end, the
// digit row and the three letter rows.
var mirrorRows = [4][2]uint16{
	{evdev.KEY_1, evdev.KEY_0},
	{evdev.KEY_Q, evdev.KEY_P},
	{evdev.KEY_A, evdev.KEY_SEMICOLON},
	{evdev.KEY_Z, evdev.KEY_SLASH},
}

// mirrorKey returns the reflected code, or 0 when the key has no
// mirror.
func mirrorKey(code uint16) uint16 {
	for _, row := range mirrorRows {
		if code >= row[0] && code <= row[1] {
			return row[0] + row[1] - code
		}
	}
	switch code {
	case evdev.KEY_BACKSPACE:
		return evdev.KEY_TAB
	case evdev.KEY_TAB:
		return evdev.KEY_BACKSPACE
	case evdev.KEY_ENTER:
		return evdev.KEY_CAPSLOCK
	case evdev.KEY_CAPSLOCK:
		return evdev.KEY_ENTER
	}
	return 0
}

type halfkeyMachine struct {
	log     *log2.Log
	enabled bool
	state   halfkeyState

	// virtualDown marks mirror codes we injected a press for, so the
	// matching physical release can be inverted even after the space
	// bar is already up.
	virtualDown map[uint16]bool
}

func newHalfkeyMachine(log *log2.Log) *halfkeyMachine {
	return &halfkeyMachine{log: log, virtualDown: make(map[uint16]bool)}
}

func (self *halfkeyMachine) Enabled() bool { return self.enabled }

func (self *halfkeyMachine) SetEnabled(on bool) { self.enabled = on }

// Idle reports whether an enable flip is safe: no modifier held, no
// injected key awaiting release.
func (self *halfkeyMachine) Idle() bool {
	return self.state == spaceIdle && len(self.virtualDown) == 0
}

// Handle consumes one physical transition and returns the transitions
// to emit instead. An empty slice means the input is swallowed.
func (self *halfkeyMachine) Handle(code uint16, state KeyState) []keyOutput {
	if code == evdev.KEY_SPACE {
		return self.handleSpace(state)
	}
	mirror := mirrorKey(code)
	down := state == KeyStatePressed

	switch self.state {
	case spacePressed, spaceModified:
		if mirror == 0 {
			if down && self.state == spacePressed {
				// Space held with another key is no longer a bare tap.
				self.state = spaceModified
			}
			return []keyOutput{{code, state}}
		}
		if down {
			self.state = spaceModified
			self.virtualDown[mirror] = true
			return []keyOutput{{mirror, KeyStatePressed}}
		}
		if self.virtualDown[mirror] {
			delete(self.virtualDown, mirror)
			return []keyOutput{{mirror, KeyStateReleased}}
		}
		return []keyOutput{{code, state}}

	default: // spaceIdle
		if !down && mirror != 0 && self.virtualDown[mirror] {
			// Space went up before the letter did; the press we
			// injected was the mirror, so release the mirror.
			delete(self.virtualDown, mirror)
			return []keyOutput{{mirror, KeyStateReleased}}
		}
		return []keyOutput{{code, state}}
	}
}

func (self *halfkeyMachine) handleSpace(state KeyState) []keyOutput {
	down := state == KeyStatePressed
	switch self.state {
	case spaceIdle:
		if down {
			self.state = spacePressed
			return nil
		}
		return []keyOutput{{evdev.KEY_SPACE, KeyStateReleased}}
	case spacePressed:
		if down {
			return nil
		}
		// Bare tap: give the user the space they typed, press first.
		self.state = spaceIdle
		return []keyOutput{
			{evdev.KEY_SPACE, KeyStatePressed},
			{evdev.KEY_SPACE, KeyStateReleased},
		}
	case spaceModified:
		if down {
			return nil
		}
		self.state = spaceIdle
		return nil
	}
	self.log.Errorf("halfkey: state %s out of range, resetting", self.state)
	self.state = spaceIdle
	return nil
}

// Drain force-releases everything the machine still holds virtually.
func (self *halfkeyMachine) Drain() []keyOutput {
	var out []keyOutput
	for code := range self.virtualDown {
		out = append(out, keyOutput{code, KeyStateReleased})
		delete(self.virtualDown, code)
	}
	self.state = spaceIdle
	return out
}
