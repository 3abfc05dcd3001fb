package evseat

import (
	"github.com/semafor/evseat/evdev"
)

// Disable-while-typing: keyboards feed their activity to touchpads on
// the same seat so a palm brushing the pad mid-sentence does not move
// the cursor. Touches that started before typing keep working; touches
// that start while the interlock is hot stay muted until lifted.

type dwtSink interface {
	dwtKeyEvent(millis uint64, code uint16, state KeyState)
}

type dwtRegistry struct {
	ctx  *Context
	pads map[*Device]dwtSink
}

func newDWTRegistry(ctx *Context) *dwtRegistry {
	return &dwtRegistry{ctx: ctx, pads: make(map[*Device]dwtSink)}
}

func (self *dwtRegistry) deviceAdded(dev *Device) {
	if sink, ok := dev.dispatch.(dwtSink); ok {
		self.pads[dev] = sink
	}
}

func (self *dwtRegistry) deviceRemoved(dev *Device) {
	delete(self.pads, dev)
}

func (self *dwtRegistry) noteKey(from *Device, millis uint64, code uint16, state KeyState) {
	if !from.HasCapability(CapKeyboard) {
		return
	}
	for dev, sink := range self.pads {
		if dev.seat == from.seat {
			sink.dwtKeyEvent(millis, code, state)
		}
	}
}

// Modifier chords are not typing; ctrl-click must not mute the pad.
func isModifierKey(code uint16) bool {
	switch code {
	case evdev.KEY_LEFTCTRL, evdev.KEY_LEFTSHIFT, evdev.KEY_RIGHTSHIFT,
		evdev.KEY_LEFTALT, evdev.KEY_CAPSLOCK:
		return true
	}
	return false
}

const dwtSustainedKeys = 5

// dwtState lives inside the touchpad engine.
type dwtState struct {
	enabled  bool
	excluded bool // vendor opted out at enumeration
	active   bool
	timer    *Timer

	// Press timestamps of the most recent keys, for the sustained
	// typing upgrade.
	presses [dwtSustainedKeys]uint64
	next    int
}

func (self *dwtState) keyEvent(millis uint64, code uint16, state KeyState) {
	if !self.enabled || self.excluded || isModifierKey(code) {
		return
	}
	timeout := TimeoutDWTShort
	if state == KeyStatePressed {
		self.presses[self.next] = millis
		self.next = (self.next + 1) % dwtSustainedKeys
		oldest := self.presses[self.next]
		if oldest != 0 && millis-oldest <= TimeoutDWTShort*uint64(dwtSustainedKeys) {
			timeout = TimeoutDWTLong
		}
	}
	self.active = true
	self.timer.Set(millis + timeout)
}

func (self *dwtState) timeout(now uint64) {
	self.active = false
}

func (self *dwtState) reset() {
	self.active = false
	self.presses = [dwtSustainedKeys]uint64{}
	self.next = 0
	if self.timer != nil {
		self.timer.Cancel()
	}
}
