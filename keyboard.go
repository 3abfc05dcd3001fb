package evseat

import (
	"github.com/semafor/evseat/evdev"
)

// keyboardDispatch forwards key transitions with seat-wide counting,
// optionally rewritten by the halfkey machine.
type keyboardDispatch struct {
	dev     *Device
	pressed map[uint16]bool
	halfkey *halfkeyMachine

	// Runtime enable flips wait until no rewritten key is down.
	wantHalfkey    bool
	pendingHalfkey bool
}

func newKeyboardDispatch(dev *Device) Dispatcher {
	return &keyboardDispatch{
		dev:     dev,
		pressed: make(map[uint16]bool),
		halfkey: newHalfkeyMachine(dev.ctx.Log),
	}
}

func (self *keyboardDispatch) ProcessFrame(d *Device, f evdev.Frame) {
	for _, ie := range f.Events {
		if ie.Type != evdev.EV_KEY {
			continue
		}
		if ie.Value == 2 {
			// Kernel autorepeat, not a transition.
			continue
		}
		state := KeyStateReleased
		if ie.Value != 0 {
			state = KeyStatePressed
		}
		self.handleKey(d, f.Time, ie.Code, state)
	}
	self.settleHalfkey()
}

func (self *keyboardDispatch) handleKey(d *Device, millis uint64, code uint16, state KeyState) {
	if self.halfkey.Enabled() {
		for _, out := range self.halfkey.Handle(code, state) {
			self.emit(d, millis, out.code, out.state)
		}
		return
	}
	self.emit(d, millis, code, state)
}

func (self *keyboardDispatch) emit(d *Device, millis uint64, code uint16, state KeyState) {
	down := state == KeyStatePressed
	if self.pressed[code] == down {
		// Duplicate transition, e.g. a mirror release for a key the
		// kernel already released.
		return
	}
	self.pressed[code] = down
	if !down {
		delete(self.pressed, code)
	}
	d.ctx.postKeyboardKey(d, millis, code, state)
}

func (self *keyboardDispatch) Suspend(d *Device) {
	millis := d.ctx.now()
	for _, out := range self.halfkey.Drain() {
		self.emit(d, millis, out.code, out.state)
	}
	for code := range self.pressed {
		self.emit(d, millis, code, KeyStateReleased)
	}
	self.settleHalfkey()
}

func (self *keyboardDispatch) Destroy() {}

func (self *keyboardDispatch) settleHalfkey() {
	if !self.pendingHalfkey || !self.halfkey.Idle() {
		return
	}
	self.pendingHalfkey = false
	self.halfkey.SetEnabled(self.wantHalfkey)
}

func (self *keyboardDispatch) HalfkeyEnabled() bool { return self.halfkey.Enabled() }

func (self *keyboardDispatch) SetHalfkeyEnabled(on bool) ConfigStatus {
	self.wantHalfkey = on
	if self.halfkey.Idle() {
		self.pendingHalfkey = false
		self.halfkey.SetEnabled(on)
	} else {
		self.pendingHalfkey = true
	}
	return ConfigSuccess
}
