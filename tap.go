package evseat

import (
	"github.com/semafor/evseat/evdev"
	"github.com/semafor/evseat/log2"
)

//go:generate stringer -type=tapState -output=tap_string.go
type tapState uint32

const (
	tapIdle tapState = iota
	tapTouch
	tapTapped
	tapTouch2
	tapTapped2
	tapTouch3
	tapTapped3
	tapDraggingOrDoubletap
	tapDragging
	tapDraggingWait
	tapDragging2
	tapDead
)

// tapMachine turns quick touches into button clicks: one finger left,
// two right, three middle, with tap-and-drag chaining. One machine per
// touchpad; the engine feeds it count transitions, movement past the
// jitter threshold, physical clicks and timer expiries.
type tapMachine struct {
	log     *log2.Log
	enabled bool
	state   tapState

	fingers int
	pressed uint16 // button code currently held by the machine, 0 none

	timer *Timer
	emit  func(millis uint64, code uint16, state ButtonState)
}

func newTapMachine(log *log2.Log, timers *timerSet, name string, emit func(uint64, uint16, ButtonState)) *tapMachine {
	m := &tapMachine{log: log, enabled: true, emit: emit}
	m.timer = timers.NewTimer(name+" tap", m.timeout)
	return m
}

func tapButton(fingers int) uint16 {
	switch fingers {
	case 1:
		return evdev.BTN_LEFT
	case 2:
		return evdev.BTN_RIGHT
	case 3:
		return evdev.BTN_MIDDLE
	}
	return 0
}

func (self *tapMachine) press(millis uint64, code uint16) {
	self.pressed = code
	self.emit(millis, code, ButtonStatePressed)
}

func (self *tapMachine) release(millis uint64) {
	if self.pressed == 0 {
		return
	}
	self.emit(millis, self.pressed, ButtonStateReleased)
	self.pressed = 0
}

func (self *tapMachine) to(s tapState) { self.state = s }

// TouchDown feeds one finger landing. The engine calls it only for
// touches that participate in tapping (no palms, no hovers).
func (self *tapMachine) TouchDown(millis uint64) {
	self.fingers++
	if !self.enabled {
		return
	}
	switch self.state {
	case tapIdle:
		self.to(tapTouch)
		self.timer.Set(millis + TimeoutTap)
	case tapTouch:
		self.to(tapTouch2)
		self.timer.Set(millis + TimeoutTap)
	case tapTouch2:
		self.to(tapTouch3)
		self.timer.Set(millis + TimeoutTap)
	case tapTouch3:
		self.to(tapDead)
		self.timer.Cancel()
	case tapTapped:
		self.to(tapDraggingOrDoubletap)
		self.timer.Set(millis + TimeoutTap)
	case tapTapped2, tapTapped3:
		// A new touch after a multi-finger tap starts a fresh cycle.
		self.timer.Cancel()
		self.release(millis)
		self.to(tapTouch)
		self.timer.Set(millis + TimeoutTap)
	case tapDragging:
		self.to(tapDragging2)
	case tapDraggingWait:
		self.to(tapDragging)
		self.timer.Cancel()
	case tapDragging2:
		// Third finger while dragging aborts the drag.
		self.timer.Cancel()
		self.release(millis)
		self.to(tapDead)
	case tapDead:
	}
}

// TouchUp feeds one finger lifting.
func (self *tapMachine) TouchUp(millis uint64) {
	if self.fingers > 0 {
		self.fingers--
	}
	if !self.enabled {
		return
	}
	switch self.state {
	case tapTouch:
		// Lift within the timeout, a clean single tap.
		self.press(millis, tapButton(1))
		self.to(tapTapped)
		self.timer.Set(millis + TimeoutTap)
	case tapTouch2:
		if self.fingers == 0 {
			self.press(millis, tapButton(2))
			self.to(tapTapped2)
			self.timer.Set(millis + TimeoutTap)
		}
	case tapTouch3:
		if self.fingers == 0 {
			self.press(millis, tapButton(3))
			self.to(tapTapped3)
			self.timer.Set(millis + TimeoutTap)
		}
	case tapDraggingOrDoubletap:
		// Down-up again inside the window: second tap of a multi-tap.
		self.release(millis)
		self.press(millis, tapButton(1))
		self.to(tapTapped)
		self.timer.Set(millis + TimeoutTap)
	case tapDragging:
		self.to(tapDraggingWait)
		self.timer.Set(millis + TimeoutTapDrag)
	case tapDragging2:
		if self.fingers <= 1 {
			self.to(tapDragging)
		}
	case tapDead:
		if self.fingers == 0 {
			self.to(tapIdle)
		}
	}
}

// Moved feeds the first movement beyond the jitter threshold.
func (self *tapMachine) Moved(millis uint64) {
	if !self.enabled {
		return
	}
	switch self.state {
	case tapTouch, tapTouch2, tapTouch3:
		self.timer.Cancel()
		self.to(tapDead)
	case tapDraggingOrDoubletap:
		// The finger is dragging, not tapping again.
		self.timer.Cancel()
		self.to(tapDragging)
	}
}

// Click feeds a physical button press; taps yield to real buttons.
func (self *tapMachine) Click(millis uint64) {
	if !self.enabled {
		return
	}
	self.timer.Cancel()
	self.release(millis)
	if self.fingers > 0 {
		self.to(tapDead)
	} else {
		self.to(tapIdle)
	}
}

func (self *tapMachine) timeout(now uint64) {
	switch self.state {
	case tapTouch, tapTouch2, tapTouch3:
		self.to(tapDead)
	case tapTapped, tapTapped2, tapTapped3:
		self.release(now)
		self.to(tapIdle)
	case tapDraggingOrDoubletap:
		// Held past the window, the second touch is a drag.
		self.to(tapDragging)
	case tapDraggingWait:
		self.release(now)
		self.to(tapIdle)
	default:
		self.log.Errorf("tap: stray timeout in %s", self.state)
		self.release(now)
		self.to(tapIdle)
	}
}

// Dragging reports whether the machine holds a button for a drag, so
// the engine can force single-finger semantics.
func (self *tapMachine) Dragging() bool {
	switch self.state {
	case tapDragging, tapDraggingWait, tapDragging2, tapDraggingOrDoubletap:
		return true
	}
	return false
}

func (self *tapMachine) Enabled() bool { return self.enabled }

// SetEnabled flips tapping. Disabling mid-gesture finishes the held
// button first.
func (self *tapMachine) SetEnabled(millis uint64, on bool) {
	if self.enabled == on {
		return
	}
	if !on {
		self.timer.Cancel()
		self.release(millis)
		if self.fingers > 0 {
			self.state = tapDead
		} else {
			self.state = tapIdle
		}
	}
	self.enabled = on
}

// Drain force-releases the held button on suspend.
func (self *tapMachine) Drain(millis uint64) {
	self.timer.Cancel()
	self.release(millis)
	self.fingers = 0
	self.state = tapIdle
}
