package evseat

import (
	"github.com/semafor/evseat/evdev"
)

const (
	// Bottom button strip height as a fraction of the pad.
	softButtonBottomFraction = 0.20
	// Top strip on pads marked top-button-pad.
	softButtonTopFraction = 0.15
)

// softButtons resolves physical clicks into button codes. On clickpads
// the single switch is split into regions; on pads with discrete
// buttons the raw code passes through. The resolved code is locked for
// the whole press so the release always matches.
type softButtons struct {
	tp *touchpadDispatch

	clickpad bool
	topPad   bool

	locked      uint16
	methodInUse ClickMethod
}

func (self *softButtons) init(tp *touchpadDispatch) {
	self.tp = tp
	self.clickpad = tp.dev.info.HasProp(evdev.PropButtonpad)
	self.topPad = tp.dev.info.HasProp(evdev.PropTopButtonpad)
}

// handleButtons consumes the frame's raw button transitions.
func (self *softButtons) handleButtons(millis uint64) {
	tp := self.tp
	for _, b := range tp.rawButtons {
		switch b.state {
		case ButtonStatePressed:
			tp.tap.Click(millis)
			self.press(millis, b.code)
		case ButtonStateReleased:
			self.release(millis, b.code)
		}
	}
	tp.rawButtons = tp.rawButtons[:0]
}

func (self *softButtons) press(millis uint64, raw uint16) {
	tp := self.tp
	self.methodInUse = tp.clickMethod
	var code uint16
	if !self.clickpad {
		code = self.mapLeftHanded(raw)
	} else {
		switch self.methodInUse {
		case ClickMethodClickfinger:
			code = clickfingerButton(tp.eligibleFingers())
		case ClickMethodButtonAreas:
			code = self.mapLeftHanded(self.areaButton(millis))
		case ClickMethodNone:
			code = 0
		}
	}
	self.locked = code
	if code == 0 {
		return
	}
	tp.outPresses = append(tp.outPresses, pendingButton{code, ButtonStatePressed})
}

func (self *softButtons) release(millis uint64, raw uint16) {
	tp := self.tp
	code := self.locked
	self.locked = 0
	if !self.clickpad {
		code = self.mapLeftHanded(raw)
	}
	if code == 0 {
		return
	}
	tp.outReleases = append(tp.outReleases, pendingButton{code, ButtonStateReleased})
}

func clickfingerButton(fingers int) uint16 {
	switch fingers {
	case 0, 1:
		return evdev.BTN_LEFT
	case 2:
		return evdev.BTN_RIGHT
	case 3:
		return evdev.BTN_MIDDLE
	}
	return 0
}

// areaButton finds the region of the first touch still down at press
// time. A touch that slid into the bottom strip right after pointer
// motion does not arm the buttons, so a drag ending at the pad's
// bottom stays a left click.
func (self *softButtons) areaButton(millis uint64) uint16 {
	tp := self.tp
	var first *tpTouch
	for i := range tp.slots {
		t := &tp.slots[i]
		if t.state == touchNone || t.hover {
			continue
		}
		if first == nil || t.began < first.began {
			first = t
		}
	}
	if first == nil {
		return evdev.BTN_LEFT
	}

	yi := tp.yinfo
	bottomEdge := float64(yi.Maximum) - yi.Range()*softButtonBottomFraction
	if first.y > bottomEdge {
		if !self.armed(millis, first) {
			return evdev.BTN_LEFT
		}
		return self.regionThird(first.x)
	}
	if self.topPad {
		topEdge := float64(yi.Minimum) + yi.Range()*softButtonTopFraction
		if first.y < topEdge {
			return self.regionThird(first.x)
		}
	}
	return evdev.BTN_LEFT
}

// armed requires the soft-button dwell: the touch must not have been
// moving the pointer just before entering the strip.
func (self *softButtons) armed(millis uint64, t *tpTouch) bool {
	if t.began >= self.tp.lastMotionAt {
		return true
	}
	return millis-self.tp.lastMotionAt >= TimeoutSoftButton
}

func (self *softButtons) regionThird(x float64) uint16 {
	xi := self.tp.xinfo
	third := xi.Range() / 3
	switch {
	case x < float64(xi.Minimum)+third:
		return evdev.BTN_LEFT
	case x < float64(xi.Minimum)+2*third:
		return evdev.BTN_MIDDLE
	default:
		return evdev.BTN_RIGHT
	}
}

func (self *softButtons) mapLeftHanded(code uint16) uint16 {
	if !self.tp.dev.leftHanded.Enabled {
		return code
	}
	switch code {
	case evdev.BTN_LEFT:
		return evdev.BTN_RIGHT
	case evdev.BTN_RIGHT:
		return evdev.BTN_LEFT
	}
	return code
}

func (self *softButtons) drain(millis uint64) {
	if self.locked != 0 {
		self.tp.outReleases = append(self.tp.outReleases, pendingButton{self.locked, ButtonStateReleased})
		self.locked = 0
	}
}
