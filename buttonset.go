package evseat

import (
	"math"

	"github.com/semafor/evseat/evdev"
)

// buttonsetDispatch handles pad-style devices: a block of buttons plus
// absolute ring and strip controls that never move a pointer.
type buttonsetDispatch struct {
	dev *Device

	axes     []padAxis
	rotation float64

	pressed     map[uint16]bool
	rawPresses  []uint16
	rawReleases []uint16
	changed     uint32
}

type padAxis struct {
	code uint16
	typ  ButtonsetAxisType
	info evdev.AbsInfo

	pos    float64
	hasPos bool
	delta  float64
	fresh  bool
}

func newButtonsetDispatch(dev *Device) *buttonsetDispatch {
	self := &buttonsetDispatch{
		dev:     dev,
		pressed: make(map[uint16]bool, 8),
	}
	for _, code := range []uint16{evdev.ABS_WHEEL, evdev.ABS_THROTTLE} {
		if info, ok := dev.info.Abs[code]; ok {
			self.axes = append(self.axes, padAxis{code: code, typ: ButtonsetAxisRing, info: info})
		}
	}
	for _, code := range []uint16{evdev.ABS_RX, evdev.ABS_RY} {
		if info, ok := dev.info.Abs[code]; ok {
			self.axes = append(self.axes, padAxis{code: code, typ: ButtonsetAxisStrip, info: info})
		}
	}
	return self
}

func (self *buttonsetDispatch) ProcessFrame(d *Device, f evdev.Frame) {
	millis := f.Time
	for _, ie := range f.Events {
		switch ie.Type {
		case evdev.EV_ABS:
			self.handleAbs(ie.Code, ie.Value)
		case evdev.EV_KEY:
			self.handleKey(ie.Code, ie.Value)
		}
	}
	self.flush(millis)
}

func (self *buttonsetDispatch) handleAbs(code uint16, value int32) {
	for i := range self.axes {
		a := &self.axes[i]
		if a.code != code {
			continue
		}
		switch a.typ {
		case ButtonsetAxisRing:
			self.updateRing(i, a, value)
		case ButtonsetAxisStrip:
			self.updateStrip(i, a, value)
		}
		return
	}
}

// updateRing keeps ring positions in [0,1) clockwise from logical
// north. The delta between two readings takes the short way around the
// circle, so 0.9 to 0.1 is +0.2 and never -0.8.
func (self *buttonsetDispatch) updateRing(idx int, a *padAxis, value int32) {
	pos := math.Mod(a.info.Normalize(value)+self.rotation/360+1, 1)
	if !a.hasPos {
		a.pos = pos
		a.hasPos = true
		a.delta = 0
		a.fresh = true
		self.changed |= 1 << uint(idx)
		return
	}
	d := pos - a.pos
	if d > 0.5 {
		d -= 1
	} else if d < -0.5 {
		d += 1
	}
	a.pos = pos
	a.delta = d
	a.fresh = false
	self.changed |= 1 << uint(idx)
}

// updateStrip reads the single set bit the kernel reports as a strip
// position. Zero means the finger lifted; that produces no event and
// forgets the position so the next touch starts with delta zero.
func (self *buttonsetDispatch) updateStrip(idx int, a *padAxis, value int32) {
	if value <= 0 {
		a.hasPos = false
		return
	}
	span := math.Log2(float64(a.info.Maximum))
	if span <= 0 {
		span = 1
	}
	pos := math.Log2(float64(value)) / span
	if !a.hasPos {
		a.pos = pos
		a.hasPos = true
		a.delta = 0
		a.fresh = true
		self.changed |= 1 << uint(idx)
		return
	}
	a.delta = pos - a.pos
	a.pos = pos
	a.fresh = false
	self.changed |= 1 << uint(idx)
}

func (self *buttonsetDispatch) handleKey(code uint16, value int32) {
	if value == 2 || !evdev.IsButton(code) {
		return
	}
	if value == 1 {
		self.rawPresses = append(self.rawPresses, code)
	} else {
		self.rawReleases = append(self.rawReleases, code)
	}
}

func (self *buttonsetDispatch) axisSnapshot() []float64 {
	out := make([]float64, len(self.axes))
	for i := range self.axes {
		out[i] = self.axes[i].pos
	}
	return out
}

func (self *buttonsetDispatch) flush(millis uint64) {
	for _, code := range self.rawReleases {
		if self.pressed[code] {
			delete(self.pressed, code)
			self.postButton(millis, code, ButtonStateReleased)
		}
	}
	self.rawReleases = self.rawReleases[:0]

	if self.changed != 0 {
		types := make([]ButtonsetAxisType, len(self.axes))
		deltas := make([]float64, len(self.axes))
		discrete := make([]float64, len(self.axes))
		for i := range self.axes {
			a := &self.axes[i]
			types[i] = a.typ
			if self.changed&(1<<uint(i)) == 0 || a.fresh {
				continue
			}
			deltas[i] = a.delta
			if a.typ == ButtonsetAxisRing && a.info.Resolution > 0 {
				discrete[i] = a.delta * float64(a.info.Resolution)
			}
		}
		self.dev.ctx.post(&Event{
			Type: EventButtonsetAxis, Device: self.dev, Time: millis,
			ButtonsetAxis: &ButtonsetAxisEvent{
				Changed:        self.changed,
				Types:          types,
				Axes:           self.axisSnapshot(),
				Deltas:         deltas,
				DeltasDiscrete: discrete,
			},
		})
		self.changed = 0
	}

	for _, code := range self.rawPresses {
		if !self.pressed[code] {
			self.pressed[code] = true
			self.postButton(millis, code, ButtonStatePressed)
		}
	}
	self.rawPresses = self.rawPresses[:0]
}

func (self *buttonsetDispatch) postButton(millis uint64, code uint16, state ButtonState) {
	self.dev.ctx.post(&Event{
		Type: EventButtonsetButton, Device: self.dev, Time: millis,
		ButtonsetButton: &ButtonsetButtonEvent{Code: code, State: state, Axes: self.axisSnapshot()},
	})
}

func (self *buttonsetDispatch) Suspend(d *Device) {
	millis := self.dev.ctx.now()
	for code := range self.pressed {
		self.postButton(millis, code, ButtonStateReleased)
		delete(self.pressed, code)
	}
	for i := range self.axes {
		self.axes[i].hasPos = false
	}
	self.changed = 0
	self.rawPresses = self.rawPresses[:0]
	self.rawReleases = self.rawReleases[:0]
}

func (self *buttonsetDispatch) Destroy() {}

func (self *buttonsetDispatch) Rotation() float64 { return self.rotation }

func (self *buttonsetDispatch) SetRotation(degrees float64) ConfigStatus {
	if degrees < 0 || degrees >= 360 {
		return ConfigInvalid
	}
	self.rotation = degrees
	return ConfigSuccess
}
