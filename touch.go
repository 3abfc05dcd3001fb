package evseat

import (
	"github.com/semafor/evseat/evdev"
)

//go:generate stringer -type=touchState -output=touch_string.go
type touchState uint32

const (
	touchNone touchState = iota
	touchBegin
	touchUpdate
	touchEnd
	touchCancel
)

// touchPoint is one MT slot's life on a direct-touch surface.
type touchPoint struct {
	state    touchState
	seatSlot int32
	x, y     float64
	dirty    bool
}

// touchDispatch serves direct-touch screens: slot bookkeeping, seat
// slot assignment, down/motion/up/cancel plus the frame marker.
type touchDispatch struct {
	dev   *Device
	calib CalibrationMatrix

	slots []touchPoint
	cur   int
}

func newTouchDispatch(dev *Device) Dispatcher {
	n := int(dev.info.AbsRange(evdev.ABS_MT_SLOT).Maximum) + 1
	if n < 1 {
		n = 1
	}
	if n > 60 {
		n = 60
	}
	t := &touchDispatch{dev: dev, calib: identityCalibration, slots: make([]touchPoint, n)}
	for i := range t.slots {
		t.slots[i].seatSlot = -1
	}
	return t
}

func (self *touchDispatch) ProcessFrame(d *Device, f evdev.Frame) {
	for _, ie := range f.Events {
		if ie.Type != evdev.EV_ABS {
			continue
		}
		switch ie.Code {
		case evdev.ABS_MT_SLOT:
			if int(ie.Value) < len(self.slots) {
				self.cur = int(ie.Value)
			}
		case evdev.ABS_MT_TRACKING_ID:
			t := &self.slots[self.cur]
			if ie.Value >= 0 {
				t.state = touchBegin
				t.dirty = true
			} else if t.state != touchNone {
				t.state = touchEnd
				t.dirty = true
			}
		case evdev.ABS_MT_POSITION_X:
			t := &self.slots[self.cur]
			t.x = float64(ie.Value)
			t.dirty = true
			if t.state == touchNone {
				// Position before a tracking id, stale slot. Keep the
				// coordinate, the id will arrive in this frame.
			} else if t.state != touchBegin && t.state != touchEnd {
				t.state = touchUpdate
			}
		case evdev.ABS_MT_POSITION_Y:
			t := &self.slots[self.cur]
			t.y = float64(ie.Value)
			t.dirty = true
			if t.state != touchNone && t.state != touchBegin && t.state != touchEnd {
				t.state = touchUpdate
			}
		}
	}
	self.flush(d, f.Time)
}

func (self *touchDispatch) flush(d *Device, millis uint64) {
	emitted := false
	for i := range self.slots {
		t := &self.slots[i]
		if !t.dirty {
			continue
		}
		t.dirty = false
		x, y := self.calib.Apply(t.x, t.y)
		switch t.state {
		case touchBegin:
			slot, err := d.seat.allocSlot()
			if err != nil {
				d.ctx.Log.Errorf("%s: %v", d.Sysname(), err)
				t.state = touchNone
				continue
			}
			t.seatSlot = slot
			t.state = touchUpdate
			d.ctx.postTouch(d, millis, EventTouchDown, int32(i), t.seatSlot, x, y)
			emitted = true
		case touchUpdate:
			d.ctx.postTouch(d, millis, EventTouchMotion, int32(i), t.seatSlot, x, y)
			emitted = true
		case touchEnd:
			d.ctx.postTouch(d, millis, EventTouchUp, int32(i), t.seatSlot, x, y)
			d.seat.freeSlot(t.seatSlot)
			*t = touchPoint{seatSlot: -1}
			emitted = true
		}
	}
	if emitted {
		d.ctx.postTouchFrame(d, millis)
	}
}

// Suspend cancels every live touch so downstream does not hold
// phantom contacts.
func (self *touchDispatch) Suspend(d *Device) {
	millis := d.ctx.now()
	emitted := false
	for i := range self.slots {
		t := &self.slots[i]
		if t.state == touchNone {
			continue
		}
		x, y := self.calib.Apply(t.x, t.y)
		d.ctx.postTouch(d, millis, EventTouchCancel, int32(i), t.seatSlot, x, y)
		d.seat.freeSlot(t.seatSlot)
		*t = touchPoint{seatSlot: -1}
		emitted = true
	}
	if emitted {
		d.ctx.postTouchFrame(d, millis)
	}
}

func (self *touchDispatch) Destroy() {}

func (self *touchDispatch) Calibration() CalibrationMatrix { return self.calib }

func (self *touchDispatch) SetCalibration(m CalibrationMatrix) ConfigStatus {
	self.calib = m
	return ConfigSuccess
}
