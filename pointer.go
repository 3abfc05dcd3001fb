package evseat

import (
	"github.com/semafor/evseat/evdev"
	"github.com/semafor/evseat/filter"
)

// Scroll distance of one wheel detent, in scroll units.
const wheelClickAngle = 15.0

type pendingButton struct {
	code  uint16
	state ButtonState
}

// pointerDispatch handles relative pointer devices: mice, trackballs,
// trackpoints. Buttons, accelerated motion, wheel scroll, optional
// button-hold scrolling and middle button emulation.
type pointerDispatch struct {
	dev    *Device
	filter filter.Filter

	profile AccelProfile
	natural bool

	scrollMethod ScrollMethod
	scrollButton uint16
	scroll       buttonScroll

	middle middleEmulation

	pressed map[uint16]bool

	// Per-frame accumulators, flushed at SYN_REPORT in fixed order:
	// releases, motion, scroll, presses.
	dx, dy           float64
	vScroll, hScroll float64
	buttons          []pendingButton
}

func newPointerDispatch(dev *Device) Dispatcher {
	dev.leftHanded.Available = dev.info.HasKey(evdev.BTN_LEFT) && dev.info.HasKey(evdev.BTN_RIGHT)
	p := &pointerDispatch{
		dev:          dev,
		filter:       filter.NewPointerAccelerator(dev.ctx.deviceDPI(dev.info)),
		profile:      AccelProfileAdaptive,
		scrollButton: evdev.BTN_MIDDLE,
		pressed:      make(map[uint16]bool),
	}
	if dev.info.HasProp(evdev.PropPointingStick) {
		p.scrollMethod = ScrollOnButtonDown
	}
	p.scroll.timer = dev.ctx.timers.NewTimer(dev.Sysname()+" button-scroll", p.scrollTimeout)
	p.middle.timer = dev.ctx.timers.NewTimer(dev.Sysname()+" middle-emu", p.middleTimeout)
	return p
}

func (self *pointerDispatch) ProcessFrame(d *Device, f evdev.Frame) {
	for _, ie := range f.Events {
		switch ie.Type {
		case evdev.EV_REL:
			self.handleRel(ie.Code, ie.Value)
		case evdev.EV_KEY:
			if ie.Value == 2 || !evdev.IsButton(ie.Code) {
				continue
			}
			state := ButtonStateReleased
			if ie.Value != 0 {
				state = ButtonStatePressed
			}
			self.handleButton(f.Time, self.mapButton(ie.Code), state)
		}
	}
	self.flush(f.Time)
}

func (self *pointerDispatch) handleRel(code uint16, value int32) {
	switch code {
	case evdev.REL_X:
		self.dx += float64(value)
	case evdev.REL_Y:
		self.dy += float64(value)
	case evdev.REL_WHEEL:
		// Kernel wheel up is positive, scroll axis up is negative.
		self.vScroll -= float64(value) * wheelClickAngle
	case evdev.REL_HWHEEL:
		self.hScroll += float64(value) * wheelClickAngle
	}
}

// mapButton applies the left-handed swap to physical buttons.
func (self *pointerDispatch) mapButton(code uint16) uint16 {
	if !self.dev.leftHanded.Enabled {
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

func (self *pointerDispatch) handleButton(millis uint64, code uint16, state ButtonState) {
	if self.scrollMethod == ScrollOnButtonDown && code == self.scrollButton {
		self.handleScrollButton(millis, state)
		return
	}
	if self.middle.enabled && (code == evdev.BTN_LEFT || code == evdev.BTN_RIGHT) {
		if self.middleFilter(millis, code, state) {
			return
		}
	}
	self.buttons = append(self.buttons, pendingButton{code, state})
}

func (self *pointerDispatch) flush(millis uint64) {
	for _, b := range self.buttons {
		if b.state == ButtonStateReleased {
			self.postButton(millis, b.code, b.state)
		}
	}

	if self.dx != 0 || self.dy != 0 {
		if self.scroll.state == scrollScrolling || self.scroll.state == scrollButtonDown {
			self.flushButtonScroll(millis)
		} else {
			m := self.filter.Dispatch(filter.Motion{DX: self.dx, DY: self.dy}, millis)
			self.dev.ctx.postMotion(self.dev, millis, m.DX, m.DY)
		}
	}

	if self.vScroll != 0 || self.hScroll != 0 {
		v, h := self.vScroll, self.hScroll
		if self.natural {
			v, h = -v, -h
		}
		if v != 0 {
			self.dev.ctx.postAxis(self.dev, millis, PointerAxisScrollVertical, v, AxisSourceWheel)
		}
		if h != 0 {
			self.dev.ctx.postAxis(self.dev, millis, PointerAxisScrollHorizontal, h, AxisSourceWheel)
		}
	}

	for _, b := range self.buttons {
		if b.state == ButtonStatePressed {
			self.postButton(millis, b.code, b.state)
		}
	}

	self.dx, self.dy = 0, 0
	self.vScroll, self.hScroll = 0, 0
	self.buttons = self.buttons[:0]

	if len(self.pressed) == 0 && self.dev.leftHanded.Want != self.dev.leftHanded.Enabled {
		self.dev.leftHanded.Enabled = self.dev.leftHanded.Want
	}
}

func (self *pointerDispatch) postButton(millis uint64, code uint16, state ButtonState) {
	down := state == ButtonStatePressed
	if self.pressed[code] == down {
		return
	}
	if down {
		self.pressed[code] = true
	} else {
		delete(self.pressed, code)
	}
	self.dev.ctx.postButton(self.dev, millis, code, state)
}

func (self *pointerDispatch) Suspend(d *Device) {
	millis := d.ctx.now()
	self.scroll.timer.Cancel()
	self.middle.timer.Cancel()
	if self.scroll.state == scrollScrolling {
		self.stopButtonScroll(millis)
	}
	self.scroll.state = scrollIdle
	for code := range self.pressed {
		self.postButton(millis, code, ButtonStateReleased)
	}
	self.filter.Restart()
}

func (self *pointerDispatch) Destroy() {
	self.scroll.timer.Destroy()
	self.middle.timer.Destroy()
	self.filter.Destroy()
}

// Button-hold scrolling, the trackpoint way: hold the middle button
// and deflect the stick to scroll. A quick press with no motion is
// still delivered as a click.

//go:generate stringer -type=buttonScrollState -output=pointer_string.go
type buttonScrollState uint32

const (
	scrollIdle buttonScrollState = iota
	scrollButtonDown
	scrollScrolling
)

type buttonScroll struct {
	state buttonScrollState
	timer *Timer
}

func (self *pointerDispatch) handleScrollButton(millis uint64, state ButtonState) {
	switch state {
	case ButtonStatePressed:
		self.scroll.state = scrollButtonDown
		self.scroll.timer.Set(millis + TimeoutButtonScroll)
	case ButtonStateReleased:
		self.scroll.timer.Cancel()
		switch self.scroll.state {
		case scrollButtonDown:
			// No scrolling happened, deliver the click after all.
			// Posted directly: the flush would reorder the release
			// ahead of the press.
			self.postButton(millis, self.scrollButton, ButtonStatePressed)
			self.postButton(millis, self.scrollButton, ButtonStateReleased)
		case scrollScrolling:
			self.stopButtonScroll(millis)
		}
		self.scroll.state = scrollIdle
	}
}

func (self *pointerDispatch) scrollTimeout(now uint64) {
	if self.scroll.state == scrollButtonDown {
		self.scroll.state = scrollScrolling
	}
}

func (self *pointerDispatch) flushButtonScroll(millis uint64) {
	self.scroll.state = scrollScrolling
	self.scroll.timer.Cancel()
	v, h := self.dy, self.dx
	if self.natural {
		v, h = -v, -h
	}
	if v != 0 {
		self.dev.ctx.postAxis(self.dev, millis, PointerAxisScrollVertical, v, AxisSourceContinuous)
	}
	if h != 0 {
		self.dev.ctx.postAxis(self.dev, millis, PointerAxisScrollHorizontal, h, AxisSourceContinuous)
	}
}

func (self *pointerDispatch) stopButtonScroll(millis uint64) {
	self.dev.ctx.postAxis(self.dev, millis, PointerAxisScrollVertical, 0, AxisSourceContinuous)
	self.dev.ctx.postAxis(self.dev, millis, PointerAxisScrollHorizontal, 0, AxisSourceContinuous)
}

// Middle button emulation: left+right pressed close together read as a
// middle click on mice without a physical middle button.

type middleEmulationState uint32

const (
	middleIdle middleEmulationState = iota
	middleLeftDown
	middleRightDown
	middleDown
	middlePassthrough
)

type middleEmulation struct {
	enabled bool
	state   middleEmulationState
	timer   *Timer
	held    uint16 // the button waiting for its partner
	heldAt  uint64
}

// middleFilter consumes left/right transitions while emulation is
// deciding. Returns true when the event was swallowed.
func (self *pointerDispatch) middleFilter(millis uint64, code uint16, state ButtonState) bool {
	m := &self.middle
	down := state == ButtonStatePressed

	switch m.state {
	case middleIdle:
		if !down {
			return false
		}
		if code == evdev.BTN_LEFT {
			m.state = middleLeftDown
		} else {
			m.state = middleRightDown
		}
		m.held = code
		m.heldAt = millis
		m.timer.Set(millis + TimeoutMiddleButton)
		return true

	case middleLeftDown, middleRightDown:
		m.timer.Cancel()
		if down && code != m.held {
			m.state = middleDown
			self.buttons = append(self.buttons, pendingButton{evdev.BTN_MIDDLE, ButtonStatePressed})
			return true
		}
		// Same button released before the partner arrived: replay
		// the press, deliver the release. Posted directly so the
		// press precedes the release.
		m.state = middleIdle
		self.postButton(millis, m.held, ButtonStatePressed)
		self.postButton(millis, code, state)
		return true

	case middleDown:
		if !down {
			m.state = middlePassthrough
			self.buttons = append(self.buttons, pendingButton{evdev.BTN_MIDDLE, ButtonStateReleased})
			return true
		}
		return false

	case middlePassthrough:
		// Waiting for the second of the pair to go up.
		if !down {
			m.state = middleIdle
			return true
		}
		return false
	}
	return false
}

// middleTimeout replays the lone press once the pairing window closes.
func (self *pointerDispatch) middleTimeout(now uint64) {
	m := &self.middle
	if m.state != middleLeftDown && m.state != middleRightDown {
		return
	}
	m.state = middleIdle
	self.postButton(now, m.held, ButtonStatePressed)
}

func (self *pointerDispatch) applyLeftHanded(want bool) {
	if len(self.pressed) == 0 {
		self.dev.leftHanded.Enabled = want
	}
}

func (self *pointerDispatch) NaturalScroll() bool { return self.natural }

func (self *pointerDispatch) SetNaturalScroll(on bool) ConfigStatus {
	self.natural = on
	return ConfigSuccess
}

func (self *pointerDispatch) ScrollMethods() []ScrollMethod {
	return []ScrollMethod{ScrollNone, ScrollOnButtonDown}
}

func (self *pointerDispatch) ScrollMethod() ScrollMethod { return self.scrollMethod }

func (self *pointerDispatch) SetScrollMethod(m ScrollMethod) ConfigStatus {
	switch m {
	case ScrollNone, ScrollOnButtonDown:
		self.scrollMethod = m
		return ConfigSuccess
	case ScrollEdge, Scroll2fg:
		return ConfigUnsupported
	}
	return ConfigInvalid
}

func (self *pointerDispatch) AccelSpeed() float64 { return self.filter.Speed() }

func (self *pointerDispatch) SetAccelSpeed(speed float64) ConfigStatus {
	if err := validateSpeed(speed); err != nil {
		return ConfigInvalid
	}
	_ = self.filter.SetSpeed(speed)
	return ConfigSuccess
}

func (self *pointerDispatch) AccelProfile() AccelProfile { return self.profile }

func (self *pointerDispatch) SetAccelProfile(p AccelProfile) ConfigStatus {
	speed := self.filter.Speed()
	switch p {
	case AccelProfileAdaptive:
		self.filter = filter.NewPointerAccelerator(self.dev.ctx.deviceDPI(self.dev.info))
	case AccelProfileFlat:
		self.filter = filter.New(filter.NewFlatProfile(1))
	default:
		return ConfigInvalid
	}
	self.profile = p
	_ = self.filter.SetSpeed(speed)
	return ConfigSuccess
}

// MiddleEmulationEnabled reports the emulation flag, exposed for the
// debug tools.
func (self *pointerDispatch) MiddleEmulationEnabled() bool { return self.middle.enabled }

func (self *pointerDispatch) SetMiddleEmulation(on bool) ConfigStatus {
	if !self.dev.info.HasKey(evdev.BTN_LEFT) || !self.dev.info.HasKey(evdev.BTN_RIGHT) {
		return ConfigUnsupported
	}
	self.middle.enabled = on
	return ConfigSuccess
}

// absPointerDispatch serves single-point absolute devices that still
// behave like pointers, e.g. pointing sticks in absolute mode or
// simple digitizer overlays without MT.
type absPointerDispatch struct {
	dev     *Device
	pressed map[uint16]bool
	calib   CalibrationMatrix

	x, y    float64
	seen    bool
	buttons []pendingButton
}

func newAbsPointerDispatch(dev *Device) Dispatcher {
	return &absPointerDispatch{
		dev:     dev,
		pressed: make(map[uint16]bool),
		calib:   identityCalibration,
	}
}

func (self *absPointerDispatch) ProcessFrame(d *Device, f evdev.Frame) {
	moved := false
	for _, ie := range f.Events {
		switch ie.Type {
		case evdev.EV_ABS:
			switch ie.Code {
			case evdev.ABS_X:
				self.x = float64(ie.Value)
				moved = true
			case evdev.ABS_Y:
				self.y = float64(ie.Value)
				moved = true
			}
		case evdev.EV_KEY:
			if ie.Value == 2 || !evdev.IsButton(ie.Code) {
				continue
			}
			state := ButtonStateReleased
			if ie.Value != 0 {
				state = ButtonStatePressed
			}
			self.buttons = append(self.buttons, pendingButton{ie.Code, state})
		}
	}

	for _, b := range self.buttons {
		if b.state == ButtonStateReleased {
			self.postButton(f.Time, b.code, b.state)
		}
	}
	if moved || !self.seen {
		self.seen = true
		xa := d.info.AbsRange(evdev.ABS_X)
		ya := d.info.AbsRange(evdev.ABS_Y)
		x, y := self.calib.Apply(self.x, self.y)
		d.ctx.postMotionAbsolute(d, f.Time, &PointerMotionAbsoluteEvent{
			X: x, Y: y,
			XMin: float64(xa.Minimum), XRange: xa.Range(),
			YMin: float64(ya.Minimum), YRange: ya.Range(),
		})
	}
	for _, b := range self.buttons {
		if b.state == ButtonStatePressed {
			self.postButton(f.Time, b.code, b.state)
		}
	}
	self.buttons = self.buttons[:0]
}

func (self *absPointerDispatch) postButton(millis uint64, code uint16, state ButtonState) {
	down := state == ButtonStatePressed
	if self.pressed[code] == down {
		return
	}
	if down {
		self.pressed[code] = true
	} else {
		delete(self.pressed, code)
	}
	self.dev.ctx.postButton(self.dev, millis, code, state)
}

func (self *absPointerDispatch) Suspend(d *Device) {
	millis := d.ctx.now()
	for code := range self.pressed {
		self.postButton(millis, code, ButtonStateReleased)
	}
}

func (self *absPointerDispatch) Destroy() {}

func (self *absPointerDispatch) Calibration() CalibrationMatrix { return self.calib }

func (self *absPointerDispatch) SetCalibration(m CalibrationMatrix) ConfigStatus {
	self.calib = m
	return ConfigSuccess
}
