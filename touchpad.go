package evseat

import (
	"math"

	"github.com/juju/errors"

	"github.com/semafor/evseat/evdev"
	"github.com/semafor/evseat/filter"
)

const (
	// Contact pressure floor; MT pressure under this reads as hover.
	tpPressureContact = 5

	// Lateral strip fraction that marks a landing touch as palm.
	tpPalmStripFraction = 0.05

	// Pads at least this wide also run corner palm detection.
	tpLargePadMM = 70.0

	// Movement past this many millimeters kills a pending tap and
	// counts as real motion. Falls back to device units on pads
	// without resolution info.
	tpJitterMM    = 1.5
	tpJitterUnits = 30.0

	// Scroll units per device unit of finger travel; keeps 2fg scroll
	// roughly in wheel-detent scale.
	tpScrollScale = 0.3
)

// tpTouch is one MT slot on the touchpad.
type tpTouch struct {
	state touchState
	began uint64

	x, y         float64
	prevX, prevY float64
	startX, startY float64

	pressure int32

	palm     bool
	hover    bool
	everContact bool
	dwtMuted bool
	moved    bool
	inTap    bool // currently counted down in the tap machine

	edge edgeTouchState

	dirty bool
}

func (self *tpTouch) contact() bool {
	return self.state != touchNone && !self.hover
}

func (self *tpTouch) eligible() bool {
	return self.contact() && !self.palm && !self.dwtMuted
}

// touchpadDispatch is the full touchpad stack: slot tracking, palm and
// hover filtering, pointer motion, two-finger and edge scrolling, the
// tap machine, soft buttons and the typing interlock.
type touchpadDispatch struct {
	dev    *Device
	filter filter.Filter

	slots []tpTouch
	cur   int

	xinfo, yinfo evdev.AbsInfo
	widthMM      float64
	hasPressure  bool
	jitter       float64

	tap  *tapMachine
	dwt  dwtState
	edge edgeScrollMachine
	softb softButtons

	scrollMethod ScrollMethod
	clickMethod  ClickMethod
	natural      bool

	// Two-finger scroll state. Finger-count changes are debounced so
	// a sloppy second finger does not flicker between motion and
	// scroll.
	scrollActive  bool
	switchPending bool
	switchTimer   *Timer

	rawButtons []pendingButton

	// Flush accumulators, drained at end of frame in fixed order.
	outReleases []pendingButton
	outDX, outDY float64
	outScrollV, outScrollH float64
	outScrollSource AxisSource
	outScrollStop bool
	outPresses  []pendingButton

	pressed map[uint16]bool
	lastMotionAt uint64
	inFrame      bool
}

func newTouchpadDispatch(dev *Device) (Dispatcher, error) {
	info := dev.info
	if !info.HasAbs(evdev.ABS_MT_POSITION_X) || !info.HasAbs(evdev.ABS_MT_POSITION_Y) {
		return nil, errors.NotSupportedf("touchpad %s without MT axes", info.Sysname)
	}
	n := int(info.AbsRange(evdev.ABS_MT_SLOT).Maximum) + 1
	if n < 2 {
		n = 2
	}
	if n > 16 {
		n = 16
	}
	t := &touchpadDispatch{
		dev:          dev,
		filter:       filter.NewTouchpadAccelerator(),
		slots:        make([]tpTouch, n),
		xinfo:        info.AbsRange(evdev.ABS_MT_POSITION_X),
		yinfo:        info.AbsRange(evdev.ABS_MT_POSITION_Y),
		widthMM:      info.WidthMM(),
		hasPressure:  info.HasAbs(evdev.ABS_MT_PRESSURE),
		scrollMethod: Scroll2fg,
		clickMethod:  ClickMethodButtonAreas,
		pressed:      make(map[uint16]bool),
	}
	if t.widthMM == 0 {
		// WidthMM reads ABS_X; MT-only pads report ranges on the MT
		// axes instead.
		if t.xinfo.Resolution > 0 {
			t.widthMM = t.xinfo.Range() / float64(t.xinfo.Resolution)
		}
	}
	t.jitter = tpJitterUnits
	if t.xinfo.Resolution > 0 {
		t.jitter = tpJitterMM * float64(t.xinfo.Resolution)
	}
	dev.leftHanded.Available = true
	t.tap = newTapMachine(dev.ctx.Log, dev.ctx.timers, info.Sysname, t.tapEmit)
	t.dwt = dwtState{
		enabled:  true,
		excluded: dev.ctx.dwtExcluded(info),
	}
	t.dwt.timer = dev.ctx.timers.NewTimer(info.Sysname+" dwt", t.dwtTimeout)
	t.edge.init(t)
	t.softb.init(t)
	t.switchTimer = dev.ctx.timers.NewTimer(info.Sysname+" finger-switch", t.switchTimeout)
	return t, nil
}

func (self *touchpadDispatch) ProcessFrame(d *Device, f evdev.Frame) {
	for _, ie := range f.Events {
		switch ie.Type {
		case evdev.EV_ABS:
			self.handleAbs(ie.Code, ie.Value)
		case evdev.EV_KEY:
			self.handleKey(ie.Code, ie.Value)
		}
	}
	self.handleState(f.Time)
}

func (self *touchpadDispatch) handleAbs(code uint16, value int32) {
	switch code {
	case evdev.ABS_MT_SLOT:
		if int(value) < len(self.slots) {
			self.cur = int(value)
		}
	case evdev.ABS_MT_TRACKING_ID:
		t := &self.slots[self.cur]
		if value >= 0 {
			*t = tpTouch{state: touchBegin, dirty: true}
		} else if t.state != touchNone {
			t.state = touchEnd
			t.dirty = true
		}
	case evdev.ABS_MT_POSITION_X:
		t := &self.slots[self.cur]
		t.x = float64(value)
		t.dirty = true
	case evdev.ABS_MT_POSITION_Y:
		t := &self.slots[self.cur]
		t.y = float64(value)
		t.dirty = true
	case evdev.ABS_MT_PRESSURE:
		t := &self.slots[self.cur]
		t.pressure = value
		t.dirty = true
	}
}

func (self *touchpadDispatch) handleKey(code uint16, value int32) {
	// Touch and finger-count bits live in the BTN range too; only codes
	// from BTN_MISC up to the tool block count as a physical click.
	if value == 2 || code < evdev.BTN_MISC || code >= evdev.BTN_TOOL_PEN {
		return
	}
	state := ButtonStateReleased
	if value != 0 {
		state = ButtonStatePressed
	}
	self.rawButtons = append(self.rawButtons, pendingButton{code, state})
}

// handleState is the end-of-frame procedure; order matters.
func (self *touchpadDispatch) handleState(millis uint64) {
	self.inFrame = true
	defer func() { self.inFrame = false }()
	self.beginTouches(millis)
	self.updateHover(millis)
	self.updatePalm()
	self.updateTapTouches(millis)
	self.edge.update(millis)
	self.updateScroll(millis)
	self.updateMotion(millis)
	self.softb.handleButtons(millis)
	self.endTouches(millis)
	self.flush(millis)
}

func (self *touchpadDispatch) beginTouches(millis uint64) {
	for i := range self.slots {
		t := &self.slots[i]
		if t.state != touchBegin || !t.dirty {
			continue
		}
		t.began = millis
		t.startX, t.startY = t.x, t.y
		t.prevX, t.prevY = t.x, t.y
		t.dwtMuted = self.dwt.active
		if self.hasPressure && t.pressure < tpPressureContact {
			t.hover = true
		}
		if !t.hover {
			t.everContact = true
		}
		if self.inPalmStrip(t.startX) || self.inPalmCorner(t.startX, t.startY) {
			t.palm = true
		}
		self.edge.touchBegan(millis, int32(i), t)
	}
}

// updateHover promotes hovering touches to contact when pressure
// crosses the floor, resetting the filter so the positional jump does
// not become a cursor jump.
func (self *touchpadDispatch) updateHover(millis uint64) {
	if !self.hasPressure {
		return
	}
	for i := range self.slots {
		t := &self.slots[i]
		if t.state == touchNone || t.state == touchEnd {
			continue
		}
		contact := t.pressure >= tpPressureContact
		if t.hover && contact {
			t.hover = false
			t.everContact = true
			t.prevX, t.prevY = t.x, t.y
			t.startX, t.startY = t.x, t.y
			self.filter.Restart()
		} else if !t.hover && !contact {
			t.hover = true
		}
	}
}

func (self *touchpadDispatch) updatePalm() {
	for i := range self.slots {
		t := &self.slots[i]
		if t.state == touchNone || t.palm {
			continue
		}
		// Only the landing position decides; moving into the strip
		// later keeps pointer status.
		if t.state == touchBegin && self.inPalmStrip(t.startX) {
			t.palm = true
		}
	}
}

func (self *touchpadDispatch) inPalmStrip(x float64) bool {
	if self.dev.ctx.palmExcluded(self.dev.info) {
		return false
	}
	strip := self.xinfo.Range() * tpPalmStripFraction
	return x < float64(self.xinfo.Minimum)+strip ||
		x > float64(self.xinfo.Maximum)-strip
}

func (self *touchpadDispatch) inPalmCorner(x, y float64) bool {
	if self.widthMM < tpLargePadMM {
		return false
	}
	cx := self.xinfo.Range() * 0.15
	cy := self.yinfo.Range() * 0.15
	nearX := x < float64(self.xinfo.Minimum)+cx || x > float64(self.xinfo.Maximum)-cx
	nearY := y > float64(self.yinfo.Maximum)-cy
	return nearX && nearY
}

func (self *touchpadDispatch) updateTapTouches(millis uint64) {
	for i := range self.slots {
		t := &self.slots[i]
		switch {
		case t.state == touchBegin && t.eligible() && !t.inTap:
			t.inTap = true
			t.state = touchUpdate
			self.tap.TouchDown(millis)
		case t.state == touchBegin:
			t.state = touchUpdate
		case t.state == touchUpdate && t.eligible() && !t.inTap:
			// Hover or mute lifted mid-life.
			t.inTap = true
			self.tap.TouchDown(millis)
		}
		if t.inTap && !t.moved && t.state != touchNone {
			dx, dy := t.x-t.startX, t.y-t.startY
			if math.Hypot(dx, dy) > self.jitter {
				t.moved = true
				self.tap.Moved(millis)
			}
		}
	}
}

func (self *touchpadDispatch) eligibleFingers() int {
	n := 0
	for i := range self.slots {
		t := &self.slots[i]
		if t.eligible() && t.state != touchEnd {
			n++
		}
	}
	return n
}

// updateScroll runs the two-finger scroll machine with the hand-off
// debounce.
func (self *touchpadDispatch) updateScroll(millis uint64) {
	if self.scrollMethod != Scroll2fg {
		return
	}
	fingers := self.eligibleFingers()
	if self.tap.Dragging() {
		// Tap-drag owns the pad, single finger semantics.
		fingers = 1
	}

	switch {
	case !self.scrollActive && fingers == 2:
		if !self.anyScrollMotion() {
			return
		}
		// Terminate pointer motion before the first scroll event.
		self.outDX, self.outDY = 0, 0
		self.scrollActive = true
		self.switchPending = false
		self.switchTimer.Cancel()
		self.accumulateScroll()
	case self.scrollActive && fingers == 2:
		self.switchPending = false
		self.switchTimer.Cancel()
		self.accumulateScroll()
	case self.scrollActive && fingers != 2:
		if !self.switchPending {
			self.switchPending = true
			self.switchTimer.Set(millis + TimeoutFingerSwitch)
		}
	}
}

func (self *touchpadDispatch) switchTimeout(now uint64) {
	if !self.switchPending {
		return
	}
	self.switchPending = false
	if self.scrollActive {
		self.scrollActive = false
		self.outScrollStop = true
		self.outScrollSource = AxisSourceFinger
		self.flush(now)
	}
}

func (self *touchpadDispatch) anyScrollMotion() bool {
	for i := range self.slots {
		t := &self.slots[i]
		if !t.eligible() {
			continue
		}
		if math.Abs(t.y-t.startY) > self.jitter || math.Abs(t.x-t.startX) > self.jitter {
			return true
		}
	}
	return false
}

func (self *touchpadDispatch) accumulateScroll() {
	var dx, dy float64
	n := 0
	for i := range self.slots {
		t := &self.slots[i]
		if !t.eligible() || t.state == touchEnd {
			continue
		}
		dx += t.x - t.prevX
		dy += t.y - t.prevY
		n++
	}
	if n == 0 {
		return
	}
	v := dy / float64(n) * tpScrollScale
	h := dx / float64(n) * tpScrollScale
	self.outScrollV += v
	self.outScrollH += h
	self.outScrollSource = AxisSourceFinger
}

// updateMotion picks the pointing finger and turns its travel into
// accelerated relative motion.
func (self *touchpadDispatch) updateMotion(millis uint64) {
	if self.scrollActive || self.switchPending {
		return
	}
	if self.edge.scrolling() {
		return
	}
	var pick *tpTouch
	for i := range self.slots {
		t := &self.slots[i]
		if !t.eligible() || t.state == touchEnd || self.edge.owns(int32(i)) {
			continue
		}
		if pick == nil || t.began > pick.began {
			pick = t
		}
	}
	if pick == nil {
		return
	}
	dx, dy := pick.x-pick.prevX, pick.y-pick.prevY
	if dx == 0 && dy == 0 {
		return
	}
	m := self.filter.Dispatch(filter.Motion{DX: dx, DY: dy}, millis)
	self.outDX += m.DX
	self.outDY += m.DY
	self.lastMotionAt = millis
}

func (self *touchpadDispatch) endTouches(millis uint64) {
	for i := range self.slots {
		t := &self.slots[i]
		if t.state != touchEnd {
			continue
		}
		if t.inTap {
			self.tap.TouchUp(millis)
		}
		self.edge.touchEnded(millis, int32(i), t)
		*t = tpTouch{}
	}
}

// flush drains the frame's output in the canonical order: releases,
// motion, scroll, presses.
func (self *touchpadDispatch) flush(millis uint64) {
	for _, b := range self.outReleases {
		self.postButton(millis, b.code, b.state)
	}
	self.outReleases = self.outReleases[:0]

	if self.outDX != 0 || self.outDY != 0 {
		self.dev.ctx.postMotion(self.dev, millis, self.outDX, self.outDY)
		self.outDX, self.outDY = 0, 0
	}

	v, h := self.outScrollV, self.outScrollH
	if self.natural {
		v, h = -v, -h
	}
	if v != 0 {
		self.dev.ctx.postAxis(self.dev, millis, PointerAxisScrollVertical, v, self.outScrollSource)
	}
	if h != 0 {
		self.dev.ctx.postAxis(self.dev, millis, PointerAxisScrollHorizontal, h, self.outScrollSource)
	}
	if self.outScrollStop {
		self.dev.ctx.postAxis(self.dev, millis, PointerAxisScrollVertical, 0, self.outScrollSource)
		self.outScrollStop = false
	}
	self.outScrollV, self.outScrollH = 0, 0

	for _, b := range self.outPresses {
		self.postButton(millis, b.code, b.state)
	}
	self.outPresses = self.outPresses[:0]

	for i := range self.slots {
		t := &self.slots[i]
		t.prevX, t.prevY = t.x, t.y
		t.dirty = false
	}

	if len(self.pressed) == 0 && self.dev.leftHanded.Want != self.dev.leftHanded.Enabled {
		self.dev.leftHanded.Enabled = self.dev.leftHanded.Want
	}
}

func (self *touchpadDispatch) postButton(millis uint64, code uint16, state ButtonState) {
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

// tapEmit routes machine output through the ordered flush. Inside a
// frame the events wait for the end-of-frame flush; from a timer they
// go out immediately.
func (self *touchpadDispatch) tapEmit(millis uint64, code uint16, state ButtonState) {
	if state == ButtonStateReleased {
		self.outReleases = append(self.outReleases, pendingButton{code, state})
	} else {
		self.outPresses = append(self.outPresses, pendingButton{code, state})
	}
	if !self.inFrame {
		self.flush(millis)
	}
}

func (self *touchpadDispatch) dwtKeyEvent(millis uint64, code uint16, state KeyState) {
	self.dwt.keyEvent(millis, code, state)
}

func (self *touchpadDispatch) dwtTimeout(now uint64) {
	self.dwt.timeout(now)
}

func (self *touchpadDispatch) Suspend(d *Device) {
	millis := d.ctx.now()
	self.tap.Drain(millis)
	self.switchTimer.Cancel()
	self.dwt.reset()
	self.edge.drain(millis)
	self.softb.drain(millis)
	if self.scrollActive {
		self.scrollActive = false
		self.outScrollStop = true
		self.outScrollSource = AxisSourceFinger
	}
	for i := range self.slots {
		self.slots[i] = tpTouch{}
	}
	self.flush(millis)
	for code := range self.pressed {
		self.postButton(millis, code, ButtonStateReleased)
	}
	self.filter.Restart()
}

func (self *touchpadDispatch) Destroy() {
	self.tap.timer.Destroy()
	self.switchTimer.Destroy()
	self.dwt.timer.Destroy()
	self.edge.destroy()
	self.filter.Destroy()
}

func (self *touchpadDispatch) TapEnabled() bool { return self.tap.Enabled() }

func (self *touchpadDispatch) SetTapEnabled(on bool) ConfigStatus {
	self.tap.SetEnabled(self.dev.ctx.now(), on)
	return ConfigSuccess
}

func (self *touchpadDispatch) TapFingerCount() int { return 3 }

func (self *touchpadDispatch) NaturalScroll() bool { return self.natural }

func (self *touchpadDispatch) SetNaturalScroll(on bool) ConfigStatus {
	self.natural = on
	return ConfigSuccess
}

func (self *touchpadDispatch) ScrollMethods() []ScrollMethod {
	return []ScrollMethod{ScrollNone, ScrollEdge, Scroll2fg}
}

func (self *touchpadDispatch) ScrollMethod() ScrollMethod { return self.scrollMethod }

func (self *touchpadDispatch) SetScrollMethod(m ScrollMethod) ConfigStatus {
	switch m {
	case ScrollNone, ScrollEdge, Scroll2fg:
	case ScrollOnButtonDown:
		return ConfigUnsupported
	default:
		return ConfigInvalid
	}
	if self.scrollActive {
		self.scrollActive = false
		self.outScrollStop = true
		self.outScrollSource = AxisSourceFinger
		self.flush(self.dev.ctx.now())
	}
	self.scrollMethod = m
	return ConfigSuccess
}

func (self *touchpadDispatch) ClickMethod() ClickMethod { return self.clickMethod }

func (self *touchpadDispatch) SetClickMethod(m ClickMethod) ConfigStatus {
	switch m {
	case ClickMethodNone, ClickMethodButtonAreas, ClickMethodClickfinger:
		self.clickMethod = m
		return ConfigSuccess
	}
	return ConfigInvalid
}

func (self *touchpadDispatch) AccelSpeed() float64 { return self.filter.Speed() }

func (self *touchpadDispatch) SetAccelSpeed(speed float64) ConfigStatus {
	if err := validateSpeed(speed); err != nil {
		return ConfigInvalid
	}
	_ = self.filter.SetSpeed(speed)
	return ConfigSuccess
}

func (self *touchpadDispatch) AccelProfile() AccelProfile { return AccelProfileAdaptive }

func (self *touchpadDispatch) SetAccelProfile(p AccelProfile) ConfigStatus {
	if p == AccelProfileAdaptive {
		return ConfigSuccess
	}
	return ConfigUnsupported
}

func (self *touchpadDispatch) DWTEnabled() bool { return self.dwt.enabled }

func (self *touchpadDispatch) SetDWTEnabled(on bool) ConfigStatus {
	if self.dwt.excluded {
		return ConfigUnsupported
	}
	self.dwt.enabled = on
	if !on {
		self.dwt.reset()
	}
	return ConfigSuccess
}

func (self *touchpadDispatch) applyLeftHanded(want bool) {
	if len(self.pressed) == 0 {
		self.dev.leftHanded.Enabled = want
	}
}
