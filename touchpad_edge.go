package evseat

//go:generate stringer -type=edgeTouchState -output=touchpad_edge_string.go
type edgeTouchState uint32

const (
	edgeNone edgeTouchState = iota
	edgeCandidate
	edgeScrolling
	edgeDead
)

const (
	// Right-edge strip for vertical, bottom strip for horizontal, as
	// fractions of the axis range.
	edgeStripFractionX = 0.07
	edgeStripFractionY = 0.08
)

// edgeScrollMachine drives single-finger scrolling along the pad
// edges. A touch that lands in a strip and dwells there becomes a
// scroll finger until lift; it owns no pointer motion.
type edgeScrollMachine struct {
	tp    *touchpadDispatch
	timer *Timer

	slot     int32
	vertical bool
	active   bool
	lastPos  float64
}

func (self *edgeScrollMachine) init(tp *touchpadDispatch) {
	self.tp = tp
	self.slot = -1
	self.timer = tp.dev.ctx.timers.NewTimer(tp.dev.info.Sysname+" edge-scroll", self.timeout)
}

func (self *edgeScrollMachine) owns(slot int32) bool {
	return self.slot == slot && self.slot >= 0
}

func (self *edgeScrollMachine) scrolling() bool { return self.active }

func (self *edgeScrollMachine) touchBegan(millis uint64, slot int32, t *tpTouch) {
	if self.tp.scrollMethod != ScrollEdge || self.slot >= 0 || t.palm || t.hover {
		return
	}
	if self.tp.dwt.active {
		// Typing holds off new edge scrolls; one already running is
		// left alone.
		return
	}
	xi, yi := self.tp.xinfo, self.tp.yinfo
	switch {
	case t.startX > float64(xi.Maximum)-xi.Range()*edgeStripFractionX:
		self.slot = slot
		self.vertical = true
	case t.startY > float64(yi.Maximum)-yi.Range()*edgeStripFractionY:
		self.slot = slot
		self.vertical = false
	default:
		return
	}
	t.edge = edgeCandidate
	self.timer.Set(millis + TimeoutEdgeScroll)
}

func (self *edgeScrollMachine) timeout(now uint64) {
	if self.slot < 0 {
		return
	}
	t := &self.tp.slots[self.slot]
	if t.edge != edgeCandidate || t.state == touchNone {
		self.reset()
		return
	}
	if !self.inStrip(t) {
		// Wandered out before activation, an ordinary pointer touch.
		t.edge = edgeDead
		self.reset()
		return
	}
	t.edge = edgeScrolling
	self.active = true
	if self.vertical {
		self.lastPos = t.y
	} else {
		self.lastPos = t.x
	}
}

func (self *edgeScrollMachine) inStrip(t *tpTouch) bool {
	xi, yi := self.tp.xinfo, self.tp.yinfo
	if self.vertical {
		return t.x > float64(xi.Maximum)-xi.Range()*edgeStripFractionX
	}
	return t.y > float64(yi.Maximum)-yi.Range()*edgeStripFractionY
}

// update converts the scroll finger's travel on the dominant axis into
// axis events. Once active the finger may leave the strip.
func (self *edgeScrollMachine) update(millis uint64) {
	if !self.active || self.slot < 0 {
		return
	}
	t := &self.tp.slots[self.slot]
	if t.state == touchNone || t.state == touchEnd {
		return
	}
	var pos float64
	if self.vertical {
		pos = t.y
	} else {
		pos = t.x
	}
	delta := (pos - self.lastPos) * tpScrollScale
	self.lastPos = pos
	if delta == 0 {
		return
	}
	if self.vertical {
		self.tp.outScrollV += delta
	} else {
		self.tp.outScrollH += delta
	}
	self.tp.outScrollSource = AxisSourceFinger
}

func (self *edgeScrollMachine) touchEnded(millis uint64, slot int32, t *tpTouch) {
	if self.slot != slot {
		return
	}
	if self.active {
		self.tp.outScrollStop = true
		self.tp.outScrollSource = AxisSourceFinger
	}
	self.timer.Cancel()
	self.reset()
}

func (self *edgeScrollMachine) reset() {
	self.slot = -1
	self.active = false
}

func (self *edgeScrollMachine) drain(millis uint64) {
	if self.active {
		self.tp.outScrollStop = true
		self.tp.outScrollSource = AxisSourceFinger
	}
	self.timer.Cancel()
	self.reset()
}

func (self *edgeScrollMachine) destroy() {
	self.timer.Destroy()
}
