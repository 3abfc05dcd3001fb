package evseat

import (
	"math"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/semafor/evseat/evdev"
)

//go:generate stringer -type=ToolType -output=tablet_string.go
type ToolType uint32

const (
	ToolNone ToolType = iota
	ToolPen
	ToolEraser
	ToolBrush
	ToolPencil
	ToolAirbrush
	ToolFinger
	ToolMouse
	ToolLens
)

// TabletAxisMask marks which axes changed in a frame.
type TabletAxisMask uint32

const (
	TabletAxisX TabletAxisMask = 1 << iota
	TabletAxisY
	TabletAxisPressure
	TabletAxisDistance
	TabletAxisTiltX
	TabletAxisTiltY
	TabletAxisSlider
	TabletAxisRotationZ
	TabletAxisRelWheel
)

func (self TabletAxisMask) Has(a TabletAxisMask) bool { return self&a != 0 }

// TabletAxes is a full axis snapshot. Pressure, distance and slider are
// normalized into [0,1], tilt into [-1,1], rotation is degrees, x and y
// stay in device units, rel-wheel in normalized steps.
type TabletAxes struct {
	X, Y      float64
	Pressure  float64
	Distance  float64
	TiltX     float64
	TiltY     float64
	Slider    float64
	RotationZ float64
	RelWheel  float64
}

// TabletTool is the identity of a physical tool. Tools carrying a
// serial number live on the context so the same pen resolves to the
// same tool on every tablet it visits; serial-less tools are local to
// the tablet that saw them.
type TabletTool struct {
	Type   ToolType
	ToolID uint32
	Serial uint32

	refcount int32
	axes     TabletAxisMask
	buttons  mapset.Set[uint16]
}

func (self *TabletTool) Ref() *TabletTool {
	self.refcount++
	return self
}

func (self *TabletTool) Unref() {
	if self.refcount > 0 {
		self.refcount--
	}
}

func (self *TabletTool) HasAxis(a TabletAxisMask) bool { return self.axes.Has(a) }
func (self *TabletTool) HasButton(code uint16) bool    { return self.buttons.Contains(code) }

func toolTypeForCode(code uint16) ToolType {
	switch code {
	case evdev.BTN_TOOL_PEN:
		return ToolPen
	case evdev.BTN_TOOL_RUBBER:
		return ToolEraser
	case evdev.BTN_TOOL_BRUSH:
		return ToolBrush
	case evdev.BTN_TOOL_PENCIL:
		return ToolPencil
	case evdev.BTN_TOOL_AIRBRUSH:
		return ToolAirbrush
	case evdev.BTN_TOOL_FINGER:
		return ToolFinger
	case evdev.BTN_TOOL_MOUSE:
		return ToolMouse
	case evdev.BTN_TOOL_LENS:
		return ToolLens
	}
	return ToolNone
}

// toolModels maps known tool-ids to their exact axis set. Anything not
// listed falls back to a per-type default.
var toolModels = map[uint32]TabletAxisMask{
	0x802: TabletAxisX | TabletAxisY | TabletAxisPressure | TabletAxisDistance |
		TabletAxisTiltX | TabletAxisTiltY, // Intuos Pen
	0x80c: TabletAxisX | TabletAxisY | TabletAxisPressure | TabletAxisDistance |
		TabletAxisTiltX | TabletAxisTiltY | TabletAxisRotationZ, // Art Pen
	0x902: TabletAxisX | TabletAxisY | TabletAxisPressure | TabletAxisDistance |
		TabletAxisTiltX | TabletAxisTiltY | TabletAxisSlider, // Airbrush
	0x806: TabletAxisX | TabletAxisY | TabletAxisDistance | TabletAxisRotationZ |
		TabletAxisRelWheel, // Lens cursor
}

func toolCapabilities(toolID uint32, typ ToolType) (TabletAxisMask, mapset.Set[uint16]) {
	buttons := mapset.NewSet[uint16]()
	switch typ {
	case ToolMouse, ToolLens:
		buttons.Append(evdev.BTN_LEFT, evdev.BTN_RIGHT, evdev.BTN_MIDDLE,
			evdev.BTN_SIDE, evdev.BTN_EXTRA)
	default:
		buttons.Append(evdev.BTN_STYLUS, evdev.BTN_STYLUS2)
	}
	if axes, ok := toolModels[toolID]; ok {
		return axes, buttons
	}
	axes := TabletAxisMask(TabletAxisX | TabletAxisY)
	switch typ {
	case ToolPen, ToolEraser, ToolBrush, ToolPencil:
		axes |= TabletAxisPressure | TabletAxisDistance | TabletAxisTiltX | TabletAxisTiltY
	case ToolAirbrush:
		axes |= TabletAxisPressure | TabletAxisDistance | TabletAxisTiltX |
			TabletAxisTiltY | TabletAxisSlider
	case ToolMouse, ToolLens:
		axes |= TabletAxisDistance | TabletAxisRotationZ | TabletAxisRelWheel
	case ToolFinger:
		axes |= TabletAxisPressure | TabletAxisDistance
	}
	return axes, buttons
}

type proxPhase uint8

const (
	proxOut proxPhase = iota
	proxEntering
	proxIn
	proxLeaving
)

// tabletDispatch translates stylus frames into proximity, axis and
// button events. At most one tool is in proximity at a time; the
// kernel guarantees tool-bit exclusivity and we rely on it.
type tabletDispatch struct {
	dev *Device

	tool       *TabletTool
	localTools []*TabletTool

	phase       proxPhase
	pendingType ToolType
	pendingID   uint32
	serial      uint32

	axes    TabletAxes
	changed TabletAxisMask
	wheel   int32

	contact      bool
	pressureSent bool

	pressed     map[uint16]bool
	rawPresses  []uint16
	rawReleases []uint16
}

func newTabletDispatch(dev *Device) *tabletDispatch {
	dev.leftHanded.Available = true
	self := &tabletDispatch{
		dev:     dev,
		pressed: make(map[uint16]bool, 4),
	}
	// A tool already in proximity at open never repeats its tool bit,
	// so arm the entry from the boot key state. The tool id sits in
	// the ABS_MISC boot value for the same reason.
	for code, down := range dev.info.KeyState {
		if down {
			if typ := toolTypeForCode(code); typ != ToolNone {
				self.phase = proxEntering
				self.pendingType = typ
				if ai, ok := dev.info.Abs[evdev.ABS_MISC]; ok {
					self.pendingID = uint32(ai.Value)
				}
				break
			}
		}
	}
	return self
}

func (self *tabletDispatch) ProcessFrame(d *Device, f evdev.Frame) {
	millis := f.Time
	for _, ie := range f.Events {
		switch ie.Type {
		case evdev.EV_ABS:
			self.handleAbs(ie.Code, ie.Value)
		case evdev.EV_REL:
			if ie.Code == evdev.REL_WHEEL {
				// Kernel wheel direction is inverted relative to the
				// scroll convention used everywhere else.
				self.wheel -= ie.Value
				self.changed |= TabletAxisRelWheel
			}
		case evdev.EV_KEY:
			self.handleKey(ie.Code, ie.Value)
		case evdev.EV_MSC:
			if ie.Code == evdev.MSC_SERIAL && ie.Value != -1 {
				self.serial = uint32(ie.Value)
			}
		}
	}
	self.flush(millis)
}

func (self *tabletDispatch) handleAbs(code uint16, value int32) {
	info, ok := self.dev.info.Abs[code]
	if !ok {
		return
	}
	switch code {
	case evdev.ABS_X:
		self.axes.X = float64(value)
		self.changed |= TabletAxisX
	case evdev.ABS_Y:
		self.axes.Y = float64(value)
		self.changed |= TabletAxisY
	case evdev.ABS_PRESSURE:
		self.axes.Pressure = info.Normalize(value)
		self.changed |= TabletAxisPressure
	case evdev.ABS_DISTANCE:
		self.axes.Distance = info.Normalize(value)
		self.changed |= TabletAxisDistance
	case evdev.ABS_TILT_X:
		self.axes.TiltX = info.Normalize(value)*2 - 1
		self.changed |= TabletAxisTiltX
	case evdev.ABS_TILT_Y:
		self.axes.TiltY = info.Normalize(value)*2 - 1
		self.changed |= TabletAxisTiltY
	case evdev.ABS_WHEEL:
		self.axes.Slider = info.Normalize(value)
		self.changed |= TabletAxisSlider
	case evdev.ABS_Z:
		// Artpen zero marker sits a quarter turn off logical north.
		self.axes.RotationZ = math.Mod(info.Normalize(value)*360+90, 360)
		self.changed |= TabletAxisRotationZ
	case evdev.ABS_MISC:
		// Wacom reports the hardware tool id here ahead of the tool
		// bit; it selects the exact axis set on proximity-in.
		self.pendingID = uint32(value)
	}
}

func (self *tabletDispatch) handleKey(code uint16, value int32) {
	if value == 2 {
		return
	}
	if typ := toolTypeForCode(code); typ != ToolNone {
		if value == 1 {
			self.phase = proxEntering
			self.pendingType = typ
		} else {
			self.phase = proxLeaving
		}
		return
	}
	if code == evdev.BTN_TOUCH {
		self.contact = value == 1
		return
	}
	if value == 1 {
		self.rawPresses = append(self.rawPresses, code)
	} else {
		self.rawReleases = append(self.rawReleases, code)
	}
}

// resolveTool finds or creates the identity for the entering tool.
// Tools with a serial live on the context, the rest on this tablet.
func (self *tabletDispatch) resolveTool() *TabletTool {
	typ, id, serial := self.pendingType, self.pendingID, self.serial
	var pool *[]*TabletTool
	if serial != 0 {
		pool = &self.dev.ctx.tools
	} else {
		pool = &self.localTools
	}
	for _, t := range *pool {
		if t.Type == typ && t.Serial == serial {
			return t
		}
	}
	t := &TabletTool{Type: typ, ToolID: id, Serial: serial, refcount: 1}
	t.axes, t.buttons = toolCapabilities(id, typ)
	*pool = append(*pool, t)
	self.dev.ctx.Log.Debugf("%s: new tool %s serial=%#x", self.dev.info.Sysname, typ, serial)
	return t
}

// syntheticRotation derives the mouse and lens tool heading from the
// tilt pair. The 5 degree bias matches the physical zero of such tools.
func syntheticRotation(tiltX, tiltY float64) float64 {
	deg := math.Atan2(-tiltX, tiltY) * 180 / math.Pi
	return math.Mod(360+deg-5, 360)
}

func (self *tabletDispatch) snapshot() TabletAxes {
	axes := self.axes
	if self.tool != nil && (self.tool.Type == ToolMouse || self.tool.Type == ToolLens) {
		axes.RotationZ = syntheticRotation(axes.TiltX, axes.TiltY)
		axes.TiltX = 0
		axes.TiltY = 0
	}
	if self.dev.leftHanded.Enabled {
		xi, yi := self.dev.info.Abs[evdev.ABS_X], self.dev.info.Abs[evdev.ABS_Y]
		axes.X = float64(xi.Minimum) + float64(xi.Maximum) - axes.X
		axes.Y = float64(yi.Minimum) + float64(yi.Maximum) - axes.Y
		if axes.RotationZ != 0 {
			axes.RotationZ = math.Mod(axes.RotationZ+180, 360)
		}
	}
	axes.RelWheel = float64(self.wheel)
	return axes
}

func (self *tabletDispatch) flush(millis uint64) {
	changed := self.changed
	self.changed = 0

	// Contactless pressure is noise. Report the drop to exactly zero
	// once, then stay quiet until the stylus touches down again.
	if changed.Has(TabletAxisPressure) && !self.contact {
		self.axes.Pressure = 0
		if self.pressureSent {
			self.pressureSent = false
		} else {
			changed &^= TabletAxisPressure
		}
	} else if changed.Has(TabletAxisPressure) {
		self.pressureSent = true
	}
	// A frame carrying both means the stylus is on the surface and the
	// distance reading is stale.
	if changed.Has(TabletAxisPressure) && changed.Has(TabletAxisDistance) {
		changed &^= TabletAxisDistance
		self.axes.Distance = 0
	}

	switch self.phase {
	case proxEntering:
		self.tool = self.resolveTool().Ref()
		self.phase = proxIn
		self.dev.ctx.postTabletProximity(self.dev, millis, self.tool, ProximityIn, changed, self.snapshot())
	case proxLeaving:
		self.forceReleaseButtons(millis)
		if self.tool != nil {
			self.dev.ctx.postTabletProximity(self.dev, millis, self.tool, ProximityOut, changed, self.snapshot())
			self.tool.Unref()
			self.tool = nil
		}
		self.phase = proxOut
		self.serial = 0
		self.pendingID = 0
		self.rawPresses = self.rawPresses[:0]
		self.rawReleases = self.rawReleases[:0]
		self.wheel = 0
		self.applyWantedLeftHanded()
		return
	case proxOut:
		// Axis chatter without a tool bit is not attributable.
		self.rawPresses = self.rawPresses[:0]
		self.rawReleases = self.rawReleases[:0]
		self.wheel = 0
		self.applyWantedLeftHanded()
		return
	default:
		if changed != 0 {
			axes := self.snapshot()
			var deltas, discrete TabletAxes
			if changed.Has(TabletAxisRelWheel) {
				deltas.RelWheel = float64(self.wheel) * wheelClickAngle
				discrete.RelWheel = float64(self.wheel)
			}
			self.dev.ctx.postTabletAxis(self.dev, millis, self.tool, changed, axes, deltas, discrete)
		}
	}

	for _, code := range self.rawReleases {
		if self.pressed[code] {
			delete(self.pressed, code)
			self.dev.ctx.postTabletButton(self.dev, millis, self.tool, code, ButtonStateReleased, self.snapshot())
		}
	}
	self.rawReleases = self.rawReleases[:0]
	for _, code := range self.rawPresses {
		if !self.pressed[code] {
			self.pressed[code] = true
			self.dev.ctx.postTabletButton(self.dev, millis, self.tool, code, ButtonStatePressed, self.snapshot())
		}
	}
	self.rawPresses = self.rawPresses[:0]
	self.wheel = 0
}

func (self *tabletDispatch) forceReleaseButtons(millis uint64) {
	for code := range self.pressed {
		self.dev.ctx.postTabletButton(self.dev, millis, self.tool, code, ButtonStateReleased, self.snapshot())
		delete(self.pressed, code)
	}
}

// applyWantedLeftHanded runs only when no tool is in proximity, per
// the deferral rule for in-flight interactions.
func (self *tabletDispatch) applyWantedLeftHanded() {
	lh := &self.dev.leftHanded
	if lh.Want != lh.Enabled {
		lh.Enabled = lh.Want
	}
}

func (self *tabletDispatch) applyLeftHanded(want bool) {
	self.dev.leftHanded.Want = want
	if self.phase == proxOut {
		self.dev.leftHanded.Enabled = want
	}
}

func (self *tabletDispatch) Suspend(d *Device) {
	millis := self.dev.ctx.now()
	self.forceReleaseButtons(millis)
	if self.tool != nil {
		self.dev.ctx.postTabletProximity(self.dev, millis, self.tool, ProximityOut, 0, self.snapshot())
		self.tool.Unref()
		self.tool = nil
	}
	self.phase = proxOut
	self.serial = 0
	self.contact = false
	self.pressureSent = false
	self.changed = 0
	self.wheel = 0
	self.rawPresses = self.rawPresses[:0]
	self.rawReleases = self.rawReleases[:0]
}

func (self *tabletDispatch) Destroy() {}

func (self *Context) postTabletProximity(dev *Device, millis uint64, tool *TabletTool, state ProximityState, changed TabletAxisMask, axes TabletAxes) {
	self.post(&Event{
		Type: EventTabletProximity, Device: dev, Time: millis,
		TabletProximity: &TabletProximityEvent{Tool: tool, State: state, Changed: changed, Axes: axes},
	})
}

func (self *Context) postTabletAxis(dev *Device, millis uint64, tool *TabletTool, changed TabletAxisMask, axes, deltas, discrete TabletAxes) {
	self.post(&Event{
		Type: EventTabletAxis, Device: dev, Time: millis,
		TabletAxis: &TabletAxisEvent{Tool: tool, Changed: changed, Axes: axes, Deltas: deltas, DeltasDiscrete: discrete},
	})
}

func (self *Context) postTabletButton(dev *Device, millis uint64, tool *TabletTool, code uint16, state ButtonState, axes TabletAxes) {
	self.post(&Event{
		Type: EventTabletButton, Device: dev, Time: millis,
		TabletButton: &TabletButtonEvent{Tool: tool, Code: code, State: state, Axes: axes},
	})
}
