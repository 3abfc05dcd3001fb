package evseat

import (
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/temoto/atomic_clock"

	"github.com/semafor/evseat/evdev"
)

//go:generate stringer -type=Capability,SendEventsMode,deviceClass -output=device_string.go
type Capability uint32

const (
	CapKeyboard Capability = iota
	CapPointer
	CapTouch
	CapTablet
	CapButtonset
)

type SendEventsMode uint32

const (
	SendEventsEnabled SendEventsMode = iota
	SendEventsDisabled
)

type deviceClass uint32

const (
	classUnknown deviceClass = iota
	classKeyboard
	classPointer
	classAbsPointer
	classTouchpad
	classTouchscreen
	classTablet
	classButtonset
)

// classify buckets a scanned node into the engine that will own it.
// Order matters: tablets and pads carry pointer-looking bits too.
func classify(info *evdev.DeviceInfo) deviceClass {
	hasToolPen := info.HasKey(evdev.BTN_TOOL_PEN) || info.HasKey(evdev.BTN_TOOL_RUBBER) ||
		info.HasKey(evdev.BTN_TOOL_BRUSH) || info.HasKey(evdev.BTN_TOOL_PENCIL) ||
		info.HasKey(evdev.BTN_TOOL_AIRBRUSH) || info.HasKey(evdev.BTN_TOOL_MOUSE) ||
		info.HasKey(evdev.BTN_TOOL_LENS)
	hasMT := info.HasAbs(evdev.ABS_MT_POSITION_X) && info.HasAbs(evdev.ABS_MT_POSITION_Y)

	switch {
	case info.HasKey(evdev.BTN_0) && !hasToolPen && !hasMT &&
		(info.HasAbs(evdev.ABS_WHEEL) || info.HasAbs(evdev.ABS_RX) || info.HasAbs(evdev.ABS_MISC)):
		return classButtonset
	case hasToolPen && info.HasAbs(evdev.ABS_X):
		return classTablet
	case hasMT && info.HasKey(evdev.BTN_TOOL_FINGER) && !info.HasProp(evdev.PropDirect):
		return classTouchpad
	case hasMT && info.HasProp(evdev.PropDirect):
		return classTouchscreen
	case info.HasRel(evdev.REL_X) && info.HasRel(evdev.REL_Y) && info.HasKey(evdev.BTN_LEFT):
		return classPointer
	case info.HasAbs(evdev.ABS_X) && info.HasAbs(evdev.ABS_Y) && info.HasKey(evdev.BTN_LEFT):
		return classAbsPointer
	case isKeyboardInfo(info):
		return classKeyboard
	}
	return classUnknown
}

// isKeyboardInfo wants a plausible typing surface, not just any device
// with a stray key bit.
func isKeyboardInfo(info *evdev.DeviceInfo) bool {
	for code := evdev.KEY_Q; code <= evdev.KEY_P; code++ {
		if !info.HasKey(code) {
			return false
		}
	}
	return info.HasKey(evdev.KEY_SPACE)
}

func capabilitiesFor(class deviceClass) mapset.Set[Capability] {
	caps := mapset.NewSet[Capability]()
	switch class {
	case classKeyboard:
		caps.Add(CapKeyboard)
	case classPointer, classAbsPointer, classTouchpad:
		caps.Add(CapPointer)
	case classTouchscreen:
		caps.Add(CapTouch)
	case classTablet:
		caps.Add(CapTablet)
	case classButtonset:
		caps.Add(CapButtonset)
	}
	return caps
}

// leftHandedState keeps the wanted flag separate from the applied one
// so a flip mid-gesture waits for the neutral point.
type leftHandedState struct {
	Available bool
	Enabled   bool
	Want      bool
}

// DeviceGroup correlates nodes that share physical hardware, e.g. a
// tablet's pen node and pad node.
type DeviceGroup struct {
	Identifier string
	refcount   int
}

func (self *DeviceGroup) ref()   { self.refcount++ }
func (self *DeviceGroup) unref() { self.refcount-- }

// Device is one registered evdev node and its engine state.
type Device struct {
	ctx   *Context
	seat  *Seat
	group *DeviceGroup

	info  *evdev.DeviceInfo
	class deviceClass
	caps  mapset.Set[Capability]

	source   *evdev.FrameReader
	dispatch Dispatcher

	refcount  int
	removed   bool
	suspended bool

	// Set when a seat relocation recreated this device under a new
	// record; the read loop follows the link.
	replacement *Device

	leftHanded leftHandedState
	sendEvents SendEventsMode
	wantMode   SendEventsMode

	addedAt *atomic_clock.Clock
}

func (self *Device) Sysname() string    { return self.info.Sysname }
func (self *Device) Name() string       { return self.info.Name }
func (self *Device) Seat() *Seat        { return self.seat }
func (self *Device) Group() *DeviceGroup { return self.group }
func (self *Device) Info() *evdev.DeviceInfo { return self.info }

// Age is wall time since the device was registered.
func (self *Device) Age() time.Duration { return atomic_clock.Since(self.addedAt) }

func (self *Device) HasCapability(c Capability) bool { return self.caps.Contains(c) }

func (self *Device) Capabilities() []Capability { return self.caps.ToSlice() }

// CapabilityNames is a stable human-readable form for diagnostics.
func (self *Device) CapabilityNames() string {
	caps := self.caps.ToSlice()
	sort.Slice(caps, func(i, j int) bool { return caps[i] < caps[j] })
	out := ""
	for i, c := range caps {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}

// Ref keeps read queries on a removed device resolvable until the
// caller lets go.
func (self *Device) Ref() *Device {
	self.refcount++
	return self
}

func (self *Device) Unref() {
	self.refcount--
	if self.refcount <= 0 {
		self.destroy()
	}
}

func (self *Device) destroy() {
	if self.dispatch != nil {
		self.dispatch.Destroy()
		self.dispatch = nil
	}
	if self.group != nil {
		self.group.unref()
	}
	if self.seat != nil {
		self.seat.unref()
	}
}

// processFrame feeds one complete kernel frame to the engine, honoring
// the send-events mode.
func (self *Device) processFrame(f evdev.Frame) {
	if self.sendEvents == SendEventsDisabled {
		return
	}
	self.dispatch.ProcessFrame(self, f)
}

// suspendDispatch drains held state out of the engine: buttons
// released, touches cancelled, tools out of proximity.
func (self *Device) suspendDispatch() {
	self.dispatch.Suspend(self)
}
