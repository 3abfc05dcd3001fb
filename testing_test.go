package evseat

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	inputevent "github.com/temoto/inputevent-go"

	"github.com/semafor/evseat/evdev"
	"github.com/semafor/evseat/log2"
)

type testEnv struct {
	t   testing.TB
	ctx *Context
	clk *clock.Mock
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	clk := clock.NewMock()
	ctx, err := New(Options{
		Log:   log2.NewTest(t, log2.LDebug),
		Clock: clk,
	})
	require.NoError(t, err)
	t.Cleanup(ctx.Destroy)
	return &testEnv{t: t, ctx: ctx, clk: clk}
}

func (self *testEnv) addDevice(info *evdev.DeviceInfo) *Device {
	self.t.Helper()
	dev, err := self.ctx.AddTestDevice(info)
	require.NoError(self.t, err)
	self.drain() // swallow the device-added event
	return dev
}

// frame injects one SYN_REPORT batch at the given millisecond time.
func (self *testEnv) frame(dev *Device, millis uint64, events ...inputevent.InputEvent) {
	self.ctx.InjectFrame(dev, evdev.NewFrame(millis, events...))
}

// elapse moves the mock clock forward and fires due timers, as if the
// caller woke up on the alarm.
func (self *testEnv) elapse(ms uint64) {
	self.clk.Add(time.Duration(ms) * time.Millisecond)
	self.ctx.DispatchTimers()
}

func (self *testEnv) drain() []*Event {
	var out []*Event
	for e := self.ctx.GetEvent(); e != nil; e = self.ctx.GetEvent() {
		out = append(out, e)
	}
	return out
}

func ev(millis uint64, typ, code uint16, value int32) inputevent.InputEvent {
	return evdev.NewEvent(millis, typ, code, value)
}

func buttonEvents(events []*Event) []*PointerButtonEvent {
	var out []*PointerButtonEvent
	for _, e := range events {
		if e.Type == EventPointerButton {
			out = append(out, e.Button)
		}
	}
	return out
}

func keyEvents(events []*Event) []*KeyboardEvent {
	var out []*KeyboardEvent
	for _, e := range events {
		if e.Type == EventKeyboardKey {
			out = append(out, e.Keyboard)
		}
	}
	return out
}

func axisEvents(events []*Event) []*PointerAxisEvent {
	var out []*PointerAxisEvent
	for _, e := range events {
		if e.Type == EventPointerAxis {
			out = append(out, e.Axis)
		}
	}
	return out
}

func motionEvents(events []*Event) []*PointerMotionEvent {
	var out []*PointerMotionEvent
	for _, e := range events {
		if e.Type == EventPointerMotion {
			out = append(out, e.Motion)
		}
	}
	return out
}

// Device info fixtures, hand-built the way the kernel would report
// the common hardware shapes.

func mouseInfo(sysname string) *evdev.DeviceInfo {
	return &evdev.DeviceInfo{
		Sysname: sysname,
		Name:    "test mouse",
		Rels:    map[uint16]bool{evdev.REL_X: true, evdev.REL_Y: true, evdev.REL_WHEEL: true, evdev.REL_HWHEEL: true},
		Keys:    map[uint16]bool{evdev.BTN_LEFT: true, evdev.BTN_RIGHT: true, evdev.BTN_MIDDLE: true},
		Abs:     map[uint16]evdev.AbsInfo{},
		Props:   map[uint32]bool{},
	}
}

func keyboardInfo(sysname string) *evdev.DeviceInfo {
	keys := map[uint16]bool{evdev.KEY_SPACE: true, evdev.KEY_ENTER: true,
		evdev.KEY_BACKSPACE: true, evdev.KEY_TAB: true, evdev.KEY_CAPSLOCK: true,
		evdev.KEY_LEFTCTRL: true, evdev.KEY_LEFTSHIFT: true}
	for code := evdev.KEY_1; code <= evdev.KEY_SLASH; code++ {
		keys[code] = true
	}
	return &evdev.DeviceInfo{
		Sysname: sysname,
		Name:    "test keyboard",
		Keys:    keys,
		Abs:     map[uint16]evdev.AbsInfo{},
		Rels:    map[uint16]bool{},
		Props:   map[uint32]bool{},
	}
}

// touchpadInfo is a 100x60mm clickpad, 12 units/mm, with pressure.
func touchpadInfo(sysname string) *evdev.DeviceInfo {
	return &evdev.DeviceInfo{
		Sysname: sysname,
		Name:    "test touchpad",
		Abs: map[uint16]evdev.AbsInfo{
			evdev.ABS_X:              {Minimum: 0, Maximum: 1200, Resolution: 12},
			evdev.ABS_Y:              {Minimum: 0, Maximum: 720, Resolution: 12},
			evdev.ABS_MT_SLOT:        {Minimum: 0, Maximum: 4},
			evdev.ABS_MT_POSITION_X:  {Minimum: 0, Maximum: 1200, Resolution: 12},
			evdev.ABS_MT_POSITION_Y:  {Minimum: 0, Maximum: 720, Resolution: 12},
			evdev.ABS_MT_TRACKING_ID: {Minimum: 0, Maximum: 65535},
			evdev.ABS_MT_PRESSURE:    {Minimum: 0, Maximum: 255},
		},
		Keys: map[uint16]bool{
			evdev.BTN_LEFT: true, evdev.BTN_TOUCH: true,
			evdev.BTN_TOOL_FINGER: true, evdev.BTN_TOOL_DOUBLETAP: true,
			evdev.BTN_TOOL_TRIPLETAP: true,
		},
		Rels:  map[uint16]bool{},
		Props: map[uint32]bool{evdev.PropPointer: true, evdev.PropButtonpad: true},
	}
}

func tabletInfo(sysname string) *evdev.DeviceInfo {
	return &evdev.DeviceInfo{
		Sysname: sysname,
		Name:    "test tablet",
		Abs: map[uint16]evdev.AbsInfo{
			evdev.ABS_X:        {Minimum: 0, Maximum: 21600, Resolution: 100},
			evdev.ABS_Y:        {Minimum: 0, Maximum: 13500, Resolution: 100},
			evdev.ABS_PRESSURE: {Minimum: 0, Maximum: 2047},
			evdev.ABS_DISTANCE: {Minimum: 0, Maximum: 63},
			evdev.ABS_TILT_X:   {Minimum: -64, Maximum: 63},
			evdev.ABS_TILT_Y:   {Minimum: -64, Maximum: 63},
			evdev.ABS_MISC:     {Minimum: 0, Maximum: 0},
		},
		Keys: map[uint16]bool{
			evdev.BTN_TOOL_PEN: true, evdev.BTN_TOOL_RUBBER: true,
			evdev.BTN_TOOL_MOUSE: true,
			evdev.BTN_TOUCH:      true, evdev.BTN_STYLUS: true, evdev.BTN_STYLUS2: true,
		},
		Rels:  map[uint16]bool{evdev.REL_WHEEL: true},
		Props: map[uint32]bool{},
	}
}

func padInfo(sysname string) *evdev.DeviceInfo {
	return &evdev.DeviceInfo{
		Sysname: sysname,
		Name:    "test pad",
		Abs: map[uint16]evdev.AbsInfo{
			evdev.ABS_WHEEL: {Minimum: 0, Maximum: 71, Resolution: 72},
			evdev.ABS_RX:    {Minimum: 0, Maximum: 4096},
			evdev.ABS_MISC:  {Minimum: 0, Maximum: 255},
		},
		Keys: map[uint16]bool{
			evdev.BTN_0: true, evdev.BTN_1: true, evdev.BTN_2: true, evdev.BTN_3: true,
		},
		Rels:  map[uint16]bool{},
		Props: map[uint32]bool{},
	}
}
