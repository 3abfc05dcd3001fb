package evseat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semafor/evseat/evdev"
)

func touchscreenInfo(sysname string) *evdev.DeviceInfo {
	return &evdev.DeviceInfo{
		Sysname: sysname,
		Name:    "test touchscreen",
		Abs: map[uint16]evdev.AbsInfo{
			evdev.ABS_X:              {Minimum: 0, Maximum: 4095},
			evdev.ABS_Y:              {Minimum: 0, Maximum: 4095},
			evdev.ABS_MT_SLOT:        {Minimum: 0, Maximum: 9},
			evdev.ABS_MT_POSITION_X:  {Minimum: 0, Maximum: 4095},
			evdev.ABS_MT_POSITION_Y:  {Minimum: 0, Maximum: 4095},
			evdev.ABS_MT_TRACKING_ID: {Minimum: 0, Maximum: 65535},
		},
		Keys:  map[uint16]bool{evdev.BTN_TOUCH: true},
		Rels:  map[uint16]bool{},
		Props: map[uint32]bool{evdev.PropDirect: true},
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		info *evdev.DeviceInfo
		want deviceClass
	}{
		{"mouse", mouseInfo("event0"), classPointer},
		{"keyboard", keyboardInfo("event1"), classKeyboard},
		{"touchpad", touchpadInfo("event2"), classTouchpad},
		{"tablet", tabletInfo("event3"), classTablet},
		{"pad", padInfo("event4"), classButtonset},
		{"touchscreen", touchscreenInfo("event5"), classTouchscreen},
		{"empty", &evdev.DeviceInfo{Sysname: "event6"}, classUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, classify(c.info))
		})
	}
}

func TestDeviceAdded(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	dev, err := env.ctx.AddTestDevice(mouseInfo("event0"))
	require.NoError(t, err)
	events := env.drain()
	require.Len(t, events, 1)
	assert.Equal(t, EventDeviceAdded, events[0].Type)
	assert.Same(t, dev, events[0].Device)
	assert.True(t, dev.HasCapability(CapPointer))
	assert.Equal(t, "CapPointer", dev.CapabilityNames())
	assert.Len(t, env.ctx.Devices(), 1)
}

func TestDeviceDuplicateSysname(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.addDevice(mouseInfo("event0"))

	_, err := env.ctx.AddTestDevice(mouseInfo("event0"))
	require.Error(t, err)
	assert.Len(t, env.ctx.Devices(), 1)
}

func TestDeviceRemovedReleasesButtons(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	env.drain()

	env.ctx.removeDevice(dev)
	events := env.drain()
	require.Len(t, events, 2)
	assert.Equal(t, EventPointerButton, events[0].Type)
	assert.Equal(t, ButtonStateReleased, events[0].Button.State)
	assert.Equal(t, EventDeviceRemoved, events[1].Type)
	assert.Empty(t, env.ctx.Devices())
}

func TestDeviceGroupSharedByPhys(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	pen := tabletInfo("event10")
	pen.Phys = "usb-0000:00:14.0-1/input0"
	pad := padInfo("event11")
	pad.Phys = "usb-0000:00:14.0-1/input0"
	other := mouseInfo("event12")
	other.Phys = "usb-0000:00:14.0-2/input0"

	d1 := env.addDevice(pen)
	d2 := env.addDevice(pad)
	d3 := env.addDevice(other)
	assert.Same(t, d1.Group(), d2.Group())
	assert.NotSame(t, d1.Group(), d3.Group())
}

func TestSetSeatLogicalName(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))
	require.Equal(t, "default", dev.Seat().LogicalName)

	// Relocation is a destroy/create pair: removed arrives before the
	// matching added.
	nd, err := env.ctx.SetSeatLogicalName(dev, "gamer")
	require.NoError(t, err)
	events := env.drain()
	require.Len(t, events, 2)
	assert.Equal(t, EventDeviceRemoved, events[0].Type)
	assert.Same(t, dev, events[0].Device)
	assert.Equal(t, EventDeviceAdded, events[1].Type)
	assert.Same(t, nd, events[1].Device)

	assert.Equal(t, "gamer", nd.Seat().LogicalName)
	assert.Equal(t, dev.Seat().PhysicalName, nd.Seat().PhysicalName)
	assert.Equal(t, "event0", nd.Sysname())
	require.Len(t, env.ctx.Devices(), 1)

	// Frames addressed to the old record land on the new one.
	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	buttons := buttonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, ButtonStatePressed, buttons[0].State)
}

func TestQuirkDPI(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	tp := mouseInfo("event0")
	tp.Name = "TPPS/2 IBM TrackPoint"
	assert.Equal(t, 800.0, env.ctx.deviceDPI(tp))

	plain := mouseInfo("event1")
	assert.Equal(t, 1000.0, env.ctx.deviceDPI(plain))
}

func TestUnknownDeviceIsInert(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	info := &evdev.DeviceInfo{
		Sysname: "event0",
		Name:    "mystery switch",
		Keys:    map[uint16]bool{evdev.KEY_SPACE: true},
		Abs:     map[uint16]evdev.AbsInfo{},
		Rels:    map[uint16]bool{},
		Props:   map[uint32]bool{},
	}
	dev := env.addDevice(info)
	assert.Empty(t, dev.Capabilities())

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.KEY_SPACE, 1))
	assert.Empty(t, env.drain())
}
