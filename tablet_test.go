package evseat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semafor/evseat/evdev"
)

func tabletProxEvents(events []*Event) []*TabletProximityEvent {
	var out []*TabletProximityEvent
	for _, e := range events {
		if e.Type == EventTabletProximity {
			out = append(out, e.TabletProximity)
		}
	}
	return out
}

func tabletAxisEvents(events []*Event) []*TabletAxisEvent {
	var out []*TabletAxisEvent
	for _, e := range events {
		if e.Type == EventTabletAxis {
			out = append(out, e.TabletAxis)
		}
	}
	return out
}

func tabletButtonEvents(events []*Event) []*TabletButtonEvent {
	var out []*TabletButtonEvent
	for _, e := range events {
		if e.Type == EventTabletButton {
			out = append(out, e.TabletButton)
		}
	}
	return out
}

func TestTabletProximity(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	env.frame(dev, 1000,
		ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1),
		ev(1000, evdev.EV_MSC, evdev.MSC_SERIAL, 0xabcd),
		ev(1000, evdev.EV_ABS, evdev.ABS_X, 10800),
		ev(1000, evdev.EV_ABS, evdev.ABS_Y, 6750),
		ev(1000, evdev.EV_ABS, evdev.ABS_DISTANCE, 30),
	)
	prox := tabletProxEvents(env.drain())
	require.Len(t, prox, 1)
	assert.Equal(t, ProximityIn, prox[0].State)
	require.NotNil(t, prox[0].Tool)
	assert.Equal(t, ToolPen, prox[0].Tool.Type)
	assert.Equal(t, uint32(0xabcd), prox[0].Tool.Serial)
	assert.True(t, prox[0].Changed.Has(TabletAxisX))
	assert.True(t, prox[0].Changed.Has(TabletAxisDistance))
	assert.Equal(t, 10800.0, prox[0].Axes.X)
	assert.Equal(t, 6750.0, prox[0].Axes.Y)
	assert.InDelta(t, 30.0/63.0, prox[0].Axes.Distance, 0.001)

	tool := prox[0].Tool
	assert.True(t, tool.HasAxis(TabletAxisPressure))
	assert.True(t, tool.HasButton(evdev.BTN_STYLUS))
	assert.False(t, tool.HasButton(evdev.BTN_LEFT))

	env.frame(dev, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 0))
	prox = tabletProxEvents(env.drain())
	require.Len(t, prox, 1)
	assert.Equal(t, ProximityOut, prox[0].State)
	assert.Same(t, tool, prox[0].Tool)
}

func TestTabletInitialProximity(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	info := tabletInfo("event10")
	info.KeyState = map[uint16]bool{evdev.BTN_TOOL_PEN: true}
	dev := env.addDevice(info)

	// The pen was hovering when the node was opened; its tool bit will
	// never repeat, so the first frame is the entry.
	env.frame(dev, 1000, ev(1000, evdev.EV_ABS, evdev.ABS_X, 500))
	prox := tabletProxEvents(env.drain())
	require.Len(t, prox, 1)
	assert.Equal(t, ProximityIn, prox[0].State)
	assert.Equal(t, ToolPen, prox[0].Tool.Type)
	assert.Equal(t, 500.0, prox[0].Axes.X)
}

func TestTabletAxisMotion(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	env.frame(dev, 1000,
		ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1),
		ev(1000, evdev.EV_ABS, evdev.ABS_X, 100),
		ev(1000, evdev.EV_ABS, evdev.ABS_Y, 200),
	)
	env.drain()

	env.frame(dev, 1010, ev(1010, evdev.EV_ABS, evdev.ABS_X, 150))
	axis := tabletAxisEvents(env.drain())
	require.Len(t, axis, 1)
	assert.True(t, axis[0].Changed.Has(TabletAxisX))
	assert.False(t, axis[0].Changed.Has(TabletAxisY))
	assert.Equal(t, 150.0, axis[0].Axes.X)
	assert.Equal(t, 200.0, axis[0].Axes.Y)
}

func TestTabletPressureSuppressesDistance(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	env.frame(dev, 1000,
		ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1),
		ev(1000, evdev.EV_ABS, evdev.ABS_DISTANCE, 20),
	)
	env.drain()

	// Touching down: the frame carries both pressure and a stale
	// distance reading.
	env.frame(dev, 1050,
		ev(1050, evdev.EV_KEY, evdev.BTN_TOUCH, 1),
		ev(1050, evdev.EV_ABS, evdev.ABS_PRESSURE, 1024),
		ev(1050, evdev.EV_ABS, evdev.ABS_DISTANCE, 5),
	)
	axis := tabletAxisEvents(env.drain())
	require.Len(t, axis, 1)
	assert.True(t, axis[0].Changed.Has(TabletAxisPressure))
	assert.False(t, axis[0].Changed.Has(TabletAxisDistance))
	assert.InDelta(t, 1024.0/2047.0, axis[0].Axes.Pressure, 0.001)
	assert.Equal(t, 0.0, axis[0].Axes.Distance)
}

func TestTabletContactlessPressureClamp(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1))
	env.frame(dev, 1010,
		ev(1010, evdev.EV_KEY, evdev.BTN_TOUCH, 1),
		ev(1010, evdev.EV_ABS, evdev.ABS_PRESSURE, 500),
	)
	env.drain()

	// Lifting off: residual pressure reports zero exactly once.
	env.frame(dev, 1020,
		ev(1020, evdev.EV_KEY, evdev.BTN_TOUCH, 0),
		ev(1020, evdev.EV_ABS, evdev.ABS_PRESSURE, 3),
	)
	axis := tabletAxisEvents(env.drain())
	require.Len(t, axis, 1)
	assert.True(t, axis[0].Changed.Has(TabletAxisPressure))
	assert.Equal(t, 0.0, axis[0].Axes.Pressure)

	// Further contactless chatter is swallowed entirely.
	env.frame(dev, 1030, ev(1030, evdev.EV_ABS, evdev.ABS_PRESSURE, 2))
	assert.Empty(t, tabletAxisEvents(env.drain()))
}

func TestTabletButtons(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1))
	env.drain()

	env.frame(dev, 1050, ev(1050, evdev.EV_KEY, evdev.BTN_STYLUS, 1))
	buttons := tabletButtonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, uint16(evdev.BTN_STYLUS), buttons[0].Code)
	assert.Equal(t, ButtonStatePressed, buttons[0].State)

	env.frame(dev, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_STYLUS, 0))
	buttons = tabletButtonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, ButtonStateReleased, buttons[0].State)
}

func TestTabletProximityOutReleasesButtons(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1))
	env.frame(dev, 1050, ev(1050, evdev.EV_KEY, evdev.BTN_STYLUS, 1))
	env.drain()

	// Yanking the pen away with the button held releases it before
	// the proximity-out event.
	env.frame(dev, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 0))
	events := env.drain()
	buttons := tabletButtonEvents(events)
	prox := tabletProxEvents(events)
	require.Len(t, buttons, 1)
	require.Len(t, prox, 1)
	assert.Equal(t, ButtonStateReleased, buttons[0].State)
	assert.Equal(t, ProximityOut, prox[0].State)
	require.Len(t, events, 2)
	assert.Equal(t, EventTabletButton, events[0].Type)
	assert.Equal(t, EventTabletProximity, events[1].Type)
}

func TestTabletMouseToolSyntheticRotation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	env.frame(dev, 1000,
		ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_MOUSE, 1),
		ev(1000, evdev.EV_ABS, evdev.ABS_TILT_X, -1),
		ev(1000, evdev.EV_ABS, evdev.ABS_TILT_Y, 63),
	)
	prox := tabletProxEvents(env.drain())
	require.Len(t, prox, 1)
	assert.Equal(t, ToolMouse, prox[0].Tool.Type)
	// Tilt is consumed into the heading, never reported raw.
	assert.Equal(t, 0.0, prox[0].Axes.TiltX)
	assert.Equal(t, 0.0, prox[0].Axes.TiltY)
	assert.InDelta(t, 355.45, prox[0].Axes.RotationZ, 0.01)
}

func TestTabletSerialToolSharedAcrossDevices(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev1 := env.addDevice(tabletInfo("event10"))
	dev2 := env.addDevice(tabletInfo("event11"))

	env.frame(dev1, 1000,
		ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1),
		ev(1000, evdev.EV_MSC, evdev.MSC_SERIAL, 0x77),
	)
	prox := tabletProxEvents(env.drain())
	require.Len(t, prox, 1)
	tool := prox[0].Tool

	env.frame(dev1, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 0))
	env.drain()

	// The same physical pen visiting another tablet resolves to the
	// same tool identity.
	env.frame(dev2, 1200,
		ev(1200, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1),
		ev(1200, evdev.EV_MSC, evdev.MSC_SERIAL, 0x77),
	)
	prox = tabletProxEvents(env.drain())
	require.Len(t, prox, 1)
	assert.Same(t, tool, prox[0].Tool)
}

func TestTabletToolIDSelectsModel(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	// Art Pen: the hardware id narrows the axis set to the exact
	// model, here adding barrel rotation over the plain pen default.
	env.frame(dev, 1000,
		ev(1000, evdev.EV_ABS, evdev.ABS_MISC, 0x80c),
		ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1),
		ev(1000, evdev.EV_MSC, evdev.MSC_SERIAL, 0xbeef),
	)
	prox := tabletProxEvents(env.drain())
	require.Len(t, prox, 1)
	tool := prox[0].Tool
	assert.Equal(t, uint32(0x80c), tool.ToolID)
	assert.True(t, tool.HasAxis(TabletAxisRotationZ))
	assert.False(t, tool.HasAxis(TabletAxisSlider))

	env.frame(dev, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 0))
	env.drain()

	// Without an id report the per-type fallback applies.
	env.frame(dev, 1200,
		ev(1200, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1),
		ev(1200, evdev.EV_MSC, evdev.MSC_SERIAL, 0xcafe),
	)
	prox = tabletProxEvents(env.drain())
	require.Len(t, prox, 1)
	assert.Equal(t, uint32(0), prox[0].Tool.ToolID)
	assert.False(t, prox[0].Tool.HasAxis(TabletAxisRotationZ))
	assert.True(t, prox[0].Tool.HasAxis(TabletAxisTiltX))
}

func TestTabletRelWheel(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1))
	env.drain()

	env.frame(dev, 1050, ev(1050, evdev.EV_REL, evdev.REL_WHEEL, 1))
	axis := tabletAxisEvents(env.drain())
	require.Len(t, axis, 1)
	assert.True(t, axis[0].Changed.Has(TabletAxisRelWheel))
	assert.Equal(t, -15.0, axis[0].Deltas.RelWheel)
	assert.Equal(t, -1.0, axis[0].DeltasDiscrete.RelWheel)

	// The wheel delta does not linger into the next frame.
	env.frame(dev, 1060, ev(1060, evdev.EV_ABS, evdev.ABS_X, 50))
	axis = tabletAxisEvents(env.drain())
	require.Len(t, axis, 1)
	assert.Equal(t, 0.0, axis[0].Deltas.RelWheel)
}

func TestTabletLeftHanded(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(tabletInfo("event10"))

	require.True(t, dev.ConfigLeftHandedAvailable())

	env.frame(dev, 1000,
		ev(1000, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1),
		ev(1000, evdev.EV_ABS, evdev.ABS_X, 100),
		ev(1000, evdev.EV_ABS, evdev.ABS_Y, 200),
	)
	env.drain()

	// Flipping while the pen hovers is deferred until it leaves.
	assert.Equal(t, ConfigSuccess, dev.ConfigSetLeftHanded(true))
	env.frame(dev, 1010, ev(1010, evdev.EV_ABS, evdev.ABS_X, 150))
	axis := tabletAxisEvents(env.drain())
	require.Len(t, axis, 1)
	assert.Equal(t, 150.0, axis[0].Axes.X)

	env.frame(dev, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 0))
	env.drain()
	assert.True(t, dev.ConfigLeftHanded())

	env.frame(dev, 1200,
		ev(1200, evdev.EV_KEY, evdev.BTN_TOOL_PEN, 1),
		ev(1200, evdev.EV_ABS, evdev.ABS_X, 100),
		ev(1200, evdev.EV_ABS, evdev.ABS_Y, 200),
	)
	prox := tabletProxEvents(env.drain())
	require.Len(t, prox, 1)
	assert.Equal(t, 21600.0-100.0, prox[0].Axes.X)
	assert.Equal(t, 13500.0-200.0, prox[0].Axes.Y)
}
