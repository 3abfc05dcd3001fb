package evseat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semafor/evseat/evdev"
)

func trackpointInfo(sysname string) *evdev.DeviceInfo {
	info := mouseInfo(sysname)
	info.Name = "test trackpoint"
	info.Props[evdev.PropPointingStick] = true
	return info
}

func TestPointerMotion(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))

	env.frame(dev, 1000,
		ev(1000, evdev.EV_REL, evdev.REL_X, 10),
		ev(1000, evdev.EV_REL, evdev.REL_Y, -5))
	motions := motionEvents(env.drain())
	require.Len(t, motions, 1)
	assert.Greater(t, motions[0].DX, 0.0)
	assert.Less(t, motions[0].DY, 0.0)
}

func TestPointerButtons(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	env.frame(dev, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_LEFT, 0))
	buttons := buttonEvents(env.drain())
	require.Len(t, buttons, 2)
	assert.Equal(t, evdev.BTN_LEFT, buttons[0].Code)
	assert.Equal(t, ButtonStatePressed, buttons[0].State)
	assert.Equal(t, uint32(1), buttons[0].SeatButtonCount)
	assert.Equal(t, ButtonStateReleased, buttons[1].State)
	assert.Equal(t, uint32(0), buttons[1].SeatButtonCount)
}

func TestPointerButtonDedup(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))

	// A duplicate press and a release of an unpressed button vanish.
	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	env.frame(dev, 1010, ev(1010, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	env.frame(dev, 1020, ev(1020, evdev.EV_KEY, evdev.BTN_RIGHT, 0))
	buttons := buttonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, ButtonStatePressed, buttons[0].State)
}

func TestPointerWheel(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))

	env.frame(dev, 1000, ev(1000, evdev.EV_REL, evdev.REL_WHEEL, 1))
	axes := axisEvents(env.drain())
	require.Len(t, axes, 1)
	assert.Equal(t, PointerAxisScrollVertical, axes[0].Axis)
	assert.Equal(t, AxisSourceWheel, axes[0].Source)
	assert.Equal(t, -wheelClickAngle, axes[0].Value)

	env.frame(dev, 1100, ev(1100, evdev.EV_REL, evdev.REL_HWHEEL, 2))
	axes = axisEvents(env.drain())
	require.Len(t, axes, 1)
	assert.Equal(t, PointerAxisScrollHorizontal, axes[0].Axis)
	assert.Equal(t, 2*wheelClickAngle, axes[0].Value)
}

func TestPointerNaturalScroll(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))
	require.Equal(t, ConfigSuccess, dev.ConfigSetNaturalScroll(true))

	env.frame(dev, 1000, ev(1000, evdev.EV_REL, evdev.REL_WHEEL, 1))
	axes := axisEvents(env.drain())
	require.Len(t, axes, 1)
	assert.Equal(t, wheelClickAngle, axes[0].Value)
}

func TestPointerLeftHanded(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))
	require.True(t, dev.ConfigLeftHandedAvailable())
	require.Equal(t, ConfigSuccess, dev.ConfigSetLeftHanded(true))

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	env.frame(dev, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_LEFT, 0))
	buttons := buttonEvents(env.drain())
	require.Len(t, buttons, 2)
	assert.Equal(t, evdev.BTN_RIGHT, buttons[0].Code)
	assert.Equal(t, evdev.BTN_RIGHT, buttons[1].Code)
}

func TestPointerLeftHandedDeferredWhilePressed(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	env.drain()

	// Flip mid-press: the release must still match the pressed code.
	require.Equal(t, ConfigSuccess, dev.ConfigSetLeftHanded(true))
	assert.False(t, dev.ConfigLeftHanded())

	env.frame(dev, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_LEFT, 0))
	buttons := buttonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, evdev.BTN_LEFT, buttons[0].Code)
	assert.True(t, dev.ConfigLeftHanded(), "applied at the neutral point")

	env.frame(dev, 1200, ev(1200, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	buttons = buttonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, evdev.BTN_RIGHT, buttons[0].Code)
}

func TestPointerMiddleEmulation(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))
	pd := dev.dispatch.(*pointerDispatch)
	require.Equal(t, ConfigSuccess, pd.SetMiddleEmulation(true))

	// Left and right close together pair into a middle click.
	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	assert.Empty(t, env.drain())
	env.frame(dev, 1020, ev(1020, evdev.EV_KEY, evdev.BTN_RIGHT, 1))
	buttons := buttonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, evdev.BTN_MIDDLE, buttons[0].Code)
	assert.Equal(t, ButtonStatePressed, buttons[0].State)

	env.frame(dev, 1100, ev(1100, evdev.EV_KEY, evdev.BTN_RIGHT, 0))
	buttons = buttonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, evdev.BTN_MIDDLE, buttons[0].Code)
	assert.Equal(t, ButtonStateReleased, buttons[0].State)

	env.frame(dev, 1120, ev(1120, evdev.EV_KEY, evdev.BTN_LEFT, 0))
	assert.Empty(t, env.drain())
}

func TestPointerMiddleEmulationTimeout(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))
	pd := dev.dispatch.(*pointerDispatch)
	require.Equal(t, ConfigSuccess, pd.SetMiddleEmulation(true))

	// A lone press is replayed once the pairing window closes.
	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	assert.Empty(t, env.drain())
	env.elapse(TimeoutMiddleButton + 10)
	buttons := buttonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, evdev.BTN_LEFT, buttons[0].Code)
	assert.Equal(t, ButtonStatePressed, buttons[0].State)

	env.frame(dev, 1200, ev(1200, evdev.EV_KEY, evdev.BTN_LEFT, 0))
	buttons = buttonEvents(env.drain())
	require.Len(t, buttons, 1)
	assert.Equal(t, ButtonStateReleased, buttons[0].State)
}

func TestPointerMiddleEmulationQuickRelease(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))
	pd := dev.dispatch.(*pointerDispatch)
	require.Equal(t, ConfigSuccess, pd.SetMiddleEmulation(true))

	// Down-up of one button inside the window is an ordinary click.
	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_LEFT, 1))
	env.frame(dev, 1030, ev(1030, evdev.EV_KEY, evdev.BTN_LEFT, 0))
	buttons := buttonEvents(env.drain())
	require.Len(t, buttons, 2)
	assert.Equal(t, evdev.BTN_LEFT, buttons[0].Code)
	assert.Equal(t, ButtonStatePressed, buttons[0].State)
	assert.Equal(t, ButtonStateReleased, buttons[1].State)
}

func TestTrackpointButtonScroll(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(trackpointInfo("event1"))
	require.Equal(t, ScrollOnButtonDown, dev.ConfigScrollMethod())

	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_MIDDLE, 1))
	assert.Empty(t, env.drain())

	// Deflection while the button is held scrolls instead of moving.
	env.frame(dev, 1100,
		ev(1100, evdev.EV_REL, evdev.REL_X, 2),
		ev(1100, evdev.EV_REL, evdev.REL_Y, 3))
	events := env.drain()
	assert.Empty(t, motionEvents(events))
	axes := axisEvents(events)
	require.Len(t, axes, 2)
	assert.Equal(t, PointerAxisScrollVertical, axes[0].Axis)
	assert.Equal(t, 3.0, axes[0].Value)
	assert.Equal(t, AxisSourceContinuous, axes[0].Source)
	assert.Equal(t, PointerAxisScrollHorizontal, axes[1].Axis)
	assert.Equal(t, 2.0, axes[1].Value)

	env.frame(dev, 1300, ev(1300, evdev.EV_KEY, evdev.BTN_MIDDLE, 0))
	events = env.drain()
	assert.Empty(t, buttonEvents(events))
	axes = axisEvents(events)
	require.Len(t, axes, 2)
	assert.Equal(t, 0.0, axes[0].Value)
	assert.Equal(t, 0.0, axes[1].Value)
}

func TestTrackpointButtonScrollQuickClick(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(trackpointInfo("event1"))

	// Press and release with no deflection still clicks.
	env.frame(dev, 1000, ev(1000, evdev.EV_KEY, evdev.BTN_MIDDLE, 1))
	env.frame(dev, 1050, ev(1050, evdev.EV_KEY, evdev.BTN_MIDDLE, 0))
	buttons := buttonEvents(env.drain())
	require.Len(t, buttons, 2)
	assert.Equal(t, evdev.BTN_MIDDLE, buttons[0].Code)
	assert.Equal(t, ButtonStatePressed, buttons[0].State)
	assert.Equal(t, ButtonStateReleased, buttons[1].State)
}

func TestPointerConfigSurface(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	dev := env.addDevice(mouseInfo("event0"))

	assert.False(t, dev.ConfigTapAvailable())
	assert.Equal(t, ConfigUnsupported, dev.ConfigSetTapEnabled(true))
	assert.Equal(t, ConfigUnsupported, dev.ConfigSetScrollMethod(Scroll2fg))
	assert.Equal(t, ConfigInvalid, dev.ConfigSetAccelSpeed(1.5))
	assert.Equal(t, ConfigSuccess, dev.ConfigSetAccelSpeed(0.5))
	assert.InDelta(t, 0.5, dev.ConfigAccelSpeed(), 0.001)
	assert.Equal(t, ConfigSuccess, dev.ConfigSetAccelProfile(AccelProfileFlat))
	assert.Equal(t, AccelProfileFlat, dev.ConfigAccelProfile())
}
