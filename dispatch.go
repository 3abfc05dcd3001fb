package evseat

import (
	"github.com/semafor/evseat/evdev"
)

// Dispatcher is the class-specific engine behind a device. Exactly one
// dispatcher is active per device. ProcessFrame consumes a complete
// kernel frame and may emit events and set timers; Suspend forces all
// held state out (button releases, touch cancels) before the device
// goes away or stops sending.
type Dispatcher interface {
	ProcessFrame(d *Device, f evdev.Frame)
	Suspend(d *Device)
	Destroy()
}

// fallbackDispatch swallows frames from devices that advertise no
// capability we understand. They stay in the registry so callers can
// still see them come and go.
type fallbackDispatch struct{}

func newFallbackDispatch() Dispatcher { return &fallbackDispatch{} }

func (self *fallbackDispatch) ProcessFrame(d *Device, f evdev.Frame) {
	d.ctx.Log.Debugf("%s: frame ignored, no dispatcher", d.Sysname())
}

func (self *fallbackDispatch) Suspend(d *Device) {}
func (self *fallbackDispatch) Destroy()          {}
