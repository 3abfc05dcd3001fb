package evseat

import (
	"io"
	"os"
	"sort"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/fsnotify/fsnotify"
	"github.com/juju/errors"
	"github.com/temoto/alive/v2"
	"github.com/temoto/atomic_clock"

	"github.com/semafor/evseat/evdev"
	"github.com/semafor/evseat/log2"
	"github.com/semafor/evseat/quirks"
)

// Opener hands out device file handles. The host may enforce its own
// privilege separation here; the context owns each handle it receives
// until it calls CloseRestricted.
type Opener interface {
	OpenRestricted(path string) (io.ReadCloser, error)
	CloseRestricted(r io.ReadCloser)
}

type defaultOpener struct{}

func (defaultOpener) OpenRestricted(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "open %s", path)
	}
	return f, nil
}

func (defaultOpener) CloseRestricted(r io.ReadCloser) { _ = r.Close() }

// Options configures a new Context. Zero values get sane defaults:
// stderr logging, the host monotonic clock, plain open(2).
type Options struct {
	Log    *log2.Log
	Clock  clock.Clock
	Opener Opener

	SeatPhysical string
	SeatLogical  string

	// QuirksPaths name optional HCL files merged over the built-in
	// model table. Missing files are skipped.
	QuirksPaths []string
}

type frameMessage struct {
	dev   *Device
	frame evdev.Frame
	err   error
}

// Context owns the registry, the seat table, the outgoing queue, the
// timer set and the global tablet tool table. All state mutation
// happens on the caller's thread inside Dispatch.
type Context struct {
	Log *log2.Log

	alive  *alive.Alive
	clk    clock.Clock
	opener Opener

	queue  eventQueue
	timers *timerSet

	seats   []*Seat
	devices map[string]*Device
	order   []string // sysnames in add order, drives resume

	groups map[string]*DeviceGroup

	// Tools with a serial number outlive any single tablet.
	tools []*TabletTool

	quirks *quirks.Table

	dwt *dwtRegistry

	frames  chan frameMessage
	wakeR   *os.File
	wakeW   *os.File
	hotplug chan hotplugMessage
	watcher *fsnotify.Watcher

	suspended      []string
	suspendedPaths map[string]string

	// Wall-clock accounting for diagnostics, separate from the
	// monotonic event clock.
	started      *atomic_clock.Clock
	lastDispatch atomic_clock.Clock
}

func New(opt Options) (*Context, error) {
	if opt.Log == nil {
		opt.Log = log2.NewStderr(log2.LInfo)
	}
	if opt.Clock == nil {
		opt.Clock = clock.New()
	}
	if opt.Opener == nil {
		opt.Opener = defaultOpener{}
	}
	if opt.SeatPhysical == "" {
		opt.SeatPhysical = "seat0"
	}
	if opt.SeatLogical == "" {
		opt.SeatLogical = "default"
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, errors.Annotate(err, "context wake pipe")
	}

	ctx := &Context{
		Log:     opt.Log,
		alive:   alive.NewAlive(),
		clk:     opt.Clock,
		opener:  opt.Opener,
		devices: make(map[string]*Device),
		groups:  make(map[string]*DeviceGroup),
		frames:  make(chan frameMessage, 64),
		wakeR:   r,
		wakeW:   w,
		started: atomic_clock.Now(),
	}
	ctx.timers = newTimerSet(ctx.Log, ctx.clk, ctx.wake)
	ctx.seats = []*Seat{newSeat(opt.SeatPhysical, opt.SeatLogical)}
	ctx.dwt = newDWTRegistry(ctx)
	ctx.quirks = quirks.New(ctx.Log)
	for _, p := range opt.QuirksPaths {
		if err = ctx.quirks.Load(p); err != nil {
			ctx.Log.Errorf("context: %s", errors.ErrorStack(err))
		}
	}
	return ctx, nil
}

func (self *Context) quirkFor(info *evdev.DeviceInfo) quirks.Quirk {
	return self.quirks.Lookup(info.Name, info.Bus, info.Vendor, info.Product)
}

func (self *Context) deviceDPI(info *evdev.DeviceInfo) float64 {
	return float64(self.quirkFor(info).DPI)
}

func (self *Context) dwtExcluded(info *evdev.DeviceInfo) bool {
	return self.quirkFor(info).DWTOff
}

func (self *Context) palmExcluded(info *evdev.DeviceInfo) bool {
	return self.quirkFor(info).PalmDetectOff
}

// Fd returns the handle the caller should poll for readability before
// invoking Dispatch. Device frames and timer expiries both make it
// readable.
func (self *Context) Fd() *os.File { return self.wakeR }

func (self *Context) wake() {
	_, _ = self.wakeW.Write([]byte{0})
}

func (self *Context) now() uint64 { return self.timers.Now() }

// Clock exposes the context clock so engines can compute elapsed time
// consistently in tests.
func (self *Context) Clock() clock.Clock { return self.clk }

// Uptime is wall time since New.
func (self *Context) Uptime() time.Duration { return atomic_clock.Since(self.started) }

// SinceDispatch is wall time since the last Dispatch call, zero before
// the first one.
func (self *Context) SinceDispatch() time.Duration {
	if self.lastDispatch.IsZero() {
		return 0
	}
	return atomic_clock.Since(&self.lastDispatch)
}

func (self *Context) seat(physical, logical string) *Seat {
	for _, s := range self.seats {
		if s.PhysicalName == physical && s.LogicalName == logical {
			s.ref()
			return s
		}
	}
	s := newSeat(physical, logical)
	self.seats = append(self.seats, s)
	return s
}

func (self *Context) group(identifier string) *DeviceGroup {
	if identifier == "" {
		g := &DeviceGroup{Identifier: identifier}
		g.ref()
		return g
	}
	if g, ok := self.groups[identifier]; ok {
		g.ref()
		return g
	}
	g := &DeviceGroup{Identifier: identifier}
	g.ref()
	self.groups[identifier] = g
	return g
}

// Dispatch drains the wake handle, consumes every pending device frame
// and fires expired timers. Call whenever Fd reports readable.
func (self *Context) Dispatch() {
	self.lastDispatch.SetNow()
	self.drainWake()
	self.drainHotplug()
	for {
		select {
		case msg := <-self.frames:
			self.handleFrame(msg)
		default:
			self.timers.Fire(self.now())
			return
		}
	}
}

// drainWake empties the self-pipe. An already-expired deadline turns
// the reads non-blocking so an empty pipe cannot stall the dispatch
// thread; the byte count itself carries no meaning.
func (self *Context) drainWake() {
	_ = self.wakeR.SetReadDeadline(time.Now())
	buf := make([]byte, 256)
	for {
		if _, err := self.wakeR.Read(buf); err != nil {
			break
		}
	}
	_ = self.wakeR.SetReadDeadline(time.Time{})
}

func (self *Context) handleFrame(msg frameMessage) {
	dev := msg.dev
	// A seat relocation replaces the record while the read loop keeps
	// sending under the old one.
	for dev.removed && dev.replacement != nil {
		dev = dev.replacement
	}
	if dev.removed {
		return
	}
	if msg.err != nil {
		// Device gone mid-stream: force-release everything the
		// engine still holds, then announce removal.
		self.Log.Infof("%s: read failed, removing: %v", dev.Sysname(), msg.err)
		self.removeDevice(dev)
		return
	}
	self.timers.Advance(msg.frame.Time)
	dev.processFrame(msg.frame)
}

// GetEvent pops the oldest queued event, nil when drained.
func (self *Context) GetEvent() *Event {
	return self.queue.Pop()
}

func (self *Context) post(e *Event) {
	self.queue.Push(e)
	self.wake()
}

func (self *Context) postDeviceAdded(dev *Device, millis uint64) {
	self.post(&Event{Type: EventDeviceAdded, Device: dev, Time: millis})
}

func (self *Context) postDeviceRemoved(dev *Device, millis uint64) {
	self.post(&Event{Type: EventDeviceRemoved, Device: dev, Time: millis})
}

func (self *Context) postKeyboardKey(dev *Device, millis uint64, code uint16, state KeyState) {
	count := dev.seat.updateKeyCount(code, state)
	self.post(&Event{
		Type: EventKeyboardKey, Device: dev, Time: millis,
		Keyboard: &KeyboardEvent{Code: code, State: state, SeatKeyCount: count},
	})
	self.dwt.noteKey(dev, millis, code, state)
}

func (self *Context) postMotion(dev *Device, millis uint64, dx, dy float64) {
	if dx == 0 && dy == 0 {
		return
	}
	self.post(&Event{
		Type: EventPointerMotion, Device: dev, Time: millis,
		Motion: &PointerMotionEvent{DX: dx, DY: dy},
	})
}

func (self *Context) postMotionAbsolute(dev *Device, millis uint64, e *PointerMotionAbsoluteEvent) {
	self.post(&Event{Type: EventPointerMotionAbsolute, Device: dev, Time: millis, MotionAbsolute: e})
}

func (self *Context) postButton(dev *Device, millis uint64, code uint16, state ButtonState) {
	count := dev.seat.updateButtonCount(code, state)
	self.post(&Event{
		Type: EventPointerButton, Device: dev, Time: millis,
		Button: &PointerButtonEvent{Code: code, State: state, SeatButtonCount: count},
	})
}

func (self *Context) postAxis(dev *Device, millis uint64, axis PointerAxis, value float64, source AxisSource) {
	self.post(&Event{
		Type: EventPointerAxis, Device: dev, Time: millis,
		Axis: &PointerAxisEvent{Axis: axis, Value: value, Source: source},
	})
}

func (self *Context) postTouch(dev *Device, millis uint64, typ EventType, slot, seatSlot int32, x, y float64) {
	self.post(&Event{
		Type: typ, Device: dev, Time: millis,
		Touch: &TouchEvent{Slot: slot, SeatSlot: seatSlot, X: x, Y: y},
	})
}

func (self *Context) postTouchFrame(dev *Device, millis uint64) {
	self.post(&Event{Type: EventTouchFrame, Device: dev, Time: millis, Touch: &TouchEvent{Slot: -1, SeatSlot: -1}})
}

// AddPath scans, opens and registers one device node. The returned
// device is live until removed; the add event is already queued.
func (self *Context) AddPath(path string) (*Device, error) {
	info, err := evdev.ScanNode(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	rc, err := self.opener.OpenRestricted(path)
	if err != nil {
		return nil, errors.Annotatef(err, "add path=%s", path)
	}
	dev, err := self.addDevice(info, rc)
	if err != nil {
		self.opener.CloseRestricted(rc)
		return nil, errors.Trace(err)
	}
	return dev, nil
}

// AddTestDevice registers a device from a hand-built description with
// no file handle behind it; frames are injected with InjectFrame.
func (self *Context) AddTestDevice(info *evdev.DeviceInfo) (*Device, error) {
	return self.addDevice(info, nil)
}

func (self *Context) addDevice(info *evdev.DeviceInfo, rc io.ReadCloser) (*Device, error) {
	return self.addDeviceOn(info, rc, self.seatForDevice(info))
}

func (self *Context) addDeviceOn(info *evdev.DeviceInfo, rc io.ReadCloser, seat *Seat) (*Device, error) {
	if _, dup := self.devices[info.Sysname]; dup {
		seat.unref()
		return nil, errors.Errorf("device %s already registered", info.Sysname)
	}
	class := classify(info)
	dev := &Device{
		ctx:      self,
		seat:     seat,
		group:    self.group(info.Phys),
		info:     info,
		class:    class,
		caps:     capabilitiesFor(class),
		refcount: 1,
		addedAt:  atomic_clock.Now(),
	}
	var err error
	dev.dispatch, err = self.newDispatch(dev)
	if err != nil {
		dev.seat.unref()
		dev.group.unref()
		return nil, errors.Trace(err)
	}
	self.devices[info.Sysname] = dev
	self.order = append(self.order, info.Sysname)
	self.dwt.deviceAdded(dev)
	self.Log.Infof("device added %s %q class=%s", dev.Sysname(), dev.Name(), class)
	self.postDeviceAdded(dev, self.now())

	if rc != nil {
		dev.source = evdev.NewFrameReader(rc)
		self.alive.Add(1)
		go self.readLoop(dev, rc)
	}
	return dev, nil
}

func (self *Context) newDispatch(dev *Device) (Dispatcher, error) {
	switch dev.class {
	case classKeyboard:
		return newKeyboardDispatch(dev), nil
	case classPointer:
		return newPointerDispatch(dev), nil
	case classAbsPointer:
		return newAbsPointerDispatch(dev), nil
	case classTouchpad:
		return newTouchpadDispatch(dev)
	case classTouchscreen:
		return newTouchDispatch(dev), nil
	case classTablet:
		return newTabletDispatch(dev), nil
	case classButtonset:
		return newButtonsetDispatch(dev), nil
	}
	return newFallbackDispatch(), nil
}

func (self *Context) seatForDevice(info *evdev.DeviceInfo) *Seat {
	s := self.seats[0]
	s.ref()
	return s
}

func (self *Context) readLoop(dev *Device, rc io.ReadCloser) {
	defer self.alive.Done()
	for self.alive.IsRunning() {
		f, err := dev.source.ReadFrame()
		select {
		case self.frames <- frameMessage{dev: dev, frame: f, err: err}:
			self.wake()
		case <-self.alive.StopChan():
			return
		}
		if err != nil {
			return
		}
	}
}

// InjectFrame feeds one frame straight through the dispatch path.
// Test entry point; production frames arrive via the read loop.
func (self *Context) InjectFrame(dev *Device, f evdev.Frame) {
	for dev.removed && dev.replacement != nil {
		dev = dev.replacement
	}
	if dev.removed {
		return
	}
	self.timers.Advance(f.Time)
	dev.processFrame(f)
}

// DispatchTimers fires expired timers at the current context time.
func (self *Context) DispatchTimers() {
	self.timers.Fire(self.now())
}

// RemovePath unregisters the device behind a previously added path.
func (self *Context) RemovePath(path string) error {
	for _, dev := range self.devices {
		if dev.info.Path == path {
			self.removeDevice(dev)
			return nil
		}
	}
	return errors.NotFoundf("device path=%s", path)
}

// SetSeatLogicalName relocates a device to another logical seat of the
// same physical seat. The registry destroys and recreates the record,
// so the caller sees device-removed before the matching device-added.
func (self *Context) SetSeatLogicalName(dev *Device, logical string) (*Device, error) {
	if dev.removed {
		return nil, errors.NotFoundf("device %s", dev.Sysname())
	}
	if dev.seat.LogicalName == logical {
		return dev, nil
	}
	info := dev.info
	seat := self.seat(dev.seat.PhysicalName, logical)
	source := dev.source
	self.removeDevice(dev)
	nd, err := self.addDeviceOn(info, nil, seat)
	if err != nil {
		return nil, errors.Trace(err)
	}
	nd.source = source
	dev.replacement = nd
	return nd, nil
}

func (self *Context) removeDevice(dev *Device) {
	if dev.removed {
		return
	}
	dev.removed = true
	dev.suspendDispatch()
	self.dwt.deviceRemoved(dev)
	delete(self.devices, dev.Sysname())
	for i, name := range self.order {
		if name == dev.Sysname() {
			self.order = append(self.order[:i], self.order[i+1:]...)
			break
		}
	}
	self.postDeviceRemoved(dev, self.now())
	dev.Unref()
}

// Suspend closes every device while keeping their sysnames so Resume
// can bring them back in enumeration order.
func (self *Context) Suspend() {
	self.suspended = append([]string(nil), self.order...)
	paths := make(map[string]string, len(self.devices))
	for name, dev := range self.devices {
		paths[name] = dev.info.Path
	}
	names := append([]string(nil), self.order...)
	for _, name := range names {
		if dev, ok := self.devices[name]; ok {
			self.removeDevice(dev)
		}
	}
	self.suspendedPaths = paths
}

// Resume re-opens every device removed by Suspend. A node that fails
// to open is dropped silently; its remove event was already delivered.
func (self *Context) Resume() {
	names := self.suspended
	self.suspended = nil
	sort.SliceStable(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		path := self.suspendedPaths[name]
		if path == "" {
			continue
		}
		if _, err := self.AddPath(path); err != nil {
			self.Log.Infof("resume skip %s: %v", name, err)
		}
	}
	self.suspendedPaths = nil
}

// Destroy stops reader goroutines, cancels timers and releases every
// device.
func (self *Context) Destroy() {
	self.alive.Stop()
	if self.watcher != nil {
		_ = self.watcher.Close()
	}
	for _, dev := range self.devices {
		self.removeDevice(dev)
	}
	self.timers.Destroy()
	self.alive.Wait()
	_ = self.wakeR.Close()
	_ = self.wakeW.Close()
	self.queue.Clear()
}

// Devices returns the live registry snapshot in add order.
func (self *Context) Devices() []*Device {
	out := make([]*Device, 0, len(self.devices))
	for _, name := range self.order {
		if dev, ok := self.devices[name]; ok {
			out = append(out, dev)
		}
	}
	return out
}
