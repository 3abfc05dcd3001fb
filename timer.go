package evseat

import (
	"sort"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/semafor/evseat/log2"
)

// Named timeout defaults, milliseconds.
const (
	TimeoutTap          uint64 = 180 // tap finalization
	TimeoutTapDrag      uint64 = 300 // drag release grace
	TimeoutSoftButton   uint64 = 200 // soft-button area lock-in
	TimeoutEdgeScroll   uint64 = 300 // edge-scroll activation
	TimeoutButtonScroll uint64 = 200 // trackpoint button-hold scroll
	TimeoutMiddleButton uint64 = 50  // middle-button emulation
	TimeoutDWTShort     uint64 = 100 // post-release grace after key
	TimeoutDWTLong      uint64 = 500 // after sustained typing
	TimeoutFingerSwitch uint64 = 120 // 2fg-scroll / motion hand-off
)

// Timer is one deadline owned by a dispatcher. Set and Cancel are
// idempotent; the callback runs from within the context's dispatch
// with the current monotonic millisecond time.
type Timer struct {
	name   string
	fn     func(now uint64)
	expiry uint64 // ms, 0 = not set
	set    *timerSet
}

// Set arms the timer at an absolute millisecond deadline. Arming an
// already-set timer moves the deadline.
func (self *Timer) Set(expiry uint64) {
	if expiry == 0 {
		expiry = 1
	}
	self.expiry = expiry
	self.set.rearm()
}

func (self *Timer) Cancel() {
	if self.expiry == 0 {
		return
	}
	self.expiry = 0
	self.set.rearm()
}

func (self *Timer) IsSet() bool { return self.expiry != 0 }

func (self *Timer) Destroy() {
	self.Cancel()
	delete(self.set.timers, self)
}

// timerSet polls dispatcher timers against a monotonic millisecond
// clock anchored to the newest observed frame timestamp. A host clock
// alarm wakes the caller when a deadline would pass before the next
// natural fd readability.
type timerSet struct {
	log  *log2.Log
	clk  clock.Clock
	wake func()

	timers map[*Timer]struct{}

	anchorMillis uint64
	anchorAt     time.Time

	alarm *clock.Timer
}

func newTimerSet(log *log2.Log, clk clock.Clock, wake func()) *timerSet {
	return &timerSet{
		log:    log,
		clk:    clk,
		wake:   wake,
		timers: make(map[*Timer]struct{}),
	}
}

func (self *timerSet) NewTimer(name string, fn func(now uint64)) *Timer {
	t := &Timer{name: name, fn: fn, set: self}
	self.timers[t] = struct{}{}
	return t
}

// Advance moves the anchor forward to a frame timestamp. Time never
// runs backwards even if a device delivers a stale frame.
func (self *timerSet) Advance(millis uint64) {
	if millis <= self.anchorMillis {
		return
	}
	self.anchorMillis = millis
	self.anchorAt = self.clk.Now()
}

// Now returns the current monotonic millisecond time: the newest frame
// timestamp plus host-clock time elapsed since it was observed.
func (self *timerSet) Now() uint64 {
	if self.anchorAt.IsZero() {
		return self.anchorMillis
	}
	return self.anchorMillis + uint64(self.clk.Since(self.anchorAt)/time.Millisecond)
}

// Fire runs every expired timer callback in deadline order. Expiry is
// cleared before the callback so it may re-arm itself.
func (self *timerSet) Fire(now uint64) {
	var expired []*Timer
	for t := range self.timers {
		if t.expiry != 0 && t.expiry <= now {
			expired = append(expired, t)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].expiry < expired[j].expiry })
	for _, t := range expired {
		self.log.Debugf("timer %s fire expiry=%d now=%d", t.name, t.expiry, now)
		t.expiry = 0
		t.fn(now)
	}
	self.rearm()
}

// rearm points the host clock alarm at the earliest pending deadline.
func (self *timerSet) rearm() {
	if self.alarm != nil {
		self.alarm.Stop()
		self.alarm = nil
	}
	earliest := uint64(0)
	for t := range self.timers {
		if t.expiry != 0 && (earliest == 0 || t.expiry < earliest) {
			earliest = t.expiry
		}
	}
	if earliest == 0 || self.wake == nil {
		return
	}
	now := self.Now()
	delay := time.Millisecond
	if earliest > now {
		delay = time.Duration(earliest-now) * time.Millisecond
	}
	self.alarm = self.clk.AfterFunc(delay, self.wake)
}

func (self *timerSet) Destroy() {
	if self.alarm != nil {
		self.alarm.Stop()
		self.alarm = nil
	}
	self.timers = make(map[*Timer]struct{})
}
