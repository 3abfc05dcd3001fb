// Package filter transforms raw device-unit pointer deltas into
// accelerated deltas. Pure computation, no clocks, no devices: feed it
// (delta, time) pairs and it answers with the scaled delta.
package filter

import (
	"math"

	"github.com/juju/errors"
)

// Motion is an unaccelerated (input) or accelerated (output) delta pair
// in device units.
type Motion struct {
	DX float64
	DY float64
}

func (self Motion) IsZero() bool { return self.DX == 0 && self.DY == 0 }

func (self Motion) Magnitude() float64 {
	return math.Hypot(self.DX, self.DY)
}

// Filter is the per-device acceleration state.
type Filter interface {
	// Dispatch feeds one delta at the given millisecond timestamp and
	// returns the accelerated delta.
	Dispatch(m Motion, millis uint64) Motion
	// SetSpeed adjusts the profile with a normalized speed in [-1,1].
	SetSpeed(speed float64) error
	Speed() float64
	// Restart drops velocity history, e.g. after a hover-to-contact
	// transition where the positional jump is not real motion.
	Restart()
	Destroy()
}

const (
	numTrackers    = 16
	motionTimeout  = 1000 // ms
	velocityWindow = 2    // ms, minimum span for an instantaneous velocity
)

type tracker struct {
	delta  Motion
	millis uint64
	dir    uint8
}

// direction buckets the delta into one of 8 sectors plus 0 for no
// motion; velocity is only accumulated over samples moving the same way.
func direction(m Motion) uint8 {
	if m.DX == 0 && m.DY == 0 {
		return 0
	}
	angle := math.Atan2(m.DY, m.DX) + math.Pi
	sector := int(angle/(math.Pi/4)) % 8
	return 1 << uint(sector)
}

type velocityTracker struct {
	trackers [numTrackers]tracker
	cur      int
}

func (self *velocityTracker) feed(m Motion, millis uint64) {
	self.cur = (self.cur + 1) % numTrackers
	self.trackers[self.cur] = tracker{delta: m, millis: millis, dir: direction(m)}
}

func (self *velocityTracker) reset() {
	*self = velocityTracker{}
}

// velocity returns speed in device units per millisecond: the highest
// rate from the newest sample back to any older same-direction sample
// at least velocityWindow ms before it.
func (self *velocityTracker) velocity(now uint64) float64 {
	result := 0.0
	initialDir := self.trackers[self.cur].dir
	dist := 0.0

	for offset := 0; offset < numTrackers; offset++ {
		idx := (self.cur - offset + numTrackers) % numTrackers
		t := self.trackers[idx]
		if t.millis == 0 && t.delta.IsZero() {
			break
		}
		if now > t.millis && now-t.millis > motionTimeout {
			break
		}
		initialDir &= t.dir
		if initialDir == 0 {
			break
		}
		dist += t.delta.Magnitude()
		span := self.trackers[self.cur].millis - t.millis
		if span >= velocityWindow {
			v := dist / float64(span)
			if v > result {
				result = v
			}
		}
	}
	return result
}

// Profile maps a velocity (units/ms) to a unitless acceleration factor.
type Profile interface {
	Factor(velocity float64) float64
	SetSpeed(speed float64) error
	Speed() float64
}

type accelerator struct {
	profile      Profile
	velocities   velocityTracker
	lastVelocity float64
	lastMillis   uint64
}

// New builds a filter around the given profile.
func New(p Profile) Filter {
	return &accelerator{profile: p}
}

func (self *accelerator) Dispatch(m Motion, millis uint64) Motion {
	if self.lastMillis != 0 && millis > self.lastMillis &&
		millis-self.lastMillis > motionTimeout {
		self.velocities.reset()
		self.lastVelocity = 0
	}
	self.lastMillis = millis
	self.velocities.feed(m, millis)
	velocity := self.velocities.velocity(millis)

	// Simpson's rule over the previous and current velocity keeps
	// jitter from flipping the factor between profile increments.
	factor := self.profile.Factor(velocity) +
		self.profile.Factor(self.lastVelocity) +
		4.0*self.profile.Factor((self.lastVelocity+velocity)/2)
	factor /= 6.0
	self.lastVelocity = velocity

	return Motion{DX: m.DX * factor, DY: m.DY * factor}
}

func (self *accelerator) SetSpeed(speed float64) error {
	if speed < -1 || speed > 1 {
		return errors.NotValidf("accel speed=%v", speed)
	}
	return self.profile.SetSpeed(speed)
}

func (self *accelerator) Speed() float64 { return self.profile.Speed() }

func (self *accelerator) Restart() {
	self.velocities.reset()
	self.lastVelocity = 0
	self.lastMillis = 0
}

func (self *accelerator) Destroy() {}
