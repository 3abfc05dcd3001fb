package filter

import (
	"math"

	"github.com/juju/errors"
)

const (
	defaultThreshold = 0.4 // units/ms
	defaultAccel     = 2.0 // unitless factor at saturation
	defaultIncline   = 1.1 // rise per units/ms past threshold
	defaultDPI       = 400
)

// smoothSimpleProfile is the variable-dpi mouse curve: flat at 0.3 for
// the slowest motion and at most 1 below the threshold so slow motion
// keeps single-unit precision, linear above it, clamped at the
// saturation factor.
type smoothSimpleProfile struct {
	dpi       float64
	speed     float64
	threshold float64
	accel     float64
	incline   float64
}

// NewPointerProfile returns the smooth_simple family parameterized by
// hardware dpi. The curve is tuned for 400dpi; other resolutions scale
// the velocity into the reference space first.
func NewPointerProfile(dpi float64) Profile {
	if dpi <= 0 {
		dpi = defaultDPI
	}
	p := &smoothSimpleProfile{dpi: dpi}
	_ = p.SetSpeed(0)
	return p
}

func (self *smoothSimpleProfile) Factor(velocity float64) float64 {
	v := velocity * defaultDPI / self.dpi

	s1 := math.Max(0.3, math.Min(1, v*5))
	s2 := 1 + (v-self.threshold)*self.incline

	var f float64
	if v < self.threshold {
		f = s1
	} else {
		f = math.Max(s1, s2)
	}
	return math.Min(self.accel, f)
}

func (self *smoothSimpleProfile) SetSpeed(speed float64) error {
	if speed < -1 || speed > 1 {
		return errors.NotValidf("speed=%v", speed)
	}
	self.speed = speed
	self.threshold = defaultThreshold - 0.25*speed
	if self.threshold < 0.2 {
		self.threshold = 0.2
	}
	self.accel = defaultAccel + speed*1.5
	if self.accel < 1.0 {
		self.accel = 1.0
	}
	self.incline = defaultIncline
	return nil
}

func (self *smoothSimpleProfile) Speed() float64 { return self.speed }

const (
	// Touchpad deltas run hotter than mouse deltas for the same hand
	// motion; the linear curve slows everything down a notch.
	tpMagicSlowdown  = 0.4
	tpDefaultThreshold = 0.25
	tpDefaultIncline   = 1.15
	tpDefaultAccel     = 2.5
)

// linearProfile is the touchpad curve: unity gain below the threshold,
// a straight rise after it, saturating at the configured factor. The
// whole output is scaled down by the touchpad slowdown constant.
type linearProfile struct {
	speed     float64
	threshold float64
	accel     float64
	incline   float64
}

func NewTouchpadProfile() Profile {
	p := &linearProfile{}
	_ = p.SetSpeed(0)
	return p
}

func (self *linearProfile) Factor(velocity float64) float64 {
	var f float64
	if velocity < self.threshold {
		f = 1.0
	} else {
		f = 1.0 + (velocity-self.threshold)*self.incline
	}
	return math.Min(self.accel, f) * tpMagicSlowdown
}

func (self *linearProfile) SetSpeed(speed float64) error {
	if speed < -1 || speed > 1 {
		return errors.NotValidf("speed=%v", speed)
	}
	self.speed = speed
	self.threshold = tpDefaultThreshold - 0.15*speed
	if self.threshold < 0.05 {
		self.threshold = 0.05
	}
	self.accel = tpDefaultAccel + speed*1.5
	if self.accel < 1.0 {
		self.accel = 1.0
	}
	self.incline = tpDefaultIncline
	return nil
}

func (self *linearProfile) Speed() float64 { return self.speed }

// NewPointerAccelerator is the mouse filter: smooth_simple over a
// velocity tracker.
func NewPointerAccelerator(dpi float64) Filter {
	return New(NewPointerProfile(dpi))
}

// NewTouchpadAccelerator is the touchpad filter: linear profile over
// the same tracker.
func NewTouchpadAccelerator() Filter {
	return New(NewTouchpadProfile())
}

// NewFlatProfile returns a profile that multiplies by a constant, used
// by devices that opt out of acceleration.
type flatProfile struct{ factor float64 }

func NewFlatProfile(factor float64) Profile { return &flatProfile{factor: factor} }

func (self *flatProfile) Factor(velocity float64) float64 { return self.factor }
func (self *flatProfile) SetSpeed(speed float64) error {
	if speed < -1 || speed > 1 {
		return errors.NotValidf("speed=%v", speed)
	}
	self.factor = 1 + speed
	return nil
}
func (self *flatProfile) Speed() float64 { return self.factor - 1 }
