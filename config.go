package evseat

import "github.com/juju/errors"

//go:generate stringer -type=ScrollMethod,ClickMethod,AccelProfile,ConfigStatus -output=config_string.go
type ScrollMethod uint32

const (
	ScrollNone ScrollMethod = iota
	ScrollEdge
	Scroll2fg
	ScrollOnButtonDown
)

type ClickMethod uint32

const (
	ClickMethodNone ClickMethod = iota
	ClickMethodButtonAreas
	ClickMethodClickfinger
)

type AccelProfile uint32

const (
	AccelProfileNone AccelProfile = iota
	AccelProfileAdaptive
	AccelProfileFlat
)

// ConfigStatus is the synchronous answer to every set call.
type ConfigStatus uint32

const (
	ConfigSuccess ConfigStatus = iota
	ConfigUnsupported
	ConfigInvalid
)

// CalibrationMatrix is the 3x2 affine transform applied to absolute
// coordinates before normalization. Identity by default.
type CalibrationMatrix [6]float64

var identityCalibration = CalibrationMatrix{1, 0, 0, 0, 1, 0}

func (self CalibrationMatrix) Apply(x, y float64) (float64, float64) {
	return self[0]*x + self[1]*y + self[2], self[3]*x + self[4]*y + self[5]
}

func (self CalibrationMatrix) IsIdentity() bool { return self == identityCalibration }

// Per-option capability interfaces. A dispatcher opts into an option
// by implementing the matching interface; Device methods below answer
// unsupported for everything else.

type tapConfig interface {
	TapEnabled() bool
	SetTapEnabled(on bool) ConfigStatus
	TapFingerCount() int
}

type naturalScrollConfig interface {
	NaturalScroll() bool
	SetNaturalScroll(on bool) ConfigStatus
}

type scrollMethodConfig interface {
	ScrollMethod() ScrollMethod
	SetScrollMethod(m ScrollMethod) ConfigStatus
	ScrollMethods() []ScrollMethod
}

type clickMethodConfig interface {
	ClickMethod() ClickMethod
	SetClickMethod(m ClickMethod) ConfigStatus
}

type accelConfig interface {
	AccelSpeed() float64
	SetAccelSpeed(speed float64) ConfigStatus
	AccelProfile() AccelProfile
	SetAccelProfile(p AccelProfile) ConfigStatus
}

type dwtConfig interface {
	DWTEnabled() bool
	SetDWTEnabled(on bool) ConfigStatus
}

type halfkeyConfig interface {
	HalfkeyEnabled() bool
	SetHalfkeyEnabled(on bool) ConfigStatus
}

type rotationConfig interface {
	Rotation() float64
	SetRotation(degrees float64) ConfigStatus
}

type calibrationConfig interface {
	Calibration() CalibrationMatrix
	SetCalibration(m CalibrationMatrix) ConfigStatus
}

type leftHandedConfig interface {
	applyLeftHanded(want bool)
}

// Device-level option surface. Availability is decided by the active
// dispatcher; every setter answers synchronously and mutates nothing
// on rejection.

func (self *Device) ConfigTapAvailable() bool {
	_, ok := self.dispatch.(tapConfig)
	return ok
}

func (self *Device) ConfigTapEnabled() bool {
	if c, ok := self.dispatch.(tapConfig); ok {
		return c.TapEnabled()
	}
	return false
}

func (self *Device) ConfigSetTapEnabled(on bool) ConfigStatus {
	if c, ok := self.dispatch.(tapConfig); ok {
		return c.SetTapEnabled(on)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigTapFingerCount() int {
	if c, ok := self.dispatch.(tapConfig); ok {
		return c.TapFingerCount()
	}
	return 0
}

func (self *Device) ConfigLeftHandedAvailable() bool { return self.leftHanded.Available }

func (self *Device) ConfigLeftHanded() bool { return self.leftHanded.Enabled }

func (self *Device) ConfigSetLeftHanded(on bool) ConfigStatus {
	if !self.leftHanded.Available {
		return ConfigUnsupported
	}
	self.leftHanded.Want = on
	if c, ok := self.dispatch.(leftHandedConfig); ok {
		c.applyLeftHanded(on)
	} else {
		self.leftHanded.Enabled = on
	}
	return ConfigSuccess
}

func (self *Device) ConfigNaturalScrollAvailable() bool {
	_, ok := self.dispatch.(naturalScrollConfig)
	return ok
}

func (self *Device) ConfigNaturalScroll() bool {
	if c, ok := self.dispatch.(naturalScrollConfig); ok {
		return c.NaturalScroll()
	}
	return false
}

func (self *Device) ConfigSetNaturalScroll(on bool) ConfigStatus {
	if c, ok := self.dispatch.(naturalScrollConfig); ok {
		return c.SetNaturalScroll(on)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigScrollMethods() []ScrollMethod {
	if c, ok := self.dispatch.(scrollMethodConfig); ok {
		return c.ScrollMethods()
	}
	return nil
}

func (self *Device) ConfigScrollMethod() ScrollMethod {
	if c, ok := self.dispatch.(scrollMethodConfig); ok {
		return c.ScrollMethod()
	}
	return ScrollNone
}

func (self *Device) ConfigSetScrollMethod(m ScrollMethod) ConfigStatus {
	if c, ok := self.dispatch.(scrollMethodConfig); ok {
		return c.SetScrollMethod(m)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigClickMethodAvailable() bool {
	_, ok := self.dispatch.(clickMethodConfig)
	return ok
}

func (self *Device) ConfigClickMethod() ClickMethod {
	if c, ok := self.dispatch.(clickMethodConfig); ok {
		return c.ClickMethod()
	}
	return ClickMethodNone
}

func (self *Device) ConfigSetClickMethod(m ClickMethod) ConfigStatus {
	if c, ok := self.dispatch.(clickMethodConfig); ok {
		return c.SetClickMethod(m)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigAccelAvailable() bool {
	_, ok := self.dispatch.(accelConfig)
	return ok
}

func (self *Device) ConfigAccelSpeed() float64 {
	if c, ok := self.dispatch.(accelConfig); ok {
		return c.AccelSpeed()
	}
	return 0
}

func (self *Device) ConfigSetAccelSpeed(speed float64) ConfigStatus {
	if c, ok := self.dispatch.(accelConfig); ok {
		return c.SetAccelSpeed(speed)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigAccelProfile() AccelProfile {
	if c, ok := self.dispatch.(accelConfig); ok {
		return c.AccelProfile()
	}
	return AccelProfileNone
}

func (self *Device) ConfigSetAccelProfile(p AccelProfile) ConfigStatus {
	if c, ok := self.dispatch.(accelConfig); ok {
		return c.SetAccelProfile(p)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigDWTAvailable() bool {
	_, ok := self.dispatch.(dwtConfig)
	return ok
}

func (self *Device) ConfigDWTEnabled() bool {
	if c, ok := self.dispatch.(dwtConfig); ok {
		return c.DWTEnabled()
	}
	return false
}

func (self *Device) ConfigSetDWTEnabled(on bool) ConfigStatus {
	if c, ok := self.dispatch.(dwtConfig); ok {
		return c.SetDWTEnabled(on)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigHalfkeyAvailable() bool {
	_, ok := self.dispatch.(halfkeyConfig)
	return ok
}

func (self *Device) ConfigHalfkeyEnabled() bool {
	if c, ok := self.dispatch.(halfkeyConfig); ok {
		return c.HalfkeyEnabled()
	}
	return false
}

func (self *Device) ConfigSetHalfkeyEnabled(on bool) ConfigStatus {
	if c, ok := self.dispatch.(halfkeyConfig); ok {
		return c.SetHalfkeyEnabled(on)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigRotationAvailable() bool {
	_, ok := self.dispatch.(rotationConfig)
	return ok
}

func (self *Device) ConfigSetRotation(degrees float64) ConfigStatus {
	if c, ok := self.dispatch.(rotationConfig); ok {
		return c.SetRotation(degrees)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigRotation() float64 {
	if c, ok := self.dispatch.(rotationConfig); ok {
		return c.Rotation()
	}
	return 0
}

func (self *Device) ConfigCalibrationAvailable() bool {
	_, ok := self.dispatch.(calibrationConfig)
	return ok
}

func (self *Device) ConfigSetCalibration(m CalibrationMatrix) ConfigStatus {
	if c, ok := self.dispatch.(calibrationConfig); ok {
		return c.SetCalibration(m)
	}
	return ConfigUnsupported
}

func (self *Device) ConfigCalibration() CalibrationMatrix {
	if c, ok := self.dispatch.(calibrationConfig); ok {
		return c.Calibration()
	}
	return identityCalibration
}

func (self *Device) ConfigSendEventsMode() SendEventsMode { return self.sendEvents }

// ConfigSetSendEvents disables or re-enables the device. Disabling
// drains held state first so no button or touch stays stuck.
func (self *Device) ConfigSetSendEvents(mode SendEventsMode) ConfigStatus {
	switch mode {
	case SendEventsEnabled, SendEventsDisabled:
	default:
		return ConfigInvalid
	}
	if mode == self.sendEvents {
		return ConfigSuccess
	}
	if mode == SendEventsDisabled {
		self.suspendDispatch()
	}
	self.sendEvents = mode
	return ConfigSuccess
}

func validateSpeed(speed float64) error {
	if speed < -1 || speed > 1 {
		return errors.NotValidf("speed=%v", speed)
	}
	return nil
}
