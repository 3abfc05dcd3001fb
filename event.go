package evseat

//go:generate stringer -type=EventType,KeyState,ButtonState,AxisSource,PointerAxis,ProximityState,ButtonsetAxisType -output=event_string.go
type EventType uint32

const (
	EventNone EventType = iota
	EventDeviceAdded
	EventDeviceRemoved

	EventKeyboardKey

	EventPointerMotion
	EventPointerMotionAbsolute
	EventPointerButton
	EventPointerAxis

	EventTouchDown
	EventTouchMotion
	EventTouchUp
	EventTouchCancel
	EventTouchFrame

	EventTabletAxis
	EventTabletProximity
	EventTabletButton

	EventButtonsetButton
	EventButtonsetAxis
)


type KeyState int32

const (
	KeyStateReleased KeyState = 0
	KeyStatePressed  KeyState = 1
)


type ButtonState int32

const (
	ButtonStateReleased ButtonState = 0
	ButtonStatePressed  ButtonState = 1
)


type AxisSource uint32

const (
	AxisSourceWheel AxisSource = iota
	AxisSourceFinger
	AxisSourceContinuous
)


type PointerAxis uint32

const (
	PointerAxisScrollVertical PointerAxis = iota
	PointerAxisScrollHorizontal
)


type ProximityState uint32

const (
	ProximityOut ProximityState = iota
	ProximityIn
)

// KeyboardEvent carries one key transition together with the
// seat-wide pressed counter for that key code, sampled after the
// transition was applied.
type KeyboardEvent struct {
	Code         uint16
	State        KeyState
	SeatKeyCount uint32
}

type PointerMotionEvent struct {
	DX float64
	DY float64
}

// PointerMotionAbsoluteEvent carries device coordinates; Transformed
// maps them into a caller-chosen output rectangle.
type PointerMotionAbsoluteEvent struct {
	X, Y               float64
	XMin, XRange       float64
	YMin, YRange       float64
}

func (self *PointerMotionAbsoluteEvent) Transformed(width, height uint32) (float64, float64) {
	return (self.X - self.XMin) / self.XRange * float64(width),
		(self.Y - self.YMin) / self.YRange * float64(height)
}

type PointerButtonEvent struct {
	Code            uint16
	State           ButtonState
	SeatButtonCount uint32
}

type PointerAxisEvent struct {
	Axis   PointerAxis
	Value  float64
	Source AxisSource
}

type TouchEvent struct {
	Slot     int32
	SeatSlot int32
	X, Y     float64
}

type TabletProximityEvent struct {
	Tool  *TabletTool
	State ProximityState
	// Changed and Axes snapshot the axis state at the transition.
	Changed TabletAxisMask
	Axes    TabletAxes
}

type TabletAxisEvent struct {
	Tool           *TabletTool
	Changed        TabletAxisMask
	Axes           TabletAxes
	Deltas         TabletAxes
	DeltasDiscrete TabletAxes
}

type TabletButtonEvent struct {
	Tool  *TabletTool
	Code  uint16
	State ButtonState
	Axes  TabletAxes
}


type ButtonsetAxisType uint32

const (
	ButtonsetAxisNone ButtonsetAxisType = iota
	ButtonsetAxisRing
	ButtonsetAxisStrip
)

type ButtonsetButtonEvent struct {
	Code  uint16
	State ButtonState
	Axes  []float64
}

type ButtonsetAxisEvent struct {
	Changed        uint32 // bit per axis index
	Types          []ButtonsetAxisType
	Axes           []float64
	Deltas         []float64
	DeltasDiscrete []float64
}

// Event is one element of the outgoing semantic stream. Exactly the
// payload matching Type is non-nil.
type Event struct {
	Type   EventType
	Device *Device
	Time   uint64 // ms, kernel monotonic clock of the originating frame

	Keyboard        *KeyboardEvent
	Motion          *PointerMotionEvent
	MotionAbsolute  *PointerMotionAbsoluteEvent
	Button          *PointerButtonEvent
	Axis            *PointerAxisEvent
	Touch           *TouchEvent
	TabletProximity *TabletProximityEvent
	TabletAxis      *TabletAxisEvent
	TabletButton    *TabletButtonEvent
	ButtonsetButton *ButtonsetButtonEvent
	ButtonsetAxis   *ButtonsetAxisEvent
}
