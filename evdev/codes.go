// Package evdev holds the kernel input event vocabulary and the frame
// assembler that turns a raw record stream into SYN_REPORT-delimited frames.
package evdev

// Event types.
const (
	EV_SYN uint16 = 0x00
	EV_KEY uint16 = 0x01
	EV_REL uint16 = 0x02
	EV_ABS uint16 = 0x03
	EV_MSC uint16 = 0x04
	EV_SW  uint16 = 0x05
)

// EV_SYN codes.
const (
	SYN_REPORT   uint16 = 0
	SYN_CONFIG   uint16 = 1
	SYN_MT_REPORT uint16 = 2
	SYN_DROPPED  uint16 = 3
)

// EV_REL codes.
const (
	REL_X      uint16 = 0x00
	REL_Y      uint16 = 0x01
	REL_HWHEEL uint16 = 0x06
	REL_DIAL   uint16 = 0x07
	REL_WHEEL  uint16 = 0x08
)

// EV_ABS codes.
const (
	ABS_X        uint16 = 0x00
	ABS_Y        uint16 = 0x01
	ABS_Z        uint16 = 0x02
	ABS_RX       uint16 = 0x03
	ABS_RY       uint16 = 0x04
	ABS_RZ       uint16 = 0x05
	ABS_THROTTLE uint16 = 0x06
	ABS_WHEEL    uint16 = 0x08
	ABS_PRESSURE uint16 = 0x18
	ABS_DISTANCE uint16 = 0x19
	ABS_TILT_X   uint16 = 0x1a
	ABS_TILT_Y   uint16 = 0x1b
	ABS_TOOL_WIDTH uint16 = 0x1c
	ABS_MISC     uint16 = 0x28

	ABS_MT_SLOT        uint16 = 0x2f
	ABS_MT_TOUCH_MAJOR uint16 = 0x30
	ABS_MT_TOUCH_MINOR uint16 = 0x31
	ABS_MT_WIDTH_MAJOR uint16 = 0x32
	ABS_MT_ORIENTATION uint16 = 0x34
	ABS_MT_POSITION_X  uint16 = 0x35
	ABS_MT_POSITION_Y  uint16 = 0x36
	ABS_MT_TOOL_TYPE   uint16 = 0x37
	ABS_MT_TRACKING_ID uint16 = 0x39
	ABS_MT_PRESSURE    uint16 = 0x3a
	ABS_MT_DISTANCE    uint16 = 0x3b

	ABS_MAX uint16 = 0x3f
	ABS_CNT        = int(ABS_MAX) + 1
)

// EV_MSC codes.
const (
	MSC_SERIAL    uint16 = 0x00
	MSC_SCAN      uint16 = 0x04
	MSC_TIMESTAMP uint16 = 0x05
)

// Buttons.
const (
	BTN_MISC   uint16 = 0x100
	BTN_0      uint16 = 0x100
	BTN_1      uint16 = 0x101
	BTN_2      uint16 = 0x102
	BTN_3      uint16 = 0x103
	BTN_4      uint16 = 0x104
	BTN_5      uint16 = 0x105
	BTN_6      uint16 = 0x106
	BTN_7      uint16 = 0x107
	BTN_8      uint16 = 0x108
	BTN_9      uint16 = 0x109

	BTN_MOUSE   uint16 = 0x110
	BTN_LEFT    uint16 = 0x110
	BTN_RIGHT   uint16 = 0x111
	BTN_MIDDLE  uint16 = 0x112
	BTN_SIDE    uint16 = 0x113
	BTN_EXTRA   uint16 = 0x114
	BTN_FORWARD uint16 = 0x115
	BTN_BACK    uint16 = 0x116
	BTN_TASK    uint16 = 0x117

	BTN_TOOL_PEN      uint16 = 0x140
	BTN_TOOL_RUBBER   uint16 = 0x141
	BTN_TOOL_BRUSH    uint16 = 0x142
	BTN_TOOL_PENCIL   uint16 = 0x143
	BTN_TOOL_AIRBRUSH uint16 = 0x144
	BTN_TOOL_FINGER   uint16 = 0x145
	BTN_TOOL_MOUSE    uint16 = 0x146
	BTN_TOOL_LENS     uint16 = 0x147
	BTN_TOUCH         uint16 = 0x14a
	BTN_STYLUS        uint16 = 0x14b
	BTN_STYLUS2       uint16 = 0x14c
	BTN_TOOL_DOUBLETAP uint16 = 0x14d
	BTN_TOOL_TRIPLETAP uint16 = 0x14e
	BTN_TOOL_QUADTAP   uint16 = 0x14f
	BTN_TOOL_QUINTTAP  uint16 = 0x148
)

// Keys referenced by the remapper and the disable-while-typing interlock.
const (
	KEY_RESERVED  uint16 = 0
	KEY_ESC       uint16 = 1
	KEY_1         uint16 = 2
	KEY_2         uint16 = 3
	KEY_3         uint16 = 4
	KEY_4         uint16 = 5
	KEY_5         uint16 = 6
	KEY_6         uint16 = 7
	KEY_7         uint16 = 8
	KEY_8         uint16 = 9
	KEY_9         uint16 = 10
	KEY_0         uint16 = 11
	KEY_MINUS     uint16 = 12
	KEY_EQUAL     uint16 = 13
	KEY_BACKSPACE uint16 = 14
	KEY_TAB       uint16 = 15
	KEY_Q         uint16 = 16
	KEY_W         uint16 = 17
	KEY_E         uint16 = 18
	KEY_R         uint16 = 19
	KEY_T         uint16 = 20
	KEY_Y         uint16 = 21
	KEY_U         uint16 = 22
	KEY_I         uint16 = 23
	KEY_O         uint16 = 24
	KEY_P         uint16 = 25
	KEY_LEFTBRACE uint16 = 26
	KEY_RIGHTBRACE uint16 = 27
	KEY_ENTER     uint16 = 28
	KEY_LEFTCTRL  uint16 = 29
	KEY_A         uint16 = 30
	KEY_S         uint16 = 31
	KEY_D         uint16 = 32
	KEY_F         uint16 = 33
	KEY_G         uint16 = 34
	KEY_H         uint16 = 35
	KEY_J         uint16 = 36
	KEY_K         uint16 = 37
	KEY_L         uint16 = 38
	KEY_SEMICOLON uint16 = 39
	KEY_APOSTROPHE uint16 = 40
	KEY_GRAVE     uint16 = 41
	KEY_LEFTSHIFT uint16 = 42
	KEY_BACKSLASH uint16 = 43
	KEY_Z         uint16 = 44
	KEY_X         uint16 = 45
	KEY_C         uint16 = 46
	KEY_V         uint16 = 47
	KEY_B         uint16 = 48
	KEY_N         uint16 = 49
	KEY_M         uint16 = 50
	KEY_COMMA     uint16 = 51
	KEY_DOT       uint16 = 52
	KEY_SLASH     uint16 = 53
	KEY_RIGHTSHIFT uint16 = 54
	KEY_LEFTALT   uint16 = 56
	KEY_SPACE     uint16 = 57
	KEY_CAPSLOCK  uint16 = 58

	KEY_MAX uint16 = 0x2ff
	KEY_CNT        = int(KEY_MAX) + 1
)

// Input properties (INPUT_PROP_*).
const (
	PropPointer    uint32 = 0x00
	PropDirect     uint32 = 0x01
	PropButtonpad  uint32 = 0x02
	PropSemiMT     uint32 = 0x03
	PropTopButtonpad uint32 = 0x04
	PropPointingStick uint32 = 0x05
)

// IsButton reports whether code is in the BTN_* range.
func IsButton(code uint16) bool {
	return code >= BTN_MISC && code < BTN_TOOL_PEN ||
		code >= BTN_TOUCH && code < 0x160
}

// IsKey reports whether code is a keyboard key, not a button.
func IsKey(code uint16) bool {
	return code < BTN_MISC || code >= 0x160 && code <= KEY_MAX
}
