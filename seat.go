package evseat

import "github.com/juju/errors"

// Seat groups devices whose input lands on the same logical desk.
// Physical name is fixed at creation; the logical name may move a
// device between seats (remove then re-add of the device).
type Seat struct {
	PhysicalName string
	LogicalName  string

	refcount int

	// Pressed counters per code, seat-wide. Incremented on the
	// transition to pressed, decremented on release; a key held on two
	// keyboards of the same seat counts 2.
	keyCounts    map[uint16]uint32
	buttonCounts map[uint16]uint32

	// Dense touch slot allocator shared by every touch device on the
	// seat. Bit i set = seat slot i in use.
	slotMap uint64
}

func newSeat(physical, logical string) *Seat {
	return &Seat{
		PhysicalName: physical,
		LogicalName:  logical,
		refcount:     1,
		keyCounts:    make(map[uint16]uint32),
		buttonCounts: make(map[uint16]uint32),
	}
}

func (self *Seat) ref()   { self.refcount++ }
func (self *Seat) unref() { self.refcount-- }

func (self *Seat) KeyCount(code uint16) uint32    { return self.keyCounts[code] }
func (self *Seat) ButtonCount(code uint16) uint32 { return self.buttonCounts[code] }

func (self *Seat) updateKeyCount(code uint16, state KeyState) uint32 {
	switch state {
	case KeyStatePressed:
		self.keyCounts[code]++
	case KeyStateReleased:
		if self.keyCounts[code] > 0 {
			self.keyCounts[code]--
		}
	}
	return self.keyCounts[code]
}

func (self *Seat) updateButtonCount(code uint16, state ButtonState) uint32 {
	switch state {
	case ButtonStatePressed:
		self.buttonCounts[code]++
	case ButtonStateReleased:
		if self.buttonCounts[code] > 0 {
			self.buttonCounts[code]--
		}
	}
	return self.buttonCounts[code]
}

// allocSlot hands out the lowest free seat slot index.
func (self *Seat) allocSlot() (int32, error) {
	for i := 0; i < 64; i++ {
		if self.slotMap&(1<<uint(i)) == 0 {
			self.slotMap |= 1 << uint(i)
			return int32(i), nil
		}
	}
	return -1, errors.Errorf("seat %s/%s touch slots exhausted", self.PhysicalName, self.LogicalName)
}

func (self *Seat) freeSlot(slot int32) {
	if slot < 0 || slot >= 64 {
		return
	}
	self.slotMap &^= 1 << uint(slot)
}
