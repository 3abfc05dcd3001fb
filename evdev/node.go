package evdev

import (
	"path/filepath"
	"strings"

	holoevdev "github.com/holoplot/go-evdev"
	"github.com/juju/errors"
)

// DeviceInfo is the static description of one device node: identity,
// capability bits and axis ranges, everything the dispatch classifier
// needs before the first input record arrives. Tests build these by
// hand; the path backend fills them from the kernel via ioctl.
type DeviceInfo struct {
	Sysname string // "event7"
	Path    string // "/dev/input/event7"
	Name    string
	Phys    string
	Bus     uint16
	Vendor  uint16
	Product uint16
	Version uint16

	Abs   map[uint16]AbsInfo
	Keys  map[uint16]bool
	Rels  map[uint16]bool
	Props map[uint32]bool

	// KeyState holds keys already down at open time. A tablet tool in
	// proximity at enumeration shows up here.
	KeyState map[uint16]bool
}

func (self *DeviceInfo) HasAbs(code uint16) bool  { _, ok := self.Abs[code]; return ok }
func (self *DeviceInfo) HasKey(code uint16) bool  { return self.Keys[code] }
func (self *DeviceInfo) HasRel(code uint16) bool  { return self.Rels[code] }
func (self *DeviceInfo) HasProp(prop uint32) bool { return self.Props[prop] }

func (self *DeviceInfo) AbsRange(code uint16) AbsInfo { return self.Abs[code] }

// WidthMM returns the physical width of the x axis, 0 when the kernel
// reports no resolution.
func (self *DeviceInfo) WidthMM() float64 {
	a, ok := self.Abs[ABS_X]
	if !ok || a.Resolution <= 0 {
		return 0
	}
	return a.Range() / float64(a.Resolution)
}

func (self *DeviceInfo) HeightMM() float64 {
	a, ok := self.Abs[ABS_Y]
	if !ok || a.Resolution <= 0 {
		return 0
	}
	return a.Range() / float64(a.Resolution)
}

// ScanNode queries one /dev/input node for identity and capabilities.
// The node is opened read-only and closed before return; streaming runs
// over the host-provided restricted fd instead.
func ScanNode(path string) (*DeviceInfo, error) {
	d, err := holoevdev.Open(path)
	if err != nil {
		return nil, errors.Annotatef(err, "evdev scan path=%s", path)
	}
	defer d.Close()

	info := &DeviceInfo{
		Sysname: filepath.Base(path),
		Path:    path,
		Abs:     make(map[uint16]AbsInfo),
		Keys:    make(map[uint16]bool),
		Rels:    make(map[uint16]bool),
		Props:   make(map[uint32]bool),
		KeyState: make(map[uint16]bool),
	}
	info.Name, _ = d.Name()
	info.Phys, _ = d.PhysicalLocation()
	if id, err := d.InputID(); err == nil {
		info.Bus = id.BusType
		info.Vendor = id.Vendor
		info.Product = id.Product
		info.Version = id.Version
	}

	for _, t := range d.CapableTypes() {
		switch uint16(t) {
		case EV_ABS:
			if infos, err := d.AbsInfos(); err == nil {
				for code, ai := range infos {
					info.Abs[uint16(code)] = AbsInfo{
						Value:      ai.Value,
						Minimum:    ai.Minimum,
						Maximum:    ai.Maximum,
						Fuzz:       ai.Fuzz,
						Flat:       ai.Flat,
						Resolution: ai.Resolution,
					}
				}
			}
		case EV_KEY:
			for _, code := range d.CapableEvents(t) {
				info.Keys[uint16(code)] = true
			}
			if st, err := d.State(t); err == nil {
				for code, down := range st {
					if down {
						info.KeyState[uint16(code)] = true
					}
				}
			}
		case EV_REL:
			for _, code := range d.CapableEvents(t) {
				info.Rels[uint16(code)] = true
			}
		}
	}
	for _, p := range d.Properties() {
		info.Props[uint32(p)] = true
	}
	return info, nil
}

// IsEventNode reports whether name looks like an evdev node ("eventN").
func IsEventNode(name string) bool {
	if !strings.HasPrefix(name, "event") {
		return false
	}
	rest := name[len("event"):]
	if rest == "" {
		return false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
