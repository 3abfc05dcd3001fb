// Package quirks carries per-model device overrides that cannot be
// probed from the kernel: sensor DPI, palm detector exclusions and
// disable-while-typing exclusions. Overrides are read from HCL files
// and merged over a small built-in table.
package quirks

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl"
	"github.com/juju/errors"

	"github.com/semafor/evseat/log2"
)

type Match struct {
	// Name is a filepath.Match pattern against the kernel device name;
	// '*' also matches '/'.
	Name    string `hcl:"name"`
	Bus     int    `hcl:"bus"`
	Vendor  int    `hcl:"vendor"`
	Product int    `hcl:"product"`
}

type Entry struct {
	Model string `hcl:"model,key"`
	Match Match  `hcl:"match"`

	DPI           int  `hcl:"dpi"`
	PalmDetectOff bool `hcl:"palm_detect_off"`
	DWTOff        bool `hcl:"dwt_off"`
}

// Quirk is the merged result of every entry matching one device.
type Quirk struct {
	DPI           int
	PalmDetectOff bool
	DWTOff        bool
}

const DefaultDPI = 1000

type Table struct {
	log     *log2.Log
	entries []Entry
}

type fileConfig struct {
	Models []Entry `hcl:"model"`
}

// builtin covers hardware we know misreports or lacks properties.
// External files extend and override this list.
var builtin = []Entry{
	{Model: "wacom-tablets", Match: Match{Vendor: 0x056a}, PalmDetectOff: true},
	{Model: "apple-magic-trackpad", Match: Match{Vendor: 0x05ac}, DPI: 1300},
	{Model: "lenovo-pointing-stick", Match: Match{Name: "*TrackPoint*"}, DPI: 800},
	{Model: "elan-small-pad", Match: Match{Name: "Elan Touchpad", Vendor: 0x04f3}, PalmDetectOff: true},
}

func New(log *log2.Log) *Table {
	return &Table{log: log, entries: append([]Entry(nil), builtin...)}
}

// Load merges entries from an HCL file. A missing file is not an
// error so hosts may ship an optional override path.
func (self *Table) Load(path string) error {
	bs, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		self.log.Debugf("quirks: no file at %s", path)
		return nil
	}
	if err != nil {
		return errors.Annotatef(err, "quirks read %s", path)
	}
	var fc fileConfig
	if err = hcl.Unmarshal(bs, &fc); err != nil {
		return errors.Annotatef(err, "quirks unmarshal %s", path)
	}
	self.entries = append(self.entries, fc.Models...)
	self.log.Debugf("quirks: loaded %d models from %s", len(fc.Models), path)
	return nil
}

func (self *Match) matches(name string, bus, vendor, product uint16) bool {
	if self.Name != "" {
		// Device names such as "TPPS/2 ..." contain '/', which
		// filepath.Match never lets '*' cross; swap it out on both sides.
		pattern := strings.ReplaceAll(self.Name, "/", "\x00")
		if ok, err := filepath.Match(pattern, strings.ReplaceAll(name, "/", "\x00")); err != nil || !ok {
			return false
		}
	}
	if self.Bus != 0 && self.Bus != int(bus) {
		return false
	}
	if self.Vendor != 0 && self.Vendor != int(vendor) {
		return false
	}
	if self.Product != 0 && self.Product != int(product) {
		return false
	}
	return self.Name != "" || self.Bus != 0 || self.Vendor != 0 || self.Product != 0
}

// Lookup merges all matching entries in declaration order, later
// entries winning per field.
func (self *Table) Lookup(name string, bus, vendor, product uint16) Quirk {
	q := Quirk{DPI: DefaultDPI}
	for i := range self.entries {
		e := &self.entries[i]
		if !e.Match.matches(name, bus, vendor, product) {
			continue
		}
		if e.DPI != 0 {
			q.DPI = e.DPI
		}
		if e.PalmDetectOff {
			q.PalmDetectOff = true
		}
		if e.DWTOff {
			q.DWTOff = true
		}
	}
	return q
}
