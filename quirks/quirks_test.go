package quirks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semafor/evseat/log2"
)

func newTable(t testing.TB) *Table {
	return New(log2.NewTest(t, log2.LDebug))
}

func TestLookupDefault(t *testing.T) {
	t.Parallel()
	q := newTable(t).Lookup("Generic Mouse", 0x03, 0x1234, 0x5678)
	assert.Equal(t, DefaultDPI, q.DPI)
	assert.False(t, q.PalmDetectOff)
	assert.False(t, q.DWTOff)
}

func TestLookupBuiltin(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	q := tbl.Lookup("Wacom Intuos Pro", 0x03, 0x056a, 0x0001)
	assert.True(t, q.PalmDetectOff)
	assert.Equal(t, DefaultDPI, q.DPI)

	q = tbl.Lookup("Magic Trackpad", 0x05, 0x05ac, 0x0265)
	assert.Equal(t, 1300, q.DPI)

	q = tbl.Lookup("TPPS/2 IBM TrackPoint", 0x11, 0x0002, 0x000a)
	assert.Equal(t, 800, q.DPI)
}

func TestLookupNeedsEveryCriterion(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)

	// The Elan entry wants both the exact name and the vendor.
	q := tbl.Lookup("Elan Touchpad", 0x18, 0x04f3, 0x0001)
	assert.True(t, q.PalmDetectOff)

	q = tbl.Lookup("Elan Touchpad", 0x18, 0x1111, 0x0001)
	assert.False(t, q.PalmDetectOff)

	q = tbl.Lookup("Other Touchpad", 0x18, 0x04f3, 0x0001)
	assert.False(t, q.PalmDetectOff)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	tbl := newTable(t)
	require.NoError(t, tbl.Load(filepath.Join(t.TempDir(), "nope.hcl")))
}

func TestLoadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "local.hcl")
	src := `
model "fancy-mouse" {
  match {
    name = "Fancy Mouse*"
  }
  dpi = 2000
  dwt_off = true
}
model "apple-override" {
  match {
    vendor = 1452
  }
  dpi = 1500
}
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	tbl := newTable(t)
	require.NoError(t, tbl.Load(path))

	q := tbl.Lookup("Fancy Mouse 3000", 0x03, 0x9999, 0x0001)
	assert.Equal(t, 2000, q.DPI)
	assert.True(t, q.DWTOff)

	// File entries merge after the builtin table and win per field.
	q = tbl.Lookup("Magic Trackpad", 0x05, 0x05ac, 0x0265)
	assert.Equal(t, 1500, q.DPI)

	q = tbl.Lookup("Generic Mouse", 0x03, 0x1234, 0x5678)
	assert.Equal(t, DefaultDPI, q.DPI)
}

func TestLoadBadFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "broken.hcl")
	require.NoError(t, os.WriteFile(path, []byte("model {{{"), 0644))
	require.Error(t, newTable(t).Load(path))
}
