package evdev

import (
	"io"

	"github.com/juju/errors"
	inputevent "github.com/temoto/inputevent-go"
)

// AbsInfo mirrors the kernel input_absinfo for one ABS_* axis.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// Range returns max-min as float64, at least 1 to keep divisions safe.
func (self AbsInfo) Range() float64 {
	r := float64(self.Maximum - self.Minimum)
	if r <= 0 {
		return 1
	}
	return r
}

// Normalize maps value into [0,1] over the axis range.
func (self AbsInfo) Normalize(value int32) float64 {
	return float64(value-self.Minimum) / self.Range()
}

// Frame is one SYN_REPORT-delimited group of kernel events.
// Time is the SYN_REPORT timestamp in milliseconds of the kernel
// monotonic clock.
type Frame struct {
	Time   uint64
	Events []inputevent.InputEvent
}

func eventMillis(ie inputevent.InputEvent) uint64 {
	return uint64(ie.Time.Sec)*1000 + uint64(ie.Time.Usec)/1000
}

// FrameReader assembles frames from a raw evdev record stream.
type FrameReader struct {
	r       io.Reader
	pending []inputevent.InputEvent
}

func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r, pending: make([]inputevent.InputEvent, 0, 32)}
}

// ReadFrame blocks until a full SYN_REPORT-terminated frame is available.
// A SYN_DROPPED record poisons the pending batch; the partial frame is
// discarded and assembly restarts at the next SYN_REPORT.
func (self *FrameReader) ReadFrame() (Frame, error) {
	dropped := false
	for {
		ie, err := inputevent.ReadOne(self.r)
		if err != nil {
			return Frame{}, errors.Trace(err)
		}
		if ie.Type == EV_SYN {
			switch ie.Code {
			case SYN_DROPPED:
				dropped = true
				self.pending = self.pending[:0]
			case SYN_REPORT:
				if dropped {
					dropped = false
					continue
				}
				f := Frame{
					Time:   eventMillis(ie),
					Events: append([]inputevent.InputEvent(nil), self.pending...),
				}
				self.pending = self.pending[:0]
				return f, nil
			}
			continue
		}
		if !dropped {
			self.pending = append(self.pending, ie)
		}
	}
}

// NewEvent builds a kernel record with a millisecond timestamp, used by
// tests and by synthetic cancel frames.
func NewEvent(millis uint64, typ, code uint16, value int32) inputevent.InputEvent {
	ie := inputevent.InputEvent{Type: typ, Code: code, Value: value}
	ie.Time.Sec = int64(millis / 1000)
	ie.Time.Usec = int64(millis%1000) * 1000
	return ie
}

// NewFrame builds a frame from loose records, stamping Time.
func NewFrame(millis uint64, events ...inputevent.InputEvent) Frame {
	return Frame{Time: millis, Events: events}
}
