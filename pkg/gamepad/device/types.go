package device

import "io"

// Event is one state change reported by the kernel joystick driver,
// in the wire layout of struct js_event.
type Event struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

// IsInit indicates the event reports initial state instead of a
// change.
func (e Event) IsInit() bool { return e.Type&evInit != 0 }

// IsAxis indicates an axis movement.
func (e Event) IsAxis() bool { return e.Type&evAxis != 0 }

// IsButton indicates a button change.
func (e Event) IsButton() bool { return e.Type&evButton != 0 }

// Pressed indicates the button state for button events.
func (e Event) Pressed() bool { return e.Value != 0 }

// Index is the axis or button number.
func (e Event) Index() int { return int(e.Number) }

const (
	evInit   uint8 = 0x80
	evButton uint8 = 0x01
	evAxis   uint8 = 0x02
)

// Device represents an opened gamepad.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the device name the kernel reports.
	Name() string
	// AxisCount returns the number of axes.
	AxisCount() int
	// ButtonCount returns the number of buttons.
	ButtonCount() int
	// ReadEvent blocks for the next event.
	ReadEvent() (Event, error)
}
