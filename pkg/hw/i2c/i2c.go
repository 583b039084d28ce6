// Package i2c provides transactions with devices on a shared serial bus.
package i2c

// A transaction is atomic from the caller's view: either the whole
// exchange completes, or an error is returned and nothing of the
// partial exchange is surfaced. Waits on bus signaling are bounded so
// a stalled bus cannot hang the control loop.
//
// Producer: peripheral device (sensor)
// Consumer: device driver

import "errors"

// Bus performs transactions with bus devices addressed by a 7-bit
// address.
type Bus interface {
	// Write sends buf to the device in one transaction.
	Write(addr byte, buf []byte) error
	// WriteRead sends w, then reads len(r) bytes from the device,
	// in one transaction with a repeated start.
	WriteRead(addr byte, w, r []byte) error
}

var (
	// ErrNack indicates the device did not acknowledge.
	ErrNack = errors.New("no ack")
	// ErrTimeout indicates the bus stalled beyond the bounded wait.
	ErrTimeout = errors.New("bus timeout")
)
