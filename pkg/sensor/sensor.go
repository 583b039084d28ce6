// Package sensor drives the MPU6050 motion sensor over the serial
// bus.
package sensor

import (
	"fmt"

	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw/i2c"
)

// Addr is the sensor's default 7-bit bus address (AD0 low).
const Addr byte = 0x68

// Registers
const (
	regGyroConfig  = 0x1b
	regAccelConfig = 0x1c
	regAccelXOutH  = 0x3b
	regPwrMgmt1    = 0x6b
	regWhoAmI      = 0x75
)

// whoAmI is the identity the part reports.
const whoAmI = 0x68

// DefaultRetries is how often a refused configure write is retried
// before giving up.
const DefaultRetries = 3

// Sample is one motion measurement: raw signed accelerations, 16384
// LSB per g at the default range. Produced by one bus transaction and
// owned by the caller; the driver retains nothing.
type Sample struct {
	X, Y, Z int16
}

// Driver reads the sensor over a transaction bus.
type Driver struct {
	Bus     i2c.Bus
	Addr    byte
	Retries int
}

// New creates a Driver on the default address.
func New(b i2c.Bus) *Driver {
	return &Driver{Bus: b, Addr: Addr, Retries: DefaultRetries}
}

// Configure checks the device identity and walks the register
// handshake in order: wake from sleep, default gyro range, default
// accel range. Refused writes retry up to Retries times; running out
// is a fatal configuration error.
func (d *Driver) Configure() error {
	id := make([]byte, 1)
	if err := d.Bus.WriteRead(d.Addr, []byte{regWhoAmI}, id); err != nil {
		return &hw.InitError{Periph: "mpu6050", Stage: "probe", Err: err}
	}
	if id[0] != whoAmI {
		return &hw.InitError{
			Periph: "mpu6050", Stage: "probe",
			Err: fmt.Errorf("unexpected identity %#02x", id[0]),
		}
	}

	handshake := []struct {
		reg, val byte
		stage    string
	}{
		{regPwrMgmt1, 0x00, "wake"},
		{regGyroConfig, 0x00, "gyro range"},
		{regAccelConfig, 0x00, "accel range"},
	}
	for _, h := range handshake {
		if err := d.write(h.reg, h.val); err != nil {
			return &hw.InitError{Periph: "mpu6050", Stage: h.stage, Err: err}
		}
	}
	return nil
}

func (d *Driver) write(reg, val byte) error {
	var err error
	for i := 0; i <= d.Retries; i++ {
		if err = d.Bus.Write(d.Addr, []byte{reg, val}); err == nil {
			return nil
		}
	}
	return err
}

// ReadSample reads the three acceleration axes as one atomic burst.
// The sample registers are big endian, high byte first, two's
// complement. A refused or stalled transaction surfaces unchanged and
// never yields a partial sample.
func (d *Driver) ReadSample() (Sample, error) {
	buf := make([]byte, 6)
	if err := d.Bus.WriteRead(d.Addr, []byte{regAccelXOutH}, buf); err != nil {
		return Sample{}, err
	}
	return Sample{
		X: int16(uint16(buf[0])<<8 | uint16(buf[1])),
		Y: int16(uint16(buf[2])<<8 | uint16(buf[3])),
		Z: int16(uint16(buf[4])<<8 | uint16(buf[5])),
	}, nil
}
