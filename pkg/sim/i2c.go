package sim

import (
	"github.com/JHooven/flappy-bird-fresh/pkg/hw"
	"github.com/JHooven/flappy-bird-fresh/pkg/hw/i2c"
)

// Target is a device attached to the modeled I2C bus.
type Target interface {
	// Ack reports whether the device answers its address.
	Ack() bool
	Start(read bool)
	WriteByte(b byte)
	ReadByte(last bool) byte
	Stop()
}

// I2CPort models the master peripheral's flag protocol and bridges it
// to attached targets. Flags come up immediately, so transfers never
// stall; an unattached or silent address raises the acknowledge
// failure flag.
type I2CPort struct {
	dev
	targets map[byte]Target

	cr1   uint32
	cr2   uint32
	ccr   uint32
	trise uint32

	started     bool
	awaitAddr   bool
	addrFlag    bool
	af          bool
	reading     bool
	stopPending bool
	cur         Target
}

// NewI2CPort creates the model at base.
func NewI2CPort(base hw.Addr) *I2CPort {
	return &I2CPort{dev: dev{"I2C1", base, 0x24}, targets: make(map[byte]Target)}
}

// Attach puts a target on the bus at addr.
func (p *I2CPort) Attach(addr byte, t Target) { p.targets[addr] = t }

// Read32 implements hw.Device.
func (p *I2CPort) Read32(off hw.Addr) uint32 {
	switch off {
	case 0x00:
		return p.cr1
	case 0x04:
		return p.cr2
	case 0x10:
		if p.reading && p.cur != nil {
			last := p.cr1&i2c.ACK == 0
			b := p.cur.ReadByte(last)
			if p.stopPending {
				p.release()
			}
			return uint32(b)
		}
		return 0
	case 0x14:
		v := uint32(i2c.TXE | i2c.BTF)
		if p.started {
			v |= i2c.SB
		}
		if p.addrFlag {
			v |= i2c.ADDR
		}
		if p.af {
			v |= i2c.AF
		}
		if p.reading && p.cur != nil {
			v |= i2c.RXNE
		}
		return v
	case 0x18:
		p.addrFlag = false
		return 0
	case 0x1c:
		return p.ccr
	case 0x20:
		return p.trise
	}
	return 0
}

// Write32 implements hw.Device.
func (p *I2CPort) Write32(off hw.Addr, val uint32) {
	switch off {
	case 0x00:
		if val&i2c.START != 0 {
			p.started, p.awaitAddr = true, true
		}
		if val&i2c.STOP != 0 {
			if p.reading && p.cur != nil {
				// a final byte is still in flight
				p.stopPending = true
			} else {
				p.release()
			}
		}
		p.cr1 = val &^ (i2c.START | i2c.STOP)
	case 0x04:
		p.cr2 = val
	case 0x10:
		if p.awaitAddr {
			p.awaitAddr, p.started = false, false
			t, ok := p.targets[byte(val>>1)]
			if !ok || !t.Ack() {
				p.af = true
				return
			}
			p.cur, p.reading = t, val&1 != 0
			t.Start(p.reading)
			p.addrFlag = true
			return
		}
		if p.cur != nil && !p.reading {
			p.cur.WriteByte(byte(val))
		}
	case 0x14:
		if val&i2c.AF == 0 {
			p.af = false
		}
	case 0x1c:
		p.ccr = val
	case 0x20:
		p.trise = val
	}
}

func (p *I2CPort) release() {
	if p.cur != nil {
		p.cur.Stop()
		p.cur = nil
	}
	p.reading, p.stopPending = false, false
}
